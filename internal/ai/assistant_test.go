package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedClient returns canned responses in order and records prompts.
type scriptedClient struct {
	replies []string
	err     error
	prompts []string
}

func (c *scriptedClient) Complete(ctx context.Context, req Request) (Response, error) {
	c.prompts = append(c.prompts, req.Messages[len(req.Messages)-1].Content)
	if c.err != nil {
		return Response{}, c.err
	}
	idx := len(c.prompts) - 1
	if idx >= len(c.replies) {
		idx = len(c.replies) - 1
	}
	return Response{Text: c.replies[idx]}, nil
}

type staticKnowledge struct {
	docs    []string
	queries []string
}

func (k *staticKnowledge) Ingest(ctx context.Context, orgID string, docs []string) (int, error) {
	return 0, nil
}

func (k *staticKnowledge) Search(ctx context.Context, orgID, query string, limit int) ([]string, error) {
	k.queries = append(k.queries, query)
	return k.docs, nil
}

func TestChainedReplyRunsAllStages(t *testing.T) {
	client := &scriptedClient{replies: []string{
		"customer wants a haircut booking",
		"draft reply text",
		"final refined reply",
	}}
	knowledge := &staticKnowledge{docs: []string{"Haircuts cost RM50"}}
	assistant := NewAssistant(client, knowledge, nil)

	got, err := assistant.ChainedReply(context.Background(), "org-1", "en", "booking", "I want a haircut on Friday")
	if err != nil {
		t.Fatalf("ChainedReply failed: %v", err)
	}
	if got != "final refined reply" {
		t.Errorf("reply = %q, want final refined reply", got)
	}
	if len(client.prompts) != 3 {
		t.Fatalf("expected 3 model calls (understand, draft, refine), got %d", len(client.prompts))
	}
	if len(knowledge.queries) != 1 || !strings.Contains(knowledge.queries[0], "haircut booking") {
		t.Errorf("fetch stage should search with the understanding text, got %v", knowledge.queries)
	}
	if !strings.Contains(client.prompts[1], "Haircuts cost RM50") {
		t.Errorf("draft prompt should include fetched knowledge, got %q", client.prompts[1])
	}
	if !strings.Contains(client.prompts[2], "draft reply text") {
		t.Errorf("refine prompt should include the draft, got %q", client.prompts[2])
	}
}

func TestChainedReplyWithoutKnowledgeStore(t *testing.T) {
	client := &scriptedClient{replies: []string{"summary", "draft", "refined"}}
	assistant := NewAssistant(client, nil, nil)

	got, err := assistant.ChainedReply(context.Background(), "org-1", "bm", "inquiry", "berapa harga?")
	if err != nil {
		t.Fatalf("ChainedReply failed: %v", err)
	}
	if got != "refined" {
		t.Errorf("reply = %q", got)
	}
	if !strings.Contains(client.prompts[2], "Bahasa Malaysia") {
		t.Errorf("refine prompt should ask for Bahasa Malaysia, got %q", client.prompts[2])
	}
}

func TestChainedReplyPropagatesModelError(t *testing.T) {
	client := &scriptedClient{err: errors.New("upstream down")}
	assistant := NewAssistant(client, nil, nil)

	if _, err := assistant.ChainedReply(context.Background(), "org-1", "en", "booking", "book me"); err == nil {
		t.Fatal("expected error from failing model")
	}
}

func TestSingleReply(t *testing.T) {
	client := &scriptedClient{replies: []string{"thanks for the feedback!"}}
	assistant := NewAssistant(client, nil, nil)

	got, err := assistant.SingleReply(context.Background(), "org-1", "en", "feedback", "great service")
	if err != nil {
		t.Fatalf("SingleReply failed: %v", err)
	}
	if got != "thanks for the feedback!" {
		t.Errorf("reply = %q", got)
	}
	if len(client.prompts) != 1 {
		t.Fatalf("expected a single model call, got %d", len(client.prompts))
	}
	if !strings.Contains(client.prompts[0], `"feedback"`) {
		t.Errorf("prompt should mention the intent, got %q", client.prompts[0])
	}
}
