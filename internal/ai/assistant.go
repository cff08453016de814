package ai

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

const fetchStageLimit = 3

// Assistant generates customer-facing replies. Booking and inquiry messages
// go through a four-stage chain (understand, fetch, draft, refine); anything
// else gets a single-shot reply conditioned on language and intent.
type Assistant struct {
	client    Client
	knowledge KnowledgeStore
	logger    *logging.Logger
	tracer    trace.Tracer
}

// NewAssistant creates an assistant. knowledge may be nil, in which case the
// fetch stage contributes nothing.
func NewAssistant(client Client, knowledge KnowledgeStore, logger *logging.Logger) *Assistant {
	if logger == nil {
		logger = logging.Default()
	}
	return &Assistant{
		client:    client,
		knowledge: knowledge,
		logger:    logger,
		tracer:    otel.Tracer("chatlead.internal.ai"),
	}
}

// SingleReply produces a one-shot response for non-booking intents.
func (a *Assistant) SingleReply(ctx context.Context, orgID, lang, intent, content string) (string, error) {
	ctx, span := a.tracer.Start(ctx, "ai.single_reply")
	defer span.End()

	langName := "English"
	if lang == "bm" {
		langName = "Bahasa Malaysia"
	}

	prompt := fmt.Sprintf(
		"You are a helpful customer service assistant. The customer wrote in %s with intent %q. Reply in the same language, briefly and politely.\n\nCustomer message: %s",
		langName, intent, content,
	)

	resp, err := a.client.Complete(ctx, Request{
		Messages:  []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens: 300,
	})
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("ai: single reply: %w", err)
	}
	return resp.Text, nil
}

// ChainedReply runs the understand, fetch, draft, refine stages in sequence
// and returns the refine stage's text.
func (a *Assistant) ChainedReply(ctx context.Context, orgID, lang, intent, content string) (string, error) {
	ctx, span := a.tracer.Start(ctx, "ai.chained_reply")
	defer span.End()

	// Stage 1: understand what the customer wants.
	understanding, err := a.complete(ctx, fmt.Sprintf(
		"Summarize in one sentence what this customer wants. Customer message: %s", content))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("ai: understand stage: %w", err)
	}

	// Stage 2: fetch relevant org knowledge. An empty corpus is not an error.
	var facts []string
	if a.knowledge != nil {
		facts, err = a.knowledge.Search(ctx, orgID, understanding, fetchStageLimit)
		if err != nil {
			span.RecordError(err)
			return "", fmt.Errorf("ai: fetch stage: %w", err)
		}
	}

	factBlock := "No business knowledge available."
	if len(facts) > 0 {
		factBlock = strings.Join(facts, "\n")
	}

	// Stage 3: draft a reply grounded on the fetched facts.
	draft, err := a.complete(ctx, fmt.Sprintf(
		"Draft a reply to the customer.\nCustomer request: %s\nBusiness knowledge:\n%s", understanding, factBlock))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("ai: draft stage: %w", err)
	}

	langName := "English"
	if lang == "bm" {
		langName = "Bahasa Malaysia"
	}

	// Stage 4: refine tone and language. This text is what the customer sees.
	refined, err := a.complete(ctx, fmt.Sprintf(
		"Rewrite this reply so it is short, friendly and in %s. Keep all concrete details.\n\nDraft: %s", langName, draft))
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("ai: refine stage: %w", err)
	}

	return refined, nil
}

func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.Complete(ctx, Request{
		Messages:  []ChatMessage{{Role: ChatRoleUser, Content: prompt}},
		MaxTokens: 400,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}
