package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chatleadhq/chatlead-platform/internal/ai"
)

const extractorPrompt = `Extract booking details from this customer message. Respond with JSON only, using exactly these keys (empty string when a detail is absent):

{"name": "", "phone": "", "email": "", "date": "", "time": "", "service_type": "", "intent": ""}

Message: %s`

// Extractor asks the AI collaborator for a structured record.
type Extractor struct {
	client ai.Client
}

// NewExtractor creates an extractor on the given AI client.
func NewExtractor(client ai.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract requests entity fields for text. A failed upstream call is an
// error; a malformed reply is not — it downgrades to a raw record so the
// pipeline never blocks on bad model output.
func (e *Extractor) Extract(ctx context.Context, text string) (Record, error) {
	resp, err := e.client.Complete(ctx, ai.Request{
		Messages:  []ai.ChatMessage{{Role: ai.ChatRoleUser, Content: fmt.Sprintf(extractorPrompt, text)}},
		MaxTokens: 200,
	})
	if err != nil {
		return Record{}, fmt.Errorf("entity: extract: %w", err)
	}

	return Parse(resp.Text), nil
}

// Parse locates the first {...} substring of a model reply and decodes it.
// Anything that fails to decode becomes a raw-kind record holding the full
// reply.
func Parse(reply string) Record {
	content := strings.TrimSpace(reply)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end <= start {
		return Record{Kind: KindRaw, Raw: reply}
	}

	var fields struct {
		Name        string `json:"name"`
		Phone       string `json:"phone"`
		Email       string `json:"email"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		ServiceType string `json:"service_type"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &fields); err != nil {
		return Record{Kind: KindRaw, Raw: reply}
	}

	return Record{
		Kind:        KindStructured,
		Name:        fields.Name,
		Phone:       fields.Phone,
		Email:       fields.Email,
		Date:        fields.Date,
		Time:        fields.Time,
		ServiceType: fields.ServiceType,
	}
}
