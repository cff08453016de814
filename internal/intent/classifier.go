// Package intent classifies inbound messages into a fixed label set by
// delegating to the external generation service.
package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatleadhq/chatlead-platform/internal/ai"
)

const (
	IntentBooking   = "booking"
	IntentInquiry   = "inquiry"
	IntentComplaint = "complaint"
	IntentFeedback  = "feedback"
	IntentGeneral   = "general"
)

// validIntents is the closed label set. Anything else the model returns is
// coerced to general.
var validIntents = map[string]struct{}{
	IntentBooking:   {},
	IntentInquiry:   {},
	IntentComplaint: {},
	IntentFeedback:  {},
	IntentGeneral:   {},
}

// classifierPrompt asks for exactly one label, no prose.
const classifierPrompt = `Classify this customer message into ONE intent. Respond with only the intent word, nothing else.

Intents:
- booking: wants to book, reschedule or cancel an appointment
- inquiry: asks about services, prices, availability or opening hours
- complaint: unhappy about a product, service or experience
- feedback: compliments or suggestions
- general: anything else

Message: %s`

// The model gives no usable certainty signal, so every classification
// carries the same confidence.
const fixedConfidence = 0.85

// Classification is the result of intent classification.
type Classification struct {
	Intent     string  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classifier maps free text to an intent label via the AI collaborator.
type Classifier struct {
	client ai.Client
}

// NewClassifier creates a classifier on the given AI client.
func NewClassifier(client ai.Client) *Classifier {
	return &Classifier{client: client}
}

// Classify returns the intent for text. An upstream failure is returned to
// the caller unretried; the caller decides what to do with it.
func (c *Classifier) Classify(ctx context.Context, text string) (Classification, error) {
	resp, err := c.client.Complete(ctx, ai.Request{
		Messages:  []ai.ChatMessage{{Role: ai.ChatRoleUser, Content: fmt.Sprintf(classifierPrompt, text)}},
		MaxTokens: 10,
	})
	if err != nil {
		return Classification{}, fmt.Errorf("intent: classify: %w", err)
	}

	return Classification{Intent: Normalize(resp.Text), Confidence: fixedConfidence}, nil
}

// Normalize lower-cases and trims a model label, coercing anything outside
// the fixed set to general.
func Normalize(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if _, ok := validIntents[label]; ok {
		return label
	}
	return IntentGeneral
}

// IsLeadWorthy reports whether messages with this intent derive a Lead.
func IsLeadWorthy(intent string) bool {
	return intent == IntentBooking || intent == IntentInquiry
}
