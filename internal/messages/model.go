// Package messages persists inbound customer messages and their processing
// results.
package messages

import (
	"strings"
	"time"

	"github.com/chatleadhq/chatlead-platform/internal/entity"
)

// Processing statuses. A message is created as processing and finalized
// exactly once as completed or failed.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Supported inbound channels.
const (
	ChannelWhatsApp  = "whatsapp"
	ChannelTelegram  = "telegram"
	ChannelFacebook  = "facebook"
	ChannelInstagram = "instagram"
	ChannelEmail     = "email"
)

var validChannels = map[string]struct{}{
	ChannelWhatsApp:  {},
	ChannelTelegram:  {},
	ChannelFacebook:  {},
	ChannelInstagram: {},
	ChannelEmail:     {},
}

// ValidChannel reports whether ch is a supported channel type.
func ValidChannel(ch string) bool {
	_, ok := validChannels[ch]
	return ok
}

// Message is an inbound customer message and everything derived from it.
// After creation it is mutated exactly twice: once with the analysis fields
// and once to finalize the status.
type Message struct {
	ID          string         `json:"id"`
	OrgID       string         `json:"org_id"`
	Channel     string         `json:"channel"`
	ChannelID   string         `json:"channel_id,omitempty"`
	ExternalID  string         `json:"external_id,omitempty"`
	Sender      string         `json:"sender"`
	Content     string         `json:"content"`
	Language    string         `json:"language,omitempty"`
	Intent      string         `json:"intent,omitempty"`
	Entities    *entity.Record `json:"entities,omitempty"`
	Response    string         `json:"response,omitempty"`
	LeadID      string         `json:"lead_id,omitempty"`
	Status      string         `json:"status"`
	ErrorDetail string         `json:"error_detail,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// CreateMessageRequest carries the fields known at ingestion time.
type CreateMessageRequest struct {
	OrgID      string
	Channel    string
	ChannelID  string
	ExternalID string
	Sender     string
	Content    string
}

// Validate checks required ingestion fields.
func (r *CreateMessageRequest) Validate() error {
	if strings.TrimSpace(r.OrgID) == "" {
		return ErrMissingOrgID
	}
	if !ValidChannel(r.Channel) {
		return ErrInvalidChannel
	}
	if strings.TrimSpace(r.Sender) == "" {
		return ErrMissingSender
	}
	if strings.TrimSpace(r.Content) == "" {
		return ErrMissingContent
	}
	return nil
}

// Analysis bundles the first-mutation fields derived by the pipeline.
type Analysis struct {
	Language string
	Intent   string
	Entities entity.Record
}

// ListMessagesFilter narrows message listings.
type ListMessagesFilter struct {
	Limit  int
	Offset int
}
