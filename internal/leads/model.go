package leads

import (
	"strings"
	"time"

	"github.com/chatleadhq/chatlead-platform/internal/entity"
)

// Lead statuses form an ordered funnel; lost is reachable from any
// non-converted status.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusLost      = "lost"
)

var statusOrder = map[string]int{
	StatusNew:       0,
	StatusContacted: 1,
	StatusQualified: 2,
	StatusConverted: 3,
}

// ValidStatus reports whether s is a known lead status.
func ValidStatus(s string) bool {
	if s == StatusLost {
		return true
	}
	_, ok := statusOrder[s]
	return ok
}

// CanTransition reports whether a lead may move from one status to the
// next. Forward moves of exactly one step are allowed; converted is
// terminal; lost is reachable from any non-converted status.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) || from == to {
		return false
	}
	if from == StatusConverted || from == StatusLost {
		return false
	}
	if to == StatusLost {
		return true
	}
	return statusOrder[to] == statusOrder[from]+1
}

// Lead is a sales opportunity derived from a processed message. Entity
// fields are copied in by value; the originating message is referenced by
// MessageID.
type Lead struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"org_id"`
	MessageID     string    `json:"message_id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	ServiceType   string    `json:"service_type"`
	Channel       string    `json:"channel"`
	Score         int       `json:"score"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateLeadRequest carries everything needed to derive a lead from a
// processed message.
type CreateLeadRequest struct {
	OrgID     string
	MessageID string
	Channel   string
	Entities  entity.Record
}

// Validate checks required fields before persistence.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.OrgID) == "" {
		return ErrMissingOrgID
	}
	if strings.TrimSpace(r.MessageID) == "" {
		return ErrMissingMessageID
	}
	return nil
}

// ListLeadsFilter narrows lead listings.
type ListLeadsFilter struct {
	Status string
	Limit  int
	Offset int
}
