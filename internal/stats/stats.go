package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/chatleadhq/chatlead-platform/internal/messages"
)

// Period keywords accepted by the overview endpoint.
const (
	PeriodToday = "today"
	PeriodWeek  = "week"
	PeriodMonth = "month"
)

// Snapshot is an aggregate view over an organization's messages for a period.
type Snapshot struct {
	Period               string         `json:"period"`
	Since                time.Time      `json:"since"`
	Total                int            `json:"total"`
	ByStatus             map[string]int `json:"by_status"`
	ByIntent             map[string]int `json:"by_intent"`
	ByLanguage           map[string]int `json:"by_language"`
	ByChannel            map[string]int `json:"by_channel"`
	AvgProcessingSeconds float64        `json:"avg_processing_seconds"`
}

// PeriodStart maps a period keyword to its start timestamp relative to now.
// Unknown or empty periods fall back to week.
func PeriodStart(period string, now time.Time) (string, time.Time) {
	now = now.UTC()
	switch period {
	case PeriodToday:
		return PeriodToday, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	case PeriodMonth:
		return PeriodMonth, now.AddDate(0, -1, 0)
	case PeriodWeek:
		return PeriodWeek, now.AddDate(0, 0, -7)
	default:
		return PeriodWeek, now.AddDate(0, 0, -7)
	}
}

// Reduce folds a message list into a Snapshot. AvgProcessingSeconds is a
// reserved field and always reports 0.
func Reduce(period string, since time.Time, msgs []*messages.Message) *Snapshot {
	snap := &Snapshot{
		Period:     period,
		Since:      since,
		Total:      len(msgs),
		ByStatus:   make(map[string]int),
		ByIntent:   make(map[string]int),
		ByLanguage: make(map[string]int),
		ByChannel:  make(map[string]int),
	}
	for _, m := range msgs {
		snap.ByStatus[m.Status]++
		if m.Intent != "" {
			snap.ByIntent[m.Intent]++
		}
		if m.Language != "" {
			snap.ByLanguage[m.Language]++
		}
		if m.Channel != "" {
			snap.ByChannel[m.Channel]++
		}
	}
	return snap
}

// Service computes message statistics for an organization.
type Service struct {
	repo messages.Repository
	now  func() time.Time
}

// NewService creates a stats service backed by the messages repository.
func NewService(repo messages.Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Overview returns the aggregate snapshot for an org over the given period.
func (s *Service) Overview(ctx context.Context, orgID, period string) (*Snapshot, error) {
	resolved, since := PeriodStart(period, s.now())
	msgs, err := s.repo.ListSince(ctx, orgID, since)
	if err != nil {
		return nil, fmt.Errorf("stats: list messages: %w", err)
	}
	return Reduce(resolved, since, msgs), nil
}
