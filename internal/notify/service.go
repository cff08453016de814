package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/chatleadhq/chatlead-platform/internal/accounts"
	"github.com/chatleadhq/chatlead-platform/internal/leads"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// Service sends lead notifications to an organization's configured recipients.
type Service struct {
	sender   EmailSender
	minScore int
	logger   *logging.Logger
}

// NewService creates a notification service. Leads scoring below minScore
// are skipped.
func NewService(sender EmailSender, minScore int, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		sender:   sender,
		minScore: minScore,
		logger:   logger,
	}
}

// NotifyNewLead emails the organization's notification recipients about a
// freshly created lead. Returns nil when the org has no recipients or the
// lead's score is below the configured threshold.
func (s *Service) NotifyNewLead(ctx context.Context, org *accounts.Organization, lead *leads.Lead) error {
	if s.sender == nil {
		return fmt.Errorf("notify: email sender not configured")
	}
	if org == nil || lead == nil {
		return fmt.Errorf("notify: org and lead are required")
	}
	if len(org.NotifyEmails) == 0 {
		s.logger.Debug("no notify recipients configured", "org_id", org.ID)
		return nil
	}
	if lead.Score < s.minScore {
		s.logger.Debug("lead below notify threshold", "lead_id", lead.ID, "score", lead.Score, "min_score", s.minScore)
		return nil
	}

	subject := fmt.Sprintf("New lead for %s (score %d)", org.Name, lead.Score)
	body := buildLeadBody(org, lead)

	var failed []string
	for _, to := range org.NotifyEmails {
		msg := EmailMessage{
			To:      to,
			Subject: subject,
			Body:    body,
		}
		if err := s.sender.Send(ctx, msg); err != nil {
			s.logger.Error("lead notification failed", "error", err, "to", to, "lead_id", lead.ID)
			failed = append(failed, to)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("notify: failed to notify %d of %d recipients", len(failed), len(org.NotifyEmails))
	}

	s.logger.Info("lead notification sent", "lead_id", lead.ID, "org_id", org.ID, "recipients", len(org.NotifyEmails))
	return nil
}

func buildLeadBody(org *accounts.Organization, lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A new lead was captured for %s.\n\n", org.Name)
	fmt.Fprintf(&b, "Score: %d\n", lead.Score)
	fmt.Fprintf(&b, "Channel: %s\n", lead.Channel)
	if lead.Name != "" {
		fmt.Fprintf(&b, "Name: %s\n", lead.Name)
	}
	if lead.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", lead.Phone)
	}
	if lead.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", lead.Email)
	}
	if lead.ServiceType != "" {
		fmt.Fprintf(&b, "Service: %s\n", lead.ServiceType)
	}
	if lead.PreferredDate != "" {
		fmt.Fprintf(&b, "Preferred date: %s\n", lead.PreferredDate)
	}
	if lead.PreferredTime != "" {
		fmt.Fprintf(&b, "Preferred time: %s\n", lead.PreferredTime)
	}
	b.WriteString("\nFollow up promptly while the conversation is still warm.\n")
	return b.String()
}
