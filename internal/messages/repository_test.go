package messages

import (
	"context"
	"testing"
	"time"

	"github.com/chatleadhq/chatlead-platform/internal/entity"
)

func newTestMessage() *CreateMessageRequest {
	return &CreateMessageRequest{
		OrgID:   "org-1",
		Channel: ChannelWhatsApp,
		Sender:  "+60123456789",
		Content: "Saya nak buat appointment Jumaat 2pm",
	}
}

func TestCreateMessageRequestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateMessageRequest)
		want   error
	}{
		{"valid", func(r *CreateMessageRequest) {}, nil},
		{"missing org", func(r *CreateMessageRequest) { r.OrgID = " " }, ErrMissingOrgID},
		{"bad channel", func(r *CreateMessageRequest) { r.Channel = "carrier-pigeon" }, ErrInvalidChannel},
		{"missing sender", func(r *CreateMessageRequest) { r.Sender = "" }, ErrMissingSender},
		{"missing content", func(r *CreateMessageRequest) { r.Content = "  " }, ErrMissingContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newTestMessage()
			tt.mutate(req)
			if err := req.Validate(); err != tt.want {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInMemoryRepositoryLifecycle(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	msg, err := repo.Create(ctx, newTestMessage())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if msg.Status != StatusProcessing {
		t.Errorf("Status = %q, want processing", msg.Status)
	}

	analysis := Analysis{
		Language: "bm",
		Intent:   "booking",
		Entities: entity.Record{Kind: entity.KindStructured, Date: "Jumaat", Time: "2pm"},
	}
	if err := repo.SetAnalysis(ctx, "org-1", msg.ID, analysis); err != nil {
		t.Fatalf("SetAnalysis failed: %v", err)
	}

	if err := repo.Complete(ctx, "org-1", msg.ID, "Baik, kami sahkan", "lead-1"); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	got, err := repo.GetByID(ctx, "org-1", msg.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != StatusCompleted || got.LeadID != "lead-1" || got.Language != "bm" {
		t.Errorf("unexpected message: %+v", got)
	}
	if got.Entities == nil || got.Entities.Date != "Jumaat" {
		t.Errorf("entities not stored: %+v", got.Entities)
	}
}

func TestInMemoryRepositoryMarkFailed(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	msg, _ := repo.Create(ctx, newTestMessage())
	if err := repo.MarkFailed(ctx, "org-1", msg.ID, "classifier unavailable"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}

	got, _ := repo.GetByID(ctx, "org-1", msg.ID)
	if got.Status != StatusFailed || got.ErrorDetail != "classifier unavailable" {
		t.Errorf("unexpected message: %+v", got)
	}
}

func TestInMemoryRepositoryOrgScoping(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()
	msg, _ := repo.Create(ctx, newTestMessage())

	if _, err := repo.GetByID(ctx, "org-2", msg.ID); err != ErrMessageNotFound {
		t.Errorf("cross-org get: expected ErrMessageNotFound, got %v", err)
	}
	if err := repo.Complete(ctx, "org-2", msg.ID, "x", ""); err != ErrMessageNotFound {
		t.Errorf("cross-org complete: expected ErrMessageNotFound, got %v", err)
	}
}

func TestInMemoryRepositoryDuplicateExternalID(t *testing.T) {
	// Duplicate webhook deliveries are NOT deduplicated: the same external
	// message id produces two independent messages.
	repo := NewInMemoryRepository()
	ctx := context.Background()

	req := newTestMessage()
	req.ExternalID = "wamid.123"
	if _, err := repo.Create(ctx, req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := repo.Create(ctx, req); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	all, err := repo.ListByOrg(ctx, "org-1", ListMessagesFilter{})
	if err != nil {
		t.Fatalf("ListByOrg failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d messages for duplicated external id, want 2", len(all))
	}
}

func TestInMemoryRepositoryListSince(t *testing.T) {
	repo := NewInMemoryRepository()
	ctx := context.Background()

	first, _ := repo.Create(ctx, newTestMessage())
	repo.Create(ctx, newTestMessage())

	got, err := repo.ListSince(ctx, "org-1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d messages, want 2", len(got))
	}
	// Oldest first.
	if got[0].ID != first.ID {
		t.Errorf("expected oldest message first")
	}

	future, err := repo.ListSince(ctx, "org-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("got %d messages for future window, want 0", len(future))
	}
}
