package messages

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"

	"github.com/chatleadhq/chatlead-platform/internal/entity"
)

func TestPostgresRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithDB(mock)
	now := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO messages").
		WithArgs(pgxmock.AnyArg(), "org-1", ChannelWhatsApp, "", "", "+60123456789", "Saya nak buat appointment Jumaat 2pm", StatusProcessing).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	msg, err := repo.Create(context.Background(), newTestMessage())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if msg.Status != StatusProcessing || msg.ID == "" {
		t.Errorf("unexpected message: %+v", msg)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositorySetAnalysis(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithDB(mock)

	mock.ExpectExec("UPDATE messages SET language").
		WithArgs("bm", "booking", pgxmock.AnyArg(), "msg-1", "org-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	analysis := Analysis{
		Language: "bm",
		Intent:   "booking",
		Entities: entity.Record{Kind: entity.KindStructured, Date: "Jumaat"},
	}
	if err := repo.SetAnalysis(context.Background(), "org-1", "msg-1", analysis); err != nil {
		t.Fatalf("SetAnalysis failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresRepositoryCompleteNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithDB(mock)

	mock.ExpectExec("UPDATE messages SET status").
		WithArgs(StatusCompleted, "ok", "", "msg-404", "org-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Complete(context.Background(), "org-1", "msg-404", "ok", ""); err != ErrMessageNotFound {
		t.Errorf("expected ErrMessageNotFound, got %v", err)
	}
}

func TestPostgresRepositoryMarkFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithDB(mock)

	mock.ExpectExec("UPDATE messages SET status").
		WithArgs(StatusFailed, "boom", "msg-1", "org-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.MarkFailed(context.Background(), "org-1", "msg-1", "boom"); err != nil {
		t.Fatalf("MarkFailed failed: %v", err)
	}
}

func TestPostgresRepositoryListSince(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := newPostgresRepositoryWithDB(mock)
	now := time.Now().UTC()
	since := now.Add(-24 * time.Hour)

	rows := pgxmock.NewRows([]string{
		"id", "org_id", "channel", "channel_id", "external_id", "sender", "content",
		"language", "intent", "entities", "response", "lead_id", "status", "error_detail",
		"created_at", "updated_at",
	}).AddRow(
		"msg-1", "org-1", ChannelWhatsApp, "", "", "+60123456789", "hello",
		"en", "general", []byte(`{"kind":"raw","raw":"n/a"}`), "hi!", "", StatusCompleted, "",
		now, now,
	)
	mock.ExpectQuery("SELECT .+ FROM messages WHERE org_id").
		WithArgs("org-1", since).
		WillReturnRows(rows)

	got, err := repo.ListSince(context.Background(), "org-1", since)
	if err != nil {
		t.Fatalf("ListSince failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if got[0].Entities == nil || got[0].Entities.Kind != entity.KindRaw {
		t.Errorf("entities not decoded: %+v", got[0].Entities)
	}
}
