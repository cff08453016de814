package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chatleadhq/chatlead-platform/internal/messages"
	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
)

func TestPeriodStart(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		period string
		want   string
		start  time.Time
	}{
		{"today", PeriodToday, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"week", PeriodWeek, now.AddDate(0, 0, -7)},
		{"month", PeriodMonth, now.AddDate(0, -1, 0)},
		{"", PeriodWeek, now.AddDate(0, 0, -7)},
		{"quarter", PeriodWeek, now.AddDate(0, 0, -7)},
	}
	for _, tt := range tests {
		resolved, start := PeriodStart(tt.period, now)
		if resolved != tt.want {
			t.Errorf("PeriodStart(%q) resolved %q, want %q", tt.period, resolved, tt.want)
		}
		if !start.Equal(tt.start) {
			t.Errorf("PeriodStart(%q) start %v, want %v", tt.period, start, tt.start)
		}
	}
}

func TestReduceCountsByDimension(t *testing.T) {
	since := time.Now().UTC().AddDate(0, 0, -7)
	msgs := []*messages.Message{
		{Status: messages.StatusCompleted, Intent: "booking", Language: "bm", Channel: "whatsapp"},
		{Status: messages.StatusCompleted, Intent: "inquiry", Language: "en", Channel: "whatsapp"},
		{Status: messages.StatusFailed, Channel: "webchat"},
	}

	snap := Reduce(PeriodWeek, since, msgs)

	if snap.Total != 3 {
		t.Fatalf("Total = %d, want 3", snap.Total)
	}
	if snap.ByStatus[messages.StatusCompleted] != 2 || snap.ByStatus[messages.StatusFailed] != 1 {
		t.Errorf("ByStatus = %v", snap.ByStatus)
	}
	if snap.ByIntent["booking"] != 1 || snap.ByIntent["inquiry"] != 1 {
		t.Errorf("ByIntent = %v", snap.ByIntent)
	}
	if len(snap.ByIntent) != 2 {
		t.Errorf("failed message without intent should not be counted: %v", snap.ByIntent)
	}
	if snap.ByLanguage["bm"] != 1 || snap.ByLanguage["en"] != 1 {
		t.Errorf("ByLanguage = %v", snap.ByLanguage)
	}
	if snap.ByChannel["whatsapp"] != 2 || snap.ByChannel["webchat"] != 1 {
		t.Errorf("ByChannel = %v", snap.ByChannel)
	}
	if snap.AvgProcessingSeconds != 0 {
		t.Errorf("AvgProcessingSeconds = %v, want 0", snap.AvgProcessingSeconds)
	}
}

func TestReduceEmpty(t *testing.T) {
	snap := Reduce(PeriodToday, time.Now().UTC(), nil)
	if snap.Total != 0 {
		t.Fatalf("Total = %d, want 0", snap.Total)
	}
	if snap.ByStatus == nil || snap.ByIntent == nil {
		t.Fatal("maps should be initialized even when empty")
	}
}

func TestServiceOverviewScopesToPeriod(t *testing.T) {
	repo := messages.NewInMemoryRepository()
	ctx := context.Background()

	recent, err := repo.Create(ctx, &messages.CreateMessageRequest{
		OrgID:   "org-1",
		Channel: "whatsapp",
		Sender:  "+60123456789",
		Content: "saya nak booking",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SetAnalysis(ctx, "org-1", recent.ID, messages.Analysis{Language: "bm", Intent: "booking"}); err != nil {
		t.Fatalf("set analysis: %v", err)
	}
	if err := repo.Complete(ctx, "org-1", recent.ID, "Baik!", ""); err != nil {
		t.Fatalf("complete: %v", err)
	}

	svc := NewService(repo)
	snap, err := svc.Overview(ctx, "org-1", "week")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if snap.Total != 1 {
		t.Fatalf("Total = %d, want 1", snap.Total)
	}
	if snap.ByStatus[messages.StatusCompleted] != 1 {
		t.Errorf("ByStatus = %v", snap.ByStatus)
	}
	if snap.ByIntent["booking"] != 1 {
		t.Errorf("ByIntent = %v", snap.ByIntent)
	}

	other, err := svc.Overview(ctx, "org-2", "week")
	if err != nil {
		t.Fatalf("overview org-2: %v", err)
	}
	if other.Total != 0 {
		t.Fatalf("org-2 Total = %d, want 0", other.Total)
	}
}

func TestOverviewHandler(t *testing.T) {
	repo := messages.NewInMemoryRepository()
	ctx := context.Background()
	if _, err := repo.Create(ctx, &messages.CreateMessageRequest{
		OrgID:   "org-1",
		Channel: "whatsapp",
		Sender:  "+60123456789",
		Content: "hello",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	h := NewHandler(NewService(repo), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/messages/stats/overview?period=today", nil)
	req = req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
	rec := httptest.NewRecorder()
	h.Overview(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var snap Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Period != PeriodToday {
		t.Errorf("Period = %q, want today", snap.Period)
	}
	if snap.Total != 1 {
		t.Errorf("Total = %d, want 1", snap.Total)
	}
}

func TestOverviewHandlerMissingOrg(t *testing.T) {
	h := NewHandler(NewService(messages.NewInMemoryRepository()), nil)
	req := httptest.NewRequest(http.MethodGet, "/v1/messages/stats/overview", nil)
	rec := httptest.NewRecorder()
	h.Overview(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
