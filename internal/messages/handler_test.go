package messages

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
)

func TestHandlerGetMessage(t *testing.T) {
	repo := NewInMemoryRepository()
	msg, err := repo.Create(context.Background(), newTestMessage())
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
	h := NewHandler(repo, nil)

	r := chi.NewRouter()
	r.Get("/v1/messages/{messageID}", h.GetMessage)

	req := httptest.NewRequest(http.MethodGet, "/v1/messages/"+msg.ID, nil)
	req = req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got Message
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID != msg.ID {
		t.Errorf("ID = %q, want %q", got.ID, msg.ID)
	}
}

func TestHandlerGetMessageNotFound(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), nil)

	r := chi.NewRouter()
	r.Get("/v1/messages/{messageID}", h.GetMessage)

	req := httptest.NewRequest(http.MethodGet, "/v1/messages/nope", nil)
	req = req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandlerListMessages(t *testing.T) {
	repo := NewInMemoryRepository()
	for i := 0; i < 3; i++ {
		if _, err := repo.Create(context.Background(), newTestMessage()); err != nil {
			t.Fatalf("seed message: %v", err)
		}
	}
	h := NewHandler(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/messages?limit=2", nil)
	req = req.WithContext(tenancy.WithOrgID(req.Context(), "org-1"))
	rec := httptest.NewRecorder()
	h.ListMessages(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp ListMessagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Count != 2 || resp.Limit != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestHandlerListMessagesMissingOrg(t *testing.T) {
	h := NewHandler(NewInMemoryRepository(), nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/messages", nil)
	rec := httptest.NewRecorder()
	h.ListMessages(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
