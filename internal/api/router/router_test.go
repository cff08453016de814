package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chatleadhq/chatlead-platform/internal/accounts"
	httpmiddleware "github.com/chatleadhq/chatlead-platform/internal/http/middleware"
	"github.com/chatleadhq/chatlead-platform/internal/leads"
	"github.com/chatleadhq/chatlead-platform/internal/messages"
	"github.com/chatleadhq/chatlead-platform/internal/stats"
)

const testSecret = "router-test-secret"

func testToken(t *testing.T, orgID string) string {
	t.Helper()
	claims := httpmiddleware.APIClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		OrgID: orgID,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	msgRepo := messages.NewInMemoryRepository()
	leadRepo := leads.NewInMemoryRepository()
	orgRepo := accounts.NewInMemoryRepository()
	orgRepo.SeedOrg(&accounts.Organization{ID: "org-1", Name: "Klinik Mawar", Active: true})

	if _, err := msgRepo.Create(context.Background(), &messages.CreateMessageRequest{
		OrgID:   "org-1",
		Channel: messages.ChannelWhatsApp,
		Sender:  "+60123456789",
		Content: "hello",
	}); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	return New(&Config{
		MessagesHandler: messages.NewHandler(msgRepo, nil),
		LeadsHandler:    leads.NewHandler(leadRepo, nil),
		StatsHandler:    stats.NewHandler(stats.NewService(msgRepo), nil),
		OrgHandler:      accounts.NewHandler(orgRepo, nil),
		MetricsHandler:  promhttp.Handler(),
		JWTSecret:       testSecret,
	})
}

func TestHealthIsPublic(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestMetricsIsPublic(t *testing.T) {
	r := testRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	r := testRouter(t)
	for _, path := range []string{"/v1/messages/", "/v1/leads/", "/v1/org", "/v1/messages/stats/overview"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want 401", path, rec.Code)
		}
	}
}

func TestAPIWithToken(t *testing.T) {
	r := testRouter(t)
	token := testToken(t, "org-1")

	for _, path := range []string{"/v1/messages/", "/v1/messages/stats/overview", "/v1/leads/", "/v1/org"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200, body %s", path, rec.Code, rec.Body.String())
		}
	}
}

func TestAPIScopesToTokenOrg(t *testing.T) {
	r := testRouter(t)
	token := testToken(t, "org-2")

	req := httptest.NewRequest(http.MethodGet, "/v1/org", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown org status = %d, want 404", rec.Code)
	}
}
