package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatleadhq/chatlead-platform/internal/accounts"
	"github.com/chatleadhq/chatlead-platform/internal/ai"
	httpmiddleware "github.com/chatleadhq/chatlead-platform/internal/http/middleware"
	"github.com/chatleadhq/chatlead-platform/internal/leads"
	"github.com/chatleadhq/chatlead-platform/internal/messages"
	"github.com/chatleadhq/chatlead-platform/internal/pipeline"
	"github.com/chatleadhq/chatlead-platform/internal/stats"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger           *logging.Logger
	PipelineHandler  *pipeline.Handler
	MessagesHandler  *messages.Handler
	LeadsHandler     *leads.Handler
	StatsHandler     *stats.Handler
	OrgHandler       *accounts.Handler
	KnowledgeHandler *ai.KnowledgeHandler
	MetricsHandler   http.Handler

	JWTSecret          string
	RateLimitRPS       float64
	RateLimitBurst     int
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints (health check, metrics)
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// API routes, scoped to the token's organization
	r.Route("/v1", func(api chi.Router) {
		api.Use(httpmiddleware.OrgJWT(cfg.JWTSecret))
		if cfg.RateLimitRPS > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
		}

		api.Route("/messages", func(r chi.Router) {
			if cfg.PipelineHandler != nil {
				r.Post("/process", cfg.PipelineHandler.ProcessMessage)
				r.Post("/process/batch", cfg.PipelineHandler.ProcessBatch)
			}
			if cfg.StatsHandler != nil {
				r.Get("/stats/overview", cfg.StatsHandler.Overview)
			}
			if cfg.MessagesHandler != nil {
				r.Get("/", cfg.MessagesHandler.ListMessages)
				r.Get("/{messageID}", cfg.MessagesHandler.GetMessage)
			}
		})

		api.Route("/leads", func(r chi.Router) {
			if cfg.LeadsHandler != nil {
				r.Get("/", cfg.LeadsHandler.ListLeads)
				r.Get("/{leadID}", cfg.LeadsHandler.GetLead)
				r.Patch("/{leadID}/status", cfg.LeadsHandler.UpdateStatus)
			}
		})

		if cfg.KnowledgeHandler != nil {
			api.Route("/knowledge", func(r chi.Router) {
				r.Post("/", cfg.KnowledgeHandler.Ingest)
				r.Get("/search", cfg.KnowledgeHandler.Search)
			})
		}

		if cfg.OrgHandler != nil {
			api.Get("/org", cfg.OrgHandler.GetOrg)
		}
	})

	return r
}
