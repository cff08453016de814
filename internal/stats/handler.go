package stats

import (
	"encoding/json"
	"net/http"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// Handler serves the stats API.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new stats handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Overview handles GET /v1/messages/stats/overview requests
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	snap, err := h.service.Overview(r.Context(), orgID, r.URL.Query().Get("period"))
	if err != nil {
		h.logger.Error("failed to compute stats overview", "error", err, "org_id", orgID)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}
