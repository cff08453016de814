package accounts

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// Handler serves organization settings for the authenticated caller.
type Handler struct {
	orgs   OrgRepository
	logger *logging.Logger
}

// NewHandler creates a new accounts handler
func NewHandler(orgs OrgRepository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		orgs:   orgs,
		logger: logger,
	}
}

// GetOrg handles GET /v1/org requests
func (h *Handler) GetOrg(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	org, err := h.orgs.GetOrg(r.Context(), orgID)
	if err != nil {
		if errors.Is(err, ErrOrgNotFound) {
			http.Error(w, "organization not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get organization", "error", err, "org_id", orgID)
		http.Error(w, "failed to get organization", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(org)
}
