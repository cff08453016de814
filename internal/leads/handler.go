package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// ListLeadsResponse is the response for listing leads
type ListLeadsResponse struct {
	Leads  []*Lead `json:"leads"`
	Count  int     `json:"count"`
	Offset int     `json:"offset"`
	Limit  int     `json:"limit"`
}

// ListLeads handles GET /v1/leads requests
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	filter := ListLeadsFilter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	if status := r.URL.Query().Get("status"); status != "" {
		if !ValidStatus(status) {
			http.Error(w, "invalid status filter", http.StatusBadRequest)
			return
		}
		filter.Status = status
	}

	leadList, err := h.repo.ListByOrg(r.Context(), orgID, filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err, "org_id", orgID)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}

	response := ListLeadsResponse{
		Leads:  leadList,
		Count:  len(leadList),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetLead handles GET /v1/leads/{leadID} requests
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	lead, err := h.repo.GetByID(r.Context(), orgID, chi.URLParam(r, "leadID"))
	if err != nil {
		if errors.Is(err, ErrLeadNotFound) {
			http.Error(w, "lead not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get lead", "error", err, "org_id", orgID)
		http.Error(w, "failed to get lead", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}

// UpdateStatusRequest is the body for lead status transitions.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/leads/{leadID}/status requests
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	leadID := chi.URLParam(r, "leadID")
	lead, err := h.repo.UpdateStatus(r.Context(), orgID, leadID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrLeadNotFound):
			http.Error(w, "lead not found", http.StatusNotFound)
		case errors.Is(err, ErrInvalidStatus):
			http.Error(w, "invalid status", http.StatusBadRequest)
		case errors.Is(err, ErrInvalidTransition):
			http.Error(w, "invalid status transition", http.StatusUnprocessableEntity)
		default:
			h.logger.Error("failed to update lead status", "error", err, "org_id", orgID, "lead_id", leadID)
			http.Error(w, "failed to update lead", http.StatusInternalServerError)
		}
		return
	}

	h.logger.Info("lead status updated", "lead_id", lead.ID, "status", lead.Status)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lead)
}
