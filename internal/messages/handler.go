package messages

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// Handler serves the read side of the messages API.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new messages handler
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
	}
}

// GetMessage handles GET /v1/messages/{messageID} requests
func (h *Handler) GetMessage(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	msg, err := h.repo.GetByID(r.Context(), orgID, chi.URLParam(r, "messageID"))
	if err != nil {
		if errors.Is(err, ErrMessageNotFound) {
			http.Error(w, "message not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to get message", "error", err, "org_id", orgID)
		http.Error(w, "failed to get message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(msg)
}

// ListMessagesResponse is the response for listing messages
type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
	Count    int        `json:"count"`
	Offset   int        `json:"offset"`
	Limit    int        `json:"limit"`
}

// ListMessages handles GET /v1/messages requests
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	filter := ListMessagesFilter{
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

	msgs, err := h.repo.ListByOrg(r.Context(), orgID, filter)
	if err != nil {
		h.logger.Error("failed to list messages", "error", err, "org_id", orgID)
		http.Error(w, "failed to list messages", http.StatusInternalServerError)
		return
	}

	response := ListMessagesResponse{
		Messages: msgs,
		Count:    len(msgs),
		Offset:   filter.Offset,
		Limit:    filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
