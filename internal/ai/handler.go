package ai

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// KnowledgeHandler serves the business knowledge API.
type KnowledgeHandler struct {
	store  KnowledgeStore
	logger *logging.Logger
}

// NewKnowledgeHandler creates a new knowledge handler
func NewKnowledgeHandler(store KnowledgeStore, logger *logging.Logger) *KnowledgeHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &KnowledgeHandler{
		store:  store,
		logger: logger,
	}
}

// IngestRequest carries documents to add to the org's knowledge corpus.
type IngestRequest struct {
	Documents []string `json:"documents"`
}

// IngestResponse reports how many documents were stored.
type IngestResponse struct {
	Ingested int `json:"ingested"`
}

// Ingest handles POST /v1/knowledge requests
func (h *KnowledgeHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Documents) == 0 {
		http.Error(w, "documents list is empty", http.StatusBadRequest)
		return
	}

	count, err := h.store.Ingest(r.Context(), orgID, req.Documents)
	if err != nil {
		h.logger.Error("knowledge ingest failed", "error", err, "org_id", orgID)
		http.Error(w, "failed to ingest documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(IngestResponse{Ingested: count})
}

// SearchResponse lists the matched documents.
type SearchResponse struct {
	Documents []string `json:"documents"`
	Count     int      `json:"count"`
}

// Search handles GET /v1/knowledge/search requests
func (h *KnowledgeHandler) Search(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q parameter is required", http.StatusBadRequest)
		return
	}
	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 20 {
			limit = parsed
		}
	}

	docs, err := h.store.Search(r.Context(), orgID, query, limit)
	if err != nil {
		h.logger.Error("knowledge search failed", "error", err, "org_id", orgID)
		http.Error(w, "failed to search documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{Documents: docs, Count: len(docs)})
}
