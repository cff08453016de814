package pipeline

import (
	"encoding/json"
	"net/http"

	"github.com/chatleadhq/chatlead-platform/internal/tenancy"
	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

const maxBatchSize = 50

// Handler serves the message processing API.
type Handler struct {
	pipeline *Pipeline
	logger   *logging.Logger
}

// NewHandler creates a new pipeline handler
func NewHandler(pipeline *Pipeline, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// ProcessMessage handles POST /v1/messages/process requests
func (h *Handler) ProcessMessage(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	var req ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// The token's org always wins over the payload.
	req.OrgID = orgID

	result, err := h.pipeline.Process(r.Context(), req)
	if err != nil {
		if IsValidation(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("message processing failed", "error", err, "org_id", orgID)
		http.Error(w, "message processing failed", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// BatchRequest wraps the items of a batch processing call.
type BatchRequest struct {
	Messages []ProcessRequest `json:"messages"`
}

// BatchResponse reports per-item outcomes.
type BatchResponse struct {
	Items []BatchItem `json:"items"`
	Count int         `json:"count"`
}

// ProcessBatch handles POST /v1/messages/process/batch requests
func (h *Handler) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	orgID, ok := tenancy.OrgIDFromContext(r.Context())
	if !ok {
		http.Error(w, "missing org context", http.StatusBadRequest)
		return
	}

	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Messages) == 0 {
		http.Error(w, "messages list is empty", http.StatusBadRequest)
		return
	}
	if len(req.Messages) > maxBatchSize {
		http.Error(w, "batch too large", http.StatusBadRequest)
		return
	}
	for i := range req.Messages {
		req.Messages[i].OrgID = orgID
	}

	items := h.pipeline.ProcessBatch(r.Context(), req.Messages)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(BatchResponse{Items: items, Count: len(items)})
}
