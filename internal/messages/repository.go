package messages

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for message storage
type Repository interface {
	Create(ctx context.Context, req *CreateMessageRequest) (*Message, error)
	SetAnalysis(ctx context.Context, orgID, id string, analysis Analysis) error
	Complete(ctx context.Context, orgID, id, response, leadID string) error
	MarkFailed(ctx context.Context, orgID, id, errorDetail string) error
	GetByID(ctx context.Context, orgID, id string) (*Message, error)
	ListByOrg(ctx context.Context, orgID string, filter ListMessagesFilter) ([]*Message, error)
	ListSince(ctx context.Context, orgID string, since time.Time) ([]*Message, error)
}

// InMemoryRepository is an in-memory Repository used in tests and local runs.
type InMemoryRepository struct {
	mu       sync.RWMutex
	messages map[string]*Message
	order    []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		messages: make(map[string]*Message),
	}
}

// Create stores a new message with status processing.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateMessageRequest) (*Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	msg := &Message{
		ID:         uuid.New().String(),
		OrgID:      req.OrgID,
		Channel:    req.Channel,
		ChannelID:  req.ChannelID,
		ExternalID: req.ExternalID,
		Sender:     req.Sender,
		Content:    req.Content,
		Status:     StatusProcessing,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	r.mu.Lock()
	r.messages[msg.ID] = msg
	r.order = append(r.order, msg.ID)
	r.mu.Unlock()

	copied := *msg
	return &copied, nil
}

// SetAnalysis records the derived language, intent and entities.
func (r *InMemoryRepository) SetAnalysis(ctx context.Context, orgID, id string, analysis Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok || msg.OrgID != orgID {
		return ErrMessageNotFound
	}

	entities := analysis.Entities
	msg.Language = analysis.Language
	msg.Intent = analysis.Intent
	msg.Entities = &entities
	msg.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete finalizes the message as completed.
func (r *InMemoryRepository) Complete(ctx context.Context, orgID, id, response, leadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok || msg.OrgID != orgID {
		return ErrMessageNotFound
	}

	msg.Status = StatusCompleted
	msg.Response = response
	msg.LeadID = leadID
	msg.UpdatedAt = time.Now().UTC()
	return nil
}

// MarkFailed finalizes the message as failed with the error detail attached.
func (r *InMemoryRepository) MarkFailed(ctx context.Context, orgID, id, errorDetail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg, ok := r.messages[id]
	if !ok || msg.OrgID != orgID {
		return ErrMessageNotFound
	}

	msg.Status = StatusFailed
	msg.ErrorDetail = errorDetail
	msg.UpdatedAt = time.Now().UTC()
	return nil
}

// GetByID retrieves a message scoped to the org.
func (r *InMemoryRepository) GetByID(ctx context.Context, orgID, id string) (*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, ok := r.messages[id]
	if !ok || msg.OrgID != orgID {
		return nil, ErrMessageNotFound
	}

	copied := *msg
	return &copied, nil
}

// ListByOrg returns org messages, newest first.
func (r *InMemoryRepository) ListByOrg(ctx context.Context, orgID string, filter ListMessagesFilter) ([]*Message, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Message
	for i := len(r.order) - 1; i >= 0; i-- {
		msg := r.messages[r.order[i]]
		if msg.OrgID != orgID {
			continue
		}
		copied := *msg
		matched = append(matched, &copied)
	}

	if filter.Offset >= len(matched) {
		return []*Message{}, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// ListSince returns org messages created at or after since, oldest first.
func (r *InMemoryRepository) ListSince(ctx context.Context, orgID string, since time.Time) ([]*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Message
	for _, id := range r.order {
		msg := r.messages[id]
		if msg.OrgID != orgID || msg.CreatedAt.Before(since) {
			continue
		}
		copied := *msg
		matched = append(matched, &copied)
	}
	return matched, nil
}
