package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByID(ctx context.Context, orgID, id string) (*Lead, error)
	ListByOrg(ctx context.Context, orgID string, filter ListLeadsFilter) ([]*Lead, error)
	UpdateStatus(ctx context.Context, orgID, id, status string) (*Lead, error)
}

// InMemoryRepository is an in-memory Repository used in tests and local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	order []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Create derives a lead from the request, scoring its entity record.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	lead := &Lead{
		ID:            uuid.New().String(),
		OrgID:         req.OrgID,
		MessageID:     req.MessageID,
		Name:          req.Entities.Name,
		Phone:         req.Entities.Phone,
		Email:         req.Entities.Email,
		PreferredDate: req.Entities.Date,
		PreferredTime: req.Entities.Time,
		ServiceType:   req.Entities.ServiceType,
		Channel:       req.Channel,
		Score:         Score(req.Entities),
		Status:        StatusNew,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.order = append(r.order, lead.ID)
	r.mu.Unlock()

	return lead, nil
}

// GetByID retrieves a lead scoped to the org.
func (r *InMemoryRepository) GetByID(ctx context.Context, orgID, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lead, ok := r.leads[id]
	if !ok || lead.OrgID != orgID {
		return nil, ErrLeadNotFound
	}

	copied := *lead
	return &copied, nil
}

// ListByOrg returns org leads, newest first.
func (r *InMemoryRepository) ListByOrg(ctx context.Context, orgID string, filter ListLeadsFilter) ([]*Lead, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*Lead
	for i := len(r.order) - 1; i >= 0; i-- {
		lead := r.leads[r.order[i]]
		if lead.OrgID != orgID {
			continue
		}
		if filter.Status != "" && lead.Status != filter.Status {
			continue
		}
		copied := *lead
		matched = append(matched, &copied)
	}

	if filter.Offset >= len(matched) {
		return []*Lead{}, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// UpdateStatus applies a validated status transition.
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, orgID, id, status string) (*Lead, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok || lead.OrgID != orgID {
		return nil, ErrLeadNotFound
	}
	if !CanTransition(lead.Status, status) {
		return nil, ErrInvalidTransition
	}

	lead.Status = status
	lead.UpdatedAt = time.Now().UTC()
	copied := *lead
	return &copied, nil
}
