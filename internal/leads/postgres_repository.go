package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// leadsDB defines the database interface needed by PostgresRepository.
type leadsDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db leadsDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// newPostgresRepositoryWithDB allows injecting a mock database for testing.
func newPostgresRepositoryWithDB(db leadsDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const leadColumns = `id, org_id, message_id, name, phone, email, preferred_date, preferred_time, service_type, channel, score, status, created_at, updated_at`

// Create inserts a new row derived from the request's entity record.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	score := Score(req.Entities)
	query := `
		INSERT INTO leads (id, org_id, message_id, name, phone, email, preferred_date, preferred_time, service_type, channel, score, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.OrgID,
		req.MessageID,
		req.Entities.Name,
		req.Entities.Phone,
		req.Entities.Email,
		req.Entities.Date,
		req.Entities.Time,
		req.Entities.ServiceType,
		req.Channel,
		score,
		StatusNew,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:            id,
		OrgID:         req.OrgID,
		MessageID:     req.MessageID,
		Name:          req.Entities.Name,
		Phone:         req.Entities.Phone,
		Email:         req.Entities.Email,
		PreferredDate: req.Entities.Date,
		PreferredTime: req.Entities.Time,
		ServiceType:   req.Entities.ServiceType,
		Channel:       req.Channel,
		Score:         score,
		Status:        StatusNew,
		CreatedAt:     createdAt,
		UpdatedAt:     updatedAt,
	}, nil
}

// GetByID fetches a lead scoped to the org.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND org_id = $2`
	lead, err := scanLead(r.db.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// ListByOrg returns org leads, newest first, optionally filtered by status.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, filter ListLeadsFilter) ([]*Lead, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := `SELECT ` + leadColumns + ` FROM leads WHERE org_id = $1`
	args := []any{orgID}
	if filter.Status != "" {
		query += ` AND status = $2`
		args = append(args, filter.Status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	leads := []*Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// UpdateStatus applies a validated status transition.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, orgID, id, status string) (*Lead, error) {
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	var current string
	if err := r.db.QueryRow(ctx, `SELECT status FROM leads WHERE id = $1 AND org_id = $2`, id, orgID).Scan(&current); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select status failed: %w", err)
	}
	if !CanTransition(current, status) {
		return nil, ErrInvalidTransition
	}

	query := `
		UPDATE leads SET status = $1, updated_at = NOW()
		WHERE id = $2 AND org_id = $3
		RETURNING ` + leadColumns
	lead, err := scanLead(r.db.QueryRow(ctx, query, status, id, orgID))
	if err != nil {
		return nil, fmt.Errorf("leads: update status failed: %w", err)
	}
	return lead, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.OrgID,
		&lead.MessageID,
		&lead.Name,
		&lead.Phone,
		&lead.Email,
		&lead.PreferredDate,
		&lead.PreferredTime,
		&lead.ServiceType,
		&lead.Channel,
		&lead.Score,
		&lead.Status,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
