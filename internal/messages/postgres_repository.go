package messages

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/chatleadhq/chatlead-platform/internal/entity"
)

// messagesDB defines the database interface needed by PostgresRepository.
type messagesDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores messages in the relational database. Entity
// records are kept as jsonb.
type PostgresRepository struct {
	db messagesDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("messages: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// newPostgresRepositoryWithDB allows injecting a mock database for testing.
func newPostgresRepositoryWithDB(db messagesDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const messageColumns = `id, org_id, channel, channel_id, external_id, sender, content, language, intent, entities, response, lead_id, status, error_detail, created_at, updated_at`

// Create inserts a new row with status processing.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateMessageRequest) (*Message, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	query := `
		INSERT INTO messages (id, org_id, channel, channel_id, external_id, sender, content, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.OrgID,
		req.Channel,
		req.ChannelID,
		req.ExternalID,
		req.Sender,
		req.Content,
		StatusProcessing,
	).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("messages: insert failed: %w", err)
	}

	return &Message{
		ID:         id,
		OrgID:      req.OrgID,
		Channel:    req.Channel,
		ChannelID:  req.ChannelID,
		ExternalID: req.ExternalID,
		Sender:     req.Sender,
		Content:    req.Content,
		Status:     StatusProcessing,
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
	}, nil
}

// SetAnalysis records the derived language, intent and entities.
func (r *PostgresRepository) SetAnalysis(ctx context.Context, orgID, id string, analysis Analysis) error {
	entities, err := json.Marshal(analysis.Entities)
	if err != nil {
		return fmt.Errorf("messages: marshal entities: %w", err)
	}

	query := `
		UPDATE messages SET language = $1, intent = $2, entities = $3, updated_at = NOW()
		WHERE id = $4 AND org_id = $5
	`
	tag, err := r.db.Exec(ctx, query, analysis.Language, analysis.Intent, entities, id, orgID)
	if err != nil {
		return fmt.Errorf("messages: set analysis failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// Complete finalizes the message as completed.
func (r *PostgresRepository) Complete(ctx context.Context, orgID, id, response, leadID string) error {
	query := `
		UPDATE messages SET status = $1, response = $2, lead_id = $3, updated_at = NOW()
		WHERE id = $4 AND org_id = $5
	`
	tag, err := r.db.Exec(ctx, query, StatusCompleted, response, leadID, id, orgID)
	if err != nil {
		return fmt.Errorf("messages: complete failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// MarkFailed finalizes the message as failed with the error detail attached.
func (r *PostgresRepository) MarkFailed(ctx context.Context, orgID, id, errorDetail string) error {
	query := `
		UPDATE messages SET status = $1, error_detail = $2, updated_at = NOW()
		WHERE id = $3 AND org_id = $4
	`
	tag, err := r.db.Exec(ctx, query, StatusFailed, errorDetail, id, orgID)
	if err != nil {
		return fmt.Errorf("messages: mark failed failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// GetByID fetches a message scoped to the org.
func (r *PostgresRepository) GetByID(ctx context.Context, orgID, id string) (*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1 AND org_id = $2`
	msg, err := scanMessage(r.db.QueryRow(ctx, query, id, orgID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("messages: select failed: %w", err)
	}
	return msg, nil
}

// ListByOrg returns org messages, newest first.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID string, filter ListMessagesFilter) ([]*Message, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}

	query := `SELECT ` + messageColumns + ` FROM messages WHERE org_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, orgID, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("messages: list failed: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

// ListSince returns org messages created at or after since, oldest first.
func (r *PostgresRepository) ListSince(ctx context.Context, orgID string, since time.Time) ([]*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages WHERE org_id = $1 AND created_at >= $2 ORDER BY created_at ASC`
	rows, err := r.db.Query(ctx, query, orgID, since)
	if err != nil {
		return nil, fmt.Errorf("messages: list since failed: %w", err)
	}
	defer rows.Close()

	return collectMessages(rows)
}

func collectMessages(rows pgx.Rows) ([]*Message, error) {
	out := []*Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("messages: scan failed: %w", err)
		}
		out = append(out, msg)
	}
	return out, rows.Err()
}

func scanMessage(row pgx.Row) (*Message, error) {
	var (
		msg      Message
		entities []byte
	)
	if err := row.Scan(
		&msg.ID,
		&msg.OrgID,
		&msg.Channel,
		&msg.ChannelID,
		&msg.ExternalID,
		&msg.Sender,
		&msg.Content,
		&msg.Language,
		&msg.Intent,
		&entities,
		&msg.Response,
		&msg.LeadID,
		&msg.Status,
		&msg.ErrorDetail,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if len(entities) > 0 {
		var rec entity.Record
		if err := json.Unmarshal(entities, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal entities: %w", err)
		}
		msg.Entities = &rec
	}
	return &msg, nil
}
