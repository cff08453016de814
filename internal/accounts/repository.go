package accounts

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrgRepository defines the interface for organization storage
type OrgRepository interface {
	GetOrg(ctx context.Context, id string) (*Organization, error)
}

// UserRepository defines the interface for user lookups
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// InMemoryRepository is an in-memory org/user store used in tests and local runs.
type InMemoryRepository struct {
	mu    sync.RWMutex
	orgs  map[string]*Organization
	users map[string]*User
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		orgs:  make(map[string]*Organization),
		users: make(map[string]*User),
	}
}

// SeedOrg stores an organization. Test helper.
func (r *InMemoryRepository) SeedOrg(org *Organization) {
	r.mu.Lock()
	r.orgs[org.ID] = org
	r.mu.Unlock()
}

// SeedUser stores a user keyed by email. Test helper.
func (r *InMemoryRepository) SeedUser(user *User) {
	r.mu.Lock()
	r.users[user.Email] = user
	r.mu.Unlock()
}

// GetOrg retrieves an organization by id.
func (r *InMemoryRepository) GetOrg(ctx context.Context, id string) (*Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	org, ok := r.orgs[id]
	if !ok {
		return nil, ErrOrgNotFound
	}
	copied := *org
	return &copied, nil
}

// GetUserByEmail retrieves a user by email.
func (r *InMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// orgDB defines the database interface needed by PostgresRepository.
type orgDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores organizations and users in the relational database.
type PostgresRepository struct {
	db orgDB
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("accounts: pgx pool required")
	}
	return &PostgresRepository{db: pool}
}

// newPostgresRepositoryWithDB allows injecting a mock database for testing.
func newPostgresRepositoryWithDB(db orgDB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetOrg retrieves an organization by id.
func (r *PostgresRepository) GetOrg(ctx context.Context, id string) (*Organization, error) {
	query := `
		SELECT id, name, default_language, spreadsheet_id, sheet_range, notify_emails, active, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`
	var org Organization
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&org.ID,
		&org.Name,
		&org.DefaultLanguage,
		&org.SpreadsheetID,
		&org.SheetRange,
		&org.NotifyEmails,
		&org.Active,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("accounts: select org failed: %w", err)
	}
	return &org, nil
}

// GetUserByEmail retrieves a user by email.
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, org_id, email, name, role, created_at
		FROM users
		WHERE email = $1
	`
	var user User
	if err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.OrgID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("accounts: select user failed: %w", err)
	}
	return &user, nil
}
