package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// maxCandidateDocs bounds how many documents a search scans per org.
const maxCandidateDocs = 500

// KnowledgeStore persists org knowledge snippets used by the reply chain's
// fetch stage.
type KnowledgeStore interface {
	Ingest(ctx context.Context, orgID string, docs []string) (int, error)
	Search(ctx context.Context, orgID, query string, limit int) ([]string, error)
}

// knowledgeDB defines the database interface needed by PostgresKnowledgeStore.
type knowledgeDB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresKnowledgeStore stores snippets in the knowledge_documents table.
type PostgresKnowledgeStore struct {
	db knowledgeDB
}

// NewPostgresKnowledgeStore initializes a store backed by pgxpool.
func NewPostgresKnowledgeStore(pool *pgxpool.Pool) *PostgresKnowledgeStore {
	if pool == nil {
		panic("ai: pgx pool required")
	}
	return &PostgresKnowledgeStore{db: pool}
}

// newPostgresKnowledgeStoreWithDB allows injecting a mock database for testing.
func newPostgresKnowledgeStoreWithDB(db knowledgeDB) *PostgresKnowledgeStore {
	return &PostgresKnowledgeStore{db: db}
}

// Ingest appends documents for the org. Blank documents are skipped.
func (s *PostgresKnowledgeStore) Ingest(ctx context.Context, orgID string, docs []string) (int, error) {
	inserted := 0
	for _, doc := range docs {
		doc = strings.TrimSpace(doc)
		if doc == "" {
			continue
		}
		query := `
			INSERT INTO knowledge_documents (id, org_id, content)
			VALUES ($1, $2, $3)
		`
		if _, err := s.db.Exec(ctx, query, uuid.New().String(), orgID, doc); err != nil {
			return inserted, fmt.Errorf("ai: insert knowledge document: %w", err)
		}
		inserted++
	}
	return inserted, nil
}

// Search returns the org documents that best match the query, ranked by the
// number of distinct query keywords each contains. Documents with no hits
// are excluded.
func (s *PostgresKnowledgeStore) Search(ctx context.Context, orgID, query string, limit int) ([]string, error) {
	sql := `
		SELECT content
		FROM knowledge_documents
		WHERE org_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.db.Query(ctx, sql, orgID, maxCandidateDocs)
	if err != nil {
		return nil, fmt.Errorf("ai: list knowledge documents: %w", err)
	}
	defer rows.Close()

	var docs []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("ai: scan knowledge document: %w", err)
		}
		docs = append(docs, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ai: iterate knowledge documents: %w", err)
	}

	return RankDocuments(docs, query, limit), nil
}

// RankDocuments orders docs by distinct keyword hits against query and keeps
// the top limit. Pure so tests can exercise it without a database.
func RankDocuments(docs []string, query string, limit int) []string {
	if limit <= 0 {
		limit = 3
	}
	keywords := queryKeywords(query)
	if len(keywords) == 0 {
		return nil
	}

	type scored struct {
		doc  string
		hits int
		pos  int
	}
	var ranked []scored
	for i, doc := range docs {
		lowered := strings.ToLower(doc)
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				hits++
			}
		}
		if hits > 0 {
			ranked = append(ranked, scored{doc: doc, hits: hits, pos: i})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].hits != ranked[j].hits {
			return ranked[i].hits > ranked[j].hits
		}
		return ranked[i].pos < ranked[j].pos
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.doc
	}
	return out
}

func queryKeywords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	var out []string
	for _, f := range fields {
		f = strings.Trim(f, ".,!?")
		if len(f) >= 3 {
			out = append(out, f)
		}
	}
	return out
}

var _ KnowledgeStore = (*PostgresKnowledgeStore)(nil)
