package ai

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPostgresKnowledgeStoreIngest(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newPostgresKnowledgeStoreWithDB(mock)

	mock.ExpectExec("INSERT INTO knowledge_documents").
		WithArgs(pgxmock.AnyArg(), "org-1", "We open at 9am").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO knowledge_documents").
		WithArgs(pgxmock.AnyArg(), "org-1", "Haircut RM50").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	n, err := store.Ingest(context.Background(), "org-1", []string{"We open at 9am", "  ", "Haircut RM50"})
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2 (blank doc skipped)", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresKnowledgeStoreSearch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	store := newPostgresKnowledgeStoreWithDB(mock)

	rows := pgxmock.NewRows([]string{"content"}).
		AddRow("Haircut costs RM50, wash included").
		AddRow("We are closed on Mondays").
		AddRow("Facial treatment costs RM120")
	mock.ExpectQuery("SELECT content").WithArgs("org-1", maxCandidateDocs).WillReturnRows(rows)

	got, err := store.Search(context.Background(), "org-1", "how much is a haircut", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d docs, want 2", len(got))
	}
	if got[0] != "Haircut costs RM50, wash included" {
		t.Errorf("top doc = %q", got[0])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRankDocuments(t *testing.T) {
	docs := []string{
		"Botox promo this month",
		"Haircut RM50 and facial RM120",
		"Facial packages available, haircut add-on RM30",
	}

	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{
			name:  "more keyword hits ranks higher",
			query: "haircut facial price",
			limit: 3,
			want: []string{
				"Haircut RM50 and facial RM120",
				"Facial packages available, haircut add-on RM30",
			},
		},
		{
			name:  "no hits excluded",
			query: "massage",
			limit: 3,
			want:  nil,
		},
		{
			name:  "limit applied",
			query: "facial",
			limit: 1,
			want:  []string{"Haircut RM50 and facial RM120"},
		},
		{
			name:  "short words ignored",
			query: "a an is",
			limit: 3,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RankDocuments(docs, tt.query, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("rank[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
