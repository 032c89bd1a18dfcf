package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/talentpool/talent-match/internal/core/domain"
)

var jobRows = []string{
	"id", "title", "description", "skills", "experience", "location",
	"employment_type", "created_at", "updated_at",
}

func TestJobSearchLexicalParsesRankedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	rows := sqlmock.NewRows(append(jobRows, "rank")).
		AddRow("j-1", "Backend Engineer", "Go services", []byte(`["Go"]`), "Senior", "Berlin", "Remote", time.Now(), time.Now(), 0.9).
		AddRow("j-2", "Data Engineer", "Pipelines", []byte(`["Python","SQL"]`), "Mid", "Hamburg", "Hybrid", time.Now(), time.Now(), 0.3)

	mock.ExpectQuery(`ts_rank`).
		WithArgs("engineer").
		WillReturnRows(rows)

	hits, err := repo.SearchLexical(context.Background(), "engineer")
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].Job.Title != "Backend Engineer" || hits[0].Rank != 0.9 {
		t.Fatalf("unexpected first hit: %+v", hits[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestJobSearchLexicalEmptyQueryUsesRecencyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(append(jobRows, "rank")))

	hits, err := repo.SearchLexical(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected empty corpus, got %d", len(hits))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestJobGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewJobRepository(db)
	mock.ExpectQuery(`FROM jobs`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(jobRows))

	_, err = repo.GetByID(context.Background(), "ghost")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
