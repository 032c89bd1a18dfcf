package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/talentpool/talent-match/internal/core/domain"
)

var candidateRows = []string{
	"id", "name", "email", "skills", "experience", "location",
	"employment_type", "resume_text", "created_at", "updated_at",
}

func TestCandidateSearchLexicalRanksByRelevance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCandidateRepository(db)
	rows := sqlmock.NewRows(append(candidateRows, "rank")).
		AddRow("c-1", "Ada", "ada@example.com", []byte(`["Go","SQL"]`), "Senior", "Berlin", "Remote", "resume", time.Now(), time.Now(), 0.42)

	mock.ExpectQuery(`ts_rank`).
		WithArgs("go engineer").
		WillReturnRows(rows)

	hits, err := repo.SearchLexical(context.Background(), "go engineer")
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if hits[0].Rank != 0.42 {
		t.Fatalf("expected rank 0.42, got %f", hits[0].Rank)
	}
	if len(hits[0].Candidate.Skills) != 2 {
		t.Fatalf("expected skills decoded from jsonb, got %v", hits[0].Candidate.Skills)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCandidateSearchLexicalEmptyQueryBrowsesByRecency(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCandidateRepository(db)
	rows := sqlmock.NewRows(append(candidateRows, "rank")).
		AddRow("c-2", "Newest", "", []byte(`[]`), "", "", "", "", time.Now(), time.Now(), 0.0).
		AddRow("c-1", "Older", "", []byte(`[]`), "", "", "", "", time.Now().Add(-time.Hour), time.Now(), 0.0)

	mock.ExpectQuery(`ORDER BY created_at DESC`).
		WillReturnRows(rows)

	hits, err := repo.SearchLexical(context.Background(), "   ")
	if err != nil {
		t.Fatalf("SearchLexical() error = %v", err)
	}
	if len(hits) != 2 || hits[0].Candidate.ID != "c-2" {
		t.Fatalf("expected recency-ordered browse results, got %+v", hits)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCandidateGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCandidateRepository(db)
	mock.ExpectQuery(`FROM candidates`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(candidateRows))

	_, err = repo.GetByID(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCandidateCreateStoresSkillsTextForIndexing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCandidateRepository(db)
	mock.ExpectExec(`INSERT INTO candidates`).
		WithArgs("c-1", "Ada", "ada@example.com", []byte(`["Go","SQL"]`), "Go SQL",
			"Senior", "Berlin", "Remote", "resume", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	candidate := &domain.Candidate{
		ID:    "c-1",
		Name:  "Ada",
		Email: "ada@example.com",
		MatchProfile: domain.MatchProfile{
			Skills:         []string{"Go", "SQL"},
			Experience:     "Senior",
			Location:       "Berlin",
			EmploymentType: "Remote",
		},
		ResumeText: "resume",
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	if err := repo.Create(context.Background(), candidate); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateResumeTextMissingCandidate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer db.Close()

	repo := NewCandidateRepository(db)
	mock.ExpectExec(`UPDATE candidates`).
		WithArgs("missing", "text", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.UpdateResumeText(context.Background(), "missing", "text")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
