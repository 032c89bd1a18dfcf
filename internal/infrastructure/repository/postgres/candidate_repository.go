package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/talentpool/talent-match/internal/core/domain"
)

// candidateSearchable is the expression behind idx_candidates_fts; the WHERE
// clause must use the identical expression for the planner to hit the index.
const candidateSearchable = `to_tsvector('english', coalesce(name,'') || ' ' || coalesce(skills_text,'') || ' ' || coalesce(resume_text,''))`

const candidateColumns = `id, name, email, skills, experience, location, employment_type, resume_text, created_at, updated_at`

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

func (r *CandidateRepository) Create(ctx context.Context, candidate *domain.Candidate) error {
	skillsJSON, err := json.Marshal(candidate.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO candidates (
	id, name, email, skills, skills_text, experience, location, employment_type, resume_text, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		candidate.ID, candidate.Name, candidate.Email, skillsJSON, strings.Join(candidate.Skills, " "),
		candidate.Experience, candidate.Location, candidate.EmploymentType, candidate.ResumeText,
		candidate.CreatedAt, candidate.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (r *CandidateRepository) GetByID(ctx context.Context, id string) (*domain.Candidate, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+candidateColumns+`
FROM candidates
WHERE id = $1
`, id)

	candidate, err := scanCandidate(row.Scan, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get candidate", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan candidate: %w", err)
	}
	return candidate, nil
}

func (r *CandidateRepository) UpdateResumeText(ctx context.Context, id, resumeText string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE candidates
SET resume_text = $2, updated_at = $3
WHERE id = $1
`, id, resumeText, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update resume text: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.WrapError(domain.ErrNotFound, "update resume text", fmt.Errorf("id %s", id))
	}
	return nil
}

// SearchLexical ranks candidates by stemmed full-text relevance against the
// query. An empty query returns the whole corpus newest first with a zero
// rank, so browsing and searching share one call.
func (r *CandidateRepository) SearchLexical(ctx context.Context, query string) ([]domain.CandidateHit, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if strings.TrimSpace(query) == "" {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+candidateColumns+`, 0::float8 AS rank
FROM candidates
ORDER BY created_at DESC
`)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+candidateColumns+`, ts_rank(`+candidateSearchable+`, plainto_tsquery('english', $1)) AS rank
FROM candidates
WHERE `+candidateSearchable+` @@ plainto_tsquery('english', $1)
ORDER BY rank DESC, created_at DESC
`, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var hits []domain.CandidateHit
	for rows.Next() {
		var rank float64
		candidate, err := scanCandidate(rows.Scan, &rank)
		if err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		hits = append(hits, domain.CandidateHit{Candidate: *candidate, Rank: rank})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return hits, nil
}

func scanCandidate(scan func(...any) error, rank *float64) (*domain.Candidate, error) {
	var (
		candidate domain.Candidate
		skillsRaw []byte
		email     sql.NullString
		exp       sql.NullString
		loc       sql.NullString
		empType   sql.NullString
		resume    sql.NullString
	)

	dest := []any{
		&candidate.ID, &candidate.Name, &email, &skillsRaw,
		&exp, &loc, &empType, &resume,
		&candidate.CreatedAt, &candidate.UpdatedAt,
	}
	if rank != nil {
		dest = append(dest, rank)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skillsRaw, &candidate.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	candidate.Email = email.String
	candidate.Experience = exp.String
	candidate.Location = loc.String
	candidate.EmploymentType = empType.String
	candidate.ResumeText = resume.String
	return &candidate, nil
}
