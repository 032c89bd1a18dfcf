package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/talentpool/talent-match/internal/core/domain"
)

const jobSearchable = `to_tsvector('english', coalesce(title,'') || ' ' || coalesce(skills_text,'') || ' ' || coalesce(description,''))`

const jobColumns = `id, title, description, skills, experience, location, employment_type, created_at, updated_at`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	skillsJSON, err := json.Marshal(job.Skills)
	if err != nil {
		return fmt.Errorf("marshal skills: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO jobs (
	id, title, description, skills, skills_text, experience, location, employment_type, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
		job.ID, job.Title, job.Description, skillsJSON, strings.Join(job.Skills, " "),
		job.Experience, job.Location, job.EmploymentType, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+jobColumns+`
FROM jobs
WHERE id = $1
`, id)

	job, err := scanJob(row.Scan, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get job", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	return job, nil
}

func (r *JobRepository) SearchLexical(ctx context.Context, query string) ([]domain.JobHit, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if strings.TrimSpace(query) == "" {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+jobColumns+`, 0::float8 AS rank
FROM jobs
ORDER BY created_at DESC
`)
	} else {
		rows, err = r.db.QueryContext(ctx, `
SELECT `+jobColumns+`, ts_rank(`+jobSearchable+`, plainto_tsquery('english', $1)) AS rank
FROM jobs
WHERE `+jobSearchable+` @@ plainto_tsquery('english', $1)
ORDER BY rank DESC, created_at DESC
`, query)
	}
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	var hits []domain.JobHit
	for rows.Next() {
		var rank float64
		job, err := scanJob(rows.Scan, &rank)
		if err != nil {
			return nil, fmt.Errorf("scan job row: %w", err)
		}
		hits = append(hits, domain.JobHit{Job: *job, Rank: rank})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return hits, nil
}

func scanJob(scan func(...any) error, rank *float64) (*domain.Job, error) {
	var (
		job         domain.Job
		skillsRaw   []byte
		description sql.NullString
		exp         sql.NullString
		loc         sql.NullString
		empType     sql.NullString
	)

	dest := []any{
		&job.ID, &job.Title, &description, &skillsRaw,
		&exp, &loc, &empType,
		&job.CreatedAt, &job.UpdatedAt,
	}
	if rank != nil {
		dest = append(dest, rank)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(skillsRaw, &job.Skills); err != nil {
		return nil, fmt.Errorf("unmarshal skills: %w", err)
	}
	job.Description = description.String
	job.Experience = exp.String
	job.Location = loc.String
	job.EmploymentType = empType.String
	return &job, nil
}
