package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/talentpool/talent-match/internal/core/domain"
)

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, candidate_id, job_id, match_score, feedback, created_at, updated_at
FROM applications
WHERE id = $1
`, id)

	var (
		application domain.Application
		feedback    sql.NullString
	)
	err := row.Scan(
		&application.ID, &application.CandidateID, &application.JobID,
		&application.MatchScore, &feedback, &application.CreatedAt, &application.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrNotFound, "get application", fmt.Errorf("id %s", id))
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	application.Feedback = feedback.String
	return &application, nil
}

func (r *ApplicationRepository) SaveScore(ctx context.Context, id string, total int, feedback string) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE applications
SET match_score = $2, feedback = $3, updated_at = $4
WHERE id = $1
`, id, total, feedback, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save application score: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.WrapError(domain.ErrNotFound, "save application score", fmt.Errorf("id %s", id))
	}
	return nil
}
