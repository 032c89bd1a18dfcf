package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
)

// MatchScoringUseCase computes the deterministic application score and serves
// the regenerate-feedback endpoint. Because ScoreMatch is pure, regeneration
// is stable across unrelated attribute changes.
type MatchScoringUseCase struct {
	candidates   ports.CandidateStore
	jobs         ports.JobStore
	applications ports.ApplicationStore
}

func NewMatchScoringUseCase(
	candidates ports.CandidateStore,
	jobs ports.JobStore,
	applications ports.ApplicationStore,
) *MatchScoringUseCase {
	return &MatchScoringUseCase{
		candidates:   candidates,
		jobs:         jobs,
		applications: applications,
	}
}

func (uc *MatchScoringUseCase) ScoreMatch(ctx context.Context, candidateID, jobID string) (*domain.ApplicationScore, error) {
	candidate, err := uc.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate: %w", err)
	}
	job, err := uc.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("load job: %w", err)
	}

	breakdown := ScoreMatch(*candidate, *job)
	return &domain.ApplicationScore{
		CandidateID: candidateID,
		JobID:       jobID,
		Breakdown:   breakdown,
		Feedback:    MatchFeedback(*candidate, *job, breakdown),
		ComputedAt:  time.Now().UTC(),
	}, nil
}

// RegenerateFeedback recomputes the score for an existing application from
// current candidate and job snapshots and persists the new total and feedback.
func (uc *MatchScoringUseCase) RegenerateFeedback(ctx context.Context, applicationID string) (*domain.ApplicationScore, error) {
	application, err := uc.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("load application: %w", err)
	}

	score, err := uc.ScoreMatch(ctx, application.CandidateID, application.JobID)
	if err != nil {
		return nil, err
	}

	if err := uc.applications.SaveScore(ctx, applicationID, score.Breakdown.Total, score.Feedback); err != nil {
		return nil, fmt.Errorf("persist application score: %w", err)
	}
	return score, nil
}
