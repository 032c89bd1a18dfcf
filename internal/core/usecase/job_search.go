package usecase

import (
	"context"
	"fmt"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
)

// JobSearchUseCase serves direct job search: lexical ranking plus structured
// filters. An empty query browses the whole corpus newest first, so "browse
// all" and "search" share one path.
type JobSearchUseCase struct {
	jobs ports.JobStore
}

func NewJobSearchUseCase(jobs ports.JobStore) *JobSearchUseCase {
	return &JobSearchUseCase{jobs: jobs}
}

func (uc *JobSearchUseCase) SearchJobs(ctx context.Context, query string, filters domain.StructuredFilters, page domain.Page) (*domain.JobSearchResult, error) {
	hits, err := uc.jobs.SearchLexical(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lexical job search: %w", err)
	}

	matches := make([]domain.JobMatch, 0, len(hits))
	for _, hit := range hits {
		if !MatchesFilters(hit.Job.MatchProfile, filters) {
			continue
		}
		matches = append(matches, domain.JobMatch{
			Job:    hit.Job,
			Score:  hit.Rank,
			Source: domain.SourceLexical,
		})
	}

	sortJobMatches(matches)
	pageMatches, hasMore := paginate(matches, page)

	normalized := page.Normalize()
	return &domain.JobSearchResult{
		Matches: pageMatches,
		Page:    normalized.Number,
		Limit:   normalized.Limit,
		HasMore: hasMore,
	}, nil
}
