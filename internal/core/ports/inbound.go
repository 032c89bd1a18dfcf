package ports

import (
	"context"
	"io"

	"github.com/talentpool/talent-match/internal/core/domain"
)

// CandidateSearcher is the inbound contract for natural-language candidate
// search.
type CandidateSearcher interface {
	SearchCandidates(ctx context.Context, query string, page domain.Page) (*domain.CandidateSearchResult, error)
}

// JobSearcher is the inbound contract for job search and browsing.
type JobSearcher interface {
	SearchJobs(ctx context.Context, query string, filters domain.StructuredFilters, page domain.Page) (*domain.JobSearchResult, error)
}

// MatchScorer computes and regenerates deterministic application scores.
type MatchScorer interface {
	ScoreMatch(ctx context.Context, candidateID, jobID string) (*domain.ApplicationScore, error)
	RegenerateFeedback(ctx context.Context, applicationID string) (*domain.ApplicationScore, error)
}

// EntityIndexer re-embeds one entity and replaces its vector in the index.
type EntityIndexer interface {
	ReindexByID(ctx context.Context, kind domain.EntityKind, entityID string) error
}

// CandidateImporter ingests candidates in bulk from a spreadsheet.
type CandidateImporter interface {
	ImportCandidates(ctx context.Context, spreadsheet io.Reader) (*domain.ImportSummary, error)
}
