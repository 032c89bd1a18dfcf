package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
)

// SpreadsheetParser turns an uploaded spreadsheet into candidate rows.
type SpreadsheetParser interface {
	ParseCandidates(r io.Reader) ([]domain.Candidate, []string, error)
}

// CandidateImportUseCase ingests candidates in bulk and enqueues each for
// vector indexing. Rows that fail to parse are skipped and reported, not
// fatal.
type CandidateImportUseCase struct {
	parser     SpreadsheetParser
	candidates ports.CandidateStore
	queue      ports.ReindexQueue
	logger     *slog.Logger
}

func NewCandidateImportUseCase(
	parser SpreadsheetParser,
	candidates ports.CandidateStore,
	queue ports.ReindexQueue,
	logger *slog.Logger,
) *CandidateImportUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CandidateImportUseCase{
		parser:     parser,
		candidates: candidates,
		queue:      queue,
		logger:     logger,
	}
}

func (uc *CandidateImportUseCase) ImportCandidates(ctx context.Context, spreadsheet io.Reader) (*domain.ImportSummary, error) {
	candidates, rowErrors, err := uc.parser.ParseCandidates(spreadsheet)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "parse spreadsheet", err)
	}

	summary := &domain.ImportSummary{Errors: rowErrors, Skipped: len(rowErrors)}
	now := time.Now().UTC()

	for i := range candidates {
		candidate := &candidates[i]
		if candidate.ID == "" {
			candidate.ID = uuid.NewString()
		}
		candidate.CreatedAt = now
		candidate.UpdatedAt = now

		if err := uc.candidates.Create(ctx, candidate); err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("candidate %q: %v", candidate.Name, err))
			continue
		}
		summary.Imported++

		if err := uc.queue.PublishEntityChanged(ctx, domain.KindCandidate, candidate.ID); err != nil {
			// The record is stored; indexing will catch up on the next
			// resume update or manual reindex.
			uc.logger.Warn("reindex_enqueue_failed", "candidate_id", candidate.ID, "error", err)
		}
	}
	return summary, nil
}
