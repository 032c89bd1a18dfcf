package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
)

// ResumeUseCase attaches an uploaded resume to a candidate: archive the
// original file, extract text, persist it and enqueue reindexing so the new
// content becomes searchable.
type ResumeUseCase struct {
	candidates ports.CandidateStore
	extractor  ports.ResumeTextExtractor
	archive    ports.ResumeArchive
	queue      ports.ReindexQueue
	logger     *slog.Logger
}

func NewResumeUseCase(
	candidates ports.CandidateStore,
	extractor ports.ResumeTextExtractor,
	archive ports.ResumeArchive,
	queue ports.ReindexQueue,
	logger *slog.Logger,
) *ResumeUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeUseCase{
		candidates: candidates,
		extractor:  extractor,
		archive:    archive,
		queue:      queue,
		logger:     logger,
	}
}

func (uc *ResumeUseCase) AttachResume(ctx context.Context, candidateID, filename string, data []byte) error {
	if _, err := uc.candidates.GetByID(ctx, candidateID); err != nil {
		return fmt.Errorf("load candidate: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, filename, data)
	if err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "extract resume text", err)
	}

	if uc.archive != nil {
		key := archiveKey(candidateID, filename)
		if err := uc.archive.Save(ctx, key, bytes.NewReader(data)); err != nil {
			// The extracted text is the source of truth for search; losing
			// the original copy is not fatal.
			uc.logger.Warn("resume_archive_failed", "candidate_id", candidateID, "error", err)
		}
	}

	if err := uc.candidates.UpdateResumeText(ctx, candidateID, text); err != nil {
		return fmt.Errorf("store resume text: %w", err)
	}

	if err := uc.queue.PublishEntityChanged(ctx, domain.KindCandidate, candidateID); err != nil {
		uc.logger.Warn("reindex_enqueue_failed", "candidate_id", candidateID, "error", err)
	}
	return nil
}

// archiveKey stores one file per candidate, keyed by id plus the upload's
// extension so a new upload replaces the previous one.
func archiveKey(candidateID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".txt"
	}
	return candidateID + ext
}
