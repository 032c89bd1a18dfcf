package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
)

// ReindexUseCase re-embeds one entity's text blob and replaces its vector in
// the index. The index upsert deletes any prior vector for the entity id
// before inserting, so reindexing is idempotent. Callers must serialize
// reindexing of a single entity id; the worker does so by consuming the
// reindex queue sequentially.
type ReindexUseCase struct {
	candidates  ports.CandidateStore
	jobs        ports.JobStore
	embedder    ports.Embedder
	vectorIndex ports.VectorIndex
	logger      *slog.Logger
}

func NewReindexUseCase(
	candidates ports.CandidateStore,
	jobs ports.JobStore,
	embedder ports.Embedder,
	vectorIndex ports.VectorIndex,
	logger *slog.Logger,
) *ReindexUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReindexUseCase{
		candidates:  candidates,
		jobs:        jobs,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		logger:      logger,
	}
}

func (uc *ReindexUseCase) ReindexByID(ctx context.Context, kind domain.EntityKind, entityID string) error {
	snapshot, text, err := uc.loadSnapshot(ctx, kind, entityID)
	if err != nil {
		return err
	}

	vector, err := uc.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %s %s: %w", kind, entityID, err)
	}

	// A failure between the index-side delete and insert leaves the entity
	// unsearchable; surface it so the whole upsert is retried.
	if err := uc.vectorIndex.UpsertEntity(ctx, snapshot, vector); err != nil {
		uc.logger.Error("vector_upsert_failed", "kind", kind, "entity_id", entityID, "error", err)
		return fmt.Errorf("upsert vector for %s %s: %w", kind, entityID, err)
	}
	return nil
}

func (uc *ReindexUseCase) loadSnapshot(ctx context.Context, kind domain.EntityKind, entityID string) (domain.EntitySnapshot, string, error) {
	switch kind {
	case domain.KindCandidate:
		candidate, err := uc.candidates.GetByID(ctx, entityID)
		if err != nil {
			return domain.EntitySnapshot{}, "", fmt.Errorf("load candidate %s: %w", entityID, err)
		}
		return domain.EntitySnapshot{
			EntityID: candidate.ID,
			Kind:     domain.KindCandidate,
			Name:     candidate.Name,
			Skills:   candidate.Skills,
			Location: candidate.Location,
			Text:     excerpt(candidate.ResumeText, 512),
		}, candidate.IndexText(), nil
	case domain.KindJob:
		job, err := uc.jobs.GetByID(ctx, entityID)
		if err != nil {
			return domain.EntitySnapshot{}, "", fmt.Errorf("load job %s: %w", entityID, err)
		}
		return domain.EntitySnapshot{
			EntityID: job.ID,
			Kind:     domain.KindJob,
			Name:     job.Title,
			Skills:   job.Skills,
			Location: job.Location,
			Text:     excerpt(job.Description, 512),
		}, job.IndexText(), nil
	default:
		return domain.EntitySnapshot{}, "", domain.WrapError(domain.ErrInvalidInput, "reindex", fmt.Errorf("unknown entity kind %q", kind))
	}
}

func excerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
