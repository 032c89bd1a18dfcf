package ports

import (
	"context"
	"io"

	"github.com/talentpool/talent-match/internal/core/domain"
)

// CandidateStore persists and reads candidate records. SearchLexical ranks by
// full-text relevance; an empty query returns the whole corpus newest first.
type CandidateStore interface {
	Create(ctx context.Context, candidate *domain.Candidate) error
	GetByID(ctx context.Context, id string) (*domain.Candidate, error)
	UpdateResumeText(ctx context.Context, id, resumeText string) error
	SearchLexical(ctx context.Context, query string) ([]domain.CandidateHit, error)
}

// JobStore persists and reads job postings.
type JobStore interface {
	Create(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	SearchLexical(ctx context.Context, query string) ([]domain.JobHit, error)
}

// ApplicationStore reads applications and persists deterministic match scores.
type ApplicationStore interface {
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	SaveScore(ctx context.Context, id string, total int, feedback string) error
}

// VectorIndex maintains one current vector per entity id and retrieves the
// top-K entities by cosine similarity. Upsert replaces any prior vector for
// the same entity id. Search returns raw similarity scores; thresholding is
// caller policy.
type VectorIndex interface {
	UpsertEntity(ctx context.Context, snapshot domain.EntitySnapshot, vector []float32) error
	Search(ctx context.Context, queryVector []float32, limit int, kind domain.EntityKind) ([]domain.SemanticHit, error)
}

// Embedder turns text into a fixed-dimension unit vector. Index and query
// embeddings must come from the same embedder.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// TextCompleter is the opaque text-completion capability.
type TextCompleter interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, temperature float64) (string, error)
}

// ReindexQueue publishes/consumes entity-changed events. The worker consumes
// sequentially, which serializes reindexing of a single entity id.
type ReindexQueue interface {
	PublishEntityChanged(ctx context.Context, kind domain.EntityKind, entityID string) error
	SubscribeEntityChanged(ctx context.Context, handler func(ctx context.Context, kind domain.EntityKind, entityID string) error) error
}

// ResumeTextExtractor extracts plain text from an uploaded resume file.
type ResumeTextExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}

// ResumeArchive keeps the original uploaded resume files.
type ResumeArchive interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
