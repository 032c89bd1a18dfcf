// Package bootstrap wires the process dependencies for the api and worker
// binaries.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/talentpool/talent-match/internal/config"
	"github.com/talentpool/talent-match/internal/core/ports"
	"github.com/talentpool/talent-match/internal/core/usecase"
	"github.com/talentpool/talent-match/internal/infrastructure/embed"
	"github.com/talentpool/talent-match/internal/infrastructure/extractor/resume"
	"github.com/talentpool/talent-match/internal/infrastructure/importer/xlsx"
	"github.com/talentpool/talent-match/internal/infrastructure/llm/ollama"
	"github.com/talentpool/talent-match/internal/infrastructure/queue/nats"
	"github.com/talentpool/talent-match/internal/infrastructure/repository/postgres"
	"github.com/talentpool/talent-match/internal/infrastructure/resilience"
	"github.com/talentpool/talent-match/internal/infrastructure/storage/localfs"
	"github.com/talentpool/talent-match/internal/infrastructure/vector/qdrant"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue *nats.Queue

	CandidateSearchUC *usecase.CandidateSearchUseCase
	JobSearchUC       *usecase.JobSearchUseCase
	MatchScoringUC    *usecase.MatchScoringUseCase
	ImportUC          *usecase.CandidateImportUseCase
	ResumeUC          *usecase.ResumeUseCase
	ReindexUC         *usecase.ReindexUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN, cfg.PostgresMaxConn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	candidates := postgres.NewCandidateRepository(db)
	jobs := postgres.NewJobRepository(db)
	applications := postgres.NewApplicationRepository(db)

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.QueueConfig(), logger),
		Logger:             logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init reindex queue: %w", err)
	}

	embedExecutor := resilience.NewExecutor(resilience.EmbeddingConfig(), logger)
	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, embedExecutor)
	embedder := embed.NewLazy(func() (ports.Embedder, error) {
		return ollamaClient, nil
	})

	vectorIndex := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection, cfg.EmbeddingDim)

	archive, err := localfs.New(cfg.ResumeArchivePath)
	if err != nil {
		return nil, fmt.Errorf("init resume archive: %w", err)
	}

	interpreter := usecase.NewQueryInterpreter(ollamaClient, logger)

	candidateSearchUC := usecase.NewCandidateSearchUseCase(
		interpreter, candidates, embedder, vectorIndex,
		cfg.SemanticCandidates, cfg.MinSimilarity, logger,
	)
	jobSearchUC := usecase.NewJobSearchUseCase(jobs)
	matchScoringUC := usecase.NewMatchScoringUseCase(candidates, jobs, applications)
	importUC := usecase.NewCandidateImportUseCase(xlsx.NewParser(), candidates, queue, logger)
	resumeUC := usecase.NewResumeUseCase(candidates, resume.NewExtractor(), archive, queue, logger)
	reindexUC := usecase.NewReindexUseCase(candidates, jobs, embedder, vectorIndex, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue: queue,

		CandidateSearchUC: candidateSearchUC,
		JobSearchUC:       jobSearchUC,
		MatchScoringUC:    matchScoringUC,
		ImportUC:          importUC,
		ResumeUC:          resumeUC,
		ReindexUC:         reindexUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
