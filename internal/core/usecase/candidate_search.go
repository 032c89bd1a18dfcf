package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
)

// CandidateSearchUseCase composes the interpreter, lexical ranking, structured
// filtering and semantic similarity into one ranked candidate list.
type CandidateSearchUseCase struct {
	interpreter   *QueryInterpreter
	candidates    ports.CandidateStore
	embedder      ports.Embedder
	vectorIndex   ports.VectorIndex
	logger        *slog.Logger
	onDegraded    func()
	semanticLimit int
	minSimilarity float64
}

func NewCandidateSearchUseCase(
	interpreter *QueryInterpreter,
	candidates ports.CandidateStore,
	embedder ports.Embedder,
	vectorIndex ports.VectorIndex,
	semanticLimit int,
	minSimilarity float64,
	logger *slog.Logger,
) *CandidateSearchUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if semanticLimit <= 0 {
		semanticLimit = 50
	}
	return &CandidateSearchUseCase{
		interpreter:   interpreter,
		candidates:    candidates,
		embedder:      embedder,
		vectorIndex:   vectorIndex,
		logger:        logger,
		semanticLimit: semanticLimit,
		minSimilarity: minSimilarity,
	}
}

// SetDegradedObserver registers a hook invoked when semantic enrichment fails
// and the search falls back to lexical/structured signals only.
func (uc *CandidateSearchUseCase) SetDegradedObserver(fn func()) {
	uc.onDegraded = fn
}

// SearchCandidates interprets the query, ranks the corpus lexically, applies
// the structured filters and enriches with semantic similarity. Semantic
// failures degrade the result instead of failing it; lexical corpus fetch is
// required and its errors propagate.
func (uc *CandidateSearchUseCase) SearchCandidates(ctx context.Context, query string, page domain.Page) (*domain.CandidateSearchResult, error) {
	filters, usedFallback := uc.interpreter.Interpret(ctx, query)

	hits, err := uc.candidates.SearchLexical(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("lexical candidate search: %w", err)
	}

	lexical := make([]domain.CandidateHit, 0, len(hits))
	for _, hit := range hits {
		if MatchesFilters(hit.Candidate.MatchProfile, filters) {
			lexical = append(lexical, hit)
		}
	}

	semantic, degraded := uc.semanticHits(ctx, query, filters)

	records := make(map[string]domain.Candidate, len(semantic))
	for _, hit := range semantic {
		if record, err := uc.candidates.GetByID(ctx, hit.EntityID); err == nil && record != nil {
			records[hit.EntityID] = *record
		}
	}

	matches := mergeCandidateSignals(lexical, semantic, records)
	sortCandidateMatches(matches)
	pageMatches, hasMore := paginate(matches, page)

	normalized := page.Normalize()
	return &domain.CandidateSearchResult{
		Matches:          pageMatches,
		Page:             normalized.Number,
		Limit:            normalized.Limit,
		HasMore:          hasMore,
		Filters:          filters,
		UsedFallback:     usedFallback,
		SemanticDegraded: degraded,
	}, nil
}

// semanticHits embeds the query and retrieves nearest candidates, applying the
// minimum-similarity cutoff and the structured filters on whatever attributes
// each hit carries. Any failure returns no hits plus the degraded flag.
func (uc *CandidateSearchUseCase) semanticHits(ctx context.Context, query string, filters domain.StructuredFilters) ([]domain.SemanticHit, bool) {
	if strings.TrimSpace(query) == "" || uc.embedder == nil || uc.vectorIndex == nil {
		return nil, false
	}

	vector, err := uc.embedder.EmbedQuery(ctx, query)
	if err != nil {
		uc.logger.Warn("semantic_search_degraded", "stage", "embed", "error", err)
		uc.markDegraded()
		return nil, true
	}

	hits, err := uc.vectorIndex.Search(ctx, vector, uc.semanticLimit, domain.KindCandidate)
	if err != nil {
		uc.logger.Warn("semantic_search_degraded", "stage", "search", "error", err)
		uc.markDegraded()
		return nil, true
	}

	out := make([]domain.SemanticHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity < uc.minSimilarity {
			continue
		}
		profile := domain.MatchProfile{
			Skills:   hit.Snapshot.Skills,
			Location: hit.Snapshot.Location,
		}
		if !MatchesFilters(profile, domain.StructuredFilters{Skills: filters.Skills, Location: filters.Location}) {
			continue
		}
		out = append(out, hit)
	}
	return out, false
}

func (uc *CandidateSearchUseCase) markDegraded() {
	if uc.onDegraded != nil {
		uc.onDegraded()
	}
}
