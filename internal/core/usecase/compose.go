package usecase

import (
	"sort"

	"github.com/talentpool/talent-match/internal/core/domain"
)

// mergeCandidateSignals unions lexical and semantic hits into one
// de-duplicated list keyed by candidate id. When the same candidate arrives
// from both sources the database record wins over the vector payload snapshot
// and the highest score seen is carried forward with source "combined".
// Semantic hits without a database record are synthesized from the snapshot so
// an index/DB lag does not drop results.
func mergeCandidateSignals(lexical []domain.CandidateHit, semantic []domain.SemanticHit, records map[string]domain.Candidate) []domain.CandidateMatch {
	acc := make(map[string]domain.CandidateMatch, len(lexical)+len(semantic))
	order := make([]string, 0, len(lexical)+len(semantic))

	for _, hit := range lexical {
		id := hit.Candidate.ID
		if _, seen := acc[id]; !seen {
			order = append(order, id)
		}
		acc[id] = domain.CandidateMatch{
			Candidate: hit.Candidate,
			Score:     hit.Rank,
			Source:    domain.SourceLexical,
		}
	}

	for _, hit := range semantic {
		existing, seen := acc[hit.EntityID]
		if !seen {
			order = append(order, hit.EntityID)
			acc[hit.EntityID] = domain.CandidateMatch{
				Candidate: candidateFromSignal(hit, records),
				Score:     hit.Similarity,
				Source:    domain.SourceSemantic,
			}
			continue
		}
		existing.Source = domain.SourceCombined
		if hit.Similarity > existing.Score {
			existing.Score = hit.Similarity
		}
		acc[hit.EntityID] = existing
	}

	out := make([]domain.CandidateMatch, 0, len(order))
	for _, id := range order {
		out = append(out, acc[id])
	}
	return out
}

func candidateFromSignal(hit domain.SemanticHit, records map[string]domain.Candidate) domain.Candidate {
	if record, ok := records[hit.EntityID]; ok {
		return record
	}
	return domain.Candidate{
		ID:   hit.EntityID,
		Name: hit.Snapshot.Name,
		MatchProfile: domain.MatchProfile{
			Skills:   hit.Snapshot.Skills,
			Location: hit.Snapshot.Location,
		},
		ResumeText: hit.Snapshot.Text,
	}
}

// sortCandidateMatches orders by score descending, breaking ties by recency
// (newest created first) and finally by id for a stable output.
func sortCandidateMatches(matches []domain.CandidateMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if !matches[i].Candidate.CreatedAt.Equal(matches[j].Candidate.CreatedAt) {
			return matches[i].Candidate.CreatedAt.After(matches[j].Candidate.CreatedAt)
		}
		return matches[i].Candidate.ID < matches[j].Candidate.ID
	})
}

func sortJobMatches(matches []domain.JobMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if !matches[i].Job.CreatedAt.Equal(matches[j].Job.CreatedAt) {
			return matches[i].Job.CreatedAt.After(matches[j].Job.CreatedAt)
		}
		return matches[i].Job.ID < matches[j].Job.ID
	})
}

// paginate slices a sorted result list for a 1-based page request. A full
// page is treated as a signal that more results may exist; no total count is
// computed. The heuristic can over-report on exact-boundary result sets,
// which is the documented behavior.
func paginate[T any](items []T, page domain.Page) ([]T, bool) {
	page = page.Normalize()
	start := (page.Number - 1) * page.Limit
	if start >= len(items) {
		return []T{}, false
	}
	end := min(start+page.Limit, len(items))
	out := items[start:end]
	return out, len(out) == page.Limit
}
