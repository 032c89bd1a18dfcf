package usecase

import (
	"testing"
	"time"

	"github.com/talentpool/talent-match/internal/core/domain"
)

func TestMergeCandidateSignalsDeduplicatesAndPrefersDBRecord(t *testing.T) {
	dbRecord := domain.Candidate{
		ID:   "c1",
		Name: "Ada Lovelace",
		MatchProfile: domain.MatchProfile{
			Skills:   []string{"Python", "SQL"},
			Location: "Berlin",
		},
	}
	lexical := []domain.CandidateHit{{Candidate: dbRecord, Rank: 0.4}}
	semantic := []domain.SemanticHit{{
		EntityID:   "c1",
		Similarity: 0.9,
		Snapshot:   domain.EntitySnapshot{EntityID: "c1", Name: "stale snapshot"},
	}}

	merged := mergeCandidateSignals(lexical, semantic, nil)
	if len(merged) != 1 {
		t.Fatalf("expected one deduplicated match, got %d", len(merged))
	}
	if merged[0].Candidate.Name != "Ada Lovelace" {
		t.Fatalf("database record must win over snapshot, got %q", merged[0].Candidate.Name)
	}
	if merged[0].Score != 0.9 {
		t.Fatalf("highest score seen must be carried, got %f", merged[0].Score)
	}
	if merged[0].Source != domain.SourceCombined {
		t.Fatalf("expected combined source, got %s", merged[0].Source)
	}
}

func TestMergeCandidateSignalsSynthesizesFromSnapshotWhenRecordMissing(t *testing.T) {
	semantic := []domain.SemanticHit{{
		EntityID:   "c2",
		Similarity: 0.7,
		Snapshot: domain.EntitySnapshot{
			EntityID: "c2",
			Name:     "Grace Hopper",
			Skills:   []string{"COBOL"},
		},
	}}

	merged := mergeCandidateSignals(nil, semantic, map[string]domain.Candidate{})
	if len(merged) != 1 {
		t.Fatalf("expected one match, got %d", len(merged))
	}
	if merged[0].Candidate.Name != "Grace Hopper" || merged[0].Source != domain.SourceSemantic {
		t.Fatalf("unexpected synthesized match: %+v", merged[0])
	}
}

func TestSortCandidateMatchesBreaksTiesByRecency(t *testing.T) {
	older := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	matches := []domain.CandidateMatch{
		{Candidate: domain.Candidate{ID: "old", CreatedAt: older}, Score: 0.5},
		{Candidate: domain.Candidate{ID: "new", CreatedAt: newer}, Score: 0.5},
		{Candidate: domain.Candidate{ID: "top", CreatedAt: older}, Score: 0.9},
	}

	sortCandidateMatches(matches)
	if matches[0].Candidate.ID != "top" {
		t.Fatalf("highest score must sort first, got %s", matches[0].Candidate.ID)
	}
	if matches[1].Candidate.ID != "new" {
		t.Fatalf("ties must break newest first, got %s", matches[1].Candidate.ID)
	}
}

func TestPaginateFullPageReportsHasMore(t *testing.T) {
	items := make([]int, 20)
	page, hasMore := paginate(items, domain.Page{Number: 1, Limit: 20})
	if len(page) != 20 {
		t.Fatalf("expected full page, got %d", len(page))
	}
	// Exactly limit results: the heuristic reports more even though none
	// exist. Documented behavior, kept on purpose.
	if !hasMore {
		t.Fatalf("full page must report hasMore=true")
	}
}

func TestPaginateShortAndOutOfRangePages(t *testing.T) {
	items := []int{1, 2, 3}

	page, hasMore := paginate(items, domain.Page{Number: 1, Limit: 10})
	if len(page) != 3 || hasMore {
		t.Fatalf("short page must report hasMore=false, got len=%d hasMore=%v", len(page), hasMore)
	}

	page, hasMore = paginate(items, domain.Page{Number: 3, Limit: 10})
	if len(page) != 0 || hasMore {
		t.Fatalf("out-of-range page must be empty, got len=%d hasMore=%v", len(page), hasMore)
	}

	page, hasMore = paginate(items, domain.Page{Number: 2, Limit: 2})
	if len(page) != 1 || hasMore {
		t.Fatalf("trailing partial page must report hasMore=false, got len=%d hasMore=%v", len(page), hasMore)
	}
}
