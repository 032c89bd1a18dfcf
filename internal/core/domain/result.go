package domain

import "time"

type ScoreSource string

const (
	SourceLexical       ScoreSource = "lexical"
	SourceSemantic      ScoreSource = "semantic"
	SourceDeterministic ScoreSource = "deterministic"
	SourceCombined      ScoreSource = "combined"
)

// CandidateHit is a candidate matched by lexical full-text ranking. Rank is an
// opaque relevance score; only its ordering is meaningful. For empty-query
// browsing Rank is zero and ordering falls back to recency.
type CandidateHit struct {
	Candidate Candidate
	Rank      float64
}

type JobHit struct {
	Job  Job
	Rank float64
}

// SemanticHit is an entity matched by vector similarity. Snapshot carries the
// payload stored in the index at upsert time.
type SemanticHit struct {
	EntityID   string
	Similarity float64
	Snapshot   EntitySnapshot
}

type CandidateMatch struct {
	Candidate Candidate   `json:"candidate"`
	Score     float64     `json:"score"`
	Source    ScoreSource `json:"score_source"`
}

type JobMatch struct {
	Job    Job         `json:"job"`
	Score  float64     `json:"score"`
	Source ScoreSource `json:"score_source"`
}

// Page is a 1-based pagination request.
type Page struct {
	Number int `json:"page"`
	Limit  int `json:"limit"`
}

func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	return p
}

type CandidateSearchResult struct {
	Matches []CandidateMatch `json:"matches"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
	HasMore bool             `json:"has_more"`

	Filters          StructuredFilters `json:"filters"`
	UsedFallback     bool              `json:"used_fallback"`
	SemanticDegraded bool              `json:"semantic_degraded"`
}

type JobSearchResult struct {
	Matches []JobMatch `json:"matches"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"has_more"`
}

type ApplicationScore struct {
	CandidateID string         `json:"candidate_id"`
	JobID       string         `json:"job_id"`
	Breakdown   MatchBreakdown `json:"breakdown"`
	Feedback    string         `json:"feedback"`
	ComputedAt  time.Time      `json:"computed_at"`
}

type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
