package usecase

import (
	"strings"

	"github.com/talentpool/talent-match/internal/core/domain"
)

// MatchesFilters reports whether a profile satisfies every present filter
// field (logical AND). Absent fields impose no constraint, so the zero filter
// matches everything. Skill matching is hasEvery: the profile must cover each
// requested skill via case-insensitive substring-or-equality in either
// direction. The remaining fields use case-insensitive substring containment.
func MatchesFilters(profile domain.MatchProfile, filters domain.StructuredFilters) bool {
	for _, want := range filters.Skills {
		if !hasSkill(profile.Skills, want) {
			return false
		}
	}
	if !fieldContains(profile.Experience, filters.Experience) {
		return false
	}
	if !fieldContains(profile.Location, filters.Location) {
		return false
	}
	if !fieldContains(profile.EmploymentType, filters.EmploymentType) {
		return false
	}
	return true
}

func FilterCandidates(candidates []domain.Candidate, filters domain.StructuredFilters) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if MatchesFilters(c.MatchProfile, filters) {
			out = append(out, c)
		}
	}
	return out
}

func FilterJobs(jobs []domain.Job, filters domain.StructuredFilters) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if MatchesFilters(j.MatchProfile, filters) {
			out = append(out, j)
		}
	}
	return out
}

func hasSkill(skills []string, want string) bool {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return true
	}
	for _, have := range skills {
		if skillsOverlap(strings.ToLower(have), want) {
			return true
		}
	}
	return false
}

// skillsOverlap matches "React" against "react native" and vice versa so that
// minor labeling differences between postings and profiles still count.
func skillsOverlap(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func fieldContains(value, want string) bool {
	if strings.TrimSpace(want) == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(strings.TrimSpace(want)))
}
