package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/talentpool/talent-match/internal/core/domain"
)

const (
	skillWeight      = 60.0
	experienceWeight = 30
	locationWeight   = 10

	maxMissingSkillsListed = 5
)

// ScoreMatch computes the 0-100 compatibility score between a candidate and a
// job from structured attributes only. It is a pure function: the same two
// snapshots always produce the same breakdown, so persisted scores can be
// regenerated without drift.
//
// The experience component is a presence check on both fields, not a level
// comparison. Seniority-aware scoring would change persisted totals, so the
// looser behavior is kept.
func ScoreMatch(candidate domain.Candidate, job domain.Job) domain.MatchBreakdown {
	var b domain.MatchBreakdown

	matches := 0
	for _, have := range candidate.Skills {
		if jobRequiresSkill(job.Skills, have) {
			matches++
		}
	}
	b.SkillScore = skillWeight * float64(matches) / float64(max(1, len(job.Skills)))
	if b.SkillScore > skillWeight {
		b.SkillScore = skillWeight
	}

	if strings.TrimSpace(candidate.Experience) != "" && strings.TrimSpace(job.Experience) != "" {
		b.ExperienceScore = experienceWeight
	}

	if candidateLocationCovers(candidate.Location, job.Location) {
		b.LocationScore = locationWeight
	}

	total := int(math.Round(b.SkillScore + float64(b.ExperienceScore) + float64(b.LocationScore)))
	b.Total = min(100, max(0, total))
	return b
}

// MatchFeedback renders the human-readable explanation for a breakdown:
// a quality bracket followed by up to five job-required skills the candidate
// lacks, listed verbatim.
func MatchFeedback(candidate domain.Candidate, job domain.Job, breakdown domain.MatchBreakdown) string {
	var sb strings.Builder
	switch {
	case breakdown.Total >= 80:
		sb.WriteString(fmt.Sprintf("Excellent match (%d/100): the candidate's profile aligns strongly with this role.", breakdown.Total))
	case breakdown.Total >= 60:
		sb.WriteString(fmt.Sprintf("Good match (%d/100): the candidate covers most of the role's requirements.", breakdown.Total))
	case breakdown.Total >= 40:
		sb.WriteString(fmt.Sprintf("Moderate match (%d/100): the candidate meets some of the role's requirements.", breakdown.Total))
	default:
		sb.WriteString(fmt.Sprintf("Lower match (%d/100): the candidate's profile diverges from this role.", breakdown.Total))
	}

	missing := MissingSkills(candidate, job)
	if len(missing) > 0 {
		sb.WriteString(" Missing skills: ")
		sb.WriteString(strings.Join(missing, ", "))
		sb.WriteString(".")
	}
	return sb.String()
}

// MissingSkills lists up to five job-required skills with no case-insensitive
// substring match among the candidate's skills.
func MissingSkills(candidate domain.Candidate, job domain.Job) []string {
	missing := make([]string, 0, maxMissingSkillsListed)
	for _, required := range job.Skills {
		if hasSkill(candidate.Skills, required) {
			continue
		}
		missing = append(missing, required)
		if len(missing) == maxMissingSkillsListed {
			break
		}
	}
	return missing
}

// candidateLocationCovers reports whether the candidate's location contains
// the job's location, case-insensitively. Either side blank scores nothing.
func candidateLocationCovers(candidateLoc, jobLoc string) bool {
	candidateLoc = strings.TrimSpace(candidateLoc)
	jobLoc = strings.TrimSpace(jobLoc)
	if candidateLoc == "" || jobLoc == "" {
		return false
	}
	return strings.Contains(strings.ToLower(candidateLoc), strings.ToLower(jobLoc))
}

func jobRequiresSkill(jobSkills []string, candidateSkill string) bool {
	have := strings.ToLower(strings.TrimSpace(candidateSkill))
	for _, required := range jobSkills {
		if skillsOverlap(strings.ToLower(required), have) {
			return true
		}
	}
	return false
}
