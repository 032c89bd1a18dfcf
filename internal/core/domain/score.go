package domain

// MatchBreakdown is the deterministic scorer's explainable output.
// Total == round(SkillScore) + ExperienceScore + LocationScore, clamped to
// [0,100]. SkillScore is at most 60, ExperienceScore is 0 or 30 and
// LocationScore is 0 or 10.
type MatchBreakdown struct {
	SkillScore      float64 `json:"skill_score"`
	ExperienceScore int     `json:"experience_score"`
	LocationScore   int     `json:"location_score"`
	Total           int     `json:"total"`
}
