package domain

import "time"

type EntityKind string

const (
	KindCandidate EntityKind = "candidate"
	KindJob       EntityKind = "job"
)

// MatchProfile holds the structured attributes shared by candidates and jobs
// that the filter matcher and the deterministic scorer operate on.
type MatchProfile struct {
	Skills         []string `json:"skills"`
	Experience     string   `json:"experience,omitempty"`
	Location       string   `json:"location,omitempty"`
	EmploymentType string   `json:"employment_type,omitempty"`
}

type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	MatchProfile
	ResumeText string    `json:"resume_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Job struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	MatchProfile
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IndexText builds the text blob used for lexical and semantic indexing.
func (c Candidate) IndexText() string {
	return joinIndexText(c.Name, c.ResumeText, c.Skills)
}

func (j Job) IndexText() string {
	return joinIndexText(j.Title, j.Description, j.Skills)
}

func joinIndexText(head, body string, skills []string) string {
	out := head
	for _, s := range skills {
		out += " " + s
	}
	if body != "" {
		out += "\n" + body
	}
	return out
}

type Application struct {
	ID          string    `json:"id"`
	CandidateID string    `json:"candidate_id"`
	JobID       string    `json:"job_id"`
	MatchScore  int       `json:"match_score"`
	Feedback    string    `json:"feedback,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntitySnapshot is the payload stored alongside a vector in the index. It is
// a denormalized copy of the attributes needed to present a hit when the
// relational record is unavailable; the composer prefers the database record.
type EntitySnapshot struct {
	EntityID string     `json:"entity_id"`
	Kind     EntityKind `json:"kind"`
	Name     string     `json:"name"`
	Skills   []string   `json:"skills"`
	Location string     `json:"location,omitempty"`
	Text     string     `json:"text,omitempty"`
}
