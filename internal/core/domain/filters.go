package domain

// StructuredFilters is a set of optional constraints over entity attributes.
// All fields are optional; the zero value matches every entity.
type StructuredFilters struct {
	Skills         []string `json:"skills,omitempty"`
	Experience     string   `json:"experience,omitempty"`
	Location       string   `json:"location,omitempty"`
	EmploymentType string   `json:"employment_type,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
}

func (f StructuredFilters) IsEmpty() bool {
	return len(f.Skills) == 0 &&
		f.Experience == "" &&
		f.Location == "" &&
		f.EmploymentType == "" &&
		len(f.Keywords) == 0
}
