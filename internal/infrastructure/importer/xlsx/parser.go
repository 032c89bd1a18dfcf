// Package xlsx parses bulk candidate uploads. The first sheet is read with a
// header row; columns are matched by name so agencies can reorder them.
package xlsx

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/talentpool/talent-match/internal/core/domain"
)

// Recognized header names, lowercased. Skills cells hold a semicolon- or
// comma-separated list.
const (
	colName       = "name"
	colEmail      = "email"
	colSkills     = "skills"
	colExperience = "experience"
	colLocation   = "location"
	colEmployment = "employment_type"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// ParseCandidates reads the first sheet. A missing name or email invalidates
// the row; such rows are reported as row errors without failing the upload.
func (p *Parser) ParseCandidates(r io.Reader) ([]domain.Candidate, []string, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	columns := headerIndex(rows[0])
	if _, ok := columns[colName]; !ok {
		return nil, nil, fmt.Errorf("sheet %q has no %q column", sheets[0], colName)
	}

	var (
		candidates []domain.Candidate
		rowErrors  []string
	)
	for i, row := range rows[1:] {
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		name := cell(row, columns, colName)
		email := cell(row, columns, colEmail)
		if name == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing name", rowNum))
			continue
		}
		if email == "" {
			rowErrors = append(rowErrors, fmt.Sprintf("row %d: missing email", rowNum))
			continue
		}

		candidates = append(candidates, domain.Candidate{
			Name:  name,
			Email: email,
			MatchProfile: domain.MatchProfile{
				Skills:         splitSkills(cell(row, columns, colSkills)),
				Experience:     cell(row, columns, colExperience),
				Location:       cell(row, columns, colLocation),
				EmploymentType: cell(row, columns, colEmployment),
			},
		})
	}
	return candidates, rowErrors, nil
}

func headerIndex(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != "" {
			columns[key] = i
		}
	}
	return columns
}

func cell(row []string, columns map[string]int, name string) string {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func splitSkills(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	})
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if skill := strings.TrimSpace(part); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
