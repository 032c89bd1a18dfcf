package usecase

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
)

const interpreterSystemPrompt = `You extract structured recruiting search filters from a free-text query.
Respond with a single JSON object and nothing else, using this shape:
{"skills": [string], "experience": string, "location": string, "employment_type": string, "keywords": [string]}
Omit any field you cannot infer from the query. Do not invent values.`

// QueryInterpreter converts a free-text search query into structured filters.
// The primary path delegates to the text-completion capability; whenever that
// call fails, times out or returns unparsable output, a keyword heuristic
// produces best-effort filters instead. Provider failures never reach the
// caller: search availability wins over search precision.
type QueryInterpreter struct {
	completer  ports.TextCompleter
	logger     *slog.Logger
	onFallback func()
}

func NewQueryInterpreter(completer ports.TextCompleter, logger *slog.Logger) *QueryInterpreter {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryInterpreter{completer: completer, logger: logger}
}

// SetFallbackObserver registers a hook invoked each time the heuristic path
// activates. Used for metrics.
func (qi *QueryInterpreter) SetFallbackObserver(fn func()) {
	qi.onFallback = fn
}

// Interpret returns best-effort filters plus an audit flag telling whether the
// heuristic fallback was used. It never returns an error.
func (qi *QueryInterpreter) Interpret(ctx context.Context, query string) (domain.StructuredFilters, bool) {
	if strings.TrimSpace(query) == "" {
		return domain.StructuredFilters{}, false
	}

	if qi.completer != nil {
		raw, err := qi.completer.Complete(ctx, interpreterSystemPrompt, query, 0)
		if err == nil {
			if filters, ok := parseFilterJSON(raw); ok {
				return filters, false
			}
			qi.logger.Warn("interpreter_unparsable_completion", "query_len", len(query))
		} else {
			qi.logger.Warn("interpreter_completion_failed", "error", err)
		}
	}

	if qi.onFallback != nil {
		qi.onFallback()
	}
	return HeuristicFilters(query), true
}

// parseFilterJSON parses a completion response as JSON, stripping markdown
// code fences first. Fields that are absent or fail type validation are
// dropped rather than failing the whole parse.
func parseFilterJSON(raw string) (domain.StructuredFilters, bool) {
	cleaned := stripCodeFence(raw)

	var loose map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &loose); err != nil {
		return domain.StructuredFilters{}, false
	}

	var filters domain.StructuredFilters
	filters.Skills = stringSliceField(loose, "skills")
	filters.Keywords = stringSliceField(loose, "keywords")
	filters.Experience = stringField(loose, "experience")
	filters.Location = stringField(loose, "location")
	filters.EmploymentType = stringField(loose, "employment_type")
	if filters.EmploymentType == "" {
		filters.EmploymentType = stringField(loose, "employmentType")
	}
	return filters, true
}

func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if idx := strings.LastIndex(s, "```"); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}

func stringField(loose map[string]json.RawMessage, key string) string {
	raw, ok := loose[key]
	if !ok {
		return ""
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

func stringSliceField(loose map[string]json.RawMessage, key string) []string {
	raw, ok := loose[key]
	if !ok {
		return nil
	}
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	out := v[:0]
	for _, s := range v {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

var experienceTerms = []struct{ term, canonical string }{
	{"senior", "Senior"},
	{"junior", "Junior"},
	{"lead", "Lead"},
	{"mid", "Mid"},
}

var employmentTerms = []struct{ term, canonical string }{
	{"part-time", "Part-time"},
	{"part time", "Part-time"},
	{"contract", "Contract"},
	{"remote", "Remote"},
}

var skillVocabulary = []string{
	"react", "angular", "vue", "javascript", "typescript", "node",
	"python", "django", "flask", "java", "spring", "kotlin",
	"go", "golang", "rust", "c++", "c#", ".net",
	"php", "ruby", "swift", "sql", "postgres", "mysql", "mongodb",
	"redis", "graphql", "aws", "gcp", "azure", "docker", "kubernetes",
	"terraform", "kafka", "spark", "ml", "tensorflow", "pytorch",
}

// HeuristicFilters scans the lowercased query against fixed vocabularies of
// experience levels, employment types and common technical skills. It needs no
// network and is the interpreter's offline fallback.
func HeuristicFilters(query string) domain.StructuredFilters {
	lowered := strings.ToLower(query)
	tokens := tokenize(lowered)

	var filters domain.StructuredFilters
	for _, e := range experienceTerms {
		if _, ok := tokens[e.term]; ok || strings.Contains(lowered, e.term) {
			filters.Experience = e.canonical
			break
		}
	}
	for _, e := range employmentTerms {
		if strings.Contains(lowered, e.term) {
			filters.EmploymentType = e.canonical
			break
		}
	}
	for _, skill := range skillVocabulary {
		if _, ok := tokens[skill]; ok {
			filters.Skills = append(filters.Skills, skill)
		}
	}
	return filters
}

func tokenize(lowered string) map[string]struct{} {
	fields := strings.FieldsFunc(lowered, func(r rune) bool {
		switch r {
		case ' ', '\t', '\n', ',', ';', '/', '(', ')':
			return true
		}
		return false
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}
