// Package httpadapter exposes search, scoring, and ingest operations over a
// JSON HTTP API.
package httpadapter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/talentpool/talent-match/internal/core/domain"
	"github.com/talentpool/talent-match/internal/core/ports"
	"github.com/talentpool/talent-match/internal/observability/metrics"
)

// ResumeAttacher stores an uploaded resume's text and enqueues reindexing.
type ResumeAttacher interface {
	AttachResume(ctx context.Context, candidateID, filename string, data []byte) error
}

type Router struct {
	candidateSearch ports.CandidateSearcher
	jobSearch       ports.JobSearcher
	matchScorer     ports.MatchScorer
	importer        ports.CandidateImporter
	resumes         ResumeAttacher
	indexer         ports.EntityIndexer

	service string
	logger  *slog.Logger
	metrics *metrics.HTTPServerMetrics

	rateLimitRPS   float64
	rateLimitBurst int
	maxConcurrent  int
}

type RouterOptions struct {
	Service string
	Logger  *slog.Logger
	Metrics *metrics.HTTPServerMetrics

	RateLimitRPS   float64
	RateLimitBurst int
	MaxConcurrent  int
}

func NewRouter(
	candidateSearch ports.CandidateSearcher,
	jobSearch ports.JobSearcher,
	matchScorer ports.MatchScorer,
	importer ports.CandidateImporter,
	resumes ResumeAttacher,
	indexer ports.EntityIndexer,
	options RouterOptions,
) *Router {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}
	service := options.Service
	if service == "" {
		service = "talent-match-api"
	}
	return &Router{
		candidateSearch: candidateSearch,
		jobSearch:       jobSearch,
		matchScorer:     matchScorer,
		importer:        importer,
		resumes:         resumes,
		indexer:         indexer,
		service:         service,
		logger:          logger,
		metrics:         options.Metrics,
		rateLimitRPS:    options.RateLimitRPS,
		rateLimitBurst:  options.RateLimitBurst,
		maxConcurrent:   options.MaxConcurrent,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/search/candidates", rt.searchCandidates)
	mux.HandleFunc("/v1/search/jobs", rt.searchJobs)
	mux.HandleFunc("/v1/matches/score", rt.scoreMatch)
	mux.HandleFunc("/v1/applications/", rt.applicationSubtree)
	mux.HandleFunc("/v1/candidates/import", rt.importCandidates)
	mux.HandleFunc("/v1/candidates/", rt.candidateSubtree)
	mux.HandleFunc("/v1/index/reindex", rt.reindexEntity)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	if rt.maxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.maxConcurrent, 50*time.Millisecond)
	}
	if rt.rateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.rateLimitRPS, rt.rateLimitBurst)
	}
	handler = accessLogMiddleware(rt.logger, handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) searchCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Query string `json:"query"`
		Page  int    `json:"page"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	start := time.Now()
	result, err := rt.candidateSearch.SearchCandidates(r.Context(), req.Query, domain.Page{
		Number: req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		rt.writeError(w, r, "search_candidates", err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSearch(rt.service, string(domain.KindCandidate), len(result.Matches), time.Since(start))
		if result.UsedFallback {
			rt.metrics.RecordInterpreterFallback(rt.service)
		}
		if result.SemanticDegraded {
			rt.metrics.RecordSemanticDegraded(rt.service)
		}
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) searchJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Query   string                   `json:"query"`
		Filters domain.StructuredFilters `json:"filters"`
		Page    int                      `json:"page"`
		Limit   int                      `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}

	start := time.Now()
	result, err := rt.jobSearch.SearchJobs(r.Context(), req.Query, req.Filters, domain.Page{
		Number: req.Page,
		Limit:  req.Limit,
	})
	if err != nil {
		rt.writeError(w, r, "search_jobs", err)
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordSearch(rt.service, string(domain.KindJob), len(result.Matches), time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) scoreMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		CandidateID string `json:"candidate_id"`
		JobID       string `json:"job_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.CandidateID) == "" || strings.TrimSpace(req.JobID) == "" {
		writeErrorMessage(w, http.StatusBadRequest, "candidate_id and job_id are required")
		return
	}

	score, err := rt.matchScorer.ScoreMatch(r.Context(), req.CandidateID, req.JobID)
	if err != nil {
		rt.writeError(w, r, "score_match", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordMatchScore(rt.service, score.Breakdown.Total)
	}
	writeJSON(w, http.StatusOK, score)
}

// applicationSubtree handles POST /v1/applications/{id}/feedback.
func (rt *Router) applicationSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/applications/")
	applicationID, action, found := strings.Cut(rest, "/")
	if !found || action != "feedback" || applicationID == "" {
		writeErrorMessage(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	score, err := rt.matchScorer.RegenerateFeedback(r.Context(), applicationID)
	if err != nil {
		rt.writeError(w, r, "regenerate_feedback", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordMatchScore(rt.service, score.Breakdown.Total)
	}
	writeJSON(w, http.StatusOK, score)
}

func (rt *Router) importCandidates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	summary, err := rt.importer.ImportCandidates(r.Context(), file)
	if err != nil {
		rt.writeError(w, r, "import_candidates", err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordImport(rt.service, summary.Imported, summary.Skipped)
	}
	writeJSON(w, http.StatusOK, summary)
}

// candidateSubtree handles POST /v1/candidates/{id}/resume.
func (rt *Router) candidateSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/candidates/")
	candidateID, action, found := strings.Cut(rest, "/")
	if !found || action != "resume" || candidateID == "" {
		writeErrorMessage(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	if err := rt.resumes.AttachResume(r.Context(), candidateID, fileHeader.Filename, data); err != nil {
		rt.writeError(w, r, "attach_resume", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (rt *Router) reindexEntity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return
	}

	var req struct {
		Kind     string `json:"kind"`
		EntityID string `json:"entity_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.EntityID == "" {
		writeErrorMessage(w, http.StatusBadRequest, "entity_id is required")
		return
	}

	if err := rt.indexer.ReindexByID(r.Context(), domain.EntityKind(req.Kind), req.EntityID); err != nil {
		rt.writeError(w, r, "reindex_entity", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reindexed"})
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	status := mapErrorToHTTPStatus(err)
	if status >= 500 {
		rt.logger.Error("handler_error",
			"operation", operation,
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
	}
	writeErrorMessage(w, status, publicErrorMessage(status, err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeErrorMessage(w, http.StatusMethodNotAllowed, "method not allowed")
}

// publicErrorMessage hides internal detail for unclassified failures.
func publicErrorMessage(status int, err error) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}
