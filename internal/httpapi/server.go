// Package httpapi exposes the assessment service over HTTP: submission
// scoring, stored results, report downloads, and an operator result stream.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ZuzanaOchmanova/self-assessment/internal/assessment"
	"github.com/ZuzanaOchmanova/self-assessment/internal/platform/cache"
	"github.com/ZuzanaOchmanova/self-assessment/internal/platform/database"
	"github.com/ZuzanaOchmanova/self-assessment/internal/report"
	"github.com/ZuzanaOchmanova/self-assessment/internal/results"
	"github.com/ZuzanaOchmanova/self-assessment/internal/scoring"
)

// Server holds the wired collaborators behind the HTTP surface. DB and Cache
// may be nil: readiness then skips them and report caching is disabled.
type Server struct {
	Content   *assessment.Content
	Store     results.Store
	Renderer  report.Renderer
	DB        *database.DB
	Cache     *cache.Cache
	ReportTTL time.Duration
	Hub       *Hub
}

// Routes builds the HTTP router.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/submissions", s.handleSubmit)
	mux.HandleFunc("GET /api/v1/assessment", s.handleAssessment)
	mux.HandleFunc("GET /api/v1/results/stream", s.handleStream)
	mux.HandleFunc("GET /api/v1/results/{email}", s.handleGetResult)
	mux.HandleFunc("GET /api/v1/results/{email}/report.pdf", s.handleReportPDF)
	mux.HandleFunc("GET /api/v1/results/{email}/report.xlsx", s.handleReportXLSX)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.HandleFunc("GET /readyz", s.handleReadyz)
	return mux
}

// Submission is the request body for a completed questionnaire.
type Submission struct {
	Email      string         `json:"email"`
	Answers    map[string]int `json:"answers"`
	FinishedAt time.Time      `json:"finishedAt"`
}

// SubmissionResponse returns the scored bundle alongside the persistence
// outcome. Persistence is best-effort: a store failure still returns the
// score so the user can view and download their report.
type SubmissionResponse struct {
	Bundle       scoring.Bundle `json:"bundle"`
	Record       map[string]any `json:"record"`
	Stored       bool           `json:"stored"`
	RowsAffected int64          `json:"rowsAffected"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	for qid, v := range sub.Answers {
		if v < 0 || v > assessment.MaxAnswerValue {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("answer %s: value %d out of range 0..%d", qid, v, assessment.MaxAnswerValue))
			return
		}
	}
	if sub.FinishedAt.IsZero() {
		sub.FinishedAt = time.Now()
	}

	bundle := scoring.Score(s.Content.Sections, scoring.Answers(sub.Answers))
	result := results.FromBundle(sub.Email, bundle, sub.FinishedAt)

	// Payload validation is synchronous and client-correctable; only a store
	// that accepted a valid record but failed is reported as "not stored".
	if err := result.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := SubmissionResponse{Bundle: bundle, Record: result.Flatten()}
	n, err := s.Store.Upsert(r.Context(), result)
	if err != nil {
		if errors.Is(err, results.ErrInvalid) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("storing result failed", "email", results.NormalizeEmail(sub.Email), "error", err)
	} else {
		resp.Stored = true
		resp.RowsAffected = n
		s.invalidateReport(r, results.NormalizeEmail(sub.Email))
		if s.Hub != nil {
			s.Hub.Broadcast(result.Flatten())
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sections":   s.Content.Sections,
		"stageNames": s.Content.Stages.Names,
	})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookupResult(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookupResult(w, r)
	if !ok {
		return
	}
	email := results.NormalizeEmail(result.Email)

	if s.Cache != nil {
		if pdf, err := s.Cache.GetReport(r.Context(), email); err == nil {
			servePDF(w, pdf)
			return
		} else if !errors.Is(err, cache.ErrMiss) {
			slog.Warn("report cache read failed", "error", err)
		}
	}

	rep, err := s.buildReport(result)
	if err != nil {
		slog.Error("building report failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "report content configuration error")
		return
	}

	pdf, err := s.Renderer.Render(r.Context(), rep)
	if err != nil {
		slog.Error("rendering report failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "report rendering failed")
		return
	}

	if s.Cache != nil {
		if err := s.Cache.SetReport(r.Context(), email, pdf, s.ReportTTL); err != nil {
			slog.Warn("report cache write failed", "error", err)
		}
	}
	servePDF(w, pdf)
}

func (s *Server) handleReportXLSX(w http.ResponseWriter, r *http.Request) {
	result, ok := s.lookupResult(w, r)
	if !ok {
		return
	}

	rep, err := s.buildReport(result)
	if err != nil {
		slog.Error("building report failed", "email", result.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "report content configuration error")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="maturity-breakdown.xlsx"`)
	if err := report.WriteXLSX(w, rep); err != nil {
		slog.Error("writing workbook failed", "error", err)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.HealthCheck(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.Cache != nil {
		if err := s.Cache.HealthCheck(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// lookupResult fetches the stored result for the path's email, writing the
// error response on failure.
func (s *Server) lookupResult(w http.ResponseWriter, r *http.Request) (*results.Result, bool) {
	email := r.PathValue("email")
	if results.NormalizeEmail(email) == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return nil, false
	}
	result, err := s.Store.Get(r.Context(), email)
	if err != nil {
		if errors.Is(err, results.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no result for this email")
			return nil, false
		}
		slog.Error("loading result failed", "error", err)
		writeError(w, http.StatusInternalServerError, "loading result failed")
		return nil, false
	}
	return result, true
}

// buildReport reconstructs a scoring bundle from a stored result and resolves
// the narrative. Raw scores are derived back from the persisted normalized
// values, so a report can be produced long after submission without keeping
// the original answers.
func (s *Server) buildReport(result *results.Result) (*report.Report, error) {
	bundle := scoring.Bundle{
		OverallScore: result.OverallScore,
		OverallStage: result.OverallStage,
	}
	for _, sec := range s.Content.Sections {
		sr, ok := result.Sections[sec.ID]
		if !ok {
			return nil, fmt.Errorf("stored result has no entry for section %q", sec.ID)
		}
		max := sec.MaxRaw()
		bundle.Sections = append(bundle.Sections, scoring.SectionScore{
			SectionID:    sec.ID,
			Raw:          sr.Score / scoring.ScaleMax * max,
			Max:          max,
			Normalized:   sr.Score,
			Weight:       sec.Weight,
			Contribution: sr.Score * sec.Weight,
			Stage:        sr.Stage,
		})
	}
	return report.Build(s.Content, bundle)
}

func (s *Server) invalidateReport(r *http.Request, email string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.InvalidateReport(r.Context(), email); err != nil {
		slog.Warn("report cache invalidation failed", "error", err)
	}
}

func servePDF(w http.ResponseWriter, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="maturity-results.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
