// Package results defines the stored assessment result record, its validation
// rules, and the stores that persist it idempotently keyed by email.
package results

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ZuzanaOchmanova/self-assessment/internal/scoring"
)

var (
	// ErrNotFound is returned when no result exists for an email.
	ErrNotFound = errors.New("result not found")
	// ErrInvalid marks payloads the client can correct; maps to HTTP 400.
	ErrInvalid = errors.New("invalid result")
)

// SectionResult is the persisted (score, stage) pair for one section.
type SectionResult struct {
	Score float64 `json:"score"`
	Stage int     `json:"stage"`
}

// Result is one user's stored assessment outcome. Email is the upsert key:
// resubmitting overwrites the previous row rather than adding another.
type Result struct {
	Email        string                   `json:"email"`
	OverallScore float64                  `json:"overallScore"`
	OverallStage int                      `json:"overallStage"`
	Sections     map[string]SectionResult `json:"sections"`
	FinishedAt   time.Time                `json:"finishedAt"`
	UpdatedAt    time.Time                `json:"updatedAt,omitempty"`
}

// FromBundle builds a Result from a scoring run.
func FromBundle(email string, b scoring.Bundle, finishedAt time.Time) Result {
	r := Result{
		Email:        email,
		OverallScore: b.OverallScore,
		OverallStage: b.OverallStage,
		Sections:     make(map[string]SectionResult, len(b.Sections)),
		FinishedAt:   finishedAt,
	}
	for _, s := range b.Sections {
		r.Sections[s.SectionID] = SectionResult{Score: s.Normalized, Stage: s.Stage}
	}
	return r
}

// Flatten returns the wire form of the record: overall pair plus one
// <sectionId>Score / <sectionId>Stage pair per section.
func (r Result) Flatten() map[string]any {
	out := map[string]any{
		"email":        r.Email,
		"overallScore": r.OverallScore,
		"overallStage": r.OverallStage,
	}
	for id, s := range r.Sections {
		out[id+"Score"] = s.Score
		out[id+"Stage"] = s.Stage
	}
	return out
}

// Store persists assessment results.
type Store interface {
	// Upsert validates and stores the result, replacing any existing row for
	// the same email. It reports the number of rows affected (0 or 1).
	Upsert(ctx context.Context, r Result) (int64, error)
	// Get returns the stored result for an email, or ErrNotFound.
	Get(ctx context.Context, email string) (*Result, error)
}

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]Result
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]Result)}
}

func (s *MemoryStore) Upsert(_ context.Context, r Result) (int64, error) {
	if err := r.Validate(); err != nil {
		return 0, err
	}
	r.Email = NormalizeEmail(r.Email)
	r.UpdatedAt = time.Now()

	s.mu.Lock()
	s.results[r.Email] = r
	s.mu.Unlock()
	return 1, nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[NormalizeEmail(email)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, email)
	}
	return &r, nil
}
