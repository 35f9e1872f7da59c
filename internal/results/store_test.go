package results

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ZuzanaOchmanova/self-assessment/internal/scoring"
)

func validResult() Result {
	return Result{
		Email:        "jane@example.com",
		OverallScore: 4.2,
		OverallStage: 2,
		Sections: map[string]SectionResult{
			"capture": {Score: 12.0, Stage: 5},
			"storage": {Score: 3.0, Stage: 2},
		},
		FinishedAt: time.Now(),
	}
}

func TestMemoryStore_UpsertAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	n, err := store.Upsert(ctx, validResult())
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if n != 1 {
		t.Errorf("rows affected = %d, want 1", n)
	}

	got, err := store.Get(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.OverallScore != 4.2 || got.OverallStage != 2 {
		t.Errorf("got %+v", got)
	}
	if got.Sections["capture"].Stage != 5 {
		t.Errorf("capture stage = %d, want 5", got.Sections["capture"].Stage)
	}
}

func TestMemoryStore_UpsertIsIdempotentPerEmail(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first := validResult()
	if _, err := store.Upsert(ctx, first); err != nil {
		t.Fatalf("first Upsert() error = %v", err)
	}

	// A retry with different case for the email must overwrite, not add.
	second := validResult()
	second.Email = "Jane@Example.COM"
	second.OverallScore = 7.0
	second.OverallStage = 3
	if _, err := store.Upsert(ctx, second); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	got, err := store.Get(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.OverallScore != 7.0 || got.OverallStage != 3 {
		t.Errorf("retry did not overwrite: %+v", got)
	}
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestResult_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Result)
		ok     bool
	}{
		{"valid", func(r *Result) {}, true},
		{"blank email", func(r *Result) { r.Email = "   " }, false},
		{"missing at sign", func(r *Result) { r.Email = "jane.example.com" }, false},
		{"NaN overall", func(r *Result) { r.OverallScore = math.NaN() }, false},
		{"Inf section score", func(r *Result) {
			r.Sections["capture"] = SectionResult{Score: math.Inf(1), Stage: 2}
		}, false},
		{"negative stage", func(r *Result) { r.OverallStage = -1 }, false},
		{"stage above six", func(r *Result) {
			r.Sections["storage"] = SectionResult{Score: 1, Stage: 7}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validResult()
			tt.mutate(&r)

			err := r.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tt.ok {
				if err == nil {
					t.Fatal("Validate() should fail")
				}
				if !errors.Is(err, ErrInvalid) {
					t.Errorf("error = %v, want ErrInvalid", err)
				}
			}
		})
	}
}

func TestMemoryStore_UpsertRejectsInvalid(t *testing.T) {
	store := NewMemoryStore()

	r := validResult()
	r.Email = ""
	n, err := store.Upsert(context.Background(), r)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("error = %v, want ErrInvalid", err)
	}
	if n != 0 {
		t.Errorf("rows affected = %d, want 0", n)
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"jane@example.com", "jane@example.com"},
		{"  Jane@Example.COM  ", "jane@example.com"},
		{"JÜRGEN@example.com", "jürgen@example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromBundleAndFlatten(t *testing.T) {
	bundle := scoring.Bundle{
		OverallScore: 4.2,
		OverallStage: 2,
		Sections: []scoring.SectionScore{
			{SectionID: "capture", Raw: 6, Max: 7.5, Normalized: 12, Weight: 0.35, Contribution: 4.2, Stage: 5},
		},
	}
	finished := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	r := FromBundle("jane@example.com", bundle, finished)
	if r.Sections["capture"].Score != 12 || r.Sections["capture"].Stage != 5 {
		t.Errorf("FromBundle sections = %+v", r.Sections)
	}
	if !r.FinishedAt.Equal(finished) {
		t.Errorf("finishedAt = %v", r.FinishedAt)
	}

	flat := r.Flatten()
	if flat["email"] != "jane@example.com" {
		t.Errorf("flat email = %v", flat["email"])
	}
	if flat["overallScore"] != 4.2 {
		t.Errorf("flat overallScore = %v", flat["overallScore"])
	}
	if flat["captureScore"] != 12.0 {
		t.Errorf("flat captureScore = %v", flat["captureScore"])
	}
	if flat["captureStage"] != 5 {
		t.Errorf("flat captureStage = %v", flat["captureStage"])
	}
}
