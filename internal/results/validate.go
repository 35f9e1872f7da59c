package results

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// NormalizeEmail canonicalizes an email for use as the upsert key: trimmed
// and Unicode case-folded, so Jane@Example.COM and jane@example.com share one
// row.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Validate checks the record against the persistence contract: a present
// email and finite, in-range numeric fields. Violations wrap ErrInvalid and
// are client-correctable; they are never retried server-side.
func (r Result) Validate() error {
	if NormalizeEmail(r.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("%w: malformed email %q", ErrInvalid, r.Email)
	}

	if err := checkScore("overallScore", r.OverallScore); err != nil {
		return err
	}
	if err := checkStage("overallStage", r.OverallStage); err != nil {
		return err
	}
	for id, s := range r.Sections {
		if err := checkScore(id+"Score", s.Score); err != nil {
			return err
		}
		if err := checkStage(id+"Stage", s.Stage); err != nil {
			return err
		}
	}
	return nil
}

func checkScore(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not a finite number", ErrInvalid, field)
	}
	return nil
}

func checkStage(field string, v int) error {
	if v < 0 || v > 6 {
		return fmt.Errorf("%w: %s %d out of range 0..6", ErrInvalid, field, v)
	}
	return nil
}
