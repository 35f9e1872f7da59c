// Package scoring turns a completed answer map into per-section scores, a
// normalized overall score on the 0..15 scale, and a discrete maturity stage.
// Every function here is pure: no I/O, no shared state, total over any
// well-formed section list and answer map.
package scoring

import (
	"github.com/ZuzanaOchmanova/self-assessment/internal/assessment"
)

// ScaleMax is the upper end of the normalized score range.
const ScaleMax = 15.0

// Answers maps question IDs to the chosen answer value (0..3).
// Questions absent from the map score as 0, the lowest-maturity answer,
// so an incomplete submission still yields a valid low score.
type Answers map[string]int

// SectionScore is the scoring result for one section.
type SectionScore struct {
	SectionID    string  `json:"sectionId"`
	Raw          float64 `json:"raw"`
	Max          float64 `json:"max"`
	Normalized   float64 `json:"normalized"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
	Stage        int     `json:"stage"`
}

// Bundle is the complete, immutable output of one scoring run.
type Bundle struct {
	OverallScore float64        `json:"overallScore"`
	OverallStage int            `json:"overallStage"`
	Sections     []SectionScore `json:"sections"`
}

// SectionRaw computes a section's raw weighted score and its theoretical
// maximum. Missing answers count as 0.
func SectionRaw(sec assessment.Section, answers Answers) (raw, max float64) {
	for _, q := range sec.Questions {
		raw += float64(answers[q.ID]) * q.Weight
		max += assessment.MaxAnswerValue * q.Weight
	}
	return raw, max
}

// Normalize rescales a raw section score to the 0..15 range and applies the
// section's overall-contribution weight. A zero max (section whose question
// weights sum to zero) yields a defined score of 0 rather than NaN.
func Normalize(raw, max, weight float64) (normalized, contribution float64) {
	if max > 0 {
		normalized = raw / max * ScaleMax
	}
	return normalized, normalized * weight
}

// stageBoundaries are the inclusive upper bounds of stages 1..6. Stage 0 is
// reserved for an exact zero score. A score landing exactly on a boundary
// belongs to the lower stage: 5.0 is stage 2, 5.0001 is stage 3.
var stageBoundaries = [...]float64{2, 5, 8, 11, 13, 15}

// Classify maps a 0..15 score onto a maturity stage in 0..6.
// Out-of-range input is clamped; with well-formed content it cannot occur.
func Classify(score float64) int {
	if score <= 0 {
		return 0
	}
	if score > ScaleMax {
		score = ScaleMax
	}
	for i, upper := range stageBoundaries {
		if score <= upper {
			return i + 1
		}
	}
	return len(stageBoundaries)
}

// StageName returns the display name for a stage, or "" when the stage is out
// of range for the given name table.
func StageName(names []string, stage int) string {
	if stage < 0 || stage >= len(names) {
		return ""
	}
	return names[stage]
}

// Score runs the full pipeline: per-section raw scoring, normalization,
// weighted aggregation, and stage classification at both granularities.
// An empty answer map yields an overall score of 0 and stage 0.
func Score(sections []assessment.Section, answers Answers) Bundle {
	out := Bundle{
		Sections: make([]SectionScore, 0, len(sections)),
	}
	for _, sec := range sections {
		raw, max := SectionRaw(sec, answers)
		normalized, contribution := Normalize(raw, max, sec.Weight)
		out.Sections = append(out.Sections, SectionScore{
			SectionID:    sec.ID,
			Raw:          raw,
			Max:          max,
			Normalized:   normalized,
			Weight:       sec.Weight,
			Contribution: contribution,
			Stage:        Classify(normalized),
		})
		out.OverallScore += contribution
	}
	out.OverallStage = Classify(out.OverallScore)
	return out
}
