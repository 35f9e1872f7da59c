// Package report assembles a scored assessment into the narrative report
// bundle and renders it as a paginated PDF or an XLSX breakdown workbook.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/ZuzanaOchmanova/self-assessment/internal/assessment"
	"github.com/ZuzanaOchmanova/self-assessment/internal/scoring"
)

// SectionPage is the narrative for one section page of the report.
type SectionPage struct {
	SectionID      string
	Title          string
	Stage          int
	StageName      string
	Score          float64
	Recommendation string
	QuickTips      string
	LongTermGoals  string
	Image          string
}

// Report is the complete score-and-narrative bundle handed to a renderer:
// one overview page followed by one page per section.
type Report struct {
	Stage             int
	StageName         string
	Score             float64
	Recommendation    string
	QuickImprovements string
	LongTermGoals     string
	Sections          []SectionPage
	Breakdown         []scoring.SectionScore
	GeneratedAt       time.Time
}

// Build resolves all narrative lookups for a scored bundle. Content is
// validated for stage-table completeness at load time, so a failed lookup
// here means the bundle and content disagree about section identity; that is
// a configuration error and fails loudly rather than rendering blank text.
func Build(content *assessment.Content, bundle scoring.Bundle) (*Report, error) {
	rep := &Report{
		Stage:       bundle.OverallStage,
		Score:       bundle.OverallScore,
		Breakdown:   bundle.Sections,
		GeneratedAt: time.Now(),
	}

	stage := bundle.OverallStage
	if stage < 0 || stage >= assessment.StageCount {
		return nil, fmt.Errorf("overall stage %d out of range", stage)
	}
	rep.StageName = content.Stages.Names[stage]
	rep.Recommendation = content.Stages.Recommendations[stage]
	rep.QuickImprovements = content.Stages.QuickImprovements[stage]
	rep.LongTermGoals = content.Stages.LongTermGoals[stage]

	for _, ss := range bundle.Sections {
		sec, ok := content.Section(ss.SectionID)
		if !ok {
			return nil, fmt.Errorf("no content for scored section %q", ss.SectionID)
		}
		if ss.Stage < 0 || ss.Stage >= assessment.StageCount {
			return nil, fmt.Errorf("section %s stage %d out of range", ss.SectionID, ss.Stage)
		}
		rep.Sections = append(rep.Sections, SectionPage{
			SectionID:      sec.ID,
			Title:          sec.Title,
			Stage:          ss.Stage,
			StageName:      content.Stages.Names[ss.Stage],
			Score:          ss.Normalized,
			Recommendation: sec.Recommendations[ss.Stage],
			QuickTips:      sec.QuickTips[ss.Stage],
			LongTermGoals:  sec.LongTermGoals[ss.Stage],
			Image:          sec.Image,
		})
	}

	return rep, nil
}

// Markdown renders the report as GitHub-flavored markdown. Section headings
// carry the "Part:" prefix the PDF layout keys its page breaks on.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Stage %d: %s\n\n", r.Stage, r.StageName)
	fmt.Fprintf(&b, "**Overall score:** %.2f / 15\n\n", r.Score)

	b.WriteString("## Overview\n\n")
	b.WriteString(r.Recommendation + "\n\n")
	b.WriteString("## Quick improvements\n\n")
	b.WriteString(r.QuickImprovements + "\n\n")
	b.WriteString("## Long-term goals\n\n")
	b.WriteString(r.LongTermGoals + "\n\n")

	b.WriteString("| Part | Raw | Max | 0..15 | Weight | Contribution | Stage |\n")
	b.WriteString("|------|-----|-----|-------|--------|--------------|-------|\n")
	for i, row := range r.Breakdown {
		title := row.SectionID
		if i < len(r.Sections) {
			title = r.Sections[i].Title
		}
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %d |\n",
			title, row.Raw, row.Max, row.Normalized, row.Weight, row.Contribution, row.Stage)
	}
	b.WriteString("\n")

	for _, sec := range r.Sections {
		fmt.Fprintf(&b, "## Part: %s\n\n", sec.Title)
		fmt.Fprintf(&b, "**Stage %d: %s**, score %.2f / 15\n\n", sec.Stage, sec.StageName, sec.Score)
		if sec.Image != "" {
			fmt.Fprintf(&b, "![%s](%s)\n\n", sec.Title, sec.Image)
		}
		b.WriteString("### Overview\n\n")
		b.WriteString(sec.Recommendation + "\n\n")
		b.WriteString("### Quick improvements\n\n")
		b.WriteString(sec.QuickTips + "\n\n")
		b.WriteString("### Long-term goals\n\n")
		b.WriteString(sec.LongTermGoals + "\n\n")
	}

	return b.String()
}
