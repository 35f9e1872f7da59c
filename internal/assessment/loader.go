// Package assessment loads and validates the assessment content: weighted
// sections of questions, stage names, and the per-stage narrative that the
// report renderer consumes. Content lives in a directory of YAML files, one
// per section (loaded in lexical filename order) plus stages.yaml.
package assessment

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const stagesFile = "stages.yaml"

// Load reads the content directory, validates every file, and returns the
// complete assessment definition. Any structural or narrative hole is a fatal
// load error: the report path must never discover missing copy at render time.
func Load(dir string) (*Content, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading content dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".yaml") || strings.HasSuffix(e.Name(), ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	content := &Content{}
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		if name == stagesFile {
			if err := yaml.Unmarshal(data, &content.Stages); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", name, err)
			}
			continue
		}

		if err := validateSectionSchema(data); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		var sec Section
		if err := yaml.Unmarshal(data, &sec); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		content.Sections = append(content.Sections, sec)
	}

	if err := content.validate(); err != nil {
		return nil, err
	}

	questions := 0
	for _, s := range content.Sections {
		questions += len(s.Questions)
	}
	slog.Info("assessment content loaded",
		"sections", len(content.Sections), "questions", questions)
	return content, nil
}

// validate enforces the rules the JSON schema cannot express: cross-file
// uniqueness, stage-table completeness, and weight sanity.
func (c *Content) validate() error {
	if len(c.Sections) == 0 {
		return fmt.Errorf("no section files found")
	}

	if err := c.Stages.validate(); err != nil {
		return err
	}

	seenSections := make(map[string]bool)
	seenQuestions := make(map[string]string)
	for _, sec := range c.Sections {
		if seenSections[sec.ID] {
			return fmt.Errorf("duplicate section id %q", sec.ID)
		}
		seenSections[sec.ID] = true

		if sec.Weight <= 0 {
			return fmt.Errorf("section %s: weight must be positive, got %v", sec.ID, sec.Weight)
		}

		for _, q := range sec.Questions {
			if other, dup := seenQuestions[q.ID]; dup {
				return fmt.Errorf("question id %q appears in both %s and %s", q.ID, other, sec.ID)
			}
			seenQuestions[q.ID] = sec.ID

			if q.Weight <= 0 {
				return fmt.Errorf("question %s: weight must be positive, got %v", q.ID, q.Weight)
			}
			for _, a := range q.Answers {
				if a.Value < 0 || a.Value > MaxAnswerValue {
					return fmt.Errorf("question %s: answer value %d out of range 0..%d",
						q.ID, a.Value, MaxAnswerValue)
				}
			}
		}

		for stage := 0; stage < StageCount; stage++ {
			if strings.TrimSpace(sec.Recommendations[stage]) == "" {
				return fmt.Errorf("section %s: blank recommendation for stage %d", sec.ID, stage)
			}
			if strings.TrimSpace(sec.QuickTips[stage]) == "" {
				return fmt.Errorf("section %s: blank quick tip for stage %d", sec.ID, stage)
			}
			if strings.TrimSpace(sec.LongTermGoals[stage]) == "" {
				return fmt.Errorf("section %s: blank long-term goal for stage %d", sec.ID, stage)
			}
		}
	}

	return nil
}

func (s Stages) validate() error {
	tables := map[string][]string{
		"names":              s.Names,
		"recommendations":    s.Recommendations,
		"quick_improvements": s.QuickImprovements,
		"long_term_goals":    s.LongTermGoals,
	}
	for name, entries := range tables {
		if len(entries) != StageCount {
			return fmt.Errorf("stages.yaml: %s must have %d entries, got %d",
				name, StageCount, len(entries))
		}
		for stage, text := range entries {
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("stages.yaml: blank %s entry for stage %d", name, stage)
			}
		}
	}
	return nil
}
