package assessment

// StageCount is the number of maturity stages (0 through 6 inclusive).
const StageCount = 7

// MaxAnswerValue is the highest answer value a question option may carry.
const MaxAnswerValue = 3

// AnswerOption is one selectable answer for a question.
type AnswerOption struct {
	Label string `yaml:"label" json:"label"`
	Value int    `yaml:"value" json:"value"`
}

// Question is a single weighted question within a section.
type Question struct {
	ID          string         `yaml:"id" json:"id"`
	Prompt      string         `yaml:"prompt" json:"prompt"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Weight      float64        `yaml:"weight" json:"weight"`
	Answers     []AnswerOption `yaml:"answers" json:"answers"`
}

// Section is a weighted group of questions, called "part" in the report copy.
// Narrative slices are indexed by stage and must have exactly StageCount entries.
type Section struct {
	ID              string     `yaml:"id" json:"id"`
	Title           string     `yaml:"title" json:"title"`
	Weight          float64    `yaml:"weight" json:"weight"`
	Image           string     `yaml:"image,omitempty" json:"image,omitempty"`
	Questions       []Question `yaml:"questions" json:"questions"`
	Recommendations []string   `yaml:"recommendations" json:"-"`
	QuickTips       []string   `yaml:"quick_tips" json:"-"`
	LongTermGoals   []string   `yaml:"long_term_goals" json:"-"`
}

// MaxRaw returns the raw score a section yields when every question is
// answered with the maximum value.
func (s Section) MaxRaw() float64 {
	var max float64
	for _, q := range s.Questions {
		max += MaxAnswerValue * q.Weight
	}
	return max
}

// Stages holds the stage-level narrative shared across sections.
type Stages struct {
	Names             []string `yaml:"names"`
	Recommendations   []string `yaml:"recommendations"`
	QuickImprovements []string `yaml:"quick_improvements"`
	LongTermGoals     []string `yaml:"long_term_goals"`
}

// Content is the full assessment definition loaded from the content directory.
type Content struct {
	Sections []Section
	Stages   Stages
}

// Section returns the section with the given ID.
func (c *Content) Section(id string) (Section, bool) {
	for _, s := range c.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
