package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
)

// DefaultPassCutoff is the binary pass threshold applied when a policy has no cutoffs.
const DefaultPassCutoff = 0.5

var ErrInvalidPolicy = errors.New("invalid grading policy")

var cutoffLabelPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// GraderCategory is one graded assignment type, e.g. Homework.
type GraderCategory struct {
	Type       string  `json:"type" yaml:"type" validate:"required"`
	MinCount   int     `json:"min_count" yaml:"min_count" validate:"min=1"`
	DropCount  int     `json:"drop_count" yaml:"drop_count" validate:"min=0,ltfield=MinCount"`
	ShortLabel string  `json:"short_label,omitempty" yaml:"short_label,omitempty"`
	Weight     float64 `json:"weight" yaml:"weight" validate:"gte=0"`
}

// Label is the column prefix used for the category.
func (c GraderCategory) Label() string {
	if c.ShortLabel != "" {
		return c.ShortLabel
	}
	return c.Type
}

// GradingPolicy keeps the GRADER / GRADE_CUTOFFS layout used by course exports.
type GradingPolicy struct {
	Grader  []GraderCategory   `json:"GRADER" yaml:"GRADER" validate:"dive"`
	Cutoffs map[string]float64 `json:"GRADE_CUTOFFS" yaml:"GRADE_CUTOFFS"`
}

// Cutoff is the minimum fraction required to earn Label.
type Cutoff struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
}

func DefaultGradingPolicy() GradingPolicy {
	return GradingPolicy{
		Grader: []GraderCategory{
			{Type: "Homework", MinCount: 12, DropCount: 2, ShortLabel: "HW", Weight: 0.15},
			{Type: "Lab", MinCount: 12, DropCount: 2, ShortLabel: "Lab", Weight: 0.15},
			{Type: "Midterm Exam", MinCount: 1, DropCount: 0, ShortLabel: "Midterm", Weight: 0.3},
			{Type: "Final Exam", MinCount: 1, DropCount: 0, ShortLabel: "Final", Weight: 0.4},
		},
		Cutoffs: map[string]float64{string(StatePass): DefaultPassCutoff},
	}
}

// WithDefaults returns a copy where an empty cutoff table collapses to Pass at 50%.
func (p GradingPolicy) WithDefaults() GradingPolicy {
	out := GradingPolicy{
		Grader:  append([]GraderCategory(nil), p.Grader...),
		Cutoffs: copyCutoffs(p.Cutoffs),
	}
	if len(out.Cutoffs) == 0 {
		out.Cutoffs = map[string]float64{string(StatePass): DefaultPassCutoff}
	}
	return out
}

// OrderedCutoffs returns the cutoff table highest threshold first.
func (p GradingPolicy) OrderedCutoffs() []Cutoff {
	out := make([]Cutoff, 0, len(p.Cutoffs))
	for label, threshold := range p.Cutoffs {
		out = append(out, Cutoff{Label: label, Min: threshold})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Min != out[j].Min {
			return out[i].Min > out[j].Min
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func (p GradingPolicy) Category(gradeType string) (GraderCategory, bool) {
	for _, c := range p.Grader {
		if c.Type == gradeType {
			return c, true
		}
	}
	return GraderCategory{}, false
}

func (p GradingPolicy) Validate() error {
	if len(p.Grader) == 0 {
		return fmt.Errorf("%w: at least one grader category is required", ErrInvalidPolicy)
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}

	seen := make(map[string]struct{}, len(p.Grader))
	var weights float64
	for _, c := range p.Grader {
		if _, ok := seen[c.Type]; ok {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidPolicy, c.Type)
		}
		seen[c.Type] = struct{}{}
		weights += c.Weight
	}
	if weights <= 0 {
		return fmt.Errorf("%w: category weights must sum to a positive value", ErrInvalidPolicy)
	}

	cutoffs := p.OrderedCutoffs()
	for i, c := range cutoffs {
		if !cutoffLabelPattern.MatchString(c.Label) {
			return fmt.Errorf("%w: cutoff label %q must match %s", ErrInvalidPolicy, c.Label, cutoffLabelPattern)
		}
		if c.Label == string(StateFail) || c.Label == string(StateNone) {
			return fmt.Errorf("%w: cutoff label %q is reserved", ErrInvalidPolicy, c.Label)
		}
		if math.IsNaN(c.Min) || c.Min <= 0 || c.Min > 1 {
			return fmt.Errorf("%w: cutoff %q must be in (0, 1], got %v", ErrInvalidPolicy, c.Label, c.Min)
		}
		if i > 0 && cutoffs[i-1].Min == c.Min {
			return fmt.Errorf("%w: cutoffs %q and %q share threshold %v", ErrInvalidPolicy, cutoffs[i-1].Label, c.Label, c.Min)
		}
	}
	return nil
}

func copyCutoffs(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
