package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidCourse = errors.New("invalid course")

// Course is a gradable course: its ordered assignments and the policy they are graded under.
type Course struct {
	ID          string        `json:"id" yaml:"id" validate:"required"`
	DisplayName string        `json:"display_name" yaml:"display_name"`
	Assignments []Assignment  `json:"assignments" yaml:"assignments" validate:"dive"`
	Policy      GradingPolicy `json:"grading_policy" yaml:"grading_policy"`
}

// Assignment is a graded subsection. Format names the policy category it counts toward.
type Assignment struct {
	ID          string `json:"id" yaml:"id" validate:"required"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Format      string `json:"format" yaml:"format"`
	Graded      bool   `json:"graded" yaml:"graded"`
	Items       []Item `json:"items" yaml:"items" validate:"dive"`
}

type Item struct {
	ID        string  `json:"id" yaml:"id" validate:"required"`
	MaxPoints float64 `json:"max_points" yaml:"max_points" validate:"gt=0"`
}

type Student struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Username string `json:"username" yaml:"username" validate:"required"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
}

// EffectivePolicy returns the course policy with defaults applied.
// A course without categories is graded under DefaultGradingPolicy.
func (c *Course) EffectivePolicy() GradingPolicy {
	if len(c.Policy.Grader) == 0 {
		p := DefaultGradingPolicy()
		if len(c.Policy.Cutoffs) > 0 {
			p.Cutoffs = copyCutoffs(c.Policy.Cutoffs)
		}
		return p
	}
	return c.Policy.WithDefaults()
}

func (c *Course) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidCourse, err)
	}

	seenAssignments := make(map[string]struct{}, len(c.Assignments))
	seenItems := make(map[string]struct{})
	for _, a := range c.Assignments {
		if _, ok := seenAssignments[a.ID]; ok {
			return fmt.Errorf("%w: duplicate assignment %q", ErrInvalidCourse, a.ID)
		}
		seenAssignments[a.ID] = struct{}{}
		if a.Graded && a.Format == "" {
			return fmt.Errorf("%w: graded assignment %q has no format", ErrInvalidCourse, a.ID)
		}
		for _, it := range a.Items {
			if _, ok := seenItems[it.ID]; ok {
				return fmt.Errorf("%w: duplicate item %q", ErrInvalidCourse, it.ID)
			}
			seenItems[it.ID] = struct{}{}
		}
	}

	if err := c.EffectivePolicy().Validate(); err != nil {
		return err
	}
	return nil
}

// ItemIndex maps item ID to the assignment that owns it.
func (c *Course) ItemIndex() map[string]*Assignment {
	idx := make(map[string]*Assignment)
	for i := range c.Assignments {
		a := &c.Assignments[i]
		for _, it := range a.Items {
			idx[it.ID] = a
		}
	}
	return idx
}
