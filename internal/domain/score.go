package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidScore = errors.New("invalid score")

// RawScore is a student's result on one item. It is keyed by (student, course, item).
type RawScore struct {
	CourseID  string    `json:"course_id"`
	StudentID string    `json:"student_id" validate:"required"`
	ItemID    string    `json:"item_id" validate:"required"`
	Earned    float64   `json:"earned"`
	Possible  float64   `json:"possible"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

func (s RawScore) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScore, err)
	}
	if s.Possible <= 0 {
		return fmt.Errorf("%w: item %q possible must be positive, got %v", ErrInvalidScore, s.ItemID, s.Possible)
	}
	if s.Earned < 0 || s.Earned > s.Possible {
		return fmt.Errorf("%w: item %q earned %v outside [0, %v]", ErrInvalidScore, s.ItemID, s.Earned, s.Possible)
	}
	return nil
}
