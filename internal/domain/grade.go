package domain

import "time"

// GradeState is the display state of a grade: None, F, Pass or a cutoff label.
type GradeState string

const (
	StateNone GradeState = "None"
	StateFail GradeState = "F"
	StatePass GradeState = "Pass"
)

// SectionGrade is one gradebook column for a student.
type SectionGrade struct {
	Label     string     `json:"label"`
	Category  string     `json:"category"`
	Percent   float64    `json:"percent"`
	State     GradeState `json:"state"`
	Detail    string     `json:"detail,omitempty"`
	Dropped   bool       `json:"dropped,omitempty"`
	Prominent bool       `json:"prominent,omitempty"`
}

// CategoryGrade is the aggregate of one policy category.
type CategoryGrade struct {
	Category string     `json:"category"`
	Percent  float64    `json:"percent"`
	Weight   float64    `json:"weight"`
	State    GradeState `json:"state"`
}

// CourseGrade is derived state keyed by (student, course). It is only ever
// replaced by a recomputation, never edited.
type CourseGrade struct {
	CourseID   string          `json:"course_id"`
	StudentID  string          `json:"student_id"`
	Breakdown  []SectionGrade  `json:"breakdown"`
	Categories []CategoryGrade `json:"categories"`
	Percent    float64         `json:"percent"`
	State      GradeState      `json:"state"`
	Version    string          `json:"version"`
	ComputedAt time.Time       `json:"computed_at"`
}
