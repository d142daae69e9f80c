package storage

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
)

var ErrNotFound = errors.New("not found")

// CourseStore holds course structure, grading policy and enrollments.
type CourseStore interface {
	SaveCourse(ctx context.Context, course *domain.Course) error
	// GetCourse returns ErrNotFound for unknown courses. Callers must not mutate the result.
	GetCourse(ctx context.Context, courseID string) (*domain.Course, error)
	Enroll(ctx context.Context, courseID string, students ...domain.Student) error
	// ListEnrollments returns students ordered by username. A negative limit returns all.
	ListEnrollments(ctx context.Context, courseID string, offset, limit int) ([]domain.Student, error)
	CountEnrollments(ctx context.Context, courseID string) (int, error)
}

// ScoreStore holds raw scores keyed by (student, course, item).
type ScoreStore interface {
	// SaveScores upserts scores; a later write for the same key replaces the earlier one.
	SaveScores(ctx context.Context, scores []domain.RawScore) error
	ListScores(ctx context.Context, courseID string) ([]domain.RawScore, error)
}

// GradeStore holds derived grades keyed by (student, course). The recompute
// task is the only writer.
type GradeStore interface {
	// UpsertGrade stores grade unless a grade computed later is already stored.
	// It reports whether the stored version changed.
	UpsertGrade(ctx context.Context, grade domain.CourseGrade) (bool, error)
	// GetGrade returns ErrNotFound when no grade was computed yet.
	GetGrade(ctx context.Context, courseID, studentID string) (*domain.CourseGrade, error)
	// ListGrades returns stored grades of the given students keyed by student ID.
	// Students without a stored grade are absent from the result.
	ListGrades(ctx context.Context, courseID string, studentIDs []string) (map[string]domain.CourseGrade, error)
}

type Store interface {
	CourseStore
	ScoreStore
	GradeStore
	Close()
}

type Type string

const (
	PG    Type = "pg"
	InMem Type = "in_mem"
)

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storage type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
