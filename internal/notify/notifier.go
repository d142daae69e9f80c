package notify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
)

// Notifier receives "course grade changed" events after a recomputation
// stored a new grade version.
type Notifier interface {
	CourseGradeChanged(ctx context.Context, grade domain.CourseGrade) error
}

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) CourseGradeChanged(ctx context.Context, grade domain.CourseGrade) error {
	n.logger.InfoContext(ctx, "Course grade changed",
		"course_id", grade.CourseID,
		"student_id", grade.StudentID,
		"percent", grade.Percent,
		"state", grade.State,
		"version", grade.Version,
	)
	return nil
}

// Multi fans an event out to every notifier. All notifiers are called even if
// some fail; their errors are joined.
type Multi []Notifier

func (m Multi) CourseGradeChanged(ctx context.Context, grade domain.CourseGrade) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.CourseGradeChanged(ctx, grade); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) CourseGradeChanged(context.Context, domain.CourseGrade) error { return nil }
