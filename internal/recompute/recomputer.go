package recompute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/apperr"
	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/grading"
	"github.com/DjordjeVuckovic/gradebook/internal/notify"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
)

// Summary reports the outcome of one course recomputation.
type Summary struct {
	CourseID  string        `json:"course_id"`
	Students  int           `json:"students"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

type Option func(*Recomputer)

func WithClock(now func() time.Time) Option {
	return func(r *Recomputer) { r.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Recomputer) { r.logger = logger }
}

// Recomputer recomputes and stores the grades of every enrolled student of a
// course.
type Recomputer struct {
	store    storage.Store
	notifier notify.Notifier
	now      func() time.Time
	logger   *slog.Logger
}

func NewRecomputer(store storage.Store, notifier notify.Notifier, opts ...Option) *Recomputer {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	r := &Recomputer{
		store:    store,
		notifier: notifier,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecomputeCourse loads the course, its enrollments and raw scores and
// upserts one CourseGrade per student. A failure for a single student is
// logged and counted without aborting the others.
func (r *Recomputer) RecomputeCourse(ctx context.Context, courseID string) (Summary, error) {
	summary := Summary{CourseID: courseID}
	start := r.now()

	course, err := r.store.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return summary, apperr.NewNotFound("course", courseID, err)
		}
		return summary, fmt.Errorf("failed to load course %s: %w", courseID, err)
	}

	agg, err := grading.NewAggregator(course)
	if err != nil {
		return summary, apperr.NewValidationWrap("course cannot be graded", err)
	}

	students, err := r.store.ListEnrollments(ctx, courseID, 0, -1)
	if err != nil {
		return summary, fmt.Errorf("failed to list enrollments: %w", err)
	}
	scores, err := r.store.ListScores(ctx, courseID)
	if err != nil {
		return summary, fmt.Errorf("failed to list scores: %w", err)
	}

	byStudent := make(map[string]map[string]domain.RawScore, len(students))
	for _, s := range scores {
		m, ok := byStudent[s.StudentID]
		if !ok {
			m = make(map[string]domain.RawScore)
			byStudent[s.StudentID] = m
		}
		m[s.ItemID] = s
	}

	summary.Students = len(students)
	for _, student := range students {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		changed, err := r.recomputeStudent(ctx, agg, student.ID, byStudent[student.ID], start)
		switch {
		case err != nil:
			summary.Failed++
			r.logger.ErrorContext(ctx, "Failed to recompute student grade",
				"course_id", courseID, "student_id", student.ID, "error", err)
		case changed:
			summary.Updated++
		default:
			summary.Unchanged++
		}
	}

	summary.Duration = r.now().Sub(start)
	r.logger.InfoContext(ctx, "Course grades recomputed",
		"course_id", courseID,
		"students", summary.Students,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)
	return summary, nil
}

func (r *Recomputer) recomputeStudent(
	ctx context.Context,
	agg *grading.Aggregator,
	studentID string,
	scores map[string]domain.RawScore,
	computedAt time.Time,
) (changed bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while grading: %v", p)
		}
	}()

	grade := agg.Compute(studentID, scores)
	grade.ComputedAt = computedAt

	changed, err = r.store.UpsertGrade(ctx, grade)
	if err != nil {
		return false, fmt.Errorf("failed to store grade: %w", err)
	}
	if !changed {
		return false, nil
	}

	if err := r.notifier.CourseGradeChanged(ctx, grade); err != nil {
		r.logger.WarnContext(ctx, "Course grade notification failed",
			"course_id", grade.CourseID, "student_id", studentID, "error", err)
	}
	return true, nil
}
