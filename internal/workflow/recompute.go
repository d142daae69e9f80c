// Package workflow runs course grade recomputation as a Temporal workflow.
package workflow

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/DjordjeVuckovic/gradebook/internal/apperr"
	"github.com/DjordjeVuckovic/gradebook/internal/recompute"
)

const (
	DefaultTaskQueue = "gradebook-recompute"
	workflowIDPrefix = "recompute-grades/"

	// ScoresChangedSignal marks the course inputs as changed. A running
	// workflow that received it recomputes again once the current run ends.
	ScoresChangedSignal = "scores-changed"

	// maxRunsPerExecution bounds the history of one execution; further runs
	// continue as a new execution.
	maxRunsPerExecution = 10
)

// RecomputeInput is the argument of RecomputeCourseWorkflow.
type RecomputeInput struct {
	CourseID string `json:"course_id"`
}

// WorkflowID is shared by every trigger for a course so that concurrent
// triggers signal the same execution.
func WorkflowID(courseID string) string {
	return workflowIDPrefix + courseID
}

// RecomputeCourseWorkflow recomputes every grade of one course.
func RecomputeCourseWorkflow(ctx workflow.Context, in RecomputeInput) (recompute.Summary, error) {
	if in.CourseID == "" {
		return recompute.Summary{}, temporal.NewNonRetryableApplicationError(
			"course id is required",
			"Validation",
			nil,
		)
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        time.Minute,
			MaximumAttempts:        5,
			NonRetryableErrorTypes: []string{"NotFound", "Validation"},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	changed := workflow.GetSignalChannel(ctx, ScoresChangedSignal)
	// the signal sent along with the start is covered by the first run
	drainSignals(changed)

	var a *Activities
	var summary recompute.Summary
	for runs := 1; ; runs++ {
		err := workflow.ExecuteActivity(ctx, a.ComputeAllGradesForCourse, in.CourseID).Get(ctx, &summary)
		if err != nil {
			return recompute.Summary{}, err
		}

		workflow.GetLogger(ctx).Info("Course recompute finished",
			"course_id", in.CourseID, "run", runs, "updated", summary.Updated, "failed", summary.Failed)

		if !drainSignals(changed) {
			return summary, nil
		}
		if runs >= maxRunsPerExecution {
			return summary, workflow.NewContinueAsNewError(ctx, RecomputeCourseWorkflow, in)
		}
		workflow.GetLogger(ctx).Info("Scores changed during recompute, running again", "course_id", in.CourseID)
	}
}

// drainSignals consumes every buffered signal and reports whether there was any.
func drainSignals(ch workflow.ReceiveChannel) bool {
	received := false
	var courseID string
	for ch.ReceiveAsync(&courseID) {
		received = true
	}
	return received
}

type Activities struct {
	runner recompute.Runner
}

func NewActivities(runner recompute.Runner) *Activities {
	return &Activities{runner: runner}
}

// ComputeAllGradesForCourse recomputes a course. Unknown courses and courses
// that cannot be graded fail without retry.
func (a *Activities) ComputeAllGradesForCourse(ctx context.Context, courseID string) (recompute.Summary, error) {
	summary, err := a.runner.RecomputeCourse(ctx, courseID)
	if err == nil {
		return summary, nil
	}

	var nf *apperr.NotFoundError
	if errors.As(err, &nf) {
		return summary, temporal.NewNonRetryableApplicationError("course not found", "NotFound", err)
	}
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		return summary, temporal.NewNonRetryableApplicationError("course cannot be graded", "Validation", err)
	}
	return summary, err
}
