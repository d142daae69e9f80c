package workflow

import (
	"context"
	"fmt"
	"log/slog"

	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"
)

// TemporalTrigger schedules recomputations on a Temporal cluster.
type TemporalTrigger struct {
	client    client.Client
	taskQueue string
}

func NewTemporalTrigger(c client.Client, taskQueue string) *TemporalTrigger {
	if taskQueue == "" {
		taskQueue = DefaultTaskQueue
	}
	return &TemporalTrigger{client: c, taskQueue: taskQueue}
}

// Enqueue starts the course workflow, or signals the one already running for
// the course so that it recomputes again with the new inputs, and returns the
// run ID.
func (t *TemporalTrigger) Enqueue(ctx context.Context, courseID string) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:                    WorkflowID(courseID),
		TaskQueue:             t.taskQueue,
		WorkflowIDReusePolicy: enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
	}

	run, err := t.client.SignalWithStartWorkflow(ctx, opts.ID, ScoresChangedSignal, courseID,
		opts, RecomputeCourseWorkflow, RecomputeInput{CourseID: courseID})
	if err != nil {
		return "", fmt.Errorf("failed to signal recompute workflow for %s: %w", courseID, err)
	}

	slog.InfoContext(ctx, "Recompute workflow signaled",
		"course_id", courseID, "workflow_id", run.GetID(), "run_id", run.GetRunID())
	return run.GetRunID(), nil
}

// Register registers the recompute workflow and activities with w.
func Register(w sdkworker.Worker, activities *Activities) {
	w.RegisterWorkflow(RecomputeCourseWorkflow)
	w.RegisterActivity(activities.ComputeAllGradesForCourse)
}
