package recompute

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/apperr"
	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/grading/gradingtest"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const courseID = "course-v1:edX+Recompute+2026"

type recordingNotifier struct {
	mu     sync.Mutex
	grades []domain.CourseGrade
	err    error
}

func (n *recordingNotifier) CourseGradeChanged(_ context.Context, g domain.CourseGrade) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.grades = append(n.grades, g)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.grades)
}

// faultyStore fails or panics on UpsertGrade for selected students.
type faultyStore struct {
	storage.Store
	failFor  string
	panicFor string
}

func (s *faultyStore) UpsertGrade(ctx context.Context, g domain.CourseGrade) (bool, error) {
	switch g.StudentID {
	case s.failFor:
		return false, errors.New("write conflict")
	case s.panicFor:
		panic("corrupt row")
	}
	return s.Store.UpsertGrade(ctx, g)
}

func seedStore(t *testing.T) *in_mem.Store {
	t.Helper()
	ctx := context.Background()
	store := in_mem.NewStore()
	course := gradingtest.HomeworkCourse(courseID, domain.GradingPolicy{})
	students := gradingtest.Students()

	require.NoError(t, store.SaveCourse(ctx, course))
	require.NoError(t, store.Enroll(ctx, courseID, students...))
	require.NoError(t, store.SaveScores(ctx, gradingtest.Scores(course, students)))
	return store
}

func fixedClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func TestRecomputer_RecomputeCourse(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	notifier := &recordingNotifier{}
	r := NewRecomputer(store, notifier, WithClock(fixedClock()))

	summary, err := r.RecomputeCourse(ctx, courseID)
	require.NoError(t, err)
	assert.Equal(t, gradingtest.StudentCount, summary.Students)
	assert.Equal(t, gradingtest.StudentCount, summary.Updated)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, gradingtest.StudentCount, notifier.count())

	g, err := store.GetGrade(ctx, courseID, "student-10")
	require.NoError(t, err)
	// one full homework out of twelve slots at 15% weight is far below the pass cutoff
	assert.Equal(t, domain.StateFail, g.State)
	assert.InDelta(t, 0.02, g.Percent, 1e-9)
	assert.Equal(t, domain.StatePass, g.Breakdown[0].State)
	assert.False(t, g.ComputedAt.IsZero())

	t.Run("unchanged input does not notify", func(t *testing.T) {
		summary, err := r.RecomputeCourse(ctx, courseID)
		require.NoError(t, err)
		assert.Equal(t, gradingtest.StudentCount, summary.Unchanged)
		assert.Zero(t, summary.Updated)
		assert.Equal(t, gradingtest.StudentCount, notifier.count())

		again, err := store.GetGrade(ctx, courseID, "student-10")
		require.NoError(t, err)
		assert.Equal(t, g.Version, again.Version)
	})

	t.Run("changed score updates one student", func(t *testing.T) {
		require.NoError(t, store.SaveScores(ctx, []domain.RawScore{
			{CourseID: courseID, StudentID: "student-00", ItemID: "problem-00", Earned: 1, Possible: 1},
		}))

		summary, err := r.RecomputeCourse(ctx, courseID)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, gradingtest.StudentCount-1, summary.Unchanged)
		assert.Equal(t, gradingtest.StudentCount+1, notifier.count())
	})
}

func TestRecomputer_IsolatesStudentFailures(t *testing.T) {
	store := &faultyStore{Store: seedStore(t), failFor: "student-03", panicFor: "student-07"}
	r := NewRecomputer(store, nil, WithClock(fixedClock()))

	summary, err := r.RecomputeCourse(context.Background(), courseID)

	require.NoError(t, err)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, gradingtest.StudentCount-2, summary.Updated)
}

func TestRecomputer_NotificationFailureIsNotFatal(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("index down")}
	r := NewRecomputer(seedStore(t), notifier, WithClock(fixedClock()))

	summary, err := r.RecomputeCourse(context.Background(), courseID)

	require.NoError(t, err)
	assert.Equal(t, gradingtest.StudentCount, summary.Updated)
	assert.Zero(t, summary.Failed)
}

func TestRecomputer_UnknownCourse(t *testing.T) {
	r := NewRecomputer(in_mem.NewStore(), nil)

	_, err := r.RecomputeCourse(context.Background(), "missing")

	var nf *apperr.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecomputer_StaleRunDoesNotOverwrite(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)
	late := time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)
	early := late.Add(-time.Hour)

	_, err := NewRecomputer(store, nil, WithClock(func() time.Time { return late })).RecomputeCourse(ctx, courseID)
	require.NoError(t, err)

	require.NoError(t, store.SaveScores(ctx, []domain.RawScore{
		{CourseID: courseID, StudentID: "student-00", ItemID: "problem-05", Earned: 1, Possible: 1},
	}))
	summary, err := NewRecomputer(store, nil, WithClock(func() time.Time { return early })).RecomputeCourse(ctx, courseID)
	require.NoError(t, err)
	assert.Zero(t, summary.Updated)

	g, err := store.GetGrade(ctx, courseID, "student-00")
	require.NoError(t, err)
	assert.Equal(t, late, g.ComputedAt)
}
