package in_mem

import (
	"context"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/grading/gradingtest"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) (*Store, *domain.Course) {
	t.Helper()
	ctx := context.Background()
	s := NewStore()
	course := gradingtest.HomeworkCourse("course-v1:Org+Mem+Run", gradingtest.LetterPolicy())
	require.NoError(t, s.SaveCourse(ctx, course))
	require.NoError(t, s.Enroll(ctx, course.ID, gradingtest.Students()...))
	return s, course
}

func TestStore_UnknownCourse(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	_, err := s.GetCourse(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.SaveScores(ctx, []domain.RawScore{{CourseID: "missing", StudentID: "s", ItemID: "i", Possible: 1}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_ListEnrollments_OrderedAndPaged(t *testing.T) {
	s, course := seededStore(t)
	ctx := context.Background()

	all, err := s.ListEnrollments(ctx, course.ID, 0, -1)
	require.NoError(t, err)
	require.Len(t, all, gradingtest.StudentCount)
	assert.Equal(t, "learner00", all[0].Username)
	assert.Equal(t, "learner10", all[10].Username)

	page, err := s.ListEnrollments(ctx, course.ID, 8, 5)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "learner08", page[0].Username)

	empty, err := s.ListEnrollments(ctx, course.ID, 50, 5)
	require.NoError(t, err)
	assert.Empty(t, empty)

	n, err := s.CountEnrollments(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, gradingtest.StudentCount, n)
}

func TestStore_SaveScores_LastWriteWins(t *testing.T) {
	s, course := seededStore(t)
	ctx := context.Background()

	score := domain.RawScore{CourseID: course.ID, StudentID: "student-01", ItemID: "problem-00", Earned: 0, Possible: 1}
	require.NoError(t, s.SaveScores(ctx, []domain.RawScore{score}))
	score.Earned = 1
	require.NoError(t, s.SaveScores(ctx, []domain.RawScore{score}))

	scores, err := s.ListScores(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, 1.0, scores[0].Earned)
	assert.False(t, scores[0].UpdatedAt.IsZero())
}

func TestStore_UpsertGrade(t *testing.T) {
	s, course := seededStore(t)
	ctx := context.Background()
	now := time.Now()

	g := domain.CourseGrade{CourseID: course.ID, StudentID: "student-01", Version: "v1", ComputedAt: now}

	changed, err := s.UpsertGrade(ctx, g)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.UpsertGrade(ctx, g)
	require.NoError(t, err)
	assert.False(t, changed, "same version is not a change")

	stale := g
	stale.Version = "v0"
	stale.ComputedAt = now.Add(-time.Minute)
	changed, err = s.UpsertGrade(ctx, stale)
	require.NoError(t, err)
	assert.False(t, changed, "older computation must not overwrite a newer one")

	got, err := s.GetGrade(ctx, course.ID, "student-01")
	require.NoError(t, err)
	assert.Equal(t, "v1", got.Version)

	_, err = s.GetGrade(ctx, course.ID, "student-02")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	grades, err := s.ListGrades(ctx, course.ID, []string{"student-01", "student-02"})
	require.NoError(t, err)
	assert.Len(t, grades, 1)
}
