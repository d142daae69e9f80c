package pg

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/grading"
	"github.com/DjordjeVuckovic/gradebook/internal/grading/gradingtest"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	pkgtesting "github.com/DjordjeVuckovic/gradebook/pkg/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

var (
	testCtx   context.Context
	testPool  *ConnectionPool
	testStore *Store
)

func TestMain(m *testing.M) {
	if !pkgtesting.IntegrationEnabled() {
		os.Exit(m.Run())
	}

	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.DefaultPGConfig())
	if err != nil {
		panic(err)
	}

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}

	testStore, err = NewStore(testPool)
	if err != nil {
		panic(err)
	}

	code := m.Run()
	testPool.Close()
	_ = testcontainers.TerminateContainer(pg.Container)
	os.Exit(code)
}

func requireStore(t *testing.T) {
	t.Helper()
	if testStore == nil {
		t.Skip("integration tests disabled; set " + pkgtesting.IntegrationEnv + "=1")
	}
}

func truncateTables(t *testing.T) {
	t.Helper()
	_, err := testPool.GetConn().Exec(testCtx, "TRUNCATE TABLE courses CASCADE")
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func seedCourse(t *testing.T) *domain.Course {
	t.Helper()
	course := gradingtest.HomeworkCourse("course-v1:Org+PG+Run", gradingtest.LetterPolicy())
	require.NoError(t, testStore.SaveCourse(testCtx, course))
	require.NoError(t, testStore.Enroll(testCtx, course.ID, gradingtest.Students()...))
	return course
}

func TestStore_CourseRoundTrip(t *testing.T) {
	requireStore(t)
	truncateTables(t)
	defer truncateTables(t)

	course := seedCourse(t)

	got, err := testStore.GetCourse(testCtx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)
	assert.Equal(t, course.Assignments, got.Assignments)
	assert.Equal(t, course.Policy, got.Policy)

	_, err = testStore.GetCourse(testCtx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Enrollments(t *testing.T) {
	requireStore(t)
	truncateTables(t)
	defer truncateTables(t)

	course := seedCourse(t)

	page, err := testStore.ListEnrollments(testCtx, course.ID, 2, 3)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, "learner02", page[0].Username)

	all, err := testStore.ListEnrollments(testCtx, course.ID, 0, -1)
	require.NoError(t, err)
	assert.Len(t, all, gradingtest.StudentCount)

	n, err := testStore.CountEnrollments(testCtx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, gradingtest.StudentCount, n)
}

func TestStore_ScoresUpsert(t *testing.T) {
	requireStore(t)
	truncateTables(t)
	defer truncateTables(t)

	course := seedCourse(t)
	scores := gradingtest.Scores(course, gradingtest.Students())

	require.NoError(t, testStore.SaveScores(testCtx, scores))
	require.NoError(t, testStore.SaveScores(testCtx, scores))

	got, err := testStore.ListScores(testCtx, course.ID)
	require.NoError(t, err)
	assert.Len(t, got, len(scores))
}

func TestStore_UpsertGrade(t *testing.T) {
	requireStore(t)
	truncateTables(t)
	defer truncateTables(t)

	course := seedCourse(t)
	agg, err := grading.NewAggregator(course)
	require.NoError(t, err)

	grade := agg.Empty("student-01")
	grade.ComputedAt = time.Now().UTC().Truncate(time.Microsecond)

	changed, err := testStore.UpsertGrade(testCtx, grade)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = testStore.UpsertGrade(testCtx, grade)
	require.NoError(t, err)
	assert.False(t, changed)

	stale := grade
	stale.Version = "stale"
	stale.ComputedAt = grade.ComputedAt.Add(-time.Hour)
	changed, err = testStore.UpsertGrade(testCtx, stale)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := testStore.GetGrade(testCtx, course.ID, "student-01")
	require.NoError(t, err)
	assert.Equal(t, grade.Version, got.Version)
	assert.Equal(t, grade.Breakdown, got.Breakdown)

	grades, err := testStore.ListGrades(testCtx, course.ID, []string{"student-01", "student-02"})
	require.NoError(t, err)
	assert.Len(t, grades, 1)
}
