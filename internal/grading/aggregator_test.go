package grading

import (
	"testing"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/grading/gradingtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func computeScenario(t *testing.T, policy domain.GradingPolicy) map[string]domain.CourseGrade {
	t.Helper()
	course := gradingtest.HomeworkCourse("course-v1:Org+Scenario+Run", policy)
	students := gradingtest.Students()

	agg, err := NewAggregator(course)
	require.NoError(t, err)

	return agg.ComputeAll(gradingtest.StudentIDs(students), gradingtest.Scores(course, students))
}

func countStates(grades map[string]domain.CourseGrade) map[domain.GradeState]int {
	counts := make(map[domain.GradeState]int)
	for _, g := range grades {
		for _, s := range g.Breakdown {
			counts[s.State]++
		}
		counts[g.State]++
	}
	return counts
}

func TestAggregator_DefaultPolicy(t *testing.T) {
	grades := computeScenario(t, domain.GradingPolicy{})
	require.Len(t, grades, gradingtest.StudentCount)

	for _, g := range grades {
		// HW 01-12 + HW Avg, Lab 01-12 + Lab Avg, Midterm, Final
		assert.Len(t, g.Breakdown, 28)
	}

	counts := countStates(grades)
	assert.Equal(t, 6, counts[domain.StatePass])
	assert.Equal(t, 22, counts[domain.StateFail])
	assert.Equal(t, 291, counts[domain.StateNone])

	g3 := grades["student-03"]
	assert.Equal(t, 0.01, g3.Percent)
	assert.Equal(t, domain.StateFail, g3.State)

	g2 := grades["student-02"]
	assert.Equal(t, 0.0, g2.Percent)
	assert.Equal(t, domain.StateNone, g2.State)
}

func TestAggregator_DefaultPolicy_HomeworkColumns(t *testing.T) {
	grades := computeScenario(t, domain.GradingPolicy{})
	g := grades["student-07"]

	assert.Equal(t, "HW 01", g.Breakdown[0].Label)
	assert.Equal(t, 0.7, g.Breakdown[0].Percent)
	assert.Equal(t, domain.StatePass, g.Breakdown[0].State)

	avg := g.Breakdown[12]
	assert.Equal(t, "HW Avg", avg.Label)
	assert.True(t, avg.Prominent)
	assert.InDelta(t, 0.07, avg.Percent, 1e-12)
	assert.Equal(t, domain.StateFail, avg.State)

	dropped := 0
	for _, s := range g.Breakdown[:12] {
		if s.Dropped {
			dropped++
		}
	}
	assert.Equal(t, 2, dropped)
	assert.False(t, g.Breakdown[0].Dropped)

	assert.Equal(t, "Midterm", g.Breakdown[26].Label)
	assert.Equal(t, "Final", g.Breakdown[27].Label)
}

func TestAggregator_LetterPolicy(t *testing.T) {
	grades := computeScenario(t, gradingtest.LetterPolicy())

	for _, g := range grades {
		require.Len(t, g.Breakdown, 1)
		assert.Equal(t, "HW", g.Breakdown[0].Label)
	}

	counts := countStates(grades)
	assert.Equal(t, 4, counts["A"])
	assert.Equal(t, 2, counts["B"])
	assert.Equal(t, 2, counts["C"])
	assert.Equal(t, 2, counts["D"])
	assert.Equal(t, 10, counts[domain.StateFail])
	assert.Equal(t, 2, counts[domain.StateNone])

	wantClass := map[string]domain.GradeState{
		"student-00": domain.StateNone,
		"student-05": domain.StateFail,
		"student-06": "D",
		"student-07": "C",
		"student-08": "B",
		"student-09": "A",
		"student-10": "A",
	}
	for id, want := range wantClass {
		assert.Equal(t, want, grades[id].State, id)
	}
}

func TestAggregator_Idempotent(t *testing.T) {
	first := computeScenario(t, gradingtest.LetterPolicy())
	second := computeScenario(t, gradingtest.LetterPolicy())

	assert.Equal(t, first, second)
	for id, g := range first {
		assert.NotEmpty(t, g.Version, id)
		assert.Equal(t, g.Version, second[id].Version, id)
	}
}

func TestAggregator_VersionChangesWithScores(t *testing.T) {
	course := gradingtest.HomeworkCourse("course-v1:Org+Version+Run", gradingtest.LetterPolicy())
	agg, err := NewAggregator(course)
	require.NoError(t, err)

	before := agg.Compute("s1", nil)
	after := agg.Compute("s1", map[string]domain.RawScore{
		"problem-00": {StudentID: "s1", ItemID: "problem-00", Earned: 1, Possible: 1},
	})

	assert.NotEqual(t, before.Version, after.Version)
	assert.Equal(t, domain.StateNone, before.State)
	assert.Equal(t, domain.StateFail, after.State)
}

func TestAggregator_DropLowest(t *testing.T) {
	course := &domain.Course{
		ID: "course-drop",
		Assignments: []domain.Assignment{
			{ID: "hw1", Format: "Homework", Graded: true, Items: []domain.Item{{ID: "p1", MaxPoints: 2}}},
			{ID: "hw2", Format: "Homework", Graded: true, Items: []domain.Item{{ID: "p2", MaxPoints: 2}}},
			{ID: "hw3", Format: "Homework", Graded: true, Items: []domain.Item{{ID: "p3", MaxPoints: 2}}},
			{ID: "draft", Format: "Homework", Graded: false, Items: []domain.Item{{ID: "p4", MaxPoints: 2}}},
		},
		Policy: domain.GradingPolicy{
			Grader: []domain.GraderCategory{
				{Type: "Homework", MinCount: 3, DropCount: 1, ShortLabel: "HW", Weight: 1},
			},
		},
	}
	agg, err := NewAggregator(course)
	require.NoError(t, err)

	g := agg.Compute("s1", map[string]domain.RawScore{
		"p1": {ItemID: "p1", Earned: 2, Possible: 2},
		"p2": {ItemID: "p2", Earned: 0, Possible: 2},
		"p3": {ItemID: "p3", Earned: 1, Possible: 2},
		"p4": {ItemID: "p4", Earned: 2, Possible: 2},
	})

	require.Len(t, g.Breakdown, 4)
	assert.True(t, g.Breakdown[1].Dropped)
	assert.InDelta(t, 0.75, g.Breakdown[3].Percent, 1e-12)
	assert.Equal(t, 0.75, g.Percent)
	assert.Equal(t, domain.StatePass, g.State)
}

func TestAggregator_MissingScoresCountAsZero(t *testing.T) {
	course := gradingtest.HomeworkCourse("course-missing", gradingtest.LetterPolicy())
	agg, err := NewAggregator(course)
	require.NoError(t, err)

	g := agg.Compute("s1", map[string]domain.RawScore{
		"problem-00": {ItemID: "problem-00", Earned: 1, Possible: 1},
	})
	assert.InDelta(t, 0.1, g.Breakdown[0].Percent, 1e-12)
}

func TestNewAggregator_RejectsInvalidPolicy(t *testing.T) {
	course := gradingtest.HomeworkCourse("course-bad", domain.GradingPolicy{
		Grader:  []domain.GraderCategory{{Type: "Homework", MinCount: 1, Weight: 1}},
		Cutoffs: map[string]float64{"A": 1.5},
	})

	_, err := NewAggregator(course)
	assert.ErrorIs(t, err, domain.ErrInvalidPolicy)
}
