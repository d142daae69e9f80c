package gradebook

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/grading"
	"github.com/DjordjeVuckovic/gradebook/internal/grading/gradingtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioPage(t *testing.T, policy domain.GradingPolicy) *Page {
	t.Helper()
	course := gradingtest.HomeworkCourse("course-v1:edX+Render+2026", policy)
	students := gradingtest.Students()
	agg, err := grading.NewAggregator(course)
	require.NoError(t, err)

	grades := agg.ComputeAll(gradingtest.StudentIDs(students), gradingtest.Scores(course, students))
	page := &Page{
		CourseID:   course.ID,
		CourseName: course.DisplayName,
		Cutoffs:    agg.Cutoffs(),
		PageSize:   DefaultPageSize,
		Total:      len(students),
	}
	for _, st := range students {
		page.Rows = append(page.Rows, Row{StudentID: st.ID, Username: st.Username, Grade: grades[st.ID]})
	}
	return page
}

func render(t *testing.T, page *Page) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, MustNewRenderer().Render(&buf, page))
	return buf.String()
}

func TestRender_DefaultPolicyCounts(t *testing.T) {
	html := render(t, scenarioPage(t, domain.GradingPolicy{}))

	assert.Equal(t, 7, strings.Count(html, "grade_Pass"))
	assert.Equal(t, 23, strings.Count(html, "grade_F"))
	assert.Equal(t, 292, strings.Count(html, "grade_None"))
}

func TestRender_LetterPolicyCounts(t *testing.T) {
	html := render(t, scenarioPage(t, gradingtest.LetterPolicy()))

	want := map[string]int{"A": 5, "B": 3, "C": 3, "D": 3, "F": 11, "None": 3}
	for label, n := range want {
		assert.Equal(t, n, strings.Count(html, "grade_"+label), "grade_%s", label)
	}
}

func TestRender_LegendStyles(t *testing.T) {
	html := render(t, scenarioPage(t, gradingtest.LetterPolicy()))

	for _, rule := range []string{
		".grade_A {color:green;}",
		".grade_B {color:Chocolate;}",
		".grade_C {color:DarkSlateGray;}",
		".grade_D {color:DarkSlateGray;}",
		".grade_F {color:DimGray;}",
		".grade_None {color:LightGray;}",
	} {
		assert.Contains(t, html, rule)
	}
}

func TestRender_HeaderAndRows(t *testing.T) {
	page := scenarioPage(t, domain.GradingPolicy{})
	html := render(t, page)

	header := page.Header()
	require.Len(t, header, 29)
	assert.Equal(t, "HW 01", header[0])
	assert.Equal(t, "HW Avg", header[12])
	assert.Equal(t, "Total", header[28])
	assert.Contains(t, html, "<th>Midterm</th>")

	usernames := make([]string, 0, len(page.Rows))
	for _, r := range page.Rows {
		assert.Contains(t, html, ">"+r.Username+"<")
		usernames = append(usernames, r.Username)
	}
	assert.True(t, sort.StringsAreSorted(usernames))
	assert.Equal(t, gradingtest.StudentCount, strings.Count(html, `<td class="student"`))
}

func TestRender_Deterministic(t *testing.T) {
	page := scenarioPage(t, gradingtest.LetterPolicy())
	assert.Equal(t, render(t, page), render(t, page))
}

func TestRender_PercentText(t *testing.T) {
	page := scenarioPage(t, gradingtest.LetterPolicy())
	html := render(t, page)

	// learner10 scored every problem: the single homework column and the total
	assert.Contains(t, html, `>100</td><td class="grade_A">100</td></tr>`)
	assert.Contains(t, html, `>learner00</td><td class="grade_None"`)
}

func TestPage_Navigation(t *testing.T) {
	p := &Page{Offset: 0, PageSize: 20, Total: 45, Rows: make([]Row, 20)}
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())
	assert.Equal(t, 20, p.NextOffset())

	p = &Page{Offset: 40, PageSize: 20, Total: 45, Rows: make([]Row, 5)}
	assert.True(t, p.HasPrev())
	assert.Equal(t, 20, p.PrevOffset())
	assert.False(t, p.HasNext())

	p = &Page{Offset: 5, PageSize: 20, Total: 45, Rows: make([]Row, 20)}
	assert.Equal(t, 0, p.PrevOffset())
}

func TestLegend_Empty(t *testing.T) {
	assert.Equal(t, ".grade_F {color:DimGray;}\n.grade_None {color:LightGray;}\n", string(Legend(nil)))
}
