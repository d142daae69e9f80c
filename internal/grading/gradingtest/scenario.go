// Package gradingtest builds synthetic courses, enrollments and scores for tests.
package gradingtest

import (
	"fmt"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
)

// StudentCount is the number of students in the homework scenario.
const StudentCount = 11

// LetterPolicy is a single-homework policy with A-D letter cutoffs.
func LetterPolicy() domain.GradingPolicy {
	return domain.GradingPolicy{
		Grader: []domain.GraderCategory{
			{Type: "Homework", MinCount: 1, DropCount: 0, ShortLabel: "HW", Weight: 1},
		},
		Cutoffs: map[string]float64{"A": .9, "B": .8, "C": .7, "D": .6},
	}
}

// HomeworkCourse is a course with one graded Homework subsection holding
// StudentCount-1 single-point problems.
func HomeworkCourse(id string, policy domain.GradingPolicy) *domain.Course {
	items := make([]domain.Item, StudentCount-1)
	for i := range items {
		items[i] = domain.Item{ID: fmt.Sprintf("problem-%02d", i), MaxPoints: 1}
	}
	return &domain.Course{
		ID:          id,
		DisplayName: "Scenario Course",
		Assignments: []domain.Assignment{
			{ID: "homework-1", DisplayName: "Homework 1", Format: "Homework", Graded: true, Items: items},
		},
		Policy: policy,
	}
}

func Students() []domain.Student {
	out := make([]domain.Student, StudentCount)
	for i := range out {
		out[i] = domain.Student{
			ID:       fmt.Sprintf("student-%02d", i),
			Username: fmt.Sprintf("learner%02d", i),
			Email:    fmt.Sprintf("learner%02d@example.com", i),
		}
	}
	return out
}

// Scores gives student j one point on every problem with index below j.
func Scores(course *domain.Course, students []domain.Student) []domain.RawScore {
	var out []domain.RawScore
	for _, asg := range course.Assignments {
		for i, it := range asg.Items {
			for j, st := range students {
				earned := 0.0
				if i < j {
					earned = 1
				}
				out = append(out, domain.RawScore{
					CourseID:  course.ID,
					StudentID: st.ID,
					ItemID:    it.ID,
					Earned:    earned,
					Possible:  it.MaxPoints,
				})
			}
		}
	}
	return out
}

func StudentIDs(students []domain.Student) []string {
	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	return ids
}
