package es

import (
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
)

// GradeDocument is the indexed form of a CourseGrade.
type GradeDocument struct {
	CourseID   string             `json:"course_id"`
	StudentID  string             `json:"student_id"`
	Percent    float64            `json:"percent"`
	State      string             `json:"state"`
	Version    string             `json:"version"`
	Categories []CategoryDocument `json:"categories"`
	ComputedAt time.Time          `json:"computed_at"`
	IndexedAt  time.Time          `json:"indexed_at"`
}

type CategoryDocument struct {
	Category string  `json:"category"`
	Percent  float64 `json:"percent"`
	Weight   float64 `json:"weight"`
	State    string  `json:"state"`
}

// DocumentID is stable per (course, student) so re-indexing overwrites.
func DocumentID(courseID, studentID string) string {
	return courseID + "/" + studentID
}

func toDocument(g domain.CourseGrade, now time.Time) GradeDocument {
	cats := make([]CategoryDocument, 0, len(g.Categories))
	for _, c := range g.Categories {
		cats = append(cats, CategoryDocument{
			Category: c.Category,
			Percent:  c.Percent,
			Weight:   c.Weight,
			State:    string(c.State),
		})
	}
	return GradeDocument{
		CourseID:   g.CourseID,
		StudentID:  g.StudentID,
		Percent:    g.Percent,
		State:      string(g.State),
		Version:    g.Version,
		Categories: cats,
		ComputedAt: g.ComputedAt,
		IndexedAt:  now,
	}
}

func buildMapping() types.TypeMapping {
	categories := types.NewNestedProperty()
	categories.Properties = map[string]types.Property{
		"category": types.NewKeywordProperty(),
		"percent":  types.NewDoubleNumberProperty(),
		"weight":   types.NewDoubleNumberProperty(),
		"state":    types.NewKeywordProperty(),
	}

	return types.TypeMapping{
		Properties: map[string]types.Property{
			"course_id":   types.NewKeywordProperty(),
			"student_id":  types.NewKeywordProperty(),
			"percent":     types.NewDoubleNumberProperty(),
			"state":       types.NewKeywordProperty(),
			"version":     types.NewKeywordProperty(),
			"categories":  categories,
			"computed_at": types.NewDateProperty(),
			"indexed_at":  types.NewDateProperty(),
		},
	}
}
