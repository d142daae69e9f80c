package gradebook

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/gradebook/internal/apperr"
	"github.com/DjordjeVuckovic/gradebook/internal/grading"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
)

// Service assembles gradebook pages from stored enrollments and grades.
type Service struct {
	store    storage.Store
	pageSize int
}

func NewService(store storage.Store, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{store: store, pageSize: pageSize}
}

func (s *Service) PageSize() int {
	return s.pageSize
}

// Page loads the students at offset ordered by username. Students without a
// stored grade are shown with an all-None breakdown.
func (s *Service) Page(ctx context.Context, courseID string, offset int) (*Page, error) {
	if offset < 0 {
		return nil, apperr.NewValidation("offset must not be negative")
	}

	course, err := s.store.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NewNotFound("course", courseID, err)
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	agg, err := grading.NewAggregator(course)
	if err != nil {
		return nil, fmt.Errorf("course %s cannot be graded: %w", courseID, err)
	}

	total, err := s.store.CountEnrollments(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}
	students, err := s.store.ListEnrollments(ctx, courseID, offset, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}

	ids := make([]string, len(students))
	for i, st := range students {
		ids[i] = st.ID
	}
	grades, err := s.store.ListGrades(ctx, courseID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	empty := agg.Empty("")
	columns := make([]string, len(empty.Breakdown))
	for i, sg := range empty.Breakdown {
		columns[i] = sg.Label
	}

	page := &Page{
		CourseID:   course.ID,
		CourseName: course.DisplayName,
		Cutoffs:    agg.Cutoffs(),
		Columns:    columns,
		Rows:       make([]Row, 0, len(students)),
		Offset:     offset,
		PageSize:   s.pageSize,
		Total:      total,
	}
	for _, st := range students {
		grade, ok := grades[st.ID]
		if !ok {
			grade = agg.Empty(st.ID)
		}
		page.Rows = append(page.Rows, Row{
			StudentID: st.ID,
			Username:  st.Username,
			Email:     st.Email,
			Grade:     grade,
		})
	}
	return page, nil
}
