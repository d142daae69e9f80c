package in_mem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
)

type scoreKey struct {
	studentID string
	itemID    string
}

type courseData struct {
	course      domain.Course
	enrollments map[string]domain.Student
	scores      map[scoreKey]domain.RawScore
	grades      map[string]domain.CourseGrade
}

type Store struct {
	storageLock sync.RWMutex
	courses     map[string]*courseData
}

func NewStore() *Store {
	return &Store{
		courses: make(map[string]*courseData),
	}
}

func (s *Store) SaveCourse(ctx context.Context, course *domain.Course) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	cd, ok := s.courses[course.ID]
	if !ok {
		cd = &courseData{
			enrollments: make(map[string]domain.Student),
			scores:      make(map[scoreKey]domain.RawScore),
			grades:      make(map[string]domain.CourseGrade),
		}
		s.courses[course.ID] = cd
	}
	cd.course = *course
	return nil
}

func (s *Store) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	cd, ok := s.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	c := cd.course
	return &c, nil
}

func (s *Store) Enroll(ctx context.Context, courseID string, students ...domain.Student) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	cd, ok := s.courses[courseID]
	if !ok {
		return fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	for _, st := range students {
		cd.enrollments[st.ID] = st
	}
	return nil
}

func (s *Store) ListEnrollments(ctx context.Context, courseID string, offset, limit int) ([]domain.Student, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	cd, ok := s.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}

	students := make([]domain.Student, 0, len(cd.enrollments))
	for _, st := range cd.enrollments {
		students = append(students, st)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Username != students[j].Username {
			return students[i].Username < students[j].Username
		}
		return students[i].ID < students[j].ID
	})

	offset = max(offset, 0)
	if offset >= len(students) {
		return []domain.Student{}, nil
	}
	students = students[offset:]
	if limit >= 0 && limit < len(students) {
		students = students[:limit]
	}
	return students, nil
}

func (s *Store) CountEnrollments(ctx context.Context, courseID string) (int, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	cd, ok := s.courses[courseID]
	if !ok {
		return 0, fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	return len(cd.enrollments), nil
}

func (s *Store) SaveScores(ctx context.Context, scores []domain.RawScore) error {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	now := time.Now()
	for _, sc := range scores {
		cd, ok := s.courses[sc.CourseID]
		if !ok {
			return fmt.Errorf("course %q: %w", sc.CourseID, storage.ErrNotFound)
		}
		if sc.UpdatedAt.IsZero() {
			sc.UpdatedAt = now
		}
		cd.scores[scoreKey{studentID: sc.StudentID, itemID: sc.ItemID}] = sc
	}
	return nil
}

func (s *Store) ListScores(ctx context.Context, courseID string) ([]domain.RawScore, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	cd, ok := s.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	out := make([]domain.RawScore, 0, len(cd.scores))
	for _, sc := range cd.scores {
		out = append(out, sc)
	}
	return out, nil
}

func (s *Store) UpsertGrade(ctx context.Context, grade domain.CourseGrade) (bool, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	cd, ok := s.courses[grade.CourseID]
	if !ok {
		return false, fmt.Errorf("course %q: %w", grade.CourseID, storage.ErrNotFound)
	}

	prev, exists := cd.grades[grade.StudentID]
	if exists && (prev.ComputedAt.After(grade.ComputedAt) || prev.Version == grade.Version) {
		return false, nil
	}
	cd.grades[grade.StudentID] = grade
	return true, nil
}

func (s *Store) GetGrade(ctx context.Context, courseID, studentID string) (*domain.CourseGrade, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	cd, ok := s.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	g, ok := cd.grades[studentID]
	if !ok {
		return nil, fmt.Errorf("grade for %q in %q: %w", studentID, courseID, storage.ErrNotFound)
	}
	return &g, nil
}

func (s *Store) ListGrades(ctx context.Context, courseID string, studentIDs []string) (map[string]domain.CourseGrade, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	cd, ok := s.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	out := make(map[string]domain.CourseGrade, len(studentIDs))
	for _, id := range studentIDs {
		if g, ok := cd.grades[id]; ok {
			out[id] = g
		}
	}
	return out, nil
}

func (s *Store) Close() {}

var _ storage.Store = (*Store)(nil)
