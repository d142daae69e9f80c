// Package cached decorates a storage.Store with an in-process cache of course
// structure. Scores and grades are never cached.
package cached

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/patrickmn/go-cache"
)

const (
	DefaultTTL             = 5 * time.Minute
	defaultCleanupInterval = 10 * time.Minute
)

type Store struct {
	storage.Store
	courses *cache.Cache
}

func NewStore(inner storage.Store, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		Store:   inner,
		courses: cache.New(ttl, defaultCleanupInterval),
	}
}

func (s *Store) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	if v, ok := s.courses.Get(courseID); ok {
		return v.(*domain.Course), nil
	}
	course, err := s.Store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.courses.SetDefault(courseID, course)
	return course, nil
}

func (s *Store) SaveCourse(ctx context.Context, course *domain.Course) error {
	s.courses.Delete(course.ID)
	if err := s.Store.SaveCourse(ctx, course); err != nil {
		return err
	}
	s.courses.Delete(course.ID)
	return nil
}

// Invalidate drops a cached course, e.g. after another process changed it.
func (s *Store) Invalidate(courseID string) {
	s.courses.Delete(courseID)
}

var _ storage.Store = (*Store)(nil)
