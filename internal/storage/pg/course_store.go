package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db   *pgxpool.Pool
	pool *ConnectionPool
}

func NewStore(pool *ConnectionPool) (*Store, error) {
	if pool == nil {
		return nil, errors.New("nil connection pool")
	}
	return &Store{db: pool.conn, pool: pool}, nil
}

func (s *Store) SaveCourse(ctx context.Context, course *domain.Course) error {
	assignments, err := json.Marshal(course.Assignments)
	if err != nil {
		return fmt.Errorf("failed to marshal assignments: %w", err)
	}
	policy, err := json.Marshal(course.Policy)
	if err != nil {
		return fmt.Errorf("failed to marshal grading policy: %w", err)
	}

	cmd := `
        INSERT INTO courses (id, display_name, assignments, grading_policy, updated_at)
        VALUES ($1, $2, $3, $4, now())
        ON CONFLICT (id) DO UPDATE
            SET display_name   = EXCLUDED.display_name,
                assignments    = EXCLUDED.assignments,
                grading_policy = EXCLUDED.grading_policy,
                updated_at     = now();
    `
	if _, err := s.db.Exec(ctx, cmd, course.ID, course.DisplayName, assignments, policy); err != nil {
		return fmt.Errorf("failed to upsert course %q: %w", course.ID, err)
	}
	return nil
}

func (s *Store) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	var (
		course      domain.Course
		assignments []byte
		policy      []byte
	)
	err := s.db.QueryRow(ctx,
		`SELECT id, display_name, assignments, grading_policy FROM courses WHERE id = $1`,
		courseID,
	).Scan(&course.ID, &course.DisplayName, &assignments, &policy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load course %q: %w", courseID, err)
	}

	if err := json.Unmarshal(assignments, &course.Assignments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal assignments: %w", err)
	}
	if err := json.Unmarshal(policy, &course.Policy); err != nil {
		return nil, fmt.Errorf("failed to unmarshal grading policy: %w", err)
	}
	return &course, nil
}

func (s *Store) Enroll(ctx context.Context, courseID string, students ...domain.Student) error {
	if len(students) == 0 {
		return nil
	}
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, st := range students {
		batch.Queue(`
            INSERT INTO enrollments (course_id, student_id, username, email)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (course_id, student_id) DO UPDATE
                SET username = EXCLUDED.username,
                    email    = EXCLUDED.email`,
			courseID, st.ID, st.Username, st.Email)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range students {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to enroll students in %q: %w", courseID, err)
		}
	}
	return nil
}

func (s *Store) ListEnrollments(ctx context.Context, courseID string, offset, limit int) ([]domain.Student, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	query := `
        SELECT student_id, username, email
        FROM enrollments
        WHERE course_id = $1
        ORDER BY username, student_id
        OFFSET $2`
	args := []any{courseID, max(offset, 0)}
	if limit >= 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments: %w", err)
	}
	students, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Student, error) {
		var st domain.Student
		err := row.Scan(&st.ID, &st.Username, &st.Email)
		return st, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan enrollments: %w", err)
	}
	return students, nil
}

func (s *Store) CountEnrollments(ctx context.Context, courseID string) (int, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM enrollments WHERE course_id = $1`, courseID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return n, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureCourse(ctx context.Context, courseID string) error {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, courseID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check course %q: %w", courseID, err)
	}
	if !exists {
		return fmt.Errorf("course %q: %w", courseID, storage.ErrNotFound)
	}
	return nil
}

var _ storage.Store = (*Store)(nil)
