package pg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/jackc/pgx/v5"
)

// UpsertGrade writes grade unless the stored row has the same version or was
// computed later. Zero affected rows means nothing changed.
func (s *Store) UpsertGrade(ctx context.Context, grade domain.CourseGrade) (bool, error) {
	breakdown, err := json.Marshal(grade.Breakdown)
	if err != nil {
		return false, fmt.Errorf("failed to marshal breakdown: %w", err)
	}
	categories, err := json.Marshal(grade.Categories)
	if err != nil {
		return false, fmt.Errorf("failed to marshal categories: %w", err)
	}

	cmd := `
        INSERT INTO course_grades (course_id, student_id, percent, state, breakdown, categories, version, computed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (course_id, student_id) DO UPDATE
            SET percent     = EXCLUDED.percent,
                state       = EXCLUDED.state,
                breakdown   = EXCLUDED.breakdown,
                categories  = EXCLUDED.categories,
                version     = EXCLUDED.version,
                computed_at = EXCLUDED.computed_at
            WHERE course_grades.version <> EXCLUDED.version
              AND course_grades.computed_at <= EXCLUDED.computed_at;
    `
	tag, err := s.db.Exec(ctx, cmd,
		grade.CourseID,
		grade.StudentID,
		grade.Percent,
		string(grade.State),
		breakdown,
		categories,
		grade.Version,
		grade.ComputedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert grade for %q in %q: %w", grade.StudentID, grade.CourseID, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) GetGrade(ctx context.Context, courseID, studentID string) (*domain.CourseGrade, error) {
	row := s.db.QueryRow(ctx, `
        SELECT course_id, student_id, percent, state, breakdown, categories, version, computed_at
        FROM course_grades
        WHERE course_id = $1 AND student_id = $2`, courseID, studentID)

	g, err := scanGrade(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("grade for %q in %q: %w", studentID, courseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Store) ListGrades(ctx context.Context, courseID string, studentIDs []string) (map[string]domain.CourseGrade, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
        SELECT course_id, student_id, percent, state, breakdown, categories, version, computed_at
        FROM course_grades
        WHERE course_id = $1 AND student_id = ANY($2)`, courseID, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	grades, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CourseGrade, error) {
		return scanGrade(row)
	})
	if err != nil {
		return nil, err
	}

	out := make(map[string]domain.CourseGrade, len(grades))
	for _, g := range grades {
		out[g.StudentID] = g
	}
	return out, nil
}

func scanGrade(row pgx.Row) (domain.CourseGrade, error) {
	var (
		g          domain.CourseGrade
		state      string
		breakdown  []byte
		categories []byte
	)
	if err := row.Scan(&g.CourseID, &g.StudentID, &g.Percent, &state, &breakdown, &categories, &g.Version, &g.ComputedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return g, err
		}
		return g, fmt.Errorf("failed to scan grade: %w", err)
	}
	g.State = domain.GradeState(state)

	if err := json.Unmarshal(breakdown, &g.Breakdown); err != nil {
		return g, fmt.Errorf("failed to unmarshal breakdown: %w", err)
	}
	if err := json.Unmarshal(categories, &g.Categories); err != nil {
		return g, fmt.Errorf("failed to unmarshal categories: %w", err)
	}
	return g, nil
}
