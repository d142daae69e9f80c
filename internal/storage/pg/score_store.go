package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/jackc/pgx/v5"
)

func (s *Store) SaveScores(ctx context.Context, scores []domain.RawScore) error {
	if len(scores) == 0 {
		return nil
	}

	courses := make(map[string]struct{})
	for _, sc := range scores {
		courses[sc.CourseID] = struct{}{}
	}
	for id := range courses {
		if err := s.ensureCourse(ctx, id); err != nil {
			return err
		}
	}

	now := time.Now()
	batch := &pgx.Batch{}
	for _, sc := range scores {
		updatedAt := sc.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = now
		}
		batch.Queue(`
            INSERT INTO raw_scores (course_id, student_id, item_id, earned, possible, updated_at)
            VALUES ($1, $2, $3, $4, $5, $6)
            ON CONFLICT (course_id, student_id, item_id) DO UPDATE
                SET earned     = EXCLUDED.earned,
                    possible   = EXCLUDED.possible,
                    updated_at = EXCLUDED.updated_at`,
			sc.CourseID, sc.StudentID, sc.ItemID, sc.Earned, sc.Possible, updatedAt)
	}

	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for i := range scores {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to save score %d (%s/%s): %w", i, scores[i].StudentID, scores[i].ItemID, err)
		}
	}
	return nil
}

func (s *Store) ListScores(ctx context.Context, courseID string) ([]domain.RawScore, error) {
	if err := s.ensureCourse(ctx, courseID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `
        SELECT course_id, student_id, item_id, earned, possible, updated_at
        FROM raw_scores
        WHERE course_id = $1`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}

	scores, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.RawScore, error) {
		var sc domain.RawScore
		err := row.Scan(&sc.CourseID, &sc.StudentID, &sc.ItemID, &sc.Earned, &sc.Possible, &sc.UpdatedAt)
		return sc, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan scores: %w", err)
	}
	return scores, nil
}
