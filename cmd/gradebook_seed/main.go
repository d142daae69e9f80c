package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/notify"
	"github.com/DjordjeVuckovic/gradebook/internal/notify/es"
	"github.com/DjordjeVuckovic/gradebook/internal/reader"
	"github.com/DjordjeVuckovic/gradebook/internal/recompute"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/DjordjeVuckovic/gradebook/internal/storage/factory"
	"github.com/DjordjeVuckovic/gradebook/pkg/config/env"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Invalid arguments", "error", err)
		os.Exit(2)
	}

	if err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/gradebook_seed/.env"); err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		slog.Error("Seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg cliConfig) error {
	manifest, err := loadManifest(cfg.ManifestPath)
	if err != nil {
		return err
	}
	course := &manifest.Course

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return err
	}
	store, _, err := factory.NewStore(ctx, storageCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveCourse(ctx, course); err != nil {
		return fmt.Errorf("failed to save course: %w", err)
	}
	if err := store.Enroll(ctx, course.ID, manifest.Students...); err != nil {
		return fmt.Errorf("failed to enroll students: %w", err)
	}
	slog.Info("Course loaded", "course_id", course.ID, "students", len(manifest.Students))

	var scores []domain.RawScore
	switch {
	case cfg.ScoresPath != "":
		scores, err = loadScores(cfg.ScoresPath, course.ID)
		if err != nil {
			return err
		}
	case cfg.Synthetic:
		scores = staircaseScores(course, manifest.Students)
	}
	if len(scores) > 0 {
		if err := store.SaveScores(ctx, scores); err != nil {
			return fmt.Errorf("failed to save scores: %w", err)
		}
		slog.Info("Scores loaded", "count", len(scores))
	}

	notifyCfg := notify.LoadEnv()
	if cfg.Recompute {
		notifier, err := notify.New(ctx, notifyCfg)
		if err != nil {
			return err
		}
		summary, err := recompute.NewRecomputer(store, notifier).RecomputeCourse(ctx, course.ID)
		if err != nil {
			return err
		}
		slog.Info("Grades computed", "updated", summary.Updated, "unchanged", summary.Unchanged, "failed", summary.Failed)
	}

	// without -recompute the grades already stored for the course are indexed
	if cfg.Reindex {
		return reindex(ctx, store, notifyCfg, course.ID, manifest.Students)
	}
	return nil
}

func loadManifest(path string) (*reader.CourseManifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return reader.NewYAMLManifestLoader(f).Load(true)
}

func loadScores(path, courseID string) ([]domain.RawScore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scores: %w", err)
	}
	defer f.Close()
	return reader.NewCSVScoreReader(f, courseID).Read()
}

// staircaseScores gives the i-th student full marks on every graded item
// whose course-wide index is below i, and zero elsewhere.
func staircaseScores(course *domain.Course, students []domain.Student) []domain.RawScore {
	var out []domain.RawScore
	idx := 0
	for _, asg := range course.Assignments {
		for _, it := range asg.Items {
			for j, st := range students {
				earned := 0.0
				if idx < j {
					earned = it.MaxPoints
				}
				out = append(out, domain.RawScore{
					CourseID:  course.ID,
					StudentID: st.ID,
					ItemID:    it.ID,
					Earned:    earned,
					Possible:  it.MaxPoints,
				})
			}
			idx++
		}
	}
	return out
}

func reindex(ctx context.Context, store storage.Store, cfg *notify.Config, courseID string, students []domain.Student) error {
	if cfg.ES == nil {
		return fmt.Errorf("-reindex requires ES_ADDRESSES")
	}
	indexer, err := es.NewGradeIndexer(ctx, *cfg.ES)
	if err != nil {
		return err
	}

	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	grades, err := store.ListGrades(ctx, courseID, ids)
	if err != nil {
		return fmt.Errorf("failed to list grades: %w", err)
	}
	batch := make([]domain.CourseGrade, 0, len(grades))
	for _, id := range ids {
		if g, ok := grades[id]; ok {
			batch = append(batch, g)
		}
	}
	return indexer.Reindex(ctx, batch)
}
