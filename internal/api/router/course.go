package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/apperr"
	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/DjordjeVuckovic/gradebook/internal/gradebook"
	"github.com/DjordjeVuckovic/gradebook/internal/grading"
	"github.com/DjordjeVuckovic/gradebook/internal/recompute"
	"github.com/DjordjeVuckovic/gradebook/internal/storage"
	"github.com/DjordjeVuckovic/gradebook/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type CourseRouter struct {
	store   storage.Store
	book    *gradebook.Service
	trigger recompute.Trigger
	now     func() time.Time
}

func NewCourseRouter(e *echo.Echo, store storage.Store, book *gradebook.Service, renderer *gradebook.Renderer, trigger recompute.Trigger) *CourseRouter {
	e.Renderer = gradebook.EchoRenderer{Renderer: renderer}
	if e.Validator == nil {
		e.Validator = NewRequestValidator()
	}
	return &CourseRouter{
		store:   store,
		book:    book,
		trigger: trigger,
		now:     time.Now,
	}
}

// Bind registers the course routes on g, which is expected to carry the
// staff authentication middleware.
func (r *CourseRouter) Bind(g *echo.Group) {
	g.GET("/:course_id/gradebook", r.gradebookHandler)
	g.GET("/:course_id/grades", r.listGradesHandler)
	g.GET("/:course_id/grades/:student_id", r.getGradeHandler)
	g.POST("/:course_id/grades/recompute", r.recomputeHandler)
	g.PUT("/:course_id/scores", r.saveScoresHandler)
}

type GradesResponse = pagination.OffsetResult[domain.CourseGrade]

type ScoreInput struct {
	StudentID string  `json:"student_id" validate:"required"`
	ItemID    string  `json:"item_id" validate:"required"`
	Earned    float64 `json:"earned" validate:"gte=0"`
	Possible  float64 `json:"possible" validate:"gt=0"`
}

type ScoresRequest struct {
	Scores []ScoreInput `json:"scores" validate:"required,min=1,dive"`
}

type RecomputeResponse struct {
	CourseID string `json:"course_id"`
	JobID    string `json:"job_id"`
	Status   string `json:"status"`
}

// gradebookHandler godoc
// @Summary Staff gradebook
// @Tags gradebook
// @Produce html
// @Param course_id path string true "Course ID"
// @Param offset query int false "First student (by username)"
// @Success 200
// @Failure 404
// @Security StaffKey
// @Router /courses/{course_id}/gradebook [get]
func (r *CourseRouter) gradebookHandler(c echo.Context) error {
	offset := 0
	if v := c.QueryParam("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.NewValidationWrap("offset must be an integer", err)
		}
		offset = n
	}

	page, err := r.book.Page(c.Request().Context(), c.Param("course_id"), offset)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, gradebook.TemplateName, page)
}

// listGradesHandler godoc
// @Summary List course grades
// @Tags grades
// @Produce json
// @Param course_id path string true "Course ID"
// @Param page query int false "Page"
// @Param size query int false "Page size"
// @Success 200 {object} GradesResponse
// @Failure 404
// @Security StaffKey
// @Router /courses/{course_id}/grades [get]
func (r *CourseRouter) listGradesHandler(c echo.Context) error {
	var req pagination.OffsetRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	req.Normalize()

	ctx := c.Request().Context()
	courseID := c.Param("course_id")
	agg, err := r.aggregator(ctx, courseID)
	if err != nil {
		return err
	}

	total, err := r.store.CountEnrollments(ctx, courseID)
	if err != nil {
		return fmt.Errorf("failed to count enrollments: %w", err)
	}
	students, err := r.store.ListEnrollments(ctx, courseID, req.Offset(), req.Size)
	if err != nil {
		return fmt.Errorf("failed to list enrollments: %w", err)
	}
	ids := make([]string, len(students))
	for i, s := range students {
		ids[i] = s.ID
	}
	stored, err := r.store.ListGrades(ctx, courseID, ids)
	if err != nil {
		return fmt.Errorf("failed to list grades: %w", err)
	}

	items := make([]domain.CourseGrade, 0, len(ids))
	for _, id := range ids {
		g, ok := stored[id]
		if !ok {
			g = agg.Empty(id)
		}
		items = append(items, g)
	}
	return c.JSON(http.StatusOK, pagination.NewOffsetResult(items, int64(total), req))
}

// getGradeHandler godoc
// @Summary Get a student's course grade
// @Tags grades
// @Produce json
// @Param course_id path string true "Course ID"
// @Param student_id path string true "Student ID"
// @Success 200 {object} domain.CourseGrade
// @Failure 404
// @Security StaffKey
// @Router /courses/{course_id}/grades/{student_id} [get]
func (r *CourseRouter) getGradeHandler(c echo.Context) error {
	ctx := c.Request().Context()
	courseID, studentID := c.Param("course_id"), c.Param("student_id")

	grade, err := r.store.GetGrade(ctx, courseID, studentID)
	if err == nil {
		return c.JSON(http.StatusOK, grade)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to load grade: %w", err)
	}
	if _, err := r.course(ctx, courseID); err != nil {
		return err
	}
	return apperr.NewNotFound("grade", studentID, err)
}

// recomputeHandler godoc
// @Summary Schedule a course grade recomputation
// @Tags grades
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 202 {object} RecomputeResponse
// @Failure 404
// @Security StaffKey
// @Router /courses/{course_id}/grades/recompute [post]
func (r *CourseRouter) recomputeHandler(c echo.Context) error {
	ctx := c.Request().Context()
	courseID := c.Param("course_id")
	if _, err := r.course(ctx, courseID); err != nil {
		return err
	}
	return r.enqueue(c, courseID)
}

// saveScoresHandler godoc
// @Summary Write raw problem scores
// @Tags scores
// @Accept json
// @Produce json
// @Param course_id path string true "Course ID"
// @Param request body ScoresRequest true "Scores"
// @Success 202 {object} RecomputeResponse
// @Failure 400
// @Failure 404
// @Security StaffKey
// @Router /courses/{course_id}/scores [put]
func (r *CourseRouter) saveScoresHandler(c echo.Context) error {
	var req ScoresRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	courseID := c.Param("course_id")
	course, err := r.course(ctx, courseID)
	if err != nil {
		return err
	}

	items := course.ItemIndex()
	now := r.now().UTC()
	scores := make([]domain.RawScore, 0, len(req.Scores))
	for i, in := range req.Scores {
		if _, ok := items[in.ItemID]; !ok {
			return apperr.NewValidation(fmt.Sprintf("scores[%d]: unknown item %q", i, in.ItemID))
		}
		score := domain.RawScore{
			CourseID:  courseID,
			StudentID: in.StudentID,
			ItemID:    in.ItemID,
			Earned:    in.Earned,
			Possible:  in.Possible,
			UpdatedAt: now,
		}
		if err := score.Validate(); err != nil {
			return apperr.NewValidationWrap(fmt.Sprintf("scores[%d]", i), err)
		}
		scores = append(scores, score)
	}

	if err := r.store.SaveScores(ctx, scores); err != nil {
		return fmt.Errorf("failed to save scores: %w", err)
	}
	return r.enqueue(c, courseID)
}

func (r *CourseRouter) enqueue(c echo.Context, courseID string) error {
	jobID, err := r.trigger.Enqueue(c.Request().Context(), courseID)
	if err != nil {
		return fmt.Errorf("failed to schedule recompute: %w", err)
	}
	return c.JSON(http.StatusAccepted, RecomputeResponse{CourseID: courseID, JobID: jobID, Status: "queued"})
}

func (r *CourseRouter) course(ctx context.Context, courseID string) (*domain.Course, error) {
	course, err := r.store.GetCourse(ctx, courseID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperr.NewNotFound("course", courseID, err)
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return course, nil
}

func (r *CourseRouter) aggregator(ctx context.Context, courseID string) (*grading.Aggregator, error) {
	course, err := r.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	agg, err := grading.NewAggregator(course)
	if err != nil {
		return nil, fmt.Errorf("course %s cannot be graded: %w", courseID, err)
	}
	return agg, nil
}
