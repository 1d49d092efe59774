package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/repository"
)

// ErrCourseInUse is returned when deleting a course that still has quizzes.
var ErrCourseInUse = errors.New("course still has quizzes attached")

// CourseService handles the course catalog.
type CourseService struct {
	courseRepo *repository.CourseRepository
	quizRepo   *repository.QuizRepository
	log        zerolog.Logger
}

// NewCourseService creates a new CourseService.
func NewCourseService(courseRepo *repository.CourseRepository, quizRepo *repository.QuizRepository, log zerolog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		quizRepo:   quizRepo,
		log:        log.With().Str("component", "course_service").Logger(),
	}
}

// List retrieves all courses for the admin catalog.
func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

// ListActive retrieves active courses for the learner catalog.
func (s *CourseService) ListActive(ctx context.Context) ([]model.Course, error) {
	courses, err := s.courseRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return courses, nil
}

// GetByID retrieves a single course.
func (s *CourseService) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	return s.courseRepo.GetByID(ctx, id)
}

// Create inserts a new course. Omitting is_active means active.
func (s *CourseService) Create(ctx context.Context, req *model.CreateCourseRequest) (*model.Course, error) {
	course := &model.Course{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}
	s.log.Info().Str("course_id", course.ID.String()).Msg("Course created")
	return course, nil
}

// Update replaces a course's mutable fields.
func (s *CourseService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateCourseRequest) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	course.Name = req.Name
	course.Description = req.Description
	// Omitted is_active keeps the stored flag.
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}
	return course, nil
}

// Delete removes a course. Courses with quizzes attached cannot be deleted.
func (s *CourseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.courseRepo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.quizRepo.CountByCourse(ctx, id)
	if err != nil {
		return fmt.Errorf("count quizzes: %w", err)
	}
	if count > 0 {
		return ErrCourseInUse
	}
	return s.courseRepo.Delete(ctx, id)
}
