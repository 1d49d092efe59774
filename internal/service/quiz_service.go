package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/repository"
	"github.com/vinealms/vinea-backend/internal/response"
)

// Domain Errors
var (
	ErrQuizNotDraft     = errors.New("quiz status is not DRAFT")
	ErrQuizNotPublished = errors.New("quiz status is not PUBLISHED")
	ErrQuizNoQuestions  = errors.New("quiz has no questions, cannot publish")
)

// QuizService handles quiz authoring, publishing, and the Redis-cached
// learner payload.
type QuizService struct {
	quizRepo *repository.QuizRepository
	rdb      *redis.Client
	log      zerolog.Logger
}

// NewQuizService creates a new QuizService.
func NewQuizService(quizRepo *repository.QuizRepository, rdb *redis.Client, log zerolog.Logger) *QuizService {
	return &QuizService{
		quizRepo: quizRepo,
		rdb:      rdb,
		log:      log.With().Str("component", "quiz_service").Logger(),
	}
}

// GetByID retrieves a quiz with its answer key. Admin only.
func (s *QuizService) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return s.quizRepo.GetByID(ctx, id)
}

// List retrieves quizzes with optional filters and pagination.
func (s *QuizService) List(ctx context.Context, page, perPage int, courseID *uuid.UUID, status *model.QuizStatus) ([]model.Quiz, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	quizzes, total, err := s.quizRepo.ListPaginated(ctx, page, perPage, courseID, status)
	if err != nil {
		return nil, nil, err
	}
	if quizzes == nil {
		quizzes = []model.Quiz{}
	}

	totalPages := (int(total) + perPage - 1) / perPage
	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	}
	return quizzes, pagination, nil
}

// Create inserts a new quiz as DRAFT.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		CourseID:      req.CourseID,
		ChapterNumber: req.ChapterNumber,
		Title:         req.Title,
		Status:        model.QuizStatusDraft,
		Questions:     questionsFromInput(req.Questions),
	}
	if err := s.quizRepo.Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	s.log.Info().Str("quiz_id", quiz.ID.String()).Msg("Quiz created")
	return quiz, nil
}

// Update replaces a quiz's metadata and question set. Published quizzes
// get their learner payload cache refreshed in the same call.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	existing, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	existing.CourseID = req.CourseID
	existing.ChapterNumber = req.ChapterNumber
	existing.Title = req.Title
	existing.Questions = questionsFromInput(req.Questions)

	if err := s.quizRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}

	if existing.Status == model.QuizStatusPublished {
		if err := s.WarmQuizCache(ctx, existing); err != nil {
			return nil, err
		}
		s.log.Info().Str("quiz_id", id.String()).Msg("Cache refreshed after update")
	}
	return existing, nil
}

// Publish changes quiz status to PUBLISHED and caches the learner payload
// in Redis so quiz-taking never touches PostgreSQL.
func (s *QuizService) Publish(ctx context.Context, id uuid.UUID) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}
	if quiz.Status != model.QuizStatusDraft {
		return ErrQuizNotDraft
	}

	if err := s.WarmQuizCache(ctx, quiz); err != nil {
		return err
	}
	if err := s.quizRepo.UpdateStatus(ctx, id, model.QuizStatusPublished); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("quiz_id", id.String()).Msg("Quiz published")
	return nil
}

// Unpublish reverts a quiz to DRAFT and drops its cached payload.
func (s *QuizService) Unpublish(ctx context.Context, id uuid.UUID) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get quiz: %w", err)
	}
	if quiz.Status != model.QuizStatusPublished {
		return ErrQuizNotPublished
	}

	if err := s.rdb.Del(ctx, config.CacheKey.QuizPayloadKey(id.String())).Err(); err != nil {
		return fmt.Errorf("drop cache: %w", err)
	}
	if err := s.quizRepo.UpdateStatus(ctx, id, model.QuizStatusDraft); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	s.log.Info().Str("quiz_id", id.String()).Msg("Quiz unpublished")
	return nil
}

// Delete removes a draft quiz.
func (s *QuizService) Delete(ctx context.Context, id uuid.UUID) error {
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if quiz.Status != model.QuizStatusDraft {
		return ErrQuizNotDraft
	}
	return s.quizRepo.Delete(ctx, id)
}

// WarmQuizCache builds the learner payload (no answer keys) and stores it
// in Redis. Used by Publish, Update, and PrewarmAllCaches.
func (s *QuizService) WarmQuizCache(ctx context.Context, quiz *model.Quiz) error {
	if len(quiz.Questions) == 0 {
		return ErrQuizNoQuestions
	}

	payload, err := json.Marshal(buildPaper(quiz))
	if err != nil {
		return fmt.Errorf("marshal paper: %w", err)
	}
	if err := s.rdb.Set(ctx, config.CacheKey.QuizPayloadKey(quiz.ID.String()), payload, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().
		Str("quiz_id", quiz.ID.String()).
		Int("questions", len(quiz.Questions)).
		Msg("Cache warmed")
	return nil
}

// PrewarmAllCaches loads every published quiz into Redis on application
// startup so the first learner never waits on a cold cache.
func (s *QuizService) PrewarmAllCaches(ctx context.Context) error {
	quizzes, err := s.quizRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published quizzes: %w", err)
	}
	if len(quizzes) == 0 {
		s.log.Info().Msg("No published quizzes to prewarm")
		return nil
	}

	warmed := 0
	for i := range quizzes {
		if err := s.WarmQuizCache(ctx, &quizzes[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("quiz_id", quizzes[i].ID.String()).
				Msg("Failed to warm quiz, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(quizzes)).
		Msg("Prewarming complete")
	return nil
}

// GetPaper retrieves the learner payload, preferring the Redis cache and
// falling back to PostgreSQL for cache misses.
func (s *QuizService) GetPaper(ctx context.Context, id uuid.UUID) (*model.QuizPaper, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.QuizPayloadKey(id.String())).Bytes()
	if err == nil {
		var paper model.QuizPaper
		if err := json.Unmarshal(data, &paper); err != nil {
			return nil, fmt.Errorf("unmarshal paper: %w", err)
		}
		return &paper, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get paper: %w", err)
	}

	// Cache miss: rebuild from the database and serve the fresh copy
	// directly rather than re-reading what was just cached.
	quiz, err := s.quizRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizStatusPublished {
		return nil, ErrQuizNotPublished
	}
	if err := s.WarmQuizCache(ctx, quiz); err != nil {
		return nil, err
	}
	return buildPaper(quiz), nil
}

// buildPaper projects a quiz into its learner-facing payload, stripping
// answer keys and explanations.
func buildPaper(quiz *model.Quiz) *model.QuizPaper {
	learnerQuestions := make([]model.QuestionForLearner, len(quiz.Questions))
	for i, q := range quiz.Questions {
		learnerQuestions[i] = model.QuestionForLearner{
			ID:      q.ID,
			Type:    q.Type,
			Text:    q.Text,
			Points:  q.Points,
			Options: q.Options,
		}
	}
	return &model.QuizPaper{
		QuizID:        quiz.ID,
		CourseID:      quiz.CourseID,
		CourseName:    quiz.CourseName,
		ChapterNumber: quiz.ChapterNumber,
		Title:         quiz.Title,
		Questions:     learnerQuestions,
	}
}

// GetByCourseAndChapter resolves a published quiz by course and chapter.
func (s *QuizService) GetByCourseAndChapter(ctx context.Context, courseID uuid.UUID, chapter int) (*model.Quiz, error) {
	return s.quizRepo.GetByCourseAndChapter(ctx, courseID, chapter)
}

func questionsFromInput(inputs []model.QuestionInput) []model.Question {
	questions := make([]model.Question, len(inputs))
	for i, in := range inputs {
		questions[i] = model.Question{
			ID:                    in.ID,
			Type:                  model.QuestionType(in.Type),
			Text:                  in.Text,
			Points:                in.Points,
			RequiresManualGrading: in.RequiresManualGrading,
			Options:               in.Options,
			CorrectText:           in.CorrectText,
			CorrectIndex:          in.CorrectIndex,
			CorrectBool:           in.CorrectBool,
			CorrectPair:           in.CorrectPair,
			ModelAnswer:           in.ModelAnswer,
			ModelAnswers:          in.ModelAnswers,
			Explanation:           in.Explanation,
		}
	}
	return questions
}
