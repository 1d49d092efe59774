package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/grading"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/repository"
	"github.com/vinealms/vinea-backend/internal/response"
)

// ErrBadAnswerKey is returned when a submitted answer map key is not a
// question ID.
var ErrBadAnswerKey = errors.New("answer keys must be question ids")

// SubmissionEvent is the message published to the live feed channel
// whenever a learner submits a quiz.
type SubmissionEvent struct {
	SubmissionID  uuid.UUID              `json:"submission_id"`
	UserName      string                 `json:"user_name"`
	ChapterNumber int                    `json:"chapter_number"`
	ChapterTitle  string                 `json:"chapter_title"`
	Percentage    int                    `json:"percentage"`
	Status        model.SubmissionStatus `json:"status"`
	SubmittedAt   time.Time              `json:"submitted_at"`
}

// SubmissionService handles quiz submission, grading, and admin review.
type SubmissionService struct {
	submissionRepo *repository.SubmissionRepository
	quizRepo       *repository.QuizRepository
	userRepo       *repository.UserRepository
	draftRepo      *repository.DraftRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewSubmissionService creates a new SubmissionService.
func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	quizRepo *repository.QuizRepository,
	userRepo *repository.UserRepository,
	draftRepo *repository.DraftRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		quizRepo:       quizRepo,
		userRepo:       userRepo,
		draftRepo:      draftRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "submission_service").Logger(),
	}
}

// Submit grades a learner's answers against the quiz's answer key and
// stores the resulting submission. The grade is computed synchronously so
// the learner sees auto-graded results immediately.
func (s *SubmissionService) Submit(ctx context.Context, quizID uuid.UUID, userID int, req *model.SubmitQuizRequest) (*model.Submission, error) {
	quiz, err := s.quizRepo.GetByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizStatusPublished {
		return nil, ErrQuizNotPublished
	}

	answers, err := parseAnswerKeys(req.Answers)
	if err != nil {
		return nil, err
	}

	result, err := grading.Grade(quiz, answers)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	submission := &model.Submission{
		UserID:          user.ID,
		UserName:        user.Name,
		UserEmail:       user.Email,
		CourseID:        quiz.CourseID,
		CourseName:      quiz.CourseName,
		QuizID:          quiz.ID,
		ChapterNumber:   quiz.ChapterNumber,
		ChapterTitle:    quiz.Title,
		Score:           result.Score,
		MaxScore:        result.MaxScore,
		Percentage:      result.Percentage,
		QuestionResults: result.QuestionResults,
		Status:          result.Status,
		SubmittedAt:     time.Now(),
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	// The draft served its purpose; clean both copies up. Failures here
	// are logged, not surfaced, since the submission already exists.
	if err := s.draftRepo.Delete(ctx, quizID, userID); err != nil {
		s.log.Warn().Err(err).Str("quiz_id", quizID.String()).Msg("Draft cleanup failed")
	}
	s.rdb.Del(ctx, config.CacheKey.DraftAnswersKey(quizID.String(), userID))

	s.publishEvent(ctx, submission)

	s.log.Info().
		Str("submission_id", submission.ID.String()).
		Int("user_id", userID).
		Int("score", submission.Score).
		Str("status", string(submission.Status)).
		Msg("Quiz submitted")
	return submission, nil
}

// GetByID retrieves a full submission.
func (s *SubmissionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	return s.submissionRepo.GetByID(ctx, id)
}

// GetOwn retrieves a submission and verifies the caller owns it.
func (s *SubmissionService) GetOwn(ctx context.Context, id uuid.UUID, userID int) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Hide other learners' submissions behind a plain not-found.
	if submission.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return submission, nil
}

// ListByUser retrieves the caller's submission history.
func (s *SubmissionService) ListByUser(ctx context.Context, userID int) ([]model.SubmissionSummary, error) {
	summaries, err := s.submissionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []model.SubmissionSummary{}
	}
	return summaries, nil
}

// List retrieves submission summaries for the admin review queue.
func (s *SubmissionService) List(ctx context.Context, page, perPage int, filter repository.SubmissionFilter) ([]model.SubmissionSummary, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}

	summaries, total, err := s.submissionRepo.ListPaginated(ctx, page, perPage, filter)
	if err != nil {
		return nil, nil, err
	}
	if summaries == nil {
		summaries = []model.SubmissionSummary{}
	}

	totalPages := (int(total) + perPage - 1) / perPage
	pagination := &response.Pagination{
		Page:       page,
		PerPage:    perPage,
		TotalItems: int(total),
		TotalPages: totalPages,
	}
	return summaries, pagination, nil
}

// GradeQuestion assigns points and a comment to one question of a
// submission and persists the recomputed aggregates.
func (s *SubmissionService) GradeQuestion(ctx context.Context, id uuid.UUID, adminID int, req *model.GradeQuestionRequest) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := grading.ApplyGrade(submission, req.QuestionIndex, req.Points, req.Comment, adminID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.submissionRepo.UpdateReview(ctx, submission); err != nil {
		return nil, fmt.Errorf("persist review: %w", err)
	}

	s.log.Info().
		Str("submission_id", id.String()).
		Int("question_index", req.QuestionIndex).
		Int("admin_id", adminID).
		Msg("Question graded")
	return submission, nil
}

// GradeAll applies a full grading form covering every question.
func (s *SubmissionService) GradeAll(ctx context.Context, id uuid.UUID, adminID int, req *model.GradeSubmissionRequest) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := grading.ApplyBulkGrade(submission, req.Grades, adminID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.submissionRepo.UpdateReview(ctx, submission); err != nil {
		return nil, fmt.Errorf("persist review: %w", err)
	}

	s.log.Info().
		Str("submission_id", id.String()).
		Int("admin_id", adminID).
		Int("score", submission.Score).
		Msg("Submission graded")
	return submission, nil
}

// ToggleStatus flips a submission between pending_review and graded
// without touching its scores.
func (s *SubmissionService) ToggleStatus(ctx context.Context, id uuid.UUID, adminID int) (*model.Submission, error) {
	submission, err := s.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	grading.ToggleStatus(submission, adminID, time.Now())
	if err := s.submissionRepo.UpdateReview(ctx, submission); err != nil {
		return nil, fmt.Errorf("persist review: %w", err)
	}
	return submission, nil
}

// Delete removes a submission.
func (s *SubmissionService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.submissionRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.submissionRepo.Delete(ctx, id)
}

func (s *SubmissionService) publishEvent(ctx context.Context, submission *model.Submission) {
	event := SubmissionEvent{
		SubmissionID:  submission.ID,
		UserName:      submission.UserName,
		ChapterNumber: submission.ChapterNumber,
		ChapterTitle:  submission.ChapterTitle,
		Percentage:    submission.Percentage,
		Status:        submission.Status,
		SubmittedAt:   submission.SubmittedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("Marshal submission event")
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.SubmissionEventsChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Publish submission event")
	}
}

// parseAnswerKeys converts the JSON answer map (string keys) into the
// question-ID keyed map the grading engine expects.
func parseAnswerKeys(raw map[string]model.Answer) (map[int]model.Answer, error) {
	answers := make(map[int]model.Answer, len(raw))
	for key, answer := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadAnswerKey, key)
		}
		answers[id] = answer
	}
	return answers, nil
}
