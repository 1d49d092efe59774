package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vinealms/vinea-backend/internal/grading"
	"github.com/vinealms/vinea-backend/internal/middleware"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/response"
	"github.com/vinealms/vinea-backend/internal/service"
	"github.com/vinealms/vinea-backend/internal/validator"
)

// QuizPortalHandler handles the learner-facing quiz endpoints.
type QuizPortalHandler struct {
	courseService     *service.CourseService
	quizService       *service.QuizService
	draftService      *service.DraftService
	submissionService *service.SubmissionService
}

// NewQuizPortalHandler creates a new QuizPortalHandler.
func NewQuizPortalHandler(
	courseService *service.CourseService,
	quizService *service.QuizService,
	draftService *service.DraftService,
	submissionService *service.SubmissionService,
) *QuizPortalHandler {
	return &QuizPortalHandler{
		courseService:     courseService,
		quizService:       quizService,
		draftService:      draftService,
		submissionService: submissionService,
	}
}

// ListCourses godoc
// GET /api/v1/learner/courses
// Returns the active course catalog.
func (h *QuizPortalHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListActive(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// ListQuizzes godoc
// GET /api/v1/learner/quizzes?course_id=&page=&per_page=
// Returns published quizzes, without questions.
func (h *QuizPortalHandler) ListQuizzes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))

	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	published := model.QuizStatusPublished
	quizzes, pagination, err := h.quizService.List(c.Request.Context(), page, perPage, courseID, &published)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, pagination)
}

// GetPaper godoc
// GET /api/v1/learner/quizzes/:quiz_id/paper
// Returns the quiz questions without answer keys. Served from Redis.
func (h *QuizPortalHandler) GetPaper(c *gin.Context) {
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	paper, err := h.quizService.GetPaper(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNotPublished):
			response.Fail(c, http.StatusForbidden, response.ErrQuizNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// GetChapterPaper godoc
// GET /api/v1/learner/courses/:course_id/chapters/:chapter/paper
// Resolves a published quiz by course and chapter number.
func (h *QuizPortalHandler) GetChapterPaper(c *gin.Context) {
	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil || chapter < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetByCourseAndChapter(c.Request.Context(), courseID, chapter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	paper, err := h.quizService.GetPaper(c.Request.Context(), quiz.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// SaveDraft godoc
// PUT /api/v1/learner/quizzes/:quiz_id/draft
// Autosaves in-progress answers.
func (h *QuizPortalHandler) SaveDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SaveDraftRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.draftService.Save(c.Request.Context(), id, claims.UserID, &req); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "saved"})
}

// GetDraft godoc
// GET /api/v1/learner/quizzes/:quiz_id/draft
// Returns autosaved answers, empty if none exist.
func (h *QuizPortalHandler) GetDraft(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	answers, err := h.draftService.Get(c.Request.Context(), id, claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}

// Submit godoc
// POST /api/v1/learner/quizzes/:quiz_id/submit
// Grades the answers synchronously and returns the full submission.
func (h *QuizPortalHandler) Submit(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission, err := h.submissionService.Submit(c.Request.Context(), id, claims.UserID, &req)
	if err != nil {
		var shapeErr *grading.ShapeError
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNotPublished):
			response.Fail(c, http.StatusForbidden, response.ErrQuizNotPublished)
		case errors.Is(err, service.ErrBadAnswerKey):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		case errors.As(err, &shapeErr):
			response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrMalformedAnswer,
				map[string]string{"question_id": strconv.Itoa(shapeErr.QuestionID), "detail": shapeErr.Reason})
		case errors.Is(err, grading.ErrNoQuestions), errors.Is(err, grading.ErrNoScorableQuestions):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidQuizConfig)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"submission": submission})
}

// ListMySubmissions godoc
// GET /api/v1/learner/submissions
func (h *QuizPortalHandler) ListMySubmissions(c *gin.Context) {
	claims := middleware.GetClaims(c)

	summaries, err := h.submissionService.ListByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": summaries})
}

// GetMySubmission godoc
// GET /api/v1/learner/submissions/:submission_id
// Returns the full graded detail of the caller's own submission.
func (h *QuizPortalHandler) GetMySubmission(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	submission, err := h.submissionService.GetOwn(c.Request.Context(), id, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}
