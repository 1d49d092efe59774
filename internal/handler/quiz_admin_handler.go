package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/response"
	"github.com/vinealms/vinea-backend/internal/service"
	"github.com/vinealms/vinea-backend/internal/validator"
)

// QuizAdminHandler handles admin quiz authoring endpoints.
type QuizAdminHandler struct {
	quizService *service.QuizService
}

// NewQuizAdminHandler creates a new QuizAdminHandler.
func NewQuizAdminHandler(quizService *service.QuizService) *QuizAdminHandler {
	return &QuizAdminHandler{quizService: quizService}
}

// List godoc
// GET /api/v1/admin/quizzes?page=&per_page=&course_id=&status=
func (h *QuizAdminHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		courseID = &id
	}

	var status *model.QuizStatus
	if raw := c.Query("status"); raw != "" {
		st := model.QuizStatus(raw)
		if st != model.QuizStatusDraft && st != model.QuizStatusPublished {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		status = &st
	}

	quizzes, pagination, err := h.quizService.List(c.Request.Context(), page, perPage, courseID, status)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"quizzes": quizzes}, pagination)
}

// Get godoc
// GET /api/v1/admin/quizzes/:quiz_id
// Returns the quiz with its full answer key.
func (h *QuizAdminHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	quiz, err := h.quizService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Create godoc
// POST /api/v1/admin/quizzes
func (h *QuizAdminHandler) Create(c *gin.Context) {
	var req model.CreateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"quiz": quiz})
}

// Update godoc
// PUT /api/v1/admin/quizzes/:quiz_id
// Replaces the quiz's metadata and question set.
func (h *QuizAdminHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuizRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	quiz, err := h.quizService.Update(c.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNoQuestions):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"quiz": quiz})
}

// Publish godoc
// POST /api/v1/admin/quizzes/:quiz_id/publish
// Makes the quiz visible to learners and warms its Redis payload cache.
func (h *QuizAdminHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Publish(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNotDraft):
			response.Fail(c, http.StatusConflict, response.ErrQuizNotDraft)
		case errors.Is(err, service.ErrQuizNoQuestions):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrNoQuestions)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": model.QuizStatusPublished})
}

// Unpublish godoc
// POST /api/v1/admin/quizzes/:quiz_id/unpublish
func (h *QuizAdminHandler) Unpublish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Unpublish(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNotPublished):
			response.Fail(c, http.StatusConflict, response.ErrQuizNotPublished)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": model.QuizStatusDraft})
}

// Delete godoc
// DELETE /api/v1/admin/quizzes/:quiz_id
// Only draft quizzes can be deleted.
func (h *QuizAdminHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("quiz_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.quizService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrQuizNotDraft):
			response.Fail(c, http.StatusConflict, response.ErrQuizNotDraft)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
