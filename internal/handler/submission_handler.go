package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vinealms/vinea-backend/internal/grading"
	"github.com/vinealms/vinea-backend/internal/middleware"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/repository"
	"github.com/vinealms/vinea-backend/internal/response"
	"github.com/vinealms/vinea-backend/internal/service"
	"github.com/vinealms/vinea-backend/internal/validator"
)

// SubmissionHandler handles the admin review endpoints.
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	exportService     *service.ExportService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService *service.SubmissionService, exportService *service.ExportService) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		exportService:     exportService,
	}
}

// List godoc
// GET /api/v1/admin/submissions?page=&per_page=&status=&chapter=&course_id=&search=
func (h *SubmissionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	var filter repository.SubmissionFilter

	if raw := c.Query("status"); raw != "" {
		st := model.SubmissionStatus(raw)
		if st != model.SubmissionStatusPendingReview && st != model.SubmissionStatusGraded {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		filter.Status = &st
	}
	if raw := c.Query("chapter"); raw != "" {
		chapter, err := strconv.Atoi(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
			return
		}
		filter.ChapterNumber = &chapter
	}
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		filter.CourseID = &id
	}
	filter.Search = c.Query("search")

	summaries, pagination, err := h.submissionService.List(c.Request.Context(), page, perPage, filter)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, gin.H{"submissions": summaries}, pagination)
}

// Get godoc
// GET /api/v1/admin/submissions/:submission_id
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	submission, err := h.submissionService.GetByID(c.Request.Context(), id)
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

// GradeQuestion godoc
// POST /api/v1/admin/submissions/:submission_id/grade-question
// Assigns points and a comment to a single question.
func (h *SubmissionHandler) GradeQuestion(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GradeQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission, err := h.submissionService.GradeQuestion(c.Request.Context(), id, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, grading.ErrIndexOutOfRange):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrQuestionIndex)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}

// Grade godoc
// POST /api/v1/admin/submissions/:submission_id/grade
// Applies a full grading form covering every question.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.GradeSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	submission, err := h.submissionService.GradeAll(c.Request.Context(), id, claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, grading.ErrGradeCountMismatch):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrGradeMismatch)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submission": submission})
}

// ToggleStatus godoc
// POST /api/v1/admin/submissions/:submission_id/toggle-status
// Flips pending_review <-> graded without touching scores.
func (h *SubmissionHandler) ToggleStatus(c *gin.Context) {
	claims := middleware.GetClaims(c)
	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	submission, err := h.submissionService.ToggleStatus(c.Request.Context(), id, claims.UserID)
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

// Delete godoc
// DELETE /api/v1/admin/submissions/:submission_id
func (h *SubmissionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Export godoc
// GET /api/v1/admin/submissions/:submission_id/export
// Streams the submission review as a PDF download.
func (h *SubmissionHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("submission_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	submission, err := h.submissionService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	pdf, err := h.exportService.SubmissionPDF(submission)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrExportFailed)
		return
	}

	filename := fmt.Sprintf("submission-chapter%d-%s.pdf", submission.ChapterNumber, submission.ID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
