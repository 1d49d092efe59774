package model

import (
	"time"

	"github.com/google/uuid"
)

// SubmissionStatus enumerates the review states of a submission.
type SubmissionStatus string

const (
	// SubmissionStatusPendingReview means at least one answer still needs
	// a human grade.
	SubmissionStatusPendingReview SubmissionStatus = "pending_review"
	// SubmissionStatusGraded means review is complete. Re-edits keep the
	// submission in this state and refresh the grader stamp.
	SubmissionStatusGraded SubmissionStatus = "graded"
)

// QuestionResult is the graded outcome for a single question within a
// submission. Produced by the grading engine, mutable by admin review.
type QuestionResult struct {
	ID                 int    `json:"id"`
	Question           string `json:"question"`
	UserAnswer         Answer `json:"user_answer"`
	CorrectAnswer      string `json:"correct_answer"`
	IsCorrect          bool   `json:"is_correct"`
	Points             int    `json:"points"`
	MaxPoints          int    `json:"max_points"`
	Explanation        string `json:"explanation,omitempty"`
	NeedsManualGrading bool   `json:"needs_manual_grading"`
	AdminComment       string `json:"admin_comment,omitempty"`
}

// Submission is one learner's complete attempt at a quiz: the aggregate
// root of the grading domain. Score fields are derived from
// QuestionResults and recomputed on every admin edit.
type Submission struct {
	ID              uuid.UUID        `json:"id"`
	UserID          int              `json:"user_id"`
	UserName        string           `json:"user_name"`
	UserEmail       string           `json:"user_email"`
	CourseID        *uuid.UUID       `json:"course_id,omitempty"`
	CourseName      string           `json:"course_name,omitempty"`
	QuizID          uuid.UUID        `json:"quiz_id"`
	ChapterNumber   int              `json:"chapter_number"`
	ChapterTitle    string           `json:"chapter_title"`
	Score           int              `json:"score"`
	MaxScore        int              `json:"max_score"`
	Percentage      int              `json:"percentage"`
	QuestionResults []QuestionResult `json:"question_results"`
	Status          SubmissionStatus `json:"status"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	GradedAt        *time.Time       `json:"graded_at,omitempty"`
	GradedBy        *int             `json:"graded_by,omitempty"`
}

// SubmissionSummary is the list-view projection used by the admin
// dashboard (no per-question detail).
type SubmissionSummary struct {
	ID            uuid.UUID        `json:"id"`
	UserName      string           `json:"user_name"`
	UserEmail     string           `json:"user_email"`
	CourseName    string           `json:"course_name,omitempty"`
	ChapterNumber int              `json:"chapter_number"`
	ChapterTitle  string           `json:"chapter_title"`
	Score         int              `json:"score"`
	MaxScore      int              `json:"max_score"`
	Percentage    int              `json:"percentage"`
	Status        SubmissionStatus `json:"status"`
	SubmittedAt   time.Time        `json:"submitted_at"`
}

// GradeQuestionRequest assigns points and an optional comment to one
// question of a submission.
type GradeQuestionRequest struct {
	QuestionIndex int    `json:"question_index" binding:"min=0"`
	Points        int    `json:"points"`
	Comment       string `json:"comment" binding:"max=4000"`
}

// GradeEntry is one row of a full grading form.
type GradeEntry struct {
	Points  int    `json:"points"`
	Comment string `json:"comment" binding:"max=4000"`
}

// GradeSubmissionRequest replaces every question's points and comment in
// one update, exactly as the admin grading form posts them.
type GradeSubmissionRequest struct {
	Grades []GradeEntry `json:"grades" binding:"required,min=1,dive"`
}
