package model

import (
	"time"

	"github.com/google/uuid"
)

// QuizStatus enumerates quiz catalog states. Only PUBLISHED quizzes are
// visible to learners.
type QuizStatus string

const (
	QuizStatusDraft     QuizStatus = "DRAFT"
	QuizStatusPublished QuizStatus = "PUBLISHED"
)

// Quiz is one chapter quiz: an ordered sequence of questions plus catalog
// metadata. Immutable during grading.
type Quiz struct {
	ID            uuid.UUID  `json:"id"`
	CourseID      *uuid.UUID `json:"course_id,omitempty"`
	CourseName    string     `json:"course_name,omitempty"`
	ChapterNumber int        `json:"chapter_number"`
	Title         string     `json:"title"`
	Status        QuizStatus `json:"status"`
	Questions     []Question `json:"questions,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// QuestionForLearner is the learner-facing view of a question: everything
// except the answer key and explanation.
type QuestionForLearner struct {
	ID      int          `json:"id"`
	Type    QuestionType `json:"type"`
	Text    string       `json:"text"`
	Points  int          `json:"points"`
	Options []string     `json:"options,omitempty"`
}

// QuizPaper is the payload served to a learner taking a quiz. It is what
// gets cached in Redis when a quiz is published.
type QuizPaper struct {
	QuizID        uuid.UUID            `json:"quiz_id"`
	CourseID      *uuid.UUID           `json:"course_id,omitempty"`
	CourseName    string               `json:"course_name,omitempty"`
	ChapterNumber int                  `json:"chapter_number"`
	Title         string               `json:"title"`
	Questions     []QuestionForLearner `json:"questions"`
}

// CreateQuizRequest is the payload for creating a quiz.
type CreateQuizRequest struct {
	CourseID      *uuid.UUID      `json:"course_id,omitempty"`
	ChapterNumber int             `json:"chapter_number" binding:"required,min=1"`
	Title         string          `json:"title" binding:"required,min=1,max=300"`
	Questions     []QuestionInput `json:"questions" binding:"omitempty,dive"`
}

// UpdateQuizRequest replaces a quiz's metadata and question set.
type UpdateQuizRequest struct {
	CourseID      *uuid.UUID      `json:"course_id,omitempty"`
	ChapterNumber int             `json:"chapter_number" binding:"required,min=1"`
	Title         string          `json:"title" binding:"required,min=1,max=300"`
	Questions     []QuestionInput `json:"questions" binding:"omitempty,dive"`
}

// SubmitQuizRequest is the payload for a learner submitting answers.
// Keys are question IDs in decimal form (JSON object keys are strings).
type SubmitQuizRequest struct {
	Answers map[string]Answer `json:"answers" binding:"required"`
}

// SaveDraftRequest is the payload for autosaving in-progress answers.
type SaveDraftRequest struct {
	Answers map[string]Answer `json:"answers" binding:"required"`
}
