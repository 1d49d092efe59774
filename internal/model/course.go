package model

import (
	"time"

	"github.com/google/uuid"
)

// Course is a training course (e.g. a wine-hospitality curriculum) that
// groups quizzes by chapter.
type Course struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateCourseRequest is the payload for updating a course.
type UpdateCourseRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Description string `json:"description" binding:"max=2000"`
	IsActive    *bool  `json:"is_active"`
}
