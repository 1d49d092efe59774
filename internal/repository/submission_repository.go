package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vinealms/vinea-backend/internal/model"
)

// SubmissionFilter narrows the admin submission list. Nil/empty fields
// match everything.
type SubmissionFilter struct {
	Status        *model.SubmissionStatus
	ChapterNumber *int
	CourseID      *uuid.UUID
	Search        string // matches learner name or email, case-insensitive
}

// SubmissionRepository handles submission data access. Question results
// are stored as a JSONB document alongside the aggregate columns.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// Create inserts a new submission.
func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	results, err := json.Marshal(s.QuestionResults)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO submissions
		   (user_id, user_name, user_email, course_id, course_name, quiz_id,
		    chapter_number, chapter_title, score, max_score, percentage,
		    question_results, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		 RETURNING id`,
		s.UserID, s.UserName, s.UserEmail, s.CourseID, s.CourseName, s.QuizID,
		s.ChapterNumber, s.ChapterTitle, s.Score, s.MaxScore, s.Percentage,
		results, s.Status, s.SubmittedAt,
	).Scan(&s.ID)
}

// GetByID retrieves a full submission including question results.
func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Submission, error) {
	s := &model.Submission{}
	var results []byte
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, user_name, user_email, course_id, course_name, quiz_id,
		        chapter_number, chapter_title, score, max_score, percentage,
		        question_results, status, submitted_at, graded_at, graded_by
		 FROM submissions WHERE id = $1`, id,
	).Scan(&s.ID, &s.UserID, &s.UserName, &s.UserEmail, &s.CourseID, &s.CourseName, &s.QuizID,
		&s.ChapterNumber, &s.ChapterTitle, &s.Score, &s.MaxScore, &s.Percentage,
		&results, &s.Status, &s.SubmittedAt, &s.GradedAt, &s.GradedBy)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(results, &s.QuestionResults); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateReview persists the outcome of an admin grading action: the
// question results document plus every derived aggregate.
func (r *SubmissionRepository) UpdateReview(ctx context.Context, s *model.Submission) error {
	results, err := json.Marshal(s.QuestionResults)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`UPDATE submissions
		 SET question_results = $1, score = $2, max_score = $3, percentage = $4,
		     status = $5, graded_at = $6, graded_by = $7
		 WHERE id = $8`,
		results, s.Score, s.MaxScore, s.Percentage,
		s.Status, s.GradedAt, s.GradedBy, s.ID)
	return err
}

// Delete removes a submission.
func (r *SubmissionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM submissions WHERE id = $1`, id)
	return err
}

// ListByUser retrieves a learner's own submissions, newest first.
func (r *SubmissionRepository) ListByUser(ctx context.Context, userID int) ([]model.SubmissionSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_name, user_email, course_name, chapter_number, chapter_title,
		        score, max_score, percentage, status, submitted_at
		 FROM submissions
		 WHERE user_id = $1
		 ORDER BY submitted_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// ListPaginated retrieves submission summaries with optional filters and
// pagination, newest first.
func (r *SubmissionRepository) ListPaginated(ctx context.Context, page, perPage int, filter SubmissionFilter) ([]model.SubmissionSummary, int64, error) {
	offset := (page - 1) * perPage

	baseQuery := `
		FROM submissions
		WHERE 1=1
	`
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		baseQuery += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.ChapterNumber != nil {
		args = append(args, *filter.ChapterNumber)
		baseQuery += fmt.Sprintf(" AND chapter_number = $%d", len(args))
	}
	if filter.CourseID != nil {
		args = append(args, *filter.CourseID)
		baseQuery += fmt.Sprintf(" AND course_id = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		baseQuery += fmt.Sprintf(" AND (user_name ILIKE $%d OR user_email ILIKE $%d)", len(args), len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, user_name, user_email, course_name, chapter_number, chapter_title,
		       score, max_score, percentage, status, submitted_at
		` + baseQuery + `
		ORDER BY submitted_at DESC
		LIMIT $` + fmt.Sprintf("%d", len(args)+1) + ` OFFSET $` + fmt.Sprintf("%d", len(args)+2) + `
	`
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	summaries, err := scanSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func scanSummaries(rows pgx.Rows) ([]model.SubmissionSummary, error) {
	var summaries []model.SubmissionSummary
	for rows.Next() {
		var s model.SubmissionSummary
		if err := rows.Scan(&s.ID, &s.UserName, &s.UserEmail, &s.CourseName,
			&s.ChapterNumber, &s.ChapterTitle, &s.Score, &s.MaxScore,
			&s.Percentage, &s.Status, &s.SubmittedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
