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

// answerKey is the JSONB shape of a question's key material. Exactly one
// group of fields is populated depending on the question type.
type answerKey struct {
	CorrectText  string                    `json:"correct_text,omitempty"`
	CorrectIndex *int                      `json:"correct_index,omitempty"`
	CorrectBool  *bool                     `json:"correct_bool,omitempty"`
	CorrectPair  []string                  `json:"correct_pair,omitempty"`
	ModelAnswer  string                    `json:"model_answer,omitempty"`
	ModelAnswers *model.ProfileStrategySet `json:"model_answers,omitempty"`
}

// QuizRepository handles quiz and question data access.
type QuizRepository struct {
	pool *pgxpool.Pool
}

// NewQuizRepository creates a new QuizRepository.
func NewQuizRepository(pool *pgxpool.Pool) *QuizRepository {
	return &QuizRepository{pool: pool}
}

// GetByID retrieves a quiz with its full question set, in authored order.
func (r *QuizRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.pool.QueryRow(ctx,
		`SELECT q.id, q.course_id, COALESCE(c.name, ''), q.chapter_number, q.title,
		        q.status, q.created_at, q.updated_at
		 FROM quizzes q
		 LEFT JOIN courses c ON q.course_id = c.id
		 WHERE q.id = $1`, id,
	).Scan(&q.ID, &q.CourseID, &q.CourseName, &q.ChapterNumber, &q.Title,
		&q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}

	questions, err := r.loadQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Questions = questions
	return q, nil
}

// GetByCourseAndChapter retrieves a published quiz addressed by its course
// and chapter number, the way learners navigate the catalog.
func (r *QuizRepository) GetByCourseAndChapter(ctx context.Context, courseID uuid.UUID, chapter int) (*model.Quiz, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM quizzes
		 WHERE course_id = $1 AND chapter_number = $2 AND status = $3`,
		courseID, chapter, model.QuizStatusPublished,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ListPaginated retrieves quizzes with optional course and status filters.
func (r *QuizRepository) ListPaginated(ctx context.Context, page, perPage int, courseID *uuid.UUID, status *model.QuizStatus) ([]model.Quiz, int64, error) {
	offset := (page - 1) * perPage

	baseQuery := `
		FROM quizzes q
		LEFT JOIN courses c ON q.course_id = c.id
		WHERE 1=1
	`
	args := []any{}

	if courseID != nil {
		args = append(args, *courseID)
		baseQuery += fmt.Sprintf(" AND q.course_id = $%d", len(args))
	}
	if status != nil {
		args = append(args, *status)
		baseQuery += fmt.Sprintf(" AND q.status = $%d", len(args))
	}

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT q.id, q.course_id, COALESCE(c.name, ''), q.chapter_number, q.title,
		       q.status, q.created_at, q.updated_at
		` + baseQuery + `
		ORDER BY q.chapter_number ASC, q.created_at DESC
		LIMIT $` + fmt.Sprintf("%d", len(args)+1) + ` OFFSET $` + fmt.Sprintf("%d", len(args)+2) + `
	`
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var quizzes []model.Quiz
	for rows.Next() {
		var q model.Quiz
		if err := rows.Scan(&q.ID, &q.CourseID, &q.CourseName, &q.ChapterNumber, &q.Title,
			&q.Status, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return nil, 0, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, total, rows.Err()
}

// ListPublished returns all quizzes with PUBLISHED status, questions
// included. Used for cache prewarming on application startup.
func (r *QuizRepository) ListPublished(ctx context.Context) ([]model.Quiz, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id FROM quizzes WHERE status = $1 ORDER BY chapter_number ASC`,
		model.QuizStatusPublished)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var quizzes []model.Quiz
	for _, id := range ids {
		q, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, *q)
	}
	return quizzes, nil
}

// Create inserts a quiz and its questions in a single transaction.
func (r *QuizRepository) Create(ctx context.Context, q *model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO quizzes (course_id, chapter_number, title, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		q.CourseID, q.ChapterNumber, q.Title, q.Status,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return err
	}

	if err := insertQuestions(ctx, tx, q.ID, q.Questions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Update replaces a quiz's metadata and its entire question set.
func (r *QuizRepository) Update(ctx context.Context, q *model.Quiz) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE quizzes SET course_id = $1, chapter_number = $2, title = $3, updated_at = NOW()
		 WHERE id = $4`,
		q.CourseID, q.ChapterNumber, q.Title, q.ID)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM questions WHERE quiz_id = $1`, q.ID); err != nil {
		return err
	}
	if err := insertQuestions(ctx, tx, q.ID, q.Questions); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// UpdateStatus transitions a quiz between DRAFT and PUBLISHED.
func (r *QuizRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.QuizStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE quizzes SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	return err
}

// Delete removes a quiz and its questions (cascade).
func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	return err
}

// CountByCourse reports how many quizzes reference the given course.
func (r *QuizRepository) CountByCourse(ctx context.Context, courseID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM quizzes WHERE course_id = $1`, courseID,
	).Scan(&count)
	return count, err
}

func insertQuestions(ctx context.Context, tx pgx.Tx, quizID uuid.UUID, questions []model.Question) error {
	for ordinal, question := range questions {
		key, err := json.Marshal(answerKey{
			CorrectText:  question.CorrectText,
			CorrectIndex: question.CorrectIndex,
			CorrectBool:  question.CorrectBool,
			CorrectPair:  question.CorrectPair,
			ModelAnswer:  question.ModelAnswer,
			ModelAnswers: question.ModelAnswers,
		})
		if err != nil {
			return err
		}
		options, err := json.Marshal(question.Options)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO questions
			   (quiz_id, question_id, ordinal, type, text, points,
			    requires_manual_grading, options, answer_key, explanation)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			quizID, question.ID, ordinal, question.Type, question.Text, question.Points,
			question.RequiresManualGrading, options, key, question.Explanation)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *QuizRepository) loadQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id, type, text, points, requires_manual_grading,
		        options, answer_key, explanation
		 FROM questions
		 WHERE quiz_id = $1
		 ORDER BY ordinal ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var (
			q        model.Question
			options  []byte
			keyBytes []byte
		)
		if err := rows.Scan(&q.ID, &q.Type, &q.Text, &q.Points, &q.RequiresManualGrading,
			&options, &keyBytes, &q.Explanation); err != nil {
			return nil, err
		}
		if len(options) > 0 {
			if err := json.Unmarshal(options, &q.Options); err != nil {
				return nil, err
			}
		}
		var key answerKey
		if err := json.Unmarshal(keyBytes, &key); err != nil {
			return nil, err
		}
		q.CorrectText = key.CorrectText
		q.CorrectIndex = key.CorrectIndex
		q.CorrectBool = key.CorrectBool
		q.CorrectPair = key.CorrectPair
		q.ModelAnswer = key.ModelAnswer
		q.ModelAnswers = key.ModelAnswers
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
