package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DraftRepository persists in-progress quiz answers. The Redis copy is
// authoritative while a learner is typing; rows here are the durable
// fallback written by the autosave worker.
type DraftRepository struct {
	pool *pgxpool.Pool
}

// NewDraftRepository creates a new DraftRepository.
func NewDraftRepository(pool *pgxpool.Pool) *DraftRepository {
	return &DraftRepository{pool: pool}
}

// Upsert writes or replaces a learner's draft answers for a quiz.
func (r *DraftRepository) Upsert(ctx context.Context, quizID uuid.UUID, userID int, answers []byte) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO answer_drafts (quiz_id, user_id, answers, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (quiz_id, user_id)
		 DO UPDATE SET answers = EXCLUDED.answers, updated_at = NOW()`,
		quizID, userID, answers)
	return err
}

// Get returns the stored draft answers document, or pgx.ErrNoRows.
func (r *DraftRepository) Get(ctx context.Context, quizID uuid.UUID, userID int) ([]byte, error) {
	var answers []byte
	err := r.pool.QueryRow(ctx,
		`SELECT answers FROM answer_drafts WHERE quiz_id = $1 AND user_id = $2`,
		quizID, userID,
	).Scan(&answers)
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// Delete removes a draft once the quiz has been submitted.
func (r *DraftRepository) Delete(ctx context.Context, quizID uuid.UUID, userID int) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM answer_drafts WHERE quiz_id = $1 AND user_id = $2`,
		quizID, userID)
	return err
}
