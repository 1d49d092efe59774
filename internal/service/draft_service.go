package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/model"
	"github.com/vinealms/vinea-backend/internal/repository"
)

// draftTTL bounds how long an abandoned draft lives in Redis. The
// PostgreSQL copy written by the worker has no expiry.
const draftTTL = 72 * time.Hour

// DraftJob is the queue payload consumed by the autosave worker.
type DraftJob struct {
	QuizID  string          `json:"quiz_id"`
	UserID  int             `json:"user_id"`
	Answers json.RawMessage `json:"answers"`
}

// DraftService autosaves in-progress quiz answers. Writes hit Redis
// synchronously and PostgreSQL asynchronously via the persist queue, so a
// learner typing an essay never waits on the database.
type DraftService struct {
	draftRepo *repository.DraftRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewDraftService creates a new DraftService.
func NewDraftService(draftRepo *repository.DraftRepository, rdb *redis.Client, log zerolog.Logger) *DraftService {
	return &DraftService{
		draftRepo: draftRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "draft_service").Logger(),
	}
}

// Save stores the draft in Redis and enqueues it for durable persistence.
func (s *DraftService) Save(ctx context.Context, quizID uuid.UUID, userID int, req *model.SaveDraftRequest) error {
	answers, err := json.Marshal(req.Answers)
	if err != nil {
		return fmt.Errorf("marshal answers: %w", err)
	}

	key := config.CacheKey.DraftAnswersKey(quizID.String(), userID)
	if err := s.rdb.Set(ctx, key, answers, draftTTL).Err(); err != nil {
		return fmt.Errorf("cache draft: %w", err)
	}

	job, err := json.Marshal(DraftJob{
		QuizID:  quizID.String(),
		UserID:  userID,
		Answers: answers,
	})
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := s.rdb.RPush(ctx, config.WorkerKey.PersistDraftsQueue, job).Err(); err != nil {
		return fmt.Errorf("enqueue draft: %w", err)
	}
	return nil
}

// Get returns the learner's saved answers, preferring the Redis copy and
// falling back to the worker-persisted PostgreSQL row. A missing draft is
// not an error; it returns an empty answer map.
func (s *DraftService) Get(ctx context.Context, quizID uuid.UUID, userID int) (map[string]model.Answer, error) {
	key := config.CacheKey.DraftAnswersKey(quizID.String(), userID)

	data, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("get draft: %w", err)
		}
		data, err = s.draftRepo.Get(ctx, quizID, userID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return map[string]model.Answer{}, nil
			}
			return nil, err
		}
	}

	var answers map[string]model.Answer
	if err := json.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return answers, nil
}
