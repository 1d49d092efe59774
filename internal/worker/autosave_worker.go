package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vinealms/vinea-backend/internal/config"
	"github.com/vinealms/vinea-backend/internal/repository"
	"github.com/vinealms/vinea-backend/internal/service"
)

// AutosaveWorker consumes persist_drafts_queue and UPSERTs draft answers
// to PostgreSQL. Redis holds the hot copy; this makes it durable.
type AutosaveWorker struct {
	draftRepo *repository.DraftRepository
	rdb       *redis.Client
	log       zerolog.Logger
}

// NewAutosaveWorker creates a new AutosaveWorker.
func NewAutosaveWorker(draftRepo *repository.DraftRepository, rdb *redis.Client, log zerolog.Logger) *AutosaveWorker {
	return &AutosaveWorker{
		draftRepo: draftRepo,
		rdb:       rdb,
		log:       log.With().Str("component", "autosave_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *AutosaveWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *AutosaveWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.PersistDraftsQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var job service.DraftJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.persistDraft(ctx, &job); err != nil {
		w.log.Error().Err(err).
			Int("user_id", job.UserID).
			Str("quiz_id", job.QuizID).
			Msg("Persist error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.PersistDraftsQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

func (w *AutosaveWorker) persistDraft(ctx context.Context, job *service.DraftJob) error {
	quizID, err := uuid.Parse(job.QuizID)
	if err != nil {
		return err
	}
	return w.draftRepo.Upsert(ctx, quizID, job.UserID, job.Answers)
}

// drain processes all remaining items in the queue before shutdown.
func (w *AutosaveWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.PersistDraftsQueue).Result()
		if err != nil {
			break
		}

		var job service.DraftJob
		if err := json.Unmarshal([]byte(result), &job); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.persistDraft(ctx, &job); err != nil {
			w.log.Error().Err(err).Msg("Drain persist error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistDraftsQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
