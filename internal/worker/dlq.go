package worker

// dlq.go: dead letter lists for the statement and email queues.
// A statement that could not be calculated or rendered, or an email that
// still failed after its retries, is parked in dlq:<queue> with the reason so
// an operator can inspect it and re-enqueue it by hand.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "dlq:"

// TrabajoFallido is one parked job.
type TrabajoFallido struct {
	Queue    string          `json:"queue"`
	JobType  string          `json:"job_type"` // resumen | email | unknown
	Payload  json.RawMessage `json:"payload"`
	Motivo   string          `json:"motivo"`
	FailedAt time.Time       `json:"failed_at"`
	Attempts int             `json:"attempts"`
}

// SendToDLQ parks a failed job. Errors are only logged: the job is already
// lost for the pool and there is nobody to return them to.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, motivo string, attempts int) {
	data, err := json.Marshal(TrabajoFallido{
		Queue:    queue,
		JobType:  jobType,
		Payload:  payload,
		Motivo:   motivo,
		FailedAt: time.Now().UTC(),
		Attempts: attempts,
	})
	if err != nil {
		log.Error().Err(err).Str("queue", queue).Msg("dlq: marshal failed")
		return
	}

	// Shutdown cancels ctx while the last jobs are still finishing.
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()

	key := DLQPrefix + queue
	if err := rdb.LPush(pushCtx, key, data).Err(); err != nil {
		log.Error().Err(err).Str("dlq_key", key).Str("job_type", jobType).Msg("dlq: push failed, job dropped")
		return
	}
	log.Warn().
		Str("queue", queue).
		Str("job_type", jobType).
		Str("motivo", motivo).
		Int("attempts", attempts).
		Msg("dlq: job parked")
}

// DLQLength returns how many jobs of queue are parked.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}

// DLQDepths reports the parked jobs of the statement and email queues.
// Queues whose length cannot be read are left out.
func DLQDepths(ctx context.Context, rdb *redis.Client) map[string]int64 {
	depths := make(map[string]int64, 2)
	for _, q := range []string{QueueResumen, QueueEmail} {
		if n, err := DLQLength(ctx, rdb, q); err == nil {
			depths[q] = n
		}
	}
	return depths
}
