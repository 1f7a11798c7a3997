package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	QueueResumen = "jobs:resumen"
	QueueEmail   = "jobs:email"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// JobHandler processes one job payload. A returned error sends the job to the DLQ.
type JobHandler func(ctx context.Context, payload json.RawMessage) error

// WorkerHandlers routes each queue to its handler.
type WorkerHandlers struct {
	Resumen *ResumenWorker
	Email   *EmailWorker
}

func (h WorkerHandlers) byQueue() map[string]JobHandler {
	m := make(map[string]JobHandler, 2)
	if h.Resumen != nil {
		m[QueueResumen] = h.Resumen.Process
	}
	if h.Email != nil {
		m[QueueEmail] = h.Email.Process
	}
	return m
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueResumen pushes a group statement job and returns its id.
func (d *Dispatcher) EnqueueResumen(ctx context.Context, payload ResumenJobPayload) (string, error) {
	return d.enqueue(ctx, QueueResumen, "resumen", payload)
}

// EnqueueEmail pushes an email job and returns its id.
func (d *Dispatcher) EnqueueEmail(ctx context.Context, payload EmailJobPayload) (string, error) {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) (string, error) {
	if d == nil || d.rdb == nil {
		return "", errors.New("dispatcher: redis not configured")
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	job := Job{ID: uuid.NewString(), Type: jobType, Payload: data, EnqueuedAt: time.Now().UTC()}
	encoded, err := json.Marshal(job)
	if err != nil {
		return "", err
	}
	if err := d.rdb.LPush(ctx, queue, encoded).Err(); err != nil {
		return "", fmt.Errorf("dispatcher: enqueue %s: %w", queue, err)
	}
	return job.ID, nil
}

// Pool is a set of goroutines blocked on BRPOP over every handled queue.
type Pool struct {
	rdb      *redis.Client
	handlers map[string]JobHandler
	wg       sync.WaitGroup
}

// StartWorkerPool launches numWorkers goroutines consuming the queues that
// have a handler. Each goroutine blocks on BRPOP, zero CPU when idle.
// Cancel ctx and call Wait for a graceful stop.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, handlers WorkerHandlers) *Pool {
	p := &Pool{rdb: rdb, handlers: handlers.byQueue()}
	queues := make([]string, 0, len(p.handlers))
	for q := range p.handlers {
		queues = append(queues, q)
	}
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i, queues)
	}
	log.Info().Int("workers", numWorkers).Strs("queues", queues).Msg("worker pool started")
	return p
}

// Wait blocks until every worker goroutine returned.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) run(ctx context.Context, id int, queues []string) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			log.Info().Int("worker", id).Msg("worker shutting down")
			return
		default:
		}
		// Blocking pop: waits up to 5s then loops to check ctx
		result, err := p.rdb.BRPop(ctx, 5*time.Second, queues...).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: BRPOP failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}
		p.process(ctx, result[0], result[1])
	}
}

func (p *Pool) process(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: failed to unmarshal job")
		SendToDLQ(ctx, p.rdb, queue, "unknown", json.RawMessage(raw), "invalid envelope: "+err.Error(), 0)
		return
	}
	handler, ok := p.handlers[queue]
	if !ok {
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, "no handler for queue", 0)
		return
	}

	start := time.Now()
	if err := handler(ctx, job.Payload); err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Str("queue", queue).Msg("worker: job failed")
		SendToDLQ(ctx, p.rdb, queue, job.Type, job.Payload, err.Error(), 1)
		return
	}
	log.Info().
		Str("job_id", job.ID).
		Str("type", job.Type).
		Dur("took", time.Since(start)).
		Msg("worker: job done")
}
