package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Job is a queued background task carrying a typed payload.
type Job[T any] struct {
	ID       string
	Payload  T
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler[T any] func(context.Context, Job[T]) error

// ErrStopped is reported to the failure hook for jobs abandoned by Stop.
var ErrStopped = errors.New("queue stopped")

// FailureHook is called once per job that exhausted its retries or was abandoned on shutdown.
type FailureHook[T any] func(Job[T], error)

// QueueConfig configures worker pool behaviour.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue is an in-memory job dispatcher backed by a fixed pool of goroutines.
type Queue[T any] struct {
	name      string
	handler   Handler[T]
	onFailure FailureHook[T]

	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	jobs    chan Job[T]
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
	stopped bool
}

// NewQueue builds a queue with the provided handler. A negative MaxRetries disables retries.
func NewQueue[T any](name string, handler Handler[T], cfg QueueConfig) *Queue[T] {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue[T]{
		name:       name,
		handler:    handler,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger.With(zap.String("queue", name)),
		jobs:       make(chan Job[T], cfg.BufferSize),
	}
}

// OnFailure registers a hook for jobs that exhausted their retries. Call before Start.
func (q *Queue[T]) OnFailure(hook FailureHook[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.onFailure = hook
}

// Start begins worker consumption. Safe to call once.
func (q *Queue[T]) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Info("queue started", zap.Int("workers", q.workers))
}

// Stop cancels workers, waits for them and for pending retries, then reports
// every job still buffered to the failure hook with ErrStopped.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if !q.started || q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()

	for {
		select {
		case job := <-q.jobs:
			q.abandon(job, nil)
		default:
			q.logger.Info("queue stopped")
			return
		}
	}
}

// Enqueue pushes a job onto the queue. It fails fast when the buffer is full.
func (q *Queue[T]) Enqueue(job Job[T]) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.started {
		return fmt.Errorf("queue %s not started", q.name)
	}
	if q.stopped {
		return fmt.Errorf("queue %s: %w", q.name, ErrStopped)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return fmt.Errorf("queue %s is full", q.name)
	}
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			if err := q.handler(q.ctx, job); err != nil {
				q.handleFailure(job, err)
			}
		}
	}
}

func (q *Queue[T]) handleFailure(job Job[T], err error) {
	job.Attempt++
	if q.ctx.Err() != nil {
		q.abandon(job, err)
		return
	}
	if job.Attempt > q.maxRetries {
		q.logger.Error("job exceeded retries", zap.String("job_id", job.ID), zap.Int("attempts", job.Attempt), zap.Error(err))
		q.report(job, err)
		return
	}
	q.logger.Warn("job failed, retrying", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt), zap.Error(err))

	q.wg.Add(1)
	go func(j Job[T]) {
		defer q.wg.Done()
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			q.abandon(j, err)
		case <-timer.C:
			if rerr := q.Enqueue(j); rerr != nil {
				q.logger.Error("failed to requeue job", zap.String("job_id", j.ID), zap.Error(rerr))
				q.report(j, fmt.Errorf("%v (requeue: %w)", err, rerr))
			}
		}
	}(job)
}

// abandon reports a job that will not run again because the queue is stopping.
func (q *Queue[T]) abandon(job Job[T], cause error) {
	err := ErrStopped
	if cause != nil {
		err = fmt.Errorf("%w: %v", ErrStopped, cause)
	}
	q.logger.Warn("job abandoned on shutdown", zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))
	q.report(job, err)
}

func (q *Queue[T]) report(job Job[T], err error) {
	q.mu.Lock()
	hook := q.onFailure
	q.mu.Unlock()
	if hook != nil {
		hook(job, err)
	}
}
