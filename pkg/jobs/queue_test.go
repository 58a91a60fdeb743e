package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 2)
	q := NewQueue[string]("test", func(_ context.Context, job Job[string]) error {
		done <- job.Payload
		return nil
	}, QueueConfig{Workers: 2})

	require.Error(t, q.Enqueue(Job[string]{ID: "early"}))

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "1", Payload: "a"}))
	require.NoError(t, q.Enqueue(Job[string]{ID: "2", Payload: "b"}))

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case p := <-done:
			got[p] = true
		case <-time.After(time.Second):
			t.Fatal("job not processed")
		}
	}
	assert.Equal(t, map[string]bool{"a": true, "b": true}, got)
}

func TestQueueRetriesThenReportsFailure(t *testing.T) {
	var calls int32
	failed := make(chan Job[int], 1)
	q := NewQueue[int]("retry", func(_ context.Context, job Job[int]) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	q.OnFailure(func(job Job[int], err error) {
		failed <- job
	})

	q.Start(context.Background())
	defer q.Stop()
	require.NoError(t, q.Enqueue(Job[int]{ID: "x", Payload: 7}))

	select {
	case job := <-failed:
		assert.Equal(t, 3, job.Attempt)
		assert.Equal(t, 7, job.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("failure hook not called")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

type failureLog struct {
	mu   sync.Mutex
	jobs map[string]error
}

func (l *failureLog) record(job Job[string], err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.jobs == nil {
		l.jobs = map[string]error{}
	}
	l.jobs[job.ID] = err
}

func TestQueueStopReportsInFlightAndBufferedJobs(t *testing.T) {
	running := make(chan struct{}, 1)
	q := NewQueue[string]("shutdown", func(ctx context.Context, job Job[string]) error {
		running <- struct{}{}
		<-ctx.Done()
		return ctx.Err()
	}, QueueConfig{Workers: 1, BufferSize: 2, MaxRetries: 3})
	failures := &failureLog{}
	q.OnFailure(failures.record)

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job[string]{ID: "in-flight"}))
	select {
	case <-running:
	case <-time.After(time.Second):
		t.Fatal("job not picked up")
	}
	require.NoError(t, q.Enqueue(Job[string]{ID: "buffered"}))

	q.Stop()
	q.Stop()

	require.Len(t, failures.jobs, 2)
	assert.ErrorIs(t, failures.jobs["in-flight"], ErrStopped)
	assert.ErrorIs(t, failures.jobs["buffered"], ErrStopped)
	assert.ErrorIs(t, q.Enqueue(Job[string]{ID: "late"}), ErrStopped)
}

func TestQueueStopReportsPendingRetry(t *testing.T) {
	var calls int32
	q := NewQueue[string]("pending-retry", func(_ context.Context, job Job[string]) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("db down")
	}, QueueConfig{MaxRetries: 2, RetryDelay: time.Hour})
	failures := &failureLog{}
	q.OnFailure(failures.record)

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job[string]{ID: "import"}))
	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) == 1 }, time.Second, 5*time.Millisecond)

	q.Stop()

	require.Len(t, failures.jobs, 1)
	err := failures.jobs["import"]
	assert.ErrorIs(t, err, ErrStopped)
	assert.Contains(t, err.Error(), "db down")
}
