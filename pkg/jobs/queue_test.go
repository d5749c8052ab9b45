package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	var processed int32
	done := make(chan string, 1)
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		atomic.AddInt32(&processed, 1)
		done <- job.ID
		return nil
	}, QueueConfig{Workers: 2, BufferSize: 4})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(context.Background(), Job{Type: "status_change", Payload: "x"}))

	select {
	case id := <-done:
		assert.NotEmpty(t, id)
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&processed))
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var attempts int32
	done := make(chan struct{})
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	}, QueueConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond})

	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(context.Background(), Job{Type: "status_change"}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not retried")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
}

func TestQueueRejectsBeforeStart(t *testing.T) {
	q := NewQueue("audit", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	assert.ErrorIs(t, q.Enqueue(context.Background(), Job{Type: "noop"}), ErrNotStarted)
	assert.ErrorIs(t, q.TryEnqueue(Job{Type: "noop"}), ErrNotStarted)
}

func blockedQueue(t *testing.T) (*Queue, chan struct{}, chan struct{}) {
	t.Helper()
	busy := make(chan struct{}, 1)
	release := make(chan struct{})
	q := NewQueue("audit", func(ctx context.Context, job Job) error {
		busy <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	require.NoError(t, q.TryEnqueue(Job{Type: "status_change"}))
	select {
	case <-busy:
	case <-time.After(time.Second):
		t.Fatal("worker never picked up the first job")
	}
	require.NoError(t, q.TryEnqueue(Job{Type: "status_change"}))
	return q, busy, release
}

func TestQueueTryEnqueueDoesNotWaitWhenFull(t *testing.T) {
	q, _, release := blockedQueue(t)
	defer q.Stop()
	defer close(release)

	result := make(chan error, 1)
	go func() { result <- q.TryEnqueue(Job{Type: "status_change"}) }()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, ErrFull)
	case <-time.After(time.Second):
		t.Fatal("TryEnqueue blocked on a full buffer")
	}
	assert.Equal(t, int64(1), q.Dropped())
}

func TestQueueEnqueueHonoursContext(t *testing.T) {
	q, _, release := blockedQueue(t)
	defer q.Stop()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := q.Enqueue(ctx, Job{Type: "status_change"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int64(1), q.Dropped())
}

func TestQueueRejectsAfterStop(t *testing.T) {
	q := NewQueue("audit", func(ctx context.Context, job Job) error { return nil }, QueueConfig{})
	q.Start(context.Background())
	q.Stop()
	assert.ErrorIs(t, q.TryEnqueue(Job{Type: "noop"}), ErrNotStarted)
}
