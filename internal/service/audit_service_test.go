package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
	"github.com/noah-isme/tuteur-adom-api/pkg/jobs"
)

type mockAuditRepo struct {
	mu       sync.Mutex
	entries  []models.AuditLog
	failures int
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return errors.New("database unavailable")
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockAuditRepo) ListByEntity(ctx context.Context, entity, entityID string) ([]models.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.AuditLog
	for _, e := range m.entries {
		if e.Entity == entity && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockAuditRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func TestAuditServiceWritesAsynchronouslyWithRetry(t *testing.T) {
	repo := &mockAuditRepo{failures: 1}
	svc := NewAuditService(repo, jobs.QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond}, nil, true)
	svc.Start(context.Background())
	defer svc.Stop()

	ctx := WithActor(context.Background(), "admin-1")
	svc.Record(ctx, statusChange(ctx, models.AuditEntityTeacher, "t-1", "PENDING", "ACTIVE"))

	require.Eventually(t, func() bool { return repo.count() == 1 }, time.Second, 5*time.Millisecond)

	trail, err := svc.Trail(context.Background(), models.AuditEntityTeacher, "t-1")
	require.NoError(t, err)
	require.Len(t, trail, 1)
	assert.Equal(t, "admin-1", *trail[0].ActorID)
	assert.Equal(t, "ACTIVE", *trail[0].ToStatus)
}

type stalledAuditRepo struct {
	mockAuditRepo
	started chan struct{}
}

func (m *stalledAuditRepo) Create(ctx context.Context, entry *models.AuditLog) error {
	select {
	case m.started <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestAuditServiceRecordNeverWaitsOnFullQueue(t *testing.T) {
	repo := &stalledAuditRepo{started: make(chan struct{}, 1)}
	svc := NewAuditService(repo, jobs.QueueConfig{Workers: 1, BufferSize: 1}, nil, true)
	svc.Start(context.Background())
	defer svc.Stop()

	ctx := context.Background()
	svc.Record(ctx, statusChange(ctx, models.AuditEntityRequest, "r-1", "PENDING", "APPROVED"))
	select {
	case <-repo.started:
	case <-time.After(time.Second):
		t.Fatal("audit worker never started writing")
	}
	svc.Record(ctx, statusChange(ctx, models.AuditEntityRequest, "r-2", "PENDING", "APPROVED"))

	done := make(chan struct{})
	go func() {
		svc.Record(ctx, statusChange(ctx, models.AuditEntityRequest, "r-3", "PENDING", "REJECTED"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Record blocked on a full audit queue")
	}
	assert.Equal(t, int64(1), svc.queue.Dropped())
}

func TestAuditServiceDisabledDropsEntries(t *testing.T) {
	repo := &mockAuditRepo{}
	svc := NewAuditService(repo, jobs.QueueConfig{}, nil, false)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Record(context.Background(), creation(context.Background(), models.AuditEntityRequest, "r-1", "PENDING"))
	assert.Zero(t, repo.count())
}

func TestAuditServiceTrailRejectsUnknownEntity(t *testing.T) {
	svc := NewAuditService(&mockAuditRepo{}, jobs.QueueConfig{}, nil, true)
	_, err := svc.Trail(context.Background(), "course", "c-1")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
}

func TestActorFromContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithActor(context.Background(), "")
	_, ok = ActorFromContext(ctx)
	assert.False(t, ok)

	id, ok := ActorFromContext(WithActor(context.Background(), "u-1"))
	assert.True(t, ok)
	assert.Equal(t, "u-1", id)
}
