package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	return m.Called(ctx, entries).Error(0)
}

func (m *MockOutboxRepository) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, before, limit)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*shared.OutboxEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockOutboxRepository) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]*shared.OutboxEntry), args.Error(1)
}

func (m *MockOutboxRepository) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockOutboxRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOutboxRepository) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[shared.OutboxStatus]int64), args.Error(1)
}

func deadEntry(eventType string) *shared.OutboxEntry {
	return &shared.OutboxEntry{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		EventID:       uuid.New(),
		EventType:     eventType,
		AggregateID:   uuid.New(),
		AggregateType: "PurchaseOrder",
		Status:        shared.OutboxStatusDead,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     "bucket unavailable",
		CreatedAt:     time.Now().Add(-time.Hour),
		UpdatedAt:     time.Now(),
	}
}

func TestService_ListDead(t *testing.T) {
	ctx := context.Background()

	t.Run("clamps paging", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())

		entry := deadEntry("PurchaseOrderSent")
		repo.On("FindDead", ctx, 1, maxPageSize).Return([]*shared.OutboxEntry{entry}, int64(1), nil)

		entries, total, err := svc.ListDead(ctx, ListRequest{Page: -3, PageSize: 500})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)
		assert.Equal(t, "DEAD", entries[0].Status)
		assert.Equal(t, "bucket unavailable", entries[0].LastError)
	})

	t.Run("defaults page size", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())

		repo.On("FindDead", ctx, 2, defaultPageSize).Return([]*shared.OutboxEntry{}, int64(0), nil)

		entries, _, err := svc.ListDead(ctx, ListRequest{Page: 2})
		require.NoError(t, err)
		assert.Empty(t, entries)
		repo.AssertExpectations(t)
	})
}

func TestService_GetAndRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown entry", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Get(ctx, id)
		assert.ErrorIs(t, err, errEntryNotFound)
		_, err = svc.Retry(ctx, id)
		assert.ErrorIs(t, err, errEntryNotFound)
	})

	t.Run("repository failure passes through", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, errors.New("connection reset"))

		_, err := svc.Get(ctx, id)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection reset")
	})

	t.Run("requeues dead letter", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())
		entry := deadEntry("SupplierStatusChanged")
		repo.On("FindByID", ctx, entry.ID).Return(entry, nil)
		repo.On("Update", ctx, entry).Return(nil)

		resp, err := svc.Retry(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, "PENDING", resp.Status)
		assert.Zero(t, resp.RetryCount)
		assert.Empty(t, resp.LastError)
	})

	t.Run("only dead letters can be retried", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())
		entry := deadEntry("PurchaseOrderSent")
		entry.Status = shared.OutboxStatusSent
		repo.On("FindByID", ctx, entry.ID).Return(entry, nil)

		_, err := svc.Retry(ctx, entry.ID)
		assert.ErrorIs(t, err, shared.ErrOutboxEntryInvalidState)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestService_RetryAll(t *testing.T) {
	ctx := context.Background()

	t.Run("drains the dead set", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())

		full := make([]*shared.OutboxEntry, retryBatchSize)
		for i := range full {
			full[i] = deadEntry("PurchaseOrderSent")
		}
		rest := []*shared.OutboxEntry{deadEntry("PurchaseOrderSent"), deadEntry("PurchaseOrderSent")}

		repo.On("FindDead", ctx, 1, retryBatchSize).Return(full, int64(102), nil).Once()
		repo.On("FindDead", ctx, 1, retryBatchSize).Return(rest, int64(2), nil).Once()
		repo.On("Update", ctx, mock.Anything).Return(nil)

		resp, err := svc.RetryAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(102), resp.Requeued)
		repo.AssertNumberOfCalls(t, "FindDead", 2)
	})

	t.Run("stops when nothing can be requeued", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())

		full := make([]*shared.OutboxEntry, retryBatchSize)
		for i := range full {
			full[i] = deadEntry("PurchaseOrderSent")
		}
		repo.On("FindDead", ctx, 1, retryBatchSize).Return(full, int64(100), nil)
		repo.On("Update", ctx, mock.Anything).Return(errors.New("read only"))

		resp, err := svc.RetryAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, resp.Requeued)
		repo.AssertNumberOfCalls(t, "FindDead", 1)
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := new(MockOutboxRepository)
		svc := NewService(repo, zap.NewNop())
		repo.On("FindDead", ctx, 1, retryBatchSize).Return(nil, int64(0), errors.New("timeout"))

		_, err := svc.RetryAll(ctx)
		require.Error(t, err)
	})
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOutboxRepository)
	svc := NewService(repo, zap.NewNop())

	repo.On("CountByStatus", ctx).Return(map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 3,
		shared.OutboxStatusSent:    40,
		shared.OutboxStatusDead:    2,
	}, nil)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Pending)
	assert.Equal(t, int64(40), stats.Sent)
	assert.Equal(t, int64(2), stats.Dead)
	assert.Zero(t, stats.Failed)
	assert.Equal(t, int64(45), stats.Total)
}
