package shared

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEvent struct {
	BaseDomainEvent
}

func newStubEvent() *stubEvent {
	return &stubEvent{BaseDomainEvent: NewBaseDomainEvent("StubEvent", "Stub", uuid.New(), uuid.New())}
}

func TestNewOutboxEntry(t *testing.T) {
	evt := newStubEvent()
	tenantID := uuid.New()

	entry := NewOutboxEntry(tenantID, evt, []byte(`{}`))

	assert.Equal(t, tenantID, entry.TenantID)
	assert.Equal(t, evt.EventID(), entry.EventID)
	assert.Equal(t, "StubEvent", entry.EventType)
	assert.Equal(t, "Stub", entry.AggregateType)
	assert.Equal(t, OutboxStatusPending, entry.Status)
	assert.Equal(t, DefaultMaxRetries, entry.MaxRetries)
}

func TestOutboxEntry_MarkProcessing(t *testing.T) {
	tests := []struct {
		status  OutboxStatus
		wantErr bool
	}{
		{OutboxStatusPending, false},
		{OutboxStatusFailed, false},
		{OutboxStatusProcessing, true},
		{OutboxStatusSent, true},
		{OutboxStatusDead, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			entry := &OutboxEntry{Status: tt.status}
			err := entry.MarkProcessing()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOutboxEntryInvalidState)
				assert.Equal(t, tt.status, entry.Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, OutboxStatusProcessing, entry.Status)
		})
	}
}

func TestOutboxEntry_MarkFailed(t *testing.T) {
	t.Run("schedules retry with growing backoff", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusProcessing, MaxRetries: 3}

		entry.MarkFailed("boom")
		require.NotNil(t, entry.NextRetryAt)
		first := time.Until(*entry.NextRetryAt)
		assert.Equal(t, OutboxStatusFailed, entry.Status)
		assert.Equal(t, 1, entry.RetryCount)
		assert.Equal(t, "boom", entry.LastError)
		assert.True(t, entry.CanRetry())

		entry.MarkFailed("boom again")
		require.NotNil(t, entry.NextRetryAt)
		second := time.Until(*entry.NextRetryAt)
		assert.Greater(t, second, first)
	})

	t.Run("becomes dead after max retries", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusProcessing, RetryCount: 2, MaxRetries: 3}

		entry.MarkFailed("final")

		assert.True(t, entry.IsDead())
		assert.Nil(t, entry.NextRetryAt)
		assert.False(t, entry.CanRetry())
	})
}

func TestOutboxEntry_MarkSent(t *testing.T) {
	entry := &OutboxEntry{Status: OutboxStatusProcessing}
	entry.MarkSent()

	assert.Equal(t, OutboxStatusSent, entry.Status)
	assert.NotNil(t, entry.ProcessedAt)
}

func TestOutboxEntry_ResetForRetry(t *testing.T) {
	t.Run("resets dead letter", func(t *testing.T) {
		entry := &OutboxEntry{Status: OutboxStatusDead, RetryCount: 5, MaxRetries: 5, LastError: "x"}

		require.NoError(t, entry.ResetForRetry())
		assert.Equal(t, OutboxStatusPending, entry.Status)
		assert.Zero(t, entry.RetryCount)
		assert.Empty(t, entry.LastError)
	})

	t.Run("refuses live entries", func(t *testing.T) {
		for _, status := range []OutboxStatus{OutboxStatusPending, OutboxStatusProcessing, OutboxStatusSent, OutboxStatusFailed} {
			entry := &OutboxEntry{Status: status}
			assert.ErrorIs(t, entry.ResetForRetry(), ErrOutboxEntryInvalidState)
			assert.Equal(t, status, entry.Status)
		}
	})
}

func TestNewPaginated(t *testing.T) {
	p := NewPaginated([]int{1, 2, 3}, 41, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 2, p.Page)

	empty := NewPaginated([]int{}, 0, 1, 20)
	assert.Equal(t, 0, empty.TotalPages)
}

func TestDomainError_Is(t *testing.T) {
	err := NewDomainError("NOT_FOUND", "purchase order not found")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAlreadyExists)

	de, ok := AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", de.Code)
}
