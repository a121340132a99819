package event

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOutboxPublisher_SaveEventsWritesEntries(t *testing.T) {
	db := setupOutboxDB(t)
	publisher := NewOutboxPublisher(NewEventSerializer())
	tenantID := uuid.New()

	err := db.Transaction(func(tx *gorm.DB) error {
		return publisher.SaveEvents(context.Background(), tx,
			newTestEvent("A", tenantID),
			newTestEvent("B", tenantID),
		)
	})
	require.NoError(t, err)

	var rows []models.OutboxEntryModel
	require.NoError(t, db.Order("event_type").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0].EventType)
	assert.Equal(t, tenantID, rows[0].TenantID)
	assert.Equal(t, shared.OutboxStatusPending, rows[0].Status)
	assert.Contains(t, string(rows[0].Payload), `"note":"hello"`)
}

func TestOutboxPublisher_RollbackDiscardsEntries(t *testing.T) {
	db := setupOutboxDB(t)
	publisher := NewOutboxPublisher(NewEventSerializer())

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := publisher.SaveEvents(context.Background(), tx, newTestEvent("A", uuid.New())); err != nil {
			return err
		}
		return errors.New("aggregate save failed")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.OutboxEntryModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOutboxPublisher_RejectsForeignTransaction(t *testing.T) {
	publisher := NewOutboxPublisher(NewEventSerializer())

	err := publisher.SaveEvents(context.Background(), "not a tx", newTestEvent("A", uuid.New()))
	assert.ErrorContains(t, err, "*gorm.DB")

	assert.NoError(t, publisher.SaveEvents(context.Background(), "ignored when empty"))
}
