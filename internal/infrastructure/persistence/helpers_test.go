package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/partner"
	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/domain/shared/valueobject"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.SupplierModel{},
		&models.PurchaseOrderModel{},
		&models.PurchaseOrderItemModel{},
		&models.SupplierPriceListModel{},
		&models.SupplierPriceListItemModel{},
		&models.OutboxEntryModel{},
	))
	return db
}

// recordingOutbox captures the events handed to it and checks the
// transaction handle type
type recordingOutbox struct {
	events []shared.DomainEvent
	err    error
}

func (o *recordingOutbox) SaveEvents(_ context.Context, tx any, events ...shared.DomainEvent) error {
	if _, ok := tx.(*gorm.DB); !ok {
		return errors.New("unexpected transaction handle")
	}
	if o.err != nil {
		return o.err
	}
	o.events = append(o.events, events...)
	return nil
}

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newOrder(t *testing.T, tenantID, supplierID uuid.UUID, number string, lines ...int64) *procurement.PurchaseOrder {
	t.Helper()
	order, err := procurement.NewPurchaseOrder(tenantID, number, supplierID, "Acme Metals", valueobject.USD, utcDay(2026, 3, 10))
	require.NoError(t, err)
	for i, qty := range lines {
		_, err := order.AddItem(procurement.NewLine{
			ProductID:   uuid.New(),
			ProductCode: "SKU-" + string(rune('A'+i)),
			ProductName: "Part",
			Unit:        "pcs",
			Quantity:    decimal.NewFromInt(qty),
			UnitPrice:   decimal.NewFromInt(25),
			TaxRate:     decimal.NewFromFloat(0.1),
		})
		require.NoError(t, err)
	}
	order.ClearDomainEvents()
	return order
}

func newSupplier(t *testing.T, tenantID uuid.UUID, code, name string) *partner.Supplier {
	t.Helper()
	s, err := partner.NewSupplier(tenantID, code, name)
	require.NoError(t, err)
	s.ClearDomainEvents()
	return s
}
