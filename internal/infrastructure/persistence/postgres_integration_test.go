//go:build integration

package persistence

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/erp/procurement/internal/domain/procurement"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/event"
	"github.com/erp/procurement/internal/infrastructure/migration"
	"github.com/erp/procurement/migrations"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupPostgres starts a throwaway PostgreSQL container and applies the
// embedded migrations. Run with: go test -tags integration ./internal/infrastructure/persistence/
func setupPostgres(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("procurement_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	gormLogger := logger.Discard
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}
	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(5)
	t.Cleanup(func() { _ = sqlDB.Close() })

	m, err := migration.New(sqlDB, migration.FromFS(migrations.FS), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestPostgres_PurchaseOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)

	serializer := event.NewEventSerializer()
	event.RegisterAllEvents(serializer)
	outboxRepo := event.NewGormOutboxRepository(db)

	suppliers := NewGormSupplierRepository(db)
	orders := NewGormPurchaseOrderRepository(db)
	orders.SetOutboxEventSaver(event.NewOutboxPublisher(serializer))

	tenantID := uuid.New()
	supplier := newSupplier(t, tenantID, "SUP-001", "Acme Metals")
	require.NoError(t, suppliers.Save(ctx, supplier))

	number, err := orders.GenerateOrderNumber(ctx, tenantID)
	require.NoError(t, err)
	order := newOrder(t, tenantID, supplier.ID, number, 4, 6)
	require.NoError(t, orders.Save(ctx, order))

	t.Run("next number follows the stored one", func(t *testing.T) {
		next, err := orders.GenerateOrderNumber(ctx, tenantID)
		require.NoError(t, err)
		assert.NotEqual(t, number, next)
		assert.Greater(t, next, number)
	})

	t.Run("duplicate number in the same tenant", func(t *testing.T) {
		dup := newOrder(t, tenantID, supplier.ID, number, 1)
		assert.ErrorIs(t, orders.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("submit writes the event in the same transaction", func(t *testing.T) {
		loaded, err := orders.FindByIDForTenant(ctx, tenantID, order.ID)
		require.NoError(t, err)
		require.NoError(t, loaded.Submit(uuid.New()))
		require.NoError(t, orders.SaveWithLockAndEvents(ctx, loaded, loaded.GetDomainEvents()))

		pending, err := outboxRepo.FindPending(ctx, 10)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, procurement.EventTypePurchaseOrderSubmitted, pending[0].EventType)
		assert.Equal(t, order.ID, pending[0].AggregateID)
	})

	t.Run("stale writer loses", func(t *testing.T) {
		stale := order
		require.NoError(t, stale.SetNotes("stale"))
		assert.ErrorIs(t, orders.SaveWithLock(ctx, stale), shared.ErrConcurrencyConflict)
	})

	t.Run("other tenants cannot see the order", func(t *testing.T) {
		_, err := orders.FindByIDForTenant(ctx, uuid.New(), order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		count, err := orders.CountOpenBySupplier(ctx, tenantID, supplier.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

func TestPostgres_EffectivePriceLists(t *testing.T) {
	ctx := context.Background()
	db := setupPostgres(t)

	suppliers := NewGormSupplierRepository(db)
	lists := NewGormSupplierPriceListRepository(db)

	tenantID := uuid.New()
	supplier := newSupplier(t, tenantID, "SUP-002", "Globex")
	require.NoError(t, suppliers.Save(ctx, supplier))

	productID := uuid.New()
	until := utcDay(2026, 6, 30)
	spring := newPriceList(t, tenantID, supplier.ID, "PL-SPRING", utcDay(2026, 3, 1), &until)
	_, err := spring.AddItem(productID, "SKU-1", decimal.NewFromInt(9), decimal.NewFromInt(1), 3)
	require.NoError(t, err)
	base := newPriceList(t, tenantID, supplier.ID, "PL-BASE", utcDay(2026, 1, 1), nil)
	_, err = base.AddItem(productID, "SKU-1", decimal.NewFromInt(10), decimal.NewFromInt(1), 5)
	require.NoError(t, err)
	require.NoError(t, lists.Save(ctx, spring))
	require.NoError(t, lists.Save(ctx, base))

	effective, err := lists.FindEffectiveForSupplier(ctx, tenantID, supplier.ID, utcDay(2026, 6, 30))
	require.NoError(t, err)
	require.Len(t, effective, 2)
	assert.Equal(t, "PL-SPRING", effective[0].Code, "latest start wins")

	effective, err = lists.FindEffectiveForSupplier(ctx, tenantID, supplier.ID, utcDay(2026, 7, 1))
	require.NoError(t, err)
	require.Len(t, effective, 1)
	assert.Equal(t, "PL-BASE", effective[0].Code)

	dup := newPriceList(t, tenantID, supplier.ID, "pl-base", utcDay(2026, 2, 1), nil)
	assert.ErrorIs(t, lists.Save(ctx, dup), shared.ErrAlreadyExists)
}
