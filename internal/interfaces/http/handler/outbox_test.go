package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/procurement/internal/application/outbox"
	"github.com/erp/procurement/internal/domain/shared"
	"github.com/erp/procurement/internal/infrastructure/event"
	"github.com/erp/procurement/internal/infrastructure/persistence/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newOutboxAPI(t *testing.T) (*gin.Engine, *event.GormOutboxRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&models.OutboxEntryModel{}))

	repo := event.NewGormOutboxRepository(db)
	h := NewOutboxHandler(outbox.NewService(repo, zap.NewNop()))

	router := gin.New()
	g := router.Group("/system/outbox")
	g.GET("/dead", h.ListDead)
	g.POST("/dead/retry-all", h.RetryAll)
	g.GET("/stats", h.Stats)
	g.GET("/:id", h.GetEntry)
	g.POST("/:id/retry", h.Retry)
	return router, repo
}

func saveOutboxEntry(t *testing.T, repo *event.GormOutboxRepository, status shared.OutboxStatus) *shared.OutboxEntry {
	t.Helper()
	now := time.Now()
	entry := &shared.OutboxEntry{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		EventID:       uuid.New(),
		EventType:     "PurchaseOrderSent",
		AggregateID:   uuid.New(),
		AggregateType: "PurchaseOrder",
		Payload:       []byte(`{}`),
		Status:        status,
		MaxRetries:    5,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == shared.OutboxStatusDead {
		entry.RetryCount = 5
		entry.LastError = "bucket unavailable"
	}
	require.NoError(t, repo.Save(context.Background(), entry))
	return entry
}

func outboxRequest(router http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestOutboxHandler(t *testing.T) {
	router, repo := newOutboxAPI(t)
	dead := saveOutboxEntry(t, repo, shared.OutboxStatusDead)
	saveOutboxEntry(t, repo, shared.OutboxStatusDead)
	sent := saveOutboxEntry(t, repo, shared.OutboxStatusSent)

	t.Run("stats", func(t *testing.T) {
		w := outboxRequest(router, http.MethodGet, "/system/outbox/stats")
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[outbox.StatsResponse](t, w)
		assert.Equal(t, int64(2), stats.Dead)
		assert.Equal(t, int64(1), stats.Sent)
		assert.Equal(t, int64(3), stats.Total)
	})

	t.Run("list dead letters", func(t *testing.T) {
		w := outboxRequest(router, http.MethodGet, "/system/outbox/dead?page_size=1")
		require.Equal(t, http.StatusOK, w.Code)
		var resp APIResponse[[]outbox.EntryResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(2), resp.Meta.Total)
		assert.Equal(t, "DEAD", resp.Data[0].Status)

		assert.Equal(t, http.StatusBadRequest, outboxRequest(router, http.MethodGet, "/system/outbox/dead?page_size=1000").Code)
	})

	t.Run("get entry", func(t *testing.T) {
		w := outboxRequest(router, http.MethodGet, "/system/outbox/"+dead.ID.String())
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "bucket unavailable", decode[outbox.EntryResponse](t, w).LastError)

		w = outboxRequest(router, http.MethodGet, "/system/outbox/"+uuid.NewString())
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "OUTBOX_ENTRY_NOT_FOUND", errorCode(t, w))
	})

	t.Run("retry", func(t *testing.T) {
		w := outboxRequest(router, http.MethodPost, "/system/outbox/"+dead.ID.String()+"/retry")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "PENDING", decode[outbox.EntryResponse](t, w).Status)

		w = outboxRequest(router, http.MethodPost, "/system/outbox/"+sent.ID.String()+"/retry")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "OUTBOX_ENTRY_INVALID_STATE", errorCode(t, w))
	})

	t.Run("retry all", func(t *testing.T) {
		w := outboxRequest(router, http.MethodPost, "/system/outbox/dead/retry-all")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(1), decode[outbox.RetryAllResponse](t, w).Requeued)

		w = outboxRequest(router, http.MethodGet, "/system/outbox/stats")
		assert.Zero(t, decode[outbox.StatsResponse](t, w).Dead)
	})
}
