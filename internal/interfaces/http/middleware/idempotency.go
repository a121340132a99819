package middleware

import (
	"bytes"
	"context"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/erp/procurement/internal/infrastructure/cache"
	"github.com/erp/procurement/internal/infrastructure/logger"
	"github.com/erp/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Idempotency headers
const (
	IdempotencyKeyHeader     = "Idempotency-Key"
	IdempotentReplayedHeader = "Idempotent-Replayed"
	maxIdempotencyKeyLength  = 255
)

// IdempotencyConfig holds configuration for the Idempotency-Key guard
type IdempotencyConfig struct {
	Store cache.ReplayStore
	// TTL is how long a key and its response are remembered
	TTL time.Duration
	// Methods guarded by the middleware, POST when empty
	Methods []string
	Logger  *zap.Logger
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key already answered for the same tenant and path. A key whose
// first request is still running gets a 409. Server errors and handler panics
// release the key so the client may retry.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if len(cfg.Methods) == 0 {
		cfg.Methods = []string{http.MethodPost}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
		if key == "" || cfg.Store == nil || !slices.Contains(cfg.Methods, c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		ctx := c.Request.Context()
		log := logger.For(ctx, cfg.Logger)
		storeKey := idempotencyStoreKey(c, key)

		if replayStored(c, cfg.Store, storeKey) {
			return
		}

		claimed, err := cfg.Store.MarkProcessed(ctx, storeKey, cfg.TTL)
		if err != nil {
			log.Warn("Idempotency store unavailable, serving request unguarded", zap.Error(err))
			c.Next()
			return
		}
		if !claimed {
			if replayStored(c, cfg.Store, storeKey) {
				return
			}
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeIdempotencyInFlight,
				"A request with this Idempotency-Key is still being processed",
				GetRequestID(c),
			))
			return
		}

		recorder := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = recorder

		// The client may be gone; the outcome still has to be recorded.
		saveCtx := context.WithoutCancel(ctx)
		release := func() {
			if err := cfg.Store.Release(saveCtx, storeKey); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}

		// A panic skips everything after c.Next, so the key is freed on the way
		// out and the panic continues to the recovery middleware.
		defer func() {
			if rec := recover(); rec != nil {
				release()
				panic(rec)
			}
		}()
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			release()
			return
		}
		err = cfg.Store.SaveResponse(saveCtx, storeKey, cache.StoredResponse{
			StatusCode:  status,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		}, cfg.TTL)
		if err != nil {
			log.Warn("Failed to store idempotent response", zap.Error(err))
		}
	}
}

func idempotencyStoreKey(c *gin.Context, key string) string {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		tenantID = c.GetHeader(TenantHeaderKey)
	}
	return "http:" + tenantID + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key
}

func replayStored(c *gin.Context, store cache.ReplayStore, storeKey string) bool {
	stored, err := store.LoadResponse(c.Request.Context(), storeKey)
	if err != nil || stored == nil {
		return false
	}
	c.Header(IdempotentReplayedHeader, "true")
	contentType := stored.ContentType
	if contentType == "" {
		contentType = "application/json; charset=utf-8"
	}
	c.Data(stored.StatusCode, contentType, stored.Body)
	c.Abort()
	return true
}

type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
