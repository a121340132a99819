package cache

import (
	"context"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
)

// StoredResponse is an HTTP response kept for Idempotency-Key replays
type StoredResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// ReplayStore extends the idempotency store with the response of the first
// request, so a retried request gets the same answer.
type ReplayStore interface {
	shared.IdempotencyStore
	// SaveResponse keeps resp under key for ttl
	SaveResponse(ctx context.Context, key string, resp StoredResponse, ttl time.Duration) error
	// LoadResponse returns nil when no response was stored
	LoadResponse(ctx context.Context, key string) (*StoredResponse, error)
	// Release forgets key so the request can be retried, e.g. after a server error
	Release(ctx context.Context, key string) error
}
