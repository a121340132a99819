package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentArchive stores documents exchanged with suppliers
type DocumentArchive interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// DownloadURL returns a time-limited link to the document and its expiry
	DownloadURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error)
}

// DocumentPrinter renders a named document template to PDF
type DocumentPrinter interface {
	Print(ctx context.Context, templateName, title string, data any) ([]byte, error)
}

// OrderMetrics records procurement business metrics
type OrderMetrics interface {
	RecordOrderCreated(ctx context.Context, tenantID uuid.UUID)
	RecordOrderAmount(ctx context.Context, tenantID uuid.UUID, currency string, amount decimal.Decimal)
	RecordStatusTransition(ctx context.Context, tenantID uuid.UUID, from, to string)
	RecordReceipt(ctx context.Context, tenantID uuid.UUID, lines int, completed bool)
	RecordQuote(ctx context.Context, tenantID uuid.UUID, found bool)
}
