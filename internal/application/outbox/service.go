// Package outbox lets operators inspect the transactional outbox and replay
// entries that exhausted their delivery retries.
package outbox

import (
	"context"
	"errors"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	retryBatchSize  = 100
)

var errEntryNotFound = shared.NewDomainError("OUTBOX_ENTRY_NOT_FOUND", "Outbox entry not found")

// Service manages dead-lettered domain events
type Service struct {
	repo   shared.OutboxRepository
	logger *zap.Logger
}

// NewService creates a new outbox Service
func NewService(repo shared.OutboxRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// EntryResponse is an outbox entry as shown to operators
type EntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	EventID       uuid.UUID  `json:"event_id"`
	EventType     string     `json:"event_type"`
	AggregateID   uuid.UUID  `json:"aggregate_id"`
	AggregateType string     `json:"aggregate_type"`
	Status        string     `json:"status"`
	RetryCount    int        `json:"retry_count"`
	MaxRetries    int        `json:"max_retries"`
	LastError     string     `json:"last_error,omitempty"`
	NextRetryAt   *time.Time `json:"next_retry_at,omitempty"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ListRequest pages through dead letters
type ListRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// StatsResponse counts entries by delivery status
type StatsResponse struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Sent       int64 `json:"sent"`
	Failed     int64 `json:"failed"`
	Dead       int64 `json:"dead"`
	Total      int64 `json:"total"`
}

// RetryAllResponse reports how many dead letters were requeued
type RetryAllResponse struct {
	Requeued int64 `json:"requeued"`
}

// ListDead returns a page of dead letters, most recently failed first
func (s *Service) ListDead(ctx context.Context, req ListRequest) ([]EntryResponse, int64, error) {
	page := max(req.Page, 1)
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	entries, total, err := s.repo.FindDead(ctx, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = toEntryResponse(e)
	}
	return out, total, nil
}

// Get returns a single entry
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toEntryResponse(entry)
	return &resp, nil
}

// Retry puts a dead letter back in the pending queue
func (s *Service) Retry(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("Outbox entry requeued",
		zap.String("entry_id", id.String()),
		zap.String("event_type", entry.EventType),
		zap.String("tenant_id", entry.TenantID.String()),
	)
	resp := toEntryResponse(entry)
	return &resp, nil
}

// RetryAll requeues every dead letter. Requeued entries leave the dead set,
// so the first page is read until it comes back empty.
func (s *Service) RetryAll(ctx context.Context) (*RetryAllResponse, error) {
	var requeued int64
	for {
		entries, _, err := s.repo.FindDead(ctx, 1, retryBatchSize)
		if err != nil {
			return nil, err
		}
		var batch int64
		for _, entry := range entries {
			if entry.ResetForRetry() != nil {
				continue
			}
			if err := s.repo.Update(ctx, entry); err != nil {
				s.logger.Warn("Failed to requeue outbox entry",
					zap.String("entry_id", entry.ID.String()), zap.Error(err))
				continue
			}
			batch++
		}
		requeued += batch
		if len(entries) < retryBatchSize || batch == 0 {
			break
		}
	}

	s.logger.Info("Dead letters requeued", zap.Int64("count", requeued))
	return &RetryAllResponse{Requeued: requeued}, nil
}

// Stats counts entries by status
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &StatsResponse{
		Pending:    counts[shared.OutboxStatusPending],
		Processing: counts[shared.OutboxStatusProcessing],
		Sent:       counts[shared.OutboxStatusSent],
		Failed:     counts[shared.OutboxStatusFailed],
		Dead:       counts[shared.OutboxStatusDead],
		Total:      total,
	}, nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	entry, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) || (err == nil && entry == nil) {
		return nil, errEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func toEntryResponse(e *shared.OutboxEntry) EntryResponse {
	return EntryResponse{
		ID:            e.ID,
		TenantID:      e.TenantID,
		EventID:       e.EventID,
		EventType:     e.EventType,
		AggregateID:   e.AggregateID,
		AggregateType: e.AggregateType,
		Status:        string(e.Status),
		RetryCount:    e.RetryCount,
		MaxRetries:    e.MaxRetries,
		LastError:     e.LastError,
		NextRetryAt:   e.NextRetryAt,
		ProcessedAt:   e.ProcessedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
