package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/procurement/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// versionedWrite describes one aggregate row guarded by a version column
type versionedWrite struct {
	model   any // empty model, selects table and soft-delete scope
	id      uuid.UUID
	version int // version the caller loaded
	locked  bool
	insert  func(tx *gorm.DB) error
	columns func() map[string]any
}

// apply inserts the row when it was never stored, otherwise updates it and
// bumps the version. With locked set the update only succeeds if the stored
// version still equals w.version. It returns the version now stored.
func (w versionedWrite) apply(tx *gorm.DB, now time.Time) (int, error) {
	stored, found, err := storedVersion(tx, w.model, w.id)
	if err != nil {
		return 0, err
	}
	if !found {
		if err := w.insert(tx); err != nil {
			return 0, translateWriteError(err)
		}
		return w.version, nil
	}

	expected := stored
	if w.locked {
		if stored != w.version {
			return 0, shared.ErrConcurrencyConflict
		}
		expected = w.version
	}

	next := expected + 1
	columns := w.columns()
	columns["version"] = next
	columns["updated_at"] = now

	result := tx.Model(w.model).
		Where("id = ? AND version = ?", w.id, expected).
		Updates(columns)
	if result.Error != nil {
		return 0, translateWriteError(result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, shared.ErrConcurrencyConflict
	}
	return next, nil
}

// storedVersion reads the version column of row id. found is false when the
// row does not exist or is soft deleted.
func storedVersion(tx *gorm.DB, model any, id uuid.UUID) (version int, found bool, err error) {
	var row struct{ Version int }
	err = tx.Model(model).Select("version").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return row.Version, true, nil
}

// replaceChildren deletes child rows of parent that are not in keep
func replaceChildren(tx *gorm.DB, child any, parentColumn string, parentID uuid.UUID, keep []uuid.UUID) error {
	query := tx.Where(parentColumn+" = ?", parentID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	return query.Delete(child).Error
}

// saveOutbox writes events through saver inside tx; a nil saver or no events is a no-op
func saveOutbox(ctx context.Context, saver shared.OutboxEventSaver, tx *gorm.DB, events []shared.DomainEvent) error {
	if saver == nil || len(events) == 0 {
		return nil
	}
	if err := saver.SaveEvents(ctx, tx, events...); err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

// translateWriteError maps unique violations to ErrAlreadyExists. The
// connection must be opened with TranslateError.
func translateWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// notFound maps gorm.ErrRecordNotFound to shared.ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
