package pending

import (
	"context"

	"github.com/dmitrijs2005/possync/internal/pos/models"
)

// Repository describes the pending-sales namespace of the local store.
// Only the queue service (creates, manual removal) and the sync engine
// (retry accounting, deletions) may write through it.
type Repository interface {
	// Upsert inserts or replaces a record keyed by its TempID.
	Upsert(ctx context.Context, record *models.OfflineSaleRecord) error

	// GetAll returns every record in the namespace, rejected ones included.
	// No ordering is guaranteed; callers sort by CreatedAt if they care.
	GetAll(ctx context.Context) ([]models.OfflineSaleRecord, error)

	// GetPending returns only records still eligible for automatic delivery
	// (not rejected).
	GetPending(ctx context.Context) ([]models.OfflineSaleRecord, error)

	// DeleteByID removes a record. Deleting an absent id is a no-op, so a
	// delayed duplicate success response cannot fail the drain.
	DeleteByID(ctx context.Context, tempID string) error

	// IncrementRetry bumps the retry counter by one and stores the failure
	// message. Returns common.ErrorNotFound if the record is gone.
	IncrementRetry(ctx context.Context, tempID string, lastError string) error

	// MarkRejected flags a record as definitively refused by the server,
	// taking it out of the automatic retry loop.
	MarkRejected(ctx context.Context, tempID string, reason string) error
}
