// Package services contains the POS offline core: the sale queue, the
// product cache, the sync engine and the shift history projection.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/pos/models"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/pending"
	"github.com/google/uuid"
)

// QueueService is the only component allowed to construct offline sale
// records from a live submission. Enqueue returning without error is the
// point at which a sale counts as safely recorded on the device.
type QueueService interface {
	// Enqueue persists the snapshot under a fresh temp id and returns it.
	// A storage failure is returned loudly; the cashier must know the sale
	// was not queued.
	Enqueue(ctx context.Context, sale models.SaleSnapshot) (string, error)

	// List returns all queued records, unordered.
	List(ctx context.Context) ([]models.OfflineSaleRecord, error)

	// Remove deletes a single record. Used by the sync engine after server
	// acknowledgment or by explicit manual abandonment.
	Remove(ctx context.Context, tempID string) error
}

type queueService struct {
	repo pending.Repository
	now  func() time.Time
}

func NewQueueService(repo pending.Repository) QueueService {
	return &queueService{repo: repo, now: time.Now}
}

func (s *queueService) Enqueue(ctx context.Context, sale models.SaleSnapshot) (string, error) {
	if len(sale.Items) == 0 {
		return "", common.ErrEmptySale
	}

	// uuid survives device restarts; a plain counter would collide after reload
	record := &models.OfflineSaleRecord{
		TempID:    uuid.NewString(),
		Payload:   sale,
		CreatedAt: s.now().UnixMilli(),
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return "", fmt.Errorf("failed to queue sale: %w", err)
	}
	return record.TempID, nil
}

func (s *queueService) List(ctx context.Context) ([]models.OfflineSaleRecord, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list queued sales: %w", err)
	}
	return records, nil
}

func (s *queueService) Remove(ctx context.Context, tempID string) error {
	if err := s.repo.DeleteByID(ctx, tempID); err != nil {
		return fmt.Errorf("failed to remove queued sale: %w", err)
	}
	return nil
}
