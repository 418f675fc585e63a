package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/logging"
	"github.com/dmitrijs2005/possync/internal/pos/client"
	"github.com/dmitrijs2005/possync/internal/pos/models"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/pending"
)

// HistoryService projects the active shift as one time-ordered list merging
// server-confirmed sales with still-queued local ones. It is read-only.
type HistoryService interface {
	// ShiftHistory returns confirmed and queued sales, most recent first.
	// When the server is unreachable the view degrades to local records
	// only; being offline must not hide the queue from the cashier.
	ShiftHistory(ctx context.Context) ([]models.AggregatedSale, error)
}

type historyService struct {
	client client.Client
	repo   pending.Repository
	log    logging.Logger
}

func NewHistoryService(client client.Client, repo pending.Repository, log logging.Logger) HistoryService {
	return &historyService{client: client, repo: repo, log: log}
}

func (s *historyService) ShiftHistory(ctx context.Context) ([]models.AggregatedSale, error) {
	confirmed, err := s.client.ShiftOrders(ctx)
	if err != nil {
		s.log.Warn(ctx, "shift orders unavailable, showing local queue only", "error", err)
		confirmed = nil
	}

	queued, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read local queue: %w", err)
	}

	result := make([]models.AggregatedSale, 0, len(confirmed)+len(queued))
	for _, c := range confirmed {
		result = append(result, models.AggregatedSale{
			ID:        c.ID,
			Status:    models.SaleStatusSynced,
			Total:     c.Total,
			CreatedAt: c.CreatedAt,
		})
	}
	for _, q := range queued {
		status := models.SaleStatusPending
		if q.Rejected {
			status = models.SaleStatusFailed
		}
		result = append(result, models.AggregatedSale{
			ID:         common.TempIDPrefix + q.TempID,
			Status:     status,
			Total:      q.Payload.Total,
			CreatedAt:  q.CreatedAt,
			RetryCount: q.RetryCount,
		})
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt > result[j].CreatedAt })
	return result, nil
}
