package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/logging"
	"github.com/dmitrijs2005/possync/internal/pos/client"
	"github.com/dmitrijs2005/possync/internal/pos/models"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/pending"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

// StuckRetryThreshold is the cumulative retry count at which a queued sale
// should be surfaced with escalated urgency. Records are never dropped for
// crossing it.
const StuckRetryThreshold = 5

// DrainReport summarizes one pass over the pending queue.
type DrainReport struct {
	Attempted int
	Delivered int
	Failed    int
	Rejected  int
}

// SyncService reconciles the local pending-sales queue with the remote
// create-sale endpoint.
type SyncService interface {
	// Drain delivers queued sales oldest-first. Concurrent calls coalesce
	// into a single pass; every caller receives the same report. Transient
	// delivery failures are absorbed into retry counters and never returned
	// as errors.
	Drain(ctx context.Context) (DrainReport, error)

	// StartAutoSync triggers Drain on the given interval until ctx is done.
	StartAutoSync(ctx context.Context, interval time.Duration)
}

// SyncOptions tunes the delivery loop.
type SyncOptions struct {
	// AttemptTimeout bounds each individual create-sale request.
	AttemptTimeout time.Duration
	// MaxAttemptsPerRecord caps delivery attempts for one record within a
	// single drain pass. The cumulative retry count keeps growing across
	// passes; records are never dropped for exceeding it.
	MaxAttemptsPerRecord uint64
	// BackoffBase is the initial delay of the exponential backoff between
	// attempts on the same record.
	BackoffBase time.Duration
}

func (o *SyncOptions) withDefaults() {
	if o.AttemptTimeout <= 0 {
		o.AttemptTimeout = 5 * time.Second
	}
	if o.MaxAttemptsPerRecord == 0 {
		o.MaxAttemptsPerRecord = 3
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = 500 * time.Millisecond
	}
}

type syncService struct {
	client client.Client
	repo   pending.Repository
	log    logging.Logger
	opts   SyncOptions
	group  singleflight.Group
}

func NewSyncService(client client.Client, repo pending.Repository, log logging.Logger, opts SyncOptions) SyncService {
	opts.withDefaults()
	return &syncService{client: client, repo: repo, log: log, opts: opts}
}

func (s *syncService) Drain(ctx context.Context) (DrainReport, error) {
	v, err, _ := s.group.Do("drain", func() (any, error) {
		return s.drain(ctx)
	})
	report, _ := v.(DrainReport)
	return report, err
}

func (s *syncService) drain(ctx context.Context) (DrainReport, error) {
	var report DrainReport

	records, err := s.repo.GetPending(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read pending queue: %w", err)
	}

	// oldest first, so earlier sales reach the server first
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt < records[j].CreatedAt })

	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		report.Attempted++

		serverID, err := s.deliver(ctx, rec)
		switch {
		case err == nil:
			if derr := s.repo.DeleteByID(ctx, rec.TempID); derr != nil {
				s.log.Error(ctx, "delivered sale could not be dequeued", "temp_id", rec.TempID, "error", derr)
				report.Failed++
				continue
			}
			report.Delivered++
			s.log.Info(ctx, "sale delivered", "temp_id", rec.TempID, "server_id", serverID)

		case errors.Is(err, common.ErrRejectedPayload):
			if merr := s.repo.MarkRejected(ctx, rec.TempID, err.Error()); merr != nil {
				s.log.Error(ctx, "failed to flag rejected sale", "temp_id", rec.TempID, "error", merr)
			}
			report.Rejected++
			s.log.Warn(ctx, "sale rejected by server, flagged for review", "temp_id", rec.TempID, "error", err)

		default:
			// retry counter was already bumped per attempt; the record stays
			// queued for the next trigger
			report.Failed++
			s.log.Warn(ctx, "sale delivery failed, will retry", "temp_id", rec.TempID,
				"retry_count", rec.RetryCount, "error", err)
		}
	}

	return report, nil
}

// deliver posts one record, retrying transient failures with exponential
// backoff up to the per-pass attempt cap. Every failed attempt increments
// the persistent retry counter. A definitive rejection aborts immediately.
func (s *syncService) deliver(ctx context.Context, rec models.OfflineSaleRecord) (string, error) {
	b := retry.NewExponential(s.opts.BackoffBase)
	b = retry.WithJitterPercent(10, b)
	b = retry.WithMaxRetries(s.opts.MaxAttemptsPerRecord-1, b)

	var serverID string
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, s.opts.AttemptTimeout)
		defer cancel()

		id, err := s.client.CreateSale(attemptCtx, rec.Payload, rec.TempID)
		if err != nil {
			if errors.Is(err, common.ErrRejectedPayload) {
				return err
			}
			if ierr := s.repo.IncrementRetry(ctx, rec.TempID, err.Error()); ierr != nil {
				s.log.Error(ctx, "failed to record delivery failure", "temp_id", rec.TempID, "error", ierr)
			}
			return retry.RetryableError(err)
		}
		serverID = id
		return nil
	})
	return serverID, err
}

func (s *syncService) StartAutoSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := s.Drain(ctx)
			if err != nil {
				s.log.Error(ctx, "drain pass failed", "error", err)
				continue
			}
			if report.Attempted > 0 {
				s.log.Info(ctx, "drain pass finished",
					"attempted", report.Attempted,
					"delivered", report.Delivered,
					"failed", report.Failed,
					"rejected", report.Rejected)
			}
		case <-ctx.Done():
			return
		}
	}
}
