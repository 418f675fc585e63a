package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/pos/models"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/pending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSyncOptions() SyncOptions {
	return SyncOptions{
		AttemptTimeout:       time.Second,
		MaxAttemptsPerRecord: 1,
		BackoffBase:          time.Millisecond,
	}
}

func TestDrain_TwoFailuresThenSuccess(t *testing.T) {
	db := setupDB(t)
	repo := pending.NewSQLiteRepository(db)
	q := NewQueueService(repo)
	ctx := context.Background()

	tempID, err := q.Enqueue(ctx, snapshotWithTotal(417))
	require.NoError(t, err)

	calls := 0
	fc := &fakeClient{createFn: func(ctx context.Context, sale models.SaleSnapshot, key string) (string, error) {
		calls++
		if calls <= 2 {
			return "", errors.New("connection refused")
		}
		return "srv-1", nil
	}}
	s := NewSyncService(fc, repo, testLogger(), testSyncOptions())

	// two consecutive failing passes
	for i := 1; i <= 2; i++ {
		report, err := s.Drain(ctx)
		require.NoError(t, err)
		assert.Equal(t, DrainReport{Attempted: 1, Failed: 1}, report)

		records, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, records, 1, "failed sale must stay queued")
		assert.Equal(t, i, records[0].RetryCount)
		assert.Equal(t, "connection refused", records[0].LastError)
	}

	// third pass succeeds and dequeues
	report, err := s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Attempted: 1, Delivered: 1}, report)

	records, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	// no resurrection on later passes
	report, err = s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{}, report)
	_ = tempID
}

func TestDrain_DeliversOldestFirstWithIdempotencyKeys(t *testing.T) {
	db := setupDB(t)
	repo := pending.NewSQLiteRepository(db)
	ctx := context.Background()

	for i, createdAt := range []int64{300, 100, 200} {
		require.NoError(t, repo.Upsert(ctx, &models.OfflineSaleRecord{
			TempID:    fmt.Sprintf("t%d", createdAt),
			Payload:   snapshotWithTotal(int64(i)),
			CreatedAt: createdAt,
		}))
	}

	var keys []string
	fc := &fakeClient{createFn: func(ctx context.Context, sale models.SaleSnapshot, key string) (string, error) {
		keys = append(keys, key)
		return "srv-" + key, nil
	}}
	s := NewSyncService(fc, repo, testLogger(), testSyncOptions())

	report, err := s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Attempted: 3, Delivered: 3}, report)
	assert.Equal(t, []string{"t100", "t200", "t300"}, keys)
}

func TestDrain_RejectedPayloadStopsRetrying(t *testing.T) {
	db := setupDB(t)
	repo := pending.NewSQLiteRepository(db)
	q := NewQueueService(repo)
	ctx := context.Background()

	tempID, err := q.Enqueue(ctx, snapshotWithTotal(100))
	require.NoError(t, err)

	calls := 0
	fc := &fakeClient{createFn: func(ctx context.Context, sale models.SaleSnapshot, key string) (string, error) {
		calls++
		return "", fmt.Errorf("%w: unknown product", common.ErrRejectedPayload)
	}}
	s := NewSyncService(fc, repo, testLogger(), testSyncOptions())

	report, err := s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Attempted: 1, Rejected: 1}, report)
	assert.Equal(t, 1, calls)

	// record survives, flagged, retry counter untouched
	records, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, tempID, records[0].TempID)
	assert.True(t, records[0].Rejected)
	assert.Equal(t, 0, records[0].RetryCount)

	// the next pass skips rejected records entirely
	report, err = s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{}, report)
	assert.Equal(t, 1, calls)
}

func TestDrain_RetriesWithinPassUpToCap(t *testing.T) {
	db := setupDB(t)
	repo := pending.NewSQLiteRepository(db)
	q := NewQueueService(repo)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, snapshotWithTotal(100))
	require.NoError(t, err)

	calls := 0
	fc := &fakeClient{createFn: func(ctx context.Context, sale models.SaleSnapshot, key string) (string, error) {
		calls++
		return "", errors.New("timeout")
	}}
	opts := testSyncOptions()
	opts.MaxAttemptsPerRecord = 3
	s := NewSyncService(fc, repo, testLogger(), opts)

	report, err := s.Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, DrainReport{Attempted: 1, Failed: 1}, report)
	assert.Equal(t, 3, calls, "per-pass attempt cap")

	records, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 3, records[0].RetryCount, "every failed attempt counts")
}

func TestDrain_ConcurrentTriggersCoalesce(t *testing.T) {
	db := setupDB(t)
	repo := pending.NewSQLiteRepository(db)
	q := NewQueueService(repo)
	ctx := context.Background()

	_, err := q.Enqueue(ctx, snapshotWithTotal(100))
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	fc := &fakeClient{createFn: func(ctx context.Context, sale models.SaleSnapshot, key string) (string, error) {
		calls++
		close(entered)
		<-release
		return "srv-1", nil
	}}
	s := NewSyncService(fc, repo, testLogger(), testSyncOptions())

	var wg sync.WaitGroup
	reports := make([]DrainReport, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[0], errs[0] = s.Drain(ctx)
	}()

	<-entered // first drain is mid-flight

	wg.Add(1)
	go func() {
		defer wg.Done()
		reports[1], errs[1] = s.Drain(ctx)
	}()

	// give the second trigger a moment to join the in-flight pass
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 1, calls, "one submission despite two triggers")
	assert.Equal(t, reports[0], reports[1], "coalesced callers share the report")
}
