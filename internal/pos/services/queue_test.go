package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/pos/repositories/pending"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueue_PersistsBeforeReturning(t *testing.T) {
	db := setupDB(t)
	repo := pending.NewSQLiteRepository(db)
	q := NewQueueService(repo)
	ctx := context.Background()

	before := time.Now().UnixMilli()
	tempID, err := q.Enqueue(ctx, snapshotWithTotal(417))
	require.NoError(t, err)
	require.NotEmpty(t, tempID)

	records, err := q.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, tempID, records[0].TempID)
	assert.Equal(t, 0, records[0].RetryCount)
	assert.False(t, records[0].Rejected)
	assert.GreaterOrEqual(t, records[0].CreatedAt, before)
	assert.Equal(t, int64(417), records[0].Payload.Total)
}

func TestEnqueue_UniqueTempIDs(t *testing.T) {
	db := setupDB(t)
	q := NewQueueService(pending.NewSQLiteRepository(db))
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		id, err := q.Enqueue(ctx, snapshotWithTotal(100))
		require.NoError(t, err)
		require.False(t, seen[id], "temp id %s reused", id)
		seen[id] = true
	}

	records, err := q.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 20)
}

func TestEnqueue_EmptySale(t *testing.T) {
	db := setupDB(t)
	q := NewQueueService(pending.NewSQLiteRepository(db))

	_, err := q.Enqueue(context.Background(), snapshotWithTotal(0))
	require.NoError(t, err, "zero total with items is still a sale")

	empty := snapshotWithTotal(100)
	empty.Items = nil
	_, err = q.Enqueue(context.Background(), empty)
	require.ErrorIs(t, err, common.ErrEmptySale)
}

func TestEnqueue_StorageFailureIsLoud(t *testing.T) {
	db := setupDB(t)
	q := NewQueueService(pending.NewSQLiteRepository(db))
	require.NoError(t, db.Close())

	_, err := q.Enqueue(context.Background(), snapshotWithTotal(100))
	require.ErrorIs(t, err, common.ErrStorageUnavailable)
}

func TestRemove_ManualAbandonment(t *testing.T) {
	db := setupDB(t)
	q := NewQueueService(pending.NewSQLiteRepository(db))
	ctx := context.Background()

	tempID, err := q.Enqueue(ctx, snapshotWithTotal(100))
	require.NoError(t, err)
	require.NoError(t, q.Remove(ctx, tempID))

	records, err := q.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}
