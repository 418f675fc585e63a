package pending

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/pos/models"
)

// SQLiteRepository implements Repository on the local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// storageErr tags a driver failure with the storage sentinel so callers can
// distinguish "could not persist" from domain errors via errors.Is.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStorageUnavailable, op, err)
}

func (r *SQLiteRepository) Upsert(ctx context.Context, record *models.OfflineSaleRecord) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode sale payload: %w", err)
	}

	query := `INSERT INTO pending_sales (temp_id, payload, created_at, retry_count, rejected, last_error)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(temp_id) DO UPDATE SET payload = excluded.payload,
				created_at = excluded.created_at,
				retry_count = excluded.retry_count,
				rejected = excluded.rejected,
				last_error = excluded.last_error
	`
	_, err = r.db.ExecContext(ctx, query,
		record.TempID, string(payload), record.CreatedAt, record.RetryCount, record.Rejected, record.LastError)
	if err != nil {
		return storageErr("upsert pending sale", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.OfflineSaleRecord, error) {
	return r.selectRecords(ctx,
		`SELECT temp_id, payload, created_at, retry_count, rejected, last_error FROM pending_sales`)
}

func (r *SQLiteRepository) GetPending(ctx context.Context) ([]models.OfflineSaleRecord, error) {
	return r.selectRecords(ctx,
		`SELECT temp_id, payload, created_at, retry_count, rejected, last_error FROM pending_sales WHERE rejected = 0`)
}

func (r *SQLiteRepository) selectRecords(ctx context.Context, query string) ([]models.OfflineSaleRecord, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("select pending sales", err)
	}
	defer rows.Close()

	var result []models.OfflineSaleRecord
	for rows.Next() {
		var item models.OfflineSaleRecord
		var payload string
		var rejected int
		if err := rows.Scan(&item.TempID, &payload, &item.CreatedAt, &item.RetryCount, &rejected, &item.LastError); err != nil {
			return nil, storageErr("scan pending sale", err)
		}
		if err := json.Unmarshal([]byte(payload), &item.Payload); err != nil {
			return nil, fmt.Errorf("failed to decode sale payload for %s: %w", item.TempID, err)
		}
		item.Rejected = rejected != 0
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate pending sales", err)
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, tempID string) error {
	query := `DELETE FROM pending_sales WHERE temp_id = ?`
	if _, err := r.db.ExecContext(ctx, query, tempID); err != nil {
		return storageErr("delete pending sale", err)
	}
	return nil
}

func (r *SQLiteRepository) IncrementRetry(ctx context.Context, tempID string, lastError string) error {
	query := `UPDATE pending_sales SET retry_count = retry_count + 1, last_error = ? WHERE temp_id = ?`
	res, err := r.db.ExecContext(ctx, query, lastError, tempID)
	if err != nil {
		return storageErr("increment retry count", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if ra != 1 {
		return fmt.Errorf("increment retry for %s: %w", tempID, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) MarkRejected(ctx context.Context, tempID string, reason string) error {
	query := `UPDATE pending_sales SET rejected = 1, last_error = ? WHERE temp_id = ?`
	res, err := r.db.ExecContext(ctx, query, reason, tempID)
	if err != nil {
		return storageErr("mark sale rejected", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return storageErr("rows affected", err)
	}
	if ra != 1 {
		return fmt.Errorf("mark rejected for %s: %w", tempID, common.ErrorNotFound)
	}
	return nil
}
