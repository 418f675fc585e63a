package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/possync/internal/logging"
	"github.com/dmitrijs2005/possync/internal/pos/models"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE IF NOT EXISTS pending_sales (
  temp_id     TEXT PRIMARY KEY,
  payload     TEXT NOT NULL,
  created_at  INTEGER NOT NULL,
  retry_count INTEGER NOT NULL DEFAULT 0,
  rejected    INTEGER NOT NULL DEFAULT 0,
  last_error  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
  id    TEXT PRIMARY KEY,
  name  TEXT NOT NULL,
  price INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeClient scripts the remote collaborator per test.
type fakeClient struct {
	createFn  func(ctx context.Context, sale models.SaleSnapshot, key string) (string, error)
	shiftFn   func(ctx context.Context) ([]models.ShiftSale, error)
	catalogFn func(ctx context.Context) ([]models.Product, error)
}

func (f *fakeClient) CreateSale(ctx context.Context, sale models.SaleSnapshot, key string) (string, error) {
	if f.createFn == nil {
		return "srv-" + key, nil
	}
	return f.createFn(ctx, sale, key)
}

func (f *fakeClient) ShiftOrders(ctx context.Context) ([]models.ShiftSale, error) {
	if f.shiftFn == nil {
		return nil, nil
	}
	return f.shiftFn(ctx)
}

func (f *fakeClient) Catalog(ctx context.Context) ([]models.Product, error) {
	if f.catalogFn == nil {
		return nil, nil
	}
	return f.catalogFn(ctx)
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func snapshotWithTotal(total int64) models.SaleSnapshot {
	return models.SaleSnapshot{
		Items:         []models.SaleItem{{ProductID: "p1", Name: "Coffee", Quantity: 1, UnitPrice: total}},
		Subtotal:      total,
		Total:         total,
		PaymentMethod: "cash",
	}
}
