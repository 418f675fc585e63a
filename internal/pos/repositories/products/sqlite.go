package products

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/possync/internal/common"
	"github.com/dmitrijs2005/possync/internal/dbx"
	"github.com/dmitrijs2005/possync/internal/pos/models"
)

// SQLiteRepository implements Repository on the local SQLite database.
// ReplaceAll runs in a single transaction so a snapshot swap can never leave
// a spliced mixture of old and new rows behind.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", common.ErrStorageUnavailable, op, err)
}

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, items []models.Product) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
			return err
		}
		query := `INSERT INTO products (id, name, price, stock) VALUES (?, ?, ?, ?)`
		for _, p := range items {
			if _, err := tx.ExecContext(ctx, query, p.ID, p.Name, p.Price, p.Stock); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storageErr("replace product snapshot", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	query := `SELECT id, name, price, stock FROM products ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storageErr("select products", err)
	}
	defer rows.Close()

	result := []models.Product{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
			return nil, storageErr("scan product", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate products", err)
	}
	return result, nil
}
