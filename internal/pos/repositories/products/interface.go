package products

import (
	"context"

	"github.com/dmitrijs2005/possync/internal/pos/models"
)

// Repository describes the product-cache namespace of the local store.
type Repository interface {
	// ReplaceAll atomically swaps the whole cached catalog for the given
	// snapshot. An empty snapshot is a valid terminal state (explicit clear).
	// On error the previous snapshot stays intact.
	ReplaceAll(ctx context.Context, items []models.Product) error

	// GetAll returns the last successfully cached snapshot, or an empty
	// slice if the cache was never populated.
	GetAll(ctx context.Context) ([]models.Product, error)
}
