// Package client talks to the remote sales service. The POS core consumes
// three endpoints only: create-sale (with idempotency key), current-shift
// orders, and the product catalog.
package client

import (
	"context"

	"github.com/dmitrijs2005/possync/internal/pos/models"
)

// Client is the remote collaborator boundary. The create-sale endpoint must
// deduplicate by idempotency key across retries; the sync engine's
// correctness depends on that contract.
type Client interface {
	// CreateSale submits a sale payload and returns the server-issued sale
	// id. Transient failures (network, timeout, 5xx, 408, 429) come back as
	// plain errors; a definitive refusal wraps common.ErrRejectedPayload.
	CreateSale(ctx context.Context, sale models.SaleSnapshot, idempotencyKey string) (string, error)

	// ShiftOrders returns the server-confirmed sales of the active shift.
	ShiftOrders(ctx context.Context) ([]models.ShiftSale, error)

	// Catalog returns the current upstream product list.
	Catalog(ctx context.Context) ([]models.Product, error)

	// Ping probes server reachability.
	Ping(ctx context.Context) error
}
