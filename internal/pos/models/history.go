package models

// SaleStatus tags a sale's provenance in merged shift views.
type SaleStatus string

const (
	// SaleStatusSynced means the server confirmed the sale.
	SaleStatusSynced SaleStatus = "synced"
	// SaleStatusPending means the sale sits in the local queue.
	SaleStatusPending SaleStatus = "pending"
	// SaleStatusFailed means the server rejected the payload and the record
	// waits for manual review.
	SaleStatusFailed SaleStatus = "failed"
)

// ShiftSale is a server-confirmed sale belonging to the active shift.
type ShiftSale struct {
	ID        string `json:"id"`
	Total     int64  `json:"total"`
	CreatedAt int64  `json:"created_at"`
}

// AggregatedSale is one row of the merged shift view: either a confirmed
// sale (server id, synced) or a queued one (prefixed temp id, pending/failed).
type AggregatedSale struct {
	ID         string
	Status     SaleStatus
	Total      int64
	CreatedAt  int64
	RetryCount int
}
