// Package models defines client-side data models used by the POS offline core.
package models

// SaleItem is one line of a sale as rung up on the register.
type SaleItem struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	// UnitPrice is in minor currency units (cents).
	UnitPrice int64 `json:"unit_price"`
}

// SaleSnapshot is the full sale payload as it existed at submission time.
// Once queued it is immutable; the sync engine replays it verbatim.
type SaleSnapshot struct {
	Items         []SaleItem `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	Tax           int64      `json:"tax"`
	Total         int64      `json:"total"`
	PaymentMethod string     `json:"payment_method"`
	CashierID     string     `json:"cashier_id"`
	RegisterID    string     `json:"register_id"`
}

// OfflineSaleRecord is a sale waiting for server acknowledgment.
type OfflineSaleRecord struct {
	// TempID is the client-generated primary key and the idempotency token
	// presented to the create-sale endpoint. Never reused.
	TempID string

	// Payload is the sale as submitted; immutable once written.
	Payload SaleSnapshot

	// CreatedAt is the client clock timestamp in epoch milliseconds. Used
	// for ordering and display only; the server does its own sequencing.
	CreatedAt int64

	// RetryCount is the number of failed delivery attempts. It only grows.
	RetryCount int

	// Rejected marks a record the server definitively refused. Rejected
	// records are excluded from drains and wait for manual review.
	Rejected bool

	// LastError holds the message of the most recent delivery failure.
	LastError string
}
