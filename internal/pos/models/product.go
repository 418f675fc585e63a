package models

// Product is a point-in-time mirror of one upstream catalog item, cached
// locally so the register can ring up sales with no network.
type Product struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Price is in minor currency units (cents).
	Price int64 `json:"price"`
	Stock int64 `json:"stock"`
}
