package domain

import "context"

// ProductRepository is the storage port for product aggregates. Lookups for
// a missing id return ErrNotFound, Delete on a missing id is a no-op, and Add
// assigns each product a fresh identity that is never reused, counting up
// from one.
type ProductRepository interface {
	// GetByID returns the product with the given identity.
	GetByID(ctx context.Context, id int64) (*Product, error)
	// GetAll returns every product in insertion order.
	GetAll(ctx context.Context) ([]*Product, error)
	// GetActive returns the active products in insertion order.
	GetActive(ctx context.Context) ([]*Product, error)
	// GetLowStock returns active products at or below threshold, including
	// those with no stock left.
	GetLowStock(ctx context.Context, threshold int) ([]*Product, error)
	// SearchByName returns active products whose name contains the term,
	// compared case-insensitively.
	SearchByName(ctx context.Context, name string) ([]*Product, error)
	// Add stores a new product and returns it with its assigned identity.
	Add(ctx context.Context, product *Product) (*Product, error)
	// Update replaces the stored product carrying the same identity.
	Update(ctx context.Context, product *Product) error
	// Delete removes the product with the given identity.
	Delete(ctx context.Context, id int64) error
	// Exists reports whether a product with the given identity is stored.
	Exists(ctx context.Context, id int64) (bool, error)
}
