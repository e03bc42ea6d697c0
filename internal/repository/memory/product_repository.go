package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iyhunko/product-catalog/internal/domain"
)

// ProductRepository is the in-memory implementation of
// domain.ProductRepository. It is safe for concurrent use and hands out
// copies, so stored aggregates change only through Update.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	nextID   int64
}

// NewProductRepository creates an empty in-memory product repository.
func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[int64]*domain.Product)}
}

// GetByID returns the product with the given identity.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(product), nil
}

// GetAll returns every product in insertion order.
func (r *ProductRepository) GetAll(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(func(*domain.Product) bool { return true }), nil
}

// GetActive returns the active products in insertion order.
func (r *ProductRepository) GetActive(ctx context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(func(product *domain.Product) bool {
		return product.IsActive()
	}), nil
}

// GetLowStock returns active products at or below threshold, including those
// with no stock left.
func (r *ProductRepository) GetLowStock(ctx context.Context, threshold int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collectLocked(func(product *domain.Product) bool {
		return product.IsActive() && product.StockQuantity() <= threshold
	}), nil
}

// SearchByName returns active products whose name contains the term,
// compared case-insensitively.
func (r *ProductRepository) SearchByName(ctx context.Context, name string) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term := strings.ToLower(name)
	return r.collectLocked(func(product *domain.Product) bool {
		return product.IsActive() && strings.Contains(strings.ToLower(product.Name()), term)
	}), nil
}

// Add stores a new product and returns it with its assigned identity.
// Identities count up from one and are never reused, not even after Delete.
func (r *ProductRepository) Add(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	stored := cloneWithID(product, r.nextID)
	r.products[stored.ID()] = stored
	return clone(stored), nil
}

// Update replaces the stored product carrying the same identity.
func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID()]; !ok {
		return domain.ErrNotFound
	}
	r.products[product.ID()] = clone(product)
	return nil
}

// Delete removes the product with the given identity. Deleting an absent
// identity is a no-op.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

// Exists reports whether a product with the given identity is stored.
func (r *ProductRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.products[id]
	return ok, nil
}

// collectLocked returns clones of the stored products matching the filter,
// ordered by ascending identity. Identities are monotonic, so that is
// insertion order. Callers must hold at least a read lock.
func (r *ProductRepository) collectLocked(match func(*domain.Product) bool) []*domain.Product {
	ids := make([]int64, 0, len(r.products))
	for id := range r.products {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if product := r.products[id]; match(product) {
			products = append(products, clone(product))
		}
	}
	return products
}

func clone(product *domain.Product) *domain.Product {
	return cloneWithID(product, product.ID())
}

func cloneWithID(product *domain.Product, id int64) *domain.Product {
	var updatedAt *time.Time
	if t := product.UpdatedAt(); t != nil {
		u := *t
		updatedAt = &u
	}
	return domain.RestoreProduct(
		id,
		product.Name(),
		product.Description(),
		product.Price(),
		product.StockQuantity(),
		product.IsActive(),
		product.CreatedAt(),
		updatedAt,
	)
}
