package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLowStockThreshold is the stock level at or below which an active
// product counts as running low.
const DefaultLowStockThreshold = 10

// Product is the catalog aggregate root. Its fields are reachable only
// through methods, so every state change passes the invariant checks: name
// and description are non-empty after trimming, the price amount is strictly
// positive and the stock quantity never drops below zero.
type Product struct {
	id            int64
	name          string
	description   string
	price         Money
	stockQuantity int
	isActive      bool
	createdAt     time.Time
	updatedAt     *time.Time
}

// NewProduct validates and builds a product. New products start active and
// carry no identity until a repository assigns one on Add. UpdatedAt stays
// nil until the first mutation.
func NewProduct(name, description string, price Money, stockQuantity int) (*Product, error) {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := validateDetails(name, description, price); err != nil {
		return nil, err
	}
	if stockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock quantity cannot be negative", ErrValidation)
	}

	return &Product{
		name:          name,
		description:   description,
		price:         price,
		stockQuantity: stockQuantity,
		isActive:      true,
		createdAt:     time.Now().UTC(),
	}, nil
}

// RestoreProduct rebuilds a product from stored state without running the
// constructor validations. It is meant for repositories loading trusted rows
// and for attaching a generated identity to a new aggregate.
func RestoreProduct(
	id int64,
	name, description string,
	price Money,
	stockQuantity int,
	isActive bool,
	createdAt time.Time,
	updatedAt *time.Time,
) *Product {
	return &Product{
		id:            id,
		name:          name,
		description:   description,
		price:         price,
		stockQuantity: stockQuantity,
		isActive:      isActive,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func validateDetails(name, description string, price Money) error {
	if name == "" {
		return fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if description == "" {
		return fmt.Errorf("%w: product description cannot be empty", ErrValidation)
	}
	if !price.Amount().IsPositive() {
		return fmt.Errorf("%w: product price must be greater than zero", ErrValidation)
	}
	return nil
}

// UpdateDetails replaces name, description and price together. All three are
// validated first, so a failure leaves the product unchanged.
func (p *Product) UpdateDetails(name, description string, price Money) error {
	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)
	if err := validateDetails(name, description, price); err != nil {
		return err
	}

	p.name = name
	p.description = description
	p.price = price
	p.touch()
	return nil
}

// UpdateStock sets the stock quantity to an exact value, as after an
// inventory recount.
func (p *Product) UpdateStock(quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w: stock quantity cannot be negative", ErrValidation)
	}
	p.stockQuantity = quantity
	p.touch()
	return nil
}

// DecreaseStock removes quantity units from stock. It fails with
// ErrInsufficientStock when more units are requested than are on hand, and
// the stock stays unchanged.
func (p *Product) DecreaseStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity to decrease must be greater than zero", ErrValidation)
	}
	if quantity > p.stockQuantity {
		return fmt.Errorf("%w: requested %d, only %d available", ErrInsufficientStock, quantity, p.stockQuantity)
	}
	p.stockQuantity -= quantity
	p.touch()
	return nil
}

// IncreaseStock adds quantity units to stock.
func (p *Product) IncreaseStock(quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity to increase must be greater than zero", ErrValidation)
	}
	p.stockQuantity += quantity
	p.touch()
	return nil
}

// Activate makes the product visible to the catalog. Activating an already
// active product is harmless.
func (p *Product) Activate() {
	p.isActive = true
	p.touch()
}

// Deactivate hides the product from the catalog without deleting it.
// Deactivating an already inactive product is harmless.
func (p *Product) Deactivate() {
	p.isActive = false
	p.touch()
}

// IsInStock reports whether the product is active with at least one unit on
// hand.
func (p *Product) IsInStock() bool {
	return p.isActive && p.stockQuantity > 0
}

// IsLowStock reports whether an active product is in stock but at or below
// threshold.
func (p *Product) IsLowStock(threshold int) bool {
	return p.isActive && p.stockQuantity > 0 && p.stockQuantity <= threshold
}

// IsOutOfStock reports whether stock is exhausted, regardless of the active
// flag.
func (p *Product) IsOutOfStock() bool {
	return p.stockQuantity == 0
}

func (p *Product) touch() {
	now := time.Now().UTC()
	p.updatedAt = &now
}

// ID returns the identity assigned by the repository, or zero for a product
// that has not been stored yet.
func (p *Product) ID() int64 {
	return p.id
}

// Name returns the product name.
func (p *Product) Name() string {
	return p.name
}

// Description returns the product description.
func (p *Product) Description() string {
	return p.description
}

// Price returns the product price.
func (p *Product) Price() Money {
	return p.price
}

// StockQuantity returns the units on hand.
func (p *Product) StockQuantity() int {
	return p.stockQuantity
}

// IsActive reports whether the product is visible to the catalog.
func (p *Product) IsActive() bool {
	return p.isActive
}

// CreatedAt returns when the product was constructed.
func (p *Product) CreatedAt() time.Time {
	return p.createdAt
}

// UpdatedAt returns when the product was last mutated, or nil if it never
// was.
func (p *Product) UpdatedAt() *time.Time {
	return p.updatedAt
}
