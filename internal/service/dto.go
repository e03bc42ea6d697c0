package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/iyhunko/product-catalog/internal/domain"
	"github.com/shopspring/decimal"
)

// MoneyDTO carries a price across the API boundary.
type MoneyDTO struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// ProductDTO is the API representation of a product. The stock flags are
// computed during conversion so clients need no knowledge of the stock
// rules.
type ProductDTO struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Price         MoneyDTO   `json:"price"`
	StockQuantity int        `json:"stockQuantity"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt"`
	IsInStock     bool       `json:"isInStock"`
	IsLowStock    bool       `json:"isLowStock"`
	IsOutOfStock  bool       `json:"isOutOfStock"`
}

// NewProductDTO converts a product aggregate into its API representation.
func NewProductDTO(product *domain.Product) *ProductDTO {
	return &ProductDTO{
		ID:            product.ID(),
		Name:          product.Name(),
		Description:   product.Description(),
		Price:         MoneyDTO{Amount: product.Price().Amount(), Currency: product.Price().Currency()},
		StockQuantity: product.StockQuantity(),
		IsActive:      product.IsActive(),
		CreatedAt:     product.CreatedAt(),
		UpdatedAt:     product.UpdatedAt(),
		IsInStock:     product.IsInStock(),
		IsLowStock:    product.IsLowStock(domain.DefaultLowStockThreshold),
		IsOutOfStock:  product.IsOutOfStock(),
	}
}

// NewProductDTOs converts a slice of aggregates. It always returns a
// non-nil slice, so empty lists serialize as [] instead of null.
func NewProductDTOs(products []*domain.Product) []*ProductDTO {
	dtos := make([]*ProductDTO, 0, len(products))
	for _, product := range products {
		dtos = append(dtos, NewProductDTO(product))
	}
	return dtos
}

// CreateProductRequest carries the fields needed to create a product.
type CreateProductRequest struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         MoneyDTO `json:"price"`
	StockQuantity int      `json:"stockQuantity"`
}

// Validate checks the request at the API boundary. The domain rules run
// again on construction.
func (r CreateProductRequest) Validate() error {
	if err := validateDetailFields(r.Name, r.Description, r.Price); err != nil {
		return err
	}
	if r.StockQuantity < 0 {
		return fmt.Errorf("%w: stockQuantity cannot be negative", domain.ErrValidation)
	}
	return nil
}

// UpdateProductRequest carries the replacement name, description and price
// for a product.
type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       MoneyDTO `json:"price"`
}

// Validate checks the request at the API boundary.
func (r UpdateProductRequest) Validate() error {
	return validateDetailFields(r.Name, r.Description, r.Price)
}

// UpdateStockRequest carries the new stock quantity for a product.
type UpdateStockRequest struct {
	StockQuantity int `json:"stockQuantity"`
}

// Validate checks the request at the API boundary.
func (r UpdateStockRequest) Validate() error {
	if r.StockQuantity < 0 {
		return fmt.Errorf("%w: stockQuantity cannot be negative", domain.ErrValidation)
	}
	return nil
}

func validateDetailFields(name, description string, price MoneyDTO) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if strings.TrimSpace(description) == "" {
		return fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	if !price.Amount.IsPositive() {
		return fmt.Errorf("%w: price.amount must be greater than zero", domain.ErrValidation)
	}
	if strings.TrimSpace(price.Currency) == "" {
		return fmt.Errorf("%w: price.currency is required", domain.ErrValidation)
	}
	return nil
}
