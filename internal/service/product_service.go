package service

import (
	"context"

	"github.com/iyhunko/product-catalog/internal/domain"
	"github.com/iyhunko/product-catalog/internal/metrics"
	"github.com/iyhunko/product-catalog/internal/outbox"
	"github.com/iyhunko/product-catalog/internal/sqs"
)

// TxRunner runs a command with its product and event writes bound to one
// storage transaction.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(repo domain.ProductRepository, events outbox.Recorder) error) error
}

// ProductService orchestrates catalog use cases. It owns no catalog rules of
// its own: commands load an aggregate, call a domain method and persist the
// result, with domain and repository errors passing through unchanged.
type ProductService struct {
	repo   domain.ProductRepository
	events outbox.Recorder
	tx     TxRunner
}

// NewProductService creates a new ProductService. events and tx may be nil:
// without events no messages are produced, without tx commands run directly
// against the repository.
func NewProductService(repo domain.ProductRepository, events outbox.Recorder, tx TxRunner) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
		tx:     tx,
	}
}

// CreateProduct validates the request through the domain constructors and
// stores the new product.
func (ps *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*ProductDTO, error) {
	price, err := domain.NewMoney(req.Price.Amount, req.Price.Currency)
	if err != nil {
		return nil, err
	}
	product, err := domain.NewProduct(req.Name, req.Description, price, req.StockQuantity)
	if err != nil {
		return nil, err
	}

	var created *domain.Product
	err = ps.within(ctx, func(repo domain.ProductRepository, events outbox.Recorder) error {
		stored, err := repo.Add(ctx, product)
		if err != nil {
			return err
		}
		if err := recordEvent(ctx, events, outbox.EventTypeProductCreated, stored); err != nil {
			return err
		}
		created = stored
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsCreated.Inc()
	return NewProductDTO(created), nil
}

// GetProduct returns the product with the given identity.
func (ps *ProductService) GetProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	product, err := ps.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// GetAllProducts returns every product in insertion order.
func (ps *ProductService) GetAllProducts(ctx context.Context) ([]*ProductDTO, error) {
	products, err := ps.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewProductDTOs(products), nil
}

// GetActiveProducts returns the active products.
func (ps *ProductService) GetActiveProducts(ctx context.Context) ([]*ProductDTO, error) {
	products, err := ps.repo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	return NewProductDTOs(products), nil
}

// GetLowStockProducts returns active products at or below threshold.
func (ps *ProductService) GetLowStockProducts(ctx context.Context, threshold int) ([]*ProductDTO, error) {
	products, err := ps.repo.GetLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	return NewProductDTOs(products), nil
}

// SearchProducts returns active products whose name contains the term.
func (ps *ProductService) SearchProducts(ctx context.Context, name string) ([]*ProductDTO, error) {
	products, err := ps.repo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewProductDTOs(products), nil
}

// UpdateProduct replaces a product's name, description and price.
func (ps *ProductService) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*ProductDTO, error) {
	price, err := domain.NewMoney(req.Price.Amount, req.Price.Currency)
	if err != nil {
		return nil, err
	}

	updated, err := ps.mutate(ctx, id, outbox.EventTypeProductUpdated, func(product *domain.Product) error {
		return product.UpdateDetails(req.Name, req.Description, price)
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	return NewProductDTO(updated), nil
}

// UpdateStock sets a product's stock to an exact quantity.
func (ps *ProductService) UpdateStock(ctx context.Context, id int64, req UpdateStockRequest) (*ProductDTO, error) {
	updated, err := ps.mutate(ctx, id, outbox.EventTypeProductStockChanged, func(product *domain.Product) error {
		return product.UpdateStock(req.StockQuantity)
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductStockChanges.Inc()
	return NewProductDTO(updated), nil
}

// ActivateProduct makes a product visible to the catalog.
func (ps *ProductService) ActivateProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	updated, err := ps.mutate(ctx, id, outbox.EventTypeProductUpdated, func(product *domain.Product) error {
		product.Activate()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	return NewProductDTO(updated), nil
}

// DeactivateProduct hides a product from the catalog.
func (ps *ProductService) DeactivateProduct(ctx context.Context, id int64) (*ProductDTO, error) {
	updated, err := ps.mutate(ctx, id, outbox.EventTypeProductUpdated, func(product *domain.Product) error {
		product.Deactivate()
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ProductsUpdated.Inc()
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product. Deleting an unknown identity fails with
// domain.ErrNotFound.
func (ps *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	err := ps.within(ctx, func(repo domain.ProductRepository, events outbox.Recorder) error {
		product, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, product.ID()); err != nil {
			return err
		}
		return recordEvent(ctx, events, outbox.EventTypeProductDeleted, product)
	})
	if err != nil {
		return err
	}

	metrics.ProductsDeleted.Inc()
	return nil
}

// mutate runs the load, domain call, persist, event sequence shared by every
// command that changes an existing product.
func (ps *ProductService) mutate(ctx context.Context, id int64, eventType string, change func(*domain.Product) error) (*domain.Product, error) {
	var updated *domain.Product
	err := ps.within(ctx, func(repo domain.ProductRepository, events outbox.Recorder) error {
		product, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := change(product); err != nil {
			return err
		}
		if err := repo.Update(ctx, product); err != nil {
			return err
		}
		if err := recordEvent(ctx, events, eventType, product); err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// within runs fn transactionally when a TxRunner is configured, otherwise
// directly against the service's repository and recorder.
func (ps *ProductService) within(ctx context.Context, fn func(repo domain.ProductRepository, events outbox.Recorder) error) error {
	if ps.tx != nil {
		return ps.tx.WithinTransaction(ctx, fn)
	}
	return fn(ps.repo, ps.events)
}

var eventActions = map[string]string{
	outbox.EventTypeProductCreated:      sqs.ActionCreated,
	outbox.EventTypeProductUpdated:      sqs.ActionUpdated,
	outbox.EventTypeProductDeleted:      sqs.ActionDeleted,
	outbox.EventTypeProductStockChanged: sqs.ActionStockChanged,
}

// recordEvent stages a product event with the given recorder. A nil recorder
// means eventing is disabled.
func recordEvent(ctx context.Context, events outbox.Recorder, eventType string, product *domain.Product) error {
	if events == nil {
		return nil
	}

	msg := sqs.ProductMessage{
		Action:        eventActions[eventType],
		ProductID:     product.ID(),
		Name:          product.Name(),
		PriceAmount:   product.Price().Amount(),
		PriceCurrency: product.Price().Currency(),
		StockQuantity: product.StockQuantity(),
	}
	event, err := outbox.NewEvent(eventType, msg)
	if err != nil {
		return err
	}
	return events.Record(ctx, event)
}
