package sql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/iyhunko/product-catalog/internal/domain"
	"github.com/iyhunko/product-catalog/internal/outbox"
)

// TransactionalRepository runs catalog commands with the product write and
// the outbox event write bound to a single database transaction.
type TransactionalRepository struct {
	db *sql.DB
}

// NewTransactionalRepository creates a new TransactionalRepository.
func NewTransactionalRepository(db *sql.DB) *TransactionalRepository {
	return &TransactionalRepository{db: db}
}

// WithinTransaction begins a transaction, hands fn a product repository and
// an event recorder bound to it, and commits once fn succeeds. An error from
// fn rolls the transaction back and comes back unchanged, so callers can
// still match it with errors.Is.
func (tr *TransactionalRepository) WithinTransaction(ctx context.Context, fn func(repo domain.ProductRepository, events outbox.Recorder) error) error {
	tx, err := tr.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	productRepo := &ProductRepository{db: tr.db, txn: tx}
	eventRepo := &EventRepository{db: tr.db, txn: tx}

	if err := fn(productRepo, eventRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
