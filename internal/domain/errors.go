package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation indicates input that violates a domain rule.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound indicates the requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrInsufficientStock indicates a stock decrease larger than the
	// quantity on hand. It is a validation failure, so callers matching
	// ErrValidation catch it too.
	ErrInsufficientStock = fmt.Errorf("%w: insufficient stock", ErrValidation)
)
