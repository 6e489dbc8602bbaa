package service

import (
	"errors"
	"fmt"

	"github.com/kiwari-pos/stockbook/internal/store"
	"github.com/shopspring/decimal"
)

// Errors returned by the session.
var (
	ErrValidation           = errors.New("invalid input")
	ErrNotFound             = errors.New("not found")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrEmptyOrder           = errors.New("order is empty")
	ErrImportFormat         = errors.New("invalid import file")
	ErrConfirmationNotFound = fmt.Errorf("confirmation %w", ErrNotFound)
)

// InsufficientStockError is returned when an order line asks for more than
// is in stock. It matches ErrInsufficientStock.
type InsufficientStockError struct {
	ProductID string
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: requested %s, available %s", ErrInsufficientStock, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// ErrorKind names the class of err for metrics labels and logs.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrEmptyOrder):
		return "empty_order"
	case errors.Is(err, ErrImportFormat):
		return "import_format"
	case errors.Is(err, store.ErrCorruptState):
		return "corrupt_state"
	default:
		return "internal"
	}
}

func validationError(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func productNotFound(id string) error {
	return fmt.Errorf("product %q %w", id, ErrNotFound)
}
