// Package inventory holds the records the stock book is made of: products,
// order lines, working and historical orders, and the sales statistics.
package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/shopspring/decimal"
)

// ErrInvalidProduct is wrapped by every product validation failure.
var ErrInvalidProduct = errors.New("invalid product")

// UnitKind says how a product is counted: whole units or by weight.
type UnitKind string

const (
	UnitKindUnit   UnitKind = enum.UnitKindUnit
	UnitKindWeight UnitKind = enum.UnitKindWeight
)

// Valid reports whether k is a known unit kind.
func (k UnitKind) Valid() bool {
	switch k {
	case UnitKindUnit, UnitKindWeight:
		return true
	}
	return false
}

// Short is the compact label shown next to quantities.
func (k UnitKind) Short() string {
	if k == UnitKindWeight {
		return "Lb"
	}
	return "U"
}

func (k UnitKind) String() string {
	return string(k)
}

// Product is a stocked item. OriginalQuantity is the stocking baseline used
// for stock health; Quantity is what is left and may go negative.
type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	UnitKind         UnitKind        `json:"unitKind"`
	Price            decimal.Decimal `json:"price"`
	Quantity         decimal.Decimal `json:"quantity"`
	OriginalQuantity decimal.Decimal `json:"originalQuantity"`
}

// NewProduct builds a freshly stocked product. Price and quantity must be
// positive; the original quantity starts equal to the quantity.
func NewProduct(id, name string, unit UnitKind, price, quantity decimal.Decimal) (Product, error) {
	p := Product{
		ID:               id,
		Name:             strings.TrimSpace(name),
		UnitKind:         unit,
		Price:            price,
		Quantity:         quantity,
		OriginalQuantity: quantity,
	}
	if err := p.validateCommon(); err != nil {
		return Product{}, err
	}
	if !quantity.IsPositive() {
		return Product{}, fmt.Errorf("%w: quantity must be > 0", ErrInvalidProduct)
	}
	return p, nil
}

// Revise returns a copy of p with every editable field replaced. The
// current quantity may be zero (sold out) but not negative.
func (p Product) Revise(name string, unit UnitKind, price, quantity, original decimal.Decimal) (Product, error) {
	next := Product{
		ID:               p.ID,
		Name:             strings.TrimSpace(name),
		UnitKind:         unit,
		Price:            price,
		Quantity:         quantity,
		OriginalQuantity: original,
	}
	if err := next.validateCommon(); err != nil {
		return Product{}, err
	}
	if quantity.IsNegative() {
		return Product{}, fmt.Errorf("%w: quantity must be >= 0", ErrInvalidProduct)
	}
	if !original.IsPositive() {
		return Product{}, fmt.Errorf("%w: original quantity must be > 0", ErrInvalidProduct)
	}
	return next, nil
}

func (p Product) validateCommon() error {
	if p.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProduct)
	}
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidProduct)
	}
	if !p.UnitKind.Valid() {
		return fmt.Errorf("%w: unknown unit kind %q", ErrInvalidProduct, p.UnitKind)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be > 0", ErrInvalidProduct)
	}
	return nil
}

// Value is price × current quantity.
func (p Product) Value() decimal.Decimal {
	return p.Price.Mul(p.Quantity)
}
