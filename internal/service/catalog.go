package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// ProductInput carries the editable product fields. OriginalQuantity is
// only read by EditProduct; AddProduct sets it from Quantity.
type ProductInput struct {
	Name             string
	UnitKind         inventory.UnitKind
	Price            decimal.Decimal
	Quantity         decimal.Decimal
	OriginalQuantity decimal.Decimal
}

// AddProduct stocks a new product and persists the catalog.
func (s *Session) AddProduct(ctx context.Context, in ProductInput) (inventory.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := inventory.NewProduct(s.newID(), in.Name, in.UnitKind, in.Price, in.Quantity)
	if err != nil {
		return inventory.Product{}, s.reject(validationError(err))
	}

	s.products = append(s.products, p)
	if err := s.gw.SaveProducts(ctx, s.products); err != nil {
		log.Error().Err(err).Str("product_id", p.ID).Msg("service: failed to persist catalog after add")
		return inventory.Product{}, s.reject(fmt.Errorf("add product: %w", err))
	}

	s.catalogChanged()
	s.succeed("Product added")
	return p, nil
}

// EditProduct replaces every field of product id except the ID.
func (s *Session) EditProduct(ctx context.Context, id string, in ProductInput) (inventory.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return inventory.Product{}, s.reject(productNotFound(id))
	}

	next, err := s.products[i].Revise(in.Name, in.UnitKind, in.Price, in.Quantity, in.OriginalQuantity)
	if err != nil {
		return inventory.Product{}, s.reject(validationError(err))
	}
	if next.Quantity.GreaterThan(next.OriginalQuantity) {
		log.Debug().Str("product_id", id).Msg("service: quantity above original quantity")
	}

	s.products[i] = next
	if err := s.gw.SaveProducts(ctx, s.products); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("service: failed to persist catalog after edit")
		return inventory.Product{}, s.reject(fmt.Errorf("edit product: %w", err))
	}

	s.catalogChanged()
	s.succeed("Product updated")
	return next, nil
}

// FindProduct returns the product with id.
func (s *Session) FindProduct(id string) (inventory.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return inventory.Product{}, productNotFound(id)
	}
	return s.products[i], nil
}

// ListProducts returns the catalog in the order products were added.
func (s *Session) ListProducts() []inventory.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// RequestDeleteProduct starts the two-step removal of product id.
func (s *Session) RequestDeleteProduct(id string) (PendingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return PendingConfirmation{}, s.reject(productNotFound(id))
	}
	return s.addPending(enum.ActionDeleteProduct, s.products[i].Name, func(ctx context.Context) error {
		return s.removeProduct(ctx, id)
	}), nil
}

// removeProduct deletes product id. It is a no-op when the product is
// already gone. Callers hold s.mu.
func (s *Session) removeProduct(ctx context.Context, id string) error {
	i := s.productIndex(id)
	if i < 0 {
		return nil
	}

	s.products = slices.Delete(s.products, i, i+1)
	if err := s.gw.SaveProducts(ctx, s.products); err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("service: failed to persist catalog after remove")
		return s.reject(fmt.Errorf("remove product: %w", err))
	}

	s.catalogChanged()
	s.succeed("Product removed")
	return nil
}
