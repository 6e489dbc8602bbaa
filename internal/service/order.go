package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// WorkingOrder returns a copy of the order being assembled.
func (s *Session) WorkingOrder() inventory.WorkingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Snapshot()
}

// AddItem appends quantity of product productID to the working order.
// Stock is checked but not reserved; it is only deducted by Finalize.
func (s *Session) AddItem(productID string, quantity decimal.Decimal) (inventory.WorkingOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !quantity.IsPositive() {
		return inventory.WorkingOrder{}, s.reject(validationError(fmt.Errorf("quantity must be > 0")))
	}

	i := s.productIndex(productID)
	if i < 0 {
		return inventory.WorkingOrder{}, s.reject(productNotFound(productID))
	}
	p := s.products[i]

	if quantity.GreaterThan(p.Quantity) {
		return inventory.WorkingOrder{}, s.reject(&InsufficientStockError{
			ProductID: p.ID,
			Requested: quantity,
			Available: p.Quantity,
		})
	}

	s.working.Append(inventory.NewLineItem(p, quantity))
	return s.working.Snapshot(), nil
}

// ResetOrder discards the working order and starts an empty one.
func (s *Session) ResetOrder() inventory.WorkingOrder {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetWorking()
	return s.working.Snapshot()
}

func (s *Session) resetWorking() {
	s.working = inventory.NewWorkingOrder(s.newID(), s.now())
}

// Finalize commits the working order: stock is deducted, statistics and
// history are updated, all three collections are persisted and a fresh
// working order is started.
//
// Lines whose product has been deleted since they were added neither
// deduct stock nor count towards per-product statistics; the order total
// still counts in full. Stock may go negative. A persistence failure is
// returned after the in-memory commit and is not rolled back.
func (s *Session) Finalize(ctx context.Context) (inventory.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.working.Empty() {
		return inventory.Order{}, s.reject(ErrEmptyOrder)
	}

	record := s.working.Record()
	for _, item := range record.Items {
		i := s.productIndex(item.ProductID)
		if i < 0 {
			log.Warn().
				Str("order_id", record.ID).
				Str("product_id", item.ProductID).
				Msg("service: product no longer in catalog, skipping stock deduction")
			continue
		}

		p := &s.products[i]
		p.Quantity = p.Quantity.Sub(item.Quantity)
		if p.Quantity.IsNegative() {
			log.Warn().
				Str("order_id", record.ID).
				Str("product_id", p.ID).
				Str("quantity", p.Quantity.String()).
				Msg("service: stock went negative")
		}

		s.stats.ProductsSold.Add(p.ID, p.Name, item.Quantity, item.Subtotal)
	}

	s.stats.TotalOrders++
	s.stats.TotalRevenue = s.stats.TotalRevenue.Add(record.Total)
	s.orders = append(s.orders, record)
	s.resetWorking()

	s.observer.OrderFinalized(record)
	s.catalogChanged()

	if err := s.saveAll(ctx); err != nil {
		log.Error().Err(err).Str("order_id", record.ID).Msg("service: failed to persist finalized order")
		return record, s.reject(fmt.Errorf("finalize order: %w", err))
	}

	log.Info().
		Str("order_id", record.ID).
		Int("lines", len(record.Items)).
		Str("total", record.Total.StringFixed(2)).
		Msg("service: order finalized")
	s.succeed("Order finalized")
	return record, nil
}

// ListOrders returns the order history, oldest first.
func (s *Session) ListOrders() []inventory.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.orders)
}

// FindOrder returns the historical order with id.
func (s *Session) FindOrder(id string) (inventory.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return inventory.Order{}, fmt.Errorf("order %q %w", id, ErrNotFound)
}
