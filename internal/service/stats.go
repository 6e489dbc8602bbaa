package service

import (
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/shopspring/decimal"
)

// Summary is the dashboard headline.
type Summary struct {
	ProductCount   int             `json:"productCount"`
	TotalOrders    int             `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}

// InventoryLine is one row of the inventory report.
type InventoryLine struct {
	Product inventory.Product     `json:"product"`
	Health  inventory.StockHealth `json:"health"`
	Value   decimal.Decimal       `json:"value"`
}

// Statistics returns a copy of the running statistics.
func (s *Session) Statistics() inventory.Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.Clone()
}

// TopProducts returns per-product sales ordered by revenue, highest first.
func (s *Session) TopProducts() []inventory.ProductSales {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats.TopProducts()
}

// InventoryValuation is the sum of price × quantity over the catalog.
func (s *Session) InventoryValuation() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventoryValuation()
}

func (s *Session) inventoryValuation() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.products {
		total = total.Add(p.Value())
	}
	return total
}

// StockHealth returns the stock health of product id.
func (s *Session) StockHealth(id string) (inventory.StockHealth, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.productIndex(id)
	if i < 0 {
		return inventory.StockHealth{}, productNotFound(id)
	}
	return inventory.HealthOf(s.products[i]), nil
}

// Summary returns the dashboard headline figures.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		ProductCount:   len(s.products),
		TotalOrders:    s.stats.TotalOrders,
		TotalRevenue:   s.stats.TotalRevenue,
		InventoryValue: s.inventoryValuation(),
	}
}

// InventoryReport lists every product with its stock health and value.
func (s *Session) InventoryReport() []InventoryLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]InventoryLine, len(s.products))
	for i, p := range s.products {
		lines[i] = InventoryLine{
			Product: p,
			Health:  inventory.HealthOf(p),
			Value:   p.Value(),
		}
	}
	return lines
}
