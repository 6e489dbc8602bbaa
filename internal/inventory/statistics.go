package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// ProductSales accumulates what one product has sold.
type ProductSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// salesBucket is the persisted form of ProductSales; the product ID is the
// object key.
type salesBucket struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// SalesLedger maps product IDs to their sales and remembers the order in
// which products first sold. The order is kept across JSON round-trips: the
// object keys are written and read in insertion order.
type SalesLedger struct {
	entries []ProductSales
	index   map[string]int
}

// Len returns the number of products in the ledger.
func (l *SalesLedger) Len() int {
	return len(l.entries)
}

// Get returns the sales recorded for productID.
func (l *SalesLedger) Get(productID string) (ProductSales, bool) {
	i, ok := l.index[productID]
	if !ok {
		return ProductSales{}, false
	}
	return l.entries[i], true
}

// Add records a sale. A product seen for the first time gets a bucket named
// name; later sales keep the original name.
func (l *SalesLedger) Add(productID, name string, quantity, revenue decimal.Decimal) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	i, ok := l.index[productID]
	if !ok {
		l.entries = append(l.entries, ProductSales{
			ProductID: productID,
			Name:      name,
			Quantity:  decimal.Zero,
			Revenue:   decimal.Zero,
		})
		i = len(l.entries) - 1
		l.index[productID] = i
	}
	e := &l.entries[i]
	e.Quantity = e.Quantity.Add(quantity)
	e.Revenue = e.Revenue.Add(revenue)
}

// put stores e under its product ID. A repeated ID replaces the earlier
// bucket in place, so the last value wins and the first position is kept.
func (l *SalesLedger) put(e ProductSales) {
	if l.index == nil {
		l.index = make(map[string]int)
	}
	if i, ok := l.index[e.ProductID]; ok {
		l.entries[i] = e
		return
	}
	l.entries = append(l.entries, e)
	l.index[e.ProductID] = len(l.entries) - 1
}

// Entries returns the buckets in insertion order.
func (l *SalesLedger) Entries() []ProductSales {
	return slices.Clone(l.entries)
}

// Clone returns an independent copy of l.
func (l SalesLedger) Clone() SalesLedger {
	var out SalesLedger
	for _, e := range l.entries {
		out.Add(e.ProductID, e.Name, e.Quantity, e.Revenue)
	}
	return out
}

// Equal reports whether both ledgers hold the same buckets in the same order.
func (l SalesLedger) Equal(o SalesLedger) bool {
	return slices.EqualFunc(l.entries, o.entries, func(a, b ProductSales) bool {
		return a.ProductID == b.ProductID &&
			a.Name == b.Name &&
			a.Quantity.Equal(b.Quantity) &&
			a.Revenue.Equal(b.Revenue)
	})
}

// MarshalJSON writes the ledger as an object keyed by product ID.
func (l SalesLedger) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ProductID)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(salesBucket{Name: e.Name, Quantity: e.Quantity, Revenue: e.Revenue})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by product ID, keeping key order.
// A null value yields an empty ledger.
func (l *SalesLedger) UnmarshalJSON(data []byte) error {
	*l = SalesLedger{}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sales ledger: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sales ledger: expected key, got %v", keyTok)
		}
		var b salesBucket
		if err := dec.Decode(&b); err != nil {
			return fmt.Errorf("sales ledger: product %q: %w", key, err)
		}
		l.put(ProductSales{ProductID: key, Name: b.Name, Quantity: b.Quantity, Revenue: b.Revenue})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Statistics are the running sales totals.
type Statistics struct {
	ProductsSold SalesLedger     `json:"productsSold"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
}

// NewStatistics returns zeroed statistics.
func NewStatistics() Statistics {
	return Statistics{TotalRevenue: decimal.Zero}
}

// Clone returns an independent copy of s.
func (s Statistics) Clone() Statistics {
	return Statistics{
		ProductsSold: s.ProductsSold.Clone(),
		TotalRevenue: s.TotalRevenue,
		TotalOrders:  s.TotalOrders,
	}
}

// TopProducts returns the ledger sorted by revenue, highest first. Ties keep
// insertion order.
func (s *Statistics) TopProducts() []ProductSales {
	out := s.ProductsSold.Entries()
	slices.SortStableFunc(out, func(a, b ProductSales) int {
		return b.Revenue.Cmp(a.Revenue)
	})
	return out
}
