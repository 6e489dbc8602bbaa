package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product on an order. Product fields are captured when the
// line is added and do not follow later catalog edits.
type LineItem struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitKind    UnitKind        `json:"unitKind"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewLineItem snapshots p and prices quantity at the current unit price.
func NewLineItem(p Product, quantity decimal.Decimal) LineItem {
	return LineItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitKind:    p.UnitKind,
		Quantity:    quantity,
		UnitPrice:   p.Price,
		Subtotal:    p.Price.Mul(quantity),
	}
}

// WorkingOrder is the order being assembled. Lines can only be appended.
type WorkingOrder struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// NewWorkingOrder starts an empty working order.
func NewWorkingOrder(id string, now time.Time) *WorkingOrder {
	return &WorkingOrder{
		ID:        id,
		CreatedAt: now,
		Items:     []LineItem{},
		Total:     decimal.Zero,
	}
}

// Append adds a line and grows the running total by its subtotal.
func (w *WorkingOrder) Append(item LineItem) {
	w.Items = append(w.Items, item)
	w.Total = w.Total.Add(item.Subtotal)
}

// Empty reports whether the order has no lines.
func (w WorkingOrder) Empty() bool {
	return len(w.Items) == 0
}

// Snapshot returns a copy whose items slice is not shared with w.
func (w *WorkingOrder) Snapshot() WorkingOrder {
	cp := *w
	cp.Items = append([]LineItem(nil), w.Items...)
	if cp.Items == nil {
		cp.Items = []LineItem{}
	}
	return cp
}

// Order is a finalized order in the history.
type Order struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"createdAt"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// Record freezes the working order into a history entry.
func (w *WorkingOrder) Record() Order {
	snap := w.Snapshot()
	return Order{
		ID:        snap.ID,
		CreatedAt: snap.CreatedAt,
		Items:     snap.Items,
		Total:     snap.Total,
	}
}
