package inventory

import (
	"testing"
)

func TestParseImport(t *testing.T) {
	t.Run("all collections", func(t *testing.T) {
		raw := `{
			"products": [{"id":"p1","name":"Rice","unitKind":"UNIT","price":"10","quantity":"5","originalQuantity":"50"}],
			"orders": [],
			"statistics": {"productsSold":{"p1":{"name":"Rice","quantity":"45","revenue":"450"}},"totalRevenue":"450","totalOrders":3},
			"exportedAt": "2026-03-14T09:26:00Z"
		}`
		set, err := ParseImport([]byte(raw))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Products == nil || len(*set.Products) != 1 {
			t.Fatalf("products: got %v", set.Products)
		}
		if set.Orders == nil || len(*set.Orders) != 0 {
			t.Fatalf("orders: got %v", set.Orders)
		}
		if set.Statistics == nil || set.Statistics.TotalOrders != 3 {
			t.Fatalf("statistics: got %v", set.Statistics)
		}
	})

	t.Run("absent and null keys are left alone", func(t *testing.T) {
		set, err := ParseImport([]byte(`{"products": null, "extra": 1}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Products != nil || set.Orders != nil || set.Statistics != nil {
			t.Errorf("expected nothing set, got %+v", set)
		}
	})

	for _, raw := range []string{`not json`, `null`, `[]`, `{"orders": {}}`, `{"statistics": {"productsSold": []}}`} {
		t.Run("invalid "+raw, func(t *testing.T) {
			if _, err := ParseImport([]byte(raw)); err == nil {
				t.Errorf("expected error for %s", raw)
			}
		})
	}
}

func TestExportFilename(t *testing.T) {
	if got := ExportFilename(testTime); got != "data_20260314_0926.json" {
		t.Errorf("got %q", got)
	}
}
