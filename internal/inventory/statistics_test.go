package inventory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var testTime = time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC)

// salesComparer lets cmp compare decimals by value.
var salesComparer = cmp.Comparer(func(a, b ProductSales) bool {
	return a.ProductID == b.ProductID && a.Name == b.Name &&
		a.Quantity.Equal(b.Quantity) && a.Revenue.Equal(b.Revenue)
})

func TestSalesLedger_Add(t *testing.T) {
	var l SalesLedger
	l.Add("b", "Beans", d("2"), d("6"))
	l.Add("a", "Apples", d("1"), d("3"))
	l.Add("b", "Beans renamed", d("1"), d("3"))

	want := []ProductSales{
		{ProductID: "b", Name: "Beans", Quantity: d("3"), Revenue: d("9")},
		{ProductID: "a", Name: "Apples", Quantity: d("1"), Revenue: d("3")},
	}
	if diff := cmp.Diff(want, l.Entries(), salesComparer); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if _, ok := l.Get("missing"); ok {
		t.Error("expected missing product to be absent")
	}
}

func TestSalesLedger_JSONKeepsOrder(t *testing.T) {
	var l SalesLedger
	l.Add("zeta", "Zeta", d("1"), d("1"))
	l.Add("alpha", "Alpha", d("2"), d("4"))
	l.Add("mid", "Mid", d("3"), d("9"))

	raw, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"zeta":{"name":"Zeta","quantity":"1","revenue":"1"},` +
		`"alpha":{"name":"Alpha","quantity":"2","revenue":"4"},` +
		`"mid":{"name":"Mid","quantity":"3","revenue":"9"}}`
	if string(raw) != want {
		t.Errorf("marshal:\n got %s\nwant %s", raw, want)
	}

	var back SalesLedger
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(l) {
		t.Errorf("round trip changed the ledger: %v", back.Entries())
	}
}

func TestSalesLedger_UnmarshalRejectsNonObject(t *testing.T) {
	var l SalesLedger
	if err := json.Unmarshal([]byte(`[1,2]`), &l); err == nil {
		t.Error("expected error for array")
	}
	if err := json.Unmarshal([]byte(`null`), &l); err != nil || l.Len() != 0 {
		t.Errorf("null: got err %v, len %d", err, l.Len())
	}
}

func TestSalesLedger_UnmarshalDuplicateKeyLastWins(t *testing.T) {
	raw := `{"a":{"name":"A","quantity":"1","revenue":"10"},` +
		`"b":{"name":"B","quantity":"2","revenue":"4"},` +
		`"a":{"name":"A2","quantity":"3","revenue":"30"}}`

	var l SalesLedger
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []ProductSales{
		{ProductID: "a", Name: "A2", Quantity: d("3"), Revenue: d("30")},
		{ProductID: "b", Name: "B", Quantity: d("2"), Revenue: d("4")},
	}
	if diff := cmp.Diff(want, l.Entries(), salesComparer); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
}

func TestStatistics_TopProducts(t *testing.T) {
	s := NewStatistics()
	s.ProductsSold.Add("a", "A", d("1"), d("10"))
	s.ProductsSold.Add("b", "B", d("1"), d("30"))
	s.ProductsSold.Add("c", "C", d("1"), d("10"))

	got := s.TopProducts()
	ids := make([]string, len(got))
	for i, e := range got {
		ids[i] = e.ProductID
	}
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestStatistics_CloneIsIndependent(t *testing.T) {
	s := NewStatistics()
	s.ProductsSold.Add("a", "A", d("1"), d("10"))

	c := s.Clone()
	c.ProductsSold.Add("a", "A", d("1"), d("10"))
	c.ProductsSold.Add("b", "B", d("1"), d("1"))

	if s.ProductsSold.Len() != 1 {
		t.Fatalf("original ledger grew to %d", s.ProductsSold.Len())
	}
	got, _ := s.ProductsSold.Get("a")
	if !got.Revenue.Equal(d("10")) {
		t.Errorf("original revenue changed to %s", got.Revenue)
	}
}
