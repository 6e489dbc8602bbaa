package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/store"
	"github.com/shopspring/decimal"
)

// --- Test doubles ---

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) last() Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}
	}
	return r.notices[len(r.notices)-1]
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notices)
}

type recordingObserver struct {
	finalized []inventory.Order
	products  int
	valuation decimal.Decimal
	rejected  []string
}

func (o *recordingObserver) OrderFinalized(order inventory.Order) {
	o.finalized = append(o.finalized, order)
}

func (o *recordingObserver) CatalogChanged(products int, valuation decimal.Decimal) {
	o.products = products
	o.valuation = valuation
}

func (o *recordingObserver) Rejected(kind string) {
	o.rejected = append(o.rejected, kind)
}

// putFailKV fails every Put once armed.
type putFailKV struct {
	*store.MemoryKV
	fail bool
}

func (k *putFailKV) Put(ctx context.Context, key string, value []byte) error {
	if k.fail {
		return errors.New("disk full")
	}
	return k.MemoryKV.Put(ctx, key, value)
}

// --- Helpers ---

type fixture struct {
	s        *Session
	kv       store.KV
	notifier *recordingNotifier
	observer *recordingObserver
	now      time.Time
}

func newFixture(t *testing.T, kv store.KV) *fixture {
	t.Helper()
	f := &fixture{
		kv:       kv,
		notifier: &recordingNotifier{},
		observer: &recordingObserver{},
		now:      time.Date(2026, 3, 14, 9, 26, 0, 0, time.UTC),
	}
	seq := 0
	s, err := Open(context.Background(), store.NewGateway(kv),
		WithNotifier(f.notifier),
		WithObserver(f.observer),
		WithClock(func() time.Time { return f.now }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithConfirmTTL(time.Minute),
	)
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	f.s = s
	return f
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) add(t *testing.T, name string, unit inventory.UnitKind, price, qty string) inventory.Product {
	t.Helper()
	p, err := f.s.AddProduct(context.Background(), ProductInput{
		Name: name, UnitKind: unit, Price: dec(price), Quantity: dec(qty),
	})
	if err != nil {
		t.Fatalf("add %s: %v", name, err)
	}
	return p
}

func (f *fixture) confirm(t *testing.T, p PendingConfirmation) {
	t.Helper()
	if _, err := f.s.Confirm(context.Background(), p.Token); err != nil {
		t.Fatalf("confirm %s: %v", p.Action, err)
	}
}

// --- Catalog ---

func TestAddProduct(t *testing.T) {
	f := newFixture(t, store.NewMemoryKV())
	p := f.add(t, "Rice", inventory.UnitKindUnit, "10", "50")

	if p.ID == "" || !p.OriginalQuantity.Equal(dec("50")) {
		t.Errorf("got %+v", p)
	}
	if n := f.notifier.last(); n.Severity != enum.SeveritySuccess || n.Message != "Product added" {
		t.Errorf("notice: got %+v", n)
	}
	if f.observer.products != 1 || !f.observer.valuation.Equal(dec("500")) {
		t.Errorf("observer: %d products, valuation %s", f.observer.products, f.observer.valuation)
	}

	_, err := f.s.AddProduct(context.Background(), ProductInput{Name: "", UnitKind: inventory.UnitKindUnit, Price: dec("1"), Quantity: dec("1")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if n := f.notifier.last(); n.Severity != enum.SeverityError {
		t.Errorf("expected error notice, got %+v", n)
	}
	if len(f.s.ListProducts()) != 1 {
		t.Error("rejected product was added")
	}
}

func TestEditProduct(t *testing.T) {
	f := newFixture(t, store.NewMemoryKV())
	p := f.add(t, "Rice", inventory.UnitKindUnit, "10", "50")

	got, err := f.s.EditProduct(context.Background(), p.ID, ProductInput{
		Name: "Basmati", UnitKind: inventory.UnitKindWeight,
		Price: dec("12"), Quantity: dec("80"), OriginalQuantity: dec("50"),
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if got.ID != p.ID || got.Name != "Basmati" || !got.Quantity.Equal(dec("80")) {
		t.Errorf("got %+v", got)
	}

	if _, err := f.s.EditProduct(context.Background(), "nope", ProductInput{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}
	_, err = f.s.EditProduct(context.Background(), p.ID, ProductInput{
		Name: "Rice", UnitKind: inventory.UnitKindUnit, Price: dec("10"), Quantity: dec("-1"), OriginalQuantity: dec("50"),
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("negative quantity: got %v", err)
	}
}

func TestDeleteProduct_TwoStep(t *testing.T) {
	f := newFixture(t, store.NewMemoryKV())
	p := f.add(t, "Rice", inventory.UnitKindUnit, "10", "50")

	pending, err := f.s.RequestDeleteProduct(p.ID)
	if err != nil {
		t.Fatalf("request delete: %v", err)
	}
	if pending.Action != enum.ActionDeleteProduct || pending.Subject != "Rice" {
		t.Errorf("pending: %+v", pending)
	}
	if len(f.s.ListProducts()) != 1 {
		t.Fatal("product removed before confirmation")
	}

	f.confirm(t, pending)
	if len(f.s.ListProducts()) != 0 {
		t.Error("product not removed")
	}
	if _, err := f.s.Confirm(context.Background(), pending.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("second confirm: got %v", err)
	}

	if _, err := f.s.RequestDeleteProduct("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing: got %v", err)
	}
}

// --- Confirmations ---

func TestConfirmation_Expires(t *testing.T) {
	f := newFixture(t, store.NewMemoryKV())
	f.add(t, "Rice", inventory.UnitKindUnit, "10", "50")

	pending := f.s.RequestReset()
	if !pending.ExpiresAt.Equal(f.now.Add(time.Minute)) {
		t.Errorf("expires at %s", pending.ExpiresAt)
	}
	if len(f.s.Pending()) != 1 {
		t.Fatal("expected one pending confirmation")
	}

	f.now = f.now.Add(time.Minute)
	if _, err := f.s.Confirm(context.Background(), pending.Token); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expired confirm: got %v", err)
	}
	if len(f.s.ListProducts()) != 1 {
		t.Error("expired reset ran")
	}
	if len(f.s.Pending()) != 0 {
		t.Error("expired confirmation still listed")
	}
}

func TestConfirmation_Cancel(t *testing.T) {
	f := newFixture(t, store.NewMemoryKV())
	pending := f.s.RequestReset()

	if err := f.s.Cancel(pending.Token); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := f.s.Cancel(pending.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("second cancel: got %v", err)
	}
	if _, err := f.s.Confirm(context.Background(), pending.Token); !errors.Is(err, ErrNotFound) {
		t.Errorf("confirm after cancel: got %v", err)
	}
}

func TestConfirmation_CancelUnknownNotifies(t *testing.T) {
	f := newFixture(t, store.NewMemoryKV())

	if err := f.s.Cancel("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := f.notifier.last(); n.Severity != enum.SeverityError {
		t.Errorf("expected error notice, got %+v", n)
	}
	if len(f.observer.rejected) != 1 || f.observer.rejected[0] != "not_found" {
		t.Errorf("rejected: %v", f.observer.rejected)
	}
}

// --- Persistence ---

func TestOpen_RestoresState(t *testing.T) {
	kv := store.NewMemoryKV()
	f := newFixture(t, kv)
	rice := f.add(t, "Rice", inventory.UnitKindUnit, "10", "50")
	beans := f.add(t, "Beans", inventory.UnitKindWeight, "3", "20")
	if _, err := f.s.AddItem(beans.ID, dec("1.5")); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.s.AddItem(rice.ID, dec("2")); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.s.Finalize(context.Background()); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	g := newFixture(t, kv)
	if got := g.s.ListProducts(); len(got) != 2 || got[0].ID != rice.ID || !got[1].Quantity.Equal(dec("18.5")) {
		t.Errorf("products: %+v", got)
	}
	if len(g.s.ListOrders()) != 1 {
		t.Errorf("orders: got %d", len(g.s.ListOrders()))
	}
	if !g.s.Statistics().ProductsSold.Equal(f.s.Statistics().ProductsSold) {
		t.Error("ledger changed across reopen")
	}
	if !g.s.WorkingOrder().Empty() {
		t.Error("working order should start empty")
	}
}

func TestOpen_RecoversCorruptCollection(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	if err := kv.Put(ctx, store.KeyOrders, []byte(`{"not":"a list"`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, store.KeyProducts, []byte(`[{"id":"p1","name":"Rice","unitKind":"UNIT","price":"10","quantity":"5","originalQuantity":"5"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}

	f := newFixture(t, kv)
	if len(f.s.ListProducts()) != 1 {
		t.Error("intact collection was not loaded")
	}
	if len(f.s.ListOrders()) != 0 {
		t.Error("corrupt orders should load empty")
	}

	kept, err := kv.Get(ctx, "orders.corrupt")
	if err != nil || string(kept) != `{"not":"a list"` {
		t.Errorf("corrupt bytes not preserved: %q, %v", kept, err)
	}
	if n := f.notifier.last(); n.Severity != enum.SeverityError {
		t.Errorf("expected error notice, got %+v", n)
	}
	if len(f.observer.rejected) != 1 || f.observer.rejected[0] != "corrupt_state" {
		t.Errorf("rejected: %v", f.observer.rejected)
	}
}

func TestOpen_BackendFailure(t *testing.T) {
	_, err := Open(context.Background(), store.NewGateway(failingGetKV{}))
	if err == nil {
		t.Fatal("expected error")
	}
}

type failingGetKV struct{}

func (failingGetKV) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("permission denied")
}
func (failingGetKV) Put(context.Context, string, []byte) error { return nil }
