//go:build integration

package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/kiwari-pos/stockbook/internal/app"
	"github.com/kiwari-pos/stockbook/internal/config"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestIntegrationPostgres runs a sale against a real PostgreSQL database and
// checks that a reopened app sees the same state.
func TestIntegrationPostgres(t *testing.T) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("stockbook_test"),
		tcpostgres.WithUsername("stockbook"),
		tcpostgres.WithPassword("stockbook"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cfg := &config.Config{
		Storage:     config.StoragePostgres,
		DatabaseURL: connStr,
		ConfirmTTL:  time.Minute,
		NoticeTTL:   time.Second,
	}

	// --- 1. Stock two products and sell them ---
	a, err := app.New(ctx, cfg)
	if err != nil {
		t.Fatalf("open app: %v", err)
	}
	beans, err := a.Session.AddProduct(ctx, service.ProductInput{
		Name: "Beans", UnitKind: inventory.UnitKindWeight,
		Price: decimal.RequireFromString("3.20"), Quantity: decimal.NewFromInt(40),
	})
	if err != nil {
		t.Fatalf("add beans: %v", err)
	}
	rice, err := a.Session.AddProduct(ctx, service.ProductInput{
		Name: "Rice", UnitKind: inventory.UnitKindUnit,
		Price: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(50),
	})
	if err != nil {
		t.Fatalf("add rice: %v", err)
	}
	for _, p := range []inventory.Product{rice, beans} {
		if _, err := a.Session.AddItem(p.ID, decimal.NewFromInt(2)); err != nil {
			t.Fatalf("add item %s: %v", p.Name, err)
		}
	}
	if _, err := a.Session.Finalize(ctx); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	want := a.Session.Statistics()
	a.Close()

	// --- 2. Reopen (migrations already applied) and compare ---
	b, err := app.New(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen app: %v", err)
	}
	defer b.Close()

	products := b.Session.ListProducts()
	if len(products) != 2 || products[0].Name != "Beans" || products[1].Name != "Rice" {
		t.Fatalf("products after reopen: %+v", products)
	}
	if !products[1].Quantity.Equal(decimal.NewFromInt(48)) {
		t.Errorf("rice quantity: got %s, want 48", products[1].Quantity)
	}
	if len(b.Session.ListOrders()) != 1 {
		t.Errorf("orders after reopen: got %d, want 1", len(b.Session.ListOrders()))
	}

	got := b.Session.Statistics()
	if !got.ProductsSold.Equal(want.ProductsSold) {
		t.Errorf("ledger order not kept: got %v, want %v", got.ProductsSold.Entries(), want.ProductsSold.Entries())
	}
	if !got.TotalRevenue.Equal(decimal.RequireFromString("26.40")) {
		t.Errorf("total revenue: got %s, want 26.40", got.TotalRevenue)
	}
}
