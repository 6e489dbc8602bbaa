package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kiwari-pos/stockbook/internal/inventory"
)

// Keys of the three persisted collections.
const (
	KeyProducts   = "products"
	KeyOrders     = "orders"
	KeyStatistics = "statistics"
)

// ErrCorruptState is matched by errors from loading a stored value that is
// not valid JSON for its collection.
var ErrCorruptState = errors.New("corrupt stored state")

// CorruptStateError carries the unreadable bytes so they can be kept.
type CorruptStateError struct {
	Key string
	Raw []byte
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCorruptState, e.Key, e.Err)
}

func (e *CorruptStateError) Is(target error) bool {
	return target == ErrCorruptState
}

func (e *CorruptStateError) Unwrap() error {
	return e.Err
}

// Gateway loads and saves the typed collections through a KV.
type Gateway struct {
	kv KV
}

// NewGateway creates a Gateway over kv.
func NewGateway(kv KV) *Gateway {
	return &Gateway{kv: kv}
}

// LoadProducts returns the stored catalog, or an empty one if none is stored.
func (g *Gateway) LoadProducts(ctx context.Context) ([]inventory.Product, error) {
	products := []inventory.Product{}
	if err := g.load(ctx, KeyProducts, &products); err != nil {
		return []inventory.Product{}, err
	}
	if products == nil {
		products = []inventory.Product{}
	}
	return products, nil
}

// SaveProducts overwrites the stored catalog.
func (g *Gateway) SaveProducts(ctx context.Context, products []inventory.Product) error {
	if products == nil {
		products = []inventory.Product{}
	}
	return g.save(ctx, KeyProducts, products)
}

// LoadOrders returns the stored order history, or an empty one.
func (g *Gateway) LoadOrders(ctx context.Context) ([]inventory.Order, error) {
	orders := []inventory.Order{}
	if err := g.load(ctx, KeyOrders, &orders); err != nil {
		return []inventory.Order{}, err
	}
	if orders == nil {
		orders = []inventory.Order{}
	}
	return orders, nil
}

// SaveOrders overwrites the stored order history.
func (g *Gateway) SaveOrders(ctx context.Context, orders []inventory.Order) error {
	if orders == nil {
		orders = []inventory.Order{}
	}
	return g.save(ctx, KeyOrders, orders)
}

// LoadStatistics returns the stored statistics, or zeroed ones.
func (g *Gateway) LoadStatistics(ctx context.Context) (inventory.Statistics, error) {
	stats := inventory.NewStatistics()
	if err := g.load(ctx, KeyStatistics, &stats); err != nil {
		return inventory.NewStatistics(), err
	}
	return stats, nil
}

// SaveStatistics overwrites the stored statistics.
func (g *Gateway) SaveStatistics(ctx context.Context, stats inventory.Statistics) error {
	return g.save(ctx, KeyStatistics, stats)
}

// Preserve stores raw under "<key>.corrupt" so an unreadable value is not
// lost when the collection is replaced.
func (g *Gateway) Preserve(ctx context.Context, key string, raw []byte) error {
	return g.kv.Put(ctx, key+".corrupt", raw)
}

func (g *Gateway) load(ctx context.Context, key string, dst any) error {
	raw, err := g.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &CorruptStateError{Key: key, Raw: raw, Err: err}
	}
	return nil
}

func (g *Gateway) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.kv.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
