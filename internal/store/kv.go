// Package store persists the stock book. A KV backend holds raw JSON
// blobs by key; the Gateway maps the three collections onto it.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrKeyNotFound is returned by KV.Get when nothing is stored under a key.
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidKey is returned for keys a backend cannot address.
var ErrInvalidKey = errors.New("invalid key")

// KV is a whole-value key-value store. Put overwrites.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

func validateKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
