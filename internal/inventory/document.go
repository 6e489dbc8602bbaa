package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Document is the whole-state backup written by export and read by import.
type Document struct {
	Products   []Product  `json:"products"`
	Orders     []Order    `json:"orders"`
	Statistics Statistics `json:"statistics"`
	ExportedAt time.Time  `json:"exportedAt"`
}

// ImportSet is a parsed import document. A nil field means the key was
// absent (or null) and the current state for it must be left alone.
type ImportSet struct {
	Products   *[]Product
	Orders     *[]Order
	Statistics *Statistics
}

// ParseImport decodes raw as an import document. Unknown top-level keys are
// ignored; a present key that does not decode is an error.
func ParseImport(raw []byte) (ImportSet, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return ImportSet{}, err
	}
	if top == nil {
		return ImportSet{}, fmt.Errorf("document is not an object")
	}

	var set ImportSet
	if msg, ok := present(top, "products"); ok {
		products := []Product{}
		if err := json.Unmarshal(msg, &products); err != nil {
			return ImportSet{}, fmt.Errorf("products: %w", err)
		}
		set.Products = &products
	}
	if msg, ok := present(top, "orders"); ok {
		orders := []Order{}
		if err := json.Unmarshal(msg, &orders); err != nil {
			return ImportSet{}, fmt.Errorf("orders: %w", err)
		}
		set.Orders = &orders
	}
	if msg, ok := present(top, "statistics"); ok {
		stats := NewStatistics()
		if err := json.Unmarshal(msg, &stats); err != nil {
			return ImportSet{}, fmt.Errorf("statistics: %w", err)
		}
		set.Statistics = &stats
	}
	return set, nil
}

func present(top map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	msg, ok := top[key]
	if !ok || bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return nil, false
	}
	return msg, true
}

// ExportFilename names an export taken at t: data_YYYYMMDD_HHMM.json.
func ExportFilename(t time.Time) string {
	return "data_" + t.Format("20060102_1504") + ".json"
}
