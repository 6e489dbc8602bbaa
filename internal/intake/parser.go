// Package intake reads stock-intake sheets and applies them to the
// catalog: known products are restocked, new ones are added.
package intake

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/shopspring/decimal"
)

// Sheet is the result of parsing an intake sheet.
type Sheet struct {
	Lines    []Line
	Warnings []string // Lines that failed to parse
}

// Line is a single stock entry (e.g. "Brown Rice 50u @10.00").
type Line struct {
	RawText  string
	Name     string
	Quantity decimal.Decimal
	UnitKind inventory.UnitKind
	Price    decimal.Decimal
}

// Quantity unit suffixes and the unit kind they stand for.
var unitSuffixes = map[string]inventory.UnitKind{
	"u": inventory.UnitKindUnit, "unit": inventory.UnitKindUnit, "units": inventory.UnitKindUnit,
	"pc": inventory.UnitKindUnit, "pcs": inventory.UnitKindUnit, "ea": inventory.UnitKindUnit,
	"lb": inventory.UnitKindWeight, "lbs": inventory.UnitKindWeight,
}

var thousand = decimal.NewFromInt(1000)

// ParseSheet parses one entry per line. Blank lines and lines starting
// with '#' are ignored.
func ParseSheet(text string) (*Sheet, error) {
	var lines []Line
	var warnings []string

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}

		line, err := parseLine(raw)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped: %s (%v)", raw, err))
			continue
		}
		lines = append(lines, *line)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("no entries found in sheet")
	}

	return &Sheet{Lines: lines, Warnings: warnings}, nil
}

// parseLine parses a single entry. Name tokens keep their case; the
// quantity token carries a unit suffix and the price token an '@' or '$'
// prefix.
func parseLine(raw string) (*Line, error) {
	var price, qty decimal.Decimal
	var unit inventory.UnitKind
	var nameTokens []string
	var priceFound, qtyFound bool

	for _, tok := range strings.Fields(raw) {
		if p, ok := parsePrice(tok); ok && !priceFound {
			price = p
			priceFound = true
		} else if q, u, ok := parseQtyUnitToken(tok); ok && !qtyFound {
			qty = q
			unit = u
			qtyFound = true
		} else {
			nameTokens = append(nameTokens, tok)
		}
	}

	if !priceFound {
		return nil, fmt.Errorf("no price")
	}
	if !qtyFound {
		return nil, fmt.Errorf("no quantity")
	}
	if len(nameTokens) == 0 {
		return nil, fmt.Errorf("no name")
	}

	return &Line{
		RawText:  raw,
		Name:     strings.Join(nameTokens, " "),
		Quantity: qty,
		UnitKind: unit,
		Price:    price,
	}, nil
}

// parsePrice parses "@10", "$3.20", "@$3.20" and the "k" shortcut
// ("@1.5k" → 1500).
func parsePrice(tok string) (decimal.Decimal, bool) {
	tok = strings.ToLower(tok)
	if !strings.HasPrefix(tok, "@") && !strings.HasPrefix(tok, "$") {
		return decimal.Zero, false
	}
	tok = strings.TrimLeft(tok, "@$")

	multiplier := decimal.NewFromInt(1)
	if strings.HasSuffix(tok, "k") {
		tok = strings.TrimSuffix(tok, "k")
		multiplier = thousand
	}
	if tok == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(tok)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d.Mul(multiplier), true
}

// parseQtyUnitToken parses "50u" → (50, UNIT, true) and "12.5lb" →
// (12.5, WEIGHT, true). Only known unit suffixes match.
func parseQtyUnitToken(tok string) (decimal.Decimal, inventory.UnitKind, bool) {
	tok = strings.ToLower(tok)
	if tok == "" {
		return decimal.Zero, "", false
	}

	// Find boundary between digits and letters
	digitEnd := 0
	for i, r := range tok {
		if unicode.IsDigit(r) || r == '.' {
			digitEnd = i + 1
		} else {
			break
		}
	}

	if digitEnd == 0 || digitEnd == len(tok) {
		return decimal.Zero, "", false
	}

	unit, ok := unitSuffixes[tok[digitEnd:]]
	if !ok {
		return decimal.Zero, "", false
	}

	qty, err := decimal.NewFromString(tok[:digitEnd])
	if err != nil || !qty.IsPositive() {
		return decimal.Zero, "", false
	}

	return qty, unit, true
}
