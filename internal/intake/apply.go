package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/service"
	"github.com/rs/zerolog/log"
)

// Catalog defines the session methods needed to apply a sheet.
// Satisfied by *service.Session.
type Catalog interface {
	ListProducts() []inventory.Product
	AddProduct(ctx context.Context, in service.ProductInput) (inventory.Product, error)
	EditProduct(ctx context.Context, id string, in service.ProductInput) (inventory.Product, error)
}

// Result summarizes what Apply did.
type Result struct {
	Added     []inventory.Product
	Restocked []inventory.Product
	Skipped   []string
}

// Apply adds each line to the catalog. A line naming an existing product
// restocks it: the quantity is added to the current stock, the stocking
// baseline is reset to the new quantity and the price is updated. Lines
// that match several products, change a product's unit kind or fail
// validation are skipped.
func Apply(ctx context.Context, catalog Catalog, sheet *Sheet) (*Result, error) {
	res := &Result{}

	for _, line := range sheet.Lines {
		match := NewMatcher(catalog.ListProducts()).Match(line.Name)

		switch match.Status {
		case Ambiguous:
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s: matches %d products", line.RawText, len(match.Candidates)))
			continue

		case Matched:
			p := match.Product
			if p.UnitKind != line.UnitKind {
				res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %s is sold by %s", line.RawText, p.Name, p.UnitKind))
				continue
			}
			qty := p.Quantity.Add(line.Quantity)
			updated, err := catalog.EditProduct(ctx, p.ID, service.ProductInput{
				Name:             p.Name,
				UnitKind:         p.UnitKind,
				Price:            line.Price,
				Quantity:         qty,
				OriginalQuantity: qty,
			})
			if err != nil {
				if errors.Is(err, service.ErrValidation) {
					res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", line.RawText, err))
					continue
				}
				return res, fmt.Errorf("restock %s: %w", p.Name, err)
			}
			log.Debug().Str("product_id", updated.ID).Str("quantity", updated.Quantity.String()).Msg("intake: restocked")
			res.Restocked = append(res.Restocked, updated)

		default:
			added, err := catalog.AddProduct(ctx, service.ProductInput{
				Name:     line.Name,
				UnitKind: line.UnitKind,
				Price:    line.Price,
				Quantity: line.Quantity,
			})
			if err != nil {
				if errors.Is(err, service.ErrValidation) {
					res.Skipped = append(res.Skipped, fmt.Sprintf("%s: %v", line.RawText, err))
					continue
				}
				return res, fmt.Errorf("add %s: %w", line.Name, err)
			}
			log.Debug().Str("product_id", added.ID).Msg("intake: added")
			res.Added = append(res.Added, added)
		}
	}

	return res, nil
}
