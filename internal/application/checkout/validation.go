package checkout

import (
	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/cart"
	"github.com/smartstore/backend/internal/domain/catalog"
)

// line pairs a cart entry with its product snapshot at validation time.
// Unit prices captured here are the prices the order settles at.
type line struct {
	Product  *catalog.Product
	Quantity int
}

// resolveLines joins cart entries with their products. Entries whose product
// no longer exists are skipped so a removed product cannot wedge a cart.
func resolveLines(entries []cart.Entry, products map[uuid.UUID]*catalog.Product) []line {
	lines := make([]line, 0, len(entries))
	for _, e := range entries {
		p, ok := products[e.ProductID]
		if !ok || p == nil {
			continue
		}
		lines = append(lines, line{Product: p, Quantity: e.Quantity})
	}
	return lines
}

// validateStock reports every line whose requested quantity exceeds current
// stock. Validation is read-only and inspects all lines before reporting.
func validateStock(lines []line) []Violation {
	var violations []Violation
	for _, l := range lines {
		if !l.Product.HasStock(l.Quantity) {
			violations = append(violations, Violation{
				ProductID:   l.Product.ID,
				ProductName: l.Product.Name,
				Requested:   l.Quantity,
				Available:   l.Product.Stock,
			})
		}
	}
	return violations
}
