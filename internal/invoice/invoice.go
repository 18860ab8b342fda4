// Package invoice turns a cart selection into an immutable sale invoice and
// renders it for preview or printing.
package invoice

import (
	"github.com/shopspring/decimal"

	"invopos/backend/internal/domain"
	"invopos/backend/internal/xid"
)

// Build snapshots the selected items into an invoice. Line order follows the
// selection order. The grand total is a fresh sum of unrounded
// unitPrice x quantity values; it is NOT a sum of the rounded per-line
// displays, so the two can legitimately differ by a cent on some inputs.
// An empty selection produces a valid zero-line invoice with a 0 total.
func Build(date string, items []domain.SelectedItem) domain.Invoice {
	lines := make([]domain.InvoiceLine, 0, len(items))
	grandTotal := decimal.Zero
	for _, item := range items {
		lines = append(lines, domain.InvoiceLine{
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.SalePrice,
		})
		grandTotal = grandTotal.Add(item.Product.SalePrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return domain.Invoice{
		Number:     xid.New("inv"),
		Date:       date,
		Lines:      lines,
		GrandTotal: grandTotal,
		Paid:       decimal.Zero,
		Balance:    grandTotal,
	}
}
