package invoice

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"invopos/backend/internal/domain"
)

// Receipt page geometry: a fixed 80-unit-wide page whose height grows by a
// fixed increment per line item.
const (
	pageWidth      = 80
	pageBaseHeight = 80
	lineHeight     = 8
)

// Document is the page-formatted rendering of an invoice: a fixed-width
// receipt laid out as header, item table and footer. The print boundary
// accepts either this shape or a plain text block.
type Document struct {
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Lines  []string `json:"lines"`
}

func (d Document) String() string {
	return strings.Join(d.Lines, "\n")
}

// Renderer produces one of the two interchangeable renderings of an invoice.
// Both express the same structured values; the host shell picks the variant
// the environment supports.
type Renderer interface {
	Format() string
	Render(inv domain.Invoice) string
}

type DocumentRenderer struct{}

func (DocumentRenderer) Format() string { return domain.FormatDocument }

func (r DocumentRenderer) Render(inv domain.Invoice) string {
	return r.Layout(inv).String()
}

// Layout builds the positioned receipt document. Per-line totals are rounded
// to two places independently for display; the grand total line shows the
// once-rounded full-precision sum carried by the invoice.
func (DocumentRenderer) Layout(inv domain.Invoice) Document {
	doc := Document{
		Width:  pageWidth,
		Height: pageBaseHeight + len(inv.Lines)*lineHeight,
	}

	doc.add(center("Sales Invoice"))
	doc.add("Date: " + inv.Date)
	doc.add("No:   " + inv.Number)
	doc.add(rule())
	doc.add(row("Product", "Qty", "Price", "Total"))
	doc.add(rule())
	for _, line := range inv.Lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		doc.add(row(
			line.Name,
			fmt.Sprintf("%d", line.Quantity),
			line.UnitPrice.StringFixed(2),
			lineTotal.StringFixed(2),
		))
	}
	doc.add(rule())
	doc.add(totalRow("Grand Total:", inv.GrandTotal.StringFixed(2)))
	doc.add(totalRow("Paid:", inv.Paid.StringFixed(2)))
	doc.add(totalRow("Balance:", inv.Balance.StringFixed(2)))
	doc.add("")
	doc.add(center("Thank you for your purchase!"))

	return doc
}

func (d *Document) add(line string) {
	d.Lines = append(d.Lines, line)
}

// Table geometry inside the 80-unit page: name column, then right-aligned
// qty, unit price and line total columns.
const (
	nameColWidth  = 38
	qtyColWidth   = 6
	priceColWidth = 16
	totalColWidth = 16
)

func row(name, qty, price, total string) string {
	if len(name) > nameColWidth {
		name = name[:nameColWidth-3] + "..."
	}
	return padRight(name, nameColWidth) +
		padLeft(qty, qtyColWidth) +
		padLeft(price, priceColWidth) +
		padLeft(total, totalColWidth)
}

func totalRow(label, amount string) string {
	return padLeft(label, pageWidth-totalColWidth) + padLeft(amount, totalColWidth)
}

func rule() string {
	return strings.Repeat("-", pageWidth)
}

func center(text string) string {
	if len(text) >= pageWidth {
		return text
	}
	pad := (pageWidth - len(text)) / 2
	return strings.Repeat(" ", pad) + text
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// TextRenderer emits the plain preformatted listing used where no page
// document can be displayed.
type TextRenderer struct{}

func (TextRenderer) Format() string { return domain.FormatText }

func (TextRenderer) Render(inv domain.Invoice) string {
	var b strings.Builder
	b.WriteString("Sale Invoice\n")
	b.WriteString("Date: " + inv.Date + "\n\n")
	for _, line := range inv.Lines {
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		fmt.Fprintf(&b, "%s x%d - $%s\n", line.Name, line.Quantity, lineTotal.StringFixed(2))
	}
	b.WriteString("\nTotal: $" + inv.GrandTotal.StringFixed(2))
	return b.String()
}

// ForFormat returns the renderer for the requested rendering variant,
// defaulting to the page document.
func ForFormat(format string) Renderer {
	if format == domain.FormatText {
		return TextRenderer{}
	}
	return DocumentRenderer{}
}

// Escpos encodes the invoice as raw ESC/POS bytes for a thermal printer
// bridge: init, the plain-text rendering, then a partial cut.
func Escpos(inv domain.Invoice) []byte {
	out := []byte{0x1b, 0x40}
	out = append(out, []byte(TextRenderer{}.Render(inv))...)
	out = append(out, '\n')
	out = append(out, 0x1d, 0x56, 0x41, 0x10)
	return out
}
