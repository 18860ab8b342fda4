// Package printer is the print/export delivery boundary. The core hands a
// finished rendering here and never assumes which variant the environment
// supports. Delivery failures are non-fatal: the computed invoice stays with
// the caller for retry.
package printer

import (
	"context"

	"github.com/rs/zerolog"

	"invopos/backend/internal/domain"
)

type Job struct {
	Terminal  string
	Invoice   domain.Invoice
	Format    string
	Rendering string
}

type Printer interface {
	Deliver(ctx context.Context, job Job) error
}

// LogPrinter writes each job to the structured log, standing in for a
// platform print facility in deployments without a printer bridge.
type LogPrinter struct {
	log zerolog.Logger
}

func NewLogPrinter(log zerolog.Logger) *LogPrinter {
	return &LogPrinter{log: log}
}

func (p *LogPrinter) Deliver(_ context.Context, job Job) error {
	p.log.Info().
		Str("terminal", job.Terminal).
		Str("invoice", job.Invoice.Number).
		Str("format", job.Format).
		Int("lines", len(job.Invoice.Lines)).
		Str("grand_total", job.Invoice.GrandTotal.StringFixed(2)).
		Msg("invoice delivered to print preview")
	return nil
}
