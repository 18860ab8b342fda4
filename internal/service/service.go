package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invopos/backend/internal/cache"
	"invopos/backend/internal/cart"
	"invopos/backend/internal/domain"
	"invopos/backend/internal/invoice"
	"invopos/backend/internal/printer"
	"invopos/backend/internal/store"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// Service wires the catalog, per-terminal carts, invoice rendering and the
// previous-bill cache behind one API used by the HTTP layer.
type Service struct {
	catalog    store.Catalog
	sessions   *cart.Sessions
	invoices   cache.InvoiceCache
	printer    printer.Printer
	validate   *validator.Validate
	log        zerolog.Logger
	invoiceTTL time.Duration
}

func New(catalog store.Catalog, invoices cache.InvoiceCache, prn printer.Printer, log zerolog.Logger, invoiceTTL time.Duration) *Service {
	if invoiceTTL <= 0 {
		invoiceTTL = 24 * time.Hour
	}

	return &Service{
		catalog:    catalog,
		sessions:   cart.NewSessions(),
		invoices:   invoices,
		printer:    prn,
		validate:   validator.New(),
		log:        log,
		invoiceTTL: invoiceTTL,
	}
}

// ListProducts returns the catalog in name order, optionally filtered by a
// case-insensitive substring match on the product name.
func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return products, nil
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.catalog.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *p, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (domain.Product, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}
	if err := s.validate.Struct(req); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", store.ErrInvalidProduct, err)
	}

	purchase, err := parsePrice(req.PurchasePrice)
	if err != nil {
		return domain.Product{}, err
	}
	sale, err := parsePrice(req.SalePrice)
	if err != nil {
		return domain.Product{}, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusActive
	}

	product := domain.Product{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(req.Name),
		PurchasePrice: purchase,
		SalePrice:     sale,
		Expiry:        strings.TrimSpace(req.Expiry),
		Status:        status,
		Image:         req.Image,
	}

	created, err := s.catalog.Create(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.log.Info().Str("product_id", created.ID).Str("name", created.Name).Msg("product created")
	return *created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (domain.Product, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return domain.Product{}, err
	}
	if err := s.validate.Struct(req); err != nil {
		return domain.Product{}, fmt.Errorf("%w: %v", store.ErrInvalidProduct, err)
	}

	existing, err := s.catalog.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	updated := *existing
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return domain.Product{}, store.ErrInvalidProduct
		}
		updated.Name = name
	}
	if req.PurchasePrice != nil {
		price, err := parsePrice(*req.PurchasePrice)
		if err != nil {
			return domain.Product{}, err
		}
		updated.PurchasePrice = price
	}
	if req.SalePrice != nil {
		price, err := parsePrice(*req.SalePrice)
		if err != nil {
			return domain.Product{}, err
		}
		updated.SalePrice = price
	}
	if req.Expiry != nil {
		updated.Expiry = strings.TrimSpace(*req.Expiry)
	}
	if req.Status != nil {
		updated.Status = *req.Status
	}
	if req.Image != nil {
		updated.Image = *req.Image
	}

	saved, err := s.catalog.Update(ctx, updated)
	if err != nil {
		return domain.Product{}, err
	}

	s.log.Info().Str("product_id", saved.ID).Msg("product updated")
	return *saved, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.catalog.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("product_id", id).Msg("product deleted")
	return nil
}

// CartView derives the current selection against the live catalog. Quantities
// persist across catalog edits; prices always reflect the catalog as of now.
func (s *Service) CartView(ctx context.Context, terminal string) (domain.CartView, error) {
	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return domain.CartView{}, err
	}

	c := s.sessions.Get(terminal)
	return domain.CartView{
		Terminal: terminal,
		Items:    c.SelectedItems(catalog),
		Total:    c.Total(catalog).StringFixed(2),
	}, nil
}

// ToggleItem selects an unselected product at quantity 1 or deselects it.
// The product must exist in the catalog at the moment of the toggle.
func (s *Service) ToggleItem(ctx context.Context, terminal string, productID string) (domain.CartView, error) {
	if _, err := s.catalog.Get(ctx, productID); err != nil {
		return domain.CartView{}, err
	}
	s.sessions.Get(terminal).Toggle(productID)
	return s.CartView(ctx, terminal)
}

func (s *Service) IncrementItem(ctx context.Context, terminal string, productID string) (domain.CartView, error) {
	if _, err := s.catalog.Get(ctx, productID); err != nil {
		return domain.CartView{}, err
	}
	s.sessions.Get(terminal).Increment(productID)
	return s.CartView(ctx, terminal)
}

// DecrementItem lowers the quantity, removing the product at quantity 1.
// Decrementing a product that is not selected is a no-op, so no existence
// check is needed.
func (s *Service) DecrementItem(ctx context.Context, terminal string, productID string) (domain.CartView, error) {
	s.sessions.Get(terminal).Decrement(productID)
	return s.CartView(ctx, terminal)
}

// CompleteSale freezes the terminal's current selection into an invoice,
// renders it in the requested format, remembers it as the terminal's previous
// bill and hands it to the printer. Print and cache failures are logged but do
// not fail the sale; the caller still gets the invoice and its rendering.
func (s *Service) CompleteSale(ctx context.Context, terminal string, req domain.SaleCompleteRequest) (domain.SaleCompleteResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return domain.SaleCompleteResponse{}, fmt.Errorf("invalid sale request: %w", err)
	}

	catalog, err := s.catalog.List(ctx)
	if err != nil {
		return domain.SaleCompleteResponse{}, err
	}

	items := s.sessions.Get(terminal).SelectedItems(catalog)
	inv := invoice.Build(time.Now().Format("2006-01-02 15:04:05"), items)

	renderer := invoice.ForFormat(req.Format)
	rendering := renderer.Render(inv)

	rendered := &domain.RenderedInvoice{
		Terminal:  terminal,
		Invoice:   inv,
		Format:    renderer.Format(),
		Rendering: rendering,
	}
	if err := s.invoices.Set(ctx, terminal, rendered, s.invoiceTTL); err != nil {
		s.log.Warn().Err(err).Str("terminal", terminal).Msg("failed to cache invoice")
	}

	job := printer.Job{Terminal: terminal, Invoice: inv, Format: renderer.Format(), Rendering: rendering}
	if err := s.printer.Deliver(ctx, job); err != nil {
		s.log.Warn().Err(err).Str("terminal", terminal).Str("invoice", inv.Number).Msg("print delivery failed")
	}

	s.log.Info().
		Str("terminal", terminal).
		Str("invoice", inv.Number).
		Int("lines", len(inv.Lines)).
		Str("grand_total", inv.GrandTotal.StringFixed(2)).
		Msg("sale completed")

	return domain.SaleCompleteResponse{
		Invoice:   inv,
		Format:    renderer.Format(),
		Rendering: rendering,
		Escpos:    base64.StdEncoding.EncodeToString(invoice.Escpos(inv)),
	}, nil
}

// LastInvoice returns the terminal's previous bill, if one was completed and
// has not expired.
func (s *Service) LastInvoice(ctx context.Context, terminal string) (domain.RenderedInvoice, error) {
	rendered, ok, err := s.invoices.Get(ctx, terminal)
	if err != nil {
		return domain.RenderedInvoice{}, err
	}
	if !ok {
		return domain.RenderedInvoice{}, store.ErrNotFound
	}
	return *rendered, nil
}

// ReprintLast re-delivers the terminal's previous bill to the printer.
func (s *Service) ReprintLast(ctx context.Context, terminal string) (domain.RenderedInvoice, error) {
	rendered, err := s.LastInvoice(ctx, terminal)
	if err != nil {
		return domain.RenderedInvoice{}, err
	}

	job := printer.Job{
		Terminal:  rendered.Terminal,
		Invoice:   rendered.Invoice,
		Format:    rendered.Format,
		Rendering: rendered.Rendering,
	}
	if err := s.printer.Deliver(ctx, job); err != nil {
		return domain.RenderedInvoice{}, fmt.Errorf("deliver reprint: %w", err)
	}
	return rendered, nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}
	return nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price %q", store.ErrInvalidProduct, raw)
	}
	if price.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: negative price", store.ErrInvalidProduct)
	}
	return price, nil
}
