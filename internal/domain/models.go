package domain

import "github.com/shopspring/decimal"

type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	Expiry        string          `json:"expiry,omitempty"`
	Status        string          `json:"status"`
	Image         string          `json:"image,omitempty"`
}

type ProductCreateRequest struct {
	Name          string `json:"name" validate:"required"`
	PurchasePrice string `json:"purchase_price" validate:"required"`
	SalePrice     string `json:"sale_price" validate:"required"`
	Expiry        string `json:"expiry"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive"`
	Image         string `json:"image" validate:"omitempty,max=2048"`
}

type ProductUpdateRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1"`
	PurchasePrice *string `json:"purchase_price,omitempty"`
	SalePrice     *string `json:"sale_price,omitempty"`
	Expiry        *string `json:"expiry,omitempty"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Image         *string `json:"image,omitempty" validate:"omitempty,max=2048"`
}

// SelectedItem pairs a catalog product with the quantity chosen in a cart.
// The price comes from the catalog at derivation time, never from the cart.
type SelectedItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

type CartView struct {
	Terminal string         `json:"terminal"`
	Items    []SelectedItem `json:"items"`
	Total    string         `json:"total"`
}

type CartItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// InvoiceLine is one row of a completed sale, captured at snapshot time.
type InvoiceLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// Invoice is the immutable summary of a completed sale. GrandTotal is kept at
// full precision; formatting to two decimal places happens only at render time.
type Invoice struct {
	Number     string          `json:"number"`
	Date       string          `json:"date"`
	Lines      []InvoiceLine   `json:"lines"`
	GrandTotal decimal.Decimal `json:"grand_total"`
	Paid       decimal.Decimal `json:"paid"`
	Balance    decimal.Decimal `json:"balance"`
}

type SaleCompleteRequest struct {
	Format string `json:"format" validate:"omitempty,oneof=document text"`
}

type SaleCompleteResponse struct {
	Invoice   Invoice `json:"invoice"`
	Format    string  `json:"format"`
	Rendering string  `json:"rendering"`
	Escpos    string  `json:"escpos_base64,omitempty"`
}

// RenderedInvoice is what the previous-bill cache holds per terminal.
type RenderedInvoice struct {
	Terminal  string  `json:"terminal"`
	Invoice   Invoice `json:"invoice"`
	Format    string  `json:"format"`
	Rendering string  `json:"rendering"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

const (
	FormatDocument = "document"
	FormatText     = "text"
)
