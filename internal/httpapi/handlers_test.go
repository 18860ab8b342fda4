package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"invopos/backend/internal/cache"
	"invopos/backend/internal/domain"
	"invopos/backend/internal/printer"
	"invopos/backend/internal/service"
	"invopos/backend/internal/store/memory"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func twoDec() decimal.Decimal { return decimal.NewFromInt(2) }

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	log := zerolog.Nop()
	svc := service.New(memory.NewSeeded(), cache.NewMemoryInvoiceCache(), printer.NewLogPrinter(log), log, time.Hour)

	auth := NewAuthManager(testSecret, time.Hour)
	if err := auth.SeedUser("admin", "admin-pass", "admin"); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	if err := auth.SeedUser("cashier", "cashier-pass", "cashier"); err != nil {
		t.Fatalf("seed cashier: %v", err)
	}

	return New(svc, auth, log).Handler()
}

func login(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	payload, _ := json.Marshal(domain.LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: status %d: %s", username, rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func doJSON(handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(handler, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(handler, http.MethodPost, "/api/v1/auth/login", "", domain.LoginRequest{Username: "admin", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProductsRequireAuth(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(handler, http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestProductCreateRequiresAdminRole(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "cashier-pass")

	rec := doJSON(handler, http.MethodPost, "/api/v1/products", token, domain.ProductCreateRequest{
		Name:          "Milk",
		PurchasePrice: "1.00",
		SalePrice:     "1.50",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestProductLifecycle(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "admin", "admin-pass")

	rec := doJSON(handler, http.MethodPost, "/api/v1/products", token, domain.ProductCreateRequest{
		Name:          "Milk",
		PurchasePrice: "1.00",
		SalePrice:     "1.50",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}

	var created domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode created product: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}

	name := "Whole Milk"
	rec = doJSON(handler, http.MethodPut, "/api/v1/products/"+created.ID, token, domain.ProductUpdateRequest{Name: &name})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(handler, http.MethodDelete, "/api/v1/products/"+created.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(handler, http.MethodGet, "/api/v1/products/"+created.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestCartAndSaleFlow(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "cashier-pass")

	rec := doJSON(handler, http.MethodGet, "/api/v1/products", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var listResp struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decode products: %v", err)
	}
	if len(listResp.Products) == 0 {
		t.Fatal("expected seeded products")
	}
	apple := listResp.Products[0]

	rec = doJSON(handler, http.MethodPost, "/api/v1/cart/counter-1/toggle", token, domain.CartItemRequest{ProductID: apple.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("toggle status = %d: %s", rec.Code, rec.Body.String())
	}
	rec = doJSON(handler, http.MethodPost, "/api/v1/cart/counter-1/increment", token, domain.CartItemRequest{ProductID: apple.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("increment status = %d", rec.Code)
	}

	var view domain.CartView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart view: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].Quantity != 2 {
		t.Fatalf("unexpected cart view: %+v", view)
	}

	rec = doJSON(handler, http.MethodPost, "/api/v1/sale/counter-1/complete", token, domain.SaleCompleteRequest{Format: domain.FormatText})
	if rec.Code != http.StatusCreated {
		t.Fatalf("complete status = %d: %s", rec.Code, rec.Body.String())
	}

	var sale domain.SaleCompleteResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sale); err != nil {
		t.Fatalf("decode sale response: %v", err)
	}
	if sale.Format != domain.FormatText {
		t.Fatalf("format = %q, want text", sale.Format)
	}
	wantLine := fmt.Sprintf("%s x2 - $%s", apple.Name, apple.SalePrice.Mul(twoDec()).StringFixed(2))
	if !bytes.Contains([]byte(sale.Rendering), []byte(wantLine)) {
		t.Fatalf("rendering missing line %q:\n%s", wantLine, sale.Rendering)
	}

	rec = doJSON(handler, http.MethodGet, "/api/v1/sale/counter-1/last", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("last status = %d: %s", rec.Code, rec.Body.String())
	}
	var last domain.RenderedInvoice
	if err := json.Unmarshal(rec.Body.Bytes(), &last); err != nil {
		t.Fatalf("decode last invoice: %v", err)
	}
	if last.Invoice.Number != sale.Invoice.Number {
		t.Fatalf("last invoice %q != completed %q", last.Invoice.Number, sale.Invoice.Number)
	}

	rec = doJSON(handler, http.MethodPost, "/api/v1/sale/counter-1/print", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reprint status = %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSaleLastMissing(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "cashier-pass")

	rec := doJSON(handler, http.MethodGet, "/api/v1/sale/counter-9/last", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestCartToggleUnknownProduct(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "cashier-pass")

	rec := doJSON(handler, http.MethodPost, "/api/v1/cart/counter-1/toggle", token, domain.CartItemRequest{ProductID: "no-such-id"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
