package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-style/backend/internal/model/catalog"
	inventoryService "github.com/zhouzirui/z-style/backend/internal/service/inventory"
)

func setupRouter() (*chi.Mux, *catalog.MemoryStore) {
	store := catalog.NewMemoryStore(catalog.Seed())
	handler := New(store, inventoryService.NewService(store))

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, store
}

func do(r http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestListProducts(t *testing.T) {
	r, _ := setupRouter()

	resp := do(r, http.MethodGet, "/products", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var items []catalog.Product
	if err := json.Unmarshal(resp.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(items) != len(catalog.Seed()) {
		t.Fatalf("unexpected product count %d", len(items))
	}
}

func TestGetProductNotFound(t *testing.T) {
	r, _ := setupRouter()

	if resp := do(r, http.MethodGet, "/products/nope", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/products/JKT-001", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}

func TestStockStatusUnknownSKU(t *testing.T) {
	r, _ := setupRouter()

	resp := do(r, http.MethodGet, "/inventory/missing/status", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var status catalog.StockStatus
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if status.Available || status.Stock != 0 || status.Status != catalog.TierOutOfStock {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestSubstitutesLimit(t *testing.T) {
	r, _ := setupRouter()

	resp := do(r, http.MethodGet, "/inventory/JKT-001/substitutes?limit=2", nil)
	var body struct {
		Substitutes []catalog.Product `json:"substitutes"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(body.Substitutes) != 2 {
		t.Fatalf("expected 2 substitutes, got %d", len(body.Substitutes))
	}

	resp = do(r, http.MethodGet, "/inventory/JKT-001/substitutes?limit=abc", nil)
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(body.Substitutes) != inventoryService.DefaultSubstituteLimit {
		t.Fatalf("expected default limit, got %d", len(body.Substitutes))
	}
}

func TestReserve(t *testing.T) {
	r, store := setupRouter()

	resp := do(r, http.MethodPost, "/inventory/KNT-002/reserve", map[string]int{"quantity": 3})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Reserved bool                `json:"reserved"`
		Status   catalog.StockStatus `json:"status"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if !body.Reserved || body.Status.Stock != 1 || body.Status.Status != catalog.TierLowStock {
		t.Fatalf("unexpected reserve response: %+v", body)
	}

	resp = do(r, http.MethodPost, "/inventory/KNT-002/reserve", map[string]int{"quantity": 5})
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if body.Reserved {
		t.Fatal("expected reservation beyond stock to fail")
	}
	p, _, _ := store.Get(context.Background(), "KNT-002")
	if p.Stock != 1 {
		t.Fatalf("stock changed after failed reservation: %d", p.Stock)
	}
}

func TestReserveDefaultsToOne(t *testing.T) {
	r, store := setupRouter()

	resp := do(r, http.MethodPost, "/inventory/BAG-001/reserve", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	p, _, _ := store.Get(context.Background(), "BAG-001")
	if p.Stock != 19 {
		t.Fatalf("expected one unit reserved, stock=%d", p.Stock)
	}
}

func TestReserveInvalidBody(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/inventory/BAG-001/reserve", bytes.NewBufferString("{oops"))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
