package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kasirlaundry/backend/internal/domain"
	"kasirlaundry/backend/internal/pricing"
	"kasirlaundry/backend/internal/service"
	"kasirlaundry/backend/internal/store/memory"
)

// newTestAPI builds a full API over an in-memory store so handler tests
// exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	repo := memory.NewSeeded()
	svc := service.New(repo, pricing.DefaultTable())
	return New(svc, "*")
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestCreateOrder(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	rec := postJSON(t, handler, "/api/v1/orders", map[string]any{
		"customer_name": "Ibu Ratna",
		"service_type":  "Cuci + Setrika",
		"weight_kg":     3.5,
		"status":        "Lunas",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var resp domain.OrderResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Order.TotalPrice != 24500 {
		t.Fatalf("total price = %d, want 24500", resp.Order.TotalPrice)
	}
}

func TestCreateOrderRejectsMissingFields(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	rec := postJSON(t, handler, "/api/v1/orders", map[string]any{
		"customer_name": "Ibu Ratna",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestCreateOrderRejectsUnknownFields(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	rec := postJSON(t, handler, "/api/v1/orders", map[string]any{
		"customer_name": "Ibu Ratna",
		"service_type":  "Cuci Saja",
		"weight_kg":     2,
		"discount":      500,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestUnpaidOrdersEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	postJSON(t, handler, "/api/v1/orders", map[string]any{
		"customer_name": "Pak Dedi",
		"service_type":  "Cuci Saja",
		"weight_kg":     2,
	})
	postJSON(t, handler, "/api/v1/orders", map[string]any{
		"customer_name": "Ibu Ratna",
		"service_type":  "Cuci Saja",
		"weight_kg":     1,
		"status":        "Lunas",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/unpaid", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Orders []domain.Transaction `json:"orders"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Orders) != 1 {
		t.Fatalf("expected 1 unpaid order, got %d", len(body.Orders))
	}
	if body.Orders[0].Status != domain.StatusUnpaid {
		t.Fatalf("unexpected status %q", body.Orders[0].Status)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	createRec := postJSON(t, handler, "/api/v1/orders", map[string]any{
		"customer_name": "Pak Dedi",
		"service_type":  "Cuci Saja",
		"weight_kg":     2,
	})
	var created domain.OrderResponse
	if err := json.NewDecoder(createRec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created order: %v", err)
	}

	payload, _ := json.Marshal(map[string]string{"status": "Lunas"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/"+created.Order.ID+"/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestUpdateOrderStatusUnknownOrder(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	payload, _ := json.Marshal(map[string]string{"status": "Lunas"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders/trx-missing/status", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestPayWageEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	rec := postJSON(t, handler, "/api/v1/wages", map[string]any{
		"employee_id":      "emp-sari",
		"weight_processed": 10,
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var resp domain.WagePaymentResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.WageRecord.TotalWage != 80000 {
		t.Fatalf("total wage = %d, want 80000", resp.WageRecord.TotalWage)
	}
	if resp.Expense.Category != domain.WageExpenseCategory {
		t.Fatalf("expense category = %q", resp.Expense.Category)
	}
}

func TestEmployeesEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Employees []domain.Employee `json:"employees"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Employees) != 3 {
		t.Fatalf("expected 3 employees, got %d", len(body.Employees))
	}
}

func TestPeriodReportEndpoint(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	postJSON(t, handler, "/api/v1/orders", map[string]any{
		"customer_name": "Ibu Ratna",
		"service_type":  "Cuci + Setrika",
		"weight_kg":     3,
		"status":        "Lunas",
	})
	postJSON(t, handler, "/api/v1/expenses", map[string]any{
		"category": "Deterjen",
		"amount":   15000,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/period?period=day", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var summary domain.PeriodReport
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if summary.Income != 21000 {
		t.Fatalf("income = %d, want 21000", summary.Income)
	}
	if summary.Expense != 15000 {
		t.Fatalf("expense = %d, want 15000", summary.Expense)
	}
	if summary.Cash != 6000 {
		t.Fatalf("cash = %d, want 6000", summary.Cash)
	}
}

func TestPeriodReportCustomMissingBounds(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/period?period=custom&from=2024-03-01", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d (body: %s)", rec.Code, rec.Body.String())
	}
}

func TestPeriodReportUnknownToken(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/period?period=quarter", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPeriodReportCSVFormat(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/period?period=month&format=csv", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("expected text/csv, got %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "income,") {
		t.Fatalf("expected csv body, got %q", rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestOptionsPreflight(t *testing.T) {
	api := newTestAPI(t)
	handler := api.Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected CORS origin header")
	}
}
