package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"kasirlaundry/backend/internal/domain"
	"kasirlaundry/backend/internal/period"
	"kasirlaundry/backend/internal/service"
	"kasirlaundry/backend/internal/store"
)

type API struct {
	service       *service.Service
	allowedOrigin string
}

func New(svc *service.Service, allowedOrigin string) *API {
	return &API{
		service:       svc,
		allowedOrigin: allowedOrigin,
	}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", a.handleHealth)

	mux.HandleFunc("/api/v1/orders", a.handleOrders)
	mux.HandleFunc("/api/v1/orders/unpaid", a.handleUnpaidOrders)
	mux.HandleFunc("/api/v1/orders/", a.handleOrderActions)
	mux.HandleFunc("/api/v1/expenses", a.handleExpenses)
	mux.HandleFunc("/api/v1/expenses/", a.handleExpenseActions)
	mux.HandleFunc("/api/v1/wages", a.handleWages)
	mux.HandleFunc("/api/v1/employees", a.handleEmployees)
	mux.HandleFunc("/api/v1/stats/dashboard", a.handleDashboardStats)
	mux.HandleFunc("/api/v1/stats/weekly", a.handleWeeklyStats)
	mux.HandleFunc("/api/v1/reports/period", a.handlePeriodReport)

	return a.withMiddleware(mux)
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleOrders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := listFilterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter.Status = strings.TrimSpace(r.URL.Query().Get("status"))
		orders, err := a.service.ListOrders(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
	case http.MethodPost:
		var req domain.OrderCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resp, err := a.service.RecordOrder(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleUnpaidOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	orders, err := a.service.ListUnpaidOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

func (a *API) handleOrderActions(w http.ResponseWriter, r *http.Request) {
	prefix := "/api/v1/orders/"
	tail := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if tail == "" {
		writeError(w, http.StatusBadRequest, errors.New("order id required"))
		return
	}

	if strings.HasSuffix(tail, "/status") {
		if r.Method != http.MethodPost {
			writeMethodNotAllowed(w)
			return
		}
		orderID := strings.Trim(strings.TrimSuffix(tail, "/status"), "/")
		if orderID == "" {
			writeError(w, http.StatusBadRequest, errors.New("order id required"))
			return
		}

		var req domain.OrderStatusRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		if err := a.service.SetOrderStatus(r.Context(), orderID, req); err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}
	if err := a.service.DeleteOrder(r.Context(), tail); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleExpenses(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := listFilterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		expenses, err := a.service.ListExpenses(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
	case http.MethodPost:
		var req domain.ExpenseCreateRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resp, err := a.service.RecordExpense(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleExpenseActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeMethodNotAllowed(w)
		return
	}

	prefix := "/api/v1/expenses/"
	expenseID := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/"))
	if expenseID == "" {
		writeError(w, http.StatusBadRequest, errors.New("expense id required"))
		return
	}

	if err := a.service.DeleteExpense(r.Context(), expenseID); err != nil {
		writeError(w, statusForError(err), err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleWages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter, err := listFilterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		payments, err := a.service.ListWagePayments(r.Context(), filter)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"wage_payments": payments})
	case http.MethodPost:
		var req domain.WagePaymentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		resp, err := a.service.PayWage(r.Context(), req)
		if err != nil {
			writeError(w, statusForError(err), err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	default:
		writeMethodNotAllowed(w)
	}
}

func (a *API) handleEmployees(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	employees, err := a.service.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (a *API) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	stats, err := a.service.DashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	stats, err := a.service.WeeklyStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (a *API) handlePeriodReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}

	query := r.URL.Query()
	token := strings.TrimSpace(query.Get("period"))
	if token == "" {
		token = period.Month
	}
	format := strings.ToLower(strings.TrimSpace(query.Get("format")))

	from, err := parseDateParam(query.Get("from"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	to, err := parseDateParam(query.Get("to"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := a.service.PeriodReport(r.Context(), token, from, to)
	if err != nil {
		writeError(w, statusForError(err), err)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"laundry-report-%s.csv\"", token))
		_, _ = w.Write([]byte(periodReportToCSV(*summary)))
	case "pdf":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(periodReportToPrintableHTML(*summary)))
	default:
		writeJSON(w, http.StatusOK, summary)
	}
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost && strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(startedAt))
	})
}

// statusForError maps service-level errors onto HTTP statuses. Anything
// unrecognized is treated as an internal failure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrIncompleteData):
		return http.StatusBadRequest
	case errors.Is(err, period.ErrIncompleteRange):
		return http.StatusBadRequest
	case errors.Is(err, period.ErrUnknownToken):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func periodReportToCSV(summary domain.PeriodReport) string {
	lines := []string{
		"key,value",
		fmt.Sprintf("from_date,%s", summary.FromDate),
		fmt.Sprintf("to_date,%s", summary.ToDate),
		fmt.Sprintf("income,%d", summary.Income),
		fmt.Sprintf("pending_income,%d", summary.PendingIncome),
		fmt.Sprintf("expense,%d", summary.Expense),
		fmt.Sprintf("wages,%d", summary.Wages),
		fmt.Sprintf("cash,%d", summary.Cash),
		fmt.Sprintf("total_orders,%d", summary.TotalOrders),
		fmt.Sprintf("total_weight_kg,%.2f", summary.TotalWeightKg),
	}
	return strings.Join(lines, "\n") + "\n"
}

// periodReportHTMLTmpl renders the printable report page. User-visible
// fields are auto-escaped by html/template.
var periodReportHTMLTmpl = template.Must(template.New("period-report").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Laporan Keuangan</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
    h2 { margin-bottom: 4px; }
  </style>
</head>
<body>
  <h2>Laporan Keuangan</h2>
  <p>Periode: {{.FromDate}} s/d {{.ToDate}}</p>
  <table>
    <thead><tr><th>Pos</th><th style="text-align:right;">Nilai</th></tr></thead>
    <tbody>
      <tr><td>Pemasukan (Lunas)</td><td style="text-align:right;">{{.Income}}</td></tr>
      <tr><td>Piutang (Belum Lunas)</td><td style="text-align:right;">{{.PendingIncome}}</td></tr>
      <tr><td>Pengeluaran</td><td style="text-align:right;">{{.Expense}}</td></tr>
      <tr><td>Gaji Karyawan</td><td style="text-align:right;">{{.Wages}}</td></tr>
      <tr><td>Kas Bersih</td><td style="text-align:right;">{{.Cash}}</td></tr>
      <tr><td>Jumlah Order</td><td style="text-align:right;">{{.TotalOrders}}</td></tr>
      <tr><td>Total Berat (kg)</td><td style="text-align:right;">{{printf "%.2f" .TotalWeightKg}}</td></tr>
    </tbody>
  </table>
</body>
</html>
`))

func periodReportToPrintableHTML(summary domain.PeriodReport) string {
	var buf bytes.Buffer
	if err := periodReportHTMLTmpl.Execute(&buf, summary); err != nil {
		return "<!doctype html><html><body><p>Report rendering error.</p></body></html>"
	}
	return buf.String()
}

// listFilterFromQuery reads the shared from/to/limit query parameters.
func listFilterFromQuery(r *http.Request) (store.ListFilter, error) {
	query := r.URL.Query()
	filter := store.ListFilter{
		Limit: parsePositiveLimit(query.Get("limit"), 100, 200),
	}

	from, err := parseDateParam(query.Get("from"), false)
	if err != nil {
		return filter, err
	}
	to, err := parseDateParam(query.Get("to"), true)
	if err != nil {
		return filter, err
	}
	filter.From = from
	filter.To = to
	return filter, nil
}

// parseDateParam accepts either RFC3339 or a bare YYYY-MM-DD date. Bare
// dates snap to the start of day, or the end when endOfDay is set.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		utc := parsed.UTC()
		return &utc, nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", trimmed)
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Millisecond)
	}
	utc := parsed.UTC()
	return &utc, nil
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func parsePositiveLimit(raw string, fallback int, max int) int {
	limit := fallback
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		if parsed, err := strconv.Atoi(trimmed); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if max > 0 && limit > max {
		return max
	}
	return limit
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 4xx messages are user-facing; 5xx bodies stay generic so internal
	// details (SQL errors, file paths) do not leak.
	msg := err.Error()
	if status >= 500 {
		log.Printf("internal error (status %d): %v", status, err)
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
