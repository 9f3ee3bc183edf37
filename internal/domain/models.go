package domain

import "time"

// Payment status of a transaction. There are exactly two states; no partial
// payment or refund exists in this business.
const (
	StatusPaid   = "Lunas"
	StatusUnpaid = "Belum Lunas"
)

// WageExpenseCategory is the fixed category of the expense row created
// alongside every wage record.
const WageExpenseCategory = "Gaji Karyawan"

// Transaction is one laundry order. TotalPrice is frozen at entry time from
// the rate table; it is never recomputed if rates change later.
type Transaction struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	ServiceType  string    `json:"service_type"`
	WeightKg     float64   `json:"weight_kg"`
	TotalPrice   int64     `json:"total_price"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

type Expense struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Employee is reference data; this service never mutates it.
type Employee struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	WagePerKg float64 `json:"wage_per_kg"`
}

type WageRecord struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name,omitempty"`
	WeightProcessed float64   `json:"weight_processed"`
	TotalWage       int64     `json:"total_wage"`
	CreatedAt       time.Time `json:"created_at"`
}

type OrderCreateRequest struct {
	CustomerName string  `json:"customer_name"`
	ServiceType  string  `json:"service_type"`
	WeightKg     float64 `json:"weight_kg"`
	Status       string  `json:"status"`
}

type OrderResponse struct {
	Order Transaction `json:"order"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type ExpenseCreateRequest struct {
	Category    string `json:"category"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type ExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type WagePaymentRequest struct {
	EmployeeID      string  `json:"employee_id"`
	WeightProcessed float64 `json:"weight_processed"`
}

// WagePaymentResponse carries both rows produced by a wage payment. Expense is
// the wage-derived expense inserted right after the wage record.
type WagePaymentResponse struct {
	WageRecord WageRecord `json:"wage_record"`
	Expense    Expense    `json:"expense"`
}

type DashboardStats struct {
	IncomeToday  int64 `json:"income_today"`
	ExpenseToday int64 `json:"expense_today"`
	CashToday    int64 `json:"cash_today"`
}

type WeeklyStats struct {
	IncomeWeek    int64   `json:"income_week"`
	ExpenseWeek   int64   `json:"expense_week"`
	CashWeek      int64   `json:"cash_week"`
	TotalOrders   int     `json:"total_orders"`
	TotalWeightKg float64 `json:"total_weight_kg"`
}

// PeriodReport is the derived financial summary for a resolved date range.
// Wages is a subset already counted inside Expense, reported separately for
// visibility; it is not additive to Expense.
type PeriodReport struct {
	Income        int64   `json:"income"`
	PendingIncome int64   `json:"pending_income"`
	Expense       int64   `json:"expense"`
	Wages         int64   `json:"wages"`
	Cash          int64   `json:"cash"`
	TotalOrders   int     `json:"total_orders"`
	TotalWeightKg float64 `json:"total_weight_kg"`
	FromDate      string  `json:"from_date"`
	ToDate        string  `json:"to_date"`
}
