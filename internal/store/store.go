package store

import (
	"context"
	"errors"
	"time"

	"kasirlaundry/backend/internal/domain"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrIncompleteData = errors.New("incomplete data")
)

// ListFilter bounds a list or aggregation query. Nil From/To mean unbounded on
// that side; both bounds are inclusive. Limit <= 0 means no limit (used by the
// report aggregator, which must see every row in range).
type ListFilter struct {
	From   *time.Time
	To     *time.Time
	Status string
	Limit  int
}

type Repository interface {
	CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	UpdateTransactionStatus(ctx context.Context, id string, status string) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, filter ListFilter) ([]domain.Transaction, error)

	CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
	ListExpenses(ctx context.Context, filter ListFilter) ([]domain.Expense, error)

	GetEmployeeByID(ctx context.Context, id string) (*domain.Employee, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)

	CreateWageRecord(ctx context.Context, record domain.WageRecord) (*domain.WageRecord, error)
	ListWageRecords(ctx context.Context, filter ListFilter) ([]domain.WageRecord, error)
}
