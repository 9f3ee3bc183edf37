package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"kasirlaundry/backend/internal/domain"
	"kasirlaundry/backend/internal/store"
	"kasirlaundry/backend/internal/xid"
)

type Store struct {
	mu           sync.RWMutex
	transactions map[string]domain.Transaction
	expenses     map[string]domain.Expense
	employees    map[string]domain.Employee
	wageRecords  map[string]domain.WageRecord
}

// NewSeeded builds an in-memory store with the shop's employee roster
// preloaded. Employees are reference data; everything else starts empty.
func NewSeeded() *Store {
	employees := []domain.Employee{
		{ID: "emp-sari", Name: "Sari", WagePerKg: 8000},
		{ID: "emp-budi", Name: "Budi", WagePerKg: 7500},
		{ID: "emp-wati", Name: "Wati", WagePerKg: 7000},
	}

	employeeMap := make(map[string]domain.Employee, len(employees))
	for _, emp := range employees {
		employeeMap[emp.ID] = emp
	}

	return &Store{
		transactions: make(map[string]domain.Transaction),
		expenses:     make(map[string]domain.Expense),
		employees:    employeeMap,
		wageRecords:  make(map[string]domain.WageRecord),
	}
}

func (s *Store) CreateTransaction(_ context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tx.CustomerName == "" || tx.ServiceType == "" || tx.WeightKg <= 0 {
		return nil, store.ErrIncompleteData
	}
	if tx.Status != domain.StatusPaid && tx.Status != domain.StatusUnpaid {
		return nil, store.ErrIncompleteData
	}
	if tx.ID == "" {
		tx.ID = xid.New("trx")
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}

	s.transactions[tx.ID] = tx
	created := tx
	return &created, nil
}

func (s *Store) UpdateTransactionStatus(_ context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, exists := s.transactions[id]
	if !exists {
		return store.ErrNotFound
	}
	tx.Status = status
	s.transactions[id] = tx
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, filter store.ListFilter) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		if !inRange(tx.CreatedAt, filter) {
			continue
		}
		if filter.Status != "" && tx.Status != filter.Status {
			continue
		}
		result = append(result, tx)
	}

	sortNewestFirst(result, func(tx domain.Transaction) (time.Time, string) {
		return tx.CreatedAt, tx.ID
	})
	return applyLimit(result, filter.Limit), nil
}

func (s *Store) CreateExpense(_ context.Context, expense domain.Expense) (*domain.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if expense.Category == "" || expense.Amount <= 0 {
		return nil, store.ErrIncompleteData
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}
	if expense.CreatedAt.IsZero() {
		expense.CreatedAt = time.Now().UTC()
	}

	s.expenses[expense.ID] = expense
	created := expense
	return &created, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.expenses[id]; !exists {
		return store.ErrNotFound
	}
	delete(s.expenses, id)
	return nil
}

func (s *Store) ListExpenses(_ context.Context, filter store.ListFilter) ([]domain.Expense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Expense, 0, len(s.expenses))
	for _, expense := range s.expenses {
		if !inRange(expense.CreatedAt, filter) {
			continue
		}
		result = append(result, expense)
	}

	sortNewestFirst(result, func(expense domain.Expense) (time.Time, string) {
		return expense.CreatedAt, expense.ID
	})
	return applyLimit(result, filter.Limit), nil
}

func (s *Store) GetEmployeeByID(_ context.Context, id string) (*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emp, exists := s.employees[id]
	if !exists {
		return nil, store.ErrNotFound
	}
	copied := emp
	return &copied, nil
}

func (s *Store) ListEmployees(_ context.Context) ([]domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Employee, 0, len(s.employees))
	for _, emp := range s.employees {
		result = append(result, emp)
	}
	slices.SortFunc(result, func(a, b domain.Employee) int {
		if a.Name == b.Name {
			return cmpString(a.ID, b.ID)
		}
		return cmpString(a.Name, b.Name)
	})
	return result, nil
}

func (s *Store) CreateWageRecord(_ context.Context, record domain.WageRecord) (*domain.WageRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.EmployeeID == "" || record.WeightProcessed <= 0 {
		return nil, store.ErrIncompleteData
	}
	if _, exists := s.employees[record.EmployeeID]; !exists {
		return nil, store.ErrNotFound
	}
	if record.ID == "" {
		record.ID = xid.New("wage")
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.wageRecords[record.ID] = record
	created := record
	return &created, nil
}

func (s *Store) ListWageRecords(_ context.Context, filter store.ListFilter) ([]domain.WageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.WageRecord, 0, len(s.wageRecords))
	for _, record := range s.wageRecords {
		if !inRange(record.CreatedAt, filter) {
			continue
		}
		if record.EmployeeName == "" {
			if emp, exists := s.employees[record.EmployeeID]; exists {
				record.EmployeeName = emp.Name
			}
		}
		result = append(result, record)
	}

	sortNewestFirst(result, func(record domain.WageRecord) (time.Time, string) {
		return record.CreatedAt, record.ID
	})
	return applyLimit(result, filter.Limit), nil
}

func inRange(at time.Time, filter store.ListFilter) bool {
	if filter.From != nil && at.Before(*filter.From) {
		return false
	}
	if filter.To != nil && at.After(*filter.To) {
		return false
	}
	return true
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	slices.SortFunc(items, func(a, b T) int {
		atA, idA := key(a)
		atB, idB := key(b)
		if atA.Equal(atB) {
			return cmpString(idB, idA)
		}
		if atA.After(atB) {
			return -1
		}
		return 1
	})
}

func applyLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

func cmpString(a string, b string) int {
	return strings.Compare(a, b)
}
