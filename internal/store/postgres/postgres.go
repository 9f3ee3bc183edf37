package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"kasirlaundry/backend/internal/domain"
	"kasirlaundry/backend/internal/store"
	"kasirlaundry/backend/internal/xid"
)

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CreateTransaction(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if tx.CustomerName == "" || tx.ServiceType == "" || tx.WeightKg <= 0 {
		return nil, store.ErrIncompleteData
	}
	if tx.Status != domain.StatusPaid && tx.Status != domain.StatusUnpaid {
		return nil, store.ErrIncompleteData
	}
	if tx.ID == "" {
		tx.ID = xid.New("trx")
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO transactions (id, customer_name, service_type, weight_kg, total_price, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,now())
		RETURNING created_at
	`, tx.ID, tx.CustomerName, tx.ServiceType, tx.WeightKg, tx.TotalPrice, tx.Status).Scan(&tx.CreatedAt)
	if err != nil {
		return nil, err
	}

	tx.CreatedAt = tx.CreatedAt.UTC()
	created := tx
	return &created, nil
}

func (s *Store) UpdateTransactionStatus(ctx context.Context, id string, status string) error {
	if id == "" || (status != domain.StatusPaid && status != domain.StatusUnpaid) {
		return store.ErrIncompleteData
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET status = $2
		WHERE id = $1
	`, id, status)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "transactions", id)
}

func (s *Store) ListTransactions(ctx context.Context, filter store.ListFilter) ([]domain.Transaction, error) {
	query := `
		SELECT id, customer_name, service_type, weight_kg, total_price, status, created_at
		FROM transactions
	`
	where, args := rangeClauses(filter)
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	query += joinWhere(where) + ` ORDER BY created_at DESC, id DESC` + limitClause(filter.Limit, &args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0, 64)
	for rows.Next() {
		var tx domain.Transaction
		if err := rows.Scan(&tx.ID, &tx.CustomerName, &tx.ServiceType, &tx.WeightKg, &tx.TotalPrice, &tx.Status, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.CreatedAt = tx.CreatedAt.UTC()
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return transactions, nil
}

func (s *Store) CreateExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	if expense.Category == "" || expense.Amount <= 0 {
		return nil, store.ErrIncompleteData
	}
	if expense.ID == "" {
		expense.ID = xid.New("exp")
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO expenses (id, category, amount, description, created_at)
		VALUES ($1,$2,$3,$4,now())
		RETURNING created_at
	`, expense.ID, expense.Category, expense.Amount, expense.Description).Scan(&expense.CreatedAt)
	if err != nil {
		return nil, err
	}

	expense.CreatedAt = expense.CreatedAt.UTC()
	created := expense
	return &created, nil
}

func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "expenses", id)
}

func (s *Store) ListExpenses(ctx context.Context, filter store.ListFilter) ([]domain.Expense, error) {
	query := `
		SELECT id, category, amount, description, created_at
		FROM expenses
	`
	where, args := rangeClauses(filter)
	query += joinWhere(where) + ` ORDER BY created_at DESC, id DESC` + limitClause(filter.Limit, &args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	expenses := make([]domain.Expense, 0, 64)
	for rows.Next() {
		var expense domain.Expense
		var description sql.NullString
		if err := rows.Scan(&expense.ID, &expense.Category, &expense.Amount, &description, &expense.CreatedAt); err != nil {
			return nil, err
		}
		expense.Description = description.String
		expense.CreatedAt = expense.CreatedAt.UTC()
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Store) GetEmployeeByID(ctx context.Context, id string) (*domain.Employee, error) {
	var emp domain.Employee
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, wage_per_kg
		FROM employees
		WHERE id = $1
	`, id).Scan(&emp.ID, &emp.Name, &emp.WagePerKg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &emp, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, wage_per_kg
		FROM employees
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0, 16)
	for rows.Next() {
		var emp domain.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.WagePerKg); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Store) CreateWageRecord(ctx context.Context, record domain.WageRecord) (*domain.WageRecord, error) {
	if record.EmployeeID == "" || record.WeightProcessed <= 0 {
		return nil, store.ErrIncompleteData
	}
	if record.ID == "" {
		record.ID = xid.New("wage")
	}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO wage_records (id, employee_id, weight_processed, total_wage, created_at)
		VALUES ($1,$2,$3,$4,now())
		RETURNING created_at
	`, record.ID, record.EmployeeID, record.WeightProcessed, record.TotalWage).Scan(&record.CreatedAt)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = record.CreatedAt.UTC()
	created := record
	return &created, nil
}

func (s *Store) ListWageRecords(ctx context.Context, filter store.ListFilter) ([]domain.WageRecord, error) {
	query := `
		SELECT w.id, w.employee_id, e.name, w.weight_processed, w.total_wage, w.created_at
		FROM wage_records w
		LEFT JOIN employees e ON e.id = w.employee_id
	`
	where, args := rangeClausesFor("w.created_at", filter)
	query += joinWhere(where) + ` ORDER BY w.created_at DESC, w.id DESC` + limitClause(filter.Limit, &args)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.WageRecord, 0, 64)
	for rows.Next() {
		var record domain.WageRecord
		var name sql.NullString
		if err := rows.Scan(&record.ID, &record.EmployeeID, &name, &record.WeightProcessed, &record.TotalWage, &record.CreatedAt); err != nil {
			return nil, err
		}
		record.EmployeeName = name.String
		record.CreatedAt = record.CreatedAt.UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) deleteByID(ctx context.Context, table string, id string) error {
	if id == "" {
		return store.ErrIncompleteData
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func rangeClauses(filter store.ListFilter) ([]string, []any) {
	return rangeClausesFor("created_at", filter)
}

func rangeClausesFor(column string, filter store.ListFilter) ([]string, []any) {
	where := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf("%s >= $%d", column, len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf("%s <= $%d", column, len(args)))
	}
	return where, args
}

func joinWhere(clauses []string) string {
	if len(clauses) == 0 {
		return ""
	}
	out := " WHERE " + clauses[0]
	for _, clause := range clauses[1:] {
		out += " AND " + clause
	}
	return out
}

func limitClause(limit int, args *[]any) string {
	if limit < 1 {
		return ""
	}
	*args = append(*args, limit)
	return fmt.Sprintf(" LIMIT $%d", len(*args))
}
