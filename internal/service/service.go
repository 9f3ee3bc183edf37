// Package service implements the laundry shop business rules on top of a
// Repository: order and expense bookkeeping, wage payments, and the
// period report aggregation that powers the dashboard.
package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"kasirlaundry/backend/internal/cache"
	"kasirlaundry/backend/internal/domain"
	"kasirlaundry/backend/internal/period"
	"kasirlaundry/backend/internal/pricing"
	"kasirlaundry/backend/internal/report"
	"kasirlaundry/backend/internal/store"
)

const (
	defaultListLimit = 100
	maxListLimit     = 200
	unpaidListLimit  = 50
)

// DataChangedListener is notified after any mutation commits, so side
// channels (cache invalidation already happens internally) can react.
type DataChangedListener func(ctx context.Context)

type Service struct {
	repo      store.Repository
	rates     pricing.Table
	cache     cache.ReportCache
	cacheTTL  time.Duration
	listeners []DataChangedListener
	logger    *log.Logger
	now       func() time.Time
}

type Option func(*Service)

func WithReportCache(c cache.ReportCache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithDataChangedListener(listener DataChangedListener) Option {
	return func(s *Service) {
		s.listeners = append(s.listeners, listener)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(repo store.Repository, rates pricing.Table, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		rates:    rates,
		cache:    cache.NoopReportCache{},
		cacheTTL: 5 * time.Minute,
		logger:   log.New(log.Writer(), "[service] ", log.LstdFlags),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) RecordOrder(ctx context.Context, req domain.OrderCreateRequest) (*domain.OrderResponse, error) {
	customer := strings.TrimSpace(req.CustomerName)
	serviceType := strings.TrimSpace(req.ServiceType)
	if customer == "" || serviceType == "" || req.WeightKg <= 0 {
		return nil, store.ErrIncompleteData
	}

	status := req.Status
	if status == "" {
		status = domain.StatusUnpaid
	}
	if status != domain.StatusPaid && status != domain.StatusUnpaid {
		return nil, fmt.Errorf("%w: unknown status %q", store.ErrIncompleteData, req.Status)
	}

	created, err := s.repo.CreateTransaction(ctx, domain.Transaction{
		CustomerName: customer,
		ServiceType:  serviceType,
		WeightKg:     req.WeightKg,
		TotalPrice:   s.rates.OrderTotal(req.WeightKg, serviceType),
		Status:       status,
	})
	if err != nil {
		return nil, err
	}

	s.notifyDataChanged(ctx)
	return &domain.OrderResponse{Order: *created}, nil
}

func (s *Service) SetOrderStatus(ctx context.Context, id string, req domain.OrderStatusRequest) error {
	if req.Status != domain.StatusPaid && req.Status != domain.StatusUnpaid {
		return fmt.Errorf("%w: unknown status %q", store.ErrIncompleteData, req.Status)
	}
	if err := s.repo.UpdateTransactionStatus(ctx, id, req.Status); err != nil {
		return err
	}
	s.notifyDataChanged(ctx)
	return nil
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.notifyDataChanged(ctx)
	return nil
}

func (s *Service) ListOrders(ctx context.Context, filter store.ListFilter) ([]domain.Transaction, error) {
	filter.Limit = clampLimit(filter.Limit)
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) ListUnpaidOrders(ctx context.Context) ([]domain.Transaction, error) {
	return s.repo.ListTransactions(ctx, store.ListFilter{
		Status: domain.StatusUnpaid,
		Limit:  unpaidListLimit,
	})
}

func (s *Service) RecordExpense(ctx context.Context, req domain.ExpenseCreateRequest) (*domain.ExpenseResponse, error) {
	category := strings.TrimSpace(req.Category)
	if category == "" || req.Amount <= 0 {
		return nil, store.ErrIncompleteData
	}

	created, err := s.repo.CreateExpense(ctx, domain.Expense{
		Category:    category,
		Amount:      req.Amount,
		Description: strings.TrimSpace(req.Description),
	})
	if err != nil {
		return nil, err
	}

	s.notifyDataChanged(ctx)
	return &domain.ExpenseResponse{Expense: *created}, nil
}

func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}
	s.notifyDataChanged(ctx)
	return nil
}

func (s *Service) ListExpenses(ctx context.Context, filter store.ListFilter) ([]domain.Expense, error) {
	filter.Limit = clampLimit(filter.Limit)
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.repo.ListEmployees(ctx)
}

func (s *Service) ListWagePayments(ctx context.Context, filter store.ListFilter) ([]domain.WageRecord, error) {
	filter.Limit = clampLimit(filter.Limit)
	return s.repo.ListWageRecords(ctx, filter)
}

// PayWage records the wage payment and the matching expense as two
// separate writes. If the expense insert fails the wage record is kept
// and the error reported; there is no cross-table rollback.
func (s *Service) PayWage(ctx context.Context, req domain.WagePaymentRequest) (*domain.WagePaymentResponse, error) {
	if req.EmployeeID == "" || req.WeightProcessed <= 0 {
		return nil, store.ErrIncompleteData
	}

	employee, err := s.repo.GetEmployeeByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	totalWage := pricing.WageTotal(req.WeightProcessed, employee.WagePerKg)

	record, err := s.repo.CreateWageRecord(ctx, domain.WageRecord{
		EmployeeID:      employee.ID,
		WeightProcessed: req.WeightProcessed,
		TotalWage:       totalWage,
	})
	if err != nil {
		return nil, err
	}
	record.EmployeeName = employee.Name

	expense, err := s.repo.CreateExpense(ctx, domain.Expense{
		Category:    domain.WageExpenseCategory,
		Amount:      totalWage,
		Description: "Pembayaran gaji " + employee.Name,
	})
	if err != nil {
		s.notifyDataChanged(ctx)
		return nil, fmt.Errorf("wage recorded but expense entry failed: %w", err)
	}

	s.notifyDataChanged(ctx)
	return &domain.WagePaymentResponse{WageRecord: *record, Expense: *expense}, nil
}

// PeriodReport resolves the requested period and reduces every
// transaction, expense, and wage record inside it into one summary.
// Results are cached per period key until the next mutation.
func (s *Service) PeriodReport(ctx context.Context, token string, customFrom, customTo *time.Time) (*domain.PeriodReport, error) {
	rng, err := period.Resolve(token, customFrom, customTo, s.now())
	if err != nil {
		return nil, err
	}

	cacheKey := reportCacheKey(token, rng)
	if cached, ok, err := s.cache.Get(ctx, cacheKey); err != nil {
		s.logger.Printf("report cache read failed: %v", err)
	} else if ok {
		return cached, nil
	}

	result, err := s.buildReport(ctx, rng)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, result, s.cacheTTL); err != nil {
		s.logger.Printf("report cache write failed: %v", err)
	}
	return result, nil
}

// DashboardStats is today's income, expense, and cash position.
func (s *Service) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	rng, err := period.Resolve(period.Day, nil, nil, s.now())
	if err != nil {
		return nil, err
	}
	summary, err := s.buildReport(ctx, rng)
	if err != nil {
		return nil, err
	}
	return &domain.DashboardStats{
		IncomeToday:  summary.Income,
		ExpenseToday: summary.Expense,
		CashToday:    summary.Cash,
	}, nil
}

// WeeklyStats summarizes the current week, Monday through today.
func (s *Service) WeeklyStats(ctx context.Context) (*domain.WeeklyStats, error) {
	rng, err := period.Resolve(period.Week, nil, nil, s.now())
	if err != nil {
		return nil, err
	}
	summary, err := s.buildReport(ctx, rng)
	if err != nil {
		return nil, err
	}
	return &domain.WeeklyStats{
		IncomeWeek:    summary.Income,
		ExpenseWeek:   summary.Expense,
		CashWeek:      summary.Cash,
		TotalOrders:   summary.TotalOrders,
		TotalWeightKg: summary.TotalWeightKg,
	}, nil
}

func (s *Service) buildReport(ctx context.Context, rng period.Range) (*domain.PeriodReport, error) {
	filter := store.ListFilter{From: &rng.Start, To: &rng.End}

	var (
		transactions []domain.Transaction
		expenses     []domain.Expense
		wages        []domain.WageRecord
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		transactions, err = s.repo.ListTransactions(groupCtx, filter)
		return err
	})
	group.Go(func() error {
		var err error
		expenses, err = s.repo.ListExpenses(groupCtx, filter)
		return err
	})
	group.Go(func() error {
		var err error
		wages, err = s.repo.ListWageRecords(groupCtx, filter)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	summary := report.Reduce(transactions, expenses, wages)
	summary.FromDate = rng.Start.Format(time.RFC3339)
	summary.ToDate = rng.End.Format(time.RFC3339)
	return &summary, nil
}

func (s *Service) notifyDataChanged(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Printf("report cache invalidation failed: %v", err)
	}
	for _, listener := range s.listeners {
		listener(ctx)
	}
}

// reportCacheKey encodes both resolved bounds so a rolling period (week,
// month, year) cached on one day is never served on the next with yesterday's
// end bound.
func reportCacheKey(token string, rng period.Range) string {
	return fmt.Sprintf("%s:%d:%d", token, rng.Start.Unix(), rng.End.Unix())
}

func clampLimit(limit int) int {
	if limit < 1 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
