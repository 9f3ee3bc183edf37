package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"kasirlaundry/backend/internal/domain"
	"kasirlaundry/backend/internal/store"
)

func TestTransactionLifecycle(t *testing.T) {
	databaseURL := os.Getenv("KASIRLAUNDRY_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set KASIRLAUNDRY_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	txID := fmt.Sprintf("trx-it-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, txID)
	})

	created, err := s.CreateTransaction(ctx, domain.Transaction{
		ID:           txID,
		CustomerName: "Integrasi Test",
		ServiceType:  "Cuci + Setrika",
		WeightKg:     3.5,
		TotalPrice:   24500,
		Status:       domain.StatusUnpaid,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	if created.CreatedAt.IsZero() {
		t.Fatalf("expected server-assigned created_at")
	}

	if err := s.UpdateTransactionStatus(ctx, txID, domain.StatusPaid); err != nil {
		t.Fatalf("update status: %v", err)
	}

	from := created.CreatedAt.Add(-time.Minute)
	to := created.CreatedAt.Add(time.Minute)
	listed, err := s.ListTransactions(ctx, store.ListFilter{
		From:   &from,
		To:     &to,
		Status: domain.StatusPaid,
	})
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}

	found := false
	for _, tx := range listed {
		if tx.ID == txID {
			found = true
			if tx.Status != domain.StatusPaid {
				t.Fatalf("status = %q, want %q", tx.Status, domain.StatusPaid)
			}
		}
	}
	if !found {
		t.Fatalf("created transaction missing from range query")
	}

	if err := s.DeleteTransaction(ctx, txID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}
	if err := s.DeleteTransaction(ctx, txID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
