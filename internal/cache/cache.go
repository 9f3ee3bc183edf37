package cache

import (
	"context"
	"time"

	"kasirlaundry/backend/internal/domain"
)

// ReportCache holds materialized period reports keyed by their resolved range.
// Invalidate drops every cached report; the service calls it after each
// successful mutation so reads always reflect the latest writes.
type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.PeriodReport, bool, error)
	Set(ctx context.Context, key string, value *domain.PeriodReport, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.PeriodReport, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.PeriodReport, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(_ context.Context) error {
	return nil
}
