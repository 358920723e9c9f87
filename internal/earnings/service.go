package earnings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Products at or below this stock level count as low stock on the dashboard.
const lowStockThreshold = 5

// Service computes worker earnings summaries and the admin dashboard.
type Service interface {
	SummaryForWorker(ctx context.Context, workerID uuid.UUID) (*Summary, error)
	MySummary(ctx context.Context) (*Summary, error)
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}

type workerLoader interface {
	FindWorker(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo    *Repository
	workers workerLoader
	now     func() time.Time
}

// NewService constructs the earnings aggregator.
func NewService(repo *Repository, workers workerLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("earnings repository required")
	}
	if workers == nil {
		return nil, fmt.Errorf("workers repository required")
	}
	return &service{
		repo:    repo,
		workers: workers,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// SummaryForWorker recomputes the worker's earnings from sale and payment rows.
func (s *service) SummaryForWorker(ctx context.Context, workerID uuid.UUID) (*Summary, error) {
	if _, err := s.workers.FindWorker(ctx, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup worker")
	}
	return s.buildSummary(ctx, workerID)
}

// MySummary computes the calling worker's own earnings view.
func (s *service) MySummary(ctx context.Context) (*Summary, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return s.buildSummary(ctx, principal.UserID)
}

func (s *service) buildSummary(ctx context.Context, workerID uuid.UUID) (*Summary, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekStart := now.AddDate(0, 0, -7)
	monthStart := now.AddDate(0, 0, -30)
	calendarMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	totalProfit, err := s.repo.SumProfitByWorker(ctx, workerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum profit")
	}
	totalPaid, err := s.repo.SumPaymentsByWorker(ctx, workerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum payments")
	}
	monthlyProfit, err := s.repo.SumProfitByWorkerBetween(ctx, workerID, calendarMonthStart, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum monthly profit")
	}
	salesToday, err := s.repo.SumSalesByWorkerSince(ctx, workerID, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum sales today")
	}
	salesWeek, err := s.repo.SumSalesByWorkerSince(ctx, workerID, weekStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum sales week")
	}
	salesMonth, err := s.repo.SumSalesByWorkerSince(ctx, workerID, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum sales month")
	}
	lastPayment, err := s.repo.LastPaymentByWorker(ctx, workerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "last payment")
	}

	summary := &Summary{
		TotalEarningsPaid:  totalPaid,
		TotalProfitAccrued: totalProfit,
		PendingPayment:     totalProfit.Sub(totalPaid),
		MonthlyProfit:      monthlyProfit,
		SalesToday:         salesToday,
		SalesWeek:          salesWeek,
		SalesMonth:         salesMonth,
	}
	if lastPayment != nil {
		amount := lastPayment.Amount
		at := lastPayment.CreatedAt
		summary.LastPaymentAmount = &amount
		summary.LastPaymentAt = &at
	}
	return summary, nil
}

// Dashboard aggregates tenant-wide sales, profit, and inventory counts.
func (s *service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := now.AddDate(0, 0, -30)

	salesToday, err := s.repo.SumSalesByOwnerSince(ctx, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum sales today")
	}
	salesMonth, err := s.repo.SumSalesByOwnerSince(ctx, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum sales month")
	}
	profitToday, err := s.repo.SumProfitByOwnerSince(ctx, today)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum profit today")
	}
	profitMonth, err := s.repo.SumProfitByOwnerSince(ctx, monthStart)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum profit month")
	}
	productCount, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count products")
	}
	workerCount, err := s.repo.CountWorkers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count workers")
	}
	lowStockCount, err := s.repo.CountLowStockProducts(ctx, lowStockThreshold)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count low stock")
	}

	return &DashboardSummary{
		SalesToday:    salesToday,
		SalesMonth:    salesMonth,
		ProfitToday:   profitToday,
		ProfitMonth:   profitMonth,
		ProductCount:  productCount,
		WorkerCount:   workerCount,
		LowStockCount: lowStockCount,
	}, nil
}
