package salaries

import (
	"context"
	"errors"
	"fmt"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service records salary payments and lists payment history.
type Service interface {
	RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentDTO, error)
	ListForWorker(ctx context.Context, workerID uuid.UUID) ([]PaymentDTO, error)
	ListMine(ctx context.Context) ([]PaymentDTO, error)
}

// RecordPaymentInput captures an admin paying a worker for a given month.
type RecordPaymentInput struct {
	WorkerID uuid.UUID
	Amount   decimal.Decimal
	Month    int
	Year     int
}

type workerLoader interface {
	FindWorker(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type service struct {
	repo     *Repository
	workers  workerLoader
	business *metrics.BusinessMetrics
}

// NewService constructs the salaries service.
func NewService(repo *Repository, workers workerLoader, business *metrics.BusinessMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("salaries repository required")
	}
	if workers == nil {
		return nil, fmt.Errorf("workers repository required")
	}
	return &service{
		repo:     repo,
		workers:  workers,
		business: business,
	}, nil
}

func (s *service) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if input.Month < 1 || input.Month > 12 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "month must be between 1 and 12")
	}
	if input.Year < 2000 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "year is out of range")
	}

	if _, err := s.workers.FindWorker(ctx, input.WorkerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup worker")
	}

	payment := &models.SalaryPayment{
		ID:       uuid.New(),
		WorkerID: input.WorkerID,
		OwnerID:  principal.OwnerID,
		PaidBy:   principal.UserID,
		Amount:   input.Amount,
		Month:    input.Month,
		Year:     input.Year,
	}
	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record salary payment")
	}

	s.business.IncSalaryPayment()
	return FromModel(created), nil
}

func (s *service) ListForWorker(ctx context.Context, workerID uuid.UUID) ([]PaymentDTO, error) {
	if _, err := s.workers.FindWorker(ctx, workerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "worker not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup worker")
	}
	rows, err := s.repo.ListByWorker(ctx, workerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list salary payments")
	}
	return FromModels(rows), nil
}

func (s *service) ListMine(ctx context.Context) ([]PaymentDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	rows, err := s.repo.ListByWorker(ctx, principal.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list salary payments")
	}
	return FromModels(rows), nil
}
