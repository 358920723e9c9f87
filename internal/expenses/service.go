package expenses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/briankemboi/dukapos-backend/internal/tenancy"
	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
	pkgerrors "github.com/briankemboi/dukapos-backend/pkg/errors"
	"github.com/briankemboi/dukapos-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service drives the expense request workflow and direct expense records.
type Service interface {
	CreateRequest(ctx context.Context, input CreateRequestInput) (*RequestDTO, error)
	ListMyRequests(ctx context.Context) ([]RequestDTO, error)
	ListRequests(ctx context.Context, status *enums.ExpenseStatus) ([]RequestDTO, error)
	DecideRequest(ctx context.Context, requestID uuid.UUID, approve bool) (*RequestDTO, error)

	RecordExpense(ctx context.Context, input RecordExpenseInput) (*ExpenseDTO, error)
	ListExpenses(ctx context.Context, shopID *uuid.UUID) ([]ExpenseDTO, error)
	DeleteExpense(ctx context.Context, id uuid.UUID) error
}

// CreateRequestInput is a worker's spend request.
type CreateRequestInput struct {
	Description string
	Amount      decimal.Decimal
}

// RecordExpenseInput is an admin's directly recorded expense.
type RecordExpenseInput struct {
	ShopID      uuid.UUID
	Category    string
	Description *string
	Amount      decimal.Decimal
}

type shopLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Shop, error)
}

type service struct {
	repo     *Repository
	shops    shopLoader
	business *metrics.BusinessMetrics
	now      func() time.Time
}

// NewService constructs the expenses service.
func NewService(repo *Repository, shops shopLoader, business *metrics.BusinessMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("expenses repository required")
	}
	if shops == nil {
		return nil, fmt.Errorf("shops repository required")
	}
	return &service{
		repo:     repo,
		shops:    shops,
		business: business,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) CreateRequest(ctx context.Context, input CreateRequestInput) (*RequestDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if principal.ShopID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "worker shop assignment required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	request := &models.ExpenseRequest{
		ID:          uuid.New(),
		WorkerID:    principal.UserID,
		ShopID:      *principal.ShopID,
		OwnerID:     principal.OwnerID,
		Description: strings.TrimSpace(input.Description),
		Amount:      input.Amount,
		Status:      enums.ExpenseStatusPending,
	}
	created, err := s.repo.CreateRequest(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create expense request")
	}
	return RequestFromModel(created), nil
}

func (s *service) ListMyRequests(ctx context.Context) ([]RequestDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	workerID := principal.UserID
	rows, err := s.repo.ListRequests(ctx, &workerID, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list expense requests")
	}
	return RequestsFromModels(rows), nil
}

func (s *service) ListRequests(ctx context.Context, status *enums.ExpenseStatus) ([]RequestDTO, error) {
	rows, err := s.repo.ListRequests(ctx, nil, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list expense requests")
	}
	return RequestsFromModels(rows), nil
}

// DecideRequest approves or rejects a pending request. Decisions are terminal:
// the guarded update affects zero rows when the request was already decided,
// which surfaces as a state conflict with the current status attached.
func (s *service) DecideRequest(ctx context.Context, requestID uuid.UUID, approve bool) (*RequestDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	status := enums.ExpenseStatusRejected
	if approve {
		status = enums.ExpenseStatusApproved
	}

	decided, err := s.repo.DecideRequest(ctx, requestID, status, principal.UserID, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decide expense request")
	}
	if !decided {
		request, err := s.repo.FindRequestByID(ctx, requestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "expense request not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup expense request")
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "expense request already decided").
			WithDetails(map[string]any{"status": request.Status})
	}

	s.business.IncExpenseDecided(status.String())

	request, err := s.repo.FindRequestByID(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload expense request")
	}
	return RequestFromModel(request), nil
}

func (s *service) RecordExpense(ctx context.Context, input RecordExpenseInput) (*ExpenseDTO, error) {
	principal, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}
	if _, err := s.shops.FindByID(ctx, input.ShopID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "shop not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup shop")
	}

	expense := &models.Expense{
		ID:          uuid.New(),
		ShopID:      input.ShopID,
		OwnerID:     principal.OwnerID,
		PaidBy:      principal.UserID,
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		Amount:      input.Amount,
	}
	created, err := s.repo.CreateExpense(ctx, expense)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record expense")
	}
	return ExpenseFromModel(created), nil
}

func (s *service) ListExpenses(ctx context.Context, shopID *uuid.UUID) ([]ExpenseDTO, error) {
	rows, err := s.repo.ListExpenses(ctx, shopID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list expenses")
	}
	return ExpensesFromModels(rows), nil
}

func (s *service) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "expense not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete expense")
	}
	return nil
}
