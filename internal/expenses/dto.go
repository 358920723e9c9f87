package expenses

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
)

// RequestDTO is the transport shape for an expense request.
type RequestDTO struct {
	ID          uuid.UUID           `json:"id"`
	WorkerID    uuid.UUID           `json:"worker_id"`
	ShopID      uuid.UUID           `json:"shop_id"`
	DecidedBy   *uuid.UUID          `json:"decided_by,omitempty"`
	Description string              `json:"description"`
	Amount      decimal.Decimal     `json:"amount"`
	Status      enums.ExpenseStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// ExpenseDTO is the transport shape for a directly recorded expense.
type ExpenseDTO struct {
	ID          uuid.UUID       `json:"id"`
	ShopID      uuid.UUID       `json:"shop_id"`
	PaidBy      uuid.UUID       `json:"paid_by"`
	Category    string          `json:"category"`
	Description *string         `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

func RequestFromModel(r *models.ExpenseRequest) *RequestDTO {
	if r == nil {
		return nil
	}
	return &RequestDTO{
		ID:          r.ID,
		WorkerID:    r.WorkerID,
		ShopID:      r.ShopID,
		DecidedBy:   r.DecidedBy,
		Description: r.Description,
		Amount:      r.Amount,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func RequestsFromModels(rows []models.ExpenseRequest) []RequestDTO {
	out := make([]RequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *RequestFromModel(&rows[i]))
	}
	return out
}

func ExpenseFromModel(e *models.Expense) *ExpenseDTO {
	if e == nil {
		return nil
	}
	return &ExpenseDTO{
		ID:          e.ID,
		ShopID:      e.ShopID,
		PaidBy:      e.PaidBy,
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
	}
}

func ExpensesFromModels(rows []models.Expense) []ExpenseDTO {
	out := make([]ExpenseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ExpenseFromModel(&rows[i]))
	}
	return out
}
