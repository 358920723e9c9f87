package salaries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/pkg/db/models"
)

// PaymentDTO is the transport shape for a salary payment record.
type PaymentDTO struct {
	ID        uuid.UUID       `json:"id"`
	WorkerID  uuid.UUID       `json:"worker_id"`
	PaidBy    uuid.UUID       `json:"paid_by"`
	Amount    decimal.Decimal `json:"amount"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	CreatedAt time.Time       `json:"created_at"`
}

func FromModel(p *models.SalaryPayment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:        p.ID,
		WorkerID:  p.WorkerID,
		PaidBy:    p.PaidBy,
		Amount:    p.Amount,
		Month:     p.Month,
		Year:      p.Year,
		CreatedAt: p.CreatedAt,
	}
}

func FromModels(rows []models.SalaryPayment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
