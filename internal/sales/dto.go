package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/briankemboi/dukapos-backend/pkg/db/models"
	"github.com/briankemboi/dukapos-backend/pkg/enums"
)

// SaleDTO is the transport shape for a recorded sale line.
type SaleDTO struct {
	ID            uuid.UUID           `json:"id"`
	ProductID     uuid.UUID           `json:"product_id"`
	WorkerID      uuid.UUID           `json:"worker_id"`
	ShopID        uuid.UUID           `json:"shop_id"`
	Quantity      int                 `json:"quantity"`
	SellingPrice  decimal.Decimal     `json:"selling_price"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	Profit        decimal.Decimal     `json:"profit"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time           `json:"created_at"`
}

// SaleLineInput is one cart line: a product, how many, and at what price.
type SaleLineInput struct {
	ProductID    uuid.UUID
	Quantity     int
	SellingPrice decimal.Decimal
}

// RecordSaleInput is the whole cart handed to the recorder.
type RecordSaleInput struct {
	Lines         []SaleLineInput
	PaymentMethod enums.PaymentMethod
}

// RecordSaleResult returns the persisted lines and the cart total.
type RecordSaleResult struct {
	Sales       []SaleDTO       `json:"sales"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SaleListResult is a cursor page of sales.
type SaleListResult struct {
	Sales      []SaleDTO `json:"sales"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

func FromModel(s *models.Sale) *SaleDTO {
	if s == nil {
		return nil
	}
	return &SaleDTO{
		ID:            s.ID,
		ProductID:     s.ProductID,
		WorkerID:      s.WorkerID,
		ShopID:        s.ShopID,
		Quantity:      s.Quantity,
		SellingPrice:  s.SellingPrice,
		TotalAmount:   s.TotalAmount,
		Profit:        s.Profit,
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt,
	}
}

func FromModels(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
