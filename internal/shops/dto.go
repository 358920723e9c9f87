package shops

import (
	"time"

	"github.com/google/uuid"

	"github.com/briankemboi/dukapos-backend/pkg/db/models"
)

// ShopDTO is the transport shape for a duka.
type ShopDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Location  *string   `json:"location,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromModel(s *models.Shop) *ShopDTO {
	if s == nil {
		return nil
	}
	return &ShopDTO{
		ID:        s.ID,
		Name:      s.Name,
		Location:  s.Location,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromModels(rows []models.Shop) []ShopDTO {
	out := make([]ShopDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
