package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

// PaymentDTO is the transport shape of a recorded buyer payment.
type PaymentDTO struct {
	ID          uuid.UUID           `json:"id"`
	OrderID     uuid.UUID           `json:"order_id"`
	Stage       enums.PaymentStage  `json:"stage"`
	Amount      decimal.Decimal     `json:"amount"`
	Method      enums.PaymentMethod `json:"method"`
	ReferenceID *string             `json:"reference_id,omitempty"`
	PaidAt      time.Time           `json:"paid_at"`
	RecordedBy  uuid.UUID           `json:"recorded_by"`
	CreatedAt   time.Time           `json:"created_at"`
}

func FromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:          p.ID,
		OrderID:     p.OrderID,
		Stage:       p.Stage,
		Amount:      p.Amount,
		Method:      p.Method,
		ReferenceID: p.ReferenceID,
		PaidAt:      p.PaidAt,
		RecordedBy:  p.RecordedBy,
		CreatedAt:   p.CreatedAt,
	}
}

func FromModels(rows []models.Payment) []PaymentDTO {
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
