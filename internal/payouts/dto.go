package payouts

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
)

// PayoutDTO is the transport shape of a farmer payout.
type PayoutDTO struct {
	ID           uuid.UUID       `json:"id"`
	BatchID      uuid.UUID       `json:"batch_id"`
	FarmerID     uuid.UUID       `json:"farmer_id"`
	Amount       decimal.Decimal `json:"amount"`
	UPIReference string          `json:"upi_reference"`
	PaidAt       time.Time       `json:"paid_at"`
	RecordedBy   uuid.UUID       `json:"recorded_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

func FromModel(p *models.FarmerPayout) *PayoutDTO {
	if p == nil {
		return nil
	}
	return &PayoutDTO{
		ID:           p.ID,
		BatchID:      p.BatchID,
		FarmerID:     p.FarmerID,
		Amount:       p.Amount,
		UPIReference: p.UPIReference,
		PaidAt:       p.PaidAt,
		RecordedBy:   p.RecordedBy,
		CreatedAt:    p.CreatedAt,
	}
}

func FromModels(rows []models.FarmerPayout) []PayoutDTO {
	out := make([]PayoutDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
