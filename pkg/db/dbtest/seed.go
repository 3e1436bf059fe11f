package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
)

func mustCreate(t testing.TB, conn *gorm.DB, value any) {
	t.Helper()
	if err := conn.Create(value).Error; err != nil {
		t.Fatalf("seed %T: %v", value, err)
	}
}

func SeedHub(t testing.TB, conn *gorm.DB, name string) *models.Hub {
	t.Helper()
	hub := &models.Hub{Name: name, Address: name + " road", IsActive: true}
	mustCreate(t, conn, hub)
	return hub
}

func SeedFarmer(t testing.TB, conn *gorm.DB, name string) *models.Farmer {
	t.Helper()
	farmer := &models.Farmer{
		Name:              name,
		Location:          name + " village",
		RelationshipLevel: enums.RelationshipLevelFriend,
		IsActive:          true,
	}
	mustCreate(t, conn, farmer)
	return farmer
}

func SeedProduct(t testing.TB, conn *gorm.DB, farmer *models.Farmer, name string) *models.Product {
	t.Helper()
	product := &models.Product{FarmerID: farmer.ID, Name: name, Unit: enums.ProductUnitKg, IsActive: true}
	mustCreate(t, conn, product)
	return product
}

// SeedBatch creates a batch in status whose cutoff is cutoff and delivery two days later.
func SeedBatch(t testing.TB, conn *gorm.DB, hub *models.Hub, status enums.BatchStatus, cutoff time.Time) *models.Batch {
	t.Helper()
	batch := &models.Batch{
		HubID:        hub.ID,
		Name:         "Week batch",
		Status:       status,
		OpenAt:       cutoff.Add(-72 * time.Hour),
		CutoffAt:     cutoff,
		DeliveryDate: cutoff.Add(48 * time.Hour),
		CreatedBy:    uuid.New(),
	}
	mustCreate(t, conn, batch)
	return batch
}

// Offer describes seeded batch product terms. Max is optional.
type Offer struct {
	Price string
	Pct   string
	Min   string
	Max   string
}

func SeedBatchProduct(t testing.TB, conn *gorm.DB, batch *models.Batch, product *models.Product, offer Offer) *models.BatchProduct {
	t.Helper()
	bp := &models.BatchProduct{
		BatchID:             batch.ID,
		ProductID:           product.ID,
		PricePerUnit:        decimal.RequireFromString(offer.Price),
		FacilitationPercent: decimal.RequireFromString(offer.Pct),
		MinOrderQty:         decimal.RequireFromString(offer.Min),
		IsActive:            true,
	}
	if offer.Max != "" {
		bp.MaxOrderQty = decimal.NewNullDecimal(decimal.RequireFromString(offer.Max))
	}
	mustCreate(t, conn, bp)
	return bp
}
