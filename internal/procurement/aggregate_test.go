package procurement

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/dbtest"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

func TestAggregateIsOrderIndependent(t *testing.T) {
	ravi, meena := uuid.New(), uuid.New()
	tomato, onion, beans := uuid.New(), uuid.New(), uuid.New()
	line := func(farmer uuid.UUID, farmerName string, product uuid.UUID, productName, qty string) Line {
		return Line{
			FarmerID: farmer, FarmerName: farmerName,
			ProductID: product, ProductName: productName,
			Unit: enums.ProductUnitKg, OrderedQty: decimal.RequireFromString(qty),
		}
	}
	lines := []Line{
		line(ravi, "Ravi", tomato, "Tomato", "2"),
		line(meena, "Meena", beans, "Beans", "1.25"),
		line(ravi, "Ravi", onion, "Onion", "3"),
		line(ravi, "Ravi", tomato, "Tomato", "0.5"),
		line(meena, "Meena", beans, "Beans", "4"),
		line(ravi, "Ravi", onion, "Onion", "1.125"),
	}

	want := Aggregate(lines)
	require.Len(t, want, 2)
	require.Equal(t, "Meena", want[0].FarmerName)
	require.True(t, want[0].Products[0].TotalQuantity.Equal(decimal.RequireFromString("5.25")))
	require.Equal(t, "Onion", want[1].Products[0].ProductName)
	require.True(t, want[1].Products[0].TotalQuantity.Equal(decimal.RequireFromString("4.125")))
	require.True(t, want[1].Products[1].TotalQuantity.Equal(decimal.RequireFromString("2.5")))

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]Line(nil), lines...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Aggregate(shuffled)
		require.Len(t, got, len(want))
		for fi := range want {
			require.Equal(t, want[fi].FarmerID, got[fi].FarmerID)
			require.Len(t, got[fi].Products, len(want[fi].Products))
			for pi := range want[fi].Products {
				require.Equal(t, want[fi].Products[pi].ProductID, got[fi].Products[pi].ProductID)
				require.True(t, want[fi].Products[pi].TotalQuantity.Equal(got[fi].Products[pi].TotalQuantity))
			}
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	require.Empty(t, Aggregate(nil))
}

func seedOrder(t *testing.T, conn *gorm.DB, batch *models.Batch, bp *models.BatchProduct, status enums.OrderStatus, qty string) {
	t.Helper()
	order := &models.Order{
		BatchID: batch.ID, BuyerID: uuid.New(), Status: status, FulfillmentType: enums.FulfillmentTypePickup,
		EstimatedTotal: decimal.Zero, FacilitationAmt: decimal.Zero,
	}
	require.NoError(t, conn.Create(order).Error)
	require.NoError(t, conn.Create(&models.OrderItem{
		OrderID: order.ID, BatchProductID: bp.ID, OrderedQty: decimal.RequireFromString(qty),
		UnitPrice: bp.PricePerUnit, FacilitationPercent: bp.FacilitationPercent, LineTotal: decimal.Zero,
	}).Error)
}

func TestReportIncludesOnlyPaidOrders(t *testing.T) {
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)

	hub := dbtest.SeedHub(t, conn, "North")
	batch := dbtest.SeedBatch(t, conn, hub, enums.BatchStatusClosed, time.Now().Add(-time.Hour))
	farmer := dbtest.SeedFarmer(t, conn, "Ravi")
	bp := dbtest.SeedBatchProduct(t, conn, batch, dbtest.SeedProduct(t, conn, farmer, "Tomato"), dbtest.Offer{Price: "100", Pct: "10", Min: "1"})

	seedOrder(t, conn, batch, bp, enums.OrderStatusPlaced, "100")
	seedOrder(t, conn, batch, bp, enums.OrderStatusCancelled, "100")
	seedOrder(t, conn, batch, bp, enums.OrderStatusPacked, "100")
	seedOrder(t, conn, batch, bp, enums.OrderStatusCommitmentPaid, "2")
	seedOrder(t, conn, batch, bp, enums.OrderStatusFullyPaid, "3.5")

	report, err := svc.Report(context.Background(), batch.ID)
	require.NoError(t, err)
	require.Len(t, report.Farmers, 1)
	require.Equal(t, "Ravi village", report.Farmers[0].FarmerLocation)
	require.Len(t, report.Farmers[0].Products, 1)
	total := report.Farmers[0].Products[0]
	require.Equal(t, "Tomato", total.ProductName)
	require.Equal(t, enums.ProductUnitKg, total.Unit)
	require.True(t, total.TotalQuantity.Equal(decimal.RequireFromString("5.5")), total.TotalQuantity.String())

	_, err = svc.Report(context.Background(), uuid.New())
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}
