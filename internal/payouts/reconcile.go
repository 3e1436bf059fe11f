// Package payouts reconciles what each farmer is owed for a batch against the
// payouts already made.
package payouts

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/internal/pricing"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
)

// OwedLine is one order item attributed to the farmer who supplies it.
type OwedLine struct {
	FarmerID   uuid.UUID
	FarmerName string
	OrderedQty decimal.Decimal
	FinalQty   decimal.NullDecimal
	UnitPrice  decimal.Decimal
}

// Owed is the farmer's share of the line: base price only, on the packed
// quantity when one was recorded.
func (l OwedLine) Owed() decimal.Decimal {
	qty := l.OrderedQty
	if l.FinalQty.Valid {
		qty = l.FinalQty.Decimal
	}
	return l.UnitPrice.Mul(qty).Round(pricing.MoneyPlaces)
}

type FarmerBalance struct {
	FarmerID   uuid.UUID       `json:"farmer_id"`
	FarmerName string          `json:"farmer_name"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	Balance    decimal.Decimal `json:"balance"`
}

// Reconcile sums owed and paid per farmer. Farmers that only appear in payouts
// are reported with nothing owed. names fills in those farmers' names.
func Reconcile(lines []OwedLine, payouts []models.FarmerPayout, names map[uuid.UUID]string) []FarmerBalance {
	balances := map[uuid.UUID]*FarmerBalance{}
	get := func(id uuid.UUID, name string) *FarmerBalance {
		b, ok := balances[id]
		if !ok {
			b = &FarmerBalance{FarmerID: id, FarmerName: name, TotalOwed: decimal.Zero, TotalPaid: decimal.Zero}
			balances[id] = b
		}
		return b
	}

	for _, line := range lines {
		b := get(line.FarmerID, line.FarmerName)
		b.TotalOwed = b.TotalOwed.Add(line.Owed())
	}
	for _, p := range payouts {
		b := get(p.FarmerID, names[p.FarmerID])
		b.TotalPaid = b.TotalPaid.Add(p.Amount)
	}

	out := make([]FarmerBalance, 0, len(balances))
	for _, b := range balances {
		b.Balance = b.TotalOwed.Sub(b.TotalPaid)
		out = append(out, *b)
	}
	slices.SortFunc(out, func(a, b FarmerBalance) int {
		return cmp.Or(cmp.Compare(a.FarmerName, b.FarmerName), cmp.Compare(a.FarmerID.String(), b.FarmerID.String()))
	})
	return out
}
