package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/internal/pricing"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

func validateItemInputs(items []ItemInput) error {
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.BatchProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "batch_product_id is required")
		}
		if item.OrderedQty.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "ordered_qty cannot be negative").
				WithDetails(map[string]any{"batch_product_id": item.BatchProductID})
		}
		if _, dup := seen[item.BatchProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "batch product listed more than once").
				WithDetails(map[string]any{"batch_product_id": item.BatchProductID})
		}
		seen[item.BatchProductID] = struct{}{}
	}
	return nil
}

func hasPositiveQty(items []ItemInput) bool {
	for _, item := range items {
		if item.OrderedQty.IsPositive() {
			return true
		}
	}
	return false
}

// positiveItems drops zero-quantity lines; on edit they mean "remove this line".
func positiveItems(items []ItemInput) []ItemInput {
	out := make([]ItemInput, 0, len(items))
	for _, item := range items {
		if item.OrderedQty.IsPositive() {
			out = append(out, item)
		}
	}
	return out
}

type pricedItems struct {
	lines []ItemInput
	quote pricing.Quote
}

// priceItems checks every line against its active batch product and prices the set.
func (s *service) priceItems(ctx context.Context, r Repository, batchID uuid.UUID, lines []ItemInput) (pricedItems, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.BatchProductID)
	}
	found, err := r.FindActiveBatchProducts(ctx, batchID, ids)
	if err != nil {
		return pricedItems{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load batch products")
	}
	if len(found) != len(lines) {
		return pricedItems{}, pkgerrors.New(pkgerrors.CodeInvalidOperation, "one or more products are not available in this batch").
			WithDetails(map[string]any{"requested": len(lines), "available": len(found)})
	}

	byID := make(map[uuid.UUID]models.BatchProduct, len(found))
	for _, bp := range found {
		byID[bp.ID] = bp
	}

	priceLines := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		bp := byID[line.BatchProductID]
		if err := checkBounds(bp, line.OrderedQty); err != nil {
			return pricedItems{}, err
		}
		priceLines = append(priceLines, pricing.Line{
			PricePerUnit:        bp.PricePerUnit,
			Qty:                 line.OrderedQty,
			FacilitationPercent: bp.FacilitationPercent,
		})
	}
	return pricedItems{lines: lines, quote: pricing.Price(priceLines)}, nil
}

func checkBounds(bp models.BatchProduct, qty decimal.Decimal) error {
	details := map[string]any{
		"batch_product_id": bp.ID,
		"min":              bp.MinOrderQty,
		"ordered":          qty,
	}
	if bp.MaxOrderQty.Valid {
		details["max"] = bp.MaxOrderQty.Decimal
	}
	if qty.LessThan(bp.MinOrderQty) {
		return pkgerrors.New(pkgerrors.CodeBelowMinimum, "ordered quantity is below the minimum").WithDetails(details)
	}
	if bp.MaxOrderQty.Valid && qty.GreaterThan(bp.MaxOrderQty.Decimal) {
		return pkgerrors.New(pkgerrors.CodeAboveMaximum, "ordered quantity is above the maximum").WithDetails(details)
	}
	return nil
}

// orderItems snapshots the base price and facilitation percent of each line.
func (p pricedItems) orderItems(orderID uuid.UUID) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(p.lines))
	for i, line := range p.lines {
		priced := p.quote.Lines[i]
		items = append(items, models.OrderItem{
			OrderID:             orderID,
			BatchProductID:      line.BatchProductID,
			OrderedQty:          line.OrderedQty,
			UnitPrice:           priced.PricePerUnit,
			FacilitationPercent: priced.FacilitationPercent,
			LineTotal:           priced.LineTotal,
		})
	}
	return items
}

type qtyChange struct {
	BatchProductID uuid.UUID       `json:"batch_product_id"`
	From           decimal.Decimal `json:"from"`
	To             decimal.Decimal `json:"to"`
}

type fulfillmentChange struct {
	From enums.FulfillmentType `json:"from"`
	To   enums.FulfillmentType `json:"to"`
}

// diffSummary is the ORDER_EDITED event payload.
type diffSummary struct {
	Added           []uuid.UUID        `json:"added"`
	Removed         []uuid.UUID        `json:"removed"`
	Changed         []qtyChange        `json:"changed"`
	FulfillmentType *fulfillmentChange `json:"fulfillment_type,omitempty"`
}

func newDiffSummary() diffSummary {
	return diffSummary{Added: []uuid.UUID{}, Removed: []uuid.UUID{}, Changed: []qtyChange{}}
}

func (d *diffSummary) itemsDiff(before []models.OrderItem, after []ItemInput) {
	next := make(map[uuid.UUID]decimal.Decimal, len(after))
	for _, line := range after {
		next[line.BatchProductID] = line.OrderedQty
	}
	prev := make(map[uuid.UUID]struct{}, len(before))
	for _, item := range before {
		prev[item.BatchProductID] = struct{}{}
		qty, ok := next[item.BatchProductID]
		switch {
		case !ok:
			d.Removed = append(d.Removed, item.BatchProductID)
		case !qty.Equal(item.OrderedQty):
			d.Changed = append(d.Changed, qtyChange{BatchProductID: item.BatchProductID, From: item.OrderedQty, To: qty})
		}
	}
	for _, line := range after {
		if _, ok := prev[line.BatchProductID]; !ok {
			d.Added = append(d.Added, line.BatchProductID)
		}
	}
}
