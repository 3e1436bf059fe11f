// Package procurement rolls confirmed order quantities up per farmer and product
// so the operator knows what to source for a batch.
package procurement

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

// Line is one order item joined with its product and farmer.
type Line struct {
	FarmerID       uuid.UUID
	FarmerName     string
	FarmerLocation string
	ProductID      uuid.UUID
	ProductName    string
	Unit           enums.ProductUnit
	OrderedQty     decimal.Decimal
}

type ProductTotal struct {
	ProductID     uuid.UUID         `json:"product_id"`
	ProductName   string            `json:"product_name"`
	TotalQuantity decimal.Decimal   `json:"total_quantity"`
	Unit          enums.ProductUnit `json:"unit"`
}

type FarmerProcurement struct {
	FarmerID       uuid.UUID      `json:"farmer_id"`
	FarmerName     string         `json:"farmer_name"`
	FarmerLocation string         `json:"farmer_location"`
	Products       []ProductTotal `json:"products"`
}

type Report struct {
	BatchID uuid.UUID           `json:"batch_id"`
	Farmers []FarmerProcurement `json:"farmers"`
}

// Aggregate groups lines by (farmer, product) and sums ordered quantities.
// Output is sorted by name then id at both levels, so it does not depend on the
// order of lines.
func Aggregate(lines []Line) []FarmerProcurement {
	farmers := map[uuid.UUID]*FarmerProcurement{}
	totals := map[uuid.UUID]map[uuid.UUID]*ProductTotal{}

	for _, line := range lines {
		farmer, ok := farmers[line.FarmerID]
		if !ok {
			farmer = &FarmerProcurement{
				FarmerID:       line.FarmerID,
				FarmerName:     line.FarmerName,
				FarmerLocation: line.FarmerLocation,
			}
			farmers[line.FarmerID] = farmer
			totals[line.FarmerID] = map[uuid.UUID]*ProductTotal{}
		}
		product, ok := totals[line.FarmerID][line.ProductID]
		if !ok {
			product = &ProductTotal{
				ProductID:     line.ProductID,
				ProductName:   line.ProductName,
				TotalQuantity: decimal.Zero,
				Unit:          line.Unit,
			}
			totals[line.FarmerID][line.ProductID] = product
		}
		product.TotalQuantity = product.TotalQuantity.Add(line.OrderedQty)
	}

	out := make([]FarmerProcurement, 0, len(farmers))
	for id, farmer := range farmers {
		products := make([]ProductTotal, 0, len(totals[id]))
		for _, p := range totals[id] {
			products = append(products, *p)
		}
		slices.SortFunc(products, func(a, b ProductTotal) int {
			return cmp.Or(cmp.Compare(a.ProductName, b.ProductName), cmp.Compare(a.ProductID.String(), b.ProductID.String()))
		})
		farmer.Products = products
		out = append(out, *farmer)
	}
	slices.SortFunc(out, func(a, b FarmerProcurement) int {
		return cmp.Or(cmp.Compare(a.FarmerName, b.FarmerName), cmp.Compare(a.FarmerID.String(), b.FarmerID.String()))
	})
	return out
}

type Service interface {
	Report(ctx context.Context, batchID uuid.UUID) (*Report, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("procurement repository required")
	}
	return &service{repo: repo}, nil
}

// Report aggregates the orders of batchID that carry a procurement commitment.
func (s *service) Report(ctx context.Context, batchID uuid.UUID) (*Report, error) {
	if _, err := s.repo.FindBatch(ctx, batchID); err != nil {
		return nil, repo.LoadError(err, "batch")
	}
	lines, err := s.repo.ListLines(ctx, batchID, enums.ProcurementStatuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load procurement lines")
	}
	return &Report{BatchID: batchID, Farmers: Aggregate(lines)}, nil
}
