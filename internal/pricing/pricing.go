// Package pricing computes order line totals and the operator's facilitation fee.
package pricing

import "github.com/shopspring/decimal"

// MoneyPlaces is the precision money is rounded to. Rounding happens once per
// line, after full-precision multiplication.
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// Line is one priced quantity.
type Line struct {
	PricePerUnit        decimal.Decimal
	Qty                 decimal.Decimal
	FacilitationPercent decimal.Decimal
}

// Facilitation is price * qty * pct / 100.
func Facilitation(price, qty, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(qty).Mul(pct).Div(hundred).Round(MoneyPlaces)
}

// LineTotal is price * qty * (1 + pct/100).
func LineTotal(price, qty, pct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Add(pct.Div(hundred))
	return price.Mul(qty).Mul(factor).Round(MoneyPlaces)
}

// PricedLine carries the per-line results of a quote.
type PricedLine struct {
	Line
	LineTotal    decimal.Decimal
	Facilitation decimal.Decimal
}

// Quote is the priced result for a set of lines.
type Quote struct {
	Lines           []PricedLine
	EstimatedTotal  decimal.Decimal
	FacilitationAmt decimal.Decimal
}

// Price computes line totals and sums them. Lines are returned in input order.
func Price(lines []Line) Quote {
	q := Quote{
		Lines:           make([]PricedLine, 0, len(lines)),
		EstimatedTotal:  decimal.Zero,
		FacilitationAmt: decimal.Zero,
	}
	for _, l := range lines {
		pl := PricedLine{
			Line:         l,
			LineTotal:    LineTotal(l.PricePerUnit, l.Qty, l.FacilitationPercent),
			Facilitation: Facilitation(l.PricePerUnit, l.Qty, l.FacilitationPercent),
		}
		q.Lines = append(q.Lines, pl)
		q.EstimatedTotal = q.EstimatedTotal.Add(pl.LineTotal)
		q.FacilitationAmt = q.FacilitationAmt.Add(pl.Facilitation)
	}
	return q
}
