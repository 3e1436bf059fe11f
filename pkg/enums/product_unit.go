package enums

import "fmt"

// ProductUnit is the unit of measure a product is sold in.
type ProductUnit string

const (
	ProductUnitKg    ProductUnit = "KG"
	ProductUnitGram  ProductUnit = "GRAM"
	ProductUnitLitre ProductUnit = "LITRE"
	ProductUnitPiece ProductUnit = "PIECE"
	ProductUnitDozen ProductUnit = "DOZEN"
	ProductUnitBunch ProductUnit = "BUNCH"
)

var validProductUnits = []ProductUnit{
	ProductUnitKg,
	ProductUnitGram,
	ProductUnitLitre,
	ProductUnitPiece,
	ProductUnitDozen,
	ProductUnitBunch,
}

// String implements fmt.Stringer.
func (p ProductUnit) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductUnit.
func (p ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	for _, candidate := range validProductUnits {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
