package enums

import "fmt"

// OrderStatus tracks a buyer order from placement through distribution.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "PLACED"
	OrderStatusCommitmentPaid OrderStatus = "COMMITMENT_PAID"
	OrderStatusFullyPaid      OrderStatus = "FULLY_PAID"
	OrderStatusPacked         OrderStatus = "PACKED"
	OrderStatusDistributed    OrderStatus = "DISTRIBUTED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusCommitmentPaid,
	OrderStatusFullyPaid,
	OrderStatusPacked,
	OrderStatusDistributed,
	OrderStatusCancelled,
}

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
