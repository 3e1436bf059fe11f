package enums

import "fmt"

// EventEntityType names the aggregate an audit entry belongs to.
type EventEntityType string

const (
	EventEntityTypeBatch        EventEntityType = "BATCH"
	EventEntityTypeBatchProduct EventEntityType = "BATCH_PRODUCT"
	EventEntityTypeOrder        EventEntityType = "ORDER"
	EventEntityTypePayout       EventEntityType = "PAYOUT"
)

var validEventEntityTypes = []EventEntityType{
	EventEntityTypeBatch,
	EventEntityTypeBatchProduct,
	EventEntityTypeOrder,
	EventEntityTypePayout,
}

// String implements fmt.Stringer.
func (e EventEntityType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventEntityType.
func (e EventEntityType) IsValid() bool {
	for _, candidate := range validEventEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventEntityType converts raw input into an EventEntityType.
func ParseEventEntityType(value string) (EventEntityType, error) {
	for _, candidate := range validEventEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event entity type %q", value)
}
