package enums

import "fmt"

// BatchStatus tracks the aggregation cycle of a batch.
type BatchStatus string

const (
	BatchStatusDraft     BatchStatus = "DRAFT"
	BatchStatusOpen      BatchStatus = "OPEN"
	BatchStatusClosed    BatchStatus = "CLOSED"
	BatchStatusCollected BatchStatus = "COLLECTED"
	BatchStatusDelivered BatchStatus = "DELIVERED"
	BatchStatusSettled   BatchStatus = "SETTLED"
)

var validBatchStatuses = []BatchStatus{
	BatchStatusDraft,
	BatchStatusOpen,
	BatchStatusClosed,
	BatchStatusCollected,
	BatchStatusDelivered,
	BatchStatusSettled,
}

// String implements fmt.Stringer.
func (b BatchStatus) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BatchStatus.
func (b BatchStatus) IsValid() bool {
	for _, candidate := range validBatchStatuses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBatchStatus converts raw input into a BatchStatus.
func ParseBatchStatus(value string) (BatchStatus, error) {
	for _, candidate := range validBatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid batch status %q", value)
}
