package enums

import "fmt"

// PaymentStage identifies which of the two buyer payments a receipt settles.
type PaymentStage string

const (
	PaymentStageCommitment PaymentStage = "COMMITMENT"
	PaymentStageFinal      PaymentStage = "FINAL"
)

var validPaymentStages = []PaymentStage{
	PaymentStageCommitment,
	PaymentStageFinal,
}

// String implements fmt.Stringer.
func (p PaymentStage) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStage.
func (p PaymentStage) IsValid() bool {
	for _, candidate := range validPaymentStages {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStage converts raw input into a PaymentStage.
func ParsePaymentStage(value string) (PaymentStage, error) {
	for _, candidate := range validPaymentStages {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment stage %q", value)
}
