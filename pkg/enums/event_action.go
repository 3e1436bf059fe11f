package enums

import "fmt"

// EventAction is the audited action recorded in the event log.
type EventAction string

const (
	EventActionStatusChange            EventAction = "STATUS_CHANGE"
	EventActionBatchCreated            EventAction = "BATCH_CREATED"
	EventActionBatchUpdated            EventAction = "BATCH_UPDATED"
	EventActionBatchProductAdded       EventAction = "BATCH_PRODUCT_ADDED"
	EventActionBatchProductUpdated     EventAction = "BATCH_PRODUCT_UPDATED"
	EventActionBatchProductRemoved     EventAction = "BATCH_PRODUCT_REMOVED"
	EventActionOrderCreated            EventAction = "ORDER_CREATED"
	EventActionOrderEdited             EventAction = "ORDER_EDITED"
	EventActionOrderCancelled          EventAction = "ORDER_CANCELLED"
	EventActionCommitmentPaymentLogged EventAction = "COMMITMENT_PAYMENT_LOGGED"
	EventActionFinalPaymentLogged      EventAction = "FINAL_PAYMENT_LOGGED"
	EventActionPayoutLogged            EventAction = "PAYOUT_LOGGED"
)

var validEventActions = []EventAction{
	EventActionStatusChange,
	EventActionBatchCreated,
	EventActionBatchUpdated,
	EventActionBatchProductAdded,
	EventActionBatchProductUpdated,
	EventActionBatchProductRemoved,
	EventActionOrderCreated,
	EventActionOrderEdited,
	EventActionOrderCancelled,
	EventActionCommitmentPaymentLogged,
	EventActionFinalPaymentLogged,
	EventActionPayoutLogged,
}

// String implements fmt.Stringer.
func (e EventAction) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventAction.
func (e EventAction) IsValid() bool {
	for _, candidate := range validEventActions {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventAction converts raw input into an EventAction.
func ParseEventAction(value string) (EventAction, error) {
	for _, candidate := range validEventActions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event action %q", value)
}
