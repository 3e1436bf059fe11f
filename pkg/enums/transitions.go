package enums

import "github.com/angelmondragon/farmbatch-backend/pkg/statemachine"

// BatchTransitions only moves forward, one step at a time.
var BatchTransitions = statemachine.Table[BatchStatus]{
	BatchStatusDraft:     {BatchStatusOpen},
	BatchStatusOpen:      {BatchStatusClosed},
	BatchStatusClosed:    {BatchStatusCollected},
	BatchStatusCollected: {BatchStatusDelivered},
	BatchStatusDelivered: {BatchStatusSettled},
	BatchStatusSettled:   {},
}

// OrderTransitions is the full order lifecycle. Cancellation is only reachable
// before any payment has been recorded.
var OrderTransitions = statemachine.Table[OrderStatus]{
	OrderStatusPlaced:         {OrderStatusCommitmentPaid, OrderStatusCancelled},
	OrderStatusCommitmentPaid: {OrderStatusFullyPaid},
	OrderStatusFullyPaid:      {OrderStatusPacked},
	OrderStatusPacked:         {OrderStatusDistributed, OrderStatusFullyPaid},
	OrderStatusDistributed:    {OrderStatusPacked},
	OrderStatusCancelled:      {},
}

// PackingTransitions is the post-payment slice of the order lifecycle that
// operators drive by hand. Both steps can be undone one at a time.
var PackingTransitions = statemachine.Table[OrderStatus]{
	OrderStatusFullyPaid:   {OrderStatusPacked},
	OrderStatusPacked:      {OrderStatusDistributed, OrderStatusFullyPaid},
	OrderStatusDistributed: {OrderStatusPacked},
}

// ProcurementStatuses are the order statuses that commit the operator to source goods.
var ProcurementStatuses = []OrderStatus{OrderStatusCommitmentPaid, OrderStatusFullyPaid}

// PayoutStatuses are the order statuses that make a farmer owed money.
var PayoutStatuses = []OrderStatus{
	OrderStatusCommitmentPaid,
	OrderStatusFullyPaid,
	OrderStatusPacked,
	OrderStatusDistributed,
}

// Editable reports whether buyers may still change an order in this status.
func (o OrderStatus) Editable() bool {
	return o == OrderStatusPlaced
}

// Terminal reports whether a batch has reached the end of its lifecycle.
func (b BatchStatus) Terminal() bool {
	return BatchTransitions.Terminal(b)
}
