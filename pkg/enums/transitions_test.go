package enums

import "testing"

func TestBatchTransitionsOnlyMoveForwardOneStep(t *testing.T) {
	order := validBatchStatuses
	for i, from := range order {
		for j, to := range order {
			want := j == i+1
			if got := BatchTransitions.Allowed(from, to); got != want {
				t.Fatalf("%s -> %s: expected allowed=%v", from, to, want)
			}
		}
	}
	if !BatchStatusSettled.Terminal() {
		t.Fatalf("settled must be terminal")
	}
}

func TestOrderTransitionsCancelOnlyFromPlaced(t *testing.T) {
	for _, from := range validOrderStatuses {
		want := from == OrderStatusPlaced
		if got := OrderTransitions.Allowed(from, OrderStatusCancelled); got != want {
			t.Fatalf("%s -> CANCELLED: expected allowed=%v", from, want)
		}
	}
}

func TestPackingTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusFullyPaid, OrderStatusPacked, true},
		{OrderStatusPacked, OrderStatusDistributed, true},
		{OrderStatusPacked, OrderStatusFullyPaid, true},
		{OrderStatusDistributed, OrderStatusPacked, true},
		{OrderStatusDistributed, OrderStatusFullyPaid, false},
		{OrderStatusCommitmentPaid, OrderStatusPacked, false},
		{OrderStatusFullyPaid, OrderStatusDistributed, false},
	}
	for _, tc := range cases {
		if got := PackingTransitions.Allowed(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %v", tc.from, tc.to, tc.want)
		}
	}
}

func TestParseRejectsUnknown(t *testing.T) {
	if _, err := ParseBatchStatus("open"); err == nil {
		t.Fatalf("statuses are case sensitive")
	}
	if got, err := ParseOrderStatus("PACKED"); err != nil || got != OrderStatusPacked {
		t.Fatalf("unexpected parse result %v %v", got, err)
	}
	if _, err := ParseActiveFilter(""); err == nil {
		t.Fatalf("empty filter must be rejected")
	}
}
