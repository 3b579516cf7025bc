package orders

import (
	"errors"
	"testing"
)

var allStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

var legalPairs = map[[2]Status]bool{
	{StatusPending, StatusConfirmed}:   true,
	{StatusPending, StatusCancelled}:   true,
	{StatusConfirmed, StatusShipped}:   true,
	{StatusConfirmed, StatusCancelled}: true,
	{StatusShipped, StatusDelivered}:   true,
}

// Every (from, to) pair outside the transition table must be refused,
// including self-transitions and anything out of a terminal state.
func TestCanTransitionFullGrid(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := legalPairs[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, terminal := range []Status{StatusDelivered, StatusCancelled} {
		for _, to := range allStatuses {
			if CanTransition(terminal, to) {
				t.Fatalf("terminal state %s must not allow transition to %s", terminal, to)
			}
		}
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range allStatuses {
		if !IsValid(s) {
			t.Fatalf("expected %s to be a valid status", s)
		}
	}
	for _, s := range []Status{"", "pending", "REFUNDED", "DONE"} {
		if IsValid(s) {
			t.Fatalf("expected %q to be rejected", s)
		}
	}
}

func TestIllegalTransitionErrorNamesBothStates(t *testing.T) {
	err := error(IllegalTransitionError{From: StatusDelivered, To: StatusShipped})

	var illegal IllegalTransitionError
	if !errors.As(err, &illegal) {
		t.Fatal("expected errors.As to match IllegalTransitionError")
	}
	if illegal.From != StatusDelivered || illegal.To != StatusShipped {
		t.Fatalf("expected From=DELIVERED To=SHIPPED, got %+v", illegal)
	}
	msg := err.Error()
	if msg != "cannot move order from DELIVERED to SHIPPED" {
		t.Fatalf("unexpected message: %s", msg)
	}
}
