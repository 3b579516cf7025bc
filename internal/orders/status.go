package orders

import "fmt"

// Status is the order lifecycle state. Exactly these five values are stored
// and exposed, case-sensitive.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// validNext is the whole lifecycle; DELIVERED and CANCELLED are terminal.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusConfirmed: true, StatusCancelled: true},
	StatusConfirmed: {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// IsValid reports whether s is one of the five known statuses.
func IsValid(s Status) bool {
	_, ok := validNext[s]
	return ok
}

// IllegalTransitionError names both states so the caller can explain the
// refusal.
type IllegalTransitionError struct {
	From Status
	To   Status
}

func (e IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}
