package order

import (
	"database/sql/driver"
	"errors"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending         Status = "pending"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
	StatusProcessing      Status = "processing"
	StatusShipped         Status = "shipped"
	StatusDelivered       Status = "delivered"
	StatusCanceled        Status = "canceled"
	StatusRejected        Status = "rejected"
	StatusRefunded        Status = "refunded"
	StatusFailed          Status = "failed"
)

var ErrInvalidStatus = errors.New("invalid order status")

// statusTransitions lists the legal successors of every non-terminal status.
// Statuses absent from the map are terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:         {StatusAwaitingPayment, StatusCanceled},
	StatusAwaitingPayment: {StatusPaid, StatusRejected, StatusCanceled},
	StatusPaid:            {StatusProcessing, StatusRefunded, StatusCanceled},
	StatusProcessing:      {StatusShipped, StatusRefunded, StatusCanceled},
	StatusShipped:         {StatusDelivered, StatusRefunded, StatusCanceled},
}

func (s Status) String() string {
	return string(s)
}

func (s Status) Value() (driver.Value, error) {
	return s.String(), nil
}

// IsTerminal reports whether no further transitions are accepted from s.
func (s Status) IsTerminal() bool {
	_, ok := statusTransitions[s]
	return !ok
}

// CanTransitionTo reports whether target is a legal successor of s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}

	return false
}

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusAwaitingPayment, StatusPaid, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCanceled, StatusRejected,
		StatusRefunded, StatusFailed:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
