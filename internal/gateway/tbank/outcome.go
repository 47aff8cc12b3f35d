package tbank

import "errors"

// Outcome is a payment result reported by the provider in a notification.
type Outcome string

const (
	OutcomeAuthorized Outcome = "authorized"
	OutcomeConfirmed  Outcome = "confirmed"
	OutcomeRejected   Outcome = "rejected"
	OutcomeCanceled   Outcome = "canceled"
	OutcomeRefunded   Outcome = "refunded"
)

var ErrUnknownOutcome = errors.New("unknown payment outcome")

// providerStatuses maps the provider's payment status codes to outcomes.
var providerStatuses = map[string]Outcome{
	"AUTHORIZED": OutcomeAuthorized,
	"CONFIRMED":  OutcomeConfirmed,
	"REJECTED":   OutcomeRejected,
	"CANCELED":   OutcomeCanceled,
	"REVERSED":   OutcomeCanceled,
	"REFUNDED":   OutcomeRefunded,
}

// ParseOutcome converts a provider status code into an Outcome, rejecting
// anything unrecognized at the boundary.
func ParseOutcome(providerStatus string) (Outcome, error) {
	outcome, ok := providerStatuses[providerStatus]
	if !ok {
		return "", ErrUnknownOutcome
	}

	return outcome, nil
}
