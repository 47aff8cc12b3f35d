package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to awaiting_payment", StatusPending, StatusAwaitingPayment, true},
		{"pending to canceled", StatusPending, StatusCanceled, true},
		{"pending skips to delivered", StatusPending, StatusDelivered, false},
		{"pending skips to paid", StatusPending, StatusPaid, false},
		{"awaiting_payment to paid", StatusAwaitingPayment, StatusPaid, true},
		{"awaiting_payment to rejected", StatusAwaitingPayment, StatusRejected, true},
		{"awaiting_payment to refunded", StatusAwaitingPayment, StatusRefunded, false},
		{"paid to processing", StatusPaid, StatusProcessing, true},
		{"paid to refunded", StatusPaid, StatusRefunded, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"shipped to refunded", StatusShipped, StatusRefunded, true},
		{"delivered is terminal", StatusDelivered, StatusRefunded, false},
		{"canceled is terminal", StatusCanceled, StatusPending, false},
		{"rejected is terminal", StatusRejected, StatusPaid, false},
		{"refunded is terminal", StatusRefunded, StatusPaid, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	terminal := []Status{StatusDelivered, StatusCanceled, StatusRejected, StatusRefunded, StatusFailed}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "expected %s to be terminal", s)
	}

	nonTerminal := []Status{StatusPending, StatusAwaitingPayment, StatusPaid, StatusProcessing, StatusShipped}
	for _, s := range nonTerminal {
		assert.False(t, s.IsTerminal(), "expected %s to be non-terminal", s)
	}
}

func TestParseStatus(t *testing.T) {
	parsed, err := ParseStatus("awaiting_payment")
	assert.NoError(t, err)
	assert.Equal(t, StatusAwaitingPayment, parsed)

	_, err = ParseStatus("shipped_back")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
