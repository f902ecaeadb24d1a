package services

import "github.com/tableserve/restaurant-system/models"

// TransitionPolicy controls how strict the order status machine is.
// AllowTerminalOverride reproduces the legacy looseness where staff could
// move an order out of COMPLETED/CANCELLED; the wired default forbids it.
type TransitionPolicy struct {
	AllowTerminalOverride bool
}

// CheckOrderTransition validates current -> requested. Any move between
// non-terminal states is allowed, including skip-ahead (staff can take
// PENDING straight to READY) and backward corrections; CANCELLED is
// reachable from every non-terminal state. Requesting the current status
// again is a no-op, not an error.
func (p TransitionPolicy) CheckOrderTransition(current, requested string) error {
	if !models.ValidOrderStatus(requested) {
		return &ValidationError{Message: "invalid order status: " + requested}
	}
	if current == requested {
		return nil
	}
	if models.TerminalOrderStatus(current) && !p.AllowTerminalOverride {
		return &InvalidTransitionError{From: current, To: requested}
	}
	return nil
}

// paymentTransitions is the payment sub-state machine: FAILED is
// retryable, REFUNDED is only reachable from PAID, PAID and REFUNDED are
// otherwise terminal.
var paymentTransitions = map[string][]string{
	models.PaymentStatusPending:  {models.PaymentStatusPaid, models.PaymentStatusFailed},
	models.PaymentStatusFailed:   {models.PaymentStatusPending, models.PaymentStatusPaid},
	models.PaymentStatusPaid:     {models.PaymentStatusRefunded},
	models.PaymentStatusRefunded: {},
}

// CheckPaymentTransition validates a payment status change against the
// transition table.
func CheckPaymentTransition(current, requested string) error {
	if !models.ValidPaymentStatus(requested) {
		return &ValidationError{Message: "invalid payment status: " + requested}
	}
	if current == requested {
		return nil
	}
	for _, next := range paymentTransitions[current] {
		if next == requested {
			return nil
		}
	}
	return &InvalidTransitionError{From: current, To: requested}
}
