package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tableserve/restaurant-system/models"
)

func TestOrderTransitionHappyPath(t *testing.T) {
	policy := TransitionPolicy{}

	steps := []string{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusCompleted,
	}
	current := models.OrderStatusPending
	for _, next := range steps {
		assert.NoError(t, policy.CheckOrderTransition(current, next))
		current = next
	}
}

func TestOrderTransitionSkipAhead(t *testing.T) {
	policy := TransitionPolicy{}

	// Staff can jump the queue in either direction between live states.
	assert.NoError(t, policy.CheckOrderTransition(models.OrderStatusPending, models.OrderStatusReady))
	assert.NoError(t, policy.CheckOrderTransition(models.OrderStatusReady, models.OrderStatusConfirmed))
}

func TestOrderTransitionCancelFromAnyLiveState(t *testing.T) {
	policy := TransitionPolicy{}

	for _, from := range []string{
		models.OrderStatusPending,
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
	} {
		assert.NoError(t, policy.CheckOrderTransition(from, models.OrderStatusCancelled))
	}
}

func TestOrderTransitionTerminalStatesAreFinal(t *testing.T) {
	policy := TransitionPolicy{}

	err := policy.CheckOrderTransition(models.OrderStatusCompleted, models.OrderStatusCancelled)
	var invalid *InvalidTransitionError
	assert.ErrorAs(t, err, &invalid)

	err = policy.CheckOrderTransition(models.OrderStatusCancelled, models.OrderStatusPending)
	assert.ErrorAs(t, err, &invalid)

	// Re-asserting the current terminal status is not an exit.
	assert.NoError(t, policy.CheckOrderTransition(models.OrderStatusCompleted, models.OrderStatusCompleted))
}

func TestOrderTransitionTerminalOverride(t *testing.T) {
	// The loose legacy behaviour, available behind the policy flag.
	policy := TransitionPolicy{AllowTerminalOverride: true}

	assert.NoError(t, policy.CheckOrderTransition(models.OrderStatusCompleted, models.OrderStatusCancelled))
	assert.NoError(t, policy.CheckOrderTransition(models.OrderStatusCancelled, models.OrderStatusPending))
}

func TestOrderTransitionRejectsUnknownStatus(t *testing.T) {
	policy := TransitionPolicy{}

	err := policy.CheckOrderTransition(models.OrderStatusPending, "BURNED")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestPaymentTransitions(t *testing.T) {
	assert.NoError(t, CheckPaymentTransition(models.PaymentStatusPending, models.PaymentStatusPaid))
	assert.NoError(t, CheckPaymentTransition(models.PaymentStatusPending, models.PaymentStatusFailed))
	assert.NoError(t, CheckPaymentTransition(models.PaymentStatusFailed, models.PaymentStatusPending))
	assert.NoError(t, CheckPaymentTransition(models.PaymentStatusFailed, models.PaymentStatusPaid))
	assert.NoError(t, CheckPaymentTransition(models.PaymentStatusPaid, models.PaymentStatusRefunded))

	var invalid *InvalidTransitionError
	// Refunds only come out of PAID.
	assert.ErrorAs(t, CheckPaymentTransition(models.PaymentStatusPending, models.PaymentStatusRefunded), &invalid)
	assert.ErrorAs(t, CheckPaymentTransition(models.PaymentStatusPaid, models.PaymentStatusPending), &invalid)
	assert.ErrorAs(t, CheckPaymentTransition(models.PaymentStatusRefunded, models.PaymentStatusPaid), &invalid)

	var validation *ValidationError
	assert.ErrorAs(t, CheckPaymentTransition(models.PaymentStatusPending, "IOU"), &validation)
}
