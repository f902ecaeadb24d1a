package services

import (
	"fmt"

	"github.com/tableserve/restaurant-system/utils"
)

// NotFoundError: a referenced order, item, menu item or table id does not
// exist. Never silently defaulted; mutations on missing rows fail loudly.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError: malformed input, rejected before any persistence side
// effect.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InvalidTransitionError: the requested status change is not allowed from
// the current state.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

// InsufficientPaymentError: cash received is less than the amount due.
type InsufficientPaymentError struct {
	ReceivedCents int64
	DueCents      int64
}

func (e *InsufficientPaymentError) Error() string {
	return fmt.Sprintf("insufficient payment: received %s, due %s",
		utils.FormatCents(e.ReceivedCents), utils.FormatCents(e.DueCents))
}

// ConflictError: a uniqueness clash (order number collision) that survived
// its retries.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}
