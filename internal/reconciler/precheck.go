package reconciler

import "errors"

// Client-side assignment prechecks. These mirror the authoritative checks so
// the terminal can disable the submit with a reason instead of sending a
// request that is already doomed.
var (
	ErrNoSession          = errors.New("No active session on this lane.")
	ErrBlockedPastDue     = errors.New("Past-due balance must be resolved first.")
	ErrSelectionUnlocked  = errors.New("Selection must be confirmed before assignment.")
	ErrAwaitingAck        = errors.New("Selection lock has not been acknowledged.")
	ErrPaymentOutstanding = errors.New("Payment must be marked as paid before assignment.")
	ErrSignatureMissing   = errors.New("Agreement must be signed before assignment.")
	ErrAwaitingCustomer   = errors.New("Waiting for the customer's response.")
	ErrAlreadyHasResource = errors.New("A resource is already assigned.")
)

// CheckAssignment returns the first reason assignment cannot be submitted,
// in the same order the server evaluates them, or nil when the submit is
// worth sending.
func (p *LaneProjection) CheckAssignment() error {
	s := p.Session()
	if s == nil {
		return ErrNoSession
	}
	if s.PastDueBlocked {
		return ErrBlockedPastDue
	}
	if !s.SelectionConfirmed {
		return ErrSelectionUnlocked
	}
	if !s.LockAcknowledged {
		return ErrAwaitingAck
	}
	if s.PaymentStatus != "PAID" {
		return ErrPaymentOutstanding
	}
	if !s.AgreementSigned {
		return ErrSignatureMissing
	}
	if s.PendingConfirmation {
		return ErrAwaitingCustomer
	}
	if s.AssignedResourceType != nil {
		return ErrAlreadyHasResource
	}
	return nil
}
