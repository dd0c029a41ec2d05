package errs

import "errors"

// Domain-specific sentinel errors for the lane negotiation usecase layers
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrLaneBusy        = errors.New("lane already has an active session")
	ErrSessionInactive = errors.New("no active session on lane")

	// Negotiation errors
	ErrSelectionLocked = errors.New("selection already locked")
	ErrNoProposal      = errors.New("no rental type proposed")
	ErrAckNotRequired  = errors.New("lock acknowledgement not required")
	ErrPastDueBlocked  = errors.New("customer has a past-due balance")

	// Assignment errors
	ErrAssignmentRaceLost    = errors.New("resource claimed by a concurrent session")
	ErrAssignmentNotReady    = errors.New("assignment preconditions not met")
	ErrResourceUnavailable   = errors.New("resource unavailable")
	ErrConfirmationPending   = errors.New("customer confirmation pending")
	ErrNoPendingConfirmation = errors.New("no customer confirmation pending")

	// Payment errors
	ErrPaymentIntentExists   = errors.New("payment intent already created")
	ErrPaymentIntentNotFound = errors.New("payment intent not found")
	ErrPaymentNotPaid        = errors.New("payment not marked as paid")
	ErrBypassDenied          = errors.New("manager bypass denied")

	// Waitlist errors
	ErrWaitlistNotFound   = errors.New("waitlist entry not found")
	ErrWaitlistNotActive  = errors.New("waitlist entry not active")
	ErrWaitlistNotOffered = errors.New("waitlist entry not offered")
	ErrOfferConflict      = errors.New("room offer conflict")

	// Checkout errors
	ErrCheckoutNotFound = errors.New("checkout request not found")
	ErrCheckoutClaimed  = errors.New("checkout request already claimed")

	// Validation / operation errors
	ErrDomainValidation        = errors.New("domain validation error")
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
