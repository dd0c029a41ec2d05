package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus  = errors.New("invalid payment intent status")
	ErrAlreadyPaid    = errors.New("payment intent already paid")
	ErrNotPaid        = errors.New("payment intent not paid")
	ErrEmptyDecline   = errors.New("decline reason required")
	ErrNegativeAmount = errors.New("amount cannot be negative")
)

type Status string

const (
	StatusDue  Status = "DUE"
	StatusPaid Status = "PAID"
)

func (s Status) String() string {
	return string(s)
}

type Kind string

const (
	KindSession Kind = "SESSION"
	KindUpgrade Kind = "UPGRADE"
	KindPastDue Kind = "PAST_DUE"
)

// Intent is one payable quote. A session has at most one active intent;
// an upgrade offer carries its own.
type Intent struct {
	ID            uuid.UUID
	Kind          Kind
	SessionID     *uuid.UUID
	WaitlistID    *uuid.UUID
	Quote         Quote
	Status        Status
	FailureReason *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func NewIntent(kind Kind, sessionID, waitlistID *uuid.UUID, quote Quote, now time.Time) (*Intent, error) {
	if quote.TotalCents < 0 {
		return nil, ErrNegativeAmount
	}
	return &Intent{
		ID:         uuid.New(),
		Kind:       kind,
		SessionID:  sessionID,
		WaitlistID: waitlistID,
		Quote:      quote,
		Status:     StatusDue,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (i *Intent) MarkPaid(now time.Time) error {
	if i.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	i.Status = StatusPaid
	i.FailureReason = nil
	i.UpdatedAt = now
	return nil
}

// Decline records a failed payment attempt. The intent stays DUE; only the
// failure reason changes, and the UI must let the actor dismiss it.
func (i *Intent) Decline(reason string, now time.Time) error {
	if reason == "" {
		return ErrEmptyDecline
	}
	if i.Status == StatusPaid {
		return ErrAlreadyPaid
	}
	r := reason
	i.FailureReason = &r
	i.UpdatedAt = now
	return nil
}

func (i *Intent) DismissFailure(now time.Time) {
	i.FailureReason = nil
	i.UpdatedAt = now
}
