package checkout

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrAlreadyClaimed = errors.New("checkout request already claimed")
	ErrNotClaimed     = errors.New("checkout request not claimed")
	ErrWrongClaimer   = errors.New("checkout request claimed by another staff member")
	ErrFeeOutstanding = errors.New("late fee not paid")
	ErrTerminal       = errors.New("checkout request already completed")
)

type Status string

const (
	StatusPending        Status = "PENDING"
	StatusClaimed        Status = "CLAIMED"
	StatusItemsConfirmed Status = "ITEMS_CONFIRMED"
	StatusCompleted      Status = "COMPLETED"
)

func (s Status) String() string {
	return string(s)
}

// FeePolicy drives the lateness computation: no charge inside the grace
// window, then FeeCents per started Interval.
type FeePolicy struct {
	Grace    time.Duration
	FeeCents int32
	Interval time.Duration
}

// Request is the ephemeral notification of a customer-initiated checkout.
// Exactly one staff member may hold the claim at a time.
type Request struct {
	ID          uuid.UUID
	VisitID     uuid.UUID
	RoomNumber  int32
	ScheduledAt time.Time
	RequestedAt time.Time
	MinutesLate int32
	FeeCents    int32
	FeePaid     bool
	ClaimedBy   *uuid.UUID
	Status      Status
}

func NewRequest(visitID uuid.UUID, roomNumber int32, scheduledAt, requestedAt time.Time, policy FeePolicy) *Request {
	minutesLate, feeCents := ComputeLateFee(scheduledAt, requestedAt, policy)
	return &Request{
		ID:          uuid.New(),
		VisitID:     visitID,
		RoomNumber:  roomNumber,
		ScheduledAt: scheduledAt,
		RequestedAt: requestedAt,
		MinutesLate: minutesLate,
		FeeCents:    feeCents,
		FeePaid:     feeCents == 0,
		Status:      StatusPending,
	}
}

// ComputeLateFee returns whole minutes past the scheduled checkout and the
// fee owed. The first fee interval starts when the grace window closes.
func ComputeLateFee(scheduledAt, requestedAt time.Time, policy FeePolicy) (minutesLate, feeCents int32) {
	late := requestedAt.Sub(scheduledAt)
	if late <= 0 {
		return 0, 0
	}
	minutesLate = int32(late / time.Minute)
	if late <= policy.Grace {
		return minutesLate, 0
	}
	if policy.Interval <= 0 {
		return minutesLate, policy.FeeCents
	}
	billable := late - policy.Grace
	blocks := int32((billable + policy.Interval - 1) / policy.Interval)
	return minutesLate, blocks * policy.FeeCents
}

func (r *Request) Claim(staffID uuid.UUID) error {
	if r.Status == StatusCompleted {
		return ErrTerminal
	}
	if r.ClaimedBy != nil && *r.ClaimedBy != staffID {
		return ErrAlreadyClaimed
	}
	id := staffID
	r.ClaimedBy = &id
	if r.Status == StatusPending {
		r.Status = StatusClaimed
	}
	return nil
}

func (r *Request) ConfirmItems(staffID uuid.UUID) error {
	if err := r.requireClaimer(staffID); err != nil {
		return err
	}
	r.Status = StatusItemsConfirmed
	return nil
}

func (r *Request) MarkFeePaid(staffID uuid.UUID) error {
	if err := r.requireClaimer(staffID); err != nil {
		return err
	}
	r.FeePaid = true
	return nil
}

func (r *Request) Complete(staffID uuid.UUID) error {
	if err := r.requireClaimer(staffID); err != nil {
		return err
	}
	if !r.FeePaid {
		return ErrFeeOutstanding
	}
	r.Status = StatusCompleted
	return nil
}

func (r *Request) requireClaimer(staffID uuid.UUID) error {
	if r.Status == StatusCompleted {
		return ErrTerminal
	}
	if r.ClaimedBy == nil {
		return ErrNotClaimed
	}
	if *r.ClaimedBy != staffID {
		return ErrWrongClaimer
	}
	return nil
}
