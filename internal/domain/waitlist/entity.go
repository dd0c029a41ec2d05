package waitlist

import (
	"errors"
	"time"

	"clubops/internal/domain/session"

	"github.com/google/uuid"
)

var (
	ErrNotActive  = errors.New("waitlist entry is not active")
	ErrNotOffered = errors.New("waitlist entry is not offered")
	ErrTerminal   = errors.New("waitlist entry already completed or cancelled")
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusOffered   Status = "OFFERED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

// Entry is one customer waiting for a preferred tier. An OFFERED entry
// holds an implicit claim on one concrete room until completed or
// cancelled.
type Entry struct {
	ID            uuid.UUID
	VisitID       uuid.UUID
	CustomerName  string
	DesiredTier   session.RentalType
	BackupTier    session.RentalType
	Status        Status
	OfferedRoomID *uuid.UUID
	CreatedAt     time.Time
	OfferedAt     *time.Time
}

func NewEntry(visitID uuid.UUID, customerName string, desired, backup session.RentalType, now time.Time) *Entry {
	return &Entry{
		ID:           uuid.New(),
		VisitID:      visitID,
		CustomerName: customerName,
		DesiredTier:  desired,
		BackupTier:   backup,
		Status:       StatusActive,
		CreatedAt:    now,
	}
}

// Offer transitions ACTIVE to OFFERED. The caller must already hold the
// room reservation; a conflict there means this is never reached.
func (e *Entry) Offer(roomID uuid.UUID, now time.Time) error {
	if e.Status != StatusActive {
		return ErrNotActive
	}
	id := roomID
	e.Status = StatusOffered
	e.OfferedRoomID = &id
	t := now
	e.OfferedAt = &t
	return nil
}

func (e *Entry) Complete() error {
	if e.Status != StatusOffered {
		return ErrNotOffered
	}
	e.Status = StatusCompleted
	return nil
}

// CancelOffer releases the implicit room hold and returns the entry to
// ACTIVE so the customer keeps their place in line.
func (e *Entry) CancelOffer() (releasedRoom uuid.UUID, err error) {
	if e.Status != StatusOffered || e.OfferedRoomID == nil {
		return uuid.Nil, ErrNotOffered
	}
	released := *e.OfferedRoomID
	e.Status = StatusActive
	e.OfferedRoomID = nil
	e.OfferedAt = nil
	return released, nil
}

func (e *Entry) Cancel() error {
	if e.Status == StatusCompleted || e.Status == StatusCancelled {
		return ErrTerminal
	}
	e.Status = StatusCancelled
	return nil
}
