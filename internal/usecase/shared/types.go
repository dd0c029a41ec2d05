package shared

import (
	"time"

	"clubops/internal/domain/session"

	"github.com/google/uuid"
)

// Minimal snapshots for command-side reads.

type CustomerSnapshot struct {
	ID               uuid.UUID
	Name             string
	MembershipNumber *string
	MembershipExpiry *time.Time
	PastDueCents     int32
}

// PastDue reports whether the customer carries an outstanding balance that
// must block forward progress on a new session.
func (c *CustomerSnapshot) PastDue() bool {
	return c.PastDueCents > 0
}

type EmployeeSnapshot struct {
	ID      uuid.UUID
	Name    string
	Role    session.OperatorRole
	PinHash string
}

type DeviceSnapshot struct {
	ID       uuid.UUID
	LaneID   string
	Disabled bool
}

type RoomSnapshot struct {
	ID      uuid.UUID
	Number  int32
	Tier    session.RentalType
	Status  string
	Version int32
}

// Room statuses at the authoritative layer. HELD marks the implicit claim
// of an OFFERED waitlist entry.
const (
	RoomAvailable = "AVAILABLE"
	RoomHeld      = "HELD"
	RoomOccupied  = "OCCUPIED"
	RoomOffline   = "OFFLINE"
)
