package waitlist

import (
	"clubops/internal/domain/session"
)

// InventorySnapshot is the read model eligibility is computed against. It
// is owned by the inventory queries, not the waitlist; entries only consume
// it. RawRooms counts rentable rooms per tier including those held for
// outstanding offers, Rooms nets out waitlist demand, OfferedCount counts
// rooms held by OFFERED entries.
type InventorySnapshot struct {
	RawRooms       map[session.RentalType]int `json:"rawRooms"`
	Rooms          map[session.RentalType]int `json:"rooms"`
	WaitlistDemand map[session.RentalType]int `json:"waitlistDemand"`
	OfferedCount   map[session.RentalType]int `json:"offeredCount"`
	Version        int64                      `json:"version"`
}

// IsEligible decides whether an entry may currently be offered an upgrade
// (ACTIVE) or completed (OFFERED). Any active session on the lane blocks
// both, regardless of inventory.
func IsEligible(e *Entry, snap InventorySnapshot, laneSessionActive bool) bool {
	if laneSessionActive {
		return false
	}
	switch e.Status {
	case StatusOffered:
		// An offered entry already holds its room.
		return true
	case StatusActive:
		return snap.RawRooms[e.DesiredTier]-snap.OfferedCount[e.DesiredTier] > 0
	default:
		return false
	}
}
