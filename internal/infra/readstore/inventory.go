package readstore

import (
	"context"
	"time"

	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"
	"clubops/internal/infra"
	"clubops/internal/infra/db"
)

type InventoryReadStore struct {
	dbtx db.DBTX
}

func NewInventoryReadStore(dbtx db.DBTX) *InventoryReadStore {
	return &InventoryReadStore{dbtx: dbtx}
}

// Snapshot aggregates the venue's availability in one pass: rentable rooms
// per tier, open waitlist demand per tier, and rooms currently held for
// offers. RawRooms includes held rooms, since eligibility subtracts
// OfferedCount from it. Effective availability is raw minus unfulfilled
// demand, floored at zero.
func (s *InventoryReadStore) Snapshot(ctx context.Context) (*waitlist.InventorySnapshot, error) {
	snap := &waitlist.InventorySnapshot{
		RawRooms:       map[session.RentalType]int{},
		Rooms:          map[session.RentalType]int{},
		WaitlistDemand: map[session.RentalType]int{},
		OfferedCount:   map[session.RentalType]int{},
		Version:        time.Now().UnixNano(),
	}

	const roomsQuery = `
		SELECT tier, status, COUNT(*)
		FROM rooms
		WHERE status IN ('AVAILABLE', 'HELD')
		GROUP BY tier, status`

	rows, err := s.dbtx.Query(ctx, roomsQuery)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate rooms", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tier   string
			status string
			count  int
		)
		if err := rows.Scan(&tier, &status, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan room aggregate", err)
		}
		t := session.RentalType(tier)
		snap.RawRooms[t] += count
		if status == "HELD" {
			snap.OfferedCount[t] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate room aggregates", err)
	}

	const demandQuery = `
		SELECT desired_tier, COUNT(*)
		FROM waitlist_entries
		WHERE status IN ('ACTIVE', 'OFFERED')
		GROUP BY desired_tier`

	rows, err = s.dbtx.Query(ctx, demandQuery)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to aggregate waitlist demand", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			tier  string
			count int
		)
		if err := rows.Scan(&tier, &count); err != nil {
			return nil, infra.WrapRepoErr("failed to scan demand aggregate", err)
		}
		snap.WaitlistDemand[session.RentalType(tier)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate demand aggregates", err)
	}

	for tier, raw := range snap.RawRooms {
		effective := raw - snap.WaitlistDemand[tier]
		if effective < 0 {
			effective = 0
		}
		snap.Rooms[tier] = effective
	}
	return snap, nil
}
