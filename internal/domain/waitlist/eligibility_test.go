//go:build unit

package waitlist_test

import (
	"testing"
	"time"

	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(raw, offered map[session.RentalType]int) waitlist.InventorySnapshot {
	return waitlist.InventorySnapshot{
		RawRooms:       raw,
		Rooms:          map[session.RentalType]int{},
		WaitlistDemand: map[session.RentalType]int{},
		OfferedCount:   offered,
	}
}

func TestIsEligible(t *testing.T) {
	now := time.Now()

	activeEntry := func(tier session.RentalType) *waitlist.Entry {
		return waitlist.NewEntry(uuid.New(), "Ada Lovelace", tier, session.RentalStandard, now)
	}

	tests := []struct {
		name       string
		entry      func() *waitlist.Entry
		snap       waitlist.InventorySnapshot
		laneActive bool
		want       bool
	}{
		{
			name:  "active entry with a free room of the desired tier",
			entry: func() *waitlist.Entry { return activeEntry(session.RentalDouble) },
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 1},
				map[session.RentalType]int{},
			),
			want: true,
		},
		{
			name:  "active entry once every room of the tier is offered",
			entry: func() *waitlist.Entry { return activeEntry(session.RentalDouble) },
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 1},
				map[session.RentalType]int{session.RentalDouble: 1},
			),
			want: false,
		},
		{
			name:  "one outstanding offer leaves the second room offerable",
			entry: func() *waitlist.Entry { return activeEntry(session.RentalDouble) },
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 2},
				map[session.RentalType]int{session.RentalDouble: 1},
			),
			want: true,
		},
		{
			name:  "active session on the lane blocks regardless of inventory",
			entry: func() *waitlist.Entry { return activeEntry(session.RentalDouble) },
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 3},
				map[session.RentalType]int{},
			),
			laneActive: true,
			want:       false,
		},
		{
			name:  "no rooms of the desired tier at all",
			entry: func() *waitlist.Entry { return activeEntry(session.RentalDeluxe) },
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 2},
				map[session.RentalType]int{},
			),
			want: false,
		},
		{
			name: "offered entry is completable with zero free rooms",
			entry: func() *waitlist.Entry {
				e := activeEntry(session.RentalDouble)
				require.NoError(t, e.Offer(uuid.New(), now))
				return e
			},
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 1},
				map[session.RentalType]int{session.RentalDouble: 1},
			),
			want: true,
		},
		{
			name: "offered entry is blocked while a session is active",
			entry: func() *waitlist.Entry {
				e := activeEntry(session.RentalDouble)
				require.NoError(t, e.Offer(uuid.New(), now))
				return e
			},
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 1},
				map[session.RentalType]int{session.RentalDouble: 1},
			),
			laneActive: true,
			want:       false,
		},
		{
			name: "completed entry is never eligible",
			entry: func() *waitlist.Entry {
				e := activeEntry(session.RentalDouble)
				require.NoError(t, e.Offer(uuid.New(), now))
				require.NoError(t, e.Complete())
				return e
			},
			snap: snapshot(
				map[session.RentalType]int{session.RentalDouble: 5},
				map[session.RentalType]int{},
			),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := waitlist.IsEligible(tt.entry(), tt.snap, tt.laneActive)
			assert.Equal(t, tt.want, got)
		})
	}
}
