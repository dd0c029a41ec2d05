package queries

import (
	"context"
	"time"

	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"

	"github.com/google/uuid"
)

type WaitlistEntryView struct {
	ID            uuid.UUID  `json:"id"`
	VisitID       uuid.UUID  `json:"visitId"`
	CustomerName  string     `json:"customerName"`
	DesiredTier   string     `json:"desiredTier"`
	BackupTier    string     `json:"backupTier"`
	Status        string     `json:"status"`
	OfferedRoomID *uuid.UUID `json:"offeredRoomId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	OfferedAt     *time.Time `json:"offeredAt,omitempty"`
	IsEligible    bool       `json:"isEligible"`
}

type OfferableRoomView struct {
	ID     uuid.UUID `json:"id"`
	Number int32     `json:"number"`
	Tier   string    `json:"tier"`
}

type WaitlistReadStore interface {
	ListOpen(ctx context.Context) ([]*waitlist.Entry, error)
	OfferableRooms(ctx context.Context, tier session.RentalType) ([]*OfferableRoomView, error)
	ActiveSessionExists(ctx context.Context, laneID string) (bool, error)
}

type WaitlistQueries interface {
	// List returns open entries with eligibility computed against the
	// current inventory snapshot and the requesting lane's session state.
	List(ctx context.Context, laneID string) ([]*WaitlistEntryView, error)
	OfferableRooms(ctx context.Context, tier session.RentalType) ([]*OfferableRoomView, error)
}

type waitlistQueriesImpl struct {
	store     WaitlistReadStore
	inventory InventoryQueries
}

func NewWaitlistQueries(store WaitlistReadStore, inventory InventoryQueries) WaitlistQueries {
	return &waitlistQueriesImpl{store: store, inventory: inventory}
}

func (q *waitlistQueriesImpl) List(ctx context.Context, laneID string) ([]*WaitlistEntryView, error) {
	entries, err := q.store.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := q.inventory.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	laneBusy, err := q.store.ActiveSessionExists(ctx, laneID)
	if err != nil {
		return nil, err
	}

	views := make([]*WaitlistEntryView, len(entries))
	for i, e := range entries {
		views[i] = &WaitlistEntryView{
			ID:            e.ID,
			VisitID:       e.VisitID,
			CustomerName:  e.CustomerName,
			DesiredTier:   e.DesiredTier.String(),
			BackupTier:    e.BackupTier.String(),
			Status:        e.Status.String(),
			OfferedRoomID: e.OfferedRoomID,
			CreatedAt:     e.CreatedAt,
			OfferedAt:     e.OfferedAt,
			IsEligible:    waitlist.IsEligible(e, *snap, laneBusy),
		}
	}
	return views, nil
}

func (q *waitlistQueriesImpl) OfferableRooms(ctx context.Context, tier session.RentalType) ([]*OfferableRoomView, error) {
	return q.store.OfferableRooms(ctx, tier)
}
