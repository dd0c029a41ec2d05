package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CheckoutRequestView struct {
	ID          uuid.UUID  `json:"id"`
	VisitID     uuid.UUID  `json:"visitId"`
	RoomNumber  int32      `json:"roomNumber"`
	ScheduledAt time.Time  `json:"scheduledAt"`
	RequestedAt time.Time  `json:"requestedAt"`
	MinutesLate int32      `json:"minutesLate"`
	FeeCents    int32      `json:"feeCents"`
	FeePaid     bool       `json:"feePaid"`
	ClaimedBy   *uuid.UUID `json:"claimedBy,omitempty"`
	Status      string     `json:"status"`
}

type CheckoutReadStore interface {
	ListOpen(ctx context.Context) ([]*CheckoutRequestView, error)
}

type CheckoutQueries interface {
	ListOpen(ctx context.Context) ([]*CheckoutRequestView, error)
}

type checkoutQueriesImpl struct {
	store CheckoutReadStore
}

func NewCheckoutQueries(store CheckoutReadStore) CheckoutQueries {
	return &checkoutQueriesImpl{store: store}
}

func (q *checkoutQueriesImpl) ListOpen(ctx context.Context) ([]*CheckoutRequestView, error) {
	return q.store.ListOpen(ctx)
}
