package queries

import (
	"context"
	"time"

	"clubops/internal/infra"
	"clubops/internal/pkg/errs"

	"github.com/google/uuid"
)

// SessionView is the read-side projection of a lane session, shaped the way
// both actors consume it.
type SessionView struct {
	SessionID            uuid.UUID  `json:"sessionId"`
	LaneID               string     `json:"laneId"`
	CustomerID           uuid.UUID  `json:"customerId"`
	CustomerName         string     `json:"customerName"`
	Status               string     `json:"status"`
	ProposedRentalType   *string    `json:"proposedRentalType,omitempty"`
	ProposedBy           *string    `json:"proposedBy,omitempty"`
	SelectionConfirmed   bool       `json:"selectionConfirmed"`
	SelectionConfirmedBy *string    `json:"selectionConfirmedBy,omitempty"`
	CustomerSelectedType *string    `json:"customerSelectedType,omitempty"`
	LockAcknowledged     bool       `json:"lockAcknowledged"`
	PendingConfirmation  bool       `json:"pendingCustomerConfirmation"`
	AssignedResourceType *string    `json:"assignedResourceType,omitempty"`
	AssignedResourceNum  *int32     `json:"assignedResourceNumber,omitempty"`
	AgreementSigned      bool       `json:"agreementSigned"`
	PaymentIntentID      *uuid.UUID `json:"paymentIntentId,omitempty"`
	PaymentStatus        string     `json:"paymentStatus"`
	PaymentFailureReason *string    `json:"paymentFailureReason,omitempty"`
	PastDueBlocked       bool       `json:"pastDueBlocked"`
	MembershipIntent     string     `json:"membershipPurchaseIntent,omitempty"`
	CheckoutAt           *time.Time `json:"checkoutAt,omitempty"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

var ErrSessionNotFound = errs.ErrSessionNotFound

type SessionReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
	FindActiveByLane(ctx context.Context, laneID string) (*SessionView, error)
}

type SessionQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error)
	GetActiveByLane(ctx context.Context, laneID string) (*SessionView, error)
}

type sessionQueriesImpl struct {
	store SessionReadStore
}

func NewSessionQueries(store SessionReadStore) SessionQueries {
	return &sessionQueriesImpl{store: store}
}

func (q *sessionQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SessionView, error) {
	view, err := q.store.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *sessionQueriesImpl) GetActiveByLane(ctx context.Context, laneID string) (*SessionView, error) {
	view, err := q.store.FindActiveByLane(ctx, laneID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return view, nil
}
