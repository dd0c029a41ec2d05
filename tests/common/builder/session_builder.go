//go:build unit || e2e

package builder

import (
	"time"

	"clubops/internal/usecase/queries"

	"github.com/google/uuid"
)

// SessionViewBuilder assembles read-model views for handler tests.
type SessionViewBuilder struct {
	view queries.SessionView
}

func NewSessionViewBuilder() *SessionViewBuilder {
	return &SessionViewBuilder{
		view: queries.SessionView{
			SessionID:     uuid.New(),
			LaneID:        "lane-1",
			CustomerID:    uuid.New(),
			CustomerName:  "Ada Lovelace",
			Status:        "ACTIVE",
			PaymentStatus: "DUE",
			UpdatedAt:     time.Now().UTC().Truncate(time.Second),
		},
	}
}

func (b *SessionViewBuilder) WithLaneID(laneID string) *SessionViewBuilder {
	b.view.LaneID = laneID
	return b
}

func (b *SessionViewBuilder) WithStatus(status string) *SessionViewBuilder {
	b.view.Status = status
	return b
}

func (b *SessionViewBuilder) WithProposal(rentalType, by string) *SessionViewBuilder {
	b.view.ProposedRentalType = &rentalType
	b.view.ProposedBy = &by
	return b
}

func (b *SessionViewBuilder) WithLockedSelection(rentalType, confirmedBy string) *SessionViewBuilder {
	b.view.SelectionConfirmed = true
	b.view.SelectionConfirmedBy = &confirmedBy
	b.view.CustomerSelectedType = &rentalType
	b.view.LockAcknowledged = true
	b.view.Status = "AWAITING_PAYMENT"
	return b
}

func (b *SessionViewBuilder) WithPaymentPaid() *SessionViewBuilder {
	b.view.PaymentStatus = "PAID"
	return b
}

func (b *SessionViewBuilder) WithAssignedResource(resourceType string, number int32) *SessionViewBuilder {
	b.view.AssignedResourceType = &resourceType
	b.view.AssignedResourceNum = &number
	b.view.Status = "COMPLETED"
	return b
}

func (b *SessionViewBuilder) Build() *queries.SessionView {
	v := b.view
	return &v
}
