package request

import (
	"time"

	"github.com/google/uuid"
)

type StartSessionRequest struct {
	ScanValue        *string    `json:"scanValue"`
	MembershipValue  *string    `json:"membershipValue"`
	CustomerID       *uuid.UUID `json:"customerId"`
	MembershipIntent string     `json:"membershipPurchaseIntent"`
}

type ProposeSelectionRequest struct {
	RentalType string `json:"rentalType" binding:"required"`
	Actor      string `json:"actor" binding:"required"`
}

type ConfirmSelectionRequest struct {
	Actor string `json:"actor" binding:"required"`
}

type AssignRequest struct {
	ResourceType   string `json:"resourceType" binding:"required"`
	ResourceNumber int32  `json:"resourceNumber" binding:"required"`
}

type CustomerResponseRequest struct {
	Accept bool `json:"accept"`
}

type PastDueDemoPaymentRequest struct {
	Outcome       string  `json:"outcome" binding:"required"`
	DeclineReason *string `json:"declineReason"`
}

type PastDueBypassRequest struct {
	ManagerID uuid.UUID `json:"managerId" binding:"required"`
	Pin       string    `json:"pin" binding:"required"`
}

type DeclinePaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type JoinWaitlistRequest struct {
	VisitID      uuid.UUID `json:"visitId" binding:"required"`
	CustomerName string    `json:"customerName" binding:"required"`
	DesiredTier  string    `json:"desiredTier" binding:"required"`
	BackupTier   string    `json:"backupTier" binding:"required"`
}

type OfferRoomRequest struct {
	RoomID uuid.UUID `json:"roomId" binding:"required"`
	LaneID string    `json:"laneId" binding:"required"`
}

type CompleteUpgradeRequest struct {
	WaitlistID      uuid.UUID `json:"waitlistId" binding:"required"`
	PaymentIntentID uuid.UUID `json:"paymentIntentId" binding:"required"`
}

type CheckoutRequest struct {
	VisitID     uuid.UUID `json:"visitId" binding:"required"`
	RoomNumber  int32     `json:"roomNumber" binding:"required"`
	ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
}
