package events

import (
	"time"

	"clubops/internal/domain/payment"
	"clubops/internal/domain/session"

	"github.com/google/uuid"
)

// Event type names. Clients declare the subset they want per connection.
const (
	SessionUpdated       = "SESSION_UPDATED"
	SelectionProposed    = "SELECTION_PROPOSED"
	SelectionLocked      = "SELECTION_LOCKED"
	SelectionForced      = "SELECTION_FORCED"
	SelectionAck         = "SELECTION_ACKNOWLEDGED"
	AssignmentCreated    = "ASSIGNMENT_CREATED"
	AssignmentFailed     = "ASSIGNMENT_FAILED"
	CustomerConfirmation = "CUSTOMER_CONFIRMATION_REQUIRED"
	CustomerConfirmed    = "CUSTOMER_CONFIRMED"
	CustomerDeclined     = "CUSTOMER_DECLINED"
	InventoryUpdated     = "INVENTORY_UPDATED"
	RoomStatusChanged    = "ROOM_STATUS_CHANGED"
	WaitlistUpdated      = "WAITLIST_UPDATED"
	CheckoutRequested    = "CHECKOUT_REQUESTED"
	CheckoutClaimed      = "CHECKOUT_CLAIMED"
	CheckoutUpdated      = "CHECKOUT_UPDATED"
	CheckoutCompleted    = "CHECKOUT_COMPLETED"
)

// Broadcast types apply to every subscriber on the venue regardless of
// which session is open on their lane.
func IsBroadcast(eventType string) bool {
	switch eventType {
	case InventoryUpdated, RoomStatusChanged, WaitlistUpdated,
		CheckoutRequested, CheckoutClaimed, CheckoutUpdated, CheckoutCompleted:
		return true
	default:
		return false
	}
}

// Envelope is the wire format of every pushed event.
type Envelope struct {
	Type      string    `json:"type"`
	Payload   []byte    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionPayload mirrors the lane session record. A COMPLETED status with
// an empty CustomerName is the canonical "session cleared" signal.
type SessionPayload struct {
	SessionID            uuid.UUID  `json:"sessionId"`
	LaneID               string     `json:"laneId"`
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
}

// NewSessionPayload flattens the entity for the wire.
func NewSessionPayload(s *session.LaneSession) SessionPayload {
	p := SessionPayload{
		SessionID:           s.ID(),
		LaneID:              s.LaneID(),
		CustomerName:        s.CustomerName(),
		Status:              s.Status().String(),
		SelectionConfirmed:  s.SelectionConfirmed(),
		LockAcknowledged:    s.LockAcknowledged(),
		PendingConfirmation: s.PendingConfirmation(),
		AgreementSigned:     s.AgreementSigned(),
		PaymentIntentID:     s.PaymentIntentID(),
		PaymentStatus:       s.PaymentStatus().String(),
		PastDueBlocked:      s.PastDueBlocked(),
	}
	if t := s.ProposedRentalType(); t != nil {
		v := t.String()
		p.ProposedRentalType = &v
	}
	if a := s.ProposedBy(); a != nil {
		v := a.String()
		p.ProposedBy = &v
	}
	if a := s.SelectionConfirmedBy(); a != nil {
		v := a.String()
		p.SelectionConfirmedBy = &v
	}
	if t := s.CustomerSelectedType(); t != nil {
		v := t.String()
		p.CustomerSelectedType = &v
	}
	if r := s.AssignedResource(); r != nil {
		v := r.Type.String()
		n := r.Number
		p.AssignedResourceType = &v
		p.AssignedResourceNum = &n
	}
	p.PaymentFailureReason = s.PaymentFailureReason()
	return p
}

// ClearedSessionPayload is the canonical reset signal for a lane.
func ClearedSessionPayload(sessionID uuid.UUID, laneID string) SessionPayload {
	return SessionPayload{
		SessionID:     sessionID,
		LaneID:        laneID,
		CustomerName:  "",
		Status:        session.StatusCompleted.String(),
		PaymentStatus: session.PaymentDue.String(),
	}
}

type SelectionPayload struct {
	SessionID  uuid.UUID `json:"sessionId"`
	LaneID     string    `json:"laneId"`
	RentalType string    `json:"rentalType"`
	Actor      string    `json:"actor"`
}

type AssignmentPayload struct {
	SessionID      uuid.UUID `json:"sessionId"`
	LaneID         string    `json:"laneId"`
	ResourceType   string    `json:"resourceType"`
	ResourceNumber int32     `json:"resourceNumber"`
	Reason         string    `json:"reason,omitempty"`
	RaceLost       bool      `json:"raceLost,omitempty"`
}

type PaymentPayload struct {
	SessionID       uuid.UUID     `json:"sessionId"`
	LaneID          string        `json:"laneId"`
	PaymentIntentID uuid.UUID     `json:"paymentIntentId"`
	Quote           payment.Quote `json:"quote"`
	Status          string        `json:"status"`
}

type WaitlistPayload struct {
	WaitlistID uuid.UUID  `json:"waitlistId"`
	Status     string     `json:"status"`
	RoomID     *uuid.UUID `json:"roomId,omitempty"`
}

type RoomStatusPayload struct {
	RoomID uuid.UUID `json:"roomId"`
	Number int32     `json:"number"`
	Tier   string    `json:"tier"`
	Status string    `json:"status"`
}

type CheckoutPayload struct {
	RequestID   uuid.UUID  `json:"requestId"`
	RoomNumber  int32      `json:"roomNumber"`
	MinutesLate int32      `json:"minutesLate"`
	FeeCents    int32      `json:"feeCents"`
	FeePaid     bool       `json:"feePaid"`
	ClaimedBy   *uuid.UUID `json:"claimedBy,omitempty"`
	Status      string     `json:"status"`
}
