package response

import (
	"time"

	"clubops/internal/domain/checkout"
	"clubops/internal/domain/payment"
	"clubops/internal/domain/waitlist"

	"github.com/google/uuid"
)

type PaymentIntentResponse struct {
	ID            uuid.UUID     `json:"id"`
	Kind          string        `json:"kind"`
	SessionID     *uuid.UUID    `json:"sessionId,omitempty"`
	WaitlistID    *uuid.UUID    `json:"waitlistId,omitempty"`
	Quote         payment.Quote `json:"quote"`
	Status        string        `json:"status"`
	FailureReason *string       `json:"failureReason,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

func FromPaymentIntent(i *payment.Intent) *PaymentIntentResponse {
	return &PaymentIntentResponse{
		ID:            i.ID,
		Kind:          string(i.Kind),
		SessionID:     i.SessionID,
		WaitlistID:    i.WaitlistID,
		Quote:         i.Quote,
		Status:        i.Status.String(),
		FailureReason: i.FailureReason,
		CreatedAt:     i.CreatedAt,
	}
}

type WaitlistEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	VisitID       uuid.UUID  `json:"visitId"`
	CustomerName  string     `json:"customerName"`
	DesiredTier   string     `json:"desiredTier"`
	BackupTier    string     `json:"backupTier"`
	Status        string     `json:"status"`
	OfferedRoomID *uuid.UUID `json:"offeredRoomId,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func FromWaitlistEntry(e *waitlist.Entry) *WaitlistEntryResponse {
	return &WaitlistEntryResponse{
		ID:            e.ID,
		VisitID:       e.VisitID,
		CustomerName:  e.CustomerName,
		DesiredTier:   e.DesiredTier.String(),
		BackupTier:    e.BackupTier.String(),
		Status:        e.Status.String(),
		OfferedRoomID: e.OfferedRoomID,
		CreatedAt:     e.CreatedAt,
	}
}

type CheckoutRequestResponse struct {
	ID          uuid.UUID  `json:"id"`
	VisitID     uuid.UUID  `json:"visitId"`
	RoomNumber  int32      `json:"roomNumber"`
	MinutesLate int32      `json:"minutesLate"`
	FeeCents    int32      `json:"feeCents"`
	FeePaid     bool       `json:"feePaid"`
	ClaimedBy   *uuid.UUID `json:"claimedBy,omitempty"`
	Status      string     `json:"status"`
}

func FromCheckoutRequest(r *checkout.Request) *CheckoutRequestResponse {
	return &CheckoutRequestResponse{
		ID:          r.ID,
		VisitID:     r.VisitID,
		RoomNumber:  r.RoomNumber,
		MinutesLate: r.MinutesLate,
		FeeCents:    r.FeeCents,
		FeePaid:     r.FeePaid,
		ClaimedBy:   r.ClaimedBy,
		Status:      r.Status.String(),
	}
}
