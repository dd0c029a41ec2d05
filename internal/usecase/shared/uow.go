package shared

import (
	"context"
	"time"

	"clubops/internal/domain/checkout"
	"clubops/internal/domain/payment"
	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"
	"clubops/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Sessions() SessionRepository
	Rooms() RoomRepository
	Waitlist() WaitlistRepository
	Payments() PaymentRepository
	Checkouts() CheckoutRepository
	Customers() CustomerRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	CustomerByLookup(ctx context.Context, dbtx db.DBTX, scanValue, membershipValue *string, customerID *uuid.UUID) (*CustomerSnapshot, error)
	EmployeeByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*EmployeeSnapshot, error)
	DeviceByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*DeviceSnapshot, error)
	RoomByNumber(ctx context.Context, dbtx db.DBTX, number int32) (*RoomSnapshot, error)
	ActiveSessionExists(ctx context.Context, dbtx db.DBTX, laneID string) (bool, error)
}

type SessionRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, s *session.LaneSession) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*session.LaneSession, error)
	FindActiveByLane(ctx context.Context, dbtx db.DBTX, laneID string) (*session.LaneSession, error)
	// Update persists the full record guarded by the version the entity was
	// loaded at; a concurrent writer surfaces as a conflict.
	Update(ctx context.Context, dbtx db.DBTX, s *session.LaneSession, loadedVersion int32) error
	// ArmPaymentIntent is the in-flight marker guaranteeing one intent per
	// session under concurrent event delivery. False means another request
	// already armed it.
	ArmPaymentIntent(ctx context.Context, dbtx db.DBTX, sessionID, intentID uuid.UUID) (bool, error)
}

type RoomRepository interface {
	// Claim binds an AVAILABLE room to a session; zero rows updated means
	// the claim was race-lost to a concurrent session.
	Claim(ctx context.Context, dbtx db.DBTX, roomID, sessionID uuid.UUID) (bool, error)
	// Hold reserves an AVAILABLE room for a waitlist offer.
	Hold(ctx context.Context, dbtx db.DBTX, roomID, waitlistID uuid.UUID) (bool, error)
	// ReleaseHold frees a HELD room back to AVAILABLE.
	ReleaseHold(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID) error
	// ConfirmHold converts a HELD room into an occupied one on upgrade
	// completion.
	ConfirmHold(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID) (bool, error)
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*RoomSnapshot, error)
}

type WaitlistRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*waitlist.Entry, error)
	Update(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error
}

type PaymentRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, i *payment.Intent) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*payment.Intent, error)
	Update(ctx context.Context, dbtx db.DBTX, i *payment.Intent) error
}

type CheckoutRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, r *checkout.Request) error
	FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*checkout.Request, error)
	// TryClaim sets the claimer only when unclaimed; false means another
	// staff member won the claim.
	TryClaim(ctx context.Context, dbtx db.DBTX, requestID, staffID uuid.UUID) (bool, error)
	Update(ctx context.Context, dbtx db.DBTX, r *checkout.Request) error
}

type CustomerRepository interface {
	// SettlePastDue zeroes the outstanding balance after a successful
	// past-due payment outcome.
	SettlePastDue(ctx context.Context, dbtx db.DBTX, customerID uuid.UUID, settledAt time.Time) error
}
