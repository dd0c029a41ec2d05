package repository

import (
	"context"
	"errors"
	"time"

	"clubops/internal/domain/session"
	"clubops/internal/infra"
	"clubops/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionColumns = `
	id, lane_id, customer_id, customer_name, status,
	proposed_rental_type, proposed_by, selection_confirmed, selection_confirmed_by,
	customer_selected_type, lock_acknowledged,
	pending_customer_confirmation, pending_resource_type, pending_resource_number,
	assigned_resource_type, assigned_resource_number,
	agreement_signed, payment_intent_id, payment_status, payment_failure_reason,
	past_due_blocked, membership_intent, checkout_at, version, created_at, updated_at`

type SessionRepository struct{}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

func (r *SessionRepository) Create(ctx context.Context, dbtx db.DBTX, s *session.LaneSession) error {
	const query = `
		INSERT INTO lane_sessions (
			id, lane_id, customer_id, customer_name, status,
			proposed_rental_type, proposed_by, selection_confirmed, selection_confirmed_by,
			customer_selected_type, lock_acknowledged,
			pending_customer_confirmation, pending_resource_type, pending_resource_number,
			assigned_resource_type, assigned_resource_number,
			agreement_signed, payment_intent_id, payment_status, payment_failure_reason,
			past_due_blocked, membership_intent, checkout_at, version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)`

	_, err := dbtx.Exec(ctx, query, sessionArgs(s)...)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("session already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create session", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*session.LaneSession, error) {
	query := `SELECT` + sessionColumns + ` FROM lane_sessions WHERE id = $1`
	return r.scanOne(dbtx.QueryRow(ctx, query, id))
}

func (r *SessionRepository) FindActiveByLane(ctx context.Context, dbtx db.DBTX, laneID string) (*session.LaneSession, error) {
	query := `SELECT` + sessionColumns + `
		FROM lane_sessions
		WHERE lane_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY created_at DESC
		LIMIT 1`
	return r.scanOne(dbtx.QueryRow(ctx, query, laneID))
}

// Update writes the full record guarded by the version the entity was loaded
// at. Zero rows affected means a concurrent writer got there first.
func (r *SessionRepository) Update(ctx context.Context, dbtx db.DBTX, s *session.LaneSession, loadedVersion int32) error {
	const query = `
		UPDATE lane_sessions SET
			customer_name = $2, status = $3,
			proposed_rental_type = $4, proposed_by = $5,
			selection_confirmed = $6, selection_confirmed_by = $7,
			customer_selected_type = $8, lock_acknowledged = $9,
			pending_customer_confirmation = $10, pending_resource_type = $11, pending_resource_number = $12,
			assigned_resource_type = $13, assigned_resource_number = $14,
			agreement_signed = $15, payment_intent_id = $16,
			payment_status = $17, payment_failure_reason = $18,
			past_due_blocked = $19, membership_intent = $20, checkout_at = $21,
			version = $22, updated_at = $23
		WHERE id = $1 AND version = $24`

	args := []any{
		s.ID(), s.CustomerName(), s.Status().String(),
		rentalTypePtr(s.ProposedRentalType()), actorPtr(s.ProposedBy()),
		s.SelectionConfirmed(), actorPtr(s.SelectionConfirmedBy()),
		rentalTypePtr(s.CustomerSelectedType()), s.LockAcknowledged(),
		s.PendingConfirmation(), resourceTypePtr(s.PendingResource()), resourceNumberPtr(s.PendingResource()),
		resourceTypePtr(s.AssignedResource()), resourceNumberPtr(s.AssignedResource()),
		s.AgreementSigned(), s.PaymentIntentID(),
		s.PaymentStatus().String(), s.PaymentFailureReason(),
		s.PastDueBlocked(), s.MembershipIntent().String(), s.CheckoutAt(),
		s.Version(), s.UpdatedAt(), loadedVersion,
	}

	tag, err := dbtx.Exec(ctx, query, args...)
	if err != nil {
		return infra.WrapRepoErr("failed to update session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session version conflict", nil, infra.KindConflict)
	}
	return nil
}

// ArmPaymentIntent attaches the intent only when none is attached yet. False
// means another request already armed the gate.
func (r *SessionRepository) ArmPaymentIntent(ctx context.Context, dbtx db.DBTX, sessionID, intentID uuid.UUID) (bool, error) {
	const query = `
		UPDATE lane_sessions
		SET payment_intent_id = $2
		WHERE id = $1 AND payment_intent_id IS NULL`

	tag, err := dbtx.Exec(ctx, query, sessionID, intentID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to arm payment intent", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SessionRepository) scanOne(row pgx.Row) (*session.LaneSession, error) {
	var (
		id                   uuid.UUID
		laneID               string
		customerID           uuid.UUID
		customerName         string
		status               string
		proposedRentalType   *string
		proposedBy           *string
		selectionConfirmed   bool
		selectionConfirmedBy *string
		customerSelectedType *string
		lockAcknowledged     bool
		pendingConfirmation  bool
		pendingResType       *string
		pendingResNumber     *int32
		assignedResType      *string
		assignedResNumber    *int32
		agreementSigned      bool
		paymentIntentID      *uuid.UUID
		paymentStatus        string
		paymentFailureReason *string
		pastDueBlocked       bool
		membershipIntent     string
		checkoutAt           *time.Time
		version              int32
		createdAt            time.Time
		updatedAt            time.Time
	)

	err := row.Scan(
		&id, &laneID, &customerID, &customerName, &status,
		&proposedRentalType, &proposedBy, &selectionConfirmed, &selectionConfirmedBy,
		&customerSelectedType, &lockAcknowledged,
		&pendingConfirmation, &pendingResType, &pendingResNumber,
		&assignedResType, &assignedResNumber,
		&agreementSigned, &paymentIntentID, &paymentStatus, &paymentFailureReason,
		&pastDueBlocked, &membershipIntent, &checkoutAt, &version, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan session", err)
	}

	return session.ReconstructLaneSession(
		id, laneID, customerID, customerName, session.Status(status),
		toRentalType(proposedRentalType), toActor(proposedBy),
		selectionConfirmed, toActor(selectionConfirmedBy),
		toRentalType(customerSelectedType), lockAcknowledged,
		pendingConfirmation,
		toResource(pendingResType, pendingResNumber),
		toResource(assignedResType, assignedResNumber),
		agreementSigned, paymentIntentID,
		session.PaymentStatus(paymentStatus), paymentFailureReason,
		pastDueBlocked, session.MembershipIntent(membershipIntent),
		checkoutAt, version, createdAt, updatedAt,
	), nil
}

func sessionArgs(s *session.LaneSession) []any {
	return []any{
		s.ID(), s.LaneID(), s.CustomerID(), s.CustomerName(), s.Status().String(),
		rentalTypePtr(s.ProposedRentalType()), actorPtr(s.ProposedBy()),
		s.SelectionConfirmed(), actorPtr(s.SelectionConfirmedBy()),
		rentalTypePtr(s.CustomerSelectedType()), s.LockAcknowledged(),
		s.PendingConfirmation(), resourceTypePtr(s.PendingResource()), resourceNumberPtr(s.PendingResource()),
		resourceTypePtr(s.AssignedResource()), resourceNumberPtr(s.AssignedResource()),
		s.AgreementSigned(), s.PaymentIntentID(),
		s.PaymentStatus().String(), s.PaymentFailureReason(),
		s.PastDueBlocked(), s.MembershipIntent().String(), s.CheckoutAt(),
		s.Version(), s.CreatedAt(), s.UpdatedAt(),
	}
}

func rentalTypePtr(t *session.RentalType) *string {
	if t == nil {
		return nil
	}
	v := t.String()
	return &v
}

func actorPtr(a *session.Actor) *string {
	if a == nil {
		return nil
	}
	v := a.String()
	return &v
}

func resourceTypePtr(r *session.AssignedResource) *string {
	if r == nil {
		return nil
	}
	v := r.Type.String()
	return &v
}

func resourceNumberPtr(r *session.AssignedResource) *int32 {
	if r == nil {
		return nil
	}
	n := r.Number
	return &n
}

func toRentalType(v *string) *session.RentalType {
	if v == nil {
		return nil
	}
	t := session.RentalType(*v)
	return &t
}

func toActor(v *string) *session.Actor {
	if v == nil {
		return nil
	}
	a := session.Actor(*v)
	return &a
}

func toResource(typ *string, number *int32) *session.AssignedResource {
	if typ == nil || number == nil {
		return nil
	}
	return &session.AssignedResource{Type: session.RentalType(*typ), Number: *number}
}
