package repository

import (
	"context"
	"errors"

	"clubops/internal/domain/checkout"
	"clubops/internal/infra"
	"clubops/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CheckoutRepository struct{}

func NewCheckoutRepository() *CheckoutRepository {
	return &CheckoutRepository{}
}

func (r *CheckoutRepository) Create(ctx context.Context, dbtx db.DBTX, req *checkout.Request) error {
	const query = `
		INSERT INTO checkout_requests (
			id, visit_id, room_number, scheduled_at, requested_at,
			minutes_late, fee_cents, fee_paid, claimed_by, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := dbtx.Exec(ctx, query,
		req.ID, req.VisitID, req.RoomNumber, req.ScheduledAt, req.RequestedAt,
		req.MinutesLate, req.FeeCents, req.FeePaid, req.ClaimedBy, req.Status.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("checkout request already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create checkout request", err)
	}
	return nil
}

func (r *CheckoutRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*checkout.Request, error) {
	const query = `
		SELECT id, visit_id, room_number, scheduled_at, requested_at,
			minutes_late, fee_cents, fee_paid, claimed_by, status
		FROM checkout_requests WHERE id = $1`

	var (
		req    checkout.Request
		status string
	)
	err := dbtx.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.VisitID, &req.RoomNumber, &req.ScheduledAt, &req.RequestedAt,
		&req.MinutesLate, &req.FeeCents, &req.FeePaid, &req.ClaimedBy, &status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("checkout request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan checkout request", err)
	}
	req.Status = checkout.Status(status)
	return &req, nil
}

// TryClaim sets the claimer only when the request is still unclaimed. False
// means another staff member holds the claim.
func (r *CheckoutRepository) TryClaim(ctx context.Context, dbtx db.DBTX, requestID, staffID uuid.UUID) (bool, error) {
	const query = `
		UPDATE checkout_requests
		SET claimed_by = $2, status = 'CLAIMED'
		WHERE id = $1 AND claimed_by IS NULL AND status = 'PENDING'`

	tag, err := dbtx.Exec(ctx, query, requestID, staffID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim checkout request", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *CheckoutRepository) Update(ctx context.Context, dbtx db.DBTX, req *checkout.Request) error {
	const query = `
		UPDATE checkout_requests
		SET minutes_late = $2, fee_cents = $3, fee_paid = $4, claimed_by = $5, status = $6
		WHERE id = $1`

	tag, err := dbtx.Exec(ctx, query,
		req.ID, req.MinutesLate, req.FeeCents, req.FeePaid, req.ClaimedBy, req.Status.String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update checkout request", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("checkout request not found", nil, infra.KindNotFound)
	}
	return nil
}
