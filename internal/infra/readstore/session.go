package readstore

import (
	"context"
	"errors"

	"clubops/internal/infra"
	"clubops/internal/infra/db"
	"clubops/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const sessionViewColumns = `
	id, lane_id, customer_id, customer_name, status,
	proposed_rental_type, proposed_by, selection_confirmed, selection_confirmed_by,
	customer_selected_type, lock_acknowledged, pending_customer_confirmation,
	assigned_resource_type, assigned_resource_number,
	agreement_signed, payment_intent_id, payment_status, payment_failure_reason,
	past_due_blocked, membership_intent, checkout_at, updated_at`

type SessionReadStore struct {
	dbtx db.DBTX
}

func NewSessionReadStore(dbtx db.DBTX) *SessionReadStore {
	return &SessionReadStore{dbtx: dbtx}
}

func (s *SessionReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SessionView, error) {
	query := `SELECT` + sessionViewColumns + ` FROM lane_sessions WHERE id = $1`
	return scanSessionView(s.dbtx.QueryRow(ctx, query, id))
}

func (s *SessionReadStore) FindActiveByLane(ctx context.Context, laneID string) (*queries.SessionView, error) {
	query := `SELECT` + sessionViewColumns + `
		FROM lane_sessions
		WHERE lane_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
		ORDER BY created_at DESC
		LIMIT 1`
	return scanSessionView(s.dbtx.QueryRow(ctx, query, laneID))
}

func scanSessionView(row pgx.Row) (*queries.SessionView, error) {
	var v queries.SessionView
	err := row.Scan(
		&v.SessionID, &v.LaneID, &v.CustomerID, &v.CustomerName, &v.Status,
		&v.ProposedRentalType, &v.ProposedBy, &v.SelectionConfirmed, &v.SelectionConfirmedBy,
		&v.CustomerSelectedType, &v.LockAcknowledged, &v.PendingConfirmation,
		&v.AssignedResourceType, &v.AssignedResourceNum,
		&v.AgreementSigned, &v.PaymentIntentID, &v.PaymentStatus, &v.PaymentFailureReason,
		&v.PastDueBlocked, &v.MembershipIntent, &v.CheckoutAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan session view", err)
	}
	return &v, nil
}
