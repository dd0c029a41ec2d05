package readstore

import (
	"context"

	"clubops/internal/infra"
	"clubops/internal/infra/db"
	"clubops/internal/usecase/queries"
)

type CheckoutReadStore struct {
	dbtx db.DBTX
}

func NewCheckoutReadStore(dbtx db.DBTX) *CheckoutReadStore {
	return &CheckoutReadStore{dbtx: dbtx}
}

func (s *CheckoutReadStore) ListOpen(ctx context.Context) ([]*queries.CheckoutRequestView, error) {
	const query = `
		SELECT id, visit_id, room_number, scheduled_at, requested_at,
			minutes_late, fee_cents, fee_paid, claimed_by, status
		FROM checkout_requests
		WHERE status <> 'COMPLETED'
		ORDER BY requested_at`

	rows, err := s.dbtx.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list checkout requests", err)
	}
	defer rows.Close()

	var views []*queries.CheckoutRequestView
	for rows.Next() {
		var v queries.CheckoutRequestView
		err := rows.Scan(
			&v.ID, &v.VisitID, &v.RoomNumber, &v.ScheduledAt, &v.RequestedAt,
			&v.MinutesLate, &v.FeeCents, &v.FeePaid, &v.ClaimedBy, &v.Status,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan checkout request", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate checkout requests", err)
	}
	return views, nil
}
