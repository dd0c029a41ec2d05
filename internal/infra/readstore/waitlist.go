package readstore

import (
	"context"
	"time"

	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"
	"clubops/internal/infra"
	"clubops/internal/infra/db"
	"clubops/internal/usecase/queries"
)

type WaitlistReadStore struct {
	dbtx db.DBTX
}

func NewWaitlistReadStore(dbtx db.DBTX) *WaitlistReadStore {
	return &WaitlistReadStore{dbtx: dbtx}
}

func (s *WaitlistReadStore) ListOpen(ctx context.Context) ([]*waitlist.Entry, error) {
	const query = `
		SELECT id, visit_id, customer_name, desired_tier, backup_tier,
			status, offered_room_id, created_at, offered_at
		FROM waitlist_entries
		WHERE status IN ('ACTIVE', 'OFFERED')
		ORDER BY created_at`

	rows, err := s.dbtx.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list waitlist entries", err)
	}
	defer rows.Close()

	var entries []*waitlist.Entry
	for rows.Next() {
		var (
			e           waitlist.Entry
			desiredTier string
			backupTier  string
			status      string
			offeredAt   *time.Time
		)
		err := rows.Scan(
			&e.ID, &e.VisitID, &e.CustomerName, &desiredTier, &backupTier,
			&status, &e.OfferedRoomID, &e.CreatedAt, &offeredAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan waitlist entry", err)
		}
		e.DesiredTier = session.RentalType(desiredTier)
		e.BackupTier = session.RentalType(backupTier)
		e.Status = waitlist.Status(status)
		e.OfferedAt = offeredAt
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate waitlist entries", err)
	}
	return entries, nil
}

func (s *WaitlistReadStore) OfferableRooms(ctx context.Context, tier session.RentalType) ([]*queries.OfferableRoomView, error) {
	const query = `
		SELECT id, number, tier
		FROM rooms
		WHERE tier = $1 AND status = 'AVAILABLE'
		ORDER BY number`

	rows, err := s.dbtx.Query(ctx, query, tier.String())
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list offerable rooms", err)
	}
	defer rows.Close()

	var views []*queries.OfferableRoomView
	for rows.Next() {
		var v queries.OfferableRoomView
		if err := rows.Scan(&v.ID, &v.Number, &v.Tier); err != nil {
			return nil, infra.WrapRepoErr("failed to scan offerable room", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate offerable rooms", err)
	}
	return views, nil
}

func (s *WaitlistReadStore) ActiveSessionExists(ctx context.Context, laneID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM lane_sessions
			WHERE lane_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
		)`

	var exists bool
	if err := s.dbtx.QueryRow(ctx, query, laneID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check lane occupancy", err)
	}
	return exists, nil
}
