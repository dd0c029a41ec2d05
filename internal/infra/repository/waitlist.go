package repository

import (
	"context"
	"errors"
	"time"

	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"
	"clubops/internal/infra"
	"clubops/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type WaitlistRepository struct{}

func NewWaitlistRepository() *WaitlistRepository {
	return &WaitlistRepository{}
}

func (r *WaitlistRepository) Create(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error {
	const query = `
		INSERT INTO waitlist_entries (
			id, visit_id, customer_name, desired_tier, backup_tier,
			status, offered_room_id, created_at, offered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := dbtx.Exec(ctx, query,
		e.ID, e.VisitID, e.CustomerName, e.DesiredTier.String(), e.BackupTier.String(),
		e.Status.String(), e.OfferedRoomID, e.CreatedAt, e.OfferedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("waitlist entry already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create waitlist entry", err)
	}
	return nil
}

func (r *WaitlistRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*waitlist.Entry, error) {
	const query = `
		SELECT id, visit_id, customer_name, desired_tier, backup_tier,
			status, offered_room_id, created_at, offered_at
		FROM waitlist_entries WHERE id = $1`
	return scanWaitlistEntry(dbtx.QueryRow(ctx, query, id))
}

func (r *WaitlistRepository) Update(ctx context.Context, dbtx db.DBTX, e *waitlist.Entry) error {
	const query = `
		UPDATE waitlist_entries
		SET status = $2, offered_room_id = $3, offered_at = $4
		WHERE id = $1`

	tag, err := dbtx.Exec(ctx, query, e.ID, e.Status.String(), e.OfferedRoomID, e.OfferedAt)
	if err != nil {
		return infra.WrapRepoErr("failed to update waitlist entry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("waitlist entry not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanWaitlistEntry(row pgx.Row) (*waitlist.Entry, error) {
	var (
		e           waitlist.Entry
		desiredTier string
		backupTier  string
		status      string
		offeredAt   *time.Time
	)
	err := row.Scan(
		&e.ID, &e.VisitID, &e.CustomerName, &desiredTier, &backupTier,
		&status, &e.OfferedRoomID, &e.CreatedAt, &offeredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("waitlist entry not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan waitlist entry", err)
	}
	e.DesiredTier = session.RentalType(desiredTier)
	e.BackupTier = session.RentalType(backupTier)
	e.Status = waitlist.Status(status)
	e.OfferedAt = offeredAt
	return &e, nil
}
