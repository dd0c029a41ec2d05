package repository

import (
	"context"
	"errors"

	"clubops/internal/domain/session"
	"clubops/internal/infra"
	"clubops/internal/infra/db"
	"clubops/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type RoomRepository struct{}

func NewRoomRepository() *RoomRepository {
	return &RoomRepository{}
}

// Claim binds an AVAILABLE room to a session. Zero rows updated means the
// room was taken between the staff's pick and now; the caller must surface
// that as a conflict, never retry silently.
func (r *RoomRepository) Claim(ctx context.Context, dbtx db.DBTX, roomID, sessionID uuid.UUID) (bool, error) {
	const query = `
		UPDATE rooms
		SET status = 'OCCUPIED', session_id = $2, waitlist_id = NULL, version = version + 1
		WHERE id = $1 AND status = 'AVAILABLE'`

	tag, err := dbtx.Exec(ctx, query, roomID, sessionID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim room", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Hold reserves an AVAILABLE room for a waitlist offer.
func (r *RoomRepository) Hold(ctx context.Context, dbtx db.DBTX, roomID, waitlistID uuid.UUID) (bool, error) {
	const query = `
		UPDATE rooms
		SET status = 'HELD', waitlist_id = $2, version = version + 1
		WHERE id = $1 AND status = 'AVAILABLE'`

	tag, err := dbtx.Exec(ctx, query, roomID, waitlistID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to hold room", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RoomRepository) ReleaseHold(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID) error {
	const query = `
		UPDATE rooms
		SET status = 'AVAILABLE', waitlist_id = NULL, version = version + 1
		WHERE id = $1 AND status = 'HELD'`

	if _, err := dbtx.Exec(ctx, query, roomID); err != nil {
		return infra.WrapRepoErr("failed to release room hold", err)
	}
	return nil
}

func (r *RoomRepository) ConfirmHold(ctx context.Context, dbtx db.DBTX, roomID uuid.UUID) (bool, error) {
	const query = `
		UPDATE rooms
		SET status = 'OCCUPIED', version = version + 1
		WHERE id = $1 AND status = 'HELD'`

	tag, err := dbtx.Exec(ctx, query, roomID)
	if err != nil {
		return false, infra.WrapRepoErr("failed to confirm room hold", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *RoomRepository) FindByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.RoomSnapshot, error) {
	const query = `SELECT id, number, tier, status, version FROM rooms WHERE id = $1`
	return scanRoom(dbtx.QueryRow(ctx, query, id))
}

func scanRoom(row pgx.Row) (*shared.RoomSnapshot, error) {
	var (
		snap shared.RoomSnapshot
		tier string
	)
	err := row.Scan(&snap.ID, &snap.Number, &tier, &snap.Status, &snap.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("room not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan room", err)
	}
	snap.Tier = session.RentalType(tier)
	return &snap, nil
}
