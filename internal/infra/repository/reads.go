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

// CommandReads are the point lookups the command side needs for validation.
type CommandReads struct{}

func NewCommandReads() *CommandReads {
	return &CommandReads{}
}

// CustomerByLookup resolves a customer from whichever identifier the lane
// presented: a scanned ID document, a membership number, or a direct UUID.
func (r *CommandReads) CustomerByLookup(ctx context.Context, dbtx db.DBTX, scanValue, membershipValue *string, customerID *uuid.UUID) (*shared.CustomerSnapshot, error) {
	const base = `
		SELECT id, name, membership_number, membership_expiry, past_due_cents
		FROM customers`

	var row pgx.Row
	switch {
	case customerID != nil:
		row = dbtx.QueryRow(ctx, base+` WHERE id = $1`, *customerID)
	case membershipValue != nil:
		row = dbtx.QueryRow(ctx, base+` WHERE membership_number = $1`, *membershipValue)
	case scanValue != nil:
		row = dbtx.QueryRow(ctx, base+` WHERE scan_value = $1`, *scanValue)
	default:
		return nil, infra.WrapRepoErr("no customer identifier given", nil, infra.KindNotFound)
	}

	var snap shared.CustomerSnapshot
	err := row.Scan(&snap.ID, &snap.Name, &snap.MembershipNumber, &snap.MembershipExpiry, &snap.PastDueCents)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("customer not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan customer", err)
	}
	return &snap, nil
}

func (r *CommandReads) EmployeeByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.EmployeeSnapshot, error) {
	const query = `SELECT id, name, role, pin_hash FROM employees WHERE id = $1`

	var (
		snap shared.EmployeeSnapshot
		role string
	)
	err := dbtx.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.Name, &role, &snap.PinHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("employee not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan employee", err)
	}
	snap.Role = session.OperatorRole(role)
	return &snap, nil
}

func (r *CommandReads) DeviceByID(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*shared.DeviceSnapshot, error) {
	const query = `SELECT id, lane_id, disabled FROM devices WHERE id = $1`

	var snap shared.DeviceSnapshot
	err := dbtx.QueryRow(ctx, query, id).Scan(&snap.ID, &snap.LaneID, &snap.Disabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("device not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan device", err)
	}
	return &snap, nil
}

func (r *CommandReads) RoomByNumber(ctx context.Context, dbtx db.DBTX, number int32) (*shared.RoomSnapshot, error) {
	const query = `SELECT id, number, tier, status, version FROM rooms WHERE number = $1`
	return scanRoom(dbtx.QueryRow(ctx, query, number))
}

func (r *CommandReads) ActiveSessionExists(ctx context.Context, dbtx db.DBTX, laneID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM lane_sessions
			WHERE lane_id = $1 AND status NOT IN ('COMPLETED', 'CANCELLED')
		)`

	var exists bool
	if err := dbtx.QueryRow(ctx, query, laneID).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check lane occupancy", err)
	}
	return exists, nil
}
