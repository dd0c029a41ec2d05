package commands

import (
	"context"
	"log/slog"

	"clubops/internal/domain/payment"
	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"
	"clubops/internal/events"
	"clubops/internal/infra"
	"clubops/internal/pkg/clock"
	"clubops/internal/pkg/errs"
	"clubops/internal/usecase/queries"
	"clubops/internal/usecase/shared"

	"github.com/google/uuid"
)

type JoinWaitlistParams struct {
	VisitID      uuid.UUID
	CustomerName string
	DesiredTier  session.RentalType
	BackupTier   session.RentalType
}

type WaitlistCommands interface {
	Join(ctx context.Context, params JoinWaitlistParams) (*waitlist.Entry, error)
	// Offer holds a concrete room for the entry and attaches an upgrade
	// quote. The hold is optimistic; losing it surfaces as a conflict and
	// nothing changes.
	Offer(ctx context.Context, laneID string, waitlistID, roomID uuid.UUID) (*payment.Intent, error)
	// CompleteUpgrade converts a paid offer into occupancy.
	CompleteUpgrade(ctx context.Context, waitlistID, intentID uuid.UUID) error
	CancelOffer(ctx context.Context, waitlistID uuid.UUID) error
}

type waitlistCommandsImpl struct {
	uow       shared.UnitOfWork
	pricer    payment.Pricer
	inventory queries.InventoryQueries
	pub       events.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewWaitlistCommands(
	uow shared.UnitOfWork,
	pricer payment.Pricer,
	inventory queries.InventoryQueries,
	pub events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) WaitlistCommands {
	return &waitlistCommandsImpl{
		uow:       uow,
		pricer:    pricer,
		inventory: inventory,
		pub:       pub,
		clock:     clk,
		logger:    logger,
	}
}

func (c *waitlistCommandsImpl) Join(ctx context.Context, params JoinWaitlistParams) (*waitlist.Entry, error) {
	entry := waitlist.NewEntry(params.VisitID, params.CustomerName, params.DesiredTier, params.BackupTier, c.clock.Now())

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Waitlist().Create(ctx, tx.DB(), entry); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.broadcastWaitlist(ctx, entry)
	return entry, nil
}

func (c *waitlistCommandsImpl) Offer(ctx context.Context, laneID string, waitlistID, roomID uuid.UUID) (*payment.Intent, error) {
	var (
		entry  *waitlist.Entry
		intent *payment.Intent
		room   *shared.RoomSnapshot
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		busy, err := tx.Reads().ActiveSessionExists(ctx, tx.DB(), laneID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if busy {
			return errs.ErrLaneBusy
		}

		entry, err = c.loadEntry(ctx, tx, waitlistID)
		if err != nil {
			return err
		}

		room, err = tx.Rooms().FindByID(ctx, tx.DB(), roomID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrResourceUnavailable
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if room.Tier != entry.DesiredTier {
			return errs.ErrResourceUnavailable
		}

		held, err := tx.Rooms().Hold(ctx, tx.DB(), roomID, waitlistID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !held {
			// Another offer or assignment took the room first.
			return errs.ErrOfferConflict
		}

		if err := entry.Offer(roomID, c.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrWaitlistNotActive)
		}
		if err := tx.Waitlist().Update(ctx, tx.DB(), entry); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		quote := c.pricer.QuoteUpgrade(entry.BackupTier, entry.DesiredTier)
		wid := entry.ID
		intent, err = payment.NewIntent(payment.KindUpgrade, nil, &wid, quote, c.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		return tx.Payments().Create(ctx, tx.DB(), intent)
	})
	if err != nil {
		return nil, err
	}

	c.broadcastWaitlist(ctx, entry)
	events.Emit(ctx, c.pub, c.logger, events.BroadcastSubject, events.RoomStatusChanged, events.RoomStatusPayload{
		RoomID: room.ID,
		Number: room.Number,
		Tier:   room.Tier.String(),
		Status: shared.RoomHeld,
	})
	c.broadcastInventory(ctx)
	return intent, nil
}

func (c *waitlistCommandsImpl) CompleteUpgrade(ctx context.Context, waitlistID, intentID uuid.UUID) error {
	var (
		entry *waitlist.Entry
		room  *shared.RoomSnapshot
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entry, err = c.loadEntry(ctx, tx, waitlistID)
		if err != nil {
			return err
		}
		if entry.Status != waitlist.StatusOffered || entry.OfferedRoomID == nil {
			return errs.ErrWaitlistNotOffered
		}

		intent, err := tx.Payments().FindByID(ctx, tx.DB(), intentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrPaymentIntentNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if intent.WaitlistID == nil || *intent.WaitlistID != entry.ID {
			return errs.ErrPaymentIntentNotFound
		}
		if intent.Status != payment.StatusPaid {
			return errs.ErrPaymentNotPaid
		}

		confirmed, err := tx.Rooms().ConfirmHold(ctx, tx.DB(), *entry.OfferedRoomID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !confirmed {
			return errs.ErrOfferConflict
		}
		room, err = tx.Rooms().FindByID(ctx, tx.DB(), *entry.OfferedRoomID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := entry.Complete(); err != nil {
			return errs.Mark(err, errs.ErrWaitlistNotOffered)
		}
		return tx.Waitlist().Update(ctx, tx.DB(), entry)
	})
	if err != nil {
		return err
	}

	c.broadcastWaitlist(ctx, entry)
	events.Emit(ctx, c.pub, c.logger, events.BroadcastSubject, events.RoomStatusChanged, events.RoomStatusPayload{
		RoomID: room.ID,
		Number: room.Number,
		Tier:   room.Tier.String(),
		Status: shared.RoomOccupied,
	})
	c.broadcastInventory(ctx)
	return nil
}

// CancelOffer releases the held room and returns the entry to ACTIVE so the
// customer keeps their place in line.
func (c *waitlistCommandsImpl) CancelOffer(ctx context.Context, waitlistID uuid.UUID) error {
	var (
		entry    *waitlist.Entry
		released uuid.UUID
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		entry, err = c.loadEntry(ctx, tx, waitlistID)
		if err != nil {
			return err
		}

		released, err = entry.CancelOffer()
		if err != nil {
			return errs.ErrWaitlistNotOffered
		}
		if err := tx.Rooms().ReleaseHold(ctx, tx.DB(), released); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return tx.Waitlist().Update(ctx, tx.DB(), entry)
	})
	if err != nil {
		return err
	}

	c.broadcastWaitlist(ctx, entry)
	c.broadcastInventory(ctx)
	return nil
}

func (c *waitlistCommandsImpl) loadEntry(ctx context.Context, tx shared.Tx, waitlistID uuid.UUID) (*waitlist.Entry, error) {
	entry, err := tx.Waitlist().FindByID(ctx, tx.DB(), waitlistID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrWaitlistNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return entry, nil
}

func (c *waitlistCommandsImpl) broadcastWaitlist(ctx context.Context, entry *waitlist.Entry) {
	events.Emit(ctx, c.pub, c.logger, events.BroadcastSubject, events.WaitlistUpdated, events.WaitlistPayload{
		WaitlistID: entry.ID,
		Status:     entry.Status.String(),
		RoomID:     entry.OfferedRoomID,
	})
}

func (c *waitlistCommandsImpl) broadcastInventory(ctx context.Context) {
	// Invalidate first: if the refresh fails, the cache must not keep
	// serving pre-change counts until the TTL expires.
	c.inventory.Invalidate(ctx)
	snap, err := c.inventory.Refresh(ctx)
	if err != nil {
		c.logger.Error("failed to refresh inventory after waitlist change", "error", err)
		return
	}
	events.Emit(ctx, c.pub, c.logger, events.BroadcastSubject, events.InventoryUpdated, snap)
}
