package commands

import (
	"context"
	"log/slog"
	"time"

	"clubops/internal/domain/checkout"
	"clubops/internal/events"
	"clubops/internal/infra"
	"clubops/internal/pkg/clock"
	"clubops/internal/pkg/config"
	"clubops/internal/pkg/errs"
	"clubops/internal/usecase/shared"

	"github.com/google/uuid"
)

type RequestCheckoutParams struct {
	VisitID     uuid.UUID
	RoomNumber  int32
	ScheduledAt time.Time
}

type CheckoutCommands interface {
	// Request records a kiosk-initiated checkout and notifies all staff
	// terminals. The late fee is fixed at request time.
	Request(ctx context.Context, params RequestCheckoutParams) (*checkout.Request, error)
	// Claim gives exactly one staff member ownership of the request.
	Claim(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error)
	ConfirmItems(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error)
	MarkFeePaid(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error)
	Complete(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error)
}

type checkoutCommandsImpl struct {
	uow    shared.UnitOfWork
	policy checkout.FeePolicy
	pub    events.Publisher
	clock  clock.Clock
	logger *slog.Logger
}

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	cfg config.Config,
	pub events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		uow: uow,
		policy: checkout.FeePolicy{
			Grace:    cfg.Protocol.CheckoutGrace,
			FeeCents: cfg.Protocol.CheckoutFeeCents,
			Interval: cfg.Protocol.CheckoutFeeInterval,
		},
		pub:    pub,
		clock:  clk,
		logger: logger,
	}
}

func (c *checkoutCommandsImpl) Request(ctx context.Context, params RequestCheckoutParams) (*checkout.Request, error) {
	req := checkout.NewRequest(params.VisitID, params.RoomNumber, params.ScheduledAt, c.clock.Now(), c.policy)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Checkouts().Create(ctx, tx.DB(), req); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.broadcast(ctx, events.CheckoutRequested, req)
	return req, nil
}

func (c *checkoutCommandsImpl) Claim(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error) {
	var req *checkout.Request

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		won, err := tx.Checkouts().TryClaim(ctx, tx.DB(), requestID, staffID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		req, err = c.loadRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if !won {
			// Idempotent for the staff member who already holds the claim.
			if req.ClaimedBy == nil || *req.ClaimedBy != staffID {
				return errs.ErrCheckoutClaimed
			}
		}
		if err := req.Claim(staffID); err != nil {
			return errs.ErrCheckoutClaimed
		}
		return tx.Checkouts().Update(ctx, tx.DB(), req)
	})
	if err != nil {
		return nil, err
	}

	c.broadcast(ctx, events.CheckoutClaimed, req)
	return req, nil
}

func (c *checkoutCommandsImpl) ConfirmItems(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error) {
	return c.mutate(ctx, requestID, events.CheckoutUpdated, func(req *checkout.Request) error {
		return req.ConfirmItems(staffID)
	})
}

func (c *checkoutCommandsImpl) MarkFeePaid(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error) {
	return c.mutate(ctx, requestID, events.CheckoutUpdated, func(req *checkout.Request) error {
		return req.MarkFeePaid(staffID)
	})
}

func (c *checkoutCommandsImpl) Complete(ctx context.Context, requestID, staffID uuid.UUID) (*checkout.Request, error) {
	return c.mutate(ctx, requestID, events.CheckoutCompleted, func(req *checkout.Request) error {
		return req.Complete(staffID)
	})
}

func (c *checkoutCommandsImpl) mutate(ctx context.Context, requestID uuid.UUID, eventType string, fn func(req *checkout.Request) error) (*checkout.Request, error) {
	var req *checkout.Request

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		req, err = c.loadRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := fn(req); err != nil {
			return err
		}
		return tx.Checkouts().Update(ctx, tx.DB(), req)
	})
	if err != nil {
		return nil, err
	}

	c.broadcast(ctx, eventType, req)
	return req, nil
}

func (c *checkoutCommandsImpl) loadRequest(ctx context.Context, tx shared.Tx, requestID uuid.UUID) (*checkout.Request, error) {
	req, err := tx.Checkouts().FindByID(ctx, tx.DB(), requestID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCheckoutNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return req, nil
}

func (c *checkoutCommandsImpl) broadcast(ctx context.Context, eventType string, req *checkout.Request) {
	events.Emit(ctx, c.pub, c.logger, events.BroadcastSubject, eventType, events.CheckoutPayload{
		RequestID:   req.ID,
		RoomNumber:  req.RoomNumber,
		MinutesLate: req.MinutesLate,
		FeeCents:    req.FeeCents,
		FeePaid:     req.FeePaid,
		ClaimedBy:   req.ClaimedBy,
		Status:      req.Status.String(),
	})
}
