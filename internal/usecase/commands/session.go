package commands

import (
	"context"
	"log/slog"

	"clubops/internal/domain/session"
	"clubops/internal/events"
	"clubops/internal/infra"
	"clubops/internal/pkg/clock"
	"clubops/internal/pkg/config"
	"clubops/internal/pkg/errs"
	"clubops/internal/usecase/queries"
	"clubops/internal/usecase/shared"

	"github.com/google/uuid"
)

type StartSessionParams struct {
	ScanValue        *string
	MembershipValue  *string
	CustomerID       *uuid.UUID
	MembershipIntent session.MembershipIntent
}

type LaneCommands interface {
	StartSession(ctx context.Context, laneID string, params StartSessionParams) (*queries.SessionView, error)
	Propose(ctx context.Context, laneID string, rentalType session.RentalType, by session.Actor) (*queries.SessionView, error)
	Confirm(ctx context.Context, laneID string, by session.Actor) (*queries.SessionView, error)
	Acknowledge(ctx context.Context, laneID string) (*queries.SessionView, error)
	Sign(ctx context.Context, laneID string) (*queries.SessionView, error)
	Reset(ctx context.Context, laneID string) error
}

type laneCommandsImpl struct {
	uow      shared.UnitOfWork
	payments PaymentCommands
	queries  queries.SessionQueries
	pub      events.Publisher
	protocol config.ProtocolConfig
	clock    clock.Clock
	logger   *slog.Logger
}

func NewLaneCommands(
	uow shared.UnitOfWork,
	payments PaymentCommands,
	sessionQueries queries.SessionQueries,
	pub events.Publisher,
	cfg config.Config,
	clk clock.Clock,
	logger *slog.Logger,
) LaneCommands {
	return &laneCommandsImpl{
		uow:      uow,
		payments: payments,
		queries:  sessionQueries,
		pub:      pub,
		protocol: cfg.Protocol,
		clock:    clk,
		logger:   logger,
	}
}

func (c *laneCommandsImpl) StartSession(ctx context.Context, laneID string, params StartSessionParams) (*queries.SessionView, error) {
	var created *session.LaneSession

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		busy, err := tx.Reads().ActiveSessionExists(ctx, tx.DB(), laneID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if busy {
			return errs.ErrLaneBusy
		}

		customer, err := tx.Reads().CustomerByLookup(ctx, tx.DB(), params.ScanValue, params.MembershipValue, params.CustomerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSessionNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		created = session.NewLaneSession(laneID, customer.ID, customer.Name, customer.PastDue(), params.MembershipIntent, c.clock.Now())
		if err := tx.Sessions().Create(ctx, tx.DB(), created); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.emitSession(ctx, created)
	return c.queries.GetByID(ctx, created.ID())
}

func (c *laneCommandsImpl) Propose(ctx context.Context, laneID string, rentalType session.RentalType, by session.Actor) (*queries.SessionView, error) {
	var (
		current *session.LaneSession
		forced  bool
	)

	err := c.mutateActive(ctx, laneID, func(s *session.LaneSession) error {
		var err error
		forced, err = s.Propose(rentalType, by, c.protocol.RequireLockAck)
		current = s
		return err
	})
	if err != nil {
		return nil, err
	}

	if forced {
		c.emit(ctx, current, events.SelectionForced, events.SelectionPayload{
			SessionID:  current.ID(),
			LaneID:     laneID,
			RentalType: rentalType.String(),
			Actor:      session.ActorEmployee.String(),
		})
		c.emit(ctx, current, events.SelectionLocked, events.SelectionPayload{
			SessionID:  current.ID(),
			LaneID:     laneID,
			RentalType: rentalType.String(),
			Actor:      session.ActorEmployee.String(),
		})
	} else {
		c.emit(ctx, current, events.SelectionProposed, events.SelectionPayload{
			SessionID:  current.ID(),
			LaneID:     laneID,
			RentalType: rentalType.String(),
			Actor:      by.String(),
		})
	}
	c.emitSession(ctx, current)

	if forced {
		c.afterLock(ctx, current)
	}
	return c.queries.GetByID(ctx, current.ID())
}

func (c *laneCommandsImpl) Confirm(ctx context.Context, laneID string, by session.Actor) (*queries.SessionView, error) {
	var current *session.LaneSession

	err := c.mutateActive(ctx, laneID, func(s *session.LaneSession) error {
		current = s
		return s.Confirm(by, c.protocol.RequireLockAck)
	})
	if err != nil {
		return nil, err
	}

	selected := ""
	if t := current.CustomerSelectedType(); t != nil {
		selected = t.String()
	}
	c.emit(ctx, current, events.SelectionLocked, events.SelectionPayload{
		SessionID:  current.ID(),
		LaneID:     laneID,
		RentalType: selected,
		Actor:      by.String(),
	})
	c.emitSession(ctx, current)

	c.afterLock(ctx, current)
	return c.queries.GetByID(ctx, current.ID())
}

// afterLock arms the payment gate and, under the auto-acknowledge policy,
// announces the acknowledgement that the stricter revision would wait for.
func (c *laneCommandsImpl) afterLock(ctx context.Context, s *session.LaneSession) {
	if s.LockAcknowledged() {
		c.emit(ctx, s, events.SelectionAck, events.SelectionPayload{
			SessionID: s.ID(),
			LaneID:    s.LaneID(),
			Actor:     session.ActorEmployee.String(),
		})
	}

	if _, _, err := c.payments.EnsureIntent(ctx, s.ID()); err != nil {
		// The explicit create-payment-intent command remains as recovery.
		c.logger.Error("failed to arm payment gate", "session_id", s.ID(), "error", err)
	}
}

func (c *laneCommandsImpl) Acknowledge(ctx context.Context, laneID string) (*queries.SessionView, error) {
	var current *session.LaneSession

	err := c.mutateActive(ctx, laneID, func(s *session.LaneSession) error {
		current = s
		return s.Acknowledge()
	})
	if err != nil {
		return nil, err
	}

	c.emit(ctx, current, events.SelectionAck, events.SelectionPayload{
		SessionID: current.ID(),
		LaneID:    laneID,
		Actor:     session.ActorEmployee.String(),
	})
	c.emitSession(ctx, current)
	return c.queries.GetByID(ctx, current.ID())
}

func (c *laneCommandsImpl) Sign(ctx context.Context, laneID string) (*queries.SessionView, error) {
	var current *session.LaneSession

	err := c.mutateActive(ctx, laneID, func(s *session.LaneSession) error {
		current = s
		return s.Sign()
	})
	if err != nil {
		return nil, err
	}

	c.emitSession(ctx, current)
	return c.queries.GetByID(ctx, current.ID())
}

// Reset clears the lane. Idempotent from the caller's point of view: a lane
// with no active session reports ErrSessionInactive, which the HTTP layer
// maps to 404 and clients treat as success.
func (c *laneCommandsImpl) Reset(ctx context.Context, laneID string) error {
	var cleared *session.LaneSession

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Sessions().FindActiveByLane(ctx, tx.DB(), laneID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSessionInactive
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		loaded := s.Version()
		s.Cancel()
		s.Touch(c.clock.Now())
		if err := tx.Sessions().Update(ctx, tx.DB(), s, loaded); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		cleared = s
		return nil
	})
	if err != nil {
		return err
	}

	// The canonical cleared signal: COMPLETED with an empty customer name.
	events.Emit(ctx, c.pub, c.logger, events.LaneSubject(laneID), events.SessionUpdated,
		events.ClearedSessionPayload(cleared.ID(), laneID))
	return nil
}

// mutateActive loads the lane's active session, applies fn, and persists
// under the loaded version. Serialization conflicts retry inside the UoW.
func (c *laneCommandsImpl) mutateActive(ctx context.Context, laneID string, fn func(s *session.LaneSession) error) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Sessions().FindActiveByLane(ctx, tx.DB(), laneID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSessionInactive
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		loaded := s.Version()
		if err := fn(s); err != nil {
			return err
		}

		s.Touch(c.clock.Now())
		if err := tx.Sessions().Update(ctx, tx.DB(), s, loaded); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *laneCommandsImpl) emit(ctx context.Context, s *session.LaneSession, eventType string, payload any) {
	events.Emit(ctx, c.pub, c.logger, events.LaneSubject(s.LaneID()), eventType, payload)
}

func (c *laneCommandsImpl) emitSession(ctx context.Context, s *session.LaneSession) {
	c.emit(ctx, s, events.SessionUpdated, events.NewSessionPayload(s))
}
