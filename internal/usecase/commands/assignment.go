package commands

import (
	"context"
	"log/slog"

	"clubops/internal/domain/session"
	"clubops/internal/events"
	"clubops/internal/infra"
	"clubops/internal/pkg/clock"
	"clubops/internal/pkg/errs"
	"clubops/internal/usecase/queries"
	"clubops/internal/usecase/shared"
)

type AssignmentCommands interface {
	// Assign binds the requested resource to the lane's active session. A
	// cross-tier request does not assign; it parks the resource and waits
	// for the customer's answer.
	Assign(ctx context.Context, laneID string, resource session.AssignedResource) (*queries.SessionView, error)
	CustomerAccept(ctx context.Context, laneID string) (*queries.SessionView, error)
	CustomerDecline(ctx context.Context, laneID string) (*queries.SessionView, error)
}

type assignmentCommandsImpl struct {
	uow       shared.UnitOfWork
	queries   queries.SessionQueries
	inventory queries.InventoryQueries
	pub       events.Publisher
	clock     clock.Clock
	logger    *slog.Logger
}

func NewAssignmentCommands(
	uow shared.UnitOfWork,
	sessionQueries queries.SessionQueries,
	inventory queries.InventoryQueries,
	pub events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) AssignmentCommands {
	return &assignmentCommandsImpl{
		uow:       uow,
		queries:   sessionQueries,
		inventory: inventory,
		pub:       pub,
		clock:     clk,
		logger:    logger,
	}
}

type assignOutcome struct {
	session      *session.LaneSession
	resource     session.AssignedResource
	room         *shared.RoomSnapshot
	needsConfirm bool
	raceLost     bool
	unavailable  bool
}

func (c *assignmentCommandsImpl) Assign(ctx context.Context, laneID string, resource session.AssignedResource) (*queries.SessionView, error) {
	out := &assignOutcome{resource: resource}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := c.loadActive(ctx, tx, laneID)
		if err != nil {
			return err
		}
		out.session = s
		loaded := s.Version()

		needsConfirm, err := s.RequestAssignment(resource)
		if err != nil {
			return err
		}
		if needsConfirm {
			out.needsConfirm = true
			return c.persist(ctx, tx, s, loaded)
		}

		return c.claimAndComplete(ctx, tx, s, loaded, resource, out)
	})

	return c.finishAssign(ctx, laneID, out, err)
}

// CustomerAccept resolves a pending cross-tier confirmation in favor of the
// offered resource and proceeds to claim it.
func (c *assignmentCommandsImpl) CustomerAccept(ctx context.Context, laneID string) (*queries.SessionView, error) {
	out := &assignOutcome{}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := c.loadActive(ctx, tx, laneID)
		if err != nil {
			return err
		}
		out.session = s
		loaded := s.Version()

		resource, err := s.AcceptPendingResource()
		if err != nil {
			return err
		}
		out.resource = resource

		return c.claimAndComplete(ctx, tx, s, loaded, resource, out)
	})
	if err == nil {
		c.emitLane(ctx, laneID, events.CustomerConfirmed, events.AssignmentPayload{
			SessionID:      out.session.ID(),
			LaneID:         laneID,
			ResourceType:   out.resource.Type.String(),
			ResourceNumber: out.resource.Number,
		})
	}

	return c.finishAssign(ctx, laneID, out, err)
}

func (c *assignmentCommandsImpl) CustomerDecline(ctx context.Context, laneID string) (*queries.SessionView, error) {
	var current *session.LaneSession

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := c.loadActive(ctx, tx, laneID)
		if err != nil {
			return err
		}
		current = s
		loaded := s.Version()

		if err := s.DeclinePendingResource(); err != nil {
			return err
		}
		return c.persist(ctx, tx, s, loaded)
	})
	if err != nil {
		return nil, err
	}

	c.emitLane(ctx, laneID, events.CustomerDeclined, events.AssignmentPayload{
		SessionID: current.ID(),
		LaneID:    laneID,
	})
	c.emitLane(ctx, laneID, events.SessionUpdated, events.NewSessionPayload(current))
	return c.queries.GetByID(ctx, current.ID())
}

// claimAndComplete performs the optimistic room claim and, on success,
// finalizes the assignment on the session. Race losses and offline rooms do
// not abort the transaction; the session keeps its pre-claim state.
func (c *assignmentCommandsImpl) claimAndComplete(
	ctx context.Context,
	tx shared.Tx,
	s *session.LaneSession,
	loaded int32,
	resource session.AssignedResource,
	out *assignOutcome,
) error {
	room, err := tx.Reads().RoomByNumber(ctx, tx.DB(), resource.Number)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrResourceUnavailable
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if room.Tier != resource.Type || room.Status == shared.RoomOffline {
		out.unavailable = true
		return errs.ErrResourceUnavailable
	}
	out.room = room

	claimed, err := tx.Rooms().Claim(ctx, tx.DB(), room.ID, s.ID())
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !claimed {
		// Somebody else took the room between the staff's pick and now.
		// Never retried automatically; the staff picks again.
		out.raceLost = true
		return errs.ErrAssignmentRaceLost
	}

	s.CompleteAssignment(resource)
	return c.persist(ctx, tx, s, loaded)
}

func (c *assignmentCommandsImpl) finishAssign(ctx context.Context, laneID string, out *assignOutcome, err error) (*queries.SessionView, error) {
	if err != nil {
		if out.session != nil && (out.raceLost || out.unavailable) {
			reason := "Resource unavailable"
			if out.raceLost {
				reason = "Resource was claimed by another session"
			}
			c.emitLane(ctx, laneID, events.AssignmentFailed, events.AssignmentPayload{
				SessionID:      out.session.ID(),
				LaneID:         laneID,
				ResourceType:   out.resource.Type.String(),
				ResourceNumber: out.resource.Number,
				Reason:         reason,
				RaceLost:       out.raceLost,
			})
		}
		return nil, err
	}

	if out.needsConfirm {
		c.emitLane(ctx, laneID, events.CustomerConfirmation, events.AssignmentPayload{
			SessionID:      out.session.ID(),
			LaneID:         laneID,
			ResourceType:   out.resource.Type.String(),
			ResourceNumber: out.resource.Number,
		})
		c.emitLane(ctx, laneID, events.SessionUpdated, events.NewSessionPayload(out.session))
		return c.queries.GetByID(ctx, out.session.ID())
	}

	c.emitLane(ctx, laneID, events.AssignmentCreated, events.AssignmentPayload{
		SessionID:      out.session.ID(),
		LaneID:         laneID,
		ResourceType:   out.resource.Type.String(),
		ResourceNumber: out.resource.Number,
	})
	c.emitLane(ctx, laneID, events.SessionUpdated, events.NewSessionPayload(out.session))

	if out.room != nil {
		events.Emit(ctx, c.pub, c.logger, events.BroadcastSubject, events.RoomStatusChanged, events.RoomStatusPayload{
			RoomID: out.room.ID,
			Number: out.room.Number,
			Tier:   out.room.Tier.String(),
			Status: shared.RoomOccupied,
		})
	}
	c.broadcastInventory(ctx)

	return c.queries.GetByID(ctx, out.session.ID())
}

func (c *assignmentCommandsImpl) broadcastInventory(ctx context.Context) {
	// Invalidate first: if the refresh fails, the cache must not keep
	// serving pre-assignment counts until the TTL expires.
	c.inventory.Invalidate(ctx)
	snap, err := c.inventory.Refresh(ctx)
	if err != nil {
		c.logger.Error("failed to refresh inventory after assignment", "error", err)
		return
	}
	events.Emit(ctx, c.pub, c.logger, events.BroadcastSubject, events.InventoryUpdated, snap)
}

func (c *assignmentCommandsImpl) loadActive(ctx context.Context, tx shared.Tx, laneID string) (*session.LaneSession, error) {
	s, err := tx.Sessions().FindActiveByLane(ctx, tx.DB(), laneID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrSessionInactive
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return s, nil
}

func (c *assignmentCommandsImpl) persist(ctx context.Context, tx shared.Tx, s *session.LaneSession, loaded int32) error {
	s.Touch(c.clock.Now())
	if err := tx.Sessions().Update(ctx, tx.DB(), s, loaded); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *assignmentCommandsImpl) emitLane(ctx context.Context, laneID string, eventType string, payload any) {
	events.Emit(ctx, c.pub, c.logger, events.LaneSubject(laneID), eventType, payload)
}
