package commands

import (
	"context"
	"log/slog"

	"clubops/internal/domain/payment"
	"clubops/internal/domain/session"
	"clubops/internal/events"
	"clubops/internal/infra"
	"clubops/internal/pkg/clock"
	"clubops/internal/pkg/errs"
	"clubops/internal/pkg/pin"
	"clubops/internal/usecase/shared"

	"github.com/google/uuid"
)

type PastDueOutcome string

const (
	PastDueSuccess  PastDueOutcome = "SUCCESS"
	PastDueDeclined PastDueOutcome = "DECLINED"
)

type PaymentCommands interface {
	// EnsureIntent creates the session's payment intent exactly once,
	// guarded by a compare-and-swap on the session row. Safe to call from
	// concurrent event handlers; only one caller ever creates.
	EnsureIntent(ctx context.Context, sessionID uuid.UUID) (*payment.Intent, bool, error)
	MarkPaid(ctx context.Context, laneID string, intentID uuid.UUID) error
	Decline(ctx context.Context, laneID string, intentID uuid.UUID, reason string) error
	DismissFailure(ctx context.Context, laneID string) error
	PastDuePayment(ctx context.Context, laneID string, outcome PastDueOutcome, declineReason *string) error
	PastDueBypass(ctx context.Context, laneID string, managerID uuid.UUID, managerPin string) error
	OverrideSignature(ctx context.Context, laneID string) error
}

type paymentCommandsImpl struct {
	uow    shared.UnitOfWork
	pricer payment.Pricer
	pub    events.Publisher
	clock  clock.Clock
	logger *slog.Logger
}

func NewPaymentCommands(
	uow shared.UnitOfWork,
	pricer payment.Pricer,
	pub events.Publisher,
	clk clock.Clock,
	logger *slog.Logger,
) PaymentCommands {
	return &paymentCommandsImpl{
		uow:    uow,
		pricer: pricer,
		pub:    pub,
		clock:  clk,
		logger: logger,
	}
}

func (c *paymentCommandsImpl) EnsureIntent(ctx context.Context, sessionID uuid.UUID) (*payment.Intent, bool, error) {
	var (
		intent  *payment.Intent
		created bool
		current *session.LaneSession
	)

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Sessions().FindByID(ctx, tx.DB(), sessionID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSessionNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		current = s

		if existing := s.PaymentIntentID(); existing != nil {
			intent, err = tx.Payments().FindByID(ctx, tx.DB(), *existing)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			return nil
		}

		selected := s.CustomerSelectedType()
		if selected == nil {
			return errs.ErrNoProposal
		}

		sid := s.ID()
		quote := c.pricer.QuoteSession(*selected, s.MembershipIntent())
		fresh, err := payment.NewIntent(payment.KindSession, &sid, nil, quote, c.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}

		armed, err := tx.Sessions().ArmPaymentIntent(ctx, tx.DB(), s.ID(), fresh.ID)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !armed {
			// Lost the arming race; reload the winner's intent.
			reloaded, err := tx.Sessions().FindByID(ctx, tx.DB(), sessionID)
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			winner := reloaded.PaymentIntentID()
			if winner == nil {
				return errs.ErrPaymentIntentNotFound
			}
			intent, err = tx.Payments().FindByID(ctx, tx.DB(), *winner)
			return err
		}

		if err := tx.Payments().Create(ctx, tx.DB(), fresh); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := s.AttachPaymentIntent(fresh.ID); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		intent = fresh
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		subject := events.LaneSubject(current.LaneID())
		events.Emit(ctx, c.pub, c.logger, subject, events.SessionUpdated, events.NewSessionPayload(current))
	}
	return intent, created, nil
}

func (c *paymentCommandsImpl) MarkPaid(ctx context.Context, laneID string, intentID uuid.UUID) error {
	return c.mutateSessionAndIntent(ctx, laneID, intentID, func(s *session.LaneSession, i *payment.Intent) error {
		if err := i.MarkPaid(c.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		return s.MarkPaid()
	})
}

func (c *paymentCommandsImpl) Decline(ctx context.Context, laneID string, intentID uuid.UUID, reason string) error {
	return c.mutateSessionAndIntent(ctx, laneID, intentID, func(s *session.LaneSession, i *payment.Intent) error {
		if err := i.Decline(reason, c.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrDomainValidation)
		}
		s.RecordPaymentFailure(reason)
		return nil
	})
}

func (c *paymentCommandsImpl) DismissFailure(ctx context.Context, laneID string) error {
	return c.mutateSession(ctx, laneID, func(s *session.LaneSession) error {
		s.DismissPaymentFailure()
		return nil
	})
}

// PastDuePayment records the outcome of the past-due settlement attempt. A
// success lifts the block and clears the balance; a decline attaches the
// reason without changing the block.
func (c *paymentCommandsImpl) PastDuePayment(ctx context.Context, laneID string, outcome PastDueOutcome, declineReason *string) error {
	return c.mutateSessionTx(ctx, laneID, func(ctx context.Context, tx shared.Tx, s *session.LaneSession) error {
		switch outcome {
		case PastDueSuccess:
			if err := tx.Customers().SettlePastDue(ctx, tx.DB(), s.CustomerID(), c.clock.Now()); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			s.ClearPastDue()
		case PastDueDeclined:
			reason := "Past-due payment declined"
			if declineReason != nil && *declineReason != "" {
				reason = *declineReason
			}
			s.RecordPaymentFailure(reason)
		default:
			return errs.ErrDomainValidation
		}
		return nil
	})
}

// PastDueBypass authorizes forward progress despite an outstanding balance.
// Requires a 6-digit PIN matching an admin-role employee.
func (c *paymentCommandsImpl) PastDueBypass(ctx context.Context, laneID string, managerID uuid.UUID, managerPin string) error {
	return c.mutateSessionTx(ctx, laneID, func(ctx context.Context, tx shared.Tx, s *session.LaneSession) error {
		manager, err := tx.Reads().EmployeeByID(ctx, tx.DB(), managerID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrBypassDenied
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if manager.Role != session.RoleAdmin {
			return errs.ErrBypassDenied
		}
		if err := pin.ComparePin(manager.PinHash, managerPin); err != nil {
			return errs.ErrBypassDenied
		}

		s.ClearPastDue()
		return nil
	})
}

// OverrideSignature substitutes an administrative action for the kiosk
// signature when the signature step stalls after payment.
func (c *paymentCommandsImpl) OverrideSignature(ctx context.Context, laneID string) error {
	return c.mutateSession(ctx, laneID, func(s *session.LaneSession) error {
		if s.PaymentStatus() != session.PaymentPaid {
			return session.ErrPaymentDue
		}
		return s.Sign()
	})
}

func (c *paymentCommandsImpl) mutateSession(ctx context.Context, laneID string, fn func(s *session.LaneSession) error) error {
	return c.mutateSessionTx(ctx, laneID, func(_ context.Context, _ shared.Tx, s *session.LaneSession) error {
		return fn(s)
	})
}

func (c *paymentCommandsImpl) mutateSessionTx(ctx context.Context, laneID string, fn func(ctx context.Context, tx shared.Tx, s *session.LaneSession) error) error {
	var current *session.LaneSession

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		s, err := tx.Sessions().FindActiveByLane(ctx, tx.DB(), laneID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrSessionInactive
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		loaded := s.Version()
		if err := fn(ctx, tx, s); err != nil {
			return err
		}

		s.Touch(c.clock.Now())
		if err := tx.Sessions().Update(ctx, tx.DB(), s, loaded); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		current = s
		return nil
	})
	if err != nil {
		return err
	}

	events.Emit(ctx, c.pub, c.logger, events.LaneSubject(laneID), events.SessionUpdated, events.NewSessionPayload(current))
	return nil
}

func (c *paymentCommandsImpl) mutateSessionAndIntent(ctx context.Context, laneID string, intentID uuid.UUID, fn func(s *session.LaneSession, i *payment.Intent) error) error {
	return c.mutateSessionTx(ctx, laneID, func(ctx context.Context, tx shared.Tx, s *session.LaneSession) error {
		intent, err := tx.Payments().FindByID(ctx, tx.DB(), intentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrPaymentIntentNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if intent.SessionID == nil || *intent.SessionID != s.ID() {
			return errs.ErrPaymentIntentNotFound
		}

		if err := fn(s, intent); err != nil {
			return err
		}
		return tx.Payments().Update(ctx, tx.DB(), intent)
	})
}
