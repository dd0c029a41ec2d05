//go:build unit

package session_test

import (
	"testing"
	"time"

	"clubops/internal/domain/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpenSession(t *testing.T) *session.LaneSession {
	t.Helper()
	return session.NewLaneSession("lane-1", uuid.New(), "Ada Lovelace", false, session.MembershipNone, time.Now())
}

// drives a fresh session up to the assignment-ready state
func readyForAssignment(t *testing.T, tier session.RentalType) *session.LaneSession {
	t.Helper()
	s := newOpenSession(t)
	_, err := s.Propose(tier, session.ActorCustomer, false)
	require.NoError(t, err)
	require.NoError(t, s.Confirm(session.ActorCustomer, false))
	require.NoError(t, s.MarkPaid())
	require.NoError(t, s.Sign())
	return s
}

func TestLaneSession_Propose(t *testing.T) {
	t.Run("first proposal is recorded", func(t *testing.T) {
		s := newOpenSession(t)

		forced, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		require.NoError(t, err)
		assert.False(t, forced)
		require.NotNil(t, s.ProposedRentalType())
		assert.Equal(t, session.RentalStandard, *s.ProposedRentalType())
		assert.Equal(t, session.ActorCustomer, *s.ProposedBy())
		assert.False(t, s.SelectionConfirmed())
	})

	t.Run("latest proposal wins", func(t *testing.T) {
		s := newOpenSession(t)

		_, err := s.Propose(session.RentalStandard, session.ActorEmployee, false)
		require.NoError(t, err)
		forced, err := s.Propose(session.RentalDeluxe, session.ActorCustomer, false)
		require.NoError(t, err)

		assert.False(t, forced)
		assert.Equal(t, session.RentalDeluxe, *s.ProposedRentalType())
		assert.Equal(t, session.ActorCustomer, *s.ProposedBy())
		assert.False(t, s.SelectionConfirmed())
	})

	t.Run("repeated identical employee proposal force-confirms", func(t *testing.T) {
		s := newOpenSession(t)

		_, err := s.Propose(session.RentalDouble, session.ActorEmployee, false)
		require.NoError(t, err)
		forced, err := s.Propose(session.RentalDouble, session.ActorEmployee, false)
		require.NoError(t, err)

		assert.True(t, forced)
		assert.True(t, s.SelectionConfirmed())
		assert.Equal(t, session.ActorEmployee, *s.SelectionConfirmedBy())
		assert.Equal(t, session.RentalDouble, *s.CustomerSelectedType())
		assert.True(t, s.LockAcknowledged())
		assert.Equal(t, session.StatusAwaitingPayment, s.Status())
	})

	t.Run("repeated identical customer proposal does not force-confirm", func(t *testing.T) {
		s := newOpenSession(t)

		_, err := s.Propose(session.RentalDouble, session.ActorCustomer, false)
		require.NoError(t, err)
		forced, err := s.Propose(session.RentalDouble, session.ActorCustomer, false)
		require.NoError(t, err)

		assert.False(t, forced)
		assert.False(t, s.SelectionConfirmed())
	})

	t.Run("repeated employee proposal of a different type overwrites", func(t *testing.T) {
		s := newOpenSession(t)

		_, err := s.Propose(session.RentalDouble, session.ActorEmployee, false)
		require.NoError(t, err)
		forced, err := s.Propose(session.RentalDeluxe, session.ActorEmployee, false)
		require.NoError(t, err)

		assert.False(t, forced)
		assert.Equal(t, session.RentalDeluxe, *s.ProposedRentalType())
		assert.False(t, s.SelectionConfirmed())
	})

	t.Run("rejected once selection is locked", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, false))

		_, err = s.Propose(session.RentalDeluxe, session.ActorEmployee, false)
		assert.ErrorIs(t, err, session.ErrSelectionLocked)
	})

	t.Run("rejected while past-due blocked", func(t *testing.T) {
		s := session.NewLaneSession("lane-1", uuid.New(), "Ada Lovelace", true, session.MembershipNone, time.Now())

		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		assert.ErrorIs(t, err, session.ErrPastDueBlocked)
	})

	t.Run("rejected on a closed session", func(t *testing.T) {
		s := newOpenSession(t)
		s.Cancel()

		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		assert.ErrorIs(t, err, session.ErrSessionClosed)
	})
}

func TestLaneSession_Confirm(t *testing.T) {
	t.Run("customer confirm locks the proposal", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorEmployee, false)
		require.NoError(t, err)

		require.NoError(t, s.Confirm(session.ActorCustomer, false))

		assert.True(t, s.SelectionConfirmed())
		assert.Equal(t, session.ActorCustomer, *s.SelectionConfirmedBy())
		assert.Equal(t, session.RentalStandard, *s.CustomerSelectedType())
		assert.True(t, s.LockAcknowledged())
	})

	t.Run("customer confirm stays unacknowledged under the strict revision", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorEmployee, false)
		require.NoError(t, err)

		require.NoError(t, s.Confirm(session.ActorCustomer, true))

		assert.True(t, s.SelectionConfirmed())
		assert.False(t, s.LockAcknowledged())
	})

	t.Run("employee confirm is auto-acknowledged even under the strict revision", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, true)
		require.NoError(t, err)

		require.NoError(t, s.Confirm(session.ActorEmployee, true))

		assert.True(t, s.LockAcknowledged())
	})

	t.Run("confirm without a proposal fails", func(t *testing.T) {
		s := newOpenSession(t)

		err := s.Confirm(session.ActorCustomer, false)
		assert.ErrorIs(t, err, session.ErrNoProposal)
	})

	t.Run("double confirm fails", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, false))

		err = s.Confirm(session.ActorEmployee, false)
		assert.ErrorIs(t, err, session.ErrSelectionLocked)
	})
}

func TestLaneSession_Acknowledge(t *testing.T) {
	t.Run("acknowledges a customer-confirmed lock", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorEmployee, true)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, true))
		require.False(t, s.LockAcknowledged())

		require.NoError(t, s.Acknowledge())
		assert.True(t, s.LockAcknowledged())
	})

	t.Run("acknowledging twice is a no-op", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorEmployee, true)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, true))

		require.NoError(t, s.Acknowledge())
		require.NoError(t, s.Acknowledge())
		assert.True(t, s.LockAcknowledged())
	})

	t.Run("fails before the selection is locked", func(t *testing.T) {
		s := newOpenSession(t)

		err := s.Acknowledge()
		assert.ErrorIs(t, err, session.ErrSelectionNotLocked)
	})
}

func TestLaneSession_CanAssign(t *testing.T) {
	t.Run("precondition ordering", func(t *testing.T) {
		// Each step fixes the previously violated precondition; the next
		// violation in the fixed evaluation order must surface.
		s := session.NewLaneSession("lane-1", uuid.New(), "Ada Lovelace", true, session.MembershipNone, time.Now())
		assert.ErrorIs(t, s.CanAssign(), session.ErrPastDueBlocked)

		s.ClearPastDue()
		assert.ErrorIs(t, s.CanAssign(), session.ErrSelectionNotLocked)

		_, err := s.Propose(session.RentalStandard, session.ActorEmployee, true)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, true))
		assert.ErrorIs(t, s.CanAssign(), session.ErrNotAcknowledged)

		require.NoError(t, s.Acknowledge())
		assert.ErrorIs(t, s.CanAssign(), session.ErrPaymentDue)

		require.NoError(t, s.MarkPaid())
		assert.ErrorIs(t, s.CanAssign(), session.ErrAgreementNotSigned)

		require.NoError(t, s.Sign())
		assert.NoError(t, s.CanAssign())
	})

	t.Run("closed session is checked first", func(t *testing.T) {
		s := session.NewLaneSession("lane-1", uuid.New(), "Ada Lovelace", true, session.MembershipNone, time.Now())
		s.Cancel()

		assert.ErrorIs(t, s.CanAssign(), session.ErrSessionClosed)
	})

	t.Run("assigned resource blocks a second assignment", func(t *testing.T) {
		s := readyForAssignment(t, session.RentalStandard)
		needsConfirm, err := s.RequestAssignment(session.AssignedResource{Type: session.RentalStandard, Number: 12})
		require.NoError(t, err)
		require.False(t, needsConfirm)
		s.CompleteAssignment(session.AssignedResource{Type: session.RentalStandard, Number: 12})

		// CompleteAssignment closes the session, so the closed check wins.
		assert.ErrorIs(t, s.CanAssign(), session.ErrSessionClosed)
	})
}

func TestLaneSession_RequestAssignment(t *testing.T) {
	t.Run("matching tier proceeds directly", func(t *testing.T) {
		s := readyForAssignment(t, session.RentalStandard)

		needsConfirm, err := s.RequestAssignment(session.AssignedResource{Type: session.RentalStandard, Number: 7})
		require.NoError(t, err)
		assert.False(t, needsConfirm)
		assert.False(t, s.PendingConfirmation())
	})

	t.Run("cross-tier pick defers to the customer", func(t *testing.T) {
		s := readyForAssignment(t, session.RentalStandard)

		needsConfirm, err := s.RequestAssignment(session.AssignedResource{Type: session.RentalDeluxe, Number: 30})
		require.NoError(t, err)
		assert.True(t, needsConfirm)
		assert.True(t, s.PendingConfirmation())
		require.NotNil(t, s.PendingResource())
		assert.Equal(t, session.RentalDeluxe, s.PendingResource().Type)
		assert.Nil(t, s.AssignedResource())
	})

	t.Run("second assignment waits for the pending confirmation", func(t *testing.T) {
		s := readyForAssignment(t, session.RentalStandard)
		_, err := s.RequestAssignment(session.AssignedResource{Type: session.RentalDeluxe, Number: 30})
		require.NoError(t, err)

		_, err = s.RequestAssignment(session.AssignedResource{Type: session.RentalStandard, Number: 7})
		assert.ErrorIs(t, err, session.ErrConfirmationPending)
	})
}

func TestLaneSession_CustomerResponse(t *testing.T) {
	t.Run("accept releases the pending resource for claiming", func(t *testing.T) {
		s := readyForAssignment(t, session.RentalStandard)
		_, err := s.RequestAssignment(session.AssignedResource{Type: session.RentalDeluxe, Number: 30})
		require.NoError(t, err)

		res, err := s.AcceptPendingResource()
		require.NoError(t, err)
		assert.Equal(t, session.RentalDeluxe, res.Type)
		assert.Equal(t, int32(30), res.Number)
		assert.False(t, s.PendingConfirmation())
		assert.Nil(t, s.PendingResource())
	})

	t.Run("decline keeps the locked tier armed", func(t *testing.T) {
		s := readyForAssignment(t, session.RentalStandard)
		_, err := s.RequestAssignment(session.AssignedResource{Type: session.RentalDeluxe, Number: 30})
		require.NoError(t, err)

		require.NoError(t, s.DeclinePendingResource())

		assert.False(t, s.PendingConfirmation())
		assert.Nil(t, s.PendingResource())
		assert.Equal(t, session.RentalStandard, *s.CustomerSelectedType())
		assert.NoError(t, s.CanAssign())
	})

	t.Run("responding with nothing pending fails", func(t *testing.T) {
		s := readyForAssignment(t, session.RentalStandard)

		_, err := s.AcceptPendingResource()
		assert.ErrorIs(t, err, session.ErrNoConfirmationAsked)
		assert.ErrorIs(t, s.DeclinePendingResource(), session.ErrNoConfirmationAsked)
	})
}

func TestLaneSession_Payment(t *testing.T) {
	t.Run("payment intent attaches exactly once", func(t *testing.T) {
		s := newOpenSession(t)

		require.NoError(t, s.AttachPaymentIntent(uuid.New()))
		err := s.AttachPaymentIntent(uuid.New())
		assert.ErrorIs(t, err, session.ErrIntentAlreadyCreated)
	})

	t.Run("mark paid advances to signature when unsigned", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, false))

		require.NoError(t, s.MarkPaid())

		assert.Equal(t, session.PaymentPaid, s.PaymentStatus())
		assert.Equal(t, session.StatusAwaitingSignature, s.Status())
	})

	t.Run("mark paid advances to assignment when already signed", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, false))
		require.NoError(t, s.Sign())

		require.NoError(t, s.MarkPaid())

		assert.Equal(t, session.StatusAwaitingAssignment, s.Status())
	})

	t.Run("mark paid clears a prior failure reason", func(t *testing.T) {
		s := newOpenSession(t)
		s.RecordPaymentFailure("card declined")
		require.NotNil(t, s.PaymentFailureReason())

		require.NoError(t, s.MarkPaid())
		assert.Nil(t, s.PaymentFailureReason())
	})

	t.Run("failure keeps payment due", func(t *testing.T) {
		s := newOpenSession(t)
		s.RecordPaymentFailure("card declined")

		assert.Equal(t, session.PaymentDue, s.PaymentStatus())
		assert.Equal(t, "card declined", *s.PaymentFailureReason())

		s.DismissPaymentFailure()
		assert.Nil(t, s.PaymentFailureReason())
		assert.Equal(t, session.PaymentDue, s.PaymentStatus())
	})
}

func TestLaneSession_Sign(t *testing.T) {
	t.Run("signing after payment advances to assignment", func(t *testing.T) {
		s := newOpenSession(t)
		_, err := s.Propose(session.RentalStandard, session.ActorCustomer, false)
		require.NoError(t, err)
		require.NoError(t, s.Confirm(session.ActorCustomer, false))
		require.NoError(t, s.MarkPaid())

		require.NoError(t, s.Sign())
		assert.Equal(t, session.StatusAwaitingAssignment, s.Status())
	})

	t.Run("signing a closed session fails", func(t *testing.T) {
		s := newOpenSession(t)
		s.Cancel()

		assert.ErrorIs(t, s.Sign(), session.ErrSessionClosed)
	})
}

func TestLaneSession_Touch(t *testing.T) {
	s := newOpenSession(t)
	v := s.Version()
	next := s.UpdatedAt().Add(time.Second)

	s.Touch(next)

	assert.Equal(t, v+1, s.Version())
	assert.Equal(t, next, s.UpdatedAt())
}
