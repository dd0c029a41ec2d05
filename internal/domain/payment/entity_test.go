//go:build unit

package payment_test

import (
	"testing"
	"time"

	"clubops/internal/domain/payment"
	"clubops/internal/domain/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDueIntent(t *testing.T) *payment.Intent {
	t.Helper()
	sessionID := uuid.New()
	intent, err := payment.NewIntent(payment.KindSession, &sessionID, nil, payment.Quote{TotalCents: 3200}, time.Now())
	require.NoError(t, err)
	return intent
}

func TestIntent_NewIntent(t *testing.T) {
	t.Run("starts due", func(t *testing.T) {
		intent := newDueIntent(t)

		assert.Equal(t, payment.StatusDue, intent.Status)
		assert.Nil(t, intent.FailureReason)
	})

	t.Run("negative quote is rejected", func(t *testing.T) {
		_, err := payment.NewIntent(payment.KindSession, nil, nil, payment.Quote{TotalCents: -1}, time.Now())
		assert.ErrorIs(t, err, payment.ErrNegativeAmount)
	})

	t.Run("zero-total quote is allowed", func(t *testing.T) {
		intent, err := payment.NewIntent(payment.KindUpgrade, nil, nil, payment.Quote{}, time.Now())
		require.NoError(t, err)
		assert.Equal(t, int32(0), intent.Quote.TotalCents)
	})
}

func TestIntent_MarkPaid(t *testing.T) {
	t.Run("due intent becomes paid", func(t *testing.T) {
		intent := newDueIntent(t)

		require.NoError(t, intent.MarkPaid(time.Now()))
		assert.Equal(t, payment.StatusPaid, intent.Status)
	})

	t.Run("paying twice fails", func(t *testing.T) {
		intent := newDueIntent(t)
		require.NoError(t, intent.MarkPaid(time.Now()))

		assert.ErrorIs(t, intent.MarkPaid(time.Now()), payment.ErrAlreadyPaid)
	})

	t.Run("paying clears a prior failure", func(t *testing.T) {
		intent := newDueIntent(t)
		require.NoError(t, intent.Decline("card declined", time.Now()))

		require.NoError(t, intent.MarkPaid(time.Now()))
		assert.Nil(t, intent.FailureReason)
	})
}

func TestIntent_Decline(t *testing.T) {
	t.Run("keeps the intent due", func(t *testing.T) {
		intent := newDueIntent(t)

		require.NoError(t, intent.Decline("insufficient funds", time.Now()))

		assert.Equal(t, payment.StatusDue, intent.Status)
		require.NotNil(t, intent.FailureReason)
		assert.Equal(t, "insufficient funds", *intent.FailureReason)
	})

	t.Run("requires a reason", func(t *testing.T) {
		intent := newDueIntent(t)
		assert.ErrorIs(t, intent.Decline("", time.Now()), payment.ErrEmptyDecline)
	})

	t.Run("paid intent cannot be declined", func(t *testing.T) {
		intent := newDueIntent(t)
		require.NoError(t, intent.MarkPaid(time.Now()))

		assert.ErrorIs(t, intent.Decline("too late", time.Now()), payment.ErrAlreadyPaid)
	})

	t.Run("dismiss clears only the reason", func(t *testing.T) {
		intent := newDueIntent(t)
		require.NoError(t, intent.Decline("card declined", time.Now()))

		intent.DismissFailure(time.Now())

		assert.Nil(t, intent.FailureReason)
		assert.Equal(t, payment.StatusDue, intent.Status)
	})
}

func TestDefaultPricer(t *testing.T) {
	pricer := payment.NewDefaultPricer()

	t.Run("session quote without membership", func(t *testing.T) {
		q := pricer.QuoteSession(session.RentalStandard, session.MembershipNone)

		assert.Equal(t, int32(3200), q.TotalCents)
		require.Len(t, q.LineItems, 1)
		assert.Equal(t, "STANDARD rental", q.LineItems[0].Label)
	})

	t.Run("membership purchase adds a line item", func(t *testing.T) {
		q := pricer.QuoteSession(session.RentalDeluxe, session.MembershipPurchase)

		assert.Equal(t, int32(8500), q.TotalCents)
		require.Len(t, q.LineItems, 2)
		assert.Equal(t, "Membership purchase", q.LineItems[1].Label)
	})

	t.Run("membership renewal adds a line item", func(t *testing.T) {
		q := pricer.QuoteSession(session.RentalLocker, session.MembershipRenew)

		assert.Equal(t, int32(3300), q.TotalCents)
		require.Len(t, q.LineItems, 2)
	})

	t.Run("upgrade charges the tier difference", func(t *testing.T) {
		q := pricer.QuoteUpgrade(session.RentalStandard, session.RentalDeluxe)

		assert.Equal(t, int32(2800), q.TotalCents)
		require.Len(t, q.LineItems, 1)
		assert.Empty(t, q.Messages)
	})

	t.Run("downgrade is waived", func(t *testing.T) {
		q := pricer.QuoteUpgrade(session.RentalDeluxe, session.RentalStandard)

		assert.Equal(t, int32(0), q.TotalCents)
		assert.Empty(t, q.LineItems)
		assert.Contains(t, q.Messages, "Upgrade fee waived")
	})

	t.Run("past-due quote mirrors the balance", func(t *testing.T) {
		q := pricer.QuotePastDue(4200)

		assert.Equal(t, int32(4200), q.TotalCents)
		require.Len(t, q.LineItems, 1)
		assert.Equal(t, "Past-due balance", q.LineItems[0].Label)
	})
}
