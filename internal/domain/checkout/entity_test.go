//go:build unit

package checkout_test

import (
	"testing"
	"time"

	"clubops/internal/domain/checkout"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPolicy = checkout.FeePolicy{
	Grace:    15 * time.Minute,
	FeeCents: 1500,
	Interval: time.Hour,
}

func TestComputeLateFee(t *testing.T) {
	scheduled := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		requestedAt time.Time
		wantMinutes int32
		wantFee     int32
	}{
		{
			name:        "early checkout",
			requestedAt: scheduled.Add(-10 * time.Minute),
			wantMinutes: 0,
			wantFee:     0,
		},
		{
			name:        "exactly on time",
			requestedAt: scheduled,
			wantMinutes: 0,
			wantFee:     0,
		},
		{
			name:        "inside grace window",
			requestedAt: scheduled.Add(10 * time.Minute),
			wantMinutes: 10,
			wantFee:     0,
		},
		{
			name:        "at grace boundary",
			requestedAt: scheduled.Add(15 * time.Minute),
			wantMinutes: 15,
			wantFee:     0,
		},
		{
			name:        "one minute past grace starts the first block",
			requestedAt: scheduled.Add(16 * time.Minute),
			wantMinutes: 16,
			wantFee:     1500,
		},
		{
			name:        "just inside the first block",
			requestedAt: scheduled.Add(75 * time.Minute),
			wantMinutes: 75,
			wantFee:     1500,
		},
		{
			name:        "second block started",
			requestedAt: scheduled.Add(76 * time.Minute),
			wantMinutes: 76,
			wantFee:     3000,
		},
		{
			name:        "three full blocks",
			requestedAt: scheduled.Add(15*time.Minute + 3*time.Hour),
			wantMinutes: 195,
			wantFee:     4500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			minutes, fee := checkout.ComputeLateFee(scheduled, tt.requestedAt, testPolicy)
			assert.Equal(t, tt.wantMinutes, minutes)
			assert.Equal(t, tt.wantFee, fee)
		})
	}

	t.Run("zero interval charges a single flat fee", func(t *testing.T) {
		flat := checkout.FeePolicy{Grace: 15 * time.Minute, FeeCents: 1500}
		_, fee := checkout.ComputeLateFee(scheduled, scheduled.Add(5*time.Hour), flat)
		assert.Equal(t, int32(1500), fee)
	})
}

func TestRequest_NewRequest(t *testing.T) {
	scheduled := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("on-time request owes nothing", func(t *testing.T) {
		req := checkout.NewRequest(uuid.New(), 204, scheduled, scheduled.Add(5*time.Minute), testPolicy)

		assert.Equal(t, checkout.StatusPending, req.Status)
		assert.Equal(t, int32(0), req.FeeCents)
		assert.True(t, req.FeePaid)
		assert.Nil(t, req.ClaimedBy)
	})

	t.Run("late request starts with an unpaid fee", func(t *testing.T) {
		req := checkout.NewRequest(uuid.New(), 204, scheduled, scheduled.Add(time.Hour), testPolicy)

		assert.Equal(t, int32(1500), req.FeeCents)
		assert.False(t, req.FeePaid)
	})
}

func TestRequest_ClaimLifecycle(t *testing.T) {
	scheduled := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	staffA := uuid.New()
	staffB := uuid.New()

	newPending := func() *checkout.Request {
		return checkout.NewRequest(uuid.New(), 204, scheduled, scheduled.Add(time.Hour), testPolicy)
	}

	t.Run("claim and complete", func(t *testing.T) {
		req := newPending()

		require.NoError(t, req.Claim(staffA))
		assert.Equal(t, checkout.StatusClaimed, req.Status)
		require.NoError(t, req.ConfirmItems(staffA))
		assert.Equal(t, checkout.StatusItemsConfirmed, req.Status)
		require.NoError(t, req.MarkFeePaid(staffA))
		require.NoError(t, req.Complete(staffA))
		assert.Equal(t, checkout.StatusCompleted, req.Status)
	})

	t.Run("claim is idempotent for the same staff member", func(t *testing.T) {
		req := newPending()
		require.NoError(t, req.Claim(staffA))

		assert.NoError(t, req.Claim(staffA))
	})

	t.Run("second claimer is rejected", func(t *testing.T) {
		req := newPending()
		require.NoError(t, req.Claim(staffA))

		assert.ErrorIs(t, req.Claim(staffB), checkout.ErrAlreadyClaimed)
	})

	t.Run("only the claimer may advance the request", func(t *testing.T) {
		req := newPending()
		require.NoError(t, req.Claim(staffA))

		assert.ErrorIs(t, req.ConfirmItems(staffB), checkout.ErrWrongClaimer)
		assert.ErrorIs(t, req.MarkFeePaid(staffB), checkout.ErrWrongClaimer)
	})

	t.Run("advancing an unclaimed request fails", func(t *testing.T) {
		req := newPending()

		assert.ErrorIs(t, req.ConfirmItems(staffA), checkout.ErrNotClaimed)
	})

	t.Run("complete with an outstanding fee fails", func(t *testing.T) {
		req := newPending()
		require.NoError(t, req.Claim(staffA))
		require.NoError(t, req.ConfirmItems(staffA))

		assert.ErrorIs(t, req.Complete(staffA), checkout.ErrFeeOutstanding)
	})

	t.Run("completed request is terminal", func(t *testing.T) {
		req := newPending()
		require.NoError(t, req.Claim(staffA))
		require.NoError(t, req.MarkFeePaid(staffA))
		require.NoError(t, req.Complete(staffA))

		assert.ErrorIs(t, req.Claim(staffB), checkout.ErrTerminal)
		assert.ErrorIs(t, req.ConfirmItems(staffA), checkout.ErrTerminal)
	})
}
