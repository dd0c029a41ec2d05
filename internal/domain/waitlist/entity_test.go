//go:build unit

package waitlist_test

import (
	"testing"
	"time"

	"clubops/internal/domain/session"
	"clubops/internal/domain/waitlist"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newActiveEntry(t *testing.T) *waitlist.Entry {
	t.Helper()
	return waitlist.NewEntry(uuid.New(), "Grace Hopper", session.RentalDeluxe, session.RentalStandard, time.Now())
}

func TestEntry_Offer(t *testing.T) {
	t.Run("active entry takes an offer", func(t *testing.T) {
		e := newActiveEntry(t)
		roomID := uuid.New()
		now := time.Now()

		require.NoError(t, e.Offer(roomID, now))

		assert.Equal(t, waitlist.StatusOffered, e.Status)
		require.NotNil(t, e.OfferedRoomID)
		assert.Equal(t, roomID, *e.OfferedRoomID)
		require.NotNil(t, e.OfferedAt)
		assert.Equal(t, now, *e.OfferedAt)
	})

	t.Run("second offer on an offered entry fails", func(t *testing.T) {
		e := newActiveEntry(t)
		require.NoError(t, e.Offer(uuid.New(), time.Now()))

		assert.ErrorIs(t, e.Offer(uuid.New(), time.Now()), waitlist.ErrNotActive)
	})

	t.Run("cancelled entry cannot be offered", func(t *testing.T) {
		e := newActiveEntry(t)
		require.NoError(t, e.Cancel())

		assert.ErrorIs(t, e.Offer(uuid.New(), time.Now()), waitlist.ErrNotActive)
	})
}

func TestEntry_Complete(t *testing.T) {
	t.Run("offered entry completes", func(t *testing.T) {
		e := newActiveEntry(t)
		require.NoError(t, e.Offer(uuid.New(), time.Now()))

		require.NoError(t, e.Complete())
		assert.Equal(t, waitlist.StatusCompleted, e.Status)
	})

	t.Run("active entry cannot complete", func(t *testing.T) {
		e := newActiveEntry(t)

		assert.ErrorIs(t, e.Complete(), waitlist.ErrNotOffered)
	})
}

func TestEntry_CancelOffer(t *testing.T) {
	t.Run("keeps the place in line and frees the room", func(t *testing.T) {
		e := newActiveEntry(t)
		roomID := uuid.New()
		require.NoError(t, e.Offer(roomID, time.Now()))

		released, err := e.CancelOffer()
		require.NoError(t, err)

		assert.Equal(t, roomID, released)
		assert.Equal(t, waitlist.StatusActive, e.Status)
		assert.Nil(t, e.OfferedRoomID)
		assert.Nil(t, e.OfferedAt)
	})

	t.Run("without an offer fails", func(t *testing.T) {
		e := newActiveEntry(t)

		_, err := e.CancelOffer()
		assert.ErrorIs(t, err, waitlist.ErrNotOffered)
	})
}

func TestEntry_Cancel(t *testing.T) {
	t.Run("terminal states reject cancellation", func(t *testing.T) {
		e := newActiveEntry(t)
		require.NoError(t, e.Offer(uuid.New(), time.Now()))
		require.NoError(t, e.Complete())

		assert.ErrorIs(t, e.Cancel(), waitlist.ErrTerminal)
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		e := newActiveEntry(t)
		require.NoError(t, e.Cancel())

		assert.ErrorIs(t, e.Cancel(), waitlist.ErrTerminal)
	})
}
