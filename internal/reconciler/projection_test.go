//go:build unit

package reconciler_test

import (
	"encoding/json"
	"testing"
	"time"

	"clubops/internal/events"
	"clubops/internal/reconciler"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, eventType string, payload any) events.Envelope {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return events.Envelope{Type: eventType, Payload: data, Timestamp: time.Now()}
}

func sessionPayload(laneID string, sessionID uuid.UUID) events.SessionPayload {
	return events.SessionPayload{
		SessionID:     sessionID,
		LaneID:        laneID,
		CustomerName:  "Ada Lovelace",
		Status:        "ACTIVE",
		PaymentStatus: "DUE",
	}
}

func TestLaneProjection_SessionUpdates(t *testing.T) {
	t.Run("session update seeds the projection", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		sessionID := uuid.New()

		applied := p.Apply(envelope(t, events.SessionUpdated, sessionPayload("lane-1", sessionID)))
		require.True(t, applied)

		s := p.Session()
		require.NotNil(t, s)
		want := sessionPayload("lane-1", sessionID)
		assert.Empty(t, cmp.Diff(want, *s))
	})

	t.Run("update for another lane is dropped", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")

		applied := p.Apply(envelope(t, events.SessionUpdated, sessionPayload("lane-2", uuid.New())))

		assert.False(t, applied)
		assert.Nil(t, p.Session())
	})

	t.Run("update for a different session while tracking is stale", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		tracked := uuid.New()
		require.True(t, p.Apply(envelope(t, events.SessionUpdated, sessionPayload("lane-1", tracked))))

		applied := p.Apply(envelope(t, events.SessionUpdated, sessionPayload("lane-1", uuid.New())))

		assert.False(t, applied)
		assert.Equal(t, tracked, p.Session().SessionID)
	})

	t.Run("cleared signal wipes session state even for a new session id", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		tracked := uuid.New()
		require.True(t, p.Apply(envelope(t, events.SessionUpdated, sessionPayload("lane-1", tracked))))
		require.True(t, p.Apply(envelope(t, events.CustomerConfirmation, events.AssignmentPayload{
			SessionID: tracked, LaneID: "lane-1", ResourceType: "DELUXE", ResourceNumber: 30,
		})))
		require.NotNil(t, p.PendingConfirmation())

		cleared := events.ClearedSessionPayload(uuid.New(), "lane-1")
		require.True(t, p.Apply(envelope(t, events.SessionUpdated, cleared)))

		assert.Nil(t, p.Session())
		assert.Nil(t, p.PendingConfirmation())
		assert.Nil(t, p.RaceLost())
	})

	t.Run("a completed session with a name is not a cleared signal", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		sessionID := uuid.New()
		payload := sessionPayload("lane-1", sessionID)
		payload.Status = "COMPLETED"

		require.True(t, p.Apply(envelope(t, events.SessionUpdated, payload)))
		require.NotNil(t, p.Session())
		assert.Equal(t, "COMPLETED", p.Session().Status)
	})
}

func TestLaneProjection_Assignment(t *testing.T) {
	newTracking := func(t *testing.T) (*reconciler.LaneProjection, uuid.UUID) {
		t.Helper()
		p := reconciler.NewLaneProjection("lane-1")
		sessionID := uuid.New()
		require.True(t, p.Apply(envelope(t, events.SessionUpdated, sessionPayload("lane-1", sessionID))))
		return p, sessionID
	}

	t.Run("race-lost failure is retained until cleared", func(t *testing.T) {
		p, sessionID := newTracking(t)

		require.True(t, p.Apply(envelope(t, events.AssignmentFailed, events.AssignmentPayload{
			SessionID: sessionID, LaneID: "lane-1", ResourceType: "STANDARD", ResourceNumber: 12, RaceLost: true,
		})))

		lost := p.RaceLost()
		require.NotNil(t, lost)
		assert.Equal(t, int32(12), lost.ResourceNumber)

		p.ClearRaceLost()
		assert.Nil(t, p.RaceLost())
	})

	t.Run("non-race failure does not raise the race banner", func(t *testing.T) {
		p, sessionID := newTracking(t)

		require.True(t, p.Apply(envelope(t, events.AssignmentFailed, events.AssignmentPayload{
			SessionID: sessionID, LaneID: "lane-1", ResourceType: "STANDARD", ResourceNumber: 12, Reason: "room offline",
		})))

		assert.Nil(t, p.RaceLost())
	})

	t.Run("assignment events for another session are dropped", func(t *testing.T) {
		p, _ := newTracking(t)

		applied := p.Apply(envelope(t, events.AssignmentFailed, events.AssignmentPayload{
			SessionID: uuid.New(), LaneID: "lane-1", RaceLost: true,
		}))

		assert.False(t, applied)
		assert.Nil(t, p.RaceLost())
	})

	t.Run("confirmation ask is cleared by the customer response", func(t *testing.T) {
		p, sessionID := newTracking(t)
		ask := events.AssignmentPayload{SessionID: sessionID, LaneID: "lane-1", ResourceType: "DELUXE", ResourceNumber: 30}

		require.True(t, p.Apply(envelope(t, events.CustomerConfirmation, ask)))
		require.NotNil(t, p.PendingConfirmation())

		require.True(t, p.Apply(envelope(t, events.CustomerDeclined, ask)))
		assert.Nil(t, p.PendingConfirmation())
	})

	t.Run("successful assignment clears race and confirmation state", func(t *testing.T) {
		p, sessionID := newTracking(t)
		require.True(t, p.Apply(envelope(t, events.AssignmentFailed, events.AssignmentPayload{
			SessionID: sessionID, LaneID: "lane-1", RaceLost: true,
		})))

		require.True(t, p.Apply(envelope(t, events.AssignmentCreated, events.AssignmentPayload{
			SessionID: sessionID, LaneID: "lane-1", ResourceType: "STANDARD", ResourceNumber: 14,
		})))

		assert.Nil(t, p.RaceLost())
		assert.Nil(t, p.PendingConfirmation())
	})
}

func TestLaneProjection_Broadcasts(t *testing.T) {
	t.Run("checkout lifecycle maintains the open set", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		requestID := uuid.New()

		require.True(t, p.Apply(envelope(t, events.CheckoutRequested, events.CheckoutPayload{
			RequestID: requestID, RoomNumber: 204, Status: "PENDING",
		})))
		require.Len(t, p.OpenCheckouts(), 1)

		require.True(t, p.Apply(envelope(t, events.CheckoutClaimed, events.CheckoutPayload{
			RequestID: requestID, RoomNumber: 204, Status: "CLAIMED",
		})))
		require.Len(t, p.OpenCheckouts(), 1)
		assert.Equal(t, "CLAIMED", p.OpenCheckouts()[0].Status)

		require.True(t, p.Apply(envelope(t, events.CheckoutCompleted, events.CheckoutPayload{
			RequestID: requestID, RoomNumber: 204, Status: "COMPLETED",
		})))
		assert.Empty(t, p.OpenCheckouts())
	})

	t.Run("broadcasts apply without a tracked session", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")

		assert.True(t, p.Apply(envelope(t, events.InventoryUpdated, map[string]any{"version": 1})))
		assert.True(t, p.Apply(envelope(t, events.CheckoutRequested, events.CheckoutPayload{RequestID: uuid.New()})))
	})

	t.Run("inventory and waitlist views hold the latest push", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		require.Nil(t, p.Inventory())
		require.Nil(t, p.Waitlist())

		require.True(t, p.Apply(envelope(t, events.InventoryUpdated, map[string]any{"version": 7})))
		require.True(t, p.Apply(envelope(t, events.WaitlistUpdated, events.WaitlistPayload{
			WaitlistID: uuid.New(), Status: "OFFERED",
		})))

		assert.JSONEq(t, `{"version":7}`, string(p.Inventory()))

		var wl events.WaitlistPayload
		require.NoError(t, json.Unmarshal(p.Waitlist(), &wl))
		assert.Equal(t, "OFFERED", wl.Status)
	})

	t.Run("room status changes land on the room, not the waitlist view", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		roomID := uuid.New()

		require.True(t, p.Apply(envelope(t, events.RoomStatusChanged, events.RoomStatusPayload{
			RoomID: roomID, Number: 30, Tier: "DELUXE", Status: "HELD",
		})))

		status, ok := p.RoomStatus(roomID)
		require.True(t, ok)
		assert.Equal(t, "HELD", status.Status)
		assert.Nil(t, p.Waitlist())

		require.True(t, p.Apply(envelope(t, events.RoomStatusChanged, events.RoomStatusPayload{
			RoomID: roomID, Number: 30, Tier: "DELUXE", Status: "OCCUPIED",
		})))
		status, _ = p.RoomStatus(roomID)
		assert.Equal(t, "OCCUPIED", status.Status)
	})

	t.Run("unknown event types are dropped", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")

		assert.False(t, p.Apply(events.Envelope{Type: "SOMETHING_ELSE", Payload: []byte(`{}`)}))
	})
}

func TestLaneProjection_CheckAssignment(t *testing.T) {
	ready := func() *events.SessionPayload {
		selected := "STANDARD"
		return &events.SessionPayload{
			SessionID:            uuid.New(),
			LaneID:               "lane-1",
			CustomerName:         "Ada Lovelace",
			Status:               "AWAITING_ASSIGNMENT",
			SelectionConfirmed:   true,
			CustomerSelectedType: &selected,
			LockAcknowledged:     true,
			AgreementSigned:      true,
			PaymentStatus:        "PAID",
		}
	}

	tests := []struct {
		name   string
		mutate func(*events.SessionPayload)
		want   error
	}{
		{
			name:   "ready session passes",
			mutate: func(*events.SessionPayload) {},
			want:   nil,
		},
		{
			name:   "past-due block",
			mutate: func(s *events.SessionPayload) { s.PastDueBlocked = true },
			want:   reconciler.ErrBlockedPastDue,
		},
		{
			name:   "selection not confirmed",
			mutate: func(s *events.SessionPayload) { s.SelectionConfirmed = false },
			want:   reconciler.ErrSelectionUnlocked,
		},
		{
			name:   "lock not acknowledged",
			mutate: func(s *events.SessionPayload) { s.LockAcknowledged = false },
			want:   reconciler.ErrAwaitingAck,
		},
		{
			name:   "payment outstanding",
			mutate: func(s *events.SessionPayload) { s.PaymentStatus = "DUE" },
			want:   reconciler.ErrPaymentOutstanding,
		},
		{
			name:   "signature missing",
			mutate: func(s *events.SessionPayload) { s.AgreementSigned = false },
			want:   reconciler.ErrSignatureMissing,
		},
		{
			name:   "awaiting customer response",
			mutate: func(s *events.SessionPayload) { s.PendingConfirmation = true },
			want:   reconciler.ErrAwaitingCustomer,
		},
		{
			name: "already assigned",
			mutate: func(s *events.SessionPayload) {
				rt := "STANDARD"
				n := int32(7)
				s.AssignedResourceType = &rt
				s.AssignedResourceNum = &n
			},
			want: reconciler.ErrAlreadyHasResource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := reconciler.NewLaneProjection("lane-1")
			payload := ready()
			tt.mutate(payload)
			p.SetSession(payload)

			err := p.CheckAssignment()
			if tt.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}

	t.Run("no session", func(t *testing.T) {
		p := reconciler.NewLaneProjection("lane-1")
		assert.ErrorIs(t, p.CheckAssignment(), reconciler.ErrNoSession)
	})

	t.Run("payment message matches the server wording", func(t *testing.T) {
		assert.Equal(t, "Payment must be marked as paid before assignment.", reconciler.ErrPaymentOutstanding.Error())
	})
}
