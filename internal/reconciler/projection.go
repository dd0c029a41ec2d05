// Package reconciler keeps a client-side projection of one lane in sync with
// the push channel, backstopped by polling. Terminals and kiosks embed it so
// the UI never reads anything but the projection.
package reconciler

import (
	"encoding/json"
	"sync"

	"clubops/internal/events"

	"github.com/google/uuid"
)

// LaneProjection is the client's view of its lane. Events for other sessions
// are discarded; venue broadcasts always apply. All methods are safe for
// concurrent use.
type LaneProjection struct {
	mu sync.RWMutex

	laneID    string
	session   *events.SessionPayload
	inventory json.RawMessage
	waitlist  json.RawMessage
	rooms     map[uuid.UUID]events.RoomStatusPayload
	checkouts map[uuid.UUID]events.CheckoutPayload

	raceLostResource *events.AssignmentPayload
	confirmationAsk  *events.AssignmentPayload
}

func NewLaneProjection(laneID string) *LaneProjection {
	return &LaneProjection{
		laneID:    laneID,
		rooms:     make(map[uuid.UUID]events.RoomStatusPayload),
		checkouts: make(map[uuid.UUID]events.CheckoutPayload),
	}
}

// Apply folds one envelope into the projection. Unknown or unparseable
// events are dropped; at-least-once delivery means duplicates must be
// harmless, which holds because every application is a full overwrite.
func (p *LaneProjection) Apply(env events.Envelope) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Venue broadcasts apply regardless of which session, if any, is
	// tracked on this lane.
	if events.IsBroadcast(env.Type) {
		return p.applyBroadcast(env)
	}

	switch env.Type {
	case events.SessionUpdated:
		var payload events.SessionPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		return p.applySession(payload)

	case events.SelectionProposed, events.SelectionLocked, events.SelectionForced, events.SelectionAck:
		// Selection events only gate UI affordances; the authoritative
		// state always arrives in the SESSION_UPDATED that follows.
		var payload events.SelectionPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		return p.tracks(payload.SessionID)

	case events.AssignmentFailed:
		var payload events.AssignmentPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		if !p.tracks(payload.SessionID) {
			return false
		}
		if payload.RaceLost {
			ask := payload
			p.raceLostResource = &ask
		}
		return true

	case events.AssignmentCreated:
		var payload events.AssignmentPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		if !p.tracks(payload.SessionID) {
			return false
		}
		p.raceLostResource = nil
		p.confirmationAsk = nil
		return true

	case events.CustomerConfirmation:
		var payload events.AssignmentPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		if !p.tracks(payload.SessionID) {
			return false
		}
		ask := payload
		p.confirmationAsk = &ask
		return true

	case events.CustomerConfirmed, events.CustomerDeclined:
		var payload events.AssignmentPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		if !p.tracks(payload.SessionID) {
			return false
		}
		p.confirmationAsk = nil
		return true

	default:
		return false
	}
}

func (p *LaneProjection) applyBroadcast(env events.Envelope) bool {
	switch env.Type {
	case events.InventoryUpdated:
		p.inventory = append(json.RawMessage(nil), env.Payload...)
		return true

	case events.WaitlistUpdated:
		p.waitlist = append(json.RawMessage(nil), env.Payload...)
		return true

	case events.RoomStatusChanged:
		var payload events.RoomStatusPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		p.rooms[payload.RoomID] = payload
		return true

	case events.CheckoutRequested, events.CheckoutClaimed, events.CheckoutUpdated:
		var payload events.CheckoutPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		p.checkouts[payload.RequestID] = payload
		return true

	case events.CheckoutCompleted:
		var payload events.CheckoutPayload
		if json.Unmarshal(env.Payload, &payload) != nil {
			return false
		}
		delete(p.checkouts, payload.RequestID)
		return true

	default:
		return false
	}
}

// applySession handles the canonical cleared signal: a COMPLETED status with
// an empty customer name wipes every piece of session-scoped state.
func (p *LaneProjection) applySession(payload events.SessionPayload) bool {
	if payload.LaneID != p.laneID {
		return false
	}
	if p.session != nil && payload.SessionID != p.session.SessionID && !isCleared(payload) {
		// A different session's update while we still track ours is stale
		// cross-talk, not a handover.
		return false
	}

	if isCleared(payload) {
		p.session = nil
		p.raceLostResource = nil
		p.confirmationAsk = nil
		return true
	}

	s := payload
	p.session = &s
	return true
}

func isCleared(payload events.SessionPayload) bool {
	return payload.Status == "COMPLETED" && payload.CustomerName == ""
}

func (p *LaneProjection) tracks(sessionID uuid.UUID) bool {
	return p.session != nil && p.session.SessionID == sessionID
}

func (p *LaneProjection) Session() *events.SessionPayload {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.session == nil {
		return nil
	}
	s := *p.session
	return &s
}

// SetSession seeds or replaces the projection from an authoritative read,
// typically the poll backstop.
func (p *LaneProjection) SetSession(payload *events.SessionPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if payload == nil {
		p.session = nil
		p.raceLostResource = nil
		p.confirmationAsk = nil
		return
	}
	s := *payload
	p.session = &s
}

func (p *LaneProjection) PendingConfirmation() *events.AssignmentPayload {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.confirmationAsk == nil {
		return nil
	}
	ask := *p.confirmationAsk
	return &ask
}

func (p *LaneProjection) RaceLost() *events.AssignmentPayload {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.raceLostResource == nil {
		return nil
	}
	r := *p.raceLostResource
	return &r
}

// ClearRaceLost acknowledges the race-lost banner; the staff member picks a
// different resource explicitly, nothing retries on its own.
func (p *LaneProjection) ClearRaceLost() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.raceLostResource = nil
}

// Inventory returns the last pushed availability snapshot, nil before the
// first INVENTORY_UPDATED arrives.
func (p *LaneProjection) Inventory() json.RawMessage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.inventory == nil {
		return nil
	}
	return append(json.RawMessage(nil), p.inventory...)
}

// Waitlist returns the last pushed waitlist change, nil before the first
// WAITLIST_UPDATED arrives.
func (p *LaneProjection) Waitlist() json.RawMessage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.waitlist == nil {
		return nil
	}
	return append(json.RawMessage(nil), p.waitlist...)
}

// RoomStatus returns the latest pushed status for one room, false when no
// change for it has been seen yet.
func (p *LaneProjection) RoomStatus(roomID uuid.UUID) (events.RoomStatusPayload, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	payload, ok := p.rooms[roomID]
	return payload, ok
}

func (p *LaneProjection) OpenCheckouts() []events.CheckoutPayload {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]events.CheckoutPayload, 0, len(p.checkouts))
	for _, payload := range p.checkouts {
		out = append(out, payload)
	}
	return out
}
