package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"clubops/internal/events"
	"clubops/internal/usecase/queries"
)

// SessionFetcher is the authoritative read the poll backstop uses.
type SessionFetcher interface {
	GetActiveByLane(ctx context.Context, laneID string) (*queries.SessionView, error)
}

// Reconciler subscribes a lane projection to the push channel and reconciles
// it against the authoritative store on an interval. Push keeps the
// projection fresh; the poll catches whatever the channel lost.
type Reconciler struct {
	laneID     string
	projection *LaneProjection
	sub        events.Subscriber
	fetcher    SessionFetcher
	interval   time.Duration
	logger     *slog.Logger

	mu           sync.Mutex
	cancelLookup context.CancelFunc
}

func New(
	laneID string,
	projection *LaneProjection,
	sub events.Subscriber,
	fetcher SessionFetcher,
	interval time.Duration,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		laneID:     laneID,
		projection: projection,
		sub:        sub,
		fetcher:    fetcher,
		interval:   interval,
		logger:     logger,
	}
}

// Run blocks until ctx is done. A lost subscription is re-established from
// scratch; there is no replay, the next poll closes the gap.
func (r *Reconciler) Run(ctx context.Context) error {
	laneSub, err := r.sub.Subscribe(events.LaneSubject(r.laneID), r.apply)
	if err != nil {
		return err
	}
	defer func() { _ = laneSub.Unsubscribe() }()

	broadcastSub, err := r.sub.Subscribe(events.BroadcastSubject, r.apply)
	if err != nil {
		return err
	}
	defer func() { _ = broadcastSub.Unsubscribe() }()

	r.poll(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.poll(ctx)
		}
	}
}

func (r *Reconciler) apply(env events.Envelope) {
	if !r.projection.Apply(env) {
		r.logger.Debug("dropped event", "lane_id", r.laneID, "type", env.Type)
	}
}

// poll supersedes any in-flight lookup: only the newest answer may touch the
// projection.
func (r *Reconciler) poll(ctx context.Context) {
	r.mu.Lock()
	if r.cancelLookup != nil {
		r.cancelLookup()
	}
	lookupCtx, cancel := context.WithCancel(ctx)
	r.cancelLookup = cancel
	r.mu.Unlock()

	view, err := r.fetcher.GetActiveByLane(lookupCtx, r.laneID)
	if lookupCtx.Err() != nil {
		return
	}
	if err != nil {
		// Not-found means the lane is idle; anything else leaves the
		// projection as the channel last left it.
		if errors.Is(err, queries.ErrSessionNotFound) {
			r.projection.SetSession(nil)
			return
		}
		r.logger.Warn("poll backstop failed", "lane_id", r.laneID, "error", err)
		return
	}

	r.projection.SetSession(sessionPayloadFromView(view))
}

func sessionPayloadFromView(v *queries.SessionView) *events.SessionPayload {
	if v == nil {
		return nil
	}
	return &events.SessionPayload{
		SessionID:            v.SessionID,
		LaneID:               v.LaneID,
		CustomerName:         v.CustomerName,
		Status:               v.Status,
		ProposedRentalType:   v.ProposedRentalType,
		ProposedBy:           v.ProposedBy,
		SelectionConfirmed:   v.SelectionConfirmed,
		SelectionConfirmedBy: v.SelectionConfirmedBy,
		CustomerSelectedType: v.CustomerSelectedType,
		LockAcknowledged:     v.LockAcknowledged,
		PendingConfirmation:  v.PendingConfirmation,
		AssignedResourceType: v.AssignedResourceType,
		AssignedResourceNum:  v.AssignedResourceNum,
		AgreementSigned:      v.AgreementSigned,
		PaymentIntentID:      v.PaymentIntentID,
		PaymentStatus:        v.PaymentStatus,
		PaymentFailureReason: v.PaymentFailureReason,
		PastDueBlocked:       v.PastDueBlocked,
	}
}
