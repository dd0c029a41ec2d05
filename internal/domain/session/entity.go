package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSelectionLocked      = errors.New("selection already locked")
	ErrNoProposal           = errors.New("no rental type proposed")
	ErrSessionClosed        = errors.New("session is not open")
	ErrPastDueBlocked       = errors.New("past-due balance blocks this action")
	ErrSelectionNotLocked   = errors.New("selection not locked")
	ErrNotAcknowledged      = errors.New("selection lock not acknowledged")
	ErrAgreementNotSigned   = errors.New("agreement not signed")
	ErrPaymentDue           = errors.New("payment not marked as paid")
	ErrConfirmationPending  = errors.New("customer confirmation pending")
	ErrNoConfirmationAsked  = errors.New("no customer confirmation pending")
	ErrAlreadyAssigned      = errors.New("resource already assigned")
	ErrIntentAlreadyCreated = errors.New("payment intent already created")
)

// AssignedResource is a concrete room or locker bound to a session.
type AssignedResource struct {
	Type   RentalType
	Number int32
}

// LaneSession is the authoritative record of one customer transaction on a
// physical lane. All negotiation, payment and assignment transitions go
// through it; both the employee terminal and the customer kiosk only ever
// see projections of this record.
type LaneSession struct {
	id           uuid.UUID
	laneID       string
	customerID   uuid.UUID
	customerName string
	status       Status

	proposedRentalType   *RentalType
	proposedBy           *Actor
	selectionConfirmed   bool
	selectionConfirmedBy *Actor
	customerSelectedType *RentalType
	lockAcknowledged     bool

	pendingCustomerConfirmation bool
	pendingResource             *AssignedResource
	assignedResource            *AssignedResource

	agreementSigned      bool
	paymentIntentID      *uuid.UUID
	paymentStatus        PaymentStatus
	paymentFailureReason *string
	pastDueBlocked       bool
	membershipIntent     MembershipIntent

	checkoutAt *time.Time
	version    int32
	createdAt  time.Time
	updatedAt  time.Time
}

func NewLaneSession(laneID string, customerID uuid.UUID, customerName string, pastDue bool, membership MembershipIntent, now time.Time) *LaneSession {
	return &LaneSession{
		id:               uuid.New(),
		laneID:           laneID,
		customerID:       customerID,
		customerName:     customerName,
		status:           StatusActive,
		paymentStatus:    PaymentDue,
		pastDueBlocked:   pastDue,
		membershipIntent: membership,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}
}

// Propose records a rental-type proposal from one actor. A repeated
// identical proposal on the employee side while still unconfirmed is a
// force-confirm: the double tap locks the selection with the employee as
// confirmer. Any other repeat or differing proposal overwrites the current
// one (latest proposal wins).
func (s *LaneSession) Propose(t RentalType, by Actor, requireAck bool) (forced bool, err error) {
	if !s.status.IsOpen() {
		return false, ErrSessionClosed
	}
	if s.selectionConfirmed {
		return false, ErrSelectionLocked
	}
	if s.pastDueBlocked {
		return false, ErrPastDueBlocked
	}

	if s.proposedRentalType != nil && *s.proposedRentalType == t && by == ActorEmployee {
		s.lock(ActorEmployee, requireAck)
		return true, nil
	}

	s.proposedRentalType = &t
	s.proposedBy = &by
	return false, nil
}

// Confirm locks the current proposal. Valid only while a proposal is
// pending and the selection is not yet locked.
func (s *LaneSession) Confirm(by Actor, requireAck bool) error {
	if !s.status.IsOpen() {
		return ErrSessionClosed
	}
	if s.selectionConfirmed {
		return ErrSelectionLocked
	}
	if s.proposedRentalType == nil {
		return ErrNoProposal
	}
	if s.pastDueBlocked {
		return ErrPastDueBlocked
	}

	s.lock(by, requireAck)
	return nil
}

// lock fixes the proposed type as the customer-selected type. A
// customer-confirmed lock stays unacknowledged when the stricter protocol
// revision is enabled; every other lock is auto-acknowledged.
func (s *LaneSession) lock(confirmedBy Actor, requireAck bool) {
	s.selectionConfirmed = true
	s.selectionConfirmedBy = &confirmedBy
	selected := *s.proposedRentalType
	s.customerSelectedType = &selected
	s.lockAcknowledged = !(requireAck && confirmedBy == ActorCustomer)
	s.status = StatusAwaitingPayment
}

// Acknowledge is the employee acknowledgement of a customer-confirmed lock.
// Acknowledging an already-acknowledged lock is a no-op.
func (s *LaneSession) Acknowledge() error {
	if !s.selectionConfirmed {
		return ErrSelectionNotLocked
	}
	s.lockAcknowledged = true
	return nil
}

// CanAssign checks every assignment precondition in order and returns the
// first violated one. It has no side effects.
func (s *LaneSession) CanAssign() error {
	if !s.status.IsOpen() {
		return ErrSessionClosed
	}
	if s.pastDueBlocked {
		return ErrPastDueBlocked
	}
	if !s.selectionConfirmed {
		return ErrSelectionNotLocked
	}
	if !s.lockAcknowledged {
		return ErrNotAcknowledged
	}
	if s.paymentStatus != PaymentPaid {
		return ErrPaymentDue
	}
	if !s.agreementSigned {
		return ErrAgreementNotSigned
	}
	if s.pendingCustomerConfirmation {
		return ErrConfirmationPending
	}
	if s.assignedResource != nil {
		return ErrAlreadyAssigned
	}
	return nil
}

// RequestAssignment validates preconditions and decides whether the
// assignment may proceed directly or must first be confirmed by the
// customer (cross-tier selection by the employee).
func (s *LaneSession) RequestAssignment(res AssignedResource) (needsConfirmation bool, err error) {
	if err := s.CanAssign(); err != nil {
		return false, err
	}
	if s.customerSelectedType != nil && res.Type != *s.customerSelectedType {
		s.pendingCustomerConfirmation = true
		pending := res
		s.pendingResource = &pending
		return true, nil
	}
	return false, nil
}

// CompleteAssignment binds the resource after the authoritative claim
// succeeded. Race-lost claims must never reach this method.
func (s *LaneSession) CompleteAssignment(res AssignedResource) {
	bound := res
	s.assignedResource = &bound
	s.pendingResource = nil
	s.pendingCustomerConfirmation = false
	s.status = StatusCompleted
}

// AcceptPendingResource is the customer accepting a cross-tier assignment.
// It returns the resource that may now be claimed.
func (s *LaneSession) AcceptPendingResource() (AssignedResource, error) {
	if !s.pendingCustomerConfirmation || s.pendingResource == nil {
		return AssignedResource{}, ErrNoConfirmationAsked
	}
	res := *s.pendingResource
	s.pendingCustomerConfirmation = false
	s.pendingResource = nil
	return res, nil
}

// DeclinePendingResource reverts a cross-tier assignment request. The
// customer-selected tier stays armed; only the pending resource is dropped.
func (s *LaneSession) DeclinePendingResource() error {
	if !s.pendingCustomerConfirmation {
		return ErrNoConfirmationAsked
	}
	s.pendingCustomerConfirmation = false
	s.pendingResource = nil
	return nil
}

// AttachPaymentIntent arms the payment gate. At most one intent is ever
// attached per session; concurrent arming is additionally guarded by a
// compare-and-swap at the persistence layer.
func (s *LaneSession) AttachPaymentIntent(intentID uuid.UUID) error {
	if s.paymentIntentID != nil {
		return ErrIntentAlreadyCreated
	}
	id := intentID
	s.paymentIntentID = &id
	return nil
}

func (s *LaneSession) MarkPaid() error {
	if !s.status.IsOpen() {
		return ErrSessionClosed
	}
	s.paymentStatus = PaymentPaid
	s.paymentFailureReason = nil
	if s.status == StatusAwaitingPayment {
		if s.agreementSigned {
			s.status = StatusAwaitingAssignment
		} else {
			s.status = StatusAwaitingSignature
		}
	}
	return nil
}

// RecordPaymentFailure keeps the payment DUE and attaches a reason the UI
// must surface. Dismissing clears only the reason.
func (s *LaneSession) RecordPaymentFailure(reason string) {
	r := reason
	s.paymentFailureReason = &r
}

func (s *LaneSession) DismissPaymentFailure() {
	s.paymentFailureReason = nil
}

// Sign records the agreement signature, whether from the kiosk signature
// event or an authorized manual override.
func (s *LaneSession) Sign() error {
	if !s.status.IsOpen() {
		return ErrSessionClosed
	}
	s.agreementSigned = true
	if s.status == StatusAwaitingSignature {
		s.status = StatusAwaitingAssignment
	}
	return nil
}

// ClearPastDue lifts the past-due block after a successful payment outcome
// or an authorized manager bypass.
func (s *LaneSession) ClearPastDue() {
	s.pastDueBlocked = false
}

// Cancel closes the session and frees the lane.
func (s *LaneSession) Cancel() {
	s.status = StatusCancelled
}

func (s *LaneSession) Touch(now time.Time) {
	s.updatedAt = now
	s.version++
}

func (s *LaneSession) ID() uuid.UUID                       { return s.id }
func (s *LaneSession) LaneID() string                      { return s.laneID }
func (s *LaneSession) CustomerID() uuid.UUID               { return s.customerID }
func (s *LaneSession) CustomerName() string                { return s.customerName }
func (s *LaneSession) Status() Status                      { return s.status }
func (s *LaneSession) ProposedRentalType() *RentalType     { return s.proposedRentalType }
func (s *LaneSession) ProposedBy() *Actor                  { return s.proposedBy }
func (s *LaneSession) SelectionConfirmed() bool            { return s.selectionConfirmed }
func (s *LaneSession) SelectionConfirmedBy() *Actor        { return s.selectionConfirmedBy }
func (s *LaneSession) CustomerSelectedType() *RentalType   { return s.customerSelectedType }
func (s *LaneSession) LockAcknowledged() bool              { return s.lockAcknowledged }
func (s *LaneSession) PendingConfirmation() bool           { return s.pendingCustomerConfirmation }
func (s *LaneSession) PendingResource() *AssignedResource  { return s.pendingResource }
func (s *LaneSession) AssignedResource() *AssignedResource { return s.assignedResource }
func (s *LaneSession) AgreementSigned() bool               { return s.agreementSigned }
func (s *LaneSession) PaymentIntentID() *uuid.UUID         { return s.paymentIntentID }
func (s *LaneSession) PaymentStatus() PaymentStatus        { return s.paymentStatus }
func (s *LaneSession) PaymentFailureReason() *string       { return s.paymentFailureReason }
func (s *LaneSession) PastDueBlocked() bool                { return s.pastDueBlocked }
func (s *LaneSession) MembershipIntent() MembershipIntent  { return s.membershipIntent }
func (s *LaneSession) CheckoutAt() *time.Time              { return s.checkoutAt }
func (s *LaneSession) Version() int32                      { return s.version }
func (s *LaneSession) CreatedAt() time.Time                { return s.createdAt }
func (s *LaneSession) UpdatedAt() time.Time                { return s.updatedAt }

// ReconstructLaneSession rebuilds a session from persistence. It performs no
// validation; the row is trusted.
func ReconstructLaneSession(
	id uuid.UUID,
	laneID string,
	customerID uuid.UUID,
	customerName string,
	status Status,
	proposedRentalType *RentalType,
	proposedBy *Actor,
	selectionConfirmed bool,
	selectionConfirmedBy *Actor,
	customerSelectedType *RentalType,
	lockAcknowledged bool,
	pendingConfirmation bool,
	pendingResource *AssignedResource,
	assignedResource *AssignedResource,
	agreementSigned bool,
	paymentIntentID *uuid.UUID,
	paymentStatus PaymentStatus,
	paymentFailureReason *string,
	pastDueBlocked bool,
	membershipIntent MembershipIntent,
	checkoutAt *time.Time,
	version int32,
	createdAt, updatedAt time.Time,
) *LaneSession {
	return &LaneSession{
		id:                          id,
		laneID:                      laneID,
		customerID:                  customerID,
		customerName:                customerName,
		status:                      status,
		proposedRentalType:          proposedRentalType,
		proposedBy:                  proposedBy,
		selectionConfirmed:          selectionConfirmed,
		selectionConfirmedBy:        selectionConfirmedBy,
		customerSelectedType:        customerSelectedType,
		lockAcknowledged:            lockAcknowledged,
		pendingCustomerConfirmation: pendingConfirmation,
		pendingResource:             pendingResource,
		assignedResource:            assignedResource,
		agreementSigned:             agreementSigned,
		paymentIntentID:             paymentIntentID,
		paymentStatus:               paymentStatus,
		paymentFailureReason:        paymentFailureReason,
		pastDueBlocked:              pastDueBlocked,
		membershipIntent:            membershipIntent,
		checkoutAt:                  checkoutAt,
		version:                     version,
		createdAt:                   createdAt,
		updatedAt:                   updatedAt,
	}
}
