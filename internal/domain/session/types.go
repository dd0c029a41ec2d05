package session

import "errors"

var (
	ErrInvalidStatus     = errors.New("invalid session status")
	ErrInvalidRentalType = errors.New("invalid rental type")
	ErrInvalidActor      = errors.New("invalid actor")
	ErrInvalidRole       = errors.New("invalid operator role")

	ErrInvalidMembershipIntent = errors.New("invalid membership intent")
)

type Status string

const (
	StatusIdle               Status = "IDLE"
	StatusActive             Status = "ACTIVE"
	StatusAwaitingAssignment Status = "AWAITING_ASSIGNMENT"
	StatusAwaitingPayment    Status = "AWAITING_PAYMENT"
	StatusAwaitingSignature  Status = "AWAITING_SIGNATURE"
	StatusCompleted          Status = "COMPLETED"
	StatusCancelled          Status = "CANCELLED"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusIdle, StatusActive, StatusAwaitingAssignment, StatusAwaitingPayment,
		StatusAwaitingSignature, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsOpen reports whether the session still occupies the lane.
func (s Status) IsOpen() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusIdle:
		return false
	default:
		return true
	}
}

// RentalType is the tier a customer rents: a room tier or a locker.
type RentalType string

const (
	RentalStandard RentalType = "STANDARD"
	RentalDouble   RentalType = "DOUBLE"
	RentalDeluxe   RentalType = "DELUXE"
	RentalLocker   RentalType = "LOCKER"
)

func (t RentalType) String() string {
	return string(t)
}

func (t RentalType) IsValid() bool {
	switch t {
	case RentalStandard, RentalDouble, RentalDeluxe, RentalLocker:
		return true
	default:
		return false
	}
}

func NewRentalType(s string) (RentalType, error) {
	t := RentalType(s)
	if !t.IsValid() {
		return "", ErrInvalidRentalType
	}
	return t, nil
}

// Actor identifies which side of the lane issued a negotiation command.
type Actor string

const (
	ActorCustomer Actor = "CUSTOMER"
	ActorEmployee Actor = "EMPLOYEE"
)

func (a Actor) String() string {
	return string(a)
}

func (a Actor) IsValid() bool {
	switch a {
	case ActorCustomer, ActorEmployee:
		return true
	default:
		return false
	}
}

func NewActor(s string) (Actor, error) {
	a := Actor(s)
	if !a.IsValid() {
		return "", ErrInvalidActor
	}
	return a, nil
}

type OperatorRole string

const (
	RoleEmployee OperatorRole = "employee"
	RoleAdmin    OperatorRole = "admin"
	RoleKiosk    OperatorRole = "kiosk"
)

func (r OperatorRole) String() string {
	return string(r)
}

func (r OperatorRole) IsValid() bool {
	switch r {
	case RoleEmployee, RoleAdmin, RoleKiosk:
		return true
	default:
		return false
	}
}

func NewOperatorRole(s string) (OperatorRole, error) {
	r := OperatorRole(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

type PaymentStatus string

const (
	PaymentDue  PaymentStatus = "DUE"
	PaymentPaid PaymentStatus = "PAID"
)

func (p PaymentStatus) String() string {
	return string(p)
}

type MembershipIntent string

const (
	MembershipNone     MembershipIntent = ""
	MembershipPurchase MembershipIntent = "PURCHASE"
	MembershipRenew    MembershipIntent = "RENEW"
)

func (m MembershipIntent) String() string {
	return string(m)
}

func (m MembershipIntent) IsValid() bool {
	switch m {
	case MembershipNone, MembershipPurchase, MembershipRenew:
		return true
	default:
		return false
	}
}

func NewMembershipIntent(s string) (MembershipIntent, error) {
	m := MembershipIntent(s)
	if !m.IsValid() {
		return "", ErrInvalidMembershipIntent
	}
	return m, nil
}
