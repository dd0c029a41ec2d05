package payment

import (
	"clubops/internal/domain/session"
)

type LineItem struct {
	Label       string `json:"label"`
	AmountCents int32  `json:"amountCents"`
}

// Quote is the priced breakdown behind an intent. Messages carry advisory
// text (waived fees and the like) and never affect the total.
type Quote struct {
	TotalCents int32      `json:"totalCents"`
	LineItems  []LineItem `json:"lineItems"`
	Messages   []string   `json:"messages"`
}

// Pricer produces quotes for the payable steps of the protocol.
type Pricer interface {
	QuoteSession(rental session.RentalType, membership session.MembershipIntent) Quote
	QuoteUpgrade(from, to session.RentalType) Quote
	QuotePastDue(balanceCents int32) Quote
}

type DefaultPricer struct{}

func NewDefaultPricer() *DefaultPricer {
	return &DefaultPricer{}
}

var baseRateCents = map[session.RentalType]int32{
	session.RentalLocker:   1800,
	session.RentalStandard: 3200,
	session.RentalDouble:   4400,
	session.RentalDeluxe:   6000,
}

const (
	membershipPurchaseCents = 2500
	membershipRenewCents    = 1500
)

func (p *DefaultPricer) QuoteSession(rental session.RentalType, membership session.MembershipIntent) Quote {
	q := Quote{LineItems: []LineItem{}, Messages: []string{}}

	rate := baseRateCents[rental]
	q.LineItems = append(q.LineItems, LineItem{Label: rental.String() + " rental", AmountCents: rate})
	q.TotalCents += rate

	switch membership {
	case session.MembershipPurchase:
		q.LineItems = append(q.LineItems, LineItem{Label: "Membership purchase", AmountCents: membershipPurchaseCents})
		q.TotalCents += membershipPurchaseCents
	case session.MembershipRenew:
		q.LineItems = append(q.LineItems, LineItem{Label: "Membership renewal", AmountCents: membershipRenewCents})
		q.TotalCents += membershipRenewCents
	}

	return q
}

// QuoteUpgrade charges the rate difference between tiers; a downgrade or
// equal tier quotes zero with an advisory message.
func (p *DefaultPricer) QuoteUpgrade(from, to session.RentalType) Quote {
	q := Quote{LineItems: []LineItem{}, Messages: []string{}}

	diff := baseRateCents[to] - baseRateCents[from]
	if diff <= 0 {
		q.Messages = append(q.Messages, "Upgrade fee waived")
		return q
	}

	q.LineItems = append(q.LineItems, LineItem{
		Label:       "Upgrade " + from.String() + " to " + to.String(),
		AmountCents: diff,
	})
	q.TotalCents = diff
	return q
}

func (p *DefaultPricer) QuotePastDue(balanceCents int32) Quote {
	return Quote{
		TotalCents: balanceCents,
		LineItems:  []LineItem{{Label: "Past-due balance", AmountCents: balanceCents}},
		Messages:   []string{},
	}
}
