// Package settlement reconciles declared payment amounts against a total.
// Underpayment becomes a shortfall owed by the customer; overpayment beyond
// the rounding tolerance is rejected.
package settlement

import "github.com/mebelpos/mebelpos/internal/pos/pricing"

// Epsilon is the rounding tolerance, one whole currency unit.
const Epsilon pricing.Money = 1

// Channel identifies a payment channel.
type Channel string

const (
	ChannelCash    Channel = "cash"
	ChannelClick   Channel = "click"
	ChannelCard    Channel = "card"
	ChannelPartner Channel = "partner"
)

// Split records the amount declared on each payment channel.
type Split struct {
	Cash    pricing.Money `json:"cash"`
	Click   pricing.Money `json:"click"`
	Card    pricing.Money `json:"card"`
	Partner pricing.Money `json:"partner"`
}

// Declared returns the sum across all channels.
func (s Split) Declared() pricing.Money {
	return s.Cash + s.Click + s.Card + s.Partner
}

// IsZero reports whether no amount is declared on any channel.
func (s Split) IsZero() bool {
	return s == Split{}
}

// Result describes the outcome of reconciling a split against a total.
type Result struct {
	Accepted  bool          `json:"accepted"`
	Shortfall pricing.Money `json:"shortfall"`
}

// Apply reconciles a split against a total. The declared sum may exceed the
// total by at most Epsilon; anything above that is rejected without mutation.
// Underpayment is accepted and reported as a shortfall.
func Apply(total pricing.Money, s Split) Result {
	declared := s.Declared()
	if declared > total+Epsilon {
		return Result{Accepted: false}
	}
	shortfall := total - declared
	if shortfall < 0 {
		shortfall = 0
	}
	return Result{Accepted: true, Shortfall: shortfall}
}

// ClampChannel returns the amount to store when a single channel is edited:
// the requested amount capped at total minus the other channels, never below
// zero. Clamped values always pass Apply for the same total.
func ClampChannel(total pricing.Money, s Split, ch Channel, amount pricing.Money) pricing.Money {
	if amount < 0 {
		return 0
	}
	others := s.Declared() - s.channel(ch)
	max := total - others
	if max < 0 {
		max = 0
	}
	if amount > max {
		return max
	}
	return amount
}

// WithChannel returns a copy of the split with one channel replaced.
func (s Split) WithChannel(ch Channel, amount pricing.Money) Split {
	switch ch {
	case ChannelCash:
		s.Cash = amount
	case ChannelClick:
		s.Click = amount
	case ChannelCard:
		s.Card = amount
	case ChannelPartner:
		s.Partner = amount
	}
	return s
}

func (s Split) channel(ch Channel) pricing.Money {
	switch ch {
	case ChannelCash:
		return s.Cash
	case ChannelClick:
		return s.Click
	case ChannelCard:
		return s.Card
	case ChannelPartner:
		return s.Partner
	}
	return 0
}

// Method summarises the channels used, for receipt records.
func (s Split) Method() string {
	type pair struct {
		ch  Channel
		amt pricing.Money
	}
	used := ""
	for _, p := range []pair{
		{ChannelCash, s.Cash},
		{ChannelClick, s.Click},
		{ChannelCard, s.Card},
		{ChannelPartner, s.Partner},
	} {
		if p.amt <= 0 {
			continue
		}
		if used != "" {
			used += "+"
		}
		used += string(p.ch)
	}
	if used == "" {
		return "none"
	}
	return used
}
