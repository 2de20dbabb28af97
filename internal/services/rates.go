package services

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Hundredths is a score amount in fixed point with two decimal places.
type Hundredths int64

// Decimal converts h back to its decimal form, e.g. 20 -> 0.20.
func (h Hundredths) Decimal() decimal.Decimal {
	return decimal.New(int64(h), -2)
}

// Rates holds the vote rate constants and trust tier multipliers.
type Rates struct {
	Increase                decimal.Decimal
	Reduce                  decimal.Decimal
	AnonymousMultiplier     decimal.Decimal
	AuthenticatedMultiplier decimal.Decimal
}

var DefaultRates = Rates{
	Increase:                decimal.RequireFromString("0.2"),
	Reduce:                  decimal.RequireFromString("-0.2"),
	AnonymousMultiplier:     decimal.RequireFromString("0.5"),
	AuthenticatedMultiplier: decimal.RequireFromString("1"),
}

// Validate checks signs and that every weighted rate fits in hundredths
// without rounding.
func (r Rates) Validate() error {
	if !r.Increase.IsPositive() {
		return fmt.Errorf("increase rate must be positive, got %s", r.Increase)
	}
	if !r.Reduce.IsNegative() {
		return fmt.Errorf("reduce rate must be negative, got %s", r.Reduce)
	}
	if !r.AnonymousMultiplier.IsPositive() || !r.AuthenticatedMultiplier.IsPositive() {
		return fmt.Errorf("multipliers must be positive, got %s and %s", r.AnonymousMultiplier, r.AuthenticatedMultiplier)
	}
	for _, base := range []decimal.Decimal{r.Increase, r.Reduce} {
		for _, k := range []decimal.Decimal{r.AnonymousMultiplier, r.AuthenticatedMultiplier} {
			w := base.Mul(k)
			if !w.Equal(w.Round(2)) {
				return fmt.Errorf("weighted rate %s x %s = %s needs more than two decimal places", base, k, w)
			}
		}
	}
	return nil
}

func (r Rates) multiplier(anonymous bool) decimal.Decimal {
	if anonymous {
		return r.AnonymousMultiplier
	}
	return r.AuthenticatedMultiplier
}

// Weighted returns the signed rate for one vote in direction d, scaled by the
// actor's tier.
func (r Rates) Weighted(d Direction, anonymous bool) Hundredths {
	base := r.Increase
	if d == VoteDown {
		base = r.Reduce
	}
	return toHundredths(base.Mul(r.multiplier(anonymous)))
}

// Favorite is the amount a favorite adds to an entry. Removing a favorite
// subtracts the same amount.
func (r Rates) Favorite() Hundredths {
	return toHundredths(r.Increase)
}

func toHundredths(d decimal.Decimal) Hundredths {
	return Hundredths(d.Shift(2).Round(0).IntPart())
}
