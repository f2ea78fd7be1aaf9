// Package odds computes how likely an observation sequence is under the roll
// model, and how many of the 2^32 seeds are expected to reproduce it.
package odds

import (
	"github.com/shopspring/decimal"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
)

const (
	// Digits kept when a ratio is finally divided out.
	precision = 24
	procPct   = 30
)

var (
	hundred   = decimal.NewFromInt(100)
	seedSpace = decimal.NewFromInt(1 << 32)
)

// Fraction is an exact num/den probability.
type Fraction struct {
	Num, Den decimal.Decimal
}

// Value divides the fraction out.
func (f Fraction) Value() decimal.Decimal {
	if f.Den.IsZero() {
		return decimal.Zero
	}
	return f.Num.DivRound(f.Den, precision)
}

// SlotOdds is the probability of one slot's outcome.
type SlotOdds struct {
	Slot roll.Slot
	P    Fraction
}

// Estimate summarises a slot sequence.
type Estimate struct {
	Brand ability.Brand
	Slots []SlotOdds
	// Joint is the product of the per-slot probabilities.
	Joint Fraction
	// ExpectedSeeds is Joint scaled to the full 32-bit seed space.
	ExpectedSeeds decimal.Decimal
}

// SlotProbability returns P(slot.Ability) for one roll of brand b.
//
// Without a drink it is w[a]/T. With drink d it is 30/100 when a == d, and
// 70/100 * w[a]/(T-w[d]) otherwise, since the reroll table excludes d.
func SlotProbability(b ability.Brand, s roll.Slot) Fraction {
	w := ability.Weights(b)
	wa := decimal.NewFromInt(int64(w[s.Ability]))
	if !s.Drink.Active {
		return Fraction{Num: wa, Den: decimal.NewFromInt(int64(ability.TotalWeight(b)))}
	}
	if s.Ability == s.Drink.Ability {
		return Fraction{Num: decimal.NewFromInt(procPct), Den: hundred}
	}
	rest := decimal.NewFromInt(int64(ability.DrinkTotalWeight(b, s.Drink.Ability)))
	return Fraction{
		Num: decimal.NewFromInt(100 - procPct).Mul(wa),
		Den: hundred.Mul(rest),
	}
}

// Compute builds the Estimate for slots rolled on brand b, treating rolls as
// independent.
func Compute(b ability.Brand, slots []roll.Slot) Estimate {
	est := Estimate{
		Brand: b,
		Slots: make([]SlotOdds, len(slots)),
		Joint: Fraction{Num: decimal.NewFromInt(1), Den: decimal.NewFromInt(1)},
	}
	for i, s := range slots {
		p := SlotProbability(b, s)
		est.Slots[i] = SlotOdds{Slot: s, P: p}
		est.Joint.Num = est.Joint.Num.Mul(p.Num)
		est.Joint.Den = est.Joint.Den.Mul(p.Den)
	}
	est.ExpectedSeeds = est.Joint.Num.Mul(seedSpace).DivRound(est.Joint.Den, precision)
	return est
}

// OneIn returns the inverse of the joint probability, i.e. "1 in N".
func (e Estimate) OneIn() decimal.Decimal {
	if e.Joint.Num.IsZero() {
		return decimal.Zero
	}
	return e.Joint.Den.DivRound(e.Joint.Num, 2)
}

// Percent renders a fraction as a percentage with the given decimals.
func Percent(f Fraction, places int32) string {
	return f.Value().Mul(hundred).StringFixed(places)
}
