package odds

import (
	"math"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
	"github.com/xtding233/ability-miner/internal/xorshift"
)

// Frequencies is the outcome of an empirical sampling run.
type Frequencies struct {
	Trials int
	Counts [ability.NumAbilities]int
}

// Rate returns the observed frequency of a.
func (f Frequencies) Rate(a ability.Ability) float64 {
	if f.Trials == 0 {
		return 0
	}
	return float64(f.Counts[a]) / float64(f.Trials)
}

// MaxDeviation returns the largest |observed - expected| over all abilities
// for a single roll of brand b with drink d.
func (f Frequencies) MaxDeviation(b ability.Brand, d roll.Drink) float64 {
	worst := 0.0
	for a := ability.Ability(0); a < ability.NumAbilities; a++ {
		want, _ := SlotProbability(b, roll.Slot{Ability: a, Drink: d}).Value().Float64()
		worst = math.Max(worst, math.Abs(f.Rate(a)-want))
	}
	return worst
}

// Sample rolls once from each of trials start states drawn from src and
// tallies the outcomes. A nil src starts from seed 1.
func Sample(b ability.Brand, d roll.Drink, trials int, src *xorshift.Source) Frequencies {
	if src == nil {
		src = xorshift.New(1)
	}
	f := Frequencies{}
	if trials <= 0 {
		return f
	}
	for i := 0; i < trials; i++ {
		state := src.Next()
		f.Counts[roll.Roll(&state, b, d)]++
	}
	f.Trials = trials
	return f
}
