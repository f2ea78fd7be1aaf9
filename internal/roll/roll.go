// Package roll simulates single ability rolls and replays observation
// sequences against a generator state.
package roll

import (
	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/xorshift"
)

const (
	procModulus = 100
	// A drink procs when state%100 <= procThreshold (30%).
	procThreshold = 0x1D
)

// Drink is the optional consumable active for one roll.
type Drink struct {
	Ability ability.Ability
	Active  bool
}

// NoDrink is the zero Drink.
var NoDrink = Drink{}

// With returns an active drink boosting a.
func With(a ability.Ability) Drink { return Drink{Ability: a, Active: true} }

func (d Drink) String() string {
	if !d.Active {
		return "<nothing>"
	}
	return d.Ability.String()
}

// Procs reports whether a drink takes the direct path for an already
// advanced state.
func Procs(state uint32) bool { return state%procModulus <= procThreshold }

// Roll advances state and returns the ability it produces for brand b.
//
// Without a drink one step is consumed. With a drink the same post-advance
// state decides the 30% proc; on a miss a second step rerolls from the
// brand's table with the drink ability removed.
func Roll(state *uint32, b ability.Brand, d Drink) ability.Ability {
	s := xorshift.Advance(state)
	primary := ability.Pick(b, s)
	if !d.Active {
		return primary
	}
	if Procs(s) {
		return d.Ability
	}
	s = xorshift.Advance(state)
	return ability.PickDrink(b, d.Ability, s)
}

// Sequence rolls n times from seed and returns the outcomes along with the
// state after each roll.
func Sequence(seed uint32, b ability.Brand, d Drink, n int) (outcomes []ability.Ability, states []uint32) {
	state := seed
	outcomes = make([]ability.Ability, n)
	states = make([]uint32, n)
	for i := 0; i < n; i++ {
		outcomes[i] = Roll(&state, b, d)
		states[i] = state
	}
	return outcomes, states
}
