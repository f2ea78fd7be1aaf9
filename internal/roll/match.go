package roll

import "github.com/xtding233/ability-miner/internal/ability"

// Slot is one observed roll: the ability seen and the drink active for it.
type Slot struct {
	Ability ability.Ability
	Drink   Drink
}

// NewSlot is a slot observed without a drink.
func NewSlot(a ability.Ability) Slot { return Slot{Ability: a} }

// NewDrinkSlot is a slot observed with drink d active.
func NewDrinkSlot(a, d ability.Ability) Slot { return Slot{Ability: a, Drink: With(d)} }

// Matches replays slots from state in order and reports whether every roll
// produces the expected ability. It stops at the first mismatch; state is
// then left wherever that roll put it.
func Matches(state *uint32, b ability.Brand, slots []Slot) bool {
	for i := range slots {
		if Roll(state, b, slots[i].Drink) != slots[i].Ability {
			return false
		}
	}
	return true
}

// MatchesSeed runs Matches on a fresh state initialised to seed.
func MatchesSeed(seed uint32, b ability.Brand, slots []Slot) bool {
	state := seed
	return Matches(&state, b, slots)
}

// Observe simulates slots' drinks from seed and returns the slots that
// would have been observed. Feeding the result back into MatchesSeed with
// the same seed always succeeds.
func Observe(seed uint32, b ability.Brand, drinks []Drink) []Slot {
	state := seed
	out := make([]Slot, len(drinks))
	for i, d := range drinks {
		out[i] = Slot{Ability: Roll(&state, b, d), Drink: d}
	}
	return out
}
