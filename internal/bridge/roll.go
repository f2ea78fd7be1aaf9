package bridge

import (
	"fmt"
	"strconv"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
)

// MaxRollTimes bounds forward simulations requested over the network.
const MaxRollTimes = 10000

// RollRequest is a forward simulation from a known seed.
type RollRequest struct {
	Seed  uint32
	Brand ability.Brand
	Drink roll.Drink
	Times int
}

// RollStep is one simulated roll and the generator state after it.
type RollStep struct {
	State   uint32          `json:"state"`
	Ability ability.Ability `json:"ability"`
	Display string          `json:"display"`
}

// ParseRollRequest parses a remote roll request. An empty times means one
// roll; more than MaxRollTimes is rejected.
func ParseRollRequest(seed, brand, drink, times string, legacy bool) (RollRequest, error) {
	req, err := ParseRollTarget(seed, brand, drink, legacy)
	if err != nil {
		return req, err
	}
	if times != "" {
		n, err := strconv.Atoi(times)
		if err != nil || n < 1 || n > MaxRollTimes {
			return req, fmt.Errorf("%w: times must be in [1, %d]", ErrBadRequest, MaxRollTimes)
		}
		req.Times = n
	}
	return req, nil
}

// ParseRollTarget parses seed, brand and drink into a one-roll request.
// seed accepts decimal or 0x-prefixed hex; an empty drink means none.
func ParseRollTarget(seed, brand, drink string, legacy bool) (RollRequest, error) {
	var req RollRequest
	s, err := strconv.ParseUint(seed, 0, 32)
	if err != nil {
		return req, fmt.Errorf("%w: seed %q", ErrBadRequest, seed)
	}
	req.Seed = uint32(s)

	if req.Brand, err = ability.ParseBrand(brand); err != nil {
		return req, err
	}

	if drink != "" {
		parse := ability.ParseAbility
		if legacy {
			parse = ability.ParseLegacyAbility
		}
		a, err := parse(drink)
		if err != nil {
			return req, fmt.Errorf("drink: %w", err)
		}
		req.Drink = roll.With(a)
	}
	req.Times = 1
	return req, nil
}

// Rolls runs the simulation.
func Rolls(req RollRequest) []RollStep {
	outcomes, states := roll.Sequence(req.Seed, req.Brand, req.Drink, req.Times)
	steps := make([]RollStep, len(outcomes))
	for i, a := range outcomes {
		steps[i] = RollStep{State: states[i], Ability: a, Display: a.DisplayName()}
	}
	return steps
}
