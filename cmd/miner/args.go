package main

import (
	"errors"
	"fmt"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
)

const drinkKeyword = "drink"

var errUsage = errors.New("usage")

// parseArgs reads `<brand> <ability> [drink <ability>] ...`. A "drink"
// token attaches the following ability as the drink for the slot before it.
func parseArgs(args []string, legacy bool) (ability.Brand, []roll.Slot, error) {
	if len(args) < 1 {
		return 0, nil, fmt.Errorf("%w: missing brand", errUsage)
	}
	b, err := ability.ParseBrand(args[0])
	if err != nil {
		return 0, nil, err
	}
	parse := ability.ParseAbility
	if legacy {
		parse = ability.ParseLegacyAbility
	}

	var slots []roll.Slot
	for i := 1; i < len(args); i++ {
		a, err := parse(args[i])
		if err != nil {
			return 0, nil, fmt.Errorf("slot %d: %w", len(slots)+1, err)
		}
		s := roll.NewSlot(a)
		if i+1 < len(args) && args[i+1] == drinkKeyword {
			if i+2 >= len(args) {
				return 0, nil, fmt.Errorf("%w: %q needs an ability", errUsage, drinkKeyword)
			}
			d, err := parse(args[i+2])
			if err != nil {
				return 0, nil, fmt.Errorf("slot %d drink: %w", len(slots)+1, err)
			}
			s = roll.NewDrinkSlot(a, d)
			i += 2
		}
		slots = append(slots, s)
	}
	return b, slots, nil
}
