// Package bridge adapts host-side requests (packed slots, JSON bodies) to
// the search core. Every outer surface goes through it.
package bridge

import (
	"errors"
	"fmt"
	"math"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
)

// NoDrinkByte in the drink byte of a packed slot means no drink is active.
const NoDrinkByte = 0xFF

var ErrBadSlot = errors.New("bad packed slot")

// PackSlot encodes s as ability | drink<<8.
func PackSlot(s roll.Slot) uint32 {
	drink := uint32(NoDrinkByte)
	if s.Drink.Active {
		drink = uint32(s.Drink.Ability)
	}
	return uint32(s.Ability) | drink<<8
}

// UnpackSlot decodes a packed slot. Bits above the drink byte must be zero.
func UnpackSlot(v uint32) (roll.Slot, error) {
	if v>>16 != 0 {
		return roll.Slot{}, fmt.Errorf("%w: %#x has bits above 16", ErrBadSlot, v)
	}
	a := ability.Ability(v & 0xFF)
	if !a.Valid() {
		return roll.Slot{}, fmt.Errorf("%w: ability ordinal %d", ErrBadSlot, uint8(a))
	}
	d := v >> 8 & 0xFF
	if d == NoDrinkByte {
		return roll.NewSlot(a), nil
	}
	if !ability.Ability(d).Valid() {
		return roll.Slot{}, fmt.Errorf("%w: drink ordinal %d", ErrBadSlot, d)
	}
	return roll.NewDrinkSlot(a, ability.Ability(d)), nil
}

// UnpackSlots decodes a packed slot list.
func UnpackSlots(vs []uint32) ([]roll.Slot, error) {
	out := make([]roll.Slot, len(vs))
	for i, v := range vs {
		s, err := UnpackSlot(v)
		if err != nil {
			return nil, fmt.Errorf("slot %d: %w", i, err)
		}
		out[i] = s
	}
	return out, nil
}

// UnpackInts decodes packed slots that arrive as host integers, rejecting
// values outside uint32 before decoding.
func UnpackInts(vs []int64) ([]roll.Slot, error) {
	packed := make([]uint32, len(vs))
	for i, v := range vs {
		if v < 0 || v > math.MaxUint32 {
			return nil, fmt.Errorf("slot %d: %w: %d out of range", i, ErrBadSlot, v)
		}
		packed[i] = uint32(v)
	}
	return UnpackSlots(packed)
}

// PackOrdinals packs a slot given as raw ordinals; a negative drink means
// none.
func PackOrdinals(a, drink int) (uint32, error) {
	if a < 0 || a >= ability.NumAbilities {
		return 0, fmt.Errorf("%w: ability ordinal %d", ErrBadSlot, a)
	}
	if drink < 0 {
		return PackSlot(roll.NewSlot(ability.Ability(a))), nil
	}
	if drink >= ability.NumAbilities {
		return 0, fmt.Errorf("%w: drink ordinal %d", ErrBadSlot, drink)
	}
	return PackSlot(roll.NewDrinkSlot(ability.Ability(a), ability.Ability(drink))), nil
}
