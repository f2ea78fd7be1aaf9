// Package ability holds the fixed ability/brand catalog and the weighted
// outcome tables derived from it.
package ability

// Ability is one of the 14 rollable gear abilities, by ordinal.
type Ability uint8

const (
	MainInkSave Ability = iota
	SubInkSave
	InkRecoveryUp
	HumanMoveUp
	SquidMoveUp
	SpecialIncreaseUp
	RespawnSpecialGaugeSave
	SpecialSpecUp
	RespawnTimeSave
	JumpTimeSave
	SubSpecUp
	OpInkEffectReduction
	SubEffectReduction
	ActionUp
)

// NumAbilities is the size of the ability catalog.
const NumAbilities = 14

// Valid reports whether a is inside the catalog.
func (a Ability) Valid() bool { return a < NumAbilities }

// Brand is one of the 22 gear brands, by ordinal. Ordinals are contiguous
// even though the external codes skip 12-14.
type Brand uint8

const (
	B00 Brand = iota
	B01
	B02
	B03
	B04
	B05
	B06
	B07
	B08
	B09
	B10
	B11
	B15
	B16
	B17
	B18
	B19
	B20
	B97
	B98
	B99
	BNone
)

// NumBrands is the size of the brand catalog.
const NumBrands = 22

// Valid reports whether b is inside the catalog.
func (b Brand) Valid() bool { return b < NumBrands }

// IsGeneric reports whether b has no unusual/usual ability and rolls uniformly.
func (b Brand) IsGeneric() bool { return b >= B97 && b <= BNone }

// Abilities lists the catalog in ordinal order.
func Abilities() []Ability {
	out := make([]Ability, NumAbilities)
	for i := range out {
		out[i] = Ability(i)
	}
	return out
}

// Brands lists the catalog in ordinal order.
func Brands() []Brand {
	out := make([]Brand, NumBrands)
	for i := range out {
		out[i] = Brand(i)
	}
	return out
}

// bias is a brand's declared (unusual, usual) pair.
type bias struct {
	unusual, usual Ability
}

// brandBias is indexed by Brand ordinal; generic brands are absent.
var brandBias = [...]bias{
	B00: {MainInkSave, OpInkEffectReduction},
	B01: {RespawnTimeSave, JumpTimeSave},
	B02: {SubEffectReduction, SquidMoveUp},
	B03: {SquidMoveUp, HumanMoveUp},
	B04: {SpecialIncreaseUp, RespawnSpecialGaugeSave},
	B05: {SubInkSave, SpecialSpecUp},
	B06: {InkRecoveryUp, SubInkSave},
	B07: {RespawnSpecialGaugeSave, RespawnTimeSave},
	B08: {HumanMoveUp, MainInkSave},
	B09: {ActionUp, SubEffectReduction},
	B10: {JumpTimeSave, InkRecoveryUp},
	B11: {SpecialSpecUp, SpecialIncreaseUp},
	B15: {RespawnSpecialGaugeSave, SubInkSave},
	B16: {OpInkEffectReduction, SubSpecUp},
	B17: {SubSpecUp, MainInkSave},
	B18: {InkRecoveryUp, RespawnSpecialGaugeSave},
	B19: {SubSpecUp, ActionUp},
	B20: {SpecialIncreaseUp, ActionUp},
}

// Unusual returns the ability b is least likely to roll. ok is false for
// generic brands.
func (b Brand) Unusual() (a Ability, ok bool) {
	if b.IsGeneric() || !b.Valid() {
		return 0, false
	}
	return brandBias[b].unusual, true
}

// Usual returns the ability b is most likely to roll. ok is false for
// generic brands.
func (b Brand) Usual() (a Ability, ok bool) {
	if b.IsGeneric() || !b.Valid() {
		return 0, false
	}
	return brandBias[b].usual, true
}
