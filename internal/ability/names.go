package ability

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"
)

var (
	ErrUnknownAbility = errors.New("unknown ability")
	ErrUnknownBrand   = errors.New("unknown brand")
)

// abilityNames is the current game-internal identifier, the canonical name.
var abilityNames = [NumAbilities]string{
	"MainInk_Save",
	"SubInk_Save",
	"InkRecovery_Up",
	"HumanMove_Up",
	"SquidMove_Up",
	"SpecialIncrease_Up",
	"RespawnSpecialGauge_Save",
	"SpecialSpec_Up",
	"RespawnTime_Save",
	"JumpTime_Save",
	"SubSpec_Up",
	"OpInkEffect_Reduction",
	"SubEffect_Reduction",
	"Action_Up",
}

// legacyAbilityNames is the previous title's identifier for the same ordinal.
var legacyAbilityNames = [NumAbilities]string{
	"MainInk_Save",
	"SubInk_Save",
	"InkRecovery_Up",
	"HumanMove_Up",
	"SquidMove_Up",
	"SpecialIncrease_Up",
	"RespawnSpecialGauge_Save",
	"SpecialTime_Up",
	"RespawnTime_Save",
	"JumpTime_Save",
	"BombDistance_Up",
	"OpInkEffect_Reduction",
	"BombDamage_Reduction",
	"MainPower_Up",
}

var abilityDisplay = [NumAbilities]string{
	"Ink Saver (Main)",
	"Ink Saver (Sub)",
	"Ink Recovery Up",
	"Run Speed Up",
	"Swim Speed Up",
	"Special Charge Up",
	"Special Saver",
	"Special Power Up",
	"Quick Respawn",
	"Quick Super Jump",
	"Sub Power Up",
	"Ink Resistance Up",
	"Sub Resistance Up",
	"Intensify Action",
}

var brandNames = [NumBrands]string{
	"B00", "B01", "B02", "B03", "B04", "B05", "B06", "B07", "B08", "B09", "B10", "B11",
	"B15", "B16", "B17", "B18", "B19", "B20",
	"B97", "B98", "B99", "None",
}

var (
	abilityByName       = index(abilityNames[:])
	abilityByLegacyName = index(legacyAbilityNames[:])
	brandByName         = index(brandNames[:])
)

func index(names []string) map[string]uint8 {
	m := make(map[string]uint8, len(names))
	for i, n := range names {
		m[n] = uint8(i)
	}
	return m
}

// String returns the canonical identifier, e.g. "MainInk_Save".
func (a Ability) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Ability(%d)", uint8(a))
	}
	return abilityNames[a]
}

// LegacyName returns the previous title's identifier, e.g. "SpecialTime_Up".
func (a Ability) LegacyName() string {
	if !a.Valid() {
		return a.String()
	}
	return legacyAbilityNames[a]
}

// DisplayName returns the English in-game name, e.g. "Ink Saver (Main)".
func (a Ability) DisplayName() string {
	if !a.Valid() {
		return a.String()
	}
	return abilityDisplay[a]
}

func (a Ability) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: ordinal %d", ErrUnknownAbility, uint8(a))
	}
	return []byte(abilityNames[a]), nil
}

func (a *Ability) UnmarshalText(b []byte) error {
	v, err := ParseAbility(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// String returns the brand code, e.g. "B00" or "None".
func (b Brand) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Brand(%d)", uint8(b))
	}
	return brandNames[b]
}

func (b Brand) MarshalText() ([]byte, error) {
	if !b.Valid() {
		return nil, fmt.Errorf("%w: ordinal %d", ErrUnknownBrand, uint8(b))
	}
	return []byte(brandNames[b]), nil
}

func (b *Brand) UnmarshalText(text []byte) error {
	v, err := ParseBrand(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseAbility maps a canonical identifier to its ability. Matching is exact
// and case-sensitive.
func ParseAbility(s string) (Ability, error) {
	if v, ok := abilityByName[s]; ok {
		return Ability(v), nil
	}
	return 0, unknown(ErrUnknownAbility, s, abilityNames[:])
}

// ParseLegacyAbility is ParseAbility for the previous title's identifiers.
func ParseLegacyAbility(s string) (Ability, error) {
	if v, ok := abilityByLegacyName[s]; ok {
		return Ability(v), nil
	}
	return 0, unknown(ErrUnknownAbility, s, legacyAbilityNames[:])
}

// ParseBrand maps a brand code ("B00".."B20", "B97".."B99", "None") to its brand.
func ParseBrand(s string) (Brand, error) {
	if v, ok := brandByName[s]; ok {
		return Brand(v), nil
	}
	return 0, unknown(ErrUnknownBrand, s, brandNames[:])
}

func unknown(sentinel error, s string, names []string) error {
	if hint := Suggest(s, names); hint != "" {
		return fmt.Errorf("%w %q (did you mean %q?)", sentinel, s, hint)
	}
	return fmt.Errorf("%w %q", sentinel, s)
}

// Suggest returns the closest name within an edit distance scaled to the
// name length, or "" when nothing is close. It is only used for error
// messages; parsing never accepts a suggestion.
func Suggest(s string, names []string) string {
	if s == "" {
		return ""
	}
	type cand struct {
		name string
		dist int
	}
	var cands []cand
	for _, n := range names {
		d := levenshtein.ComputeDistance(s, n)
		if d > suggestLimit(len(n)) {
			continue
		}
		cands = append(cands, cand{n, d})
	}
	if len(cands) == 0 {
		return ""
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
	return cands[0].name
}

func suggestLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
