package ability

import (
	"errors"
	"strings"
	"testing"
)

func TestParseAbilityRoundTrip(t *testing.T) {
	for _, a := range Abilities() {
		got, err := ParseAbility(a.String())
		if err != nil || got != a {
			t.Fatalf("ParseAbility(%q) = %v, %v", a.String(), got, err)
		}
		got, err = ParseLegacyAbility(a.LegacyName())
		if err != nil || got != a {
			t.Fatalf("ParseLegacyAbility(%q) = %v, %v", a.LegacyName(), got, err)
		}
	}
}

func TestNamingSchemesStaySeparate(t *testing.T) {
	if _, err := ParseAbility("SpecialTime_Up"); !errors.Is(err, ErrUnknownAbility) {
		t.Fatalf("legacy name accepted by canonical parser: %v", err)
	}
	if _, err := ParseLegacyAbility("Action_Up"); !errors.Is(err, ErrUnknownAbility) {
		t.Fatalf("current name accepted by legacy parser: %v", err)
	}
	if SpecialSpecUp.LegacyName() != "SpecialTime_Up" || SpecialSpecUp.String() != "SpecialSpec_Up" {
		t.Fatalf("unexpected names for %d", SpecialSpecUp)
	}
	if MainInkSave.DisplayName() != "Ink Saver (Main)" || ActionUp.DisplayName() != "Intensify Action" {
		t.Fatalf("unexpected display names")
	}
}

func TestParseIsCaseSensitive(t *testing.T) {
	_, err := ParseAbility("mainink_save")
	if !errors.Is(err, ErrUnknownAbility) {
		t.Fatalf("expected ErrUnknownAbility, got %v", err)
	}
	_, err = ParseBrand("b00")
	if !errors.Is(err, ErrUnknownBrand) {
		t.Fatalf("expected ErrUnknownBrand, got %v", err)
	}
	if !strings.Contains(err.Error(), `"B00"`) {
		t.Fatalf("expected suggestion in %q", err)
	}
}

func TestParseBrand(t *testing.T) {
	cases := map[string]Brand{"B00": B00, "B11": B11, "B15": B15, "B20": B20, "B97": B97, "None": BNone}
	for s, want := range cases {
		got, err := ParseBrand(s)
		if err != nil || got != want {
			t.Fatalf("ParseBrand(%q) = %v, %v; want %v", s, got, err, want)
		}
	}
	for _, bad := range []string{"B12", "B13", "B14", "B21", ""} {
		if _, err := ParseBrand(bad); !errors.Is(err, ErrUnknownBrand) {
			t.Fatalf("ParseBrand(%q) err = %v", bad, err)
		}
	}
	if B15 != 12 || BNone != 21 {
		t.Fatalf("ordinals not contiguous: B15=%d None=%d", B15, BNone)
	}
}

func TestSuggest(t *testing.T) {
	if got := Suggest("SubInk_Sav", abilityNames[:]); got != "SubInk_Save" {
		t.Fatalf("Suggest = %q", got)
	}
	if got := Suggest("completely different", abilityNames[:]); got != "" {
		t.Fatalf("Suggest = %q, want none", got)
	}
}

func TestTextMarshaling(t *testing.T) {
	b, err := SquidMoveUp.MarshalText()
	if err != nil || string(b) != "SquidMove_Up" {
		t.Fatalf("MarshalText = %q, %v", b, err)
	}
	var a Ability
	if err := a.UnmarshalText([]byte("JumpTime_Save")); err != nil || a != JumpTimeSave {
		t.Fatalf("UnmarshalText = %v, %v", a, err)
	}
	if _, err := Ability(14).MarshalText(); err == nil {
		t.Fatalf("out of range ability marshaled")
	}
	var br Brand
	if err := br.UnmarshalText([]byte("B19")); err != nil || br != B19 {
		t.Fatalf("UnmarshalText brand = %v, %v", br, err)
	}
}
