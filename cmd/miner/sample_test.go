package main

import (
	"math"
	"strings"
	"testing"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
)

func TestSampleSlotsTracksModel(t *testing.T) {
	slots := []roll.Slot{
		roll.NewSlot(ability.OpInkEffectReduction),
		roll.NewDrinkSlot(ability.ActionUp, ability.ActionUp),
	}
	rows := sampleSlots(ability.B00, slots, 200000, 0)
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if math.Abs(rows[0].Expected-10.0/35) > 1e-9 || math.Abs(rows[1].Expected-0.3) > 1e-9 {
		t.Fatalf("expected = %f, %f", rows[0].Expected, rows[1].Expected)
	}
	for _, r := range rows {
		if math.Abs(r.Observed-r.Expected) > 0.01 || r.MaxDeviation > 0.01 {
			t.Errorf("%s: observed %f expected %f max deviation %f", r.Slot, r.Observed, r.Expected, r.MaxDeviation)
		}
	}
}

func TestPrintSample(t *testing.T) {
	var sb strings.Builder
	printSample(&sb, 10, []sampleSlot{{Slot: "Action_Up", Expected: 0.3, Observed: 0.25, MaxDeviation: 0.05}})
	want := "# sample slot 1: Action_Up expected 0.3000 observed 0.2500 over 10 rolls (max deviation 0.0500)\n"
	if sb.String() != want {
		t.Fatalf("got %q", sb.String())
	}
}
