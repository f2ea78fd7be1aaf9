package main

import (
	"fmt"
	"io"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/odds"
	"github.com/xtding233/ability-miner/internal/roll"
	"github.com/xtding233/ability-miner/internal/xorshift"
)

// sampleSlot compares one slot's model probability with a simulated run.
type sampleSlot struct {
	Slot         string  `json:"slot"`
	Expected     float64 `json:"expected"`
	Observed     float64 `json:"observed"`
	MaxDeviation float64 `json:"maxDeviation"`
}

// sampleSlots rolls trials times per slot, each slot drawing its start
// states from its own stream seeded with seed. seed 0 is a fixed point of
// the generator and is replaced by 1.
func sampleSlots(b ability.Brand, slots []roll.Slot, trials int, seed uint32) []sampleSlot {
	if seed == 0 {
		seed = 1
	}
	out := make([]sampleSlot, len(slots))
	for i, s := range slots {
		f := odds.Sample(b, s.Drink, trials, xorshift.New(seed))
		want, _ := odds.SlotProbability(b, s).Value().Float64()
		out[i] = sampleSlot{
			Slot:         slotLabel(s),
			Expected:     want,
			Observed:     f.Rate(s.Ability),
			MaxDeviation: f.MaxDeviation(b, s.Drink),
		}
	}
	return out
}

func printSample(w io.Writer, trials int, rows []sampleSlot) {
	for i, r := range rows {
		fmt.Fprintf(w, "# sample slot %d: %s expected %.4f observed %.4f over %d rolls (max deviation %.4f)\n",
			i+1, r.Slot, r.Expected, r.Observed, trials, r.MaxDeviation)
	}
}
