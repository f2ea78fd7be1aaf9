package search

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
)

// Seed 1 on B00 first rolls OpInkEffect_Reduction.
var seedOneReq = Request{
	Brand: ability.B00,
	Slots: []roll.Slot{roll.NewSlot(ability.OpInkEffectReduction)},
}

func bruteForce(space Space, req Request) []uint32 {
	var out []uint32
	for i := uint64(0); i < space.Len(); i++ {
		if roll.MatchesSeed(space.At(i), req.Brand, req.Slots) {
			out = append(out, space.At(i))
		}
	}
	return out
}

func TestSearchFindsSeedOne(t *testing.T) {
	e := NewEngine(Options{Workers: 4, ChunkSize: 64}, nil)
	got, err := e.Search(context.Background(), Range{First: 1, Last: 1000}, seedOneReq)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(got, 1) {
		t.Fatalf("seed 1 missing from %d hits", len(got))
	}
	want := bruteForce(Range{First: 1, Last: 1000}, seedOneReq)
	if !slices.Equal(got, want) {
		t.Fatalf("parallel hits differ from brute force: %d vs %d", len(got), len(want))
	}
}

func TestSearchCapSequentialIsExactAndOrdered(t *testing.T) {
	e := NewEngine(Options{Workers: 1, ChunkSize: 7}, nil)
	req := seedOneReq
	req.Cap = 5
	got, err := e.Search(context.Background(), Range{First: 1, Last: 1000}, req)
	if err != nil {
		t.Fatal(err)
	}
	all := bruteForce(Range{First: 1, Last: 1000}, seedOneReq)
	if len(all) < 20 {
		t.Fatalf("fixture too small: %d hits", len(all))
	}
	if !slices.Equal(got, all[:5]) {
		t.Fatalf("got %v, want first five %v", got, all[:5])
	}
}

func TestSearchCapParallelIsBestEffort(t *testing.T) {
	const workers = 4
	e := NewEngine(Options{Workers: workers, ChunkSize: 16}, zap.NewNop())
	req := seedOneReq
	req.Cap = 5
	got, err := e.Search(context.Background(), Range{First: 1, Last: 1000}, req)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) < 5 || len(got) > 5+workers-1 {
		t.Fatalf("got %d hits, want between 5 and %d", len(got), 5+workers-1)
	}
	if !slices.IsSorted(got) {
		t.Fatalf("parallel hits not sorted: %v", got)
	}
	for _, s := range got {
		if !roll.MatchesSeed(s, req.Brand, req.Slots) {
			t.Fatalf("seed %d returned but does not match", s)
		}
	}
}

func TestSearchListKeepsEncounterOrder(t *testing.T) {
	e := NewEngine(Options{Workers: 1}, nil)
	req := seedOneReq
	req.Cap = 3
	got, err := e.Search(context.Background(), List{13, 3, 8, 7, 1, 2}, req)
	if err != nil {
		t.Fatal(err)
	}
	want := bruteForce(List{13, 3, 8, 7, 1, 2}, seedOneReq)[:3]
	if !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSearchMultiSlotWithDrink(t *testing.T) {
	drinks := []roll.Drink{roll.NoDrink, roll.With(ability.SubInkSave), roll.With(ability.SubInkSave), roll.NoDrink}
	const seed = 0x00C0FFEE
	slots := roll.Observe(seed, ability.B05, drinks)
	req := Request{Brand: ability.B05, Slots: slots}
	space := Range{First: seed - 5000, Last: seed + 5000}

	e := NewEngine(Options{Workers: 3, ChunkSize: 256}, nil)
	got, err := e.Search(context.Background(), space, req)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(got, seed) {
		t.Fatalf("seed %#x not recovered (hits %v)", seed, got)
	}
	if !slices.Equal(got, bruteForce(space, req)) {
		t.Fatalf("hits differ from brute force")
	}
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := NewEngine(Options{Workers: 2}, nil)
	got, err := e.Search(ctx, Full(), seedOneReq)
	if !errors.Is(err, context.Canceled) || got != nil {
		t.Fatalf("got %v, %v; want nil, context.Canceled", got, err)
	}
}

func TestSearchEmptySpace(t *testing.T) {
	e := NewEngine(Options{}, nil)
	got, err := e.Search(context.Background(), List{}, seedOneReq)
	if err != nil || len(got) != 0 {
		t.Fatalf("got %v, %v", got, err)
	}
	if (Range{First: 10, Last: 9}).Len() != 0 {
		t.Fatalf("inverted range must be empty")
	}
}

func TestSearchProgressLogging(t *testing.T) {
	e := NewEngine(Options{Workers: 2, ChunkSize: 1024, ProgressInterval: time.Millisecond}, zap.NewNop())
	if _, err := e.Search(context.Background(), Range{First: 0, Last: 200000}, seedOneReq); err != nil {
		t.Fatal(err)
	}
}

func TestFullRange(t *testing.T) {
	f := Full()
	if f.Len() != 1<<32 {
		t.Fatalf("Full().Len() = %d", f.Len())
	}
	if f.At(0) != 0 || f.At(1<<32-1) != 0xFFFFFFFF {
		t.Fatalf("Full endpoints wrong")
	}
}

func TestVerifyPanicsOnInconsistentPredicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	never := func(uint32, ability.Brand, []roll.Slot) bool { return false }
	verify([]uint32{1}, seedOneReq, never)
}

func TestRequestValidate(t *testing.T) {
	if err := seedOneReq.Validate(); err != nil {
		t.Fatal(err)
	}
	bad := Request{Brand: ability.NumBrands}
	if err := bad.Validate(); !errors.Is(err, ability.ErrUnknownBrand) {
		t.Fatalf("err = %v", err)
	}
	bad = Request{Brand: ability.B00, Slots: []roll.Slot{roll.NewDrinkSlot(ability.MainInkSave, 20)}}
	if err := bad.Validate(); !errors.Is(err, ability.ErrUnknownAbility) {
		t.Fatalf("err = %v", err)
	}
}
