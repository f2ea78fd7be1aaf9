package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"time"

	jsoniter "github.com/json-iterator/go"
	_ "go.uber.org/automaxprocs"
	"go.uber.org/zap"

	"github.com/xtding233/ability-miner/internal/bridge"
	"github.com/xtding233/ability-miner/internal/config"
	"github.com/xtding233/ability-miner/internal/logging"
	"github.com/xtding233/ability-miner/internal/odds"
	"github.com/xtding233/ability-miner/internal/roll"
	"github.com/xtding233/ability-miner/internal/search"
)

const usage = `Usage: miner [flags] <brand> <ability> [drink <ability>] ...

Prints every seed whose rolls for <brand> reproduce the listed abilities in
order. Follow an ability with "drink <ability>" if a drink was active for
that roll.

Flags:
`

type oddsOut struct {
	Slots         []string `json:"slots"`
	Joint         string   `json:"joint"`
	OneIn         string   `json:"oneIn"`
	ExpectedSeeds string   `json:"expectedSeeds"`
}

type output struct {
	bridge.Response
	Odds   *oddsOut     `json:"odds,omitempty"`
	Sample []sampleSlot `json:"sample,omitempty"`
}

func main() {
	confDir := flag.String("conf", "configs", "config directory")
	profile := flag.String("profile", "", "config profile")
	capFlag := flag.Uint64("cap", 0, "maximum seeds to print, 0 = all (default from config)")
	jsonOut := flag.Bool("json", false, "print a JSON document instead of seed lines")
	legacy := flag.Bool("legacy", false, "parse the previous title's ability identifiers")
	first := flag.Uint64("first", 0, "first candidate seed")
	last := flag.Uint64("last", math.MaxUint32, "last candidate seed")
	showOdds := flag.Bool("odds", false, "print the estimated hit count first")
	sampleN := flag.Int("sample", 0, "roll N times per slot and compare with the model before searching")
	sampleSeed := flag.Uint("sample-seed", 1, "generator seed for -sample start states")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	b, slots, err := parseArgs(flag.Args(), *legacy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if len(flag.Args()) == 0 {
			flag.Usage()
		}
		os.Exit(2)
	}
	if *sampleN < 0 || *sampleSeed > math.MaxUint32 {
		fmt.Fprintln(os.Stderr, "error: -sample must be >= 0 and -sample-seed must fit in 32 bits")
		os.Exit(2)
	}
	if *first > math.MaxUint32 || *last > math.MaxUint32 || *first > *last {
		fmt.Fprintf(os.Stderr, "error: need 0 <= first <= last <= %d\n", uint32(math.MaxUint32))
		os.Exit(2)
	}

	cfg, err := config.NewLoader(*confDir).Load(*profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	req := search.Request{Brand: b, Slots: slots, Cap: cfg.Search.Cap}
	if set["cap"] {
		req.Cap = *capFlag
	}
	var est *odds.Estimate
	if *showOdds {
		e := odds.Compute(b, slots)
		est = &e
	}
	var sample []sampleSlot
	if *sampleN > 0 {
		sample = sampleSlots(b, slots, *sampleN, uint32(*sampleSeed))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	engine := search.NewEngine(search.Options{
		Workers:          cfg.Search.Workers,
		ChunkSize:        cfg.Search.ChunkSize,
		ProgressInterval: cfg.Search.ProgressInterval,
	}, logger)
	start := time.Now()
	seeds, err := engine.Search(ctx, search.Range{First: uint32(*first), Last: uint32(*last)}, req)
	if err != nil {
		logger.Error("search aborted", zap.Error(err))
		os.Exit(1)
	}

	resp := bridge.NewResponse(b, seeds, time.Since(start).Milliseconds())
	if *jsonOut {
		out := output{Response: resp}
		if est != nil {
			out.Odds = formatOdds(*est)
		}
		out.Sample = sample
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			os.Exit(1)
		}
		return
	}
	if est != nil {
		printOdds(os.Stdout, *est)
	}
	if sample != nil {
		printSample(os.Stdout, *sampleN, sample)
	}
	for _, s := range seeds {
		fmt.Printf("%10d %08x\n", s, s)
	}
}

func slotLabel(s roll.Slot) string {
	if s.Drink.Active {
		return fmt.Sprintf("%s (drink %s)", s.Ability, s.Drink.Ability)
	}
	return s.Ability.String()
}

func formatOdds(e odds.Estimate) *oddsOut {
	out := &oddsOut{
		Joint:         e.Joint.Value().String(),
		OneIn:         e.OneIn().String(),
		ExpectedSeeds: e.ExpectedSeeds.StringFixed(2),
	}
	for _, s := range e.Slots {
		out.Slots = append(out.Slots, fmt.Sprintf("%s %s%%", slotLabel(s.Slot), odds.Percent(s.P, 4)))
	}
	return out
}

func printOdds(w io.Writer, e odds.Estimate) {
	fmt.Fprintf(w, "# brand %s\n", e.Brand)
	for i, s := range e.Slots {
		fmt.Fprintf(w, "# slot %d: %s %s%%\n", i+1, slotLabel(s.Slot), odds.Percent(s.P, 4))
	}
	fmt.Fprintf(w, "# 1 in %s, about %s of %d seeds\n", e.OneIn(), e.ExpectedSeeds.StringFixed(2), uint64(1)<<32)
}
