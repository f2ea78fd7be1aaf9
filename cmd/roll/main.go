package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/xtding233/ability-miner/internal/bridge"
	"github.com/xtding233/ability-miner/internal/roll"
)

var errTimes = errors.New("times must be >= 0")

// newRequest builds a local roll request. Unlike the network surfaces the
// CLI takes any non-negative count.
func newRequest(seed, brand, drink string, times int, legacy bool) (bridge.RollRequest, error) {
	if times < 0 {
		return bridge.RollRequest{}, errTimes
	}
	req, err := bridge.ParseRollTarget(seed, brand, drink, legacy)
	if err != nil {
		return req, err
	}
	req.Times = times
	return req, nil
}

// printRolls writes "<state>, <display name>" after each roll.
func printRolls(w io.Writer, req bridge.RollRequest) error {
	bw := bufio.NewWriter(w)
	state := req.Seed
	for i := 0; i < req.Times; i++ {
		a := roll.Roll(&state, req.Brand, req.Drink)
		fmt.Fprintf(bw, "%d, %s\n", state, a.DisplayName())
	}
	return bw.Flush()
}

func main() {
	seed := flag.String("seed", "", "generator seed, decimal or 0x hex (required)")
	brand := flag.String("brand", "", "gear brand code, e.g. B00 or None (required)")
	drink := flag.String("drink", "", "active drink ability, if any")
	times := flag.Int("times", 1, "how many abilities to roll")
	legacy := flag.Bool("legacy", false, "parse the previous title's ability identifiers")
	flag.Parse()

	if *seed == "" || *brand == "" {
		flag.Usage()
		os.Exit(2)
	}
	req, err := newRequest(*seed, *brand, *drink, *times, *legacy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if err := printRolls(os.Stdout, req); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
