//go:build js
// +build js

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gopherjs/gopherjs/js"
	jsoniter "github.com/json-iterator/go"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/bridge"
	"github.com/xtding233/ability-miner/internal/search"
)

const defaultCap = 100

// The browser has one thread; a single worker also keeps hits in
// encounter order.
var runner = bridge.Runner{
	Engine:     search.NewEngine(search.Options{Workers: 1}, nil),
	DefaultCap: defaultCap,
}

func failure(err error) map[string]interface{} {
	return map[string]interface{}{"error": err.Error()}
}

// searchPacked scans all 2^32 seeds. limit < 0 uses the default; 0 is
// unbounded.
func searchPacked(brand string, packed *js.Object, limit int) map[string]interface{} {
	b, err := ability.ParseBrand(brand)
	if err != nil {
		return failure(err)
	}
	var ints []int64
	if packed != nil && packed != js.Undefined {
		for i := 0; i < packed.Length(); i++ {
			ints = append(ints, packed.Index(i).Int64())
		}
	}
	slots, err := bridge.UnpackInts(ints)
	if err != nil {
		return failure(err)
	}
	req := bridge.Request{Brand: b, Slots: slots}
	if limit >= 0 {
		c := uint64(limit)
		req.Cap = &c
	}

	start := time.Now()
	seeds, err := runner.Run(context.Background(), req)
	if err != nil {
		return failure(err)
	}
	resp := bridge.NewResponse(b, seeds, time.Since(start).Milliseconds())
	return map[string]interface{}{
		"brand":     resp.Brand.String(),
		"seeds":     resp.Seeds,
		"hex":       resp.Hex,
		"elapsedMs": resp.ElapsedMs,
	}
}

// rollSeed accepts the seed as a number or a decimal/hex string.
func rollSeed(seed *js.Object, brand, drink string, times int) map[string]interface{} {
	if seed == nil || seed == js.Undefined {
		return failure(fmt.Errorf("%w: missing seed", bridge.ErrBadRequest))
	}
	n := ""
	if times > 0 {
		n = fmt.Sprint(times)
	}
	req, err := bridge.ParseRollRequest(seed.String(), brand, drink, n, false)
	if err != nil {
		return failure(err)
	}
	var rolls []map[string]interface{}
	for _, step := range bridge.Rolls(req) {
		rolls = append(rolls, map[string]interface{}{
			"state":   step.State,
			"ability": step.Ability.String(),
			"display": step.Display,
		})
	}
	return map[string]interface{}{"rolls": rolls}
}

func main() {
	js.Global.Set("AbilityMiner", map[string]interface{}{
		"search": searchPacked,
		"roll":   rollSeed,
		"pack": func(a, drink int) map[string]interface{} {
			v, err := bridge.PackOrdinals(a, drink)
			if err != nil {
				return failure(err)
			}
			return map[string]interface{}{"packed": v}
		},
		"catalog": func() string {
			b, _ := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalToString(bridge.Catalog())
			return b
		},
	})
}
