package bridge

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"

	"github.com/xtding233/ability-miner/internal/ability"
	"github.com/xtding233/ability-miner/internal/roll"
	"github.com/xtding233/ability-miner/internal/search"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrTooManySlots = errors.New("too many slots")
)

// Request is a decoded search request.
type Request struct {
	Brand ability.Brand
	Slots []roll.Slot
	// Cap is nil when the caller did not send one; 0 means unbounded.
	Cap *uint64
	// Range restricts the candidate seeds; nil scans all 2^32.
	Range *search.Range
}

// Response is what every surface returns for a search.
type Response struct {
	Brand     ability.Brand `json:"brand"`
	Seeds     []uint32      `json:"seeds"`
	Hex       []string      `json:"hex"`
	ElapsedMs int64         `json:"elapsedMs"`
}

// NewResponse fills the hex column from seeds.
func NewResponse(b ability.Brand, seeds []uint32, elapsedMs int64) Response {
	hex := make([]string, len(seeds))
	for i, s := range seeds {
		hex[i] = fmt.Sprintf("%08x", s)
	}
	if seeds == nil {
		seeds = []uint32{}
	}
	return Response{Brand: b, Seeds: seeds, Hex: hex, ElapsedMs: elapsedMs}
}

// DecodeRequest parses a JSON body of the form
//
//	{"brand": "B00" | 0, "slots": [packed | {"ability": name|ord, "drink": name|ord}],
//	 "cap": 100, "first": 0, "last": 4294967295, "legacy": false}
//
// "legacy" selects the previous title's ability identifiers for names.
func DecodeRequest(body []byte) (Request, error) {
	var req Request
	if !gjson.ValidBytes(body) {
		return req, fmt.Errorf("%w: invalid JSON", ErrBadRequest)
	}
	root := gjson.ParseBytes(body)
	legacy := root.Get("legacy").Bool()

	b, err := decodeBrand(root.Get("brand"))
	if err != nil {
		return req, err
	}
	req.Brand = b

	slots := root.Get("slots")
	if !slots.IsArray() {
		return req, fmt.Errorf("%w: slots must be an array", ErrBadRequest)
	}
	for i, v := range slots.Array() {
		s, err := decodeSlot(v, legacy)
		if err != nil {
			return req, fmt.Errorf("slot %d: %w", i, err)
		}
		req.Slots = append(req.Slots, s)
	}

	if c := root.Get("cap"); c.Exists() {
		v, err := decodeUint(c, math.MaxUint64)
		if err != nil {
			return req, fmt.Errorf("cap: %w", err)
		}
		req.Cap = &v
	}

	first, last := root.Get("first"), root.Get("last")
	if first.Exists() || last.Exists() {
		r := search.Full()
		if first.Exists() {
			v, err := decodeUint(first, math.MaxUint32)
			if err != nil {
				return req, fmt.Errorf("first: %w", err)
			}
			r.First = uint32(v)
		}
		if last.Exists() {
			v, err := decodeUint(last, math.MaxUint32)
			if err != nil {
				return req, fmt.Errorf("last: %w", err)
			}
			r.Last = uint32(v)
		}
		if r.First > r.Last {
			return req, fmt.Errorf("%w: first %d > last %d", ErrBadRequest, r.First, r.Last)
		}
		req.Range = &r
	}
	return req, nil
}

func decodeUint(r gjson.Result, limit uint64) (uint64, error) {
	if r.Type != gjson.Number || r.Num < 0 || r.Num != math.Trunc(r.Num) {
		return 0, fmt.Errorf("%w: %s is not a non-negative integer", ErrBadRequest, r.Raw)
	}
	v := r.Uint()
	if v > limit {
		return 0, fmt.Errorf("%w: %s out of range", ErrBadRequest, r.Raw)
	}
	return v, nil
}

func decodeBrand(r gjson.Result) (ability.Brand, error) {
	switch r.Type {
	case gjson.String:
		return ability.ParseBrand(r.Str)
	case gjson.Number:
		v, err := decodeUint(r, ability.NumBrands-1)
		if err != nil {
			return 0, fmt.Errorf("brand: %w", ability.ErrUnknownBrand)
		}
		return ability.Brand(v), nil
	case gjson.Null:
		if !r.Exists() {
			return 0, fmt.Errorf("%w: missing brand", ErrBadRequest)
		}
	}
	return 0, fmt.Errorf("%w: brand must be a code or ordinal", ErrBadRequest)
}

func decodeAbility(r gjson.Result, legacy bool) (ability.Ability, error) {
	switch r.Type {
	case gjson.String:
		if legacy {
			return ability.ParseLegacyAbility(r.Str)
		}
		return ability.ParseAbility(r.Str)
	case gjson.Number:
		v, err := decodeUint(r, ability.NumAbilities-1)
		if err != nil {
			return 0, fmt.Errorf("%w: ordinal %s", ability.ErrUnknownAbility, r.Raw)
		}
		return ability.Ability(v), nil
	}
	return 0, fmt.Errorf("%w: ability must be a name or ordinal", ErrBadRequest)
}

func decodeSlot(v gjson.Result, legacy bool) (roll.Slot, error) {
	switch {
	case v.Type == gjson.Number:
		p, err := decodeUint(v, math.MaxUint32)
		if err != nil {
			return roll.Slot{}, err
		}
		return UnpackSlot(uint32(p))
	case v.IsObject():
		a, err := decodeAbility(v.Get("ability"), legacy)
		if err != nil {
			return roll.Slot{}, err
		}
		d := v.Get("drink")
		if !d.Exists() || d.Type == gjson.Null {
			return roll.NewSlot(a), nil
		}
		da, err := decodeAbility(d, legacy)
		if err != nil {
			return roll.Slot{}, fmt.Errorf("drink: %w", err)
		}
		return roll.NewDrinkSlot(a, da), nil
	}
	return roll.Slot{}, fmt.Errorf("%w: slot must be a packed integer or an object", ErrBadRequest)
}

// Runner executes decoded requests against an engine.
type Runner struct {
	Engine *search.Engine
	// DefaultCap applies when a request carries no cap.
	DefaultCap uint64
	// MaxSlots <= 0 means no limit.
	MaxSlots int
	// MaxCap bounds every cap, including an explicit 0. 0 means no bound.
	MaxCap uint64
}

// SearchRequest resolves defaults into a core request.
func (rn Runner) SearchRequest(req Request) search.Request {
	c := rn.DefaultCap
	if req.Cap != nil {
		c = *req.Cap
	}
	if rn.MaxCap > 0 && (c == 0 || c > rn.MaxCap) {
		c = rn.MaxCap
	}
	return search.Request{Brand: req.Brand, Slots: req.Slots, Cap: c}
}

// Run validates req and searches its range. A request without slots
// matches every seed and is rejected.
func (rn Runner) Run(ctx context.Context, req Request) ([]uint32, error) {
	if len(req.Slots) == 0 {
		return nil, fmt.Errorf("%w: no slots", ErrBadRequest)
	}
	if rn.MaxSlots > 0 && len(req.Slots) > rn.MaxSlots {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManySlots, len(req.Slots), rn.MaxSlots)
	}
	sr := rn.SearchRequest(req)
	if err := sr.Validate(); err != nil {
		return nil, err
	}
	var space search.Space = search.Full()
	if req.Range != nil {
		space = *req.Range
	}
	return rn.Engine.Search(ctx, space, sr)
}

// IsClientError reports whether err was caused by the request rather than
// the server.
func IsClientError(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrBadSlot) ||
		errors.Is(err, ErrTooManySlots) ||
		errors.Is(err, ability.ErrUnknownAbility) ||
		errors.Is(err, ability.ErrUnknownBrand)
}
