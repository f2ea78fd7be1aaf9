package ability

const (
	weightUnusual = 1
	weightUsual   = 10
	weightOther   = 2
)

// WeightVector holds one weight per ability ordinal.
type WeightVector [NumAbilities]uint32

// distribution is one brand's precomputed roll tables.
type distribution struct {
	weights WeightVector
	total   uint32
	flat    []Ability
	// drink[d] omits ability d from the expansion.
	drink [NumAbilities][]Ability
}

// tables is built once at package init and only read afterwards, so it is
// safe to share between search workers without locking.
var tables = buildTables()

func buildTables() *[NumBrands]distribution {
	var out [NumBrands]distribution
	for b := Brand(0); b < NumBrands; b++ {
		d := &out[b]
		d.weights = brandWeights(b)
		for _, w := range d.weights {
			d.total += w
		}
		d.flat = expand(&d.weights, -1)
		for drink := 0; drink < NumAbilities; drink++ {
			d.drink[drink] = expand(&d.weights, drink)
		}
	}
	return &out
}

func brandWeights(b Brand) WeightVector {
	var w WeightVector
	for i := range w {
		w[i] = weightOther
	}
	if b.IsGeneric() {
		return w
	}
	bb := brandBias[b]
	w[bb.unusual] = weightUnusual
	w[bb.usual] = weightUsual
	return w
}

// expand lays out each ability w[a] times in ordinal order, skipping the
// ability at ordinal skip (pass -1 to keep all).
func expand(w *WeightVector, skip int) []Ability {
	var n uint32
	for a, wa := range w {
		if a != skip {
			n += wa
		}
	}
	out := make([]Ability, 0, n)
	for a, wa := range w {
		if a == skip {
			continue
		}
		for k := uint32(0); k < wa; k++ {
			out = append(out, Ability(a))
		}
	}
	return out
}

// Weights returns b's weight vector.
func Weights(b Brand) WeightVector { return tables[b].weights }

// TotalWeight is the modulus of an unconditioned roll for b: 35, or 28 for
// generic brands.
func TotalWeight(b Brand) uint32 { return tables[b].total }

// DrinkTotalWeight is the modulus of the reroll after a missed drink proc.
func DrinkTotalWeight(b Brand, drink Ability) uint32 {
	d := &tables[b]
	return d.total - d.weights[drink]
}

// FlatTable returns b's expanded outcome table. The slice is shared and
// must not be modified.
func FlatTable(b Brand) []Ability { return tables[b].flat }

// DrinkFlatTable returns b's expanded table with drink removed. The slice is
// shared and must not be modified.
func DrinkFlatTable(drink Ability, b Brand) []Ability { return tables[b].drink[drink] }

// Pick returns the weighted outcome for an already advanced state.
func Pick(b Brand, state uint32) Ability {
	d := &tables[b]
	return d.flat[state%d.total]
}

// PickDrink returns the reroll outcome for an already advanced state when
// the drink did not proc.
func PickDrink(b Brand, drink Ability, state uint32) Ability {
	t := tables[b].drink[drink]
	return t[state%uint32(len(t))]
}
