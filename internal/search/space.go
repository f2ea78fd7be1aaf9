package search

import "math"

// Space is a finite, indexable sequence of candidate seeds.
type Space interface {
	Len() uint64
	At(i uint64) uint32
}

// Range is the inclusive seed interval [First, Last].
type Range struct {
	First, Last uint32
}

// Full is every 32-bit seed.
func Full() Range { return Range{First: 0, Last: math.MaxUint32} }

func (r Range) Len() uint64 {
	if r.Last < r.First {
		return 0
	}
	return uint64(r.Last-r.First) + 1
}

func (r Range) At(i uint64) uint32 { return r.First + uint32(i) }

// List is an explicit candidate set, scanned in slice order.
type List []uint32

func (l List) Len() uint64 { return uint64(len(l)) }

func (l List) At(i uint64) uint32 { return l[i] }
