package xorshift

// Advance performs one xorshift32 step (13, 17, 5) on state and returns the
// new value. Zero is a fixed point and is left as is.
func Advance(state *uint32) uint32 {
	s := *state
	s ^= s << 13
	s ^= s >> 17
	s ^= s << 5
	*state = s
	return s
}

// Source is a replicable xorshift32 stream, e.g. for sampling start states.
type Source struct {
	state uint32
}

// New returns a Source positioned at seed.
func New(seed uint32) *Source {
	return &Source{state: seed}
}

// Next advances the stream and returns the new state.
func (s *Source) Next() uint32 { return Advance(&s.state) }
