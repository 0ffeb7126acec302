package jsonmodem

// escapeAccumulator decodes a \uXXXX escape into a raw code point as its four
// hex digits arrive, one at a time, possibly across separate Feed calls.
//
// Unlike the original Rust implementation this accumulator never decides
// whether the resulting code point is a valid standalone Unicode scalar
// value (e.g. rejecting lone surrogates): that decision depends on
// ParserOptions.DecodeMode and on whether a surrogate partner follows, both
// of which are the lexer's concern, not this accumulator's. See spec.md
// §4.3.
type escapeAccumulator struct {
	acc uint32
	n   uint8
}

func (e *escapeAccumulator) reset() {
	e.acc = 0
	e.n = 0
}

func hexVal(c rune) (uint32, bool) {
	switch {
	case c >= '0' && c <= '9':
		return uint32(c - '0'), true
	case c >= 'a' && c <= 'f':
		return uint32(c-'a') + 10, true
	case c >= 'A' && c <= 'F':
		return uint32(c-'A') + 10, true
	default:
		return 0, false
	}
}

// feed consumes one hex digit. ok is false if c isn't a hex digit (the
// accumulator is left unchanged so the caller can report the bad character).
// done is true once the fourth digit has arrived, in which case code holds
// the full accumulated value and the accumulator has auto-reset.
func (e *escapeAccumulator) feed(c rune) (code uint32, done bool, ok bool) {
	d, isHex := hexVal(c)
	if !isHex {
		return 0, false, false
	}
	e.acc = (e.acc << 4) | d
	e.n++
	if e.n < 4 {
		return 0, false, true
	}
	code = e.acc
	e.reset()
	return code, true, true
}
