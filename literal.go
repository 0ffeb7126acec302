package jsonmodem

// literalKind says which JSON literal a literalMatcher is chasing.
type literalKind int8

const (
	literalTrue literalKind = iota
	literalFalse
	literalNull
)

var literalText = [...]string{
	literalTrue:  "true",
	literalFalse: "false",
	literalNull:  "null",
}

// literalStep is the result of feeding one character to a literalMatcher.
type literalStep int8

const (
	// literalNeedMore means the character matched and more are expected.
	literalNeedMore literalStep = iota
	// literalDone means the final character matched and the literal is
	// complete.
	literalDone
	// literalReject means the character doesn't match the expected
	// literal at this position.
	literalReject
)

// literalMatcher incrementally matches one of true/false/null across
// however many Feed calls it takes, one character at a time. Grounded on
// the teacher's t1/t2/t3, f1/f2/f3/f4, n1/n2/n3 states (parser.go), but
// generalized here into a standalone value so the lexer can carry matcher
// progress as plain carryover state between chunks instead of encoding it
// into the lex-state enum.
type literalMatcher struct {
	kind literalKind
	pos  int // next byte of literalText[kind] we expect
}

// start begins matching the literal whose first character is c. ok is false
// if c can't start any recognized literal.
func (m *literalMatcher) start(c rune) (ok bool) {
	switch c {
	case 't':
		m.kind = literalTrue
	case 'f':
		m.kind = literalFalse
	case 'n':
		m.kind = literalNull
	default:
		return false
	}
	m.pos = 1
	return true
}

// step feeds the next character.
func (m *literalMatcher) step(c rune) literalStep {
	want := literalText[m.kind]
	if m.pos >= len(want) || rune(want[m.pos]) != c {
		return literalReject
	}
	m.pos++
	if m.pos == len(want) {
		return literalDone
	}
	return literalNeedMore
}

// value returns the boolean/null value matched; callers must only call this
// after step returns literalDone.
func (m *literalMatcher) value() (isNull bool, boolValue bool) {
	switch m.kind {
	case literalNull:
		return true, false
	case literalTrue:
		return false, true
	default: // literalFalse
		return false, false
	}
}
