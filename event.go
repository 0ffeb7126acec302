package jsonmodem

// FragmentSource tells a consumer whether a String event's payload is a
// slice into the chunk they just passed to Feed or an independent buffer the
// parser owns.
type FragmentSource int8

const (
	// Borrowed means Text is a substring of the chunk passed to the Feed
	// call that produced this event, sharing its memory. Go strings are
	// immutable, so it stays valid after later Feed, Finish or Next calls.
	Borrowed FragmentSource = iota
	// Owned means Text is an independent buffer the caller may retain
	// indefinitely.
	Owned
)

// Fragment is a string payload reported on a String event: either a
// borrowed view into the caller's chunk, or an owned buffer.
type Fragment struct {
	Source FragmentSource
	Text   string
}

// EventKind discriminates the Event variants enumerated in spec.md §4.7.
type EventKind int8

const (
	NullEvent EventKind = iota
	BooleanEvent
	NumberEvent
	StringEvent
	ArrayBeginEvent
	ArrayEndEvent
	ObjectBeginEvent
	ObjectEndEvent
)

// Event is the single flat event type the parser emits. Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Event struct {
	Kind EventKind
	Path Path

	// BooleanEvent
	Bool bool
	// NumberEvent: the lossless textual form, reported verbatim.
	Number string
	// StringEvent
	Fragment  Fragment
	IsInitial bool
	IsFinal   bool
}
