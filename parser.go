package jsonmodem

// parseState names the document-structure contexts enumerated in
// spec.md §4.6, tracked independently of lexState: the lexer decides what
// kind of token comes next, the parser decides what it means for the path
// and for container nesting.
type parseState int8

const (
	parseStart parseState = iota
	parseBeforePropertyName
	parseAfterPropertyName
	parseBeforePropertyValue
	parseBeforeArrayValue
	parseAfterPropertyValue
	parseAfterArrayValue
	parseEnd
	parseError
)

// containerKind records whether a still-open container is an object or an
// array, so closing punctuation knows which path component to drop and
// which End event to emit.
type containerKind int8

const (
	containerObject containerKind = iota
	containerArray
)

// Parser incrementally parses a stream of JSON text delivered in arbitrary
// chunks, emitting path-addressed structural events rather than building a
// value tree. Grounded on the teacher's parser struct (parser.go) for the
// carryover-state shape, generalized from a single Parse(io.Reader) call
// into persistent state that survives across separate Feed calls.
type Parser struct {
	opts ParserOptions

	scanner    scanner
	lexState   lexState
	parseState parseState

	path       Path
	containers []containerKind
	// returnStates holds, for each currently open container, the
	// parseState to resume at the parent level once that container
	// closes (mirrors the teacher's modeStack/valueStack pushdown
	// automaton, generalized from value construction to pure state
	// resumption).
	returnStates []parseState

	literal              literalMatcher
	escape               escapeAccumulator
	pendingHighSurrogate *uint32

	stringIsKey   bool
	stringStarted bool

	finishing bool
	closed    bool
}

// New creates a Parser ready to accept chunks via Feed.
func New(opts ParserOptions) *Parser {
	return &Parser{
		opts:    opts,
		scanner: newScanner(),
	}
}

// FeedIter is a pull-style iterator over the events produced by a single
// Feed or Finish call. Go has no destructor to run finalization lazily on
// drop (see DESIGN.md OQ-1), so all events are computed eagerly inside
// Feed/Finish; FeedIter only replays them.
type FeedIter struct {
	events []Event
	err    error
	pos    int
}

// Next returns the next event, or ok=false once the iterator is drained.
// A non-nil error is returned at most once, as the final step before ok
// becomes false for good.
func (it *FeedIter) Next() (Event, error, bool) {
	if it.pos < len(it.events) {
		e := it.events[it.pos]
		it.pos++
		return e, nil, true
	}
	if it.err != nil {
		err := it.err
		it.err = nil
		return Event{}, err, false
	}
	return Event{}, nil, false
}

// Feed supplies the next chunk of input text and returns an iterator over
// whatever events that chunk completes. The chunk is not retained beyond
// this call except via Borrowed fragments in the returned events, which
// share its memory (see Fragment).
func (p *Parser) Feed(chunk string) *FeedIter {
	p.scanner.setChunk(chunk)
	events, err := p.drive()
	return &FeedIter{events: events, err: err}
}

// Finish signals end of input and returns an iterator over any trailing
// events, failing with UnexpectedEndOfInput if the document was left
// incomplete.
func (p *Parser) Finish() *FeedIter {
	p.finishing = true
	p.scanner.setChunk("")
	events, err := p.drive()
	if err == nil {
		err = p.checkFinished()
	}
	p.closed = true
	return &FeedIter{events: events, err: err}
}

// drive runs the lex/parse loop until the current chunk is exhausted or an
// error occurs.
func (p *Parser) drive() ([]Event, error) {
	var events []Event
	for {
		if p.parseState == parseError {
			return events, nil
		}
		tok, ok, err := p.lexStep()
		if err != nil {
			return events, err
		}
		if !ok {
			p.scanner.finishChunk()
			return events, nil
		}
		ev, err := p.consumeToken(tok)
		if err != nil {
			return events, err
		}
		if ev != nil {
			events = append(events, *ev)
		}
	}
}

// checkFinished reports whether the document is in a state where no more
// input is a valid way to end: either a complete root value (parseEnd) or
// nothing ever began (parseStart with no token in progress).
func (p *Parser) checkFinished() error {
	if p.scanner.hasPendingPartialRune() {
		return p.unexpectedEOF()
	}
	if p.parseState == parseEnd {
		return nil
	}
	if p.parseState == parseStart && p.lexState == lexStart {
		return nil
	}
	return p.unexpectedEOF()
}

// nextParseState maps a "before a value" context to the context the parser
// resumes in immediately after a non-nesting scalar value at that position.
func nextParseState(ps parseState) parseState {
	switch ps {
	case parseStart:
		return parseEnd
	case parseBeforePropertyValue:
		return parseAfterPropertyValue
	case parseBeforeArrayValue:
		return parseAfterArrayValue
	default:
		return parseError
	}
}

// consumeToken applies one lexer token to the path/container state and
// returns the Event it produces, if any.
func (p *Parser) consumeToken(tok lexToken) (*Event, error) {
	switch tok.kind {
	case tokPunctuator:
		return p.consumePunctuator(tok.punct)
	case tokPropertyName:
		p.path.pushKey(tok.propertyName)
		p.parseState = parseAfterPropertyName
		p.lexState = lexStateFor(p.parseState)
		return nil, nil
	case tokString:
		ev := &Event{Kind: StringEvent, Path: p.path.Clone(), Fragment: tok.fragment, IsInitial: tok.isInitial, IsFinal: tok.isFinal}
		if tok.isFinal {
			p.completeValue()
		}
		return ev, nil
	case tokNumber:
		ev := &Event{Kind: NumberEvent, Path: p.path.Clone(), Number: tok.number}
		p.completeValue()
		return ev, nil
	case tokBoolean:
		ev := &Event{Kind: BooleanEvent, Path: p.path.Clone(), Bool: tok.boolValue}
		p.completeValue()
		return ev, nil
	case tokNull:
		ev := &Event{Kind: NullEvent, Path: p.path.Clone()}
		p.completeValue()
		return ev, nil
	}
	return nil, nil
}

// completeValue advances parseState past a just-finished non-nesting
// scalar value and re-syncs the lexer's trampoline state.
func (p *Parser) completeValue() {
	p.parseState = nextParseState(p.parseState)
	p.lexState = lexStateFor(p.parseState)
}

func (p *Parser) consumePunctuator(b byte) (*Event, error) {
	switch b {
	case '{':
		return p.beginContainer(containerObject)
	case '[':
		return p.beginContainer(containerArray)
	case '}':
		return p.endContainer(containerObject)
	case ']':
		return p.endContainer(containerArray)
	case ':':
		p.parseState = parseBeforePropertyValue
		p.lexState = lexStateFor(p.parseState)
		return nil, nil
	case ',':
		return p.consumeComma()
	}
	return nil, nil
}

func (p *Parser) beginContainer(kind containerKind) (*Event, error) {
	p.returnStates = append(p.returnStates, nextParseState(p.parseState))
	p.containers = append(p.containers, kind)

	ev := &Event{Path: p.path.Clone()}
	if kind == containerObject {
		ev.Kind = ObjectBeginEvent
		p.parseState = parseBeforePropertyName
	} else {
		ev.Kind = ArrayBeginEvent
		p.path.pushIndex(0)
		p.parseState = parseBeforeArrayValue
	}
	p.lexState = lexStateFor(p.parseState)
	return ev, nil
}

func (p *Parser) endContainer(kind containerKind) (*Event, error) {
	n := len(p.containers)
	if n == 0 || p.containers[n-1] != kind {
		return nil, p.invalidCloseChar(kind)
	}
	if kind == containerObject {
		if p.parseState == parseAfterPropertyValue {
			p.path.pop()
		}
	} else {
		p.path.pop()
	}

	p.containers = p.containers[:n-1]
	resume := p.returnStates[len(p.returnStates)-1]
	p.returnStates = p.returnStates[:len(p.returnStates)-1]

	ev := &Event{Path: p.path.Clone()}
	if kind == containerObject {
		ev.Kind = ObjectEndEvent
	} else {
		ev.Kind = ArrayEndEvent
	}
	p.parseState = resume
	p.lexState = lexStateFor(p.parseState)
	return ev, nil
}

func (p *Parser) invalidCloseChar(kind containerKind) error {
	ch := rune('}')
	if kind == containerArray {
		ch = ']'
	}
	return p.invalidChar(ch)
}

func (p *Parser) consumeComma() (*Event, error) {
	switch p.parseState {
	case parseAfterPropertyValue:
		p.path.pop()
		p.parseState = parseBeforePropertyName
	case parseAfterArrayValue:
		p.path.bumpLastIndex()
		p.parseState = parseBeforeArrayValue
	default:
		return nil, p.invalidChar(',')
	}
	p.lexState = lexStateFor(p.parseState)
	return nil, nil
}
