package jsonmodem

import "unicode"

// lexState names every state the lexer can be suspended in between
// scalars, exactly as enumerated in spec.md §4.5: scalar sub-states
// (String/StringEscape/.../number sub-states) plus "trampoline" states that
// mirror the parser's structural contexts, used while waiting for the next
// token to start.
type lexState int8

const (
	lexStart lexState = iota
	lexBeforePropertyName
	lexAfterPropertyName
	lexBeforePropertyValue
	lexBeforeArrayValue
	lexAfterPropertyValue
	lexAfterArrayValue
	lexEnd

	lexValue
	lexValueLiteral

	lexSign
	lexZero
	lexDecimalInteger
	lexDecimalPoint
	lexDecimalFraction
	lexDecimalExponent
	lexDecimalExponentSign
	lexDecimalExponentInteger

	lexString
	lexStringEscape
	lexStringEscapeUnicode

	lexError
)

// tokenKind discriminates the token variants of spec.md §4.5.
type tokenKind int8

const (
	tokEOF tokenKind = iota
	tokPunctuator
	tokPropertyName
	tokString
	tokBoolean
	tokNull
	tokNumber
)

type lexToken struct {
	kind tokenKind

	punct byte // tokPunctuator

	propertyName string // tokPropertyName

	fragment  Fragment // tokString
	isInitial bool
	isFinal   bool

	boolValue bool // tokBoolean

	number string // tokNumber

	eofPartial bool // tokEOF
}

// isTrampoline reports the "waiting for a fresh token to begin" states, one
// per structural context.
func isTrampoline(s lexState) bool {
	switch s {
	case lexStart, lexBeforePropertyName, lexAfterPropertyName, lexBeforePropertyValue,
		lexBeforeArrayValue, lexAfterPropertyValue, lexAfterArrayValue, lexEnd:
		return true
	}
	return false
}

func isDefaultWhitespace(c rune) bool {
	switch c {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

const byteOrderMark = rune(0xFEFF)

func isUnicodeLineOrSpace(c rune) bool {
	return unicode.Is(unicode.Zs, c) || c == ' ' || c == ' '
}

func (p *Parser) isWhitespace(c rune) bool {
	if isDefaultWhitespace(c) {
		return true
	}
	if !p.opts.AllowUnicodeWhitespace {
		return false
	}
	return c == byteOrderMark || isUnicodeLineOrSpace(c)
}

func isHighSurrogate(code uint32) bool { return code >= 0xD800 && code <= 0xDBFF }
func isLowSurrogate(code uint32) bool  { return code >= 0xDC00 && code <= 0xDFFF }

func combineSurrogates(hi, lo uint32) rune {
	return rune(0x10000 + (hi-0xD800)*0x400 + (lo - 0xDC00))
}

// lexStep advances the lexer by however much input is available, returning
// either a completed token, or ok=false meaning the current chunk ran dry
// and the caller should suspend until the next Feed/Finish.
func (p *Parser) lexStep() (lexToken, bool, error) {
	for {
		switch {
		case isTrampoline(p.lexState):
			tok, ok, err := p.lexTrampoline()
			if err != nil || !ok {
				return lexToken{}, ok, err
			}
			return tok, true, nil
		case p.lexState == lexValue:
			tok, ok, err := p.lexValueStart()
			if err != nil || !ok {
				return lexToken{}, ok, err
			}
			return tok, true, nil
		case p.lexState == lexValueLiteral:
			return p.lexValueLiteralStep()
		case p.lexState == lexString:
			return p.lexStringStep()
		case p.lexState == lexStringEscape:
			return p.lexStringEscapeStep()
		case p.lexState == lexStringEscapeUnicode:
			return p.lexStringEscapeUnicodeStep()
		case isNumberState(p.lexState):
			return p.lexNumberStep()
		case p.lexState == lexError:
			return lexToken{}, false, nil
		default:
			return lexToken{}, false, nil
		}
	}
}

func isNumberState(s lexState) bool {
	switch s {
	case lexSign, lexZero, lexDecimalInteger, lexDecimalPoint, lexDecimalFraction,
		lexDecimalExponent, lexDecimalExponentSign, lexDecimalExponentInteger:
		return true
	}
	return false
}

// skipWhitespace consumes (but does not capture) whitespace between tokens.
// Returns ok=false if the chunk ran dry before a non-whitespace character.
func (p *Parser) skipWhitespace() bool {
	for {
		ch, _, ok := p.scanner.peek()
		if !ok {
			return false
		}
		if !p.isWhitespace(ch) {
			return true
		}
		p.scanner.step()
	}
}

// lexTrampoline handles every "waiting for the next token" context. The
// trampoline state itself says which characters are syntactically valid
// right now; it does not yet know about the path, which is the parser's
// job once the token comes back.
func (p *Parser) lexTrampoline() (lexToken, bool, error) {
	if !p.skipWhitespace() {
		return lexToken{}, false, nil
	}
	ch, _, ok := p.scanner.peek()
	if !ok {
		return lexToken{}, false, nil
	}

	switch p.lexState {
	case lexStart, lexBeforePropertyValue:
		return p.lexValueStart()
	case lexBeforeArrayValue:
		// ']' closes an array only before its first element (index 0).
		if ch == ']' && p.path[len(p.path)-1].Index == 0 {
			p.scanner.step()
			return lexToken{kind: tokPunctuator, punct: ']'}, true, nil
		}
		return p.lexValueStart()
	case lexBeforePropertyName:
		if ch == '"' {
			return p.lexPropertyNameStart()
		}
		if ch == '}' {
			p.scanner.step()
			return lexToken{kind: tokPunctuator, punct: '}'}, true, nil
		}
		return lexToken{}, false, p.invalidChar(ch)
	case lexAfterPropertyName:
		if ch == ':' {
			p.scanner.step()
			return lexToken{kind: tokPunctuator, punct: ':'}, true, nil
		}
		return lexToken{}, false, p.invalidChar(ch)
	case lexAfterPropertyValue:
		if ch == ',' {
			p.scanner.step()
			return lexToken{kind: tokPunctuator, punct: ','}, true, nil
		}
		if ch == '}' {
			p.scanner.step()
			return lexToken{kind: tokPunctuator, punct: '}'}, true, nil
		}
		return lexToken{}, false, p.invalidChar(ch)
	case lexAfterArrayValue:
		if ch == ',' {
			p.scanner.step()
			return lexToken{kind: tokPunctuator, punct: ','}, true, nil
		}
		if ch == ']' {
			p.scanner.step()
			return lexToken{kind: tokPunctuator, punct: ']'}, true, nil
		}
		return lexToken{}, false, p.invalidChar(ch)
	case lexEnd:
		if p.opts.AllowMultipleJSONValues {
			p.lexState = lexStart
			p.parseState = parseStart
			return p.lexValueStart()
		}
		return lexToken{}, false, p.invalidChar(ch)
	}
	return lexToken{}, false, p.invalidChar(ch)
}

func (p *Parser) lexValueStart() (lexToken, bool, error) {
	ch, _, ok := p.scanner.peek()
	if !ok {
		return lexToken{}, false, nil
	}
	switch {
	case ch == '{' || ch == '[':
		p.scanner.step()
		return lexToken{kind: tokPunctuator, punct: byte(ch)}, true, nil
	case ch == 't' || ch == 'f' || ch == 'n':
		p.scanner.consume()
		p.literal.start(ch)
		p.lexState = lexValueLiteral
		return p.lexValueLiteralContinue()
	case ch == '-':
		p.scanner.consume()
		p.lexState = lexSign
		return p.lexNumberContinue()
	case ch == '0':
		p.scanner.consume()
		p.lexState = lexZero
		return p.lexNumberContinue()
	case ch >= '1' && ch <= '9':
		p.scanner.consume()
		p.lexState = lexDecimalInteger
		return p.lexNumberContinue()
	case ch == '"':
		p.scanner.step() // consume opening quote, never part of the string text
		p.scanner.ensureAnchor()
		p.lexState = lexString
		p.stringIsKey = false
		p.stringStarted = false
		return p.lexStringStep()
	default:
		return lexToken{}, false, p.invalidChar(ch)
	}
}

func (p *Parser) lexPropertyNameStart() (lexToken, bool, error) {
	p.scanner.step() // consume opening quote, never part of the key text
	p.scanner.ensureAnchor()
	p.lexState = lexString
	p.stringIsKey = true
	p.stringStarted = false
	return p.lexStringStep()
}

// lexValueLiteralContinue/Step drive the literal matcher across however
// many characters are available this call.
func (p *Parser) lexValueLiteralContinue() (lexToken, bool, error) {
	return p.lexValueLiteralStep()
}

func (p *Parser) lexValueLiteralStep() (lexToken, bool, error) {
	for {
		ch, _, ok := p.scanner.peek()
		if !ok {
			return lexToken{}, false, nil
		}
		p.scanner.consume()
		switch p.literal.step(ch) {
		case literalNeedMore:
			continue
		case literalDone:
			isNull, boolVal := p.literal.value()
			p.scanner.emit(true)
			p.lexState = lexEnd
			if isNull {
				return lexToken{kind: tokNull}, true, nil
			}
			return lexToken{kind: tokBoolean, boolValue: boolVal}, true, nil
		case literalReject:
			return lexToken{}, false, p.invalidChar(ch)
		}
	}
}

// lexStateFor maps a parse state to the trampoline lex state that waits for
// its next token. Called by the parser after every token it consumes, so the
// lexer always resumes classifying characters in the context the parser
// just moved into.
func lexStateFor(ps parseState) lexState {
	switch ps {
	case parseStart:
		return lexStart
	case parseBeforePropertyName:
		return lexBeforePropertyName
	case parseAfterPropertyName:
		return lexAfterPropertyName
	case parseBeforePropertyValue:
		return lexBeforePropertyValue
	case parseBeforeArrayValue:
		return lexBeforeArrayValue
	case parseAfterPropertyValue:
		return lexAfterPropertyValue
	case parseAfterArrayValue:
		return lexAfterArrayValue
	case parseEnd:
		return lexEnd
	default:
		return lexError
	}
}

func (p *Parser) invalidChar(ch rune) error {
	p.lexState = lexError
	p.parseState = parseError
	return newError(InvalidCharacter, p.scanner.line, p.scanner.col, "unexpected character %q", ch)
}

func (p *Parser) unexpectedEOF() error {
	p.lexState = lexError
	p.parseState = parseError
	return newError(UnexpectedEndOfInput, p.scanner.line, p.scanner.col, "unexpected end of input")
}
