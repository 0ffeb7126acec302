package jsonmodem

// lexStringStep scans string content (for both property names and value
// strings) using an ASCII fast path for the common unescaped run, per
// spec.md §4.5. Keys accumulate fully and are only ever reported once,
// complete; value strings may suspend mid-token and report a non-final
// Fragment, since they are the only fragmentable token kind.
func (p *Parser) lexStringStep() (lexToken, bool, error) {
	for {
		// A pending high surrogate not followed by a backslash can have no
		// low-surrogate partner; resolve it before copying what follows.
		if p.pendingHighSurrogate != nil {
			if ch, _, ok := p.scanner.peek(); ok && ch != '\\' {
				if err := p.flushPendingSurrogate(); err != nil {
					return lexToken{}, false, err
				}
			}
		}
		p.scanner.copyWhileASCII(func(b byte) bool {
			return b != '"' && b != '\\' && b >= 0x20
		})

		ch, _, ok := p.scanner.peek()
		if !ok {
			// A string can never legitimately end by running out of input;
			// if this is Finish's final call, checkFinished reports
			// UnexpectedEndOfInput since parseState/lexState won't have
			// reached a terminal configuration.
			if p.stringIsKey {
				p.scanner.finishToken()
				return lexToken{}, false, nil
			}
			if !p.scanner.hasCaptured() {
				return lexToken{}, false, nil
			}
			frag := p.scanner.emit(false)
			isInitial := !p.stringStarted
			p.stringStarted = true
			return lexToken{kind: tokString, fragment: frag, isInitial: isInitial, isFinal: false}, true, nil
		}

		switch {
		case ch == '"':
			if err := p.flushPendingSurrogate(); err != nil {
				return lexToken{}, false, err
			}
			// Emit before stepping past the closing quote so a Borrowed
			// slice ends at the last content byte.
			frag := p.scanner.emit(true)
			p.scanner.step()
			if p.stringIsKey {
				return lexToken{kind: tokPropertyName, propertyName: frag.Text}, true, nil
			}
			isInitial := !p.stringStarted
			p.stringStarted = false
			return lexToken{kind: tokString, fragment: frag, isInitial: isInitial, isFinal: true}, true, nil

		case ch == '\\':
			// Do not flush a pending high surrogate here: this escape may
			// turn out to be its \u low-surrogate partner, resolved once
			// lexStringEscapeUnicodeStep or lexStringEscapeStep knows more.
			p.scanner.switchToOwnedPrefixIfNeeded()
			p.scanner.step()
			p.lexState = lexStringEscape
			return p.lexStringEscapeStep()

		case ch < 0x20:
			return lexToken{}, false, p.invalidChar(ch)

		default:
			p.scanner.copyWhile(func(r rune) bool {
				return r != '"' && r != '\\' && r >= 0x20
			})
		}
	}
}

func (p *Parser) lexStringEscapeStep() (lexToken, bool, error) {
	ch, _, ok := p.scanner.peek()
	if !ok {
		return lexToken{}, false, nil
	}
	if ch == 'u' {
		p.scanner.step()
		p.escape.reset()
		p.lexState = lexStringEscapeUnicode
		return p.lexStringEscapeUnicodeStep()
	}

	var mapped rune
	switch ch {
	case '"':
		mapped = '"'
	case '\\':
		mapped = '\\'
	case '/':
		mapped = '/'
	case 'b':
		mapped = '\b'
	case 'f':
		mapped = '\f'
	case 'n':
		mapped = '\n'
	case 'r':
		mapped = '\r'
	case 't':
		mapped = '\t'
	default:
		return lexToken{}, false, p.invalidEscape(ch)
	}
	if err := p.flushPendingSurrogate(); err != nil {
		return lexToken{}, false, err
	}
	p.scanner.step()
	p.scanner.pushChar(mapped)
	p.lexState = lexString
	return p.lexStringStep()
}

func (p *Parser) lexStringEscapeUnicodeStep() (lexToken, bool, error) {
	for {
		ch, _, ok := p.scanner.peek()
		if !ok {
			return lexToken{}, false, nil
		}
		code, done, hex := p.escape.feed(ch)
		if !hex {
			return lexToken{}, false, p.invalidUnicodeEscape()
		}
		p.scanner.step()
		if !done {
			continue
		}
		if err := p.resolveUnicodeEscape(code); err != nil {
			return lexToken{}, false, err
		}
		p.lexState = lexString
		return p.lexStringStep()
	}
}

// resolveUnicodeEscape applies the surrogate-pairing rules of spec.md §4.3:
// a high surrogate is held pending in case the very next escape is its low
// surrogate partner; anything else flushes it as a lone surrogate first,
// governed by ParserOptions.DecodeMode.
func (p *Parser) resolveUnicodeEscape(code uint32) error {
	switch {
	case isHighSurrogate(code):
		if err := p.flushPendingSurrogate(); err != nil {
			return err
		}
		c := code
		p.pendingHighSurrogate = &c
		return nil
	case isLowSurrogate(code):
		if p.pendingHighSurrogate != nil {
			hi := *p.pendingHighSurrogate
			p.pendingHighSurrogate = nil
			p.scanner.pushChar(combineSurrogates(hi, code))
			return nil
		}
		return p.emitLoneSurrogate(code)
	default:
		if err := p.flushPendingSurrogate(); err != nil {
			return err
		}
		p.scanner.pushChar(rune(code))
		return nil
	}
}

// flushPendingSurrogate resolves a held high surrogate that turned out not
// to be followed by its low surrogate partner.
func (p *Parser) flushPendingSurrogate() error {
	if p.pendingHighSurrogate == nil {
		return nil
	}
	hi := *p.pendingHighSurrogate
	p.pendingHighSurrogate = nil
	return p.emitLoneSurrogate(hi)
}

// emitLoneSurrogate applies ParserOptions.DecodeMode to a surrogate code
// point that has no partner. SurrogatePreserving degrades to
// ReplaceInvalid for the UTF-8 string backend this parser produces (see
// DESIGN.md); only StrictUnicode treats it as an error.
func (p *Parser) emitLoneSurrogate(code uint32) error {
	if p.opts.DecodeMode == DecodeStrictUnicode {
		return p.invalidUnicodeEscape()
	}
	p.scanner.pushChar('�')
	return nil
}

func (p *Parser) invalidEscape(ch rune) error {
	p.lexState = lexError
	p.parseState = parseError
	return newError(InvalidEscape, p.scanner.line, p.scanner.col, "invalid escape character %q", ch)
}

func (p *Parser) invalidUnicodeEscape() error {
	p.lexState = lexError
	p.parseState = parseError
	return newError(InvalidUnicodeEscape, p.scanner.line, p.scanner.col, "invalid unicode escape")
}
