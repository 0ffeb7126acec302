package jsonmodem

// lexNumberContinue resumes number scanning after lexValueStart has
// consumed the first character and set the appropriate sub-state.
func (p *Parser) lexNumberContinue() (lexToken, bool, error) {
	return p.lexNumberStep()
}

// lexNumberStep drives the number sub-state machine one character at a
// time, mirroring the teacher's Sign/Zero/DecimalInteger/... states but as
// a direct switch rather than a transition table, since the grammar only
// has a handful of states and each has at most three outgoing edges.
// Numbers are never fragmentable: the full text is always reported in a
// single token (spec.md §4.5), so every digit is captured with consume()
// rather than the borrow-preferring copyWhileASCII path.
func (p *Parser) lexNumberStep() (lexToken, bool, error) {
	for {
		ch, _, ok := p.scanner.peek()
		if !ok {
			// Unlike strings and literals, a number can legitimately end
			// with the input itself (e.g. Feed-then-Finish of just "42").
			// Only finalize it here if Finish is actually in progress and
			// the grammar allows stopping in this sub-state; otherwise
			// suspend normally, since more digits may arrive on the next
			// Feed.
			if p.finishing && numberStateIsTerminal(p.lexState) {
				return p.finishNumber()
			}
			p.scanner.finishToken()
			return lexToken{}, false, nil
		}
		digit := ch >= '0' && ch <= '9'

		switch p.lexState {
		case lexSign:
			switch {
			case ch == '0':
				p.scanner.consume()
				p.lexState = lexZero
			case digit:
				p.scanner.consume()
				p.lexState = lexDecimalInteger
			default:
				return lexToken{}, false, p.invalidChar(ch)
			}

		case lexZero:
			switch ch {
			case '.':
				p.scanner.consume()
				p.lexState = lexDecimalPoint
			case 'e', 'E':
				p.scanner.consume()
				p.lexState = lexDecimalExponent
			default:
				return p.finishNumber()
			}

		case lexDecimalInteger:
			switch {
			case digit:
				p.scanner.consume()
			case ch == '.':
				p.scanner.consume()
				p.lexState = lexDecimalPoint
			case ch == 'e' || ch == 'E':
				p.scanner.consume()
				p.lexState = lexDecimalExponent
			default:
				return p.finishNumber()
			}

		case lexDecimalPoint:
			if !digit {
				return lexToken{}, false, p.invalidChar(ch)
			}
			p.scanner.consume()
			p.lexState = lexDecimalFraction

		case lexDecimalFraction:
			switch {
			case digit:
				p.scanner.consume()
			case ch == 'e' || ch == 'E':
				p.scanner.consume()
				p.lexState = lexDecimalExponent
			default:
				return p.finishNumber()
			}

		case lexDecimalExponent:
			switch {
			case ch == '+' || ch == '-':
				p.scanner.consume()
				p.lexState = lexDecimalExponentSign
			case digit:
				p.scanner.consume()
				p.lexState = lexDecimalExponentInteger
			default:
				return lexToken{}, false, p.invalidChar(ch)
			}

		case lexDecimalExponentSign:
			if !digit {
				return lexToken{}, false, p.invalidChar(ch)
			}
			p.scanner.consume()
			p.lexState = lexDecimalExponentInteger

		case lexDecimalExponentInteger:
			if digit {
				p.scanner.consume()
				continue
			}
			return p.finishNumber()
		}
	}
}

func (p *Parser) finishNumber() (lexToken, bool, error) {
	frag := p.scanner.emit(true)
	p.lexState = lexEnd
	return lexToken{kind: tokNumber, number: frag.Text}, true, nil
}

// numberStateIsTerminal reports whether ending input while in this number
// sub-state yields a complete, valid number (as opposed to a truncated one
// still requiring a fraction or exponent digit).
func numberStateIsTerminal(s lexState) bool {
	switch s {
	case lexZero, lexDecimalInteger, lexDecimalFraction, lexDecimalExponentInteger:
		return true
	}
	return false
}
