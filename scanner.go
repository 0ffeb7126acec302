package jsonmodem

import (
	"strings"
	"unicode/utf8"
)

// source names which half of the scanner's effective input (ring ++ chunk)
// a character came from.
type source int8

const (
	sourceRing source = iota
	sourceChunk
)

// scratchMode is the tokenScratch's current representation, per spec.md §3.
type scratchMode int8

const (
	scratchUnanchored scratchMode = iota
	scratchText
	scratchRaw
)

// tokenScratch is the per-token capture buffer. It is in exactly one of
// three mutually exclusive states at a time.
type tokenScratch struct {
	mode scratchMode
	text strings.Builder
	raw  []byte
}

func (s *tokenScratch) hasData() bool {
	switch s.mode {
	case scratchText:
		return s.text.Len() > 0
	case scratchRaw:
		return len(s.raw) > 0
	default:
		return false
	}
}

func (s *tokenScratch) clear() {
	s.mode = scratchUnanchored
	s.text.Reset()
	s.raw = s.raw[:0]
}

// pushChar appends ch to whichever representation is active, switching an
// Unanchored scratch to Text on first use.
func (s *tokenScratch) pushChar(ch rune) {
	if s.mode == scratchRaw {
		var buf [utf8.UTFMax]byte
		n := utf8.EncodeRune(buf[:], ch)
		s.raw = append(s.raw, buf[:n]...)
		return
	}
	s.mode = scratchText
	s.text.WriteRune(ch)
}

// toRaw switches representation to Raw, moving any accumulated Text bytes
// over verbatim (they are already valid UTF-8).
func (s *tokenScratch) toRaw() {
	if s.mode == scratchRaw {
		return
	}
	raw := append([]byte(nil), []byte(s.text.String())...)
	s.mode = scratchRaw
	s.raw = raw
	s.text.Reset()
}

// anchorInfo records bookkeeping for the token currently being scanned,
// created lazily on the first selective action. See spec.md §3 "Anchor".
type anchorInfo struct {
	source source
	// start is the byte offset into chunk where the token began; only
	// meaningful when source == sourceChunk.
	start int
	// owned is true once scratch holds authoritative contents and
	// borrowing is no longer possible.
	owned bool
	// raw is true once scratch is the byte (Raw) variant.
	raw bool
}

// scanner is the sole component that reads input: it owns an effective
// cursor over (ring ++ chunk) plus the current anchor/scratch for the token
// in progress. Grounded on the teacher's preference for small hand-rolled
// buffers and on github.com/db47h/lex's Next/Backup/position-tracking
// design (see DESIGN.md); embedded directly in Parser rather than kept as a
// type with its own borrowed lifetime, since Go has no borrow checker to
// enforce the Rust original's chunk-lifetime ties (see DESIGN.md OQ-2).
type scanner struct {
	ring  byteRing
	chunk string
	pos   int // byte offset into chunk not yet consumed

	// pendingRune holds a multi-byte UTF-8 sequence that was still
	// incomplete when its chunk ran out, so it can be glued to the front
	// of whatever arrives on the next Feed instead of being handed to the
	// ring, which assumes its contents are already self-contained runes.
	pendingRune []byte

	bytePos int64
	line    int
	col     int

	scratch tokenScratch
	anchor  *anchorInfo
}

func newScanner() scanner {
	return scanner{line: 1, col: 1}
}

// setChunk installs a new chunk for this Feed call. The scanner retains
// whatever anchor/scratch/ring content survived the previous Feed. Any
// UTF-8 sequence left incomplete at the end of the prior chunk is glued
// onto the front of this one before anything else sees it.
func (s *scanner) setChunk(chunk string) {
	if len(s.pendingRune) > 0 {
		chunk = string(s.pendingRune) + chunk
		s.pendingRune = nil
	}
	s.chunk = chunk
	s.pos = 0
}

// currentSource reports which half of the input the next character will
// come from.
func (s *scanner) currentSource() source {
	if !s.ring.empty() {
		return sourceRing
	}
	return sourceChunk
}

// peek returns the next scalar without advancing, or ok=false if input is
// exhausted for this Feed (the caller should treat that as "need more input"
// rather than end-of-stream, since more may arrive on the next Feed). A
// multi-byte UTF-8 sequence still incomplete at the end of the chunk also
// reports ok=false: it needs bytes from the next Feed to decode correctly,
// the same way a mid-token suspend does.
func (s *scanner) peek() (ch rune, src source, ok bool) {
	if ru, size := s.ring.peekRune(); size > 0 {
		return ru, sourceRing, true
	}
	if s.pos >= len(s.chunk) {
		return 0, sourceChunk, false
	}
	tail := s.chunk[s.pos:]
	if !utf8.FullRuneInString(tail) {
		return 0, sourceChunk, false
	}
	ru, _ := utf8.DecodeRuneInString(tail)
	return ru, sourceChunk, true
}

// step advances over one scalar, updating position counters, without
// touching the anchor or scratch. Like peek, it reports ok=false rather
// than decode a UTF-8 sequence that the chunk cut short.
func (s *scanner) step() (ch rune, src source, ok bool) {
	if ru, size := s.ring.peekRune(); size > 0 {
		s.ring.head += size
		if s.ring.head == s.ring.tail {
			s.ring.head, s.ring.tail = 0, 0
		}
		s.bump(ru)
		return ru, sourceRing, true
	}
	if s.pos >= len(s.chunk) {
		return 0, sourceChunk, false
	}
	tail := s.chunk[s.pos:]
	if !utf8.FullRuneInString(tail) {
		return 0, sourceChunk, false
	}
	ru, size := utf8.DecodeRuneInString(tail)
	s.pos += size
	s.bump(ru)
	return ru, sourceChunk, true
}

// bump advances position counters for one consumed scalar. Columns count
// scalars, not byte widths, to match a human's intuition (spec.md §4.2).
func (s *scanner) bump(ch rune) {
	s.bytePos += int64(utf8.RuneLen(ch))
	if ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

// ensureAnchor lazily records where the current token began, deferring the
// owned/borrowed decision until the first character is actually selected.
func (s *scanner) ensureAnchor() {
	if s.anchor != nil {
		return
	}
	src := s.currentSource()
	hasCarry := s.scratch.hasData()
	a := &anchorInfo{
		source: src,
		owned:  src == sourceRing || hasCarry,
		raw:    s.scratch.mode == scratchRaw,
	}
	if src == sourceChunk {
		a.start = s.pos
	}
	s.anchor = a
}

// consume selectively captures the next scalar into scratch unconditionally
// (used by the lexer for every character of a number or literal token).
// Content captured this way is redundant if the token is later emitted as a
// Borrowed slice; emit() discards it in that case.
func (s *scanner) consume() (rune, bool) {
	s.ensureAnchor()
	ch, _, ok := s.step()
	if !ok {
		return 0, false
	}
	s.scratch.pushChar(ch)
	return ch, true
}

// skip advances over a scalar without recording it, forcing owned=true
// (a borrowed slice can't express a gap). It does not perform the
// chunk-prefix coalescing switchToOwnedPrefixIfNeeded does; callers that
// need to preserve content already read before the skipped character must
// call switchToOwnedPrefixIfNeeded first. The lexer itself does not call
// skip: its escape handling calls switchToOwnedPrefixIfNeeded and then
// step()s past the backslash.
func (s *scanner) skip() (rune, bool) {
	s.ensureAnchor()
	ch, _, ok := s.step()
	if !ok {
		return 0, false
	}
	s.anchor.owned = true
	return ch, true
}

// pushChar appends a transformed scalar (e.g. a decoded escape result) to
// scratch, switching to owned mode (copying any borrowed chunk prefix
// exactly once) if needed.
func (s *scanner) pushChar(ch rune) {
	s.ensureAnchor()
	s.switchToOwnedPrefixIfNeeded()
	s.scratch.pushChar(ch)
	s.anchor.owned = true
}

// ensureRaw switches scratch into Raw mode, copying any borrowed chunk
// prefix exactly once.
func (s *scanner) ensureRaw() {
	s.ensureAnchor()
	s.switchToOwnedPrefixIfNeeded()
	s.scratch.toRaw()
	s.anchor.raw = true
}

// switchToOwnedPrefixIfNeeded is the one-time coalescing operation: if the
// token is still borrow-eligible, copy the chunk bytes already consumed
// (from anchor.start to the current cursor) into scratch exactly once, then
// mark the anchor owned. If scratch already holds data from a prior
// selective consume(), the prefix is already present and must not be copied
// again (spec.md §4.2 "no double capture").
func (s *scanner) switchToOwnedPrefixIfNeeded() {
	if s.anchor == nil || s.anchor.owned {
		return
	}
	if s.anchor.source != sourceChunk {
		s.anchor.owned = true
		return
	}
	if s.scratch.hasData() {
		s.anchor.owned = true
		return
	}
	if s.pos > s.anchor.start {
		s.scratch.mode = scratchText
		s.scratch.text.WriteString(s.chunk[s.anchor.start:s.pos])
	}
	s.anchor.owned = true
}

// copyWhileASCII advances while pred holds for consecutive ASCII bytes,
// appending to scratch only once the token is already owned (a borrowed
// anchor still covers the bytes just consumed without any copy).
func (s *scanner) copyWhileASCII(pred func(byte) bool) int {
	s.ensureAnchor()
	n := 0
	for {
		ch, _, ok := s.peek()
		if !ok || ch >= utf8.RuneSelf || !pred(byte(ch)) {
			return n
		}
		s.step()
		if s.anchor.owned {
			s.scratch.pushChar(ch)
		}
		n++
	}
}

// copyWhile is copyWhileASCII's general counterpart for arbitrary scalars.
func (s *scanner) copyWhile(pred func(rune) bool) int {
	s.ensureAnchor()
	n := 0
	for {
		ch, _, ok := s.peek()
		if !ok || !pred(ch) {
			return n
		}
		s.step()
		if s.anchor.owned {
			s.scratch.pushChar(ch)
		}
		n++
	}
}

// tryBorrowSlice returns a Borrowed view into chunk if the token is still
// eligible: it started in chunk, never became owned or raw, and the byte
// range is still valid against the current chunk.
func (s *scanner) tryBorrowSlice() (string, bool) {
	if s.anchor == nil || s.anchor.source != sourceChunk || s.anchor.owned || s.anchor.raw {
		return "", false
	}
	if s.pos < s.anchor.start || s.pos > len(s.chunk) {
		return "", false
	}
	return s.chunk[s.anchor.start:s.pos], true
}

// emit materializes a fragment for whatever has been captured since the
// token was anchored, as a Borrowed slice if nothing has forced ownership
// yet or Owned otherwise, and clears the anchor and scratch. Non-final
// string fragments call this exactly like final ones; the caller re-anchors
// lazily on the next capture, which is why a Borrowed slice is just as valid
// mid-string as it is at the closing quote. isFinal only distinguishes the
// two cases for the caller's own bookkeeping (e.g. is_initial tracking); it
// plays no part in the borrow/own decision itself.
func (s *scanner) emit(isFinal bool) Fragment {
	if sl, ok := s.tryBorrowSlice(); ok {
		s.scratch.clear()
		s.anchor = nil
		return Fragment{Source: Borrowed, Text: sl}
	}
	var text string
	if s.scratch.mode == scratchRaw {
		text = string(s.scratch.raw)
	} else {
		text = s.scratch.text.String()
	}
	s.scratch.clear()
	s.anchor = nil
	return Fragment{Source: Owned, Text: text}
}

// hasCaptured reports whether any content has been gathered for the current
// token since it was anchored (and thus whether an in-progress string
// fragment would be non-empty if emitted right now).
func (s *scanner) hasCaptured() bool {
	if s.anchor == nil {
		return false
	}
	if s.scratch.hasData() {
		return true
	}
	return s.anchor.source == sourceChunk && !s.anchor.owned && s.pos > s.anchor.start
}

// finishToken is called when a Feed's input runs dry while a token whose
// fragment policy forbids cross-feed fragmenting (keys, numbers) is still
// open: it coalesces the consumed but unemitted chunk prefix into scratch so
// the next Feed can resume from owned storage. Literals do not call it;
// finishChunk does the same coalescing for them.
func (s *scanner) finishToken() {
	if s.anchor == nil {
		return
	}
	s.switchToOwnedPrefixIfNeeded()
}

// finishChunk appends any unread chunk tail to the ring (carried across to
// the next Feed) and resets the per-chunk cursor. If a token is still
// anchored into this chunk, it is forced owned first: chunk is about to be
// replaced (or go out of scope), so a Borrowed slice computed against it
// would dangle or, worse, silently alias whatever chunk replaces it.
//
// step/peek only ever advance by whole runes, so a tail that isn't a full
// rune can only be an incomplete sequence straddling this Feed's boundary,
// not misaligned or invalid data; it is held in pendingRune rather than
// pushed to the ring, which requires its contents to already be complete
// UTF-8.
func (s *scanner) finishChunk() {
	if s.anchor != nil {
		s.switchToOwnedPrefixIfNeeded()
	}
	if tail := s.chunk[s.pos:]; len(tail) > 0 {
		if utf8.FullRuneInString(tail) {
			s.ring.pushString(tail)
		} else {
			s.pendingRune = append(s.pendingRune[:0], tail...)
		}
	}
	s.chunk = ""
	s.pos = 0
}

// hasPendingPartialRune reports whether a multi-byte UTF-8 sequence was
// left incomplete at the very end of input, which only a truly final
// Finish call can detect as an error (Feed must assume more bytes may
// still complete it).
func (s *scanner) hasPendingPartialRune() bool {
	return len(s.pendingRune) > 0
}
