package jsonmodem

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// drain feeds each chunk in turn, then Finish, collecting every event and
// failing the test immediately on the first error.
func drain(t *testing.T, p *Parser, chunks ...string) []Event {
	t.Helper()
	var events []Event
	feed := func(it *FeedIter) {
		for {
			ev, err, ok := it.Next()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				return
			}
			events = append(events, ev)
		}
	}
	for _, c := range chunks {
		feed(p.Feed(c))
	}
	feed(p.Finish())
	return events
}

func eventsEqual(t *testing.T, got, want []Event) {
	t.Helper()
	diff := cmp.Diff(want, got,
		cmp.Comparer(func(a, b Path) bool {
			if len(a) != len(b) {
				return false
			}
			for i := range a {
				if a[i] != b[i] {
					return false
				}
			}
			return true
		}),
	)
	if diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestParserSingleChunkArrayOfStrings(t *testing.T) {
	p := New(ParserOptions{})
	got := drain(t, p, `["hello"]`)

	want := []Event{
		{Kind: ArrayBeginEvent, Path: Path{}},
		{Kind: StringEvent, Path: Path{Index(0)}, Fragment: Fragment{Source: Borrowed, Text: "hello"}, IsInitial: true, IsFinal: true},
		{Kind: ArrayEndEvent, Path: Path{}},
	}
	eventsEqual(t, got, want)
}

func TestParserStringSplitAcrossChunks(t *testing.T) {
	p := New(ParserOptions{})
	got := drain(t, p, `["hel`, `lo"]`)

	want := []Event{
		{Kind: ArrayBeginEvent, Path: Path{}},
		{Kind: StringEvent, Path: Path{Index(0)}, Fragment: Fragment{Source: Borrowed, Text: "hel"}, IsInitial: true, IsFinal: false},
		{Kind: StringEvent, Path: Path{Index(0)}, Fragment: Fragment{Source: Owned, Text: "lo"}, IsInitial: false, IsFinal: true},
		{Kind: ArrayEndEvent, Path: Path{}},
	}
	eventsEqual(t, got, want)
}

func TestParserObjectKeyAndValue(t *testing.T) {
	p := New(ParserOptions{})
	got := drain(t, p, `{"a":1,"b":true,"c":null}`)

	want := []Event{
		{Kind: ObjectBeginEvent, Path: Path{}},
		{Kind: NumberEvent, Path: Path{Key("a")}, Number: "1"},
		{Kind: BooleanEvent, Path: Path{Key("b")}, Bool: true},
		{Kind: NullEvent, Path: Path{Key("c")}},
		{Kind: ObjectEndEvent, Path: Path{}},
	}
	eventsEqual(t, got, want)
}

func TestParserNestedArraysBumpIndex(t *testing.T) {
	p := New(ParserOptions{})
	got := drain(t, p, `[1,[2,3],4]`)

	want := []Event{
		{Kind: ArrayBeginEvent, Path: Path{}},
		{Kind: NumberEvent, Path: Path{Index(0)}, Number: "1"},
		{Kind: ArrayBeginEvent, Path: Path{Index(1)}},
		{Kind: NumberEvent, Path: Path{Index(1), Index(0)}, Number: "2"},
		{Kind: NumberEvent, Path: Path{Index(1), Index(1)}, Number: "3"},
		{Kind: ArrayEndEvent, Path: Path{Index(1)}},
		{Kind: NumberEvent, Path: Path{Index(2)}, Number: "4"},
		{Kind: ArrayEndEvent, Path: Path{}},
	}
	eventsEqual(t, got, want)
}

func TestParserEmptyContainers(t *testing.T) {
	p := New(ParserOptions{})
	got := drain(t, p, `{}`)
	want := []Event{
		{Kind: ObjectBeginEvent, Path: Path{}},
		{Kind: ObjectEndEvent, Path: Path{}},
	}
	eventsEqual(t, got, want)

	p = New(ParserOptions{})
	got = drain(t, p, `[]`)
	want = []Event{
		{Kind: ArrayBeginEvent, Path: Path{}},
		{Kind: ArrayEndEvent, Path: Path{}},
	}
	eventsEqual(t, got, want)
}

func TestParserUnicodeEscape(t *testing.T) {
	p := New(ParserOptions{})
	got := drain(t, p, "\"\\u0042\"") // the JSON text "\u0042"
	want := []Event{
		{Kind: StringEvent, Path: Path{}, Fragment: Fragment{Source: Owned, Text: "B"}, IsInitial: true, IsFinal: true},
	}
	eventsEqual(t, got, want)
}

func TestParserSurrogatePairSplitAcrossChunks(t *testing.T) {
	p := New(ParserOptions{})
	// U+1F600 GRINNING FACE = surrogate pair D83D DE00
	got := drain(t, p, `"\ud83d`, `\ude00"`)

	want := []Event{
		{Kind: StringEvent, Path: Path{}, Fragment: Fragment{Source: Owned, Text: "😀"}, IsInitial: true, IsFinal: true},
	}
	eventsEqual(t, got, want)
}

func TestParserRawMultiByteRuneSplitAcrossChunks(t *testing.T) {
	p := New(ParserOptions{})
	full := `"😀"`
	got := drain(t, p, full[:3], full[3:]) // split inside the emoji's 4 raw UTF-8 bytes

	want := []Event{
		{Kind: StringEvent, Path: Path{}, Fragment: Fragment{Source: Owned, Text: "😀"}, IsInitial: true, IsFinal: true},
	}
	eventsEqual(t, got, want)
}

func TestParserLoneSurrogateReplacement(t *testing.T) {
	p := New(ParserOptions{DecodeMode: DecodeReplaceInvalid})
	got := drain(t, p, `"\ud800"`)

	want := []Event{
		{Kind: StringEvent, Path: Path{}, Fragment: Fragment{Source: Owned, Text: "�"}, IsInitial: true, IsFinal: true},
	}
	eventsEqual(t, got, want)
}

func TestParserLoneSurrogateStrictIsError(t *testing.T) {
	p := New(ParserOptions{DecodeMode: DecodeStrictUnicode})
	it := p.Feed(`"\ud800"`)
	var sawErr bool
	for {
		_, err, ok := it.Next()
		if err != nil {
			sawErr = true
			var perr *Error
			if !asError(err, &perr) || perr.Kind != InvalidUnicodeEscape {
				t.Fatalf("err = %v, want *Error with Kind InvalidUnicodeEscape", err)
			}
			break
		}
		if !ok {
			break
		}
	}
	if !sawErr {
		t.Fatalf("expected an error for a lone surrogate under DecodeStrictUnicode")
	}
}

func TestParserMultipleJSONValues(t *testing.T) {
	p := New(ParserOptions{AllowMultipleJSONValues: true})
	got := drain(t, p, `1 2 3`)

	want := []Event{
		{Kind: NumberEvent, Path: Path{}, Number: "1"},
		{Kind: NumberEvent, Path: Path{}, Number: "2"},
		{Kind: NumberEvent, Path: Path{}, Number: "3"},
	}
	eventsEqual(t, got, want)
}

func TestParserRejectsTrailingDataWithoutMultiValueMode(t *testing.T) {
	p := New(ParserOptions{})
	it := p.Feed(`1 2`)
	var sawErr bool
	for {
		_, err, ok := it.Next()
		if err != nil {
			sawErr = true
			break
		}
		if !ok {
			break
		}
	}
	if !sawErr {
		t.Fatalf("expected an error for trailing data after a single root value")
	}
}

func TestParserNumberAtEndOfInputNoTrailingDelimiter(t *testing.T) {
	p := New(ParserOptions{})
	got := drain(t, p, `42`)
	want := []Event{
		{Kind: NumberEvent, Path: Path{}, Number: "42"},
	}
	eventsEqual(t, got, want)
}

func TestParserTruncatedNumberIsUnexpectedEOF(t *testing.T) {
	p := New(ParserOptions{})
	p.Feed(`1.`)
	it := p.Finish()
	_, err, _ := it.Next()
	var perr *Error
	if !asError(err, &perr) || perr.Kind != UnexpectedEndOfInput {
		t.Fatalf("err = %v, want *Error with Kind UnexpectedEndOfInput", err)
	}
}

func TestParserTruncatedStringIsUnexpectedEOF(t *testing.T) {
	p := New(ParserOptions{})
	p.Feed(`"abc`)
	it := p.Finish()
	for {
		_, err, ok := it.Next()
		if err != nil {
			var perr *Error
			if !asError(err, &perr) || perr.Kind != UnexpectedEndOfInput {
				t.Fatalf("err = %v, want *Error with Kind UnexpectedEndOfInput", err)
			}
			return
		}
		if !ok {
			t.Fatalf("expected an UnexpectedEndOfInput error")
		}
	}
}

func TestParserMismatchedCloseIsInvalidCharacter(t *testing.T) {
	p := New(ParserOptions{})
	it := p.Feed(`[1}`)
	for {
		_, err, ok := it.Next()
		if err != nil {
			var perr *Error
			if !asError(err, &perr) || perr.Kind != InvalidCharacter {
				t.Fatalf("err = %v, want *Error with Kind InvalidCharacter", err)
			}
			return
		}
		if !ok {
			t.Fatalf("expected an InvalidCharacter error")
		}
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = e
	return true
}
