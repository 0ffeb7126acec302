package jsonmodem

import (
	"strings"
	"testing"
)

// collectFragments drains every event from p against doc fed in the given
// chunks, rendering a (Path, Kind) trace plus each String/Number value
// reassembled in full. A caller-visible result should never depend on how
// the bytes were sliced across Feed calls, only on the bytes themselves.
func collectFragments(t *testing.T, doc string, chunks []string) (trace []string, ok bool) {
	t.Helper()
	p := New(ParserOptions{AllowMultipleJSONValues: true})
	var b strings.Builder
	emit := func(ev Event) {
		b.Reset()
		b.WriteString(ev.Path.String())
		b.WriteByte(':')
		b.WriteByte('0' + byte(ev.Kind))
		b.WriteByte(':')
		switch ev.Kind {
		case NumberEvent:
			b.WriteString(ev.Number)
		case BooleanEvent:
			if ev.Bool {
				b.WriteString("true")
			} else {
				b.WriteString("false")
			}
		}
		trace = append(trace, b.String())
	}

	var pending string
	var pendingPath string
	flushString := func(ev Event) {
		path := ev.Path.String()
		if path != pendingPath && pending != "" {
			pending = ""
		}
		pending += ev.Fragment.Text
		pendingPath = path
		if ev.IsFinal {
			trace = append(trace, path+":"+pending)
			pending = ""
			pendingPath = ""
		}
	}

	drive := func(it *FeedIter) bool {
		for {
			ev, err, more := it.Next()
			if err != nil {
				return false
			}
			if !more {
				return true
			}
			if ev.Kind == StringEvent {
				flushString(ev)
				continue
			}
			emit(ev)
		}
	}

	for _, c := range chunks {
		if !drive(p.Feed(c)) {
			return trace, false
		}
	}
	if !drive(p.Finish()) {
		return trace, false
	}
	return trace, true
}

func TestFuzzPartitionInvariance(t *testing.T) {
	docs := []string{
		`{"name":"search","query":"weather in Tokyo","limit":5}`,
		`[1,2.5,-3e2,true,false,null,"hi"]`,
		`{"a":{"b":[1,2,{"c":"dAe"}]}}`,
		`"😀 emoji string with spaces"`,
	}

	for _, doc := range docs {
		whole, ok := collectFragments(t, doc, []string{doc})
		if !ok {
			t.Fatalf("unexpected error parsing whole document %q", doc)
		}

		for cut := 1; cut < len(doc); cut++ {
			got, ok := collectFragments(t, doc, []string{doc[:cut], doc[cut:]})
			if !ok {
				t.Fatalf("unexpected error parsing %q split at %d", doc, cut)
			}
			if len(got) != len(whole) {
				t.Fatalf("split at %d: trace length mismatch\n whole: %v\n got:   %v", cut, whole, got)
			}
			for i := range got {
				if got[i] != whole[i] {
					t.Fatalf("split at %d: event %d mismatch: whole=%q got=%q", cut, i, whole[i], got[i])
				}
			}
		}
	}
}

func FuzzParserPartitionInvariance(f *testing.F) {
	seeds := []string{
		`{"name":"search","query":"weather in Tokyo","limit":5}`,
		`[1,2.5,-3e2,true,false,null,"hi"]`,
		`{"a":{"b":[1,2,{"c":"dAe"}]}}`,
	}
	for _, s := range seeds {
		f.Add(s, 3)
	}

	f.Fuzz(func(t *testing.T, doc string, cut int) {
		if len(doc) == 0 {
			return
		}
		c := cut % (len(doc) + 1)
		if c < 0 {
			c += len(doc) + 1
		}

		whole, wholeOK := collectFragments(t, doc, []string{doc})
		split, splitOK := collectFragments(t, doc, []string{doc[:c], doc[c:]})

		if wholeOK != splitOK {
			t.Fatalf("error-ness differs across partitioning: whole ok=%v split ok=%v for %q at %d", wholeOK, splitOK, doc, c)
		}
		if !wholeOK {
			return
		}
		if len(whole) != len(split) {
			t.Fatalf("trace length differs across partitioning at cut %d: %v vs %v", c, whole, split)
		}
		for i := range whole {
			if whole[i] != split[i] {
				t.Fatalf("trace differs across partitioning at cut %d, event %d: %q vs %q", c, i, whole[i], split[i])
			}
		}
	})
}
