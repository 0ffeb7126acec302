package jsonmodem

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPathPushPopBump(t *testing.T) {
	var p Path

	p.pushKey("a")
	p.pushIndex(0)
	p.pushKey("b")

	want := Path{Key("a"), Index(0), Key("b")}
	if diff := cmp.Diff(want, Path(p)); diff != "" {
		t.Fatalf("path mismatch (-want +got):\n%s", diff)
	}

	p.bumpLastIndex() // last component is a Key, bump is a no-op
	if diff := cmp.Diff(want, Path(p)); diff != "" {
		t.Fatalf("bumpLastIndex on a key mutated the path (-want +got):\n%s", diff)
	}

	c, ok := p.pop()
	if !ok || c != Key("b") {
		t.Fatalf("pop() = %v, %v; want Key(\"b\"), true", c, ok)
	}

	p.bumpLastIndex()
	want = Path{Key("a"), Index(1)}
	if diff := cmp.Diff(want, Path(p)); diff != "" {
		t.Fatalf("path mismatch after bump (-want +got):\n%s", diff)
	}
}

func TestPathCloneIsIndependent(t *testing.T) {
	var p Path
	p.pushKey("a")

	clone := p.Clone()
	p.pushKey("b")

	if len(clone) != 1 {
		t.Fatalf("clone mutated by later pushes onto the original: %v", clone)
	}
}

func TestPathCloneEmptyIsNil(t *testing.T) {
	var p Path
	if clone := p.Clone(); clone != nil {
		t.Fatalf("Clone() of empty path = %#v, want nil", clone)
	}
}

func TestPathPopEmpty(t *testing.T) {
	var p Path
	if _, ok := p.pop(); ok {
		t.Fatalf("pop() on empty path returned ok=true")
	}
}

func TestPathComponentString(t *testing.T) {
	for _, tc := range []struct {
		c    PathComponent
		want string
	}{
		{Key("a"), `"a"`},
		{Index(3), "3"},
	} {
		if got := tc.c.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.c, got, tc.want)
		}
	}
}
