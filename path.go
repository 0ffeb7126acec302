package jsonmodem

import (
	"strconv"
	"strings"
)

// ComponentKind tells whether a PathComponent names an object key or an
// array index.
type ComponentKind int8

// Possible path component kinds.
const (
	KeyComponent ComponentKind = iota
	IndexComponent
)

// PathComponent is one step of a Path: either a Key (valid only directly
// under an object frame) or an Index (valid only directly under an array
// frame).
type PathComponent struct {
	Kind  ComponentKind
	Key   string
	Index int
}

// Key builds a Key path component.
func Key(k string) PathComponent { return PathComponent{Kind: KeyComponent, Key: k} }

// Index builds an Index path component.
func Index(i int) PathComponent { return PathComponent{Kind: IndexComponent, Index: i} }

// String renders a component the way a human would read a JSON pointer
// segment. It is a debugging aid, not a wire format.
func (c PathComponent) String() string {
	if c.Kind == KeyComponent {
		return strconv.Quote(c.Key)
	}
	return strconv.Itoa(c.Index)
}

// Path is an ordered sequence of path components identifying a value's
// location in the document, root first. The empty Path identifies a root
// value.
//
// A Path is owned by the Parser and mutated in place as containers open and
// close; events are handed a Clone so that consumers may retain them beyond
// the call that produced them.
type Path []PathComponent

// String renders a path the way a human would read a JSON pointer, e.g.
// `$.foo[2].bar`; the root path renders as `$`. It is a debugging aid, not a wire format.
func (p Path) String() string {
	if len(p) == 0 {
		return "$"
	}
	var b strings.Builder
	b.WriteByte('$')
	for _, c := range p {
		if c.Kind == KeyComponent {
			b.WriteByte('.')
			b.WriteString(c.Key)
		} else {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(c.Index))
			b.WriteByte(']')
		}
	}
	return b.String()
}

// Clone returns an independent copy of p suitable for handing to a consumer.
func (p Path) Clone() Path {
	if len(p) == 0 {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// pushKey appends a key component (used when a property-name token arrives;
// the parser pops it again on the following comma or closing brace).
func (p *Path) pushKey(k string) {
	*p = append(*p, Key(k))
}

// pushIndex appends an index component (used when an array frame opens,
// always starting at 0).
func (p *Path) pushIndex(i int) {
	*p = append(*p, Index(i))
}

// pop removes and returns the last component, if any.
func (p *Path) pop() (PathComponent, bool) {
	n := len(*p)
	if n == 0 {
		return PathComponent{}, false
	}
	c := (*p)[n-1]
	*p = (*p)[:n-1]
	return c, true
}

// setLastKey replaces the last component with a Key component in place. The
// parser does not call it: it pushes and pops key components instead.
func (p *Path) setLastKey(k string) {
	n := len(*p)
	if n == 0 {
		return
	}
	(*p)[n-1] = Key(k)
}

// bumpLastIndex increments the index of the last component in place,
// O(1), used on each comma inside an array.
func (p *Path) bumpLastIndex() {
	n := len(*p)
	if n == 0 {
		return
	}
	last := (*p)[n-1]
	if last.Kind == IndexComponent {
		(*p)[n-1].Index = last.Index + 1
	}
}
