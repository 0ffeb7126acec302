package jsonmodem

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Value and its Collect builder are not part of the streaming core: they
// are a convenience layer, adapted from the teacher's whole-document Value
// tree (json.go), for callers who want an ordinary in-memory tree instead
// of (or in addition to) the live event stream — e.g. to inspect a
// completed tool-call argument object in one shot. (The example in
// example_test.go reads the event stream directly and does not use Value.)
var (
	// ErrType is returned by a Value accessor when called against the
	// wrong Type.
	ErrType = errors.New("jsonmodem: type error")
)

// Type is the type of a collected Value.
type Type int

// Possible JSON value types.
const (
	Null Type = iota
	Number
	String
	Boolean
	Array
	Object
	numTypes
)

var typeStrings = [numTypes]string{
	"<null>",
	"<number>",
	"<string>",
	"<boolean>",
	"<array>",
	"<object>",
}

// String returns a debugging representation of a Type.
func (t Type) String() string {
	if t < 0 || t >= numTypes {
		return "<unknown>"
	}
	return typeStrings[t]
}

// Value is a fully materialized JSON value, built from a completed run of
// Events by Collect.
type Value struct {
	typ         Type
	numberText  string
	stringValue string
	boolValue   bool
	arrayValue  []*Value
	objectValue []pair
}

type pair struct {
	key string
	val *Value
}

// Type reports v's JSON type.
func (v *Value) Type() Type { return v.typ }

// AsNumber parses the value's lossless textual form as a float64. Returns
// ErrType if v is not a NumberEvent value.
func (v *Value) AsNumber() (float64, error) {
	if v.typ != Number {
		return 0, fmt.Errorf("%w: value not a number: %v", ErrType, v)
	}
	return strconv.ParseFloat(v.numberText, 64)
}

// NumberText returns the number's original, lossless text (e.g. to avoid
// float64 rounding for large integers). Returns ErrType if v is not a
// NumberEvent value.
func (v *Value) NumberText() (string, error) {
	if v.typ != Number {
		return "", fmt.Errorf("%w: value not a number: %v", ErrType, v)
	}
	return v.numberText, nil
}

// AsString returns v's string value. Returns ErrType if v is not a string.
func (v *Value) AsString() (string, error) {
	if v.typ != String {
		return "", fmt.Errorf("%w: value not a string: %v", ErrType, v)
	}
	return v.stringValue, nil
}

// AsBoolean returns v's boolean value. Returns ErrType if v is not a boolean.
func (v *Value) AsBoolean() (bool, error) {
	if v.typ != Boolean {
		return false, fmt.Errorf("%w: value not a boolean: %v", ErrType, v)
	}
	return v.boolValue, nil
}

// AsArray returns v's elements in order. Returns ErrType if v is not an array.
func (v *Value) AsArray() ([]*Value, error) {
	if v.typ != Array {
		return nil, fmt.Errorf("%w: value not an array: %v", ErrType, v)
	}
	return v.arrayValue, nil
}

// AsObject returns v's members keyed by property name. Returns ErrType if v
// is not an object.
func (v *Value) AsObject() (map[string]*Value, error) {
	if v.typ != Object {
		return nil, fmt.Errorf("%w: value not an object: %v", ErrType, v)
	}
	m := make(map[string]*Value, len(v.objectValue))
	for _, p := range v.objectValue {
		m[p.key] = p.val
	}
	return m, nil
}

// String renders v for debugging. It is not guaranteed to be valid JSON
// (e.g. it re-serializes the number's lossless text verbatim).
func (v *Value) String() string {
	switch v.typ {
	case Null:
		return "null"
	case Number:
		return v.numberText
	case String:
		return strconv.Quote(v.stringValue)
	case Boolean:
		if v.boolValue {
			return "true"
		}
		return "false"
	case Array:
		var b strings.Builder
		b.WriteByte('[')
		for i, e := range v.arrayValue {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.String())
		}
		b.WriteByte(']')
		return b.String()
	case Object:
		var b strings.Builder
		b.WriteByte('{')
		for i, p := range v.objectValue {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(p.key))
			b.WriteString(": ")
			b.WriteString(p.val.String())
		}
		b.WriteByte('}')
		return b.String()
	}
	return "<unknown>"
}

// Index is a fluent accessor for array members; it returns a non-nil zero
// Value instead of an error when v isn't an array or i is out of range.
func (v *Value) Index(i int) *Value {
	if v.typ != Array || i < 0 || i >= len(v.arrayValue) {
		return &Value{}
	}
	return v.arrayValue[i]
}

// Key is a fluent accessor for object members; it returns a non-nil zero
// Value instead of an error when v isn't an object or k is absent.
func (v *Value) Key(k string) *Value {
	if v.typ != Object {
		return &Value{}
	}
	for _, p := range v.objectValue {
		if p.key == k {
			return p.val
		}
	}
	return &Value{}
}

// valueBuilder replays a well-formed Event stream into a Value tree.
type valueBuilder struct {
	root    *Value
	stack   []*Value
	pending *strings.Builder // accumulates a StringEvent's fragments until IsFinal
}

func (b *valueBuilder) attach(path Path, v *Value) {
	if len(b.stack) == 0 {
		b.root = v
		return
	}
	parent := b.stack[len(b.stack)-1]
	last := path[len(path)-1]
	if last.Kind == KeyComponent {
		parent.objectValue = append(parent.objectValue, pair{key: last.Key, val: v})
	} else {
		parent.arrayValue = append(parent.arrayValue, v)
	}
}

func (b *valueBuilder) push(ev Event, v *Value) {
	b.attach(ev.Path, v)
	b.stack = append(b.stack, v)
}

func (b *valueBuilder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}

func (b *valueBuilder) apply(ev Event) {
	switch ev.Kind {
	case ObjectBeginEvent:
		b.push(ev, &Value{typ: Object})
	case ArrayBeginEvent:
		b.push(ev, &Value{typ: Array})
	case ObjectEndEvent, ArrayEndEvent:
		b.pop()
	case NullEvent:
		b.attach(ev.Path, &Value{typ: Null})
	case BooleanEvent:
		b.attach(ev.Path, &Value{typ: Boolean, boolValue: ev.Bool})
	case NumberEvent:
		b.attach(ev.Path, &Value{typ: Number, numberText: ev.Number})
	case StringEvent:
		if b.pending == nil {
			b.pending = &strings.Builder{}
		}
		b.pending.WriteString(ev.Fragment.Text)
		if ev.IsFinal {
			b.attach(ev.Path, &Value{typ: String, stringValue: b.pending.String()})
			b.pending = nil
		}
	}
}

// Collect replays a complete Event stream (as produced by draining every
// FeedIter returned from a parse, in order) into a Value tree. It is the
// caller's responsibility to ensure the stream is well-formed and complete
// (ends with the root value's closing event); a truncated stream yields a
// partially built, possibly nil root.
func Collect(events []Event) *Value {
	b := &valueBuilder{}
	for _, ev := range events {
		b.apply(ev)
	}
	return b.root
}
