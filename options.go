package jsonmodem

// DecodeMode governs how the parser handles raw \uXXXX escapes that decode
// to a surrogate code point without (or with a mismatched) partner,
// grounded on original_source's options.rs DecodeMode, but narrowed to the
// policies this package's single UTF-8 text backend can actually honor
// (see DESIGN.md).
type DecodeMode int8

const (
	// DecodeStrictUnicode rejects any lone surrogate with InvalidUnicodeEscape.
	DecodeStrictUnicode DecodeMode = iota
	// DecodeReplaceInvalid substitutes U+FFFD for a lone surrogate.
	DecodeReplaceInvalid
	// DecodeSurrogatePreserving asks for the original, unpaired surrogate
	// code units to survive in the output. This backend has no
	// surrogate-preserving string representation to hand back through a
	// Go string (which must be valid UTF-8), so it degrades to the same
	// behavior as DecodeReplaceInvalid.
	DecodeSurrogatePreserving
)

// ParserOptions configures a Parser. The zero value is the strict default:
// ASCII-only structural whitespace, single top-level value, and lone
// surrogates rejected as a syntax error.
type ParserOptions struct {
	// AllowUnicodeWhitespace additionally treats the Unicode space
	// separators (category Zs), U+2028 LINE SEPARATOR, U+2029 PARAGRAPH
	// SEPARATOR and the byte-order mark as insignificant whitespace between
	// tokens, not just the four ASCII whitespace characters the JSON grammar
	// requires.
	AllowUnicodeWhitespace bool

	// AllowMultipleJSONValues lets the parser accept a stream of
	// concatenated top-level JSON values (as produced by, e.g.,
	// newline-delimited JSON or back-to-back SSE payloads) instead of
	// erroring on trailing input after the first value.
	AllowMultipleJSONValues bool

	// DecodeMode controls lone-surrogate handling in \uXXXX escapes.
	DecodeMode DecodeMode
}
