package token

func isSkippable(k Kind) bool {
	return k == Whitespace || k == Newline || k == Comment
}

// StripWhitespace drops Whitespace, Newline, and Comment tokens. It is used
// for byte-agnostic naive-mode streams, where there is no RelativeSymbol
// offset to renumber.
func StripWhitespace(in []Spanned) []Spanned {
	out := make([]Spanned, 0, len(in))
	for _, sp := range in {
		if isSkippable(sp.Token.Kind) {
			continue
		}
		out = append(out, sp)
	}
	return out
}

// StripWhitespaceRelative drops Whitespace, Newline, and Comment tokens from
// a relativized stream, renumbering every surviving RelativeSymbol(offset)
// by subtracting the count of removed tokens within the last (offset - 1)
// positions of the original stream. An offset of 0 is left untouched.
func StripWhitespaceRelative(in []Spanned) []Spanned {
	out := make([]Spanned, 0, len(in))
	removed := make([]bool, 0, len(in))

	for _, sp := range in {
		if isSkippable(sp.Token.Kind) {
			removed = append(removed, true)
			continue
		}

		tok := sp.Token
		if tok.Kind == RelativeSymbol && tok.Offset != 0 {
			n := tok.Offset - 1
			tok.Offset -= countRemovedInLastN(removed, n)
		}
		out = append(out, Spanned{tok, sp.Span})
		removed = append(removed, false)
	}
	return out
}

func countRemovedInLastN(removed []bool, n int) int {
	if n <= 0 {
		return 0
	}
	start := len(removed) - n
	if start < 0 {
		start = 0
	}
	count := 0
	for i := start; i < len(removed); i++ {
		if removed[i] {
			count++
		}
	}
	return count
}
