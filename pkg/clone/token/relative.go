package token

// Relativize performs the relative-mode second pass over an already-lexed
// token stream: within each statement (delimited by Newline), the first
// non-label Symbol becomes a KeySymbol, labels (a Symbol immediately
// followed by Colon) and every subsequent Symbol become RelativeSymbol(gap)
// where gap is the distance (in tokens) since the text's prior occurrence,
// or 0 on first occurrence. This is a single pass with one token of
// lookahead; it never backtracks, matching the statement parser design
// note. All non-Symbol tokens pass through unchanged.
func Relativize(in []Spanned) []Spanned {
	out := make([]Spanned, len(in))
	lastIndex := make(map[string]int)
	tokenCount := 0
	haveKey := false

	gapFor := func(text string) int {
		idx, ok := lastIndex[text]
		gap := 0
		if ok {
			gap = tokenCount - idx
		}
		lastIndex[text] = tokenCount
		return gap
	}

	for i, sp := range in {
		switch sp.Token.Kind {
		case Newline:
			out[i] = sp
			haveKey = false

		case Symbol:
			isLabel := i+1 < len(in) && in[i+1].Token.Kind == Colon
			if isLabel {
				gap := gapFor(sp.Token.Text)
				out[i] = Spanned{Token{Kind: RelativeSymbol, Offset: gap}, sp.Span}
			} else if !haveKey {
				out[i] = Spanned{Token{Kind: KeySymbol, Text: sp.Token.Text}, sp.Span}
				haveKey = true
			} else {
				gap := gapFor(sp.Token.Text)
				out[i] = Spanned{Token{Kind: RelativeSymbol, Offset: gap}, sp.Span}
			}

		default:
			out[i] = sp
		}
		tokenCount++
	}
	return out
}
