package token

import "testing"

func TestStripWhitespaceDropsSkippableKinds(t *testing.T) {
	toks := LexNaive("mov r0, r0 // comment\n")
	stripped := StripWhitespace(toks)
	for _, sp := range stripped {
		if isSkippable(sp.Token.Kind) {
			t.Fatalf("unexpected skippable token survived: %v", sp.Token.Kind)
		}
	}
}

func TestStripWhitespaceRelativeRenumbersOffsets(t *testing.T) {
	// The second "r0" occurrence carries a nonzero gap, with a whitespace
	// token between the two occurrences that must be subtracted out of the
	// surviving offset.
	toks := LexNaive("mov r0, r0\n")
	rel := Relativize(toks)

	var beforeOffset int
	for _, sp := range rel {
		if sp.Token.Kind == RelativeSymbol && sp.Token.Offset != 0 {
			beforeOffset = sp.Token.Offset
		}
	}
	if beforeOffset == 0 {
		t.Fatal("setup: expected a nonzero relative offset before stripping")
	}

	stripped := StripWhitespaceRelative(rel)
	var afterOffset int
	found := false
	for _, sp := range stripped {
		if sp.Token.Kind == RelativeSymbol && sp.Token.Offset != 0 {
			afterOffset = sp.Token.Offset
			found = true
		}
	}
	if !found {
		t.Fatal("expected surviving RelativeSymbol with nonzero offset")
	}
	if afterOffset >= beforeOffset {
		t.Fatalf("expected offset to shrink after removing whitespace: before=%d after=%d", beforeOffset, afterOffset)
	}
	for _, sp := range stripped {
		if isSkippable(sp.Token.Kind) {
			t.Fatalf("skippable token survived stripping: %v", sp.Token.Kind)
		}
	}
}

func TestStripWhitespaceRelativePreservesZeroOffset(t *testing.T) {
	toks := LexNaive("mov r0\n")
	rel := Relativize(toks)
	stripped := StripWhitespaceRelative(rel)
	for _, sp := range stripped {
		if sp.Token.Kind == RelativeSymbol && sp.Token.Offset != 0 {
			t.Fatalf("first occurrence should keep offset 0, got %d", sp.Token.Offset)
		}
	}
}
