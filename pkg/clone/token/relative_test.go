package token

import "testing"

func TestRelativizeKeySymbolAndLabel(t *testing.T) {
	// "loop: mov r0, r0\n"
	toks := LexNaive("loop: mov r0, r0\n")
	rel := Relativize(toks)

	var kinds []Kind
	for _, sp := range rel {
		kinds = append(kinds, sp.Token.Kind)
	}

	// loop (label, RelativeSymbol) : Whitespace mov (KeySymbol) Whitespace r0 (KeySymbol already taken -> RelativeSymbol) , Whitespace r0 (RelativeSymbol) Newline
	if kinds[0] != RelativeSymbol {
		t.Fatalf("expected label 'loop' to become RelativeSymbol, got %v", kinds[0])
	}
	if kinds[1] != Colon {
		t.Fatalf("expected Colon after label, got %v", kinds[1])
	}

	// find the KeySymbol
	var keyIdx = -1
	for i, k := range kinds {
		if k == KeySymbol {
			keyIdx = i
			break
		}
	}
	if keyIdx == -1 {
		t.Fatal("expected exactly one KeySymbol")
	}

	// every Symbol after the key symbol must have become RelativeSymbol
	for i := keyIdx + 1; i < len(kinds); i++ {
		if kinds[i] == Symbol {
			t.Fatalf("token %d still Symbol after key symbol, should be RelativeSymbol", i)
		}
	}
}

func TestRelativizeFirstOccurrenceOffsetZero(t *testing.T) {
	toks := LexNaive("mov r0, r0\n")
	rel := Relativize(toks)
	var relTokens []Token
	for _, sp := range rel {
		if sp.Token.Kind == RelativeSymbol {
			relTokens = append(relTokens, sp.Token)
		}
	}
	if len(relTokens) != 2 {
		t.Fatalf("expected 2 relative symbols (both r0 occurrences), got %d", len(relTokens))
	}
	if relTokens[0].Offset != 0 {
		t.Fatalf("expected first occurrence offset 0, got %d", relTokens[0].Offset)
	}
	if relTokens[1].Offset == 0 {
		t.Fatal("expected second occurrence to carry a nonzero gap")
	}
}

func TestRelativizeResetsKeySymbolPerStatement(t *testing.T) {
	toks := LexNaive("mov r0, r0\nadd r1, r1\n")
	rel := Relativize(toks)
	var keySymbols []string
	for _, sp := range rel {
		if sp.Token.Kind == KeySymbol {
			keySymbols = append(keySymbols, sp.Token.Text)
		}
	}
	if len(keySymbols) != 2 || keySymbols[0] != "mov" || keySymbols[1] != "add" {
		t.Fatalf("expected one key symbol per statement, got %v", keySymbols)
	}
}
