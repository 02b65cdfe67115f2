package token

import "fmt"

// Strategy selects one of the three tokenizing schemes.
type Strategy int

const (
	Bytes Strategy = iota
	Naive
	Relative
)

func (s Strategy) String() string {
	switch s {
	case Bytes:
		return "bytes"
	case Naive:
		return "naive"
	case Relative:
		return "relative"
	default:
		return "unknown"
	}
}

// ParseStrategy parses the CLI/config string form of a strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "bytes", "byte":
		return Bytes, nil
	case "naive":
		return Naive, nil
	case "relative":
		return Relative, nil
	default:
		return 0, fmt.Errorf("unknown tokenizing strategy %q", s)
	}
}

// TokenizeAndHash runs the selected strategy end to end: lex, optionally
// relativize, optionally strip whitespace, then hash every surviving token
// with a fresh hasher. Byte mode never supports whitespace removal.
func TokenizeAndHash(src string, strategy Strategy, ignoreWhitespace bool) ([]HashedToken, error) {
	if strategy == Bytes {
		if ignoreWhitespace {
			return nil, fmt.Errorf("ignore_whitespace is not supported for byte-mode tokenization")
		}
		return LexBytes(src), nil
	}

	spanned := LexNaive(src)

	switch strategy {
	case Naive:
		if ignoreWhitespace {
			spanned = StripWhitespace(spanned)
		}
	case Relative:
		spanned = Relativize(spanned)
		if ignoreWhitespace {
			spanned = StripWhitespaceRelative(spanned)
		}
	default:
		return nil, fmt.Errorf("unknown tokenizing strategy %d", strategy)
	}

	out := make([]HashedToken, len(spanned))
	for i, sp := range spanned {
		out[i] = HashedToken{Hash: HashToken(sp.Token), Span: sp.Span}
	}
	return out, nil
}
