// Package token implements the transformation-resistant assembly tokenizer:
// byte, naive, and relative strategies over GNU ARM assembly source text.
package token

// Kind tags the variant a Token carries. Equality and hashing for a Token
// are defined entirely in terms of Kind plus whichever payload field that
// Kind uses; see HashToken.
type Kind int

const (
	Whitespace Kind = iota
	Newline
	Comment
	Symbol
	KeySymbol
	RelativeSymbol
	Integer
	FloatingPoint
	Character
	Comma
	Colon
	LParen
	RParen
	LBracket
	RBracket
	Hash
	Plus
	Minus
	Star
	Slash
	Percent
	ShiftLeft
	ShiftRight
	BitwiseNot
	BitwiseAnd
	BitwiseOr
	BitwiseXor
	BitwiseOrNot
	Equals
	NotEquals
	LessThan
	GreaterThan
	LessThanOrEquals
	GreaterThanOrEquals
	LogicalAnd
	LogicalOr
	Error
)

func (k Kind) String() string {
	switch k {
	case Whitespace:
		return "Whitespace"
	case Newline:
		return "Newline"
	case Comment:
		return "Comment"
	case Symbol:
		return "Symbol"
	case KeySymbol:
		return "KeySymbol"
	case RelativeSymbol:
		return "RelativeSymbol"
	case Integer:
		return "Integer"
	case FloatingPoint:
		return "FloatingPoint"
	case Character:
		return "Character"
	case Comma:
		return "Comma"
	case Colon:
		return "Colon"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Hash:
		return "Hash"
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Star:
		return "Star"
	case Slash:
		return "Slash"
	case Percent:
		return "Percent"
	case ShiftLeft:
		return "ShiftLeft"
	case ShiftRight:
		return "ShiftRight"
	case BitwiseNot:
		return "BitwiseNot"
	case BitwiseAnd:
		return "BitwiseAnd"
	case BitwiseOr:
		return "BitwiseOr"
	case BitwiseXor:
		return "BitwiseXor"
	case BitwiseOrNot:
		return "BitwiseOrNot"
	case Equals:
		return "Equals"
	case NotEquals:
		return "NotEquals"
	case LessThan:
		return "LessThan"
	case GreaterThan:
		return "GreaterThan"
	case LessThanOrEquals:
		return "LessThanOrEquals"
	case GreaterThanOrEquals:
		return "GreaterThanOrEquals"
	case LogicalAnd:
		return "LogicalAnd"
	case LogicalOr:
		return "LogicalOr"
	case Error:
		return "Error"
	default:
		return "Unknown"
	}
}

// Token is a tagged variant. Only the field(s) relevant to Kind are
// meaningful; the rest are zero. Symbol, KeySymbol, and Comment carry Text
// (already lowercased for Symbol/KeySymbol). RelativeSymbol carries Offset.
// Integer carries Int. FloatingPoint carries FloatBits, the raw IEEE-754
// bit pattern — never compare or hash floats by arithmetic value.
// Character carries Text (the literal body, unescaped form left as-is).
type Token struct {
	Kind      Kind
	Text      string
	Int       int64
	FloatBits uint64
	Offset    int
}

// Span is a half-open byte range [Start, End) over the original file's
// raw bytes, never character/rune offsets.
type Span struct {
	Start int
	End   int
}

// Len reports the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Cover returns the smallest span containing both s and o.
func Cover(s, o Span) Span {
	start := s.Start
	if o.Start < start {
		start = o.Start
	}
	end := s.End
	if o.End > end {
		end = o.End
	}
	return Span{Start: start, End: end}
}

// Spanned pairs a Token with the byte span it was lexed from.
type Spanned struct {
	Token Token
	Span  Span
}

// HashedToken is the uniform shape consumed by every downstream stage: a
// 64-bit hash (of a token or a k-gram of tokens) plus the byte span it
// covers.
type HashedToken struct {
	Hash uint64
	Span Span
}
