package domain

// ArgType — тип литерального аргумента стадии: group('\n'), topn(3), print("Part 1: ").
type ArgType int

const (
	// ArgNone — стадия не принимает аргумент.
	ArgNone ArgType = iota

	// ArgChar — символьный литерал 'c'.
	ArgChar

	// ArgInt — десятичное целое.
	ArgInt

	// ArgString — строковый литерал "..." без escape-последовательностей.
	ArgString
)

// String возвращает имя типа аргумента.
func (t ArgType) String() string {
	switch t {
	case ArgNone:
		return "none"
	case ArgChar:
		return "character"
	case ArgInt:
		return "integer"
	case ArgString:
		return "string"
	default:
		return "unknown"
	}
}

// Literal — распарсенный литерал аргумента.
// Нулевое значение (Type == ArgNone) означает, что аргумент не передан.
type Literal struct {
	Type ArgType
	Char byte
	Int  int
	Str  string
}

// IsZero — true, если аргумент не был передан.
func (l Literal) IsZero() bool {
	return l.Type == ArgNone
}

// CharLiteral создаёт символьный литерал.
func CharLiteral(c byte) Literal {
	return Literal{Type: ArgChar, Char: c}
}

// IntLiteral создаёт целочисленный литерал.
func IntLiteral(i int) Literal {
	return Literal{Type: ArgInt, Int: i}
}

// StringLiteral создаёт строковый литерал.
func StringLiteral(s string) Literal {
	return Literal{Type: ArgString, Str: s}
}
