package engine

import (
	"strconv"

	"github.com/shaiso/advent/internal/domain"
)

// tokenKind — вид токена.
type tokenKind int

const (
	tokEOF    tokenKind = iota
	tokIdent            // group, input, elves
	tokPipe             // |>
	tokArrow            // ->
	tokLParen           // (
	tokRParen           // )
	tokInt              // 3
	tokChar             // '\n'
	tokString           // "Part 1: "
)

// String возвращает читаемое имя вида токена.
func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of program"
	case tokIdent:
		return "identifier"
	case tokPipe:
		return "'|>'"
	case tokArrow:
		return "'->'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokInt:
		return "integer literal"
	case tokChar:
		return "character literal"
	case tokString:
		return "string literal"
	default:
		return "unknown token"
	}
}

// token — лексема с позицией начала.
type token struct {
	kind tokenKind
	text string         // исходный текст идентификатора
	lit  domain.Literal // значение для литералов
	pos  Position
}

// isLiteral — true для литеральных токенов.
func (t token) isLiteral() bool {
	return t.kind == tokInt || t.kind == tokChar || t.kind == tokString
}

// describe возвращает описание токена для сообщений об ошибках.
func (t token) describe() string {
	if t.kind == tokIdent {
		return "'" + t.text + "'"
	}
	return t.kind.String()
}

// lexer — сканер программы. Пробельные символы (включая переводы строк)
// вне литералов не значимы.
type lexer struct {
	src       string
	off       int
	line      int
	lineStart int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

// pos возвращает текущую позицию.
func (l *lexer) pos() Position {
	return Position{Line: l.line, Column: l.off - l.lineStart + 1}
}

// advance сдвигает курсор на один байт, учитывая переводы строк.
func (l *lexer) advance() {
	if l.src[l.off] == '\n' {
		l.line++
		l.lineStart = l.off + 1
	}
	l.off++
}

// peekByte возвращает байт по смещению от курсора или 0 за концом.
func (l *lexer) peekByte(ahead int) byte {
	if l.off+ahead >= len(l.src) {
		return 0
	}
	return l.src[l.off+ahead]
}

func (l *lexer) eof() bool {
	return l.off >= len(l.src)
}

// next возвращает следующий токен.
func (l *lexer) next() (token, error) {
	for !l.eof() && isSpace(l.src[l.off]) {
		l.advance()
	}

	pos := l.pos()
	if l.eof() {
		return token{kind: tokEOF, pos: pos}, nil
	}

	c := l.src[l.off]
	switch {
	case isAlpha(c):
		start := l.off
		for !l.eof() && isIdentChar(l.src[l.off]) {
			l.advance()
		}
		return token{kind: tokIdent, text: l.src[start:l.off], pos: pos}, nil

	case isDigit(c):
		return l.lexInt(pos)

	case c == '|' || c == '-':
		next := l.peekByte(1)
		if next != '>' {
			return token{}, newParseError(pos, ErrUnexpectedChar,
				"expected '%c>', got %s", c, strconv.Quote(l.src[l.off:min(l.off+2, len(l.src))]))
		}
		l.advance()
		l.advance()
		if c == '|' {
			return token{kind: tokPipe, pos: pos}, nil
		}
		return token{kind: tokArrow, pos: pos}, nil

	case c == '(':
		l.advance()
		return token{kind: tokLParen, pos: pos}, nil

	case c == ')':
		l.advance()
		return token{kind: tokRParen, pos: pos}, nil

	case c == '\'':
		return l.lexChar(pos)

	case c == '"':
		return l.lexString(pos)

	default:
		return token{}, newParseError(pos, ErrUnexpectedChar, "unexpected character %q", c)
	}
}

// lexInt читает десятичное целое.
func (l *lexer) lexInt(pos Position) (token, error) {
	start := l.off
	for !l.eof() && isDigit(l.src[l.off]) {
		l.advance()
	}

	text := l.src[start:l.off]
	n, err := strconv.Atoi(text)
	if err != nil {
		return token{}, newParseError(pos, ErrInvalidLiteral, "integer literal %s out of range", text)
	}
	return token{kind: tokInt, text: text, lit: domain.IntLiteral(n), pos: pos}, nil
}

// lexChar читает символьный литерал: ровно один символ или escape.
func (l *lexer) lexChar(pos Position) (token, error) {
	l.advance() // '

	if l.eof() {
		return token{}, newParseError(pos, ErrUnterminatedLiteral, "unterminated character literal")
	}

	c := l.src[l.off]
	if c == '\'' {
		return token{}, newParseError(pos, ErrInvalidLiteral, "empty character literal")
	}
	l.advance()

	if c == '\\' {
		if l.eof() {
			return token{}, newParseError(pos, ErrUnterminatedLiteral, "unterminated character literal")
		}
		esc, ok := unescape(l.src[l.off])
		if !ok {
			return token{}, newParseError(pos, ErrInvalidLiteral,
				"unknown escape sequence '\\%c'", l.src[l.off])
		}
		c = esc
		l.advance()
	}

	if l.eof() {
		return token{}, newParseError(pos, ErrUnterminatedLiteral, "unterminated character literal")
	}
	if l.src[l.off] != '\'' {
		return token{}, newParseError(pos, ErrInvalidLiteral,
			"character literal must contain exactly one character")
	}
	l.advance()

	return token{kind: tokChar, lit: domain.CharLiteral(c), pos: pos}, nil
}

// lexString читает строковый литерал без обработки escape.
func (l *lexer) lexString(pos Position) (token, error) {
	l.advance() // "

	start := l.off
	for !l.eof() && l.src[l.off] != '"' {
		l.advance()
	}
	if l.eof() {
		return token{}, newParseError(pos, ErrUnterminatedLiteral, "unterminated string literal")
	}

	text := l.src[start:l.off]
	l.advance()

	return token{kind: tokString, lit: domain.StringLiteral(text), pos: pos}, nil
}

// unescape возвращает значение escape-последовательности после '\'.
func unescape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case '\\':
		return '\\', true
	case '\'':
		return '\'', true
	default:
		return 0, false
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentChar(c byte) bool {
	return isAlpha(c) || isDigit(c) || c == '_'
}
