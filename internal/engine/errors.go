package engine

import (
	"errors"
	"fmt"
)

// Ошибки разбора программы.
var (
	// ErrUnexpectedChar — символ, с которого не начинается ни один токен.
	ErrUnexpectedChar = errors.New("unexpected character")

	// ErrUnexpectedToken — токен не допустим в текущем состоянии парсера.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUnexpectedEOF — программа оборвалась посреди конструкции.
	ErrUnexpectedEOF = errors.New("unexpected end of program")

	// ErrUnknownIdent — голова pipeline ссылается на необъявленную ветку.
	ErrUnknownIdent = errors.New("unknown identifier")

	// ErrUnknownStage — стадии с таким именем нет.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrTypeMismatch — стадия есть, но не принимает текущий тип элементов.
	ErrTypeMismatch = errors.New("stage input type mismatch")

	// ErrInvalidLiteral — некорректный литерал.
	ErrInvalidLiteral = errors.New("invalid literal")

	// ErrUnterminatedLiteral — литерал не закрыт до конца программы.
	ErrUnterminatedLiteral = errors.New("unterminated literal")

	// ErrArgumentType — тип литерала не совпадает с типом аргумента стадии.
	ErrArgumentType = errors.New("unexpected literal argument type")

	// ErrInputNotFirst — input использован не как первая голова.
	ErrInputNotFirst = errors.New("input must be the first pipeline head")

	// ErrInputAsBranch — input использован как имя ветки.
	ErrInputAsBranch = errors.New("cannot use 'input' as fanout target")

	// ErrDuplicateBranch — ветка с таким именем уже объявлена.
	ErrDuplicateBranch = errors.New("duplicate fanout name")

	// ErrCapacityExceeded — превышено число веток или потомков fanout.
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// Ошибки выполнения.
var (
	// ErrAlreadyProcessed — pipeline уже прогнан; повторный прогон не поддерживается.
	ErrAlreadyProcessed = errors.New("pipeline already processed")

	// ErrClosed — pipeline уже разобран.
	ErrClosed = errors.New("pipeline closed")
)

// Position — позиция в тексте программы. Line и Column начинаются с 1,
// Column считается в байтах от последнего перевода строки.
type Position struct {
	Line   int
	Column int
}

// String возвращает позицию в виде "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ParseError — ошибка разбора с позицией.
type ParseError struct {
	Pos     Position // позиция первого символа проблемного токена
	Message string   // описание ошибки
	Err     error    // базовая ошибка
}

// Error реализует интерфейс error.
// Формат совпадает с диагностикой CLI: "<message>\n  at <line>:<column>".
func (e *ParseError) Error() string {
	return e.Message + "\n  at " + e.Pos.String()
}

// Unwrap возвращает базовую ошибку.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// newParseError создаёт ParseError с форматированным сообщением.
func newParseError(pos Position, err error, format string, args ...any) *ParseError {
	return &ParseError{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}
