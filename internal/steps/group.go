package steps

import (
	"fmt"

	"github.com/shaiso/advent/internal/domain"
)

const (
	// StageGroup — группировка символов в строки по разделителю.
	StageGroup = "group"

	// GroupCapacity — максимальная длина группы без разделителя.
	GroupCapacity = 16
)

// groupStage накапливает символы до разделителя.
//
//	input |> group('\n') |> ...
//
// На разделителе выдаёт накопленную строку (без разделителя) и очищает буфер.
// На конце потока выдаёт непустой остаток, затем End.
type groupStage struct {
	delim byte
	buf   [GroupCapacity]byte
	n     int
}

// GroupDef описывает стадию group: char → str, аргумент — символ-разделитель.
func GroupDef() *Def {
	return &Def{
		Name:   StageGroup,
		Input:  domain.ItemChar,
		Output: domain.ItemString,
		Arg:    domain.ArgChar,
		New: func(_ *Env, arg domain.Literal) (Stage, error) {
			if arg.IsZero() {
				return nil, &StageError{Stage: "group<char>", Err: ErrMissingArgument}
			}
			return &groupStage{delim: arg.Char}, nil
		},
	}
}

func (s *groupStage) Process(next Emitter, item domain.Item) error {
	if item.IsEnd() {
		if s.n > 0 {
			if err := next.Push(domain.String(s.flush())); err != nil {
				return err
			}
		}
		return next.Push(item)
	}

	if item.Char == s.delim {
		return next.Push(domain.String(s.flush()))
	}

	if s.n == len(s.buf) {
		return &StageError{
			Stage: "group<char>",
			Err:   fmt.Errorf("%w: more than %d characters before %q", ErrBufferOverflow, GroupCapacity, s.delim),
		}
	}
	s.buf[s.n] = item.Char
	s.n++
	return nil
}

// flush возвращает накопленную строку и очищает буфер.
func (s *groupStage) flush() string {
	str := string(s.buf[:s.n])
	s.n = 0
	return str
}
