package steps

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shaiso/advent/internal/domain"
)

// StagePrint — терминальная стадия вывода.
const StagePrint = "print"

// PrintStringDef описывает print<str>: пишет строку и перевод строки.
func PrintStringDef() *Def {
	return &Def{
		Name:   StagePrint,
		Input:  domain.ItemString,
		Output: domain.ItemNone,
		Arg:    domain.ArgNone,
		New: func(env *Env, _ domain.Literal) (Stage, error) {
			return &printString{out: env.Out}, nil
		},
	}
}

type printString struct {
	out io.Writer
}

func (s *printString) Process(_ Emitter, item domain.Item) error {
	if item.IsEnd() {
		return nil
	}
	if _, err := io.WriteString(s.out, item.Str+"\n"); err != nil {
		return &StageError{Stage: "print<str>", Err: err}
	}
	return nil
}

// PrintIntDef описывает print<int>("prefix"): пишет префикс и число.
//
// Для Absent пишет только префикс (или пустую строку без префикса).
// Конец потока игнорирует.
func PrintIntDef() *Def {
	return &Def{
		Name:   StagePrint,
		Input:  domain.ItemInt,
		Output: domain.ItemNone,
		Arg:    domain.ArgString,
		New: func(env *Env, arg domain.Literal) (Stage, error) {
			return &printInt{out: env.Out, prefix: arg.Str}, nil
		},
	}
}

type printInt struct {
	out    io.Writer
	prefix string
}

func (s *printInt) Process(_ Emitter, item domain.Item) error {
	var line string
	switch item.Signal {
	case domain.SignalEnd:
		return nil
	case domain.SignalAbsent:
		line = s.prefix
	default:
		line = s.prefix + strconv.Itoa(item.Int)
	}
	if _, err := fmt.Fprintln(s.out, line); err != nil {
		return &StageError{Stage: "print<int>", Err: err}
	}
	return nil
}
