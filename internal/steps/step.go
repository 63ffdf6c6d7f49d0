package steps

import (
	"errors"
	"io"
	"os"

	"github.com/shaiso/advent/internal/domain"
)

// Ошибки стадий.
var (
	// ErrStageNotFound — стадия с таким именем не зарегистрирована.
	ErrStageNotFound = errors.New("stage not found")

	// ErrInputTypeMismatch — стадия с таким именем есть, но для другого типа входа.
	ErrInputTypeMismatch = errors.New("stage does not accept input type")

	// ErrDuplicateStage — пара (имя, тип входа) уже зарегистрирована.
	ErrDuplicateStage = errors.New("duplicate stage")

	// ErrInvalidArgument — литеральный аргумент не подходит стадии.
	ErrInvalidArgument = errors.New("invalid stage argument")

	// ErrMissingArgument — стадия требует аргумент, а он не передан.
	ErrMissingArgument = errors.New("missing stage argument")

	// ErrBufferOverflow — внутренний буфер стадии переполнен.
	ErrBufferOverflow = errors.New("buffer overflow")
)

// Emitter — получатель элементов: следующий узел pipeline.
type Emitter interface {
	// Push передаёт элемент получателю синхронно.
	Push(item domain.Item) error
}

// Discard — Emitter, который отбрасывает всё. Successor терминальных стадий.
var Discard Emitter = discard{}

type discard struct{}

func (discard) Push(domain.Item) error { return nil }

// Stage — экземпляр стадии с приватным изменяемым состоянием.
//
// Process вызывается один раз на каждый элемент и ровно один раз с сигналом
// конца потока. Для каждого элемента стадия либо молча обновляет состояние,
// либо синхронно вызывает next.Push ноль, один или два раза.
// Стадии, сбрасывающие состояние на конце потока, сначала выдают финальное
// значение, затем передают End дальше.
type Stage interface {
	Process(next Emitter, item domain.Item) error
}

// Closer реализуется стадиями, которым нужно освободить ресурсы при разборе графа.
type Closer interface {
	Close() error
}

// Env — окружение, в котором создаются стадии.
type Env struct {
	// Out — поток, в который пишут терминальные стадии.
	Out io.Writer
}

// DefaultEnv возвращает окружение с выводом в stdout.
func DefaultEnv() *Env {
	return &Env{Out: os.Stdout}
}

// Def — описание вида стадии в реестре.
type Def struct {
	// Name — имя стадии в программе. Может повторяться для разных Input.
	Name string

	// Input — тип принимаемых элементов.
	Input domain.ItemType

	// Output — тип выдаваемых элементов. ItemNone для терминальных стадий.
	Output domain.ItemType

	// Arg — тип литерального аргумента, ArgNone если аргумента нет.
	Arg domain.ArgType

	// New создаёт состояние стадии из литерала (init).
	New func(env *Env, arg domain.Literal) (Stage, error)
}

// Signature возвращает имя стадии с типом входа: "print<int>".
func (d *Def) Signature() string {
	return d.Name + "<" + d.Input.String() + ">"
}

// IsTerminal — true, если стадия завершает цепочку.
func (d *Def) IsTerminal() bool {
	return d.Output == domain.ItemNone
}

// Build создаёт экземпляр стадии, проверяя аргумент.
func (d *Def) Build(env *Env, arg domain.Literal) (Stage, error) {
	if !arg.IsZero() && arg.Type != d.Arg {
		return nil, &StageError{Stage: d.Signature(), Err: ErrInvalidArgument}
	}
	if env == nil {
		env = DefaultEnv()
	}
	return d.New(env, arg)
}

// StageError — ошибка конкретной стадии.
type StageError struct {
	Stage string // сигнатура стадии
	Err   error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *StageError) Error() string {
	return e.Stage + ": " + e.Err.Error()
}

// Unwrap возвращает базовую ошибку.
func (e *StageError) Unwrap() error {
	return e.Err
}
