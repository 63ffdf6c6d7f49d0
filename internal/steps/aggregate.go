package steps

import (
	"fmt"

	"github.com/shaiso/advent/internal/domain"
)

// Имена агрегирующих стадий.
const (
	StageDelimSum = "delimsum"
	StageMax      = "max"
	StageTopN     = "topn"
	StageSum      = "sum"
)

// MaxTopN — наибольшее допустимое n для topn(n).
const MaxTopN = 1 << 16

// --- delimsum ---

// DelimSumDef описывает стадию delimsum: int → int.
//
// Складывает значения; на Absent выдаёт сумму и обнуляет её.
// Так суммы строк превращаются в суммы блоков, разделённых пустой строкой.
// На конце потока выдаёт текущую сумму, затем End.
func DelimSumDef() *Def {
	return &Def{
		Name:   StageDelimSum,
		Input:  domain.ItemInt,
		Output: domain.ItemInt,
		Arg:    domain.ArgNone,
		New: func(*Env, domain.Literal) (Stage, error) {
			return &delimSum{}, nil
		},
	}
}

type delimSum struct {
	sum int
}

func (s *delimSum) Process(next Emitter, item domain.Item) error {
	switch item.Signal {
	case domain.SignalEnd:
		if err := next.Push(domain.Int(s.sum)); err != nil {
			return err
		}
		return next.Push(item)
	case domain.SignalAbsent:
		sum := s.sum
		s.sum = 0
		return next.Push(domain.Int(sum))
	default:
		s.sum += item.Int
		return nil
	}
}

// --- max ---

// MaxDef описывает стадию max: int → int.
//
// Хранит максимум значений (начальное значение 0), Absent игнорирует.
// Выдаёт максимум только на конце потока.
func MaxDef() *Def {
	return &Def{
		Name:   StageMax,
		Input:  domain.ItemInt,
		Output: domain.ItemInt,
		Arg:    domain.ArgNone,
		New: func(*Env, domain.Literal) (Stage, error) {
			return &maxStage{}, nil
		},
	}
}

type maxStage struct {
	max int
}

func (s *maxStage) Process(next Emitter, item domain.Item) error {
	switch item.Signal {
	case domain.SignalEnd:
		if err := next.Push(domain.Int(s.max)); err != nil {
			return err
		}
		return next.Push(item)
	case domain.SignalAbsent:
		return nil
	default:
		if item.Int > s.max {
			s.max = item.Int
		}
		return nil
	}
}

// --- topn ---

// TopNDef описывает стадию topn(n): int → int_array.
//
// Хранит n наибольших значений по убыванию (сдвиг при вставке),
// незаполненные позиции равны 0. Absent игнорирует. n от 1 до MaxTopN.
// Выдаёт копию массива только на конце потока.
func TopNDef() *Def {
	return &Def{
		Name:   StageTopN,
		Input:  domain.ItemInt,
		Output: domain.ItemIntArray,
		Arg:    domain.ArgInt,
		New: func(_ *Env, arg domain.Literal) (Stage, error) {
			if arg.IsZero() {
				return nil, &StageError{Stage: "topn<int>", Err: ErrMissingArgument}
			}
			if arg.Int <= 0 {
				return nil, &StageError{
					Stage: "topn<int>",
					Err:   fmt.Errorf("%w: n must be positive, got %d", ErrInvalidArgument, arg.Int),
				}
			}
			if arg.Int > MaxTopN {
				return nil, &StageError{
					Stage: "topn<int>",
					Err:   fmt.Errorf("%w: n must be at most %d, got %d", ErrInvalidArgument, MaxTopN, arg.Int),
				}
			}
			return &topN{top: make([]int, arg.Int)}, nil
		},
	}
}

type topN struct {
	top []int
}

func (s *topN) Process(next Emitter, item domain.Item) error {
	switch item.Signal {
	case domain.SignalEnd:
		out := make([]int, len(s.top))
		copy(out, s.top)
		if err := next.Push(domain.Ints(out)); err != nil {
			return err
		}
		return next.Push(item)
	case domain.SignalAbsent:
		return nil
	default:
		s.insert(item.Int)
		return nil
	}
}

// insert вставляет v на своё место, вытесняя наименьший элемент.
func (s *topN) insert(v int) {
	for j := range s.top {
		if v > s.top[j] {
			copy(s.top[j+1:], s.top[j:len(s.top)-1])
			s.top[j] = v
			return
		}
	}
}

// Close освобождает массив.
func (s *topN) Close() error {
	s.top = nil
	return nil
}

// --- sum ---

// SumDef описывает стадию sum: int_array → int.
// Выдаёт сумму для каждого полученного массива, End передаёт дальше.
func SumDef() *Def {
	return &Def{
		Name:   StageSum,
		Input:  domain.ItemIntArray,
		Output: domain.ItemInt,
		Arg:    domain.ArgNone,
		New: func(*Env, domain.Literal) (Stage, error) {
			return sumStage{}, nil
		},
	}
}

type sumStage struct{}

func (sumStage) Process(next Emitter, item domain.Item) error {
	if item.IsEnd() {
		return next.Push(item)
	}
	total := 0
	for _, v := range item.Ints {
		total += v
	}
	return next.Push(domain.Int(total))
}
