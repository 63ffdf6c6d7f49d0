package steps

import (
	"strconv"

	"github.com/shaiso/advent/internal/domain"
)

// StageToOptionalInt — преобразование строки в опциональное целое.
const StageToOptionalInt = "to_optional_int"

// ToOptionalIntDef описывает стадию to_optional_int: str → int.
//
// Строка целиком должна быть десятичным неотрицательным числом.
// Пустая строка, любой нецифровой символ или переполнение дают Absent.
func ToOptionalIntDef() *Def {
	return &Def{
		Name:   StageToOptionalInt,
		Input:  domain.ItemString,
		Output: domain.ItemInt,
		Arg:    domain.ArgNone,
		New: func(*Env, domain.Literal) (Stage, error) {
			return toOptionalInt{}, nil
		},
	}
}

type toOptionalInt struct{}

func (toOptionalInt) Process(next Emitter, item domain.Item) error {
	if item.IsEnd() {
		return next.Push(item)
	}
	if i, ok := parseDecimal(item.Str); ok {
		return next.Push(domain.Int(i))
	}
	return next.Push(domain.Absent())
}

// parseDecimal разбирает строку из одних десятичных цифр.
// strconv.Atoi сам по себе принимает знак, поэтому цифры проверяются заранее.
func parseDecimal(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
