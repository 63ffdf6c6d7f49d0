package steps

import (
	"fmt"

	"github.com/shaiso/advent/internal/domain"
)

// Registry — упорядоченный каталог видов стадий.
//
// Поиск идёт по паре (имя, тип входа): несколько стадий могут иметь одно имя,
// если они принимают разные типы (например, два print).
// Заполняется при старте и дальше только читается: Register не вызывается
// конкурентно с Lookup.
type Registry struct {
	defs []*Def
}

// NewRegistry создаёт пустой реестр.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry создаёт реестр со всеми стандартными стадиями.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	// Порядок важен только для вывода Defs (advent stages)
	for _, def := range []*Def{
		GroupDef(),
		ToOptionalIntDef(),
		DelimSumDef(),
		MaxDef(),
		TopNDef(),
		SumDef(),
		PrintStringDef(),
		PrintIntDef(),
	} {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}

	return r
}

// Register добавляет стадию в конец каталога.
// Возвращает ErrDuplicateStage, если пара (имя, тип входа) уже занята.
func (r *Registry) Register(def *Def) error {
	for _, d := range r.defs {
		if d.Name == def.Name && d.Input == def.Input {
			return fmt.Errorf("%w: %s", ErrDuplicateStage, def.Signature())
		}
	}
	r.defs = append(r.defs, def)
	return nil
}

// Lookup находит стадию по имени и типу входа.
//
// Возвращает ErrStageNotFound, если имя неизвестно, и ErrInputTypeMismatch,
// если имя есть, но ни одна стадия с ним не принимает input.
func (r *Registry) Lookup(name string, input domain.ItemType) (*Def, error) {
	known := false
	for _, d := range r.defs {
		if d.Name != name {
			continue
		}
		if d.Input == input {
			return d, nil
		}
		known = true
	}

	if known {
		return nil, fmt.Errorf("%w: %s<%s>", ErrInputTypeMismatch, name, input)
	}
	return nil, fmt.Errorf("%w: %s", ErrStageNotFound, name)
}

// Defs возвращает копию каталога в порядке регистрации.
func (r *Registry) Defs() []*Def {
	out := make([]*Def, len(r.defs))
	copy(out, r.defs)
	return out
}
