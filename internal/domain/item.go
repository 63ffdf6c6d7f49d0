package domain

import "strconv"

// ItemType — тип элементов потока на ребре pipeline.
//
// Тип вычисляется статически при парсинге и одинаков для всех элементов,
// проходящих через конкретное ребро графа. В runtime не проверяется.
type ItemType int

const (
	// ItemNone — стадия ничего не выдаёт (терминальная).
	ItemNone ItemType = iota

	// ItemChar — один символ входных данных.
	ItemChar

	// ItemString — строка.
	ItemString

	// ItemInt — опциональное целое (может быть Absent).
	ItemInt

	// ItemIntArray — массив целых.
	ItemIntArray
)

// String возвращает имя типа в том виде, в котором оно печатается в ошибках.
func (t ItemType) String() string {
	switch t {
	case ItemNone:
		return "none"
	case ItemChar:
		return "char"
	case ItemString:
		return "str"
	case ItemInt:
		return "int"
	case ItemIntArray:
		return "int_array"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// Signal — вид элемента: значение, отсутствие значения или конец потока.
//
// Absent и End — разные сигналы и не взаимозаменяемы:
// Absent означает "для этого элемента значения нет", End — "элементов больше не будет".
type Signal uint8

const (
	// SignalValue — обычное значение.
	SignalValue Signal = iota

	// SignalAbsent — опциональное значение отсутствует.
	SignalAbsent

	// SignalEnd — конец потока, стадии должны сбросить накопленное состояние.
	SignalEnd
)

// Item — элемент, передаваемый между стадиями.
//
// Заполнено только поле, соответствующее статическому типу ребра.
type Item struct {
	Signal Signal
	Char   byte
	Str    string
	Int    int
	Ints   []int
}

// Char создаёт элемент-символ.
func Char(c byte) Item {
	return Item{Char: c}
}

// String создаёт строковый элемент.
func String(s string) Item {
	return Item{Str: s}
}

// Int создаёт целочисленный элемент.
func Int(i int) Item {
	return Item{Int: i}
}

// Ints создаёт элемент-массив.
func Ints(arr []int) Item {
	return Item{Ints: arr}
}

// Absent возвращает элемент "значение отсутствует".
func Absent() Item {
	return Item{Signal: SignalAbsent}
}

// End возвращает сигнал конца потока.
func End() Item {
	return Item{Signal: SignalEnd}
}

// IsEnd — true для сигнала конца потока.
func (i Item) IsEnd() bool {
	return i.Signal == SignalEnd
}

// IsAbsent — true, если опциональное значение отсутствует.
func (i Item) IsAbsent() bool {
	return i.Signal == SignalAbsent
}

// IsValue — true для обычного значения.
func (i Item) IsValue() bool {
	return i.Signal == SignalValue
}
