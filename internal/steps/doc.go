// Package steps содержит каталог видов стадий и их реализации.
//
// # Обзор
//
// Стадия — типизированное звено pipeline с приватным изменяемым состоянием.
// Каждая стадия получает элементы по одному (push-модель) и сама решает,
// когда передать результат следующему узлу:
//
//	type Stage interface {
//	    Process(next Emitter, item domain.Item) error
//	}
//
// Помимо обычных значений через Process проходят два сигнала:
//   - Absent — опциональное значение отсутствует (например, строка не число)
//   - End — конец потока, стадии выдают накопленное и передают End дальше
//
// # Registry
//
// Registry — упорядоченный каталог Def. Поиск идёт по паре (имя, тип входа):
//
//	registry := steps.DefaultRegistry()
//	def, err := registry.Lookup("print", domain.ItemInt)
//	if errors.Is(err, steps.ErrInputTypeMismatch) {
//	    // имя есть, но не для этого типа
//	}
//
// Def задаёт типы входа/выхода, тип литерального аргумента и три поведения:
//   - New — init, создаёт состояние из литерала
//   - Stage.Process — step
//   - Closer.Close — teardown (опционально)
//
// # Стадии
//
//	group('c')       char      → str        группы символов до разделителя
//	to_optional_int  str       → int        число или Absent
//	delimsum         int       → int        суммы блоков, разделённых Absent
//	max              int       → int        максимум, выдаётся на End
//	topn(n)          int       → int_array  n наибольших, выдаётся на End
//	sum              int_array → int        сумма каждого массива
//	print            str       → none       строка
//	print("prefix")  int       → none       префикс и число
package steps
