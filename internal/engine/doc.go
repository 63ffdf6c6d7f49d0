// Package engine компилирует и исполняет pipeline-программы.
//
// Включает:
//   - lexer.go    — токенизация программы с позициями line:column
//   - parser.go   — однопроходный разбор с явным состоянием и проверкой типов
//   - pipeline.go — граф узлов (цепочки и fanout), teardown
//   - exec.go     — прогон символов входных данных через голову графа
//   - debug.go    — отладочная печать графа
//
// Программа:
//
//	input |> group('\n') |> to_optional_int |> delimsum -> elves
//	elves |> max |> print("max=")
//	elves |> topn(3) |> sum |> print("top3=")
//
// Типы на всех рёбрах проверяются при разборе; во время прогона движок
// типы не проверяет и ошибок данных не порождает: "не число" — это Absent.
package engine
