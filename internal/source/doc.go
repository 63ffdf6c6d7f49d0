// Package source предоставляет внешние данные для run: текст программы
// и входные данные дня.
//
//   - program.go — загрузка программы по шаблону пути (src/day{{ .Day }}.pipe)
//   - fetcher.go — скачивание входных данных с session cookie и кэш на диске
//   - template.go — рендеринг шаблонов путей и URL
//
// Ядро (engine) от этого пакета не зависит: ему нужна только строка символов.
package source
