// Package cli реализует команды advent.
//
// Команды:
//   - run DAY      — выполнить программу дня над входными данными
//   - check DAY|FILE — разобрать программу и напечатать граф
//   - history      — последние runs из PostgreSQL
//   - schedule     — запускать программы в момент открытия задач
//   - events       — читать события run.completed из RabbitMQ
//
// Вывод pipeline и данных идёт в stdout, логи и ошибки в stderr.
// Ошибки переводятся в коды завершения через ExitCode:
// 64 — ошибка использования, 78 — ошибка конфигурации, 1 — остальные.
//
// App хранит конфигурацию; глобальные флаги --year и --program-dir
// переопределяют значения из окружения после разбора.
package cli
