// Package scheduler запускает программы в момент открытия задач.
//
// Задачи открываются в полночь по America/New_York с 1 по 25 декабря
// (cron "0 0 1-25 12 *"). В этот момент Scheduler выполняет программу
// дня, если она есть в каталоге программ.
//
// Структура:
//   - cron.go      — расписание открытия и вычисление следующего момента
//   - scheduler.go — цикл на robfig/cron и обработка одного открытия (Tick)
package scheduler
