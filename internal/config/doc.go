// Package config собирает настройки advent из окружения.
//
// Порядок: переменные окружения, затем файл .env (если есть), затем
// значения по умолчанию. Флаги CLI переопределяют результат.
package config
