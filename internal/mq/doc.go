// Package mq публикует и читает события runs через RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ: Dial, reconnect, топология на каждую сессию
//   - topology.go   — exchanges, queues, bindings и их объявление
//   - publisher.go  — публикация run.completed
//   - consumer.go   — потребление run.completed (команда advent events)
//
// Exchanges:
//   - advent.runs — события runs
//   - advent.dlq  — dead letter queue
package mq
