package mq

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — тип для имени обменника.
type Exchange string

// Queue — тип для имени очереди.
type Queue string

// RoutingKey — тип для ключа маршрутизации.
type RoutingKey string

// Exchanges — имена обменников.
const (
	ExchangeRuns Exchange = "advent.runs"
	ExchangeDLQ  Exchange = "advent.dlq"
)

// Queues — имена очередей.
const (
	QueueRunsCompleted Queue = "runs.completed"
	QueueDLQRuns       Queue = "dlq.runs"
)

// Routing keys.
const (
	RoutingKeyCompleted RoutingKey = "completed"
	RoutingKeyDLQRuns   RoutingKey = "runs"
)

// binding — привязка очереди к обменнику.
type binding struct {
	queue      Queue
	routingKey RoutingKey
	exchange   Exchange
}

// exchanges — все обменники топологии.
var exchanges = []Exchange{ExchangeRuns, ExchangeDLQ}

// bindings — все привязки топологии.
var bindings = []binding{
	{QueueRunsCompleted, RoutingKeyCompleted, ExchangeRuns},
	{QueueDLQRuns, RoutingKeyDLQRuns, ExchangeDLQ},
}

// queueArgs возвращает аргументы очереди.
// runs.completed отправляет отклонённые сообщения в dlq.runs.
func queueArgs(q Queue) amqp.Table {
	if q != QueueRunsCompleted {
		return nil
	}
	return amqp.Table{
		"x-dead-letter-exchange":    string(ExchangeDLQ),
		"x-dead-letter-routing-key": string(RoutingKeyDLQRuns),
	}
}

// declarer — часть *amqp.Channel, нужная для объявления топологии.
type declarer interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

// declareTopology объявляет обменники, очереди и привязки. Идемпотентна.
// Обменники объявляются первыми: очередь с dead-letter ссылается на advent.dlq.
func declareTopology(ch declarer) error {
	for _, ex := range exchanges {
		err := ch.ExchangeDeclare(
			string(ex), // name
			"direct",   // type
			true,       // durable
			false,      // auto-deleted
			false,      // internal
			false,      // no-wait
			nil,        // arguments
		)
		if err != nil {
			return fmt.Errorf("declare exchange %s: %w", ex, err)
		}
	}

	for _, b := range bindings {
		_, err := ch.QueueDeclare(
			string(b.queue),    // name
			true,               // durable
			false,              // delete when unused
			false,              // exclusive
			false,              // no-wait
			queueArgs(b.queue), // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", b.queue, err)
		}

		err = ch.QueueBind(
			string(b.queue),      // queue name
			string(b.routingKey), // routing key
			string(b.exchange),   // exchange
			false,                // no-wait
			nil,                  // arguments
		)
		if err != nil {
			return fmt.Errorf("bind queue %s to %s: %w", b.queue, b.exchange, err)
		}
	}

	return nil
}

// TopologyInfo возвращает описание топологии для логирования.
func TopologyInfo() string {
	return `
  Advent RabbitMQ Topology:

    advent.runs (direct)
    └── runs.completed [routing: completed]
            Consumer: advent events
            DLQ: dlq.runs

    advent.dlq (direct)
    └── dlq.runs [routing: runs]
            Manual processing
`
}
