package mq

import "errors"

var (
	// ErrNoChannel — канал AMQP недоступен (соединение восстанавливается).
	ErrNoChannel = errors.New("no channel available")

	// ErrUnexpectedMessage — сообщение другого типа.
	ErrUnexpectedMessage = errors.New("unexpected message type")
)
