package mq

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/multierr"
)

// Параметры подключения.
const (
	// ConnectionName — имя соединения в management UI RabbitMQ.
	ConnectionName = "advent"

	dialTimeout  = 10 * time.Second
	heartbeat    = 10 * time.Second
	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// Connection — соединение с RabbitMQ для событий о прогонах.
//
// Каждая сессия (первое подключение и каждое восстановление после разрыва)
// объявляет топологию advent.runs, поэтому после перезапуска брокера
// очередь runs.completed появляется снова без участия вызывающего кода.
// О восстановлении Consumer узнаёт через Reconnected.
type Connection struct {
	url    string
	logger *slog.Logger

	mu     sync.RWMutex
	sess   session
	closed bool
	done   chan struct{}

	reconnected chan struct{}
}

// session — соединение и канал одной попытки подключения.
type session struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

// close закрывает канал и соединение сессии.
func (s session) close() error {
	var err error
	if s.ch != nil {
		if cerr := s.ch.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close channel: %w", cerr))
		}
	}
	if s.conn != nil {
		if cerr := s.conn.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close connection: %w", cerr))
		}
	}
	return err
}

// Dial подключается к RabbitMQ и объявляет топологию.
// Дальше соединение само восстанавливается до вызова Close.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Connection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := &Connection{
		url:         url,
		logger:      logger,
		done:        make(chan struct{}),
		reconnected: make(chan struct{}, 1),
	}

	sess, err := c.open()
	if err != nil {
		return nil, err
	}
	c.sess = sess
	logger.Info("connected to rabbitmq", "exchange", ExchangeRuns)

	go c.supervise(sess.conn)

	return c, nil
}

// open устанавливает новую сессию с объявленной топологией.
func (c *Connection) open() (session, error) {
	conn, err := amqp.DialConfig(c.url, amqp.Config{
		Heartbeat:  heartbeat,
		Locale:     "en_US",
		Dial:       amqp.DefaultDial(dialTimeout),
		Properties: amqp.Table{"connection_name": ConnectionName},
	})
	if err != nil {
		return session{}, fmt.Errorf("dial amqp: %w", err)
	}

	sess := session{conn: conn}
	if sess.ch, err = conn.Channel(); err != nil {
		return session{}, multierr.Append(fmt.Errorf("open channel: %w", err), sess.close())
	}
	if err := declareTopology(sess.ch); err != nil {
		return session{}, multierr.Append(err, sess.close())
	}
	return sess, nil
}

// supervise ждёт разрыва соединения и поднимает новую сессию.
func (c *Connection) supervise(conn *amqp.Connection) {
	for {
		lost := conn.NotifyClose(make(chan *amqp.Error, 1))

		select {
		case <-c.done:
			return
		case amqpErr := <-lost:
			if c.isClosed() {
				return
			}
			c.logger.Warn("rabbitmq connection lost", "error", amqpErr)
		}

		sess, ok := c.restore()
		if !ok {
			return
		}
		conn = sess.conn
	}
}

// restore переподключается с удваивающейся задержкой.
// Возвращает false, если соединение закрыли во время ожидания.
func (c *Connection) restore() (session, bool) {
	delay := reconnectMin

	for {
		select {
		case <-c.done:
			return session{}, false
		case <-time.After(delay):
		}

		sess, err := c.open()
		if err != nil {
			delay = nextDelay(delay)
			c.logger.Warn("rabbitmq reconnect failed", "error", err, "retry_in", delay)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = sess.close()
			return session{}, false
		}
		c.sess = sess
		c.mu.Unlock()

		c.logger.Info("reconnected to rabbitmq, topology declared")

		select {
		case c.reconnected <- struct{}{}:
		default:
		}
		return sess, true
	}
}

// nextDelay удваивает задержку переподключения, не превышая reconnectMax.
func nextDelay(d time.Duration) time.Duration {
	return min(d*2, reconnectMax)
}

func (c *Connection) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Channel возвращает канал текущей сессии.
func (c *Connection) Channel() *amqp.Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess.ch
}

// Reconnected сигналит после каждого восстановления сессии.
func (c *Connection) Reconnected() <-chan struct{} {
	return c.reconnected
}

// WithChannel выполняет fn с каналом текущей сессии.
func (c *Connection) WithChannel(ctx context.Context, fn func(ch *amqp.Channel) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ch := c.Channel()
	if ch == nil || ch.IsClosed() {
		return ErrNoChannel
	}
	return fn(ch)
}

// Close закрывает соединение и останавливает переподключение.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)

	err := c.sess.close()
	c.sess = session{}
	if err == nil {
		c.logger.Info("rabbitmq connection closed")
	}
	return err
}
