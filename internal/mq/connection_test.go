package mq

import (
	"errors"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// recordingChannel записывает объявления топологии.
type recordingChannel struct {
	calls   []string
	queues  map[string]amqp.Table
	failOn  string
	failErr error
}

func (r *recordingChannel) record(call string) error {
	r.calls = append(r.calls, call)
	if call == r.failOn {
		return r.failErr
	}
	return nil
}

func (r *recordingChannel) ExchangeDeclare(name, kind string, durable, _, _, _ bool, _ amqp.Table) error {
	if kind != "direct" || !durable {
		return fmt.Errorf("exchange %s: kind=%s durable=%v", name, kind, durable)
	}
	return r.record("exchange " + name)
}

func (r *recordingChannel) QueueDeclare(name string, durable, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	if r.queues == nil {
		r.queues = map[string]amqp.Table{}
	}
	r.queues[name] = args
	if !durable {
		return amqp.Queue{}, fmt.Errorf("queue %s not durable", name)
	}
	return amqp.Queue{Name: name}, r.record("queue " + name)
}

func (r *recordingChannel) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	return r.record(fmt.Sprintf("bind %s %s %s", name, key, exchange))
}

func TestDeclareTopology(t *testing.T) {
	ch := &recordingChannel{}
	if err := declareTopology(ch); err != nil {
		t.Fatalf("declareTopology: %v", err)
	}

	want := []string{
		"exchange advent.runs",
		"exchange advent.dlq",
		"queue runs.completed",
		"bind runs.completed completed advent.runs",
		"queue dlq.runs",
		"bind dlq.runs runs advent.dlq",
	}
	if len(ch.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", ch.calls, want)
	}
	for i := range want {
		if ch.calls[i] != want[i] {
			t.Errorf("call[%d] = %q, want %q", i, ch.calls[i], want[i])
		}
	}

	if got := ch.queues["runs.completed"]["x-dead-letter-exchange"]; got != "advent.dlq" {
		t.Errorf("runs.completed dead-letter exchange = %v", got)
	}
}

func TestDeclareTopology_Idempotent(t *testing.T) {
	ch := &recordingChannel{}
	for i := 0; i < 2; i++ {
		if err := declareTopology(ch); err != nil {
			t.Fatalf("declare #%d: %v", i+1, err)
		}
	}
	if len(ch.calls) != 12 {
		t.Errorf("expected 12 declarations after two sessions, got %d", len(ch.calls))
	}
}

func TestDeclareTopology_Error(t *testing.T) {
	errDenied := errors.New("access refused")

	tests := []struct {
		name   string
		failOn string
		calls  int
	}{
		{"exchange", "exchange advent.dlq", 2},
		{"queue", "queue runs.completed", 3},
		{"bind", "bind dlq.runs runs advent.dlq", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &recordingChannel{failOn: tt.failOn, failErr: errDenied}
			err := declareTopology(ch)
			if !errors.Is(err, errDenied) {
				t.Fatalf("expected errDenied, got %v", err)
			}
			if len(ch.calls) != tt.calls {
				t.Errorf("declaration stopped after %d calls, want %d", len(ch.calls), tt.calls)
			}
		})
	}
}

func TestNextDelay(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want time.Duration
	}{
		{time.Second, 2 * time.Second},
		{8 * time.Second, 16 * time.Second},
		{16 * time.Second, reconnectMax},
		{reconnectMax, reconnectMax},
	}

	for _, tt := range tests {
		if got := nextDelay(tt.in); got != tt.want {
			t.Errorf("nextDelay(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
