package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/telemetry"
)

// Process прогоняет входные данные через pipeline: по одному символу в порядке
// входа, затем ровно один сигнал End.
//
// Движок ничего не буферизует и не проверяет типы: граф типизирован парсером.
// Ошибка стадии (например, steps.ErrBufferOverflow) прерывает прогон.
func (p *Pipeline) Process(input string) error {
	if err := p.begin(); err != nil {
		return err
	}

	for i := 0; i < len(input); i++ {
		if err := p.Head.Push(domain.Char(input[i])); err != nil {
			return fmt.Errorf("input offset %d: %w", i, err)
		}
	}
	telemetry.InputBytesTotal.Add(float64(len(input)))

	return p.Head.Push(domain.End())
}

// ProcessReader — как Process, но читает символы из r по мере прогона.
func (p *Pipeline) ProcessReader(r io.Reader) error {
	if err := p.begin(); err != nil {
		return err
	}

	br := bufio.NewReader(r)
	offset := 0
	for {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if err := p.Head.Push(domain.Char(c)); err != nil {
			return fmt.Errorf("input offset %d: %w", offset, err)
		}
		offset++
	}
	telemetry.InputBytesTotal.Add(float64(offset))

	return p.Head.Push(domain.End())
}

// begin проверяет, что pipeline можно прогнать.
func (p *Pipeline) begin() error {
	if p.closed {
		return ErrClosed
	}
	if p.processed {
		return ErrAlreadyProcessed
	}
	p.processed = true
	return nil
}
