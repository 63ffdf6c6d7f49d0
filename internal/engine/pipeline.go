package engine

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/steps"
	"github.com/shaiso/advent/internal/telemetry"
)

// Ограничения на ветвление.
const (
	// MaxBranches — максимальное число именованных fanout в программе.
	MaxBranches = 8

	// MaxFanoutChildren — максимальное число потомков одного fanout.
	MaxFanoutChildren = 8
)

// Node — узел скомпилированного графа.
//
// Узел либо стадия (Def, Stage и, если выход не none, Next),
// либо fanout (только Fanout). У fanout нет обычного successor:
// элементы уходят его потомкам.
type Node struct {
	// Def — описание стадии из реестра. Nil для fanout.
	Def *steps.Def

	// Stage — экземпляр стадии с приватным состоянием.
	Stage steps.Stage

	// Next — следующий узел цепочки. Nil для терминальных стадий и fanout.
	Next *Node

	// Fanout — таблица потомков, если узел является fanout.
	Fanout *Fanout

	items prometheus.Counter
}

// IsFanout — true, если узел рассылает элементы потомкам.
func (n *Node) IsFanout() bool {
	return n.Fanout != nil
}

// Name возвращает имя стадии или "fanout".
func (n *Node) Name() string {
	switch {
	case n.Fanout != nil:
		return "fanout"
	case n.Def != nil:
		return n.Def.Name
	default:
		return "<unbuilt>"
	}
}

// Push передаёт элемент в стадию узла (или всем потомкам fanout).
// Реализует steps.Emitter, поэтому узел служит successor предыдущей стадии.
func (n *Node) Push(item domain.Item) error {
	if n.items != nil {
		n.items.Inc()
	}

	if n.Fanout != nil {
		return n.Fanout.Push(item)
	}

	var next steps.Emitter = steps.Discard
	if n.Next != nil {
		next = n.Next
	}
	return n.Stage.Process(next, item)
}

// bind заполняет узел стадией.
func (n *Node) bind(def *steps.Def, stage steps.Stage) {
	n.Def = def
	n.Stage = stage
	n.items = telemetry.StageItemsTotal.WithLabelValues(def.Signature())
}

// close освобождает состояние узла и всех узлов под ним.
func (n *Node) close() error {
	var err error

	if n.Fanout != nil {
		for _, child := range n.Fanout.Children {
			err = multierr.Append(err, child.close())
		}
		n.Fanout.Children = nil
	}

	if closer, ok := n.Stage.(steps.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close %s: %w", n.Def.Signature(), cerr))
		}
	}
	n.Stage = nil

	if n.Next != nil {
		err = multierr.Append(err, n.Next.close())
		n.Next = nil
	}

	return err
}

// Fanout — именованная ветка: рассылает каждый элемент всем потомкам
// в порядке объявления.
type Fanout struct {
	// Name — имя ветки (-> name).
	Name string

	// Type — тип элементов, которые получают потомки.
	Type domain.ItemType

	// Children — головы подцепочек в порядке объявления.
	Children []*Node
}

// Push синхронно передаёт один и тот же элемент каждому потомку.
func (f *Fanout) Push(item domain.Item) error {
	for _, child := range f.Children {
		if err := child.Push(item); err != nil {
			return err
		}
	}
	return nil
}

// attach добавляет пустой слот потомка.
func (f *Fanout) attach() (*Node, error) {
	if len(f.Children) == MaxFanoutChildren {
		return nil, fmt.Errorf("%w: fanout '%s' has more than %d children",
			ErrCapacityExceeded, f.Name, MaxFanoutChildren)
	}
	child := &Node{}
	f.Children = append(f.Children, child)
	return child, nil
}

// Pipeline — скомпилированная программа.
//
// Жизненный цикл: строится парсером, прогоняется один раз через Process,
// затем разбирается через Close.
type Pipeline struct {
	// Head — голова графа, получает символы входных данных.
	Head *Node

	// Branches — именованные fanout в порядке объявления.
	Branches []*Fanout

	processed bool
	closed    bool
}

// Branch возвращает fanout по имени.
func (p *Pipeline) Branch(name string) (*Fanout, bool) {
	for _, f := range p.Branches {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Close рекурсивно освобождает состояние всех узлов.
// Ошибки teardown отдельных стадий объединяются.
func (p *Pipeline) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	if p.Head == nil {
		return nil
	}
	err := p.Head.close()
	p.Head = nil
	p.Branches = nil
	return err
}
