package engine

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/multierr"

	"github.com/shaiso/advent/internal/domain"
	"github.com/shaiso/advent/internal/steps"
	"github.com/shaiso/advent/internal/telemetry"
)

func TestProcess_Elves(t *testing.T) {
	p, out := mustParse(t, elvesProgram)

	if err := p.Process("3\n6\n9\n\n10\n\n2\n2\n2\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "max=18\ntop3=34\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestProcess_DelimSumSingleValue(t *testing.T) {
	p, out := mustParse(t, `input |> group('\n') |> to_optional_int |> delimsum |> print("v=")`)

	if err := p.Process("3\n6\n9\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "v=18\n" {
		t.Errorf("expected a single value 18, got %q", out.String())
	}
}

func TestProcess_MaxOfAbsentOnly(t *testing.T) {
	p, out := mustParse(t, `input |> group('\n') |> to_optional_int |> max |> print("max=")`)

	if err := p.Process("x\ny\n\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "max=0\n" {
		t.Errorf("expected max=0, got %q", out.String())
	}
}

func TestProcess_PrintAbsent(t *testing.T) {
	p, out := mustParse(t, `input |> group(',') |> to_optional_int |> print("n=")`)

	if err := p.Process("1,x,3"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "n=1\nn=\nn=3\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestProcess_FanoutOrder(t *testing.T) {
	p, out := mustParse(t, `
		input |> group('\n') -> lines
		lines |> print
		lines |> to_optional_int |> print("#")
	`)

	if err := p.Process("a\n7\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "a\n#\n7\n#7\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestProcess_BufferOverflow(t *testing.T) {
	p, out := mustParse(t, `input |> group('\n') |> print`)

	err := p.Process("short\n" + strings.Repeat("9", steps.GroupCapacity+1) + "\n")
	if !errors.Is(err, steps.ErrBufferOverflow) {
		t.Fatalf("expected ErrBufferOverflow, got %v", err)
	}
	if !strings.Contains(err.Error(), "input offset 22") {
		t.Errorf("error should carry the input offset: %v", err)
	}
	if out.String() != "short\n" {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestProcess_Once(t *testing.T) {
	p, _ := mustParse(t, `input |> group('\n') |> print`)

	if err := p.Process("a\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Process("a\n"); !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestProcess_AfterClose(t *testing.T) {
	p, _ := mustParse(t, `input |> group('\n') |> print`)

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Head != nil {
		t.Error("Close should release the graph")
	}
	if err := p.Process("a"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	// Повторный Close безопасен
	if err := p.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProcessReader(t *testing.T) {
	p, out := mustParse(t, elvesProgram)

	before := testutil.ToFloat64(telemetry.InputBytesTotal)

	input := "1000\n2000\n\n4000\n\n5000\n6000\n\n7000\n8000\n9000\n\n10000\n"
	if err := p.ProcessReader(strings.NewReader(input)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "max=24000\ntop3=45000\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
	if delta := testutil.ToFloat64(telemetry.InputBytesTotal) - before; delta != float64(len(input)) {
		t.Errorf("expected %d input bytes counted, got %v", len(input), delta)
	}
}

// failingClose — стадия, teardown которой возвращает ошибку.
type failingClose struct{}

func (failingClose) Process(steps.Emitter, domain.Item) error { return nil }
func (failingClose) Close() error                           { return errors.New("boom") }

func TestClose_AggregatesErrors(t *testing.T) {
	r := steps.DefaultRegistry()
	err := r.Register(&steps.Def{
		Name:   "sink",
		Input:  domain.ItemString,
		Output: domain.ItemNone,
		New: func(*steps.Env, domain.Literal) (steps.Stage, error) {
			return failingClose{}, nil
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	p, err := Parse(`
		input |> group('\n') -> lines
		lines |> sink
		lines |> sink
	`, WithRegistry(r), WithOutput(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err = p.Close()
	if err == nil {
		t.Fatal("expected teardown error")
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("expected 2 teardown errors, got %d: %v", n, err)
	}
}

func TestStageItemsMetric(t *testing.T) {
	counter := telemetry.StageItemsTotal.WithLabelValues("group<char>")
	before := testutil.ToFloat64(counter)

	p, _ := mustParse(t, `input |> group('\n') |> print`)
	if err := p.Process("ab\n"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// три символа и End
	if delta := testutil.ToFloat64(counter) - before; delta != 4 {
		t.Errorf("expected 4 items, got %v", delta)
	}
}
