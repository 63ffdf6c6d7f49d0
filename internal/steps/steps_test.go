package steps

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/shaiso/advent/internal/domain"
)

// recorder запоминает всё, что ему передали.
type recorder struct {
	items []domain.Item
}

func (r *recorder) Push(item domain.Item) error {
	r.items = append(r.items, item)
	return nil
}

// ints возвращает значения до End, Absent как -1.
func (r *recorder) ints() []int {
	out := make([]int, 0, len(r.items))
	for _, it := range r.items {
		switch it.Signal {
		case domain.SignalValue:
			out = append(out, it.Int)
		case domain.SignalAbsent:
			out = append(out, -1)
		}
	}
	return out
}

func (r *recorder) endCount() int {
	n := 0
	for _, it := range r.items {
		if it.IsEnd() {
			n++
		}
	}
	return n
}

func build(t *testing.T, def *Def, arg domain.Literal) Stage {
	t.Helper()
	stage, err := def.Build(&Env{Out: &bytes.Buffer{}}, arg)
	if err != nil {
		t.Fatalf("build %s: %v", def.Signature(), err)
	}
	return stage
}

func feed(t *testing.T, stage Stage, next Emitter, items ...domain.Item) {
	t.Helper()
	for _, it := range items {
		if err := stage.Process(next, it); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
}

func optInts(values ...int) []domain.Item {
	items := make([]domain.Item, 0, len(values)+1)
	for _, v := range values {
		if v < 0 {
			items = append(items, domain.Absent())
		} else {
			items = append(items, domain.Int(v))
		}
	}
	return append(items, domain.End())
}

// Registry Tests

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if len(r.Defs()) != 0 {
		t.Errorf("expected empty registry")
	}

	if err := r.Register(MaxDef()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(r.Defs()); n != 1 {
		t.Errorf("expected 1 stage, got %d", n)
	}

	// Повторная регистрация той же пары
	if err := r.Register(MaxDef()); !errors.Is(err, ErrDuplicateStage) {
		t.Errorf("expected ErrDuplicateStage, got %v", err)
	}

	def, err := r.Lookup("max", domain.ItemInt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Output != domain.ItemInt {
		t.Errorf("expected int output, got %s", def.Output)
	}

	if _, err := r.Lookup("unknown", domain.ItemInt); !errors.Is(err, ErrStageNotFound) {
		t.Errorf("expected ErrStageNotFound, got %v", err)
	}
	if _, err := r.Lookup("max", domain.ItemString); !errors.Is(err, ErrInputTypeMismatch) {
		t.Errorf("expected ErrInputTypeMismatch, got %v", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	expected := []string{
		"group<char>",
		"to_optional_int<str>",
		"delimsum<int>",
		"max<int>",
		"topn<int>",
		"sum<int_array>",
		"print<str>",
		"print<int>",
	}

	defs := r.Defs()
	if len(defs) != len(expected) {
		t.Fatalf("expected %d stages, got %d", len(expected), len(defs))
	}
	for i, def := range defs {
		if def.Signature() != expected[i] {
			t.Errorf("stage %d: expected %s, got %s", i, expected[i], def.Signature())
		}
	}

	// Два print разрешаются по типу входа
	ps, err := r.Lookup("print", domain.ItemString)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pi, err := r.Lookup("print", domain.ItemInt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps == pi {
		t.Error("print<str> and print<int> must be different stages")
	}
	if ps.Arg != domain.ArgNone || pi.Arg != domain.ArgString {
		t.Error("unexpected print argument types")
	}
}

func TestDef_Build_ArgumentType(t *testing.T) {
	_, err := GroupDef().Build(nil, domain.IntLiteral(3))
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument, got %v", err)
	}

	var sErr *StageError
	if !errors.As(err, &sErr) {
		t.Fatalf("expected StageError, got %T", err)
	}
	if sErr.Stage != "group<char>" {
		t.Errorf("expected group<char>, got %s", sErr.Stage)
	}
}

// Group Tests

func TestGroup(t *testing.T) {
	stage := build(t, GroupDef(), domain.CharLiteral('\n'))
	rec := &recorder{}

	for _, c := range []byte("3\n6\n\n9") {
		feed(t, stage, rec, domain.Char(c))
	}
	feed(t, stage, rec, domain.End())

	var got []string
	for _, it := range rec.items {
		if it.IsValue() {
			got = append(got, it.Str)
		}
	}
	want := []string{"3", "6", "", "9"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !rec.items[len(rec.items)-1].IsEnd() || rec.endCount() != 1 {
		t.Error("expected exactly one End as the last item")
	}
}

func TestGroup_EmptyTailNotEmitted(t *testing.T) {
	stage := build(t, GroupDef(), domain.CharLiteral('\n'))
	rec := &recorder{}

	for _, c := range []byte("ab\n") {
		feed(t, stage, rec, domain.Char(c))
	}
	feed(t, stage, rec, domain.End())

	if len(rec.items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(rec.items))
	}
	if rec.items[0].Str != "ab" || !rec.items[1].IsEnd() {
		t.Errorf("unexpected items: %+v", rec.items)
	}
}

func TestGroup_BufferOverflow(t *testing.T) {
	stage := build(t, GroupDef(), domain.CharLiteral(','))
	rec := &recorder{}

	long := strings.Repeat("x", GroupCapacity)
	for i := 0; i < len(long); i++ {
		feed(t, stage, rec, domain.Char(long[i]))
	}

	err := stage.Process(rec, domain.Char('y'))
	if !errors.Is(err, ErrBufferOverflow) {
		t.Fatalf("expected ErrBufferOverflow, got %v", err)
	}

	// Ровно GroupCapacity символов помещается
	feed(t, stage, rec, domain.Char(','))
	if len(rec.items) != 1 || rec.items[0].Str != long {
		t.Errorf("expected full buffer to be emitted, got %+v", rec.items)
	}
}

func TestGroup_MissingArgument(t *testing.T) {
	_, err := GroupDef().Build(nil, domain.Literal{})
	if !errors.Is(err, ErrMissingArgument) {
		t.Errorf("expected ErrMissingArgument, got %v", err)
	}
}

// to_optional_int Tests

func TestToOptionalInt(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		present bool
	}{
		{in: "0", want: 0, present: true},
		{in: "42", want: 42, present: true},
		{in: "007", want: 7, present: true},
		{in: "", present: false},
		{in: "-1", present: false},
		{in: "+1", present: false},
		{in: "1a", present: false},
		{in: " 1", present: false},
		{in: "99999999999999999999999", present: false},
	}

	stage := build(t, ToOptionalIntDef(), domain.Literal{})
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rec := &recorder{}
			feed(t, stage, rec, domain.String(tt.in))

			if len(rec.items) != 1 {
				t.Fatalf("expected 1 item, got %d", len(rec.items))
			}
			got := rec.items[0]
			if tt.present {
				if !got.IsValue() || got.Int != tt.want {
					t.Errorf("expected %d, got %+v", tt.want, got)
				}
			} else if !got.IsAbsent() {
				t.Errorf("expected absent, got %+v", got)
			}
		})
	}
}

func TestToOptionalInt_ForwardsEnd(t *testing.T) {
	stage := build(t, ToOptionalIntDef(), domain.Literal{})
	rec := &recorder{}
	feed(t, stage, rec, domain.End())

	if len(rec.items) != 1 || !rec.items[0].IsEnd() {
		t.Errorf("expected End to be forwarded, got %+v", rec.items)
	}
}

// Aggregate Tests

func TestDelimSum(t *testing.T) {
	stage := build(t, DelimSumDef(), domain.Literal{})
	rec := &recorder{}

	feed(t, stage, rec, optInts(3, 6, 9, -1, 10, -1, 2, 2, 2)...)

	want := []int{18, 10, 6}
	if got := rec.ints(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if !rec.items[len(rec.items)-1].IsEnd() {
		t.Error("End must be the last item")
	}
}

func TestMax(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   int
	}{
		{name: "values", values: []int{5, 1, 9, 3}, want: 9},
		{name: "only absent", values: []int{-1, -1}, want: 0},
		{name: "empty", values: nil, want: 0},
		{name: "mixed", values: []int{4, -1, 12, -1, 7}, want: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage := build(t, MaxDef(), domain.Literal{})
			rec := &recorder{}
			feed(t, stage, rec, optInts(tt.values...)...)

			if got := rec.ints(); len(got) != 1 || got[0] != tt.want {
				t.Errorf("expected [%d], got %v", tt.want, got)
			}
			if rec.endCount() != 1 {
				t.Errorf("expected one End, got %d", rec.endCount())
			}
		})
	}
}

func TestTopN(t *testing.T) {
	stage := build(t, TopNDef(), domain.IntLiteral(3))
	rec := &recorder{}

	feed(t, stage, rec, optInts(4, 9, -1, 1, 7, 2)...)

	if len(rec.items) != 2 {
		t.Fatalf("expected array and End, got %d items", len(rec.items))
	}
	if want := []int{9, 7, 4}; !reflect.DeepEqual(rec.items[0].Ints, want) {
		t.Errorf("expected %v, got %v", want, rec.items[0].Ints)
	}
	if !rec.items[1].IsEnd() {
		t.Error("expected End after the array")
	}
}

func TestTopN_FewerValuesThanN(t *testing.T) {
	stage := build(t, TopNDef(), domain.IntLiteral(4))
	rec := &recorder{}

	feed(t, stage, rec, optInts(5, 8)...)

	if want := []int{8, 5, 0, 0}; !reflect.DeepEqual(rec.items[0].Ints, want) {
		t.Errorf("expected %v, got %v", want, rec.items[0].Ints)
	}
}

func TestTopN_InvalidArgument(t *testing.T) {
	tests := []struct {
		name string
		arg  domain.Literal
		want error
	}{
		{name: "missing", arg: domain.Literal{}, want: ErrMissingArgument},
		{name: "zero", arg: domain.IntLiteral(0), want: ErrInvalidArgument},
		{name: "negative", arg: domain.IntLiteral(-1), want: ErrInvalidArgument},
		{name: "above limit", arg: domain.IntLiteral(MaxTopN + 1), want: ErrInvalidArgument},
		{name: "huge", arg: domain.IntLiteral(math.MaxInt), want: ErrInvalidArgument},
		{name: "string", arg: domain.StringLiteral("3"), want: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := TopNDef().Build(nil, tt.arg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestTopN_Limit(t *testing.T) {
	stage := build(t, TopNDef(), domain.IntLiteral(MaxTopN))
	if got := len(stage.(*topN).top); got != MaxTopN {
		t.Errorf("len(top) = %d, want %d", got, MaxTopN)
	}
}

func TestTopN_Close(t *testing.T) {
	stage := build(t, TopNDef(), domain.IntLiteral(2))
	closer, ok := stage.(Closer)
	if !ok {
		t.Fatal("topn should implement Closer")
	}
	if err := closer.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSum(t *testing.T) {
	stage := build(t, SumDef(), domain.Literal{})
	rec := &recorder{}

	feed(t, stage, rec,
		domain.Ints([]int{18, 10, 6}),
		domain.Ints([]int{1, 2}),
		domain.End(),
	)

	if want := []int{34, 3}; !reflect.DeepEqual(rec.ints(), want) {
		t.Errorf("expected %v, got %v", want, rec.ints())
	}
	if !rec.items[2].IsEnd() {
		t.Error("expected End to be forwarded")
	}
}

// Print Tests

func TestPrintString(t *testing.T) {
	var buf bytes.Buffer
	stage, err := PrintStringDef().Build(&Env{Out: &buf}, domain.Literal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	feed(t, stage, Discard, domain.String("hello"), domain.String(""), domain.End())

	if got := buf.String(); got != "hello\n\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestPrintInt(t *testing.T) {
	tests := []struct {
		name   string
		prefix domain.Literal
		items  []domain.Item
		want   string
	}{
		{
			name:   "with prefix",
			prefix: domain.StringLiteral("max="),
			items:  []domain.Item{domain.Int(18), domain.End()},
			want:   "max=18\n",
		},
		{
			name:   "absent with prefix",
			prefix: domain.StringLiteral("max="),
			items:  []domain.Item{domain.Absent()},
			want:   "max=\n",
		},
		{
			name:   "no prefix",
			prefix: domain.Literal{},
			items:  []domain.Item{domain.Int(7), domain.Absent(), domain.End()},
			want:   "7\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			stage, err := PrintIntDef().Build(&Env{Out: &buf}, tt.prefix)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			feed(t, stage, Discard, tt.items...)

			if got := buf.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
