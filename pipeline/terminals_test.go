package pipeline

import (
	"bytes"
	"context"
	stderrors "errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/gostream/errors"
)

func TestDrain(t *testing.T) {
	var got []int
	run := Drain(Of(1, 2, 3), func(_ context.Context, v int) error {
		got = append(got, v)
		return nil
	})
	if err := run.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDrain_SinkFailure(t *testing.T) {
	full := stderrors.New("disk full")
	src := &countingSource{items: []int{1, 2, 3}}
	run := Drain(From[int](src), func(_ context.Context, v int) error {
		if v == 2 {
			return full
		}
		return nil
	})

	err := run.Run(context.Background())
	if !errors.IsCode(err, errors.ErrCodeSinkFailed) || !stderrors.Is(err, full) {
		t.Fatalf("expected SINK_FAILED wrapping the sink error, got %v", err)
	}
	if src.currents != 2 {
		t.Errorf("expected the run to stop at the failing value, got %d reads", src.currents)
	}
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	if err := Drain(Of("a", "b", "c"), WriterSink[string](&buf)).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if buf.String() != "abc" {
		t.Errorf("written = %q", buf.String())
	}
}

func TestCollectMap(t *testing.T) {
	p := KeyBy(Of("apple", "avocado", "banana"), func(s string) byte { return s[0] })
	got, err := CollectMap(context.Background(), p)
	if err != nil {
		t.Fatalf("CollectMap: %v", err)
	}
	if diff := cmp.Diff(map[byte]string{'a': "avocado", 'b': "banana"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestForEach(t *testing.T) {
	ctx := context.Background()
	sum := 0
	if err := ForEach(ctx, Range(1, 4, 1), func(_ context.Context, v int) error {
		sum += v
		return nil
	}); err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	if sum != 10 {
		t.Errorf("sum = %d, want 10", sum)
	}

	boom := stderrors.New("boom")
	p := Of(1, 2, 3)
	err := ForEach(ctx, p, func(_ context.Context, v int) error { return boom })
	if !errors.IsCode(err, errors.ErrCodeCallbackFailed) || !stderrors.Is(err, boom) {
		t.Fatalf("expected CALLBACK_FAILED, got %v", err)
	}
	if p.State() != Failed {
		t.Errorf("expected failed, got %s", p.State())
	}
	if _, err := Collect(ctx, p); !errors.IsCode(err, errors.ErrCodeExhaustedSource) {
		t.Errorf("expected EXHAUSTED_SOURCE after a failed run, got %v", err)
	}
}

func TestReduce(t *testing.T) {
	ctx := context.Background()
	got, err := Reduce(ctx, Of(1, 2, 3), "", func(acc string, v int) string { return acc + strconv.Itoa(v) })
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	if got != "123" {
		t.Errorf("Reduce = %q", got)
	}

	seed, err := Reduce(ctx, Of[int](), 42, func(acc, v int) int { return acc + v })
	if err != nil || seed != 42 {
		t.Errorf("empty Reduce = %d, %v", seed, err)
	}
}

func TestCountAndSum(t *testing.T) {
	ctx := context.Background()
	if n, err := Count(ctx, Filter(Range(1, 10, 1), isEven)); err != nil || n != 5 {
		t.Errorf("Count = %d, %v", n, err)
	}
	if s, err := Sum(ctx, Range(1, 100, 1)); err != nil || s != 5050 {
		t.Errorf("Sum = %d, %v", s, err)
	}
	if s, err := Sum(ctx, Of(0.5, 0.25)); err != nil || s != 0.75 {
		t.Errorf("float Sum = %v, %v", s, err)
	}
	if s, err := Sum(ctx, Of[uint8]()); err != nil || s != 0 {
		t.Errorf("empty Sum = %v, %v", s, err)
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		glue string
		want string
	}{
		{"several", []int{1, 2, 3}, ", ", "1, 2, 3"},
		{"single", []int{7}, "-", "7"},
		{"empty", nil, "-", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Join(context.Background(), FromSlice(tc.in), tc.glue)
			if err != nil {
				t.Fatalf("Join: %v", err)
			}
			if got != tc.want {
				t.Errorf("Join = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestMatching(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		in   []int
		all  bool
		any  bool
		none bool
	}{
		{"all even", []int{2, 4}, true, true, false},
		{"mixed", []int{1, 2}, false, true, false},
		{"all odd", []int{1, 3}, false, false, true},
		{"empty", nil, true, false, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got, _ := AllMatch(ctx, FromSlice(tc.in), isEven); got != tc.all {
				t.Errorf("AllMatch = %v", got)
			}
			if got, _ := AnyMatch(ctx, FromSlice(tc.in), isEven); got != tc.any {
				t.Errorf("AnyMatch = %v", got)
			}
			if got, _ := NoneMatch(ctx, FromSlice(tc.in), isEven); got != tc.none {
				t.Errorf("NoneMatch = %v", got)
			}
		})
	}
}

func TestAnyMatch_StopsAtFirstMatch(t *testing.T) {
	src := &countingSource{items: []int{1, 2, 3, 4}}
	if ok, err := AnyMatch(context.Background(), From[int](src), isEven); err != nil || !ok {
		t.Fatalf("AnyMatch = %v, %v", ok, err)
	}
	if src.currents != 2 {
		t.Errorf("expected 2 reads, got %d", src.currents)
	}
}

func TestCollectFirst_StopsAtMatch(t *testing.T) {
	evaluated := 0
	p := Inspect(Of(1, 2, 3, 4, 5), func(int) { evaluated++ })

	got, err := CollectFirst(context.Background(), p, Where(func(v int) bool { return v > 1 }))
	if err != nil {
		t.Fatalf("CollectFirst: %v", err)
	}
	if got != 2 {
		t.Errorf("CollectFirst = %d, want 2", got)
	}
	if evaluated != 2 {
		t.Errorf("expected 2 values evaluated, got %d", evaluated)
	}
}

func TestCollectFirst(t *testing.T) {
	ctx := context.Background()
	if v, err := CollectFirst(ctx, Of("a", "b")); err != nil || v != "a" {
		t.Errorf("CollectFirst = %q, %v", v, err)
	}

	_, err := CollectFirst(ctx, Of[string]())
	if !stderrors.Is(err, errors.ErrNoElementFound) {
		t.Errorf("expected NO_ELEMENT_FOUND, got %v", err)
	}

	v, err := CollectFirst(ctx, Of(1, 3), Where(isEven), OrDefault(-1))
	if err != nil || v != -1 {
		t.Errorf("expected default, got %d, %v", v, err)
	}
}

func TestCollectLast(t *testing.T) {
	ctx := context.Background()
	src := &countingSource{items: []int{1, 2, 3, 4, 5}}

	got, err := CollectLast(ctx, From[int](src), Where(isEven))
	if err != nil {
		t.Fatalf("CollectLast: %v", err)
	}
	if got != 4 {
		t.Errorf("CollectLast = %d, want 4", got)
	}
	if src.currents != 5 {
		t.Errorf("expected the whole source drained, got %d reads", src.currents)
	}

	if _, err := CollectLast(ctx, Of(1, 3), Where(isEven)); !errors.IsCode(err, errors.ErrCodeNoElementFound) {
		t.Errorf("expected NO_ELEMENT_FOUND, got %v", err)
	}
	if v, err := CollectLast(ctx, Of[int](), OrDefault(9)); err != nil || v != 9 {
		t.Errorf("expected default, got %d, %v", v, err)
	}
}

func TestTerminal_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := Of(1, 2, 3)
	_, err := Collect(ctx, p)
	if !errors.IsCode(err, errors.ErrCodeCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled as the cause, got %v", err)
	}
	if p.State() != Failed {
		t.Errorf("expected failed, got %s", p.State())
	}
}

func TestTerminal_CancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seen := 0
	err := ForEach(ctx, Range(1, 1000, 1), func(_ context.Context, v int) error {
		seen++
		if v == 3 {
			cancel()
		}
		return nil
	})
	if !stderrors.Is(err, errors.ErrCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
	if seen != 3 {
		t.Errorf("expected the run to stop after 3 values, got %d", seen)
	}
}

func TestTerminal_CancelledComputesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	p := Map(Of(1, 2, 3), func(v int) int {
		calls++
		return v
	})
	if _, err := Collect(ctx, p); !errors.IsCode(err, errors.ErrCodeCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
	if calls != 0 {
		t.Errorf("expected no element computed, got %d calls", calls)
	}
}
