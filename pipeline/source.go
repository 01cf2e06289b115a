package pipeline

import (
	"bufio"
	"cmp"
	"io"
	"iter"
	"maps"
	"slices"

	"github.com/kbukum/gostream/errors"
)

// Entry is a key/value pair.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// --- Constructors ---

// Of creates a pipeline over the given values.
func Of[T any](values ...T) *Pipeline[T] {
	return FromSlice(values)
}

// FromSlice creates a pipeline over a slice. The slice is read, never modified.
func FromSlice[T any](items []T) *Pipeline[T] {
	return From[T](&sliceSource[T]{items: items})
}

// FromSeq creates a pipeline over an iterator function. Like any generator the
// sequence cannot be restarted once it has advanced.
func FromSeq[T any](seq iter.Seq[T]) *Pipeline[T] {
	return From[T](&seqSource[T]{seq: seq})
}

// FromChannel creates a pipeline that receives from ch until it is closed.
func FromChannel[T any](ch <-chan T) *Pipeline[T] {
	return From[T](&chanSource[T]{ch: ch})
}

// FromLines creates a pipeline over the lines of r. Read errors surface
// through the terminal that drives the pipeline.
func FromLines(r io.Reader) *Pipeline[string] {
	return From[string](&linesSource{scanner: bufio.NewScanner(r)})
}

// Values creates a pipeline over the values of m in key order, discarding the keys.
func Values[K cmp.Ordered, V any](m map[K]V) *Pipeline[V] {
	keys := slices.Sorted(maps.Keys(m))
	values := make([]V, len(keys))
	for i, k := range keys {
		values[i] = m[k]
	}
	return FromSlice(values)
}

// Entries creates a pipeline over the key/value pairs of m in key order.
func Entries[K cmp.Ordered, V any](m map[K]V) *Pipeline[Entry[K, V]] {
	keys := slices.Sorted(maps.Keys(m))
	entries := make([]Entry[K, V], len(keys))
	for i, k := range keys {
		entries[i] = Entry[K, V]{Key: k, Value: m[k]}
	}
	return FromSlice(entries)
}

// Range creates a pipeline of ints from start to end inclusive, counting down
// when start > end. step must be positive.
func Range(start, end, step int) *Pipeline[int] {
	return numericRange(start, end, step)
}

// RangeFloat creates a pipeline of float64 values from start to end inclusive,
// counting down when start > end. step must be positive.
func RangeFloat(start, end, step float64) *Pipeline[float64] {
	return numericRange(start, end, step)
}

func numericRange[N int | float64](start, end, step N) *Pipeline[N] {
	if step <= 0 {
		return failed[N](errors.InvalidArgument("step", "must be positive"))
	}
	return From[N](&rangeSource[N]{start: start, end: end, step: step})
}

// --- Source implementations ---

type sliceSource[T any] struct {
	items []T
	index int
}

func (s *sliceSource[T]) Rewind() error {
	s.index = 0
	return nil
}

func (s *sliceSource[T]) Valid() bool { return s.index < len(s.items) }

func (s *sliceSource[T]) Current() T {
	if s.index >= len(s.items) {
		var zero T
		return zero
	}
	return s.items[s.index]
}

func (s *sliceSource[T]) Next() {
	if s.index < len(s.items) {
		s.index++
	}
}

func (s *sliceSource[T]) Err() error { return nil }

type rangeSource[N int | float64] struct {
	start, end, step N
	index            int
}

func (s *rangeSource[N]) Rewind() error {
	s.index = 0
	return nil
}

func (s *rangeSource[N]) value() N {
	if s.start > s.end {
		return s.start - N(s.index)*s.step
	}
	return s.start + N(s.index)*s.step
}

func (s *rangeSource[N]) Valid() bool {
	if s.start > s.end {
		return s.value() >= s.end
	}
	return s.value() <= s.end
}

func (s *rangeSource[N]) Current() N { return s.value() }

func (s *rangeSource[N]) Next() { s.index++ }

func (s *rangeSource[N]) Err() error { return nil }

// seqSource runs an iter.Seq as a pull-based generator.
type seqSource[T any] struct {
	seq      iter.Seq[T]
	next     func() (T, bool)
	stop     func()
	cur      T
	ok       bool
	advanced bool
}

func (s *seqSource[T]) Rewind() error {
	if s.advanced {
		return errors.ExhaustedSource("generator")
	}
	s.begin()
	return nil
}

func (s *seqSource[T]) begin() {
	if s.next != nil {
		return
	}
	s.next, s.stop = iter.Pull(s.seq)
	s.cur, s.ok = s.next()
}

func (s *seqSource[T]) Valid() bool {
	s.begin()
	return s.ok
}

func (s *seqSource[T]) Current() T {
	s.begin()
	return s.cur
}

func (s *seqSource[T]) Next() {
	s.begin()
	if s.ok {
		s.advanced = true
		s.cur, s.ok = s.next()
	}
}

func (s *seqSource[T]) Err() error { return nil }

func (s *seqSource[T]) Close() error {
	if s.stop != nil {
		s.stop()
	}
	s.ok = false
	return nil
}

type chanSource[T any] struct {
	ch       <-chan T
	cur      T
	ok       bool
	received bool
	advanced bool
}

func (s *chanSource[T]) Rewind() error {
	if s.advanced {
		return errors.ExhaustedSource("channel")
	}
	s.receive()
	return nil
}

func (s *chanSource[T]) receive() {
	if s.received {
		return
	}
	s.received = true
	s.cur, s.ok = <-s.ch
}

func (s *chanSource[T]) Valid() bool {
	s.receive()
	return s.ok
}

func (s *chanSource[T]) Current() T {
	s.receive()
	return s.cur
}

func (s *chanSource[T]) Next() {
	s.receive()
	if s.ok {
		s.advanced = true
		s.received = false
	}
}

func (s *chanSource[T]) Err() error { return nil }

type linesSource struct {
	scanner  *bufio.Scanner
	cur      string
	ok       bool
	scanned  bool
	advanced bool
}

func (s *linesSource) Rewind() error {
	if s.advanced {
		return errors.ExhaustedSource("reader")
	}
	s.scan()
	return nil
}

func (s *linesSource) scan() {
	if s.scanned {
		return
	}
	s.scanned = true
	s.ok = s.scanner.Scan()
	if s.ok {
		s.cur = s.scanner.Text()
	} else {
		s.cur = ""
	}
}

func (s *linesSource) Valid() bool {
	s.scan()
	return s.ok
}

func (s *linesSource) Current() string {
	s.scan()
	return s.cur
}

func (s *linesSource) Next() {
	s.scan()
	if s.ok {
		s.advanced = true
		s.scanned = false
	}
}

func (s *linesSource) Err() error { return s.scanner.Err() }
