package pipeline

import (
	"reflect"

	"github.com/kbukum/gostream/errors"
)

// Predicate reports whether a value should be kept.
type Predicate[T any] func(T) bool

// Map transforms each value using fn.
func Map[I, O any](p *Pipeline[I], fn func(I) O) *Pipeline[O] {
	return newPipeline[O](&mapStep[I, O]{in: feed[I]{src: p}, fn: func(v I) (O, error) {
		return fn(v), nil
	}})
}

// TryMap transforms each value using a fallible fn. The first error aborts the
// traversal and leaves the pipeline failed.
func TryMap[I, O any](p *Pipeline[I], fn func(I) (O, error)) *Pipeline[O] {
	return newPipeline[O](&mapStep[I, O]{in: feed[I]{src: p}, fn: func(v I) (O, error) {
		out, err := fn(v)
		if err != nil {
			return out, errors.CallbackFailed("map", err)
		}
		return out, nil
	}})
}

// Inspect calls fn for each value as a side effect and passes the value through.
func Inspect[T any](p *Pipeline[T], fn func(T)) *Pipeline[T] {
	return Map(p, func(v T) T {
		fn(v)
		return v
	})
}

// Tap is Inspect with a fallible side effect. An error from fn aborts the
// traversal the same way TryMap does.
func Tap[T any](p *Pipeline[T], fn func(T) error) *Pipeline[T] {
	return newPipeline[T](&mapStep[T, T]{in: feed[T]{src: p}, fn: func(v T) (T, error) {
		if err := fn(v); err != nil {
			return v, errors.CallbackFailed("tap", err)
		}
		return v, nil
	}})
}

// KeyBy pairs each value with the key computed by fn. Values are not grouped:
// duplicates under one key are all emitted.
func KeyBy[T, K any](p *Pipeline[T], fn func(T) K) *Pipeline[Entry[K, T]] {
	return Map(p, func(v T) Entry[K, T] {
		return Entry[K, T]{Key: fn(v), Value: v}
	})
}

// Filter keeps only values that satisfy the predicate.
func Filter[T any](p *Pipeline[T], fn Predicate[T]) *Pipeline[T] {
	return newPipeline[T](&filterStep[T]{in: feed[T]{src: p}, fn: fn})
}

// Reject drops values that satisfy the predicate.
func Reject[T any](p *Pipeline[T], fn Predicate[T]) *Pipeline[T] {
	return Filter(p, func(v T) bool { return !fn(v) })
}

// Flatten emits the items of each slice in order.
func Flatten[T any](p *Pipeline[[]T]) *Pipeline[T] {
	return newPipeline[T](&flattenStep[T]{in: feed[[]T]{src: p}})
}

// FlattenPipelines drains each inner pipeline in turn.
func FlattenPipelines[T any](p *Pipeline[*Pipeline[T]]) *Pipeline[T] {
	return newPipeline[T](&flattenPipelinesStep[T]{in: feed[*Pipeline[T]]{src: p}})
}

// FlatMap transforms each value into a pipeline and flattens the results.
func FlatMap[I, O any](p *Pipeline[I], fn func(I) *Pipeline[O]) *Pipeline[O] {
	return FlattenPipelines(Map(p, fn))
}

// FlatMapSlice transforms each value into a slice and flattens the results.
func FlatMapSlice[I, O any](p *Pipeline[I], fn func(I) []O) *Pipeline[O] {
	return Flatten(Map(p, fn))
}

// Concat joins pipelines sequentially. A pipeline is not started until the
// one before it is exhausted.
func Concat[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	parts := make([]*feed[T], len(pipelines))
	for i, p := range pipelines {
		parts[i] = &feed[T]{src: p}
	}
	return newPipeline[T](&concatStep[T]{parts: parts})
}

// Take emits at most n values. Once the n-th value is read the source is not
// touched again, and for n == 0 it is never touched at all.
func Take[T any](p *Pipeline[T], n int) *Pipeline[T] {
	if n < 0 {
		return failed[T](errors.InvalidArgument("n", "must not be negative"))
	}
	return newPipeline[T](&takeStep[T]{in: feed[T]{src: p}, limit: n})
}

// Skip drops the first n values. A source shorter than n yields nothing.
func Skip[T any](p *Pipeline[T], n int) *Pipeline[T] {
	if n < 0 {
		return failed[T](errors.InvalidArgument("n", "must not be negative"))
	}
	return newPipeline[T](&skipStep[T]{in: feed[T]{src: p}, n: n})
}

// SkipWhile drops leading values while fn holds. After the first value for
// which fn is false, every value is emitted without consulting fn again.
func SkipWhile[T any](p *Pipeline[T], fn Predicate[T]) *Pipeline[T] {
	return newPipeline[T](&skipWhileStep[T]{in: feed[T]{src: p}, fn: fn})
}

// TakeWhile emits values while fn holds and stops at the first value for
// which it does not, without advancing past it.
func TakeWhile[T any](p *Pipeline[T], fn Predicate[T]) *Pipeline[T] {
	return newPipeline[T](&takeWhileStep[T]{in: feed[T]{src: p}, fn: fn})
}

// --- Fluent forms of the type-preserving operators ---

// Filter is the method form of Filter.
func (p *Pipeline[T]) Filter(fn Predicate[T]) *Pipeline[T] { return Filter(p, fn) }

// Reject is the method form of Reject.
func (p *Pipeline[T]) Reject(fn Predicate[T]) *Pipeline[T] { return Reject(p, fn) }

// Take is the method form of Take.
func (p *Pipeline[T]) Take(n int) *Pipeline[T] { return Take(p, n) }

// Skip is the method form of Skip.
func (p *Pipeline[T]) Skip(n int) *Pipeline[T] { return Skip(p, n) }

// SkipWhile is the method form of SkipWhile.
func (p *Pipeline[T]) SkipWhile(fn Predicate[T]) *Pipeline[T] { return SkipWhile(p, fn) }

// TakeWhile is the method form of TakeWhile.
func (p *Pipeline[T]) TakeWhile(fn Predicate[T]) *Pipeline[T] { return TakeWhile(p, fn) }

// Inspect is the method form of Inspect.
func (p *Pipeline[T]) Inspect(fn func(T)) *Pipeline[T] { return Inspect(p, fn) }

// Concat appends others after p.
func (p *Pipeline[T]) Concat(others ...*Pipeline[T]) *Pipeline[T] {
	return Concat(append([]*Pipeline[T]{p}, others...)...)
}

// --- Field extraction ---

// FieldAccessor is implemented by elements that expose named fields to Pluck.
type FieldAccessor interface {
	// Field returns the named field and whether it exists.
	Field(name string) (any, bool)
}

// Pluck extracts the named field of each element. Elements where the field is
// absent or nil are skipped.
func Pluck[T FieldAccessor](p *Pipeline[T], name string) *Pipeline[any] {
	return PluckFunc(p, func(v T) (any, bool) { return v.Field(name) })
}

// PluckKey extracts key from each map element, skipping maps where it is
// absent or nil.
func PluckKey[K comparable, V any](p *Pipeline[map[K]V], key K) *Pipeline[V] {
	return PluckFunc(p, func(m map[K]V) (V, bool) {
		v, ok := m[key]
		return v, ok
	})
}

// PluckIndex extracts position i from each slice element, skipping slices
// that are too short or hold nil there.
func PluckIndex[T any](p *Pipeline[[]T], i int) *Pipeline[T] {
	return PluckFunc(p, func(row []T) (T, bool) {
		if i < 0 || i >= len(row) {
			var zero T
			return zero, false
		}
		return row[i], true
	})
}

// PluckFunc applies extract to each element and keeps the results it reports
// as present and non-nil.
func PluckFunc[T, V any](p *Pipeline[T], extract func(T) (V, bool)) *Pipeline[V] {
	return newPipeline[V](&pluckStep[T, V]{in: feed[T]{src: p}, extract: extract})
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// --- Step implementations ---

type mapStep[I, O any] struct {
	in feed[I]
	fn func(I) (O, error)
}

func (s *mapStep[I, O]) start() error { return s.in.start() }

func (s *mapStep[I, O]) step() (O, bool, error) {
	val, ok, err := s.in.pull()
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := s.fn(val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (s *mapStep[I, O]) close() error { return s.in.close() }

type filterStep[T any] struct {
	in feed[T]
	fn Predicate[T]
}

func (s *filterStep[T]) start() error { return s.in.start() }

func (s *filterStep[T]) step() (T, bool, error) {
	for {
		val, ok, err := s.in.pull()
		if err != nil || !ok {
			return val, false, err
		}
		if s.fn(val) {
			return val, true, nil
		}
	}
}

func (s *filterStep[T]) close() error { return s.in.close() }

type pluckStep[T, V any] struct {
	in      feed[T]
	extract func(T) (V, bool)
}

func (s *pluckStep[T, V]) start() error { return s.in.start() }

func (s *pluckStep[T, V]) step() (V, bool, error) {
	for {
		val, ok, err := s.in.pull()
		if err != nil || !ok {
			var zero V
			return zero, false, err
		}
		out, present := s.extract(val)
		if present && !isNil(out) {
			return out, true, nil
		}
	}
}

func (s *pluckStep[T, V]) close() error { return s.in.close() }

type flattenStep[T any] struct {
	in    feed[[]T]
	inner []T
	pos   int
}

func (s *flattenStep[T]) start() error { return s.in.start() }

func (s *flattenStep[T]) step() (T, bool, error) {
	for {
		if s.pos < len(s.inner) {
			val := s.inner[s.pos]
			s.pos++
			return val, true, nil
		}
		next, ok, err := s.in.pull()
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		s.inner, s.pos = next, 0
	}
}

func (s *flattenStep[T]) close() error { return s.in.close() }

type flattenPipelinesStep[T any] struct {
	in      feed[*Pipeline[T]]
	current *feed[T]
}

func (s *flattenPipelinesStep[T]) start() error { return s.in.start() }

func (s *flattenPipelinesStep[T]) step() (T, bool, error) {
	for {
		if s.current != nil {
			val, ok, err := s.current.pull()
			if err != nil {
				var zero T
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			err = s.current.close()
			s.current = nil
			if err != nil {
				var zero T
				return zero, false, err
			}
		}
		inner, ok, err := s.in.pull()
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		s.current = &feed[T]{src: inner}
		if err := s.current.start(); err != nil {
			var zero T
			return zero, false, err
		}
	}
}

func (s *flattenPipelinesStep[T]) close() error {
	var firstErr error
	if s.current != nil {
		firstErr = s.current.close()
		s.current = nil
	}
	if err := s.in.close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

type concatStep[T any] struct {
	parts []*feed[T]
	index int
}

func (s *concatStep[T]) start() error {
	if len(s.parts) == 0 {
		return nil
	}
	return s.parts[0].start()
}

func (s *concatStep[T]) step() (T, bool, error) {
	for s.index < len(s.parts) {
		val, ok, err := s.parts[s.index].pull()
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		s.index++
		if s.index < len(s.parts) {
			if err := s.parts[s.index].start(); err != nil {
				var zero T
				return zero, false, err
			}
		}
	}
	var zero T
	return zero, false, nil
}

func (s *concatStep[T]) close() error {
	var firstErr error
	for _, part := range s.parts {
		if err := part.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type takeStep[T any] struct {
	in    feed[T]
	limit int
	count int
}

func (s *takeStep[T]) start() error {
	if s.limit == 0 {
		return nil
	}
	return s.in.start()
}

func (s *takeStep[T]) step() (T, bool, error) {
	if s.count >= s.limit {
		var zero T
		return zero, false, nil
	}
	val, ok, err := s.in.pull()
	if err != nil || !ok {
		return val, false, err
	}
	s.count++
	return val, true, nil
}

func (s *takeStep[T]) close() error { return s.in.close() }

type skipStep[T any] struct {
	in      feed[T]
	n       int
	skipped bool
}

func (s *skipStep[T]) start() error { return s.in.start() }

func (s *skipStep[T]) step() (T, bool, error) {
	if !s.skipped {
		s.skipped = true
		for i := 0; i < s.n; i++ {
			ok, err := s.in.advance()
			if err != nil || !ok {
				var zero T
				return zero, false, err
			}
		}
	}
	return s.in.pull()
}

func (s *skipStep[T]) close() error { return s.in.close() }

type skipWhileStep[T any] struct {
	in     feed[T]
	fn     Predicate[T]
	passed bool
}

func (s *skipWhileStep[T]) start() error { return s.in.start() }

func (s *skipWhileStep[T]) step() (T, bool, error) {
	for {
		val, ok, err := s.in.pull()
		if err != nil || !ok {
			return val, false, err
		}
		if s.passed || !s.fn(val) {
			s.passed = true
			return val, true, nil
		}
	}
}

func (s *skipWhileStep[T]) close() error { return s.in.close() }

type takeWhileStep[T any] struct {
	in   feed[T]
	fn   Predicate[T]
	done bool
}

func (s *takeWhileStep[T]) start() error { return s.in.start() }

func (s *takeWhileStep[T]) step() (T, bool, error) {
	var zero T
	if s.done {
		return zero, false, nil
	}
	val, ok, err := s.in.pull()
	if err != nil || !ok {
		return zero, false, err
	}
	if !s.fn(val) {
		s.done = true
		return zero, false, nil
	}
	return val, true, nil
}

func (s *takeWhileStep[T]) close() error { return s.in.close() }
