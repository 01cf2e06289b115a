package pipeline

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kbukum/gostream/errors"
)

// Pair holds one combination produced by CartesianProduct.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Group is one bucket produced by GroupBy. Items replays the buffered values
// in arrival order.
type Group[K, T any] struct {
	Key   K
	Items *Pipeline[T]
}

// --- Zip / Transpose ---

// Zip emits one slice per position holding the element of every row at that
// position. It stops as soon as any row runs out, so the output is as long as
// the shortest row. Zip with no rows is empty.
func Zip[T any](rows ...*Pipeline[T]) *Pipeline[[]T] {
	feeds := make([]*feed[T], len(rows))
	for i, row := range rows {
		feeds[i] = &feed[T]{src: row}
	}
	return newPipeline[[]T](&zipStep[T]{rows: feeds})
}

// Transpose turns rows into columns. The outer pipeline is drained when
// Transpose is called; the columns are produced lazily and truncated to the
// shortest row.
func Transpose[T any](ctx context.Context, p *Pipeline[[]T]) (_ *Pipeline[[]T], err error) {
	r := begin(ctx, "transpose")
	defer func() { r.end(err) }()
	rows, err := collect(r, p)
	if err != nil {
		return nil, err
	}
	pipelines := make([]*Pipeline[T], len(rows))
	for i, row := range rows {
		pipelines[i] = FromSlice(row)
	}
	return Zip(pipelines...), nil
}

// TransposePipelines is Transpose for a pipeline of row pipelines. Only the
// outer pipeline is drained up front; each row is pulled as columns are read.
func TransposePipelines[T any](ctx context.Context, p *Pipeline[*Pipeline[T]]) (_ *Pipeline[[]T], err error) {
	r := begin(ctx, "transpose")
	defer func() { r.end(err) }()
	rows, err := collect(r, p)
	if err != nil {
		return nil, err
	}
	return Zip(rows...), nil
}

type zipStep[T any] struct {
	rows []*feed[T]
	done bool
}

func (s *zipStep[T]) start() error {
	for _, row := range s.rows {
		if err := row.start(); err != nil {
			return err
		}
	}
	return nil
}

func (s *zipStep[T]) step() ([]T, bool, error) {
	if s.done || len(s.rows) == 0 {
		return nil, false, nil
	}
	for _, row := range s.rows {
		ok, err := row.advance()
		if err != nil || !ok {
			s.done = true
			return nil, false, err
		}
	}
	column := make([]T, len(s.rows))
	for i, row := range s.rows {
		column[i] = row.src.Current()
	}
	return column, true, nil
}

func (s *zipStep[T]) close() error {
	var firstErr error
	for _, row := range s.rows {
		if err := row.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// --- Cartesian product ---

// CartesianProduct pairs every value of p with every value of other in
// row-major order: all pairs for the first value of p come before any pair
// for the second. other is drained when CartesianProduct is called; p is
// pulled lazily. An empty other yields nothing and p is never pulled.
func CartesianProduct[A, B any](ctx context.Context, p *Pipeline[A], other *Pipeline[B]) (_ *Pipeline[Pair[A, B]], err error) {
	r := begin(ctx, "cartesian_product")
	defer func() { r.end(err) }()
	inner, err := collect(r, other)
	if err != nil {
		return nil, err
	}
	return newPipeline[Pair[A, B]](&productStep[A, B]{in: feed[A]{src: p}, inner: inner}), nil
}

type productStep[A, B any] struct {
	in    feed[A]
	inner []B
	outer A
	pos   int
	live  bool
}

func (s *productStep[A, B]) start() error {
	if len(s.inner) == 0 {
		return nil
	}
	return s.in.start()
}

func (s *productStep[A, B]) step() (Pair[A, B], bool, error) {
	if len(s.inner) == 0 {
		return Pair[A, B]{}, false, nil
	}
	if !s.live || s.pos == len(s.inner) {
		outer, ok, err := s.in.pull()
		if err != nil || !ok {
			return Pair[A, B]{}, false, err
		}
		s.outer, s.pos, s.live = outer, 0, true
	}
	pair := Pair[A, B]{First: s.outer, Second: s.inner[s.pos]}
	s.pos++
	return pair, true, nil
}

func (s *productStep[A, B]) close() error { return s.in.close() }

// --- GroupBy ---

// GroupBy drains p and buckets its values by the key classify returns.
// Groups appear in the order their key was first seen.
//
// Pointer, map, slice and chan keys are compared by identity: two distinct
// instances holding equal data form two groups, while the same instance
// returned twice collapses into one. Other keys are compared by value. A key
// that is neither, such as a func or a struct holding a slice, fails with
// INVALID_ARGUMENT.
func GroupBy[T, K any](ctx context.Context, p *Pipeline[T], classify func(T) K) (_ *Pipeline[Group[K, T]], err error) {
	r := begin(ctx, "group_by")
	defer func() { r.end(err) }()

	idx := newKeyIndex()
	var keys []K
	var buckets [][]T
	err = drive(r, p, func(v T) (bool, error) {
		k := classify(v)
		slot, err := idx.slot(k, len(keys))
		if err != nil {
			return false, err
		}
		if slot == len(keys) {
			keys = append(keys, k)
			buckets = append(buckets, nil)
		}
		buckets[slot] = append(buckets[slot], v)
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	groups := make([]Group[K, T], len(keys))
	for i, k := range keys {
		groups[i] = Group[K, T]{Key: k, Items: FromSlice(buckets[i])}
	}
	return FromSlice(groups), nil
}

// identity is the map key for reference-kind group keys.
type identity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// keyIndex maps group keys to bucket positions, by identity for reference
// kinds and by equality for everything else.
type keyIndex struct {
	byIdentity map[identity]int
	byValue    map[any]int
}

func newKeyIndex() *keyIndex {
	return &keyIndex{
		byIdentity: make(map[identity]int),
		byValue:    make(map[any]int),
	}
}

// slot returns the bucket for k, registering it at next when unseen.
func (x *keyIndex) slot(k any, next int) (int, error) {
	v := reflect.ValueOf(k)
	if !v.IsValid() {
		return lookup(x.byValue, k, next), nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return lookup(x.byIdentity, identity{typ: v.Type(), ptr: v.Pointer()}, next), nil
	case reflect.Slice:
		return lookup(x.byIdentity, identity{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}, next), nil
	case reflect.Func:
		return 0, errors.InvalidArgument("classify", "func keys cannot be grouped")
	}
	if !v.Comparable() {
		return 0, errors.InvalidArgument("classify", fmt.Sprintf("key of type %s is not comparable", v.Type()))
	}
	return lookup(x.byValue, k, next), nil
}

func lookup[K comparable](m map[K]int, k K, next int) int {
	if slot, ok := m[k]; ok {
		return slot
	}
	m[k] = next
	return next
}
