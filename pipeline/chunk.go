package pipeline

import (
	"fmt"
	"reflect"

	"github.com/kbukum/gostream/errors"
)

// ChunkBy groups consecutive values into slices. A new chunk starts whenever
// classify returns a value different from the one it returned for the
// previous element. The final partial chunk is emitted when the source is
// exhausted. On an empty source classify is never called.
func ChunkBy[T any, K comparable](p *Pipeline[T], classify func(T) K) *Pipeline[[]T] {
	return ChunkByIndex(p, func(_ int, v T) K { return classify(v) })
}

// ChunkByIndex is ChunkBy with the running element index passed to classify.
// The index starts at zero for every pipeline built by this call.
//
// Keys whose dynamic value cannot be compared, such as a slice returned as
// any, fail the traversal with INVALID_ARGUMENT.
func ChunkByIndex[T any, K comparable](p *Pipeline[T], classify func(index int, v T) K) *Pipeline[[]T] {
	return newPipeline[[]T](&chunkStep[T, K]{
		in:        feed[T]{src: p},
		classify:  classify,
		checkKeys: holdsInterface(reflect.TypeFor[K]()),
	})
}

// ChunkEvery splits the pipeline into chunks of size elements; the last chunk
// may be shorter. size must be positive.
func ChunkEvery[T any](p *Pipeline[T], size int) (*Pipeline[[]T], error) {
	if size <= 0 {
		return nil, errors.InvalidArgument("size", "must be positive").WithDetail("value", size)
	}
	return ChunkByIndex(p, func(index int, _ T) int { return index / size }), nil
}

type chunkStep[T any, K comparable] struct {
	in        feed[T]
	classify  func(int, T) K
	checkKeys bool
	index     int
	pending   []T
	lastKey   K
	started   bool
	done      bool
}

func (s *chunkStep[T, K]) start() error { return s.in.start() }

func (s *chunkStep[T, K]) key(v T) (K, error) {
	k := s.classify(s.index, v)
	s.index++
	if s.checkKeys {
		if rv := reflect.ValueOf(k); rv.IsValid() && !rv.Comparable() {
			return k, errors.InvalidArgument("classify", fmt.Sprintf("key of type %s is not comparable", rv.Type()))
		}
	}
	return k, nil
}

func (s *chunkStep[T, K]) step() ([]T, bool, error) {
	if s.done {
		return nil, false, nil
	}

	if !s.started {
		s.started = true
		val, ok, err := s.in.pull()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			s.done = true
			return nil, false, nil
		}
		if s.lastKey, err = s.key(val); err != nil {
			return nil, false, err
		}
		s.pending = []T{val}
	}

	for {
		val, ok, err := s.in.pull()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			s.done = true
			chunk := s.pending
			s.pending = nil
			if len(chunk) > 0 {
				return chunk, true, nil
			}
			return nil, false, nil
		}

		k, err := s.key(val)
		if err != nil {
			return nil, false, err
		}
		if k != s.lastKey {
			chunk := s.pending
			s.pending = []T{val}
			s.lastKey = k
			return chunk, true, nil
		}
		s.pending = append(s.pending, val)
	}
}

func (s *chunkStep[T, K]) close() error { return s.in.close() }

// holdsInterface reports whether values of t can carry an interface value,
// the only way a comparable type fails at comparison time.
func holdsInterface(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface:
		return true
	case reflect.Array:
		return holdsInterface(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if holdsInterface(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
