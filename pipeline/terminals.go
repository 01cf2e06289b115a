package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/gostream/errors"
)

// Number is the constraint accepted by Sum.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion, a sink failure or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// Drain creates a Runnable that pulls all values and sends each to sink.
// A sink error stops the run immediately.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) (err error) {
			r := begin(ctx, "drain")
			defer func() { r.end(err) }()
			return drive(r, p, func(v T) (bool, error) {
				if err := sink(r.ctx, v); err != nil {
					return false, errors.SinkFailed(err)
				}
				return true, nil
			})
		},
	}
}

// WriterSink returns a sink that writes the default format of each value to w.
func WriterSink[T any](w io.Writer) func(context.Context, T) error {
	return func(_ context.Context, v T) error {
		_, err := fmt.Fprint(w, v)
		return err
	}
}

// Collect runs the pipeline and returns all values as a slice.
func Collect[T any](ctx context.Context, p *Pipeline[T]) (result []T, err error) {
	r := begin(ctx, "collect")
	defer func() { r.end(err) }()
	return collect(r, p)
}

func collect[T any](r *run, p *Pipeline[T]) ([]T, error) {
	result := []T{}
	err := drive(r, p, func(v T) (bool, error) {
		result = append(result, v)
		return true, nil
	})
	return result, err
}

// CollectMap runs a pipeline of entries into a map. Later entries overwrite
// earlier ones with the same key.
func CollectMap[K comparable, V any](ctx context.Context, p *Pipeline[Entry[K, V]]) (result map[K]V, err error) {
	r := begin(ctx, "collect_map")
	defer func() { r.end(err) }()
	result = make(map[K]V)
	err = drive(r, p, func(e Entry[K, V]) (bool, error) {
		result[e.Key] = e.Value
		return true, nil
	})
	return result, err
}

// ForEach pulls all values and calls fn for each. An fn error aborts the run.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) (err error) {
	r := begin(ctx, "for_each")
	defer func() { r.end(err) }()
	return drive(r, p, func(v T) (bool, error) {
		if err := fn(r.ctx, v); err != nil {
			return false, errors.CallbackFailed("for_each", err)
		}
		return true, nil
	})
}

// Reduce folds the values left to right starting from seed. An empty
// pipeline returns seed.
func Reduce[T, R any](ctx context.Context, p *Pipeline[T], seed R, fn func(R, T) R) (acc R, err error) {
	r := begin(ctx, "reduce")
	defer func() { r.end(err) }()
	acc = seed
	err = drive(r, p, func(v T) (bool, error) {
		acc = fn(acc, v)
		return true, nil
	})
	return acc, err
}

// Count returns the number of remaining values.
func Count[T any](ctx context.Context, p *Pipeline[T]) (n int, err error) {
	r := begin(ctx, "count")
	defer func() { r.end(err) }()
	err = drive(r, p, func(T) (bool, error) {
		n++
		return true, nil
	})
	return n, err
}

// Sum adds all values. An empty pipeline sums to zero.
func Sum[T Number](ctx context.Context, p *Pipeline[T]) (sum T, err error) {
	r := begin(ctx, "sum")
	defer func() { r.end(err) }()
	err = drive(r, p, func(v T) (bool, error) {
		sum += v
		return true, nil
	})
	return sum, err
}

// Join concatenates the default format of each value, separated by glue.
func Join[T any](ctx context.Context, p *Pipeline[T], glue string) (joined string, err error) {
	r := begin(ctx, "join")
	defer func() { r.end(err) }()
	var b strings.Builder
	first := true
	err = drive(r, p, func(v T) (bool, error) {
		if !first {
			b.WriteString(glue)
		}
		first = false
		fmt.Fprint(&b, v)
		return true, nil
	})
	return b.String(), err
}

// --- Matching ---

// AllMatch reports whether every value satisfies fn. It stops at the first
// value that does not. An empty pipeline matches.
func AllMatch[T any](ctx context.Context, p *Pipeline[T], fn Predicate[T]) (matched bool, err error) {
	r := begin(ctx, "all_match")
	defer func() { r.end(err) }()
	matched = true
	err = drive(r, p, func(v T) (bool, error) {
		if !fn(v) {
			matched = false
			return false, nil
		}
		return true, nil
	})
	return matched, err
}

// AnyMatch reports whether some value satisfies fn. It stops at the first
// value that does.
func AnyMatch[T any](ctx context.Context, p *Pipeline[T], fn Predicate[T]) (matched bool, err error) {
	r := begin(ctx, "any_match")
	defer func() { r.end(err) }()
	err = drive(r, p, func(v T) (bool, error) {
		if fn(v) {
			matched = true
			return false, nil
		}
		return true, nil
	})
	return matched, err
}

// NoneMatch reports whether no value satisfies fn. It stops at the first
// value that does.
func NoneMatch[T any](ctx context.Context, p *Pipeline[T], fn Predicate[T]) (bool, error) {
	matched, err := AnyMatch(ctx, p, fn)
	return !matched, err
}

// --- First / last ---

// FindOption configures CollectFirst and CollectLast.
type FindOption[T any] func(*findConfig[T])

type findConfig[T any] struct {
	where      Predicate[T]
	fallback   T
	hasDefault bool
}

// Where restricts the search to values satisfying fn.
func Where[T any](fn Predicate[T]) FindOption[T] {
	return func(c *findConfig[T]) { c.where = fn }
}

// OrDefault returns v instead of failing when nothing is found.
func OrDefault[T any](v T) FindOption[T] {
	return func(c *findConfig[T]) {
		c.fallback = v
		c.hasDefault = true
	}
}

func resolveFind[T any](opts []FindOption[T]) findConfig[T] {
	var c findConfig[T]
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// CollectFirst returns the first value, or the first value matching Where.
// Traversal stops at the match; later values are never read. Without a match
// it returns the OrDefault value or a NO_ELEMENT_FOUND error.
func CollectFirst[T any](ctx context.Context, p *Pipeline[T], opts ...FindOption[T]) (found T, err error) {
	r := begin(ctx, "collect_first")
	defer func() { r.end(err) }()
	c := resolveFind(opts)
	ok := false
	err = drive(r, p, func(v T) (bool, error) {
		if c.where == nil || c.where(v) {
			found, ok = v, true
			return false, nil
		}
		return true, nil
	})
	if err != nil {
		return found, err
	}
	return settle(found, ok, c, "collect_first")
}

// CollectLast returns the last value, or the last value matching Where. It
// always drains the pipeline. Without a match it returns the OrDefault value
// or a NO_ELEMENT_FOUND error.
func CollectLast[T any](ctx context.Context, p *Pipeline[T], opts ...FindOption[T]) (found T, err error) {
	r := begin(ctx, "collect_last")
	defer func() { r.end(err) }()
	c := resolveFind(opts)
	ok := false
	err = drive(r, p, func(v T) (bool, error) {
		if c.where == nil || c.where(v) {
			found, ok = v, true
		}
		return true, nil
	})
	if err != nil {
		return found, err
	}
	return settle(found, ok, c, "collect_last")
}

func settle[T any](found T, ok bool, c findConfig[T], operation string) (T, error) {
	if ok {
		return found, nil
	}
	if c.hasDefault {
		return c.fallback, nil
	}
	var zero T
	return zero, errors.NoElementFound(operation)
}
