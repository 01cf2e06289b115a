package pipeline

import (
	"cmp"
	"context"

	"github.com/kbukum/gostream/errors"
)

// Comparator returns a negative number, zero or a positive number when a
// ranks below, equal to or above b.
type Comparator[T any] func(a, b T) int

// Min returns the smallest value. Of several equal minima the first wins.
// An empty pipeline returns NO_ELEMENT_FOUND.
func Min[T cmp.Ordered](ctx context.Context, p *Pipeline[T]) (T, error) {
	return extremum(ctx, "min", p, func(a, b T) int { return cmp.Compare(b, a) })
}

// Max returns the largest value. Of several equal maxima the first wins.
// An empty pipeline returns NO_ELEMENT_FOUND.
func Max[T cmp.Ordered](ctx context.Context, p *Pipeline[T]) (T, error) {
	return extremum(ctx, "max", p, cmp.Compare[T])
}

// MinFunc scans the pipeline keeping a candidate; a value v replaces the
// candidate c only when cmpFn(c, v) < 0, so ties keep the earlier value.
//
// The comparator decides the ranking on its own. Min itself passes
// cmp.Compare with swapped arguments, which means handing the plain
// ascending cmp.Compare to MinFunc selects the maximum:
//
//	MinFunc(ctx, Of(3, 2, 2), cmp.Compare[int]) // 3
//
// Callers rely on this, so it is kept as is.
func MinFunc[T any](ctx context.Context, p *Pipeline[T], cmpFn Comparator[T]) (T, error) {
	return extremum(ctx, "min", p, cmpFn)
}

// MaxFunc hands cmpFn to the MinFunc scan unchanged. With cmp.Compare it
// selects the maximum.
func MaxFunc[T any](ctx context.Context, p *Pipeline[T], cmpFn Comparator[T]) (T, error) {
	return extremum(ctx, "max", p, cmpFn)
}

func extremum[T any](ctx context.Context, operation string, p *Pipeline[T], cmpFn Comparator[T]) (best T, err error) {
	r := begin(ctx, operation)
	defer func() { r.end(err) }()
	found := false
	err = drive(r, p, func(v T) (bool, error) {
		if !found {
			best, found = v, true
			return true, nil
		}
		if cmpFn(best, v) < 0 {
			best = v
		}
		return true, nil
	})
	if err != nil {
		return best, err
	}
	if !found {
		var zero T
		return zero, errors.NoElementFound(operation)
	}
	return best, nil
}

// MinBy returns the value with the smallest key. key is called once per
// value and the first of several equal keys wins. ok is false when the
// pipeline is empty.
func MinBy[T any, K cmp.Ordered](ctx context.Context, p *Pipeline[T], key func(T) K) (best T, ok bool, err error) {
	return extremumBy(ctx, "min_by", p, key, func(candidate, current K) bool { return candidate < current })
}

// MaxBy returns the value with the largest key. key is called once per value
// and the first of several equal keys wins. ok is false when the pipeline is
// empty.
func MaxBy[T any, K cmp.Ordered](ctx context.Context, p *Pipeline[T], key func(T) K) (best T, ok bool, err error) {
	return extremumBy(ctx, "max_by", p, key, func(candidate, current K) bool { return candidate > current })
}

func extremumBy[T any, K cmp.Ordered](ctx context.Context, operation string, p *Pipeline[T], key func(T) K, better func(candidate, current K) bool) (best T, ok bool, err error) {
	r := begin(ctx, operation)
	defer func() { r.end(err) }()
	var bestKey K
	err = drive(r, p, func(v T) (bool, error) {
		k := key(v)
		if !ok || better(k, bestKey) {
			best, bestKey, ok = v, k, true
		}
		return true, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return best, ok, nil
}
