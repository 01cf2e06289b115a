package pipeline

import (
	"cmp"
	"context"
	"strings"
	"testing"

	"github.com/kbukum/gostream/errors"
)

func TestMinMax(t *testing.T) {
	ctx := context.Background()

	if v, err := Min(ctx, Of(3, 2, 2)); err != nil || v != 2 {
		t.Errorf("Min = %d, %v; want 2", v, err)
	}
	if v, err := Max(ctx, Of(3, 2, 2)); err != nil || v != 3 {
		t.Errorf("Max = %d, %v; want 3", v, err)
	}
	if v, err := Min(ctx, Of("pear", "apple", "fig")); err != nil || v != "apple" {
		t.Errorf("Min = %q, %v", v, err)
	}
	if v, err := Max(ctx, RangeFloat(-1, 1, 0.5)); err != nil || v != 1 {
		t.Errorf("Max = %v, %v", v, err)
	}
}

func TestMinFunc_AscendingComparatorSelectsMaximum(t *testing.T) {
	v, err := MinFunc(context.Background(), Of(3, 2, 2), cmp.Compare[int])
	if err != nil {
		t.Fatalf("MinFunc: %v", err)
	}
	if v != 3 {
		t.Errorf("MinFunc(cmp.Compare) = %d, want 3", v)
	}
}

func TestMaxFunc(t *testing.T) {
	v, err := MaxFunc(context.Background(), Of(1, 5, 3), cmp.Compare[int])
	if err != nil || v != 5 {
		t.Errorf("MaxFunc = %d, %v; want 5", v, err)
	}
}

func TestMinMax_FirstOfEqualWins(t *testing.T) {
	ctx := context.Background()
	byLen := func(a, b string) int { return cmp.Compare(len(b), len(a)) }

	v, err := MinFunc(ctx, Of("bb", "aa", "c", "d"), byLen)
	if err != nil || v != "c" {
		t.Errorf("MinFunc = %q, %v; want the first shortest", v, err)
	}

	v, err = MaxFunc(ctx, Of("c", "bb", "aa"), func(a, b string) int { return cmp.Compare(len(a), len(b)) })
	if err != nil || v != "bb" {
		t.Errorf("MaxFunc = %q, %v; want the first longest", v, err)
	}
}

func TestMinMax_Empty(t *testing.T) {
	ctx := context.Background()
	if _, err := Min(ctx, Of[int]()); !errors.IsCode(err, errors.ErrCodeNoElementFound) {
		t.Errorf("Min: expected NO_ELEMENT_FOUND, got %v", err)
	}
	if _, err := Max(ctx, Of[int]()); !errors.IsCode(err, errors.ErrCodeNoElementFound) {
		t.Errorf("Max: expected NO_ELEMENT_FOUND, got %v", err)
	}
	if _, err := MinFunc(ctx, Of[int](), cmp.Compare[int]); !errors.IsCode(err, errors.ErrCodeNoElementFound) {
		t.Errorf("MinFunc: expected NO_ELEMENT_FOUND, got %v", err)
	}
}

type employee struct {
	name   string
	salary int
}

func TestMinByMaxBy(t *testing.T) {
	ctx := context.Background()
	staff := []employee{{"ana", 300}, {"bo", 100}, {"cy", 300}, {"di", 100}}
	salary := func(e employee) int { return e.salary }

	low, ok, err := MinBy(ctx, FromSlice(staff), salary)
	if err != nil || !ok || low.name != "bo" {
		t.Errorf("MinBy = %+v, %v, %v; want bo", low, ok, err)
	}

	high, ok, err := MaxBy(ctx, FromSlice(staff), salary)
	if err != nil || !ok || high.name != "ana" {
		t.Errorf("MaxBy = %+v, %v, %v; want ana", high, ok, err)
	}
}

func TestMinBy_KeyCalledOncePerValue(t *testing.T) {
	calls := 0
	_, _, err := MinBy(context.Background(), Of("b", "a", "c"), func(s string) string {
		calls++
		return strings.ToUpper(s)
	})
	if err != nil {
		t.Fatalf("MinBy: %v", err)
	}
	if calls != 3 {
		t.Errorf("key called %d times, want 3", calls)
	}
}

func TestMinBy_Empty(t *testing.T) {
	v, ok, err := MaxBy(context.Background(), Of[employee](), func(e employee) int { return e.salary })
	if err != nil {
		t.Fatalf("MaxBy: %v", err)
	}
	if ok || v != (employee{}) {
		t.Errorf("expected no value, got %+v, %v", v, ok)
	}
}
