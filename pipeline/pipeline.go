package pipeline

import (
	"io"
	"iter"

	"github.com/kbukum/gostream/errors"
)

// Source provides pull-based sequential access to a sequence of values.
//
// The protocol mirrors a cursor: Rewind positions it on the first element,
// Valid reports whether an element is under the cursor, Current reads it and
// Next moves past it. Sources that hold resources may also implement
// io.Closer; pipelines forward Close to them.
type Source[T any] interface {
	// Rewind positions the source on its first element. It fails once the
	// source has been advanced and cannot restart.
	Rewind() error
	// Valid reports whether Current holds an element.
	Valid() bool
	// Current returns the element under the cursor.
	Current() T
	// Next advances the cursor.
	Next()
	// Err returns the failure that made Valid report false, if any.
	Err() error
}

// State is the traversal state of a Pipeline.
type State int

const (
	// NotStarted means no element has been requested yet.
	NotStarted State = iota
	// InProgress means the pipeline has started producing elements.
	InProgress
	// Exhausted means the wrapped source has no more elements.
	Exhausted
	// Failed means a source or callback error aborted the traversal.
	Failed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Exhausted:
		return "exhausted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Pipeline is a lazy, single-pass sequence. It owns exactly one Source and is
// itself a Source, so pipelines nest. No work happens until a terminal such as
// Collect pulls values, and a pipeline can be traversed only once.
type Pipeline[T any] struct {
	src      Source[T]
	state    State
	advanced bool
	closed   bool
	err      error
}

// From creates a pipeline that owns src.
func From[T any](src Source[T]) *Pipeline[T] {
	return &Pipeline[T]{src: src}
}

// State returns the current traversal state.
func (p *Pipeline[T]) State() State { return p.state }

// Rewind starts the traversal. It succeeds on a fresh pipeline and is a no-op
// on a started pipeline that has not advanced yet. Any other restart, including
// one after the pipeline was closed, fails with EXHAUSTED_SOURCE.
func (p *Pipeline[T]) Rewind() error {
	switch p.state {
	case NotStarted:
		if err := p.src.Rewind(); err != nil {
			return p.fail(err)
		}
		p.state = InProgress
		return nil
	case InProgress:
		if p.advanced {
			return errors.ExhaustedSource(p.state.String())
		}
		return nil
	case Exhausted:
		return errors.ExhaustedSource(p.state.String())
	default:
		return errors.ExhaustedSource(p.state.String()).WithCause(p.err)
	}
}

// Valid reports whether Current holds an element, starting the pipeline if needed.
func (p *Pipeline[T]) Valid() bool {
	switch p.state {
	case NotStarted:
		if p.Rewind() != nil {
			return false
		}
	case Exhausted, Failed:
		return false
	}
	if p.src.Valid() {
		return true
	}
	if err := p.src.Err(); err != nil {
		p.fail(err)
	} else {
		p.state = Exhausted
	}
	return false
}

// Current returns the element under the cursor, or the zero value when the
// pipeline has none.
func (p *Pipeline[T]) Current() T {
	if p.state == NotStarted && p.Rewind() != nil {
		var zero T
		return zero
	}
	if p.state != InProgress {
		var zero T
		return zero
	}
	return p.src.Current()
}

// Next advances past the current element.
func (p *Pipeline[T]) Next() {
	if p.state == NotStarted && p.Rewind() != nil {
		return
	}
	if p.state != InProgress {
		return
	}
	p.advanced = true
	p.src.Next()
}

// Err returns the error that failed the pipeline, if any.
func (p *Pipeline[T]) Err() error { return p.err }

// Close releases resources held by the wrapped source chain and ends the
// traversal. A closed pipeline reports Exhausted unless it already failed.
// Closing twice is a no-op.
func (p *Pipeline[T]) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.state != Failed {
		p.state = Exhausted
	}
	return closeSource(p.src)
}

// Seq exposes the pipeline to range-over-func loops. Breaking out of the loop
// abandons the pipeline; check Err afterwards for traversal failures.
func (p *Pipeline[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer p.Close()
		if p.Rewind() != nil {
			return
		}
		for ; p.Valid(); p.Next() {
			if !yield(p.Current()) {
				return
			}
		}
	}
}

func (p *Pipeline[T]) fail(err error) error {
	if p.state != Failed {
		p.state = Failed
		p.err = err
	}
	return p.err
}

func closeSource(src any) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// --- Operator plumbing ---

// stepper is implemented by every operator: start prepares upstream sources,
// step produces the next element on demand.
type stepper[T any] interface {
	start() error
	step() (T, bool, error)
	close() error
}

// cursor adapts a stepper to the Source protocol, computing each element at
// most once and only when it is first probed.
type cursor[T any] struct {
	op      stepper[T]
	cur     T
	ok      bool
	fetched bool
	err     error
}

func newPipeline[T any](op stepper[T]) *Pipeline[T] {
	return From[T](&cursor[T]{op: op})
}

func (c *cursor[T]) Rewind() error {
	c.fetched = false
	return c.op.start()
}

func (c *cursor[T]) fetch() {
	if c.fetched {
		return
	}
	c.fetched = true
	c.cur, c.ok, c.err = c.op.step()
	if c.err != nil {
		c.ok = false
	}
}

func (c *cursor[T]) Valid() bool {
	c.fetch()
	return c.ok
}

func (c *cursor[T]) Current() T {
	c.fetch()
	return c.cur
}

func (c *cursor[T]) Next() {
	c.fetch()
	if c.ok {
		c.fetched = false
	}
}

func (c *cursor[T]) Err() error { return c.err }

func (c *cursor[T]) Close() error { return c.op.close() }

// feed pulls from an upstream source. It advances lazily: the upstream moves
// past an element only when the following one is requested, so an operator
// that stops early never advances beyond the last element it read.
type feed[T any] struct {
	src    Source[T]
	primed bool
}

func (f *feed[T]) start() error {
	f.primed = false
	return f.src.Rewind()
}

// advance moves onto the next upstream element without reading it.
func (f *feed[T]) advance() (bool, error) {
	if f.primed {
		f.src.Next()
	}
	f.primed = true
	if !f.src.Valid() {
		return false, f.src.Err()
	}
	return true, nil
}

// pull moves onto the next upstream element and reads it.
func (f *feed[T]) pull() (T, bool, error) {
	ok, err := f.advance()
	if !ok {
		var zero T
		return zero, false, err
	}
	return f.src.Current(), true, nil
}

func (f *feed[T]) close() error { return closeSource(f.src) }

// failStep reports err when the pipeline is started. Operators use it to
// surface invalid arguments on the first drive without breaking chaining.
type failStep[T any] struct {
	err error
}

func (s *failStep[T]) start() error { return s.err }

func (s *failStep[T]) step() (T, bool, error) {
	var zero T
	return zero, false, s.err
}

func (s *failStep[T]) close() error { return nil }

func failed[T any](err error) *Pipeline[T] {
	return newPipeline[T](&failStep[T]{err: err})
}
