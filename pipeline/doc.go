// Package pipeline provides lazy, single-pass, composable pipelines.
//
// A Pipeline wraps exactly one Source and is itself a Source, so operators
// nest: each one returns a new Pipeline that pulls from its predecessor on
// demand. Building a chain does no work. Values move only when a terminal
// such as Collect, Reduce or ForEach drives the outermost pipeline, and each
// pull resolves the minimum chain of upstream pulls needed for one element.
//
// A pipeline is traversed once. Every terminal closes the pipeline it drives,
// even when it stops early as CollectFirst and AnyMatch do, so driving it
// again, or rewinding a source that has already advanced, fails with
// EXHAUSTED_SOURCE.
//
// # Operators
//
// Lazy, one element at a time:
//
//   - Map, TryMap, Inspect, Tap, KeyBy: per-element transforms
//   - Filter, Reject, Take, Skip, TakeWhile, SkipWhile: selection
//   - Flatten, FlattenPipelines, FlatMap, FlatMapSlice, Concat: composition
//   - Pluck, PluckKey, PluckIndex, PluckFunc: field extraction
//   - ChunkBy, ChunkByIndex, ChunkEvery: consecutive grouping with one
//     element of lookahead
//   - Zip: column-wise zipping of row pipelines
//
// Eager at call time, lazy afterwards:
//
//   - Transpose drains the outer pipeline of rows
//   - CartesianProduct drains its second argument
//   - GroupBy drains its input
//
// # Terminals
//
// Terminals take a context first, check it between pulls and close the
// pipeline when done. Each run is logged through the "pipeline" logger,
// traced as a span named "pipeline.<operation>" and, after SetMetrics,
// counted in the pipeline metrics.
//
// # Usage
//
//	odds := pipeline.Range(1, 100, 1).Filter(func(n int) bool { return n%2 == 1 })
//	chunks, _ := pipeline.ChunkEvery(odds.Skip(1).Take(10), 5)
//	got, err := pipeline.Collect(ctx, chunks)
//	// [[3 5 7 9 11] [13 15 17 19 21]]
package pipeline
