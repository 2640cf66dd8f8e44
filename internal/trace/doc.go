// Package trace records spans and instant events emitted while compiling.
//
// Tracers are threaded through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopePass, "parse", parentID)
//	defer span.End("")
//
// Implementations:
//
//   - Nop: zero-cost tracer used when tracing is off
//   - StreamTracer: writes each event as it arrives
//   - RingTracer: keeps the last N events for post-mortem dumps
//   - MultiTracer: fans out to several tracers
//
// Verbosity is a Level; each event carries a Scope and is dropped when the
// level does not cover it. Phase covers driver and pass boundaries, Detail
// adds per-function events, Debug adds per-node points.
package trace
