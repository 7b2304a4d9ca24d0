// Package trace records what a session is doing, one span per command line
// and one per pipeline phase inside it.
//
// Enable it from the command line:
//
//	crepl --trace=- --trace-level=phase
//	crepl exec --file session.txt --trace=run.ndjson --trace-level=debug
//
// # Scopes
//
//   - ScopeSession: startup, config, default library
//   - ScopeCommand: one span per input line
//   - ScopePhase: lex, resolve, signature, marshal, call, decode
//   - ScopeNative: per-argument and per-symbol detail
//
// # Hangs
//
// A foreign call has no timeout. With --trace-heartbeat set, heartbeat
// events keep arriving while a "call" span stays open, which tells a
// hung native function apart from a hung session.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "call", parent)
//	defer span.End("")
package trace
