package xlate

import "github.com/tsandall/wazeroir-xlate/internal/wasm"

// Interceptor hooks function-entry and function-exit (and, by the same
// mechanism, call-site) events during translation, letting a host wire up
// tracing or profiling without the interpreter's dispatch loop knowing
// anything about it (spec.md §6 "Interceptor hook producing onEnter/
// onExit pseudo-instructions").
//
// The shape mirrors the teacher's experimental function listener
// (Before/After around a call), generalized here to a translation-time
// hook that decides whether interception applies to funcIndex at all,
// rather than a runtime hook invoked unconditionally on every call.
type Interceptor interface {
	// ShouldIntercept reports whether OpOnEnter/OpOnExit should be
	// emitted for a call to funcIndex (or, for the outermost function
	// being translated, funcIndex is the function's own index).
	ShouldIntercept(funcIndex wasm.Index) bool
}

// NoopInterceptor never requests interception; it is the default when
// EngineConfig.EnableInterception is false.
type NoopInterceptor struct{}

// ShouldIntercept always returns false.
func (NoopInterceptor) ShouldIntercept(wasm.Index) bool { return false }

// emitOnEnter appends an OpOnEnter pseudo-instruction identifying
// funcIndex.
func (b *Builder) emitOnEnter(funcIndex wasm.Index) {
	b.Emit(Instruction{Op: OpOnEnter, Imm: uint64(funcIndex)})
}

// emitOnExit appends an OpOnExit pseudo-instruction identifying
// funcIndex.
func (b *Builder) emitOnExit(funcIndex wasm.Index) {
	b.Emit(Instruction{Op: OpOnExit, Imm: uint64(funcIndex)})
}
