// Package moremath collects the handful of floating-point operations whose
// IEEE-754 behavior WebAssembly pins down more tightly than Go's math
// package does, each as a single Wasm-compatible helper covering the
// NaN/±0/rounding edge cases. Package xlate does not call them: its
// numeric opcode visitors emit OpMin/OpMax/OpNearest instructions and
// perform no float arithmetic themselves.
package moremath

import "math"

// WasmCompatMin mirrors Wasm's f32.min/f64.min: if either operand is NaN,
// the result is NaN (math.Min only propagates NaN from the first operand
// in some Go versions' corner cases); and of two zeros of different sign,
// the result is the negative one.
//
// https://github.com/golang/go/blob/1d20a362d0ca4898d77865e314ef6f73582daef0/src/math/dim.go#L74-L91
func WasmCompatMin(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, -1) || math.IsInf(y, -1):
		return math.Inf(-1)
	case x == 0 && x == y:
		if math.Signbit(x) {
			return x
		}
		return y
	}
	if x < y {
		return x
	}
	return y
}

// WasmCompatMax mirrors Wasm's f32.max/f64.max: NaN propagates from either
// operand, and of two zeros of different sign the result is the positive
// one.
//
// https://github.com/golang/go/blob/1d20a362d0ca4898d77865e314ef6f73582daef0/src/math/dim.go#L42-L59
func WasmCompatMax(x, y float64) float64 {
	switch {
	case math.IsNaN(x) || math.IsNaN(y):
		return math.NaN()
	case math.IsInf(x, 1) || math.IsInf(y, 1):
		return math.Inf(1)
	case x == 0 && x == y:
		if math.Signbit(x) {
			return y
		}
		return x
	}
	if x > y {
		return x
	}
	return y
}

// WasmCompatNearestF64 implements f64.nearest: round to the nearest
// integer, ties to even. This is *not* math.Round (which rounds ties away
// from zero); it matches LLVM's rint intrinsic, which is what Wasm's
// nearest opcode is specified against.
//
// https://llvm.org/docs/LangRef.html#llvm-rint-intrinsic
func WasmCompatNearestF64(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f == 0 {
		return f
	}
	rounded := math.Round(f)
	if diff := math.Abs(f - math.Trunc(f)); diff == 0.5 {
		// Exactly halfway: round to even.
		if math.Mod(rounded, 2) != 0 {
			if rounded > f {
				rounded--
			} else {
				rounded++
			}
		}
	}
	return rounded
}

// WasmCompatNearestF32 is WasmCompatNearestF64 at float32 precision.
func WasmCompatNearestF32(f float32) float32 {
	return float32(WasmCompatNearestF64(float64(f)))
}
