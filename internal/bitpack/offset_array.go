// Package bitpack provides a compact, read-only view over an array of
// 64-bit values, derived from Frame-of-Reference and Delta Encoding. The
// constant pool (internal/xlate.ConstantPool) accumulates constants as a
// plain []uint64 while translating a function body; at Finalize the arena
// compacts that slice into an OffsetArray once its final size is known,
// which is exactly the shape the teacher's allocator called for but never
// had a caller to exercise in this retrieval.
package bitpack

import "math"

// OffsetArray is a read-only view of an array of 64-bit values.
type OffsetArray interface {
	// Index returns the value at position i. Complexity may be anywhere
	// between O(1) and O(N) depending on the underlying representation.
	Index(i int) uint64
	// Len returns the number of values in the array. Complexity is always
	// O(1).
	Len() int
}

// OffsetArrayLen returns array.Len(), treating a nil array as length zero.
func OffsetArrayLen(array OffsetArray) int {
	if array != nil {
		return array.Len()
	}
	return 0
}

// ToSlice materializes an OffsetArray into a plain []uint64 by calling
// Index for each position, for a caller that wants every value at once
// rather than probing the array index by index.
func ToSlice(array OffsetArray) []uint64 {
	n := OffsetArrayLen(array)
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i] = array.Index(i)
	}
	return out
}

// NewOffsetArray constructs an OffsetArray from values. The slice is
// copied, not retained.
//
// The underlying representation applies delta encoding against the
// smallest-sufficient integer width, which shrinks the footprint of the
// common case (a constant pool whose i32/f32 values fit in 32 bits) at
// the cost of O(i) random access instead of O(1); see ToSlice above for
// callers that want every value and would rather pay the cost once.
//
// See https://lemire.me/blog/2012/02/08/effective-compression-using-frame-of-reference-and-delta-coding/
func NewOffsetArray(values []uint64) OffsetArray {
	if len(values) == 0 {
		return emptyOffsetArray{}
	}
	if len(values) <= smallOffsetArrayCapacity {
		return newSmallOffsetArray(values)
	}

	maxDelta := uint64(0)
	lastValue := values[0]
	for _, value := range values[1:] {
		if delta := value - lastValue; delta > maxDelta {
			maxDelta = delta
		}
		lastValue = value
	}

	switch {
	case maxDelta > math.MaxUint32:
		return newOffsetArray(values)
	case maxDelta > math.MaxUint16:
		return newDeltaArray[uint32](values)
	case maxDelta > math.MaxUint8:
		return newDeltaArray[uint16](values)
	default:
		return newDeltaArray[uint8](values)
	}
}

type offsetArray struct {
	values []uint64
}

func newOffsetArray(values []uint64) *offsetArray {
	a := &offsetArray{values: make([]uint64, len(values))}
	copy(a.values, values)
	return a
}

func (a *offsetArray) Index(i int) uint64 { return a.values[i] }
func (a *offsetArray) Len() int           { return len(a.values) }

type emptyOffsetArray struct{}

func (emptyOffsetArray) Index(int) uint64 { panic("bitpack: index out of bounds") }
func (emptyOffsetArray) Len() int         { return 0 }

const smallOffsetArrayCapacity = 7

type smallOffsetArray struct {
	length int
	values [smallOffsetArrayCapacity]uint64
}

func newSmallOffsetArray(values []uint64) *smallOffsetArray {
	a := &smallOffsetArray{length: len(values)}
	copy(a.values[:], values)
	return a
}

func (a *smallOffsetArray) Index(i int) uint64 {
	if i < 0 || i >= a.length {
		panic("bitpack: index out of bounds")
	}
	return a.values[i]
}

func (a *smallOffsetArray) Len() int { return a.length }

type uintType interface {
	uint8 | uint16 | uint32 | uint64
}

type deltaArray[T uintType] struct {
	deltas     []T
	firstValue uint64
}

func newDeltaArray[T uintType](values []uint64) *deltaArray[T] {
	a := &deltaArray[T]{
		deltas:     make([]T, len(values)-1),
		firstValue: values[0],
	}
	lastValue := values[0]
	for i, value := range values[1:] {
		a.deltas[i] = T(value - lastValue)
		lastValue = value
	}
	return a
}

func (a *deltaArray[T]) Index(i int) uint64 {
	if i < 0 || i >= a.Len() {
		panic("bitpack: index out of bounds")
	}
	value := a.firstValue
	for _, delta := range a.deltas[:i] {
		value += uint64(delta)
	}
	return value
}

func (a *deltaArray[T]) Len() int { return len(a.deltas) + 1 }
