package xlate

import "github.com/tsandall/wazeroir-xlate/internal/bitpack"

// Arena owns the long-lived buffers a translated function needs at
// interpretation time: its instruction sequence, its compacted constant
// pool, and the flattened br_table target buffers any br_table
// instructions reference (spec.md §3 "Arena Allocator"). An Arena has no
// internal self-references, so releasing one is just dropping every
// reference to it; there is nothing to tear down explicitly beyond that.
//
// One Arena belongs to exactly one Translator invocation (spec.md §5:
// "arenas must not be shared across parallel translators"); a
// Translator's caller is expected to run translations for independent
// functions on independent Arenas, in parallel or not as it chooses.
type Arena struct {
	instructions []Instruction
	constants    bitpack.OffsetArray
	brTables     []int32 // flattened; each br_table's entries occupy a contiguous run
}

// NewArena constructs an Arena from a finalized instruction sequence, the
// raw constant-pool values (compacted here into an OffsetArray) and the
// flattened br_table buffer.
func NewArena(instructions []Instruction, constants []uint64, brTables []int32) *Arena {
	return &Arena{
		instructions: instructions,
		constants:    bitpack.NewOffsetArray(constants),
		brTables:     brTables,
	}
}

// Instructions returns the arena's instruction sequence.
func (a *Arena) Instructions() []Instruction { return a.instructions }

// ConstantAt returns the constant pool value at slot i.
func (a *Arena) ConstantAt(i int) uint64 { return a.constants.Index(i) }

// NumConstants is the number of distinct constants the arena holds.
func (a *Arena) NumConstants() int { return bitpack.OffsetArrayLen(a.constants) }

// BrTableTargets returns the slice of absolute instruction-word offsets
// for the br_table whose entries start at bufferOffset and span count
// entries.
func (a *Arena) BrTableTargets(bufferOffset, count int) []int32 {
	return a.brTables[bufferOffset : bufferOffset+count]
}

// BrTableBuffer exposes the whole flattened br_table buffer.
func (a *Arena) BrTableBuffer() []int32 { return a.brTables }

// brTableBuilder accumulates br_table target buffers during translation,
// before the Arena itself exists; Finalize hands its buffer to NewArena.
// Kept distinct from Arena since a Translator mutates this while
// translating but the Arena it produces is meant to be read-only
// afterward.
type brTableBuilder struct {
	entries []int32
}

// AllocSlots reserves count contiguous entries in the buffer, returning
// the absolute offset of the first one. The caller patches each entry's
// value in as branch targets resolve, via Set (itself normally called
// through Builder.ReferenceBrTableSlot) rather than by indexing a slice
// returned here: a later AllocSlots call can grow entries past its
// current capacity and reallocate the backing array, which would strand
// writes aimed at any slice handed out by an earlier call.
func (t *brTableBuilder) AllocSlots(count int) (offset int) {
	offset = len(t.entries)
	t.entries = append(t.entries, make([]int32, count)...)
	return offset
}

// Set writes v into the buffer's absolute entry index idx. idx must fall
// within a span already reserved by AllocSlots.
func (t *brTableBuilder) Set(idx int, v int32) {
	t.entries[idx] = v
}

// Finalize returns the accumulated buffer.
func (t *brTableBuilder) Finalize() []int32 { return t.entries }
