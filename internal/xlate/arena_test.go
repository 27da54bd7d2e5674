package xlate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaConstantsAndInstructions(t *testing.T) {
	instrs := []Instruction{{Op: OpAdd}, {Op: OpReturn}}
	consts := []uint64{10, 20, 30}
	a := NewArena(instrs, consts, nil)

	require.Equal(t, instrs, a.Instructions())
	require.Equal(t, 3, a.NumConstants())
	require.Equal(t, uint64(10), a.ConstantAt(0))
	require.Equal(t, uint64(20), a.ConstantAt(1))
	require.Equal(t, uint64(30), a.ConstantAt(2))
}

func TestArenaBrTableTargets(t *testing.T) {
	brTables := []int32{1, 2, 3, 4, 5}
	a := NewArena(nil, nil, brTables)

	require.Equal(t, []int32{2, 3, 4}, a.BrTableTargets(1, 3))
	require.Equal(t, brTables, a.BrTableBuffer())
	require.Equal(t, 0, a.NumConstants())
}

func TestBrTableBuilderAllocSlots(t *testing.T) {
	var b brTableBuilder
	off1 := b.AllocSlots(2)
	require.Equal(t, 0, off1)
	require.Len(t, b.Finalize(), 2)

	off2 := b.AllocSlots(3)
	require.Equal(t, 2, off2)
	require.Len(t, b.Finalize(), 5)

	b.Set(off2, 42)
	require.Equal(t, int32(42), b.Finalize()[off2])
}

// TestBrTableBuilderSetSurvivesRealloc guards against the stale-slice
// hazard ReferenceBrTableSlot's doc comment calls out: a Set targeting an
// offset from an earlier AllocSlots must still land correctly after a
// later AllocSlots call has grown (and possibly reallocated) the buffer.
func TestBrTableBuilderSetSurvivesRealloc(t *testing.T) {
	var b brTableBuilder
	off1 := b.AllocSlots(1)
	for i := 0; i < 64; i++ {
		b.AllocSlots(1)
	}
	b.Set(off1, 7)
	require.Equal(t, int32(7), b.Finalize()[off1])
}
