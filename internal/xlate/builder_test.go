package xlate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderForwardPatch(t *testing.T) {
	b := NewBuilder()
	label := b.AllocLabel()

	jmpIdx := b.Emit(Instruction{Op: OpJmp})
	b.ReferenceAt(label, jmpIdx)

	b.Emit(Instruction{Op: OpNop})
	b.Emit(Instruction{Op: OpNop})
	require.NoError(t, b.PinHere(label))

	instrs, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, int32(3), instrs[jmpIdx].Offset)
}

func TestBuilderBackwardPatch(t *testing.T) {
	b := NewBuilder()
	label := b.AllocLabel()
	require.NoError(t, b.PinHere(label))

	b.Emit(Instruction{Op: OpNop})
	b.Emit(Instruction{Op: OpNop})
	jmpIdx := b.Emit(Instruction{Op: OpJmp})
	b.ReferenceAt(label, jmpIdx)

	instrs, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, int32(-2), instrs[jmpIdx].Offset)
}

func TestBuilderDanglingLabel(t *testing.T) {
	b := NewBuilder()
	b.AllocLabel()
	_, err := b.Finalize()
	require.Error(t, err)
	var terr *TranslationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, ErrDanglingLabel, terr.Kind)
}

func TestBuilderPinTwiceIsInternalError(t *testing.T) {
	b := NewBuilder()
	label := b.AllocLabel()
	require.NoError(t, b.PinHere(label))
	err := b.PinHere(label)
	require.Error(t, err)
	var terr *TranslationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, ErrInternalConsistency, terr.Kind)
}

func TestBuilderRelinkLastResult(t *testing.T) {
	b := NewBuilder()
	idx := b.Emit(Instruction{Op: OpAdd, Dst: 5})
	ok := b.RelinkLastResult(10)
	require.True(t, ok)
	require.Equal(t, VReg(10), b.At(idx).Dst)

	b.ResetLastEmission()
	require.False(t, b.RelinkLastResult(99))
}

func TestBuilderMultipleReferencesToSameLabel(t *testing.T) {
	b := NewBuilder()
	label := b.AllocLabel()
	idx1 := b.Emit(Instruction{Op: OpJmp})
	b.ReferenceAt(label, idx1)
	idx2 := b.Emit(Instruction{Op: OpJmpIf})
	b.ReferenceAt(label, idx2)
	require.NoError(t, b.PinHere(label))

	instrs, err := b.Finalize()
	require.NoError(t, err)
	require.Equal(t, int32(2-idx1), instrs[idx1].Offset)
	require.Equal(t, int32(2-idx2), instrs[idx2].Offset)
}

func TestBuilderBrTableSlotPatch(t *testing.T) {
	b := NewBuilder()
	label := b.AllocLabel()
	var bt brTableBuilder
	bt.AllocSlots(2)
	b.ReferenceBrTableSlot(label, &bt, 1)
	b.Emit(Instruction{Op: OpNop})
	require.NoError(t, b.PinHere(label))
	require.Equal(t, int32(1), bt.Finalize()[1])
}

func TestBuilderBrTableSlotPatchSecondTableOffset(t *testing.T) {
	b := NewBuilder()
	var bt brTableBuilder
	bt.AllocSlots(2) // first br_table's slots, offsets 0-1

	secondOffset := bt.AllocSlots(3) // second br_table starts at offset 2
	label := b.AllocLabel()
	b.ReferenceBrTableSlot(label, &bt, secondOffset+1)
	b.Emit(Instruction{Op: OpNop})
	require.NoError(t, b.PinHere(label))

	finalized := bt.Finalize()
	require.Equal(t, int32(0), finalized[0])
	require.Equal(t, int32(0), finalized[1])
	require.Equal(t, int32(1), finalized[secondOffset+1])
}
