package xlate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsandall/wazeroir-xlate/internal/wasm"
)

func TestOpAndNumTypeString(t *testing.T) {
	require.Equal(t, "add", OpAdd.String())
	require.Equal(t, "jmp", OpJmp.String())
	require.Equal(t, "i32", TypeI32.String())
	require.Equal(t, "f64", TypeF64.String())

	require.Contains(t, Op(-1).String(), "op(")
}

func TestDumpRendersFrameHeaderConstantsAndInstructions(t *testing.T) {
	instrs := []Instruction{
		{Op: OpConstI32, Type: TypeI32, Dst: 5, Imm: 0},
		{Op: OpAdd, Type: TypeI32, Dst: 5, Src1: 5, Src2: 6},
		{Op: OpJmp, Offset: 3},
		{Op: OpReturn},
	}
	arena := NewArena(instrs, []uint64{7}, nil)
	layout, err := NewStackLayout(&wasm.FunctionType{}, 0, 100, 0)
	require.NoError(t, err)

	seq := &InstructionSequence{Arena: arena, Layout: layout, FrameSize: 12}

	out := Dump(seq)
	require.True(t, strings.HasPrefix(out, "frame_size=12 const_slots=5\n"))
	require.Contains(t, out, "constants:")
	require.Contains(t, out, "[0] = 0x0000000000000007")
	require.Contains(t, out, "add.i32 dst=r5 src1=r5 src2=r6")
	require.Contains(t, out, "jmp.i32 src1=r0 off=+3")
	require.Contains(t, out, "return.i32")
}
