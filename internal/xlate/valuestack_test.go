package xlate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsandall/wazeroir-xlate/internal/wasm"
)

func TestValueStackPushPop(t *testing.T) {
	s := NewValueStack()
	s.PushLocal(wasm.ValueTypeI32, 3)
	s.PushConst(wasm.ValueTypeI64, 42, -1)
	require.Equal(t, 2, s.Height())
	require.Equal(t, 2, s.MaxHeight())

	top, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, SourceConst, top.Source)
	require.Equal(t, uint64(42), top.ConstBits)

	bottom, err := s.Pop()
	require.NoError(t, err)
	require.Equal(t, SourceLocal, bottom.Source)
	require.Equal(t, VReg(3), bottom.Reg)

	_, err = s.Pop()
	require.Error(t, err)
	var terr *TranslationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, ErrStackUnderflow, terr.Kind)

	// MaxHeight persists across pops.
	require.Equal(t, 2, s.MaxHeight())
}

func TestValueStackPopUnreachableTolerant(t *testing.T) {
	s := NewValueStack()
	mv := s.PopUnreachable()
	require.Equal(t, unknownType, mv.Type)
	require.Equal(t, 0, s.Height())
}

func TestValueStackSnapshotRestore(t *testing.T) {
	s := NewValueStack()
	s.PushLocal(wasm.ValueTypeI32, 1)
	snap := s.Snapshot()

	s.PushStack(wasm.ValueTypeI32, 99)
	require.Equal(t, 2, s.Height())

	s.Restore(snap)
	require.Equal(t, 1, s.Height())
	top, err := s.Peek(0)
	require.NoError(t, err)
	require.Equal(t, VReg(1), top.Reg)

	// Mutating the stack after Restore must not retroactively change the
	// captured snapshot (copy-on-branch: no shared backing array).
	s.PushStack(wasm.ValueTypeI32, 123)
	require.Equal(t, 1, len(snap))
}

func TestValueStackSetAndTruncate(t *testing.T) {
	s := NewValueStack()
	s.PushLocal(wasm.ValueTypeI32, 1)
	s.PushLocal(wasm.ValueTypeI32, 2)
	s.PushLocal(wasm.ValueTypeI32, 3)

	require.NoError(t, s.Set(0, MetaValue{Type: wasm.ValueTypeI32, Source: SourceStack, Reg: 10}))
	top, err := s.Peek(0)
	require.NoError(t, err)
	require.Equal(t, VReg(10), top.Reg)

	s.Truncate(1)
	require.Equal(t, 1, s.Height())

	// Truncating past current height pads rather than panicking.
	s.Truncate(3)
	require.Equal(t, 3, s.Height())
}
