package xlate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsandall/wazeroir-xlate/internal/wasm"
)

func TestControlStackPushPopTop(t *testing.T) {
	c := NewControlStack()
	require.Equal(t, 0, c.Depth())
	require.True(t, c.IsReachable())

	blockType := &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}}
	c.Push(ControlFrame{Kind: ControlBlock, BlockType: blockType, StackHeightAtEntry: 2, IsReachable: true})
	require.Equal(t, 1, c.Depth())

	top, err := c.Top()
	require.NoError(t, err)
	require.Equal(t, ControlBlock, top.Kind)
	require.Equal(t, 1, top.Arity())

	f, err := c.Pop()
	require.NoError(t, err)
	require.Equal(t, 2, f.StackHeightAtEntry)
	require.Equal(t, 0, c.Depth())
}

func TestControlStackPopEmptyIsControlMismatch(t *testing.T) {
	c := NewControlStack()
	_, err := c.Pop()
	require.Error(t, err)
	var terr *TranslationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, ErrControlMismatch, terr.Kind)
}

func TestControlStackAt(t *testing.T) {
	c := NewControlStack()
	c.Push(ControlFrame{Kind: ControlBlock, BlockType: &wasm.FunctionType{}})
	c.Push(ControlFrame{Kind: ControlLoop, BlockType: &wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI64}}})

	innermost, err := c.At(0)
	require.NoError(t, err)
	require.Equal(t, ControlLoop, innermost.Kind)
	require.Equal(t, 1, innermost.Arity()) // loop arity is param count

	outer, err := c.At(1)
	require.NoError(t, err)
	require.Equal(t, ControlBlock, outer.Kind)

	_, err = c.At(2)
	require.Error(t, err)
	var terr *TranslationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, ErrRelativeDepthOutOfRange, terr.Kind)
}

func TestControlStackReachability(t *testing.T) {
	c := NewControlStack()
	c.Push(ControlFrame{Kind: ControlIf, BlockType: &wasm.FunctionType{}, IsReachable: true})
	require.True(t, c.IsReachable())

	require.NoError(t, c.MarkUnreachable())
	require.False(t, c.IsReachable())

	require.NoError(t, c.ResetReachability())
	require.True(t, c.IsReachable())
}

func TestControlStackReachabilityNoOpenFrameErrors(t *testing.T) {
	c := NewControlStack()
	require.Error(t, c.MarkUnreachable())
	require.Error(t, c.ResetReachability())
}

func TestControlFrameBranchParamsLoopVsBlock(t *testing.T) {
	loop := ControlFrame{Kind: ControlLoop, BlockType: &wasm.FunctionType{
		Params:  []wasm.ValueType{wasm.ValueTypeI32},
		Results: []wasm.ValueType{wasm.ValueTypeI64, wasm.ValueTypeI64},
	}}
	require.Equal(t, []wasm.ValueType{wasm.ValueTypeI32}, loop.BranchParams())

	block := ControlFrame{Kind: ControlBlock, BlockType: loop.BlockType}
	require.Equal(t, []wasm.ValueType{wasm.ValueTypeI64, wasm.ValueTypeI64}, block.BranchParams())
}
