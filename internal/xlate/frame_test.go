package xlate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsandall/wazeroir-xlate/internal/wasm"
)

func TestFrameHeaderLayout(t *testing.T) {
	tests := []struct {
		name     string
		funcType *wasm.FunctionType
		wantBase int
	}{
		{
			name:     "two params, one result",
			funcType: &wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32}, Results: []wasm.ValueType{wasm.ValueTypeI32}},
			wantBase: 2 + 3,
		},
		{
			name:     "no params, three results",
			funcType: &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI64, wasm.ValueTypeF64}},
			wantBase: 3 + 3,
		},
		{
			name:     "no params, no results",
			funcType: &wasm.FunctionType{},
			wantBase: 3,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := NewFrameHeaderLayout(tc.funcType)
			require.Equal(t, tc.wantBase, l.ParamResultBase)
			require.Equal(t, tc.wantBase, l.Size())
			require.Equal(t, VReg(0-tc.wantBase), l.ParamReg(0))
			require.Equal(t, l.ParamReg(1), l.ReturnReg(1))
		})
	}
}

func TestStackLayout(t *testing.T) {
	ft := &wasm.FunctionType{Params: []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI64}, Results: []wasm.ValueType{wasm.ValueTypeI32}}

	l, err := NewStackLayout(ft, 4, 100, 0)
	require.NoError(t, err)
	require.Equal(t, 5, l.ConstantSlotSize()) // max(100/20, 4) = 5
	require.Equal(t, 4+5, l.StackRegBase())

	// Locals below param count alias the header.
	require.Equal(t, l.ParamReg(0), l.LocalReg(0))
	require.Equal(t, l.ParamReg(1), l.LocalReg(1))
	// Locals at/above param count live in their own region from VReg(0).
	require.Equal(t, VReg(0), l.LocalReg(2))
	require.Equal(t, VReg(1), l.LocalReg(3))

	require.Equal(t, VReg(4), l.ConstReg(0))
	require.Equal(t, l.StackRegBase()+2, l.MaxStackHeight(2))
}

func TestStackLayoutConstSlotOverflow(t *testing.T) {
	ft := &wasm.FunctionType{}
	_, err := NewStackLayout(ft, 1<<15, 100, 0)
	require.Error(t, err)
	var terr *TranslationError
	require.ErrorAs(t, err, &terr)
	require.Equal(t, ErrConstSlotOverflow, terr.Kind)
}

func TestStackLayoutConstSlotOverride(t *testing.T) {
	ft := &wasm.FunctionType{}
	l, err := NewStackLayout(ft, 0, 1000, 64)
	require.NoError(t, err)
	require.Equal(t, 64, l.ConstantSlotSize())
}
