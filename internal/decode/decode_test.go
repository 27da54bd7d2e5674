package decode

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tsandall/wazeroir-xlate/internal/wasm"
	"github.com/tsandall/wazeroir-xlate/internal/xlate"
)

// fakeModule is a minimal wasm.ModuleContext good enough to drive a
// function body that only uses locals, constants and call-free arithmetic;
// every method a given test doesn't need panics if called, so a nil-typed
// fakeModule slip would show up immediately rather than translating
// silently wrong.
type fakeModule struct {
	funcTypes map[wasm.Index]int
}

func (f *fakeModule) ResolveBlockType(bt wasm.BlockType) (*wasm.FunctionType, error) {
	panic("not needed by this test")
}
func (f *fakeModule) TypeOfFunction(funcIndex wasm.Index) (int, error) {
	return f.funcTypes[funcIndex], nil
}
func (f *fakeModule) GlobalValueType(wasm.Index) (wasm.ValueType, error) {
	panic("not needed by this test")
}
func (f *fakeModule) ResolveGlobal(wasm.Index) (any, error) { panic("not needed by this test") }
func (f *fakeModule) IsMemory64(wasm.Index) (bool, error)   { return false, nil }
func (f *fakeModule) TableElementType(wasm.Index) (wasm.RefType, error) {
	panic("not needed by this test")
}
func (f *fakeModule) ResolveCallee(wasm.Index) (any, error) { panic("not needed by this test") }
func (f *fakeModule) CalleeIsLocal(wasm.Index) (bool, error) {
	panic("not needed by this test")
}
func (f *fakeModule) ValidateDataSegment(wasm.Index) error { panic("not needed by this test") }
func (f *fakeModule) ValidateElemSegment(wasm.Index) error { panic("not needed by this test") }
func (f *fakeModule) ValidateFunctionIndex(wasm.Index) error {
	panic("not needed by this test")
}

type fakeInterner struct{ types []wasm.FunctionType }

func (i *fakeInterner) Intern(t wasm.FunctionType) int {
	i.types = append(i.types, t)
	return len(i.types) - 1
}
func (i *fakeInterner) Resolve(id int) wasm.FunctionType { return i.types[id] }

// TestDecodeAddFunction translates `(func (param i32 i32) (result i32)
// local.get 0 local.get 1 i32.add)`, the S1-shape scenario from the
// straight-line-arithmetic testable property: no branches, one binary op,
// a return value delivered straight out of the frame header.
func TestDecodeAddFunction(t *testing.T) {
	mod := &fakeModule{}
	interner := &fakeInterner{}
	funcType := &wasm.FunctionType{
		Params:  []wasm.ValueType{wasm.ValueTypeI32, wasm.ValueTypeI32},
		Results: []wasm.ValueType{wasm.ValueTypeI32},
	}

	code := []byte{
		byte(wasm.OpcodeLocalGet), 0x00,
		byte(wasm.OpcodeLocalGet), 0x01,
		byte(wasm.OpcodeI32Add),
		byte(wasm.OpcodeEnd),
	}

	seq, err := Decode(xlate.DefaultEngineConfig(), mod, interner, 0, funcType, FunctionBody{
		Locals: funcType.Params,
		Code:   code,
	})
	require.NoError(t, err)
	require.NotNil(t, seq)

	instrs := seq.Arena.Instructions()
	require.NotEmpty(t, instrs)

	var sawAdd bool
	for _, in := range instrs {
		if in.Op == xlate.OpAdd {
			sawAdd = true
			require.Equal(t, xlate.TypeI32, in.Type)
		}
	}
	require.True(t, sawAdd, "expected an add instruction in: %s", xlate.Dump(seq))
}

func TestDecodeConstFunction(t *testing.T) {
	mod := &fakeModule{}
	interner := &fakeInterner{}
	funcType := &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueTypeI32}}

	code := []byte{
		byte(wasm.OpcodeI32Const), 0x2a, // 42, single-byte LEB128
		byte(wasm.OpcodeEnd),
	}

	seq, err := Decode(xlate.DefaultEngineConfig(), mod, interner, 0, funcType, FunctionBody{Code: code})
	require.NoError(t, err)

	require.Equal(t, 1, seq.Arena.NumConstants())
	require.Equal(t, uint64(42), seq.Arena.ConstantAt(0))
}
