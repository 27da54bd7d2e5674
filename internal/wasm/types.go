// Package wasm defines the small vocabulary of WebAssembly module-level
// types that the translator consumes from its module context. Loading,
// validating and instantiating a full module is out of scope for this
// repository (see spec.md §1); this package exists only so that package
// xlate has something concrete to import for ValueType, FunctionType and
// opcode constants.
package wasm

// ValueType is the encoding of a WebAssembly value type as it appears in
// the binary format.
type ValueType byte

const (
	ValueTypeI32       ValueType = 0x7f
	ValueTypeI64       ValueType = 0x7e
	ValueTypeF32       ValueType = 0x7d
	ValueTypeF64       ValueType = 0x7c
	ValueTypeFuncref   ValueType = 0x70
	ValueTypeExternref ValueType = 0x6f
)

func (t ValueType) String() string {
	switch t {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeFuncref:
		return "funcref"
	case ValueTypeExternref:
		return "externref"
	default:
		return "unknown"
	}
}

// IsReference reports whether t is one of the reference types.
func (t ValueType) IsReference() bool {
	return t == ValueTypeFuncref || t == ValueTypeExternref
}

// Size64 reports whether the value type is i64 or f64, the two types whose
// values are 64 bits wide. It reports false for i32, f32 and the reference
// types.
func (t ValueType) Size64() bool {
	return t == ValueTypeI64 || t == ValueTypeF64
}

// RefType is the encoding of a WebAssembly reference type, a subset of
// ValueType used where only reference types are legal (e.g. table element
// types).
type RefType = ValueType

// FunctionType is a Wasm function signature.
type FunctionType struct {
	Params  []ValueType
	Results []ValueType
}

// ParamCount and ResultCount are used pervasively enough in frame-layout
// arithmetic that giving them a name is worth the indirection.
func (t *FunctionType) ParamCount() int  { return len(t.Params) }
func (t *FunctionType) ResultCount() int { return len(t.Results) }

// Index is a generic module-scoped index (function, type, global, memory,
// table, data segment, element segment, local).
type Index = uint32

// BlockType is the decoded form of the signed LEB128 block-type immediate
// that follows `block`, `loop` and `if`. It is either one of the single
// short-form encodings (empty, or a single value type) or a signed index
// into the module's type section, which ResolveBlockType below turns into a
// full FunctionType either way.
type BlockType struct {
	// ValueTypeForm is set when the block type is the empty form (no
	// results) or the single-result short form; TypeIndex is ignored.
	ValueTypeForm   bool
	SingleResult    ValueType
	HasSingleResult bool
	// TypeIndex is used when the block type isn't one of the short forms.
	TypeIndex Index
}

// ModuleContext is the subset of module-loading/validation facilities the
// translator consumes (spec §6 "Module context"). A production caller
// backs this with its loaded wasm.Module; this repository never implements
// it itself.
type ModuleContext interface {
	// ResolveBlockType turns a decoded BlockType into the FunctionType it
	// denotes.
	ResolveBlockType(bt BlockType) (*FunctionType, error)
	// TypeOfFunction resolves a function's interned type id via the type
	// interner (spec §6 "Type interner").
	TypeOfFunction(funcIndex Index) (typeID int, err error)
	// GlobalValueType returns the value type of the global at the given
	// index.
	GlobalValueType(globalIndex Index) (ValueType, error)
	// ResolveGlobal returns an opaque runtime handle for a global, or
	// (nil, nil) in validation-only mode.
	ResolveGlobal(globalIndex Index) (handle any, err error)
	// IsMemory64 reports whether memory i is a 64-bit memory.
	IsMemory64(memoryIndex Index) (bool, error)
	// TableElementType returns the element type of table i.
	TableElementType(tableIndex Index) (RefType, error)
	// ResolveCallee resolves a call target to a runtime function handle, or
	// (nil, nil) in validation-only mode.
	ResolveCallee(funcIndex Index) (handle any, err error)
	// CalleeIsLocal reports whether funcIndex is defined in the same
	// instance as the function being translated (enabling compilingCall
	// lazy compilation, spec §4.4 "call f / call_indirect").
	CalleeIsLocal(funcIndex Index) (bool, error)
	// ValidateDataSegment / ValidateElemSegment check segment indices for
	// the bulk-memory opcode group.
	ValidateDataSegment(dataIndex Index) error
	ValidateElemSegment(elemIndex Index) error
	// ValidateFunctionIndex checks a function index used by ref.func et al.
	ValidateFunctionIndex(funcIndex Index) error
}

// TypeInterner maps FunctionType values to small integer ids so that
// repeated identical signatures (e.g. across many call_indirect sites)
// share one id (spec §6 "Type interner").
type TypeInterner interface {
	Intern(t FunctionType) int
	Resolve(id int) FunctionType
}
