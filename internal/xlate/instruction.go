package xlate

// Op identifies a threaded-interpreter instruction (spec.md §3 "compact
// register-based internal instruction"). The head slot of each emitted
// instruction word is one of these, used by the interpreter's dispatch
// loop (out of scope here) as either an opcode number or a precomputed
// handler address, per the threading model EngineConfig selects.
type Op int

const (
	OpNop Op = iota

	// Constants and moves.
	OpConstI32
	OpConstI64
	OpConstF32
	OpConstF64
	// OpConst32 and OpConst64 carry a raw bit pattern directly in Imm
	// rather than a constant-pool index, used when ConstantPool.Intern
	// reports overflow (spec.md §4.4 "visitConst": "On pool overflow, emit
	// const32/const64"). Type still distinguishes i32/f32 vs i64/f64 for
	// dump/interpretation purposes; only the encoding of the operand
	// differs from OpConstI32/I64/F32/F64.
	OpConst32
	OpConst64
	OpMove

	// Locals/globals.
	OpGlobalGet
	OpGlobalSet

	// Control flow. Jmp/JmpIf/JmpIfNot carry a resolved branch Offset
	// (instruction words relative to the jump instruction itself) once
	// their Label has been applied; BrTable carries an index into the
	// arena's br_table buffer.
	OpJmp
	OpJmpIf
	OpJmpIfNot
	OpBrTable
	OpCall
	OpCallIndirect
	OpReturn
	OpUnreachable

	// Parametric.
	OpSelect

	// Numeric unary.
	OpEqz
	OpClz
	OpCtz
	OpPopcnt
	OpAbs
	OpNeg
	OpSqrt
	OpCeil
	OpFloor
	OpTrunc
	OpNearest
	OpWrap
	OpExtend
	OpConvert
	OpDemote
	OpPromote
	OpReinterpret
	OpExtendSigned8
	OpExtendSigned16
	OpExtendSigned32
	OpTruncSat

	// Numeric binary.
	OpAdd
	OpSub
	OpMul
	OpDivU
	OpDivS
	OpRemU
	OpRemS
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShrU
	OpShrS
	OpRotl
	OpRotr
	OpMin
	OpMax
	OpCopysign

	// Comparisons.
	OpEq
	OpNe
	OpLtU
	OpLtS
	OpGtU
	OpGtS
	OpLeU
	OpLeS
	OpGeU
	OpGeS

	// Memory.
	OpLoad
	OpStore
	OpMemorySize
	OpMemoryGrow
	OpMemoryInit
	OpDataDrop
	OpMemoryCopy
	OpMemoryFill

	// Table/reference.
	OpTableGet
	OpTableSet
	OpTableSize
	OpTableGrow
	OpTableFill
	OpTableCopy
	OpTableInit
	OpElemDrop
	OpRefNull
	OpRefIsNull
	OpRefFunc

	// Interceptor pseudo-instructions (spec.md §6 "Interceptor").
	OpOnEnter
	OpOnExit
)

// NumType distinguishes the bit width/kind an arithmetic/memory
// instruction operates over, carried alongside Op so e.g. OpAdd doesn't
// need four separate opcodes.
type NumType byte

const (
	TypeI32 NumType = iota
	TypeI64
	TypeF32
	TypeF64
)

// Instruction is one emitted instruction word. Not every field is
// meaningful for every Op; which ones apply is documented per-Op above.
type Instruction struct {
	Op   Op
	Type NumType

	// Result/operand registers. Most instructions use a subset.
	Dst VReg
	Src1 VReg
	Src2 VReg

	// Imm carries a constant-pool index (OpConstI32/I64/F32/F64), a raw
	// bit pattern (OpConst32/OpConst64), a memarg offset
	// (OpLoad/OpStore), a global/table/func/data/elem index, or a
	// br_table buffer offset, depending on Op.
	Imm uint64

	// Offset is a jump's resolved displacement in instruction words,
	// filled in by label application; zero (and meaningless) until then.
	Offset int32

	// MemArg fields, valid for OpLoad/OpStore/OpMemoryInit/OpMemoryCopy/
	// OpMemoryFill/OpMemoryGrow/OpMemorySize: which memory, and for
	// loads/stores, the access width/signedness beyond what Type alone
	// says (e.g. i64.load8_s vs i64.load8_u).
	MemoryIndex uint32
	Signed      bool
	AccessBits  byte
}
