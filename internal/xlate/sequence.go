package xlate

import (
	"fmt"
	"strings"
)

// InstructionSequence is the artifact a Translator produces for one
// function: its arena-backed instructions and constants, plus the frame
// sizing information the interpreter needs to allocate that function's
// activation record (spec.md §6 "Produced artifact").
type InstructionSequence struct {
	Arena  *Arena
	Layout StackLayout

	// FrameSize is the total number of VReg slots the frame occupies,
	// from StackLayout.MaxStackHeight against the value stack's
	// high-water mark.
	FrameSize int
}

var opNames = [...]string{
	OpNop: "nop",

	OpConstI32: "const.i32", OpConstI64: "const.i64",
	OpConstF32: "const.f32", OpConstF64: "const.f64",
	OpConst32: "const32", OpConst64: "const64",
	OpMove: "move",

	OpGlobalGet: "global.get", OpGlobalSet: "global.set",

	OpJmp: "jmp", OpJmpIf: "jmp_if", OpJmpIfNot: "jmp_if_not",
	OpBrTable: "br_table", OpCall: "call", OpCallIndirect: "call_indirect",
	OpReturn: "return", OpUnreachable: "unreachable",

	OpSelect: "select",

	OpEqz: "eqz", OpClz: "clz", OpCtz: "ctz", OpPopcnt: "popcnt",
	OpAbs: "abs", OpNeg: "neg", OpSqrt: "sqrt", OpCeil: "ceil",
	OpFloor: "floor", OpTrunc: "trunc", OpNearest: "nearest",
	OpWrap: "wrap", OpExtend: "extend", OpConvert: "convert",
	OpDemote: "demote", OpPromote: "promote", OpReinterpret: "reinterpret",
	OpExtendSigned8: "extend8_s", OpExtendSigned16: "extend16_s",
	OpExtendSigned32: "extend32_s", OpTruncSat: "trunc_sat",

	OpAdd: "add", OpSub: "sub", OpMul: "mul",
	OpDivU: "div_u", OpDivS: "div_s", OpRemU: "rem_u", OpRemS: "rem_s",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
	OpShl: "shl", OpShrU: "shr_u", OpShrS: "shr_s",
	OpRotl: "rotl", OpRotr: "rotr",
	OpMin: "min", OpMax: "max", OpCopysign: "copysign",

	OpEq: "eq", OpNe: "ne",
	OpLtU: "lt_u", OpLtS: "lt_s", OpGtU: "gt_u", OpGtS: "gt_s",
	OpLeU: "le_u", OpLeS: "le_s", OpGeU: "ge_u", OpGeS: "ge_s",

	OpLoad: "load", OpStore: "store",
	OpMemorySize: "memory.size", OpMemoryGrow: "memory.grow",
	OpMemoryInit: "memory.init", OpDataDrop: "data.drop",
	OpMemoryCopy: "memory.copy", OpMemoryFill: "memory.fill",

	OpTableGet: "table.get", OpTableSet: "table.set",
	OpTableSize: "table.size", OpTableGrow: "table.grow",
	OpTableFill: "table.fill", OpTableCopy: "table.copy",
	OpTableInit: "table.init", OpElemDrop: "elem.drop",
	OpRefNull: "ref.null", OpRefIsNull: "ref.is_null", OpRefFunc: "ref.func",

	OpOnEnter: "on_enter", OpOnExit: "on_exit",
}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

var typeNames = [...]string{TypeI32: "i32", TypeI64: "i64", TypeF32: "f32", TypeF64: "f64"}

func (t NumType) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Dump renders seq as a human-readable textual listing, one instruction
// per line, suitable for golden-file tests and debugging (spec.md §6:
// "a required textual dumper"). The format is intentionally simple: an
// index, the mnemonic, and its operands; it is not meant to be
// re-parsed.
func Dump(seq *InstructionSequence) string {
	var b strings.Builder
	fmt.Fprintf(&b, "frame_size=%d const_slots=%d\n", seq.FrameSize, seq.Layout.ConstantSlotSize())

	if n := seq.Arena.NumConstants(); n > 0 {
		fmt.Fprintf(&b, "constants:\n")
		for i := 0; i < n; i++ {
			fmt.Fprintf(&b, "  [%d] = 0x%016x\n", i, seq.Arena.ConstantAt(i))
		}
	}

	instrs := seq.Arena.Instructions()
	for i, instr := range instrs {
		fmt.Fprintf(&b, "%4d: %s", i, dumpInstruction(instr))
		b.WriteByte('\n')
	}
	return b.String()
}

func dumpInstruction(instr Instruction) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.%s", instr.Op, instr.Type)
	if instr.Dst != 0 || instr.Op == OpMove {
		fmt.Fprintf(&b, " dst=r%d", instr.Dst)
	}
	switch instr.Op {
	case OpJmp, OpJmpIf, OpJmpIfNot:
		fmt.Fprintf(&b, " src1=r%d off=%+d", instr.Src1, instr.Offset)
	case OpBrTable:
		fmt.Fprintf(&b, " src1=r%d table_off=%d", instr.Src1, instr.Imm)
	case OpConstI32, OpConstI64, OpConstF32, OpConstF64:
		fmt.Fprintf(&b, " const=%d", instr.Imm)
	case OpConst32, OpConst64:
		fmt.Fprintf(&b, " inline=0x%x", instr.Imm)
	case OpCall:
		fmt.Fprintf(&b, " func=%d", instr.Imm)
	case OpCallIndirect:
		fmt.Fprintf(&b, " type=%d table=%d src1=r%d", instr.Imm, instr.MemoryIndex, instr.Src1)
	case OpGlobalGet, OpGlobalSet:
		fmt.Fprintf(&b, " global=%d src1=r%d", instr.Imm, instr.Src1)
	case OpLoad, OpStore:
		fmt.Fprintf(&b, " addr=r%d offset=%d bits=%d signed=%t", instr.Src1, instr.Imm, instr.AccessBits, instr.Signed)
	default:
		if instr.Src1 != 0 {
			fmt.Fprintf(&b, " src1=r%d", instr.Src1)
		}
		if instr.Src2 != 0 {
			fmt.Fprintf(&b, " src2=r%d", instr.Src2)
		}
	}
	return b.String()
}
