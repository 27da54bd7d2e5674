package xlate

import "github.com/tsandall/wazeroir-xlate/internal/wasm"

// MemArg carries a load/store's alignment and offset immediates, decoded
// upstream by the Parser.
type MemArg struct {
	Align  uint32 // log2 of the claimed alignment
	Offset uint64
	Memory wasm.Index
}

// addressBits returns 32 or 64 depending on whether memarg's memory is a
// memory64 instance, resolving the address-type policy a load/store must
// honor (spec.md's supplemented memory64 support).
func (t *Translator) addressBits(memarg MemArg) (int, error) {
	is64, err := t.mod.IsMemory64(memarg.Memory)
	if err != nil {
		return 0, wrapError(ErrIndexOutOfRange, err, "resolving memory %d", memarg.Memory)
	}
	if is64 {
		return 64, nil
	}
	return 32, nil
}

// checkAlignment validates a load/store's declared alignment against its
// memory's address-type width (spec.md §7 InvalidAlignment: "memarg
// alignment log2 ≥ address-type width", i.e. must be < 64 for a memory64
// instance or < 32 otherwise). The natural width of the access itself
// plays no part in the bound; a memarg may under-declare its alignment
// (claim byte alignment for a naturally 4-byte-aligned i32 load) but may
// never claim an alignment the address space couldn't represent.
func (t *Translator) checkAlignment(memarg MemArg) error {
	bits, err := t.addressBits(memarg)
	if err != nil {
		return err
	}
	if memarg.Align >= uint32(bits) {
		return newError(ErrInvalidAlignment, "alignment 2**%d exceeds address-type width of %d bits", memarg.Align, bits)
	}
	return nil
}

// VisitLoad translates a load opcode. accessBits is the memory access
// width (8/16/32/64); resultType is the pushed value's Wasm type; signed
// matters only when accessBits is narrower than resultType's own width
// (e.g. i64.load8_s vs i64.load8_u).
func (t *Translator) VisitLoad(memarg MemArg, resultType ValueType, accessBits byte, signed bool) error {
	if !t.reachable() {
		return nil
	}
	if err := t.checkAlignment(memarg); err != nil {
		return err
	}
	addr, err := t.values.Pop()
	if err != nil {
		return err
	}
	addrReg := t.materialize(addr, VReg(t.layout.StackRegBase()+t.values.Height()))
	dst := t.pushStackResult(resultType)
	t.builder.Emit(Instruction{
		Op: OpLoad, Type: toNumType(resultType), Dst: dst, Src1: addrReg,
		Imm: memarg.Offset, MemoryIndex: uint32(memarg.Memory), AccessBits: accessBits, Signed: signed,
	})
	return nil
}

// VisitStore translates a store opcode.
func (t *Translator) VisitStore(memarg MemArg, operandType ValueType, accessBits byte) error {
	if !t.reachable() {
		return nil
	}
	if err := t.checkAlignment(memarg); err != nil {
		return err
	}
	val, err := t.values.Pop()
	if err != nil {
		return err
	}
	addr, err := t.values.Pop()
	if err != nil {
		return err
	}
	addrReg := t.materialize(addr, VReg(t.layout.StackRegBase()+t.values.Height()))
	valReg := t.materialize(val, VReg(t.layout.StackRegBase()+t.values.Height()+1))
	t.builder.Emit(Instruction{
		Op: OpStore, Type: toNumType(operandType), Src1: addrReg, Src2: valReg,
		Imm: memarg.Offset, MemoryIndex: uint32(memarg.Memory), AccessBits: accessBits,
	})
	return nil
}

// VisitMemorySize translates `memory.size memoryIndex`. The pushed
// result's type follows the address-type policy: i32 for a 32-bit
// memory, i64 for a memory64 instance.
func (t *Translator) VisitMemorySize(memoryIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	bits, err := t.addressBits(MemArg{Memory: memoryIndex})
	if err != nil {
		return err
	}
	vt := wasm.ValueTypeI32
	if bits == 64 {
		vt = wasm.ValueTypeI64
	}
	dst := t.pushStackResult(vt)
	t.builder.Emit(Instruction{Op: OpMemorySize, Type: toNumType(vt), Dst: dst, MemoryIndex: uint32(memoryIndex)})
	return nil
}

// VisitMemoryGrow translates `memory.grow memoryIndex`.
func (t *Translator) VisitMemoryGrow(memoryIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	bits, err := t.addressBits(MemArg{Memory: memoryIndex})
	if err != nil {
		return err
	}
	vt := wasm.ValueTypeI32
	if bits == 64 {
		vt = wasm.ValueTypeI64
	}
	delta, err := t.values.Pop()
	if err != nil {
		return err
	}
	deltaReg := t.materialize(delta, VReg(t.layout.StackRegBase()+t.values.Height()))
	dst := t.pushStackResult(vt)
	t.builder.Emit(Instruction{Op: OpMemoryGrow, Type: toNumType(vt), Dst: dst, Src1: deltaReg, MemoryIndex: uint32(memoryIndex)})
	return nil
}

// VisitMemoryInit translates `memory.init dataIndex memoryIndex`.
func (t *Translator) VisitMemoryInit(dataIndex, memoryIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	if err := t.mod.ValidateDataSegment(dataIndex); err != nil {
		return wrapError(ErrIndexOutOfRange, err, "memory.init data %d", dataIndex)
	}
	return t.visitMemoryTriOp(OpMemoryInit, uint64(dataIndex), memoryIndex)
}

// VisitDataDrop translates `data.drop dataIndex`.
func (t *Translator) VisitDataDrop(dataIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	if err := t.mod.ValidateDataSegment(dataIndex); err != nil {
		return wrapError(ErrIndexOutOfRange, err, "data.drop %d", dataIndex)
	}
	t.builder.Emit(Instruction{Op: OpDataDrop, Imm: uint64(dataIndex)})
	return nil
}

// VisitMemoryCopy translates `memory.copy dstMemory srcMemory`.
func (t *Translator) VisitMemoryCopy(dstMemory, srcMemory wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	return t.visitMemoryTriOp(OpMemoryCopy, uint64(srcMemory), dstMemory)
}

// VisitMemoryFill translates `memory.fill memoryIndex`.
func (t *Translator) VisitMemoryFill(memoryIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	return t.visitMemoryTriOp(OpMemoryFill, 0, memoryIndex)
}

// visitMemoryTriOp handles the three-operand (dst, src/val, len) memory
// bulk opcodes, which all share the same stack shape.
func (t *Translator) visitMemoryTriOp(op Op, extra uint64, memoryIndex wasm.Index) error {
	n, err := t.values.Pop()
	if err != nil {
		return err
	}
	src, err := t.values.Pop()
	if err != nil {
		return err
	}
	dst, err := t.values.Pop()
	if err != nil {
		return err
	}
	dstReg := t.materialize(dst, VReg(t.layout.StackRegBase()+t.values.Height()))
	srcReg := t.materialize(src, VReg(t.layout.StackRegBase()+t.values.Height()+1))
	nReg := t.materialize(n, VReg(t.layout.StackRegBase()+t.values.Height()+2))
	t.builder.Emit(Instruction{Op: op, Src1: dstReg, Src2: srcReg, Dst: nReg, Imm: extra, MemoryIndex: uint32(memoryIndex)})
	return nil
}
