package xlate

import "github.com/tsandall/wazeroir-xlate/internal/wasm"

// VisitRefNull translates `ref.null refType`.
func (t *Translator) VisitRefNull(rt wasm.RefType) error {
	if !t.reachable() {
		return nil
	}
	dst := t.pushStackResult(rt)
	t.builder.Emit(Instruction{Op: OpRefNull, Type: toNumType(rt), Dst: dst})
	return nil
}

// VisitRefIsNull translates `ref.is_null`.
func (t *Translator) VisitRefIsNull() error {
	if !t.reachable() {
		return nil
	}
	v, err := t.values.Pop()
	if err != nil {
		return err
	}
	reg := t.materialize(v, VReg(t.layout.StackRegBase()+t.values.Height()))
	dst := t.pushStackResult(wasm.ValueTypeI32)
	t.builder.Emit(Instruction{Op: OpRefIsNull, Type: toNumType(v.Type), Dst: dst, Src1: reg})
	return nil
}

// VisitRefFunc translates `ref.func funcIndex`.
func (t *Translator) VisitRefFunc(funcIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	if err := t.mod.ValidateFunctionIndex(funcIndex); err != nil {
		return wrapError(ErrIndexOutOfRange, err, "ref.func %d", funcIndex)
	}
	dst := t.pushStackResult(wasm.ValueTypeFuncref)
	t.builder.Emit(Instruction{Op: OpRefFunc, Type: toNumType(wasm.ValueTypeFuncref), Dst: dst, Imm: uint64(funcIndex)})
	return nil
}

// VisitTableGet translates `table.get tableIndex`.
func (t *Translator) VisitTableGet(tableIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	elemType, err := t.mod.TableElementType(tableIndex)
	if err != nil {
		return wrapError(ErrIndexOutOfRange, err, "table.get %d", tableIndex)
	}
	idx, err := t.values.Pop()
	if err != nil {
		return err
	}
	idxReg := t.materialize(idx, VReg(t.layout.StackRegBase()+t.values.Height()))
	dst := t.pushStackResult(elemType)
	t.builder.Emit(Instruction{Op: OpTableGet, Type: toNumType(elemType), Dst: dst, Src1: idxReg, Imm: uint64(tableIndex)})
	return nil
}

// VisitTableSet translates `table.set tableIndex`.
func (t *Translator) VisitTableSet(tableIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	elemType, err := t.mod.TableElementType(tableIndex)
	if err != nil {
		return wrapError(ErrIndexOutOfRange, err, "table.set %d", tableIndex)
	}
	val, err := t.values.Pop()
	if err != nil {
		return err
	}
	idx, err := t.values.Pop()
	if err != nil {
		return err
	}
	idxReg := t.materialize(idx, VReg(t.layout.StackRegBase()+t.values.Height()))
	valReg := t.materialize(val, VReg(t.layout.StackRegBase()+t.values.Height()+1))
	t.builder.Emit(Instruction{Op: OpTableSet, Type: toNumType(elemType), Src1: idxReg, Src2: valReg, Imm: uint64(tableIndex)})
	return nil
}

// VisitTableSize translates `table.size tableIndex`.
func (t *Translator) VisitTableSize(tableIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	dst := t.pushStackResult(wasm.ValueTypeI32)
	t.builder.Emit(Instruction{Op: OpTableSize, Type: TypeI32, Dst: dst, Imm: uint64(tableIndex)})
	return nil
}

// VisitTableGrow translates `table.grow tableIndex`.
func (t *Translator) VisitTableGrow(tableIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	elemType, err := t.mod.TableElementType(tableIndex)
	if err != nil {
		return wrapError(ErrIndexOutOfRange, err, "table.grow %d", tableIndex)
	}
	n, err := t.values.Pop()
	if err != nil {
		return err
	}
	val, err := t.values.Pop()
	if err != nil {
		return err
	}
	valReg := t.materialize(val, VReg(t.layout.StackRegBase()+t.values.Height()))
	nReg := t.materialize(n, VReg(t.layout.StackRegBase()+t.values.Height()+1))
	dst := t.pushStackResult(wasm.ValueTypeI32)
	t.builder.Emit(Instruction{Op: OpTableGrow, Type: toNumType(elemType), Dst: dst, Src1: valReg, Src2: nReg, Imm: uint64(tableIndex)})
	return nil
}

// VisitTableFill translates `table.fill tableIndex`.
func (t *Translator) VisitTableFill(tableIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	n, err := t.values.Pop()
	if err != nil {
		return err
	}
	val, err := t.values.Pop()
	if err != nil {
		return err
	}
	idx, err := t.values.Pop()
	if err != nil {
		return err
	}
	idxReg := t.materialize(idx, VReg(t.layout.StackRegBase()+t.values.Height()))
	valReg := t.materialize(val, VReg(t.layout.StackRegBase()+t.values.Height()+1))
	nReg := t.materialize(n, VReg(t.layout.StackRegBase()+t.values.Height()+2))
	t.builder.Emit(Instruction{Op: OpTableFill, Src1: idxReg, Src2: valReg, Dst: nReg, Imm: uint64(tableIndex)})
	return nil
}

// VisitTableCopy translates `table.copy dstTable srcTable`.
func (t *Translator) VisitTableCopy(dstTable, srcTable wasm.Index) error {
	if !t.reachable() {
		return nil
	}
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
	t.builder.Emit(Instruction{Op: OpTableCopy, Src1: dstReg, Src2: srcReg, Dst: nReg, Imm: uint64(srcTable), MemoryIndex: uint32(dstTable)})
	return nil
}

// VisitTableInit translates `table.init elemIndex tableIndex`.
func (t *Translator) VisitTableInit(elemIndex, tableIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	if err := t.mod.ValidateElemSegment(elemIndex); err != nil {
		return wrapError(ErrIndexOutOfRange, err, "table.init elem %d", elemIndex)
	}
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
	t.builder.Emit(Instruction{Op: OpTableInit, Src1: dstReg, Src2: srcReg, Dst: nReg, Imm: uint64(elemIndex), MemoryIndex: uint32(tableIndex)})
	return nil
}

// VisitElemDrop translates `elem.drop elemIndex`.
func (t *Translator) VisitElemDrop(elemIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	if err := t.mod.ValidateElemSegment(elemIndex); err != nil {
		return wrapError(ErrIndexOutOfRange, err, "elem.drop %d", elemIndex)
	}
	t.builder.Emit(Instruction{Op: OpElemDrop, Imm: uint64(elemIndex)})
	return nil
}
