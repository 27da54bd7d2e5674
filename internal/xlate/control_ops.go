package xlate

import "github.com/tsandall/wazeroir-xlate/internal/wasm"

// VisitUnreachable translates `unreachable`: an instruction that always
// traps, after which the rest of the current block is unreachable.
func (t *Translator) VisitUnreachable() error {
	if !t.reachable() {
		return nil
	}
	t.builder.Emit(Instruction{Op: OpUnreachable})
	return t.control.MarkUnreachable()
}

// VisitNop translates `nop`. Nothing is emitted; nop carries no
// observable effect and an interpreter dispatch slot for it would be
// pure overhead.
func (t *Translator) VisitNop() error { return nil }

// VisitBlock translates the start of a `block ... end`. argc values are
// popped as the block's parameters and re-pushed inside the new frame
// (their registers are unchanged; only the symbolic control nesting
// changes).
func (t *Translator) VisitBlock(bt *wasm.FunctionType) error {
	reachable := t.reachable()
	label := t.builder.AllocLabel()
	t.control.Push(ControlFrame{
		Kind:               ControlBlock,
		BlockType:          bt,
		StackHeightAtEntry: t.values.Height() - len(bt.Params),
		Label:              label,
		IsReachable:        reachable,
	})
	if reachable {
		t.builder.ResetLastEmission()
	}
	return nil
}

// VisitLoop translates the start of a `loop ... end`. Unlike a block, a
// loop's label targets its own start, since a branch to a loop re-enters
// it rather than falling through past its end.
func (t *Translator) VisitLoop(bt *wasm.FunctionType) error {
	reachable := t.reachable()
	label := t.builder.AllocLabel()
	if reachable {
		if err := t.builder.PinHere(label); err != nil {
			return err
		}
	} else {
		// Unreachable code still needs every label pinned somewhere by
		// Finalize; nothing will ever jump here, so the current (dead)
		// offset is as good as any.
		if err := t.builder.Pin(label, t.builder.Len()); err != nil {
			return err
		}
	}
	t.control.Push(ControlFrame{
		Kind:               ControlLoop,
		BlockType:          bt,
		StackHeightAtEntry: t.values.Height() - len(bt.Params),
		Label:              label,
		IsReachable:        reachable,
	})
	return nil
}

// VisitIf translates the start of an `if ... else ... end`, consuming
// the i32 condition already on the stack.
func (t *Translator) VisitIf(bt *wasm.FunctionType) error {
	reachable := t.reachable()
	elseLabel := t.builder.AllocLabel()
	endLabel := t.builder.AllocLabel()

	if reachable {
		cond, err := t.values.Pop()
		if err != nil {
			return err
		}
		condReg := t.materialize(cond, VReg(t.layout.StackRegBase()+t.values.Height()))
		idx := t.builder.Emit(Instruction{Op: OpJmpIfNot, Type: TypeI32, Src1: condReg})
		t.builder.ReferenceAt(elseLabel, idx)
		t.builder.ResetLastEmission()
	}

	t.control.Push(ControlFrame{
		Kind:                   ControlIf,
		BlockType:              bt,
		StackHeightAtEntry:     t.values.Height() - len(bt.Params),
		Label:                  endLabel,
		ElseLabel:              elseLabel,
		IsReachable:            reachable,
		ElseValueStackSnapshot: t.values.Snapshot(),
	})
	return nil
}

// VisitElse translates the `else` opcode inside an `if`.
func (t *Translator) VisitElse() error {
	f, err := t.control.Top()
	if err != nil {
		return err
	}
	if f.Kind != ControlIf {
		return newError(ErrControlMismatch, "else outside of if")
	}
	if f.HasElse {
		return newError(ErrControlMismatch, "duplicate else")
	}

	if f.IsReachable {
		idx := t.builder.Emit(Instruction{Op: OpJmp})
		t.builder.ReferenceAt(f.Label, idx)
	}
	t.builder.ResetLastEmission()
	if err := t.builder.PinHere(f.ElseLabel); err != nil {
		return err
	}
	t.values.Restore(f.ElseValueStackSnapshot)
	f.HasElse = true
	return t.control.ResetReachability()
}

// VisitEnd translates the `end` opcode closing a block/loop/if, or the
// implicit end of the function body itself.
func (t *Translator) VisitEnd() error {
	f, err := t.control.Pop()
	if err != nil {
		return err
	}

	if f.Kind == ControlIf && !f.HasElse {
		t.builder.ResetLastEmission()
		if err := t.builder.PinHere(f.ElseLabel); err != nil {
			return err
		}
	}

	if err := t.builder.PinHere(f.Label); err != nil {
		return err
	}

	if f.IsRoot {
		// The root frame's `end` is the function's own closing `end`
		// (spec.md §4.4 "end": "If it is the root frame and reachable,
		// emit translateReturn()"). A fall-through here has no enclosing
		// frame to hand results back to, so they go straight to the frame
		// header's return registers instead of the symbolic stack.
		if f.IsReachable {
			if err := t.emitRootReturn(&f); err != nil {
				return err
			}
		}
		t.values.Truncate(f.StackHeightAtEntry)
		return nil
	}

	t.values.Truncate(f.StackHeightAtEntry)
	for i, rt := range f.BlockType.Results {
		t.values.Push(MetaValue{Type: rt, Source: SourceStack, Reg: VReg(t.layout.StackRegBase() + f.StackHeightAtEntry + i)})
	}
	if t.control.Depth() > 0 {
		return t.control.ResetReachability()
	}
	return nil
}

// emitRootReturn delivers the root frame's declared results to the frame
// header's return registers and emits OpReturn, the same delivery
// VisitReturn performs for an explicit `return` opcode, top-of-stack value
// first. VisitEnd pins the root frame's label just before calling this,
// and pinning closes the peephole window, so every result here is
// delivered by a move or const-load rather than by relinking its producer.
func (t *Translator) emitRootReturn(f *ControlFrame) error {
	n := len(f.BlockType.Results)
	for i := n - 1; i >= 0; i-- {
		mv, err := t.values.Peek(n - 1 - i)
		if err != nil {
			return err
		}
		t.relinkOrMove(mv, t.layout.ReturnReg(i))
	}
	t.builder.Emit(Instruction{Op: OpReturn})
	t.builder.ResetLastEmission()
	return nil
}

// branchArgs materializes the top n values (a branch target's argument
// arity) into that target's parameter registers, which live at the
// target's StackHeightAtEntry.
func (t *Translator) branchArgs(target *ControlFrame) error {
	n := target.Arity()
	for i := n - 1; i >= 0; i-- {
		mv, err := t.values.Peek(i)
		if err != nil {
			return err
		}
		t.materializeToFreshReg(mv, target.StackHeightAtEntry+(n-1-i))
	}
	return nil
}

// VisitBr translates an unconditional `br relativeDepth`.
func (t *Translator) VisitBr(relativeDepth uint32) error {
	if !t.reachable() {
		return nil
	}
	target, err := t.control.At(relativeDepth)
	if err != nil {
		return err
	}
	if err := t.branchArgs(target); err != nil {
		return err
	}
	idx := t.builder.Emit(Instruction{Op: OpJmp})
	t.builder.ReferenceAt(target.Label, idx)
	t.builder.ResetLastEmission()
	return t.control.MarkUnreachable()
}

// VisitBrIf translates a conditional `br_if relativeDepth`, consuming an
// i32 condition.
func (t *Translator) VisitBrIf(relativeDepth uint32) error {
	if !t.reachable() {
		return nil
	}
	target, err := t.control.At(relativeDepth)
	if err != nil {
		return err
	}
	cond, err := t.values.Pop()
	if err != nil {
		return err
	}
	condReg := t.materialize(cond, VReg(t.layout.StackRegBase()+t.values.Height()))
	if err := t.branchArgs(target); err != nil {
		return err
	}
	idx := t.builder.Emit(Instruction{Op: OpJmpIf, Type: TypeI32, Src1: condReg})
	t.builder.ReferenceAt(target.Label, idx)
	t.builder.ResetLastEmission()
	return nil
}

// VisitBrTable translates `br_table targets... default`. Per spec.md §9
// (Open Question 1), only the default target's arity is used to size the
// arguments materialized before the jump; a mismatched non-default
// target's declared arity is not cross-checked here, since the
// interpreter never needs to know the other targets' arities and
// validation (upstream of this package) has already proven every target
// is arity-consistent with the operand stack at this program point.
func (t *Translator) VisitBrTable(targets []uint32, defaultTarget uint32) error {
	if !t.reachable() {
		return nil
	}
	def, err := t.control.At(defaultTarget)
	if err != nil {
		return err
	}
	idxVal, err := t.values.Pop()
	if err != nil {
		return err
	}
	idxReg := t.materialize(idxVal, VReg(t.layout.StackRegBase()+t.values.Height()))

	if err := t.branchArgs(def); err != nil {
		return err
	}

	offset := t.brTables.AllocSlots(len(targets) + 1)
	for i, rd := range targets {
		target, err := t.control.At(rd)
		if err != nil {
			return err
		}
		t.builder.ReferenceBrTableSlot(target.Label, &t.brTables, offset+i)
	}
	t.builder.ReferenceBrTableSlot(def.Label, &t.brTables, offset+len(targets))

	t.builder.Emit(Instruction{Op: OpBrTable, Type: TypeI32, Src1: idxReg, Imm: uint64(offset)})
	t.builder.ResetLastEmission()
	return t.control.MarkUnreachable()
}

// VisitReturn translates `return`: results are delivered straight to the
// frame header's result registers (the same slots the caller's arguments
// arrived in), not routed through the operand-stack region. Processes the
// top-of-stack value first, same as emitRootReturn, so the result-relink
// peephole still has a chance to fire before any lower value's delivery
// closes the window.
func (t *Translator) VisitReturn() error {
	if !t.reachable() {
		return nil
	}
	n := len(t.funcType.Results)
	for i := n - 1; i >= 0; i-- {
		mv, err := t.values.Peek(n - 1 - i)
		if err != nil {
			return err
		}
		t.relinkOrMove(mv, t.layout.ReturnReg(i))
	}
	t.builder.Emit(Instruction{Op: OpReturn})
	t.builder.ResetLastEmission()
	return t.control.MarkUnreachable()
}

// VisitCall translates `call funcIndex`.
func (t *Translator) VisitCall(funcIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	typeID, err := t.mod.TypeOfFunction(funcIndex)
	if err != nil {
		return wrapError(ErrIndexOutOfRange, err, "call: resolving type of function %d", funcIndex)
	}
	ft := t.interner.Resolve(typeID)

	if t.cfg.EnableInterception && t.interceptor.ShouldIntercept(funcIndex) {
		t.builder.emitOnEnter(funcIndex)
	}

	base := t.values.Height() - len(ft.Params)
	for i := range ft.Params {
		mv, err := t.values.Peek(len(ft.Params) - 1 - i)
		if err != nil {
			return err
		}
		t.materializeToFreshReg(mv, base+i)
	}
	for i := 0; i < len(ft.Params); i++ {
		if _, err := t.values.Pop(); err != nil {
			return err
		}
	}

	t.builder.Emit(Instruction{Op: OpCall, Imm: uint64(funcIndex)})
	t.builder.ResetLastEmission()

	if t.cfg.EnableInterception && t.interceptor.ShouldIntercept(funcIndex) {
		t.builder.emitOnExit(funcIndex)
	}

	for i, rt := range ft.Results {
		t.values.PushStack(rt, VReg(t.layout.StackRegBase()+base+i))
	}
	return nil
}

// VisitCallIndirect translates `call_indirect typeIndex tableIndex`.
func (t *Translator) VisitCallIndirect(typeIndex, tableIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	elemType, err := t.mod.TableElementType(tableIndex)
	if err != nil {
		return wrapError(ErrIndexOutOfRange, err, "call_indirect: resolving table %d", tableIndex)
	}
	if elemType != wasm.ValueTypeFuncref {
		return newError(ErrTypeMismatch, "call_indirect: table %d is not funcref", tableIndex)
	}

	typeID := int(typeIndex)
	ft := t.interner.Resolve(typeID)

	idxVal, err := t.values.Pop()
	if err != nil {
		return err
	}
	idxReg := t.materialize(idxVal, VReg(t.layout.StackRegBase()+t.values.Height()))

	base := t.values.Height() - len(ft.Params)
	for i := range ft.Params {
		mv, err := t.values.Peek(len(ft.Params) - 1 - i)
		if err != nil {
			return err
		}
		t.materializeToFreshReg(mv, base+i)
	}
	for i := 0; i < len(ft.Params); i++ {
		if _, err := t.values.Pop(); err != nil {
			return err
		}
	}

	t.builder.Emit(Instruction{Op: OpCallIndirect, Imm: uint64(typeIndex), MemoryIndex: tableIndex, Src1: idxReg})
	t.builder.ResetLastEmission()

	for i, rt := range ft.Results {
		t.values.PushStack(rt, VReg(t.layout.StackRegBase()+base+i))
	}
	return nil
}
