package xlate

import "github.com/tsandall/wazeroir-xlate/internal/wasm"

// VisitDrop translates `drop`.
func (t *Translator) VisitDrop() error {
	if !t.reachable() {
		return nil
	}
	_, err := t.values.Pop()
	return err
}

// VisitSelect translates untyped `select`: pop condition, then the two
// candidate values (of matching type), push the chosen one. Since both
// candidates must already be of the same Wasm value type, a single
// OpSelect with that type suffices; the interpreter chooses Src1 or Src2
// by the condition at runtime rather than this translator resolving it
// statically (the condition is not generally known at translation time).
func (t *Translator) VisitSelect() error {
	if !t.reachable() {
		return nil
	}
	cond, err := t.values.Pop()
	if err != nil {
		return err
	}
	b, err := t.values.Pop()
	if err != nil {
		return err
	}
	a, err := t.values.Pop()
	if err != nil {
		return err
	}
	condReg := t.materialize(cond, VReg(t.layout.StackRegBase()+t.values.Height()+2))
	dst := t.pushStackResult(a.Type)
	aReg := t.materializeAt(a, dst)
	bReg := t.materializeAt(b, VReg(t.layout.StackRegBase()+t.values.Height()))
	t.builder.Emit(Instruction{Op: OpSelect, Type: toNumType(a.Type), Dst: dst, Src1: aReg, Src2: bReg, Imm: uint64(condReg)})
	return nil
}

// VisitLocalGet translates `local.get localIndex`. vt is the local's
// value type, resolved by the Parser from the function's locals table
// (this package keeps no locals-type table of its own).
func (t *Translator) VisitLocalGet(localIndex wasm.Index, vt ValueType) error {
	if !t.reachable() {
		return nil
	}
	reg := t.layout.LocalReg(int(localIndex))
	t.values.PushLocal(vt, reg)
	return nil
}

// preserveLocal rewrites every SourceLocal entry on the value stack that
// reads register reg into a materialized SourceStack entry, by copying
// its current value out before reg is overwritten. Without this, a
// local.set/local.tee that clobbers a local still aliased further down
// the stack would retroactively change an already-pushed value.
func (t *Translator) preserveLocal(reg VReg) {
	n := t.values.Height()
	for i := 0; i < n; i++ {
		mv, _ := t.values.Peek(n - 1 - i)
		if mv.Source == SourceLocal && mv.Reg == reg {
			fresh := VReg(t.layout.StackRegBase() + i)
			t.builder.Emit(Instruction{Op: OpMove, Type: toNumType(mv.Type), Dst: fresh, Src1: reg})
			t.values.Set(n-1-i, MetaValue{Type: mv.Type, Source: SourceStack, Reg: fresh})
		}
	}
	t.builder.ResetLastEmission()
}

// VisitLocalSet translates `local.set localIndex`. Tries the result-relink
// peephole first (spec.md §4.4 "local.set"): if mv is still sitting where
// the instruction just emitted to produce it left it, that instruction is
// rewritten to write directly into the local's register instead of
// emitting a separate move. The attempt is made only when no remaining
// stack entry aliases the local, since preserveLocal's copies would then
// run after the rewritten producer had already overwritten the local; and
// it happens before preserveLocal, which closes the peephole window
// unconditionally once it runs.
func (t *Translator) VisitLocalSet(localIndex wasm.Index, vt ValueType) error {
	if !t.reachable() {
		return nil
	}
	mv, err := t.values.Pop()
	if err != nil {
		return err
	}
	reg := t.layout.LocalReg(int(localIndex))
	aliased := false
	for i := 0; i < t.values.Height(); i++ {
		if v, _ := t.values.Peek(i); v.Source == SourceLocal && v.Reg == reg {
			aliased = true
			break
		}
	}
	relinked := !aliased && t.tryRelink(mv, reg)
	t.preserveLocal(reg)
	if !relinked {
		t.materializeAt(mv, reg)
	}
	return nil
}

// VisitLocalTee translates `local.tee localIndex`: like local.set but the
// value remains on the stack afterward.
func (t *Translator) VisitLocalTee(localIndex wasm.Index, vt ValueType) error {
	if !t.reachable() {
		return nil
	}
	mv, err := t.values.Peek(0)
	if err != nil {
		return err
	}
	reg := t.layout.LocalReg(int(localIndex))
	t.preserveLocal(reg)
	t.materializeAt(mv, reg)
	t.values.Set(0, MetaValue{Type: vt, Source: SourceLocal, Reg: reg})
	return nil
}

// VisitGlobalGet translates `global.get globalIndex`.
func (t *Translator) VisitGlobalGet(globalIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	vt, err := t.mod.GlobalValueType(globalIndex)
	if err != nil {
		return wrapError(ErrIndexOutOfRange, err, "global.get %d", globalIndex)
	}
	dst := t.pushStackResult(vt)
	t.builder.Emit(Instruction{Op: OpGlobalGet, Type: toNumType(vt), Dst: dst, Imm: uint64(globalIndex)})
	return nil
}

// VisitGlobalSet translates `global.set globalIndex`.
func (t *Translator) VisitGlobalSet(globalIndex wasm.Index) error {
	if !t.reachable() {
		return nil
	}
	vt, err := t.mod.GlobalValueType(globalIndex)
	if err != nil {
		return wrapError(ErrIndexOutOfRange, err, "global.set %d", globalIndex)
	}
	mv, err := t.values.Pop()
	if err != nil {
		return err
	}
	src := t.materialize(mv, VReg(t.layout.StackRegBase()+t.values.Height()))
	t.builder.Emit(Instruction{Op: OpGlobalSet, Type: toNumType(vt), Src1: src, Imm: uint64(globalIndex)})
	return nil
}

// VisitConst translates a const opcode (i32.const/i64.const/f32.const/
// f64.const). bits carries the value's raw bit pattern, zero-extended.
func (t *Translator) VisitConst(vt ValueType, bits uint64) error {
	if !t.reachable() {
		return nil
	}
	idx, ok := t.constants.Intern(bits)
	if !ok {
		idx = -1
	}
	t.values.PushConst(vt, bits, idx)
	return nil
}

// VisitUnary translates a unary numeric opcode (clz, ctz, popcnt, abs,
// neg, sqrt, ceil, floor, trunc, nearest, the various conversions, and
// the sign-extension opcodes). resultType may differ from the operand's
// type (e.g. f32.convert_i32_s).
func (t *Translator) VisitUnary(op Op, operandType, resultType ValueType) error {
	if !t.reachable() {
		return nil
	}
	a, err := t.values.Pop()
	if err != nil {
		return err
	}
	aReg := t.materialize(a, VReg(t.layout.StackRegBase()+t.values.Height()))
	dst := t.pushStackResult(resultType)
	t.builder.Emit(Instruction{Op: op, Type: toNumType(operandType), Dst: dst, Src1: aReg})
	return nil
}

// VisitBinary translates a binary numeric or comparison opcode.
// Comparisons always produce an i32, so resultType is passed explicitly
// rather than assumed equal to operandType.
func (t *Translator) VisitBinary(op Op, operandType, resultType ValueType) error {
	if !t.reachable() {
		return nil
	}
	b, err := t.values.Pop()
	if err != nil {
		return err
	}
	a, err := t.values.Pop()
	if err != nil {
		return err
	}
	aReg := t.materialize(a, VReg(t.layout.StackRegBase()+t.values.Height()))
	bReg := t.materialize(b, VReg(t.layout.StackRegBase()+t.values.Height()+1))
	dst := t.pushStackResult(resultType)
	t.builder.Emit(Instruction{Op: op, Type: toNumType(operandType), Dst: dst, Src1: aReg, Src2: bReg})
	return nil
}
