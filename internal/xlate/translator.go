// Package xlate translates a single validated Wasm function body into a
// compact, register-based InstructionSequence for a threaded interpreter.
// It performs no validation of its own beyond what it needs to assign
// registers and resolve branches; a Translator trusts that its input has
// already passed Wasm validation, which neither this package nor
// internal/decode (the Parser that drives its Visitor methods) performs.
package xlate

import "github.com/tsandall/wazeroir-xlate/internal/wasm"

// Translator converts one function body's opcode stream into an
// InstructionSequence. A Translator is single-use: construct one per
// function with NewTranslator, call Begin, drive it opcode by opcode,
// then call Finalize. It is not safe for concurrent use by multiple
// goroutines, and its Arena must not be shared with any other
// Translator's output (spec.md §5).
type Translator struct {
	cfg         EngineConfig
	mod         wasm.ModuleContext
	interner    wasm.TypeInterner
	interceptor Interceptor

	funcIndex wasm.Index
	funcType  *wasm.FunctionType

	layout    StackLayout
	values    *ValueStack
	control   *ControlStack
	builder   *Builder
	constants *ConstantPool
	brTables  brTableBuilder

	endLabel LabelID
}

// NewTranslator constructs a Translator against a fixed module context,
// type interner and engine configuration. The same Translator value must
// not be reused across functions; call NewTranslator again for the next
// one (spec.md §5: "one translator per function").
func NewTranslator(cfg EngineConfig, mod wasm.ModuleContext, interner wasm.TypeInterner) *Translator {
	interceptor := Interceptor(NoopInterceptor{})
	return &Translator{cfg: cfg, mod: mod, interner: interner, interceptor: interceptor}
}

// SetInterceptor installs an Interceptor used when
// EngineConfig.EnableInterception is set. The default is NoopInterceptor.
func (t *Translator) SetInterceptor(i Interceptor) { t.interceptor = i }

// Begin starts translating function funcIndex of type funcType, declaring
// numLocals total locals (including aliased parameters) across codeSize
// bytes of body.
func (t *Translator) Begin(funcIndex wasm.Index, funcType *wasm.FunctionType, numLocals, codeSize int) error {
	layout, err := NewStackLayout(funcType, numLocals, codeSize, t.cfg.ConstantSlotSizeOverride)
	if err != nil {
		return err
	}
	t.funcIndex = funcIndex
	t.funcType = funcType
	t.layout = layout
	t.values = NewValueStack()
	t.control = NewControlStack()
	t.builder = NewBuilder()
	t.constants = NewConstantPool(layout.ConstantSlotSize())

	t.endLabel = t.builder.AllocLabel()
	t.control.Push(ControlFrame{
		Kind:               ControlBlock,
		BlockType:          funcType,
		StackHeightAtEntry: 0,
		Label:              t.endLabel,
		IsReachable:        true,
		IsRoot:             true,
	})

	if t.cfg.EnableInterception && t.interceptor.ShouldIntercept(funcIndex) {
		t.builder.emitOnEnter(funcIndex)
		t.builder.ResetLastEmission()
	}
	return nil
}

// Finalize closes out translation: it requires the control stack to have
// been fully unwound by the function body's own closing `end` (spec.md §7
// ErrMissingEnd otherwise; VisitEnd treats that closing `end` the same as
// any nested block's, popping the implicit outer frame pushed by Begin
// and pinning endLabel along with it), and hands the accumulated buffers
// to a fresh Arena.
func (t *Translator) Finalize() (*InstructionSequence, error) {
	if t.control.Depth() != 0 {
		return nil, newError(ErrMissingEnd, "control stack has %d frame(s) still open at finalize", t.control.Depth())
	}
	if !t.builder.label(t.endLabel).pinned {
		if err := t.builder.PinHere(t.endLabel); err != nil {
			return nil, err
		}
	}
	if t.cfg.EnableInterception && t.interceptor.ShouldIntercept(t.funcIndex) {
		t.builder.emitOnExit(t.funcIndex)
	}

	// Defensive final return (spec.md §4.6): endLabel is the target of
	// every `br`/`br_if`/`br_table` that exits the function outright. When
	// the root `end` was reachable, VisitEnd pinned endLabel ahead of the
	// OpReturn that emitRootReturn emits, so those branches stop there and
	// this return follows it. Otherwise endLabel resolves to the
	// instructions emitted here, and whatever path lands here still needs
	// an instruction to stop the interpreter's dispatch loop.
	t.builder.Emit(Instruction{Op: OpReturn})

	instrs, err := t.builder.Finalize()
	if err != nil {
		return nil, err
	}
	arena := NewArena(instrs, t.constants.Values(), t.brTables.Finalize())
	return &InstructionSequence{
		Arena:     arena,
		Layout:    t.layout,
		FrameSize: t.layout.MaxStackHeight(t.values.MaxHeight()),
	}, nil
}

// reachable reports whether the current point in the function is
// reachable, matching pop/push tolerance to spec.md §3's "unreachable
// code is tolerated".
func (t *Translator) reachable() bool { return t.control.IsReachable() }

// materialize ensures mv is available in a register, emitting whatever
// instruction is needed to get it there, and returns that register. A
// SourceStack value is already materialized. A SourceLocal value reads
// straight through to its local's register: no copy needed unless the
// caller is about to consume the register as a mutable destination. A
// SourceConst value emits a const-load, preferring the constant pool and
// falling back to an inline immediate on overflow.
func (t *Translator) materialize(mv MetaValue, dst VReg) VReg {
	switch mv.Source {
	case SourceStack:
		return mv.Reg
	case SourceLocal:
		return mv.Reg
	case SourceConst:
		t.emitConst(mv.Type, mv.ConstBits, dst)
		return dst
	}
	return mv.Reg
}

// materializeAt ensures mv's value ends up in register dst, emitting a
// move (or a const-load, for an unmaterialized constant) unless mv is
// already sitting in dst.
func (t *Translator) materializeAt(mv MetaValue, dst VReg) VReg {
	switch mv.Source {
	case SourceStack, SourceLocal:
		if mv.Reg == dst {
			return dst
		}
		t.builder.Emit(Instruction{Op: OpMove, Type: toNumType(mv.Type), Dst: dst, Src1: mv.Reg})
		return dst
	case SourceConst:
		t.emitConst(mv.Type, mv.ConstBits, dst)
		return dst
	}
	return dst
}

// materializeToFreshReg is materializeAt specialized to a stack-region
// position (used when a value must be pinned to a specific operand-stack
// slot, e.g. a branch or call argument).
func (t *Translator) materializeToFreshReg(mv MetaValue, pos int) VReg {
	return t.materializeAt(mv, VReg(t.layout.StackRegBase()+pos))
}

// tryRelink attempts the peephole result-relink optimization (spec.md
// §4.3, §4.4 "local.set"): if mv is a stack value still sitting in the
// register the most recently emitted instruction wrote as its result,
// that instruction's destination is rewritten in place to dst, eliding
// the copy materializeAt would otherwise emit. Reports whether the
// relink fired; callers fall back to materializeAt when it doesn't.
func (t *Translator) tryRelink(mv MetaValue, dst VReg) bool {
	if mv.Source != SourceStack {
		return false
	}
	idx, ok := t.builder.LastEmission()
	if !ok || t.builder.At(idx).Dst != mv.Reg {
		return false
	}
	return t.builder.RelinkLastResult(dst)
}

// relinkOrMove delivers mv into dst, preferring a result-relink over a
// move when the peephole window allows it.
func (t *Translator) relinkOrMove(mv MetaValue, dst VReg) VReg {
	if t.tryRelink(mv, dst) {
		return dst
	}
	return t.materializeAt(mv, dst)
}

func (t *Translator) emitConst(vt ValueType, bits uint64, dst VReg) {
	nt := toNumType(vt)
	if idx, ok := t.constants.Intern(bits); ok {
		t.builder.Emit(Instruction{Op: constOpForType(nt), Type: nt, Dst: dst, Imm: uint64(idx)})
		return
	}
	// Pool exhausted: emit a true inline immediate instead of growing the
	// pool past StackLayout.ConstantSlotSize. ConstReg(i) = numLocals + i
	// and StackRegBase() = numLocals + constantSlotSize, so a slot beyond
	// capacity would alias the first operand-stack register and corrupt
	// register allocation (spec.md §4.4 "visitConst": "On pool overflow,
	// emit const32/const64 ... and push a materialized slot" — dst is
	// already that materialized slot, supplied by the caller same as any
	// other const).
	op := OpConst32
	if is64(nt) {
		op = OpConst64
	}
	t.builder.Emit(Instruction{Op: op, Type: nt, Dst: dst, Imm: bits})
}

func is64(nt NumType) bool { return nt == TypeI64 || nt == TypeF64 }

func constOpForType(nt NumType) Op {
	switch nt {
	case TypeI32:
		return OpConstI32
	case TypeI64:
		return OpConstI64
	case TypeF32:
		return OpConstF32
	default:
		return OpConstF64
	}
}

func toNumType(vt ValueType) NumType {
	switch vt {
	case wasm.ValueTypeI32:
		return TypeI32
	case wasm.ValueTypeI64:
		return TypeI64
	case wasm.ValueTypeF32:
		return TypeF32
	case wasm.ValueTypeF64:
		return TypeF64
	default:
		return TypeI64 // funcref/externref travel as i64 handles
	}
}

// pushStackResult pushes a new value onto the value stack, materialized
// at the next free operand-stack register, and returns that register for
// the caller to use as an instruction's Dst.
func (t *Translator) pushStackResult(vt ValueType) VReg {
	reg := VReg(t.layout.StackRegBase() + t.values.Height())
	t.values.PushStack(vt, reg)
	return reg
}
