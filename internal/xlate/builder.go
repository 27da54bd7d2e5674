package xlate

// LabelID identifies a label created by the Builder. The zero value is
// never a valid label (spec.md §3 "Instruction-Sequence Builder": label
// back-patching).
type LabelID int

// labelState is Unpinned until Pin fixes its final instruction-word
// offset. Each pending reference is a closure over whatever needs
// patching (an Instruction's Offset field, or a br_table buffer slot);
// the closure, not the label, holds that reference, so a label never
// points back into the instructions that reference it and there is no
// cycle to break at Finalize.
type labelState struct {
	pinned bool
	offset int // instruction-word index this label resolves to, once pinned
	patch  []func(offset int)
}

// Builder accumulates a function's Instructions, resolving forward and
// backward branches as labels are pinned (spec.md §3 "Instruction-Sequence
// Builder"). It owns no arena memory itself; Finalize hands its
// instruction slice to an Arena.
type Builder struct {
	instrs []Instruction
	labels []labelState

	// lastEmission indexes the most recently emitted instruction, or -1
	// if there is none or the peephole window has been explicitly closed
	// by ResetLastEmission (spec.md §4.3 "result relink").
	lastEmission int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{lastEmission: -1}
}

// Emit appends instr and returns its instruction-word index.
func (b *Builder) Emit(instr Instruction) int {
	idx := len(b.instrs)
	b.instrs = append(b.instrs, instr)
	b.lastEmission = idx
	return idx
}

// Len is the number of instructions emitted so far.
func (b *Builder) Len() int { return len(b.instrs) }

// At returns a pointer to the instruction at idx, for callers that need
// to inspect or (rarely, outside of RelinkLastResult) mutate an already
// emitted instruction.
func (b *Builder) At(idx int) *Instruction { return &b.instrs[idx] }

// LastEmission returns the index of the most recently emitted
// instruction and true, or (0, false) if the peephole window is closed.
func (b *Builder) LastEmission() (int, bool) {
	if b.lastEmission < 0 {
		return 0, false
	}
	return b.lastEmission, true
}

// RelinkLastResult rewrites the most recently emitted instruction's
// destination register to newDst, eliding an immediately following copy
// (spec.md §4.3 "peephole result relink"). It reports false if the
// peephole window is closed (a control-flow boundary has intervened
// since the last emission).
func (b *Builder) RelinkLastResult(newDst VReg) bool {
	if b.lastEmission < 0 {
		return false
	}
	b.instrs[b.lastEmission].Dst = newDst
	return true
}

// ResetLastEmission closes the peephole window: the next instruction must
// not be eligible for result relinking against whatever was emitted
// before this call. Every label pin, branch emission and block/loop/if
// entry or exit calls this, since relinking across a control-flow
// boundary would rewrite an instruction whose result another path also
// depends on.
func (b *Builder) ResetLastEmission() {
	b.lastEmission = -1
}

// AllocLabel creates a new unpinned label.
func (b *Builder) AllocLabel() LabelID {
	b.labels = append(b.labels, labelState{})
	return LabelID(len(b.labels))
}

// PinHere pins label to the current end of the instruction stream, i.e.
// the offset the next Emit will use.
func (b *Builder) PinHere(label LabelID) error {
	return b.Pin(label, len(b.instrs))
}

// Pin pins label to instruction-word offset and runs every patch
// function waiting on it. Pinning an already-pinned label is an internal
// consistency error: each label is meant to be pinned exactly once.
func (b *Builder) Pin(label LabelID, offset int) error {
	st := b.label(label)
	if st.pinned {
		return newError(ErrInternalConsistency, "label %d pinned twice", label)
	}
	st.pinned = true
	st.offset = offset
	for _, patch := range st.patch {
		patch(offset)
	}
	st.patch = nil
	b.ResetLastEmission()
	return nil
}

// ReferenceAt records that the instruction at instrIndex branches to
// label: once label is pinned, its Offset field is set to the
// instruction-word displacement from instrIndex to the label. If label
// is already pinned, the offset is resolved immediately.
func (b *Builder) ReferenceAt(label LabelID, instrIndex int) {
	b.reference(label, func(target int) {
		b.instrs[instrIndex].Offset = int32(target - instrIndex)
	})
}

// ReferenceBrTableSlot records that brTables' entry at the absolute index
// idx must be set to label's absolute instruction-word offset once
// pinned. br_table entries are absolute, not relative to the br_table
// instruction, since a single br_table instruction has many targets and
// the interpreter reads the chosen slot directly.
//
// The patch closure writes through brTables.Set rather than capturing a
// slice handed out by AllocSlots: a later AllocSlots call for a second
// br_table in the same function can grow the underlying buffer past its
// current capacity and reallocate, which would strand a closure holding
// the old slice.
func (b *Builder) ReferenceBrTableSlot(label LabelID, brTables *brTableBuilder, idx int) {
	b.reference(label, func(target int) {
		brTables.Set(idx, int32(target))
	})
}

func (b *Builder) reference(label LabelID, patch func(offset int)) {
	st := b.label(label)
	if st.pinned {
		patch(st.offset)
		return
	}
	st.patch = append(st.patch, patch)
}

func (b *Builder) label(label LabelID) *labelState {
	return &b.labels[label-1]
}

// Finalize checks that every label was pinned, then returns the
// accumulated instructions. It is an error (spec.md §7 ErrDanglingLabel)
// for any label to still be unpinned: a pending patch function would
// otherwise simply never run, silently leaving a zero Offset behind.
func (b *Builder) Finalize() ([]Instruction, error) {
	for i, st := range b.labels {
		if !st.pinned {
			return nil, newError(ErrDanglingLabel, "label %d never pinned", i+1)
		}
	}
	return b.instrs, nil
}
