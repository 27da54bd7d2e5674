package xlate

import "github.com/tsandall/wazeroir-xlate/internal/wasm"

// VReg is a register index relative to the current frame's stack pointer
// (SP). Negative indices address the frame header (params/results/saved
// state); non-negative indices address locals, constants and the
// operand-stack region (spec.md §3 "VReg").
type VReg int16

// FrameHeaderLayout computes the negative-offset layout of a function's
// frame header: the aliased params-or-results region, plus three trailing
// saved slots (caller Instance, PC, SP).
type FrameHeaderLayout struct {
	// ParamResultBase is the number of header slots below SP, i.e. the
	// magnitude of the most negative valid VReg in this frame's header.
	ParamResultBase int
}

// NewFrameHeaderLayout computes the header layout for funcType.
func NewFrameHeaderLayout(funcType *wasm.FunctionType) FrameHeaderLayout {
	n := funcType.ParamCount()
	if r := funcType.ResultCount(); r > n {
		n = r
	}
	return FrameHeaderLayout{ParamResultBase: n + 3}
}

// ParamReg returns the VReg holding parameter i.
func (l FrameHeaderLayout) ParamReg(i int) VReg {
	return VReg(i - l.ParamResultBase)
}

// ReturnReg returns the VReg that result i must be delivered to. Params and
// results alias the same header slots (the caller's argument registers
// become the callee's return-value registers), so this is textually
// identical to ParamReg; it is named separately because call sites read
// more clearly when they say which they mean.
func (l FrameHeaderLayout) ReturnReg(i int) VReg {
	return VReg(i - l.ParamResultBase)
}

// Size is the number of VReg slots the header occupies, including the
// three trailing saved slots (Instance, PC, SP). A caller computing its
// callee's stack-pointer addend (spec.md §4.4 "call f / call_indirect")
// needs this.
func (l FrameHeaderLayout) Size() int {
	return l.ParamResultBase
}

// StackLayout is the full frame layout derived from a function's type,
// local count and code size: where locals live, how many constant-pool
// slots are budgeted, and where the operand-stack region starts.
type StackLayout struct {
	FrameHeaderLayout
	numParams        int
	numLocals        int
	constantSlotSize int
	stackRegBase     int
}

// NewStackLayout derives a StackLayout for a function with funcType,
// numLocals declared locals (including the implicit ones the validator
// materializes for each local-type run, not just the parameters) and a
// code size of codeSize bytes.
//
// constantSlotSize uses the heuristic budget from spec.md §3:
// max(codeSize/20, 4), guarded against overflowing a VReg when added to
// numLocals (spec.md §7 "ConstSlotOverflow"). slotOverride, when
// non-zero (EngineConfig.ConstantSlotSizeOverride), replaces the
// heuristic outright.
func NewStackLayout(funcType *wasm.FunctionType, numLocals, codeSize, slotOverride int) (StackLayout, error) {
	constantSlotSize := codeSize / 20
	if constantSlotSize < 4 {
		constantSlotSize = 4
	}
	if slotOverride > 0 {
		constantSlotSize = slotOverride
	}
	if numLocals+constantSlotSize > int(^uint16(0)>>1) {
		return StackLayout{}, newError(ErrConstSlotOverflow,
			"numLocals=%d + constantSlotSize=%d overflows a 16-bit VReg", numLocals, constantSlotSize)
	}
	return StackLayout{
		FrameHeaderLayout: NewFrameHeaderLayout(funcType),
		numParams:         funcType.ParamCount(),
		numLocals:         numLocals,
		constantSlotSize:  constantSlotSize,
		stackRegBase:      numLocals + constantSlotSize,
	}, nil
}

// LocalReg returns the VReg holding local i. Locals below the parameter
// count alias the frame header (they're the same storage as the
// corresponding parameter); locals at or above the parameter count occupy
// their own region starting at VReg(0).
func (l StackLayout) LocalReg(i int) VReg {
	if i < l.numParams {
		return l.ParamReg(i)
	}
	return VReg(i - l.numParams)
}

// ConstReg returns the VReg for constant-pool slot i.
func (l StackLayout) ConstReg(i int) VReg {
	return VReg(l.numLocals + i)
}

// StackRegBase is the first VReg of the operand-stack region; a value at
// symbolic-stack position p, once materialized, lives at
// StackRegBase+p.
func (l StackLayout) StackRegBase() int { return l.stackRegBase }

// ConstantSlotSize is the constant pool's capacity in this frame.
func (l StackLayout) ConstantSlotSize() int { return l.constantSlotSize }

// MaxStackHeight converts a logical Wasm operand-stack height into the
// overall frame size required to hold it (spec.md §8 property 7).
func (l StackLayout) MaxStackHeight(valueStackMaxHeight int) int {
	return l.stackRegBase + valueStackMaxHeight
}
