package decode

import (
	"github.com/tsandall/wazeroir-xlate/internal/wasm"
	"github.com/tsandall/wazeroir-xlate/internal/xlate"
)

// run walks the decoder's buffer until the function body's implicit
// outer block closes (the control stack depth returns to zero after
// consuming an `end`).
func (d *decoder) run() error {
	for {
		op, err := d.byte()
		if err != nil {
			return err
		}
		done, err := d.dispatch(wasm.Opcode(op))
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// dispatch handles one opcode, returning done=true once the function
// body's own closing `end` has been consumed.
func (d *decoder) dispatch(op wasm.Opcode) (done bool, err error) {
	switch op {
	case wasm.OpcodeUnreachable:
		return false, d.t.VisitUnreachable()
	case wasm.OpcodeNop:
		return false, d.t.VisitNop()
	case wasm.OpcodeBlock:
		bt, err := d.blockType()
		if err != nil {
			return false, err
		}
		d.depth++
		return false, d.t.VisitBlock(bt)
	case wasm.OpcodeLoop:
		bt, err := d.blockType()
		if err != nil {
			return false, err
		}
		d.depth++
		return false, d.t.VisitLoop(bt)
	case wasm.OpcodeIf:
		bt, err := d.blockType()
		if err != nil {
			return false, err
		}
		d.depth++
		return false, d.t.VisitIf(bt)
	case wasm.OpcodeElse:
		return false, d.t.VisitElse()
	case wasm.OpcodeEnd:
		if err := d.t.VisitEnd(); err != nil {
			return false, err
		}
		d.depth--
		return d.depth < 0, nil
	case wasm.OpcodeBr:
		rd, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitBr(rd)
	case wasm.OpcodeBrIf:
		rd, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitBrIf(rd)
	case wasm.OpcodeBrTable:
		count, err := d.u32()
		if err != nil {
			return false, err
		}
		targets := make([]uint32, count)
		for i := range targets {
			if targets[i], err = d.u32(); err != nil {
				return false, err
			}
		}
		def, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitBrTable(targets, def)
	case wasm.OpcodeReturn:
		return false, d.t.VisitReturn()
	case wasm.OpcodeCall:
		idx, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitCall(wasm.Index(idx))
	case wasm.OpcodeCallIndirect:
		typeIdx, err := d.u32()
		if err != nil {
			return false, err
		}
		tableIdx, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitCallIndirect(wasm.Index(typeIdx), wasm.Index(tableIdx))

	case wasm.OpcodeDrop:
		return false, d.t.VisitDrop()
	case wasm.OpcodeSelect:
		return false, d.t.VisitSelect()
	case wasm.OpcodeSelectT:
		n, err := d.u32()
		if err != nil {
			return false, err
		}
		for i := uint32(0); i < n; i++ {
			if _, err := d.byte(); err != nil {
				return false, err
			}
		}
		return false, d.t.VisitSelect()

	case wasm.OpcodeLocalGet, wasm.OpcodeLocalSet, wasm.OpcodeLocalTee:
		idx, err := d.u32()
		if err != nil {
			return false, err
		}
		if int(idx) >= len(d.locals) {
			return false, newTruncated()
		}
		vt := d.locals[idx]
		switch op {
		case wasm.OpcodeLocalGet:
			return false, d.t.VisitLocalGet(wasm.Index(idx), vt)
		case wasm.OpcodeLocalSet:
			return false, d.t.VisitLocalSet(wasm.Index(idx), vt)
		default:
			return false, d.t.VisitLocalTee(wasm.Index(idx), vt)
		}
	case wasm.OpcodeGlobalGet:
		idx, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitGlobalGet(wasm.Index(idx))
	case wasm.OpcodeGlobalSet:
		idx, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitGlobalSet(wasm.Index(idx))

	case wasm.OpcodeTableGet:
		idx, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitTableGet(wasm.Index(idx))
	case wasm.OpcodeTableSet:
		idx, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitTableSet(wasm.Index(idx))

	case wasm.OpcodeI32Const:
		v, err := d.i32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitConst(wasm.ValueTypeI32, uint64(uint32(v)))
	case wasm.OpcodeI64Const:
		v, err := d.i64()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitConst(wasm.ValueTypeI64, uint64(v))
	case wasm.OpcodeF32Const:
		bits, err := d.f32Bits()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitConst(wasm.ValueTypeF32, bits)
	case wasm.OpcodeF64Const:
		bits, err := d.f64Bits()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitConst(wasm.ValueTypeF64, bits)

	case wasm.OpcodeMemorySize:
		if _, err := d.byte(); err != nil { // reserved
			return false, err
		}
		return false, d.t.VisitMemorySize(0)
	case wasm.OpcodeMemoryGrow:
		if _, err := d.byte(); err != nil { // reserved
			return false, err
		}
		return false, d.t.VisitMemoryGrow(0)

	case wasm.OpcodeRefNull:
		rt, err := d.byte()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitRefNull(wasm.RefType(rt))
	case wasm.OpcodeRefIsNull:
		return false, d.t.VisitRefIsNull()
	case wasm.OpcodeRefFunc:
		idx, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitRefFunc(wasm.Index(idx))

	case wasm.OpcodeMiscPrefix:
		sub, err := d.u32()
		if err != nil {
			return false, err
		}
		return false, d.dispatchMisc(wasm.Opcode(sub))
	}

	if m, ok := loadTable[op]; ok {
		memarg, err := d.memarg()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitLoad(memarg, m.resultType, m.accessBits, m.signed)
	}
	if m, ok := storeTable[op]; ok {
		memarg, err := d.memarg()
		if err != nil {
			return false, err
		}
		return false, d.t.VisitStore(memarg, m.operandType, m.accessBits)
	}
	if u, ok := unaryTable[op]; ok {
		return false, d.t.VisitUnary(u.op, u.operandType, u.resultType)
	}
	if b, ok := binaryTable[op]; ok {
		return false, d.t.VisitBinary(b.op, b.operandType, b.resultType)
	}

	return false, unknownOpcodeError(op)
}

func (d *decoder) dispatchMisc(sub wasm.Opcode) error {
	switch sub {
	case wasm.OpcodeMiscI32TruncSatF32S, wasm.OpcodeMiscI32TruncSatF32U,
		wasm.OpcodeMiscI32TruncSatF64S, wasm.OpcodeMiscI32TruncSatF64U:
		return d.t.VisitUnary(xlate.OpTruncSat, operandTypeOfTruncSat(sub), wasm.ValueTypeI32)
	case wasm.OpcodeMiscI64TruncSatF32S, wasm.OpcodeMiscI64TruncSatF32U,
		wasm.OpcodeMiscI64TruncSatF64S, wasm.OpcodeMiscI64TruncSatF64U:
		return d.t.VisitUnary(xlate.OpTruncSat, operandTypeOfTruncSat(sub), wasm.ValueTypeI64)
	case wasm.OpcodeMiscMemoryInit:
		dataIdx, err := d.u32()
		if err != nil {
			return err
		}
		if _, err := d.byte(); err != nil { // reserved memory index byte
			return err
		}
		return d.t.VisitMemoryInit(wasm.Index(dataIdx), 0)
	case wasm.OpcodeMiscDataDrop:
		dataIdx, err := d.u32()
		if err != nil {
			return err
		}
		return d.t.VisitDataDrop(wasm.Index(dataIdx))
	case wasm.OpcodeMiscMemoryCopy:
		if _, err := d.byte(); err != nil {
			return err
		}
		if _, err := d.byte(); err != nil {
			return err
		}
		return d.t.VisitMemoryCopy(0, 0)
	case wasm.OpcodeMiscMemoryFill:
		if _, err := d.byte(); err != nil {
			return err
		}
		return d.t.VisitMemoryFill(0)
	case wasm.OpcodeMiscTableInit:
		elemIdx, err := d.u32()
		if err != nil {
			return err
		}
		tableIdx, err := d.u32()
		if err != nil {
			return err
		}
		return d.t.VisitTableInit(wasm.Index(elemIdx), wasm.Index(tableIdx))
	case wasm.OpcodeMiscElemDrop:
		elemIdx, err := d.u32()
		if err != nil {
			return err
		}
		return d.t.VisitElemDrop(wasm.Index(elemIdx))
	case wasm.OpcodeMiscTableCopy:
		dstIdx, err := d.u32()
		if err != nil {
			return err
		}
		srcIdx, err := d.u32()
		if err != nil {
			return err
		}
		return d.t.VisitTableCopy(wasm.Index(dstIdx), wasm.Index(srcIdx))
	case wasm.OpcodeMiscTableGrow:
		idx, err := d.u32()
		if err != nil {
			return err
		}
		return d.t.VisitTableGrow(wasm.Index(idx))
	case wasm.OpcodeMiscTableSize:
		idx, err := d.u32()
		if err != nil {
			return err
		}
		return d.t.VisitTableSize(wasm.Index(idx))
	case wasm.OpcodeMiscTableFill:
		idx, err := d.u32()
		if err != nil {
			return err
		}
		return d.t.VisitTableFill(wasm.Index(idx))
	}
	return unknownOpcodeError(sub)
}

func operandTypeOfTruncSat(sub wasm.Opcode) wasm.ValueType {
	switch sub {
	case wasm.OpcodeMiscI32TruncSatF32S, wasm.OpcodeMiscI32TruncSatF32U, wasm.OpcodeMiscI64TruncSatF32S, wasm.OpcodeMiscI64TruncSatF32U:
		return wasm.ValueTypeF32
	default:
		return wasm.ValueTypeF64
	}
}

type unknownOpcodeError wasm.Opcode

func (e unknownOpcodeError) Error() string {
	return "decode: unrecognized opcode"
}
