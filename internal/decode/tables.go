package decode

import (
	"github.com/tsandall/wazeroir-xlate/internal/wasm"
	"github.com/tsandall/wazeroir-xlate/internal/xlate"
)

type loadEntry struct {
	resultType wasm.ValueType
	accessBits byte
	signed     bool
}

type storeEntry struct {
	operandType wasm.ValueType
	accessBits  byte
}

type unaryEntry struct {
	op          xlate.Op
	operandType wasm.ValueType
	resultType  wasm.ValueType
}

type binaryEntry struct {
	op          xlate.Op
	operandType wasm.ValueType
	resultType  wasm.ValueType
}

var loadTable = map[wasm.Opcode]loadEntry{
	wasm.OpcodeI32Load:    {wasm.ValueTypeI32, 32, false},
	wasm.OpcodeI64Load:    {wasm.ValueTypeI64, 64, false},
	wasm.OpcodeF32Load:    {wasm.ValueTypeF32, 32, false},
	wasm.OpcodeF64Load:    {wasm.ValueTypeF64, 64, false},
	wasm.OpcodeI32Load8S:  {wasm.ValueTypeI32, 8, true},
	wasm.OpcodeI32Load8U:  {wasm.ValueTypeI32, 8, false},
	wasm.OpcodeI32Load16S: {wasm.ValueTypeI32, 16, true},
	wasm.OpcodeI32Load16U: {wasm.ValueTypeI32, 16, false},
	wasm.OpcodeI64Load8S:  {wasm.ValueTypeI64, 8, true},
	wasm.OpcodeI64Load8U:  {wasm.ValueTypeI64, 8, false},
	wasm.OpcodeI64Load16S: {wasm.ValueTypeI64, 16, true},
	wasm.OpcodeI64Load16U: {wasm.ValueTypeI64, 16, false},
	wasm.OpcodeI64Load32S: {wasm.ValueTypeI64, 32, true},
	wasm.OpcodeI64Load32U: {wasm.ValueTypeI64, 32, false},
}

var storeTable = map[wasm.Opcode]storeEntry{
	wasm.OpcodeI32Store:   {wasm.ValueTypeI32, 32},
	wasm.OpcodeI64Store:   {wasm.ValueTypeI64, 64},
	wasm.OpcodeF32Store:   {wasm.ValueTypeF32, 32},
	wasm.OpcodeF64Store:   {wasm.ValueTypeF64, 64},
	wasm.OpcodeI32Store8:  {wasm.ValueTypeI32, 8},
	wasm.OpcodeI32Store16: {wasm.ValueTypeI32, 16},
	wasm.OpcodeI64Store8:  {wasm.ValueTypeI64, 8},
	wasm.OpcodeI64Store16: {wasm.ValueTypeI64, 16},
	wasm.OpcodeI64Store32: {wasm.ValueTypeI64, 32},
}

var unaryTable = map[wasm.Opcode]unaryEntry{
	wasm.OpcodeI32Eqz: {xlate.OpEqz, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI64Eqz: {xlate.OpEqz, wasm.ValueTypeI64, wasm.ValueTypeI32},

	wasm.OpcodeI32Clz:    {xlate.OpClz, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Ctz:    {xlate.OpCtz, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Popcnt: {xlate.OpPopcnt, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI64Clz:    {xlate.OpClz, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Ctz:    {xlate.OpCtz, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Popcnt: {xlate.OpPopcnt, wasm.ValueTypeI64, wasm.ValueTypeI64},

	wasm.OpcodeF32Abs:     {xlate.OpAbs, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Neg:     {xlate.OpNeg, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Ceil:    {xlate.OpCeil, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Floor:   {xlate.OpFloor, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Trunc:   {xlate.OpTrunc, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Nearest: {xlate.OpNearest, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Sqrt:    {xlate.OpSqrt, wasm.ValueTypeF32, wasm.ValueTypeF32},

	wasm.OpcodeF64Abs:     {xlate.OpAbs, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Neg:     {xlate.OpNeg, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Ceil:    {xlate.OpCeil, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Floor:   {xlate.OpFloor, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Trunc:   {xlate.OpTrunc, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Nearest: {xlate.OpNearest, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Sqrt:    {xlate.OpSqrt, wasm.ValueTypeF64, wasm.ValueTypeF64},

	wasm.OpcodeI32WrapI64:    {xlate.OpWrap, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64ExtendI32S: {xlate.OpExtend, wasm.ValueTypeI32, wasm.ValueTypeI64},
	wasm.OpcodeI64ExtendI32U: {xlate.OpExtend, wasm.ValueTypeI32, wasm.ValueTypeI64},

	wasm.OpcodeI32TruncF32S: {xlate.OpTrunc, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeI32TruncF32U: {xlate.OpTrunc, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeI32TruncF64S: {xlate.OpTrunc, wasm.ValueTypeF64, wasm.ValueTypeI32},
	wasm.OpcodeI32TruncF64U: {xlate.OpTrunc, wasm.ValueTypeF64, wasm.ValueTypeI32},
	wasm.OpcodeI64TruncF32S: {xlate.OpTrunc, wasm.ValueTypeF32, wasm.ValueTypeI64},
	wasm.OpcodeI64TruncF32U: {xlate.OpTrunc, wasm.ValueTypeF32, wasm.ValueTypeI64},
	wasm.OpcodeI64TruncF64S: {xlate.OpTrunc, wasm.ValueTypeF64, wasm.ValueTypeI64},
	wasm.OpcodeI64TruncF64U: {xlate.OpTrunc, wasm.ValueTypeF64, wasm.ValueTypeI64},

	wasm.OpcodeF32ConvertI32S: {xlate.OpConvert, wasm.ValueTypeI32, wasm.ValueTypeF32},
	wasm.OpcodeF32ConvertI32U: {xlate.OpConvert, wasm.ValueTypeI32, wasm.ValueTypeF32},
	wasm.OpcodeF32ConvertI64S: {xlate.OpConvert, wasm.ValueTypeI64, wasm.ValueTypeF32},
	wasm.OpcodeF32ConvertI64U: {xlate.OpConvert, wasm.ValueTypeI64, wasm.ValueTypeF32},
	wasm.OpcodeF64ConvertI32S: {xlate.OpConvert, wasm.ValueTypeI32, wasm.ValueTypeF64},
	wasm.OpcodeF64ConvertI32U: {xlate.OpConvert, wasm.ValueTypeI32, wasm.ValueTypeF64},
	wasm.OpcodeF64ConvertI64S: {xlate.OpConvert, wasm.ValueTypeI64, wasm.ValueTypeF64},
	wasm.OpcodeF64ConvertI64U: {xlate.OpConvert, wasm.ValueTypeI64, wasm.ValueTypeF64},

	wasm.OpcodeF32DemoteF64:  {xlate.OpDemote, wasm.ValueTypeF64, wasm.ValueTypeF32},
	wasm.OpcodeF64PromoteF32: {xlate.OpPromote, wasm.ValueTypeF32, wasm.ValueTypeF64},

	wasm.OpcodeI32ReinterpretF32: {xlate.OpReinterpret, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeI64ReinterpretF64: {xlate.OpReinterpret, wasm.ValueTypeF64, wasm.ValueTypeI64},
	wasm.OpcodeF32ReinterpretI32: {xlate.OpReinterpret, wasm.ValueTypeI32, wasm.ValueTypeF32},
	wasm.OpcodeF64ReinterpretI64: {xlate.OpReinterpret, wasm.ValueTypeI64, wasm.ValueTypeF64},

	wasm.OpcodeI32Extend8S:  {xlate.OpExtendSigned8, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Extend16S: {xlate.OpExtendSigned16, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI64Extend8S:  {xlate.OpExtendSigned8, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Extend16S: {xlate.OpExtendSigned16, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Extend32S: {xlate.OpExtendSigned32, wasm.ValueTypeI64, wasm.ValueTypeI64},
}

var binaryTable = map[wasm.Opcode]binaryEntry{
	wasm.OpcodeI32Eq:  {xlate.OpEq, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Ne:  {xlate.OpNe, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32LtS: {xlate.OpLtS, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32LtU: {xlate.OpLtU, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32GtS: {xlate.OpGtS, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32GtU: {xlate.OpGtU, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32LeS: {xlate.OpLeS, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32LeU: {xlate.OpLeU, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32GeS: {xlate.OpGeS, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32GeU: {xlate.OpGeU, wasm.ValueTypeI32, wasm.ValueTypeI32},

	wasm.OpcodeI64Eq:  {xlate.OpEq, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64Ne:  {xlate.OpNe, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64LtS: {xlate.OpLtS, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64LtU: {xlate.OpLtU, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64GtS: {xlate.OpGtS, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64GtU: {xlate.OpGtU, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64LeS: {xlate.OpLeS, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64LeU: {xlate.OpLeU, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64GeS: {xlate.OpGeS, wasm.ValueTypeI64, wasm.ValueTypeI32},
	wasm.OpcodeI64GeU: {xlate.OpGeU, wasm.ValueTypeI64, wasm.ValueTypeI32},

	wasm.OpcodeF32Eq: {xlate.OpEq, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeF32Ne: {xlate.OpNe, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeF32Lt: {xlate.OpLtS, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeF32Gt: {xlate.OpGtS, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeF32Le: {xlate.OpLeS, wasm.ValueTypeF32, wasm.ValueTypeI32},
	wasm.OpcodeF32Ge: {xlate.OpGeS, wasm.ValueTypeF32, wasm.ValueTypeI32},

	wasm.OpcodeF64Eq: {xlate.OpEq, wasm.ValueTypeF64, wasm.ValueTypeI32},
	wasm.OpcodeF64Ne: {xlate.OpNe, wasm.ValueTypeF64, wasm.ValueTypeI32},
	wasm.OpcodeF64Lt: {xlate.OpLtS, wasm.ValueTypeF64, wasm.ValueTypeI32},
	wasm.OpcodeF64Gt: {xlate.OpGtS, wasm.ValueTypeF64, wasm.ValueTypeI32},
	wasm.OpcodeF64Le: {xlate.OpLeS, wasm.ValueTypeF64, wasm.ValueTypeI32},
	wasm.OpcodeF64Ge: {xlate.OpGeS, wasm.ValueTypeF64, wasm.ValueTypeI32},

	wasm.OpcodeI32Add:  {xlate.OpAdd, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Sub:  {xlate.OpSub, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Mul:  {xlate.OpMul, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32DivS: {xlate.OpDivS, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32DivU: {xlate.OpDivU, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32RemS: {xlate.OpRemS, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32RemU: {xlate.OpRemU, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32And:  {xlate.OpAnd, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Or:   {xlate.OpOr, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Xor:  {xlate.OpXor, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Shl:  {xlate.OpShl, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32ShrS: {xlate.OpShrS, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32ShrU: {xlate.OpShrU, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Rotl: {xlate.OpRotl, wasm.ValueTypeI32, wasm.ValueTypeI32},
	wasm.OpcodeI32Rotr: {xlate.OpRotr, wasm.ValueTypeI32, wasm.ValueTypeI32},

	wasm.OpcodeI64Add:  {xlate.OpAdd, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Sub:  {xlate.OpSub, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Mul:  {xlate.OpMul, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64DivS: {xlate.OpDivS, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64DivU: {xlate.OpDivU, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64RemS: {xlate.OpRemS, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64RemU: {xlate.OpRemU, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64And:  {xlate.OpAnd, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Or:   {xlate.OpOr, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Xor:  {xlate.OpXor, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Shl:  {xlate.OpShl, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64ShrS: {xlate.OpShrS, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64ShrU: {xlate.OpShrU, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Rotl: {xlate.OpRotl, wasm.ValueTypeI64, wasm.ValueTypeI64},
	wasm.OpcodeI64Rotr: {xlate.OpRotr, wasm.ValueTypeI64, wasm.ValueTypeI64},

	wasm.OpcodeF32Add:      {xlate.OpAdd, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Sub:      {xlate.OpSub, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Mul:      {xlate.OpMul, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Div:      {xlate.OpDivS, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Min:      {xlate.OpMin, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Max:      {xlate.OpMax, wasm.ValueTypeF32, wasm.ValueTypeF32},
	wasm.OpcodeF32Copysign: {xlate.OpCopysign, wasm.ValueTypeF32, wasm.ValueTypeF32},

	wasm.OpcodeF64Add:      {xlate.OpAdd, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Sub:      {xlate.OpSub, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Mul:      {xlate.OpMul, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Div:      {xlate.OpDivS, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Min:      {xlate.OpMin, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Max:      {xlate.OpMax, wasm.ValueTypeF64, wasm.ValueTypeF64},
	wasm.OpcodeF64Copysign: {xlate.OpCopysign, wasm.ValueTypeF64, wasm.ValueTypeF64},
}
