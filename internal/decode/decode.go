// Package decode walks a Wasm function body's raw opcode stream and
// drives an internal/xlate.Translator through it, filling the Parser
// role spec.md's External Interfaces describe: decoding immediates
// (LEB128 indices, memargs, block types, br_table target vectors) and
// calling the one Translator method that corresponds to each opcode.
package decode

import (
	"github.com/tsandall/wazeroir-xlate/internal/leb128"
	"github.com/tsandall/wazeroir-xlate/internal/wasm"
	"github.com/tsandall/wazeroir-xlate/internal/xlate"
)

// FunctionBody is the raw material for one function's translation: its
// declared locals (already expanded from compressed local-type runs into
// one entry per local, including the aliased parameters at the front)
// and its code bytes (the whole instruction stream, including the
// function's own closing 0x0b, which Decode consumes as the body's end).
type FunctionBody struct {
	Locals []wasm.ValueType
	Code   []byte
}

// Decode translates one function body into an InstructionSequence.
func Decode(cfg xlate.EngineConfig, mod wasm.ModuleContext, interner wasm.TypeInterner, funcIndex wasm.Index, funcType *wasm.FunctionType, body FunctionBody) (*xlate.InstructionSequence, error) {
	t := xlate.NewTranslator(cfg, mod, interner)
	if err := t.Begin(funcIndex, funcType, len(body.Locals), len(body.Code)); err != nil {
		return nil, err
	}

	d := &decoder{buf: body.Code, locals: body.Locals, t: t, mod: mod}
	if err := d.run(); err != nil {
		return nil, err
	}
	return t.Finalize()
}

type decoder struct {
	buf    []byte
	pos    int
	locals []wasm.ValueType
	t      *xlate.Translator
	mod    wasm.ModuleContext

	// depth tracks open block/loop/if nesting relative to the function
	// body's own implicit outer frame, so dispatch can tell the
	// function's closing `end` apart from a nested one.
	depth int
}

func (d *decoder) byte() (byte, error) {
	if d.pos >= len(d.buf) {
		return 0, newTruncated()
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) u32() (uint32, error) {
	v, n, err := leb128.LoadUint32(d.buf[d.pos:])
	if err != nil {
		return 0, err
	}
	d.pos += int(n)
	return v, nil
}

func (d *decoder) u64() (uint64, error) {
	v, n, err := leb128.LoadUint64(d.buf[d.pos:])
	if err != nil {
		return 0, err
	}
	d.pos += int(n)
	return v, nil
}

func (d *decoder) i32() (int32, error) {
	v, n, err := leb128.LoadInt32(d.buf[d.pos:])
	if err != nil {
		return 0, err
	}
	d.pos += int(n)
	return v, nil
}

func (d *decoder) i64() (int64, error) {
	v, n, err := leb128.LoadInt64(d.buf[d.pos:])
	if err != nil {
		return 0, err
	}
	d.pos += int(n)
	return v, nil
}

func (d *decoder) f32Bits() (uint64, error) {
	if d.pos+4 > len(d.buf) {
		return 0, newTruncated()
	}
	b := d.buf[d.pos : d.pos+4]
	d.pos += 4
	return uint64(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24), nil
}

func (d *decoder) f64Bits() (uint64, error) {
	if d.pos+8 > len(d.buf) {
		return 0, newTruncated()
	}
	b := d.buf[d.pos : d.pos+8]
	d.pos += 8
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v, nil
}

func (d *decoder) memarg() (xlate.MemArg, error) {
	align, err := d.u32()
	if err != nil {
		return xlate.MemArg{}, err
	}
	off, err := d.u64()
	if err != nil {
		return xlate.MemArg{}, err
	}
	return xlate.MemArg{Align: align, Offset: off, Memory: 0}, nil
}

// blockType decodes a Wasm blocktype: 0x40 (empty), a single value-type
// byte, or a signed LEB128 s33 type index. The three special forms are
// all single bytes with the LEB128 continuation bit clear, so peeking
// the first byte and matching it against the known set is unambiguous
// (spec.md §9 supplemented multi-value block-type resolution).
func (d *decoder) blockType() (*wasm.FunctionType, error) {
	b := d.buf[d.pos]
	switch wasm.ValueType(b) {
	case 0x40:
		d.pos++
		return &wasm.FunctionType{}, nil
	case wasm.ValueTypeI32, wasm.ValueTypeI64, wasm.ValueTypeF32, wasm.ValueTypeF64,
		wasm.ValueTypeFuncref, wasm.ValueTypeExternref:
		d.pos++
		return &wasm.FunctionType{Results: []wasm.ValueType{wasm.ValueType(b)}}, nil
	}
	idx, err := d.i64()
	if err != nil {
		return nil, err
	}
	ft, err := d.mod.ResolveBlockType(wasm.BlockType{TypeIndex: wasm.Index(idx)})
	if err != nil {
		return nil, err
	}
	return ft, nil
}

func newTruncated() error {
	return &truncatedError{}
}

type truncatedError struct{}

func (*truncatedError) Error() string { return "decode: truncated function body" }
