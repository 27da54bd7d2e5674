// Package leb128 decodes the variable-length integers used throughout the
// WebAssembly binary format. Only decoding is needed: internal/decode walks
// a function body's raw bytes and never re-encodes them. The API shape
// (Load* operating directly on a []byte and returning the value plus the
// number of bytes consumed, with no intermediate io.Reader) mirrors the
// teacher's own leb128 package, whose source was pruned from this
// retrieval to its tests (internal/leb128/leb128_test.go,
// leb128_alloc_test.go) but whose signatures survive there.
package leb128

import "fmt"

// LoadUint32 decodes an unsigned 32-bit LEB128 integer from buf starting at
// offset 0, returning the value and the number of bytes consumed.
func LoadUint32(buf []byte) (uint32, uint32, error) {
	v, n, err := loadUint(buf, 32)
	return uint32(v), n, err
}

// LoadUint64 decodes an unsigned 64-bit LEB128 integer.
func LoadUint64(buf []byte) (uint64, uint32, error) {
	return loadUint(buf, 64)
}

// LoadInt32 decodes a signed 32-bit LEB128 integer.
func LoadInt32(buf []byte) (int32, uint32, error) {
	v, n, err := loadInt(buf, 32)
	return int32(v), n, err
}

// LoadInt64 decodes a signed 64-bit LEB128 integer.
func LoadInt64(buf []byte) (int64, uint32, error) {
	return loadInt(buf, 64)
}

func loadUint(buf []byte, size int) (uint64, uint32, error) {
	var result uint64
	var shift uint
	var n uint32
	for {
		if int(n) >= len(buf) {
			return 0, 0, fmt.Errorf("leb128: unexpected end of buffer decoding unsigned %d-bit integer", size)
		}
		b := buf[n]
		n++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, 0, fmt.Errorf("leb128: unsigned %d-bit integer overflows 64 bits", size)
		}
	}
	return result, n, nil
}

func loadInt(buf []byte, size int) (int64, uint32, error) {
	var result int64
	var shift uint
	var n uint32
	var b byte
	for {
		if int(n) >= len(buf) {
			return 0, 0, fmt.Errorf("leb128: unexpected end of buffer decoding signed %d-bit integer", size)
		}
		b = buf[n]
		n++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, 0, fmt.Errorf("leb128: signed %d-bit integer overflows 64 bits", size)
		}
	}
	// Sign extend if the sign bit of the last byte read is set and there
	// are remaining bits in the target width.
	if shift < uint(size) && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, n, nil
}
