package wasmbin

// LEB128 encoding/decoding for the WASM binary format (WASM spec §5.2.2).
// Grounded conceptually on the wazero-derived reference shape in
// other_examples (wazero's own encoder package is unexported and
// unimportable, so this is a fresh implementation of the same well-known
// algorithm).

// PutUvarint appends an unsigned LEB128 encoding of v to buf.
func PutUvarint(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

// PutVarint appends a signed LEB128 encoding of v to buf.
func PutVarint(buf []byte, v int64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			buf = append(buf, b)
			return buf
		}
		buf = append(buf, b|0x80)
	}
}

// ReadUvarint reads an unsigned LEB128 value starting at offset off,
// returning the value and the offset just past it.
func ReadUvarint(data []byte, off int) (uint64, int, error) {
	var result uint64
	var shift uint
	for {
		if off >= len(data) {
			return 0, off, errUnexpectedEOF
		}
		b := data[off]
		off++
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, off, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, off, errMalformedVarint
		}
	}
}

// ReadVarint reads a signed LEB128 value starting at offset off.
func ReadVarint(data []byte, off int) (int64, int, error) {
	var result int64
	var shift uint
	var b byte
	for {
		if off >= len(data) {
			return 0, off, errUnexpectedEOF
		}
		b = data[off]
		off++
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			break
		}
		if shift >= 64 {
			return 0, off, errMalformedVarint
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	return result, off, nil
}
