package codec

import (
	"encoding/binary"
	"fmt"
)

// MaxContainerLen is the largest number of elements a length-prefixed
// container (a VerifierSet's signers, a Messages payload's message list) may
// hold. Exceeding it is ErrEncodingFailure.
const MaxContainerLen = int(^uint16(0))

// Encoder builds the deterministic, unambiguous binary encoding specified in
// §4.1: every value is length-prefixed or tagged so that no two distinct
// values produce the same byte string.
//
//   - strings are length-prefixed UTF-8 (u32 LE length, then bytes)
//   - byte arrays are length-prefixed raw bytes (u32 LE length, then bytes)
//   - fixed-width integers are little-endian
//   - tagged sums carry a single discriminant byte before the payload
//   - containers (sequences) carry their element count as a u16 LE prefix
//
// Encoder is a thin byte-buffer accumulator; it never itself fails except
// when asked to write an oversized container, so the Write* methods return
// nothing and only WriteContainerLen returns an error.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with a pre-sized backing buffer.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// WriteByte appends a single byte (used as a tagged-sum discriminant).
func (e *Encoder) WriteByte(b byte) { e.buf = append(e.buf, b) }

// WriteFixed appends raw bytes with no length prefix; used for fixed-width
// fields whose width is implied by the schema (domain separators, hashes).
func (e *Encoder) WriteFixed(b []byte) { e.buf = append(e.buf, b...) }

// WriteUint16 appends a little-endian u16.
func (e *Encoder) WriteUint16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteUint32 appends a little-endian u32.
func (e *Encoder) WriteUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteUint64 appends a little-endian u64.
func (e *Encoder) WriteUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteUint128 appends a little-endian u128.
func (e *Encoder) WriteUint128(v Uint128) {
	var tmp [16]byte
	v.PutLE(tmp[:])
	e.buf = append(e.buf, tmp[:]...)
}

// WriteBytes appends a u32-LE length prefix followed by the raw bytes.
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteUint32(uint32(len(b)))
	e.buf = append(e.buf, b...)
}

// WriteString appends a u32-LE length prefix followed by the UTF-8 bytes.
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// WriteContainerLen appends the u16-LE element count for a sequence, failing
// if the sequence is too large to represent.
func (e *Encoder) WriteContainerLen(n int) error {
	if n > MaxContainerLen {
		return fmt.Errorf("%w: %d elements", ErrEncodingFailure, n)
	}
	e.WriteUint16(uint16(n))
	return nil
}
