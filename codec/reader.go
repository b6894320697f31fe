package codec

import (
	"encoding/binary"
	"fmt"
)

// Decoder reads the encoding Encoder produces, enforcing that every field
// is fully present before returning it. A Decoder never panics on short
// input; every read that would run past the end of the buffer returns
// ErrTruncated instead.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps b for sequential decoding. b is not copied; callers must
// not mutate it while decoding is in progress.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Remaining reports how many bytes are left unconsumed.
func (d *Decoder) Remaining() int { return len(d.buf) - d.pos }

// Done returns ErrTrailingBytes if the buffer was not fully consumed. The
// Decode* functions in this package do not call it themselves; a caller
// decoding a whole buffer calls Done afterwards so that extra trailing bytes
// are not silently accepted.
func (d *Decoder) Done() error {
	if d.Remaining() != 0 {
		return fmt.Errorf("%w: %d bytes left", ErrTrailingBytes, d.Remaining())
	}
	return nil
}

func (d *Decoder) take(n int) ([]byte, error) {
	if d.Remaining() < n {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrTruncated, n, d.Remaining())
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

// ReadByte reads a single tagged-sum discriminant byte.
func (d *Decoder) ReadByte() (byte, error) {
	b, err := d.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadFixed reads exactly n raw bytes with no length prefix.
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	b, err := d.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadUint16 reads a little-endian u16.
func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadUint32 reads a little-endian u32.
func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadUint64 reads a little-endian u64.
func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadUint128 reads a little-endian u128.
func (d *Decoder) ReadUint128() (Uint128, error) {
	b, err := d.take(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128FromLE(b), nil
}

// ReadBytes reads a u32-LE length prefix followed by that many raw bytes.
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return nil, err
	}
	return d.ReadFixed(int(n))
}

// ReadString reads a u32-LE length prefix followed by that many UTF-8 bytes.
func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadContainerLen reads the u16-LE element count prefixing a sequence.
func (d *Decoder) ReadContainerLen() (int, error) {
	n, err := d.ReadUint16()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
