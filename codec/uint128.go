package codec

import "math/bits"

// Uint128 is a 128-bit unsigned integer, used for signer weights and quorum
// thresholds exactly as the Rust reference represents them (u128). Go has no
// native 128-bit integer, so this is the deterministic little-endian pair
// the wire encoding in §4.1 requires: Lo is the low 64 bits, Hi is the high
// 64 bits.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

// MaxUint128 is the terminal "valid" sentinel a signature-verification
// session latches its accumulated threshold to once quorum is reached.
var MaxUint128 = Uint128{Lo: ^uint64(0), Hi: ^uint64(0)}

// Uint128FromUint64 widens a uint64 into a Uint128.
func Uint128FromUint64(v uint64) Uint128 { return Uint128{Lo: v} }

// IsZero reports whether the value is zero.
func (u Uint128) IsZero() bool { return u.Lo == 0 && u.Hi == 0 }

// Cmp returns -1, 0 or 1 as u < v, u == v, u > v.
func (u Uint128) Cmp(v Uint128) int {
	if u.Hi != v.Hi {
		if u.Hi < v.Hi {
			return -1
		}
		return 1
	}
	if u.Lo != v.Lo {
		if u.Lo < v.Lo {
			return -1
		}
		return 1
	}
	return 0
}

// SaturatingAdd adds v to u, saturating at MaxUint128 on overflow instead of
// wrapping. This mirrors the Rust reference's saturating_add used when
// accumulating signer weight (§4.2 step 4).
func (u Uint128) SaturatingAdd(v Uint128) Uint128 {
	lo, carry := bits.Add64(u.Lo, v.Lo, 0)
	hi, carry2 := bits.Add64(u.Hi, v.Hi, carry)
	if carry2 != 0 {
		return MaxUint128
	}
	return Uint128{Lo: lo, Hi: hi}
}

// PutLE writes u to a 16-byte little-endian buffer.
func (u Uint128) PutLE(b []byte) {
	_ = b[15]
	for i := 0; i < 8; i++ {
		b[i] = byte(u.Lo >> (8 * i))
	}
	for i := 0; i < 8; i++ {
		b[8+i] = byte(u.Hi >> (8 * i))
	}
}

// Uint128FromLE reads a Uint128 from a 16-byte little-endian buffer.
func Uint128FromLE(b []byte) Uint128 {
	_ = b[15]
	var lo, hi uint64
	for i := 0; i < 8; i++ {
		lo |= uint64(b[i]) << (8 * i)
	}
	for i := 0; i < 8; i++ {
		hi |= uint64(b[8+i]) << (8 * i)
	}
	return Uint128{Lo: lo, Hi: hi}
}
