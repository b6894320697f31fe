package codec

import (
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Keccak256 returns the keccak256 digest of the concatenation of chunks.
// Every hash in this module — leaf hashes, Merkle node hashes, command_id,
// domain-tagged payload roots — goes through this single helper so the
// choice of hash function lives in exactly one place.
func Keccak256(chunks ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// LeafHash returns keccak256(encode(leaf)) for any leaf type that can
// encode itself; §4.1 defines every leaf hash this way.
func LeafHash(encode func(*Encoder)) [32]byte {
	e := NewEncoder(128)
	encode(e)
	return Keccak256(e.Bytes())
}

// EncodeVerifierSet appends the canonical encoding of a VerifierSet: its
// domain separator, nonce and quorum, followed by the u16-prefixed sequence
// of signers in their stored (canonical) order.
func EncodeVerifierSet(e *Encoder, vs VerifierSet) error {
	if len(vs.Signers) == 0 {
		return ErrEmptyInput
	}
	e.WriteFixed(vs.DomainSeparator[:])
	e.WriteUint64(vs.Nonce)
	e.WriteUint128(vs.Quorum)
	if err := e.WriteContainerLen(len(vs.Signers)); err != nil {
		return err
	}
	for _, s := range vs.Signers {
		s.PubKey.Encode(e)
		e.WriteUint128(s.Weight)
	}
	return nil
}

// DecodeVerifierSet reads a VerifierSet previously written by
// EncodeVerifierSet.
func DecodeVerifierSet(d *Decoder) (VerifierSet, error) {
	var vs VerifierSet
	ds, err := d.ReadFixed(32)
	if err != nil {
		return vs, err
	}
	copy(vs.DomainSeparator[:], ds)
	if vs.Nonce, err = d.ReadUint64(); err != nil {
		return vs, err
	}
	if vs.Quorum, err = d.ReadUint128(); err != nil {
		return vs, err
	}
	n, err := d.ReadContainerLen()
	if err != nil {
		return vs, err
	}
	if n == 0 {
		return vs, ErrEmptyInput
	}
	vs.Signers = make([]Signer, n)
	for i := 0; i < n; i++ {
		pk, err := DecodePublicKey(d)
		if err != nil {
			return vs, err
		}
		w, err := d.ReadUint128()
		if err != nil {
			return vs, err
		}
		vs.Signers[i] = Signer{PubKey: pk, Weight: w}
	}
	return vs, nil
}

// EncodePayload appends the tagged encoding of a Payload: a discriminant
// byte followed by either the u16-prefixed sequence of Messages, or the
// encoded NewVerifierSet.
func EncodePayload(e *Encoder, p Payload) error {
	e.WriteByte(byte(p.Tag))
	switch p.Tag {
	case PayloadMessages:
		if len(p.Messages) == 0 {
			return ErrEmptyInput
		}
		if err := e.WriteContainerLen(len(p.Messages)); err != nil {
			return err
		}
		for _, m := range p.Messages {
			m.Encode(e)
		}
		return nil
	case PayloadNewVerifierSet:
		return EncodeVerifierSet(e, p.NewVerifier)
	default:
		return ErrBadDiscriminant
	}
}

// DecodePayload reads a Payload previously written by EncodePayload.
func DecodePayload(d *Decoder) (Payload, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return Payload{}, err
	}
	switch PayloadTag(tag) {
	case PayloadMessages:
		n, err := d.ReadContainerLen()
		if err != nil {
			return Payload{}, err
		}
		if n == 0 {
			return Payload{}, ErrEmptyInput
		}
		msgs := make([]Message, n)
		for i := 0; i < n; i++ {
			m, err := DecodeMessage(d)
			if err != nil {
				return Payload{}, err
			}
			msgs[i] = m
		}
		return Payload{Tag: PayloadMessages, Messages: msgs}, nil
	case PayloadNewVerifierSet:
		vs, err := DecodeVerifierSet(d)
		if err != nil {
			return Payload{}, err
		}
		return Payload{Tag: PayloadNewVerifierSet, NewVerifier: vs}, nil
	default:
		return Payload{}, fmt.Errorf("%w: payload tag %d", ErrBadDiscriminant, tag)
	}
}
