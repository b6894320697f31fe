package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleVerifierSet(t *testing.T) VerifierSet {
	t.Helper()
	ecdsa, err := NewEcdsaPublicKey(make([]byte, 33))
	require.NoError(t, err)
	ed, err := NewEd25519PublicKey(make([]byte, 32))
	require.NoError(t, err)
	return VerifierSet{
		Signers: []Signer{
			{PubKey: ecdsa, Weight: Uint128FromUint64(10)},
			{PubKey: ed, Weight: Uint128FromUint64(20)},
		},
		Nonce:           7,
		Quorum:          Uint128FromUint64(15),
		DomainSeparator: [32]byte{1, 2, 3},
	}
}

func TestVerifierSetRoundTrip(t *testing.T) {
	vs := sampleVerifierSet(t)

	e := NewEncoder(256)
	require.NoError(t, EncodeVerifierSet(e, vs))

	d := NewDecoder(e.Bytes())
	got, err := DecodeVerifierSet(d)
	require.NoError(t, err)
	require.NoError(t, d.Done())
	require.Equal(t, vs, got)
}

func TestVerifierSetEmptyRejected(t *testing.T) {
	e := NewEncoder(16)
	err := EncodeVerifierSet(e, VerifierSet{DomainSeparator: [32]byte{}})
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestVerifierSetLeafRoundTrip(t *testing.T) {
	vs := sampleVerifierSet(t)
	leaf, err := vs.Leaf(1)
	require.NoError(t, err)
	require.Equal(t, uint16(1), leaf.Position)
	require.Equal(t, uint16(2), leaf.SetSize)

	e := NewEncoder(128)
	leaf.Encode(e)
	got, err := DecodeVerifierSetLeaf(NewDecoder(e.Bytes()))
	require.NoError(t, err)
	require.Equal(t, leaf, got)
}

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		CCID:               CrossChainID{SourceChain: "ethereum", ID: "0xabc"},
		SourceAddress:      "0xSrc",
		DestinationChain:   "solana",
		DestinationAddress: "11111111111111111111111111111111",
		PayloadHash:        [32]byte{0x11, 0x11},
	}
	e := NewEncoder(128)
	msg.Encode(e)
	got, err := DecodeMessage(NewDecoder(e.Bytes()))
	require.NoError(t, err)
	require.Equal(t, msg, got)
}

func TestPayloadRoundTripMessages(t *testing.T) {
	p := NewMessagesPayload([]Message{{
		CCID:               CrossChainID{SourceChain: "ethereum", ID: "1"},
		DestinationAddress: "11111111111111111111111111111111",
		PayloadHash:        [32]byte{9},
	}})
	e := NewEncoder(128)
	require.NoError(t, EncodePayload(e, p))
	got, err := DecodePayload(NewDecoder(e.Bytes()))
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestPayloadRoundTripNewVerifierSet(t *testing.T) {
	vs := sampleVerifierSet(t)
	p := NewVerifierSetPayload(vs)
	e := NewEncoder(256)
	require.NoError(t, EncodePayload(e, p))
	got, err := DecodePayload(NewDecoder(e.Bytes()))
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestDecoderTruncated(t *testing.T) {
	d := NewDecoder([]byte{1, 2})
	_, err := d.ReadUint32()
	require.ErrorIs(t, err, ErrTruncated)
}

func TestDecoderTrailingBytes(t *testing.T) {
	e := NewEncoder(8)
	e.WriteUint32(42)
	d := NewDecoder(append(e.Bytes(), 0xFF))
	_, err := d.ReadUint32()
	require.NoError(t, err)
	require.ErrorIs(t, d.Done(), ErrTrailingBytes)
}

func TestUint128SaturatingAdd(t *testing.T) {
	a := Uint128{Lo: ^uint64(0) - 1, Hi: ^uint64(0)}
	got := a.SaturatingAdd(Uint128FromUint64(2))
	require.Equal(t, MaxUint128, got)
}

func TestUint128Cmp(t *testing.T) {
	require.Equal(t, -1, Uint128FromUint64(1).Cmp(Uint128FromUint64(2)))
	require.Equal(t, 0, Uint128FromUint64(5).Cmp(Uint128FromUint64(5)))
	require.Equal(t, 1, Uint128FromUint64(9).Cmp(Uint128FromUint64(2)))
}
