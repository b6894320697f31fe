package codec

import "fmt"

// PublicKeyTag discriminates the two signature schemes a signer may use.
type PublicKeyTag byte

const (
	PublicKeyEcdsa   PublicKeyTag = 0
	PublicKeyEd25519 PublicKeyTag = 1
)

// PublicKey is a tagged sum over the two key encodings the protocol accepts:
// a 33-byte compressed secp256k1 point, or a 32-byte Ed25519 point.
type PublicKey struct {
	Tag PublicKeyTag
	// Bytes holds the compressed key: 33 bytes for Ecdsa, 32 for Ed25519.
	Bytes []byte
}

func NewEcdsaPublicKey(b []byte) (PublicKey, error) {
	if len(b) != 33 {
		return PublicKey{}, fmt.Errorf("%w: ecdsa key must be 33 bytes, got %d", ErrBadFixedWidth, len(b))
	}
	return PublicKey{Tag: PublicKeyEcdsa, Bytes: append([]byte(nil), b...)}, nil
}

func NewEd25519PublicKey(b []byte) (PublicKey, error) {
	if len(b) != 32 {
		return PublicKey{}, fmt.Errorf("%w: ed25519 key must be 32 bytes, got %d", ErrBadFixedWidth, len(b))
	}
	return PublicKey{Tag: PublicKeyEd25519, Bytes: append([]byte(nil), b...)}, nil
}

// Encode appends the tagged encoding of the key: one discriminant byte
// followed by the fixed-width key bytes (no length prefix — width is
// implied by the tag).
func (k PublicKey) Encode(e *Encoder) {
	e.WriteByte(byte(k.Tag))
	e.WriteFixed(k.Bytes)
}

// DecodePublicKey reads a tagged public key previously written by Encode.
func DecodePublicKey(d *Decoder) (PublicKey, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return PublicKey{}, err
	}
	switch PublicKeyTag(tag) {
	case PublicKeyEcdsa:
		b, err := d.ReadFixed(33)
		if err != nil {
			return PublicKey{}, err
		}
		return PublicKey{Tag: PublicKeyEcdsa, Bytes: b}, nil
	case PublicKeyEd25519:
		b, err := d.ReadFixed(32)
		if err != nil {
			return PublicKey{}, err
		}
		return PublicKey{Tag: PublicKeyEd25519, Bytes: b}, nil
	default:
		return PublicKey{}, fmt.Errorf("%w: public key tag %d", ErrBadDiscriminant, tag)
	}
}

// Equal reports whether two public keys carry the same tag and bytes.
func (k PublicKey) Equal(other PublicKey) bool {
	if k.Tag != other.Tag || len(k.Bytes) != len(other.Bytes) {
		return false
	}
	for i := range k.Bytes {
		if k.Bytes[i] != other.Bytes[i] {
			return false
		}
	}
	return true
}

// Signer is one entry of a VerifierSet: a public key bound to its weight.
type Signer struct {
	PubKey PublicKey
	Weight Uint128
}

// VerifierSet is an ordered mapping from signer to weight, plus the
// parameters a signature-verification session checks against. Positions are
// assigned in the order Signers is given; neither this type nor its encoder
// sorts Signers or checks that they are in byte-wise order of (Tag, Bytes).
type VerifierSet struct {
	Signers         []Signer
	Nonce           uint64
	Quorum          Uint128
	DomainSeparator [32]byte
}

// Len returns the number of signers (set_size in the wire schema).
func (vs VerifierSet) Len() int { return len(vs.Signers) }

// Leaf returns the VerifierSetLeaf for the signer at position i.
func (vs VerifierSet) Leaf(i int) (VerifierSetLeaf, error) {
	if i < 0 || i >= len(vs.Signers) {
		return VerifierSetLeaf{}, fmt.Errorf("%w: position %d out of range for set of size %d", ErrBadFixedWidth, i, len(vs.Signers))
	}
	if len(vs.Signers) > MaxContainerLen {
		return VerifierSetLeaf{}, ErrEncodingFailure
	}
	return VerifierSetLeaf{
		DomainSeparator: vs.DomainSeparator,
		SignerPubKey:    vs.Signers[i].PubKey,
		SignerWeight:    vs.Signers[i].Weight,
		Nonce:           vs.Nonce,
		Quorum:          vs.Quorum,
		Position:        uint16(i),
		SetSize:         uint16(len(vs.Signers)),
	}, nil
}

// VerifierSetLeaf is the Merkleised unit of a VerifierSet: one signer's
// entry plus enough set-level context to bind the leaf unambiguously to its
// parent set and position.
type VerifierSetLeaf struct {
	DomainSeparator [32]byte
	SignerPubKey    PublicKey
	SignerWeight    Uint128
	Nonce           uint64
	Quorum          Uint128
	Position        uint16
	SetSize         uint16
}

// Encode appends the leaf's canonical encoding.
func (l VerifierSetLeaf) Encode(e *Encoder) {
	e.WriteFixed(l.DomainSeparator[:])
	l.SignerPubKey.Encode(e)
	e.WriteUint128(l.SignerWeight)
	e.WriteUint64(l.Nonce)
	e.WriteUint128(l.Quorum)
	e.WriteUint16(l.Position)
	e.WriteUint16(l.SetSize)
}

// DecodeVerifierSetLeaf reads a VerifierSetLeaf previously written by Encode.
func DecodeVerifierSetLeaf(d *Decoder) (VerifierSetLeaf, error) {
	var l VerifierSetLeaf
	ds, err := d.ReadFixed(32)
	if err != nil {
		return l, err
	}
	copy(l.DomainSeparator[:], ds)
	if l.SignerPubKey, err = DecodePublicKey(d); err != nil {
		return l, err
	}
	if l.SignerWeight, err = d.ReadUint128(); err != nil {
		return l, err
	}
	if l.Nonce, err = d.ReadUint64(); err != nil {
		return l, err
	}
	if l.Quorum, err = d.ReadUint128(); err != nil {
		return l, err
	}
	if l.Position, err = d.ReadUint16(); err != nil {
		return l, err
	}
	n, err := d.ReadUint16()
	if err != nil {
		return l, err
	}
	l.SetSize = n
	return l, nil
}

// CrossChainID identifies a message's chain of origin.
type CrossChainID struct {
	SourceChain string
	ID          string
}

func (c CrossChainID) Encode(e *Encoder) {
	e.WriteString(c.SourceChain)
	e.WriteString(c.ID)
}

func DecodeCrossChainID(d *Decoder) (CrossChainID, error) {
	var c CrossChainID
	var err error
	if c.SourceChain, err = d.ReadString(); err != nil {
		return c, err
	}
	if c.ID, err = d.ReadString(); err != nil {
		return c, err
	}
	return c, nil
}

// Message is one cross-chain message awaiting approval.
type Message struct {
	CCID                 CrossChainID
	SourceAddress        string
	DestinationChain     string
	DestinationAddress   string // base58-encoded 32-byte address
	PayloadHash          [32]byte
}

func (m Message) Encode(e *Encoder) {
	m.CCID.Encode(e)
	e.WriteString(m.SourceAddress)
	e.WriteString(m.DestinationChain)
	e.WriteString(m.DestinationAddress)
	e.WriteFixed(m.PayloadHash[:])
}

func DecodeMessage(d *Decoder) (Message, error) {
	var m Message
	var err error
	if m.CCID, err = DecodeCrossChainID(d); err != nil {
		return m, err
	}
	if m.SourceAddress, err = d.ReadString(); err != nil {
		return m, err
	}
	if m.DestinationChain, err = d.ReadString(); err != nil {
		return m, err
	}
	if m.DestinationAddress, err = d.ReadString(); err != nil {
		return m, err
	}
	ph, err := d.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.PayloadHash[:], ph)
	return m, nil
}

// MessageLeaf is the Merkleised unit of a Messages payload: one message plus
// enough set-level context to bind it to the verifier set that must sign
// for it and to its position within the batch.
type MessageLeaf struct {
	DomainSeparator          [32]byte
	Message                  Message
	Position                 uint16
	SetSize                  uint16
	SigningVerifierSetRoot   [32]byte
}

func (l MessageLeaf) Encode(e *Encoder) {
	e.WriteFixed(l.DomainSeparator[:])
	l.Message.Encode(e)
	e.WriteUint16(l.Position)
	e.WriteUint16(l.SetSize)
	e.WriteFixed(l.SigningVerifierSetRoot[:])
}

func DecodeMessageLeaf(d *Decoder) (MessageLeaf, error) {
	var l MessageLeaf
	ds, err := d.ReadFixed(32)
	if err != nil {
		return l, err
	}
	copy(l.DomainSeparator[:], ds)
	if l.Message, err = DecodeMessage(d); err != nil {
		return l, err
	}
	if l.Position, err = d.ReadUint16(); err != nil {
		return l, err
	}
	if l.SetSize, err = d.ReadUint16(); err != nil {
		return l, err
	}
	svr, err := d.ReadFixed(32)
	if err != nil {
		return l, err
	}
	copy(l.SigningVerifierSetRoot[:], svr)
	return l, nil
}

// PayloadTag discriminates the two kinds of payload a batch of signers can
// be asked to ratify.
type PayloadTag byte

const (
	PayloadMessages      PayloadTag = 0
	PayloadNewVerifierSet PayloadTag = 1
)

// Payload is a tagged sum: either an ordered batch of Messages to approve,
// or a NewVerifierSet to rotate to.
type Payload struct {
	Tag         PayloadTag
	Messages    []Message
	NewVerifier VerifierSet
}

func NewMessagesPayload(msgs []Message) Payload {
	return Payload{Tag: PayloadMessages, Messages: msgs}
}

func NewVerifierSetPayload(vs VerifierSet) Payload {
	return Payload{Tag: PayloadNewVerifierSet, NewVerifier: vs}
}
