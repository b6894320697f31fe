// Package signing issues and verifies COSE_Sign1 receipts for two
// operator-facing fast paths the engine supports on top of the base
// quorum-signature protocol: an operator co-signature that bypasses the
// rotation delay (§4.6), and a session-quorum receipt a relying party can
// cache instead of re-walking Merkle proofs for every query. Both are
// administrative conveniences layered over, never a substitute for, the
// signer-set quorum check in gateway.
package signing

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/errkind"
)

// ErrSignFailure wraps any failure constructing or signing a receipt.
var ErrSignFailure = errkind.New(errkind.CryptoFailure, "signing: failed to produce receipt")

// ErrVerifyFailure wraps any failure decoding a receipt, checking its
// signature, or decoding its claims. Verify does not compare the decoded
// claims with any expected values; that check is left to the caller.
var ErrVerifyFailure = errkind.New(errkind.CryptoFailure, "signing: receipt verification failed")

// ReceiptKind distinguishes the two receipt payloads this package issues.
type ReceiptKind string

const (
	// ReceiptOperatorBypass attests that an operator key co-signed a
	// rotation instruction to bypass the minimum rotation delay.
	ReceiptOperatorBypass ReceiptKind = "operator-bypass"
	// ReceiptSessionQuorum attests that a signature-verification session
	// reached Valid for a given payload_root/signing_vs_root pair.
	ReceiptSessionQuorum ReceiptKind = "session-quorum"
)

// Claims is the CBOR-encoded payload carried inside the COSE_Sign1 receipt.
type Claims struct {
	Kind           ReceiptKind `cbor:"1,keyasint"`
	PayloadRoot    [32]byte    `cbor:"2,keyasint"`
	SigningVSRoot  [32]byte    `cbor:"3,keyasint"`
	Epoch          uint64      `cbor:"4,keyasint"`
	IssuedAtUnix   int64       `cbor:"5,keyasint"`
}

// Signer issues COSE_Sign1 receipts under a single Ed25519 operator key.
// COSE is used rather than a bare signature so the receipt self-describes
// its algorithm and can be verified by any COSE-aware relying party, not
// just this module.
type Signer struct {
	key    ed25519.PrivateKey
	signer cose.Signer
}

// NewSigner constructs a Signer from an Ed25519 private key.
func NewSigner(key ed25519.PrivateKey) (*Signer, error) {
	s, err := cose.NewSigner(cose.AlgorithmEdDSA, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignFailure, err)
	}
	return &Signer{key: key, signer: s}, nil
}

// Sign produces a COSE_Sign1 receipt over claims, detached from any
// external AAD (none is used by this protocol).
func (s *Signer) Sign(_ context.Context, claims Claims) ([]byte, error) {
	payload, err := cbor.Marshal(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding claims: %v", ErrSignFailure, err)
	}

	msg := cose.NewSign1Message()
	msg.Payload = payload
	if err := msg.Headers.Protected.SetAlgorithm(cose.AlgorithmEdDSA); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignFailure, err)
	}

	if err := msg.Sign(rand.Reader, nil, s.signer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignFailure, err)
	}
	out, err := msg.MarshalCBOR()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSignFailure, err)
	}
	return out, nil
}

// Verifier checks COSE_Sign1 receipts against a single operator public key.
type Verifier struct {
	pub      ed25519.PublicKey
	verifier cose.Verifier
}

// NewVerifier constructs a Verifier from an Ed25519 public key.
func NewVerifier(pub ed25519.PublicKey) (*Verifier, error) {
	v, err := cose.NewVerifier(cose.AlgorithmEdDSA, pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerifyFailure, err)
	}
	return &Verifier{pub: pub, verifier: v}, nil
}

// Verify checks receipt's signature and decodes its claims.
func (v *Verifier) Verify(_ context.Context, receipt []byte) (Claims, error) {
	msg := cose.NewSign1Message()
	if err := msg.UnmarshalCBOR(receipt); err != nil {
		return Claims{}, fmt.Errorf("%w: decoding envelope: %v", ErrVerifyFailure, err)
	}
	if err := msg.Verify(nil, v.verifier); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrVerifyFailure, err)
	}
	var claims Claims
	if err := cbor.Unmarshal(msg.Payload, &claims); err != nil {
		return Claims{}, fmt.Errorf("%w: decoding claims: %v", ErrVerifyFailure, err)
	}
	return claims, nil
}
