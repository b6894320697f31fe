// Package gateway implements the Gateway protocol's account state
// machines: configuration and operatorship (C7), the epoch tracker (C6),
// the signature-verification session (C2), message approval and execution
// (C3), and signer-set rotation (C6). It is the layer everything else
// (codec, merkle, sigverify, signing, store) is assembled into.
package gateway

import "github.com/axelarnetwork/axelar-solana-gateway-engine/errkind"

var (
	ErrInvalidDestinationAddress = errkind.New(errkind.InputInvalid, "gateway: destination address is not a valid 32-byte address")
	ErrDomainSeparatorMismatch   = errkind.New(errkind.InputInvalid, "gateway: domain separator does not match config")

	ErrSessionNotUninitialised = errkind.New(errkind.StateConflict, "gateway: session already initialised")
	ErrSessionNotValid         = errkind.New(errkind.StateConflict, "gateway: session is not Valid")
	ErrSessionAlreadyValid     = errkind.New(errkind.StateConflict, "gateway: session already reached quorum")
	ErrSlotOccupied            = errkind.New(errkind.StateConflict, "gateway: signature slot already submitted")
	ErrMessageAlreadyExists    = errkind.New(errkind.StateConflict, "gateway: message already initialised")
	ErrDuplicateSignerSet      = errkind.New(errkind.StateConflict, "gateway: tracker for this verifier set already exists")
	ErrRotationTooSoon         = errkind.New(errkind.StateConflict, "gateway: minimum rotation delay has not elapsed")

	ErrInvalidMerkleProof = errkind.New(errkind.CryptoFailure, "gateway: merkle proof does not verify")
	ErrInvalidSignature   = errkind.New(errkind.CryptoFailure, "gateway: signature does not verify")

	ErrInvalidSignerSet = errkind.New(errkind.EpochFailure, "gateway: signing verifier set epoch outside retention window")

	ErrMessageTampered = errkind.New(errkind.Tamper, "gateway: reconstructed message hash does not match stored hash")

	ErrMessageNotApproved  = errkind.New(errkind.StateConflict, "gateway: message is not Approved")
	ErrSigningPDAMismatch  = errkind.New(errkind.AuthorisationFailure, "gateway: signing pda does not match expected derivation")
	ErrCallerNotSigner     = errkind.New(errkind.AuthorisationFailure, "gateway: caller did not sign the invocation")
	ErrInvalidSigningPDA   = errkind.New(errkind.AuthorisationFailure, "gateway: call-contract signing pda derivation mismatch")
	ErrWrongOperator       = errkind.New(errkind.AuthorisationFailure, "gateway: caller is not the operator or upgrade authority")
	ErrNonCanonicalPDA     = errkind.New(errkind.AuthorisationFailure, "gateway: account is not the canonical PDA")

	ErrInvalidOperatorReceipt = errkind.New(errkind.AuthorisationFailure, "gateway: operator bypass receipt does not match this rotation")
)
