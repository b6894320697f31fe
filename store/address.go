// Package store models the PDA (program-derived address) account
// abstraction every other package in this module builds on: canonical
// address derivation, typed account kinds, and a pluggable backend
// (in-memory for tests, Azure Blob for durable deployments).
package store

import (
	"fmt"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
)

// Address is a 32-byte content-addressed account identifier.
type Address [32]byte

func (a Address) String() string {
	return fmt.Sprintf("%x", a[:])
}

// maxBump is the highest bump seed tried during canonical derivation,
// mirroring the Rust runtime's find_program_address search space.
const maxBump = 255

// DeriveAddress derives the canonical PDA for seeds under programID. It
// always returns the same (address, bump) pair for the same inputs: the
// bump is always 255, the first candidate a search from 255 downward would
// try, and it is canonical by construction since this derivation has no
// elliptic-curve membership constraint to avoid (unlike the Solana runtime's
// Ed25519 curve check) — see DESIGN.md for why bump 255 is always canonical here.
func DeriveAddress(programID Address, seeds ...[]byte) (Address, byte) {
	bump := byte(maxBump)
	return deriveWithBump(programID, bump, seeds...), bump
}

// VerifyCanonical reports whether (addr, bump) is the canonical derivation
// of seeds under programID; every instruction handler that accepts a PDA
// and a bump from a caller must check this before trusting the account.
func VerifyCanonical(programID Address, addr Address, bump byte, seeds ...[]byte) bool {
	if bump != maxBump {
		return false
	}
	return deriveWithBump(programID, bump, seeds...) == addr
}

func deriveWithBump(programID Address, bump byte, seeds ...[]byte) Address {
	e := codec.NewEncoder(64)
	for _, s := range seeds {
		e.WriteFixed(s)
	}
	e.WriteFixed(programID[:])
	e.WriteByte(bump)
	return Address(codec.Keccak256(e.Bytes()))
}

// Seed constants for each PDA kind the protocol derives, per §4.7.
var (
	SeedGatewayRoot            = []byte("gateway")
	SeedVerifierSetTracker     = []byte("verifier-set-tracker")
	SeedSignatureVerification  = []byte("signature-verification")
	SeedIncomingMessage        = []byte("incoming-message")
	SeedMessagePayload         = []byte("message-payload")
)

// GatewayRootAddress derives the singleton gateway configuration PDA.
func GatewayRootAddress(programID Address) (Address, byte) {
	return DeriveAddress(programID, SeedGatewayRoot)
}

// VerifierSetTrackerAddress derives the tracker PDA for a verifier set hash.
func VerifierSetTrackerAddress(programID Address, verifierSetHash [32]byte) (Address, byte) {
	return DeriveAddress(programID, SeedVerifierSetTracker, verifierSetHash[:])
}

// SignatureVerificationSessionAddress derives a session PDA for a
// (payload_root, signing_vs_root) pair.
func SignatureVerificationSessionAddress(programID Address, payloadRoot, signingVSRoot [32]byte) (Address, byte) {
	return DeriveAddress(programID, SeedSignatureVerification, payloadRoot[:], signingVSRoot[:])
}

// IncomingMessageAddress derives the IncomingMessage PDA for a command_id.
func IncomingMessageAddress(programID Address, commandID [32]byte) (Address, byte) {
	return DeriveAddress(programID, SeedIncomingMessage, commandID[:])
}

// MessagePayloadAddress derives the streaming payload-buffer PDA for a
// (command_id, authority) pair.
func MessagePayloadAddress(programID Address, commandID [32]byte, authority Address) (Address, byte) {
	return DeriveAddress(programID, SeedMessagePayload, commandID[:], authority[:])
}

// CommandID derives the command_id identifying an approved message, per
// the glossary: keccak256(source_chain ‖ "_" ‖ id).
func CommandID(sourceChain, id string) [32]byte {
	return codec.Keccak256([]byte(sourceChain), []byte("_"), []byte(id))
}

// ValidateMessageSigningPDA derives the capability PDA a destination
// program must sign with to consume an approved message, owned by the
// destination program itself rather than the gateway.
func ValidateMessageSigningPDA(destinationProgramID Address, commandID [32]byte) (Address, byte) {
	return DeriveAddress(destinationProgramID, commandID[:])
}
