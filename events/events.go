// Package events encodes the Gateway's outbound log-data events and
// implements the outbound call-contract emitter (C5). Every event's fields
// are encoded as raw bytes (fixed-width LE integers, raw UTF-8 strings) so
// an off-chain relayer can reconstruct them deterministically; each event
// is prefixed by the single discriminator byte from the canonical table
// below.
package events

import (
	"context"
	"fmt"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/errkind"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

// Discriminator identifies an event's kind in the log-data stream. The
// source material scatters this table across several places; it is
// consolidated here once so producer and relayer can never disagree about
// which tag means what.
type Discriminator byte

const (
	DiscriminatorCallContract             Discriminator = 0
	DiscriminatorMessageApproved          Discriminator = 1
	DiscriminatorMessageExecuted          Discriminator = 2
	DiscriminatorSignersRotated           Discriminator = 3
	DiscriminatorOperatorshipTransferred  Discriminator = 4
)

// Sink receives encoded event records; in production this is the runtime's
// log-data facility, in tests an in-memory recorder.
type Sink interface {
	Emit(ctx context.Context, disc Discriminator, fields []byte)
}

var (
	ErrInvalidSigningPDA  = errkind.New(errkind.AuthorisationFailure, "events: signing pda derivation does not match sender")
	ErrCallerNotSigner    = errkind.New(errkind.AuthorisationFailure, "events: sender did not sign the invocation")
	ErrConfigNotCanonical = errkind.New(errkind.AuthorisationFailure, "events: gateway config pda is not a canonical derivation")
)

// CallContractEvent is the payload of a CallContract event (§4.5).
type CallContractEvent struct {
	Sender                    store.Address
	PayloadHash               [32]byte
	DestinationChain          string
	DestinationContractAddress string
	Payload                   []byte
}

func (e CallContractEvent) encode() []byte {
	enc := codec.NewEncoder(64 + len(e.Payload))
	enc.WriteFixed(e.Sender[:])
	enc.WriteFixed(e.PayloadHash[:])
	enc.WriteString(e.DestinationChain)
	enc.WriteString(e.DestinationContractAddress)
	enc.WriteBytes(e.Payload)
	return enc.Bytes()
}

// Emitter implements the outbound call-contract operation. Backend is the
// same store the Gateway's config PDA lives in: CallContract checks the
// config PDA's existence and canonical derivation before emitting, even
// though it never reads or mutates the config itself (§4.5).
type Emitter struct {
	ProgramID store.Address
	Backend   store.Backend
	Sink      Sink
}

// NewEmitter constructs an Emitter.
func NewEmitter(programID store.Address, backend store.Backend, sink Sink) *Emitter {
	return &Emitter{ProgramID: programID, Backend: backend, Sink: sink}
}

// CallContract emits a CallContract event authorised either by sender
// itself being a direct transaction signer, or by an accompanying
// program-derived signing address whose derivation matches sender and
// which is itself a signer of the invocation (§4.5). The Gateway's config
// PDA must exist and be canonically derived; CallContract never reads its
// contents or mutates it, it only confirms the gateway program is live.
func (em *Emitter) CallContract(ctx context.Context, sender store.Address, senderIsDirectSigner bool, signingPDA *store.Address, signingPDABump byte, signingPDAIsSigner bool, destinationChain, destinationContractAddress string, payload []byte) (CallContractEvent, error) {
	rootAddr, _ := store.GatewayRootAddress(em.ProgramID)
	rec, err := em.Backend.Get(ctx, rootAddr)
	if err != nil {
		return CallContractEvent{}, fmt.Errorf("events: loading gateway config: %w", err)
	}
	if !store.VerifyCanonical(em.ProgramID, rootAddr, rec.Bump, store.SeedGatewayRoot) {
		return CallContractEvent{}, ErrConfigNotCanonical
	}

	if !senderIsDirectSigner {
		if signingPDA == nil {
			return CallContractEvent{}, ErrCallerNotSigner
		}
		wantPDA, wantBump := CallContractSigningPDA(sender)
		if *signingPDA != wantPDA || signingPDABump != wantBump {
			return CallContractEvent{}, ErrInvalidSigningPDA
		}
		if !signingPDAIsSigner {
			return CallContractEvent{}, ErrCallerNotSigner
		}
	}

	event := CallContractEvent{
		Sender:                     sender,
		PayloadHash:                codec.Keccak256(payload),
		DestinationChain:           destinationChain,
		DestinationContractAddress: destinationContractAddress,
		Payload:                    payload,
	}
	em.Sink.Emit(ctx, DiscriminatorCallContract, event.encode())
	return event, nil
}

// CallContractSigningPDA derives a sender program's call-contract signing
// PDA, keyed only by the sender's own program id (§4.5:
// create_call_contract_signing_pda).
func CallContractSigningPDA(sender store.Address) (store.Address, byte) {
	return store.DeriveAddress(sender, []byte("call-contract"))
}
