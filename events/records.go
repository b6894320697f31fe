package events

import (
	"context"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

// MessageApprovedEvent mirrors gateway.ApprovedMessageEvent's fields for
// the wire (§4.3): { command_id, destination_address, payload_hash,
// source_chain, id, source_address, destination_chain }.
type MessageApprovedEvent struct {
	CommandID          [32]byte
	DestinationAddress store.Address
	PayloadHash        [32]byte
	SourceChain        string
	ID                 string
	SourceAddress      string
	DestinationChain   string
}

func (e MessageApprovedEvent) encode() []byte {
	enc := codec.NewEncoder(96)
	enc.WriteFixed(e.CommandID[:])
	enc.WriteFixed(e.DestinationAddress[:])
	enc.WriteFixed(e.PayloadHash[:])
	enc.WriteString(e.SourceChain)
	enc.WriteString(e.ID)
	enc.WriteString(e.SourceAddress)
	enc.WriteString(e.DestinationChain)
	return enc.Bytes()
}

// EmitMessageApproved emits a MessageApproved event to sink.
func EmitMessageApproved(ctx context.Context, sink Sink, e MessageApprovedEvent) {
	sink.Emit(ctx, DiscriminatorMessageApproved, e.encode())
}

// MessageExecutedEvent carries the command_id of a message that completed
// ValidateMessage.
type MessageExecutedEvent struct {
	CommandID [32]byte
}

func (e MessageExecutedEvent) encode() []byte {
	enc := codec.NewEncoder(32)
	enc.WriteFixed(e.CommandID[:])
	return enc.Bytes()
}

// EmitMessageExecuted emits a MessageExecuted event to sink.
func EmitMessageExecuted(ctx context.Context, sink Sink, e MessageExecutedEvent) {
	sink.Emit(ctx, DiscriminatorMessageExecuted, e.encode())
}

// SignersRotatedEvent carries the new epoch and verifier set root a
// rotation produced.
type SignersRotatedEvent struct {
	NewEpoch           uint64
	NewVerifierSetRoot [32]byte
}

func (e SignersRotatedEvent) encode() []byte {
	enc := codec.NewEncoder(40)
	enc.WriteUint64(e.NewEpoch)
	enc.WriteFixed(e.NewVerifierSetRoot[:])
	return enc.Bytes()
}

// EmitSignersRotated emits a SignersRotated event to sink.
func EmitSignersRotated(ctx context.Context, sink Sink, e SignersRotatedEvent) {
	sink.Emit(ctx, DiscriminatorSignersRotated, e.encode())
}

// OperatorshipTransferredEvent carries the new operator address.
type OperatorshipTransferredEvent struct {
	NewOperator store.Address
}

func (e OperatorshipTransferredEvent) encode() []byte {
	enc := codec.NewEncoder(32)
	enc.WriteFixed(e.NewOperator[:])
	return enc.Bytes()
}

// EmitOperatorshipTransferred emits an OperatorshipTransferred event to sink.
func EmitOperatorshipTransferred(ctx context.Context, sink Sink, e OperatorshipTransferredEvent) {
	sink.Emit(ctx, DiscriminatorOperatorshipTransferred, e.encode())
}

// MemorySink is an in-memory Sink recording every emitted event, used in
// tests and as a simple relayer-facing log when no external log-data
// facility is wired.
type MemorySink struct {
	Records []Record
}

// Record is one recorded emission.
type Record struct {
	Discriminator Discriminator
	Fields        []byte
}

func (s *MemorySink) Emit(_ context.Context, disc Discriminator, fields []byte) {
	s.Records = append(s.Records, Record{Discriminator: disc, Fields: fields})
}
