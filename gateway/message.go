package gateway

import (
	"context"
	"fmt"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/events"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/merkle"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
	"github.com/mr-tron/base58"
)

// MessageStatus is the IncomingMessage account's lifecycle position.
type MessageStatus byte

const (
	MessageApproved MessageStatus = iota
	MessageExecuted
)

// IncomingMessage is the per-command_id account recording an approved
// cross-chain message (§3, C3).
type IncomingMessage struct {
	Bump               byte
	SigningPDABump     byte
	Status             MessageStatus
	MessageHash        [32]byte
	PayloadHash        [32]byte
	DestinationAddress store.Address
}

func (m IncomingMessage) encode() []byte {
	e := codec.NewEncoder(99)
	e.WriteByte(m.Bump)
	e.WriteByte(m.SigningPDABump)
	e.WriteByte(byte(m.Status))
	e.WriteFixed(m.MessageHash[:])
	e.WriteFixed(m.PayloadHash[:])
	e.WriteFixed(m.DestinationAddress[:])
	return e.Bytes()
}

func decodeIncomingMessage(b []byte) (IncomingMessage, error) {
	d := codec.NewDecoder(b)
	var m IncomingMessage
	var err error
	if m.Bump, err = d.ReadByte(); err != nil {
		return m, err
	}
	if m.SigningPDABump, err = d.ReadByte(); err != nil {
		return m, err
	}
	status, err := d.ReadByte()
	if err != nil {
		return m, err
	}
	m.Status = MessageStatus(status)
	mh, err := d.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.MessageHash[:], mh)
	ph, err := d.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.PayloadHash[:], ph)
	da, err := d.ReadFixed(32)
	if err != nil {
		return m, err
	}
	copy(m.DestinationAddress[:], da)
	return m, d.Done()
}

// ApprovedMessageEvent is the MessageApproved event payload emitted on a
// successful ApproveMessage call (§4.3).
type ApprovedMessageEvent struct {
	CommandID          [32]byte
	DestinationAddress store.Address
	PayloadHash        [32]byte
	SourceChain        string
	ID                 string
	SourceAddress      string
	DestinationChain   string
}

// ApproveMessage implements §4.3: it requires the session for (payloadRoot,
// signingVSRoot) to be Valid, verifies leaf.domain_separator against config
// and the Merkle proof against payloadRoot, then allocates the
// IncomingMessage PDA idempotently.
func (g *Gateway) ApproveMessage(ctx context.Context, payloadRoot, signingVSRoot [32]byte, leaf codec.MessageLeaf, proof [][32]byte) (ApprovedMessageEvent, error) {
	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return ApprovedMessageEvent{}, err
	}
	if leaf.DomainSeparator != cfg.DomainSeparator {
		return ApprovedMessageEvent{}, ErrDomainSeparatorMismatch
	}

	session, err := g.Session(ctx, payloadRoot, signingVSRoot)
	if err != nil {
		return ApprovedMessageEvent{}, err
	}
	if session.Status() != SessionValid {
		return ApprovedMessageEvent{}, ErrSessionNotValid
	}

	leafHash := codec.LeafHash(leaf.Encode)
	if !merkle.Verify(payloadRoot, leafHash, leaf.Position, proof) {
		return ApprovedMessageEvent{}, ErrInvalidMerkleProof
	}

	var destAddr store.Address
	decoded, err := base58.Decode(leaf.Message.DestinationAddress)
	if err != nil || len(decoded) != 32 {
		return ApprovedMessageEvent{}, ErrInvalidDestinationAddress
	}
	copy(destAddr[:], decoded)

	commandID := store.CommandID(leaf.Message.CCID.SourceChain, leaf.Message.CCID.ID)
	addr, bump := store.IncomingMessageAddress(g.ProgramID, commandID)
	_, signingPDABump := store.ValidateMessageSigningPDA(destAddr, commandID)

	if g.Prefilter != nil {
		maybe, err := g.Prefilter.MaybeApproved(commandID)
		if err != nil {
			return ApprovedMessageEvent{}, fmt.Errorf("gateway: command id prefilter: %w", err)
		}
		if maybe {
			if _, err := g.Backend.Get(ctx, addr); err == nil {
				return ApprovedMessageEvent{}, ErrMessageAlreadyExists
			}
		}
	}

	msg := IncomingMessage{
		Bump:               bump,
		SigningPDABump:     signingPDABump,
		Status:             MessageApproved,
		MessageHash:        codec.LeafHash(leaf.Message.Encode),
		PayloadHash:        leaf.Message.PayloadHash,
		DestinationAddress: destAddr,
	}
	if err := g.Backend.Create(ctx, addr, store.Record{Kind: store.KindIncomingMessage, Bump: bump, Bytes: msg.encode()}); err != nil {
		return ApprovedMessageEvent{}, ErrMessageAlreadyExists
	}
	if g.Prefilter != nil {
		if err := g.Prefilter.Insert(commandID); err != nil {
			return ApprovedMessageEvent{}, fmt.Errorf("gateway: command id prefilter: %w", err)
		}
	}

	approved := ApprovedMessageEvent{
		CommandID:          commandID,
		DestinationAddress: destAddr,
		PayloadHash:        leaf.Message.PayloadHash,
		SourceChain:        leaf.Message.CCID.SourceChain,
		ID:                 leaf.Message.CCID.ID,
		SourceAddress:      leaf.Message.SourceAddress,
		DestinationChain:   leaf.Message.DestinationChain,
	}
	if g.Events != nil {
		events.EmitMessageApproved(ctx, g.Events.Sink, events.MessageApprovedEvent{
			CommandID:          approved.CommandID,
			DestinationAddress: approved.DestinationAddress,
			PayloadHash:        approved.PayloadHash,
			SourceChain:        approved.SourceChain,
			ID:                 approved.ID,
			SourceAddress:      approved.SourceAddress,
			DestinationChain:   approved.DestinationChain,
		})
	}
	g.Log.Infof("message approved: command_id=%x destination_chain=%s", commandID, leaf.Message.DestinationChain)
	return approved, nil
}

// ValidateMessage implements the reverse path of §4.3: a destination
// program reconstructs message and presents its signing PDA to consume the
// approval exactly once.
func (g *Gateway) ValidateMessage(ctx context.Context, commandID [32]byte, message codec.Message, destinationAddress store.Address, signingPDABump byte, callerSigned bool) error {
	addr, _ := store.IncomingMessageAddress(g.ProgramID, commandID)
	rec, err := g.Backend.Get(ctx, addr)
	if err != nil {
		return err
	}
	msg, err := decodeIncomingMessage(rec.Bytes)
	if err != nil {
		return err
	}
	if msg.Status != MessageApproved {
		return ErrMessageNotApproved
	}
	if codec.LeafHash(message.Encode) != msg.MessageHash {
		return ErrMessageTampered
	}
	wantPDA, _ := store.ValidateMessageSigningPDA(destinationAddress, commandID)
	if !store.VerifyCanonical(destinationAddress, wantPDA, signingPDABump, commandID[:]) {
		return ErrNonCanonicalPDA
	}
	if destinationAddress != msg.DestinationAddress || signingPDABump != msg.SigningPDABump {
		return ErrSigningPDAMismatch
	}
	if !callerSigned {
		return ErrCallerNotSigner
	}

	msg.Status = MessageExecuted
	if err := g.Backend.Put(ctx, addr, store.Record{Kind: store.KindIncomingMessage, Bump: msg.Bump, Bytes: msg.encode()}); err != nil {
		return err
	}
	if g.Events != nil {
		events.EmitMessageExecuted(ctx, g.Events.Sink, events.MessageExecutedEvent{CommandID: commandID})
	}
	g.Log.Infof("message executed: command_id=%x", commandID)
	return nil
}
