package gateway

import (
	"context"
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/merkle"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/sigverify"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

func newProgramID(b byte) store.Address {
	var a store.Address
	a[0] = b
	return a
}

// TestApproveOneMessage implements the S1 scenario: a config with one seed
// signer (weight 10, quorum 10) approves a single message once its session
// reaches Valid.
func TestApproveOneMessage(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	programID := newProgramID(1)
	g := New(programID, backend, nil, nil, nil, nil)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	pk, err := codec.NewEd25519PublicKey(pub)
	require.NoError(t, err)

	domainSeparator := [32]byte{0xAA}
	vs := codec.VerifierSet{
		Signers:         []codec.Signer{{PubKey: pk, Weight: codec.Uint128FromUint64(10)}},
		Nonce:           0,
		Quorum:          codec.Uint128FromUint64(10),
		DomainSeparator: domainSeparator,
	}
	signingVSRoot, err := merkle.VerifierSetRoot(vs)
	require.NoError(t, err)

	require.NoError(t, g.InitializeConfig(ctx, newProgramID(2), domainSeparator, newProgramID(3), time.Hour, 1, []SeedVerifierSet{
		{Hash: signingVSRoot},
	}))

	destPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	destAddrB58 := base58.Encode(destPub)

	msg := codec.Message{
		CCID:               codec.CrossChainID{SourceChain: "ethereum", ID: "0xabc"},
		SourceAddress:      "0xSrc",
		DestinationChain:   "solana",
		DestinationAddress: destAddrB58,
		PayloadHash:        [32]byte{0x11},
	}
	payload := codec.NewMessagesPayload([]codec.Message{msg})
	require.Equal(t, codec.PayloadMessages, payload.Tag)

	msgLeaf := codec.MessageLeaf{
		DomainSeparator:        domainSeparator,
		Message:                msg,
		Position:               0,
		SetSize:                1,
		SigningVerifierSetRoot: signingVSRoot,
	}
	msgLeafHash := codec.LeafHash(msgLeaf.Encode)
	payloadRoot, err := merkle.HashPayloadMessages([][32]byte{msgLeafHash})
	require.NoError(t, err)

	require.NoError(t, g.InitializeSession(ctx, payloadRoot, signingVSRoot))

	signerLeaf, err := vs.Leaf(0)
	require.NoError(t, err)
	sig := ed25519.Sign(priv, payloadRoot[:])
	require.NoError(t, sigverify.Verify(pk, payloadRoot, sig))

	require.NoError(t, g.SubmitSignature(ctx, payloadRoot, signingVSRoot, signerLeaf, nil, sig))

	session, err := g.Session(ctx, payloadRoot, signingVSRoot)
	require.NoError(t, err)
	require.Equal(t, SessionValid, session.Status())

	event, err := g.ApproveMessage(ctx, payloadRoot, signingVSRoot, msgLeaf, nil)
	require.NoError(t, err)
	require.Equal(t, store.CommandID("ethereum", "0xabc"), event.CommandID)
	require.Equal(t, msg.PayloadHash, event.PayloadHash)

	_, err = g.ApproveMessage(ctx, payloadRoot, signingVSRoot, msgLeaf, nil)
	require.ErrorIs(t, err, ErrMessageAlreadyExists)
}

func TestSubmitSignatureRejectsReplayedSlot(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	programID := newProgramID(9)
	g := New(programID, backend, nil, nil, nil, nil)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	pk, err := codec.NewEd25519PublicKey(pub)
	require.NoError(t, err)

	domainSeparator := [32]byte{0xBB}
	vs := codec.VerifierSet{
		Signers:         []codec.Signer{{PubKey: pk, Weight: codec.Uint128FromUint64(5)}},
		Quorum:          codec.Uint128FromUint64(100),
		DomainSeparator: domainSeparator,
	}
	signingVSRoot, err := merkle.VerifierSetRoot(vs)
	require.NoError(t, err)

	require.NoError(t, g.InitializeConfig(ctx, newProgramID(2), domainSeparator, newProgramID(3), time.Hour, 1, []SeedVerifierSet{
		{Hash: signingVSRoot},
	}))

	payloadRoot := [32]byte{0x42}
	require.NoError(t, g.InitializeSession(ctx, payloadRoot, signingVSRoot))

	signerLeaf, err := vs.Leaf(0)
	require.NoError(t, err)
	sig := ed25519.Sign(priv, payloadRoot[:])

	require.NoError(t, g.SubmitSignature(ctx, payloadRoot, signingVSRoot, signerLeaf, nil, sig))
	err = g.SubmitSignature(ctx, payloadRoot, signingVSRoot, signerLeaf, nil, sig)
	require.ErrorIs(t, err, ErrSlotOccupied)
}

// TestApproveMessageRejectsInsufficientWeight implements the S2 scenario:
// a session whose accumulated signer weight never reaches quorum stays Open
// forever, so ApproveMessage must refuse it.
func TestApproveMessageRejectsInsufficientWeight(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	programID := newProgramID(20)
	g := New(programID, backend, nil, nil, nil, nil)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	pk, err := codec.NewEd25519PublicKey(pub)
	require.NoError(t, err)

	domainSeparator := [32]byte{0x20}
	vs := codec.VerifierSet{
		Signers:         []codec.Signer{{PubKey: pk, Weight: codec.Uint128FromUint64(1)}},
		Quorum:          codec.Uint128FromUint64(100),
		DomainSeparator: domainSeparator,
	}
	signingVSRoot, err := merkle.VerifierSetRoot(vs)
	require.NoError(t, err)

	require.NoError(t, g.InitializeConfig(ctx, newProgramID(2), domainSeparator, newProgramID(3), time.Hour, 1, []SeedVerifierSet{
		{Hash: signingVSRoot},
	}))

	destPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	msg := codec.Message{
		CCID:               codec.CrossChainID{SourceChain: "ethereum", ID: "0xinsufficient"},
		SourceAddress:      "0xSrc",
		DestinationChain:   "solana",
		DestinationAddress: base58.Encode(destPub),
		PayloadHash:        [32]byte{0x21},
	}
	msgLeaf := codec.MessageLeaf{
		DomainSeparator:        domainSeparator,
		Message:                msg,
		Position:               0,
		SetSize:                1,
		SigningVerifierSetRoot: signingVSRoot,
	}
	payloadRoot, err := merkle.HashPayloadMessages([][32]byte{codec.LeafHash(msgLeaf.Encode)})
	require.NoError(t, err)

	require.NoError(t, g.InitializeSession(ctx, payloadRoot, signingVSRoot))

	signerLeaf, err := vs.Leaf(0)
	require.NoError(t, err)
	sig := ed25519.Sign(priv, payloadRoot[:])
	require.NoError(t, g.SubmitSignature(ctx, payloadRoot, signingVSRoot, signerLeaf, nil, sig))

	session, err := g.Session(ctx, payloadRoot, signingVSRoot)
	require.NoError(t, err)
	require.Equal(t, SessionOpen, session.Status())

	_, err = g.ApproveMessage(ctx, payloadRoot, signingVSRoot, msgLeaf, nil)
	require.ErrorIs(t, err, ErrSessionNotValid)
}

// approvedMessageFixture approves a single message under a fresh config and
// returns the identifiers ValidateMessage needs to consume it.
func approvedMessageFixture(t *testing.T, g *Gateway) (commandID [32]byte, message codec.Message, destAddr store.Address, signingPDABump byte) {
	t.Helper()
	ctx := context.Background()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	pk, err := codec.NewEd25519PublicKey(pub)
	require.NoError(t, err)

	domainSeparator := [32]byte{0x30}
	vs := codec.VerifierSet{
		Signers:         []codec.Signer{{PubKey: pk, Weight: codec.Uint128FromUint64(10)}},
		Quorum:          codec.Uint128FromUint64(10),
		DomainSeparator: domainSeparator,
	}
	signingVSRoot, err := merkle.VerifierSetRoot(vs)
	require.NoError(t, err)

	require.NoError(t, g.InitializeConfig(ctx, newProgramID(2), domainSeparator, newProgramID(3), time.Hour, 1, []SeedVerifierSet{
		{Hash: signingVSRoot},
	}))

	destPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	destAddrB58 := base58.Encode(destPub)

	message = codec.Message{
		CCID:               codec.CrossChainID{SourceChain: "ethereum", ID: "0xvalidate"},
		SourceAddress:      "0xSrc",
		DestinationChain:   "solana",
		DestinationAddress: destAddrB58,
		PayloadHash:        [32]byte{0x31},
	}
	msgLeaf := codec.MessageLeaf{
		DomainSeparator:        domainSeparator,
		Message:                message,
		Position:               0,
		SetSize:                1,
		SigningVerifierSetRoot: signingVSRoot,
	}
	payloadRoot, err := merkle.HashPayloadMessages([][32]byte{codec.LeafHash(msgLeaf.Encode)})
	require.NoError(t, err)

	require.NoError(t, g.InitializeSession(ctx, payloadRoot, signingVSRoot))
	signerLeaf, err := vs.Leaf(0)
	require.NoError(t, err)
	sig := ed25519.Sign(priv, payloadRoot[:])
	require.NoError(t, g.SubmitSignature(ctx, payloadRoot, signingVSRoot, signerLeaf, nil, sig))

	event, err := g.ApproveMessage(ctx, payloadRoot, signingVSRoot, msgLeaf, nil)
	require.NoError(t, err)

	_, signingPDABump = store.ValidateMessageSigningPDA(event.DestinationAddress, event.CommandID)
	return event.CommandID, message, event.DestinationAddress, signingPDABump
}

// TestValidateMessageConsumesApprovalExactlyOnce implements the S5
// validate-message-cpi scenario: a correctly reconstructed message, signed
// by its destination program, transitions the approval to Executed exactly
// once.
func TestValidateMessageConsumesApprovalExactlyOnce(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	g := New(newProgramID(21), backend, nil, nil, nil, nil)

	commandID, message, destAddr, signingPDABump := approvedMessageFixture(t, g)

	require.NoError(t, g.ValidateMessage(ctx, commandID, message, destAddr, signingPDABump, true))

	err := g.ValidateMessage(ctx, commandID, message, destAddr, signingPDABump, true)
	require.ErrorIs(t, err, ErrMessageNotApproved)
}

// TestValidateMessageRejectsTamperedMessage implements the S6 scenario: a
// reconstructed message whose hash does not match the one recorded at
// approval time is rejected as tampered.
func TestValidateMessageRejectsTamperedMessage(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	g := New(newProgramID(22), backend, nil, nil, nil, nil)

	commandID, message, destAddr, signingPDABump := approvedMessageFixture(t, g)
	message.PayloadHash = [32]byte{0xFF}

	err := g.ValidateMessage(ctx, commandID, message, destAddr, signingPDABump, true)
	require.ErrorIs(t, err, ErrMessageTampered)
}

// TestValidateMessageRejectsUnsignedCaller ensures a caller presenting the
// right signing PDA but without actually signing the invocation is refused.
func TestValidateMessageRejectsUnsignedCaller(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	g := New(newProgramID(23), backend, nil, nil, nil, nil)

	commandID, message, destAddr, signingPDABump := approvedMessageFixture(t, g)

	err := g.ValidateMessage(ctx, commandID, message, destAddr, signingPDABump, false)
	require.ErrorIs(t, err, ErrCallerNotSigner)
}

// TestValidateMessageRejectsWrongDestination implements the caller-mismatch
// half of S6: a program other than the one the message was approved for
// passes the canonical-derivation check for its own signing PDA, but is
// refused because it is not the destination recorded at approval time.
func TestValidateMessageRejectsWrongDestination(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	g := New(newProgramID(24), backend, nil, nil, nil, nil)

	commandID, message, _, signingPDABump := approvedMessageFixture(t, g)
	wrongDest := newProgramID(250)

	err := g.ValidateMessage(ctx, commandID, message, wrongDest, signingPDABump, true)
	require.ErrorIs(t, err, ErrSigningPDAMismatch)
}

// TestRotateThenApproveUnderNewSet implements the S4 scenario: after a
// rotation, a message signed by the new verifier set approves using the
// freshly created tracker.
func TestRotateThenApproveUnderNewSet(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	programID := newProgramID(30)
	g := New(programID, backend, nil, nil, nil, nil)

	domainSeparator := [32]byte{0x40}

	oldPub, oldPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	oldPK, err := codec.NewEd25519PublicKey(oldPub)
	require.NoError(t, err)
	oldVS := codec.VerifierSet{
		Signers:         []codec.Signer{{PubKey: oldPK, Weight: codec.Uint128FromUint64(10)}},
		Quorum:          codec.Uint128FromUint64(10),
		DomainSeparator: domainSeparator,
	}
	oldRoot, err := merkle.VerifierSetRoot(oldVS)
	require.NoError(t, err)

	require.NoError(t, g.InitializeConfig(ctx, newProgramID(2), domainSeparator, newProgramID(3), time.Hour, 1, []SeedVerifierSet{
		{Hash: oldRoot},
	}))

	// Reach quorum under the old set and rotate to a new one.
	rotationPayloadRoot := [32]byte{0x41}
	require.NoError(t, g.InitializeSession(ctx, rotationPayloadRoot, oldRoot))
	oldLeaf, err := oldVS.Leaf(0)
	require.NoError(t, err)
	rotateSig := ed25519.Sign(oldPriv, rotationPayloadRoot[:])
	require.NoError(t, g.SubmitSignature(ctx, rotationPayloadRoot, oldRoot, oldLeaf, nil, rotateSig))

	newPub, newPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	newPK, err := codec.NewEd25519PublicKey(newPub)
	require.NoError(t, err)
	newVS := codec.VerifierSet{
		Signers:         []codec.Signer{{PubKey: newPK, Weight: codec.Uint128FromUint64(10)}},
		Quorum:          codec.Uint128FromUint64(10),
		DomainSeparator: domainSeparator,
	}
	newRoot, err := merkle.VerifierSetRoot(newVS)
	require.NoError(t, err)

	require.NoError(t, g.RotateSigners(ctx, rotationPayloadRoot, oldRoot, newRoot, time.Now().Add(2*time.Hour), nil))

	cfg, err := g.loadConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(2), cfg.CurrentEpoch)

	// Approve a message whose session signs under the new set.
	destPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	msg := codec.Message{
		CCID:               codec.CrossChainID{SourceChain: "ethereum", ID: "0xpostrotation"},
		SourceAddress:      "0xSrc",
		DestinationChain:   "solana",
		DestinationAddress: base58.Encode(destPub),
		PayloadHash:        [32]byte{0x42},
	}
	msgLeaf := codec.MessageLeaf{
		DomainSeparator:        domainSeparator,
		Message:                msg,
		Position:               0,
		SetSize:                1,
		SigningVerifierSetRoot: newRoot,
	}
	payloadRoot, err := merkle.HashPayloadMessages([][32]byte{codec.LeafHash(msgLeaf.Encode)})
	require.NoError(t, err)

	require.NoError(t, g.InitializeSession(ctx, payloadRoot, newRoot))
	newLeaf, err := newVS.Leaf(0)
	require.NoError(t, err)
	sig := ed25519.Sign(newPriv, payloadRoot[:])
	require.NoError(t, g.SubmitSignature(ctx, payloadRoot, newRoot, newLeaf, nil, sig))

	event, err := g.ApproveMessage(ctx, payloadRoot, newRoot, msgLeaf, nil)
	require.NoError(t, err)
	require.Equal(t, store.CommandID("ethereum", "0xpostrotation"), event.CommandID)
}

func TestTransferOperatorshipRejectsWrongCaller(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	g := New(newProgramID(1), backend, nil, nil, nil, nil)

	operator := newProgramID(2)
	require.NoError(t, g.InitializeConfig(ctx, newProgramID(3), [32]byte{}, operator, time.Hour, 1, nil))

	err := g.TransferOperatorship(ctx, newProgramID(99), newProgramID(5))
	require.ErrorIs(t, err, ErrWrongOperator)

	require.NoError(t, g.TransferOperatorship(ctx, operator, newProgramID(5)))
}
