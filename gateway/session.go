package gateway

import (
	"context"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/merkle"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/sigverify"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

// slotsetBytes holds a 2^16-bit slot bitset: one bit per possible signer
// position, so a session can track which slots have already submitted
// without bounding the verifier set size below u16::MAX.
const slotsetBytes = 1 << 16 / 8

// SessionStatus is the session's position in its Uninitialised->Open->Valid
// state machine. Uninitialised is never itself persisted; a session
// account that exists is always Open or Valid.
type SessionStatus byte

const (
	SessionOpen SessionStatus = iota
	SessionValid
)

// Session is the SignatureVerificationSession account (§3, C2).
type Session struct {
	Bump                  byte
	PayloadRoot           [32]byte
	SigningVerifierSetHash [32]byte
	AccumulatedThreshold  codec.Uint128
	Slots                 [slotsetBytes]byte
}

// Status derives the session's state from its accumulator, per §4.2: the
// u128::MAX sentinel is the only representation of Valid.
func (s Session) Status() SessionStatus {
	if s.AccumulatedThreshold == codec.MaxUint128 {
		return SessionValid
	}
	return SessionOpen
}

func (s *Session) slotOccupied(position uint16) bool {
	return s.Slots[position/8]&(1<<(position%8)) != 0
}

func (s *Session) occupySlot(position uint16) {
	s.Slots[position/8] |= 1 << (position % 8)
}

func (s Session) encode() []byte {
	e := codec.NewEncoder(32 + 32 + 16 + slotsetBytes + 1)
	e.WriteByte(s.Bump)
	e.WriteFixed(s.PayloadRoot[:])
	e.WriteFixed(s.SigningVerifierSetHash[:])
	e.WriteUint128(s.AccumulatedThreshold)
	e.WriteFixed(s.Slots[:])
	return e.Bytes()
}

func decodeSession(b []byte) (Session, error) {
	d := codec.NewDecoder(b)
	var s Session
	var err error
	if s.Bump, err = d.ReadByte(); err != nil {
		return s, err
	}
	pr, err := d.ReadFixed(32)
	if err != nil {
		return s, err
	}
	copy(s.PayloadRoot[:], pr)
	svh, err := d.ReadFixed(32)
	if err != nil {
		return s, err
	}
	copy(s.SigningVerifierSetHash[:], svh)
	if s.AccumulatedThreshold, err = d.ReadUint128(); err != nil {
		return s, err
	}
	slots, err := d.ReadFixed(slotsetBytes)
	if err != nil {
		return s, err
	}
	copy(s.Slots[:], slots)
	return s, d.Done()
}

func (g *Gateway) sessionAddress(payloadRoot, signingVSRoot [32]byte) (store.Address, byte) {
	return store.SignatureVerificationSessionAddress(g.ProgramID, payloadRoot, signingVSRoot)
}

// InitializeSession allocates a session PDA for (payloadRoot,
// signingVSRoot), requiring the signing verifier set's tracker to be active
// within the retention window (§4.2).
func (g *Gateway) InitializeSession(ctx context.Context, payloadRoot, signingVSRoot [32]byte) error {
	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	tracker, err := g.Tracker(ctx, signingVSRoot)
	if err != nil {
		return err
	}
	if err := checkActiveEpoch(tracker.Epoch, cfg.CurrentEpoch, cfg.PreviousSignersRetention); err != nil {
		return err
	}

	addr, bump := g.sessionAddress(payloadRoot, signingVSRoot)
	s := Session{Bump: bump, PayloadRoot: payloadRoot, SigningVerifierSetHash: signingVSRoot}
	if err := g.Backend.Create(ctx, addr, store.Record{Kind: store.KindSignatureVerificationSession, Bump: bump, Bytes: s.encode()}); err != nil {
		return ErrSessionNotUninitialised
	}
	return nil
}

// Session loads the session for (payloadRoot, signingVSRoot).
func (g *Gateway) Session(ctx context.Context, payloadRoot, signingVSRoot [32]byte) (Session, error) {
	addr, _ := g.sessionAddress(payloadRoot, signingVSRoot)
	rec, err := g.Backend.Get(ctx, addr)
	if err != nil {
		return Session{}, err
	}
	return decodeSession(rec.Bytes)
}

// SubmitSignature runs the five-step check from §4.2 and, on success,
// persists the updated session. Any failure leaves the stored session
// untouched.
func (g *Gateway) SubmitSignature(ctx context.Context, payloadRoot, signingVSRoot [32]byte, signerLeaf codec.VerifierSetLeaf, proof [][32]byte, signature []byte) error {
	addr, _ := g.sessionAddress(payloadRoot, signingVSRoot)
	rec, err := g.Backend.Get(ctx, addr)
	if err != nil {
		return err
	}
	s, err := decodeSession(rec.Bytes)
	if err != nil {
		return err
	}

	// Step 1: slot range and occupancy.
	if signerLeaf.Position >= signerLeaf.SetSize {
		return ErrSlotOccupied
	}
	if s.Status() == SessionValid {
		return ErrSessionAlreadyValid
	}
	if s.slotOccupied(signerLeaf.Position) {
		return ErrSlotOccupied
	}

	// Step 2: Merkle proof reconstructs signing_verifier_set_hash.
	leafHash := codec.LeafHash(signerLeaf.Encode)
	if !merkle.Verify(s.SigningVerifierSetHash, leafHash, signerLeaf.Position, proof) {
		return ErrInvalidMerkleProof
	}

	// Step 3: signature over payload_root under the leaf's pubkey scheme.
	if err := sigverify.Verify(signerLeaf.SignerPubKey, payloadRoot, signature); err != nil {
		return ErrInvalidSignature
	}

	// Step 4: saturating-add weight, latch to MAX on reaching quorum.
	preClamp := s.AccumulatedThreshold.SaturatingAdd(signerLeaf.SignerWeight)
	if preClamp.Cmp(signerLeaf.Quorum) >= 0 {
		s.AccumulatedThreshold = codec.MaxUint128
	} else {
		s.AccumulatedThreshold = preClamp
	}

	// Step 5: mark the slot occupied.
	s.occupySlot(signerLeaf.Position)

	return g.Backend.Put(ctx, addr, store.Record{Kind: store.KindSignatureVerificationSession, Bump: s.Bump, Bytes: s.encode()})
}
