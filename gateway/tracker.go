package gateway

import (
	"context"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

// Tracker is the per-historical-verifier-set VerifierSetTracker account
// (§3): created once on rotation or config init, never mutated or
// destroyed thereafter.
type Tracker struct {
	Bump            byte
	Epoch           uint64
	VerifierSetHash [32]byte
}

func (t Tracker) encode() []byte {
	e := codec.NewEncoder(48)
	e.WriteByte(t.Bump)
	e.WriteUint64(t.Epoch)
	e.WriteFixed(t.VerifierSetHash[:])
	return e.Bytes()
}

func decodeTracker(b []byte) (Tracker, error) {
	d := codec.NewDecoder(b)
	var t Tracker
	var err error
	if t.Bump, err = d.ReadByte(); err != nil {
		return t, err
	}
	if t.Epoch, err = d.ReadUint64(); err != nil {
		return t, err
	}
	h, err := d.ReadFixed(32)
	if err != nil {
		return t, err
	}
	copy(t.VerifierSetHash[:], h)
	return t, d.Done()
}

func (g *Gateway) createTracker(ctx context.Context, verifierSetHash [32]byte, epoch uint64) error {
	addr, bump := store.VerifierSetTrackerAddress(g.ProgramID, verifierSetHash)
	t := Tracker{Bump: bump, Epoch: epoch, VerifierSetHash: verifierSetHash}
	if err := g.Backend.Create(ctx, addr, store.Record{Kind: store.KindVerifierSetTracker, Bump: bump, Bytes: t.encode()}); err != nil {
		return ErrDuplicateSignerSet
	}
	return nil
}

// Tracker looks up the tracker for a verifier set hash; per the glossary a
// signing set whose tracker is absent is InvalidSignerSet.
func (g *Gateway) Tracker(ctx context.Context, verifierSetHash [32]byte) (Tracker, error) {
	addr, _ := store.VerifierSetTrackerAddress(g.ProgramID, verifierSetHash)
	rec, err := g.Backend.Get(ctx, addr)
	if err != nil {
		return Tracker{}, ErrInvalidSignerSet
	}
	return decodeTracker(rec.Bytes)
}

// checkActiveEpoch enforces the retention-window invariant from §4.2/§4.6:
// the tracker's epoch must lie within [currentEpoch-retention, currentEpoch].
func checkActiveEpoch(trackerEpoch, currentEpoch, retention uint64) error {
	if trackerEpoch > currentEpoch {
		return ErrInvalidSignerSet
	}
	if currentEpoch-trackerEpoch > retention {
		return ErrInvalidSignerSet
	}
	return nil
}
