package store

import (
	"fmt"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/bloom"
)

// CommandIDPrefilter is a negative-presence prefilter over approved
// command_id values, backed by a 4-way Bloom filter region. A relayer
// deciding whether ApproveMessage is worth submitting for a given
// command_id can consult this first and skip a round trip to the backend
// when it reports "definitely absent". gateway.ApproveMessage also consults
// it when one is configured, but never decides on it alone: a "maybe"
// answer is confirmed by a backend lookup, and a "definitely absent" answer
// still goes through Backend.Create.
type CommandIDPrefilter struct {
	region []byte
	k      uint8
}

// NewCommandIDPrefilter allocates a prefilter sized for capacity elements
// at bitsPerElement bits each (10 bits/element keeps the false-positive
// rate under 1% at k=7, the classical tuning for that ratio).
func NewCommandIDPrefilter(capacity uint64, bitsPerElement uint64, k uint8) (*CommandIDPrefilter, error) {
	mBits := bloom.MBitsSafeCast(bloom.MBitsV1(capacity, bitsPerElement))
	if mBits == 0 {
		return nil, fmt.Errorf("store: prefilter capacity %d too large", capacity)
	}
	region := make([]byte, bloom.RegionBytesV1(mBits))
	if err := bloom.InitV1(region, capacity, bitsPerElement, k); err != nil {
		return nil, fmt.Errorf("store: initializing prefilter: %w", err)
	}
	return &CommandIDPrefilter{region: region, k: k}, nil
}

// Insert records commandID as approved. Called after ApproveMessage commits.
func (p *CommandIDPrefilter) Insert(commandID [32]byte) error {
	for filterIdx := uint8(0); filterIdx < bloom.Filters; filterIdx++ {
		if err := bloom.InsertV1(p.region, filterIdx, commandID[:]); err != nil {
			return fmt.Errorf("store: prefilter insert: %w", err)
		}
	}
	return nil
}

// MaybeApproved reports whether commandID might already be approved. false
// means definitely not approved; true means a backend lookup is needed to
// know for sure.
func (p *CommandIDPrefilter) MaybeApproved(commandID [32]byte) (bool, error) {
	for filterIdx := uint8(0); filterIdx < bloom.Filters; filterIdx++ {
		found, err := bloom.MaybeContainsV1(p.region, filterIdx, commandID[:])
		if err != nil {
			return false, fmt.Errorf("store: prefilter lookup: %w", err)
		}
		if !found {
			return false, nil
		}
	}
	return true, nil
}
