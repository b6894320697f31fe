package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/events"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/internal/logging"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/signing"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

// Config is the singleton GatewayConfig account (§3, C7).
type Config struct {
	Bump                    byte
	DomainSeparator         [32]byte
	Operator                store.Address
	UpgradeAuthority        store.Address
	CurrentEpoch            uint64
	MinimumRotationDelay    time.Duration
	PreviousSignersRetention uint64
	LastRotationTimestamp   time.Time
}

func (c Config) encode() []byte {
	e := codec.NewEncoder(128)
	e.WriteByte(c.Bump)
	e.WriteFixed(c.DomainSeparator[:])
	e.WriteFixed(c.Operator[:])
	e.WriteFixed(c.UpgradeAuthority[:])
	e.WriteUint64(c.CurrentEpoch)
	e.WriteUint64(uint64(c.MinimumRotationDelay))
	e.WriteUint64(c.PreviousSignersRetention)
	e.WriteUint64(uint64(c.LastRotationTimestamp.Unix()))
	return e.Bytes()
}

func decodeConfig(b []byte) (Config, error) {
	d := codec.NewDecoder(b)
	var c Config
	var err error
	if c.Bump, err = d.ReadByte(); err != nil {
		return c, err
	}
	ds, err := d.ReadFixed(32)
	if err != nil {
		return c, err
	}
	copy(c.DomainSeparator[:], ds)
	op, err := d.ReadFixed(32)
	if err != nil {
		return c, err
	}
	copy(c.Operator[:], op)
	ua, err := d.ReadFixed(32)
	if err != nil {
		return c, err
	}
	copy(c.UpgradeAuthority[:], ua)
	if c.CurrentEpoch, err = d.ReadUint64(); err != nil {
		return c, err
	}
	delay, err := d.ReadUint64()
	if err != nil {
		return c, err
	}
	c.MinimumRotationDelay = time.Duration(delay)
	if c.PreviousSignersRetention, err = d.ReadUint64(); err != nil {
		return c, err
	}
	ts, err := d.ReadUint64()
	if err != nil {
		return c, err
	}
	c.LastRotationTimestamp = time.Unix(int64(ts), 0).UTC()
	return c, d.Done()
}

// SeedVerifierSet is one of the initial verifier sets InitializeConfig
// seeds the tracker table with. Its epoch is never taken from the caller:
// §4.7 assigns epoch i+1 from the seed's position in the list, exactly as
// the reference processor's initialize_config computes
// `idx.saturating_add(1)` from the loop index rather than accepting an
// epoch argument (the §6 instruction-table args for InitializeConfig list
// no epoch field at all).
type SeedVerifierSet struct {
	Hash [32]byte
}

// Gateway bundles a Backend, a Logger, an event Sink and a command-ID
// prefilter, and exposes the protocol's instruction-level operations as
// methods, the same shape the teacher's higher-level components wrap a
// storage client in.
type Gateway struct {
	ProgramID store.Address
	Backend   store.Backend
	Log       logging.Logger
	Events    *events.Emitter
	Prefilter *store.CommandIDPrefilter

	// OperatorReceiptVerifier checks the COSE_Sign1 receipt a caller must
	// present to exercise the operator rotation-delay bypass (§4.6). A nil
	// verifier disables the bypass path entirely: RotateSigners always
	// enforces the delay.
	OperatorReceiptVerifier *signing.Verifier
}

// New constructs a Gateway over backend, using programID to derive every
// PDA this instance is responsible for. events and prefilter may be nil;
// operatorVerifier nil disables the rotation-delay bypass.
func New(programID store.Address, backend store.Backend, log logging.Logger, eventEmitter *events.Emitter, prefilter *store.CommandIDPrefilter, operatorVerifier *signing.Verifier) *Gateway {
	if log == nil {
		log = logging.NewNop()
	}
	return &Gateway{
		ProgramID:               programID,
		Backend:                 backend,
		Log:                     log,
		Events:                  eventEmitter,
		Prefilter:               prefilter,
		OperatorReceiptVerifier: operatorVerifier,
	}
}

// InitializeConfig creates the singleton config PDA and a tracker PDA for
// each seed verifier set, gated by the upgrade authority (§4.7). Each
// seed's tracker epoch is assigned as its position in seedSets plus one.
func (g *Gateway) InitializeConfig(ctx context.Context, upgradeAuthority store.Address, domainSeparator [32]byte, operator store.Address, minimumRotationDelay time.Duration, previousSignersRetention uint64, seedSets []SeedVerifierSet) error {
	rootAddr, bump := store.GatewayRootAddress(g.ProgramID)
	cfg := Config{
		Bump:                     bump,
		DomainSeparator:          domainSeparator,
		Operator:                 operator,
		UpgradeAuthority:         upgradeAuthority,
		CurrentEpoch:             uint64(len(seedSets)),
		MinimumRotationDelay:     minimumRotationDelay,
		PreviousSignersRetention: previousSignersRetention,
		LastRotationTimestamp:    time.Now(),
	}
	if err := g.Backend.Create(ctx, rootAddr, store.Record{Kind: store.KindGatewayConfig, Bump: bump, Bytes: cfg.encode()}); err != nil {
		return err
	}
	for i, seed := range seedSets {
		epoch := uint64(i) + 1
		if err := g.createTracker(ctx, seed.Hash, epoch); err != nil {
			return fmt.Errorf("gateway: seeding tracker %d: %w", i, err)
		}
	}
	g.Log.Infof("config initialised: operator=%s epoch=%d seed_sets=%d", operator, cfg.CurrentEpoch, len(seedSets))
	return nil
}

func (g *Gateway) loadConfig(ctx context.Context) (Config, error) {
	rootAddr, _ := store.GatewayRootAddress(g.ProgramID)
	rec, err := g.Backend.Get(ctx, rootAddr)
	if err != nil {
		return Config{}, err
	}
	return decodeConfig(rec.Bytes)
}

func (g *Gateway) putConfig(ctx context.Context, cfg Config) error {
	rootAddr, _ := store.GatewayRootAddress(g.ProgramID)
	return g.Backend.Put(ctx, rootAddr, store.Record{Kind: store.KindGatewayConfig, Bump: cfg.Bump, Bytes: cfg.encode()})
}

// TransferOperatorship atomically replaces config.Operator, gated by the
// current operator or the upgrade authority (§4.7: "the new operator takes
// effect immediately").
func (g *Gateway) TransferOperatorship(ctx context.Context, caller store.Address, newOperator store.Address) error {
	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}
	if caller != cfg.Operator && caller != cfg.UpgradeAuthority {
		return ErrWrongOperator
	}
	authority := "operator"
	if caller != cfg.Operator {
		authority = "upgrade_authority"
	}
	cfg.Operator = newOperator
	if err := g.putConfig(ctx, cfg); err != nil {
		return err
	}
	if g.Events != nil {
		events.EmitOperatorshipTransferred(ctx, g.Events.Sink, events.OperatorshipTransferredEvent{NewOperator: newOperator})
	}
	g.Log.Infof("operatorship transferred by %s: new_operator=%s", authority, newOperator)
	return nil
}
