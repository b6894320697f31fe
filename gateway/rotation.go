package gateway

import (
	"context"
	"time"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/events"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/signing"
)

// RotateSigners implements §4.6: rotation is a NewVerifierSet payload whose
// session reached Valid. operatorBypassReceipt, when non-nil, is a
// COSE_Sign1 receipt (signing.ReceiptOperatorBypass) that lets an operator
// bypass the minimum rotation delay; it must verify against
// g.OperatorReceiptVerifier and its claims must bind to this rotation's
// payload_root, signing_vs_root and signing epoch, or RotateSigners rejects
// it outright rather than silently falling back to the delay. The
// retention/epoch check is never bypassed.
func (g *Gateway) RotateSigners(ctx context.Context, payloadRoot, signingVSRoot, newVerifierSetRoot [32]byte, now time.Time, operatorBypassReceipt []byte) error {
	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return err
	}

	signingTracker, err := g.Tracker(ctx, signingVSRoot)
	if err != nil {
		return err
	}
	if err := checkActiveEpoch(signingTracker.Epoch, cfg.CurrentEpoch, cfg.PreviousSignersRetention); err != nil {
		return err
	}

	operatorCoSigned, err := g.verifyOperatorBypass(ctx, operatorBypassReceipt, payloadRoot, signingVSRoot, signingTracker.Epoch)
	if err != nil {
		return err
	}
	if !operatorCoSigned && now.Sub(cfg.LastRotationTimestamp) < cfg.MinimumRotationDelay {
		return ErrRotationTooSoon
	}

	session, err := g.Session(ctx, payloadRoot, signingVSRoot)
	if err != nil {
		return err
	}
	if session.Status() != SessionValid {
		return ErrSessionNotValid
	}

	newEpoch := cfg.CurrentEpoch + 1
	if err := g.createTracker(ctx, newVerifierSetRoot, newEpoch); err != nil {
		return err
	}

	cfg.CurrentEpoch = newEpoch
	cfg.LastRotationTimestamp = now
	if err := g.putConfig(ctx, cfg); err != nil {
		return err
	}

	if g.Events != nil {
		events.EmitSignersRotated(ctx, g.Events.Sink, events.SignersRotatedEvent{NewEpoch: newEpoch, NewVerifierSetRoot: newVerifierSetRoot})
	}
	g.Log.Infof("signers rotated: new_epoch=%d operator_bypass=%v", newEpoch, operatorCoSigned)
	return nil
}

// verifyOperatorBypass reports whether receipt is a valid operator-bypass
// COSE receipt authorising this exact rotation. A nil receipt, or a nil
// OperatorReceiptVerifier, yields (false, nil): the bypass is simply
// unavailable and RotateSigners falls back to the minimum delay. A
// non-nil receipt that fails to verify or whose claims do not bind to this
// rotation is an error, not a silent fallback.
func (g *Gateway) verifyOperatorBypass(ctx context.Context, receipt []byte, payloadRoot, signingVSRoot [32]byte, epoch uint64) (bool, error) {
	if receipt == nil || g.OperatorReceiptVerifier == nil {
		return false, nil
	}
	claims, err := g.OperatorReceiptVerifier.Verify(ctx, receipt)
	if err != nil {
		return false, err
	}
	if claims.Kind != signing.ReceiptOperatorBypass || claims.PayloadRoot != payloadRoot || claims.SigningVSRoot != signingVSRoot || claims.Epoch != epoch {
		return false, ErrInvalidOperatorReceipt
	}
	return true, nil
}
