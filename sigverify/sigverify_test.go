package sigverify

import (
	"crypto/ed25519"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
)

func TestVerifyEcdsaRecoverable(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	digest := [32]byte{1, 2, 3, 4}
	compact := ecdsa.SignCompact(priv, digest[:], false)
	// compact is [recoveryID+27, R(32), S(32)]; our wire format is
	// [R(32), S(32), recoveryID(0/1)].
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27

	pk, err := codec.NewEcdsaPublicKey(priv.PubKey().SerializeCompressed())
	require.NoError(t, err)

	require.NoError(t, Verify(pk, digest, sig))
}

func TestVerifyEcdsaRejectsWrongKey(t *testing.T) {
	priv, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)
	other, err := secp256k1.GeneratePrivateKey()
	require.NoError(t, err)

	digest := [32]byte{5, 6, 7}
	compact := ecdsa.SignCompact(priv, digest[:], false)
	sig := make([]byte, 65)
	copy(sig, compact[1:])
	sig[64] = compact[0] - 27

	pk, err := codec.NewEcdsaPublicKey(other.PubKey().SerializeCompressed())
	require.NoError(t, err)

	require.ErrorIs(t, Verify(pk, digest, sig), InvalidSignature)
}

func TestVerifyEd25519(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	digest := [32]byte{9, 9, 9}
	sig := ed25519.Sign(priv, digest[:])

	pk, err := codec.NewEd25519PublicKey(pub)
	require.NoError(t, err)

	require.NoError(t, Verify(pk, digest, sig))
}

func TestVerifyEd25519RejectsTamperedDigest(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	digest := [32]byte{1}
	sig := ed25519.Sign(priv, digest[:])

	pk, err := codec.NewEd25519PublicKey(pub)
	require.NoError(t, err)

	tampered := [32]byte{2}
	require.ErrorIs(t, Verify(pk, tampered, sig), InvalidSignature)
}

func TestVerifyBadEncoding(t *testing.T) {
	pk, err := codec.NewEd25519PublicKey(make([]byte, 32))
	require.NoError(t, err)
	err = Verify(pk, [32]byte{}, []byte{1, 2, 3})
	require.ErrorIs(t, err, BadEncoding)
}
