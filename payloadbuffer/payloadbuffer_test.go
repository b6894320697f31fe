package payloadbuffer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

func TestWriteCommitCloseLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	programID := store.Address{1}
	authority := store.Address{2}
	commandID := [32]byte{3}

	m := NewManager(programID, backend)
	require.NoError(t, m.Initialize(ctx, commandID, authority, 8))

	require.NoError(t, m.Write(ctx, commandID, authority, 0, []byte("abcd")))
	require.NoError(t, m.Write(ctx, commandID, authority, 4, []byte("efgh")))

	hash, err := m.Commit(ctx, commandID, authority)
	require.NoError(t, err)
	require.Equal(t, codec.Keccak256([]byte("abcdefgh")), hash)

	err = m.Write(ctx, commandID, authority, 0, []byte("x"))
	require.ErrorIs(t, err, ErrAlreadyCommitted)

	require.NoError(t, m.Close(ctx, commandID, authority))
}

func TestWriteOutOfBounds(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	m := NewManager(store.Address{1}, backend)
	commandID := [32]byte{9}
	authority := store.Address{5}

	require.NoError(t, m.Initialize(ctx, commandID, authority, 4))
	err := m.Write(ctx, commandID, authority, 2, []byte("toolong"))
	require.ErrorIs(t, err, ErrOutOfBounds)
}
