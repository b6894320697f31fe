// Package payloadbuffer implements the message-payload streaming buffer
// (C4): a per-command_id arena-style byte region with an
// Initialize/Write/Commit/Close lifecycle, decoupling large payload
// transport from the approval path's per-transaction size limits.
package payloadbuffer

import (
	"context"
	"fmt"

	"github.com/axelarnetwork/axelar-solana-gateway-engine/codec"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/errkind"
	"github.com/axelarnetwork/axelar-solana-gateway-engine/store"
)

var (
	ErrAlreadyCommitted = errkind.New(errkind.StateConflict, "payloadbuffer: buffer already committed")
	ErrOutOfBounds      = errkind.New(errkind.ResourceFailure, "payloadbuffer: write offset/length out of bounds")
)

// Buffer is the MessagePayload account: a header plus the raw bytes being
// assembled (§4.4).
type Buffer struct {
	Bump        byte
	Committed   bool
	PayloadHash [32]byte
	RawPayload  []byte
}

func (b Buffer) encode() []byte {
	e := codec.NewEncoder(34 + len(b.RawPayload))
	e.WriteByte(b.Bump)
	committed := byte(0)
	if b.Committed {
		committed = 1
	}
	e.WriteByte(committed)
	e.WriteFixed(b.PayloadHash[:])
	e.WriteFixed(b.RawPayload)
	return e.Bytes()
}

func decodeBuffer(raw []byte, size int) (Buffer, error) {
	d := codec.NewDecoder(raw)
	var b Buffer
	var err error
	if b.Bump, err = d.ReadByte(); err != nil {
		return b, err
	}
	committed, err := d.ReadByte()
	if err != nil {
		return b, err
	}
	b.Committed = committed != 0
	ph, err := d.ReadFixed(32)
	if err != nil {
		return b, err
	}
	copy(b.PayloadHash[:], ph)
	b.RawPayload, err = d.ReadFixed(size)
	if err != nil {
		return b, err
	}
	return b, d.Done()
}

// Manager implements the Initialize/Write/Commit/Close lifecycle over a
// store.Backend, keyed by (commandID, authority).
type Manager struct {
	ProgramID store.Address
	Backend   store.Backend
}

// NewManager constructs a Manager.
func NewManager(programID store.Address, backend store.Backend) *Manager {
	return &Manager{ProgramID: programID, Backend: backend}
}

func (m *Manager) addr(commandID [32]byte, authority store.Address) (store.Address, byte) {
	return store.MessagePayloadAddress(m.ProgramID, commandID, authority)
}

// Initialize allocates a buffer of size bytes for (commandID, authority).
func (m *Manager) Initialize(ctx context.Context, commandID [32]byte, authority store.Address, size int) error {
	addr, bump := m.addr(commandID, authority)
	buf := Buffer{Bump: bump, RawPayload: make([]byte, size)}
	return m.Backend.Create(ctx, addr, store.Record{Kind: store.KindMessagePayload, Bump: bump, Bytes: buf.encode()})
}

func (m *Manager) load(ctx context.Context, commandID [32]byte, authority store.Address) (store.Address, Buffer, int, error) {
	addr, _ := m.addr(commandID, authority)
	rec, err := m.Backend.Get(ctx, addr)
	if err != nil {
		return addr, Buffer{}, 0, err
	}
	size := len(rec.Bytes) - 34
	if size < 0 {
		return addr, Buffer{}, 0, fmt.Errorf("%w: corrupt buffer header", ErrOutOfBounds)
	}
	buf, err := decodeBuffer(rec.Bytes, size)
	return addr, buf, size, err
}

// Write copies data into the buffer at offset; requires Committed == false
// and 0 <= offset, offset+len(data) <= size (§4.4).
func (m *Manager) Write(ctx context.Context, commandID [32]byte, authority store.Address, offset int, data []byte) error {
	addr, buf, size, err := m.load(ctx, commandID, authority)
	if err != nil {
		return err
	}
	if buf.Committed {
		return ErrAlreadyCommitted
	}
	if offset < 0 || offset+len(data) > size {
		return ErrOutOfBounds
	}
	copy(buf.RawPayload[offset:], data)
	return m.Backend.Put(ctx, addr, store.Record{Kind: store.KindMessagePayload, Bump: buf.Bump, Bytes: buf.encode()})
}

// Commit computes payload_hash = keccak256(raw_payload), stores it, and
// sets Committed = true; subsequent writes are rejected.
func (m *Manager) Commit(ctx context.Context, commandID [32]byte, authority store.Address) ([32]byte, error) {
	addr, buf, _, err := m.load(ctx, commandID, authority)
	if err != nil {
		return [32]byte{}, err
	}
	if buf.Committed {
		return buf.PayloadHash, ErrAlreadyCommitted
	}
	buf.PayloadHash = codec.Keccak256(buf.RawPayload)
	buf.Committed = true
	if err := m.Backend.Put(ctx, addr, store.Record{Kind: store.KindMessagePayload, Bump: buf.Bump, Bytes: buf.encode()}); err != nil {
		return [32]byte{}, err
	}
	return buf.PayloadHash, nil
}

// Close deallocates the buffer; permitted in any state (§4.4).
func (m *Manager) Close(ctx context.Context, commandID [32]byte, authority store.Address) error {
	addr, _ := m.addr(commandID, authority)
	return m.Backend.Delete(ctx, addr)
}
