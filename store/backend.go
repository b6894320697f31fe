package store

import "context"

// Kind tags the entity type an account holds, mirroring the object-type
// discriminant the teacher's blob-backed log storage stamps on every
// object it writes, so a backend can enforce one writer's schema never
// collides with another's under the same address space.
type Kind byte

const (
	KindGatewayConfig Kind = iota
	KindVerifierSetTracker
	KindSignatureVerificationSession
	KindIncomingMessage
	KindMessagePayload
)

// Record is one stored account: its kind, raw packed bytes, and the bump
// it was created with.
type Record struct {
	Kind  Kind
	Bump  byte
	Bytes []byte
}

// Backend is the storage abstraction every PDA-shaped entity in this module
// is persisted through. Implementations must make Create atomically
// conditional on absence, since every instruction that allocates a new PDA
// depends on ErrAlreadyExists for idempotence.
type Backend interface {
	// Create stores rec at addr, failing with ErrAlreadyExists if an
	// account is already stored there.
	Create(ctx context.Context, addr Address, rec Record) error
	// Get reads the account at addr, failing with ErrNotFound if absent.
	Get(ctx context.Context, addr Address) (Record, error)
	// Put overwrites the account at addr unconditionally; used for the
	// in-place mutations §3 permits (IncomingMessage Approved->Executed,
	// GatewayConfig operator/epoch updates, payload buffer writes).
	Put(ctx context.Context, addr Address, rec Record) error
	// Delete removes the account at addr; used by MessagePayload Close.
	Delete(ctx context.Context, addr Address) error
}
