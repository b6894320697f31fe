package store

import "github.com/axelarnetwork/axelar-solana-gateway-engine/errkind"

// ErrNotFound is returned when a lookup targets an account that has never
// been created.
var ErrNotFound = errkind.New(errkind.ResourceFailure, "store: account not found")

// ErrAlreadyExists is returned by Create when a PDA is already initialised.
// This is the optimistic-concurrency guard every Initialize-style
// instruction (session, incoming-message, tracker, payload buffer) relies
// on for idempotence.
var ErrAlreadyExists = errkind.New(errkind.StateConflict, "store: account already initialised")

// ErrNonCanonical is returned when a caller presents a PDA/bump pair that
// does not re-derive canonically.
var ErrNonCanonical = errkind.New(errkind.AuthorisationFailure, "store: non-canonical PDA derivation")
