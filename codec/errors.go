package codec

import "github.com/axelarnetwork/axelar-solana-gateway-engine/errkind"

var (
	// ErrEncodingFailure is returned when a set or message sequence exceeds
	// the u16 container-count limit the wire format can represent (§4.1).
	ErrEncodingFailure = errkind.New(errkind.InputInvalid, "codec: container exceeds u16::MAX elements")
	// ErrEmptyInput is returned when a VerifierSet or message sequence is empty.
	ErrEmptyInput = errkind.New(errkind.InputInvalid, "codec: input set must not be empty")
	// ErrTruncated is returned by decoders when the buffer ends mid-field.
	ErrTruncated = errkind.New(errkind.InputInvalid, "codec: buffer truncated")
	// ErrBadDiscriminant is returned when a tagged-sum discriminant byte does
	// not match any known variant.
	ErrBadDiscriminant = errkind.New(errkind.InputInvalid, "codec: unknown tagged-sum discriminant")
	// ErrBadFixedWidth is returned when a fixed-width field (hash, pubkey,
	// address) is not exactly the width the schema requires.
	ErrBadFixedWidth = errkind.New(errkind.InputInvalid, "codec: fixed-width field has wrong length")
	// ErrTrailingBytes is returned when a decode leaves unconsumed input.
	ErrTrailingBytes = errkind.New(errkind.InputInvalid, "codec: trailing bytes after decode")
)
