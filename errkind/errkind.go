// Package errkind classifies errors raised anywhere in the gateway engine
// into the small taxonomy the protocol's error-handling design is built
// around. The sentinel errors declared in codec, sigverify, signing, store,
// gateway, payloadbuffer and events are created with New and carry one of
// the kinds below, so callers (and tests) can branch on the kind of failure
// with Classify or Is without string-matching messages.
package errkind

import "errors"

// Kind is one of the seven error categories the protocol distinguishes.
type Kind int

const (
	// Unknown tags no sentinel; Classify returns it for an error that carries
	// no sentinel, and it keeps the zero value of Kind distinguishable from a
	// real classification.
	Unknown Kind = iota
	InputInvalid
	AuthorisationFailure
	StateConflict
	CryptoFailure
	EpochFailure
	Tamper
	ResourceFailure
)

func (k Kind) String() string {
	switch k {
	case InputInvalid:
		return "InputInvalid"
	case AuthorisationFailure:
		return "AuthorisationFailure"
	case StateConflict:
		return "StateConflict"
	case CryptoFailure:
		return "CryptoFailure"
	case EpochFailure:
		return "EpochFailure"
	case Tamper:
		return "Tamper"
	case ResourceFailure:
		return "ResourceFailure"
	default:
		return "Unknown"
	}
}

// sentinel is a Kind-tagged error. Wrapping a sentinel with fmt.Errorf("%w: ...")
// preserves both errors.Is(err, sentinel) and the kind Classify reports.
type sentinel struct {
	kind Kind
	msg  string
}

func (s *sentinel) Error() string { return s.msg }

// New creates a new sentinel error tagged with the given kind. Packages
// throughout this repository declare their sentinels with this constructor
// instead of plain errors.New, so Classify can recover the kind later.
func New(kind Kind, msg string) error {
	return &sentinel{kind: kind, msg: msg}
}

// Classify walks the error chain (via errors.Unwrap) looking for a sentinel
// created by New, and returns its Kind. If no sentinel is found, it returns
// Unknown.
func Classify(err error) Kind {
	for err != nil {
		var s *sentinel
		if errors.As(err, &s) {
			return s.kind
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// Is reports whether err classifies as kind.
func Is(err error, kind Kind) bool {
	return Classify(err) == kind
}
