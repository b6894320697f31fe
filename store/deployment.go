package store

import (
	"strings"

	"github.com/google/uuid"
)

// lenUUIDString is the length of the canonical UUID string representation.
const lenUUIDString = 36

// NewDeploymentPrefix mints a fresh UUID-based container prefix, letting
// several Gateway deployments (distinct program IDs, distinct networks)
// share one Azure Blob container without colliding on blob names.
func NewDeploymentPrefix() string {
	return uuid.New().String()
}

// ParseDeploymentPrefix extracts the UUID deployment prefix from a blob
// path of the form "<uuid>/<rest>", returning false if path does not begin
// with a well-formed UUID.
func ParseDeploymentPrefix(path string) (uuid.UUID, bool) {
	i := strings.IndexByte(path, '/')
	if i == -1 {
		i = len(path)
	}
	if i != lenUUIDString {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(path[:i])
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}
