package types

import "github.com/google/uuid"

// RunID identifies one pipeline invocation
type RunID string

// NewRunID generates a new random run identifier
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

func (x RunID) String() string {
	return string(x)
}
