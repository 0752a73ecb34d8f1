package interfaces

import (
	"context"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
)

// Attestor signs an attestation statement, binding an artifact set to
// its source revision. Completeness of the statement is the caller's
// responsibility; the attestor only signs what it is given.
type Attestor interface {
	Attest(ctx context.Context, statement *model.Statement) (*model.AttestationRecord, error)
}
