package model

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Attestation statement constants, in-toto style
const (
	StatementType           = "https://in-toto.io/Statement/v1"
	ProvenancePredicateType = "https://slsa.dev/provenance/v1"
)

// Subject identifies one attested artifact by name and digest
type Subject struct {
	Name   string            `json:"name"`
	Digest map[string]string `json:"digest"`
}

// ProvenancePredicate binds the attested set to its build context
type ProvenancePredicate struct {
	SourceRevision string    `json:"sourceRevision"`
	RunID          string    `json:"runId"`
	TriggerRef     string    `json:"triggerRef"`
	Builder        string    `json:"builder"`
	BuiltAt        time.Time `json:"builtAt"`
}

// Statement is the unsigned attestation payload covering the full
// bundle set of one run.
type Statement struct {
	Type          string              `json:"_type"`
	Subject       []Subject           `json:"subject"`
	PredicateType string              `json:"predicateType"`
	Predicate     ProvenancePredicate `json:"predicate"`
}

// NewSubject computes the digest subject for one blob within a bundle.
// The subject name is "<bundle>/<file>" so each wheel is individually
// verifiable.
func NewSubject(bundleName string, blob Blob) Subject {
	sum := sha256.Sum256(blob.Data)
	return Subject{
		Name: bundleName + "/" + blob.Name,
		Digest: map[string]string{
			"sha256": hex.EncodeToString(sum[:]),
		},
	}
}

// AttestationRecord is the signed statement binding the full artifact
// set to the source revision. Created once per successful join; never
// mutated or reused across runs.
type AttestationRecord struct {
	Statement Statement
	Envelope  []byte // Compact JWS over the serialized statement
	KeyID     string
	SignedAt  time.Time
}
