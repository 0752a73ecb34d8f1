package usecase

import (
	"context"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

type attestation struct {
	store    interfaces.ArtifactStore
	attestor interfaces.Attestor
}

// NewAttestation creates the attestation stage. It must only be
// invoked after every build request of the run reported a terminal
// status; it re-checks completeness itself and refuses to attest a
// proper subset of the expected bundle set.
func NewAttestation(store interfaces.ArtifactStore, attestor interfaces.Attestor) *attestation {
	return &attestation{
		store:    store,
		attestor: attestor,
	}
}

// Attest downloads the full wheel bundle set, verifies it covers every
// issued request exactly, and produces one signed record over the set.
// All-or-nothing: a missing or unexpected bundle is fatal to the run.
func (a *attestation) Attest(ctx context.Context, requests []model.BuildRequest, trigger model.TriggerContext, runID types.RunID, revision string) (*model.AttestationRecord, []*model.ArtifactBundle, error) {
	logger := ctxlog.From(ctx)

	bundles, err := a.store.GetAll(ctx, types.BundlePattern)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to retrieve bundles for attestation")
	}

	if err := verifyCoverage(requests, bundles); err != nil {
		return nil, nil, err
	}

	statement := &model.Statement{
		Type:          model.StatementType,
		PredicateType: model.ProvenancePredicateType,
		Predicate: model.ProvenancePredicate{
			SourceRevision: revision,
			RunID:          runID.String(),
			TriggerRef:     trigger.RefName,
			Builder:        types.ServiceName + "/" + types.Version,
			BuiltAt:        time.Now().UTC(),
		},
	}
	for _, bundle := range bundles {
		for _, blob := range bundle.Blobs {
			statement.Subject = append(statement.Subject, model.NewSubject(bundle.Name, blob))
		}
	}

	record, err := a.attestor.Attest(ctx, statement)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to sign attestation")
	}

	// Stage the signed attestation next to the bundles so downstream
	// tooling can fetch it with them. Its name is outside the wheel
	// bundle pattern.
	attBundle := &model.ArtifactBundle{
		Name:      types.AttestationPrefix + runID.String(),
		Revision:  revision,
		Blobs:     []model.Blob{{Name: "attestation.jws", Data: record.Envelope}},
		CreatedAt: record.SignedAt,
	}
	if err := a.store.Put(ctx, attBundle); err != nil {
		return nil, nil, goerr.Wrap(err, "failed to store attestation artifact")
	}

	logger.Info("Attestation complete",
		"subjects", len(statement.Subject),
		"bundles", len(bundles),
		"key_id", record.KeyID,
	)

	return record, bundles, nil
}

// verifyCoverage checks that the retrieved bundle set matches the
// expected request set exactly, by derived bundle name.
func verifyCoverage(requests []model.BuildRequest, bundles []*model.ArtifactBundle) error {
	expected := make(map[string]struct{}, len(requests))
	for _, req := range requests {
		expected[req.Target.BundleName()] = struct{}{}
	}

	found := make(map[string]struct{}, len(bundles))
	for _, bundle := range bundles {
		if _, ok := expected[bundle.Name]; !ok {
			return goerr.New("unexpected bundle in artifact store",
				goerr.T(types.TagAttestationIncomplete),
				goerr.V("bundle", bundle.Name),
			)
		}
		found[bundle.Name] = struct{}{}
	}

	for name := range expected {
		if _, ok := found[name]; !ok {
			return goerr.New("expected bundle missing at attestation",
				goerr.T(types.TagAttestationIncomplete),
				goerr.V("bundle", name),
				goerr.V("expected", len(expected)),
				goerr.V("found", len(found)),
			)
		}
	}

	return nil
}
