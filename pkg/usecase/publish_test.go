package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
	"github.com/appelgriebsch/wheelwright/pkg/usecase"
)

func TestPublishAll(t *testing.T) {
	ctx := context.Background()
	bundles := []*model.ArtifactBundle{
		{Name: "wheels-windows-x64"},
		{Name: "wheels-macos-aarch64"},
	}

	publisher := &fakePublisher{}
	gate := usecase.NewPublishGate(publisher)

	outcomes := gt.R1(gate.PublishAll(ctx, bundles)).NoError(t)
	gt.Array(t, outcomes).Length(2)
	for _, outcome := range outcomes {
		gt.Value(t, outcome.Status).Equal(model.PublishPublished)
	}
	gt.Array(t, publisher.published).Length(2)
}

func TestPublishAllSkipsExisting(t *testing.T) {
	ctx := context.Background()
	bundles := []*model.ArtifactBundle{
		{Name: "wheels-windows-x64"},
		{Name: "wheels-macos-aarch64"},
	}

	// The second bundle's identity is already at the index; that is a
	// success, not a failure
	publisher := &fakePublisher{
		errs: map[string]error{
			"wheels-macos-aarch64": goerr.New("already exists", goerr.T(types.TagPublishConflict)),
		},
	}
	gate := usecase.NewPublishGate(publisher)

	outcomes := gt.R1(gate.PublishAll(ctx, bundles)).NoError(t)
	gt.Value(t, outcomes[0].Status).Equal(model.PublishPublished)
	gt.Value(t, outcomes[1].Status).Equal(model.PublishSkippedExisting)
}

func TestPublishAllContinuesPastFailure(t *testing.T) {
	ctx := context.Background()
	bundles := []*model.ArtifactBundle{
		{Name: "wheels-windows-x64"},
		{Name: "wheels-windows-x86"},
		{Name: "wheels-macos-aarch64"},
	}

	publisher := &fakePublisher{
		errs: map[string]error{
			"wheels-windows-x86": goerr.New("token lacks upload scope", goerr.T(types.TagPermissionDenied)),
		},
	}
	gate := usecase.NewPublishGate(publisher)

	outcomes, err := gate.PublishAll(ctx, bundles)
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.TagPermissionDenied))

	// Remaining bundles were still attempted so the report is complete
	gt.Array(t, outcomes).Length(3)
	gt.Value(t, outcomes[0].Status).Equal(model.PublishPublished)
	gt.Value(t, outcomes[1].Status).Equal(model.PublishFailed)
	gt.String(t, outcomes[1].Error).Contains("upload scope")
	gt.Value(t, outcomes[2].Status).Equal(model.PublishPublished)
	gt.Array(t, publisher.published).Length(3)
}
