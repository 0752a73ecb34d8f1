package usecase_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
	"github.com/appelgriebsch/wheelwright/pkg/usecase"
)

func testMatrix() *model.BuildMatrix {
	return &model.BuildMatrix{
		Families: []model.MatrixFamily{
			{
				Name:   "windows",
				Runner: "windows-2022",
				Targets: []model.MatrixTarget{
					{Architecture: "x64"},
					{Architecture: "x86", Triple: "i686-pc-windows-msvc"},
				},
			},
			{
				Name:   "macos",
				Runner: "macos-14",
				Targets: []model.MatrixTarget{
					{Architecture: "x86_64", Triple: "x86_64-apple-darwin"},
					{Architecture: "aarch64", Triple: "aarch64-apple-darwin"},
				},
			},
		},
	}
}

func TestExpandMatrix(t *testing.T) {
	runID := types.NewRunID()
	requests := gt.R1(usecase.ExpandMatrix(testMatrix(), runID, "abc123")).NoError(t)

	// One request per declared target, nothing more
	gt.Array(t, requests).Length(4)

	keys := map[string]bool{}
	for _, req := range requests {
		gt.Value(t, req.RunID).Equal(runID)
		gt.Value(t, req.Revision).Equal("abc123")
		gt.False(t, keys[req.Target.Key()])
		keys[req.Target.Key()] = true
	}

	gt.True(t, keys["windows-x64"])
	gt.True(t, keys["windows-x86"])
	gt.True(t, keys["macos-x86_64"])
	gt.True(t, keys["macos-aarch64"])
}

func TestExpandMatrixInvalid(t *testing.T) {
	matrix := &model.BuildMatrix{}
	_, err := usecase.ExpandMatrix(matrix, types.NewRunID(), "abc123")
	gt.Error(t, err)
	gt.True(t, goerr.HasTag(err, types.TagConfiguration))
}
