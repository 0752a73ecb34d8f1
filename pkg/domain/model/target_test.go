package model_test

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

const sampleMatrix = `
[[family]]
name = "windows"
runner = "windows-2022"

  [[family.target]]
  arch = "x64"

  [[family.target]]
  arch = "x86"
  triple = "i686-pc-windows-msvc"

[[family]]
name = "macos"
runner = "macos-14"

  [[family.target]]
  arch = "x86_64"
  triple = "x86_64-apple-darwin"

  [[family.target]]
  arch = "aarch64"
  triple = "aarch64-apple-darwin"
`

func TestParseMatrix(t *testing.T) {
	matrix := gt.R1(model.ParseMatrix([]byte(sampleMatrix))).NoError(t)

	descriptors := matrix.Descriptors()
	gt.Array(t, descriptors).Length(4)

	// Declaration order is preserved
	gt.Value(t, descriptors[0].Key()).Equal("windows-x64")
	gt.Value(t, descriptors[1].Key()).Equal("windows-x86")
	gt.Value(t, descriptors[2].Key()).Equal("macos-x86_64")
	gt.Value(t, descriptors[3].Key()).Equal("macos-aarch64")

	gt.Value(t, descriptors[0].RunnerClass).Equal("windows-2022")
	gt.Value(t, descriptors[0].Triple).Equal("")
	gt.Value(t, descriptors[3].Triple).Equal("aarch64-apple-darwin")
}

func TestBundleName(t *testing.T) {
	d := model.TargetDescriptor{PlatformFamily: "macos", Architecture: "aarch64"}
	gt.Value(t, d.BundleName()).Equal("wheels-macos-aarch64")
}

func TestParseMatrixInvalid(t *testing.T) {
	cases := []struct {
		name string
		toml string
	}{
		{
			name: "empty matrix",
			toml: ``,
		},
		{
			name: "family without name",
			toml: `
[[family]]
runner = "ubuntu-22.04"
  [[family.target]]
  arch = "x86_64"
`,
		},
		{
			name: "family without targets",
			toml: `
[[family]]
name = "linux"
runner = "ubuntu-22.04"
`,
		},
		{
			name: "target without arch",
			toml: `
[[family]]
name = "linux"
runner = "ubuntu-22.04"
  [[family.target]]
  triple = "x86_64-unknown-linux-gnu"
`,
		},
		{
			name: "duplicate family and arch",
			toml: `
[[family]]
name = "linux"
runner = "ubuntu-22.04"
  [[family.target]]
  arch = "x86_64"
  [[family.target]]
  arch = "x86_64"
`,
		},
		{
			name: "not toml",
			toml: `{"family": []}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.ParseMatrix([]byte(tc.toml))
			gt.Error(t, err)
			gt.True(t, goerr.HasTag(err, types.TagConfiguration))
		})
	}
}

func TestMatrixSameArchAcrossFamilies(t *testing.T) {
	// The same architecture under different families does not collide
	data := `
[[family]]
name = "windows"
runner = "windows-2022"
  [[family.target]]
  arch = "x86_64"

[[family]]
name = "linux"
runner = "ubuntu-22.04"
  [[family.target]]
  arch = "x86_64"
`
	matrix := gt.R1(model.ParseMatrix([]byte(data))).NoError(t)
	gt.Array(t, matrix.Descriptors()).Length(2)
}
