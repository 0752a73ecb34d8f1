package model

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// TargetDescriptor identifies one build configuration. Immutable;
// enumerated once per pipeline invocation.
type TargetDescriptor struct {
	PlatformFamily string // Host platform family (e.g. "macos", "windows")
	Architecture   string // Target architecture (e.g. "aarch64", "x64")
	RunnerClass    string // Runner class the build is scheduled on
	Triple         string // Optional toolchain triple passed to the build backend
}

// Key returns the identity of the descriptor within a run. Two
// descriptors in one run must never share a key.
func (d TargetDescriptor) Key() string {
	return d.PlatformFamily + "-" + d.Architecture
}

// BundleName derives the artifact bundle name for this target. The
// format is consumed by downstream tooling and must stay bit-exact.
func (d TargetDescriptor) BundleName() string {
	return types.BundlePrefix + d.PlatformFamily + "-" + d.Architecture
}

// BuildMatrix is the declarative build matrix, one family group per
// host platform.
type BuildMatrix struct {
	Families []MatrixFamily `toml:"family"`
}

// MatrixFamily is one build family group within the matrix.
type MatrixFamily struct {
	Name    string         `toml:"name"`
	Runner  string         `toml:"runner"`
	Targets []MatrixTarget `toml:"target"`
}

// MatrixTarget is a single architecture entry within a family.
type MatrixTarget struct {
	Architecture string `toml:"arch"`
	Triple       string `toml:"triple,omitempty"`
}

// ParseMatrix decodes a TOML build matrix and validates it.
func ParseMatrix(data []byte) (*BuildMatrix, error) {
	var matrix BuildMatrix
	if err := toml.Unmarshal(data, &matrix); err != nil {
		return nil, goerr.Wrap(err, "failed to parse build matrix", goerr.T(types.TagConfiguration))
	}

	if err := matrix.Validate(); err != nil {
		return nil, err
	}

	return &matrix, nil
}

// LoadMatrix reads and parses a build matrix file.
func LoadMatrix(path string) (*BuildMatrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read build matrix file",
			goerr.T(types.TagConfiguration),
			goerr.V("path", path),
		)
	}

	return ParseMatrix(data)
}

// Validate checks the matrix invariants: non-empty, every family
// non-empty, and no two targets colliding on (family, architecture).
func (m *BuildMatrix) Validate() error {
	if len(m.Families) == 0 {
		return goerr.New("build matrix has no families", goerr.T(types.TagConfiguration))
	}

	seen := map[string]struct{}{}
	for _, family := range m.Families {
		if family.Name == "" {
			return goerr.New("build family has no name", goerr.T(types.TagConfiguration))
		}
		if len(family.Targets) == 0 {
			return goerr.New("build family has no targets",
				goerr.T(types.TagConfiguration),
				goerr.V("family", family.Name),
			)
		}

		for _, target := range family.Targets {
			if target.Architecture == "" {
				return goerr.New("target has no architecture",
					goerr.T(types.TagConfiguration),
					goerr.V("family", family.Name),
				)
			}

			key := family.Name + "-" + target.Architecture
			if _, ok := seen[key]; ok {
				return goerr.New("duplicate target in build matrix",
					goerr.T(types.TagConfiguration),
					goerr.V("family", family.Name),
					goerr.V("arch", target.Architecture),
				)
			}
			seen[key] = struct{}{}
		}
	}

	return nil
}

// Descriptors expands the matrix into the full set of target
// descriptors, in declaration order.
func (m *BuildMatrix) Descriptors() []TargetDescriptor {
	var descriptors []TargetDescriptor
	for _, family := range m.Families {
		for _, target := range family.Targets {
			descriptors = append(descriptors, TargetDescriptor{
				PlatformFamily: family.Name,
				Architecture:   target.Architecture,
				RunnerClass:    family.Runner,
				Triple:         target.Triple,
			})
		}
	}
	return descriptors
}
