package backend

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/appelgriebsch/wheelwright/pkg/domain/interfaces"
	"github.com/appelgriebsch/wheelwright/pkg/domain/model"
	"github.com/appelgriebsch/wheelwright/pkg/domain/types"
)

// outputTail limits how much backend output is attached to errors
const outputTail = 4096

type maturinBackend struct {
	command   string
	sourceDir string
	outRoot   string
	cacheRoot string
}

// Option is a functional option for the build backend
type Option func(*maturinBackend)

// WithCommand overrides the build backend executable name
func WithCommand(command string) Option {
	return func(b *maturinBackend) {
		b.command = command
	}
}

// WithCacheRoot enables the persistent compilation cache. The cache is
// partitioned per target so concurrent builds never share an entry.
func WithCacheRoot(dir string) Option {
	return func(b *maturinBackend) {
		b.cacheRoot = dir
	}
}

// NewMaturin creates a build backend that drives the cross-compiling
// wheel builder. Each invocation uses the fixed release argument set
// and a per-target output directory.
func NewMaturin(sourceDir, outRoot string, opts ...Option) interfaces.BuildBackend {
	b := &maturinBackend{
		command:   "maturin",
		sourceDir: sourceDir,
		outRoot:   outRoot,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build runs one build request to completion. The wheel files are
// collected from the per-target output directory only after the
// backend exits successfully, so a failed build leaves no partial
// bundle behind.
func (b *maturinBackend) Build(ctx context.Context, req *model.BuildRequest) (*model.ArtifactBundle, error) {
	logger := ctxlog.From(ctx)

	bin, err := exec.LookPath(b.command)
	if err != nil {
		return nil, goerr.Wrap(err, "build toolchain not available",
			goerr.T(types.TagToolchainUnavailable),
			goerr.V("command", b.command),
		)
	}

	// Start from an empty output directory so stale wheels from a
	// previous invocation can never leak into this bundle.
	outDir := filepath.Join(b.outRoot, req.Target.Key())
	if err := os.RemoveAll(outDir); err != nil {
		return nil, goerr.Wrap(err, "failed to clear output directory", goerr.V("dir", outDir))
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("dir", outDir))
	}

	args := []string{
		"build",
		"--release",
		"--features", "pyo3/extension-module",
		"--out", outDir,
	}
	if req.Target.Triple != "" {
		args = append(args, "--target", req.Target.Triple)
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = b.sourceDir
	cmd.Env = append(os.Environ(), b.cacheEnv(ctx, req.Target)...)

	logger.Debug("Invoking build backend",
		"command", bin,
		"args", strings.Join(args, " "),
		"target", req.Target.Key(),
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, goerr.Wrap(err, "build backend failed",
			goerr.T(types.TagBuildBackend),
			goerr.V("target", req.Target.Key()),
			goerr.V("output", tail(output)),
		)
	}

	blobs, err := collectWheels(outDir)
	if err != nil {
		return nil, err
	}
	if len(blobs) == 0 {
		return nil, goerr.New("build backend produced no wheels",
			goerr.T(types.TagBuildBackend),
			goerr.V("target", req.Target.Key()),
			goerr.V("out_dir", outDir),
		)
	}

	return &model.ArtifactBundle{
		Name:      req.Target.BundleName(),
		Revision:  req.Revision,
		Blobs:     blobs,
		CreatedAt: time.Now(),
	}, nil
}

// cacheEnv points the compiler at a per-target cache directory. Cache
// setup problems degrade to an uncached build; they never fail the
// request.
func (b *maturinBackend) cacheEnv(ctx context.Context, target model.TargetDescriptor) []string {
	if b.cacheRoot == "" {
		return nil
	}

	cacheDir := filepath.Join(b.cacheRoot, target.Key())
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		ctxlog.From(ctx).Warn("Compilation cache unavailable, building cold",
			"target", target.Key(),
			"error", err,
		)
		return nil
	}

	return []string{"CARGO_TARGET_DIR=" + cacheDir}
}

func collectWheels(dir string) ([]model.Blob, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.whl"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to scan output directory", goerr.V("dir", dir))
	}

	var blobs []model.Blob
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read wheel file", goerr.V("path", p))
		}
		blobs = append(blobs, model.Blob{Name: filepath.Base(p), Data: data})
	}

	return blobs, nil
}

func tail(output []byte) string {
	if len(output) > outputTail {
		output = output[len(output)-outputTail:]
	}
	return string(output)
}
