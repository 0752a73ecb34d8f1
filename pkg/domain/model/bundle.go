package model

import "time"

// Blob is a single file within an artifact bundle
type Blob struct {
	Name string // File name (e.g. "tonbo-0.2.0-cp39-none-win_amd64.whl")
	Data []byte
}

// ArtifactBundle is the packaged output of one successful build,
// stored under a name derived from its target descriptor. Immutable
// once uploaded.
type ArtifactBundle struct {
	Name      string // Derived via TargetDescriptor.BundleName
	Revision  string // Source revision the bundle was built from
	Blobs     []Blob
	CreatedAt time.Time
}

// TotalSize returns the summed size of all blobs in bytes
func (b *ArtifactBundle) TotalSize() int64 {
	var total int64
	for _, blob := range b.Blobs {
		total += int64(len(blob.Data))
	}
	return total
}
