package model

// PublishStatus is the terminal per-artifact publish result
type PublishStatus string

const (
	// PublishPublished means the artifact was newly uploaded
	PublishPublished PublishStatus = "published"
	// PublishSkippedExisting means the same artifact identity already
	// existed at the index; treated as success (skip-existing)
	PublishSkippedExisting PublishStatus = "skipped_existing"
	// PublishFailed means the upload failed for a non-conflict reason
	PublishFailed PublishStatus = "failed"
)

// PublishOutcome records the terminal publish result for one bundle
type PublishOutcome struct {
	Bundle string
	Status PublishStatus
	Error  string // Failure reason, empty unless Status is failed
}
