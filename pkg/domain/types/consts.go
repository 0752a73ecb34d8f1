package types

// Version is the application version, overwritten at build time via ldflags
var Version = "0.1.0"

// ServiceName identifies this service in logs, health responses and
// attestation predicates
const ServiceName = "wheelwright"

const (
	// BundlePrefix is the naming convention for wheel artifact bundles.
	// Downstream tooling matches on this exact prefix, so it must never
	// change without coordinating the publish glob.
	BundlePrefix = "wheels-"

	// BundlePattern is the wildcard used to retrieve every wheel bundle
	// of the current run from the artifact store.
	BundlePattern = "wheels-*"

	// AttestationPrefix names the stored attestation artifact. It must
	// not match BundlePattern.
	AttestationPrefix = "attestation-"
)
