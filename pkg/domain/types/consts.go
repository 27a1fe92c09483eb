package types

// Version is the application version, overridden at build time with
// -ldflags "-X github.com/tagship/tagship/pkg/domain/types.Version=...".
var Version = "dev"

const (
	// TagRefPrefix is the ref prefix a tag push carries in CI (e.g. GITHUB_REF).
	TagRefPrefix = "refs/tags/"

	// DefaultMaxRetries bounds how many times a full reconciliation is
	// attempted when release creation races with a concurrent run.
	DefaultMaxRetries = 3

	// ListPageSize is the page size used when scanning all releases of a
	// repository. Draft releases are only discoverable through this scan.
	ListPageSize = 100

	// DefaultContentType is used for assets whose content type cannot be
	// inferred from the file.
	DefaultContentType = "application/octet-stream"
)
