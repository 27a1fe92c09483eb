package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify remote failures so callers can branch on the class
// of a failure without depending on concrete error values.
var (
	// ErrTagNotFound marks a tag lookup that resolved no release. It is
	// consumed internally by the reconciler and never surfaced to callers.
	ErrTagNotFound = goerr.NewTag("release_not_found")

	// ErrTagConflict marks a release creation that lost a duplicate-tag
	// race. It is the only failure class the reconciler retries.
	ErrTagConflict = goerr.NewTag("release_conflict")

	// ErrTagUnexpectedRemote marks any other remote failure. Never retried.
	ErrTagUnexpectedRemote = goerr.NewTag("unexpected_remote")

	// ErrTagAssetUpload marks a non-201 response to an asset upload.
	ErrTagAssetUpload = goerr.NewTag("asset_upload")

	// ErrTagLocalFile marks a local filesystem failure while preparing an
	// asset or reading a body file.
	ErrTagLocalFile = goerr.NewTag("local_file")
)

// ErrExhaustedRetries is returned when reconciliation ran out of attempts,
// including when the caller supplies a non-positive retry budget.
var ErrExhaustedRetries = goerr.New("release reconciliation retries exhausted")
