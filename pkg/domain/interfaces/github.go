package interfaces

import (
	"context"

	"github.com/tagship/tagship/pkg/domain/model"
)

// ReleaseDirectory defines the remote release API operations the use cases
// depend on. Implementations map remote failures onto the error tags in
// pkg/domain/types.
type ReleaseDirectory interface {
	// GetReleaseByTag resolves a published release by tag. Fails with an
	// ErrTagNotFound-tagged error when no published release carries the tag.
	// Draft releases are not addressable this way.
	GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*model.Release, error)

	// CreateRelease creates a new release. Fails with an ErrTagConflict-tagged
	// error when a concurrent run created the tag first.
	CreateRelease(ctx context.Context, owner, repo string, params *model.ReleaseParams) (*model.Release, error)

	// UpdateRelease mutates an existing release in place.
	UpdateRelease(ctx context.Context, owner, repo string, releaseID int64, params *model.ReleaseParams) (*model.Release, error)

	// ListReleases returns one page of all releases, drafts included, in the
	// order the remote reports them. nextPage is 0 when no pages remain.
	ListReleases(ctx context.Context, owner, repo string, page int) (releases []*model.Release, nextPage int, err error)

	// DeleteAsset removes an asset from its release by id.
	DeleteAsset(ctx context.Context, owner, repo string, assetID int64) error

	// UploadAsset posts raw bytes against a release-specific upload URL and
	// returns the parsed response together with the HTTP status. A non-nil
	// error means the request itself failed, not that the remote rejected it.
	UploadAsset(ctx context.Context, uploadURL string, asset *model.AssetDescriptor) (*model.UploadResponse, error)
}

// LocalFiles defines the local filesystem operations needed to build an
// asset descriptor or read a body file.
type LocalFiles interface {
	// Stat returns the file size in bytes.
	Stat(path string) (int64, error)

	// Read returns the full file content.
	Read(path string) ([]byte, error)

	// ContentType infers the MIME type of the file, or "" when unknown.
	ContentType(path string) string
}

// Notifier announces a completed publish to an external channel.
type Notifier interface {
	NotifyPublished(ctx context.Context, summary *model.PublishSummary) error
}
