package model

import (
	"strings"

	"github.com/tagship/tagship/pkg/domain/types"
)

// ReleaseConfig is the desired state of a release, supplied once per run.
type ReleaseConfig struct {
	Owner string // Repository owner
	Repo  string // Repository name

	TagName string // Explicit tag override
	Ref     string // Source ref, e.g. refs/tags/v1.0.0 from CI

	Name            string // Display name; empty means derive from tag
	Body            string // Release body text, already resolved from inline text or body file
	TargetCommitish string // Commit-ish the tag should point at; empty means keep remote value
	AppendBody      bool   // Append Body to the existing body instead of replacing it

	// Draft and Prerelease are tri-state: nil means "keep whatever the
	// remote release has", a non-nil value (including false) wins.
	Draft      *bool
	Prerelease *bool

	DiscussionCategoryName string
	GenerateReleaseNotes   bool

	Token string `masq:"secret"` // API token, passed through opaquely
}

// ResolvedTag returns the tag to publish under: the explicit override when
// present, else the tag name derived from a tag ref, else empty. Callers
// must not publish with an empty tag.
func (c *ReleaseConfig) ResolvedTag() string {
	if c.TagName != "" {
		return c.TagName
	}
	if strings.HasPrefix(c.Ref, types.TagRefPrefix) {
		return strings.TrimPrefix(c.Ref, types.TagRefPrefix)
	}
	return ""
}

// DraftRequested reports whether the config explicitly asks for a draft
// release, which changes how an existing release is located.
func (c *ReleaseConfig) DraftRequested() bool {
	return c.Draft != nil && *c.Draft
}

// Release is the remote release record as the directory service reports it.
type Release struct {
	ID              int64
	TagName         string
	Name            string
	Body            string
	TargetCommitish string
	Draft           bool
	Prerelease      bool
	UploadURL       string // Valid only after creation
	HTMLURL         string
	Assets          []AssetSummary
}

// AssetSummary identifies an asset already attached to a release. Names are
// unique within one release.
type AssetSummary struct {
	ID   int64
	Name string
}

// ReleaseParams carries the fields of a create or update request. Draft and
// Prerelease stay tri-state so an unset flag is omitted on create.
type ReleaseParams struct {
	TagName                string
	Name                   string
	Body                   string
	TargetCommitish        string
	Draft                  *bool
	Prerelease             *bool
	DiscussionCategoryName string
	GenerateReleaseNotes   bool
}
