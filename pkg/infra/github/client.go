package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
)

type client struct {
	githubClient *github.Client
}

// Option is a functional option for client configuration
type Option func(*github.Client) error

// WithBaseURL overrides the API base URL, e.g. for GitHub Enterprise or
// tests. The URL must end with a trailing slash.
func WithBaseURL(rawURL string) Option {
	return func(c *github.Client) error {
		parsed, err := url.Parse(rawURL)
		if err != nil {
			return goerr.Wrap(err, "invalid API base URL", goerr.V("url", rawURL))
		}
		c.BaseURL = parsed
		return nil
	}
}

// NewClient creates a release directory client authenticated with a
// personal access or workflow token.
func NewClient(token string, opts ...Option) (interfaces.ReleaseDirectory, error) {
	githubClient := github.NewClient(nil).WithAuthToken(token)

	for _, opt := range opts {
		if err := opt(githubClient); err != nil {
			return nil, err
		}
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// NewAppClient creates a release directory client with GitHub App
// installation authentication.
func NewAppClient(appID, installationID int64, privateKey []byte, opts ...Option) (interfaces.ReleaseDirectory, error) {
	itr, err := ghinstallation.New(http.DefaultTransport, appID, installationID, privateKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create GitHub App transport")
	}

	githubClient := github.NewClient(&http.Client{Transport: itr})

	for _, opt := range opts {
		if err := opt(githubClient); err != nil {
			return nil, err
		}
	}

	return &client{
		githubClient: githubClient,
	}, nil
}

// GetReleaseByTag resolves a published release by its tag name
func (c *client) GetReleaseByTag(ctx context.Context, owner, repo, tag string) (*model.Release, error) {
	release, resp, err := c.githubClient.Repositories.GetReleaseByTag(ctx, owner, repo, tag)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, goerr.Wrap(err, "no release for tag",
				goerr.T(types.ErrTagNotFound),
				goerr.V("tag", tag),
			)
		}
		return nil, goerr.Wrap(err, "failed to get release by tag",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("tag", tag),
		)
	}

	return toRelease(release), nil
}

// CreateRelease creates a new release from the given fields
func (c *client) CreateRelease(ctx context.Context, owner, repo string, params *model.ReleaseParams) (*model.Release, error) {
	release, _, err := c.githubClient.Repositories.CreateRelease(ctx, owner, repo, toRepositoryRelease(params))
	if err != nil {
		// Any structured API rejection here is treated as a duplicate-tag
		// race: the tag lookup just reported the release absent, so the
		// usual cause is a concurrent run creating it in between.
		var errResp *github.ErrorResponse
		if errors.As(err, &errResp) {
			return nil, goerr.Wrap(err, "release creation rejected",
				goerr.T(types.ErrTagConflict),
				goerr.V("tag", params.TagName),
			)
		}
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.V("tag", params.TagName),
		)
	}

	return toRelease(release), nil
}

// UpdateRelease updates an existing release in place
func (c *client) UpdateRelease(ctx context.Context, owner, repo string, releaseID int64, params *model.ReleaseParams) (*model.Release, error) {
	release, _, err := c.githubClient.Repositories.EditRelease(ctx, owner, repo, releaseID, toRepositoryRelease(params))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update release",
			goerr.V("release_id", releaseID),
			goerr.V("tag", params.TagName),
		)
	}

	return toRelease(release), nil
}

// ListReleases returns one page of all releases, drafts included
func (c *client) ListReleases(ctx context.Context, owner, repo string, page int) ([]*model.Release, int, error) {
	releases, resp, err := c.githubClient.Repositories.ListReleases(ctx, owner, repo, &github.ListOptions{
		Page:    page,
		PerPage: types.ListPageSize,
	})
	if err != nil {
		return nil, 0, goerr.Wrap(err, "failed to list releases",
			goerr.V("owner", owner),
			goerr.V("repo", repo),
			goerr.V("page", page),
		)
	}

	result := make([]*model.Release, 0, len(releases))
	for _, release := range releases {
		result = append(result, toRelease(release))
	}

	return result, resp.NextPage, nil
}

// DeleteAsset removes a release asset by id
func (c *client) DeleteAsset(ctx context.Context, owner, repo string, assetID int64) error {
	if _, err := c.githubClient.Repositories.DeleteReleaseAsset(ctx, owner, repo, assetID); err != nil {
		return goerr.Wrap(err, "failed to delete release asset",
			goerr.V("asset_id", assetID),
		)
	}
	return nil
}

// UploadAsset posts the raw asset bytes against the release upload URL.
// The response body is parsed regardless of status so the caller can
// extract the remote error message on rejection.
func (c *client) UploadAsset(ctx context.Context, uploadURL string, asset *model.AssetDescriptor) (*model.UploadResponse, error) {
	target := uploadTarget(uploadURL, asset.Name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(asset.Data))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create upload request", goerr.V("url", target))
	}
	req.Header.Set("Content-Type", asset.ContentType)
	req.ContentLength = asset.Size

	// The client's transport carries authentication, same as API calls.
	httpClient := &http.Client{Transport: c.githubClient.Client().Transport}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload asset", goerr.V("url", target))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read upload response")
	}

	var parsed struct {
		model.Asset
		Message string `json:"message"`
	}
	if len(body) > 0 {
		// Tolerate non-JSON bodies; the status code still drives the outcome.
		_ = json.Unmarshal(body, &parsed)
	}

	result := &model.UploadResponse{
		StatusCode: resp.StatusCode,
		Message:    parsed.Message,
	}
	if resp.StatusCode == http.StatusCreated {
		result.Asset = &parsed.Asset
	}

	return result, nil
}

// uploadTarget strips the hypermedia template from the upload URL and
// appends the asset name as a query parameter.
func uploadTarget(uploadURL, name string) string {
	if i := strings.Index(uploadURL, "{"); i >= 0 {
		uploadURL = uploadURL[:i]
	}
	return uploadURL + "?name=" + url.QueryEscape(name)
}

func toRelease(release *github.RepositoryRelease) *model.Release {
	assets := make([]model.AssetSummary, 0, len(release.Assets))
	for _, asset := range release.Assets {
		assets = append(assets, model.AssetSummary{
			ID:   asset.GetID(),
			Name: asset.GetName(),
		})
	}

	return &model.Release{
		ID:              release.GetID(),
		TagName:         release.GetTagName(),
		Name:            release.GetName(),
		Body:            release.GetBody(),
		TargetCommitish: release.GetTargetCommitish(),
		Draft:           release.GetDraft(),
		Prerelease:      release.GetPrerelease(),
		UploadURL:       release.GetUploadURL(),
		HTMLURL:         release.GetHTMLURL(),
		Assets:          assets,
	}
}

func toRepositoryRelease(params *model.ReleaseParams) *github.RepositoryRelease {
	release := &github.RepositoryRelease{
		TagName:    github.Ptr(params.TagName),
		Name:       github.Ptr(params.Name),
		Body:       github.Ptr(params.Body),
		Draft:      params.Draft,
		Prerelease: params.Prerelease,
	}
	if params.TargetCommitish != "" {
		release.TargetCommitish = github.Ptr(params.TargetCommitish)
	}
	if params.DiscussionCategoryName != "" {
		release.DiscussionCategoryName = github.Ptr(params.DiscussionCategoryName)
	}
	if params.GenerateReleaseNotes {
		release.GenerateReleaseNotes = github.Ptr(true)
	}
	return release
}
