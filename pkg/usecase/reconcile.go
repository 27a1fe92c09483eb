package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
)

type reconciler struct {
	directory interfaces.ReleaseDirectory
}

// NewReconciler creates a new ReleaseReconciler backed by the given
// release directory service.
func NewReconciler(directory interfaces.ReleaseDirectory) interfaces.ReleaseReconciler {
	return &reconciler{
		directory: directory,
	}
}

// Reconcile runs the full reconciliation up to maxRetries times. Only a
// duplicate-tag race during creation is retried; every other failure is
// surfaced immediately.
func (uc *reconciler) Reconcile(ctx context.Context, cfg *model.ReleaseConfig, maxRetries int) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	for remaining := maxRetries; remaining > 0; remaining-- {
		release, err := uc.reconcileOnce(ctx, cfg)
		if err == nil {
			return release, nil
		}
		if !goerr.HasTag(err, types.ErrTagConflict) {
			return nil, err
		}

		logger.Warn("Release creation raced with a concurrent run, retrying",
			"tag", cfg.ResolvedTag(),
			"remaining", remaining-1,
		)
	}

	return nil, goerr.Wrap(types.ErrExhaustedRetries, "too many retries",
		goerr.V("tag", cfg.ResolvedTag()),
		goerr.V("max_retries", maxRetries),
	)
}

// reconcileOnce performs a single pass: draft scan, tag lookup, then either
// update or create.
func (uc *reconciler) reconcileOnce(ctx context.Context, cfg *model.ReleaseConfig) (*model.Release, error) {
	logger := ctxlog.From(ctx)
	tag := cfg.ResolvedTag()

	// Draft releases never resolve through tag lookup, so draft mode scans
	// the full release list first. A found draft is returned as is.
	if cfg.DraftRequested() {
		draft, err := uc.findReleaseByScan(ctx, cfg, tag)
		if err != nil {
			return nil, err
		}
		if draft != nil {
			logger.Info("Found existing draft release",
				"tag", tag,
				"release_id", draft.ID,
			)
			return draft, nil
		}
	}

	existing, err := uc.directory.GetReleaseByTag(ctx, cfg.Owner, cfg.Repo, tag)
	switch {
	case err == nil:
		return uc.updateRelease(ctx, cfg, tag, existing)
	case goerr.HasTag(err, types.ErrTagNotFound):
		return uc.createRelease(ctx, cfg, tag)
	default:
		return nil, goerr.Wrap(err, "failed to look up release by tag",
			goerr.T(types.ErrTagUnexpectedRemote),
			goerr.V("tag", tag),
		)
	}
}

// findReleaseByScan pages through all releases in listing order and returns
// the first one matching the tag, or nil when no page contains a match.
func (uc *reconciler) findReleaseByScan(ctx context.Context, cfg *model.ReleaseConfig, tag string) (*model.Release, error) {
	page := 1
	for {
		releases, nextPage, err := uc.directory.ListReleases(ctx, cfg.Owner, cfg.Repo, page)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list releases",
				goerr.T(types.ErrTagUnexpectedRemote),
				goerr.V("page", page),
			)
		}

		for _, release := range releases {
			if release.TagName == tag {
				return release, nil
			}
		}

		if nextPage == 0 {
			return nil, nil
		}
		page = nextPage
	}
}

// updateRelease merges the configured fields over the existing release and
// issues a single update.
func (uc *reconciler) updateRelease(ctx context.Context, cfg *model.ReleaseConfig, tag string, existing *model.Release) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	commitish := existing.TargetCommitish
	if cfg.TargetCommitish != "" && cfg.TargetCommitish != existing.TargetCommitish {
		logger.Info("Changing release target commitish",
			"tag", tag,
			"from", existing.TargetCommitish,
			"to", cfg.TargetCommitish,
		)
		commitish = cfg.TargetCommitish
	}

	name := cfg.Name
	if name == "" {
		name = existing.Name
	}
	if name == "" {
		name = tag
	}

	// Empty-string bodies count as absent: appending only happens when both
	// sides actually have content.
	var body string
	switch {
	case cfg.Body != "" && existing.Body != "" && cfg.AppendBody:
		body = existing.Body + "\n" + cfg.Body
	case cfg.Body != "":
		body = cfg.Body
	default:
		body = existing.Body
	}

	draft := existing.Draft
	if cfg.Draft != nil {
		draft = *cfg.Draft
	}
	prerelease := existing.Prerelease
	if cfg.Prerelease != nil {
		prerelease = *cfg.Prerelease
	}

	logger.Info("Updating existing release",
		"tag", tag,
		"release_id", existing.ID,
		"draft", draft,
		"prerelease", prerelease,
	)

	params := &model.ReleaseParams{
		TagName:                tag,
		Name:                   name,
		Body:                   body,
		TargetCommitish:        commitish,
		Draft:                  &draft,
		Prerelease:             &prerelease,
		DiscussionCategoryName: cfg.DiscussionCategoryName,
		GenerateReleaseNotes:   cfg.GenerateReleaseNotes,
	}

	release, err := uc.directory.UpdateRelease(ctx, cfg.Owner, cfg.Repo, existing.ID, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update release",
			goerr.T(types.ErrTagUnexpectedRemote),
			goerr.V("tag", tag),
			goerr.V("release_id", existing.ID),
		)
	}
	return release, nil
}

// createRelease issues a create with the configured fields taken verbatim.
// A conflict-tagged failure propagates untouched so the retry loop sees it.
func (uc *reconciler) createRelease(ctx context.Context, cfg *model.ReleaseConfig, tag string) (*model.Release, error) {
	logger := ctxlog.From(ctx)

	name := cfg.Name
	if name == "" {
		name = tag
	}

	logger.Info("Creating new release",
		"tag", tag,
		"name", name,
		"draft", cfg.DraftRequested(),
	)

	params := &model.ReleaseParams{
		TagName:                tag,
		Name:                   name,
		Body:                   cfg.Body,
		TargetCommitish:        cfg.TargetCommitish,
		Draft:                  cfg.Draft,
		Prerelease:             cfg.Prerelease,
		DiscussionCategoryName: cfg.DiscussionCategoryName,
		GenerateReleaseNotes:   cfg.GenerateReleaseNotes,
	}

	release, err := uc.directory.CreateRelease(ctx, cfg.Owner, cfg.Repo, params)
	if err != nil {
		if goerr.HasTag(err, types.ErrTagConflict) {
			return nil, err
		}
		return nil, goerr.Wrap(err, "failed to create release",
			goerr.T(types.ErrTagUnexpectedRemote),
			goerr.V("tag", tag),
		)
	}
	return release, nil
}
