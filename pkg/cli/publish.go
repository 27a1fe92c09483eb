package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/cli/config"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/tagship/tagship/pkg/infra/fs"
	slackinfra "github.com/tagship/tagship/pkg/infra/slack"
	"github.com/tagship/tagship/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdPublish() *cli.Command {
	var (
		githubCfg  config.GitHub
		releaseCfg config.Release
		notifyCfg  config.Notify
	)

	flags := append(githubCfg.Flags(), releaseCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "publish",
		Aliases: []string{"p"},
		Usage:   "Create or update a release and upload assets",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if notifyCfg.SentryDSN != "" {
				if err := sentry.Init(sentry.ClientOptions{
					Dsn:     notifyCfg.SentryDSN,
					Release: "tagship@" + types.Version,
				}); err != nil {
					return goerr.Wrap(err, "failed to initialize Sentry")
				}
				defer sentry.Flush(2 * time.Second)
			}

			err := runPublish(ctx, c, &githubCfg, &releaseCfg, &notifyCfg)
			if err != nil && notifyCfg.SentryDSN != "" {
				sentry.CaptureException(err)
			}
			return err
		},
	}
}

func runPublish(ctx context.Context, c *cli.Command, githubCfg *config.GitHub, releaseCfg *config.Release, notifyCfg *config.Notify) error {
	logger := ctxlog.From(ctx)

	owner, repo, err := githubCfg.OwnerRepo()
	if err != nil {
		return err
	}

	directory, err := githubCfg.Client()
	if err != nil {
		return err
	}

	files := fs.New()
	cfg, err := releaseCfg.Build(c, owner, repo, githubCfg.Token, files)
	if err != nil {
		return err
	}

	logger.Debug("Resolved release configuration", slog.Any("config", cfg))
	logger.Info("Reconciling release",
		slog.String("repository", githubCfg.Repository),
		slog.String("tag", cfg.ResolvedTag()),
	)

	reconciler := usecase.NewReconciler(directory)
	release, err := reconciler.Reconcile(ctx, cfg, releaseCfg.MaxRetries)
	if err != nil {
		return err
	}
	color.Green("✔ release %s ready (id %d)", release.TagName, release.ID)

	paths, err := expandFiles(releaseCfg.Files)
	if err != nil {
		return err
	}

	pub := usecase.NewPublisher(directory, files)
	uploaded, err := publishAll(ctx, pub, cfg, release, paths)
	if err != nil {
		return err
	}

	if release.HTMLURL != "" {
		color.Cyan("  %s", release.HTMLURL)
	}
	logger.Info("Release published",
		slog.String("tag", release.TagName),
		slog.Int("assets", len(uploaded)),
	)

	if notifyCfg.SlackWebhookURL != "" {
		notifier := slackinfra.NewNotifier(notifyCfg.SlackWebhookURL)
		summary := &model.PublishSummary{
			Owner:      owner,
			Repo:       repo,
			TagName:    release.TagName,
			ReleaseURL: release.HTMLURL,
			Assets:     uploaded,
		}
		if err := notifier.NotifyPublished(ctx, summary); err != nil {
			// Notification failure must not fail an already published release.
			logger.Warn("Failed to send Slack notification", slog.Any("error", err))
		}
	}

	return nil
}

// publishAll uploads each file sequentially, feeding each new asset back
// into the known-asset list so later uploads see the current state.
func publishAll(ctx context.Context, pub interfaces.AssetPublisher, cfg *model.ReleaseConfig, release *model.Release, paths []string) ([]string, error) {
	known := make([]model.AssetSummary, len(release.Assets))
	copy(known, release.Assets)

	var uploaded []string
	for _, path := range paths {
		asset, err := pub.PublishAsset(ctx, cfg, release.UploadURL, path, known)
		if err != nil {
			return nil, err
		}
		known = append(known, model.AssetSummary{ID: asset.ID, Name: asset.Name})
		uploaded = append(uploaded, asset.Name)
		color.Green("✔ uploaded %s", asset.Name)
	}
	return uploaded, nil
}

// expandFiles resolves glob patterns into concrete file paths, preserving
// pattern order.
func expandFiles(patterns []string) ([]string, error) {
	var paths []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid file pattern", goerr.V("pattern", pattern))
		}
		if len(matches) == 0 {
			slog.Warn("File pattern matched nothing", slog.String("pattern", pattern))
			continue
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}
