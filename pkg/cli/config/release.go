package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

// Release holds the desired release configuration
type Release struct {
	TagName                string
	Ref                    string
	Name                   string
	Body                   string
	BodyFile               string
	TargetCommitish        string
	Draft                  bool
	Prerelease             bool
	AppendBody             bool
	DiscussionCategoryName string
	GenerateReleaseNotes   bool
	Files                  []string
	MaxRetries             int
	ConfigFile             string
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Tag name to release; derived from --ref when omitted",
			Destination: &c.TagName,
			Sources:     cli.EnvVars("TAGSHIP_TAG"),
		},
		&cli.StringFlag{
			Name:        "ref",
			Usage:       "Source ref, e.g. refs/tags/v1.0.0",
			Destination: &c.Ref,
			Sources:     cli.EnvVars("TAGSHIP_REF", "GITHUB_REF"),
		},
		&cli.StringFlag{
			Name:        "name",
			Usage:       "Release display name",
			Destination: &c.Name,
			Sources:     cli.EnvVars("TAGSHIP_NAME"),
		},
		&cli.StringFlag{
			Name:        "body",
			Usage:       "Release body text",
			Destination: &c.Body,
			Sources:     cli.EnvVars("TAGSHIP_BODY"),
		},
		&cli.StringFlag{
			Name:        "body-file",
			Usage:       "Read release body from file (mutually exclusive with --body)",
			Destination: &c.BodyFile,
			Sources:     cli.EnvVars("TAGSHIP_BODY_FILE"),
		},
		&cli.StringFlag{
			Name:        "target-commitish",
			Usage:       "Commit-ish the release tag should point at",
			Destination: &c.TargetCommitish,
			Sources:     cli.EnvVars("TAGSHIP_TARGET_COMMITISH"),
		},
		&cli.BoolFlag{
			Name:        "draft",
			Usage:       "Mark the release as a draft",
			Destination: &c.Draft,
			Sources:     cli.EnvVars("TAGSHIP_DRAFT"),
		},
		&cli.BoolFlag{
			Name:        "prerelease",
			Usage:       "Mark the release as a prerelease",
			Destination: &c.Prerelease,
			Sources:     cli.EnvVars("TAGSHIP_PRERELEASE"),
		},
		&cli.BoolFlag{
			Name:        "append-body",
			Usage:       "Append the body to an existing release body",
			Destination: &c.AppendBody,
			Sources:     cli.EnvVars("TAGSHIP_APPEND_BODY"),
		},
		&cli.StringFlag{
			Name:        "discussion-category",
			Usage:       "Discussion category to link the release to",
			Destination: &c.DiscussionCategoryName,
			Sources:     cli.EnvVars("TAGSHIP_DISCUSSION_CATEGORY"),
		},
		&cli.BoolFlag{
			Name:        "generate-release-notes",
			Usage:       "Let the API generate release notes",
			Destination: &c.GenerateReleaseNotes,
			Sources:     cli.EnvVars("TAGSHIP_GENERATE_RELEASE_NOTES"),
		},
		&cli.StringSliceFlag{
			Name:        "files",
			Usage:       "Glob patterns of asset files to upload (repeatable)",
			Destination: &c.Files,
			Sources:     cli.EnvVars("TAGSHIP_FILES"),
		},
		&cli.IntFlag{
			Name:        "max-retries",
			Usage:       "Retry budget for release creation races",
			Value:       types.DefaultMaxRetries,
			Destination: &c.MaxRetries,
			Sources:     cli.EnvVars("TAGSHIP_MAX_RETRIES"),
		},
		&cli.StringFlag{
			Name:        "config",
			Usage:       "TOML file pre-populating release fields (flags win)",
			Destination: &c.ConfigFile,
			Sources:     cli.EnvVars("TAGSHIP_CONFIG"),
		},
	}
}

// releaseFile mirrors the TOML config file. Pointer fields distinguish
// "absent" from zero values.
type releaseFile struct {
	TagName              *string  `toml:"tag_name"`
	Name                 *string  `toml:"name"`
	Body                 *string  `toml:"body"`
	BodyFile             *string  `toml:"body_file"`
	TargetCommitish      *string  `toml:"target_commitish"`
	Draft                *bool    `toml:"draft"`
	Prerelease           *bool    `toml:"prerelease"`
	AppendBody           *bool    `toml:"append_body"`
	DiscussionCategory   *string  `toml:"discussion_category"`
	GenerateReleaseNotes *bool    `toml:"generate_release_notes"`
	Files                []string `toml:"files"`
}

// Build assembles the release configuration for one run. Values set via
// flag or environment win over the TOML config file; the file fills in
// whatever was left unset. A body file is read through the local file
// service so the reconciler only ever sees resolved body text.
func (c *Release) Build(cmd *cli.Command, owner, repo, token string, files interfaces.LocalFiles) (*model.ReleaseConfig, error) {
	var fileCfg releaseFile
	if c.ConfigFile != "" {
		data, err := files.Read(c.ConfigFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read config file",
				goerr.V("path", c.ConfigFile),
			)
		}
		if err := toml.Unmarshal(data, &fileCfg); err != nil {
			return nil, goerr.Wrap(err, "failed to parse config file",
				goerr.V("path", c.ConfigFile),
			)
		}
	}

	applyString(cmd, "tag", &c.TagName, fileCfg.TagName)
	applyString(cmd, "name", &c.Name, fileCfg.Name)
	applyString(cmd, "body", &c.Body, fileCfg.Body)
	applyString(cmd, "body-file", &c.BodyFile, fileCfg.BodyFile)
	applyString(cmd, "target-commitish", &c.TargetCommitish, fileCfg.TargetCommitish)
	applyString(cmd, "discussion-category", &c.DiscussionCategoryName, fileCfg.DiscussionCategory)
	if !cmd.IsSet("append-body") && fileCfg.AppendBody != nil {
		c.AppendBody = *fileCfg.AppendBody
	}
	if !cmd.IsSet("generate-release-notes") && fileCfg.GenerateReleaseNotes != nil {
		c.GenerateReleaseNotes = *fileCfg.GenerateReleaseNotes
	}
	if len(c.Files) == 0 {
		c.Files = fileCfg.Files
	}

	if c.Body != "" && c.BodyFile != "" {
		return nil, goerr.New("--body and --body-file are mutually exclusive")
	}

	body := c.Body
	if c.BodyFile != "" {
		data, err := files.Read(c.BodyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read body file",
				goerr.V("path", c.BodyFile),
			)
		}
		body = string(data)
	}

	cfg := &model.ReleaseConfig{
		Owner:                  owner,
		Repo:                   repo,
		TagName:                c.TagName,
		Ref:                    c.Ref,
		Name:                   c.Name,
		Body:                   body,
		TargetCommitish:        c.TargetCommitish,
		AppendBody:             c.AppendBody,
		DiscussionCategoryName: c.DiscussionCategoryName,
		GenerateReleaseNotes:   c.GenerateReleaseNotes,
		Token:                  token,
	}

	// Tri-state: an explicitly passed flag wins, even when false; otherwise
	// the config file value; otherwise unset, meaning "keep remote value".
	if cmd.IsSet("draft") {
		cfg.Draft = &c.Draft
	} else if fileCfg.Draft != nil {
		cfg.Draft = fileCfg.Draft
	}
	if cmd.IsSet("prerelease") {
		cfg.Prerelease = &c.Prerelease
	} else if fileCfg.Prerelease != nil {
		cfg.Prerelease = fileCfg.Prerelease
	}

	if cfg.ResolvedTag() == "" {
		return nil, goerr.New("no tag name: pass --tag or a tag ref via --ref")
	}

	return cfg, nil
}

func applyString(cmd *cli.Command, flag string, dst *string, fileValue *string) {
	if !cmd.IsSet(flag) && *dst == "" && fileValue != nil {
		*dst = *fileValue
	}
}
