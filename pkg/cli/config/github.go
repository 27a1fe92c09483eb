package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API configuration
type GitHub struct {
	Token          string
	Repository     string // owner/name
	APIBaseURL     string
	AppID          string
	InstallationID string
	PrivateKeyFile string
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "GitHub API token",
			Destination: &c.Token,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_TOKEN", "GITHUB_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "repository",
			Usage:       "Target repository as owner/name",
			Required:    true,
			Destination: &c.Repository,
			Sources:     cli.EnvVars("TAGSHIP_REPOSITORY", "GITHUB_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub API base URL (for GitHub Enterprise)",
			Destination: &c.APIBaseURL,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_API_URL"),
		},
		&cli.StringFlag{
			Name:        "github-app-id",
			Usage:       "GitHub App ID (alternative to token auth)",
			Destination: &c.AppID,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_APP_ID"),
		},
		&cli.StringFlag{
			Name:        "github-installation-id",
			Usage:       "GitHub App installation ID",
			Destination: &c.InstallationID,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_INSTALLATION_ID"),
		},
		&cli.StringFlag{
			Name:        "github-private-key-file",
			Usage:       "Path to GitHub App private key",
			Destination: &c.PrivateKeyFile,
			Sources:     cli.EnvVars("TAGSHIP_GITHUB_PRIVATE_KEY_FILE"),
		},
	}
}

// OwnerRepo splits the repository identifier into owner and name.
func (c *GitHub) OwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return "", "", goerr.New("repository must be owner/name",
			goerr.V("repository", c.Repository),
		)
	}
	return owner, repo, nil
}

// Client builds a release directory client from whichever credentials are
// configured: GitHub App credentials win over a plain token.
func (c *GitHub) Client() (interfaces.ReleaseDirectory, error) {
	var opts []github.Option
	if c.APIBaseURL != "" {
		opts = append(opts, github.WithBaseURL(c.APIBaseURL))
	}

	if c.AppID != "" {
		appID, err := strconv.ParseInt(c.AppID, 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub App ID", goerr.V("app_id", c.AppID))
		}
		installationID, err := strconv.ParseInt(c.InstallationID, 10, 64)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub App installation ID",
				goerr.V("installation_id", c.InstallationID),
			)
		}
		privateKey, err := os.ReadFile(c.PrivateKeyFile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read GitHub App private key",
				goerr.V("path", c.PrivateKeyFile),
			)
		}
		return github.NewAppClient(appID, installationID, privateKey, opts...)
	}

	if c.Token == "" {
		return nil, goerr.New("either a GitHub token or App credentials are required")
	}
	return github.NewClient(c.Token, opts...)
}
