package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/tagship/tagship/pkg/cli/config"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/infra/fs"
)

// buildWith runs Build through a real CLI command so flag set/unset state
// behaves as it does in production.
func buildWith(t *testing.T, args ...string) (*model.ReleaseConfig, error) {
	var relCfg config.Release
	var cfg *model.ReleaseConfig
	var buildErr error

	cmd := &cli.Command{
		Name:  "test",
		Flags: relCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, buildErr = relCfg.Build(c, "acme", "tool", "test-token", fs.New())
			return nil
		},
	}

	gt.NoError(t, cmd.Run(context.Background(), append([]string{"test"}, args...)))
	return cfg, buildErr
}

func TestReleaseBuild_TriStateFlags(t *testing.T) {
	cfg, err := buildWith(t, "--tag", "v1.0.0")
	gt.NoError(t, err)
	gt.Value(t, cfg.Draft).Nil()
	gt.Value(t, cfg.Prerelease).Nil()

	cfg, err = buildWith(t, "--tag", "v1.0.0", "--draft")
	gt.NoError(t, err)
	gt.Value(t, *cfg.Draft).Equal(true)

	// Explicit false is distinct from unset.
	cfg, err = buildWith(t, "--tag", "v1.0.0", "--prerelease=false")
	gt.NoError(t, err)
	gt.Value(t, *cfg.Prerelease).Equal(false)
	gt.Value(t, cfg.Draft).Nil()
}

func TestReleaseBuild_BodyAndBodyFileAreExclusive(t *testing.T) {
	dir := t.TempDir()
	bodyPath := filepath.Join(dir, "body.md")
	gt.NoError(t, os.WriteFile(bodyPath, []byte("from file"), 0600))

	_, err := buildWith(t, "--tag", "v1.0.0", "--body", "inline", "--body-file", bodyPath)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("mutually exclusive")
}

func TestReleaseBuild_BodyFromFile(t *testing.T) {
	dir := t.TempDir()
	bodyPath := filepath.Join(dir, "body.md")
	gt.NoError(t, os.WriteFile(bodyPath, []byte("changelog content"), 0600))

	cfg, err := buildWith(t, "--tag", "v1.0.0", "--body-file", bodyPath)
	gt.NoError(t, err)
	gt.Value(t, cfg.Body).Equal("changelog content")
}

func TestReleaseBuild_ConfigFileFillsUnsetFields(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "release.toml")
	gt.NoError(t, os.WriteFile(cfgPath, []byte(`
tag_name = "v3.0.0"
name = "Big Release"
draft = true
files = ["dist/*.tgz"]
`), 0600))

	cfg, err := buildWith(t, "--config", cfgPath)
	gt.NoError(t, err)
	gt.Value(t, cfg.TagName).Equal("v3.0.0")
	gt.Value(t, cfg.Name).Equal("Big Release")
	gt.Value(t, *cfg.Draft).Equal(true)
}

func TestReleaseBuild_FlagsWinOverConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "release.toml")
	gt.NoError(t, os.WriteFile(cfgPath, []byte(`
tag_name = "v3.0.0"
draft = true
`), 0600))

	cfg, err := buildWith(t, "--config", cfgPath, "--tag", "v4.0.0", "--draft=false")
	gt.NoError(t, err)
	gt.Value(t, cfg.TagName).Equal("v4.0.0")
	gt.Value(t, *cfg.Draft).Equal(false)
}

func TestReleaseBuild_RequiresTag(t *testing.T) {
	_, err := buildWith(t, "--ref", "refs/heads/main")
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("no tag name")
}

func TestReleaseBuild_TagFromRef(t *testing.T) {
	cfg, err := buildWith(t, "--ref", "refs/tags/v1.2.3")
	gt.NoError(t, err)
	gt.Value(t, cfg.ResolvedTag()).Equal("v1.2.3")
}
