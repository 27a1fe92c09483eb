package usecase

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tagship/tagship/pkg/domain/interfaces"
	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
)

type publisher struct {
	directory interfaces.ReleaseDirectory
	files     interfaces.LocalFiles
}

// NewPublisher creates a new AssetPublisher reading files through the given
// local file service.
func NewPublisher(directory interfaces.ReleaseDirectory, files interfaces.LocalFiles) interfaces.AssetPublisher {
	return &publisher{
		directory: directory,
		files:     files,
	}
}

// PublishAsset uploads a local file to the release behind uploadURL. An
// existing asset with the same name is deleted first so a re-run overwrites
// instead of duplicating. Deletion and upload are two independent remote
// calls; re-running after a crash between them is safe.
func (uc *publisher) PublishAsset(ctx context.Context, cfg *model.ReleaseConfig, uploadURL, path string, existing []model.AssetSummary) (*model.Asset, error) {
	logger := ctxlog.From(ctx)

	asset, err := uc.describeFile(path)
	if err != nil {
		return nil, err
	}

	for _, summary := range existing {
		if summary.Name != asset.Name {
			continue
		}
		if summary.ID == 0 {
			return nil, goerr.New("existing asset summary has no id",
				goerr.V("asset", asset.Name),
			)
		}

		logger.Info("Deleting previously uploaded asset",
			"asset", asset.Name,
			"asset_id", summary.ID,
		)
		if err := uc.directory.DeleteAsset(ctx, cfg.Owner, cfg.Repo, summary.ID); err != nil {
			return nil, goerr.Wrap(err, "failed to delete existing asset",
				goerr.T(types.ErrTagUnexpectedRemote),
				goerr.V("asset", asset.Name),
				goerr.V("asset_id", summary.ID),
			)
		}
		break
	}

	logger.Info("Uploading release asset",
		"asset", asset.Name,
		"content_type", asset.ContentType,
		"size_bytes", asset.Size,
	)

	resp, err := uc.directory.UploadAsset(ctx, uploadURL, asset)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to upload asset",
			goerr.V("asset", asset.Name),
		)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, goerr.New(
			fmt.Sprintf("failed to upload release asset %s: %s", asset.Name, resp.Message),
			goerr.T(types.ErrTagAssetUpload),
			goerr.V("asset", asset.Name),
			goerr.V("status", resp.StatusCode),
			goerr.V("message", resp.Message),
		)
	}

	return resp.Asset, nil
}

// describeFile builds the asset descriptor for a local file.
func (uc *publisher) describeFile(path string) (*model.AssetDescriptor, error) {
	size, err := uc.files.Stat(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to stat asset file",
			goerr.T(types.ErrTagLocalFile),
			goerr.V("path", path),
		)
	}

	data, err := uc.files.Read(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read asset file",
			goerr.T(types.ErrTagLocalFile),
			goerr.V("path", path),
		)
	}

	contentType := uc.files.ContentType(path)
	if contentType == "" {
		contentType = types.DefaultContentType
	}

	return &model.AssetDescriptor{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        size,
		Data:        data,
	}, nil
}
