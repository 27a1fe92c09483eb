package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/tagship/tagship/pkg/domain/model"
	"github.com/tagship/tagship/pkg/domain/types"
	"github.com/tagship/tagship/pkg/usecase"
)

// mockFiles is a mock implementation of LocalFiles
type mockFiles struct {
	statFunc        func(path string) (int64, error)
	readFunc        func(path string) ([]byte, error)
	contentTypeFunc func(path string) string
}

func (m *mockFiles) Stat(path string) (int64, error) {
	if m.statFunc != nil {
		return m.statFunc(path)
	}
	return 0, errors.New("mock not configured")
}

func (m *mockFiles) Read(path string) ([]byte, error) {
	if m.readFunc != nil {
		return m.readFunc(path)
	}
	return nil, errors.New("mock not configured")
}

func (m *mockFiles) ContentType(path string) string {
	if m.contentTypeFunc != nil {
		return m.contentTypeFunc(path)
	}
	return ""
}

func fixedFiles(data []byte, contentType string) *mockFiles {
	return &mockFiles{
		statFunc:        func(path string) (int64, error) { return int64(len(data)), nil },
		readFunc:        func(path string) ([]byte, error) { return data, nil },
		contentTypeFunc: func(path string) string { return contentType },
	}
}

func TestPublishAsset_UploadsFreshFile(t *testing.T) {
	ctx := context.Background()

	mock := &mockDirectory{
		uploadFunc: func(ctx context.Context, uploadURL string, asset *model.AssetDescriptor) (*model.UploadResponse, error) {
			gt.Value(t, uploadURL).Equal("https://uploads.example.com/releases/10/assets")
			return &model.UploadResponse{
				StatusCode: 201,
				Asset:      &model.Asset{ID: 100, Name: asset.Name},
			}, nil
		},
	}
	files := fixedFiles([]byte("binary content"), "application/gzip")

	cfg := &model.ReleaseConfig{Owner: "acme", Repo: "tool", TagName: "v1.0.0"}
	pub := usecase.NewPublisher(mock, files)

	asset, err := pub.PublishAsset(ctx, cfg, "https://uploads.example.com/releases/10/assets", "dist/app-v1.0.0.tgz", nil)
	gt.NoError(t, err)
	gt.Value(t, asset.ID).Equal(int64(100))
	gt.Value(t, asset.Name).Equal("app-v1.0.0.tgz")
	gt.Number(t, len(mock.deletedAssets)).Equal(0)

	sent := mock.uploads[0]
	gt.Value(t, sent.Name).Equal("app-v1.0.0.tgz") // basename, not the full path
	gt.Value(t, sent.ContentType).Equal("application/gzip")
	gt.Value(t, sent.Size).Equal(int64(len("binary content")))
	gt.Value(t, string(sent.Data)).Equal("binary content")
}

func TestPublishAsset_ReplacesCollidingAsset(t *testing.T) {
	ctx := context.Background()

	mock := &mockDirectory{
		uploadFunc: func(ctx context.Context, uploadURL string, asset *model.AssetDescriptor) (*model.UploadResponse, error) {
			return &model.UploadResponse{
				StatusCode: 201,
				Asset:      &model.Asset{ID: 101, Name: asset.Name},
			}, nil
		},
	}
	files := fixedFiles([]byte("v2"), "")

	cfg := &model.ReleaseConfig{Owner: "acme", Repo: "tool", TagName: "v1.0.0"}
	existing := []model.AssetSummary{
		{ID: 41, Name: "other.zip"},
		{ID: 42, Name: "app.tgz"},
	}

	asset, err := usecase.NewPublisher(mock, files).PublishAsset(ctx, cfg, "https://uploads.example.com/a", "out/app.tgz", existing)
	gt.NoError(t, err)
	gt.Value(t, asset.ID).Equal(int64(101))

	// The colliding asset is deleted before the upload, never duplicated.
	gt.Number(t, len(mock.deletedAssets)).Equal(1)
	gt.Value(t, mock.deletedAssets[0]).Equal(int64(42))
	gt.Number(t, len(mock.uploads)).Equal(1)
}

func TestPublishAsset_MissingAssetIDIsError(t *testing.T) {
	ctx := context.Background()

	mock := &mockDirectory{}
	files := fixedFiles([]byte("v2"), "")

	cfg := &model.ReleaseConfig{Owner: "acme", Repo: "tool", TagName: "v1.0.0"}
	existing := []model.AssetSummary{{ID: 0, Name: "app.tgz"}}

	_, err := usecase.NewPublisher(mock, files).PublishAsset(ctx, cfg, "https://uploads.example.com/a", "app.tgz", existing)
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("no id")
	gt.Number(t, len(mock.deletedAssets)).Equal(0)
	gt.Number(t, len(mock.uploads)).Equal(0)
}

func TestPublishAsset_RejectedUploadCarriesRemoteMessage(t *testing.T) {
	ctx := context.Background()

	mock := &mockDirectory{
		uploadFunc: func(ctx context.Context, uploadURL string, asset *model.AssetDescriptor) (*model.UploadResponse, error) {
			return &model.UploadResponse{
				StatusCode: 422,
				Message:    "already_exists",
			}, nil
		},
	}
	files := fixedFiles([]byte("data"), "")

	cfg := &model.ReleaseConfig{Owner: "acme", Repo: "tool", TagName: "v1.0.0"}

	_, err := usecase.NewPublisher(mock, files).PublishAsset(ctx, cfg, "https://uploads.example.com/a", "app.tgz", nil)
	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagAssetUpload)).Equal(true)
	gt.String(t, err.Error()).Contains("already_exists")
	gt.String(t, err.Error()).Contains("app.tgz")
}

func TestPublishAsset_LocalFileErrorPropagates(t *testing.T) {
	ctx := context.Background()

	mock := &mockDirectory{}
	files := &mockFiles{
		statFunc: func(path string) (int64, error) {
			return 0, errors.New("permission denied")
		},
	}

	cfg := &model.ReleaseConfig{Owner: "acme", Repo: "tool", TagName: "v1.0.0"}

	_, err := usecase.NewPublisher(mock, files).PublishAsset(ctx, cfg, "https://uploads.example.com/a", "app.tgz", nil)
	gt.Error(t, err)
	gt.Value(t, goerr.HasTag(err, types.ErrTagLocalFile)).Equal(true)
	gt.Number(t, len(mock.uploads)).Equal(0)
}

func TestPublishAsset_DefaultContentType(t *testing.T) {
	ctx := context.Background()

	mock := &mockDirectory{
		uploadFunc: func(ctx context.Context, uploadURL string, asset *model.AssetDescriptor) (*model.UploadResponse, error) {
			return &model.UploadResponse{
				StatusCode: 201,
				Asset:      &model.Asset{ID: 1, Name: asset.Name},
			}, nil
		},
	}
	files := fixedFiles([]byte{0x00, 0x01}, "")

	cfg := &model.ReleaseConfig{Owner: "acme", Repo: "tool", TagName: "v1.0.0"}

	_, err := usecase.NewPublisher(mock, files).PublishAsset(ctx, cfg, "https://uploads.example.com/a", "blob.bin", nil)
	gt.NoError(t, err)
	gt.Value(t, mock.uploads[0].ContentType).Equal(types.DefaultContentType)
}
