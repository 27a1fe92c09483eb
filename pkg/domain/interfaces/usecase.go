package interfaces

import (
	"context"

	"github.com/tagship/tagship/pkg/domain/model"
)

// ReleaseReconciler converges a remote release to the desired configuration.
type ReleaseReconciler interface {
	// Reconcile locates or creates the release for the configured tag and
	// updates its metadata. maxRetries bounds how many times the whole
	// procedure is re-run when release creation loses a duplicate-tag race;
	// a non-positive value fails immediately with ErrExhaustedRetries.
	Reconcile(ctx context.Context, cfg *model.ReleaseConfig, maxRetries int) (*model.Release, error)
}

// AssetPublisher attaches one local file to a release, replacing any asset
// that already carries the same name.
type AssetPublisher interface {
	PublishAsset(ctx context.Context, cfg *model.ReleaseConfig, uploadURL, path string, existing []model.AssetSummary) (*model.Asset, error)
}
