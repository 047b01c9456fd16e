package domain

import "context"

type ImageStore interface {
	// Upload stores the image under folder. A non-empty existingAssetID is
	// overwritten in place and keeps its id.
	Upload(ctx context.Context, folder string, image Upload, existingAssetID string) (*Photo, error)
	Delete(ctx context.Context, assetID string) error
}
