package repository

import (
	"context"

	"loan-risk/inference"
)

// ArtifactRepository supplies the trained artifacts. LoadScaler returns a nil
// scaler and no error when the deployment does not scale its inputs.
type ArtifactRepository interface {
	LoadModel(ctx context.Context) (*inference.Network, error)
	LoadScaler(ctx context.Context) (*inference.Scaler, error)
}
