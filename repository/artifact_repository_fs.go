package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"loan-risk/apperrors"
	"loan-risk/inference"
)

const (
	ArtifactModel  = "model"
	ArtifactScaler = "scaler"
)

// ArtifactRepositoryFS reads artifacts from the local filesystem. Relative
// paths resolve against the working directory.
type ArtifactRepositoryFS struct {
	modelPath  string
	scalerPath string
}

func NewArtifactRepositoryFS(modelPath, scalerPath string) *ArtifactRepositoryFS {
	return &ArtifactRepositoryFS{
		modelPath:  modelPath,
		scalerPath: scalerPath,
	}
}

func (r *ArtifactRepositoryFS) LoadModel(ctx context.Context) (*inference.Network, error) {
	data, err := readArtifact(ctx, ArtifactModel, r.modelPath)
	if err != nil {
		return nil, err
	}
	net, err := inference.ParseNetwork(data)
	if err != nil {
		return nil, apperrors.NewArtifactInvalidError(ArtifactModel, err.Error())
	}
	return net, nil
}

func (r *ArtifactRepositoryFS) LoadScaler(ctx context.Context) (*inference.Scaler, error) {
	if r.scalerPath == "" {
		return nil, nil
	}
	data, err := readArtifact(ctx, ArtifactScaler, r.scalerPath)
	if err != nil {
		return nil, err
	}
	scaler, err := inference.ParseScaler(data)
	if err != nil {
		return nil, apperrors.NewArtifactInvalidError(ArtifactScaler, err.Error())
	}
	return scaler, nil
}

func readArtifact(ctx context.Context, artifact, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(artifact, err)
	}
	if path == "" {
		return nil, apperrors.NewArtifactLoadFailedError(artifact, fmt.Errorf("no path configured"))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(artifact, err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, apperrors.NewArtifactLoadFailedError(artifact, err)
	}
	return data, nil
}
