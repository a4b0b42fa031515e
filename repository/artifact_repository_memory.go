package repository

import (
	"context"

	"loan-risk/inference"
)

// ArtifactRepositoryMemory is an in-memory implementation of ArtifactRepository.
type ArtifactRepositoryMemory struct {
	model  *inference.Network
	scaler *inference.Scaler
	err    error
}

// NewArtifactRepositoryMemory serves already parsed artifacts. scaler may be nil.
func NewArtifactRepositoryMemory(model *inference.Network, scaler *inference.Scaler) *ArtifactRepositoryMemory {
	return &ArtifactRepositoryMemory{
		model:  model,
		scaler: scaler,
	}
}

// NewFailingArtifactRepository returns a repository whose loads all fail with err.
func NewFailingArtifactRepository(err error) *ArtifactRepositoryMemory {
	return &ArtifactRepositoryMemory{err: err}
}

func (r *ArtifactRepositoryMemory) LoadModel(ctx context.Context) (*inference.Network, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.model, nil
}

func (r *ArtifactRepositoryMemory) LoadScaler(ctx context.Context) (*inference.Scaler, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.scaler, nil
}
