package domain

import "context"

// AnalysisRepository defines persistence for stored analysis records.
type AnalysisRepository interface {
	Create(ctx context.Context, rec *StoredAnalysis) (*StoredAnalysis, error)
	GetByID(ctx context.Context, id string) (*StoredAnalysis, error)
	List(ctx context.Context, analysisType string, limit int) ([]StoredAnalysis, error)
	SearchByName(ctx context.Context, name string) ([]StoredAnalysis, error)
	Update(ctx context.Context, id string, rec *StoredAnalysis) (*StoredAnalysis, error)
	Delete(ctx context.Context, id string) error
}
