package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// AnalysisRepositoryPG implements domain.AnalysisRepository.
type AnalysisRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates a new analysis repository backed by PostgreSQL.
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepositoryPG {
	return &AnalysisRepositoryPG{pool: pool}
}

const analysisColumns = `id, image_name, analysis_type, descriptions, metadata, image_url, image_base64, created_at, updated_at`

// Create inserts a new analysis record and returns the stored row.
func (r *AnalysisRepositoryPG) Create(ctx context.Context, rec *domain.StoredAnalysis) (*domain.StoredAnalysis, error) {
	descriptions, metadata, err := encodePayloads(rec)
	if err != nil {
		return nil, err
	}
	if len(descriptions) == 0 {
		descriptions = []byte("[]")
	}
	query := `
INSERT INTO image_analyses (id, image_name, analysis_type, descriptions, metadata, image_url, image_base64)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + analysisColumns + `;
`
	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		rec.ImageName,
		rec.AnalysisType,
		descriptions,
		metadata,
		rec.ImageURL,
		rec.ImageBase64,
	)
	return scanAnalysis(row)
}

// GetByID fetches one record by its identifier.
func (r *AnalysisRepositoryPG) GetByID(ctx context.Context, id string) (*domain.StoredAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM image_analyses WHERE id = $1;`
	return scanAnalysis(r.pool.QueryRow(ctx, query, id))
}

// List returns the most recent records, optionally filtered by type.
func (r *AnalysisRepositoryPG) List(ctx context.Context, analysisType string, limit int) ([]domain.StoredAnalysis, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
SELECT ` + analysisColumns + `
FROM image_analyses
WHERE ($1 = '' OR analysis_type = $1)
ORDER BY created_at DESC
LIMIT $2;
`
	rows, err := r.pool.Query(ctx, query, analysisType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnalyses(rows)
}

// SearchByName matches records whose image name contains the given name.
func (r *AnalysisRepositoryPG) SearchByName(ctx context.Context, name string) ([]domain.StoredAnalysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM image_analyses
WHERE image_name ILIKE '%' || $1 || '%'
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAnalyses(rows)
}

// Update overwrites the mutable fields of an existing record.
func (r *AnalysisRepositoryPG) Update(ctx context.Context, id string, rec *domain.StoredAnalysis) (*domain.StoredAnalysis, error) {
	descriptions, metadata, err := encodePayloads(rec)
	if err != nil {
		return nil, err
	}
	query := `
UPDATE image_analyses
SET image_name = COALESCE(NULLIF($2, ''), image_name),
    analysis_type = COALESCE(NULLIF($3, ''), analysis_type),
    descriptions = COALESCE($4, descriptions),
    metadata = COALESCE($5, metadata),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + analysisColumns + `;
`
	row := r.pool.QueryRow(ctx, query, id, rec.ImageName, rec.AnalysisType, nullableBytes(descriptions), nullableBytes(metadata))
	return scanAnalysis(row)
}

// Delete removes a record by its identifier.
func (r *AnalysisRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM image_analyses WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func encodePayloads(rec *domain.StoredAnalysis) ([]byte, []byte, error) {
	var descriptions, metadata []byte
	var err error
	if rec.Descriptions != nil {
		descriptions, err = json.Marshal(rec.Descriptions)
		if err != nil {
			return nil, nil, fmt.Errorf("encode descriptions: %w", err)
		}
	}
	if rec.Metadata != nil {
		metadata, err = json.Marshal(rec.Metadata)
		if err != nil {
			return nil, nil, fmt.Errorf("encode metadata: %w", err)
		}
	}
	return descriptions, metadata, nil
}

func scanAnalysis(row pgx.Row) (*domain.StoredAnalysis, error) {
	var rec domain.StoredAnalysis
	var descriptions, metadata []byte
	if err := row.Scan(
		&rec.ID,
		&rec.ImageName,
		&rec.AnalysisType,
		&descriptions,
		&metadata,
		&rec.ImageURL,
		&rec.ImageBase64,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(descriptions) > 0 {
		if err := json.Unmarshal(descriptions, &rec.Descriptions); err != nil {
			return nil, fmt.Errorf("decode descriptions: %w", err)
		}
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &rec.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return &rec, nil
}

func collectAnalyses(rows pgx.Rows) ([]domain.StoredAnalysis, error) {
	var out []domain.StoredAnalysis
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func nullableBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
