// FILE: internal/repository/contract/feature_record_repository.go
// Repository interface for the denormalized feature record store
package contract

import (
	"context"

	"feature-catalog-be/internal/entity"

	"github.com/google/uuid"
)

type FeatureRecordRepository interface {
	Create(ctx context.Context, record *entity.FeatureRecord) error
	Update(ctx context.Context, record *entity.FeatureRecord) error
	// UpdateRefIds rewrites only the advisory id columns named in ids
	UpdateRefIds(ctx context.Context, id uuid.UUID, ids map[entity.Category]*int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FeatureRecord, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.FeatureRecord, error)

	// List returns matching records, newest first
	List(ctx context.Context, query entity.RecordQuery) ([]*entity.FeatureRecord, error)
	Count(ctx context.Context, query entity.RecordQuery) (int64, error)

	// CountByField counts records whose category column equals value, optionally skipping one record
	CountByField(ctx context.Context, category entity.Category, value string, exclude *uuid.UUID) (int64, error)
	CountDistinct(ctx context.Context, category entity.Category) (int64, error)
	DistinctValues(ctx context.Context, target entity.Category, constraints map[entity.Category]string) ([]string, error)
}
