// FILE: internal/repository/implementation/feature_record_repository_impl.go
// Implementation of FeatureRecordRepository
package implementation

import (
	"context"
	"errors"
	"strings"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/mapper"
	"feature-catalog-be/internal/model"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/internal/repository/contract"
	"feature-catalog-be/internal/repository/scope"
	"feature-catalog-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SearchableColumns are the textual columns a search term is matched against
var SearchableColumns = []string{"system_name", "module", "feature", "description", "client", "source"}

type FeatureRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FeatureRecordMapper
}

func NewFeatureRecordRepository(db *gorm.DB) contract.FeatureRecordRepository {
	return &FeatureRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewFeatureRecordMapper(),
	}
}

func (r *FeatureRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// filterSpecs translates a RecordQuery into specifications, without paging
func (r *FeatureRecordRepositoryImpl) filterSpecs(q entity.RecordQuery) []specification.Specification {
	specs := make([]specification.Specification, 0, len(q.Equals)+1)
	for _, category := range entity.Categories {
		if v := q.Equals[category]; strings.TrimSpace(v) != "" {
			specs = append(specs, specification.Filter(category.Column(), v))
		}
	}
	if len(q.Terms) > 0 {
		specs = append(specs, specification.AnyFieldContains{Fields: SearchableColumns, Terms: q.Terms})
	}
	return specs
}

func (r *FeatureRecordRepositoryImpl) Create(ctx context.Context, record *entity.FeatureRecord) error {
	m := r.mapper.ToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return classifyError("create feature record", err)
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *FeatureRecordRepositoryImpl) Update(ctx context.Context, record *entity.FeatureRecord) error {
	m := r.mapper.ToModel(record)
	res := r.db.WithContext(ctx).Model(&model.FeatureRecord{}).Where("id = ?", m.Id).
		Select("*").Omit("id", "created_at").Updates(m)
	if res.Error != nil {
		return classifyError("update feature record", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperror.NotFoundError{Resource: "feature record", ID: record.Id.String()}
	}
	return nil
}

func (r *FeatureRecordRepositoryImpl) UpdateRefIds(ctx context.Context, id uuid.UUID, ids map[entity.Category]*int64) error {
	if len(ids) == 0 {
		return nil
	}
	columns := make(map[string]interface{}, len(ids))
	for category, refID := range ids {
		columns[category.IDColumn()] = refID
	}
	res := r.db.WithContext(ctx).Model(&model.FeatureRecord{}).Where("id = ?", id).UpdateColumns(columns)
	if res.Error != nil {
		return classifyError("restamp feature record", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperror.NotFoundError{Resource: "feature record", ID: id.String()}
	}
	return nil
}

func (r *FeatureRecordRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&model.FeatureRecord{}, "id = ?", id)
	if res.Error != nil {
		return classifyError("delete feature record", res.Error)
	}
	if res.RowsAffected == 0 {
		return &apperror.NotFoundError{Resource: "feature record", ID: id.String()}
	}
	return nil
}

func (r *FeatureRecordRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.FeatureRecord, error) {
	var m model.FeatureRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError("find feature record", err)
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FeatureRecordRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.FeatureRecord, error) {
	if len(ids) == 0 {
		return []*entity.FeatureRecord{}, nil
	}
	var models []*model.FeatureRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specification.ByIDs{IDs: ids})
	if err := query.Find(&models).Error; err != nil {
		return nil, classifyError("find feature records", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeatureRecordRepositoryImpl) List(ctx context.Context, q entity.RecordQuery) ([]*entity.FeatureRecord, error) {
	var models []*model.FeatureRecord
	specs := append(r.filterSpecs(q), specification.Pagination{Limit: q.Limit, Offset: q.Offset})
	query := r.applySpecifications(r.db.WithContext(ctx).Scopes(scope.OrderByCreatedDesc), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, classifyError("list feature records", err)
	}
	return r.mapper.ToEntities(models), nil
}

func (r *FeatureRecordRepositoryImpl) Count(ctx context.Context, q entity.RecordQuery) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FeatureRecord{}), r.filterSpecs(q)...)
	if err := query.Count(&count).Error; err != nil {
		return 0, classifyError("count feature records", err)
	}
	return count, nil
}

func (r *FeatureRecordRepositoryImpl) CountByField(ctx context.Context, category entity.Category, value string, exclude *uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.FeatureRecord{}).Where(category.Column()+" = ?", value)
	if exclude != nil {
		query = query.Where("id <> ?", *exclude)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, classifyError("count "+category.String(), err)
	}
	return count, nil
}

func (r *FeatureRecordRepositoryImpl) CountDistinct(ctx context.Context, category entity.Category) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FeatureRecord{}).
		Distinct(category.Column()).
		Count(&count).Error
	if err != nil {
		return 0, classifyError("count distinct "+category.String(), err)
	}
	return count, nil
}

func (r *FeatureRecordRepositoryImpl) DistinctValues(ctx context.Context, target entity.Category, constraints map[entity.Category]string) ([]string, error) {
	var values []string
	specs := append(r.filterSpecs(entity.RecordQuery{Equals: constraints}), specification.NonEmpty{Field: target.Column()})
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.FeatureRecord{}), specs...)
	if err := query.Distinct(target.Column()).Pluck(target.Column(), &values).Error; err != nil {
		return nil, classifyError("distinct "+target.String(), err)
	}
	return values, nil
}
