// FILE: internal/repository/implementation/reference_repository_impl.go
// Postgres implementation of ReferenceRepository. The partial unique index
// (name) WHERE is_active backs the one-active-row-per-name rule.
package implementation

import (
	"context"
	"errors"
	"fmt"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/mapper"
	"feature-catalog-be/internal/model"
	"feature-catalog-be/internal/repository/contract"
	"feature-catalog-be/internal/repository/scope"
	"feature-catalog-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ReferenceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ReferenceMapper
}

func NewReferenceRepository(db *gorm.DB) contract.ReferenceRepository {
	return &ReferenceRepositoryImpl{
		db:     db,
		mapper: mapper.NewReferenceMapper(),
	}
}

func (r *ReferenceRepositoryImpl) table(ctx context.Context, category entity.Category) *gorm.DB {
	return r.db.WithContext(ctx).Table(category.TableName())
}

func (r *ReferenceRepositoryImpl) findOne(ctx context.Context, category entity.Category, scopes ...func(*gorm.DB) *gorm.DB) (*entity.ReferenceEntity, error) {
	var m model.ReferenceEntity
	if err := r.table(ctx, category).Scopes(scopes...).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, classifyError("find "+category.String(), err)
	}
	return r.mapper.ToEntity(category, &m), nil
}

func byName(name string) func(*gorm.DB) *gorm.DB {
	return specification.Filter("name", name).Apply
}

func (r *ReferenceRepositoryImpl) FindActiveByName(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error) {
	return r.findOne(ctx, category, byName(name), scope.ActiveOnly)
}

func (r *ReferenceRepositoryImpl) FindLatestInactiveByName(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error) {
	return r.findOne(ctx, category, byName(name), scope.InactiveOnly, scope.OrderByIdDesc)
}

func (r *ReferenceRepositoryImpl) Insert(ctx context.Context, category entity.Category, name string) (*entity.ReferenceEntity, error) {
	var created model.ReferenceEntity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var id int64
		// Row lock on the counter serializes allocation per category
		if err := tx.Raw(`
			INSERT INTO reference_sequences (category, last_id)
			VALUES (?, 1)
			ON CONFLICT (category)
			DO UPDATE SET last_id = reference_sequences.last_id + 1
			RETURNING last_id
		`, category.String()).Scan(&id).Error; err != nil {
			return err
		}
		if id == 0 {
			return fmt.Errorf("counter for %s returned no id", category)
		}
		created = model.ReferenceEntity{Id: id, Name: name, IsActive: true}
		return tx.Table(category.TableName()).Create(&created).Error
	})
	if err != nil {
		return nil, classifyError("insert "+category.String(), err)
	}
	return r.mapper.ToEntity(category, &created), nil
}

func (r *ReferenceRepositoryImpl) ActivateByID(ctx context.Context, category entity.Category, id int64) (bool, error) {
	res := r.table(ctx, category).
		Where("id = ?", id).
		Scopes(scope.InactiveOnly).
		Updates(map[string]interface{}{"is_active": true, "updated_at": gorm.Expr("NOW()")})
	if res.Error != nil {
		return false, classifyError("activate "+category.String(), res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *ReferenceRepositoryImpl) RenameActive(ctx context.Context, category entity.Category, oldName, newName string) (bool, error) {
	// Compare-and-swap: only the row still active under oldName is touched
	res := r.table(ctx, category).
		Scopes(byName(oldName), scope.ActiveOnly).
		Updates(map[string]interface{}{"name": newName, "updated_at": gorm.Expr("NOW()")})
	if res.Error != nil {
		return false, classifyError("rename "+category.String(), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ReferenceRepositoryImpl) DeactivateIfUnreferenced(ctx context.Context, category entity.Category, name string) (bool, error) {
	sql := fmt.Sprintf(`
		UPDATE %s SET is_active = FALSE, updated_at = NOW()
		WHERE name = ? AND is_active
		AND NOT EXISTS (SELECT 1 FROM feature_records WHERE %s = ?)
	`, category.TableName(), category.Column())
	res := r.db.WithContext(ctx).Exec(sql, name, name)
	if res.Error != nil {
		return false, classifyError("retire "+category.String(), res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *ReferenceRepositoryImpl) ListActiveNames(ctx context.Context, category entity.Category) ([]string, error) {
	var names []string
	err := r.table(ctx, category).
		Scopes(scope.ActiveOnly, scope.OrderByNameAsc).
		Distinct("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, classifyError("list "+category.String(), err)
	}
	return names, nil
}

func (r *ReferenceRepositoryImpl) FindAll(ctx context.Context, category entity.Category, includeInactive bool) ([]*entity.ReferenceEntity, error) {
	var models []*model.ReferenceEntity
	query := r.table(ctx, category).Order("id ASC")
	if !includeInactive {
		query = query.Scopes(scope.ActiveOnly)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, classifyError("list "+category.String(), err)
	}
	return r.mapper.ToEntities(category, models), nil
}

func (r *ReferenceRepositoryImpl) PurgeInactive(ctx context.Context, category entity.Category) (int64, error) {
	res := r.table(ctx, category).Scopes(scope.InactiveOnly).Delete(&model.ReferenceEntity{})
	if res.Error != nil {
		return 0, classifyError("purge "+category.String(), res.Error)
	}
	return res.RowsAffected, nil
}
