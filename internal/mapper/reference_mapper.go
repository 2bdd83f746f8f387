// FILE: internal/mapper/reference_mapper.go
package mapper

import (
	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/model"
)

type ReferenceMapper struct{}

func NewReferenceMapper() *ReferenceMapper {
	return &ReferenceMapper{}
}

func (m *ReferenceMapper) ToEntity(category entity.Category, mdl *model.ReferenceEntity) *entity.ReferenceEntity {
	if mdl == nil {
		return nil
	}
	return &entity.ReferenceEntity{
		Id:        mdl.Id,
		Category:  category,
		Name:      mdl.Name,
		IsActive:  mdl.IsActive,
		CreatedAt: mdl.CreatedAt,
		UpdatedAt: mdl.UpdatedAt,
	}
}

func (m *ReferenceMapper) ToEntities(category entity.Category, models []*model.ReferenceEntity) []*entity.ReferenceEntity {
	entities := make([]*entity.ReferenceEntity, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(category, mdl))
	}
	return entities
}
