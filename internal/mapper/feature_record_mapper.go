// FILE: internal/mapper/feature_record_mapper.go
// Mapper for FeatureRecord entity <-> model conversion
package mapper

import (
	"encoding/json"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/model"

	"gorm.io/datatypes"
)

type FeatureRecordMapper struct{}

func NewFeatureRecordMapper() *FeatureRecordMapper {
	return &FeatureRecordMapper{}
}

func (m *FeatureRecordMapper) ToEntity(mdl *model.FeatureRecord) *entity.FeatureRecord {
	if mdl == nil {
		return nil
	}
	e := &entity.FeatureRecord{
		Id:             mdl.Id,
		SystemName:     mdl.SystemName,
		SystemNameId:   mdl.SystemNameId,
		Module:         mdl.Module,
		ModuleId:       mdl.ModuleId,
		Feature:        mdl.Feature,
		FeatureId:      mdl.FeatureId,
		Client:         mdl.Client,
		ClientId:       mdl.ClientId,
		Source:         mdl.Source,
		SourceId:       mdl.SourceId,
		Description:    mdl.Description,
		SampleLocation: mdl.SampleLocation,
		CreatedAt:      mdl.CreatedAt,
		UpdatedAt:      mdl.UpdatedAt,
	}
	if len(mdl.SampleMeta) > 0 {
		var meta entity.SampleMeta
		// Unreadable metadata is dropped; the location stays authoritative.
		if err := json.Unmarshal(mdl.SampleMeta, &meta); err == nil {
			e.SampleMeta = &meta
		}
	}
	return e
}

func (m *FeatureRecordMapper) ToModel(e *entity.FeatureRecord) *model.FeatureRecord {
	if e == nil {
		return nil
	}
	mdl := &model.FeatureRecord{
		Id:             e.Id,
		SystemName:     e.SystemName,
		SystemNameId:   e.SystemNameId,
		Module:         e.Module,
		ModuleId:       e.ModuleId,
		Feature:        e.Feature,
		FeatureId:      e.FeatureId,
		Client:         e.Client,
		ClientId:       e.ClientId,
		Source:         e.Source,
		SourceId:       e.SourceId,
		Description:    e.Description,
		SampleLocation: e.SampleLocation,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	if e.SampleMeta != nil {
		if raw, err := json.Marshal(e.SampleMeta); err == nil {
			mdl.SampleMeta = datatypes.JSON(raw)
		}
	}
	return mdl
}

func (m *FeatureRecordMapper) ToEntities(models []*model.FeatureRecord) []*entity.FeatureRecord {
	entities := make([]*entity.FeatureRecord, 0, len(models))
	for _, mdl := range models {
		entities = append(entities, m.ToEntity(mdl))
	}
	return entities
}
