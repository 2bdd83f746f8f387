// FILE: internal/model/feature_record_model.go
// GORM model for the denormalized feature catalog ("overall" store)
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FeatureRecord struct {
	Id             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SystemName     string         `gorm:"type:text;not null;index;index:idx_feature_records_system_module,priority:1"`
	SystemNameId   *int64         `gorm:"column:system_name_id"`
	Module         string         `gorm:"type:text;not null;index;index:idx_feature_records_system_module,priority:2"`
	ModuleId       *int64         `gorm:"column:module_id"`
	Feature        string         `gorm:"type:text;not null;index"`
	FeatureId      *int64         `gorm:"column:feature_id"`
	Client         string         `gorm:"type:text;not null;index;index:idx_feature_records_client_source,priority:1"`
	ClientId       *int64         `gorm:"column:client_id"`
	Source         string         `gorm:"type:text;not null;index;index:idx_feature_records_client_source,priority:2"`
	SourceId       *int64         `gorm:"column:source_id"`
	Description    string         `gorm:"type:text;not null"`
	SampleLocation *string        `gorm:"type:text"`
	SampleMeta     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"autoCreateTime;index:,sort:desc"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime"`
}

func (FeatureRecord) TableName() string {
	return "feature_records"
}
