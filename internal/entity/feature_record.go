// FILE: internal/entity/feature_record.go
// Domain entity for the denormalized feature catalog
package entity

import (
	"time"

	"github.com/google/uuid"
)

// FeatureRecord is one row of the denormalized catalog. The five name fields are
// copies of ReferenceEntity.Name at write time and are the source of truth for
// matching and counting; the *Id fields are advisory.
type FeatureRecord struct {
	Id             uuid.UUID
	SystemName     string
	SystemNameId   *int64
	Module         string
	ModuleId       *int64
	Feature        string
	FeatureId      *int64
	Client         string
	ClientId       *int64
	Source         string
	SourceId       *int64
	Description    string
	SampleLocation *string
	SampleMeta     *SampleMeta
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SampleMeta describes an uploaded sample artifact
type SampleMeta struct {
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// Value returns the record's name for a category
func (r *FeatureRecord) Value(c Category) string {
	switch c {
	case CategorySystemName:
		return r.SystemName
	case CategoryModule:
		return r.Module
	case CategoryFeature:
		return r.Feature
	case CategoryClient:
		return r.Client
	case CategorySource:
		return r.Source
	}
	return ""
}

func (r *FeatureRecord) SetValue(c Category, v string) {
	switch c {
	case CategorySystemName:
		r.SystemName = v
	case CategoryModule:
		r.Module = v
	case CategoryFeature:
		r.Feature = v
	case CategoryClient:
		r.Client = v
	case CategorySource:
		r.Source = v
	}
}

// RefId returns the advisory surrogate id stamped for a category
func (r *FeatureRecord) RefId(c Category) *int64 {
	switch c {
	case CategorySystemName:
		return r.SystemNameId
	case CategoryModule:
		return r.ModuleId
	case CategoryFeature:
		return r.FeatureId
	case CategoryClient:
		return r.ClientId
	case CategorySource:
		return r.SourceId
	}
	return nil
}

func (r *FeatureRecord) SetRefId(c Category, id *int64) {
	switch c {
	case CategorySystemName:
		r.SystemNameId = id
	case CategoryModule:
		r.ModuleId = id
	case CategoryFeature:
		r.FeatureId = id
	case CategoryClient:
		r.ClientId = id
	case CategorySource:
		r.SourceId = id
	}
}

// RecordQuery narrows feature records.
// Equals holds exact, case-sensitive matches; empty values impose no filter.
// Terms is a disjunction of case-insensitive substrings over the searchable fields.
type RecordQuery struct {
	Equals map[Category]string
	Terms  []string
	Limit  int
	Offset int
}

// CatalogStatistics summarises the catalog
type CatalogStatistics struct {
	TotalRecords int64
	Distinct     map[Category]int
}
