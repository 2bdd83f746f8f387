package dto

import (
	"time"

	"github.com/google/uuid"
)

// FeatureRecordRequest is the create/update body (JSON or multipart form).
// Required fields are checked by the coordinator so every transport gets the same messages.
type FeatureRecordRequest struct {
	SystemName   string `json:"system_name" form:"system_name"`
	Module       string `json:"module" form:"module"`
	Feature      string `json:"feature" form:"feature"`
	Client       string `json:"client" form:"client"`
	Source       string `json:"source" form:"source"`
	Description  string `json:"description" form:"description"`
	SampleURL    string `json:"sample_url" form:"sample_url"`
	RemoveSample bool   `json:"remove_sample" form:"remove_sample"`
}

type ListFeatureRecordsRequest struct {
	SystemName string `query:"system_name"`
	Module     string `query:"module"`
	Feature    string `query:"feature"`
	Client     string `query:"client"`
	Source     string `query:"source"`
	Limit      int    `query:"limit" validate:"min=0,max=500"`
	Offset     int    `query:"offset" validate:"min=0"`
}

type SearchFeatureRecordsRequest struct {
	Q      string `query:"q"`
	Limit  int    `query:"limit" validate:"min=0,max=500"`
	Offset int    `query:"offset" validate:"min=0"`
}

type BulkDeleteRequest struct {
	Ids []string `json:"ids" validate:"required,min=1"`
}

type SampleMetaResponse struct {
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

type FeatureRecordResponse struct {
	Id             uuid.UUID           `json:"id"`
	SystemName     string              `json:"system_name"`
	SystemNameId   *int64              `json:"system_name_id"`
	Module         string              `json:"module"`
	ModuleId       *int64              `json:"module_id"`
	Feature        string              `json:"feature"`
	FeatureId      *int64              `json:"feature_id"`
	Client         string              `json:"client"`
	ClientId       *int64              `json:"client_id"`
	Source         string              `json:"source"`
	SourceId       *int64              `json:"source_id"`
	Description    string              `json:"description"`
	SampleLocation *string             `json:"sample_location"`
	SampleIsURL    bool                `json:"sample_is_url"`
	SampleMeta     *SampleMetaResponse `json:"sample_meta,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type FeatureRecordPageResponse struct {
	Items  []*FeatureRecordResponse `json:"items"`
	Total  int64                    `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

type SearchFeatureRecordsResponse struct {
	FeatureRecordPageResponse
	Terms    []string `json:"terms"`
	Fallback bool     `json:"fallback"`
}

type DeleteFeatureRecordResponse struct {
	Id                uuid.UUID `json:"id"`
	FileDeleted       bool      `json:"file_deleted"`
	ReferencesRetired int       `json:"references_retired"`
}

type BulkDeleteResponse struct {
	DeletedCount      int      `json:"deleted_count"`
	FailedIds         []string `json:"failed_ids"`
	FilesDeleted      int      `json:"files_deleted"`
	ReferencesRetired int      `json:"references_retired"`
}

type CatalogStatisticsResponse struct {
	TotalRecords int64 `json:"total_records"`
	SystemNames  int   `json:"system_names"`
	Modules      int   `json:"modules"`
	Features     int   `json:"features"`
	Clients      int   `json:"clients"`
	Sources      int   `json:"sources"`
}
