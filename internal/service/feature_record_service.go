// FILE: internal/service/feature_record_service.go
package service

import (
	"context"

	"feature-catalog-be/internal/dto"
	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/apperror"
	"feature-catalog-be/pkg/cache"
	"feature-catalog-be/pkg/catalog/coordinator"
	"feature-catalog-be/pkg/filestore"
	"feature-catalog-be/pkg/search"

	"github.com/google/uuid"
)

const defaultPageSize = 20

type IFeatureRecordService interface {
	Create(ctx context.Context, req *dto.FeatureRecordRequest, upload *coordinator.Upload) (*dto.FeatureRecordResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.FeatureRecordRequest, upload *coordinator.Upload) (*dto.FeatureRecordResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.FeatureRecordResponse, error)
	List(ctx context.Context, req *dto.ListFeatureRecordsRequest) (*dto.FeatureRecordPageResponse, error)
	Search(ctx context.Context, req *dto.SearchFeatureRecordsRequest) (*dto.SearchFeatureRecordsResponse, error)
	Statistics(ctx context.Context) (*dto.CatalogStatisticsResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteFeatureRecordResponse, error)
	BulkDelete(ctx context.Context, req *dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error)
}

type featureRecordService struct {
	coordinator *coordinator.Coordinator
	engine      *search.Engine
	optionCache cache.OptionsCache
}

func NewFeatureRecordService(
	coordinator *coordinator.Coordinator,
	engine *search.Engine,
	optionCache cache.OptionsCache,
) IFeatureRecordService {
	return &featureRecordService{
		coordinator: coordinator,
		engine:      engine,
		optionCache: optionCache,
	}
}

func toRecordInput(req *dto.FeatureRecordRequest, upload *coordinator.Upload) coordinator.RecordInput {
	return coordinator.RecordInput{
		SystemName:   req.SystemName,
		Module:       req.Module,
		Feature:      req.Feature,
		Client:       req.Client,
		Source:       req.Source,
		Description:  req.Description,
		SampleFile:   upload,
		SampleURL:    req.SampleURL,
		RemoveSample: req.RemoveSample,
	}
}

func toRecordResponse(rec *entity.FeatureRecord) *dto.FeatureRecordResponse {
	res := &dto.FeatureRecordResponse{
		Id:             rec.Id,
		SystemName:     rec.SystemName,
		SystemNameId:   rec.SystemNameId,
		Module:         rec.Module,
		ModuleId:       rec.ModuleId,
		Feature:        rec.Feature,
		FeatureId:      rec.FeatureId,
		Client:         rec.Client,
		ClientId:       rec.ClientId,
		Source:         rec.Source,
		SourceId:       rec.SourceId,
		Description:    rec.Description,
		SampleLocation: rec.SampleLocation,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
	if rec.SampleLocation != nil {
		res.SampleIsURL = filestore.IsRemoteURL(*rec.SampleLocation)
	}
	if rec.SampleMeta != nil {
		res.SampleMeta = &dto.SampleMetaResponse{
			FileName: rec.SampleMeta.FileName,
			FileSize: rec.SampleMeta.FileSize,
		}
	}
	return res
}

func toRecordResponses(records []*entity.FeatureRecord) []*dto.FeatureRecordResponse {
	result := make([]*dto.FeatureRecordResponse, 0, len(records))
	for _, rec := range records {
		result = append(result, toRecordResponse(rec))
	}
	return result
}

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return limit
}

func (s *featureRecordService) Create(ctx context.Context, req *dto.FeatureRecordRequest, upload *coordinator.Upload) (*dto.FeatureRecordResponse, error) {
	rec, err := s.coordinator.CreateRecord(ctx, toRecordInput(req, upload))
	if err != nil {
		return nil, err
	}
	s.optionCache.Flush(ctx)

	return toRecordResponse(rec), nil
}

func (s *featureRecordService) Update(ctx context.Context, id uuid.UUID, req *dto.FeatureRecordRequest, upload *coordinator.Upload) (*dto.FeatureRecordResponse, error) {
	rec, err := s.coordinator.UpdateRecord(ctx, id, toRecordInput(req, upload))
	if err != nil {
		return nil, err
	}
	s.optionCache.Flush(ctx)

	return toRecordResponse(rec), nil
}

func (s *featureRecordService) Show(ctx context.Context, id uuid.UUID) (*dto.FeatureRecordResponse, error) {
	rec, err := s.coordinator.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRecordResponse(rec), nil
}

func (s *featureRecordService) List(ctx context.Context, req *dto.ListFeatureRecordsRequest) (*dto.FeatureRecordPageResponse, error) {
	filter := map[entity.Category]string{
		entity.CategorySystemName: req.SystemName,
		entity.CategoryModule:     req.Module,
		entity.CategoryFeature:    req.Feature,
		entity.CategoryClient:     req.Client,
		entity.CategorySource:     req.Source,
	}
	limit := pageSize(req.Limit)

	records, total, err := s.coordinator.ListRecords(ctx, filter, limit, req.Offset)
	if err != nil {
		return nil, err
	}

	return &dto.FeatureRecordPageResponse{
		Items:  toRecordResponses(records),
		Total:  total,
		Limit:  limit,
		Offset: req.Offset,
	}, nil
}

func (s *featureRecordService) Search(ctx context.Context, req *dto.SearchFeatureRecordsRequest) (*dto.SearchFeatureRecordsResponse, error) {
	limit := pageSize(req.Limit)

	result, err := s.engine.Page(ctx, req.Q, limit, req.Offset)
	if err != nil {
		return nil, err
	}

	terms := result.Plan.Terms
	if terms == nil {
		terms = make([]string, 0)
	}

	return &dto.SearchFeatureRecordsResponse{
		FeatureRecordPageResponse: dto.FeatureRecordPageResponse{
			Items:  toRecordResponses(result.Records),
			Total:  result.Total,
			Limit:  limit,
			Offset: req.Offset,
		},
		Terms:    terms,
		Fallback: result.Plan.Fallback,
	}, nil
}

func (s *featureRecordService) Statistics(ctx context.Context) (*dto.CatalogStatisticsResponse, error) {
	stats, err := s.coordinator.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.CatalogStatisticsResponse{
		TotalRecords: stats.TotalRecords,
		SystemNames:  stats.Distinct[entity.CategorySystemName],
		Modules:      stats.Distinct[entity.CategoryModule],
		Features:     stats.Distinct[entity.CategoryFeature],
		Clients:      stats.Distinct[entity.CategoryClient],
		Sources:      stats.Distinct[entity.CategorySource],
	}, nil
}

func (s *featureRecordService) Delete(ctx context.Context, id uuid.UUID) (*dto.DeleteFeatureRecordResponse, error) {
	res, err := s.coordinator.DeleteRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	s.optionCache.Flush(ctx)

	return &dto.DeleteFeatureRecordResponse{
		Id:                id,
		FileDeleted:       res.FileDeleted,
		ReferencesRetired: res.ReferencesRetired,
	}, nil
}

func (s *featureRecordService) BulkDelete(ctx context.Context, req *dto.BulkDeleteRequest) (*dto.BulkDeleteResponse, error) {
	if len(req.Ids) == 0 {
		verr := apperror.NewValidationError()
		verr.Add("ids", "No records selected")
		return nil, verr
	}

	res, err := s.coordinator.BulkDelete(ctx, req.Ids)
	if err != nil {
		return nil, err
	}
	if res.DeletedCount > 0 {
		s.optionCache.Flush(ctx)
	}

	failed := res.FailedIDs
	if failed == nil {
		failed = make([]string, 0)
	}

	return &dto.BulkDeleteResponse{
		DeletedCount:      res.DeletedCount,
		FailedIds:         failed,
		FilesDeleted:      res.FilesDeleted,
		ReferencesRetired: res.ReferencesRetired,
	}, nil
}
