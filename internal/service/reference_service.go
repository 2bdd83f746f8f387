// FILE: internal/service/reference_service.go
package service

import (
	"context"

	"feature-catalog-be/internal/dto"
	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/pkg/cache"
	"feature-catalog-be/pkg/catalog/cascade"
	"feature-catalog-be/pkg/catalog/reference"
)

type IReferenceService interface {
	ListActive(ctx context.Context, category entity.Category) ([]string, error)
	ListEntities(ctx context.Context, category entity.Category, includeInactive bool) ([]*dto.ReferenceEntityResponse, error)
	Cascade(ctx context.Context, category entity.Category, req *dto.CascadeRequest) ([]string, error)
	PurgeInactive(ctx context.Context, category entity.Category) (*dto.PurgeInactiveResponse, error)
}

type referenceService struct {
	refs        *reference.Store
	resolver    *cascade.Resolver
	optionCache cache.OptionsCache
	auditLogger logger.ILogger
}

func NewReferenceService(
	refs *reference.Store,
	resolver *cascade.Resolver,
	optionCache cache.OptionsCache,
	auditLogger logger.ILogger,
) IReferenceService {
	return &referenceService{
		refs:        refs,
		resolver:    resolver,
		optionCache: optionCache,
		auditLogger: auditLogger,
	}
}

func (s *referenceService) ListActive(ctx context.Context, category entity.Category) ([]string, error) {
	key := cache.Key("active", category.String())
	if names, ok := s.optionCache.Get(ctx, key); ok {
		return names, nil
	}

	gen, cacheable := s.optionCache.Generation(ctx)
	names, err := s.refs.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.optionCache.Set(ctx, gen, key, names)
	}

	return names, nil
}

func (s *referenceService) ListEntities(ctx context.Context, category entity.Category, includeInactive bool) ([]*dto.ReferenceEntityResponse, error) {
	entities, err := s.refs.List(ctx, category, includeInactive)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ReferenceEntityResponse, 0, len(entities))
	for _, e := range entities {
		result = append(result, &dto.ReferenceEntityResponse{
			Id:        e.Id,
			Category:  e.Category.String(),
			Name:      e.Name,
			IsActive:  e.IsActive,
			CreatedAt: e.CreatedAt,
			UpdatedAt: e.UpdatedAt,
		})
	}
	return result, nil
}

func (s *referenceService) Cascade(ctx context.Context, category entity.Category, req *dto.CascadeRequest) ([]string, error) {
	constraints := map[entity.Category]string{
		entity.CategorySystemName: req.SystemName,
		entity.CategoryModule:     req.Module,
		entity.CategoryFeature:    req.Feature,
		entity.CategoryClient:     req.Client,
		entity.CategorySource:     req.Source,
	}

	pairs := make(map[string]string, len(constraints))
	for c, v := range constraints {
		pairs[c.String()] = v
	}
	key := cache.Key("cascade", category.String(), cache.SortedPairs(pairs), req.Q)
	if values, ok := s.optionCache.Get(ctx, key); ok {
		return values, nil
	}

	gen, cacheable := s.optionCache.Generation(ctx)
	values, err := s.resolver.Resolve(ctx, category, constraints, req.Q)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.optionCache.Set(ctx, gen, key, values)
	}

	return values, nil
}

func (s *referenceService) PurgeInactive(ctx context.Context, category entity.Category) (*dto.PurgeInactiveResponse, error) {
	purged, err := s.refs.PurgeInactive(ctx, category)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Info("REFERENCE", "Purged inactive reference rows", map[string]interface{}{
		"category": category.String(),
		"purged":   purged,
	})

	return &dto.PurgeInactiveResponse{Category: category.String(), Purged: purged}, nil
}
