// FILE: internal/service/cache_invalidation_service.go
package service

import (
	"context"

	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/pkg/cache"
	"feature-catalog-be/pkg/events"
	"feature-catalog-be/pkg/nats"
)

// EventSubscriber is the part of nats.Subscriber the listener needs
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler nats.EventHandler) error
}

type ICacheInvalidationService interface {
	Listen(ctx context.Context) error
}

type cacheInvalidationService struct {
	subscriber  EventSubscriber
	origin      string
	optionCache cache.OptionsCache
	logger      logger.ILogger
}

// NewCacheInvalidationService flushes a process-local options cache when another
// instance mutates the catalog. Own events are skipped; the service already flushed.
func NewCacheInvalidationService(
	subscriber EventSubscriber,
	origin string,
	optionCache cache.OptionsCache,
	logger logger.ILogger,
) ICacheInvalidationService {
	return &cacheInvalidationService{
		subscriber:  subscriber,
		origin:      origin,
		optionCache: optionCache,
		logger:      logger,
	}
}

func (s *cacheInvalidationService) Listen(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, nats.SubjectPrefix+".>", "", s.handle)
}

func (s *cacheInvalidationService) handle(ctx context.Context, origin string, event events.Event) error {
	if origin == s.origin {
		return nil
	}
	s.optionCache.Flush(ctx)
	s.logger.Debug("CACHE", "Options cache flushed by remote event", map[string]interface{}{
		"origin": origin,
		"type":   event.EventType(),
	})
	return nil
}
