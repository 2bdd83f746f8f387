package events

import (
	"context"
	"time"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/logger"
	pkgEvents "feature-catalog-be/pkg/events"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for catalog mutations.
// Publishing is fire-and-forget: failures are logged, never returned.
type Publisher interface {
	PublishRecordCreated(ctx context.Context, record *entity.FeatureRecord)
	PublishRecordUpdated(ctx context.Context, record *entity.FeatureRecord)
	PublishRecordDeleted(ctx context.Context, id uuid.UUID)
	PublishReferenceRenamed(ctx context.Context, category entity.Category, oldName, newName string)
	PublishReferenceRetired(ctx context.Context, category entity.Category, name string)
}

// Sender is the bus a publisher writes to (pkg/nats.Publisher in production)
type Sender interface {
	Publish(ctx context.Context, event pkgEvents.Event) error
}

// BusPublisher implements Publisher on top of a Sender
type BusPublisher struct {
	sender Sender
	logger logger.ILogger
}

// NewBusPublisher creates a publisher; a nil sender turns every call into a no-op
func NewBusPublisher(sender Sender, logger logger.ILogger) *BusPublisher {
	return &BusPublisher{
		sender: sender,
		logger: logger,
	}
}

func recordData(record *entity.FeatureRecord) map[string]interface{} {
	data := map[string]interface{}{
		"record_id":   record.Id.String(),
		"entity_type": "feature_record",
		"entity_id":   record.Id.String(),
	}
	for _, category := range entity.Categories {
		data[category.Column()] = record.Value(category)
	}
	return data
}

func (p *BusPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.sender == nil {
		return
	}
	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
	if err := p.sender.Publish(ctx, evt); err != nil {
		p.logger.Error("CATALOG_EVENTS", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

func (p *BusPublisher) PublishRecordCreated(ctx context.Context, record *entity.FeatureRecord) {
	p.publish(ctx, pkgEvents.FeatureRecordCreated, recordData(record))
}

func (p *BusPublisher) PublishRecordUpdated(ctx context.Context, record *entity.FeatureRecord) {
	p.publish(ctx, pkgEvents.FeatureRecordUpdated, recordData(record))
}

func (p *BusPublisher) PublishRecordDeleted(ctx context.Context, id uuid.UUID) {
	p.publish(ctx, pkgEvents.FeatureRecordDeleted, map[string]interface{}{
		"record_id":   id.String(),
		"entity_type": "feature_record",
		"entity_id":   id.String(),
	})
}

func (p *BusPublisher) PublishReferenceRenamed(ctx context.Context, category entity.Category, oldName, newName string) {
	p.publish(ctx, pkgEvents.ReferenceRenamed, map[string]interface{}{
		"category":    category.String(),
		"old_name":    oldName,
		"new_name":    newName,
		"entity_type": "reference",
	})
}

func (p *BusPublisher) PublishReferenceRetired(ctx context.Context, category entity.Category, name string) {
	p.publish(ctx, pkgEvents.ReferenceRetired, map[string]interface{}{
		"category":    category.String(),
		"name":        name,
		"entity_type": "reference",
	})
}
