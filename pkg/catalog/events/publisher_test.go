package events

import (
	"context"
	"errors"
	"testing"

	"feature-catalog-be/internal/entity"
	"feature-catalog-be/internal/pkg/logger"
	pkgEvents "feature-catalog-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	events []pkgEvents.Event
	err    error
}

func (c *captureSender) Publish(ctx context.Context, event pkgEvents.Event) error {
	c.events = append(c.events, event)
	return c.err
}

func TestBusPublisherPayloads(t *testing.T) {
	sender := &captureSender{}
	p := NewBusPublisher(sender, logger.NewNopLogger())
	ctx := context.Background()

	rec := &entity.FeatureRecord{Id: uuid.New(), SystemName: "Facebook", Client: "ABS CBN"}
	p.PublishRecordCreated(ctx, rec)
	p.PublishReferenceRenamed(ctx, entity.CategoryModule, "Chat", "Messenger")

	require.Len(t, sender.events, 2)
	assert.Equal(t, pkgEvents.FeatureRecordCreated, sender.events[0].EventType())
	assert.Equal(t, "Facebook", sender.events[0].Payload()["system_name"])
	assert.Equal(t, rec.Id.String(), sender.events[0].Payload()["record_id"])
	assert.Equal(t, "Messenger", sender.events[1].Payload()["new_name"])
}

func TestBusPublisherSwallowsFailures(t *testing.T) {
	sender := &captureSender{err: errors.New("nats down")}
	p := NewBusPublisher(sender, logger.NewNopLogger())

	assert.NotPanics(t, func() {
		p.PublishReferenceRetired(context.Background(), entity.CategoryClient, "XYZ Corp")
	})

	nop := NewBusPublisher(nil, logger.NewNopLogger())
	assert.NotPanics(t, func() { nop.PublishRecordDeleted(context.Background(), uuid.New()) })
}
