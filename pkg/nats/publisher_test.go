package nats

import (
	"testing"

	"feature-catalog-be/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "catalog.feature_record_created", Subject(events.FeatureRecordCreated))
	assert.Equal(t, "catalog.reference_retired", Subject(events.ReferenceRetired))
}
