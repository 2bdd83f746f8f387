package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// CleanupTopic carries artifact locations waiting to be removed
const CleanupTopic = "artifact.cleanup"

// CleanupRequest is the payload of a cleanup message
type CleanupRequest struct {
	Location string `json:"location"`
}

// QueuedStore defers deletes to a background consumer so a slow or flaky
// disk never blocks the request that orphaned the artifact.
type QueuedStore struct {
	FileStore
	publisher message.Publisher
}

func NewQueuedStore(inner FileStore, publisher message.Publisher) *QueuedStore {
	return &QueuedStore{FileStore: inner, publisher: publisher}
}

// Delete enqueues the location and reports true when a local artifact was queued
func (q *QueuedStore) Delete(ctx context.Context, location string) (bool, error) {
	if location == "" || q.IsRemoteURL(location) {
		return false, nil
	}
	payload, err := json.Marshal(CleanupRequest{Location: location})
	if err != nil {
		return false, err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	if err := q.publisher.Publish(CleanupTopic, msg); err != nil {
		return false, fmt.Errorf("queue cleanup of %s: %w", location, err)
	}
	return true, nil
}

// Put is forwarded untouched
func (q *QueuedStore) Put(ctx context.Context, filename string, content io.Reader) (string, error) {
	return q.FileStore.Put(ctx, filename, content)
}
