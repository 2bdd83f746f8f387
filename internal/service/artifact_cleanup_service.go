// FILE: internal/service/artifact_cleanup_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"feature-catalog-be/internal/pkg/logger"
	"feature-catalog-be/pkg/filestore"

	"github.com/ThreeDotsLabs/watermill/message"
)

const cleanupAttempts = 3

type IArtifactCleanupService interface {
	Consume(ctx context.Context) error
}

type artifactCleanupService struct {
	subscriber message.Subscriber
	topicName  string
	files      filestore.FileStore
	logger     logger.ILogger
	backoff    time.Duration
}

// NewArtifactCleanupService removes orphaned sample artifacts queued by filestore.QueuedStore.
// files must be the unqueued store, otherwise deletes would loop back onto the topic.
func NewArtifactCleanupService(
	subscriber message.Subscriber,
	topicName string,
	files filestore.FileStore,
	logger logger.ILogger,
) IArtifactCleanupService {
	return &artifactCleanupService{
		subscriber: subscriber,
		topicName:  topicName,
		files:      files,
		logger:     logger,
		backoff:    200 * time.Millisecond,
	}
}

func (s *artifactCleanupService) Consume(ctx context.Context) error {
	messages, err := s.subscriber.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *artifactCleanupService) processMessage(ctx context.Context, msg *message.Message) {
	var payload filestore.CleanupRequest
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		s.logger.Error("CLEANUP", "Failed to unmarshal cleanup message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		msg.Ack() // invalid payloads would never succeed
		return
	}

	var lastErr error
	for attempt := 1; attempt <= cleanupAttempts; attempt++ {
		deleted, err := s.files.Delete(ctx, payload.Location)
		if err == nil {
			s.logger.Debug("CLEANUP", "Artifact cleanup processed", map[string]interface{}{
				"location": payload.Location,
				"deleted":  deleted,
			})
			msg.Ack()
			return
		}
		lastErr = err
		if errors.Is(err, filestore.ErrOutsideRoot) {
			break
		}

		select {
		case <-ctx.Done():
			msg.Nack()
			return
		case <-time.After(s.backoff * time.Duration(attempt)):
		}
	}

	// The record is already gone; an orphaned file is only wasted disk.
	s.logger.Error("CLEANUP", "Giving up on artifact cleanup", map[string]interface{}{
		"location": payload.Location,
		"error":    lastErr.Error(),
	})
	msg.Ack()
}
