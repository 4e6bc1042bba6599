package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/repository"
)

// CopyGeneratedEvent is the message body on TopicCopyGenerated.
type CopyGeneratedEvent struct {
	Result model.CampaignResult `json:"result"`
}

// PublishCopyGenerated encodes result and publishes it.
func PublishCopyGenerated(q Queue, result *model.CampaignResult) error {
	body, err := json.Marshal(CopyGeneratedEvent{Result: *result})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return q.Publish(TopicCopyGenerated, body)
}

// GenerationLogHandler writes each event into the audit log. Undecodable
// bodies are dropped rather than retried.
func GenerationLogHandler(repo repository.GenerationLogRepositoryInterface, logger *zap.Logger) Handler {
	logger = logging.OrNop(logger)
	return func(body []byte) error {
		var event CopyGeneratedEvent
		if err := json.Unmarshal(body, &event); err != nil || event.Result.ID == "" {
			logger.Warn("dropping invalid copy_generated event", zap.ByteString("body", body))
			return nil
		}

		payload, err := json.Marshal(event.Result.Copy)
		if err != nil {
			return err
		}
		entry := &model.GenerationLog{
			ResultID:    event.Result.ID,
			ProductName: event.Result.Params.ProductName,
			Platform:    string(event.Result.Params.Platform),
			Tone:        string(event.Result.Params.Tone),
			Payload:     string(payload),
			GeneratedAt: time.UnixMilli(event.Result.Timestamp).UTC(),
		}
		if err := repo.Create(entry); err != nil {
			logger.Warn("failed to write generation log", zap.String("result_id", entry.ResultID), zap.Error(err))
			return err
		}
		logger.Info("generation logged", zap.String("result_id", entry.ResultID), zap.String("platform", entry.Platform))
		return nil
	}
}

// StartGenerationLogSubscriber wires the audit log handler to the queue.
func StartGenerationLogSubscriber(q Queue, repo repository.GenerationLogRepositoryInterface, logger *zap.Logger) error {
	return q.Subscribe(TopicCopyGenerated, GenerationLogHandler(repo, logger))
}

// OpenEvents picks the copy_generated transport. With an AMQP URL events go
// to RabbitMQ and cmd/worker writes the audit log. Otherwise, when logs is
// set, an in-process subscriber writes it. With neither, events are off and
// the returned Queue is nil. The close func waits for in-flight deliveries.
func OpenEvents(amqpURL string, logs repository.GenerationLogRepositoryInterface, logger *zap.Logger) (Queue, func(), error) {
	if amqpURL != "" {
		q, err := DialAMQP(amqpURL, logger)
		if err != nil {
			return nil, nil, err
		}
		return q, func() { q.Close() }, nil
	}
	if logs == nil {
		return nil, func() {}, nil
	}

	q := NewInMemoryQueue(logger)
	if err := StartGenerationLogSubscriber(q, logs, logger); err != nil {
		return nil, nil, err
	}
	return q, q.Wait, nil
}
