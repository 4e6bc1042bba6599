package queue

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/unclebandit/adcraft/internal/logging"
)

// TopicCopyGenerated carries one CopyGeneratedEvent per successful generation.
const TopicCopyGenerated = "copy_generated"

// Handler processes one message body. A non-nil error asks for a retry.
type Handler func(body []byte) error

// Queue interface
type Queue interface {
	Publish(topic string, body []byte) error
	Subscribe(topic string, handler Handler) error
}

// InMemoryQueue delivers to in-process subscribers with retry and backoff.
type InMemoryQueue struct {
	mu         sync.Mutex
	handlers   map[string][]Handler
	wg         sync.WaitGroup
	logger     *zap.Logger
	MaxRetries int
	Backoff    time.Duration
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *zap.Logger) *InMemoryQueue {
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		logger:     logging.OrNop(logger),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
	}
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, body []byte) error {
	q.mu.Lock()
	handlers := append([]Handler(nil), q.handlers[topic]...)
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	for _, handler := range handlers {
		q.wg.Add(1)
		go q.processJob(topic, handler, body)
	}
	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(topic string, handler Handler, body []byte) {
	defer q.wg.Done()

	for attempt := 0; ; attempt++ {
		err := handler(body)
		if err == nil {
			q.logger.Debug("job processed", zap.String("topic", topic))
			return
		}
		if attempt >= q.MaxRetries {
			q.logger.Error("job permanently failed",
				zap.String("topic", topic), zap.Int("attempts", attempt+1), zap.Error(err))
			return
		}
		q.logger.Warn("job failed, retrying",
			zap.String("topic", topic), zap.Int("attempt", attempt+1), zap.Error(err))
		// linear backoff before retry
		time.Sleep(time.Duration(attempt+1) * q.Backoff)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Wait blocks until every published job has finished, retries included.
func (q *InMemoryQueue) Wait() {
	q.wg.Wait()
}

var _ Queue = (*InMemoryQueue)(nil)
