package queue

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// AllTopics subscribes a handler to every topic.
const AllTopics = "*"

var (
	ErrNoSubscribers = errors.New("no subscribers for topic")
	ErrClosed        = errors.New("queue closed")
)

// Event is what travels through the queue.
type Event struct {
	Topic   string    `json:"topic"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

type Handler func(ev Event) error

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler Handler) error
	Close() error
}

// InMemoryQueue delivers each event to every subscriber in its own goroutine,
// retrying failed handlers with a linear backoff.
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	closed   bool
	done     chan struct{}
	inflight sync.WaitGroup

	MaxRetries int
	Backoff    time.Duration
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue(logger *zap.Logger) *InMemoryQueue {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryQueue{
		handlers:   make(map[string][]Handler),
		done:       make(chan struct{}),
		MaxRetries: 3,
		Backoff:    500 * time.Millisecond,
		Logger:     logger,
		Now:        time.Now,
	}
}

// jobPayload wraps an event with retry info
type jobPayload struct {
	Event      Event
	RetryCount int
	MaxRetries int
}

// Publish sends an event to all subscribers of topic plus the catch-all ones.
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	handlers := append(append([]Handler(nil), q.handlers[topic]...), q.handlers[AllTopics]...)
	if len(handlers) == 0 {
		q.mu.Unlock()
		return errors.Wrapf(ErrNoSubscribers, "%s", topic)
	}
	q.inflight.Add(len(handlers))
	q.mu.Unlock()

	job := jobPayload{
		Event:      Event{Topic: topic, Payload: payload, At: q.Now()},
		MaxRetries: q.MaxRetries,
	}
	for _, handler := range handlers {
		go q.processJob(handler, job)
	}
	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler Handler, job jobPayload) {
	defer q.inflight.Done()
	log := q.Logger.With(zap.String("topic", job.Event.Topic))

	for {
		err := handler(job.Event)
		if err == nil {
			log.Debug("job processed", zap.Int("attempt", job.RetryCount+1))
			return // ACK
		}

		job.RetryCount++
		if job.RetryCount > job.MaxRetries {
			log.Warn("job permanently failed", zap.Int("attempts", job.RetryCount), zap.Error(err))
			return // no requeue
		}
		log.Info("job failed, retrying", zap.Int("attempt", job.RetryCount), zap.Int("max_retries", job.MaxRetries), zap.Error(err))

		select {
		case <-time.After(time.Duration(job.RetryCount) * q.Backoff):
		case <-q.done:
			log.Warn("queue closed before retry", zap.Error(err))
			return
		}
	}
}

// Subscribe adds a handler for a topic, or for every topic with AllTopics.
func (q *InMemoryQueue) Subscribe(topic string, handler Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// Close refuses new events, cancels pending retries and waits for running handlers.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.done)
	q.mu.Unlock()

	q.inflight.Wait()
	return nil
}

var _ Queue = (*InMemoryQueue)(nil)
