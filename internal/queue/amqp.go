package queue

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// NotificationQueueName is the durable queue cmd/worker binds to the exchange.
const NotificationQueueName = "crm_notifications"

// publisher is the slice of *amqp.Channel the queue needs.
type publisher interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPQueue delivers events to in-process subscribers like InMemoryQueue and
// mirrors every event to a RabbitMQ fanout exchange for out-of-process consumers.
type AMQPQueue struct {
	*InMemoryQueue

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       publisher
	exchange string
}

// DialAMQP connects to RabbitMQ and declares the exchange.
func DialAMQP(url, exchange string, logger *zap.Logger) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "connect to RabbitMQ")
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "open channel")
	}
	if err := DeclareExchange(ch, exchange); err != nil {
		_ = conn.Close()
		return nil, err
	}

	q := newAMQPQueue(ch, exchange, logger)
	q.conn = conn
	return q, nil
}

func newAMQPQueue(ch publisher, exchange string, logger *zap.Logger) *AMQPQueue {
	return &AMQPQueue{
		InMemoryQueue: NewInMemoryQueue(logger),
		ch:            ch,
		exchange:      exchange,
	}
}

// DeclareExchange declares the durable fanout exchange events are mirrored to.
func DeclareExchange(ch *amqp.Channel, exchange string) error {
	err := ch.ExchangeDeclare(
		exchange, // name
		"fanout", // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	return errors.Wrapf(err, "declare exchange %s", exchange)
}

// Publish hands the event to local subscribers first, then to the broker.
// Having no local subscriber is fine here since the broker is one.
func (q *AMQPQueue) Publish(topic string, payload any) error {
	localErr := q.InMemoryQueue.Publish(topic, payload)
	if localErr != nil && !errors.Is(localErr, ErrNoSubscribers) {
		return localErr
	}

	body, err := json.Marshal(Event{Topic: topic, Payload: payload, At: q.Now()})
	if err != nil {
		return errors.Wrap(err, "encode event")
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	err = q.ch.Publish(
		q.exchange,
		topic,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    q.Now(),
			Type:         topic,
			Body:         body,
		},
	)
	return errors.Wrapf(err, "publish %s", topic)
}

// Close drains local deliveries, then closes the channel and connection.
func (q *AMQPQueue) Close() error {
	_ = q.InMemoryQueue.Close()

	q.mu.Lock()
	defer q.mu.Unlock()
	var errs error
	if q.ch != nil {
		errs = errors.CombineErrors(errs, q.ch.Close())
	}
	if q.conn != nil {
		errs = errors.CombineErrors(errs, q.conn.Close())
	}
	return errs
}

// ConsumeNotifications declares the exchange and the durable notification
// queue, binds them and starts consuming without auto-ack.
func ConsumeNotifications(ch *amqp.Channel, exchange, consumer string) (<-chan amqp.Delivery, error) {
	if err := DeclareExchange(ch, exchange); err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare(
		NotificationQueueName, // name
		true,                  // durable
		false,                 // delete when unused
		false,                 // exclusive
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return nil, errors.Wrap(err, "declare queue")
	}
	if err := ch.QueueBind(q.Name, "", exchange, false, nil); err != nil {
		return nil, errors.Wrapf(err, "bind %s to %s", q.Name, exchange)
	}
	msgs, err := ch.Consume(
		q.Name,
		consumer,
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	return msgs, errors.Wrap(err, "register consumer")
}

// DecodeEvent turns a broker message back into an Event. Known payloads come
// back typed; anything else stays raw JSON.
func DecodeEvent(body []byte) (Event, error) {
	var env struct {
		Topic   string          `json:"topic"`
		Payload json.RawMessage `json:"payload"`
		At      time.Time       `json:"at"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return Event{}, errors.Wrap(err, "decode event")
	}
	if env.Topic == "" {
		return Event{}, errors.New("decode event: missing topic")
	}

	ev := Event{Topic: env.Topic, At: env.At, Payload: env.Payload}
	switch {
	case env.Topic == TopicReportGenerate:
		var job ReportJob
		if err := json.Unmarshal(env.Payload, &job); err == nil {
			ev.Payload = job
		}
	case len(env.Payload) > 0 && string(env.Payload) != "null":
		var n Notification
		if err := json.Unmarshal(env.Payload, &n); err == nil && n.Notice != "" {
			ev.Payload = n
		}
	}
	return ev, nil
}

var _ Queue = (*AMQPQueue)(nil)
