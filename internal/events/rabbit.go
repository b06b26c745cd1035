package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	EventsExchange             = "storefront.events"
	StorageChangedRoutingKey   = "storage.changed.v1"
	StoreNameChangedRoutingKey = "store.name.changed.v1"
)

var routingKeys = map[string]string{
	EventStorageChanged:   StorageChangedRoutingKey,
	EventStoreNameChanged: StoreNameChangedRoutingKey,
}

func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}

func declareEventsExchange(ch *amqp.Channel) error {
	return ch.ExchangeDeclare(
		EventsExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// RabbitBus dispatches locally and mirrors every event to the exchange so other
// instances sharing the same storage can refresh. Deliveries that originated here
// are skipped since they were already dispatched.
type RabbitBus struct {
	*LocalBus

	conn   *amqp.Connection
	logger *zap.Logger

	mu    sync.Mutex
	pubCh *amqp.Channel
	subCh *amqp.Channel
}

func NewRabbitBus(conn *amqp.Connection, producer string, logger *zap.Logger) (*RabbitBus, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareEventsExchange(ch); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("declare events exchange: %w", err)
	}
	return &RabbitBus{
		LocalBus: NewLocalBus(producer),
		conn:     conn,
		logger:   logger.Named("events"),
		pubCh:    ch,
	}, nil
}

func (b *RabbitBus) Publish(ctx context.Context, ev Event) error {
	ev = b.stamp(ctx, ev)
	b.dispatch(ctx, ev)

	key, ok := routingKeys[ev.Name]
	if !ok {
		return fmt.Errorf("no routing key for event %q", ev.Name)
	}
	env, err := newEnvelope(ev)
	if err != nil {
		return err
	}
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal %s envelope: %w", ev.Name, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pubCh.PublishWithContext(
		pubCtx,
		EventsExchange,
		key,
		false,
		false,
		amqp.Publishing{
			ContentType:   "application/json",
			DeliveryMode:  amqp.Transient,
			MessageId:     env.EventID,
			CorrelationId: env.CorrelationID,
			Timestamp:     env.OccurredAt,
			Body:          body,
		},
	)
}

// Start binds an exclusive per-instance queue to every routing key and consumes until ctx is done.
func (b *RabbitBus) Start(ctx context.Context) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, EventsExchange, false, nil); err != nil {
			_ = ch.Close()
			return fmt.Errorf("bind %s: %w", key, err)
		}
	}
	msgs, err := ch.Consume(q.Name, b.producer, false, true, false, false, nil)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consume: %w", err)
	}

	b.mu.Lock()
	b.subCh = ch
	b.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.logger.Info("stopping storefront events consumer")
				return
			case msg, ok := <-msgs:
				if !ok {
					b.logger.Warn("messages channel closed")
					return
				}
				if err := b.handleDelivery(ctx, msg.Body); err != nil {
					b.logger.Warn("drop event", zap.Error(err), zap.String("message_id", msg.MessageId))
					_ = msg.Nack(false, false)
					continue
				}
				_ = msg.Ack(false)
			}
		}
	}()
	return nil
}

func (b *RabbitBus) handleDelivery(ctx context.Context, body []byte) error {
	ev, _, err := parseEnvelope(body)
	if err != nil {
		return err
	}
	if ev.Producer == b.producer {
		return nil
	}
	b.dispatch(WithCorrelationID(ctx, ev.CorrelationID), ev)
	return nil
}

func (b *RabbitBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subCh != nil {
		_ = b.subCh.Close()
	}
	return b.pubCh.Close()
}
