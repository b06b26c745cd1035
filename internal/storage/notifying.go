package storage

import (
	"context"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
)

// NotifyingStore publishes StorageChanged after every successful write.
// A failed publish is logged; the write itself already happened.
type NotifyingStore struct {
	Store
	bus    events.Bus
	logger *zap.Logger
}

func NewNotifyingStore(inner Store, bus events.Bus, logger *zap.Logger) *NotifyingStore {
	return &NotifyingStore{Store: inner, bus: bus, logger: logger.Named("storage")}
}

func (s *NotifyingStore) Set(ctx context.Context, session, key string, value []byte) error {
	if err := s.Store.Set(ctx, session, key, value); err != nil {
		return err
	}
	s.notify(ctx, session, key)
	return nil
}

func (s *NotifyingStore) Delete(ctx context.Context, session, key string) error {
	if err := s.Store.Delete(ctx, session, key); err != nil {
		return err
	}
	s.notify(ctx, session, key)
	return nil
}

func (s *NotifyingStore) notify(ctx context.Context, session, key string) {
	err := s.bus.Publish(ctx, events.Event{Name: events.EventStorageChanged, Session: session, Key: key})
	if err != nil {
		s.logger.Warn("publish storage change", zap.Error(err), zap.String("session", session), zap.String("key", key))
	}
}
