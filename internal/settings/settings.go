// Package settings holds the admin-editable store configuration: the admin login, store
// name, admin panel flag, business info and theme colors. Each form reads and writes its
// own key and none depends on another.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidColor       = errors.New("invalid color")
	ErrInvalidValue       = errors.New("invalid value")
)

type Options struct {
	AdminUsername    string
	AdminPassword    string
	DefaultStoreName string
}

type Service struct {
	store  storage.Store
	bus    events.Bus
	opts   Options
	logger *zap.Logger
}

func NewService(store storage.Store, bus events.Bus, opts Options, logger *zap.Logger) *Service {
	return &Service{store: store, bus: bus, opts: opts, logger: logger.Named("settings")}
}

// readJSON reports false when the key is absent or holds unparsable data.
func (s *Service) readJSON(ctx context.Context, session, key string, v any) (bool, error) {
	raw, err := s.store.Get(ctx, session, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn("discarding unparsable stored data", zap.String("key", key), zap.String("session", session), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *Service) writeJSON(ctx context.Context, session, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.store.Set(ctx, session, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
