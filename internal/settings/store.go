package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

// StoreName is stored as a plain string, not JSON.
func (s *Service) StoreName(ctx context.Context) (string, error) {
	raw, err := s.store.Get(ctx, storage.GlobalSession, storage.KeyStoreName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return s.opts.DefaultStoreName, nil
		}
		return "", fmt.Errorf("load store name: %w", err)
	}
	if name := strings.TrimSpace(string(raw)); name != "" {
		return name, nil
	}
	return s.opts.DefaultStoreName, nil
}

// SetStoreName saves name and announces it so open views can retitle without reloading.
func (s *Service) SetStoreName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: store name is empty", ErrInvalidValue)
	}
	if err := s.store.Set(ctx, storage.GlobalSession, storage.KeyStoreName, []byte(name)); err != nil {
		return fmt.Errorf("save store name: %w", err)
	}
	// the name is saved; open views pick it up on their next read
	if err := s.bus.Publish(ctx, events.Event{Name: events.EventStoreNameChanged, Session: storage.GlobalSession, Key: storage.KeyStoreName, Value: name}); err != nil {
		s.logger.Warn("publish store name change", zap.String("store_name", name), zap.Error(err))
	}
	return nil
}

// AdminPanel reads the "true"/"false" flag. Anything else reads as false.
func (s *Service) AdminPanel(ctx context.Context, session string) (bool, error) {
	raw, err := s.store.Get(ctx, session, storage.KeyShowAdminPanel)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load admin panel flag: %w", err)
	}
	show, err := strconv.ParseBool(strings.TrimSpace(string(raw)))
	if err != nil {
		return false, nil
	}
	return show, nil
}

func (s *Service) SetAdminPanel(ctx context.Context, session string, show bool) error {
	if err := s.store.Set(ctx, session, storage.KeyShowAdminPanel, []byte(strconv.FormatBool(show))); err != nil {
		return fmt.Errorf("save admin panel flag: %w", err)
	}
	return nil
}
