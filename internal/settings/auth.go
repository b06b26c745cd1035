package settings

import (
	"context"
	"crypto/subtle"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

// AuthUser mirrors what the admin login writes. There is no token and no expiry.
type AuthUser struct {
	Username   string `json:"username"`
	IsLoggedIn bool   `json:"isLoggedIn"`
}

func (s *Service) Login(ctx context.Context, session, username, password string) (AuthUser, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.opts.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.opts.AdminPassword)) == 1
	if !userOK || !passOK {
		return AuthUser{}, ErrInvalidCredentials
	}

	u := AuthUser{Username: username, IsLoggedIn: true}
	if err := s.writeJSON(ctx, session, storage.KeyAuthUser, u); err != nil {
		return AuthUser{}, err
	}
	s.logger.Info("admin logged in", zap.String("session", session))
	return u, nil
}

func (s *Service) Logout(ctx context.Context, session string) error {
	if err := s.store.Delete(ctx, session, storage.KeyAuthUser); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Current returns the zero AuthUser when nobody is logged in on session.
func (s *Service) Current(ctx context.Context, session string) (AuthUser, error) {
	var u AuthUser
	ok, err := s.readJSON(ctx, session, storage.KeyAuthUser, &u)
	if err != nil || !ok {
		return AuthUser{}, err
	}
	return u, nil
}
