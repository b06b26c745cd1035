// Package storage is the per-session key-value store that stands in for browser local storage.
// Every value is an opaque byte slice; callers decide the encoding (JSON for most keys).
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// GlobalSession holds store-wide keys such as the catalog and the store name.
const GlobalSession = "global"

const (
	KeyCart           = "cart"
	KeyProducts       = "products"
	KeyCategories     = "categories"
	KeyAuthUser       = "authUser"
	KeyStoreName      = "storeName"
	KeyShowAdminPanel = "show_admin_panel"
	KeyBusinessInfo   = "businessInfo"
	KeyThemeColors    = "montebello-theme-colors"
	KeyAppThemeColors = "app-theme-colors"
)

type Store interface {
	Get(ctx context.Context, session, key string) ([]byte, error)
	Set(ctx context.Context, session, key string, value []byte) error
	Delete(ctx context.Context, session, key string) error
}
