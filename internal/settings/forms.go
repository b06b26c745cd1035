package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

// BusinessInfo is the free-form business profile (address, hours, payment methods,
// delivery, coupons). Only its forms interpret the fields.
type BusinessInfo map[string]any

func (s *Service) BusinessInfo(ctx context.Context) (BusinessInfo, error) {
	var info BusinessInfo
	ok, err := s.readJSON(ctx, storage.GlobalSession, storage.KeyBusinessInfo, &info)
	if err != nil {
		return nil, err
	}
	if !ok || info == nil {
		return BusinessInfo{}, nil
	}
	return info, nil
}

func (s *Service) SetBusinessInfo(ctx context.Context, info BusinessInfo) error {
	if info == nil {
		return fmt.Errorf("%w: business info must be an object", ErrInvalidValue)
	}
	return s.writeJSON(ctx, storage.GlobalSession, storage.KeyBusinessInfo, info)
}

type ThemeColors map[string]string

var DefaultThemeColors = ThemeColors{
	"primary":    "#8b1e3f",
	"secondary":  "#f4e9d8",
	"accent":     "#d4a373",
	"background": "#ffffff",
	"text":       "#1f1f1f",
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ThemeColors returns the saved palette over the defaults.
func (s *Service) ThemeColors(ctx context.Context) (ThemeColors, error) {
	colors := make(ThemeColors, len(DefaultThemeColors))
	for k, v := range DefaultThemeColors {
		colors[k] = v
	}

	var saved ThemeColors
	ok, err := s.readJSON(ctx, storage.GlobalSession, storage.KeyThemeColors, &saved)
	if err != nil {
		return nil, err
	}
	if ok {
		for k, v := range saved {
			if hexColor.MatchString(v) {
				colors[k] = v
			}
		}
	}
	return colors, nil
}

// SetThemeColors writes the palette under both theme keys.
func (s *Service) SetThemeColors(ctx context.Context, colors ThemeColors) error {
	for name, v := range colors {
		if !hexColor.MatchString(v) {
			return fmt.Errorf("%w: %s=%q", ErrInvalidColor, name, v)
		}
	}
	raw, err := json.Marshal(colors)
	if err != nil {
		return fmt.Errorf("marshal theme colors: %w", err)
	}
	for _, key := range []string{storage.KeyThemeColors, storage.KeyAppThemeColors} {
		if err := s.store.Set(ctx, storage.GlobalSession, key, raw); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return nil
}
