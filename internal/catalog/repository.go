package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

// Repository serves the catalog from storage, falling back to the seed menu while no
// override has been saved (or when the saved one cannot be parsed).
type Repository struct {
	store  storage.Store
	menu   *Menu
	logger *zap.Logger
}

func NewRepository(store storage.Store, menu *Menu, logger *zap.Logger) *Repository {
	return &Repository{store: store, menu: menu, logger: logger.Named("catalog")}
}

func (r *Repository) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	ok, err := r.read(ctx, storage.KeyProducts, &products)
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.menu.Products(), nil
	}
	return normalize(products), nil
}

// Product never reports a miss as an error: unknown ids yield the NotFound placeholder.
func (r *Repository) Product(ctx context.Context, id string) (Product, error) {
	products, err := r.Products(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return NotFound(id), nil
}

func (r *Repository) SaveProducts(ctx context.Context, products []Product) error {
	if err := validateProducts(products); err != nil {
		return err
	}
	return r.write(ctx, storage.KeyProducts, normalize(products))
}

func (r *Repository) Categories(ctx context.Context) ([]CategoryRecord, error) {
	var records []CategoryRecord
	ok, err := r.read(ctx, storage.KeyCategories, &records)
	if err != nil {
		return nil, err
	}
	if !ok {
		return r.menu.Categories(), nil
	}
	return records, nil
}

func (r *Repository) SaveCategories(ctx context.Context, records []CategoryRecord) error {
	seen := make(map[Category]struct{}, len(records))
	for _, rec := range records {
		if !rec.ID.Valid() || rec.Name == "" {
			return fmt.Errorf("%w: category %q", ErrInvalidProduct, rec.ID)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidProduct, rec.ID)
		}
		seen[rec.ID] = struct{}{}
	}
	return r.write(ctx, storage.KeyCategories, records)
}

// Sections returns the menu page layout: products grouped by category.
func (r *Repository) Sections(ctx context.Context) ([]Section, error) {
	products, err := r.Products(ctx)
	if err != nil {
		return nil, err
	}
	records, err := r.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return Sections(products, records), nil
}

// Reset drops any saved override so the seed menu is served again.
func (r *Repository) Reset(ctx context.Context) error {
	if err := r.store.Delete(ctx, storage.GlobalSession, storage.KeyProducts); err != nil {
		return fmt.Errorf("reset products: %w", err)
	}
	if err := r.store.Delete(ctx, storage.GlobalSession, storage.KeyCategories); err != nil {
		return fmt.Errorf("reset categories: %w", err)
	}
	return nil
}

func (r *Repository) read(ctx context.Context, key string, v any) (bool, error) {
	raw, err := r.store.Get(ctx, storage.GlobalSession, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		r.logger.Warn("discarding unparsable stored data", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (r *Repository) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := r.store.Set(ctx, storage.GlobalSession, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
