package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

type Repository interface {
	Load(ctx context.Context) ([]Line, error)
	Save(ctx context.Context, lines []Line) error
}

// StoreRepository keeps one session's cart as a JSON array under the "cart" key.
type StoreRepository struct {
	store   storage.Store
	session string
}

func NewStoreRepository(store storage.Store, session string) *StoreRepository {
	return &StoreRepository{store: store, session: session}
}

func (r *StoreRepository) Load(ctx context.Context) ([]Line, error) {
	raw, err := r.store.Get(ctx, r.session, storage.KeyCart)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return lines, nil
}

func (r *StoreRepository) Save(ctx context.Context, lines []Line) error {
	if lines == nil {
		lines = []Line{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.store.Set(ctx, r.session, storage.KeyCart, raw); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// MemoryRepository is an in-process Repository. SaveErr, when set, fails every Save.
type MemoryRepository struct {
	mu      sync.Mutex
	lines   []Line
	saves   int
	SaveErr error
}

func NewMemoryRepository(lines ...Line) *MemoryRepository {
	return &MemoryRepository{lines: cloneLines(lines)}
}

func (r *MemoryRepository) Load(context.Context) ([]Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneLines(r.lines), nil
}

func (r *MemoryRepository) Save(_ context.Context, lines []Line) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.SaveErr != nil {
		return r.SaveErr
	}
	r.lines = cloneLines(lines)
	r.saves++
	return nil
}

// Saves reports how many writes succeeded.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
