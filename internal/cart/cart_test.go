package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newCart(t *testing.T, lines ...Line) (*Cart, *MemoryRepository) {
	t.Helper()
	repo := NewMemoryRepository(lines...)
	c, err := Load(context.Background(), repo, zap.NewNop())
	require.NoError(t, err)
	return c, repo
}

func TestAddSamePairMergesQuantities(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t)

	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "empanadas", VariantLabel: "Docena", Quantity: 2, UnitPrice: price(19500)}))
	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "empanadas", VariantLabel: "Docena", Quantity: 3, UnitPrice: price(19500)}))
	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "empanadas", VariantLabel: "Unidad", Quantity: 1, UnitPrice: price(1800)}))

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "Unidad", lines[1].VariantLabel)
}

func TestAddKeepsCapturedUnitPrice(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t)

	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "flan", Quantity: 1, UnitPrice: price(3500)}))
	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "flan", Quantity: 1, UnitPrice: price(9999)}))

	l, ok := c.Line("flan", "")
	require.True(t, ok)
	assert.True(t, l.UnitPrice.Equal(price(3500)))
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	c, repo := newCart(t)

	require.ErrorIs(t, c.AddOrIncrement(ctx, Line{ProductID: "flan", Quantity: 0, UnitPrice: price(1)}), ErrInvalidQuantity)
	require.ErrorIs(t, c.AddOrIncrement(ctx, Line{ProductID: "flan", Quantity: -2, UnitPrice: price(1)}), ErrInvalidQuantity)
	assert.Zero(t, c.Len())
	assert.Zero(t, repo.Saves())
}

func TestTotalsExampleScenario(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t, Line{ProductID: "bife-de-chorizo", Quantity: 2, UnitPrice: price(9800)})

	assert.True(t, c.Totals().Price.Equal(price(19600)))

	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "bife-de-chorizo", Quantity: 1, UnitPrice: price(9800)}))
	l, _ := c.Line("bife-de-chorizo", "")
	assert.Equal(t, 3, l.Quantity)
	totals := c.Totals()
	assert.Equal(t, 3, totals.Items)
	assert.True(t, totals.Price.Equal(price(29400)))
}

func TestTotalsTrackEveryMutation(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t)

	check := func() {
		t.Helper()
		sum := decimal.Zero
		items := 0
		for _, l := range c.Lines() {
			sum = sum.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
			items += l.Quantity
		}
		totals := c.Totals()
		assert.True(t, totals.Price.Equal(sum), "want %s got %s", sum, totals.Price)
		assert.Equal(t, items, totals.Items)
	}

	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("10.50")}))
	check()
	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "b", VariantLabel: "Copa", Quantity: 1, UnitPrice: price(4200)}))
	check()
	require.NoError(t, c.Increment(ctx, "a", ""))
	check()
	_, err := c.SetQuantity(ctx, "b", "Copa", 4)
	require.NoError(t, err)
	check()
	p := c.RequestRemoval("a", "")
	require.NoError(t, c.Confirm(ctx, p))
	check()
	assert.True(t, c.Totals().Price.Equal(price(16800)))
}

func TestDecrementToZeroNeedsConfirmation(t *testing.T) {
	ctx := context.Background()
	c, repo := newCart(t, Line{ProductID: "flan", Quantity: 1, UnitPrice: price(3500)})

	pending, err := c.Decrement(ctx, "flan", "")
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.NotEmpty(t, pending.ID)

	l, ok := c.Line("flan", "")
	require.True(t, ok, "line must survive until the removal is confirmed")
	assert.Equal(t, 1, l.Quantity)

	c.Cancel(*pending)
	l, ok = c.Line("flan", "")
	require.True(t, ok)
	assert.Equal(t, 1, l.Quantity)
	assert.Zero(t, repo.Saves())

	pending, err = c.Decrement(ctx, "flan", "")
	require.NoError(t, err)
	require.NoError(t, c.Confirm(ctx, *pending))
	assert.Zero(t, c.Len())
	assert.Zero(t, c.Totals().Items)
}

func TestSetQuantity(t *testing.T) {
	ctx := context.Background()
	c, _ := newCart(t, Line{ProductID: "flan", Quantity: 2, UnitPrice: price(3500)})

	pending, err := c.SetQuantity(ctx, "flan", "", 5)
	require.NoError(t, err)
	assert.Nil(t, pending)
	l, _ := c.Line("flan", "")
	assert.Equal(t, 5, l.Quantity)

	pending, err = c.SetQuantity(ctx, "flan", "", 0)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, 1, c.Len())

	_, err = c.SetQuantity(ctx, "flan", "", -1)
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = c.SetQuantity(ctx, "flan", "Grande", 1)
	require.ErrorIs(t, err, ErrLineNotFound)
}

func TestConfirmAbsentLineIsNoop(t *testing.T) {
	ctx := context.Background()
	c, repo := newCart(t, Line{ProductID: "flan", Quantity: 2, UnitPrice: price(3500)})

	p := c.RequestRemoval("panqueques", "")
	require.NoError(t, c.Confirm(ctx, p))
	assert.Equal(t, 1, c.Len())
	assert.Zero(t, repo.Saves())

	p = c.RequestRemoval("flan", "")
	require.NoError(t, c.Confirm(ctx, p))
	require.NoError(t, c.Confirm(ctx, p))
	assert.Zero(t, c.Len())
	assert.Equal(t, 1, repo.Saves())
}

func TestFailedSaveLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	c, repo := newCart(t, Line{ProductID: "flan", Quantity: 2, UnitPrice: price(3500)})
	repo.SaveErr = errors.New("disk full")

	err := c.AddOrIncrement(ctx, Line{ProductID: "flan", Quantity: 1, UnitPrice: price(3500)})
	require.Error(t, err)
	l, _ := c.Line("flan", "")
	assert.Equal(t, 2, l.Quantity)

	require.Error(t, c.Clear(ctx))
	assert.Equal(t, 1, c.Len())
}

func TestWriteThrough(t *testing.T) {
	ctx := context.Background()
	c, repo := newCart(t)

	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "flan", Quantity: 1, UnitPrice: price(3500)}))
	stored, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.Lines(), stored)

	require.NoError(t, c.Clear(ctx))
	stored, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Equal(t, 2, repo.Saves())
}

func TestLinesReturnsCopy(t *testing.T) {
	c, _ := newCart(t, Line{ProductID: "flan", Quantity: 2, UnitPrice: price(3500)})

	lines := c.Lines()
	lines[0].Quantity = 99
	l, _ := c.Line("flan", "")
	assert.Equal(t, 2, l.Quantity)
}

func TestLoadMalformedJSONYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "s1", storage.KeyCart, []byte(`[{"productId": "flan", "quantity": `)))

	c, err := Load(ctx, NewStoreRepository(store, "s1"), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, c.Len())
	assert.Zero(t, c.Totals().Items)
}

func TestLoadDropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	raw := `[{"productId":"flan","quantity":0,"unitPrice":"3500"},{"productId":"malbec","variantLabel":null,"quantity":2,"unitPrice":4200}]`
	require.NoError(t, store.Set(ctx, "s1", storage.KeyCart, []byte(raw)))

	c, err := Load(ctx, NewStoreRepository(store, "s1"), zap.NewNop())
	require.NoError(t, err)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "malbec", lines[0].ProductID)
	assert.Equal(t, "", lines[0].VariantLabel)
	assert.True(t, c.Totals().Price.Equal(price(8400)))
}

func TestStoreRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewStoreRepository(store, "s1")

	lines, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)

	c, err := Load(ctx, repo, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.AddOrIncrement(ctx, Line{ProductID: "malbec", VariantLabel: "Botella", Name: "Malbec", Quantity: 1, UnitPrice: price(18500)}))

	other, err := Load(ctx, NewStoreRepository(store, "s1"), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, other.Lines(), 1)
	assert.Equal(t, "Botella", other.Lines()[0].VariantLabel)

	untouched, err := Load(ctx, NewStoreRepository(store, "s2"), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, untouched.Len())
}

type brokenStore struct{ storage.Store }

func (brokenStore) Get(context.Context, string, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func TestLoadSurfacesBackendErrors(t *testing.T) {
	_, err := Load(context.Background(), NewStoreRepository(brokenStore{}, "s1"), zap.NewNop())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrCorruptData)
}
