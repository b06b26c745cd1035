package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart is the in-session list of chosen items. Every mutation writes the full line list
// through to the repository before it becomes visible in memory; a failed save leaves
// the cart as it was.
//
// A Cart is not safe for concurrent use. session.Session serializes access.
type Cart struct {
	repo   Repository
	logger *zap.Logger
	lines  []Line
}

// Load hydrates a cart from repo. Unparsable stored data yields an empty cart.
func Load(ctx context.Context, repo Repository, logger *zap.Logger) (*Cart, error) {
	c := &Cart{repo: repo, logger: logger.Named("cart")}
	if err := c.Reload(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload replaces the in-memory lines with what the repository currently holds.
func (c *Cart) Reload(ctx context.Context) error {
	lines, err := c.repo.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrCorruptData) {
			return err
		}
		c.logger.Warn("stored cart is unparsable, starting empty", zap.Error(err))
		lines = nil
	}

	kept := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Quantity <= 0 || l.ProductID == "" {
			c.logger.Warn("dropping invalid stored cart line",
				zap.String("productId", l.ProductID),
				zap.Int("quantity", l.Quantity),
			)
			continue
		}
		kept = append(kept, l)
	}
	c.lines = kept
	return nil
}

// AddOrIncrement raises the quantity of the line matching (ProductID, VariantLabel) by
// item.Quantity, or appends item as a new line. An existing line keeps its unit price.
func (c *Cart) AddOrIncrement(ctx context.Context, item Line) error {
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	next := cloneLines(c.lines)
	if i := c.index(item.ProductID, item.VariantLabel); i >= 0 {
		next[i].Quantity += item.Quantity
	} else {
		next = append(next, item)
	}
	return c.commit(ctx, next)
}

// SetQuantity updates a line in place. Setting zero does not remove the line: it returns
// a PendingRemoval which must be confirmed.
func (c *Cart) SetQuantity(ctx context.Context, productID, variant string, n int) (*PendingRemoval, error) {
	i := c.index(productID, variant)
	if i < 0 {
		return nil, ErrLineNotFound
	}
	switch {
	case n < 0:
		return nil, ErrInvalidQuantity
	case n == 0:
		p := c.RequestRemoval(productID, variant)
		return &p, nil
	}

	next := cloneLines(c.lines)
	next[i].Quantity = n
	return nil, c.commit(ctx, next)
}

func (c *Cart) Increment(ctx context.Context, productID, variant string) error {
	i := c.index(productID, variant)
	if i < 0 {
		return ErrLineNotFound
	}
	_, err := c.SetQuantity(ctx, productID, variant, c.lines[i].Quantity+1)
	return err
}

// Decrement lowers a line by one. From a quantity of one it behaves like SetQuantity(0).
func (c *Cart) Decrement(ctx context.Context, productID, variant string) (*PendingRemoval, error) {
	i := c.index(productID, variant)
	if i < 0 {
		return nil, ErrLineNotFound
	}
	return c.SetQuantity(ctx, productID, variant, c.lines[i].Quantity-1)
}

func (c *Cart) RequestRemoval(productID, variant string) PendingRemoval {
	return PendingRemoval{ID: uuid.NewString(), ProductID: productID, VariantLabel: variant}
}

// Confirm removes the line named by p. A line that is already gone is not an error.
func (c *Cart) Confirm(ctx context.Context, p PendingRemoval) error {
	i := c.index(p.ProductID, p.VariantLabel)
	if i < 0 {
		return nil
	}
	next := make([]Line, 0, len(c.lines)-1)
	next = append(next, c.lines[:i]...)
	next = append(next, c.lines[i+1:]...)
	return c.commit(ctx, next)
}

func (c *Cart) Cancel(PendingRemoval) {}

func (c *Cart) Clear(ctx context.Context) error {
	return c.commit(ctx, []Line{})
}

func (c *Cart) Totals() Totals {
	t := Totals{Price: decimal.Zero}
	for _, l := range c.lines {
		t.Items += l.Quantity
		t.Price = t.Price.Add(l.Subtotal())
	}
	return t
}

// Lines returns a copy in insertion order.
func (c *Cart) Lines() []Line {
	return cloneLines(c.lines)
}

func (c *Cart) Line(productID, variant string) (Line, bool) {
	if i := c.index(productID, variant); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) index(productID, variant string) int {
	for i, l := range c.lines {
		if l.matches(productID, variant) {
			return i
		}
	}
	return -1
}

func (c *Cart) commit(ctx context.Context, next []Line) error {
	if err := c.repo.Save(ctx, next); err != nil {
		return err
	}
	c.lines = next
	return nil
}
