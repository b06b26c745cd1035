package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
)

var ErrEmptyCart = errors.New("cart is empty")

// Order is the snapshot taken at checkout. It is never persisted.
type Order struct {
	Number    string          `json:"orderNumber"`
	Items     []cart.Line     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (o Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

type NumberGenerator interface {
	Next() string
}

const DefaultPrefix = "MB"

// RandomNumbers produces numbers shaped like "MB-0427". Numbers are not checked for
// collisions.
type RandomNumbers struct {
	Prefix string
}

func (g RandomNumbers) Next() string {
	prefix := strings.ToUpper(strings.TrimSpace(g.Prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return fmt.Sprintf("%s-%04d", prefix, rand.IntN(10000))
}

// Checkout snapshots c. Later changes to the cart do not reach the returned order.
func Checkout(c *cart.Cart, gen NumberGenerator, now time.Time) (Order, error) {
	if c.Len() == 0 {
		return Order{}, ErrEmptyCart
	}
	return Order{
		Number:    gen.Next(),
		Items:     c.Lines(),
		Total:     c.Totals().Price,
		CreatedAt: now.UTC(),
	}, nil
}

// CloseConfirmation empties the cart once the customer dismisses the order. The order
// itself is dropped by the caller.
func CloseConfirmation(ctx context.Context, c *cart.Cart, o Order) error {
	if err := c.Clear(ctx); err != nil {
		return fmt.Errorf("close order %s: %w", o.Number, err)
	}
	return nil
}
