package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrCorruptData     = errors.New("stored cart is unparsable")
)

// Line is one product/variant entry. UnitPrice is captured when the line is first added
// and never re-derived from the catalog. An empty VariantLabel means "no variant".
type Line struct {
	ProductID    string          `json:"productId"`
	VariantLabel string          `json:"variantLabel,omitempty"`
	Name         string          `json:"name,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) matches(productID, variant string) bool {
	return l.ProductID == productID && l.VariantLabel == variant
}

type Totals struct {
	Items int             `json:"totalItems"`
	Price decimal.Decimal `json:"totalPrice"`
}

// PendingRemoval is the first phase of a confirmed removal. Nothing changes until it is
// passed to Confirm; Cancel drops it.
type PendingRemoval struct {
	ID           string `json:"id"`
	ProductID    string `json:"productId"`
	VariantLabel string `json:"variantLabel,omitempty"`
}

func cloneLines(in []Line) []Line {
	if in == nil {
		return nil
	}
	return append([]Line(nil), in...)
}
