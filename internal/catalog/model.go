package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownVariant = errors.New("unknown variant")
	ErrInvalidProduct = errors.New("invalid product")
)

type Variant struct {
	Label string          `json:"label"`
	Price decimal.Decimal `json:"price"`
}

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category,omitempty"`
	Image       string          `json:"image,omitempty"`
	Variants    []Variant       `json:"variants,omitempty"`

	// Placeholder marks a product synthesized for an unknown id. It cannot be ordered.
	Placeholder bool `json:"placeholder,omitempty"`
}

func (p Product) Orderable() bool { return !p.Placeholder }

// NotFound is the stand-in returned when a product id has no catalog entry.
func NotFound(id string) Product {
	return Product{
		ID:          id,
		Name:        "Producto no encontrado",
		Price:       decimal.Zero,
		Category:    DefaultCategory,
		Placeholder: true,
	}
}

// PriceFor returns the unit price for the chosen variant, or the base price when label is empty.
func PriceFor(p Product, label string) (decimal.Decimal, error) {
	if label == "" {
		return p.Price, nil
	}
	for _, v := range p.Variants {
		if v.Label == label {
			return v.Price, nil
		}
	}
	return decimal.Zero, ErrUnknownVariant
}

// ImageFor falls back to the category artwork when the product has no image of its own.
func ImageFor(p Product) string {
	if p.Image != "" {
		return p.Image
	}
	c := p.Category
	if !c.Valid() {
		c = DefaultCategory
	}
	return "/images/categories/" + string(c) + ".jpg"
}

func validateProducts(products []Product) error {
	seen := make(map[string]struct{}, len(products))
	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			return errors.Join(ErrInvalidProduct, errors.New("id and name are required"))
		}
		if _, dup := seen[p.ID]; dup {
			return errors.Join(ErrInvalidProduct, errors.New("duplicate id "+p.ID))
		}
		seen[p.ID] = struct{}{}
		if p.Price.IsNegative() {
			return errors.Join(ErrInvalidProduct, errors.New("negative price for "+p.ID))
		}
		for _, v := range p.Variants {
			if v.Label == "" || v.Price.IsNegative() {
				return errors.Join(ErrInvalidProduct, errors.New("invalid variant for "+p.ID))
			}
		}
	}
	return nil
}
