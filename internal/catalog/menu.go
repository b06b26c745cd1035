package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenuYAML []byte

type menuFile struct {
	Categories []struct {
		ID   string `yaml:"id"`
		Name string `yaml:"name"`
	} `yaml:"categories"`
	Products []struct {
		ID          string `yaml:"id"`
		Name        string `yaml:"name"`
		Description string `yaml:"description"`
		Price       string `yaml:"price"`
		Category    string `yaml:"category"`
		Image       string `yaml:"image"`
		Variants    []struct {
			Label string `yaml:"label"`
			Price string `yaml:"price"`
		} `yaml:"variants"`
	} `yaml:"products"`
}

// Menu is the hand-written seed catalog. It is what the storefront serves until an
// administrator saves an override, and what Reset restores.
type Menu struct {
	mu         sync.RWMutex
	products   []Product
	categories []CategoryRecord
}

func DefaultMenu() (*Menu, error) {
	m := &Menu{}
	if err := m.Replace(defaultMenuYAML); err != nil {
		return nil, fmt.Errorf("embedded menu: %w", err)
	}
	return m, nil
}

// Replace parses data and swaps it in. On error the current menu is kept.
func (m *Menu) Replace(data []byte) error {
	products, categories, err := ParseMenu(data)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.products, m.categories = products, categories
	m.mu.Unlock()
	return nil
}

func (m *Menu) Products() []Product {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return cloneProducts(m.products)
}

func (m *Menu) Categories() []CategoryRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]CategoryRecord(nil), m.categories...)
}

func ParseMenu(data []byte) ([]Product, []CategoryRecord, error) {
	var f menuFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("parse menu: %w", err)
	}

	categories := make([]CategoryRecord, 0, len(f.Categories))
	for i, c := range f.Categories {
		id := Category(c.ID)
		if !id.Valid() {
			return nil, nil, fmt.Errorf("parse menu: unknown category %q", c.ID)
		}
		categories = append(categories, CategoryRecord{ID: id, Name: c.Name, Order: i})
	}
	if len(categories) == 0 {
		for i, c := range Categories {
			categories = append(categories, CategoryRecord{ID: c, Name: string(c), Order: i})
		}
	}

	products := make([]Product, 0, len(f.Products))
	for _, fp := range f.Products {
		price, err := decimal.NewFromString(fp.Price)
		if err != nil {
			return nil, nil, fmt.Errorf("parse menu: price of %s: %w", fp.ID, err)
		}
		p := Product{
			ID:          fp.ID,
			Name:        fp.Name,
			Description: fp.Description,
			Price:       price,
			Category:    Category(fp.Category),
			Image:       fp.Image,
		}
		for _, fv := range fp.Variants {
			vp, err := decimal.NewFromString(fv.Price)
			if err != nil {
				return nil, nil, fmt.Errorf("parse menu: variant %s of %s: %w", fv.Label, fp.ID, err)
			}
			p.Variants = append(p.Variants, Variant{Label: fv.Label, Price: vp})
		}
		products = append(products, p)
	}
	if err := validateProducts(products); err != nil {
		return nil, nil, fmt.Errorf("parse menu: %w", err)
	}
	return normalize(products), categories, nil
}

func cloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		p.Variants = append([]Variant(nil), p.Variants...)
		out[i] = p
	}
	return out
}
