package catalog

import (
	"sort"
	"strings"
)

type Category string

const (
	Entradas    Category = "entradas"
	Principales Category = "principales"
	Postres     Category = "postres"
	Bebidas     Category = "bebidas"
	Vinos       Category = "vinos"
	Cocktails   Category = "cocktails"

	DefaultCategory = Entradas
)

// Categories is the fixed enumeration in display order.
var Categories = []Category{Entradas, Principales, Postres, Bebidas, Vinos, Cocktails}

func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

type CategoryRecord struct {
	ID    Category `json:"id"`
	Name  string   `json:"name"`
	Order int      `json:"order"`
}

// categoryKeywords is checked in order; the first category with a matching keyword wins.
// Some keywords can coexist in one product name, so the order is part of the contract.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{Entradas, []string{"empanada", "provoleta", "tabla", "fiambre", "bruschetta", "rabas", "croqueta", "entrada"}},
	{Principales, []string{"bife", "lomo", "asado", "milanesa", "pollo", "salmon", "ravioles", "sorrentinos", "risotto", "pasta", "hamburguesa", "principal"}},
	{Postres, []string{"flan", "helado", "tiramisu", "panqueque", "volcan", "mousse", "torta", "postre"}},
	{Bebidas, []string{"agua", "gaseosa", "limonada", "jugo", "cerveza", "cafe", "soda", "bebida"}},
	{Vinos, []string{"malbec", "cabernet", "torrontes", "syrah", "chardonnay", "blend", "vino"}},
	{Cocktails, []string{"fernet", "aperol", "mojito", "negroni", "daiquiri", "spritz", "gin tonic", "trago", "cocktail"}},
}

// ResolveCategory infers a category from id and name substrings, falling back to entradas.
func ResolveCategory(id, name string) Category {
	haystack := strings.ToLower(id + " " + name)
	for _, ck := range categoryKeywords {
		for _, kw := range ck.keywords {
			if strings.Contains(haystack, kw) {
				return ck.category
			}
		}
	}
	return DefaultCategory
}

// normalize assigns a resolved category to products without a known one.
func normalize(products []Product) []Product {
	out := make([]Product, len(products))
	for i, p := range products {
		if !p.Category.Valid() {
			p.Category = ResolveCategory(p.ID, p.Name)
		}
		out[i] = p
	}
	return out
}

type Section struct {
	Category CategoryRecord `json:"category"`
	Products []Product      `json:"products"`
}

// Sections groups products under their category records, ordered by record order.
// Records with no products are kept so the page still renders an anchor for them.
func Sections(products []Product, records []CategoryRecord) []Section {
	byCat := make(map[Category][]Product, len(records))
	for _, p := range normalize(products) {
		byCat[p.Category] = append(byCat[p.Category], p)
	}

	ordered := append([]CategoryRecord(nil), records...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	sections := make([]Section, 0, len(ordered))
	for _, r := range ordered {
		sections = append(sections, Section{Category: r, Products: byCat[r.ID]})
	}
	return sections
}
