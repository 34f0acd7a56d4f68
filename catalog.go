// catalog.go

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Catalog holds the flattened product list. The source file is a nested
// category -> subcategory -> []Product mapping; categories and
// subcategories are flattened in sorted key order so ids stay stable
// across loads.
type Catalog struct {
	products []Product
}

func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tree map[string]map[string][]Product
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	categories := make([]string, 0, len(tree))
	for c := range tree {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	var products []Product
	for _, cat := range categories {
		subs := make([]string, 0, len(tree[cat]))
		for s := range tree[cat] {
			subs = append(subs, s)
		}
		sort.Strings(subs)
		for _, sub := range subs {
			for i, p := range tree[cat][sub] {
				if p.ID == "" {
					p.ID = fmt.Sprintf("%s-%s-%d", p.Category, p.Subcategory, i)
				}
				products = append(products, p)
			}
		}
	}
	return &Catalog{products: products}, nil
}

func (c *Catalog) Products() []Product {
	return c.products
}

// Search filters the catalog the way the storefront search bar does: the
// exact queries "bags", "shoes" and "clothes" match on category, anything
// else is a case-insensitive name substring match, and a blank query
// returns everything.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.products
	}
	out := []Product{}
	for _, p := range c.products {
		switch q {
		case "bags", "shoes", "clothes":
			if p.Category == q {
				out = append(out, p)
			}
		default:
			if strings.Contains(strings.ToLower(p.Name), q) {
				out = append(out, p)
			}
		}
	}
	return out
}

func (c *Catalog) ByCategory(category string) []Product {
	out := []Product{}
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
