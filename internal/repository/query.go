package repository

import (
	"sort"
	"strings"

	"catalog-api/internal/domain"
)

// applyQuery runs a list query against an in-memory working set. The input
// slice must be in insertion order; it is never modified. The returned
// total counts every match before pagination, so an out-of-range page
// yields an empty slice with the real total.
func applyQuery(products []*domain.Product, q ListQuery) ([]*domain.Product, int) {
	q = q.Normalize()

	matched := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, q) {
			matched = append(matched, p)
		}
	}

	// Stable sort keeps insertion order for ties, so identical queries
	// always return identical orderings.
	sortProducts(matched, q.SortBy, q.SortOrder)

	total := len(matched)
	start := (q.Page - 1) * q.Limit
	if start >= total {
		return []*domain.Product{}, total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

// matches applies every supplied filter; inactive products never match.
func matches(p *domain.Product, q ListQuery) bool {
	if !p.Active {
		return false
	}
	if q.Category != nil && p.Category != *q.Category {
		return false
	}
	if q.Search != "" && !matchesSearch(p, q.Search) {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

// matchesSearch checks the term against name, description and tags,
// case-insensitively. Name and description match on substring; tags on
// whole-tag equality.
func matchesSearch(p *domain.Product, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(p.Name), term) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.ToLower(tag) == term {
			return true
		}
	}
	return false
}

func sortProducts(products []*domain.Product, sortBy string, order SortOrder) {
	less := lessFunc(sortBy)
	if order == SortOrderDesc {
		inner := less
		less = func(a, b *domain.Product) bool { return inner(b, a) }
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

func lessFunc(sortBy string) func(a, b *domain.Product) bool {
	switch sortBy {
	case "name":
		return func(a, b *domain.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "price":
		return func(a, b *domain.Product) bool { return a.Price < b.Price }
	case "rating":
		return func(a, b *domain.Product) bool { return a.Rating < b.Rating }
	case "inventory":
		return func(a, b *domain.Product) bool { return a.Inventory < b.Inventory }
	default: // created_at
		return func(a, b *domain.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}
}
