package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

// memoryRepository is a mutex-guarded in-memory catalog store. It backs the
// development mode and the service tests; the ordering slice preserves
// insertion order so list results tie-break deterministically.
type memoryRepository struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*domain.Product
	order    []uuid.UUID
}

// NewMemoryRepository creates an empty in-memory ProductRepository.
func NewMemoryRepository() ProductRepository {
	return &memoryRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

// Create inserts a new product, keeping insertion order.
func (r *memoryRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = clone(product)
	return nil
}

// Update replaces an existing product by ID.
func (r *memoryRepository) Update(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[product.ID]; !exists {
		return ErrProductNotFound
	}
	r.products[product.ID] = clone(product)
	return nil
}

// SoftDelete marks a product inactive. Idempotent: deleting an already
// inactive product succeeds.
func (r *memoryRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, exists := r.products[id]
	if !exists {
		return ErrProductNotFound
	}
	product.Active = false
	product.UpdatedAt = at
	return nil
}

// FindByID retrieves a product by ID. Inactive products are hidden unless
// includeInactive is set.
func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists || (!product.Active && !includeInactive) {
		return nil, ErrProductNotFound
	}
	return clone(product), nil
}

// FindBySlug retrieves a product by its slug.
func (r *memoryRepository) FindBySlug(ctx context.Context, slug string, includeInactive bool) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		product := r.products[id]
		if product.Slug == slug {
			if !product.Active && !includeInactive {
				return nil, ErrProductNotFound
			}
			return clone(product), nil
		}
	}
	return nil, ErrProductNotFound
}

// List filters, sorts and paginates the catalog against a point-in-time
// snapshot taken under the read lock.
func (r *memoryRepository) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	snapshot := r.scan()
	page, total := applyQuery(snapshot, query)
	return &ListResult{Products: page, Total: total}, nil
}

// CategoryCounts returns active product counts per category, most
// populated first. Ties order alphabetically so output is stable.
func (r *memoryRepository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, product := range r.products {
		if product.Active {
			counts[string(product.Category)]++
		}
	}

	result := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

// scan snapshots the working set in insertion order. Records are cloned
// under the read lock so later mutations cannot be observed mid-scan.
func (r *memoryRepository) scan() []*domain.Product {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*domain.Product, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, clone(r.products[id]))
	}
	return snapshot
}

// clone deep-copies a product so store internals never leak to callers.
func clone(p *domain.Product) *domain.Product {
	c := *p
	c.Images = append([]string(nil), p.Images...)
	c.Tags = append([]string(nil), p.Tags...)
	if p.Discount != nil {
		d := *p.Discount
		if p.Discount.StartDate != nil {
			start := *p.Discount.StartDate
			d.StartDate = &start
		}
		if p.Discount.EndDate != nil {
			end := *p.Discount.EndDate
			d.EndDate = &end
		}
		c.Discount = &d
	}
	if p.Shipping != nil {
		s := *p.Shipping
		c.Shipping = &s
	}
	return &c
}
