package repository

import (
	"context"
	"errors"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// Pagination defaults and bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// sortFields whitelists the sortable columns. Both the wire name and the
// column name resolve to the canonical column.
var sortFields = map[string]string{
	"name":       "name",
	"price":      "price",
	"rating":     "rating",
	"inventory":  "inventory",
	"created_at": "created_at",
	"createdAt":  "created_at",
}

// ListQuery describes a catalog list request. All filters are optional and
// combine independently.
type ListQuery struct {
	Category  *domain.Category
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Normalize applies defaults and clamps the query to valid bounds:
// page >= 1, 1 <= limit <= MaxLimit, whitelisted sort field, and
// created_at descending when no sort is given.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = DefaultPage
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if canonical, ok := sortFields[q.SortBy]; ok {
		q.SortBy = canonical
	} else {
		q.SortBy = "created_at"
	}
	if q.SortOrder != SortOrderAsc && q.SortOrder != SortOrderDesc {
		q.SortOrder = SortOrderDesc
	}
	return q
}

// ListResult is a page of products plus the total match count before
// pagination.
type ListResult struct {
	Products []*domain.Product
	Total    int
}

// CategoryCount is the number of active products in one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ProductRepository defines the interface for catalog data access.
// Customer-facing reads never see inactive products; includeInactive
// exists for administrative callers.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error
	FindByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*domain.Product, error)
	FindBySlug(ctx context.Context, slug string, includeInactive bool) (*domain.Product, error)
	List(ctx context.Context, query ListQuery) (*ListResult, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
}
