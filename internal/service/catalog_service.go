package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"catalog-api/internal/cache"
	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
	"catalog-api/internal/validation"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrForbidden       = errors.New("actor may not modify this product")
)

// Meta describes one page of a list result.
type Meta struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// ListResult is the data/meta envelope returned by List.
type ListResult struct {
	Data []*domain.Product `json:"data"`
	Meta Meta              `json:"meta"`
}

// CatalogService defines the interface for catalog business logic.
type CatalogService interface {
	List(ctx context.Context, query repository.ListQuery) (*ListResult, error)
	Get(ctx context.Context, idOrSlug string) (*domain.Product, error)
	GetAny(ctx context.Context, idOrSlug string) (*domain.Product, error)
	Create(ctx context.Context, input *domain.ProductInput, actor domain.Actor) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch, actor domain.Actor) (*domain.Product, error)
	SoftDelete(ctx context.Context, id uuid.UUID, actor domain.Actor) error
	CategoryCounts(ctx context.Context) ([]repository.CategoryCount, error)
}

type catalogService struct {
	repo  repository.ProductRepository
	cache *cache.ProductCache
	now   func() time.Time
}

// NewCatalogService creates a CatalogService over the given store. The
// cache is optional; pass nil to disable read caching.
func NewCatalogService(repo repository.ProductRepository, productCache *cache.ProductCache) CatalogService {
	return &catalogService{
		repo:  repo,
		cache: productCache,
		now:   time.Now,
	}
}

// List applies the catalog query and wraps the page in a data/meta
// envelope. Out-of-range pages come back as empty data, not an error.
func (s *catalogService) List(ctx context.Context, query repository.ListQuery) (*ListResult, error) {
	query = query.Normalize()

	result, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	pages := 0
	if result.Total > 0 {
		pages = int(math.Ceil(float64(result.Total) / float64(query.Limit)))
	}

	return &ListResult{
		Data: result.Products,
		Meta: Meta{
			Total: result.Total,
			Page:  query.Page,
			Pages: pages,
			Limit: query.Limit,
		},
	}, nil
}

// Get resolves a customer-facing single-product read by ID or slug.
// Inactive products are reported as not found.
func (s *catalogService) Get(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	return s.get(ctx, idOrSlug, false)
}

// GetAny resolves a product for administrative callers, inactive included.
func (s *catalogService) GetAny(ctx context.Context, idOrSlug string) (*domain.Product, error) {
	return s.get(ctx, idOrSlug, true)
}

func (s *catalogService) get(ctx context.Context, idOrSlug string, includeInactive bool) (*domain.Product, error) {
	if !includeInactive && s.cache != nil {
		if product, ok := s.cache.Get(ctx, idOrSlug); ok {
			return product, nil
		}
	}

	var product *domain.Product
	var err error
	if id, parseErr := uuid.Parse(idOrSlug); parseErr == nil {
		product, err = s.repo.FindByID(ctx, id, includeInactive)
	} else {
		product, err = s.repo.FindBySlug(ctx, idOrSlug, includeInactive)
	}

	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if !includeInactive && s.cache != nil {
		s.cache.Set(ctx, product)
	}
	return product, nil
}

// Create validates the payload, assigns system fields and stores the
// product. Only vendors and admins may create.
func (s *catalogService) Create(ctx context.Context, input *domain.ProductInput, actor domain.Actor) (*domain.Product, error) {
	if !actor.CanCreate() {
		return nil, ErrForbidden
	}

	if err := validation.ValidateCreate(input); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	product := &domain.Product{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Images:      input.Images,
		Inventory:   input.Inventory,
		Tags:        input.Tags,
		Rating:      input.Rating,
		Active:      true,
		Featured:    input.Featured,
		VendorID:    actor.ID,
		Shipping:    shippingFromInput(input.Shipping),
		Discount:    discountFromInput(input.Discount),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	product.Slug = Slugify(product.Name) + "-" + product.ID.String()[:8]

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// Update merges the patch into the stored record after ownership and
// validation checks, then stamps updated_at.
func (s *catalogService) Update(ctx context.Context, id uuid.UUID, patch *domain.ProductPatch, actor domain.Actor) (*domain.Product, error) {
	existing, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	if !actor.CanMutate(existing) {
		return nil, ErrForbidden
	}

	if err := validation.ValidateUpdate(patch, existing); err != nil {
		return nil, err
	}

	applyPatch(existing, patch)
	existing.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.invalidate(ctx, existing)
	return existing, nil
}

// SoftDelete marks the product inactive. Idempotent: a second delete of
// the same product succeeds without error.
func (s *catalogService) SoftDelete(ctx context.Context, id uuid.UUID, actor domain.Actor) error {
	existing, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to load product: %w", err)
	}

	if !actor.CanMutate(existing) {
		return ErrForbidden
	}

	if err := s.repo.SoftDelete(ctx, id, s.now().UTC()); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.invalidate(ctx, existing)
	return nil
}

// CategoryCounts returns active product counts per category.
func (s *catalogService) CategoryCounts(ctx context.Context) ([]repository.CategoryCount, error) {
	counts, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	return counts, nil
}

func (s *catalogService) invalidate(ctx context.Context, product *domain.Product) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, product)
	}
}

// applyPatch copies supplied fields onto the stored record. Nil fields
// keep their previous values.
func applyPatch(product *domain.Product, patch *domain.ProductPatch) {
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Images != nil {
		product.Images = patch.Images
	}
	if patch.Inventory != nil {
		product.Inventory = *patch.Inventory
	}
	if patch.Tags != nil {
		product.Tags = patch.Tags
	}
	if patch.Rating != nil {
		product.Rating = *patch.Rating
	}
	if patch.Featured != nil {
		product.Featured = *patch.Featured
	}
	if patch.Shipping != nil {
		product.Shipping = shippingFromInput(patch.Shipping)
	}
	if patch.Discount != nil {
		merged := mergeDiscount(product.Discount, patch.Discount)
		product.Discount = merged
	}
}

// mergeDiscount overlays supplied discount fields on the existing ones.
func mergeDiscount(existing *domain.Discount, patch *domain.DiscountInput) *domain.Discount {
	merged := &domain.Discount{}
	if existing != nil {
		*merged = *existing
	}
	if patch.Percentage != nil {
		merged.Percentage = *patch.Percentage
	}
	if patch.StartDate != nil {
		merged.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		merged.EndDate = patch.EndDate
	}
	return merged
}

func discountFromInput(in *domain.DiscountInput) *domain.Discount {
	if in == nil {
		return nil
	}
	d := &domain.Discount{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
	}
	if in.Percentage != nil {
		d.Percentage = *in.Percentage
	}
	return d
}

func shippingFromInput(in *domain.ShippingInput) *domain.Shipping {
	if in == nil {
		return nil
	}
	return &domain.Shipping{
		Weight:       in.Weight,
		Dimensions:   in.Dimensions,
		FreeShipping: in.FreeShipping,
	}
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a product name into a URL-safe slug fragment.
func Slugify(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}
