package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalog-api/internal/domain"
	"catalog-api/internal/middleware"
	"catalog-api/internal/repository"
	"catalog-api/internal/service"
	"catalog-api/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all catalog routes. Reads are public; mutations
// sit behind the auth middleware plus a vendor/admin role check.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler, mutationMiddleware ...func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		// Public routes
		r.Get("/", h.List)
		r.Get("/categories", h.CategoryCounts)
		r.Get("/{idOrSlug}", h.Get)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(mutationMiddleware...)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /api/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	query, err := parseListQuery(r)
	if err != nil {
		h.logger.Debug("Invalid list query", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeBadRequest, err.Error())
		return
	}

	result, err := h.catalog.List(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.CodeInternal, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// Get handles GET /api/products/{idOrSlug}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")

	product, err := h.catalog.Get(r.Context(), idOrSlug)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, middleware.CodeNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.String("id_or_slug", idOrSlug), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.CodeInternal, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// CategoryCounts handles GET /api/products/categories
func (h *ProductHandler) CategoryCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.catalog.CategoryCounts(r.Context())
	if err != nil {
		h.logger.Error("Failed to count categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.CodeInternal, "failed to count categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, counts)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, middleware.CodeUnauthenticated, "unauthorized")
		return
	}

	var input domain.ProductInput
	if err := middleware.DecodeJSON(r, &input); err != nil {
		h.logger.Debug("Create decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Create(r.Context(), &input, actor)
	if err != nil {
		h.respondMutationError(w, err, "Failed to create product")
		return
	}

	h.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("vendor_id", actor.ID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, middleware.CodeUnauthenticated, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeBadRequest, "invalid product ID")
		return
	}

	var patch domain.ProductPatch
	if err := middleware.DecodeJSON(r, &patch); err != nil {
		h.logger.Debug("Update decode failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeBadRequest, "invalid request body")
		return
	}

	product, err := h.catalog.Update(r.Context(), id, &patch, actor)
	if err != nil {
		h.respondMutationError(w, err, "Failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, middleware.CodeUnauthenticated, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.CodeBadRequest, "invalid product ID")
		return
	}

	if err := h.catalog.SoftDelete(r.Context(), id, actor); err != nil {
		h.respondMutationError(w, err, "Failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

// respondMutationError maps service errors onto the stable error contract.
func (h *ProductHandler) respondMutationError(w http.ResponseWriter, err error, logMessage string) {
	var validationErrs validation.Errors
	switch {
	case errors.Is(err, service.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, middleware.CodeNotFound, "product not found")
	case errors.Is(err, service.ErrForbidden):
		middleware.RespondWithError(w, http.StatusForbidden, middleware.CodeForbidden, "insufficient permissions")
	case errors.As(err, &validationErrs):
		middleware.RespondWithValidationErrors(w, validationErrs)
	default:
		h.logger.Error(logMessage, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, middleware.CodeInternal, "internal server error")
	}
}

// parseListQuery maps the request's query parameters onto a ListQuery.
// Non-numeric prices or paging values are rejected; unknown sort fields
// fall back to defaults downstream.
func parseListQuery(r *http.Request) (repository.ListQuery, error) {
	params := r.URL.Query()
	query := repository.ListQuery{
		Search:    params.Get("search"),
		SortBy:    params.Get("sortBy"),
		SortOrder: repository.SortOrder(params.Get("sortOrder")),
	}

	if raw := params.Get("category"); raw != "" {
		category := domain.Category(raw)
		query.Category = &category
	}

	if raw := params.Get("minPrice"); raw != "" {
		minPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, errors.New("minPrice must be a number")
		}
		query.MinPrice = &minPrice
	}

	if raw := params.Get("maxPrice"); raw != "" {
		maxPrice, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return query, errors.New("maxPrice must be a number")
		}
		query.MaxPrice = &maxPrice
	}

	if raw := params.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return query, errors.New("page must be an integer")
		}
		query.Page = page
	}

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return query, errors.New("limit must be an integer")
		}
		query.Limit = limit
	}

	return query, nil
}
