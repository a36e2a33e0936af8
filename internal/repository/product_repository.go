package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

// productRepository is the Postgres-backed catalog store. Images, tags,
// discount and shipping are stored as JSONB columns.
type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a Postgres-backed ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, slug, name, description, price, category, images, inventory,
		tags, rating, review_count, active, featured, discount, vendor_id, shipping,
		created_at, updated_at`

// Create inserts a new product using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	images, tags, discount, shipping, err := marshalJSONColumns(product)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Slug,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		images,
		product.Inventory,
		tags,
		product.Rating,
		product.ReviewCount,
		product.Active,
		product.Featured,
		discount,
		product.VendorID,
		shipping,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces an existing product row. The per-row UPDATE keeps
// mutations of one product atomic with respect to each other.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET slug = $2, name = $3, description = $4, price = $5, category = $6,
		    images = $7, inventory = $8, tags = $9, rating = $10, review_count = $11,
		    active = $12, featured = $13, discount = $14, vendor_id = $15,
		    shipping = $16, updated_at = $17
		WHERE id = $1
	`

	images, tags, discount, shipping, err := marshalJSONColumns(product)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Slug,
		product.Name,
		product.Description,
		product.Price,
		product.Category,
		images,
		product.Inventory,
		tags,
		product.Rating,
		product.ReviewCount,
		product.Active,
		product.Featured,
		discount,
		product.VendorID,
		shipping,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// SoftDelete marks a product inactive. Already-inactive rows still match,
// so a repeated delete succeeds.
func (r *productRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `UPDATE products SET active = FALSE, updated_at = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("failed to soft-delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if !includeInactive {
		query += ` AND active = TRUE`
	}

	return r.queryOne(ctx, query, id)
}

// FindBySlug retrieves a product by its unique slug.
func (r *productRepository) FindBySlug(ctx context.Context, slug string, includeInactive bool) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	if !includeInactive {
		query += ` AND active = TRUE`
	}

	return r.queryOne(ctx, query, slug)
}

// List retrieves products with filtering, full-text-ish search, pagination
// and sorting. Inactive products are always excluded.
func (r *productRepository) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	q = q.Normalize()

	// Build the WHERE clause from the supplied filters.
	where := "WHERE active = TRUE"
	args := []interface{}{}
	argIndex := 1

	if q.Category != nil {
		where += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, *q.Category)
		argIndex++
	}

	if q.Search != "" {
		// Substring match on name/description, whole-tag match on tags.
		where += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d
			OR EXISTS (
				SELECT 1 FROM jsonb_array_elements_text(tags) AS tag
				WHERE lower(tag) = lower($%d)
			))`, argIndex, argIndex, argIndex+1)
		args = append(args, "%"+q.Search+"%", q.Search)
		argIndex += 2
	}

	if q.MinPrice != nil {
		where += fmt.Sprintf(" AND price >= $%d", argIndex)
		args = append(args, *q.MinPrice)
		argIndex++
	}

	if q.MaxPrice != nil {
		where += fmt.Sprintf(" AND price <= $%d", argIndex)
		args = append(args, *q.MaxPrice)
		argIndex++
	}

	// Count total matches before pagination.
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products %s", where)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (q.Page - 1) * q.Limit

	// SortBy and SortOrder come out of Normalize whitelisted, never from
	// raw request input. created_at/id keep the ordering deterministic
	// across repeated identical queries.
	query := fmt.Sprintf(`
		SELECT `+productColumns+`
		FROM products
		%s
		ORDER BY %s %s, created_at ASC, id ASC
		LIMIT $%d OFFSET $%d
	`, where, q.SortBy, q.SortOrder, argIndex, argIndex+1)

	args = append(args, q.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return &ListResult{Products: products, Total: total}, nil
}

// CategoryCounts returns active product counts per category, largest first.
func (r *productRepository) CategoryCounts(ctx context.Context) ([]CategoryCount, error) {
	query := `
		SELECT category, COUNT(*)
		FROM products
		WHERE active = TRUE
		GROUP BY category
		ORDER BY COUNT(*) DESC, category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer rows.Close()

	counts := []CategoryCount{}
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category counts: %w", err)
	}

	return counts, nil
}

func (r *productRepository) queryOne(ctx context.Context, query string, arg interface{}) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return product, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var images, tags []byte
	var discount, shipping sql.Null[[]byte]

	err := row.Scan(
		&product.ID,
		&product.Slug,
		&product.Name,
		&product.Description,
		&product.Price,
		&product.Category,
		&images,
		&product.Inventory,
		&tags,
		&product.Rating,
		&product.ReviewCount,
		&product.Active,
		&product.Featured,
		&discount,
		&product.VendorID,
		&shipping,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(images, &product.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}
	if err := json.Unmarshal(tags, &product.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if discount.Valid {
		if err := json.Unmarshal(discount.V, &product.Discount); err != nil {
			return nil, fmt.Errorf("failed to decode discount: %w", err)
		}
	}
	if shipping.Valid {
		if err := json.Unmarshal(shipping.V, &product.Shipping); err != nil {
			return nil, fmt.Errorf("failed to decode shipping: %w", err)
		}
	}

	return product, nil
}

// marshalJSONColumns encodes the JSONB columns; nil sub-records become SQL
// NULLs. Nil slices are stored as empty JSON arrays, never JSON null, so
// jsonb_array_elements_text stays usable in queries.
func marshalJSONColumns(p *domain.Product) (images, tags []byte, discount, shipping interface{}, err error) {
	imageList := p.Images
	if imageList == nil {
		imageList = []string{}
	}
	images, err = json.Marshal(imageList)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode images: %w", err)
	}
	tagList := p.Tags
	if tagList == nil {
		tagList = []string{}
	}
	tags, err = json.Marshal(tagList)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	if p.Discount != nil {
		b, err := json.Marshal(p.Discount)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to encode discount: %w", err)
		}
		discount = b
	}
	if p.Shipping != nil {
		b, err := json.Marshal(p.Shipping)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("failed to encode shipping: %w", err)
		}
		shipping = b
	}
	return images, tags, discount, shipping, nil
}
