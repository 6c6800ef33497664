package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

// productViewColumns selects a product joined with its category. The product
// side must be aliased p and the category side c.
const productViewColumns = `
	p.id, p.name, p.slug, p.price, p.quantity, p.is_deleted, p.created_at, p.updated_at,
	c.id, c.name, c.slug, c.created_at`

const productColumns = `id, name, slug, price, quantity, category_id, is_deleted, created_at, updated_at`

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a PostgreSQL backed ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Find returns all products matching query, ordered by creation time
func (r *productRepository) Find(ctx context.Context, query domain.ProductQuery) ([]*domain.ProductView, error) {
	if query.CategoryID != "" {
		if _, err := uuid.Parse(query.CategoryID); err != nil {
			return []*domain.ProductView{}, nil
		}
	}

	where, args := buildProductWhere(query)
	q := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at ASC
	`, productViewColumns, where)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.ProductView{}
	for rows.Next() {
		product, err := scanProductView(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// FindOne returns the first product matching query
func (r *productRepository) FindOne(ctx context.Context, query domain.ProductQuery) (*domain.ProductView, error) {
	if query.CategoryID != "" {
		if _, err := uuid.Parse(query.CategoryID); err != nil {
			return nil, ErrProductNotFound
		}
	}

	where, args := buildProductWhere(query)
	q := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		%s
		ORDER BY p.created_at ASC
		LIMIT 1
	`, productViewColumns, where)

	product, err := scanProductView(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	return product, nil
}

// FindByID retrieves a product by ID with its category
func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.ProductView, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, productViewColumns)

	product, err := scanProductView(r.db.QueryRowContext(ctx, q, productID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// Create inserts a new product. ID and timestamps are assigned when empty,
// and the stored price and timestamps are read back into product.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	categoryID, err := parseID(product.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	query := `
		INSERT INTO products (id, name, slug, price, quantity, category_id, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING price, created_at, updated_at
	`

	err = r.db.QueryRowContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Slug,
		product.Price,
		product.Quantity,
		categoryID,
		product.IsDeleted,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.Price, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// UpdateByID applies changes to a product and returns the updated product
// with its category
func (r *productRepository) UpdateByID(ctx context.Context, id string, changes domain.ProductChanges) (*domain.ProductView, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	set, args, err := buildProductSet(changes, 2)
	if err != nil {
		return nil, err
	}
	args = append([]any{productID}, args...)

	q := fmt.Sprintf(`
		WITH p AS (
			UPDATE products
			SET %s
			WHERE id = $1
			RETURNING %s
		)
		SELECT %s
		FROM p
		JOIN categories c ON c.id = p.category_id
	`, set, productColumns, productViewColumns)

	product, err := scanProductView(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return product, nil
}

// SoftDeleteByID flags a product as deleted and returns the stored record
func (r *productRepository) SoftDeleteByID(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`
		UPDATE products
		SET is_deleted = TRUE, updated_at = $2
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	var (
		product    domain.Product
		pid, catID uuid.UUID
	)
	err = r.db.QueryRowContext(ctx, q, productID, time.Now().UTC()).Scan(
		&pid,
		&product.Name,
		&product.Slug,
		&product.Price,
		&product.Quantity,
		&catID,
		&product.IsDeleted,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}

	product.ID = pid.String()
	product.CategoryID = catID.String()
	return &product, nil
}

// buildProductWhere translates query into a WHERE clause over the p alias.
// An empty query yields an empty clause.
func buildProductWhere(query domain.ProductQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)

	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.Name != "" {
		conds = append(conds, "p.name ILIKE "+next("%"+escapeLike(query.Name)+"%"))
	}
	if query.Price != nil {
		conds = append(conds, "p.price >= "+next(query.Price.Min))
		conds = append(conds, "p.price <= "+next(query.Price.Max))
	}
	if query.CategoryID != "" {
		conds = append(conds, "p.category_id = "+next(query.CategoryID))
	}
	if query.Slug != "" {
		conds = append(conds, "p.slug = "+next(query.Slug))
	}
	if query.ExcludeDeleted {
		conds = append(conds, "p.is_deleted = FALSE")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// buildProductSet translates changes into a SET list whose placeholders
// start at $start. updated_at is always written.
func buildProductSet(changes domain.ProductChanges, start int) (string, []any, error) {
	var (
		sets []string
		args []any
	)

	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, start+len(args)-1))
	}

	if changes.Name != nil {
		add("name", *changes.Name)
	}
	if changes.Slug != nil {
		add("slug", *changes.Slug)
	}
	if changes.Price != nil {
		add("price", *changes.Price)
	}
	if changes.Quantity != nil {
		add("quantity", *changes.Quantity)
	}
	if changes.CategoryID != nil {
		categoryID, err := parseID(*changes.CategoryID)
		if err != nil {
			return "", nil, err
		}
		add("category_id", categoryID)
	}
	if changes.IsDeleted != nil {
		add("is_deleted", *changes.IsDeleted)
	}
	add("updated_at", time.Now().UTC())

	return strings.Join(sets, ", "), args, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProductView(row rowScanner) (*domain.ProductView, error) {
	var (
		product    domain.ProductView
		category   domain.Category
		pid, catID uuid.UUID
	)

	err := row.Scan(
		&pid,
		&product.Name,
		&product.Slug,
		&product.Price,
		&product.Quantity,
		&product.IsDeleted,
		&product.CreatedAt,
		&product.UpdatedAt,
		&catID,
		&category.Name,
		&category.Slug,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.ID = pid.String()
	category.ID = catID.String()
	product.Category = &category
	return &product, nil
}

func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return parsed, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
