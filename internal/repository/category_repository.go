package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a PostgreSQL backed CategoryRepository
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// Create inserts a new category into the database using parameterized queries
func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO categories (id, name, slug, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Slug, category.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	return nil
}

// FindBySlug retrieves a category by its slug
func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(ctx, "slug", slug)
}

// FindByName retrieves a category by exact name
func (r *categoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, "name", name)
}

// findOne looks a category up by a single column. column is never user input.
func (r *categoryRepository) findOne(ctx context.Context, column, value string) (*domain.Category, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, created_at
		FROM categories
		WHERE %s = $1
	`, column)

	var (
		category domain.Category
		id       uuid.UUID
	)
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&id,
		&category.Name,
		&category.Slug,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category by %s: %w", column, err)
	}

	category.ID = id.String()
	return &category, nil
}
