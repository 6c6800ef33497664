package repository

import (
	"context"
	"errors"

	"catalog-api/internal/domain"
)

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name or slug already exists")

	// ErrInvalidID is returned when an identifier cannot be parsed by the
	// backing store.
	ErrInvalidID = errors.New("invalid identifier")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
}

// ProductRepository defines the interface for product data access.
// Read methods return products with their category expanded.
type ProductRepository interface {
	Find(ctx context.Context, query domain.ProductQuery) ([]*domain.ProductView, error)
	FindOne(ctx context.Context, query domain.ProductQuery) (*domain.ProductView, error)
	FindByID(ctx context.Context, id string) (*domain.ProductView, error)
	Create(ctx context.Context, product *domain.Product) error
	UpdateByID(ctx context.Context, id string, changes domain.ProductChanges) (*domain.ProductView, error)
	SoftDeleteByID(ctx context.Context, id string) (*domain.Product, error)
}
