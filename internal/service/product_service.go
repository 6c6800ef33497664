package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
	"catalog-api/internal/slug"
)

var (
	// ErrCategoryInvalid is returned by Create when the category name does
	// not resolve to a category.
	ErrCategoryInvalid  = errors.New("category invalid")
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidInput     = errors.New("invalid input")
)

// CreateProductInput holds the fields of a new product. Category is the
// exact name of an existing category.
type CreateProductInput struct {
	Name     string
	Price    float64
	Quantity int
	Category string
}

// UpdateProductInput is a partial update. Nil fields are left untouched;
// pointers to zero values are applied.
type UpdateProductInput struct {
	Name     *string
	Price    *float64
	Quantity *int
	Category *string
}

// ProductService defines the product use cases
type ProductService interface {
	List(ctx context.Context, query domain.ProductQuery) ([]*domain.ProductView, error)
	GetByID(ctx context.Context, id string) (*domain.ProductView, error)
	ListByCategorySlug(ctx context.Context, categorySlug string) ([]*domain.ProductView, error)
	GetBySlug(ctx context.Context, categorySlug, productSlug string) (*domain.ProductView, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*domain.ProductView, error)
	SoftDelete(ctx context.Context, id string) (*domain.Product, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// List returns every product matching query, deleted ones included
func (s *productService) List(ctx context.Context, query domain.ProductQuery) ([]*domain.ProductView, error) {
	return s.productRepo.Find(ctx, query)
}

// GetByID returns a product regardless of its deleted flag
func (s *productService) GetByID(ctx context.Context, id string) (*domain.ProductView, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListByCategorySlug returns the non-deleted products of a category
func (s *productService) ListByCategorySlug(ctx context.Context, categorySlug string) ([]*domain.ProductView, error) {
	category, err := s.categoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	return s.productRepo.Find(ctx, domain.NewCategoryQuery(category.ID, ""))
}

// GetBySlug returns a non-deleted product of a category by its slug
func (s *productService) GetBySlug(ctx context.Context, categorySlug, productSlug string) (*domain.ProductView, error) {
	category, err := s.categoryBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindOne(ctx, domain.NewCategoryQuery(category.ID, productSlug))
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// Create resolves the category by name, derives the slug and stores the product
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	category, err := s.categoryRepo.FindByName(ctx, input.Category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryInvalid
		}
		return nil, err
	}

	product := &domain.Product{
		Name:       input.Name,
		Slug:       slug.Make(input.Name),
		Price:      input.Price,
		Quantity:   input.Quantity,
		CategoryID: category.ID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the fields present in input. A new name also replaces the
// slug; a new category name is resolved before the product is touched.
func (s *productService) Update(ctx context.Context, id string, input UpdateProductInput) (*domain.ProductView, error) {
	var changes domain.ProductChanges

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		name := *input.Name
		productSlug := slug.Make(name)
		changes.Name = &name
		changes.Slug = &productSlug
	}
	if input.Price != nil {
		price := *input.Price
		changes.Price = &price
	}
	if input.Quantity != nil {
		quantity := *input.Quantity
		changes.Quantity = &quantity
	}
	if input.Category != nil {
		if *input.Category == "" {
			return nil, fmt.Errorf("%w: category must not be empty", ErrInvalidInput)
		}
		category, err := s.categoryRepo.FindByName(ctx, *input.Category)
		if err != nil {
			if errors.Is(err, repository.ErrCategoryNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		changes.CategoryID = &category.ID
	}

	product, err := s.productRepo.UpdateByID(ctx, id, changes)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// SoftDelete flags a product as deleted. The record is kept.
func (s *productService) SoftDelete(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.productRepo.SoftDeleteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) categoryBySlug(ctx context.Context, categorySlug string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, categorySlug)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}
