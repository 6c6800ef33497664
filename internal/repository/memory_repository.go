package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"catalog-api/internal/domain"

	"github.com/google/uuid"
)

// MemoryCategoryRepository is an in-memory implementation of CategoryRepository.
type MemoryCategoryRepository struct {
	categories map[string]domain.Category
	mu         sync.RWMutex
}

// NewMemoryCategoryRepository creates an empty MemoryCategoryRepository.
func NewMemoryCategoryRepository() *MemoryCategoryRepository {
	return &MemoryCategoryRepository{
		categories: make(map[string]domain.Category),
	}
}

// Create adds a category. Name and slug must be unique.
func (r *MemoryCategoryRepository) Create(_ context.Context, category *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.categories {
		if c.Name == category.Name || c.Slug == category.Slug {
			return ErrCategoryAlreadyExists
		}
	}

	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}
	r.categories[category.ID] = *category
	return nil
}

// remove deletes a category without touching the products referencing it.
func (r *MemoryCategoryRepository) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.categories, id)
}

// FindBySlug returns a category by its slug.
func (r *MemoryCategoryRepository) FindBySlug(_ context.Context, slug string) (*domain.Category, error) {
	return r.find(func(c domain.Category) bool { return c.Slug == slug })
}

// FindByName returns a category by exact name.
func (r *MemoryCategoryRepository) FindByName(_ context.Context, name string) (*domain.Category, error) {
	return r.find(func(c domain.Category) bool { return c.Name == name })
}

func (r *MemoryCategoryRepository) find(match func(domain.Category) bool) (*domain.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if match(c) {
			found := c
			return &found, nil
		}
	}
	return nil, ErrCategoryNotFound
}

func (r *MemoryCategoryRepository) lookup(id string) *domain.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil
	}
	return &c
}

// MemoryProductRepository is an in-memory implementation of ProductRepository.
// Categories are expanded from the given category repository.
type MemoryProductRepository struct {
	products   map[string]domain.Product
	order      []string
	categories *MemoryCategoryRepository
	mu         sync.RWMutex
}

// NewMemoryProductRepository creates an empty MemoryProductRepository.
func NewMemoryProductRepository(categories *MemoryCategoryRepository) *MemoryProductRepository {
	return &MemoryProductRepository{
		products:   make(map[string]domain.Product),
		categories: categories,
	}
}

// Find returns all matching products in insertion order.
func (r *MemoryProductRepository) Find(_ context.Context, query domain.ProductQuery) ([]*domain.ProductView, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []*domain.ProductView{}
	for _, id := range r.order {
		p := r.products[id]
		if matchesQuery(query, &p) {
			products = append(products, p.Populate(r.categories.lookup(p.CategoryID)))
		}
	}
	return products, nil
}

// FindOne returns the first matching product.
func (r *MemoryProductRepository) FindOne(ctx context.Context, query domain.ProductQuery) (*domain.ProductView, error) {
	products, err := r.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, ErrProductNotFound
	}
	return products[0], nil
}

// FindByID returns a product by its ID.
func (r *MemoryProductRepository) FindByID(_ context.Context, id string) (*domain.ProductView, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return p.Populate(r.categories.lookup(p.CategoryID)), nil
}

// Create adds a product, assigning its ID and timestamps.
func (r *MemoryProductRepository) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if _, exists := r.products[product.ID]; !exists {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = *product
	return nil
}

// UpdateByID applies changes to a product.
func (r *MemoryProductRepository) UpdateByID(_ context.Context, id string, changes domain.ProductChanges) (*domain.ProductView, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	applyChanges(&p, changes)
	r.products[id] = p
	return p.Populate(r.categories.lookup(p.CategoryID)), nil
}

// SoftDeleteByID flags a product as deleted.
func (r *MemoryProductRepository) SoftDeleteByID(_ context.Context, id string) (*domain.Product, error) {
	if _, err := parseID(id); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	deleted := true
	applyChanges(&p, domain.ProductChanges{IsDeleted: &deleted})
	r.products[id] = p
	return &p, nil
}

func applyChanges(p *domain.Product, changes domain.ProductChanges) {
	if changes.Name != nil {
		p.Name = *changes.Name
	}
	if changes.Slug != nil {
		p.Slug = *changes.Slug
	}
	if changes.Price != nil {
		p.Price = *changes.Price
	}
	if changes.Quantity != nil {
		p.Quantity = *changes.Quantity
	}
	if changes.CategoryID != nil {
		p.CategoryID = *changes.CategoryID
	}
	if changes.IsDeleted != nil {
		p.IsDeleted = *changes.IsDeleted
	}
	p.UpdatedAt = time.Now().UTC()
}

func matchesQuery(query domain.ProductQuery, p *domain.Product) bool {
	if query.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(query.Name)) {
		return false
	}
	if query.Price != nil && !query.Price.Contains(p.Price) {
		return false
	}
	if query.CategoryID != "" && p.CategoryID != query.CategoryID {
		return false
	}
	if query.Slug != "" && p.Slug != query.Slug {
		return false
	}
	if query.ExcludeDeleted && p.IsDeleted {
		return false
	}
	return true
}
