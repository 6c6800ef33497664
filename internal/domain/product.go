package domain

import (
	"time"
)

// Product represents a product in the catalog
type Product struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	Price      float64   `json:"price"`
	Quantity   int       `json:"quantity"`
	CategoryID string    `json:"category"`
	IsDeleted  bool      `json:"isDeleted"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProductView is a product with its category reference expanded.
// Category is nil when the referenced category no longer exists.
type ProductView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Category  *Category `json:"category"`
	IsDeleted bool      `json:"isDeleted"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Populate builds the expanded view of p using category.
func (p *Product) Populate(category *Category) *ProductView {
	return &ProductView{
		ID:        p.ID,
		Name:      p.Name,
		Slug:      p.Slug,
		Price:     p.Price,
		Quantity:  p.Quantity,
		Category:  category,
		IsDeleted: p.IsDeleted,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Category represents a product category
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductChanges is the set of fields written by a partial update.
// A nil field is left untouched by the store.
type ProductChanges struct {
	Name       *string
	Slug       *string
	Price      *float64
	Quantity   *int
	CategoryID *string
	IsDeleted  *bool
}
