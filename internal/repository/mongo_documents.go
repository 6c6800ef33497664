package repository

import (
	"fmt"
	"time"

	"catalog-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection names shared by the Mongo repositories and index setup.
const (
	ProductsCollection   = "products"
	CategoriesCollection = "categories"
)

type categoryDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d *categoryDocument) toDomain() *domain.Category {
	return &domain.Category{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Slug:      d.Slug,
		CreatedAt: d.CreatedAt,
	}
}

type productDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	Price     float64            `bson:"price"`
	Quantity  int                `bson:"quantity"`
	Category  primitive.ObjectID `bson:"category"`
	IsDeleted bool               `bson:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *productDocument) toDomain() *domain.Product {
	return &domain.Product{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Slug:       d.Slug,
		Price:      d.Price,
		Quantity:   d.Quantity,
		CategoryID: d.Category.Hex(),
		IsDeleted:  d.IsDeleted,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// productViewDocument is a product after the $lookup stage replaced the
// category reference with the category document.
type productViewDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Slug      string             `bson:"slug"`
	Price     float64            `bson:"price"`
	Quantity  int                `bson:"quantity"`
	Category  *categoryDocument  `bson:"category,omitempty"`
	IsDeleted bool               `bson:"isDeleted"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *productViewDocument) toDomain() *domain.ProductView {
	view := &domain.ProductView{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Slug:      d.Slug,
		Price:     d.Price,
		Quantity:  d.Quantity,
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Category != nil {
		view.Category = d.Category.toDomain()
	}
	return view
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return oid, nil
}
