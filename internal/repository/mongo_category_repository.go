package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catalog-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCategoryRepository struct {
	coll *mongo.Collection
}

// NewMongoCategoryRepository creates a CategoryRepository over the
// categories collection of db
func NewMongoCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepository{coll: db.Collection(CategoriesCollection)}
}

// Create inserts a new category document
func (r *mongoCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	doc := categoryDocument{
		ID:        primitive.NewObjectID(),
		Name:      category.Name,
		Slug:      category.Slug,
		CreatedAt: category.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}

	category.ID = doc.ID.Hex()
	category.CreatedAt = doc.CreatedAt
	return nil
}

// FindBySlug retrieves a category by its slug
func (r *mongoCategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// FindByName retrieves a category by exact name
func (r *mongoCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoCategoryRepository) findOne(ctx context.Context, filter bson.M) (*domain.Category, error) {
	var doc categoryDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	return doc.toDomain(), nil
}
