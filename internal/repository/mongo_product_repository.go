package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"catalog-api/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	products   *mongo.Collection
	categories *mongo.Collection
}

// NewMongoProductRepository creates a ProductRepository over the products
// collection of db. Categories are read from the same database.
func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{
		products:   db.Collection(ProductsCollection),
		categories: db.Collection(CategoriesCollection),
	}
}

// Find returns all products matching query with their category embedded
func (r *mongoProductRepository) Find(ctx context.Context, query domain.ProductQuery) ([]*domain.ProductView, error) {
	filter, err := buildProductFilter(query)
	if err != nil {
		// An unparseable category reference cannot match anything.
		return []*domain.ProductView{}, nil
	}

	docs, err := r.aggregate(ctx, filter, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*domain.ProductView, 0, len(docs))
	for i := range docs {
		products = append(products, docs[i].toDomain())
	}
	return products, nil
}

// FindOne returns the first product matching query
func (r *mongoProductRepository) FindOne(ctx context.Context, query domain.ProductQuery) (*domain.ProductView, error) {
	filter, err := buildProductFilter(query)
	if err != nil {
		return nil, ErrProductNotFound
	}

	docs, err := r.aggregate(ctx, filter, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrProductNotFound
	}
	return docs[0].toDomain(), nil
}

// FindByID retrieves a product by its ObjectID hex with its category embedded
func (r *mongoProductRepository) FindByID(ctx context.Context, id string) (*domain.ProductView, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	docs, err := r.aggregate(ctx, bson.M{"_id": oid}, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrProductNotFound
	}
	return docs[0].toDomain(), nil
}

// Create inserts a new product document
func (r *mongoProductRepository) Create(ctx context.Context, product *domain.Product) error {
	categoryID, err := parseObjectID(product.CategoryID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	now := time.Now().UTC()
	doc := productDocument{
		ID:        primitive.NewObjectID(),
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		Quantity:  product.Quantity,
		Category:  categoryID,
		IsDeleted: product.IsDeleted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := r.products.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	*product = *doc.toDomain()
	return nil
}

// UpdateByID applies changes and returns the updated product with its
// category embedded
func (r *mongoProductRepository) UpdateByID(ctx context.Context, id string, changes domain.ProductChanges) (*domain.ProductView, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	set, err := buildProductUpdate(changes)
	if err != nil {
		return nil, err
	}

	doc, err := r.findOneAndUpdate(ctx, oid, set)
	if err != nil {
		return nil, err
	}

	product := doc.toDomain()
	category, err := r.populate(ctx, doc.Category)
	if err != nil {
		return nil, err
	}
	return product.Populate(category), nil
}

// SoftDeleteByID flags a product as deleted and returns the stored document
func (r *mongoProductRepository) SoftDeleteByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	doc, err := r.findOneAndUpdate(ctx, oid, bson.M{
		"isDeleted": true,
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *mongoProductRepository) findOneAndUpdate(ctx context.Context, id primitive.ObjectID, set bson.M) (*productDocument, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDocument
	err := r.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &doc, nil
}

// populate resolves a category reference. A dangling reference yields nil.
func (r *mongoProductRepository) populate(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	var doc categoryDocument
	if err := r.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to populate category: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *mongoProductRepository) aggregate(ctx context.Context, filter bson.M, limit int64) ([]productViewDocument, error) {
	cursor, err := r.products.Aggregate(ctx, populatePipeline(filter, limit))
	if err != nil {
		return nil, err
	}

	docs := []productViewDocument{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// populatePipeline matches products and replaces each category reference
// with the referenced category document. limit <= 0 means no limit.
func populatePipeline(filter bson.M, limit int64) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	return append(pipeline,
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: CategoriesCollection},
			{Key: "localField", Value: "category"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "category"},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$category"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	)
}

// buildProductFilter translates query into a Mongo filter document. The name
// is matched literally as a case-insensitive substring.
func buildProductFilter(query domain.ProductQuery) (bson.M, error) {
	filter := bson.M{}

	if query.Name != "" {
		filter["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(query.Name), Options: "i"}
	}
	if query.Price != nil {
		filter["price"] = bson.M{
			"$gte": query.Price.Min,
			"$lte": query.Price.Max,
		}
	}
	if query.CategoryID != "" {
		oid, err := parseObjectID(query.CategoryID)
		if err != nil {
			return nil, err
		}
		filter["category"] = oid
	}
	if query.Slug != "" {
		filter["slug"] = query.Slug
	}
	if query.ExcludeDeleted {
		filter["isDeleted"] = false
	}

	return filter, nil
}

// buildProductUpdate translates changes into a $set document. updatedAt is
// always written.
func buildProductUpdate(changes domain.ProductChanges) (bson.M, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}

	if changes.Name != nil {
		set["name"] = *changes.Name
	}
	if changes.Slug != nil {
		set["slug"] = *changes.Slug
	}
	if changes.Price != nil {
		set["price"] = *changes.Price
	}
	if changes.Quantity != nil {
		set["quantity"] = *changes.Quantity
	}
	if changes.CategoryID != nil {
		oid, err := parseObjectID(*changes.CategoryID)
		if err != nil {
			return nil, err
		}
		set["category"] = oid
	}
	if changes.IsDeleted != nil {
		set["isDeleted"] = *changes.IsDeleted
	}

	return set, nil
}
