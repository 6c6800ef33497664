package repository

import (
	"context"
	"errors"
	"testing"

	"catalog-api/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoFactory returns empty repositories backed by one store.
type repoFactory func(t *testing.T) (ProductRepository, CategoryRepository)

// storeIDs are identifiers in the store's own format.
type storeIDs struct {
	malformed string
	missing   string
}

func seedCategory(t *testing.T, repo CategoryRepository, name, slug string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, Slug: slug}
	require.NoError(t, repo.Create(context.Background(), c))
	require.NotEmpty(t, c.ID)
	return c
}

func seedProduct(t *testing.T, repo ProductRepository, name, slug string, price float64, quantity int, categoryID string) *domain.Product {
	t.Helper()
	p := &domain.Product{Name: name, Slug: slug, Price: price, Quantity: quantity, CategoryID: categoryID}
	require.NoError(t, repo.Create(context.Background(), p))
	require.NotEmpty(t, p.ID)
	return p
}

func names(products []*domain.ProductView) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func runRepositoryContract(t *testing.T, newRepos repoFactory, ids storeIDs) {
	ctx := context.Background()

	t.Run("FindByID expands the category", func(t *testing.T) {
		products, categories := newRepos(t)
		hats := seedCategory(t, categories, "Hats", "hats")
		p := seedProduct(t, products, "Blue Hat", "blue-hat", 15, 3, hats.ID)

		got, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.Equal(t, "blue-hat", got.Slug)
		assert.InDelta(t, 15, got.Price, 0.001)
		assert.Equal(t, 3, got.Quantity)
		assert.False(t, got.IsDeleted)
		require.NotNil(t, got.Category)
		assert.Equal(t, hats.ID, got.Category.ID)
		assert.Equal(t, "Hats", got.Category.Name)
		assert.Equal(t, "hats", got.Category.Slug)
	})

	t.Run("FindByID rejects malformed and missing IDs", func(t *testing.T) {
		products, _ := newRepos(t)

		_, err := products.FindByID(ctx, ids.malformed)
		assert.True(t, errors.Is(err, ErrInvalidID), "got %v", err)

		_, err = products.FindByID(ctx, ids.missing)
		assert.True(t, errors.Is(err, ErrProductNotFound), "got %v", err)
	})

	t.Run("Find filters by name substring and price range", func(t *testing.T) {
		products, categories := newRepos(t)
		shoes := seedCategory(t, categories, "Shoes", "shoes")
		seedProduct(t, products, "Red Shoes", "red-shoes", 10, 1, shoes.ID)
		seedProduct(t, products, "Blue Shoes", "blue-shoes", 20, 1, shoes.ID)
		seedProduct(t, products, "Green Boots", "green-boots", 25, 1, shoes.ID)
		seedProduct(t, products, "Golden shoes", "golden-shoes", 20000, 1, shoes.ID)

		min, max := 10.0, 20.0
		got, err := products.Find(ctx, domain.NewListQuery("", &min, &max))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Red Shoes", "Blue Shoes"}, names(got))

		got, err = products.Find(ctx, domain.NewListQuery("SHOES", nil, nil))
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"Red Shoes", "Blue Shoes"}, names(got))

		got, err = products.Find(ctx, domain.NewListQuery("", nil, nil))
		require.NoError(t, err)
		assert.Len(t, got, 3)
		for _, p := range got {
			require.NotNil(t, p.Category)
			assert.Equal(t, shoes.ID, p.Category.ID)
		}
	})

	t.Run("prices are stored without rounding", func(t *testing.T) {
		products, categories := newRepos(t)
		misc := seedCategory(t, categories, "Misc", "misc")

		for _, price := range []float64{15.999, 0.1, 0.005, 12345678901.25} {
			p := seedProduct(t, products, "Priced", "priced", price, 1, misc.ID)
			assert.Equal(t, price, p.Price, "Create result")

			got, err := products.FindByID(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, price, got.Price, "FindByID result")
		}

		fractional := 15.999
		got, err := products.Find(ctx, domain.NewListQuery("", &fractional, &fractional))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, fractional, got[0].Price)

		p := seedProduct(t, products, "Updated", "updated", 1, 1, misc.ID)
		large := 98765432109.875
		updated, err := products.UpdateByID(ctx, p.ID, domain.ProductChanges{Price: &large})
		require.NoError(t, err)
		assert.Equal(t, large, updated.Price)

		reread, err := products.FindByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, large, reread.Price)
	})

	t.Run("Find treats the name as a literal", func(t *testing.T) {
		products, categories := newRepos(t)
		misc := seedCategory(t, categories, "Misc", "misc")
		seedProduct(t, products, "100% Cotton", "100-cotton", 5, 1, misc.ID)
		seedProduct(t, products, "1000 Cotton", "1000-cotton", 5, 1, misc.ID)

		got, err := products.Find(ctx, domain.NewListQuery("0% c", nil, nil))
		require.NoError(t, err)
		assert.Equal(t, []string{"100% Cotton"}, names(got))

		got, err = products.Find(ctx, domain.NewListQuery(".*", nil, nil))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("category queries skip deleted products", func(t *testing.T) {
		products, categories := newRepos(t)
		hats := seedCategory(t, categories, "Hats", "hats")
		shoes := seedCategory(t, categories, "Shoes", "shoes")
		keep := seedProduct(t, products, "Blue Hat", "blue-hat", 15, 3, hats.ID)
		gone := seedProduct(t, products, "Red Hat", "red-hat", 15, 3, hats.ID)
		seedProduct(t, products, "Red Shoes", "red-shoes", 15, 3, shoes.ID)

		deleted, err := products.SoftDeleteByID(ctx, gone.ID)
		require.NoError(t, err)
		assert.True(t, deleted.IsDeleted)
		assert.Equal(t, hats.ID, deleted.CategoryID)

		got, err := products.Find(ctx, domain.NewCategoryQuery(hats.ID, ""))
		require.NoError(t, err)
		assert.Equal(t, []string{"Blue Hat"}, names(got))

		one, err := products.FindOne(ctx, domain.NewCategoryQuery(hats.ID, "blue-hat"))
		require.NoError(t, err)
		assert.Equal(t, keep.ID, one.ID)

		_, err = products.FindOne(ctx, domain.NewCategoryQuery(hats.ID, "red-hat"))
		assert.True(t, errors.Is(err, ErrProductNotFound), "got %v", err)

		_, err = products.FindOne(ctx, domain.NewCategoryQuery(shoes.ID, "blue-hat"))
		assert.True(t, errors.Is(err, ErrProductNotFound), "got %v", err)

		// Direct lookups still see the soft-deleted product.
		direct, err := products.FindByID(ctx, gone.ID)
		require.NoError(t, err)
		assert.True(t, direct.IsDeleted)
	})

	t.Run("UpdateByID writes only the given fields", func(t *testing.T) {
		products, categories := newRepos(t)
		hats := seedCategory(t, categories, "Hats", "hats")
		caps := seedCategory(t, categories, "Caps", "caps")
		p := seedProduct(t, products, "Blue Hat", "blue-hat", 15, 3, hats.ID)

		zero := 0.0
		got, err := products.UpdateByID(ctx, p.ID, domain.ProductChanges{Price: &zero})
		require.NoError(t, err)
		assert.InDelta(t, 0, got.Price, 0.001)
		assert.Equal(t, "Blue Hat", got.Name)
		assert.Equal(t, "blue-hat", got.Slug)
		assert.Equal(t, 3, got.Quantity)
		require.NotNil(t, got.Category)
		assert.Equal(t, hats.ID, got.Category.ID)

		name, slug := "Blue Cap", "blue-cap"
		got, err = products.UpdateByID(ctx, p.ID, domain.ProductChanges{Name: &name, Slug: &slug, CategoryID: &caps.ID})
		require.NoError(t, err)
		assert.Equal(t, "Blue Cap", got.Name)
		assert.Equal(t, "blue-cap", got.Slug)
		require.NotNil(t, got.Category)
		assert.Equal(t, "Caps", got.Category.Name)

		got, err = products.UpdateByID(ctx, p.ID, domain.ProductChanges{})
		require.NoError(t, err)
		assert.Equal(t, "Blue Cap", got.Name)
	})

	t.Run("UpdateByID and SoftDeleteByID report missing products", func(t *testing.T) {
		products, _ := newRepos(t)
		price := 1.0

		_, err := products.UpdateByID(ctx, ids.missing, domain.ProductChanges{Price: &price})
		assert.True(t, errors.Is(err, ErrProductNotFound), "got %v", err)

		_, err = products.UpdateByID(ctx, ids.malformed, domain.ProductChanges{Price: &price})
		assert.True(t, errors.Is(err, ErrInvalidID), "got %v", err)

		_, err = products.SoftDeleteByID(ctx, ids.missing)
		assert.True(t, errors.Is(err, ErrProductNotFound), "got %v", err)

		_, err = products.SoftDeleteByID(ctx, ids.malformed)
		assert.True(t, errors.Is(err, ErrInvalidID), "got %v", err)
	})

	t.Run("categories are found by slug and name", func(t *testing.T) {
		_, categories := newRepos(t)
		hats := seedCategory(t, categories, "Hats", "hats")

		bySlug, err := categories.FindBySlug(ctx, "hats")
		require.NoError(t, err)
		assert.Equal(t, hats.ID, bySlug.ID)

		byName, err := categories.FindByName(ctx, "Hats")
		require.NoError(t, err)
		assert.Equal(t, hats.ID, byName.ID)

		_, err = categories.FindByName(ctx, "hats")
		assert.True(t, errors.Is(err, ErrCategoryNotFound), "name lookups are exact, got %v", err)

		_, err = categories.FindBySlug(ctx, "caps")
		assert.True(t, errors.Is(err, ErrCategoryNotFound), "got %v", err)

		err = categories.Create(ctx, &domain.Category{Name: "Hats", Slug: "hats-2"})
		assert.True(t, errors.Is(err, ErrCategoryAlreadyExists), "got %v", err)
	})
}

func TestMemoryRepositories(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) (ProductRepository, CategoryRepository) {
		categories := NewMemoryCategoryRepository()
		return NewMemoryProductRepository(categories), categories
	}, storeIDs{
		malformed: "not-a-uuid",
		missing:   "6f1c2f4e-8a0b-4c1d-9e2f-3a4b5c6d7e8f",
	})
}

func TestMemoryProductRepository_DanglingCategory(t *testing.T) {
	ctx := context.Background()
	categories := NewMemoryCategoryRepository()
	products := NewMemoryProductRepository(categories)

	hats := seedCategory(t, categories, "Hats", "hats")
	p := seedProduct(t, products, "Blue Hat", "blue-hat", 15, 3, hats.ID)
	categories.remove(hats.ID)

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Category)
}
