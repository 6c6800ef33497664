package service

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/domain"
	"catalog-api/internal/repository"
	"catalog-api/internal/slug"
)

// SeedCategories creates each named category that does not exist yet and
// returns how many were created.
func SeedCategories(ctx context.Context, repo repository.CategoryRepository, names []string) (int, error) {
	created := 0
	for _, name := range names {
		if _, err := repo.FindByName(ctx, name); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrCategoryNotFound) {
			return created, fmt.Errorf("failed to look up category %q: %w", name, err)
		}

		category := &domain.Category{Name: name, Slug: slug.Make(name)}
		if err := repo.Create(ctx, category); err != nil {
			if errors.Is(err, repository.ErrCategoryAlreadyExists) {
				continue
			}
			return created, fmt.Errorf("failed to create category %q: %w", name, err)
		}
		created++
	}
	return created, nil
}
