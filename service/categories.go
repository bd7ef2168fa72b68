package service

import (
	"context"
	"strings"

	"github.com/andrewpaige1/flashly-api/models"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Sized like the models.Category columns.
const maxCategoryLength = 100

// ListCategories returns every category ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.conn(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, storeErr("ListCategories", "category", err)
	}
	return categories, nil
}

// resolveCategories finds or creates a category for every name. Names that
// share a slug collapse into one category.
func resolveCategories(tx *gorm.DB, names []string) ([]models.Category, error) {
	seen := make(map[string]bool, len(names))
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := slug.Make(name)
		if key == "" {
			return nil, invalid("invalid category name %q", name)
		}
		if err := checkLength("category name", name, maxCategoryLength); err != nil {
			return nil, err
		}
		if err := checkLength("category slug", key, maxCategoryLength); err != nil {
			return nil, err
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		var category models.Category
		err := tx.Where(models.Category{Slug: key}).
			Attrs(models.Category{Name: name}).
			FirstOrCreate(&category).Error
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, nil
}

func replaceCategories(tx *gorm.DB, deck *models.Deck, names []string) error {
	categories, err := resolveCategories(tx, names)
	if err != nil {
		return err
	}
	assoc := tx.Model(deck).Association("Categories")
	if len(categories) == 0 {
		deck.Categories = []models.Category{}
		return assoc.Clear()
	}
	if err := assoc.Replace(categories); err != nil {
		return err
	}
	deck.Categories = categories
	return nil
}
