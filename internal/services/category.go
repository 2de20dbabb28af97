package services

import (
	"context"
	"errors"
	"fmt"

	"sozluk/internal/models"

	"gorm.io/gorm"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// ToggleFollow adds the category to the author's followed channels, or
// removes it when already followed. It reports whether the author follows
// the category afterwards.
func (s *CategoryService) ToggleFollow(ctx context.Context, author *models.Author, categoryID uint) (bool, error) {
	if author == nil {
		return false, ErrLoginRequired
	}
	if categoryID == 0 {
		return false, fmt.Errorf("%w: missing category id", ErrValidation)
	}

	var following bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.Select("id").First(&category, categoryID).Error; err != nil {
			return storeError(err, fmt.Sprintf("category %d", categoryID))
		}

		var existing models.CategoryFollowing
		err := tx.Where("author_id = ? AND category_id = ?", author.ID, categoryID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("author_id = ? AND category_id = ?", author.ID, categoryID).
				Delete(&models.CategoryFollowing{}).Error; err != nil {
				return storeError(err, "unfollow category")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&models.CategoryFollowing{AuthorID: author.ID, CategoryID: categoryID}).Error; err != nil {
				return storeError(err, "follow category")
			}
			following = true
		default:
			return storeError(err, "category following lookup")
		}
		return nil
	})
	if err != nil {
		return false, txError(err)
	}
	return following, nil
}

// Followed lists the categories author follows, by name.
func (s *CategoryService) Followed(ctx context.Context, author *models.Author) ([]models.Category, error) {
	if author == nil {
		return nil, ErrLoginRequired
	}
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).
		Joins("JOIN category_followings ON category_followings.category_id = categories.id").
		Where("category_followings.author_id = ?", author.ID).
		Order("categories.name ASC").
		Find(&categories).Error; err != nil {
		return nil, storeError(err, "followed categories")
	}
	return categories, nil
}

// All lists every category in creation order.
func (s *CategoryService) All(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, storeError(err, "categories")
	}
	return categories, nil
}
