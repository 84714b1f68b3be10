package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// Category represents a voting division, e.g. "Best Action".
// Categories are reference data created by admins and rarely change.
type Category struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Element     string `gorm:"not null"`
	Description string
	SortOrder   int       `gorm:"not null;default:0"`
	IsActive    bool      `gorm:"not null;default:true"`
	Nominees    []Nominee `gorm:"constraint:OnDelete:CASCADE;"`
}

func (c *Client) ListCategories(ctx context.Context, activeOnly bool) ([]Category, error) {
	tx := c.db.WithContext(ctx).Order("sort_order asc")
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}

	var categories []Category
	if err := tx.Preload("Nominees").Find(&categories).Error; err != nil {
		log.Error("failed to list categories", "error", err)
		return nil, err
	}
	return categories, nil
}

func (c *Client) GetCategoryByID(ctx context.Context, id uint) (*Category, error) {
	var category Category
	if err := c.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get category by ID", "error", err)
		}
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a new category. A duplicate slug surfaces as
// gorm.ErrDuplicatedKey.
func (c *Client) CreateCategory(ctx context.Context, category *Category) error {
	if err := c.db.WithContext(ctx).Create(category).Error; err != nil {
		if err != gorm.ErrDuplicatedKey {
			log.Error("failed to create category", "error", err)
		}
		return err
	}
	return nil
}

func (c *Client) CountActiveCategories(ctx context.Context) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&Category{}).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		log.Error("failed to count active categories", "error", err)
		return 0, err
	}
	return count, nil
}
