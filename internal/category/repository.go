package category

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	GetByID(ctx context.Context, id uint) (*Category, error)
	List(ctx context.Context, limit, offset int) ([]Category, error)
	Delete(ctx context.Context, id uint) error
	CountEvents(ctx context.Context, id uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) Update(ctx context.Context, c *Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Category, error) {
	var c Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Category, error) {
	var cats []Category
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&cats).Error
	return cats, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountEvents counts events attached to the category. Categories with events
// cannot be removed.
func (r *repository) CountEvents(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("events").
		Where("category_id = ?", id).
		Count(&count).Error
	return count, err
}

// IsNotFound reports whether err is a missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
