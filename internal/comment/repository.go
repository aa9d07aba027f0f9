package comment

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, c *Comment) error
	Update(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id uint) (*Comment, error)
	ListByEventAndState(ctx context.Context, eventID uint, state string) ([]Comment, error)
	Delete(ctx context.Context, id uint) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) Update(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Comment, error) {
	var c Comment
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByEventAndState lists comments on an event, optionally narrowed to one
// moderation state
func (r *repository) ListByEventAndState(ctx context.Context, eventID uint, state string) ([]Comment, error) {
	q := r.db.WithContext(ctx).Where("event_id = ?", eventID)
	if state != "" {
		q = q.Where("state = ?", state)
	}

	var comments []Comment
	err := q.Order("id ASC").Find(&comments).Error
	return comments, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports whether err is a missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
