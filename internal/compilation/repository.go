package compilation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

type Repository interface {
	Create(ctx context.Context, c *Compilation) error
	GetByID(ctx context.Context, id uint) (*Compilation, error)
	List(ctx context.Context, pinned *bool, limit, offset int) ([]Compilation, error)
	Delete(ctx context.Context, id uint) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	AddEvent(ctx context.Context, c *Compilation, ev *event.Event) error
	RemoveEvent(ctx context.Context, c *Compilation, ev *event.Event) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Compilation) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Compilation, error) {
	var c Compilation
	err := r.db.WithContext(ctx).
		Preload("Events.Category").
		Preload("Events.Initiator").
		Preload("Events").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, pinned *bool, limit, offset int) ([]Compilation, error) {
	q := r.db.WithContext(ctx).
		Preload("Events.Category").
		Preload("Events.Initiator").
		Preload("Events")
	if pinned != nil {
		q = q.Where("pinned = ?", *pinned)
	}

	var comps []Compilation
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&comps).Error
	return comps, err
}

func (r *repository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Select("Events").Delete(&Compilation{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	res := r.db.WithContext(ctx).
		Model(&Compilation{}).
		Where("id = ?", id).
		Update("pinned", pinned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) AddEvent(ctx context.Context, c *Compilation, ev *event.Event) error {
	return r.db.WithContext(ctx).Model(c).Association("Events").Append(ev)
}

func (r *repository) RemoveEvent(ctx context.Context, c *Compilation, ev *event.Event) error {
	return r.db.WithContext(ctx).Model(c).Association("Events").Delete(ev)
}

// IsNotFound reports whether err is a missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
