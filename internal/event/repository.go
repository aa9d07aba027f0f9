package event

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uint) (*Event, error)
	GetPublishedByID(ctx context.Context, id uint) (*Event, error)
	ListByInitiator(ctx context.Context, initiatorID uint, limit, offset int) ([]Event, error)
	AdminSearch(ctx context.Context, filter AdminSearchFilter) ([]Event, error)
	PublicSearch(ctx context.Context, filter PublicSearchFilter) ([]Event, error)
	ListByIDs(ctx context.Context, ids []uint) ([]Event, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// Update persists event fields. The confirmed counter is owned by the
// participation ledger, which adjusts it under the event row lock, so a
// plain update never writes that column: a count read before the write
// could overwrite an admission committed in between.
func (r *repository) Update(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Omit("confirmed_requests").Save(e).Error
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) GetPublishedByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Where("id = ? AND state = ?", id, StatePublished).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ListByInitiator(ctx context.Context, initiatorID uint, limit, offset int) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Where("initiator_id = ?", initiatorID).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, err
}

// AdminSearch applies the admin filter set. Empty slices mean "any".
func (r *repository) AdminSearch(ctx context.Context, filter AdminSearchFilter) ([]Event, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Model(&Event{})

	if len(filter.Users) > 0 {
		q = q.Where("initiator_id IN ?", filter.Users)
	}
	if len(filter.States) > 0 {
		q = q.Where("state IN ?", filter.States)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("category_id IN ?", filter.Categories)
	}
	if filter.RangeStart != nil {
		q = q.Where("event_date >= ?", *filter.RangeStart)
	}
	if filter.RangeEnd != nil {
		q = q.Where("event_date <= ?", *filter.RangeEnd)
	}

	var events []Event
	err := q.Order("id ASC").Limit(filter.Size).Offset(filter.From).Find(&events).Error
	return events, err
}

// PublicSearch returns only PUBLISHED events. When no date range is given,
// only upcoming events are returned.
func (r *repository) PublicSearch(ctx context.Context, filter PublicSearchFilter) ([]Event, error) {
	q := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Model(&Event{}).
		Where("state = ?", StatePublished)

	if filter.Text != "" {
		pattern := "%" + filter.Text + "%"
		q = q.Where("annotation ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if len(filter.Categories) > 0 {
		q = q.Where("category_id IN ?", filter.Categories)
	}
	if filter.Paid != nil {
		q = q.Where("paid = ?", *filter.Paid)
	}
	if filter.RangeStart == nil && filter.RangeEnd == nil {
		q = q.Where("event_date > ?", time.Now())
	} else {
		if filter.RangeStart != nil {
			q = q.Where("event_date >= ?", *filter.RangeStart)
		}
		if filter.RangeEnd != nil {
			q = q.Where("event_date <= ?", *filter.RangeEnd)
		}
	}
	if filter.OnlyAvailable {
		q = q.Where("participant_limit = 0 OR confirmed_requests < participant_limit")
	}

	if filter.Sort == "EVENT_DATE" {
		q = q.Order("event_date ASC")
	} else {
		q = q.Order("id ASC")
	}

	var events []Event
	err := q.Limit(filter.Size).Offset(filter.From).Find(&events).Error
	return events, err
}

func (r *repository) ListByIDs(ctx context.Context, ids []uint) ([]Event, error) {
	var events []Event
	if len(ids) == 0 {
		return events, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Initiator").
		Where("id IN ?", ids).
		Find(&events).Error
	return events, err
}

// IsNotFound reports whether err is a missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
