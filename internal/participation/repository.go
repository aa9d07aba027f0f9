package participation

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

// Repository serializes all capacity-sensitive mutations per event. AdmitNew
// and Resolve run their decision closures inside a transaction holding a
// FOR UPDATE lock on the event row, so the read of confirmed_requests, the
// capacity comparison and the write commit as one atomic unit. Operations on
// different events never contend.
type Repository interface {
	AdmitNew(ctx context.Context, eventID, requesterID uint, decide func(ev *event.Event) (string, error)) (*ParticipationRequest, error)
	Resolve(ctx context.Context, requestID uint, apply func(ev *event.Event, pr *ParticipationRequest) (string, error)) (*ParticipationRequest, error)
	GetByID(ctx context.Context, id uint) (*ParticipationRequest, error)
	ListByEvent(ctx context.Context, eventID uint) ([]ParticipationRequest, error)
	ListByRequester(ctx context.Context, requesterID uint) ([]ParticipationRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AdmitNew(ctx context.Context, eventID, requesterID uint, decide func(ev *event.Event) (string, error)) (*ParticipationRequest, error) {
	var created *ParticipationRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev event.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, eventID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("event with id=%d was not found", eventID)
			}
			return err
		}

		var live int64
		err = tx.Model(&ParticipationRequest{}).
			Where("event_id = ? AND requester_id = ? AND status IN ?",
				eventID, requesterID, []string{StatusPending, StatusConfirmed}).
			Count(&live).Error
		if err != nil {
			return err
		}
		if live > 0 {
			return apperror.BadRequest("user id=%d already has a live request for event id=%d", requesterID, eventID)
		}

		status, err := decide(&ev)
		if err != nil {
			return err
		}

		pr := &ParticipationRequest{
			EventID:     eventID,
			RequesterID: requesterID,
			Status:      status,
		}
		if err := tx.Create(pr).Error; err != nil {
			return err
		}

		if status == StatusConfirmed {
			err = tx.Model(&event.Event{}).
				Where("id = ?", eventID).
				Update("confirmed_requests", gorm.Expr("confirmed_requests + ?", 1)).Error
			if err != nil {
				return err
			}
		}

		created = pr
		return nil
	})

	return created, err
}

func (r *repository) Resolve(ctx context.Context, requestID uint, apply func(ev *event.Event, pr *ParticipationRequest) (string, error)) (*ParticipationRequest, error) {
	var updated *ParticipationRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Peek at the request to learn its event, then take the event lock
		// before re-reading the request under it. The lock order (event first)
		// matches AdmitNew, so the two cannot deadlock.
		var peek ParticipationRequest
		if err := tx.First(&peek, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("request with id=%d was not found", requestID)
			}
			return err
		}

		var ev event.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ev, peek.EventID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperror.NotFound("event with id=%d was not found", peek.EventID)
			}
			return err
		}

		var pr ParticipationRequest
		if err := tx.First(&pr, requestID).Error; err != nil {
			return err
		}

		newStatus, err := apply(&ev, &pr)
		if err != nil {
			return err
		}

		delta := CounterDelta(pr.Status, newStatus)
		if newStatus != pr.Status {
			err = tx.Model(&ParticipationRequest{}).
				Where("id = ?", pr.ID).
				Update("status", newStatus).Error
			if err != nil {
				return err
			}
			pr.Status = newStatus
		}
		if delta != 0 {
			err = tx.Model(&event.Event{}).
				Where("id = ?", ev.ID).
				Update("confirmed_requests", gorm.Expr("confirmed_requests + ?", delta)).Error
			if err != nil {
				return err
			}
		}

		updated = &pr
		return nil
	})

	return updated, err
}

func (r *repository) GetByID(ctx context.Context, id uint) (*ParticipationRequest, error) {
	var pr ParticipationRequest
	if err := r.db.WithContext(ctx).First(&pr, id).Error; err != nil {
		return nil, err
	}
	return &pr, nil
}

func (r *repository) ListByEvent(ctx context.Context, eventID uint) ([]ParticipationRequest, error) {
	var reqs []ParticipationRequest
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) ListByRequester(ctx context.Context, requesterID uint) ([]ParticipationRequest, error) {
	var reqs []ParticipationRequest
	err := r.db.WithContext(ctx).
		Where("requester_id = ?", requesterID).
		Order("id ASC").
		Find(&reqs).Error
	return reqs, err
}

// IsNotFound reports whether err is a missing-record error
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
