package participation

import (
	"time"

	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

// Participation request statuses
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusRejected  = "REJECTED"
	StatusCanceled  = "CANCELED"
)

// ParticipationRequest is a user's ask to attend a published event. Requests
// are never deleted, only moved to a terminal status. At most one request per
// (event, requester) pair may be live (PENDING or CONFIRMED) at a time.
type ParticipationRequest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EventID     uint      `gorm:"index:idx_requests_event_requester;not null" json:"event"`
	RequesterID uint      `gorm:"index:idx_requests_event_requester;not null" json:"requester"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	Created     time.Time `gorm:"autoCreateTime" json:"-"`
}

func (ParticipationRequest) TableName() string {
	return "participation_requests"
}

type RequestDto struct {
	ID        uint   `json:"id"`
	Event     uint   `json:"event"`
	Requester uint   `json:"requester"`
	Status    string `json:"status"`
	Created   string `json:"created"`
}

func ToRequestDto(pr *ParticipationRequest) RequestDto {
	return RequestDto{
		ID:        pr.ID,
		Event:     pr.EventID,
		Requester: pr.RequesterID,
		Status:    pr.Status,
		Created:   pr.Created.Format(event.DateTimeLayout),
	}
}
