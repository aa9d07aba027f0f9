package event

import (
	"time"

	"github.com/T0nystoyz/ExploreWithMe/internal/category"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

// Event lifecycle states
const (
	StatePending   = "PENDING"
	StatePublished = "PUBLISHED"
	StateCanceled  = "CANCELED"
)

// DateTimeLayout is the wire format for all event timestamps
const DateTimeLayout = "2006-01-02 15:04:05"

// Event is a schedulable activity owned by an initiator. New events start in
// PENDING and become visible to participants only after an admin publishes
// them. ConfirmedRequests is maintained by the participation ledger and must
// never exceed ParticipantLimit when the limit is positive.
type Event struct {
	ID                uint              `gorm:"primaryKey" json:"id"`
	Annotation        string            `gorm:"size:2000;not null" json:"annotation"`
	CategoryID        uint              `gorm:"index;not null" json:"-"`
	Category          category.Category `gorm:"foreignKey:CategoryID" json:"category"`
	ConfirmedRequests int               `gorm:"not null;default:0" json:"confirmedRequests"`
	CreatedOn         time.Time         `gorm:"autoCreateTime" json:"-"`
	Description       string            `gorm:"size:7000" json:"description"`
	EventDate         time.Time         `gorm:"index;not null" json:"-"`
	InitiatorID       uint              `gorm:"index;not null" json:"-"`
	Initiator         user.User         `gorm:"foreignKey:InitiatorID" json:"-"`
	Lat               float64           `json:"-"`
	Lon               float64           `json:"-"`
	Paid              bool              `gorm:"not null;default:false" json:"paid"`
	ParticipantLimit  int               `gorm:"not null;default:0" json:"participantLimit"`
	PublishedOn       *time.Time        `json:"-"`
	RequestModeration bool              `gorm:"not null;default:true" json:"requestModeration"`
	State             string            `gorm:"size:20;index;not null" json:"state"`
	Title             string            `gorm:"size:120;not null" json:"title"`

	// Views is filled from the analytics collaborator, never persisted
	Views uint64 `gorm:"-" json:"views"`
}

func (Event) TableName() string {
	return "events"
}

type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ===========================
// 📦 Request DTOs

type NewEventRequest struct {
	Annotation        string   `json:"annotation" binding:"required,min=20,max=2000"`
	Category          uint     `json:"category" binding:"required"`
	Description       string   `json:"description" binding:"required,min=20,max=7000"`
	EventDate         string   `json:"eventDate" binding:"required"`
	Location          Location `json:"location" binding:"required"`
	Paid              bool     `json:"paid"`
	ParticipantLimit  int      `json:"participantLimit" binding:"min=0"`
	RequestModeration *bool    `json:"requestModeration"`
	Title             string   `json:"title" binding:"required,min=3,max=120"`
}

// UpdateEventRequest carries the owner's partial update. The event id travels
// in the body, matching the PATCH /users/{userId}/events contract.
type UpdateEventRequest struct {
	EventID           uint    `json:"eventId" binding:"required"`
	Annotation        *string `json:"annotation" binding:"omitempty,min=20,max=2000"`
	Category          *uint   `json:"category"`
	Description       *string `json:"description" binding:"omitempty,min=20,max=7000"`
	EventDate         *string `json:"eventDate"`
	Paid              *bool   `json:"paid"`
	ParticipantLimit  *int    `json:"participantLimit" binding:"omitempty,min=0"`
	Title             *string `json:"title" binding:"omitempty,min=3,max=120"`
}

// AdminUpdateEventRequest is the admin's PUT payload; every field optional
type AdminUpdateEventRequest struct {
	Annotation        *string   `json:"annotation"`
	Category          *uint     `json:"category"`
	Description       *string   `json:"description"`
	EventDate         *string   `json:"eventDate"`
	Location          *Location `json:"location"`
	Paid              *bool     `json:"paid"`
	ParticipantLimit  *int      `json:"participantLimit"`
	RequestModeration *bool     `json:"requestModeration"`
	Title             *string   `json:"title"`
}

// ===========================
// 📦 Response DTOs

type EventFullDto struct {
	ID                uint                 `json:"id"`
	Annotation        string               `json:"annotation"`
	Category          category.CategoryDto `json:"category"`
	ConfirmedRequests int                  `json:"confirmedRequests"`
	CreatedOn         string               `json:"createdOn"`
	Description       string               `json:"description"`
	EventDate         string               `json:"eventDate"`
	Initiator         user.UserShortDto    `json:"initiator"`
	Location          Location             `json:"location"`
	Paid              bool                 `json:"paid"`
	ParticipantLimit  int                  `json:"participantLimit"`
	PublishedOn       string               `json:"publishedOn,omitempty"`
	RequestModeration bool                 `json:"requestModeration"`
	State             string               `json:"state"`
	Title             string               `json:"title"`
	Views             uint64               `json:"views"`
}

type EventShortDto struct {
	ID                uint                 `json:"id"`
	Annotation        string               `json:"annotation"`
	Category          category.CategoryDto `json:"category"`
	ConfirmedRequests int                  `json:"confirmedRequests"`
	EventDate         string               `json:"eventDate"`
	Initiator         user.UserShortDto    `json:"initiator"`
	Paid              bool                 `json:"paid"`
	Title             string               `json:"title"`
	Views             uint64               `json:"views"`
}

func ToEventFullDto(e *Event) EventFullDto {
	dto := EventFullDto{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Category:          category.ToCategoryDto(&e.Category),
		ConfirmedRequests: e.ConfirmedRequests,
		CreatedOn:         e.CreatedOn.Format(DateTimeLayout),
		Description:       e.Description,
		EventDate:         e.EventDate.Format(DateTimeLayout),
		Initiator:         user.ToUserShortDto(&e.Initiator),
		Location:          Location{Lat: e.Lat, Lon: e.Lon},
		Paid:              e.Paid,
		ParticipantLimit:  e.ParticipantLimit,
		RequestModeration: e.RequestModeration,
		State:             e.State,
		Title:             e.Title,
		Views:             e.Views,
	}
	if e.PublishedOn != nil {
		dto.PublishedOn = e.PublishedOn.Format(DateTimeLayout)
	}
	return dto
}

func ToEventShortDto(e *Event) EventShortDto {
	return EventShortDto{
		ID:                e.ID,
		Annotation:        e.Annotation,
		Category:          category.ToCategoryDto(&e.Category),
		ConfirmedRequests: e.ConfirmedRequests,
		EventDate:         e.EventDate.Format(DateTimeLayout),
		Initiator:         user.ToUserShortDto(&e.Initiator),
		Paid:              e.Paid,
		Title:             e.Title,
		Views:             e.Views,
	}
}

// ===========================
// 🔍 Search filters

type AdminSearchFilter struct {
	Users      []uint
	States     []string
	Categories []uint
	RangeStart *time.Time
	RangeEnd   *time.Time
	From       int
	Size       int
}

type PublicSearchFilter struct {
	Text          string
	Categories    []uint
	Paid          *bool
	RangeStart    *time.Time
	RangeEnd      *time.Time
	OnlyAvailable bool
	Sort          string // EVENT_DATE or VIEWS
	From          int
	Size          int
}
