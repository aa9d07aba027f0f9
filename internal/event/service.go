package event

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/category"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

// minLeadTime is the minimum gap between now and an event's scheduled date,
// enforced on create, owner update and publish
const minLeadTime = 2 * time.Hour

// Stats is the analytics collaborator. Both calls are best effort: a failing
// stats backend never blocks the event flow.
type Stats interface {
	RecordHit(ctx context.Context, uri, ip string)
	EventViews(ctx context.Context, eventIDs []uint) map[uint]uint64
}

type Service interface {
	CreateEvent(ctx context.Context, initiatorID uint, req NewEventRequest, ip string) (*EventFullDto, error)
	UpdateEvent(ctx context.Context, ownerID uint, req UpdateEventRequest, ip string) (*EventFullDto, error)
	CancelEvent(ctx context.Context, ownerID, eventID uint, ip string) (*EventFullDto, error)
	ListOwnEvents(ctx context.Context, ownerID uint, from, size int) ([]EventShortDto, error)
	GetOwnEvent(ctx context.Context, ownerID, eventID uint) (*EventFullDto, error)

	PublishEvent(ctx context.Context, eventID uint, actorID *uint, ip string) (*EventFullDto, error)
	RejectEvent(ctx context.Context, eventID uint, actorID *uint, ip string) (*EventFullDto, error)
	AdminUpdateEvent(ctx context.Context, eventID uint, req AdminUpdateEventRequest, actorID *uint, ip string) (*EventFullDto, error)
	AdminSearch(ctx context.Context, filter AdminSearchFilter) ([]EventFullDto, error)

	PublicSearch(ctx context.Context, filter PublicSearchFilter, uri, ip string) ([]EventShortDto, error)
	GetPublicEvent(ctx context.Context, eventID uint, uri, ip string) (*EventFullDto, error)
}

type service struct {
	repo     Repository
	catRepo  category.Repository
	userRepo user.Repository
	stats    Stats
	auditSvc auditlog.Service
}

func NewService(repo Repository, catRepo category.Repository, userRepo user.Repository, stats Stats, auditSvc auditlog.Service) Service {
	return &service{repo: repo, catRepo: catRepo, userRepo: userRepo, stats: stats, auditSvc: auditSvc}
}

// ===========================
// 🎯 Create Event
func (s *service) CreateEvent(ctx context.Context, initiatorID uint, req NewEventRequest, ip string) (*EventFullDto, error) {
	if _, err := s.userRepo.GetByID(ctx, initiatorID); err != nil {
		return nil, apperror.NotFound("user with id=%d was not found", initiatorID)
	}
	if _, err := s.catRepo.GetByID(ctx, req.Category); err != nil {
		return nil, apperror.NotFound("category with id=%d was not found", req.Category)
	}

	eventDate, err := parseDateTime(req.EventDate)
	if err != nil {
		return nil, err
	}
	if err := validateLeadTime(eventDate); err != nil {
		return nil, err
	}

	moderation := true
	if req.RequestModeration != nil {
		moderation = *req.RequestModeration
	}

	ev := &Event{
		Annotation:        req.Annotation,
		CategoryID:        req.Category,
		Description:       req.Description,
		EventDate:         eventDate,
		InitiatorID:       initiatorID,
		Lat:               req.Location.Lat,
		Lon:               req.Location.Lon,
		Paid:              req.Paid,
		ParticipantLimit:  req.ParticipantLimit,
		RequestModeration: moderation,
		State:             StatePending,
		Title:             req.Title,
	}
	if err := s.repo.Create(ctx, ev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &initiatorID, &ev.ID, "EVENT_CREATED", map[string]interface{}{
		"title":      ev.Title,
		"event_date": ev.EventDate.Format(DateTimeLayout),
	}, ip, "SUCCESS")
	log.Printf("✅ event created id=%d initiator=%d title=%q", ev.ID, initiatorID, ev.Title)

	return s.fullDto(ctx, ev)
}

// ===========================
// ✏️ Update Own Event
func (s *service) UpdateEvent(ctx context.Context, ownerID uint, req UpdateEventRequest, ip string) (*EventFullDto, error) {
	ev, err := s.getOwned(ctx, ownerID, req.EventID)
	if err != nil {
		return nil, err
	}
	if ev.State == StatePublished {
		return nil, apperror.BadRequest("published events cannot be modified by their initiator")
	}

	if req.EventDate != nil {
		eventDate, err := parseDateTime(*req.EventDate)
		if err != nil {
			return nil, err
		}
		if err := validateLeadTime(eventDate); err != nil {
			return nil, err
		}
		ev.EventDate = eventDate
	}
	if req.Category != nil {
		if _, err := s.catRepo.GetByID(ctx, *req.Category); err != nil {
			return nil, apperror.NotFound("category with id=%d was not found", *req.Category)
		}
		ev.CategoryID = *req.Category
	}
	if req.Annotation != nil {
		ev.Annotation = *req.Annotation
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Paid != nil {
		ev.Paid = *req.Paid
	}
	if req.ParticipantLimit != nil {
		ev.ParticipantLimit = *req.ParticipantLimit
	}
	if req.Title != nil {
		ev.Title = *req.Title
	}

	// Updating a canceled event sends it back to moderation
	if ev.State == StateCanceled {
		ev.State = StatePending
	}

	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &ownerID, &ev.ID, "EVENT_UPDATED", map[string]interface{}{
		"state": ev.State,
	}, ip, "SUCCESS")

	return s.fullDto(ctx, ev)
}

// ===========================
// 🚫 Cancel Own Event
func (s *service) CancelEvent(ctx context.Context, ownerID, eventID uint, ip string) (*EventFullDto, error) {
	ev, err := s.getOwned(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	if ev.State != StatePending && ev.State != StatePublished {
		return nil, apperror.BadRequest("only pending or published events can be canceled, current state: %s", ev.State)
	}

	ev.State = StateCanceled
	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &ownerID, &ev.ID, "EVENT_CANCELED", nil, ip, "SUCCESS")
	log.Printf("🚫 event canceled id=%d by initiator=%d", ev.ID, ownerID)

	return s.fullDto(ctx, ev)
}

// ===========================
// 📄 List Own Events
func (s *service) ListOwnEvents(ctx context.Context, ownerID uint, from, size int) ([]EventShortDto, error) {
	events, err := s.repo.ListByInitiator(ctx, ownerID, size, from)
	if err != nil {
		return nil, err
	}
	s.annotateViews(ctx, events)

	dtos := make([]EventShortDto, 0, len(events))
	for i := range events {
		dtos = append(dtos, ToEventShortDto(&events[i]))
	}
	return dtos, nil
}

// ===========================
// 🔍 Get Own Event
func (s *service) GetOwnEvent(ctx context.Context, ownerID, eventID uint) (*EventFullDto, error) {
	ev, err := s.getOwned(ctx, ownerID, eventID)
	if err != nil {
		return nil, err
	}
	return s.fullDto(ctx, ev)
}

// ===========================
// 📢 Publish Event (admin)
func (s *service) PublishEvent(ctx context.Context, eventID uint, actorID *uint, ip string) (*EventFullDto, error) {
	ev, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}
	if ev.State != StatePending {
		return nil, apperror.BadRequest("only pending events can be published, current state: %s", ev.State)
	}
	if err := validateLeadTime(ev.EventDate); err != nil {
		return nil, err
	}

	now := time.Now()
	ev.State = StatePublished
	ev.PublishedOn = &now
	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, &ev.ID, "EVENT_PUBLISHED", nil, ip, "SUCCESS")
	log.Printf("📢 event published id=%d", ev.ID)

	return s.fullDto(ctx, ev)
}

// ===========================
// ⛔ Reject Event (admin)
func (s *service) RejectEvent(ctx context.Context, eventID uint, actorID *uint, ip string) (*EventFullDto, error) {
	ev, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}
	if ev.State != StatePending {
		return nil, apperror.BadRequest("only pending events can be rejected, current state: %s", ev.State)
	}

	ev.State = StateCanceled
	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, &ev.ID, "EVENT_REJECTED", nil, ip, "SUCCESS")
	return s.fullDto(ctx, ev)
}

// ===========================
// 🛠️ Admin Update Event
func (s *service) AdminUpdateEvent(ctx context.Context, eventID uint, req AdminUpdateEventRequest, actorID *uint, ip string) (*EventFullDto, error) {
	ev, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}

	if req.EventDate != nil {
		eventDate, err := parseDateTime(*req.EventDate)
		if err != nil {
			return nil, err
		}
		ev.EventDate = eventDate
	}
	if req.Category != nil {
		if _, err := s.catRepo.GetByID(ctx, *req.Category); err != nil {
			return nil, apperror.NotFound("category with id=%d was not found", *req.Category)
		}
		ev.CategoryID = *req.Category
	}
	if req.Annotation != nil {
		ev.Annotation = *req.Annotation
	}
	if req.Description != nil {
		ev.Description = *req.Description
	}
	if req.Location != nil {
		ev.Lat = req.Location.Lat
		ev.Lon = req.Location.Lon
	}
	if req.Paid != nil {
		ev.Paid = *req.Paid
	}
	if req.ParticipantLimit != nil {
		ev.ParticipantLimit = *req.ParticipantLimit
	}
	if req.RequestModeration != nil {
		ev.RequestModeration = *req.RequestModeration
	}
	if req.Title != nil {
		ev.Title = *req.Title
	}

	if err := s.repo.Update(ctx, ev); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, &ev.ID, "EVENT_ADMIN_UPDATED", nil, ip, "SUCCESS")
	return s.fullDto(ctx, ev)
}

// ===========================
// 🔎 Admin Search
func (s *service) AdminSearch(ctx context.Context, filter AdminSearchFilter) ([]EventFullDto, error) {
	events, err := s.repo.AdminSearch(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.annotateViews(ctx, events)

	dtos := make([]EventFullDto, 0, len(events))
	for i := range events {
		dtos = append(dtos, ToEventFullDto(&events[i]))
	}
	return dtos, nil
}

// ===========================
// 🌐 Public Search
func (s *service) PublicSearch(ctx context.Context, filter PublicSearchFilter, uri, ip string) ([]EventShortDto, error) {
	events, err := s.repo.PublicSearch(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.stats.RecordHit(ctx, uri, ip)
	s.annotateViews(ctx, events)

	if filter.Sort == "VIEWS" {
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Views > events[j].Views
		})
	}

	dtos := make([]EventShortDto, 0, len(events))
	for i := range events {
		dtos = append(dtos, ToEventShortDto(&events[i]))
	}
	return dtos, nil
}

// ===========================
// 🌐 Public Get Event
func (s *service) GetPublicEvent(ctx context.Context, eventID uint, uri, ip string) (*EventFullDto, error) {
	ev, err := s.repo.GetPublishedByID(ctx, eventID)
	if err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}

	s.stats.RecordHit(ctx, uri, ip)
	views := s.stats.EventViews(ctx, []uint{ev.ID})
	ev.Views = views[ev.ID]

	dto := ToEventFullDto(ev)
	return &dto, nil
}

// ===========================
// 🧰 Helpers

func (s *service) getOwned(ctx context.Context, ownerID, eventID uint) (*Event, error) {
	ev, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}
	if ev.InitiatorID != ownerID {
		return nil, apperror.Forbidden("user id=%d is not the initiator of event id=%d", ownerID, eventID)
	}
	return ev, nil
}

func (s *service) fullDto(ctx context.Context, ev *Event) (*EventFullDto, error) {
	// Reload to pick up associations created in this call
	fresh, err := s.repo.GetByID(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	views := s.stats.EventViews(ctx, []uint{fresh.ID})
	fresh.Views = views[fresh.ID]
	dto := ToEventFullDto(fresh)
	return &dto, nil
}

func (s *service) annotateViews(ctx context.Context, events []Event) {
	if len(events) == 0 {
		return
	}
	ids := make([]uint, 0, len(events))
	for i := range events {
		ids = append(ids, events[i].ID)
	}
	views := s.stats.EventViews(ctx, ids)
	for i := range events {
		events[i].Views = views[events[i].ID]
	}
}

func parseDateTime(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, apperror.BadRequest("invalid date %q, expected format %s", raw, DateTimeLayout)
	}
	return t, nil
}

func validateLeadTime(eventDate time.Time) error {
	if time.Until(eventDate) < minLeadTime {
		return apperror.BadRequest("event date must be at least 2 hours in the future, got %s",
			eventDate.Format(DateTimeLayout))
	}
	return nil
}
