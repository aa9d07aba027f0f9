package participation

import (
	"context"
	"log"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

type Service interface {
	CreateRequest(ctx context.Context, requesterID, eventID uint, ip string) (*RequestDto, error)
	ApproveRequest(ctx context.Context, ownerID, eventID, requestID uint, ip string) (*RequestDto, error)
	RejectRequest(ctx context.Context, ownerID, eventID, requestID uint, ip string) (*RequestDto, error)
	CancelRequest(ctx context.Context, requesterID, requestID uint, ip string) (*RequestDto, error)
	ListForEvent(ctx context.Context, ownerID, eventID uint) ([]RequestDto, error)
	ListForRequester(ctx context.Context, requesterID uint) ([]RequestDto, error)
}

type service struct {
	repo      Repository
	eventRepo event.Repository
	userRepo  user.Repository
	auditSvc  auditlog.Service
}

func NewService(repo Repository, eventRepo event.Repository, userRepo user.Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, eventRepo: eventRepo, userRepo: userRepo, auditSvc: auditSvc}
}

// ===========================
// 📝 Create Request
func (s *service) CreateRequest(ctx context.Context, requesterID, eventID uint, ip string) (*RequestDto, error) {
	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, apperror.NotFound("user with id=%d was not found", requesterID)
	}

	pr, err := s.repo.AdmitNew(ctx, eventID, requesterID, func(ev *event.Event) (string, error) {
		if ev.InitiatorID == requesterID {
			return "", apperror.Forbidden("the initiator cannot request participation in their own event")
		}
		return DecideNewRequest(ev)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &requesterID, &eventID, "REQUEST_CREATED", map[string]interface{}{
		"request_id": pr.ID,
		"status":     pr.Status,
	}, ip, "SUCCESS")
	log.Printf("✅ participation request id=%d event=%d requester=%d status=%s", pr.ID, eventID, requesterID, pr.Status)

	dto := ToRequestDto(pr)
	return &dto, nil
}

// ===========================
// ✅ Approve Request (event owner)
func (s *service) ApproveRequest(ctx context.Context, ownerID, eventID, requestID uint, ip string) (*RequestDto, error) {
	pr, err := s.repo.Resolve(ctx, requestID, func(ev *event.Event, pr *ParticipationRequest) (string, error) {
		if pr.EventID != eventID {
			return "", apperror.NotFound("request with id=%d was not found for event id=%d", requestID, eventID)
		}
		if ev.InitiatorID != ownerID {
			return "", apperror.Forbidden("user id=%d is not the initiator of event id=%d", ownerID, eventID)
		}
		return DecideApproval(ev, pr)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &ownerID, &eventID, "REQUEST_CONFIRMED", map[string]interface{}{
		"request_id": pr.ID,
		"status":     pr.Status,
	}, ip, "SUCCESS")
	if pr.Status == StatusRejected {
		log.Printf("⚠️ approval of request id=%d rejected, event id=%d is at capacity", pr.ID, eventID)
	}

	dto := ToRequestDto(pr)
	return &dto, nil
}

// ===========================
// ⛔ Reject Request (event owner)
func (s *service) RejectRequest(ctx context.Context, ownerID, eventID, requestID uint, ip string) (*RequestDto, error) {
	pr, err := s.repo.Resolve(ctx, requestID, func(ev *event.Event, pr *ParticipationRequest) (string, error) {
		if pr.EventID != eventID {
			return "", apperror.NotFound("request with id=%d was not found for event id=%d", requestID, eventID)
		}
		if ev.InitiatorID != ownerID {
			return "", apperror.Forbidden("user id=%d is not the initiator of event id=%d", ownerID, eventID)
		}
		return DecideRejection(pr)
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &ownerID, &eventID, "REQUEST_REJECTED", map[string]interface{}{
		"request_id": pr.ID,
	}, ip, "SUCCESS")

	dto := ToRequestDto(pr)
	return &dto, nil
}

// ===========================
// 🚫 Cancel Own Request
func (s *service) CancelRequest(ctx context.Context, requesterID, requestID uint, ip string) (*RequestDto, error) {
	pr, err := s.repo.Resolve(ctx, requestID, func(ev *event.Event, pr *ParticipationRequest) (string, error) {
		if pr.RequesterID != requesterID {
			return "", apperror.Forbidden("user id=%d does not own request id=%d", requesterID, requestID)
		}
		return DecideCancellation(), nil
	})
	if err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &requesterID, &pr.EventID, "REQUEST_CANCELED", map[string]interface{}{
		"request_id": pr.ID,
	}, ip, "SUCCESS")

	dto := ToRequestDto(pr)
	return &dto, nil
}

// ===========================
// 📄 List Requests For Own Event
func (s *service) ListForEvent(ctx context.Context, ownerID, eventID uint) ([]RequestDto, error) {
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}
	if ev.InitiatorID != ownerID {
		return nil, apperror.Forbidden("user id=%d is not the initiator of event id=%d", ownerID, eventID)
	}

	reqs, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return toDtos(reqs), nil
}

// ===========================
// 📄 List Own Requests
func (s *service) ListForRequester(ctx context.Context, requesterID uint) ([]RequestDto, error) {
	if _, err := s.userRepo.GetByID(ctx, requesterID); err != nil {
		return nil, apperror.NotFound("user with id=%d was not found", requesterID)
	}

	reqs, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return toDtos(reqs), nil
}

func toDtos(reqs []ParticipationRequest) []RequestDto {
	dtos := make([]RequestDto, 0, len(reqs))
	for i := range reqs {
		dtos = append(dtos, ToRequestDto(&reqs[i]))
	}
	return dtos
}
