package compilation

import (
	"context"
	"log"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

type Service interface {
	CreateCompilation(ctx context.Context, req NewCompilationRequest, actorID *uint, ip string) (*CompilationDto, error)
	DeleteCompilation(ctx context.Context, id uint, actorID *uint, ip string) error
	AddEvent(ctx context.Context, compID, eventID uint, actorID *uint, ip string) error
	RemoveEvent(ctx context.Context, compID, eventID uint, actorID *uint, ip string) error
	Pin(ctx context.Context, compID uint, pinned bool, actorID *uint, ip string) error
	ListCompilations(ctx context.Context, pinned *bool, from, size int) ([]CompilationDto, error)
	GetCompilation(ctx context.Context, id uint) (*CompilationDto, error)
}

type service struct {
	repo      Repository
	eventRepo event.Repository
	auditSvc  auditlog.Service
}

func NewService(repo Repository, eventRepo event.Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, eventRepo: eventRepo, auditSvc: auditSvc}
}

// ===========================
// 📚 Create Compilation
func (s *service) CreateCompilation(ctx context.Context, req NewCompilationRequest, actorID *uint, ip string) (*CompilationDto, error) {
	events, err := s.eventRepo.ListByIDs(ctx, req.Events)
	if err != nil {
		return nil, err
	}

	comp := &Compilation{
		Title:  req.Title,
		Pinned: req.Pinned,
		Events: events,
	}
	if err := s.repo.Create(ctx, comp); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "COMPILATION_CREATED", map[string]interface{}{
		"compilation_id": comp.ID,
		"title":          comp.Title,
		"events":         len(comp.Events),
	}, ip, "SUCCESS")
	log.Printf("✅ compilation created id=%d title=%q", comp.ID, comp.Title)

	dto := ToCompilationDto(comp)
	return &dto, nil
}

// ===========================
// 🗑️ Delete Compilation
func (s *service) DeleteCompilation(ctx context.Context, id uint, actorID *uint, ip string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			return apperror.NotFound("compilation with id=%d was not found", id)
		}
		return err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "COMPILATION_DELETED", map[string]interface{}{
		"compilation_id": id,
	}, ip, "SUCCESS")
	return nil
}

// ===========================
// ➕ Add Event To Compilation
func (s *service) AddEvent(ctx context.Context, compID, eventID uint, actorID *uint, ip string) error {
	comp, err := s.repo.GetByID(ctx, compID)
	if err != nil {
		return apperror.NotFound("compilation with id=%d was not found", compID)
	}
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return apperror.NotFound("event with id=%d was not found", eventID)
	}

	if err := s.repo.AddEvent(ctx, comp, ev); err != nil {
		return err
	}

	s.auditSvc.LogAction(ctx, actorID, &eventID, "COMPILATION_EVENT_ADDED", map[string]interface{}{
		"compilation_id": compID,
	}, ip, "SUCCESS")
	return nil
}

// ===========================
// ➖ Remove Event From Compilation
func (s *service) RemoveEvent(ctx context.Context, compID, eventID uint, actorID *uint, ip string) error {
	comp, err := s.repo.GetByID(ctx, compID)
	if err != nil {
		return apperror.NotFound("compilation with id=%d was not found", compID)
	}
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return apperror.NotFound("event with id=%d was not found", eventID)
	}

	if err := s.repo.RemoveEvent(ctx, comp, ev); err != nil {
		return err
	}

	s.auditSvc.LogAction(ctx, actorID, &eventID, "COMPILATION_EVENT_REMOVED", map[string]interface{}{
		"compilation_id": compID,
	}, ip, "SUCCESS")
	return nil
}

// ===========================
// 📌 Pin / Unpin Compilation
func (s *service) Pin(ctx context.Context, compID uint, pinned bool, actorID *uint, ip string) error {
	if err := s.repo.SetPinned(ctx, compID, pinned); err != nil {
		if IsNotFound(err) {
			return apperror.NotFound("compilation with id=%d was not found", compID)
		}
		return err
	}

	action := "COMPILATION_PINNED"
	if !pinned {
		action = "COMPILATION_UNPINNED"
	}
	s.auditSvc.LogAction(ctx, actorID, nil, action, map[string]interface{}{
		"compilation_id": compID,
	}, ip, "SUCCESS")
	return nil
}

// ===========================
// 📄 List Compilations
func (s *service) ListCompilations(ctx context.Context, pinned *bool, from, size int) ([]CompilationDto, error) {
	comps, err := s.repo.List(ctx, pinned, size, from)
	if err != nil {
		return nil, err
	}

	dtos := make([]CompilationDto, 0, len(comps))
	for i := range comps {
		dtos = append(dtos, ToCompilationDto(&comps[i]))
	}
	return dtos, nil
}

// ===========================
// 🔍 Get Compilation
func (s *service) GetCompilation(ctx context.Context, id uint) (*CompilationDto, error) {
	comp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperror.NotFound("compilation with id=%d was not found", id)
		}
		return nil, err
	}
	dto := ToCompilationDto(comp)
	return &dto, nil
}
