package category

import (
	"context"
	"log"
	"strings"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
)

type Service interface {
	CreateCategory(ctx context.Context, req NewCategoryRequest, actorID *uint, ip string) (*Category, error)
	UpdateCategory(ctx context.Context, id uint, req NewCategoryRequest, actorID *uint, ip string) (*Category, error)
	DeleteCategory(ctx context.Context, id uint, actorID *uint, ip string) error
	ListCategories(ctx context.Context, from, size int) ([]CategoryDto, error)
	GetCategory(ctx context.Context, id uint) (*CategoryDto, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

// ===========================
// 🏷️ Create Category
func (s *service) CreateCategory(ctx context.Context, req NewCategoryRequest, actorID *uint, ip string) (*Category, error) {
	cat := &Category{Name: req.Name}
	if err := s.repo.Create(ctx, cat); err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("category name '%s' is already taken", req.Name)
		}
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "CATEGORY_CREATED", map[string]interface{}{
		"category_id": cat.ID,
		"name":        cat.Name,
	}, ip, "SUCCESS")
	log.Printf("✅ category created id=%d name=%s", cat.ID, cat.Name)
	return cat, nil
}

// ===========================
// ✏️ Update Category
func (s *service) UpdateCategory(ctx context.Context, id uint, req NewCategoryRequest, actorID *uint, ip string) (*Category, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperror.NotFound("category with id=%d was not found", id)
		}
		return nil, err
	}

	cat.Name = req.Name
	if err := s.repo.Update(ctx, cat); err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("category name '%s' is already taken", req.Name)
		}
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "CATEGORY_UPDATED", map[string]interface{}{
		"category_id": cat.ID,
		"name":        cat.Name,
	}, ip, "SUCCESS")
	return cat, nil
}

// ===========================
// 🗑️ Delete Category
func (s *service) DeleteCategory(ctx context.Context, id uint, actorID *uint, ip string) error {
	count, err := s.repo.CountEvents(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperror.Conflict("the category is not empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			return apperror.NotFound("category with id=%d was not found", id)
		}
		return err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "CATEGORY_DELETED", map[string]interface{}{
		"category_id": id,
	}, ip, "SUCCESS")
	return nil
}

// ===========================
// 📄 List Categories
func (s *service) ListCategories(ctx context.Context, from, size int) ([]CategoryDto, error) {
	cats, err := s.repo.List(ctx, size, from)
	if err != nil {
		return nil, err
	}

	dtos := make([]CategoryDto, 0, len(cats))
	for i := range cats {
		dtos = append(dtos, ToCategoryDto(&cats[i]))
	}
	return dtos, nil
}

// ===========================
// 🔍 Get Category
func (s *service) GetCategory(ctx context.Context, id uint) (*CategoryDto, error) {
	cat, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperror.NotFound("category with id=%d was not found", id)
		}
		return nil, err
	}
	dto := ToCategoryDto(cat)
	return &dto, nil
}

func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "duplicate key")
}
