package user

import (
	"context"
	"log"
	"strings"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
)

type Service interface {
	CreateUser(ctx context.Context, req *CreateUserRequest, actorID *uint, ip string) (*UserDto, error)
	ListUsers(ctx context.Context, ids []uint, from, size int) ([]UserDto, error)
	DeleteUser(ctx context.Context, id uint, actorID *uint, ip string) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

// ===========================
// 🎯 Create User (admin only)
func (s *service) CreateUser(ctx context.Context, req *CreateUserRequest, actorID *uint, ip string) (*UserDto, error) {
	u := &User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Role:  RoleUser,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if strings.Contains(err.Error(), "duplicate") || strings.Contains(err.Error(), "unique") {
			return nil, apperror.Conflict("user with email=%s already exists", req.Email)
		}
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "USER_CREATED", map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}, ip, "success")

	log.Printf("✅ user created id=%d email=%s", u.ID, u.Email)
	dto := ToUserDto(u)
	return &dto, nil
}

// ===========================
// 📄 List Users with optional id filter
func (s *service) ListUsers(ctx context.Context, ids []uint, from, size int) ([]UserDto, error) {
	if size <= 0 {
		size = 10
	}
	users, err := s.repo.List(ctx, ids, size, from)
	if err != nil {
		return nil, err
	}
	dtos := make([]UserDto, 0, len(users))
	for i := range users {
		dtos = append(dtos, ToUserDto(&users[i]))
	}
	return dtos, nil
}

// ===========================
// ❌ Delete User
func (s *service) DeleteUser(ctx context.Context, id uint, actorID *uint, ip string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if IsNotFound(err) {
			return apperror.NotFound("user with id=%d not found", id)
		}
		return err
	}
	s.auditSvc.LogAction(ctx, actorID, nil, "USER_DELETED", map[string]interface{}{
		"user_id": id,
	}, ip, "success")
	return nil
}
