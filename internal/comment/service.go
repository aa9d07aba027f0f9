package comment

import (
	"context"
	"log"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

type Service interface {
	CreateComment(ctx context.Context, authorID, eventID uint, req NewCommentRequest, ip string) (*CommentDto, error)
	UpdateComment(ctx context.Context, authorID, commentID uint, req NewCommentRequest, ip string) (*CommentDto, error)
	DeleteOwnComment(ctx context.Context, authorID, commentID uint, ip string) error

	ApproveComment(ctx context.Context, commentID uint, actorID *uint, ip string) (*CommentDto, error)
	RejectComment(ctx context.Context, commentID uint, actorID *uint, ip string) (*CommentDto, error)
	AdminDeleteComment(ctx context.Context, commentID uint, actorID *uint, ip string) error
	AdminListComments(ctx context.Context, eventID uint, state string) ([]CommentDto, error)

	ListApprovedComments(ctx context.Context, eventID uint) ([]CommentDto, error)
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
// 💬 Create Comment
func (s *service) CreateComment(ctx context.Context, authorID, eventID uint, req NewCommentRequest, ip string) (*CommentDto, error) {
	if _, err := s.userRepo.GetByID(ctx, authorID); err != nil {
		return nil, apperror.NotFound("user with id=%d was not found", authorID)
	}
	ev, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}
	if ev.State != event.StatePublished {
		return nil, apperror.BadRequest("cannot comment on an unpublished event")
	}

	cm := &Comment{
		Text:     req.Text,
		EventID:  eventID,
		AuthorID: authorID,
		State:    StateNew,
	}
	if err := s.repo.Create(ctx, cm); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &authorID, &eventID, "COMMENT_CREATED", map[string]interface{}{
		"comment_id": cm.ID,
	}, ip, "SUCCESS")
	log.Printf("✅ comment created id=%d event=%d author=%d", cm.ID, eventID, authorID)

	dto := ToCommentDto(cm)
	return &dto, nil
}

// ===========================
// ✏️ Update Own Comment
func (s *service) UpdateComment(ctx context.Context, authorID, commentID uint, req NewCommentRequest, ip string) (*CommentDto, error) {
	cm, err := s.getOwn(ctx, authorID, commentID)
	if err != nil {
		return nil, err
	}

	cm.Text = req.Text
	// Edited comments go back through moderation
	cm.State = StateNew
	if err := s.repo.Update(ctx, cm); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &authorID, &cm.EventID, "COMMENT_UPDATED", map[string]interface{}{
		"comment_id": cm.ID,
	}, ip, "SUCCESS")

	dto := ToCommentDto(cm)
	return &dto, nil
}

// ===========================
// 🗑️ Delete Own Comment
func (s *service) DeleteOwnComment(ctx context.Context, authorID, commentID uint, ip string) error {
	cm, err := s.getOwn(ctx, authorID, commentID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, cm.ID); err != nil {
		return err
	}

	s.auditSvc.LogAction(ctx, &authorID, &cm.EventID, "COMMENT_DELETED", map[string]interface{}{
		"comment_id": cm.ID,
	}, ip, "SUCCESS")
	return nil
}

// ===========================
// ✅ Approve Comment (admin)
func (s *service) ApproveComment(ctx context.Context, commentID uint, actorID *uint, ip string) (*CommentDto, error) {
	return s.moderate(ctx, commentID, StateApproved, "COMMENT_APPROVED", actorID, ip)
}

// ===========================
// ⛔ Reject Comment (admin)
func (s *service) RejectComment(ctx context.Context, commentID uint, actorID *uint, ip string) (*CommentDto, error) {
	return s.moderate(ctx, commentID, StateRejected, "COMMENT_REJECTED", actorID, ip)
}

// ===========================
// 🗑️ Admin Delete Comment
func (s *service) AdminDeleteComment(ctx context.Context, commentID uint, actorID *uint, ip string) error {
	if err := s.repo.Delete(ctx, commentID); err != nil {
		if IsNotFound(err) {
			return apperror.NotFound("comment with id=%d was not found", commentID)
		}
		return err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "COMMENT_ADMIN_DELETED", map[string]interface{}{
		"comment_id": commentID,
	}, ip, "SUCCESS")
	return nil
}

// ===========================
// 📄 Admin List Comments
func (s *service) AdminListComments(ctx context.Context, eventID uint, state string) ([]CommentDto, error) {
	comments, err := s.repo.ListByEventAndState(ctx, eventID, state)
	if err != nil {
		return nil, err
	}
	return toDtos(comments), nil
}

// ===========================
// 🌐 Public List Approved Comments
func (s *service) ListApprovedComments(ctx context.Context, eventID uint) ([]CommentDto, error) {
	if _, err := s.eventRepo.GetPublishedByID(ctx, eventID); err != nil {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}

	comments, err := s.repo.ListByEventAndState(ctx, eventID, StateApproved)
	if err != nil {
		return nil, err
	}
	return toDtos(comments), nil
}

func (s *service) moderate(ctx context.Context, commentID uint, state, action string, actorID *uint, ip string) (*CommentDto, error) {
	cm, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, apperror.NotFound("comment with id=%d was not found", commentID)
	}

	cm.State = state
	if err := s.repo.Update(ctx, cm); err != nil {
		return nil, err
	}

	s.auditSvc.LogAction(ctx, actorID, &cm.EventID, action, map[string]interface{}{
		"comment_id": cm.ID,
	}, ip, "SUCCESS")

	dto := ToCommentDto(cm)
	return &dto, nil
}

func (s *service) getOwn(ctx context.Context, authorID, commentID uint) (*Comment, error) {
	cm, err := s.repo.GetByID(ctx, commentID)
	if err != nil {
		return nil, apperror.NotFound("comment with id=%d was not found", commentID)
	}
	if cm.AuthorID != authorID {
		return nil, apperror.Forbidden("user id=%d is not the author of comment id=%d", authorID, commentID)
	}
	return cm, nil
}

func toDtos(comments []Comment) []CommentDto {
	dtos := make([]CommentDto, 0, len(comments))
	for i := range comments {
		dtos = append(dtos, ToCommentDto(&comments[i]))
	}
	return dtos
}
