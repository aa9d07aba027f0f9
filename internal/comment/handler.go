package comment

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 💬 Create Comment - POST /users/:userId/comments?eventId=
func (h *Handler) CreateComment(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, err := strconv.Atoi(c.Query("eventId"))
	if err != nil || eventID < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid eventId"))
		return
	}

	var req NewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid comment payload: %v", err))
		return
	}

	dto, err := h.Service.CreateComment(c.Request.Context(), userID, uint(eventID), req, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// ===========================
// ✏️ Update Comment - PATCH /users/:userId/comments/:commentId
func (h *Handler) UpdateComment(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	var req NewCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid comment payload: %v", err))
		return
	}

	dto, err := h.Service.UpdateComment(c.Request.Context(), userID, commentID, req, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 🗑️ Delete Own Comment - DELETE /users/:userId/comments/:commentId
func (h *Handler) DeleteOwnComment(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.Service.DeleteOwnComment(c.Request.Context(), userID, commentID, middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===========================
// ✅ Approve Comment - PATCH /admin/comments/:commentId/approve
func (h *Handler) ApproveComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	dto, err := h.Service.ApproveComment(c.Request.Context(), commentID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// ⛔ Reject Comment - PATCH /admin/comments/:commentId/reject
func (h *Handler) RejectComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	dto, err := h.Service.RejectComment(c.Request.Context(), commentID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 🗑️ Admin Delete Comment - DELETE /admin/comments/:commentId
func (h *Handler) AdminDeleteComment(c *gin.Context) {
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}

	if err := h.Service.AdminDeleteComment(c.Request.Context(), commentID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===========================
// 📄 Admin List Comments - GET /admin/comments?eventId=&state=
func (h *Handler) AdminListComments(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Query("eventId"))
	if err != nil || eventID < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid eventId"))
		return
	}

	dtos, err := h.Service.AdminListComments(c.Request.Context(), uint(eventID), c.Query("state"))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// ===========================
// 🌐 Public List Comments - GET /events/:eventId/comments
func (h *Handler) ListApprovedComments(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	dtos, err := h.Service.ListApprovedComments(c.Request.Context(), eventID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}
