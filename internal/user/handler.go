package user

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
// 🎯 Create User - POST /admin/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid input: %s", err.Error()))
		return
	}

	actorID := middleware.GetUserIDFromContext(c)
	ip := middleware.GetIPFromContext(c)

	dto, err := h.Service.CreateUser(c.Request.Context(), &req, actorID, ip)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// ===========================
// 📄 List Users - GET /admin/users?ids=&from=&size=
func (h *Handler) ListUsers(c *gin.Context) {
	var ids []uint
	for _, raw := range c.QueryArray("ids") {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			ids = append(ids, uint(id))
		}
	}
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	users, err := h.Service.ListUsers(c.Request.Context(), ids, from, size)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// ===========================
// ❌ Delete User - DELETE /admin/users/:userId
func (h *Handler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid user ID"))
		return
	}

	actorID := middleware.GetUserIDFromContext(c)
	ip := middleware.GetIPFromContext(c)

	if err := h.Service.DeleteUser(c.Request.Context(), uint(id), actorID, ip); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
