package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 🔐 Login - POST /auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid login payload: %v", err))
		return
	}

	token, u, err := h.Service.Login(c.Request.Context(), req)
	if err != nil {
		apperror.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": token.AccessToken,
		"user":        user.ToUserDto(u),
	})
}
