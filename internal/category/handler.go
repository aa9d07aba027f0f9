package category

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
// 🏷️ Create Category - POST /admin/categories
func (h *Handler) CreateCategory(c *gin.Context) {
	var req NewCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid category payload: %v", err))
		return
	}

	cat, err := h.Service.CreateCategory(c.Request.Context(), req, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, ToCategoryDto(cat))
}

// ===========================
// ✏️ Update Category - PATCH /admin/categories/:catId
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("catId"))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid category ID"))
		return
	}

	var req NewCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid category payload: %v", err))
		return
	}

	cat, err := h.Service.UpdateCategory(c.Request.Context(), uint(id), req, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, ToCategoryDto(cat))
}

// ===========================
// 🗑️ Delete Category - DELETE /admin/categories/:catId
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("catId"))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid category ID"))
		return
	}

	if err := h.Service.DeleteCategory(c.Request.Context(), uint(id), middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===========================
// 📄 List Categories - GET /categories
func (h *Handler) ListCategories(c *gin.Context) {
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	cats, err := h.Service.ListCategories(c.Request.Context(), from, size)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cats)
}

// ===========================
// 🔍 Get Category - GET /categories/:catId
func (h *Handler) GetCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("catId"))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid category ID"))
		return
	}

	cat, err := h.Service.GetCategory(c.Request.Context(), uint(id))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}
