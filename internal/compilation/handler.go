package compilation

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
// 📚 Create Compilation - POST /admin/compilations
func (h *Handler) CreateCompilation(c *gin.Context) {
	var req NewCompilationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid compilation payload: %v", err))
		return
	}

	dto, err := h.Service.CreateCompilation(c.Request.Context(), req, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// ===========================
// 🗑️ Delete Compilation - DELETE /admin/compilations/:compId
func (h *Handler) DeleteCompilation(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}

	if err := h.Service.DeleteCompilation(c.Request.Context(), compID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===========================
// ➕ Add Event - PATCH /admin/compilations/:compId/events/:eventId
func (h *Handler) AddEvent(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	if err := h.Service.AddEvent(c.Request.Context(), compID, eventID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ===========================
// ➖ Remove Event - DELETE /admin/compilations/:compId/events/:eventId
func (h *Handler) RemoveEvent(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	if err := h.Service.RemoveEvent(c.Request.Context(), compID, eventID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ===========================
// 📌 Pin - PATCH /admin/compilations/:compId/pin
func (h *Handler) PinCompilation(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}

	if err := h.Service.Pin(c.Request.Context(), compID, true, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ===========================
// 📌 Unpin - DELETE /admin/compilations/:compId/pin
func (h *Handler) UnpinCompilation(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}

	if err := h.Service.Pin(c.Request.Context(), compID, false, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c)); err != nil {
		apperror.Respond(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// ===========================
// 📄 List Compilations - GET /compilations
func (h *Handler) ListCompilations(c *gin.Context) {
	var pinned *bool
	if raw := c.Query("pinned"); raw != "" {
		v := raw == "true"
		pinned = &v
	}
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	dtos, err := h.Service.ListCompilations(c.Request.Context(), pinned, from, size)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// ===========================
// 🔍 Get Compilation - GET /compilations/:compId
func (h *Handler) GetCompilation(c *gin.Context) {
	compID, ok := pathID(c, "compId")
	if !ok {
		return
	}

	dto, err := h.Service.GetCompilation(c.Request.Context(), compID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}
