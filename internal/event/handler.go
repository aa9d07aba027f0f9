package event

import (
	"net/http"
	"strconv"
	"strings"
	"time"

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
// 🎯 Create Event - POST /users/:userId/events
func (h *Handler) CreateEvent(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req NewEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid event payload: %v", err))
		return
	}

	dto, err := h.Service.CreateEvent(c.Request.Context(), userID, req, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// ===========================
// ✏️ Update Own Event - PATCH /users/:userId/events
func (h *Handler) UpdateEvent(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid event payload: %v", err))
		return
	}

	dto, err := h.Service.UpdateEvent(c.Request.Context(), userID, req, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 🚫 Cancel Own Event - PATCH /users/:userId/events/:eventId
func (h *Handler) CancelEvent(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	dto, err := h.Service.CancelEvent(c.Request.Context(), userID, eventID, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 📄 List Own Events - GET /users/:userId/events
func (h *Handler) ListOwnEvents(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	dtos, err := h.Service.ListOwnEvents(c.Request.Context(), userID, from, size)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// ===========================
// 🔍 Get Own Event - GET /users/:userId/events/:eventId
func (h *Handler) GetOwnEvent(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	dto, err := h.Service.GetOwnEvent(c.Request.Context(), userID, eventID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 📢 Publish Event - PATCH /admin/events/:eventId/publish
func (h *Handler) PublishEvent(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	dto, err := h.Service.PublishEvent(c.Request.Context(), eventID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// ⛔ Reject Event - PATCH /admin/events/:eventId/reject
func (h *Handler) RejectEvent(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	dto, err := h.Service.RejectEvent(c.Request.Context(), eventID, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 🛠️ Admin Update Event - PUT /admin/events/:eventId
func (h *Handler) AdminUpdateEvent(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	var req AdminUpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperror.Respond(c, apperror.BadRequest("invalid event payload: %v", err))
		return
	}

	dto, err := h.Service.AdminUpdateEvent(c.Request.Context(), eventID, req, middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 🔎 Admin Search Events - GET /admin/events
func (h *Handler) AdminSearch(c *gin.Context) {
	filter := AdminSearchFilter{
		Users:      parseUintList(c.Query("users")),
		Categories: parseUintList(c.Query("categories")),
	}
	if raw := c.Query("states"); raw != "" {
		filter.States = strings.Split(raw, ",")
	}
	filter.RangeStart = parseTimeQuery(c.Query("rangeStart"))
	filter.RangeEnd = parseTimeQuery(c.Query("rangeEnd"))
	filter.From, _ = strconv.Atoi(c.DefaultQuery("from", "0"))
	filter.Size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))

	dtos, err := h.Service.AdminSearch(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// ===========================
// 🌐 Public Search Events - GET /events
func (h *Handler) PublicSearch(c *gin.Context) {
	filter := PublicSearchFilter{
		Text:       c.Query("text"),
		Categories: parseUintList(c.Query("categories")),
		Sort:       c.DefaultQuery("sort", "EVENT_DATE"),
	}
	if raw := c.Query("paid"); raw != "" {
		paid := raw == "true"
		filter.Paid = &paid
	}
	filter.RangeStart = parseTimeQuery(c.Query("rangeStart"))
	filter.RangeEnd = parseTimeQuery(c.Query("rangeEnd"))
	filter.OnlyAvailable = c.Query("onlyAvailable") == "true"
	filter.From, _ = strconv.Atoi(c.DefaultQuery("from", "0"))
	filter.Size, _ = strconv.Atoi(c.DefaultQuery("size", "10"))

	dtos, err := h.Service.PublicSearch(c.Request.Context(), filter, c.Request.URL.Path, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// ===========================
// 🌐 Public Get Event - GET /events/:eventId
func (h *Handler) GetPublicEvent(c *gin.Context) {
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	dto, err := h.Service.GetPublicEvent(c.Request.Context(), eventID, c.Request.URL.Path, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 🧰 Helpers

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func parseUintList(raw string) []uint {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		if id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32); err == nil {
			ids = append(ids, uint(id))
		}
	}
	return ids
}

func parseTimeQuery(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.ParseInLocation(DateTimeLayout, raw, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
