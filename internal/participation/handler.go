package participation

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
// 📝 Create Request - POST /users/:userId/requests?eventId=
func (h *Handler) CreateRequest(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, err := strconv.Atoi(c.Query("eventId"))
	if err != nil || eventID < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid eventId"))
		return
	}

	dto, err := h.Service.CreateRequest(c.Request.Context(), userID, uint(eventID), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

// ===========================
// 🚫 Cancel Request - PATCH /users/:userId/requests/:requestId/cancel
func (h *Handler) CancelRequest(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	requestID, ok := pathID(c, "requestId")
	if !ok {
		return
	}

	dto, err := h.Service.CancelRequest(c.Request.Context(), userID, requestID, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// 📄 List Own Requests - GET /users/:userId/requests
func (h *Handler) ListOwnRequests(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	dtos, err := h.Service.ListForRequester(c.Request.Context(), userID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// ===========================
// 📄 List Event Requests - GET /users/:userId/events/:eventId/requests
func (h *Handler) ListEventRequests(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}

	dtos, err := h.Service.ListForEvent(c.Request.Context(), userID, eventID)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos)
}

// ===========================
// ✅ Confirm Request - PATCH /users/:userId/events/:eventId/requests/:reqId/confirm
func (h *Handler) ConfirmRequest(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	reqID, ok := pathID(c, "reqId")
	if !ok {
		return
	}

	dto, err := h.Service.ApproveRequest(c.Request.Context(), userID, eventID, reqID, middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

// ===========================
// ⛔ Reject Request - PATCH /users/:userId/events/:eventId/requests/:reqId/reject
func (h *Handler) RejectRequest(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	eventID, ok := pathID(c, "eventId")
	if !ok {
		return
	}
	reqID, ok := pathID(c, "reqId")
	if !ok {
		return
	}

	dto, err := h.Service.RejectRequest(c.Request.Context(), userID, eventID, reqID, middleware.GetIPFromContext(c))
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
