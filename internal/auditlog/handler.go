package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📄 List Audit Logs - GET /admin/auditlogs
func (h *Handler) GetAuditLogs(c *gin.Context) {
	var filter AuditLogFilter

	if raw := c.Query("user_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			uid := uint(id)
			filter.UserID = &uid
		}
	}
	if raw := c.Query("event_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			eid := uint(id)
			filter.EventID = &eid
		}
	}
	filter.Action = c.Query("action")
	filter.Status = c.Query("status")
	if raw := c.Query("from_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.FromDate = &t
		}
	}
	if raw := c.Query("to_date"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			filter.ToDate = &t
		}
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	logs, err := h.Service.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}

// ===========================
// 🔍 Get Audit Log - GET /admin/auditlogs/:id
func (h *Handler) GetAuditLogByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		apperror.Respond(c, apperror.BadRequest("invalid audit log ID"))
		return
	}

	entry, err := h.Service.GetAuditLogByID(c.Request.Context(), uint(id))
	if err != nil {
		apperror.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}
