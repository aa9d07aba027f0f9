package reports

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
	"github.com/T0nystoyz/ExploreWithMe/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// ===========================
// 📊 Events Report - GET /admin/reports/events?format=
func (h *Handler) EventsReport(c *gin.Context) {
	format := c.DefaultQuery("format", FormatCSV)

	filter := event.AdminSearchFilter{
		Size: 1000,
	}
	if raw := c.Query("states"); raw != "" {
		filter.States = strings.Split(raw, ",")
	}
	if raw := c.Query("users"); raw != "" {
		for _, p := range strings.Split(raw, ",") {
			if id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32); err == nil {
				filter.Users = append(filter.Users, uint(id))
			}
		}
	}
	filter.From, _ = strconv.Atoi(c.DefaultQuery("from", "0"))
	if raw := c.Query("size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			filter.Size = size
		}
	}

	data, filename, contentType, err := h.Service.EventsReport(c.Request.Context(), filter, format,
		middleware.GetUserIDFromContext(c), middleware.GetIPFromContext(c))
	if err != nil {
		apperror.Respond(c, apperror.BadRequest("%v", err))
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(200, contentType, data)
}
