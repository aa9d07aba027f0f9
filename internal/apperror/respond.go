package apperror

import (
	"time"

	"github.com/gin-gonic/gin"
)

// APIError is the JSON error envelope returned by every endpoint.
type APIError struct {
	Errors    []string `json:"errors"`
	Message   string   `json:"message"`
	Reason    string   `json:"reason"`
	Status    string   `json:"status"`
	Timestamp string   `json:"timestamp"`
}

// Respond writes err to the gin context using the envelope above. It is the
// single place where error kinds become HTTP status codes.
func Respond(c *gin.Context, err error) {
	kind := KindOf(err)
	c.AbortWithStatusJSON(kind.HTTPStatus(), APIError{
		Errors:    []string{},
		Message:   err.Error(),
		Reason:    kind.Reason(),
		Status:    kind.Status(),
		Timestamp: time.Now().Format("2006-01-02 15:04:05"),
	})
}
