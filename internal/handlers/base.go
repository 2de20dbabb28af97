package handlers

import (
	"errors"
	"net/http"

	"sozluk/internal/middleware"
	"sozluk/internal/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps a service error category to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrLoginRequired):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrSelfVote), errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RenderError writes the JSON error body. Internal failures are logged and
// reported without detail.
func RenderError(c *gin.Context, err error) {
	code := statusFor(err)
	message := msg(err)
	if code == http.StatusInternalServerError {
		middleware.Logf(c, "%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "something went wrong"
	}
	c.JSON(code, gin.H{"success": false, "message": message})
}

func msg(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// requestValue reads a form field, falling back to the query string.
func requestValue(c *gin.Context, key string) string {
	if v, ok := c.GetPostForm(key); ok {
		return v
	}
	return c.Query(key)
}
