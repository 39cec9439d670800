package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/neurofeedback-app/internal/registry"
	"alcyxob/neurofeedback-app/internal/service"
)

// abortWithServiceError maps service and registry errors to HTTP responses.
// Registry failures keep their numeric code in the body.
func abortWithServiceError(c *gin.Context, err error) {
	switch code := registry.CodeOf(err); code {
	case registry.CodeUnauthorized:
		// The caller is authenticated, just not the program's creator.
		abortWithCode(c, http.StatusForbidden, code, err.Error())
		return
	case registry.CodeNotFound:
		abortWithCode(c, http.StatusNotFound, code, err.Error())
		return
	case registry.CodeConflict:
		abortWithCode(c, http.StatusConflict, code, err.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrProgramNotFound), errors.Is(err, service.ErrEnrollmentNotFound):
		abortWithCode(c, http.StatusNotFound, registry.CodeNotFound, err.Error())
	case errors.Is(err, service.ErrMediaUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func abortWithCode(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}
