package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chathub/internal/result"
	apperrors "chathub/pkg/errors"
)

// respond translates a Result into the HTTP response shape. Callers own
// the success status (201 for creates, 200 otherwise).
func respond(c *gin.Context, successStatus int, res result.Result[any]) {
	if !res.Failed() {
		c.JSON(successStatus, gin.H{"data": res.Value()})
		return
	}
	err := res.Err()
	c.JSON(statusFor(err.Category), gin.H{"error": gin.H{
		"code":    err.Code,
		"message": err.Message,
	}})
}

func statusFor(category apperrors.Category) int {
	switch category {
	case apperrors.CategoryValidation:
		return http.StatusBadRequest
	case apperrors.CategoryNotFound:
		return http.StatusNotFound
	case apperrors.CategoryConflict:
		return http.StatusConflict
	case apperrors.CategoryUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CategoryForbidden:
		return http.StatusForbidden
	case apperrors.CategoryInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
