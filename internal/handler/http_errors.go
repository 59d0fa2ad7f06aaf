package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/collegelink-api/internal/pkg/errors"
	"github.com/yourusername/collegelink-api/internal/service"
)

// respondError maps service errors onto HTTP responses. Every workflow
// error gets its own status and error_type so clients can branch on it;
// anything unrecognized is an internal error the client can only retry.
func respondError(c *gin.Context, err error) {
	if ve, ok := service.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Validation failed",
			"error_type": "validation",
			"errors":     ve.Violations,
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{
			"error":      "This email address is already registered. Please use a different email or try logging in.",
			"error_type": "duplicate_email",
		})
	case errors.Is(err, service.ErrInvalidOrExpiredToken):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Invalid or expired verification token",
			"error_type": "invalid_or_expired_token",
		})
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "User not found",
			"error_type": "account_not_found",
		})
	case errors.Is(err, service.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Email already verified",
			"error_type": "already_verified",
		})
	case errors.Is(err, apperrors.ErrUnauthorized), errors.Is(err, apperrors.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":      "Invalid credentials",
			"error_type": "unauthorized",
		})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{
			"error":      err.Error(),
			"error_type": "forbidden",
		})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":      "Resource not found",
			"error_type": "not_found",
		})
	default:
		log.Printf("[Handler] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error. Please try again.",
			"error_type": "internal_error",
		})
	}
}

// currentUserID reads the account id set by the auth middleware.
func currentUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}
