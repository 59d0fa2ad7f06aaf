package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/collegelink-api/internal/service"
)

// CollegeHandler exposes the email classifier directly, so clients can
// pre-check an address before submitting the signup form.
type CollegeHandler struct {
	verifier *service.CollegeEmailVerifier
}

func NewCollegeHandler(verifier *service.CollegeEmailVerifier) *CollegeHandler {
	return &CollegeHandler{verifier: verifier}
}

// CollegeVerifyRequest carries the candidate address.
type CollegeVerifyRequest struct {
	Email string `json:"email" binding:"required"`
}

// VerifyEmail handles POST /api/college/verify-email.
func (h *CollegeHandler) VerifyEmail(c *gin.Context) {
	var req CollegeVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required", "error_type": "bad_request"})
		return
	}

	result := h.verifier.Verify(req.Email)
	c.JSON(http.StatusOK, result)
}
