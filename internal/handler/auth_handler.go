package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/collegelink-api/internal/handler/dto"
	"github.com/yourusername/collegelink-api/internal/service"
)

// AuthHandler serves signup, email verification and session endpoints.
type AuthHandler struct {
	authService *service.AuthService
	tokenTTLHrs int
}

func NewAuthHandler(authService *service.AuthService, tokenTTLHrs int) *AuthHandler {
	if tokenTTLHrs <= 0 {
		tokenTTLHrs = 24
	}
	return &AuthHandler{authService: authService, tokenTTLHrs: tokenTTLHrs}
}

// SignupRequest is the registration payload. Field-level rules live in
// the service so every violation is reported in one pass.
type SignupRequest struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	UniversityName  string `json:"university_name"`
	Program         string `json:"program"`
	YearOfStudy     string `json:"year_of_study"`
}

// LoginRequest authenticates by email.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LegacyLoginRequest authenticates by email or full name.
type LegacyLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest carries the emailed verification token.
type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResendVerificationRequest asks for a fresh verification email.
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required"`
}

// UpdateProfileRequest carries editable profile fields. Pointers
// distinguish "not sent" from "set to empty".
type UpdateProfileRequest struct {
	FullName       *string `json:"full_name"`
	PhoneNumber    *string `json:"phone_number"`
	ProfilePicture *string `json:"profile_picture"`
	UniversityName *string `json:"university_name"`
	UniversityID   *string `json:"university_id"`
	Program        *string `json:"program"`
	YearOfStudy    *string `json:"year_of_study"`
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is required and must be JSON", "error_type": "bad_request"})
		return
	}

	result, err := h.authService.RegisterUser(c.Request.Context(), service.RegisterInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		UniversityName:  req.UniversityName,
		Program:         req.Program,
		YearOfStudy:     req.YearOfStudy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[AuthHandler] user id=%s (%s) registered, email_sent=%t", result.User.ID, result.User.Email, result.EmailSent)

	message := "Account created successfully. Please check your email to verify your account."
	if !result.EmailSent {
		if result.RequiresVerification {
			message = "Account created, but the verification email could not be sent. Use resend to try again."
		} else {
			message = "Account created successfully. Email verification is temporarily unavailable, but you can proceed to your dashboard."
		}
	}

	c.JSON(http.StatusCreated, dto.SignupResponse{
		Message:              message,
		RequiresVerification: result.RequiresVerification,
		EmailSent:            result.EmailSent,
		User:                 dto.NewUserDTO(result.User),
		AccessToken:          result.Token,
	})
}

// VerifyEmail handles POST /api/auth/verify-email.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token is required", "error_type": "bad_request"})
		return
	}

	result, err := h.authService.VerifyEmail(c.Request.Context(), req.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	log.Printf("[AuthHandler] user id=%s verified their email", result.User.ID)

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:        dto.NewUserDTO(result.User),
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   h.tokenTTLHrs * 3600,
	})
}

// ResendVerification handles POST /api/auth/resend-verification.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "University email is required", "error_type": "bad_request"})
		return
	}

	emailSent, err := h.authService.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Verification email sent successfully"
	if !emailSent {
		message = "A new verification token was issued, but the email could not be sent. Please try again later."
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "email_sent": emailSent})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required", "error_type": "bad_request"})
		return
	}

	result, err := h.authService.LoginUser(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:        dto.NewUserDTO(result.User),
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   h.tokenTTLHrs * 3600,
	})
}

// LegacyLogin handles POST /api/auth/login-legacy for clients that still
// send a username field matching either email or full name.
func (h *AuthHandler) LegacyLogin(c *gin.Context) {
	var req LegacyLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required", "error_type": "bad_request"})
		return
	}

	result, err := h.authService.LoginByIdentifier(req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthResponse{
		User:        dto.NewUserDTO(result.User),
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   h.tokenTTLHrs * 3600,
	})
}

// Logout handles POST /api/auth/logout. Revokes the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Authorization header format must be Bearer {token}", "error_type": "token_format"})
		return
	}

	if err := h.authService.Logout(parts[1]); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetProfile handles GET /api/auth/profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	user, err := h.authService.GetProfile(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserDTO(user)})
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body is required and must be JSON", "error_type": "bad_request"})
		return
	}

	updates := map[string]interface{}{}
	setIfPresent := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setIfPresent("full_name", req.FullName)
	setIfPresent("phone_number", req.PhoneNumber)
	setIfPresent("profile_picture", req.ProfilePicture)
	setIfPresent("university_name", req.UniversityName)
	setIfPresent("university_id", req.UniversityID)
	setIfPresent("program", req.Program)
	setIfPresent("year_of_study", req.YearOfStudy)

	user, err := h.authService.UpdateProfile(userID, updates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserDTO(user)})
}

// GetCollegeData handles GET /api/auth/college-data.
func (h *AuthHandler) GetCollegeData(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "error_type": "unauthorized"})
		return
	}

	data, err := h.authService.GetCollegeData(userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"college_data": data})
}
