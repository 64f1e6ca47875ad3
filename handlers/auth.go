package handlers

import (
	"errors"
	"net/http"

	"gclient/middleware"
	"gclient/models"
	"gclient/services/user"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	UserService user.UserService
}

func NewUserHandler(svc user.UserService) *UserHandler {
	return &UserHandler{UserService: svc}
}

// userErrorStatus maps user service errors to HTTP statuses.
func userErrorStatus(err error) int {
	var weak user.WeakPasswordError
	switch {
	case errors.As(err, &weak),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrInvalidCode),
		errors.Is(err, user.ErrAlreadyVerified):
		return http.StatusBadRequest
	case errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, user.ErrNotVerified), errors.Is(err, user.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, user.ErrTooManyRequests):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

func respondUserError(c *gin.Context, message string, err error) {
	status := userErrorStatus(err)
	if status == http.StatusInternalServerError {
		utils.JSONError(c, status, message, "please try again later")
		getLogger(c).Error(message, zap.Error(err))
		return
	}
	utils.JSONError(c, status, err.Error(), "")
}

// RegisterAdminHandler handles POST /api/auth/signup/admin.
func (h *UserHandler) RegisterAdminHandler(c *gin.Context) {
	h.register(c, models.RoleAdmin)
}

// RegisterLearnerHandler handles POST /api/auth/signup/learner.
func (h *UserHandler) RegisterLearnerHandler(c *gin.Context) {
	h.register(c, models.RoleLearner)
}

func (h *UserHandler) register(c *gin.Context, role string) {
	logger := getLogger(c)

	var req models.UserRegistrationData
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid registration request", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	usr, err := h.UserService.Register(c.Request.Context(), role, req)
	if err != nil {
		respondUserError(c, "Registration failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Account created. A verification code has been sent to your email",
		"user":    usr.Summary(),
	})
}

// VerifyEmailHandler handles POST /api/auth/verify-email.
func (h *UserHandler) VerifyEmailHandler(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	resp, err := h.UserService.VerifyEmail(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		respondUserError(c, "Email verification failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Email verified successfully", "user": resp})
}

// ResendVerificationHandler handles POST /api/auth/resend-token.
func (h *UserHandler) ResendVerificationHandler(c *gin.Context) {
	var req models.EmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	if err := h.UserService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		respondUserError(c, "Could not resend verification code", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "A new verification code has been sent to your email"})
}

// LoginHandler handles POST /api/auth/login.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	resp, err := h.UserService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondUserError(c, "Login failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "user": resp})
}

// CheckAuthHandler handles GET /api/auth/check-auth.
func (h *UserHandler) CheckAuthHandler(c *gin.Context) {
	userID, _, _ := middleware.ActorFromContext(c)
	usr, err := h.UserService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondUserError(c, "Could not load account", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Authenticated", "user": usr})
}

// UpdateFCMTokenHandler handles PUT /api/auth/fcm-token.
func (h *UserHandler) UpdateFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"fcmToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	userID, _, _ := middleware.ActorFromContext(c)
	if err := h.UserService.UpdateFCMToken(c.Request.Context(), userID, req.Token); err != nil {
		respondUserError(c, "Could not save push token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Push token saved"})
}

// ListUsersHandler handles GET /api/auth/users?role=.
func (h *UserHandler) ListUsersHandler(c *gin.Context) {
	users, err := h.UserService.GetAllUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		respondUserError(c, "Could not list users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Users retrieved successfully", "count": len(users), "users": users})
}

// SetUserStatusHandler handles PUT /api/auth/users/:id/status.
func (h *UserHandler) SetUserStatusHandler(c *gin.Context) {
	var req struct {
		Disabled *bool `json:"disabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	u, err := h.UserService.SetDisabled(c.Request.Context(), c.Param("id"), *req.Disabled)
	if err != nil {
		respondUserError(c, "Could not update account status", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Account status updated", "user": u})
}
