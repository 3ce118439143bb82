package handlers

import (
	"net/http"

	"github.com/fxlso/StockPrediction-Team1-Fall2025/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user registration and settings.
type UserHandler struct {
	users service.UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// NotificationsRequest toggles a notification flag.
type NotificationsRequest struct {
	Enabled *bool  `json:"enabled" binding:"required"`
	Type    string `json:"type,omitempty"`
}

// Register creates a user.
func (h *UserHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Get returns a user profile.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.GetUser(c.Request.Context(), userIDParam(c))
	if err != nil {
		respondServiceError(c, err, "failed to load user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// SetNotifications toggles the account-wide notification flag.
func (h *UserHandler) SetNotifications(c *gin.Context) {
	var req NotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "enabled must be a boolean")
		return
	}

	if err := h.users.SetNotifications(c.Request.Context(), userIDParam(c), *req.Enabled); err != nil {
		respondServiceError(c, err, "failed to update notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
