// controllers/auth.go
package controllers

import (
	"net/http"
	"time"

	"petcare-backend/models"
	"petcare-backend/services"
	"petcare-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
	Timezone string `json:"timezone"`
}

type LoginInput struct {
	Identifier string `json:"identifier" binding:"required"` // Can be email or phone
	Password   string `json:"password" binding:"required"`
}

// AuthController handles registration, login and the current user.
type AuthController struct {
	Users       *services.UserService
	Sweeps      *services.SweepOrchestrator
	Logger      *zap.Logger
	JWTSecret   string
	TokenExpiry time.Duration
}

func (ac *AuthController) issueToken(c *gin.Context, user *models.User) (string, bool) {
	token, err := utils.GenerateToken(user.ID.String(), ac.JWTSecret, ac.TokenExpiry)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return "", false
	}
	c.SetCookie("token", token, int(ac.TokenExpiry.Seconds()), "/", "", true, true)
	return token, true
}

func userResponse(u *models.User) gin.H {
	return gin.H{
		"id":                     u.ID,
		"email":                  u.Email,
		"name":                   u.Name,
		"phone":                  u.Phone,
		"role":                   u.Role,
		"premiumSubscriber":      u.PremiumSubscriber,
		"notificationPermission": u.NotificationPermission,
		"timezone":               u.Timezone,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Phone != "" && !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number")
		return
	}
	if input.Timezone != "" {
		if _, err := utils.LoadLocation(input.Timezone); err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid timezone")
			return
		}
	}

	user, err := ac.Users.Register(c.Request.Context(), &models.User{
		Email:    input.Email,
		Phone:    input.Phone,
		Name:     input.Name,
		Timezone: input.Timezone,
	}, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, ok := ac.issueToken(c, user)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user":    userResponse(user),
	})
}

// Login authenticates the user and schedules that login's notification sweep.
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := ac.Users.Authenticate(c.Request.Context(), input.Identifier, input.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	token, ok := ac.issueToken(c, user)
	if !ok {
		return
	}
	ac.Logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	if ac.Sweeps != nil {
		ac.Sweeps.OnLogin(c.Request.Context(), *user)
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse(user),
	})
}

func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := ac.Users.Get(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}

type NotificationPermissionInput struct {
	Permission models.NotificationPermission `json:"permission" binding:"required"`
}

// UpdateNotificationPermission records the permission state the client
// reports after asking the user.
func (ac *AuthController) UpdateNotificationPermission(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input NotificationPermissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	user, err := ac.Users.SetNotificationPermission(c.Request.Context(), userID, input.Permission)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
}
