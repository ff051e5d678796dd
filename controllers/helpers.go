package controllers

import (
	"errors"
	"net/http"

	"petcare-backend/services"
	"petcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID reads the id AuthMiddleware put on the context. It writes
// the error response itself when ok is false.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(utils.ContextUserID)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return uuid.Nil, false
	}
	s, _ := raw.(string)
	id, err := uuid.Parse(s)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}

func idParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service sentinel errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrReminderNotFound),
		errors.Is(err, services.ErrPetNotFound),
		errors.Is(err, services.ErrCareLogNotFound),
		errors.Is(err, services.ErrAppointmentNotFound),
		errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrReminderCompleted),
		errors.Is(err, services.ErrAlreadyRegistered):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNextDueDateRequired),
		errors.Is(err, services.ErrCustomRecurrenceIncomplete),
		errors.Is(err, services.ErrInvalidPermission):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.RespondWithError(c, http.StatusUnauthorized, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
