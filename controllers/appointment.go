package controllers

import (
	"errors"
	"net/http"

	"petcare-backend/models"
	"petcare-backend/services"
	"petcare-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AppointmentInput struct {
	PetID                uuid.UUID `json:"petId" binding:"required"`
	Title                string    `json:"title" binding:"required"`
	VetName              string    `json:"vetName"`
	Location             string    `json:"location"`
	Date                 string    `json:"date" binding:"required"`
	Time                 string    `json:"time"`
	Status               string    `json:"status" binding:"omitempty,oneof=scheduled completed cancelled"`
	Notes                string    `json:"notes"`
	ReminderIntervalDays int       `json:"reminderIntervalDays" binding:"min=0"`
	CreateReminder       bool      `json:"createReminder"`
}

type AppointmentController struct {
	Appointments *services.AppointmentService
	Pets         *services.PetService
}

func (ac *AppointmentController) bind(c *gin.Context, userID uuid.UUID) (*AppointmentInput, bool) {
	var input AppointmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return nil, false
	}
	if !utils.ValidateDate(input.Date) {
		utils.RespondWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return nil, false
	}
	if input.Time != "" && !utils.ValidateClock(input.Time) {
		utils.RespondWithError(c, http.StatusBadRequest, "time must be HH:MM")
		return nil, false
	}
	if _, err := ac.Pets.Get(c.Request.Context(), userID, input.PetID); err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return &input, true
}

func (ac *AppointmentController) save(c *gin.Context, userID, id uuid.UUID, input *AppointmentInput, status int) {
	appt := &models.Appointment{
		ID:                   id,
		PetID:                input.PetID,
		Title:                input.Title,
		VetName:              input.VetName,
		Location:             input.Location,
		Date:                 input.Date,
		Time:                 input.Time,
		Status:               input.Status,
		Notes:                input.Notes,
		ReminderIntervalDays: input.ReminderIntervalDays,
	}
	saved, reminder, err := ac.Appointments.Save(c.Request.Context(), userID, appt, input.CreateReminder)
	if errors.Is(err, services.ErrReminderSync) {
		c.JSON(status, gin.H{"appointment": saved, "reminder": nil, "warning": err.Error()})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(status, gin.H{"appointment": saved, "reminder": reminder})
}

func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	input, ok := ac.bind(c, userID)
	if !ok {
		return
	}
	ac.save(c, userID, uuid.Nil, input, http.StatusCreated)
}

func (ac *AppointmentController) GetAppointments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	appts, err := ac.Appointments.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch appointments")
		return
	}
	c.JSON(http.StatusOK, appts)
}

func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	input, ok := ac.bind(c, userID)
	if !ok {
		return
	}
	ac.save(c, userID, id, input, http.StatusOK)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := ac.Appointments.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted successfully"})
}
