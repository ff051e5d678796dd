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

type CareLogInput struct {
	PetID                uuid.UUID            `json:"petId" binding:"required"`
	Type                 models.CareLogType   `json:"type" binding:"required"`
	Title                string               `json:"title"`
	Date                 string               `json:"date" binding:"required"`
	NextDueDate          string               `json:"nextDueDate"`
	Status               models.CareLogStatus `json:"status"`
	Notes                string               `json:"notes"`
	ReminderIntervalDays int                  `json:"reminderIntervalDays" binding:"min=0"`
	CreateReminder       bool                 `json:"createReminder"`
}

type CareLogController struct {
	CareLogs *services.CareLogService
	Pets     *services.PetService
}

func (cc *CareLogController) bind(c *gin.Context, userID uuid.UUID) (*CareLogInput, bool) {
	var input CareLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return nil, false
	}
	switch {
	case !input.Type.Valid():
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid care log type")
		return nil, false
	case input.Status != "" && !input.Status.Valid():
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status")
		return nil, false
	case !utils.ValidateDate(input.Date):
		utils.RespondWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return nil, false
	case input.NextDueDate != "" && !utils.ValidateDate(input.NextDueDate):
		utils.RespondWithError(c, http.StatusBadRequest, "nextDueDate must be YYYY-MM-DD")
		return nil, false
	}
	if _, err := cc.Pets.Get(c.Request.Context(), userID, input.PetID); err != nil {
		respondServiceError(c, err)
		return nil, false
	}
	return &input, true
}

func (in *CareLogInput) model(id uuid.UUID) *models.CareLog {
	return &models.CareLog{
		ID:                   id,
		PetID:                in.PetID,
		Type:                 in.Type,
		Title:                in.Title,
		Date:                 in.Date,
		NextDueDate:          in.NextDueDate,
		Status:               in.Status,
		Notes:                in.Notes,
		ReminderIntervalDays: in.ReminderIntervalDays,
	}
}

func (cc *CareLogController) save(c *gin.Context, userID, id uuid.UUID, input *CareLogInput, status int) {
	careLog, reminder, err := cc.CareLogs.Save(c.Request.Context(), userID, input.model(id), input.CreateReminder)
	if errors.Is(err, services.ErrReminderSync) {
		// the log itself was stored
		c.JSON(status, gin.H{"careLog": careLog, "reminder": nil, "warning": err.Error()})
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(status, gin.H{"careLog": careLog, "reminder": reminder})
}

func (cc *CareLogController) CreateCareLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	input, ok := cc.bind(c, userID)
	if !ok {
		return
	}
	cc.save(c, userID, uuid.Nil, input, http.StatusCreated)
}

func (cc *CareLogController) GetCareLogs(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	logs, err := cc.CareLogs.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch care logs")
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (cc *CareLogController) UpdateCareLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	input, ok := cc.bind(c, userID)
	if !ok {
		return
	}
	cc.save(c, userID, id, input, http.StatusOK)
}

func (cc *CareLogController) DeleteCareLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := cc.CareLogs.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Care log deleted successfully"})
}
