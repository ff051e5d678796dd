// controllers/reminder.go
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

type CreateReminderInput struct {
	PetID                    uuid.UUID              `json:"petId" binding:"required"`
	Type                     models.ReminderType    `json:"type" binding:"required"`
	Title                    string                 `json:"title" binding:"required"`
	Description              string                 `json:"description"`
	DueDate                  string                 `json:"dueDate" binding:"required"`
	Priority                 models.Priority        `json:"priority"`
	Recurrence               models.Recurrence      `json:"recurrence"`
	CustomRecurrenceInterval *int                   `json:"customRecurrenceInterval"`
	CustomRecurrenceUnit     *models.RecurrenceUnit `json:"customRecurrenceUnit"`
	ReminderIntervalDays     int                    `json:"reminderIntervalDays" binding:"min=0"`
	MedicationTimes          []string               `json:"medicationTimes"`
	FileURLs                 []string               `json:"fileUrls"`
}

// UpdateReminderInput uses pointers so omitted fields are left alone
type UpdateReminderInput struct {
	PetID                    *uuid.UUID             `json:"petId"`
	Type                     *models.ReminderType   `json:"type"`
	Title                    *string                `json:"title"`
	Description              *string                `json:"description"`
	DueDate                  *string                `json:"dueDate"`
	Priority                 *models.Priority       `json:"priority"`
	Status                   *models.ReminderStatus `json:"status"`
	Recurrence               *models.Recurrence     `json:"recurrence"`
	CustomRecurrenceInterval *int                   `json:"customRecurrenceInterval"`
	CustomRecurrenceUnit     *models.RecurrenceUnit `json:"customRecurrenceUnit"`
	ReminderIntervalDays     *int                   `json:"reminderIntervalDays" binding:"omitempty,min=0"`
	MedicationTimes          *[]string              `json:"medicationTimes"`
	FileURLs                 *[]string              `json:"fileUrls"`
	NotificationSent         *bool                  `json:"notificationSent"`
}

type ReminderController struct {
	Reminders *services.ReminderService
	Pets      *services.PetService
	Users     *services.UserService
}

// validateReminderFields returns a client-facing message for the first bad
// field, or "".
func validateReminderFields(typ *models.ReminderType, title, dueDate *string, priority *models.Priority, status *models.ReminderStatus,
	rec *models.Recurrence, unit *models.RecurrenceUnit, interval *int, medTimes *[]string) string {
	switch {
	case typ != nil && !typ.Valid():
		return "Invalid reminder type"
	case title != nil && *title == "":
		return "title cannot be empty"
	case dueDate != nil && !utils.ValidateDate(*dueDate):
		return "dueDate must be YYYY-MM-DD"
	case priority != nil && *priority != "" && !priority.Valid():
		return "Invalid priority"
	case status != nil && !status.Valid():
		return "Invalid status"
	case rec != nil && *rec != "" && !rec.Valid():
		return "Invalid recurrence"
	case unit != nil && !unit.Valid():
		return "Invalid customRecurrenceUnit"
	case interval != nil && *interval <= 0:
		return "customRecurrenceInterval must be positive"
	}
	if medTimes != nil {
		for _, t := range *medTimes {
			if !utils.ValidateClock(t) {
				return "medicationTimes must be HH:MM"
			}
		}
	}
	return ""
}

func (rc *ReminderController) CreateReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	user, err := rc.Users.Get(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !user.CanUseReminders() {
		utils.RespondWithError(c, http.StatusForbidden, "Reminders require a premium subscription")
		return
	}

	var input CreateReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if msg := validateReminderFields(&input.Type, &input.Title, &input.DueDate, &input.Priority, nil,
		&input.Recurrence, input.CustomRecurrenceUnit, input.CustomRecurrenceInterval, &input.MedicationTimes); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}
	if input.Recurrence == models.RecurrenceCustom && (input.CustomRecurrenceInterval == nil || input.CustomRecurrenceUnit == nil) {
		utils.RespondWithError(c, http.StatusBadRequest, "customRecurrenceInterval and customRecurrenceUnit are required for custom recurrence")
		return
	}
	if _, err := rc.Pets.Get(c.Request.Context(), userID, input.PetID); err != nil {
		respondServiceError(c, err)
		return
	}

	reminder, err := rc.Reminders.Create(c.Request.Context(), userID, &models.Reminder{
		PetID:                    input.PetID,
		Type:                     input.Type,
		Title:                    input.Title,
		Description:              input.Description,
		DueDate:                  input.DueDate,
		Priority:                 input.Priority,
		Recurrence:               input.Recurrence,
		CustomRecurrenceInterval: input.CustomRecurrenceInterval,
		CustomRecurrenceUnit:     input.CustomRecurrenceUnit,
		ReminderIntervalDays:     input.ReminderIntervalDays,
		MedicationTimes:          models.StringList(input.MedicationTimes),
		FileURLs:                 models.StringList(input.FileURLs),
	})
	if errors.Is(err, services.ErrCustomRecurrenceIncomplete) {
		respondServiceError(c, err)
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create reminder")
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

func (rc *ReminderController) GetReminders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	reminders, err := rc.Reminders.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch reminders")
		return
	}
	c.JSON(http.StatusOK, reminders)
}

func (rc *ReminderController) GetReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	reminder, err := rc.Reminders.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// loadEditable fetches the reminder and refuses ones owned by an appointment
// or care log; those change through their source.
func (rc *ReminderController) loadEditable(c *gin.Context, userID, id uuid.UUID) bool {
	reminder, err := rc.Reminders.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if reminder.IsSourceOwned() {
		utils.RespondWithError(c, http.StatusConflict, "Reminder is managed by its "+string(*reminder.RelatedEntityType))
		return false
	}
	return true
}

func (rc *ReminderController) UpdateReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input UpdateReminderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if msg := validateReminderFields(input.Type, input.Title, input.DueDate, input.Priority, input.Status,
		input.Recurrence, input.CustomRecurrenceUnit, input.CustomRecurrenceInterval, input.MedicationTimes); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}
	if !rc.loadEditable(c, userID, id) {
		return
	}
	if input.PetID != nil {
		if _, err := rc.Pets.Get(c.Request.Context(), userID, *input.PetID); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	reminder, err := rc.Reminders.Update(c.Request.Context(), userID, id, services.ReminderPatch{
		PetID:                    input.PetID,
		Type:                     input.Type,
		Title:                    input.Title,
		Description:              input.Description,
		DueDate:                  input.DueDate,
		Priority:                 input.Priority,
		Status:                   input.Status,
		Recurrence:               input.Recurrence,
		CustomRecurrenceInterval: input.CustomRecurrenceInterval,
		CustomRecurrenceUnit:     input.CustomRecurrenceUnit,
		ReminderIntervalDays:     input.ReminderIntervalDays,
		MedicationTimes:          input.MedicationTimes,
		FileURLs:                 input.FileURLs,
		NotificationSent:         input.NotificationSent,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminder)
}

func (rc *ReminderController) AcknowledgeReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	reminder, err := rc.Reminders.Acknowledge(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// CompleteReminder closes the current occurrence. When the service advanced a
// recurring reminder, the new occurrence is returned as "next".
func (rc *ReminderController) CompleteReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	done, next, err := rc.Reminders.Complete(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminder": done, "next": next})
}

func (rc *ReminderController) DeleteReminder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if !rc.loadEditable(c, userID, id) {
		return
	}
	if err := rc.Reminders.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reminder deleted successfully"})
}
