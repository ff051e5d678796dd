package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petcare-backend/models"
	"petcare-backend/store"

	"github.com/google/uuid"
)

var ErrAppointmentNotFound = errors.New("appointment not found")

type AppointmentService struct {
	store     store.Store
	reminders *ReminderService
}

func NewAppointmentService(s store.Store, reminders *ReminderService) *AppointmentService {
	return &AppointmentService{store: s, reminders: reminders}
}

func (s *AppointmentService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Appointment, error) {
	var found []models.Appointment
	if err := s.store.Filter(ctx, &found, map[string]interface{}{"id": id, "user_id": userID}, ""); err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrAppointmentNotFound
	}
	return &found[0], nil
}

func (s *AppointmentService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Appointment, error) {
	var appts []models.Appointment
	if err := s.store.Filter(ctx, &appts, map[string]interface{}{"user_id": userID}, "date asc, time asc"); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func appointmentReminder(a *models.Appointment) *models.Reminder {
	var details []string
	if a.Time != "" {
		details = append(details, "at "+a.Time)
	}
	if a.VetName != "" {
		details = append(details, "with "+a.VetName)
	}
	if a.Location != "" {
		details = append(details, "("+a.Location+")")
	}
	return &models.Reminder{
		PetID:                a.PetID,
		Type:                 models.ReminderTypeAppointment,
		Title:                "Appointment: " + a.Title,
		Description:          strings.Join(details, " "),
		DueDate:              a.Date,
		ReminderIntervalDays: a.ReminderIntervalDays,
	}
}

// Save creates the appointment, or updates it when a.ID is set. With
// createReminder the appointment's reminder is created or updated in place,
// so saving the same appointment twice leaves one reminder. Re-saving without
// createReminder removes the reminder.
func (s *AppointmentService) Save(ctx context.Context, userID uuid.UUID, a *models.Appointment, createReminder bool) (*models.Appointment, *models.Reminder, error) {
	a.UserID = userID
	if a.Status == "" {
		a.Status = "scheduled"
	}

	existing := a.ID != uuid.Nil
	if !existing {
		if err := s.store.Create(ctx, a); err != nil {
			return nil, nil, fmt.Errorf("create appointment: %w", err)
		}
	} else {
		if _, err := s.Get(ctx, userID, a.ID); err != nil {
			return nil, nil, err
		}
		fields := map[string]interface{}{
			"pet_id":                 a.PetID,
			"title":                  a.Title,
			"vet_name":               a.VetName,
			"location":               a.Location,
			"date":                   a.Date,
			"time":                   a.Time,
			"status":                 a.Status,
			"notes":                  a.Notes,
			"reminder_interval_days": a.ReminderIntervalDays,
		}
		if err := s.store.Update(ctx, &models.Appointment{}, a.ID, fields); err != nil {
			return nil, nil, fmt.Errorf("update appointment: %w", err)
		}
	}

	if !createReminder {
		if existing {
			if err := s.reminders.DeleteForSource(ctx, models.EntityTypeAppointment, a.ID); err != nil {
				return a, nil, fmt.Errorf("%w: %v", ErrReminderSync, err)
			}
		}
		return a, nil, nil
	}
	r, _, err := s.reminders.UpsertForSource(ctx, userID, models.EntityTypeAppointment, a.ID, appointmentReminder(a))
	if err != nil {
		return a, nil, fmt.Errorf("%w: %v", ErrReminderSync, err)
	}
	return a, r, nil
}

// Delete removes the appointment together with the reminder it created.
func (s *AppointmentService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, &models.Appointment{}, id); err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return s.reminders.DeleteForSource(ctx, models.EntityTypeAppointment, id)
}
