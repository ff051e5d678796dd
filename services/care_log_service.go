package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petcare-backend/models"
	"petcare-backend/store"
	"petcare-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCareLogNotFound     = errors.New("care log not found")
	ErrNextDueDateRequired = errors.New("a next due date is required to create a reminder")
	ErrReminderSync        = errors.New("saved, but its reminder could not be synced")
)

type CareLogService struct {
	store     store.Store
	reminders *ReminderService
	logger    *zap.Logger
	location  *time.Location
	now       func() time.Time
}

func NewCareLogService(s store.Store, reminders *ReminderService, logger *zap.Logger, loc *time.Location) *CareLogService {
	if loc == nil {
		loc = time.Local
	}
	return &CareLogService{store: s, reminders: reminders, logger: logger, location: loc, now: time.Now}
}

// today is the current date on the owner's wall clock.
func (s *CareLogService) today(ctx context.Context, userID uuid.UUID) string {
	return utils.Today(s.now().In(ownerLocation(ctx, s.store, userID, s.location)))
}

// defaultStatus fills in a status for a care log saved without one.
func defaultStatus(l *models.CareLog, today string) models.CareLogStatus {
	switch {
	case l.NextDueDate == "":
		return models.CareLogStatusCompleted
	case l.NextDueDate < today:
		return models.CareLogStatusOverdue
	default:
		return models.CareLogStatusUpcoming
	}
}

func (s *CareLogService) Get(ctx context.Context, userID, id uuid.UUID) (*models.CareLog, error) {
	var found []models.CareLog
	if err := s.store.Filter(ctx, &found, map[string]interface{}{"id": id, "user_id": userID}, ""); err != nil {
		return nil, fmt.Errorf("get care log: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrCareLogNotFound
	}
	return &found[0], nil
}

// ListForUser returns the user's care logs, soonest next due date first.
func (s *CareLogService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.CareLog, error) {
	var logs []models.CareLog
	if err := s.store.Filter(ctx, &logs, map[string]interface{}{"user_id": userID}, "next_due_date asc, created_at asc"); err != nil {
		return nil, fmt.Errorf("list care logs: %w", err)
	}
	return logs, nil
}

func careLogReminder(l *models.CareLog) *models.Reminder {
	title := l.Title
	if title == "" {
		title = careLabel(string(l.Type))
	}
	return &models.Reminder{
		PetID:                l.PetID,
		Type:                 l.Type.ReminderType(),
		Title:                title + " due",
		Description:          l.Notes,
		DueDate:              l.NextDueDate,
		ReminderIntervalDays: l.ReminderIntervalDays,
	}
}

// Save creates the care log, or updates it when l.ID is set. With
// createReminder the log's reminder is created or updated in place; without
// it, a reminder the log created earlier is removed.
func (s *CareLogService) Save(ctx context.Context, userID uuid.UUID, l *models.CareLog, createReminder bool) (*models.CareLog, *models.Reminder, error) {
	if createReminder && l.NextDueDate == "" {
		return nil, nil, ErrNextDueDateRequired
	}
	if l.Status == "" {
		l.Status = defaultStatus(l, s.today(ctx, userID))
	}
	l.UserID = userID

	existing := l.ID != uuid.Nil
	if !existing {
		if err := s.store.Create(ctx, l); err != nil {
			return nil, nil, fmt.Errorf("create care log: %w", err)
		}
	} else {
		if _, err := s.Get(ctx, userID, l.ID); err != nil {
			return nil, nil, err
		}
		fields := map[string]interface{}{
			"pet_id":                 l.PetID,
			"type":                   l.Type,
			"title":                  l.Title,
			"date":                   l.Date,
			"next_due_date":          l.NextDueDate,
			"status":                 l.Status,
			"notes":                  l.Notes,
			"reminder_interval_days": l.ReminderIntervalDays,
		}
		if err := s.store.Update(ctx, &models.CareLog{}, l.ID, fields); err != nil {
			return nil, nil, fmt.Errorf("update care log: %w", err)
		}
	}

	if !createReminder {
		if existing {
			if err := s.reminders.DeleteForSource(ctx, models.EntityTypeCareLog, l.ID); err != nil {
				return l, nil, fmt.Errorf("%w: %v", ErrReminderSync, err)
			}
		}
		return l, nil, nil
	}
	r, _, err := s.reminders.UpsertForSource(ctx, userID, models.EntityTypeCareLog, l.ID, careLogReminder(l))
	if err != nil {
		return l, nil, fmt.Errorf("%w: %v", ErrReminderSync, err)
	}
	return l, r, nil
}

// Delete removes the care log together with the reminder it created.
func (s *CareLogService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, &models.CareLog{}, id); err != nil {
		return fmt.Errorf("delete care log: %w", err)
	}
	return s.reminders.DeleteForSource(ctx, models.EntityTypeCareLog, id)
}

// RefreshOverdue flips upcoming care logs whose next due date has passed to
// overdue, judged by each owner's local date. It returns how many were changed.
func (s *CareLogService) RefreshOverdue(ctx context.Context) (int, error) {
	todayFor := make(map[uuid.UUID]string)
	var upcoming []models.CareLog
	if err := s.store.Filter(ctx, &upcoming, map[string]interface{}{"status": models.CareLogStatusUpcoming}, ""); err != nil {
		return 0, fmt.Errorf("load upcoming care logs: %w", err)
	}

	changed := 0
	for i := range upcoming {
		l := &upcoming[i]
		today, ok := todayFor[l.UserID]
		if !ok {
			today = s.today(ctx, l.UserID)
			todayFor[l.UserID] = today
		}
		if !CareLogOverdue(l, today) {
			continue
		}
		if err := s.store.Update(ctx, &models.CareLog{}, l.ID, map[string]interface{}{"status": models.CareLogStatusOverdue}); err != nil {
			s.logger.Warn("failed to mark care log overdue", zap.String("care_log_id", l.ID.String()), zap.Error(err))
			continue
		}
		changed++
	}
	CareLogsMarkedOverdue.Add(float64(changed))
	return changed, nil
}
