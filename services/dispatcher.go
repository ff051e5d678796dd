package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"petcare-backend/models"
	"petcare-backend/store"
	"petcare-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	KindReminder  = "reminder"
	KindCareAlert = "care_alert"
)

// Session is the per-login state shared by a sweep and its dispatcher calls.
// It is not safe for concurrent use.
type Session struct {
	UserID   uuid.UUID
	Today    string
	Location *time.Location

	sent map[uuid.UUID]bool
}

func NewSession(userID uuid.UUID, now time.Time) *Session {
	return &Session{
		UserID:   userID,
		Today:    utils.Today(now),
		Location: now.Location(),
		sent:     make(map[uuid.UUID]bool),
	}
}

// markSent records id and reports whether it was new to this session.
func (s *Session) markSent(id uuid.UUID) bool {
	if s.sent[id] {
		return false
	}
	s.sent[id] = true
	return true
}

// Dispatcher formats notifications and hands them to the push sender.
// Delivery failures are logged and recorded, never returned.
type Dispatcher struct {
	sender    PushSender
	store     store.Store
	reminders *ReminderService
	logger    *zap.Logger
	appURL    string
}

func NewDispatcher(sender PushSender, s store.Store, reminders *ReminderService, logger *zap.Logger, appURL string) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		store:     s,
		reminders: reminders,
		logger:    logger,
		appURL:    strings.TrimRight(appURL, "/"),
	}
}

func careLabel(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return "care"
	}
	return s
}

func overdueSince(dueDate, today string) string {
	days, err := utils.DaysBetweenDates(dueDate, today)
	if err != nil || days <= 0 {
		return "was due on " + dueDate
	}
	if days == 1 {
		return "is 1 day overdue"
	}
	return fmt.Sprintf("is %d days overdue", days)
}

// reminderPayload picks care-alert wording for overdue reminders and plain
// reminder wording for ones due today. ok is false for upcoming reminders.
func (d *Dispatcher) reminderPayload(r *models.Reminder, pet *models.Pet, today string) (payload PushPayload, kind string, ok bool) {
	data := map[string]string{
		"reminder_id": r.ID.String(),
		"pet_id":      r.PetID.String(),
		"type":        string(r.Type),
		"due_date":    r.DueDate,
	}
	url := d.appURL + "/reminders"

	switch Classify(r.DueDate, today) {
	case DueOverdue:
		data["kind"] = KindCareAlert
		return PushPayload{
			Title: "⚠️ Care Alert: " + r.Title,
			Body:  fmt.Sprintf("%s's %s %s.", pet.Name, careLabel(string(r.Type)), overdueSince(r.DueDate, today)),
			Data:  data,
			URL:   url,
		}, KindCareAlert, true
	case DueToday:
		data["kind"] = KindReminder
		return PushPayload{
			Title: "🔔 Reminder: " + r.Title,
			Body:  fmt.Sprintf("%s for %s is due today.", r.Title, pet.Name),
			Data:  data,
			URL:   url,
		}, KindReminder, true
	case DueUpcoming:
		return PushPayload{}, "", false
	}
	return PushPayload{}, "", false
}

// NotifyReminder sends the notification for a due or overdue reminder. It
// reports whether a send was attempted.
func (d *Dispatcher) NotifyReminder(ctx context.Context, sess *Session, r *models.Reminder, pet *models.Pet) bool {
	payload, kind, ok := d.reminderPayload(r, pet, sess.Today)
	if !ok {
		return false
	}
	if !sess.markSent(r.ID) {
		return false
	}
	payload.TargetUserID = sess.UserID

	if d.deliver(ctx, payload, kind, "reminder", r.ID, r.PetID) && d.reminders != nil {
		if err := d.reminders.MarkNotificationSent(ctx, r.ID); err != nil {
			d.logger.Warn("failed to flag reminder as notified",
				zap.String("reminder_id", r.ID.String()), zap.Error(err))
		}
	}
	return true
}

// NotifyCareLog sends a care alert for an overdue care log.
func (d *Dispatcher) NotifyCareLog(ctx context.Context, sess *Session, l *models.CareLog, pet *models.Pet) bool {
	if !CareLogOverdue(l, sess.Today) {
		return false
	}
	if !sess.markSent(l.ID) {
		return false
	}

	label := careLabel(string(l.Type))
	payload := PushPayload{
		Title: "⚠️ Care Alert: " + pet.Name,
		Body:  fmt.Sprintf("%s's %s %s.", pet.Name, label, overdueSince(l.NextDueDate, sess.Today)),
		Data: map[string]string{
			"kind":        KindCareAlert,
			"care_log_id": l.ID.String(),
			"pet_id":      l.PetID.String(),
			"type":        string(l.Type),
			"due_date":    l.NextDueDate,
		},
		TargetUserID: sess.UserID,
		URL:          d.appURL + "/pets/" + l.PetID.String(),
	}
	d.deliver(ctx, payload, KindCareAlert, "care_log", l.ID, l.PetID)
	return true
}

func (d *Dispatcher) deliver(ctx context.Context, payload PushPayload, kind, entityType string, entityID, petID uuid.UUID) bool {
	result, err := d.sender.Send(ctx, payload)

	entry := models.NotificationLog{
		UserID:     payload.TargetUserID,
		PetID:      petID,
		EntityType: entityType,
		EntityID:   entityID,
		Kind:       kind,
		Title:      payload.Title,
		Body:       payload.Body,
		Status:     "sent",
		Channel:    result.Channel,
		SentAt:     time.Now(),
	}
	if err != nil {
		d.logger.Error("failed to send notification",
			zap.String("kind", kind),
			zap.String("entity_id", entityID.String()),
			zap.String("user_id", payload.TargetUserID.String()),
			zap.Error(err),
		)
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
	} else {
		d.logger.Info("notification sent",
			zap.String("kind", kind),
			zap.String("entity_id", entityID.String()),
			zap.String("channel", result.Channel),
			zap.String("message_id", result.MessageID),
		)
	}
	NotificationsTotal.WithLabelValues(kind, entry.Status).Inc()

	if logErr := d.store.Create(ctx, &entry); logErr != nil {
		d.logger.Warn("failed to log notification", zap.String("entity_id", entityID.String()), zap.Error(logErr))
	}
	return err == nil
}
