package services

import (
	"context"
	"fmt"
	"time"

	"petcare-backend/models"
	"petcare-backend/utils"

	"go.uber.org/zap"
)

// SweepConfig bounds one login sweep.
type SweepConfig struct {
	Delay        time.Duration
	MaxReminders int
	MaxCareLogs  int
	Location     *time.Location
}

func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Delay:        2 * time.Second,
		MaxReminders: 3,
		MaxCareLogs:  2,
		Location:     time.Local,
	}
}

// SweepResult counts what one sweep dispatched.
type SweepResult struct {
	Skipped           bool
	RemindersNotified int
	CareLogsNotified  int
}

// SweepOrchestrator runs the login-time notification sweep.
type SweepOrchestrator struct {
	reminders  *ReminderService
	careLogs   *CareLogService
	pets       *PetService
	dispatcher *Dispatcher
	sender     PushSender
	logger     *zap.Logger
	cfg        SweepConfig
	now        func() time.Time
}

func NewSweepOrchestrator(reminders *ReminderService, careLogs *CareLogService, pets *PetService, dispatcher *Dispatcher, sender PushSender, logger *zap.Logger, cfg SweepConfig) *SweepOrchestrator {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &SweepOrchestrator{
		reminders:  reminders,
		careLogs:   careLogs,
		pets:       pets,
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (o *SweepOrchestrator) locationFor(user *models.User) *time.Location {
	if user.Timezone == "" {
		return o.cfg.Location
	}
	loc, err := utils.LoadLocation(user.Timezone)
	if err != nil {
		o.logger.Warn("ignoring user timezone", zap.String("user_id", user.ID.String()), zap.Error(err))
		return o.cfg.Location
	}
	return loc
}

// OnLogin schedules one sweep for the user after the configured delay. The
// sweep outlives the login request.
func (o *SweepOrchestrator) OnLogin(ctx context.Context, user models.User) *time.Timer {
	bg := context.WithoutCancel(ctx)
	return time.AfterFunc(o.cfg.Delay, func() {
		sess := NewSession(user.ID, o.now().In(o.locationFor(&user)))
		if _, err := o.Sweep(bg, sess, &user); err != nil {
			o.logger.Error("login sweep failed", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
	})
}

// Sweep notifies about due reminders and overdue care logs for the user.
// Nothing is sent unless notification permission is granted.
func (o *SweepOrchestrator) Sweep(ctx context.Context, sess *Session, user *models.User) (SweepResult, error) {
	var result SweepResult

	permission, err := o.sender.PermissionStatus(ctx, user.ID)
	if err != nil {
		o.logger.Warn("cannot read notification permission", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
	if err != nil || permission != models.PermissionGranted {
		result.Skipped = true
		SweepsTotal.WithLabelValues("skipped").Inc()
		return result, nil
	}

	pets, err := o.pets.ByID(ctx, user.ID)
	if err != nil {
		SweepsTotal.WithLabelValues("error").Inc()
		return result, fmt.Errorf("sweep pets: %w", err)
	}

	var due []models.Reminder
	if user.CanUseReminders() {
		all, err := o.reminders.ListForUser(ctx, user.ID)
		if err != nil {
			SweepsTotal.WithLabelValues("error").Inc()
			return result, fmt.Errorf("sweep reminders: %w", err)
		}
		for _, r := range all {
			if QualifiesForSweep(&r, sess.Today) {
				due = append(due, r)
			}
		}
	}

	logs, err := o.careLogs.ListForUser(ctx, user.ID)
	if err != nil {
		SweepsTotal.WithLabelValues("error").Inc()
		return result, fmt.Errorf("sweep care logs: %w", err)
	}
	var overdue []models.CareLog
	for _, l := range logs {
		if CareLogOverdue(&l, sess.Today) {
			overdue = append(overdue, l)
		}
	}

	if len(due) > o.cfg.MaxReminders {
		due = due[:o.cfg.MaxReminders]
	}
	if len(overdue) > o.cfg.MaxCareLogs {
		overdue = overdue[:o.cfg.MaxCareLogs]
	}

	for i := range due {
		pet := pets[due[i].PetID]
		if o.dispatcher.NotifyReminder(ctx, sess, &due[i], &pet) {
			result.RemindersNotified++
		}
	}
	for i := range overdue {
		pet := pets[overdue[i].PetID]
		if o.dispatcher.NotifyCareLog(ctx, sess, &overdue[i], &pet) {
			result.CareLogsNotified++
		}
	}

	SweepsTotal.WithLabelValues("completed").Inc()
	o.logger.Info("login sweep finished",
		zap.String("user_id", user.ID.String()),
		zap.String("today", sess.Today),
		zap.Int("reminders", result.RemindersNotified),
		zap.Int("care_logs", result.CareLogsNotified),
	)
	return result, nil
}
