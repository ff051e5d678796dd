// services/reminder_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"petcare-backend/models"
	"petcare-backend/store"
	"petcare-backend/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrReminderCompleted = errors.New("reminder already completed")

	ErrCustomRecurrenceIncomplete = errors.New("custom recurrence needs a positive interval and a unit")
)

// ReminderPatch carries a partial reminder update; nil fields are left alone.
type ReminderPatch struct {
	PetID                    *uuid.UUID
	Type                     *models.ReminderType
	Title                    *string
	Description              *string
	DueDate                  *string
	Priority                 *models.Priority
	Status                   *models.ReminderStatus
	Recurrence               *models.Recurrence
	CustomRecurrenceInterval *int
	CustomRecurrenceUnit     *models.RecurrenceUnit
	ReminderIntervalDays     *int
	MedicationTimes          *[]string
	FileURLs                 *[]string
	NotificationSent         *bool
}

type ReminderService struct {
	store       store.Store
	logger      *zap.Logger
	location    *time.Location
	autoAdvance bool
	now         func() time.Time

	sourceLocks keyedMutex
}

// NewReminderService builds the lifecycle manager. loc is the wall-clock zone
// used for owners without a timezone of their own; autoAdvance creates the
// next occurrence of a recurring reminder when one is completed.
func NewReminderService(s store.Store, logger *zap.Logger, loc *time.Location, autoAdvance bool) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{
		store:       s,
		logger:      logger,
		location:    loc,
		autoAdvance: autoAdvance,
		now:         time.Now,
	}
}

// ownerLocation returns the owner's wall-clock zone, or fallback when the
// owner has none or it cannot be loaded.
func ownerLocation(ctx context.Context, st store.Store, userID uuid.UUID, fallback *time.Location) *time.Location {
	var u models.User
	if err := st.Get(ctx, &u, userID); err != nil || u.Timezone == "" {
		return fallback
	}
	loc, err := utils.LoadLocation(u.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// normalize enforces the stored-shape invariants before every write. now is
// the owner's wall clock.
func normalize(r *models.Reminder, now time.Time) error {
	if r.Priority == "" {
		r.Priority = models.PriorityMedium
	}
	if r.Recurrence == "" {
		r.Recurrence = models.RecurrenceNone
	}
	if r.Recurrence == models.RecurrenceCustom {
		if r.CustomRecurrenceInterval == nil || *r.CustomRecurrenceInterval <= 0 ||
			r.CustomRecurrenceUnit == nil || !r.CustomRecurrenceUnit.Valid() {
			return ErrCustomRecurrenceIncomplete
		}
	} else {
		r.CustomRecurrenceInterval = nil
		r.CustomRecurrenceUnit = nil
	}
	if r.Type != models.ReminderTypeMedication {
		r.MedicationTimes = models.StringList{}
	}
	if r.UsesDoseOffset() && len(r.MedicationTimes) > 0 {
		r.ReminderTimesUTC = utils.ReminderTimesUTC(r.MedicationTimes, r.DoseOffsetMinutes(), now)
	} else {
		r.ReminderTimesUTC = models.StringList{}
	}
	if r.MedicationTimes == nil {
		r.MedicationTimes = models.StringList{}
	}
	if r.FileURLs == nil {
		r.FileURLs = models.StringList{}
	}
	return nil
}

func (s *ReminderService) ownerNow(ctx context.Context, userID uuid.UUID) time.Time {
	return s.now().In(ownerLocation(ctx, s.store, userID, s.location))
}

// withDerived fills the read-only fields computed from stored columns.
func withDerived(r *models.Reminder) *models.Reminder {
	r.RecurrenceLabel = utils.ReminderRecurrenceLabel(r)
	r.DoseOffsetMins = r.DoseOffsetMinutes()
	r.RemindDaysBefore = r.ReminderOffsetDays()
	return r
}

// Create stores a new reminder as pending with notification_sent cleared.
// Required fields are checked by the caller.
func (s *ReminderService) Create(ctx context.Context, userID uuid.UUID, r *models.Reminder) (*models.Reminder, error) {
	r.ID = uuid.Nil
	r.CreatedAt, r.UpdatedAt = time.Time{}, time.Time{}
	r.UserID = userID
	r.Status = models.ReminderStatusPending
	r.NotificationSent = false
	if err := normalize(r, s.ownerNow(ctx, userID)); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create reminder: %w", err)
	}
	s.logger.Info("reminder created",
		zap.String("reminder_id", r.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("type", string(r.Type)),
		zap.String("due_date", r.DueDate),
	)
	return withDerived(r), nil
}

// Get loads one of the user's reminders.
func (s *ReminderService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Reminder, error) {
	var found []models.Reminder
	if err := s.store.Filter(ctx, &found, map[string]interface{}{"id": id, "user_id": userID}, ""); err != nil {
		return nil, fmt.Errorf("get reminder: %w", err)
	}
	if len(found) == 0 {
		return nil, ErrReminderNotFound
	}
	return withDerived(&found[0]), nil
}

// ListForUser returns the user's reminders in due-date order.
func (s *ReminderService) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Reminder, error) {
	var reminders []models.Reminder
	if err := s.store.Filter(ctx, &reminders, map[string]interface{}{"user_id": userID}, "due_date asc, created_at asc"); err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	for i := range reminders {
		withDerived(&reminders[i])
	}
	return reminders, nil
}

func applyPatch(r *models.Reminder, p ReminderPatch) {
	if p.PetID != nil {
		r.PetID = *p.PetID
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.DueDate != nil {
		r.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		r.Priority = *p.Priority
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Recurrence != nil {
		r.Recurrence = *p.Recurrence
	}
	if p.CustomRecurrenceInterval != nil {
		v := *p.CustomRecurrenceInterval
		r.CustomRecurrenceInterval = &v
	}
	if p.CustomRecurrenceUnit != nil {
		v := *p.CustomRecurrenceUnit
		r.CustomRecurrenceUnit = &v
	}
	if p.ReminderIntervalDays != nil {
		r.ReminderIntervalDays = *p.ReminderIntervalDays
	}
	if p.MedicationTimes != nil {
		r.MedicationTimes = models.StringList(*p.MedicationTimes)
	}
	if p.FileURLs != nil {
		r.FileURLs = models.StringList(*p.FileURLs)
	}
	if p.NotificationSent != nil {
		r.NotificationSent = *p.NotificationSent
	}
}

func reminderColumns(r *models.Reminder) map[string]interface{} {
	return map[string]interface{}{
		"pet_id":                     r.PetID,
		"type":                       r.Type,
		"title":                      r.Title,
		"description":                r.Description,
		"due_date":                   r.DueDate,
		"priority":                   r.Priority,
		"status":                     r.Status,
		"recurrence":                 r.Recurrence,
		"custom_recurrence_interval": r.CustomRecurrenceInterval,
		"custom_recurrence_unit":     r.CustomRecurrenceUnit,
		"reminder_interval_days":     r.ReminderIntervalDays,
		"medication_times":           r.MedicationTimes,
		"reminder_times_utc":         r.ReminderTimesUTC,
		"notification_sent":          r.NotificationSent,
		"file_urls":                  r.FileURLs,
	}
}

// Update merges patch into the reminder. Status is not gated here; the
// dedicated Acknowledge and Complete transitions are.
func (s *ReminderService) Update(ctx context.Context, userID, id uuid.UUID, patch ReminderPatch) (*models.Reminder, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	applyPatch(r, patch)
	if err := normalize(r, s.ownerNow(ctx, r.UserID)); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, &models.Reminder{}, r.ID, reminderColumns(r)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("update reminder: %w", err)
	}
	return withDerived(r), nil
}

func (s *ReminderService) setStatus(ctx context.Context, userID, id uuid.UUID, status models.ReminderStatus) (*models.Reminder, error) {
	r, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if r.Status == models.ReminderStatusCompleted {
		return nil, ErrReminderCompleted
	}
	if err := s.store.Update(ctx, &models.Reminder{}, id, map[string]interface{}{"status": status}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("set reminder status: %w", err)
	}
	r.Status = status
	return r, nil
}

// Acknowledge marks a pending reminder as seen. It stays in the user's list.
func (s *ReminderService) Acknowledge(ctx context.Context, userID, id uuid.UUID) (*models.Reminder, error) {
	return s.setStatus(ctx, userID, id, models.ReminderStatusAcknowledged)
}

// Complete closes the reminder's current occurrence. With auto-advance on, a
// recurring user-owned reminder gets a fresh pending reminder for its next
// occurrence after today; that reminder is returned as next.
func (s *ReminderService) Complete(ctx context.Context, userID, id uuid.UUID) (done *models.Reminder, next *models.Reminder, err error) {
	done, err = s.setStatus(ctx, userID, id, models.ReminderStatusCompleted)
	if err != nil {
		return nil, nil, err
	}
	if !s.autoAdvance || done.IsSourceOwned() {
		return done, nil, nil
	}

	interval := 0
	var unit models.RecurrenceUnit
	if done.CustomRecurrenceInterval != nil {
		interval = *done.CustomRecurrenceInterval
	}
	if done.CustomRecurrenceUnit != nil {
		unit = *done.CustomRecurrenceUnit
	}
	today := utils.Today(s.ownerNow(ctx, userID))
	nextDue, ok, err := utils.NextDueDateAfter(done.DueDate, today, done.Recurrence, interval, unit)
	if err != nil {
		s.logger.Warn("cannot advance reminder", zap.String("reminder_id", id.String()), zap.Error(err))
		return done, nil, nil
	}
	if !ok {
		return done, nil, nil
	}

	following := *done
	following.DueDate = nextDue
	following.MedicationTimes = append(models.StringList{}, done.MedicationTimes...)
	following.FileURLs = append(models.StringList{}, done.FileURLs...)
	next, err = s.Create(ctx, userID, &following)
	if err != nil {
		return done, nil, fmt.Errorf("advance reminder: %w", err)
	}
	return done, next, nil
}

// Delete hard-deletes the reminder whatever its status.
func (s *ReminderService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, &models.Reminder{}, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReminderNotFound
		}
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

// FindByBackReference returns the reminders auto-created by a source entity.
func (s *ReminderService) FindByBackReference(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) ([]models.Reminder, error) {
	var found []models.Reminder
	where := map[string]interface{}{
		"related_entity_type": entityType,
		"related_entity_id":   entityID,
	}
	if err := s.store.Filter(ctx, &found, where, "created_at asc"); err != nil {
		return nil, fmt.Errorf("find reminder by back-reference: %w", err)
	}
	for i := range found {
		withDerived(&found[i])
	}
	return found, nil
}

// UpsertForSource updates the reminder a source entity already owns, or
// creates it. Calls for the same source are serialised in-process and the
// unique back-reference index rejects a duplicate from another process.
func (s *ReminderService) UpsertForSource(ctx context.Context, userID uuid.UUID, entityType models.EntityType, entityID uuid.UUID, fields *models.Reminder) (r *models.Reminder, created bool, err error) {
	unlock := s.sourceLocks.Lock(string(entityType) + ":" + entityID.String())
	defer unlock()

	existing, err := s.FindByBackReference(ctx, entityType, entityID)
	if err != nil {
		return nil, false, err
	}

	if len(existing) == 0 {
		et, eid := entityType, entityID
		fields.RelatedEntityType = &et
		fields.RelatedEntityID = &eid
		r, err = s.Create(ctx, userID, fields)
		return r, err == nil, err
	}

	current := existing[0]
	petID := fields.PetID
	patch := ReminderPatch{
		PetID:                &petID,
		Type:                 &fields.Type,
		Title:                &fields.Title,
		Description:          &fields.Description,
		DueDate:              &fields.DueDate,
		ReminderIntervalDays: &fields.ReminderIntervalDays,
	}
	if fields.Priority != "" {
		patch.Priority = &fields.Priority
	}
	r, err = s.Update(ctx, current.UserID, current.ID, patch)
	return r, false, err
}

// DeleteForSource removes whatever reminder the source entity owns.
func (s *ReminderService) DeleteForSource(ctx context.Context, entityType models.EntityType, entityID uuid.UUID) error {
	existing, err := s.FindByBackReference(ctx, entityType, entityID)
	if err != nil {
		return err
	}
	for _, r := range existing {
		if err := s.store.Delete(ctx, &models.Reminder{}, r.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("delete source reminder: %w", err)
		}
	}
	return nil
}

// MarkNotificationSent sets the best-effort de-duplication flag.
func (s *ReminderService) MarkNotificationSent(ctx context.Context, id uuid.UUID) error {
	return s.store.Update(ctx, &models.Reminder{}, id, map[string]interface{}{"notification_sent": true})
}

// keyedMutex hands out one mutex per key and forgets it once unused.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
