package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"petcare-backend/models"
	"petcare-backend/store"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errPushDown = errors.New("push provider unavailable")

func newTestStore(t *testing.T) *store.GormStore {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Pet{},
		&models.Reminder{},
		&models.CareLog{},
		&models.Appointment{},
		&models.NotificationLog{},
	))
	return store.NewGormStore(db)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// fakeSender records payloads and fails when err is set.
type fakeSender struct {
	mu         sync.Mutex
	sent       []PushPayload
	err        error
	permission models.NotificationPermission
}

func (f *fakeSender) Send(_ context.Context, p PushPayload) (DeliveryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, p)
	if f.err != nil {
		return DeliveryResult{Channel: "fake"}, f.err
	}
	return DeliveryResult{Channel: "fake", MessageID: "msg-" + p.Data["reminder_id"] + p.Data["care_log_id"]}, nil
}

func (f *fakeSender) PermissionStatus(context.Context, uuid.UUID) (models.NotificationPermission, error) {
	if f.permission == "" {
		return models.PermissionGranted, nil
	}
	return f.permission, nil
}

func (f *fakeSender) payloads() []PushPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]PushPayload(nil), f.sent...)
}

type fixture struct {
	store        *store.GormStore
	users        *UserService
	pets         *PetService
	reminders    *ReminderService
	careLogs     *CareLogService
	appointments *AppointmentService
	sender       *fakeSender
	dispatcher   *Dispatcher
	sweeps       *SweepOrchestrator
}

// newFixture wires every service against one in-memory database with the
// clock pinned to now.
func newFixture(t *testing.T, now time.Time, autoAdvance bool) *fixture {
	t.Helper()
	s := newTestStore(t)
	log := zap.NewNop()
	loc := now.Location()

	f := &fixture{store: s, sender: &fakeSender{}}
	f.users = NewUserService(s)
	f.pets = NewPetService(s)
	f.reminders = NewReminderService(s, log, loc, autoAdvance)
	f.reminders.now = fixedClock(now)
	f.careLogs = NewCareLogService(s, f.reminders, log, loc)
	f.careLogs.now = fixedClock(now)
	f.appointments = NewAppointmentService(s, f.reminders)
	f.dispatcher = NewDispatcher(f.sender, s, f.reminders, log, "https://app.example.com/")
	f.sweeps = NewSweepOrchestrator(f.reminders, f.careLogs, f.pets, f.dispatcher, f.sender, log, SweepConfig{
		Delay:        10 * time.Millisecond,
		MaxReminders: 3,
		MaxCareLogs:  2,
		Location:     loc,
	})
	f.sweeps.now = fixedClock(now)
	return f
}

func (f *fixture) user(t *testing.T, premium bool) *models.User {
	t.Helper()
	u := &models.User{
		Email:                  uuid.NewString() + "@example.com",
		Password:               "not-a-real-hash",
		Name:                   "Owner",
		Phone:                  "+15550001111",
		PremiumSubscriber:      premium,
		NotificationPermission: models.PermissionGranted,
		IsActive:               true,
	}
	require.NoError(t, f.store.Create(context.Background(), u))
	return u
}

func (f *fixture) pet(t *testing.T, userID uuid.UUID, name string) *models.Pet {
	t.Helper()
	p, err := f.pets.Create(context.Background(), userID, &models.Pet{Name: name, Species: "dog"})
	require.NoError(t, err)
	return p
}

func (f *fixture) reminder(t *testing.T, userID, petID uuid.UUID, title, due string) *models.Reminder {
	t.Helper()
	r, err := f.reminders.Create(context.Background(), userID, &models.Reminder{
		PetID:   petID,
		Type:    models.ReminderTypeVaccination,
		Title:   title,
		DueDate: due,
	})
	require.NoError(t, err)
	return r
}
