package services

import (
	"context"
	"testing"

	"petcare-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNotifyReminderFormatting(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, true)
	p := f.pet(t, u.ID, "Rex")
	sess := NewSession(u.ID, testNow)

	overdue := f.reminder(t, u.ID, p.ID, "Rabies booster", "2024-06-12")
	today := f.reminder(t, u.ID, p.ID, "Bath", "2024-06-15")
	upcoming := f.reminder(t, u.ID, p.ID, "Grooming", "2024-06-20")

	assert.True(t, f.dispatcher.NotifyReminder(ctx, sess, overdue, p))
	assert.True(t, f.dispatcher.NotifyReminder(ctx, sess, today, p))
	assert.False(t, f.dispatcher.NotifyReminder(ctx, sess, upcoming, p))

	sent := f.sender.payloads()
	require.Len(t, sent, 2)

	assert.Equal(t, "⚠️ Care Alert: Rabies booster", sent[0].Title)
	assert.Equal(t, "Rex's vaccination is 3 days overdue.", sent[0].Body)
	assert.Equal(t, KindCareAlert, sent[0].Data["kind"])
	assert.Equal(t, u.ID, sent[0].TargetUserID)
	assert.Equal(t, "https://app.example.com/reminders", sent[0].URL)

	assert.Equal(t, "🔔 Reminder: Bath", sent[1].Title)
	assert.Equal(t, "Bath for Rex is due today.", sent[1].Body)
	assert.Equal(t, KindReminder, sent[1].Data["kind"])

	stored, err := f.reminders.Get(ctx, u.ID, today.ID)
	require.NoError(t, err)
	assert.True(t, stored.NotificationSent)
}

func TestNotifyReminderOncePerSession(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, true)
	p := f.pet(t, u.ID, "Rex")
	r := f.reminder(t, u.ID, p.ID, "Bath", "2024-06-15")

	sess := NewSession(u.ID, testNow)
	assert.True(t, f.dispatcher.NotifyReminder(ctx, sess, r, p))
	assert.False(t, f.dispatcher.NotifyReminder(ctx, sess, r, p))
	assert.Len(t, f.sender.payloads(), 1)

	next := NewSession(u.ID, testNow)
	assert.True(t, f.dispatcher.NotifyReminder(ctx, next, r, p), "a new login starts a new session")
	assert.Len(t, f.sender.payloads(), 2)
}

func TestNotifyCareLog(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.pet(t, u.ID, "Luna")
	sess := NewSession(u.ID, testNow)

	l := &models.CareLog{ID: uuid.New(), PetID: p.ID, Type: models.CareLogTypeVetVisit, NextDueDate: "2024-06-14", Status: models.CareLogStatusUpcoming}
	assert.True(t, f.dispatcher.NotifyCareLog(ctx, sess, l, p))
	assert.False(t, f.dispatcher.NotifyCareLog(ctx, sess, l, p))

	dueToday := &models.CareLog{ID: uuid.New(), PetID: p.ID, Type: models.CareLogTypeGrooming, NextDueDate: "2024-06-15", Status: models.CareLogStatusUpcoming}
	assert.False(t, f.dispatcher.NotifyCareLog(ctx, sess, dueToday, p))

	sent := f.sender.payloads()
	require.Len(t, sent, 1)
	assert.Equal(t, "⚠️ Care Alert: Luna", sent[0].Title)
	assert.Equal(t, "Luna's vet visit is 1 day overdue.", sent[0].Body)
	assert.Equal(t, "https://app.example.com/pets/"+p.ID.String(), sent[0].URL)
}

func TestDispatcherSwallowsSendFailure(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	core, logs := observer.New(zapcore.InfoLevel)
	f.sender.err = errPushDown
	d := NewDispatcher(f.sender, f.store, f.reminders, zap.New(core), "https://app.example.com")

	u := f.user(t, true)
	p := f.pet(t, u.ID, "Rex")
	r := f.reminder(t, u.ID, p.ID, "Bath", "2024-06-15")

	assert.True(t, d.NotifyReminder(ctx, NewSession(u.ID, testNow), r, p), "a failed send still counts as attempted")

	failures := logs.FilterMessage("failed to send notification").All()
	require.Len(t, failures, 1)
	assert.Equal(t, zapcore.ErrorLevel, failures[0].Level)
	assert.Equal(t, r.ID.String(), failures[0].ContextMap()["entity_id"])

	stored, err := f.reminders.Get(ctx, u.ID, r.ID)
	require.NoError(t, err)
	assert.False(t, stored.NotificationSent)

	var entries []models.NotificationLog
	require.NoError(t, f.store.Filter(ctx, &entries, map[string]interface{}{"entity_id": r.ID}, ""))
	require.Len(t, entries, 1)
	assert.Equal(t, "failed", entries[0].Status)
	assert.Equal(t, errPushDown.Error(), entries[0].ErrorMessage)
}
