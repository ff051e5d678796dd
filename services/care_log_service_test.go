package services

import (
	"context"
	"testing"
	_ "time/tzdata"

	"petcare-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCareLogSaveDefaultsStatus(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.pet(t, u.ID, "Rex")

	tests := []struct {
		nextDue string
		want    models.CareLogStatus
	}{
		{"", models.CareLogStatusCompleted},
		{"2024-06-01", models.CareLogStatusOverdue},
		{"2024-06-15", models.CareLogStatusUpcoming},
		{"2024-07-01", models.CareLogStatusUpcoming},
	}
	for _, tt := range tests {
		l, r, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{
			PetID: p.ID, Type: models.CareLogTypeWeight, Date: "2024-06-01", NextDueDate: tt.nextDue,
		}, false)
		require.NoError(t, err)
		assert.Nil(t, r)
		assert.Equal(t, tt.want, l.Status, tt.nextDue)
	}
}

func TestCareLogSaveWithReminder(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, true)
	p := f.pet(t, u.ID, "Rex")

	_, _, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{PetID: p.ID, Type: models.CareLogTypeVaccination, Date: "2024-06-01"}, true)
	assert.ErrorIs(t, err, ErrNextDueDateRequired)

	l, r, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{
		PetID: p.ID, Type: models.CareLogTypeVaccination, Title: "Rabies", Date: "2024-06-01",
		NextDueDate: "2025-06-01", ReminderIntervalDays: 7,
	}, true)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "Rabies due", r.Title)
	assert.Equal(t, models.ReminderTypeVaccination, r.Type)
	assert.Equal(t, "2025-06-01", r.DueDate)
	assert.Equal(t, 7, r.ReminderOffsetDays())
	assert.Equal(t, models.EntityTypeCareLog, *r.RelatedEntityType)
	assert.Equal(t, l.ID, *r.RelatedEntityID)

	l.NextDueDate = "2025-07-01"
	_, again, err := f.careLogs.Save(ctx, u.ID, l, true)
	require.NoError(t, err)
	assert.Equal(t, r.ID, again.ID, "saving the same log updates its reminder")
	assert.Equal(t, "2025-07-01", again.DueDate)

	list, err := f.reminders.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.careLogs.Delete(ctx, u.ID, l.ID))
	list, err = f.reminders.ListForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, list, "deleting the log removes its reminder")
}

func TestCareLogRefreshOverdue(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.pet(t, u.ID, "Rex")

	stale, _, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{
		PetID: p.ID, Type: models.CareLogTypeGrooming, Date: "2024-05-01", NextDueDate: "2024-06-10",
		Status: models.CareLogStatusUpcoming,
	}, false)
	require.NoError(t, err)
	current, _, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{
		PetID: p.ID, Type: models.CareLogTypeGrooming, Date: "2024-05-01", NextDueDate: "2024-06-15",
	}, false)
	require.NoError(t, err)

	n, err := f.careLogs.RefreshOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.careLogs.Get(ctx, u.ID, stale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CareLogStatusOverdue, got.Status)
	got, err = f.careLogs.Get(ctx, u.ID, current.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CareLogStatusUpcoming, got.Status)
}

func TestCareLogUsesOwnerDate(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, false)
	// testNow is still 2024-06-14 in Honolulu.
	require.NoError(t, f.store.Update(ctx, &models.User{}, u.ID, map[string]interface{}{"timezone": "Pacific/Honolulu"}))
	p := f.pet(t, u.ID, "Rex")

	l, _, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{
		PetID: p.ID, Type: models.CareLogTypeFeeding, Date: "2024-06-01", NextDueDate: "2024-06-14",
	}, false)
	require.NoError(t, err)
	assert.Equal(t, models.CareLogStatusUpcoming, l.Status)

	n, err := f.careLogs.RefreshOverdue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	got, err := f.careLogs.Get(ctx, u.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CareLogStatusUpcoming, got.Status)
}

func TestCareLogResaveWithoutReminderRemovesIt(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, true)
	p := f.pet(t, u.ID, "Rex")

	l, r, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{
		PetID: p.ID, Type: models.CareLogTypeMedication, Title: "Dewormer", Date: "2024-06-01", NextDueDate: "2024-09-01",
	}, true)
	require.NoError(t, err)
	require.NotNil(t, r)

	_, r, err = f.careLogs.Save(ctx, u.ID, l, false)
	require.NoError(t, err)
	assert.Nil(t, r)
	found, err := f.reminders.FindByBackReference(ctx, models.EntityTypeCareLog, l.ID)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestAppointmentSaveTwiceKeepsOneReminder(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, true)
	p := f.pet(t, u.ID, "Rex")

	a, r, err := f.appointments.Save(ctx, u.ID, &models.Appointment{
		PetID: p.ID, Title: "Annual checkup", VetName: "Dr. Smith", Date: "2024-06-20", Time: "14:30",
	}, true)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "scheduled", a.Status)
	assert.Equal(t, "Appointment: Annual checkup", r.Title)
	assert.Equal(t, "at 14:30 with Dr. Smith", r.Description)
	assert.Equal(t, models.ReminderTypeAppointment, r.Type)

	a.Date = "2024-06-21"
	_, r2, err := f.appointments.Save(ctx, u.ID, a, true)
	require.NoError(t, err)
	assert.Equal(t, r.ID, r2.ID)
	assert.Equal(t, "2024-06-21", r2.DueDate)

	found, err := f.reminders.FindByBackReference(ctx, models.EntityTypeAppointment, a.ID)
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, r3, err := f.appointments.Save(ctx, u.ID, a, false)
	require.NoError(t, err)
	assert.Nil(t, r3)
	found, err = f.reminders.FindByBackReference(ctx, models.EntityTypeAppointment, a.ID)
	require.NoError(t, err)
	assert.Empty(t, found, "re-saving without a reminder removes it")

	require.NoError(t, f.appointments.Delete(ctx, u.ID, a.ID))
	found, err = f.reminders.FindByBackReference(ctx, models.EntityTypeAppointment, a.ID)
	require.NoError(t, err)
	assert.Empty(t, found)
	_, err = f.appointments.Get(ctx, u.ID, a.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestUserServiceAuth(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()

	u, err := f.users.Register(ctx, &models.User{Email: "Owner@Example.com", Name: "Owner", Phone: "+15550002222"}, "password123")
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", u.Email)
	assert.NotEqual(t, "password123", u.Password)
	assert.Equal(t, models.PermissionDefault, u.NotificationPermission)

	_, err = f.users.Register(ctx, &models.User{Email: "owner@example.com", Name: "Again"}, "password123")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	got, err := f.users.Authenticate(ctx, "OWNER@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotNil(t, got.LastLogin)

	got, err = f.users.Authenticate(ctx, "+15550002222", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = f.users.Authenticate(ctx, "owner@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.users.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	updated, err := f.users.SetNotificationPermission(ctx, u.ID, models.PermissionGranted)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionGranted, updated.NotificationPermission)
	_, err = f.users.SetNotificationPermission(ctx, u.ID, "maybe")
	assert.ErrorIs(t, err, ErrInvalidPermission)
}
