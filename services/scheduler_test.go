package services

import (
	"context"
	"testing"

	"petcare-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchedulerRejectsBadSpec(t *testing.T) {
	f := newFixture(t, testNow, false)
	s := NewScheduler(f.careLogs, zap.NewNop())
	assert.Error(t, s.Start("every morning"))
}

func TestSchedulerRefreshCareLogs(t *testing.T) {
	f := newFixture(t, testNow, false)
	ctx := context.Background()
	u := f.user(t, false)
	p := f.pet(t, u.ID, "Rex")
	l, _, err := f.careLogs.Save(ctx, u.ID, &models.CareLog{
		PetID: p.ID, Type: models.CareLogTypeFeeding, Date: "2024-06-01", NextDueDate: "2024-06-14",
		Status: models.CareLogStatusUpcoming,
	}, false)
	require.NoError(t, err)

	s := NewScheduler(f.careLogs, zap.NewNop())
	require.NoError(t, s.Start("0 6 * * *"))
	defer s.Stop()

	s.RefreshCareLogs()

	got, err := f.careLogs.Get(ctx, u.ID, l.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CareLogStatusOverdue, got.Status)
}
