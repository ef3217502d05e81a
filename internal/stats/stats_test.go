package stats

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoaccept/internal/models"
	"autoaccept/internal/storage/stubs"
)

func newTestService(t *testing.T, now time.Time) (*Service, *stubs.MockDB) {
	t.Helper()
	db := stubs.NewMockDB()
	service := NewService(db)
	service.now = func() time.Time { return now }
	return service, db
}

func TestReport_ClickRate(t *testing.T) {
	assert.Equal(t, 0.0, Report{}.ClickRate())
	assert.Equal(t, 0.0, Report{Stats: models.Stats{RecentClicks: 5}}.ClickRate())
	assert.InDelta(t, 0.25, Report{Stats: models.Stats{RecentJoins: 8, RecentClicks: 2}}.ClickRate(), 1e-9)
}

func TestService_GetWindows(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	service, db := newTestService(t, now)
	ctx := context.Background()

	require.NoError(t, db.RecordJoin(ctx, models.JoinEvent{UserID: 1, ChatID: 1, CreatedAt: now.AddDate(0, 0, -40)}))
	require.NoError(t, db.RecordJoin(ctx, models.JoinEvent{UserID: 2, ChatID: 1, CreatedAt: now.AddDate(0, 0, -5)}))
	require.NoError(t, db.RecordJoin(ctx, models.JoinEvent{UserID: 3, ChatID: 2, CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, db.RecordClick(ctx, models.ClickEvent{UserID: 3, CreatedAt: now.Add(-time.Minute)}))

	testCases := []struct {
		days        int
		wantJoins   int64
		wantClicks  int64
		wantAllTime bool
	}{
		{days: 1, wantJoins: 1, wantClicks: 1},
		{days: 7, wantJoins: 2, wantClicks: 1},
		{days: 30, wantJoins: 2, wantClicks: 1},
		{days: AllTimeDays, wantJoins: 3, wantClicks: 1, wantAllTime: true},
	}

	for _, tc := range testCases {
		report, err := service.Get(ctx, tc.days)
		require.NoError(t, err)
		assert.Equal(t, tc.wantJoins, report.RecentJoins, "days=%d", tc.days)
		assert.Equal(t, tc.wantClicks, report.RecentClicks, "days=%d", tc.days)
		assert.Equal(t, int64(3), report.TotalJoins)
		assert.Equal(t, int64(2), report.UniqueGroups)
		assert.Equal(t, tc.wantAllTime, report.IsAllTime())
		assert.LessOrEqual(t, report.RecentJoins, report.TotalJoins)
		assert.LessOrEqual(t, report.RecentClicks, report.TotalClicks)
	}
}

func TestService_GetZeroWindow(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	service, db := newTestService(t, now)
	ctx := context.Background()

	require.NoError(t, db.RecordJoin(ctx, models.JoinEvent{UserID: 1, ChatID: 1, CreatedAt: now.Add(-time.Second)}))

	report, err := service.Get(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, report.RecentJoins)

	require.NoError(t, db.RecordJoin(ctx, models.JoinEvent{UserID: 2, ChatID: 1, CreatedAt: now}))
	report, err = service.Get(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.RecentJoins, "an event stamped exactly now is recent")

	report, err = service.Get(ctx, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, report.WindowDays)
}

func TestService_GetHugeWindowIsAllTime(t *testing.T) {
	now := time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	service, db := newTestService(t, now)
	ctx := context.Background()

	require.NoError(t, db.RecordJoin(ctx, models.JoinEvent{UserID: 1, ChatID: 1, CreatedAt: now.AddDate(-3, 0, 0)}))

	for _, days := range []int{AllTimeDays + 1, 1 << 40, math.MaxInt} {
		report, err := service.Get(ctx, days)
		require.NoError(t, err)
		assert.Equal(t, int64(1), report.RecentJoins, "days=%d", days)
		assert.Equal(t, AllTimeDays, report.WindowDays)
		assert.True(t, report.IsAllTime())
	}
}
