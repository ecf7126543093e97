package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/romanzh1/daylog/internal/cache"
	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/repository"
	"github.com/stretchr/testify/require"
)

// 2026-03-01 16:00 in UTC+6, a Sunday.
var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time {
	return c.t
}

type testEnv struct {
	svc   *Service
	store *repository.Store
	clock *testClock
	cache *cache.DayCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := repository.NewDB(repository.DriverSQLite, filepath.Join(t.TempDir(), "daylog.db"), 1, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Up())

	clock := &testClock{t: testNow}
	dayCache := cache.NewMemory(time.Minute)

	return &testEnv{
		svc:   NewService(store, WithClock(clock.Now), WithCache(dayCache)),
		store: store,
		clock: clock,
		cache: dayCache,
	}
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	t.Helper()

	user, err := e.svc.CreateUser(context.Background(), name, name+"@example.com", models.RoleUser)
	require.NoError(t, err)
	return user
}

func (e *testEnv) habit(t *testing.T, userID int64, in HabitInput) *models.Habit {
	t.Helper()

	habit, err := e.svc.AddHabit(context.Background(), userID, in)
	require.NoError(t, err)
	return habit
}

// scoreFromLogs recomputes the day total directly from the log tables.
func (e *testEnv) scoreFromLogs(t *testing.T, dayID int64) int {
	t.Helper()

	b, err := e.store.GetDayBreakdown(context.Background(), dayID)
	require.NoError(t, err)
	return b.Total()
}
