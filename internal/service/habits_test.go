package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddHabitDefaults(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")

	habit := env.habit(t, user.ID, HabitInput{Name: "  Stretch  "})
	assert.Equal(t, "Stretch", habit.Name)
	assert.Equal(t, "General", habit.Category)
	assert.Equal(t, "Daily", habit.Frequency)
	assert.Equal(t, 1, habit.TargetValue)
	assert.Equal(t, 3, habit.Priority)
	assert.Equal(t, 1, habit.Difficulty)
	assert.Equal(t, 20, habit.Points)

	_, err := env.svc.AddHabit(ctx, user.ID, HabitInput{Name: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEditHabitRederivesPoints(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	habit := env.habit(t, user.ID, HabitInput{Name: "Run", Difficulty: 1, Priority: 1})
	assert.Equal(t, 10, habit.Points)

	edited, err := env.svc.EditHabit(ctx, user.ID, habit.ID, HabitInput{Name: "Run far", Difficulty: 5, Priority: 5})
	require.NoError(t, err)
	assert.Equal(t, 150, edited.Points)

	stored, err := env.store.GetHabit(ctx, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, "Run far", stored.Name)
	assert.Equal(t, 150, stored.Points)
}

func TestToggleMultiStepHabit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")

	// difficulty 2, priority 3 gives 40 base points over four steps
	habit := env.habit(t, user.ID, HabitInput{Name: "Pages", TargetValue: 4, Difficulty: 2, Priority: 3})
	require.Equal(t, 40, habit.Points)

	want := []struct {
		status bool
		value  int
		points int
	}{
		{false, 1, 10},
		{false, 2, 20},
		{false, 3, 30},
		{true, 4, 40},
		{false, 0, 0},
	}

	for i, w := range want {
		res, err := env.svc.ToggleHabit(ctx, user.ID, habit.ID)
		require.NoError(t, err, "tap %d", i+1)

		assert.Equal(t, w.status, res.Status, "tap %d", i+1)
		assert.Equal(t, w.value, res.ValueDone, "tap %d", i+1)
		assert.Equal(t, w.points, res.Points, "tap %d", i+1)
		assert.Equal(t, 4, res.TargetValue)
		assert.Equal(t, w.points, res.DayScore, "tap %d", i+1)
	}
}

func TestToggleBinaryHabitRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	habit := env.habit(t, user.ID, HabitInput{Name: "Walk", Difficulty: 3, Priority: 2})

	on, err := env.svc.ToggleHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.True(t, on.Status)
	assert.Equal(t, 1, on.ValueDone)
	assert.Equal(t, habit.Points, on.Points)

	off, err := env.svc.ToggleHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.False(t, off.Status)
	assert.Zero(t, off.ValueDone)
	assert.Zero(t, off.Points)
	assert.Zero(t, off.DayScore)
}

func TestToggleHabitRejectsOtherUser(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	habit := env.habit(t, alice.ID, HabitInput{Name: "Walk"})

	_, err := env.svc.ToggleHabit(ctx, alice.ID, habit.ID)
	require.NoError(t, err)

	_, err = env.svc.ToggleHabit(ctx, bob.ID, habit.ID)
	require.ErrorIs(t, err, ErrUnauthorized)

	var denied *AccessDeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, bob.ID, denied.UserID)
	assert.Equal(t, habit.ID, denied.ID)

	log, err := env.store.GetHabitLog(ctx, habit.ID, env.svc.Today())
	require.NoError(t, err)
	assert.True(t, log.Status)
	assert.Equal(t, habit.Points, log.Points)

	_, err = env.store.GetDay(ctx, bob.ID, env.svc.Today())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestToggleHabitNotFound(t *testing.T) {
	env := newTestEnv(t)
	user := env.user(t, "alice")

	_, err := env.svc.ToggleHabit(context.Background(), user.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleHabitUsesLocalDate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	habit := env.habit(t, user.ID, HabitInput{Name: "Walk"})

	// 19:30 UTC is already the next day in UTC+6
	env.clock.t = testNow.Add(9*time.Hour + 30*time.Minute)
	_, err := env.svc.ToggleHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	_, err = env.store.GetHabitLog(ctx, habit.ID, "2026-03-02")
	require.NoError(t, err)
	_, err = env.store.GetHabitLog(ctx, habit.ID, "2026-03-01")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteHabitRescoresDays(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	kept := env.habit(t, user.ID, HabitInput{Name: "Read", Difficulty: 1, Priority: 1})
	dropped := env.habit(t, user.ID, HabitInput{Name: "Walk", Difficulty: 2, Priority: 2})

	_, err := env.svc.ToggleHabit(ctx, user.ID, kept.ID)
	require.NoError(t, err)
	res, err := env.svc.ToggleHabit(ctx, user.ID, dropped.ID)
	require.NoError(t, err)
	require.Equal(t, kept.Points+dropped.Points, res.DayScore)

	require.NoError(t, env.svc.DeleteHabit(ctx, user.ID, dropped.ID))

	day, err := env.store.GetDay(ctx, user.ID, env.svc.Today())
	require.NoError(t, err)
	assert.Equal(t, kept.Points, day.TotalScore)

	_, err = env.store.GetHabit(ctx, dropped.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListHabitsPaused(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	low := env.habit(t, user.ID, HabitInput{Name: "Low", Priority: 1})
	high := env.habit(t, user.ID, HabitInput{Name: "High", Priority: 5})

	require.NoError(t, env.svc.SetHabitPaused(ctx, user.ID, low.ID, true))

	active, err := env.svc.ListHabits(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, high.ID, active[0].ID)

	all, err := env.svc.ListHabits(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, high.ID, all[0].ID)
	assert.Equal(t, low.ID, all[1].ID)
}

// habitLogRace misses the first log read and, on insert, stores the row a
// concurrent tap created before reporting the conflict.
type habitLogRace struct {
	models.Repository

	reads int
}

func (r *habitLogRace) GetHabitLog(ctx context.Context, habitID int64, date models.Date) (*models.HabitLog, error) {
	r.reads++
	if r.reads == 1 {
		return nil, fmt.Errorf("get habit log: %w", models.ErrNotFound)
	}
	return r.Repository.GetHabitLog(ctx, habitID, date)
}

func (r *habitLogRace) CreateHabitLog(ctx context.Context, log *models.HabitLog) error {
	winner := *log
	winner.DayID = nil
	if err := r.Repository.CreateHabitLog(ctx, &winner); err != nil {
		return err
	}
	return fmt.Errorf("create habit log: %w", models.ErrConflict)
}

func TestToggleHabitRecoversFromConflict(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	habit := env.habit(t, user.ID, HabitInput{Name: "Pages", TargetValue: 4, Difficulty: 2, Priority: 3})
	require.Equal(t, 40, habit.Points)

	repo := &habitLogRace{Repository: env.store}
	svc := NewService(repo, WithClock(env.clock.Now))

	// the other tap recorded step one, this one lands on top of it
	res, err := svc.ToggleHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ValueDone)
	assert.Equal(t, 20, res.Points)
	assert.Equal(t, 20, res.DayScore)

	day, err := env.store.GetDay(ctx, user.ID, svc.Today())
	require.NoError(t, err)

	log, err := env.store.GetHabitLog(ctx, habit.ID, svc.Today())
	require.NoError(t, err)
	assert.Equal(t, 2, log.ValueDone)
	require.NotNil(t, log.DayID)
	assert.Equal(t, day.ID, *log.DayID)

	assert.Equal(t, 20, day.TotalScore)
	assert.Equal(t, env.scoreFromLogs(t, day.ID), day.TotalScore)
}
