package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday(t *testing.T) {
	clock := &testClock{t: time.Date(2026, 3, 1, 17, 59, 0, 0, time.UTC)}
	svc := NewService(nil, WithClock(clock.Now))
	assert.Equal(t, models.Date("2026-03-01"), svc.Today())

	clock.t = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, models.Date("2026-03-02"), svc.Today())
}

func TestEnsureDayIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")

	first, err := env.svc.EnsureDay(ctx, user.ID, "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, defaultEnergy, first.EnergyLevel)
	assert.Equal(t, defaultMood, first.Mood)
	assert.Zero(t, first.TotalScore)

	second, err := env.svc.EnsureDay(ctx, user.ID, "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := env.svc.EnsureDay(ctx, user.ID, "2026-03-02")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

// SQLite runs on a single connection, so these calls serialize and never hit
// the conflict branch. TestEnsureDayRecoversFromConflict covers that path.
func TestEnsureDaySerializedCallers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")

	const workers = 8
	ids := make([]int64, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			day, err := env.svc.EnsureDay(ctx, user.ID, "2026-03-01")
			errs[i] = err
			if err == nil {
				ids[i] = day.ID
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}

	days, err := env.store.GetDaysInRange(ctx, user.ID, "2026-03-01", "2026-03-01")
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

// racingRepo loses the insert race: the first read misses, the insert conflicts,
// and the re-read finds the row another request created.
type racingRepo struct {
	models.Repository

	winner  *models.Day
	reads   int
	inserts int
}

func (r *racingRepo) GetDay(ctx context.Context, userID int64, date models.Date) (*models.Day, error) {
	r.reads++
	if r.reads == 1 {
		return nil, fmt.Errorf("get day: %w", models.ErrNotFound)
	}
	return r.winner, nil
}

func (r *racingRepo) CreateDay(ctx context.Context, day *models.Day) error {
	r.inserts++
	return fmt.Errorf("create day: %w", models.ErrConflict)
}

func TestEnsureDayRecoversFromConflict(t *testing.T) {
	repo := &racingRepo{winner: &models.Day{ID: 41, UserID: 7, Date: "2026-03-01", TotalScore: 30}}
	svc := NewService(repo)

	day, err := svc.EnsureDay(context.Background(), 7, "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, int64(41), day.ID)
	assert.Equal(t, 2, repo.reads)
	assert.Equal(t, 1, repo.inserts)
}

func TestRecomputeMissingDay(t *testing.T) {
	env := newTestEnv(t)

	score, err := env.svc.Recompute(context.Background(), 12345)
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestAggregationLaw(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")

	stepped := env.habit(t, user.ID, HabitInput{Name: "Pages", TargetValue: 4, Difficulty: 2, Priority: 3})
	binary := env.habit(t, user.ID, HabitInput{Name: "Walk", Difficulty: 1, Priority: 1})

	schedule, err := env.svc.CreateSchedule(ctx, user.ID, "Week")
	require.NoError(t, err)
	routine, err := env.svc.AddRoutineItem(ctx, user.ID, schedule.ID, RoutineInput{
		Title: "CSE 110", DayOfWeek: "Sunday", StartTime: "09:30", EndTime: "11:00",
	})
	require.NoError(t, err)

	type step struct {
		name string
		do   func() error
	}
	steps := []step{
		{"tap stepped", func() error { _, err := env.svc.ToggleHabit(ctx, user.ID, stepped.ID); return err }},
		{"tap binary", func() error { _, err := env.svc.ToggleHabit(ctx, user.ID, binary.ID); return err }},
		{"fajr", func() error { _, err := env.svc.SetPrayer(ctx, user.ID, "fajr", true); return err }},
		{"routine on", func() error { _, err := env.svc.ToggleRoutine(ctx, user.ID, routine.ID); return err }},
		{"tap stepped", func() error { _, err := env.svc.ToggleHabit(ctx, user.ID, stepped.ID); return err }},
		{"isha", func() error { _, err := env.svc.SetPrayer(ctx, user.ID, "isha", true); return err }},
		{"routine off", func() error { _, err := env.svc.ToggleRoutine(ctx, user.ID, routine.ID); return err }},
		{"untap binary", func() error { _, err := env.svc.ToggleHabit(ctx, user.ID, binary.ID); return err }},
		{"routine on", func() error { _, err := env.svc.ToggleRoutine(ctx, user.ID, routine.ID); return err }},
	}

	for _, st := range steps {
		require.NoError(t, st.do(), st.name)

		day, err := env.store.GetDay(ctx, user.ID, env.svc.Today())
		require.NoError(t, err)
		assert.Equal(t, env.scoreFromLogs(t, day.ID), day.TotalScore, "after %s", st.name)
	}

	day, err := env.store.GetDay(ctx, user.ID, env.svc.Today())
	require.NoError(t, err)
	// stepped at 2/4 of 40, binary off, two prayers, routine on
	assert.Equal(t, 20+0+200+10, day.TotalScore)
}

func TestAttachToDayRepairsOrphans(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	habit := env.habit(t, user.ID, HabitInput{Name: "Read", Difficulty: 1, Priority: 1})
	today := env.svc.Today()

	orphan := &models.HabitLog{HabitID: habit.ID, Date: today, Status: true, ValueDone: 1, Points: habit.Points}
	require.NoError(t, env.store.CreateHabitLog(ctx, orphan))

	task := "legacy task"
	legacy := &models.ScheduleLog{UserID: user.ID, Task: &task, Date: today, Status: true, Points: 10}
	require.NoError(t, env.store.CreateScheduleLog(ctx, legacy))

	snapshot, err := env.svc.DayAggregate(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, habit.Points, snapshot.Breakdown.HabitPoints)
	assert.Equal(t, 10, snapshot.Breakdown.SchedulePoints)
	assert.Equal(t, habit.Points+10, snapshot.Day.TotalScore)

	got, err := env.store.GetHabitLog(ctx, habit.ID, today)
	require.NoError(t, err)
	require.NotNil(t, got.DayID)
	assert.Equal(t, snapshot.Day.ID, *got.DayID)

	require.NoError(t, env.svc.AttachToDay(ctx, user.ID, got))
	assert.Equal(t, snapshot.Day.ID, *got.DayID)
}

func TestUpdateDay(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")

	intention := "focus"
	energy, mood := 5, 9
	score, err := env.svc.UpdateDay(ctx, user.ID, DayUpdate{Intention: &intention, EnergyLevel: &energy, Mood: &mood})
	require.NoError(t, err)
	assert.Zero(t, score)

	day, err := env.store.GetDay(ctx, user.ID, env.svc.Today())
	require.NoError(t, err)
	require.NotNil(t, day.Intention)
	assert.Equal(t, "focus", *day.Intention)
	assert.Equal(t, 5, day.EnergyLevel)
	assert.Equal(t, defaultMood, day.Mood)
	assert.Nil(t, day.Reflection)

	_, err = env.svc.SetPrayer(ctx, user.ID, "asr", true)
	require.NoError(t, err)

	reflection := "good day"
	score, err = env.svc.UpdateDay(ctx, user.ID, DayUpdate{Reflection: &reflection})
	require.NoError(t, err)
	assert.Equal(t, 100, score)

	day, err = env.store.GetDay(ctx, user.ID, env.svc.Today())
	require.NoError(t, err)
	assert.Equal(t, "focus", *day.Intention)
	assert.Equal(t, "good day", *day.Reflection)
}

func TestDayAggregateCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")
	habit := env.habit(t, user.ID, HabitInput{Name: "Read", Difficulty: 1, Priority: 1})
	today := env.svc.Today()

	snapshot, err := env.svc.DayAggregate(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Zero(t, snapshot.Day.TotalScore)

	cached, err := env.cache.Get(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Day.ID, cached.Day.ID)

	// writes that bypass the service are not seen until the entry is invalidated
	require.NoError(t, env.store.SetDayScore(ctx, snapshot.Day.ID, 999))
	stale, err := env.svc.DayAggregate(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Zero(t, stale.Day.TotalScore)

	_, err = env.svc.ToggleHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	fresh, err := env.svc.DayAggregate(ctx, user.ID, today)
	require.NoError(t, err)
	assert.Equal(t, habit.Points, fresh.Day.TotalScore)
	assert.Equal(t, models.DayBreakdown{HabitPoints: habit.Points}, fresh.Breakdown)
}

func TestDayAggregateWithoutCache(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := NewService(env.store, WithClock(env.clock.Now))
	user := env.user(t, "alice")

	snapshot, err := svc.DayAggregate(ctx, user.ID, "2026-02-20")
	require.NoError(t, err)
	assert.Equal(t, models.Date("2026-02-20"), snapshot.Day.Date)
	assert.Zero(t, snapshot.Breakdown.Total())
}

func TestScoreHistory(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	user := env.user(t, "alice")

	env.clock.t = testNow.AddDate(0, 0, -2)
	_, err := env.svc.SetPrayer(ctx, user.ID, "fajr", true)
	require.NoError(t, err)
	_, err = env.svc.SetPrayer(ctx, user.ID, "dhuhr", true)
	require.NoError(t, err)

	env.clock.t = testNow
	_, err = env.svc.SetPrayer(ctx, user.ID, "fajr", true)
	require.NoError(t, err)

	history, err := env.svc.ScoreHistory(ctx, user.ID, 3)
	require.NoError(t, err)
	require.Len(t, history.Days, 3)

	assert.Equal(t, models.Date("2026-02-27"), history.Days[0].Date)
	assert.Equal(t, 200, history.Days[0].Total)
	assert.Equal(t, models.Date("2026-02-28"), history.Days[1].Date)
	assert.Zero(t, history.Days[1].Total)
	assert.Equal(t, models.Date("2026-03-01"), history.Days[2].Date)
	assert.Equal(t, 100, history.Days[2].Breakdown.PrayerPoints)

	assert.Equal(t, 300, history.TotalScore)
	assert.Equal(t, 100, history.AvgDaily)
	assert.Equal(t, 200, history.BestDay)

	history, err = env.svc.ScoreHistory(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history.Days, defaultHistory)

	history, err = env.svc.ScoreHistory(ctx, user.ID, 1_000_000)
	require.NoError(t, err)
	require.Len(t, history.Days, maxHistory)
	assert.Equal(t, models.Date("2025-03-01"), history.Days[0].Date)
	assert.Equal(t, models.Date("2026-03-01"), history.Days[maxHistory-1].Date)
	assert.Equal(t, 300, history.TotalScore)
}
