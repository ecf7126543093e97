package repository

import (
	"context"
	"fmt"

	"github.com/romanzh1/daylog/internal/models"
)

var dayColumns = []string{"id", "user_id", "date", "intention", "energy_level", "mood", "reflection", "total_score"}

func (r Store) GetDay(ctx context.Context, userID int64, date models.Date) (*models.Day, error) {
	query := r.psql.Select(dayColumns...).From("days").
		Where("user_id = ? AND date = ?", userID, date)

	var day models.Day
	if err := r.get(ctx, &day, query); err != nil {
		return nil, fmt.Errorf("get day (user_id: %d, date: %s): %w", userID, date, err)
	}

	return &day, nil
}

func (r Store) GetDayByID(ctx context.Context, dayID int64) (*models.Day, error) {
	query := r.psql.Select(dayColumns...).From("days").Where("id = ?", dayID)

	var day models.Day
	if err := r.get(ctx, &day, query); err != nil {
		return nil, fmt.Errorf("get day (day_id: %d): %w", dayID, err)
	}

	return &day, nil
}

// CreateDay inserts the day and returns models.ErrConflict if (user_id, date) is taken.
func (r Store) CreateDay(ctx context.Context, day *models.Day) error {
	query := r.psql.Insert("days").
		Columns("user_id", "date", "intention", "energy_level", "mood", "reflection", "total_score").
		Values(day.UserID, day.Date, day.Intention, day.EnergyLevel, day.Mood, day.Reflection, day.TotalScore)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create day (user_id: %d, date: %s): %w", day.UserID, day.Date, err)
	}

	day.ID = id
	return nil
}

func (r Store) UpdateDayDetails(ctx context.Context, day *models.Day) error {
	query := r.psql.Update("days").
		Set("intention", day.Intention).
		Set("energy_level", day.EnergyLevel).
		Set("mood", day.Mood).
		Set("reflection", day.Reflection).
		Where("id = ?", day.ID)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (day_id: %d): %w", day.ID, err)
	}

	if _, err = r.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("update day details (day_id: %d): %w", day.ID, err)
	}
	return nil
}

func (r Store) SetDayScore(ctx context.Context, dayID int64, score int) error {
	query := r.psql.Update("days").
		Set("total_score", score).
		Where("id = ?", dayID)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("set day score (day_id: %d): %w", dayID, err)
	}
	return nil
}

// GetDaysInRange returns the user's days between from and to inclusive, oldest first.
func (r Store) GetDaysInRange(ctx context.Context, userID int64, from, to models.Date) ([]*models.Day, error) {
	query := r.psql.Select(dayColumns...).From("days").
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		OrderBy("date")

	var days []*models.Day
	if err := r.selectAll(ctx, &days, query); err != nil {
		return nil, fmt.Errorf("get days in range (user_id: %d, from: %s, to: %s): %w", userID, from, to, err)
	}

	return days, nil
}

// GetDayBreakdown sums the three log sources attached to the day. Schedule
// logs only count when completed; habit and prayer rows already hold zero
// when incomplete.
func (r Store) GetDayBreakdown(ctx context.Context, dayID int64) (models.DayBreakdown, error) {
	var b models.DayBreakdown

	habits := r.psql.Select("COALESCE(SUM(points), 0)").From("habit_logs").
		Where("day_id = ?", dayID)
	if err := r.get(ctx, &b.HabitPoints, habits); err != nil {
		return b, fmt.Errorf("sum habit points (day_id: %d): %w", dayID, err)
	}

	prayers := r.psql.Select("COALESCE(SUM(spiritual_score), 0)").From("prayer_logs").
		Where("day_id = ?", dayID)
	if err := r.get(ctx, &b.PrayerPoints, prayers); err != nil {
		return b, fmt.Errorf("sum prayer points (day_id: %d): %w", dayID, err)
	}

	schedule := r.psql.Select("COALESCE(SUM(points), 0)").From("schedule_logs").
		Where("day_id = ? AND status = ?", dayID, true)
	if err := r.get(ctx, &b.SchedulePoints, schedule); err != nil {
		return b, fmt.Errorf("sum schedule points (day_id: %d): %w", dayID, err)
	}

	return b, nil
}

// SetLogDay attaches a log row of the given kind to a day.
func (r Store) SetLogDay(ctx context.Context, kind models.LogKind, logID, dayID int64) error {
	switch kind {
	case models.LogHabit, models.LogPrayer, models.LogSchedule:
	default:
		return fmt.Errorf("set log day: unknown log kind %q", kind)
	}

	query := r.psql.Update(string(kind)).
		Set("day_id", dayID).
		Where("id = ?", logID)

	n, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("set log day (table: %s, log_id: %d, day_id: %d): %w", kind, logID, dayID, err)
	}
	if n == 0 {
		return fmt.Errorf("set log day (table: %s, log_id: %d): %w", kind, logID, models.ErrNotFound)
	}

	return nil
}
