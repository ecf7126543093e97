package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/romanzh1/daylog/internal/models"
)

var (
	habitColumns = []string{
		"id", "user_id", "name", "category", "frequency", "unit", "identity_label",
		"target_value", "min_value", "priority", "difficulty", "points", "is_paused", "created_at",
	}
	habitLogColumns = []string{"id", "habit_id", "date", "status", "value_done", "points", "day_id"}
)

func (r Store) CreateHabit(ctx context.Context, habit *models.Habit) error {
	query := r.psql.Insert("habits").
		Columns("user_id", "name", "category", "frequency", "unit", "identity_label",
			"target_value", "min_value", "priority", "difficulty", "points", "is_paused", "created_at").
		Values(habit.UserID, habit.Name, habit.Category, habit.Frequency, habit.Unit, habit.IdentityLabel,
			habit.TargetValue, habit.MinValue, habit.Priority, habit.Difficulty, habit.Points, habit.IsPaused, habit.CreatedAt)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create habit (user_id: %d, name: %s): %w", habit.UserID, habit.Name, err)
	}

	habit.ID = id
	return nil
}

func (r Store) GetHabit(ctx context.Context, habitID int64) (*models.Habit, error) {
	query := r.psql.Select(habitColumns...).From("habits").Where("id = ?", habitID)

	var habit models.Habit
	if err := r.get(ctx, &habit, query); err != nil {
		return nil, fmt.Errorf("get habit (habit_id: %d): %w", habitID, err)
	}

	return &habit, nil
}

func (r Store) UpdateHabit(ctx context.Context, habit *models.Habit) error {
	query := r.psql.Update("habits").
		Set("name", habit.Name).
		Set("category", habit.Category).
		Set("frequency", habit.Frequency).
		Set("unit", habit.Unit).
		Set("identity_label", habit.IdentityLabel).
		Set("target_value", habit.TargetValue).
		Set("min_value", habit.MinValue).
		Set("priority", habit.Priority).
		Set("difficulty", habit.Difficulty).
		Set("points", habit.Points).
		Where("id = ?", habit.ID)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (habit_id: %d): %w", habit.ID, err)
	}

	if _, err = r.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("update habit (habit_id: %d): %w", habit.ID, err)
	}
	return nil
}

func (r Store) SetHabitPaused(ctx context.Context, habitID int64, paused bool) error {
	query := r.psql.Update("habits").
		Set("is_paused", paused).
		Where("id = ?", habitID)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("set habit paused (habit_id: %d): %w", habitID, err)
	}
	return nil
}

func (r Store) DeleteHabit(ctx context.Context, habitID int64) error {
	query := r.psql.Delete("habits").Where("id = ?", habitID)

	n, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("delete habit (habit_id: %d): %w", habitID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete habit (habit_id: %d): %w", habitID, models.ErrNotFound)
	}

	return nil
}

func (r Store) GetUserHabits(ctx context.Context, userID int64, includePaused bool) ([]*models.Habit, error) {
	query := r.psql.Select(habitColumns...).From("habits").
		Where("user_id = ?", userID).
		OrderBy("priority DESC", "id")
	if !includePaused {
		query = query.Where("is_paused = ?", false)
	}

	var habits []*models.Habit
	if err := r.selectAll(ctx, &habits, query); err != nil {
		return nil, fmt.Errorf("get user habits (user_id: %d): %w", userID, err)
	}

	return habits, nil
}

func (r Store) GetHabitLog(ctx context.Context, habitID int64, date models.Date) (*models.HabitLog, error) {
	query := r.psql.Select(habitLogColumns...).From("habit_logs").
		Where("habit_id = ? AND date = ?", habitID, date)

	var log models.HabitLog
	if err := r.get(ctx, &log, query); err != nil {
		return nil, fmt.Errorf("get habit log (habit_id: %d, date: %s): %w", habitID, date, err)
	}

	return &log, nil
}

// CreateHabitLog returns models.ErrConflict if the habit already has a log for the date.
func (r Store) CreateHabitLog(ctx context.Context, log *models.HabitLog) error {
	query := r.psql.Insert("habit_logs").
		Columns("habit_id", "date", "status", "value_done", "points", "day_id").
		Values(log.HabitID, log.Date, log.Status, log.ValueDone, log.Points, log.DayID)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create habit log (habit_id: %d, date: %s): %w", log.HabitID, log.Date, err)
	}

	log.ID = id
	return nil
}

func (r Store) UpdateHabitLog(ctx context.Context, log *models.HabitLog) error {
	query := r.psql.Update("habit_logs").
		Set("status", log.Status).
		Set("value_done", log.ValueDone).
		Set("points", log.Points).
		Set("day_id", log.DayID).
		Where("id = ?", log.ID)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("update habit log (log_id: %d): %w", log.ID, err)
	}
	return nil
}

// GetHabitLogDayIDs lists the distinct days that hold a log of the habit.
func (r Store) GetHabitLogDayIDs(ctx context.Context, habitID int64) ([]int64, error) {
	query := r.psql.Select("DISTINCT day_id").From("habit_logs").
		Where("habit_id = ? AND day_id IS NOT NULL", habitID)

	var ids []int64
	if err := r.selectAll(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("get habit log days (habit_id: %d): %w", habitID, err)
	}

	return ids, nil
}

// GetUnlinkedHabitLogs returns the user's habit logs for the date that have no day yet.
func (r Store) GetUnlinkedHabitLogs(ctx context.Context, userID int64, date models.Date) ([]*models.HabitLog, error) {
	query := r.psql.Select(prefixed("hl", habitLogColumns)...).
		From("habit_logs hl").
		Join("habits h ON h.id = hl.habit_id").
		Where(squirrel.And{
			squirrel.Eq{"h.user_id": userID, "hl.date": date},
			squirrel.Expr("hl.day_id IS NULL"),
		})

	var logs []*models.HabitLog
	if err := r.selectAll(ctx, &logs, query); err != nil {
		return nil, fmt.Errorf("get unlinked habit logs (user_id: %d, date: %s): %w", userID, date, err)
	}

	return logs, nil
}

func prefixed(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
