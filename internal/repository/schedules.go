package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/romanzh1/daylog/internal/models"
)

var (
	scheduleColumns    = []string{"id", "user_id", "name", "is_active"}
	routineColumns     = []string{"id", "schedule_id", "title", "day_of_week", "start_time", "end_time", "location"}
	scheduleLogColumns = []string{"id", "user_id", "routine_id", "task", "task_time", "date", "status", "points", "day_id"}
)

func (r Store) CreateSchedule(ctx context.Context, schedule *models.Schedule) error {
	query := r.psql.Insert("schedules").
		Columns("user_id", "name", "is_active").
		Values(schedule.UserID, schedule.Name, schedule.IsActive)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create schedule (user_id: %d, name: %s): %w", schedule.UserID, schedule.Name, err)
	}

	schedule.ID = id
	return nil
}

func (r Store) GetSchedule(ctx context.Context, scheduleID int64) (*models.Schedule, error) {
	query := r.psql.Select(scheduleColumns...).From("schedules").Where("id = ?", scheduleID)

	var schedule models.Schedule
	if err := r.get(ctx, &schedule, query); err != nil {
		return nil, fmt.Errorf("get schedule (schedule_id: %d): %w", scheduleID, err)
	}

	return &schedule, nil
}

// GetActiveSchedule returns the most recently created active schedule of the user.
func (r Store) GetActiveSchedule(ctx context.Context, userID int64) (*models.Schedule, error) {
	query := r.psql.Select(scheduleColumns...).From("schedules").
		Where("user_id = ? AND is_active = ?", userID, true).
		OrderBy("id DESC").
		Limit(1)

	var schedule models.Schedule
	if err := r.get(ctx, &schedule, query); err != nil {
		return nil, fmt.Errorf("get active schedule (user_id: %d): %w", userID, err)
	}

	return &schedule, nil
}

func (r Store) GetUserSchedules(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	query := r.psql.Select(scheduleColumns...).From("schedules").
		Where("user_id = ?", userID).
		OrderBy("id")

	var schedules []*models.Schedule
	if err := r.selectAll(ctx, &schedules, query); err != nil {
		return nil, fmt.Errorf("get user schedules (user_id: %d): %w", userID, err)
	}

	return schedules, nil
}

func (r Store) DeactivateSchedules(ctx context.Context, userID int64) error {
	query := r.psql.Update("schedules").
		Set("is_active", false).
		Where("user_id = ? AND is_active = ?", userID, true)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("deactivate schedules (user_id: %d): %w", userID, err)
	}
	return nil
}

func (r Store) DeleteSchedule(ctx context.Context, scheduleID int64) error {
	query := r.psql.Delete("schedules").Where("id = ?", scheduleID)

	n, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("delete schedule (schedule_id: %d): %w", scheduleID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete schedule (schedule_id: %d): %w", scheduleID, models.ErrNotFound)
	}

	return nil
}

func (r Store) CreateRoutineItem(ctx context.Context, item *models.RoutineItem) error {
	query := r.psql.Insert("routine_items").
		Columns("schedule_id", "title", "day_of_week", "start_time", "end_time", "location").
		Values(item.ScheduleID, item.Title, item.DayOfWeek, item.StartTime, item.EndTime, item.Location)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create routine item (schedule_id: %d, title: %s): %w", item.ScheduleID, item.Title, err)
	}

	item.ID = id
	return nil
}

func (r Store) GetRoutineItem(ctx context.Context, routineID int64) (*models.RoutineItem, error) {
	query := r.psql.Select(routineColumns...).From("routine_items").Where("id = ?", routineID)

	var item models.RoutineItem
	if err := r.get(ctx, &item, query); err != nil {
		return nil, fmt.Errorf("get routine item (routine_id: %d): %w", routineID, err)
	}

	return &item, nil
}

func (r Store) UpdateRoutineItem(ctx context.Context, item *models.RoutineItem) error {
	query := r.psql.Update("routine_items").
		Set("title", item.Title).
		Set("day_of_week", item.DayOfWeek).
		Set("start_time", item.StartTime).
		Set("end_time", item.EndTime).
		Set("location", item.Location).
		Where("id = ?", item.ID)

	if _, err := r.exec(ctx, query); err != nil {
		return fmt.Errorf("update routine item (routine_id: %d): %w", item.ID, err)
	}
	return nil
}

func (r Store) DeleteRoutineItem(ctx context.Context, routineID int64) error {
	query := r.psql.Delete("routine_items").Where("id = ?", routineID)

	n, err := r.exec(ctx, query)
	if err != nil {
		return fmt.Errorf("delete routine item (routine_id: %d): %w", routineID, err)
	}
	if n == 0 {
		return fmt.Errorf("delete routine item (routine_id: %d): %w", routineID, models.ErrNotFound)
	}

	return nil
}

// GetRoutineItems lists a schedule's items ordered by start time. An empty
// dayOfWeek returns the whole week.
func (r Store) GetRoutineItems(ctx context.Context, scheduleID int64, dayOfWeek string) ([]*models.RoutineItem, error) {
	query := r.psql.Select(routineColumns...).From("routine_items").
		Where("schedule_id = ?", scheduleID).
		OrderBy("start_time", "id")
	if dayOfWeek != "" {
		query = query.Where("day_of_week = ?", dayOfWeek)
	}

	var items []*models.RoutineItem
	if err := r.selectAll(ctx, &items, query); err != nil {
		return nil, fmt.Errorf("get routine items (schedule_id: %d, day: %s): %w", scheduleID, dayOfWeek, err)
	}

	return items, nil
}

func (r Store) GetScheduleLog(ctx context.Context, logID int64) (*models.ScheduleLog, error) {
	query := r.psql.Select(scheduleLogColumns...).From("schedule_logs").Where("id = ?", logID)

	var log models.ScheduleLog
	if err := r.get(ctx, &log, query); err != nil {
		return nil, fmt.Errorf("get schedule log (log_id: %d): %w", logID, err)
	}

	return &log, nil
}

func (r Store) GetRoutineLog(ctx context.Context, routineID int64, date models.Date) (*models.ScheduleLog, error) {
	query := r.psql.Select(scheduleLogColumns...).From("schedule_logs").
		Where("routine_id = ? AND date = ?", routineID, date)

	var log models.ScheduleLog
	if err := r.get(ctx, &log, query); err != nil {
		return nil, fmt.Errorf("get routine log (routine_id: %d, date: %s): %w", routineID, date, err)
	}

	return &log, nil
}

// CreateScheduleLog returns models.ErrConflict if the routine already has a log for the date.
func (r Store) CreateScheduleLog(ctx context.Context, log *models.ScheduleLog) error {
	query := r.psql.Insert("schedule_logs").
		Columns("user_id", "routine_id", "task", "task_time", "date", "status", "points", "day_id").
		Values(log.UserID, log.RoutineID, log.Task, log.Time, log.Date, log.Status, log.Points, log.DayID)

	id, err := r.insertReturningID(ctx, query)
	if err != nil {
		return fmt.Errorf("create schedule log (user_id: %d, date: %s): %w", log.UserID, log.Date, err)
	}

	log.ID = id
	return nil
}

func (r Store) SetScheduleLogStatus(ctx context.Context, logID int64, status bool) error {
	query := r.psql.Update("schedule_logs").
		Set("status", status).
		Where("id = ?", logID)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build SQL query (log_id: %d): %w", logID, err)
	}

	if _, err = r.ExecContext(ctx, sql, args...); err != nil {
		return fmt.Errorf("set schedule log status (log_id: %d): %w", logID, err)
	}
	return nil
}

// GetAdHocTasks lists the user's logs for the date that are not tied to a routine item.
func (r Store) GetAdHocTasks(ctx context.Context, userID int64, date models.Date) ([]*models.ScheduleLog, error) {
	query := r.psql.Select(scheduleLogColumns...).From("schedule_logs").
		Where("user_id = ? AND date = ? AND routine_id IS NULL", userID, date).
		OrderBy("id")

	var logs []*models.ScheduleLog
	if err := r.selectAll(ctx, &logs, query); err != nil {
		return nil, fmt.Errorf("get ad-hoc tasks (user_id: %d, date: %s): %w", userID, date, err)
	}

	return logs, nil
}

func (r Store) GetUnlinkedScheduleLogs(ctx context.Context, userID int64, date models.Date) ([]*models.ScheduleLog, error) {
	query := r.psql.Select(scheduleLogColumns...).From("schedule_logs").
		Where("user_id = ? AND date = ? AND day_id IS NULL", userID, date)

	var logs []*models.ScheduleLog
	if err := r.selectAll(ctx, &logs, query); err != nil {
		return nil, fmt.Errorf("get unlinked schedule logs (user_id: %d, date: %s): %w", userID, date, err)
	}

	return logs, nil
}

// GetRoutineLogDayIDs lists the distinct days holding a log of any of the routine items.
func (r Store) GetRoutineLogDayIDs(ctx context.Context, routineIDs []int64) ([]int64, error) {
	if len(routineIDs) == 0 {
		return nil, nil
	}

	query := r.psql.Select("DISTINCT day_id").From("schedule_logs").
		Where(squirrel.And{
			squirrel.Eq{"routine_id": routineIDs},
			squirrel.NotEq{"day_id": nil},
		})

	var ids []int64
	if err := r.selectAll(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("get routine log days (count: %d): %w", len(routineIDs), err)
	}

	return ids, nil
}
