package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/romanzh1/daylog/internal/models"
	"github.com/romanzh1/daylog/internal/service/importer"
	"github.com/romanzh1/daylog/internal/service/scoring"
	"go.uber.org/zap"
)

const defaultImportName = "Imported Schedule"

type RoutineInput struct {
	Title     string
	DayOfWeek string
	StartTime models.Clock
	EndTime   models.Clock
	Location  *string
}

// canonicalWeekday maps any casing of an English weekday name to its canonical form.
func canonicalWeekday(day string) (string, bool) {
	for _, d := range importer.Weekdays {
		if strings.EqualFold(d, strings.TrimSpace(day)) {
			return d, true
		}
	}
	return "", false
}

func (in RoutineInput) normalize() (RoutineInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, fmt.Errorf("routine title is required: %w", ErrInvalidInput)
	}

	day, ok := canonicalWeekday(in.DayOfWeek)
	if !ok {
		return in, fmt.Errorf("unknown weekday %q: %w", in.DayOfWeek, ErrInvalidInput)
	}
	in.DayOfWeek = day

	if in.StartTime == "" {
		return in, fmt.Errorf("routine start time is required: %w", ErrInvalidInput)
	}
	if in.EndTime == "" {
		in.EndTime = in.StartTime
	}
	return in, nil
}

// CreateSchedule adds an active schedule. Other active schedules of the user
// are left active; only ImportSchedule deactivates them.
func (s *Service) CreateSchedule(ctx context.Context, actorID int64, name string) (*models.Schedule, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("schedule name is required: %w", ErrInvalidInput)
	}

	schedule := &models.Schedule{UserID: actorID, Name: name, IsActive: true}
	if err := s.repo.CreateSchedule(ctx, schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

func (s *Service) ListSchedules(ctx context.Context, actorID int64) ([]*models.Schedule, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	return s.repo.GetUserSchedules(ctx, actorID)
}

// ActiveSchedule returns the actor's active schedule with its whole week of items.
func (s *Service) ActiveSchedule(ctx context.Context, actorID int64) (*models.Schedule, []*models.RoutineItem, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, nil, err
	}

	schedule, err := s.repo.GetActiveSchedule(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repo.GetRoutineItems(ctx, schedule.ID, "")
	if err != nil {
		return nil, nil, err
	}

	return schedule, items, nil
}

func (s *Service) ownedSchedule(ctx context.Context, actorID, scheduleID int64) (*models.Schedule, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	schedule, err := s.repo.GetSchedule(ctx, scheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.UserID != actorID {
		return nil, denied(actorID, "schedule", scheduleID)
	}

	return schedule, nil
}

// ownedRoutine loads the routine item and checks its parent schedule belongs to the actor.
func (s *Service) ownedRoutine(ctx context.Context, actorID, routineID int64) (*models.RoutineItem, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetRoutineItem(ctx, routineID)
	if err != nil {
		return nil, err
	}

	schedule, err := s.repo.GetSchedule(ctx, item.ScheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.UserID != actorID {
		return nil, denied(actorID, "routine", routineID)
	}

	return item, nil
}

func (s *Service) AddRoutineItem(ctx context.Context, actorID, scheduleID int64, in RoutineInput) (*models.RoutineItem, error) {
	if _, err := s.ownedSchedule(ctx, actorID, scheduleID); err != nil {
		return nil, err
	}

	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	item := &models.RoutineItem{
		ScheduleID: scheduleID,
		Title:      in.Title,
		DayOfWeek:  in.DayOfWeek,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		Location:   in.Location,
	}

	if err := s.repo.CreateRoutineItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) EditRoutineItem(ctx context.Context, actorID, routineID int64, in RoutineInput) (*models.RoutineItem, error) {
	item, err := s.ownedRoutine(ctx, actorID, routineID)
	if err != nil {
		return nil, err
	}

	in, err = in.normalize()
	if err != nil {
		return nil, err
	}

	item.Title = in.Title
	item.DayOfWeek = in.DayOfWeek
	item.StartTime = in.StartTime
	item.EndTime = in.EndTime
	item.Location = in.Location

	if err := s.repo.UpdateRoutineItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

// DeleteRoutineItem removes the item with its logs and rescores the affected days.
func (s *Service) DeleteRoutineItem(ctx context.Context, actorID, routineID int64) error {
	if _, err := s.ownedRoutine(ctx, actorID, routineID); err != nil {
		return err
	}

	dayIDs, err := s.repo.GetRoutineLogDayIDs(ctx, []int64{routineID})
	if err != nil {
		return err
	}

	if err := s.repo.DeleteRoutineItem(ctx, routineID); err != nil {
		return err
	}

	return s.refreshDays(ctx, dayIDs)
}

// DeleteSchedule removes the schedule, its items and their logs, then rescores the affected days.
func (s *Service) DeleteSchedule(ctx context.Context, actorID, scheduleID int64) error {
	if _, err := s.ownedSchedule(ctx, actorID, scheduleID); err != nil {
		return err
	}

	items, err := s.repo.GetRoutineItems(ctx, scheduleID, "")
	if err != nil {
		return err
	}

	routineIDs := make([]int64, 0, len(items))
	for _, item := range items {
		routineIDs = append(routineIDs, item.ID)
	}

	dayIDs, err := s.repo.GetRoutineLogDayIDs(ctx, routineIDs)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteSchedule(ctx, scheduleID); err != nil {
		return err
	}

	return s.refreshDays(ctx, dayIDs)
}

// RoutinesForDate lists the active schedule's items for the date's weekday with
// their completion status on that date.
func (s *Service) RoutinesForDate(ctx context.Context, actorID int64, date models.Date) ([]models.RoutineWithStatus, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	return s.routinesForDate(ctx, actorID, date)
}

func (s *Service) routinesForDate(ctx context.Context, userID int64, date models.Date) ([]models.RoutineWithStatus, error) {
	schedule, err := s.repo.GetActiveSchedule(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := s.repo.GetRoutineItems(ctx, schedule.ID, date.Weekday().String())
	if err != nil {
		return nil, err
	}

	routines := make([]models.RoutineWithStatus, 0, len(items))
	for _, item := range items {
		rs := models.RoutineWithStatus{Item: *item}

		log, err := s.repo.GetRoutineLog(ctx, item.ID, date)
		switch {
		case err == nil:
			rs.Status = log.Status
		case !errors.Is(err, models.ErrNotFound):
			return nil, err
		}

		routines = append(routines, rs)
	}

	return routines, nil
}

// ToggleRoutine flips today's completion of a routine item, creating a
// completed log on first toggle.
func (s *Service) ToggleRoutine(ctx context.Context, actorID, routineID int64) (bool, error) {
	item, err := s.ownedRoutine(ctx, actorID, routineID)
	if err != nil {
		return false, err
	}

	today := s.Today()
	day, err := s.EnsureDay(ctx, actorID, today)
	if err != nil {
		return false, err
	}

	log, err := s.repo.GetRoutineLog(ctx, item.ID, today)
	switch {
	case errors.Is(err, models.ErrNotFound):
		log = &models.ScheduleLog{
			UserID:    actorID,
			RoutineID: &item.ID,
			Date:      today,
			Status:    true,
			Points:    scoring.RoutinePoints,
			DayID:     &day.ID,
		}

		err = s.repo.CreateScheduleLog(ctx, log)
		if errors.Is(err, models.ErrConflict) {
			zap.S().Debugw("routine log created concurrently, re-reading", "routine_id", item.ID, "date", today)
			log, err = s.repo.GetRoutineLog(ctx, item.ID, today)
			if err == nil {
				err = s.flipScheduleLog(ctx, actorID, log)
			}
		}
		if err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	default:
		if err := s.flipScheduleLog(ctx, actorID, log); err != nil {
			return false, err
		}
	}

	if _, err := s.refreshDay(ctx, actorID, day.ID, today); err != nil {
		return false, err
	}

	return log.Status, nil
}

func (s *Service) flipScheduleLog(ctx context.Context, userID int64, log *models.ScheduleLog) error {
	if err := s.AttachToDay(ctx, userID, log); err != nil {
		return err
	}

	log.Status = !log.Status
	return s.repo.SetScheduleLogStatus(ctx, log.ID, log.Status)
}

// AddTask records an ad-hoc task for today. It is not tied to a routine item
// and starts incomplete.
func (s *Service) AddTask(ctx context.Context, actorID int64, task, timeText string) (*models.ScheduleLog, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	task = strings.TrimSpace(task)
	if task == "" {
		return nil, fmt.Errorf("task text is required: %w", ErrInvalidInput)
	}

	today := s.Today()
	day, err := s.EnsureDay(ctx, actorID, today)
	if err != nil {
		return nil, err
	}

	log := &models.ScheduleLog{
		UserID: actorID,
		Task:   &task,
		Date:   today,
		Points: scoring.RoutinePoints,
		DayID:  &day.ID,
	}
	if timeText = strings.TrimSpace(timeText); timeText != "" {
		log.Time = &timeText
	}

	if err := s.repo.CreateScheduleLog(ctx, log); err != nil {
		return nil, err
	}

	return log, nil
}

// ToggleTask flips completion of an ad-hoc task. Logs tied to a routine item
// are not tasks and go through ToggleRoutine.
func (s *Service) ToggleTask(ctx context.Context, actorID, logID int64) (bool, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return false, err
	}

	log, err := s.repo.GetScheduleLog(ctx, logID)
	if err != nil {
		return false, err
	}

	if !log.IsAdHoc() {
		return false, fmt.Errorf("task (log_id: %d): %w", logID, ErrNotFound)
	}
	if log.UserID != actorID {
		return false, denied(actorID, "task", logID)
	}

	if err := s.flipScheduleLog(ctx, actorID, log); err != nil {
		return false, err
	}

	if _, err := s.refreshDay(ctx, actorID, *log.DayID, log.Date); err != nil {
		return false, err
	}

	return log.Status, nil
}

func (s *Service) Tasks(ctx context.Context, actorID int64, date models.Date) ([]*models.ScheduleLog, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	return s.repo.GetAdHocTasks(ctx, actorID, date)
}

type ImportResult struct {
	Schedule *models.Schedule
	Imported int
	Skipped  int
}

// ImportSchedule replaces the actor's active schedule with a new one built from
// parsed candidates. Candidates whose weekday or times do not parse are skipped.
func (s *Service) ImportSchedule(ctx context.Context, actorID int64, name string, candidates []importer.Candidate) (*ImportResult, error) {
	if _, err := s.actor(ctx, actorID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultImportName
	}

	result := &ImportResult{}

	err := s.repo.RunInTx(ctx, func(repo models.Repository) error {
		if err := repo.DeactivateSchedules(ctx, actorID); err != nil {
			return err
		}

		schedule := &models.Schedule{UserID: actorID, Name: name, IsActive: true}
		if err := repo.CreateSchedule(ctx, schedule); err != nil {
			return err
		}
		result.Schedule = schedule

		for i, c := range candidates {
			item, err := routineFromCandidate(schedule.ID, c)
			if err != nil {
				zap.S().Warnw("skipping imported row", "row", i, "error", err)
				result.Skipped++
				continue
			}

			if err := repo.CreateRoutineItem(ctx, item); err != nil {
				return err
			}
			result.Imported++
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("import schedule (user_id: %d): %w", actorID, err)
	}

	zap.S().Infow("schedule imported", "user_id", actorID, "schedule_id", result.Schedule.ID,
		"imported", result.Imported, "skipped", result.Skipped)

	return result, nil
}

func routineFromCandidate(scheduleID int64, c importer.Candidate) (*models.RoutineItem, error) {
	title := strings.TrimSpace(c.Title)
	if title == "" {
		return nil, fmt.Errorf("missing title: %w", ErrInvalidInput)
	}

	day, ok := canonicalWeekday(c.Day)
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q: %w", c.Day, ErrInvalidInput)
	}

	start, err := importer.ParseClock(c.Start)
	if err != nil {
		return nil, err
	}

	end := start
	if strings.TrimSpace(c.End) != "" {
		if end, err = importer.ParseClock(c.End); err != nil {
			return nil, err
		}
	}

	return &models.RoutineItem{
		ScheduleID: scheduleID,
		Title:      title,
		DayOfWeek:  day,
		StartTime:  start,
		EndTime:    end,
	}, nil
}
